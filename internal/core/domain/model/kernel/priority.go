package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Priority ranks orders and batches for production. Higher values are served
// first: Urgent > High > Normal > Low.
type Priority int

const (
	// PriorityUnknown is the zero value and never valid.
	PriorityUnknown Priority = iota
	PriorityLow
	PriorityNormal
	PriorityHigh
	PriorityUrgent
)

var priorityNames = map[Priority]string{
	PriorityLow:    "low",
	PriorityNormal: "normal",
	PriorityHigh:   "high",
	PriorityUrgent: "urgent",
}

// Priorities lists every valid priority from lowest to highest.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent}
}

// ParsePriority maps the persisted or wire name to a Priority. An empty string
// yields PriorityNormal.
func ParsePriority(s string) (Priority, error) {
	if s == "" {
		return PriorityNormal, nil
	}
	for p, name := range priorityNames {
		if name == s {
			return p, nil
		}
	}
	return PriorityUnknown, errs.NewValueIsInvalidErrorWithCause("priority",
		fmt.Errorf("%q is not one of low, normal, high, urgent", s))
}

// String returns the lowercase name, or "unknown".
func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return "unknown"
}

// Rank is the ordering weight used by attention views and kitchen queues.
func (p Priority) Rank() int {
	return int(p)
}

// NeedsAttention reports whether the priority alone flags a non-terminal
// order or batch for the attention views.
func (p Priority) NeedsAttention() bool {
	return p == PriorityHigh || p == PriorityUrgent
}

// Validate rejects PriorityUnknown and out of range values.
func (p Priority) Validate() error {
	if _, ok := priorityNames[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("priority", fmt.Errorf("%d is not a valid priority", p))
	}
	return nil
}
