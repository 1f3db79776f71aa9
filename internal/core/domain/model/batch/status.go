package batch

import (
	"fmt"
	"slices"

	"fulfillment/internal/pkg/errs"
)

// Status is shared by batches and batch items.
//
//	pending ──> in_progress ──> completed
//	   │             │
//	   └─────────────┴──> cancelled
//
// An item may also go straight from pending to completed.
type Status int

const (
	Unknown Status = iota
	Pending
	InProgress
	Completed
	Cancelled
)

var statusNames = map[Status]string{
	Pending:    "pending",
	InProgress: "in_progress",
	Completed:  "completed",
	Cancelled:  "cancelled",
}

var transitions = map[Status][]Status{
	Pending:    {InProgress, Cancelled},
	InProgress: {Completed, Cancelled},
}

var itemTransitions = map[Status][]Status{
	Pending:    {InProgress, Completed, Cancelled},
	InProgress: {Completed, Cancelled},
}

// Statuses lists every valid status.
func Statuses() []Status {
	return []Status{Pending, InProgress, Completed, Cancelled}
}

// OpenStatuses are the statuses of a batch that still claims its orders.
func OpenStatuses() []Status {
	return []Status{Pending, InProgress}
}

func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a batch status", s))
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) IsOpen() bool {
	return s == Pending || s == InProgress
}

func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// CanTransitionTo reports whether a batch may move from s to next.
func (s Status) CanTransitionTo(next Status) bool {
	return slices.Contains(transitions[s], next)
}

// CanItemTransitionTo reports whether a batch item may move from s to next.
func (s Status) CanItemTransitionTo(next Status) bool {
	return slices.Contains(itemTransitions[s], next)
}

func (s Status) transition(next Status) error {
	if !s.CanTransitionTo(next) {
		return errs.NewInvalidTransitionError("batch", s.String(), next.String())
	}
	return nil
}

func (s Status) itemTransition(next Status) error {
	if !s.CanItemTransitionTo(next) {
		return errs.NewInvalidTransitionError("batch item", s.String(), next.String())
	}
	return nil
}
