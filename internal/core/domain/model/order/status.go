package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	received ──> preparing ──> packing ──> ready ──> dispatched ──> completed
//	    │            │            │          │           │
//	    └────────────┴────────────┴──────────┴───────────┴──> cancelled
//
// Batch operations use two extra edges that callers cannot request directly:
// preparing|packing ──> ready on batch completion and preparing|packing ──>
// received on batch cancellation.
type Status int

const (
	// Unknown is the zero value and catches uninitialised statuses.
	Unknown Status = iota
	Received
	Preparing
	Packing
	Ready
	Dispatched
	Completed
	Cancelled
)

var statusNames = map[Status]string{
	Received:   "received",
	Preparing:  "preparing",
	Packing:    "packing",
	Ready:      "ready",
	Dispatched: "dispatched",
	Completed:  "completed",
	Cancelled:  "cancelled",
}

// transitions lists the caller reachable successors of every status.
var transitions = map[Status][]Status{
	Received:   {Preparing, Cancelled},
	Preparing:  {Packing, Cancelled},
	Packing:    {Ready, Cancelled},
	Ready:      {Dispatched, Cancelled},
	Dispatched: {Completed, Cancelled},
	Completed:  nil,
	Cancelled:  nil,
}

// ActiveStatuses are the statuses that consume kitchen capacity.
func ActiveStatuses() []Status {
	return []Status{Received, Preparing, Packing}
}

// Statuses lists every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{Received, Preparing, Packing, Ready, Dispatched, Completed, Cancelled}
}

// ParseStatus maps a persisted or wire name to its Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not an order status", s))
}

// String returns the lowercase name, or "unknown".
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// Validate rejects Unknown and out of range values.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// IsActive reports whether an order in this status consumes kitchen capacity.
func (s Status) IsActive() bool {
	return s == Received || s == Preparing || s == Packing
}

// IsBatchable reports whether an order in this status may be added to a new
// batch.
func (s Status) IsBatchable() bool {
	return s == Received || s == Preparing
}

// CanTransitionTo reports whether next is a caller reachable successor.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionTo returns next when the table allows it, otherwise an
// InvalidTransitionError carrying both states.
func (s Status) TransitionTo(next Status) (Status, error) {
	if !s.CanTransitionTo(next) {
		return s, errs.NewInvalidTransitionError("order", s.String(), next.String())
	}
	return next, nil
}
