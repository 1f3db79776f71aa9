package errs

import (
	"errors"
	"fmt"
)

// Domain level sentinels. Each one corresponds to a Kind reported to callers.
var (
	ErrInvalidZone        = errors.New("zone does not exist or is inactive")
	ErrInvalidKitchen     = errors.New("kitchen does not exist or is inactive")
	ErrInvalidRole        = errors.New("role does not exist or is inactive")
	ErrInvalidOrderSet    = errors.New("order set is invalid")
	ErrNoCapacity         = errors.New("no kitchen has available capacity")
	ErrInvalidTransition  = errors.New("status transition is not allowed")
	ErrAccessDenied       = errors.New("access denied")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrPersistenceFailure = errors.New("persistence failure")
	ErrDuplicateRequest   = errors.New("duplicate request")
)

// InvalidTransitionError carries the current and requested states of a rejected
// status change so they can be surfaced verbatim.
type InvalidTransitionError struct {
	Entity    string
	Current   string
	Requested string
}

// NewInvalidTransitionError creates an InvalidTransitionError for entity.
func NewInvalidTransitionError(entity, current, requested string) *InvalidTransitionError {
	return &InvalidTransitionError{
		Entity:    entity,
		Current:   current,
		Requested: requested,
	}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s cannot move from %s to %s",
		ErrInvalidTransition, e.Entity, e.Current, e.Requested)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// InvalidOrderSetError names the first order that disqualified a batch request.
type InvalidOrderSetError struct {
	OrderID string
	Reason  string
}

// NewInvalidOrderSetError creates an InvalidOrderSetError.
func NewInvalidOrderSetError(orderID, reason string) *InvalidOrderSetError {
	return &InvalidOrderSetError{
		OrderID: orderID,
		Reason:  reason,
	}
}

func (e *InvalidOrderSetError) Error() string {
	if e.OrderID == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidOrderSet, e.Reason)
	}
	return fmt.Sprintf("%s: order %s %s", ErrInvalidOrderSet, e.OrderID, e.Reason)
}

func (e *InvalidOrderSetError) Unwrap() error {
	return ErrInvalidOrderSet
}

// PersistenceFailureError wraps a storage error that aborted the enclosing
// transaction. Both ErrPersistenceFailure and the cause are reachable through
// errors.Is and errors.As. Transient marks conflicts (serialization failure,
// deadlock) after which the whole transaction may be replayed.
type PersistenceFailureError struct {
	Op        string
	Cause     error
	Transient bool
}

// NewPersistenceFailureError wraps cause as a failure of op.
func NewPersistenceFailureError(op string, cause error) *PersistenceFailureError {
	return &PersistenceFailureError{
		Op:    op,
		Cause: cause,
	}
}

// NewTransientPersistenceFailureError wraps a conflict that is safe to retry.
func NewTransientPersistenceFailureError(op string, cause error) *PersistenceFailureError {
	return &PersistenceFailureError{
		Op:        op,
		Cause:     cause,
		Transient: true,
	}
}

func (e *PersistenceFailureError) Error() string {
	return fmt.Sprintf("%s: %s (cause: %v)", ErrPersistenceFailure, e.Op, e.Cause)
}

func (e *PersistenceFailureError) Unwrap() []error {
	return []error{ErrPersistenceFailure, e.Cause}
}
