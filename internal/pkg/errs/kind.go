package errs

import "errors"

// Kind is the discriminated failure reported to callers of the core.
type Kind string

const (
	KindNone               Kind = ""
	KindInvalidZone        Kind = "InvalidZone"
	KindInvalidKitchen     Kind = "InvalidKitchen"
	KindInvalidRole        Kind = "InvalidRole"
	KindInvalidOrderSet    Kind = "InvalidOrderSet"
	KindNoCapacity         Kind = "NoCapacity"
	KindInvalidTransition  Kind = "InvalidTransition"
	KindAccessDenied       Kind = "AccessDenied"
	KindPermissionDenied   Kind = "PermissionDenied"
	KindPersistenceFailure Kind = "PersistenceFailure"
	KindDuplicateRequest   Kind = "DuplicateRequest"
	KindNotFound           Kind = "NotFound"
	KindValidationFailed   Kind = "ValidationFailed"
	KindInternal           Kind = "Internal"
)

// kindTable is checked in order; the first sentinel matched wins.
var kindTable = []struct {
	sentinel error
	kind     Kind
}{
	{ErrPermissionDenied, KindPermissionDenied},
	{ErrAccessDenied, KindAccessDenied},
	{ErrInvalidTransition, KindInvalidTransition},
	{ErrInvalidOrderSet, KindInvalidOrderSet},
	{ErrNoCapacity, KindNoCapacity},
	{ErrInvalidZone, KindInvalidZone},
	{ErrInvalidKitchen, KindInvalidKitchen},
	{ErrInvalidRole, KindInvalidRole},
	{ErrDuplicateRequest, KindDuplicateRequest},
	{ErrPersistenceFailure, KindPersistenceFailure},
	{ErrObjectNotFound, KindNotFound},
	{ErrValueIsRequired, KindValidationFailed},
	{ErrValueIsInvalid, KindValidationFailed},
	{ErrValueIsOutOfRange, KindValidationFailed},
}

// KindOf classifies err. Nil maps to KindNone and anything unrecognised to
// KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	for _, entry := range kindTable {
		if errors.Is(err, entry.sentinel) {
			return entry.kind
		}
	}
	return KindInternal
}

// IsRetryable reports whether err is a transient persistence failure. Only
// those are replayed automatically; every other kind is returned as is.
func IsRetryable(err error) bool {
	var pf *PersistenceFailureError
	return errors.As(err, &pf) && pf.Transient
}
