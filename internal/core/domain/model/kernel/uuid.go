package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed is returned when validating a zero value UUID.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError("UUID must be created via NewUUID, UUIDFromString, or UUIDFromBytes")

// UUID is the identifier value object shared by every aggregate of the
// fulfillment domain. It wraps github.com/google/uuid so that the zero value
// is detectable: kitchens, orders, batches and assignments all reject a UUID
// that did not come from one of the constructors.
//
// Example:
//
//	kitchenID := kernel.NewUUID()
//	orderID, err := kernel.UUIDFromString("550e8400-e29b-41d4-a716-446655440000")
type UUID struct {
	id uuid.UUID
}

// NewUUID generates a new random (version 4) identifier.
func NewUUID() UUID {
	return UUID{id: uuid.New()}
}

// UUIDFromString parses the textual form of a UUID. Braced, urn-prefixed and
// hyphen-less forms are accepted.
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	return UUID{id: id}, nil
}

// UUIDFromBytes creates a UUID from its 16 byte binary form. The nil UUID is
// rejected.
func UUIDFromBytes(b []byte) (UUID, error) {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	newID := UUID{id: id}
	if err = newID.Validate(); err != nil {
		return UUID{}, err
	}
	return newID, nil
}

// UUIDFromGoogle wraps an already parsed uuid.UUID, typically a column read by
// a repository. The nil UUID is rejected.
func UUIDFromGoogle(id uuid.UUID) (UUID, error) {
	newID := UUID{id: id}
	if err := newID.Validate(); err != nil {
		return UUID{}, err
	}
	return newID, nil
}

// OptionalUUIDFromGoogle maps a nullable column to an optional identifier.
func OptionalUUIDFromGoogle(id *uuid.UUID) *UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	return &UUID{id: *id}
}

// String returns the canonical hyphenated representation.
func (u UUID) String() string {
	return u.id.String()
}

// Bytes returns the underlying uuid.UUID.
func (u UUID) Bytes() uuid.UUID {
	return u.id
}

// IsEqual reports whether both identifiers hold the same value.
func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

// Validate returns ErrUUIDIsNotConstructed for the zero value.
func (u UUID) Validate() error {
	if u.id == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}

// OptionalBytes is the nullable counterpart of Bytes for optional references
// such as an order's assignee.
func OptionalBytes(u *UUID) *uuid.UUID {
	if u == nil {
		return nil
	}
	id := u.id
	return &id
}
