package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/access"
	"fulfillment/internal/core/domain/model/kernel"
)

// AccessRepository persists roles and staff assignments.
type AccessRepository interface {
	// SaveRole inserts or updates a role and replaces its permission set.
	SaveRole(ctx context.Context, role *access.Role) error

	// GetRole returns the role or an errs.ObjectNotFoundError.
	GetRole(ctx context.Context, id kernel.UUID) (*access.Role, error)

	// FindRoleByName returns nil when no role has that name.
	FindRoleByName(ctx context.Context, name string) (*access.Role, error)

	// FindGrant returns the user's assignment to the kitchen with its role,
	// or nil when there is none.
	FindGrant(ctx context.Context, userID, kitchenID kernel.UUID) (*access.Grant, error)

	// UpsertAssignment writes the single assignment of user × kitchen. A
	// primary assignment clears the user's other primary flags.
	UpsertAssignment(ctx context.Context, a *access.Assignment) error

	// DeleteAssignment removes the assignment; deleting a missing one is not
	// an error.
	DeleteAssignment(ctx context.Context, userID, kitchenID kernel.UUID) error
}
