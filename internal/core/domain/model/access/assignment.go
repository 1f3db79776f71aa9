package access

import (
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/kitchen"
	"fulfillment/internal/pkg/errs"
)

// Assignment binds a user to one role in one kitchen. IsPrimary marks the
// user's default kitchen.
type Assignment struct {
	UserID    kernel.UUID
	KitchenID kernel.UUID
	RoleID    kernel.UUID
	IsPrimary bool
	UpdatedAt time.Time
}

// NewAssignment validates that the role and the kitchen are active.
func NewAssignment(userID kernel.UUID, k *kitchen.Kitchen, role *Role, isPrimary bool) (*Assignment, error) {
	if err := userID.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("userId", err)
	}
	if role == nil || !role.IsActive() {
		return nil, errs.ErrInvalidRole
	}
	if k == nil || !k.IsActive() {
		return nil, errs.ErrInvalidKitchen
	}
	return &Assignment{
		UserID:    userID,
		KitchenID: k.ID(),
		RoleID:    role.ID(),
		IsPrimary: isPrimary,
		UpdatedAt: time.Now().UTC(),
	}, nil
}

// Grant is an assignment resolved together with its role.
type Grant struct {
	Assignment Assignment
	Role       *Role
}

// Allows reports whether the grant's role is active and grants p.
func (g *Grant) Allows(p Permission) bool {
	return g != nil && g.Role.Grants(p)
}

// PermissionStrings renders the effective permissions as "name:value". An
// inactive role yields none.
func (g *Grant) PermissionStrings() []string {
	if g == nil || !g.Role.IsActive() {
		return []string{}
	}
	perms := g.Role.Permissions()
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = p.String()
	}
	return out
}

func (g *Grant) String() string {
	if g == nil {
		return "no grant"
	}
	return fmt.Sprintf("user %s as %s in kitchen %s", g.Assignment.UserID, g.Role.Name(), g.Assignment.KitchenID)
}
