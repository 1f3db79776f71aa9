package access

import (
	"errors"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrRoleIsNotConstructed is returned by Validate on a role literal.
var ErrRoleIsNotConstructed = errors.New("Role must be created via NewRole or RestoreRole")

// Role is a named, activatable set of permissions.
type Role struct {
	id          kernel.UUID
	name        string
	description string
	activity    kernel.Activity
	permissions []Permission
	updatedAt   time.Time
	guard       guard.ConstructorGuard
}

// NewRole creates an active role. Duplicate permissions are collapsed.
func NewRole(name, description string, permissions []Permission) (*Role, error) {
	r := &Role{
		id:          kernel.NewUUID(),
		description: strings.TrimSpace(description),
		activity:    kernel.Active,
		updatedAt:   time.Now().UTC(),
		guard:       guard.NewConstructorGuard(),
	}
	if err := errors.Join(r.setName(name), r.setPermissions(permissions)); err != nil {
		return nil, err
	}
	return r, nil
}

// RestoreRole rebuilds a stored role.
func RestoreRole(
	id kernel.UUID,
	name, description string,
	activity kernel.Activity,
	permissions []Permission,
	updatedAt time.Time,
) (*Role, error) {
	r := &Role{
		description: description,
		updatedAt:   updatedAt,
		guard:       guard.NewConstructorGuard(),
	}
	if err := errors.Join(
		id.Validate(),
		r.setName(name),
		r.setPermissions(permissions),
		activity.Validate(),
	); err != nil {
		return nil, err
	}
	r.id, r.activity = id, activity
	return r, nil
}

func (r *Role) ID() kernel.UUID           { return r.id }
func (r *Role) Name() string              { return r.name }
func (r *Role) Description() string       { return r.description }
func (r *Role) Activity() kernel.Activity { return r.activity }
func (r *Role) IsActive() bool            { return r.activity.IsActive() }
func (r *Role) UpdatedAt() time.Time      { return r.updatedAt }

func (r *Role) Permissions() []Permission {
	return append([]Permission(nil), r.permissions...)
}

// Grants reports whether the role is active and grants exactly p.
func (r *Role) Grants(p Permission) bool {
	if r == nil || !r.IsActive() {
		return false
	}
	for _, granted := range r.permissions {
		if granted == p {
			return true
		}
	}
	return false
}

// Redefine replaces description, permissions and activity. The role
// catalogue seeder uses it to converge stored roles on the configured ones.
func (r *Role) Redefine(description string, permissions []Permission, activity kernel.Activity) error {
	if err := activity.Validate(); err != nil {
		return err
	}
	if err := r.setPermissions(permissions); err != nil {
		return err
	}
	r.description = strings.TrimSpace(description)
	r.activity = activity
	r.updatedAt = time.Now().UTC()
	return nil
}

func (r *Role) Validate() error {
	if r == nil {
		return ErrRoleIsNotConstructed
	}
	return r.guard.Validate(ErrRoleIsNotConstructed)
}

func (r *Role) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("roleName")
	}
	r.name = name
	return nil
}

func (r *Role) setPermissions(permissions []Permission) error {
	seen := make(map[Permission]struct{}, len(permissions))
	out := make([]Permission, 0, len(permissions))
	for _, p := range permissions {
		if p.Name == "" || p.Value == "" {
			return errs.NewValueIsInvalidError("permission")
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	r.permissions = out
	return nil
}
