package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/access"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrSeedRolesCommandIsNotConstructed = errors.New(
	"SeedRolesCommand must be created via NewSeedRolesCommand constructor",
)

// RoleDefinition is one entry of the role catalogue file.
type RoleDefinition struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Permissions []string `yaml:"permissions"`
	Inactive    bool     `yaml:"inactive"`
}

type seededRole struct {
	name        string
	description string
	permissions []access.Permission
	activity    kernel.Activity
}

// SeedRolesCommand makes the stored roles match a catalogue. It runs at start
// up on behalf of the system, not of a staff member.
type SeedRolesCommand struct { //nolint:recvcheck //using for validation
	roles []seededRole

	guard guard.ConstructorGuard
}

func NewSeedRolesCommand(definitions []RoleDefinition) (SeedRolesCommand, error) {
	cmd := SeedRolesCommand{
		roles: make([]seededRole, 0, len(definitions)),
		guard: guard.NewConstructorGuard(),
	}

	names := make(map[string]struct{}, len(definitions))
	for i, def := range definitions {
		if def.Name == "" {
			return SeedRolesCommand{}, errs.NewValueIsRequiredError(fmt.Sprintf("roles[%d].name", i))
		}
		if _, dup := names[def.Name]; dup {
			return SeedRolesCommand{}, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("roles[%d].name", i), fmt.Errorf("role %q is defined twice", def.Name))
		}
		names[def.Name] = struct{}{}

		perms := make([]access.Permission, 0, len(def.Permissions))
		for _, raw := range def.Permissions {
			p, err := access.ParsePermission(raw)
			if err != nil {
				return SeedRolesCommand{}, fmt.Errorf("role %q: %w", def.Name, err)
			}
			perms = append(perms, p)
		}

		cmd.roles = append(cmd.roles, seededRole{
			name:        def.Name,
			description: def.Description,
			permissions: perms,
			activity:    kernel.ActivityOf(!def.Inactive),
		})
	}

	return cmd, nil
}

func (c SeedRolesCommand) Validate() error {
	return c.guard.Validate(ErrSeedRolesCommandIsNotConstructed)
}

func (c SeedRolesCommand) Len() int { return len(c.roles) }
