package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrAssignAccessCommandIsNotConstructed = errors.New(
	"AssignAccessCommand must be created via NewAssignAccessCommand constructor",
)

// AssignAccessCommand grants a role on a kitchen to a staff member.
type AssignAccessCommand struct { //nolint:recvcheck //using for validation
	actorID   kernel.UUID
	userID    kernel.UUID
	kitchenID kernel.UUID
	roleID    kernel.UUID
	isPrimary bool

	guard guard.ConstructorGuard
}

func NewAssignAccessCommand(actorID, userID, kitchenID, roleID kernel.UUID, isPrimary bool) (AssignAccessCommand, error) {
	cmd := AssignAccessCommand{
		isPrimary: isPrimary,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		requireID("actorId", actorID, &cmd.actorID),
		requireID("userId", userID, &cmd.userID),
		requireID("kitchenId", kitchenID, &cmd.kitchenID),
		requireID("roleId", roleID, &cmd.roleID),
	); err != nil {
		return AssignAccessCommand{}, err
	}

	return cmd, nil
}

func (c AssignAccessCommand) Validate() error {
	return c.guard.Validate(ErrAssignAccessCommandIsNotConstructed)
}

func (c AssignAccessCommand) ActorID() kernel.UUID   { return c.actorID }
func (c AssignAccessCommand) UserID() kernel.UUID    { return c.userID }
func (c AssignAccessCommand) KitchenID() kernel.UUID { return c.kitchenID }
func (c AssignAccessCommand) RoleID() kernel.UUID    { return c.roleID }
func (c AssignAccessCommand) IsPrimary() bool        { return c.isPrimary }
