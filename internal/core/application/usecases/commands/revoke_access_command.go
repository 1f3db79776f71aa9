package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrRevokeAccessCommandIsNotConstructed = errors.New(
	"RevokeAccessCommand must be created via NewRevokeAccessCommand constructor",
)

type RevokeAccessCommand struct { //nolint:recvcheck //using for validation
	actorID   kernel.UUID
	userID    kernel.UUID
	kitchenID kernel.UUID

	guard guard.ConstructorGuard
}

func NewRevokeAccessCommand(actorID, userID, kitchenID kernel.UUID) (RevokeAccessCommand, error) {
	cmd := RevokeAccessCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		requireID("actorId", actorID, &cmd.actorID),
		requireID("userId", userID, &cmd.userID),
		requireID("kitchenId", kitchenID, &cmd.kitchenID),
	); err != nil {
		return RevokeAccessCommand{}, err
	}

	return cmd, nil
}

func (c RevokeAccessCommand) Validate() error {
	return c.guard.Validate(ErrRevokeAccessCommandIsNotConstructed)
}

func (c RevokeAccessCommand) ActorID() kernel.UUID   { return c.actorID }
func (c RevokeAccessCommand) UserID() kernel.UUID    { return c.userID }
func (c RevokeAccessCommand) KitchenID() kernel.UUID { return c.kitchenID }
