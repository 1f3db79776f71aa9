package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrDeactivateKitchenCommandIsNotConstructed = errors.New(
	"DeactivateKitchenCommand must be created via NewDeactivateKitchenCommand constructor",
)

type DeactivateKitchenCommand struct { //nolint:recvcheck //using for validation
	actorID   kernel.UUID
	kitchenID kernel.UUID

	guard guard.ConstructorGuard
}

func NewDeactivateKitchenCommand(actorID, kitchenID kernel.UUID) (DeactivateKitchenCommand, error) {
	cmd := DeactivateKitchenCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		requireID("actorId", actorID, &cmd.actorID),
		requireID("kitchenId", kitchenID, &cmd.kitchenID),
	); err != nil {
		return DeactivateKitchenCommand{}, err
	}

	return cmd, nil
}

func (c DeactivateKitchenCommand) Validate() error {
	return c.guard.Validate(ErrDeactivateKitchenCommandIsNotConstructed)
}

func (c DeactivateKitchenCommand) ActorID() kernel.UUID   { return c.actorID }
func (c DeactivateKitchenCommand) KitchenID() kernel.UUID { return c.kitchenID }
