package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrUpdateKitchenCommandIsNotConstructed = errors.New(
	"UpdateKitchenCommand must be created via NewUpdateKitchenCommand constructor",
)

// UpdateKitchenCommand carries a partial registry update. Nil fields are left
// untouched.
type UpdateKitchenCommand struct { //nolint:recvcheck //using for validation
	actorID   kernel.UUID
	kitchenID kernel.UUID
	name      *string
	capacity  *int
	zoneID    *kernel.UUID

	guard guard.ConstructorGuard
}

func NewUpdateKitchenCommand(
	actorID, kitchenID kernel.UUID,
	name *string,
	capacity *int,
	zoneID *kernel.UUID,
) (UpdateKitchenCommand, error) {
	cmd := UpdateKitchenCommand{
		name:     name,
		capacity: capacity,
		zoneID:   zoneID,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		requireID("actorId", actorID, &cmd.actorID),
		requireID("kitchenId", kitchenID, &cmd.kitchenID),
	); err != nil {
		return UpdateKitchenCommand{}, err
	}

	return cmd, nil
}

func (c UpdateKitchenCommand) Validate() error {
	return c.guard.Validate(ErrUpdateKitchenCommandIsNotConstructed)
}

func (c UpdateKitchenCommand) ActorID() kernel.UUID   { return c.actorID }
func (c UpdateKitchenCommand) KitchenID() kernel.UUID { return c.kitchenID }
func (c UpdateKitchenCommand) Name() *string          { return c.name }
func (c UpdateKitchenCommand) Capacity() *int         { return c.capacity }
func (c UpdateKitchenCommand) ZoneID() *kernel.UUID   { return c.zoneID }
