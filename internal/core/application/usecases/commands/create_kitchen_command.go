package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/kitchen"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCreateKitchenCommandIsNotConstructed = errors.New(
	"CreateKitchenCommand must be created via NewCreateKitchenCommand constructor",
)

// CreateKitchenCommand registers a kitchen linked to a primary zone.
type CreateKitchenCommand struct { //nolint:recvcheck //using for validation
	actorID  kernel.UUID
	name     string
	zoneID   kernel.UUID
	capacity int

	guard guard.ConstructorGuard
}

func NewCreateKitchenCommand(actorID kernel.UUID, name string, zoneID kernel.UUID, capacity int) (CreateKitchenCommand, error) {
	cmd := CreateKitchenCommand{
		name:     name,
		capacity: capacity,
		guard:    guard.NewConstructorGuard(),
	}

	var fieldErrs []error
	if name == "" {
		fieldErrs = append(fieldErrs, errs.NewValueIsRequiredError("name"))
	}
	if capacity < kitchen.MinCapacity || capacity > kitchen.MaxCapacity {
		fieldErrs = append(fieldErrs,
			errs.NewValueIsOutOfRangeError("capacity", capacity, kitchen.MinCapacity, kitchen.MaxCapacity))
	}
	fieldErrs = append(fieldErrs,
		requireID("actorId", actorID, &cmd.actorID),
		requireID("zoneId", zoneID, &cmd.zoneID),
	)
	if err := errors.Join(fieldErrs...); err != nil {
		return CreateKitchenCommand{}, err
	}

	return cmd, nil
}

func (c CreateKitchenCommand) Validate() error {
	return c.guard.Validate(ErrCreateKitchenCommandIsNotConstructed)
}

func (c CreateKitchenCommand) ActorID() kernel.UUID { return c.actorID }
func (c CreateKitchenCommand) Name() string         { return c.name }
func (c CreateKitchenCommand) ZoneID() kernel.UUID  { return c.zoneID }
func (c CreateKitchenCommand) Capacity() int        { return c.capacity }
