package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrUpdateBatchItemStatusCommandIsNotConstructed = errors.New(
	"UpdateBatchItemStatusCommand must be created via NewUpdateBatchItemStatusCommand constructor",
)

// UpdateBatchItemStatusCommand reports production progress on one batch item.
type UpdateBatchItemStatusCommand struct { //nolint:recvcheck //using for validation
	actorID kernel.UUID
	itemID  kernel.UUID
	status  batch.Status

	guard guard.ConstructorGuard
}

func NewUpdateBatchItemStatusCommand(
	actorID, itemID kernel.UUID,
	status batch.Status,
) (UpdateBatchItemStatusCommand, error) {
	cmd := UpdateBatchItemStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		requireID("actorId", actorID, &cmd.actorID),
		requireID("itemId", itemID, &cmd.itemID),
		status.Validate(),
	); err != nil {
		return UpdateBatchItemStatusCommand{}, err
	}
	cmd.status = status

	return cmd, nil
}

func (c UpdateBatchItemStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateBatchItemStatusCommandIsNotConstructed)
}

func (c UpdateBatchItemStatusCommand) ActorID() kernel.UUID { return c.actorID }
func (c UpdateBatchItemStatusCommand) ItemID() kernel.UUID  { return c.itemID }
func (c UpdateBatchItemStatusCommand) Status() batch.Status { return c.status }
