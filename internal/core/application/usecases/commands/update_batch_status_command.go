package commands

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrUpdateBatchStatusCommandIsNotConstructed = errors.New(
	"UpdateBatchStatusCommand must be created via NewUpdateBatchStatusCommand constructor",
)

// UpdateBatchStatusCommand requests a batch transition with optional ETA and
// notes.
type UpdateBatchStatusCommand struct { //nolint:recvcheck //using for validation
	actorID kernel.UUID
	batchID kernel.UUID
	status  batch.Status
	eta     *time.Time
	notes   *string

	guard guard.ConstructorGuard
}

func NewUpdateBatchStatusCommand(
	actorID, batchID kernel.UUID,
	status batch.Status,
	eta *time.Time,
	notes *string,
) (UpdateBatchStatusCommand, error) {
	cmd := UpdateBatchStatusCommand{
		eta:   eta,
		notes: notes,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		requireID("actorId", actorID, &cmd.actorID),
		requireID("batchId", batchID, &cmd.batchID),
		status.Validate(),
	); err != nil {
		return UpdateBatchStatusCommand{}, err
	}
	cmd.status = status

	return cmd, nil
}

func (c UpdateBatchStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateBatchStatusCommandIsNotConstructed)
}

func (c UpdateBatchStatusCommand) ActorID() kernel.UUID { return c.actorID }
func (c UpdateBatchStatusCommand) BatchID() kernel.UUID { return c.batchID }
func (c UpdateBatchStatusCommand) Status() batch.Status { return c.status }
func (c UpdateBatchStatusCommand) ETA() *time.Time      { return c.eta }
func (c UpdateBatchStatusCommand) Notes() *string       { return c.notes }
