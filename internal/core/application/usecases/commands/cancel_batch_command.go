package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrCancelBatchCommandIsNotConstructed = errors.New(
	"CancelBatchCommand must be created via NewCancelBatchCommand constructor",
)

// CancelBatchCommand aborts an open batch and returns its orders to the queue.
type CancelBatchCommand struct { //nolint:recvcheck //using for validation
	actorID kernel.UUID
	batchID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

func NewCancelBatchCommand(actorID, batchID kernel.UUID, reason string) (CancelBatchCommand, error) {
	cmd := CancelBatchCommand{
		reason: reason,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		requireID("actorId", actorID, &cmd.actorID),
		requireID("batchId", batchID, &cmd.batchID),
	); err != nil {
		return CancelBatchCommand{}, err
	}

	return cmd, nil
}

func (c CancelBatchCommand) Validate() error {
	return c.guard.Validate(ErrCancelBatchCommandIsNotConstructed)
}

func (c CancelBatchCommand) ActorID() kernel.UUID { return c.actorID }
func (c CancelBatchCommand) BatchID() kernel.UUID { return c.batchID }
func (c CancelBatchCommand) Reason() string       { return c.reason }
