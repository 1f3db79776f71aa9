package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrAssignBatchCommandIsNotConstructed = errors.New(
	"AssignBatchCommand must be created via NewAssignBatchCommand constructor",
)

type AssignBatchCommand struct { //nolint:recvcheck //using for validation
	actorID    kernel.UUID
	batchID    kernel.UUID
	assigneeID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssignBatchCommand(actorID, batchID, assigneeID kernel.UUID) (AssignBatchCommand, error) {
	cmd := AssignBatchCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		requireID("actorId", actorID, &cmd.actorID),
		requireID("batchId", batchID, &cmd.batchID),
		requireID("userId", assigneeID, &cmd.assigneeID),
	); err != nil {
		return AssignBatchCommand{}, err
	}

	return cmd, nil
}

func (c AssignBatchCommand) Validate() error {
	return c.guard.Validate(ErrAssignBatchCommandIsNotConstructed)
}

func (c AssignBatchCommand) ActorID() kernel.UUID    { return c.actorID }
func (c AssignBatchCommand) BatchID() kernel.UUID    { return c.batchID }
func (c AssignBatchCommand) AssigneeID() kernel.UUID { return c.assigneeID }
