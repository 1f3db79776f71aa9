package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/access"
	"fulfillment/internal/core/domain/services"
)

type AssignBatchCommandHandler struct {
	uowFactory UoWFactory
	gate       services.AccessGate
	retry      RetryPolicy
}

func NewAssignBatchCommandHandler(
	uowFactory UoWFactory,
	gate services.AccessGate,
	retry RetryPolicy,
) AssignBatchCommandHandler {
	return AssignBatchCommandHandler{
		uowFactory: uowFactory,
		gate:       gate,
		retry:      retry,
	}
}

// Handle assigns the batch under batches:assign. The assignee must hold an
// assignment to the batch's kitchen.
func (h *AssignBatchCommandHandler) Handle(ctx context.Context, cmd AssignBatchCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return inTxNoResult(ctx, h.retry, func() error {
		return h.handle(ctx, cmd)
	})
}

func (h *AssignBatchCommandHandler) handle(ctx context.Context, cmd AssignBatchCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	batchRepo := uow.BatchRepository()
	b, err := batchRepo.GetForUpdate(ctx, cmd.BatchID())
	if err != nil {
		return concealMissing(err, "batch")
	}

	if err = authorize(ctx, uow, h.gate, cmd.ActorID(), b.KitchenID(), access.BatchesAssign); err != nil {
		return err
	}
	if err = requireAssignment(ctx, uow, h.gate, cmd.AssigneeID(), b.KitchenID()); err != nil {
		return err
	}

	if err = b.AssignTo(cmd.AssigneeID()); err != nil {
		return err
	}

	if err = batchRepo.Update(ctx, b); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
