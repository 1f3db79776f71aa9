package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/access"
	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
)

type CancelBatchCommandHandler struct {
	uowFactory  UoWFactory
	gate        services.AccessGate
	coordinator services.ProductionCoordinator
	retry       RetryPolicy
}

func NewCancelBatchCommandHandler(
	uowFactory UoWFactory,
	gate services.AccessGate,
	coordinator services.ProductionCoordinator,
	retry RetryPolicy,
) CancelBatchCommandHandler {
	return CancelBatchCommandHandler{
		uowFactory:  uowFactory,
		gate:        gate,
		coordinator: coordinator,
		retry:       retry,
	}
}

// Handle cancels the batch under batches:cancel. Cancelling a batch that is
// already cancelled is an invalid transition, like any terminal batch.
func (h *CancelBatchCommandHandler) Handle(ctx context.Context, cmd CancelBatchCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return inTxNoResult(ctx, h.retry, func() error {
		return h.handle(ctx, cmd)
	})
}

func (h *CancelBatchCommandHandler) handle(ctx context.Context, cmd CancelBatchCommand) error {
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

	if err = authorize(ctx, uow, h.gate, cmd.ActorID(), b.KitchenID(), access.BatchesCancel); err != nil {
		return err
	}

	if b.Status().IsTerminal() {
		return errs.NewInvalidTransitionError("batch", b.Status().String(), batch.Cancelled.String())
	}
	if err = applyBatchStatus(ctx, uow, h.coordinator, b, batch.Cancelled, cmd.Reason()); err != nil {
		return err
	}

	if err = batchRepo.Update(ctx, b); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
