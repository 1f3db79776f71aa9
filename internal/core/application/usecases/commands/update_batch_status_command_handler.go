package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/access"
	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/services"
)

type UpdateBatchStatusCommandHandler struct {
	uowFactory  UoWFactory
	gate        services.AccessGate
	coordinator services.ProductionCoordinator
	retry       RetryPolicy
}

func NewUpdateBatchStatusCommandHandler(
	uowFactory UoWFactory,
	gate services.AccessGate,
	coordinator services.ProductionCoordinator,
	retry RetryPolicy,
) UpdateBatchStatusCommandHandler {
	return UpdateBatchStatusCommandHandler{
		uowFactory:  uowFactory,
		gate:        gate,
		coordinator: coordinator,
		retry:       retry,
	}
}

// Handle applies the transition under batches:update, or batches:cancel when
// the target is cancelled. Completing cascades the source orders to ready;
// cancelling requeues them. Batch and orders commit together.
func (h *UpdateBatchStatusCommandHandler) Handle(ctx context.Context, cmd UpdateBatchStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return inTxNoResult(ctx, h.retry, func() error {
		return h.handle(ctx, cmd)
	})
}

func (h *UpdateBatchStatusCommandHandler) handle(ctx context.Context, cmd UpdateBatchStatusCommand) error {
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

	permission := access.BatchesUpdate
	if cmd.Status() == batch.Cancelled {
		permission = access.BatchesCancel
	}
	if err = authorize(ctx, uow, h.gate, cmd.ActorID(), b.KitchenID(), permission); err != nil {
		return err
	}

	if err = applyBatchStatus(ctx, uow, h.coordinator, b, cmd.Status(), ""); err != nil {
		return err
	}
	if cmd.ETA() != nil {
		b.SetEstimatedCompletion(cmd.ETA())
	}
	if cmd.Notes() != nil {
		b.SetNotes(*cmd.Notes())
	}

	if err = batchRepo.Update(ctx, b); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// applyBatchStatus moves b to next and keeps the source orders in step.
func applyBatchStatus(
	ctx context.Context,
	uow OrderRepoFactory,
	coordinator services.ProductionCoordinator,
	b *batch.Batch,
	next batch.Status,
	reason string,
) error {
	var err error
	if next == batch.Cancelled {
		err = b.Cancel(reason)
	} else {
		err = b.ChangeStatus(next)
	}
	if err != nil {
		return err
	}

	return syncBatchOrders(ctx, uow, coordinator, b)
}
