package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/access"
	"fulfillment/internal/core/domain/services"
)

// UpdateBatchItemStatusResult tells the caller whether the update completed
// the whole batch.
type UpdateBatchItemStatusResult struct {
	BatchCompleted bool
}

type UpdateBatchItemStatusCommandHandler struct {
	uowFactory  UoWFactory
	gate        services.AccessGate
	coordinator services.ProductionCoordinator
	retry       RetryPolicy
}

func NewUpdateBatchItemStatusCommandHandler(
	uowFactory UoWFactory,
	gate services.AccessGate,
	coordinator services.ProductionCoordinator,
	retry RetryPolicy,
) UpdateBatchItemStatusCommandHandler {
	return UpdateBatchItemStatusCommandHandler{
		uowFactory:  uowFactory,
		gate:        gate,
		coordinator: coordinator,
		retry:       retry,
	}
}

// Handle moves the item under batches:update. The owning batch row is locked
// before the item changes, so the completeness check and the cascade to the
// source orders observe every concurrent item update.
func (h *UpdateBatchItemStatusCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateBatchItemStatusCommand,
) (UpdateBatchItemStatusResult, error) {
	if err := cmd.Validate(); err != nil {
		return UpdateBatchItemStatusResult{}, err
	}

	return inTx(ctx, h.retry, func() (UpdateBatchItemStatusResult, error) {
		return h.handle(ctx, cmd)
	})
}

func (h *UpdateBatchItemStatusCommandHandler) handle(
	ctx context.Context,
	cmd UpdateBatchItemStatusCommand,
) (UpdateBatchItemStatusResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return UpdateBatchItemStatusResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	batchRepo := uow.BatchRepository()
	batchID, err := batchRepo.BatchIDForItem(ctx, cmd.ItemID())
	if err != nil {
		return UpdateBatchItemStatusResult{}, concealMissing(err, "batch item")
	}

	b, err := batchRepo.GetForUpdate(ctx, batchID)
	if err != nil {
		return UpdateBatchItemStatusResult{}, concealMissing(err, "batch")
	}

	if err = authorize(ctx, uow, h.gate, cmd.ActorID(), b.KitchenID(), access.BatchesUpdate); err != nil {
		return UpdateBatchItemStatusResult{}, err
	}

	completed, err := b.UpdateItemStatus(cmd.ItemID(), cmd.Status())
	if err != nil {
		return UpdateBatchItemStatusResult{}, err
	}

	if completed {
		if err = syncBatchOrders(ctx, uow, h.coordinator, b); err != nil {
			return UpdateBatchItemStatusResult{}, err
		}
	}

	if err = batchRepo.Update(ctx, b); err != nil {
		return UpdateBatchItemStatusResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return UpdateBatchItemStatusResult{}, err
	}

	return UpdateBatchItemStatusResult{BatchCompleted: completed}, nil
}
