package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

// syncBatchOrders row-locks every order referenced by a completed or cancelled
// batch, moves them to ready or back to received, and stores them.
func syncBatchOrders(
	ctx context.Context,
	uow OrderRepoFactory,
	coordinator services.ProductionCoordinator,
	b *batch.Batch,
) error {
	if !b.Status().IsTerminal() {
		return nil
	}

	repo := uow.OrderRepository()
	orders, err := repo.GetManyForUpdate(ctx, b.OrderIDs())
	if err != nil {
		return err
	}

	if b.Status() == batch.Completed {
		err = coordinator.CascadeCompletion(b, orders)
	} else {
		err = coordinator.Compensate(b, orders)
	}
	if err != nil {
		return err
	}

	return saveOrders(ctx, repo, orders)
}

func saveOrders(ctx context.Context, repo ports.OrderRepository, orders []*order.Order) error {
	for _, o := range orders {
		if err := repo.Update(ctx, o); err != nil {
			return err
		}
	}
	return nil
}
