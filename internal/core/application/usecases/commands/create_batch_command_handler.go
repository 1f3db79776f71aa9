package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/access"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
)

type CreateBatchCommandHandler struct {
	uowFactory  UoWFactory
	gate        services.AccessGate
	coordinator services.ProductionCoordinator
	retry       RetryPolicy
}

func NewCreateBatchCommandHandler(
	uowFactory UoWFactory,
	gate services.AccessGate,
	coordinator services.ProductionCoordinator,
	retry RetryPolicy,
) CreateBatchCommandHandler {
	return CreateBatchCommandHandler{
		uowFactory:  uowFactory,
		gate:        gate,
		coordinator: coordinator,
		retry:       retry,
	}
}

// Handle creates the batch under batches:create. The orders are locked and
// re-validated inside the transaction that moves them to preparing, so two
// concurrent requests can never claim the same order: the loser observes
// either the new status or the open batch and fails with InvalidOrderSet.
func (h *CreateBatchCommandHandler) Handle(ctx context.Context, cmd CreateBatchCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	return inTx(ctx, h.retry, func() (kernel.UUID, error) {
		return h.create(ctx, cmd)
	})
}

func (h *CreateBatchCommandHandler) create(ctx context.Context, cmd CreateBatchCommand) (kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := authorize(ctx, uow, h.gate, cmd.ActorID(), cmd.KitchenID(), access.BatchesCreate); err != nil {
		return kernel.UUID{}, err
	}

	orderRepo := uow.OrderRepository()
	orders, err := orderRepo.GetManyForUpdate(ctx, cmd.OrderIDs())
	if err != nil {
		return kernel.UUID{}, err
	}
	if err = requireAll(cmd.OrderIDs(), orders); err != nil {
		return kernel.UUID{}, err
	}

	claimed, err := uow.BatchRepository().OpenBatchOrderIDs(ctx, cmd.OrderIDs())
	if err != nil {
		return kernel.UUID{}, err
	}
	if len(claimed) > 0 {
		return kernel.UUID{}, errs.NewInvalidOrderSetError(claimed[0].String(), "is already in an open batch")
	}

	b, err := h.coordinator.Assemble(cmd.Name(), cmd.KitchenID(), orders, cmd.Priority(), cmd.Notes(), cmd.ActorID())
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.BatchRepository().Add(ctx, b); err != nil {
		return kernel.UUID{}, err
	}
	if err = saveOrders(ctx, orderRepo, orders); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return b.ID(), nil
}

// requireAll reports the first requested id that was not found.
func requireAll(ids []kernel.UUID, orders []*order.Order) error {
	found := make(map[kernel.UUID]struct{}, len(orders))
	for _, o := range orders {
		found[o.ID()] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return errs.NewInvalidOrderSetError(id.String(), "does not exist")
		}
	}
	return nil
}
