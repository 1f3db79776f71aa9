package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/access"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
)

type UpdateOrderStatusCommandHandler struct {
	uowFactory UoWFactory
	gate       services.AccessGate
	retry      RetryPolicy
}

func NewUpdateOrderStatusCommandHandler(
	uowFactory UoWFactory,
	gate services.AccessGate,
	retry RetryPolicy,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		gate:       gate,
		retry:      retry,
	}
}

// Handle applies the transition under orders:update. An order referenced by
// an open batch cannot be set to ready here; the batch cascade does that.
func (h *UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return inTxNoResult(ctx, h.retry, func() error {
		return h.handle(ctx, cmd)
	})
}

func (h *UpdateOrderStatusCommandHandler) handle(ctx context.Context, cmd UpdateOrderStatusCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return concealMissing(err, "order")
	}

	if err = authorize(ctx, uow, h.gate, cmd.ActorID(), o.KitchenID(), access.OrdersUpdate); err != nil {
		return err
	}

	open, err := uow.BatchRepository().OpenBatchOrderIDs(ctx, []kernel.UUID{o.ID()})
	if err != nil {
		return err
	}

	if err = o.ChangeStatus(cmd.Status(), len(open) > 0); err != nil {
		return err
	}

	if assignee := cmd.AssigneeID(); assignee != nil {
		if err = requireAssignment(ctx, uow, h.gate, *assignee, o.KitchenID()); err != nil {
			return err
		}
		if err = o.AssignTo(*assignee); err != nil {
			return err
		}
	}
	if cmd.ETA() != nil {
		o.SetEstimatedCompletion(cmd.ETA())
	}
	if cmd.Notes() != nil {
		o.SetNotes(*cmd.Notes())
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
