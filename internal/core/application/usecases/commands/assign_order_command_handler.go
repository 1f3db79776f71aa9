package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/access"
	"fulfillment/internal/core/domain/services"
)

type AssignOrderCommandHandler struct {
	uowFactory UoWFactory
	gate       services.AccessGate
	retry      RetryPolicy
}

func NewAssignOrderCommandHandler(uowFactory UoWFactory, gate services.AccessGate, retry RetryPolicy) AssignOrderCommandHandler {
	return AssignOrderCommandHandler{uowFactory: uowFactory, gate: gate, retry: retry}
}

// Handle requires orders:assign from the actor and an assignment to the
// order's kitchen from the target user (AccessDenied otherwise).
func (h *AssignOrderCommandHandler) Handle(ctx context.Context, cmd AssignOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return inTxNoResult(ctx, h.retry, func() error {
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

		if err = authorize(ctx, uow, h.gate, cmd.ActorID(), o.KitchenID(), access.OrdersAssign); err != nil {
			return err
		}
		if err = requireAssignment(ctx, uow, h.gate, cmd.UserID(), o.KitchenID()); err != nil {
			return err
		}
		if err = o.AssignTo(cmd.UserID()); err != nil {
			return err
		}

		if err = orderRepo.Update(ctx, o); err != nil {
			return err
		}

		return uow.Commit(ctx)
	})
}
