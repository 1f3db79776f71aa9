package commands

import (
	"context"

	"fulfillment/internal/core/domain/services"
)

type DeactivateKitchenCommandHandler struct {
	uowFactory UoWFactory
	gate       services.AccessGate
	retry      RetryPolicy
}

func NewDeactivateKitchenCommandHandler(
	uowFactory UoWFactory,
	gate services.AccessGate,
	retry RetryPolicy,
) DeactivateKitchenCommandHandler {
	return DeactivateKitchenCommandHandler{
		uowFactory: uowFactory,
		gate:       gate,
		retry:      retry,
	}
}

// Handle soft-deletes the kitchen. Orders already routed to it are left as
// they are; the kitchen simply stops receiving new ones.
func (h *DeactivateKitchenCommandHandler) Handle(ctx context.Context, cmd DeactivateKitchenCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := h.gate.AuthorizePlatform(cmd.ActorID()); err != nil {
		return err
	}

	return inTxNoResult(ctx, h.retry, func() error {
		return h.handle(ctx, cmd)
	})
}

func (h *DeactivateKitchenCommandHandler) handle(ctx context.Context, cmd DeactivateKitchenCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	kitchenRepo := uow.KitchenRepository()
	k, err := kitchenRepo.GetForUpdate(ctx, cmd.KitchenID())
	if err != nil {
		return err
	}

	k.Deactivate()

	if err = kitchenRepo.Update(ctx, k); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
