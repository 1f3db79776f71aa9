package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/kitchen"
	"fulfillment/internal/core/domain/services"
)

type UpdateKitchenCommandHandler struct {
	uowFactory UoWFactory
	gate       services.AccessGate
	retry      RetryPolicy
}

func NewUpdateKitchenCommandHandler(
	uowFactory UoWFactory,
	gate services.AccessGate,
	retry RetryPolicy,
) UpdateKitchenCommandHandler {
	return UpdateKitchenCommandHandler{
		uowFactory: uowFactory,
		gate:       gate,
		retry:      retry,
	}
}

// Handle applies the supplied fields under access:manage on the kitchen.
func (h *UpdateKitchenCommandHandler) Handle(ctx context.Context, cmd UpdateKitchenCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return inTxNoResult(ctx, h.retry, func() error {
		return h.handle(ctx, cmd)
	})
}

func (h *UpdateKitchenCommandHandler) handle(ctx context.Context, cmd UpdateKitchenCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	grant, err := uow.AccessRepository().FindGrant(ctx, cmd.ActorID(), cmd.KitchenID())
	if err != nil {
		return err
	}
	if err = h.gate.AuthorizeManagement(cmd.ActorID(), grant); err != nil {
		return err
	}

	kitchenRepo := uow.KitchenRepository()
	k, err := kitchenRepo.GetForUpdate(ctx, cmd.KitchenID())
	if err != nil {
		return concealMissing(err, "kitchen")
	}

	changes := kitchen.Changes{Name: cmd.Name(), Capacity: cmd.Capacity()}
	if cmd.ZoneID() != nil {
		if changes.PrimaryZone, err = resolveZone(ctx, uow, *cmd.ZoneID()); err != nil {
			return err
		}
	}

	if err = k.Update(changes); err != nil {
		return err
	}

	if err = kitchenRepo.Update(ctx, k); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
