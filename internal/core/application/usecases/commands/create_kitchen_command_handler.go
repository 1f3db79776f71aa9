package commands

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/kitchen"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
)

type CreateKitchenCommandHandler struct {
	uowFactory UoWFactory
	gate       services.AccessGate
	retry      RetryPolicy
}

func NewCreateKitchenCommandHandler(
	uowFactory UoWFactory,
	gate services.AccessGate,
	retry RetryPolicy,
) CreateKitchenCommandHandler {
	return CreateKitchenCommandHandler{
		uowFactory: uowFactory,
		gate:       gate,
		retry:      retry,
	}
}

// Handle registers the kitchen. A missing or inactive zone fails with
// InvalidZone.
func (h *CreateKitchenCommandHandler) Handle(ctx context.Context, cmd CreateKitchenCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}
	if err := h.gate.AuthorizePlatform(cmd.ActorID()); err != nil {
		return kernel.UUID{}, err
	}

	return inTx(ctx, h.retry, func() (kernel.UUID, error) {
		return h.handle(ctx, cmd)
	})
}

func (h *CreateKitchenCommandHandler) handle(ctx context.Context, cmd CreateKitchenCommand) (kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	zone, err := resolveZone(ctx, uow, cmd.ZoneID())
	if err != nil {
		return kernel.UUID{}, err
	}

	k, err := kitchen.NewKitchen(cmd.Name(), zone, cmd.Capacity())
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.KitchenRepository().Add(ctx, k); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return k.ID(), nil
}

// resolveZone loads a zone, reporting a missing one as InvalidZone.
func resolveZone(ctx context.Context, uow KitchenRepoFactory, zoneID kernel.UUID) (*kitchen.Zone, error) {
	zone, err := uow.ZoneRepository().Get(ctx, zoneID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, fmt.Errorf("%w: zone %s does not exist", errs.ErrInvalidZone, zoneID)
	}
	return zone, err
}
