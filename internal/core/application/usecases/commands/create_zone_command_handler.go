package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/kitchen"
	"fulfillment/internal/core/domain/services"
)

type CreateZoneCommandHandler struct {
	uowFactory UoWFactory
	gate       services.AccessGate
	retry      RetryPolicy
}

func NewCreateZoneCommandHandler(
	uowFactory UoWFactory,
	gate services.AccessGate,
	retry RetryPolicy,
) CreateZoneCommandHandler {
	return CreateZoneCommandHandler{
		uowFactory: uowFactory,
		gate:       gate,
		retry:      retry,
	}
}

// Handle registers a zone. Only platform administrators manage zones.
func (h *CreateZoneCommandHandler) Handle(ctx context.Context, cmd CreateZoneCommand) (kernel.UUID, error) {
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

func (h *CreateZoneCommandHandler) handle(ctx context.Context, cmd CreateZoneCommand) (kernel.UUID, error) {
	zone, err := kitchen.NewZone(cmd.Name())
	if err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.ZoneRepository().Add(ctx, zone); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return zone.ID(), nil
}
