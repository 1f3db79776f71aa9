package commands

import (
	"context"

	"fulfillment/internal/core/domain/services"
)

type RevokeAccessCommandHandler struct {
	uowFactory UoWFactory
	gate       services.AccessGate
	retry      RetryPolicy
}

func NewRevokeAccessCommandHandler(
	uowFactory UoWFactory,
	gate services.AccessGate,
	retry RetryPolicy,
) RevokeAccessCommandHandler {
	return RevokeAccessCommandHandler{
		uowFactory: uowFactory,
		gate:       gate,
		retry:      retry,
	}
}

// Handle removes the user's assignment to the kitchen. Every later gate check
// for that pair fails closed.
func (h *RevokeAccessCommandHandler) Handle(ctx context.Context, cmd RevokeAccessCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return inTxNoResult(ctx, h.retry, func() error {
		return h.handle(ctx, cmd)
	})
}

func (h *RevokeAccessCommandHandler) handle(ctx context.Context, cmd RevokeAccessCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	accessRepo := uow.AccessRepository()
	grant, err := accessRepo.FindGrant(ctx, cmd.ActorID(), cmd.KitchenID())
	if err != nil {
		return err
	}
	if err = h.gate.AuthorizeManagement(cmd.ActorID(), grant); err != nil {
		return err
	}

	if err = accessRepo.DeleteAssignment(ctx, cmd.UserID(), cmd.KitchenID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
