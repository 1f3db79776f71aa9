package commands

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/access"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
)

type AssignAccessCommandHandler struct {
	uowFactory UoWFactory
	gate       services.AccessGate
	retry      RetryPolicy
}

func NewAssignAccessCommandHandler(
	uowFactory UoWFactory,
	gate services.AccessGate,
	retry RetryPolicy,
) AssignAccessCommandHandler {
	return AssignAccessCommandHandler{
		uowFactory: uowFactory,
		gate:       gate,
		retry:      retry,
	}
}

// Handle upserts the assignment under access:manage. Repeating the same call
// leaves a single assignment behind.
func (h *AssignAccessCommandHandler) Handle(ctx context.Context, cmd AssignAccessCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return inTxNoResult(ctx, h.retry, func() error {
		return h.handle(ctx, cmd)
	})
}

func (h *AssignAccessCommandHandler) handle(ctx context.Context, cmd AssignAccessCommand) error {
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

	role, err := accessRepo.GetRole(ctx, cmd.RoleID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return fmt.Errorf("%w: role %s does not exist", errs.ErrInvalidRole, cmd.RoleID())
	}
	if err != nil {
		return err
	}

	k, err := uow.KitchenRepository().Get(ctx, cmd.KitchenID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return fmt.Errorf("%w: kitchen %s does not exist", errs.ErrInvalidKitchen, cmd.KitchenID())
	}
	if err != nil {
		return err
	}

	assignment, err := access.NewAssignment(cmd.UserID(), k, role, cmd.IsPrimary())
	if err != nil {
		return err
	}

	if err = accessRepo.UpsertAssignment(ctx, assignment); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
