package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/access"
)

// SeedRolesResult counts what the seeding changed.
type SeedRolesResult struct {
	Created int
	Updated int
}

type SeedRolesCommandHandler struct {
	uowFactory UoWFactory
	retry      RetryPolicy
}

func NewSeedRolesCommandHandler(uowFactory UoWFactory, retry RetryPolicy) SeedRolesCommandHandler {
	return SeedRolesCommandHandler{uowFactory: uowFactory, retry: retry}
}

// Handle creates missing roles and redefines existing ones by name, in one
// transaction. Roles absent from the catalogue are left untouched.
func (h *SeedRolesCommandHandler) Handle(ctx context.Context, cmd SeedRolesCommand) (SeedRolesResult, error) {
	if err := cmd.Validate(); err != nil {
		return SeedRolesResult{}, err
	}

	return inTx(ctx, h.retry, func() (SeedRolesResult, error) {
		return h.handle(ctx, cmd)
	})
}

func (h *SeedRolesCommandHandler) handle(ctx context.Context, cmd SeedRolesCommand) (SeedRolesResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return SeedRolesResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	var result SeedRolesResult
	accessRepo := uow.AccessRepository()
	for _, def := range cmd.roles {
		role, err := accessRepo.FindRoleByName(ctx, def.name)
		if err != nil {
			return SeedRolesResult{}, err
		}

		if role == nil {
			if role, err = access.NewRole(def.name, def.description, def.permissions); err != nil {
				return SeedRolesResult{}, err
			}
			if !def.activity.IsActive() {
				if err = role.Redefine(def.description, def.permissions, def.activity); err != nil {
					return SeedRolesResult{}, err
				}
			}
			result.Created++
		} else {
			if err = role.Redefine(def.description, def.permissions, def.activity); err != nil {
				return SeedRolesResult{}, err
			}
			result.Updated++
		}

		if err = accessRepo.SaveRole(ctx, role); err != nil {
			return SeedRolesResult{}, err
		}
	}

	if err := uow.Commit(ctx); err != nil {
		return SeedRolesResult{}, err
	}

	return result, nil
}
