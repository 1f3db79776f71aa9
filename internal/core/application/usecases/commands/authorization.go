package commands

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/access"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
)

// authorize consults the gate for actor on kitchenID before any mutation.
func authorize(
	ctx context.Context,
	uow AccessRepoFactory,
	gate services.AccessGate,
	actorID, kitchenID kernel.UUID,
	permission access.Permission,
) error {
	grant, err := uow.AccessRepository().FindGrant(ctx, actorID, kitchenID)
	if err != nil {
		return err
	}
	return gate.Authorize(actorID, grant, permission)
}

// requireAssignment fails with AccessDenied when userID has no assignment to
// kitchenID.
func requireAssignment(
	ctx context.Context,
	uow AccessRepoFactory,
	gate services.AccessGate,
	userID, kitchenID kernel.UUID,
) error {
	grant, err := uow.AccessRepository().FindGrant(ctx, userID, kitchenID)
	if err != nil {
		return err
	}
	return gate.RequireAssignment(userID, grant)
}

// concealMissing turns a not-found lookup performed on behalf of an actor into
// PermissionDenied, so that callers cannot learn which ids exist.
func concealMissing(err error, what string) error {
	if errors.Is(err, errs.ErrObjectNotFound) {
		return fmt.Errorf("%w: %s is not accessible", errs.ErrPermissionDenied, what)
	}
	return err
}
