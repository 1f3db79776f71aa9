// Package queries contains read-only operations. Handlers read straight from
// the database through GORM and return flat response structs; every
// kitchen-scoped read checks the actor's view permission first.
package queries

import (
	"context"
	"slices"

	"fulfillment/internal/core/domain/model/access"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GrantFinder resolves the assignment of a user to a kitchen together with
// its role. ports.AccessRepository satisfies it.
type GrantFinder interface {
	FindGrant(ctx context.Context, userID, kitchenID kernel.UUID) (*access.Grant, error)
}

// Authorizer answers the permission checks of the read side with the same
// gate the commands use.
type Authorizer struct {
	grants GrantFinder
	gate   services.AccessGate
}

func NewAuthorizer(grants GrantFinder, gate services.AccessGate) Authorizer {
	return Authorizer{grants: grants, gate: gate}
}

// permissionsOf returns the effective "name:value" permissions of userID in
// kitchenID, sorted. An inactive role yields none.
func (a Authorizer) permissionsOf(ctx context.Context, userID, kitchenID kernel.UUID) ([]string, error) {
	grant, err := a.grants.FindGrant(ctx, userID, kitchenID)
	if err != nil {
		return nil, err
	}
	out := grant.PermissionStrings()
	slices.Sort(out)
	return out, nil
}

// authorize fails with PermissionDenied unless actorID holds permission in
// kitchenID.
func (a Authorizer) authorize(ctx context.Context, actorID, kitchenID kernel.UUID, permission access.Permission) error {
	grant, err := a.grants.FindGrant(ctx, actorID, kitchenID)
	if err != nil {
		return err
	}
	return a.gate.Authorize(actorID, grant, permission)
}

// authorizeManagement admits platform administrators and holders of
// access:manage in kitchenID.
func (a Authorizer) authorizeManagement(ctx context.Context, actorID, kitchenID kernel.UUID) error {
	if a.gate.IsPlatformAdmin(actorID) {
		return nil
	}
	grant, err := a.grants.FindGrant(ctx, actorID, kitchenID)
	if err != nil {
		return err
	}
	return a.gate.AuthorizeManagement(actorID, grant)
}

func statusInts(statuses []order.Status) []int {
	out := make([]int, len(statuses))
	for i, s := range statuses {
		out[i] = int(s)
	}
	return out
}

func priorityInts(priorities []kernel.Priority) []int {
	out := make([]int, len(priorities))
	for i, p := range priorities {
		out[i] = int(p)
	}
	return out
}

func requireID(param string, id kernel.UUID, dst *kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(param, err)
	}
	*dst = id
	return nil
}

// limitTo caps the result set; a zero limit leaves it unbounded.
func limitTo(limit int) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return tx
		}
		return tx.Limit(limit)
	}
}
