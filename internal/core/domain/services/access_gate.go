package services

import (
	"fmt"

	"fulfillment/internal/core/domain/model/access"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// AccessGate evaluates resolved grants. It fails closed: a missing grant, an
// inactive role or a role lacking the exact permission all deny.
//
// Platform administrators come from configuration. They may manage kitchens
// and staff assignments anywhere, which is how the first assignment of a new
// kitchen is made; they get no implicit rights on orders or batches.
type AccessGate struct {
	admins map[kernel.UUID]struct{}
}

func NewAccessGate(platformAdmins []kernel.UUID) AccessGate {
	admins := make(map[kernel.UUID]struct{}, len(platformAdmins))
	for _, id := range platformAdmins {
		admins[id] = struct{}{}
	}
	return AccessGate{admins: admins}
}

// HasPermission reports whether grant allows p.
func (AccessGate) HasPermission(grant *access.Grant, p access.Permission) bool {
	return grant.Allows(p)
}

// Authorize returns an error of kind PermissionDenied unless grant allows p.
func (g AccessGate) Authorize(actorID kernel.UUID, grant *access.Grant, p access.Permission) error {
	if g.HasPermission(grant, p) {
		return nil
	}
	return fmt.Errorf("%w: user %s lacks %s", errs.ErrPermissionDenied, actorID, p)
}

// AuthorizeManagement admits platform administrators and holders of
// access:manage on the kitchen.
func (g AccessGate) AuthorizeManagement(actorID kernel.UUID, grant *access.Grant) error {
	if g.IsPlatformAdmin(actorID) {
		return nil
	}
	return g.Authorize(actorID, grant, access.AccessManage)
}

// AuthorizePlatform admits platform administrators only.
func (g AccessGate) AuthorizePlatform(actorID kernel.UUID) error {
	if g.IsPlatformAdmin(actorID) {
		return nil
	}
	return fmt.Errorf("%w: user %s is not a platform administrator", errs.ErrPermissionDenied, actorID)
}

func (g AccessGate) IsPlatformAdmin(userID kernel.UUID) bool {
	_, ok := g.admins[userID]
	return ok
}

// RequireAssignment returns an error of kind AccessDenied when the target
// user has no assignment to the kitchen. Order and batch assignment use it.
func (AccessGate) RequireAssignment(userID kernel.UUID, grant *access.Grant) error {
	if grant == nil {
		return fmt.Errorf("%w: user %s has no assignment to the kitchen", errs.ErrAccessDenied, userID)
	}
	return nil
}
