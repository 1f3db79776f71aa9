package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetUserPermissionsQueryIsNotConstructed = errors.New(
		"GetUserPermissionsQuery must be created via NewGetUserPermissionsQuery constructor",
	)
)

// GetUserPermissionsQuery reads the effective permissions of a user in a
// kitchen. Users may read their own; reading someone else's needs
// access:manage on the kitchen or platform administration.
type GetUserPermissionsQuery struct {
	actorID   kernel.UUID
	userID    kernel.UUID
	kitchenID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetUserPermissionsQuery(actorID, userID, kitchenID kernel.UUID) (GetUserPermissionsQuery, error) {
	var q GetUserPermissionsQuery
	if err := requireID("actorId", actorID, &q.actorID); err != nil {
		return GetUserPermissionsQuery{}, err
	}
	if err := requireID("userId", userID, &q.userID); err != nil {
		return GetUserPermissionsQuery{}, err
	}
	if err := requireID("kitchenId", kitchenID, &q.kitchenID); err != nil {
		return GetUserPermissionsQuery{}, err
	}
	q.guard = guard.NewConstructorGuard()
	return q, nil
}

func (q GetUserPermissionsQuery) Validate() error {
	return q.guard.Validate(ErrGetUserPermissionsQueryIsNotConstructed)
}

// GetUserPermissionsQueryResponse lists "name:value" strings sorted
// ascending. No assignment or an inactive role yields an empty list.
type GetUserPermissionsQueryResponse struct {
	UserID      kernel.UUID
	KitchenID   kernel.UUID
	Permissions []string
}
