package queries

import (
	"context"
)

// GetUserPermissionsQueryHandler lists a user's permissions in a kitchen.
// Users may read their own; reading someone else's takes access:manage on
// the kitchen or platform administration.
type GetUserPermissionsQueryHandler struct {
	auth Authorizer
}

func NewGetUserPermissionsQueryHandler(auth Authorizer) GetUserPermissionsQueryHandler {
	return GetUserPermissionsQueryHandler{auth: auth}
}

func (h GetUserPermissionsQueryHandler) Handle(
	ctx context.Context,
	query GetUserPermissionsQuery,
) (GetUserPermissionsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetUserPermissionsQueryResponse{}, err
	}

	if !query.actorID.IsEqual(query.userID) {
		if err := h.auth.authorizeManagement(ctx, query.actorID, query.kitchenID); err != nil {
			return GetUserPermissionsQueryResponse{}, err
		}
	}

	permissions, err := h.auth.permissionsOf(ctx, query.userID, query.kitchenID)
	if err != nil {
		return GetUserPermissionsQueryResponse{}, err
	}
	return GetUserPermissionsQueryResponse{
		UserID:      query.userID,
		KitchenID:   query.kitchenID,
		Permissions: permissions,
	}, nil
}
