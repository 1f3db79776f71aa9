package queries_test

import (
	"context"
	"testing"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/access"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGrantFinder struct {
	mock.Mock
}

func (m *MockGrantFinder) FindGrant(ctx context.Context, userID, kitchenID kernel.UUID) (*access.Grant, error) {
	args := m.Called(ctx, userID, kitchenID)
	grant, _ := args.Get(0).(*access.Grant)
	return grant, args.Error(1)
}

func grantOf(t *testing.T, userID, kitchenID kernel.UUID, active bool, perms ...access.Permission) *access.Grant {
	t.Helper()
	role, err := access.NewRole("line_cook", "", perms)
	require.NoError(t, err)
	if !active {
		require.NoError(t, role.Redefine("", perms, kernel.Inactive))
	}
	return &access.Grant{
		Assignment: access.Assignment{UserID: userID, KitchenID: kitchenID, RoleID: role.ID()},
		Role:       role,
	}
}

func TestGetUserPermissionsQueryHandler_UsesAccessGate(t *testing.T) {
	ctx := context.Background()
	kitchen := kernel.NewUUID()
	cook := kernel.NewUUID()
	manager := kernel.NewUUID()
	admin := kernel.NewUUID()
	stranger := kernel.NewUUID()

	grants := &MockGrantFinder{}
	grants.On("FindGrant", ctx, cook, kitchen).
		Return(grantOf(t, cook, kitchen, true, access.OrdersView, access.BatchesUpdate), nil)
	grants.On("FindGrant", ctx, manager, kitchen).
		Return(grantOf(t, manager, kitchen, true, access.AccessManage), nil)
	grants.On("FindGrant", ctx, stranger, kitchen).Return(nil, nil)

	handler := queries.NewGetUserPermissionsQueryHandler(
		queries.NewAuthorizer(grants, services.NewAccessGate([]kernel.UUID{admin})))

	testCases := []struct {
		name    string
		actor   kernel.UUID
		wantErr error
	}{
		{"self", cook, nil},
		{"manager", manager, nil},
		{"platform admin", admin, nil},
		{"no assignment", stranger, errs.ErrPermissionDenied},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			query, err := queries.NewGetUserPermissionsQuery(tc.actor, cook, kitchen)
			require.NoError(t, err)

			got, err := handler.Handle(ctx, query)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Equal(t, errs.KindPermissionDenied, errs.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{"batches:update", "orders:view"}, got.Permissions)
		})
	}
}

func TestGetUserPermissionsQueryHandler_InactiveRoleGrantsNothing(t *testing.T) {
	ctx := context.Background()
	kitchen, cook, manager := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()

	grants := &MockGrantFinder{}
	grants.On("FindGrant", ctx, cook, kitchen).
		Return(grantOf(t, cook, kitchen, false, access.OrdersView), nil)
	grants.On("FindGrant", ctx, manager, kitchen).
		Return(grantOf(t, manager, kitchen, false, access.AccessManage), nil)
	handler := queries.NewGetUserPermissionsQueryHandler(
		queries.NewAuthorizer(grants, services.NewAccessGate(nil)))

	self, err := queries.NewGetUserPermissionsQuery(cook, cook, kitchen)
	require.NoError(t, err)
	got, err := handler.Handle(ctx, self)
	require.NoError(t, err)
	assert.Empty(t, got.Permissions)

	byManager, err := queries.NewGetUserPermissionsQuery(manager, cook, kitchen)
	require.NoError(t, err)
	_, err = handler.Handle(ctx, byManager)
	assert.ErrorIs(t, err, errs.ErrPermissionDenied)
	grants.AssertExpectations(t)
}
