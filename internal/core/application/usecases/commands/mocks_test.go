package commands_test

import (
	"context"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/access"
	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/kitchen"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockKitchenRepository struct{ mock.Mock }

func (m *MockKitchenRepository) Add(ctx context.Context, k *kitchen.Kitchen) error {
	return m.Called(ctx, k).Error(0)
}

func (m *MockKitchenRepository) Update(ctx context.Context, k *kitchen.Kitchen) error {
	return m.Called(ctx, k).Error(0)
}

func (m *MockKitchenRepository) Get(ctx context.Context, id kernel.UUID) (*kitchen.Kitchen, error) {
	args := m.Called(ctx, id)
	k, _ := args.Get(0).(*kitchen.Kitchen)
	return k, args.Error(1)
}

func (m *MockKitchenRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*kitchen.Kitchen, error) {
	args := m.Called(ctx, id)
	k, _ := args.Get(0).(*kitchen.Kitchen)
	return k, args.Error(1)
}

func (m *MockKitchenRepository) LockActive(ctx context.Context) ([]*kitchen.Kitchen, error) {
	args := m.Called(ctx)
	ks, _ := args.Get(0).([]*kitchen.Kitchen)
	return ks, args.Error(1)
}

type MockZoneRepository struct{ mock.Mock }

func (m *MockZoneRepository) Add(ctx context.Context, z *kitchen.Zone) error {
	return m.Called(ctx, z).Error(0)
}

func (m *MockZoneRepository) Get(ctx context.Context, id kernel.UUID) (*kitchen.Zone, error) {
	args := m.Called(ctx, id)
	z, _ := args.Get(0).(*kitchen.Zone)
	return z, args.Error(1)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetManyForUpdate(ctx context.Context, ids []kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, ids)
	os, _ := args.Get(0).([]*order.Order)
	return os, args.Error(1)
}

func (m *MockOrderRepository) CountActiveByKitchen(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]int, error) {
	args := m.Called(ctx, ids)
	counts, _ := args.Get(0).(map[kernel.UUID]int)
	return counts, args.Error(1)
}

type MockBatchRepository struct{ mock.Mock }

func (m *MockBatchRepository) Add(ctx context.Context, b *batch.Batch) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBatchRepository) Update(ctx context.Context, b *batch.Batch) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBatchRepository) Get(ctx context.Context, id kernel.UUID) (*batch.Batch, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*batch.Batch)
	return b, args.Error(1)
}

func (m *MockBatchRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*batch.Batch, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*batch.Batch)
	return b, args.Error(1)
}

func (m *MockBatchRepository) BatchIDForItem(ctx context.Context, itemID kernel.UUID) (kernel.UUID, error) {
	args := m.Called(ctx, itemID)
	id, _ := args.Get(0).(kernel.UUID)
	return id, args.Error(1)
}

func (m *MockBatchRepository) OpenBatchOrderIDs(ctx context.Context, ids []kernel.UUID) ([]kernel.UUID, error) {
	args := m.Called(ctx, ids)
	open, _ := args.Get(0).([]kernel.UUID)
	return open, args.Error(1)
}

type MockAccessRepository struct{ mock.Mock }

func (m *MockAccessRepository) SaveRole(ctx context.Context, r *access.Role) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockAccessRepository) GetRole(ctx context.Context, id kernel.UUID) (*access.Role, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*access.Role)
	return r, args.Error(1)
}

func (m *MockAccessRepository) FindRoleByName(ctx context.Context, name string) (*access.Role, error) {
	args := m.Called(ctx, name)
	r, _ := args.Get(0).(*access.Role)
	return r, args.Error(1)
}

func (m *MockAccessRepository) FindGrant(ctx context.Context, userID, kitchenID kernel.UUID) (*access.Grant, error) {
	args := m.Called(ctx, userID, kitchenID)
	g, _ := args.Get(0).(*access.Grant)
	return g, args.Error(1)
}

func (m *MockAccessRepository) UpsertAssignment(ctx context.Context, a *access.Assignment) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAccessRepository) DeleteAssignment(ctx context.Context, userID, kitchenID kernel.UUID) error {
	return m.Called(ctx, userID, kitchenID).Error(0)
}

// MockUoW records the transaction calls; repositories are plain fields so
// tests only set expectations on the calls that matter.
type MockUoW struct {
	mock.Mock

	kitchens *MockKitchenRepository
	zones    *MockZoneRepository
	orders   *MockOrderRepository
	batches  *MockBatchRepository
	access   *MockAccessRepository
}

func newMockUoW() *MockUoW {
	return &MockUoW{
		kitchens: new(MockKitchenRepository),
		zones:    new(MockZoneRepository),
		orders:   new(MockOrderRepository),
		batches:  new(MockBatchRepository),
		access:   new(MockAccessRepository),
	}
}

func (m *MockUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockUoW) KitchenRepository() ports.KitchenRepository { return m.kitchens }
func (m *MockUoW) ZoneRepository() ports.ZoneRepository       { return m.zones }
func (m *MockUoW) OrderRepository() ports.OrderRepository     { return m.orders }
func (m *MockUoW) BatchRepository() ports.BatchRepository     { return m.batches }
func (m *MockUoW) AccessRepository() ports.AccessRepository   { return m.access }

func (m *MockUoW) assertExpectations(t *testing.T) {
	t.Helper()
	m.AssertExpectations(t)
	m.kitchens.AssertExpectations(t)
	m.zones.AssertExpectations(t)
	m.orders.AssertExpectations(t)
	m.batches.AssertExpectations(t)
	m.access.AssertExpectations(t)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	return m.Called().Get(0).(commands.UoW)
}

type MockRoutingUoWFactory struct{ mock.Mock }

func (m *MockRoutingUoWFactory) Create() commands.RoutingUoW {
	return m.Called().Get(0).(commands.RoutingUoW)
}

func factoryFor(uows ...*MockUoW) *MockUoWFactory {
	factory := new(MockUoWFactory)
	for _, uow := range uows {
		factory.On("Create").Return(uow).Once()
	}
	return factory
}

// expectCommit sets up a successful transaction.
func expectCommit(ctx context.Context, uow *MockUoW) {
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
}

// expectAbort sets up a transaction that is rolled back.
func expectAbort(ctx context.Context, uow *MockUoW) {
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
}

func newZone(t *testing.T) *kitchen.Zone {
	t.Helper()
	z, err := kitchen.NewZone("North")
	require.NoError(t, err)
	return z
}

func newKitchen(t *testing.T, name string, capacity int) *kitchen.Kitchen {
	t.Helper()
	k, err := kitchen.NewKitchen(name, newZone(t), capacity)
	require.NoError(t, err)
	return k
}

func grantFor(t *testing.T, userID kernel.UUID, k *kitchen.Kitchen, perms ...access.Permission) *access.Grant {
	t.Helper()
	role, err := access.NewRole("staff", "", perms)
	require.NoError(t, err)
	a, err := access.NewAssignment(userID, k, role, false)
	require.NoError(t, err)
	return &access.Grant{Assignment: *a, Role: role}
}

func newOrder(t *testing.T, kitchenID kernel.UUID, lines int) *order.Order {
	t.Helper()
	price, err := kernel.MoneyFromString("4.50")
	require.NoError(t, err)
	items := make([]*order.Item, 0, lines)
	for range lines {
		item, err := order.NewItem(kernel.NewUUID(), "vanilla", 2, price)
		require.NoError(t, err)
		items = append(items, item)
	}
	o, err := order.NewOrder(kitchenID,
		order.Customer{Name: "Ada", Phone: "555-0101"},
		order.Delivery{AddressLine: "1 Main St", City: "Springfield"},
		items, kernel.PriorityNormal, "")
	require.NoError(t, err)
	return o
}
