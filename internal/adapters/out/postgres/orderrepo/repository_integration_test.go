package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/pgtest"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite verifies order persistence against a
// real PostgreSQL instance.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	database   *pgtest.Database
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.db = database.DB

	suite.Require().NoError(suite.db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.ItemDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders, order_items").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

func (suite *OrderRepositoryIntegrationTestSuite) newOrder(kitchenID kernel.UUID, quantities ...int) *order.Order {
	price, err := kernel.MoneyFromString("4.50")
	suite.Require().NoError(err)

	items := make([]*order.Item, 0, len(quantities))
	for _, q := range quantities {
		item, itemErr := order.NewItem(kernel.NewUUID(), "vanilla", q, price)
		suite.Require().NoError(itemErr)
		items = append(items, item)
	}

	o, err := order.NewOrder(kitchenID,
		order.Customer{Name: "Ada Lovelace", Phone: "555-0101", Email: "ada@example.com"},
		order.Delivery{AddressLine: "1 Main St", City: "Springfield", PostalCode: "12345"},
		items, kernel.PriorityHigh, "ring twice")
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_RoundTrip() {
	ctx := context.Background()
	o := suite.newOrder(kernel.NewUUID(), 2, 3)

	suite.Require().NoError(suite.repository.Add(ctx, o))
	suite.tracker.AssertCalled(suite.T(), "TrackAggregate", o.ID(), o)

	got, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(o.Number(), got.Number())
	suite.True(o.KitchenID().IsEqual(got.KitchenID()))
	suite.Equal(o.Customer(), got.Customer())
	suite.Equal(o.Delivery(), got.Delivery())
	suite.Equal("22.50", got.Total().String())
	suite.Equal(order.Received, got.Status())
	suite.Equal(kernel.PriorityHigh, got.Priority())
	suite.Equal("ring twice", got.Notes())
	suite.Len(got.Items(), 2)
	suite.Empty(got.DomainEvents())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_KeepsItemInsertionOrder() {
	ctx := context.Background()
	quantities := []int{9, 1, 8, 2, 7, 3, 6, 4, 5}
	o := suite.newOrder(kernel.NewUUID(), quantities...)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	got, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().Len(got.Items(), len(quantities))
	for i, item := range got.Items() {
		suite.True(o.Items()[i].ID().IsEqual(item.ID()), "item %d", i)
		suite.Equal(quantities[i], item.Quantity())
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_PersistsLifecycleFields() {
	ctx := context.Background()
	o := suite.newOrder(kernel.NewUUID(), 1)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	assignee := kernel.NewUUID()
	eta := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	suite.Require().NoError(o.AssignTo(assignee))
	o.SetEstimatedCompletion(&eta)
	suite.Require().NoError(o.ChangeStatus(order.Preparing, false))
	suite.Require().NoError(suite.repository.Update(ctx, o))

	got, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Preparing, got.Status())
	suite.Require().NotNil(got.AssigneeID())
	suite.True(assignee.IsEqual(*got.AssigneeID()))
	suite.Require().NotNil(got.EstimatedCompletion())
	suite.True(eta.Equal(*got.EstimatedCompletion()))
	suite.Nil(got.ActualCompletion())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_UnknownOrder() {
	o := suite.newOrder(kernel.NewUUID(), 1)

	err := suite.repository.Update(context.Background(), o)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetManyForUpdate_ReturnsExistingOnly() {
	ctx := context.Background()
	kitchenID := kernel.NewUUID()
	a, b := suite.newOrder(kitchenID, 1), suite.newOrder(kitchenID, 2, 2)
	suite.Require().NoError(suite.repository.Add(ctx, a))
	suite.Require().NoError(suite.repository.Add(ctx, b))

	err := suite.db.Transaction(func(tx *gorm.DB) error {
		repo := orderrepo.NewGormOrderRepository(tx, suite.tracker)
		orders, err := repo.GetManyForUpdate(ctx, []kernel.UUID{a.ID(), kernel.NewUUID(), b.ID()})
		suite.Require().NoError(err)
		suite.Len(orders, 2)
		for _, o := range orders {
			suite.NotEmpty(o.Items())
		}
		return nil
	})
	suite.Require().NoError(err)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestCountActiveByKitchen() {
	ctx := context.Background()
	busy, idle, other := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()

	for range 3 {
		suite.Require().NoError(suite.repository.Add(ctx, suite.newOrder(busy, 1)))
	}
	ready := suite.newOrder(busy, 1)
	suite.Require().NoError(suite.repository.Add(ctx, ready))
	for _, s := range []order.Status{order.Preparing, order.Packing, order.Ready} {
		suite.Require().NoError(ready.ChangeStatus(s, false))
	}
	suite.Require().NoError(suite.repository.Update(ctx, ready))
	suite.Require().NoError(suite.repository.Add(ctx, suite.newOrder(other, 1)))

	counts, err := suite.repository.CountActiveByKitchen(ctx, []kernel.UUID{busy, idle})
	suite.Require().NoError(err)
	suite.Equal(map[kernel.UUID]int{busy: 3}, counts)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
