package commands_test

import (
	"errors"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/kitchen"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func routeCommand(t *testing.T) commands.RouteOrderCommand {
	t.Helper()
	price, err := kernel.MoneyFromString("12.00")
	require.NoError(t, err)
	cmd, err := commands.NewRouteOrderCommand(
		order.Customer{Name: "Grace", Email: "grace@example.com"},
		order.Delivery{AddressLine: "9 Oak Ave", City: "Shelbyville"},
		[]commands.RouteOrderLine{{ProductID: kernel.NewUUID(), Variant: "chocolate", Quantity: 3, UnitPrice: price}},
		kernel.PriorityHigh,
		"",
	)
	require.NoError(t, err)
	return cmd
}

func fastRetry() commands.RetryPolicy {
	return commands.RetryPolicy{MaxRetries: 2, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}
}

func TestRouteOrderCommandHandler_Handle_PicksGreatestAvailableCapacity(t *testing.T) {
	ctx := t.Context()
	small := newKitchen(t, "Alpha", 5)
	large := newKitchen(t, "Beta", 10)
	ids := []kernel.UUID{small.ID(), large.ID()}

	uow := newMockUoW()
	var stored *order.Order
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.kitchens.On("LockActive", ctx).Return([]*kitchen.Kitchen{small, large}, nil).Once(),
		uow.orders.On("CountActiveByKitchen", ctx, ids).Return(map[kernel.UUID]int{large.ID(): 8}, nil).Once(),
		uow.orders.On("Add", ctx, mock.AnythingOfType("*order.Order")).
			Run(func(args mock.Arguments) { stored = args.Get(1).(*order.Order) }).
			Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockRoutingUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewRouteOrderCommandHandler(factory, services.NewKitchenSelector(), commands.NoRetry())
	result, err := h.Handle(ctx, routeCommand(t))

	require.NoError(t, err)
	assert.Equal(t, small.ID(), result.KitchenID)
	require.NotNil(t, stored)
	assert.Equal(t, stored.ID(), result.OrderID)
	assert.Equal(t, stored.Number(), result.Number)
	assert.Equal(t, order.Received, stored.Status())
	assert.Equal(t, "36.00", stored.Total().String())
	assert.Len(t, stored.Items(), 1)
	uow.assertExpectations(t)
	factory.AssertExpectations(t)
}

func TestRouteOrderCommandHandler_Handle_NoCapacity(t *testing.T) {
	ctx := t.Context()
	full := newKitchen(t, "Alpha", 2)

	uow := newMockUoW()
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.kitchens.On("LockActive", ctx).Return([]*kitchen.Kitchen{full}, nil).Once(),
		uow.orders.On("CountActiveByKitchen", ctx, []kernel.UUID{full.ID()}).
			Return(map[kernel.UUID]int{full.ID(): 2}, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockRoutingUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewRouteOrderCommandHandler(factory, services.NewKitchenSelector(), fastRetry())
	_, err := h.Handle(ctx, routeCommand(t))

	require.ErrorIs(t, err, errs.ErrNoCapacity)
	uow.orders.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	uow.assertExpectations(t)
	factory.AssertExpectations(t)
}

func TestRouteOrderCommandHandler_Handle_RetriesTransientFailure(t *testing.T) {
	ctx := t.Context()
	k := newKitchen(t, "Alpha", 5)
	conflict := errs.NewTransientPersistenceFailureError("insert order", errors.New("40001"))

	first, second := newMockUoW(), newMockUoW()
	for _, uow := range []*MockUoW{first, second} {
		uow.kitchens.On("LockActive", ctx).Return([]*kitchen.Kitchen{k}, nil).Once()
		uow.orders.On("CountActiveByKitchen", ctx, []kernel.UUID{k.ID()}).Return(map[kernel.UUID]int{}, nil).Once()
	}
	expectAbort(ctx, first)
	first.orders.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(conflict).Once()
	expectCommit(ctx, second)
	second.orders.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()

	factory := new(MockRoutingUoWFactory)
	factory.On("Create").Return(first).Once()
	factory.On("Create").Return(second).Once()

	h := commands.NewRouteOrderCommandHandler(factory, services.NewKitchenSelector(), fastRetry())
	result, err := h.Handle(ctx, routeCommand(t))

	require.NoError(t, err)
	assert.Equal(t, k.ID(), result.KitchenID)
	first.assertExpectations(t)
	second.assertExpectations(t)
	factory.AssertExpectations(t)
}

func TestRouteOrderCommandHandler_Handle_PermanentFailureIsNotRetried(t *testing.T) {
	ctx := t.Context()
	k := newKitchen(t, "Alpha", 5)

	uow := newMockUoW()
	expectAbort(ctx, uow)
	uow.kitchens.On("LockActive", ctx).Return([]*kitchen.Kitchen{k}, nil).Once()
	uow.orders.On("CountActiveByKitchen", ctx, []kernel.UUID{k.ID()}).Return(map[kernel.UUID]int{}, nil).Once()
	uow.orders.On("Add", ctx, mock.AnythingOfType("*order.Order")).
		Return(errs.NewPersistenceFailureError("insert order", errors.New("disk full"))).Once()

	factory := new(MockRoutingUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewRouteOrderCommandHandler(factory, services.NewKitchenSelector(), fastRetry())
	_, err := h.Handle(ctx, routeCommand(t))

	require.ErrorIs(t, err, errs.ErrPersistenceFailure)
	uow.assertExpectations(t)
	factory.AssertExpectations(t)
}

func TestRouteOrderCommandHandler_Handle_InvalidLine(t *testing.T) {
	ctx := t.Context()
	price, err := kernel.MoneyFromString("1.00")
	require.NoError(t, err)
	cmd, err := commands.NewRouteOrderCommand(
		order.Customer{Name: "Grace", Phone: "555"},
		order.Delivery{AddressLine: "9 Oak Ave", City: "Shelbyville"},
		[]commands.RouteOrderLine{{ProductID: kernel.NewUUID(), Variant: "plain", Quantity: 0, UnitPrice: price}},
		kernel.PriorityNormal,
		"",
	)
	require.NoError(t, err)

	factory := new(MockRoutingUoWFactory)
	h := commands.NewRouteOrderCommandHandler(factory, services.NewKitchenSelector(), commands.NoRetry())
	_, err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	factory.AssertNotCalled(t, "Create")
}

func TestRouteOrderCommandHandler_Handle_NotConstructed(t *testing.T) {
	factory := new(MockRoutingUoWFactory)
	h := commands.NewRouteOrderCommandHandler(factory, services.NewKitchenSelector(), commands.NoRetry())
	_, err := h.Handle(t.Context(), commands.RouteOrderCommand{})
	require.ErrorIs(t, err, commands.ErrRouteOrderCommandIsNotConstructed)
}
