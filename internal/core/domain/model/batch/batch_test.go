package batch_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(t *testing.T, kitchenID kernel.UUID, lines int) *order.Order {
	t.Helper()
	price, _ := kernel.MoneyFromString("2.00")
	items := make([]*order.Item, 0, lines)
	for range lines {
		item, err := order.NewItem(kernel.NewUUID(), "chocolate", 1, price)
		require.NoError(t, err)
		items = append(items, item)
	}
	o, err := order.NewOrder(kitchenID,
		order.Customer{Name: "Grace", Email: "grace@example.com"},
		order.Delivery{AddressLine: "2 Side St", City: "Springfield"},
		items, kernel.PriorityNormal, "")
	require.NoError(t, err)
	return o
}

func newBatch(t *testing.T) (*batch.Batch, *order.Order, *order.Order) {
	t.Helper()
	kitchenID := kernel.NewUUID()
	a := newOrder(t, kitchenID, 2)
	b := newOrder(t, kitchenID, 1)
	created, err := batch.NewBatch("Morning run", kitchenID, []*order.Order{a, b},
		kernel.PriorityHigh, "", kernel.NewUUID())
	require.NoError(t, err)
	return created, a, b
}

func itemsOf(b *batch.Batch, orderID kernel.UUID) []*batch.Item {
	var out []*batch.Item
	for _, item := range b.Items() {
		if item.OrderID().IsEqual(orderID) {
			out = append(out, item)
		}
	}
	return out
}

func TestNewBatch(t *testing.T) {
	t.Run("explodes every order line", func(t *testing.T) {
		b, a, o := newBatch(t)

		require.NoError(t, b.Validate())
		assert.Equal(t, batch.Pending, b.Status())
		assert.Len(t, b.Items(), 3)
		assert.Equal(t, []kernel.UUID{a.ID(), o.ID()}, b.OrderIDs())
		for _, item := range b.Items() {
			assert.Equal(t, batch.Pending, item.Status())
			assert.True(t, item.BatchID().IsEqual(b.ID()))
		}
		assert.Nil(t, b.StartedAt())
		require.Len(t, b.DomainEvents(), 1)
		assert.Equal(t, batch.EventCreated, b.DomainEvents()[0].Type)
	})

	t.Run("rejects invalid order sets", func(t *testing.T) {
		kitchenID := kernel.NewUUID()
		own := newOrder(t, kitchenID, 1)
		foreign := newOrder(t, kernel.NewUUID(), 1)
		packing := newOrder(t, kitchenID, 1)
		require.NoError(t, packing.ChangeStatus(order.Preparing, false))
		require.NoError(t, packing.ChangeStatus(order.Packing, false))

		testCases := []struct {
			name   string
			orders []*order.Order
		}{
			{"empty", nil},
			{"other kitchen", []*order.Order{own, foreign}},
			{"wrong status", []*order.Order{packing}},
			{"duplicate", []*order.Order{own, own}},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := batch.NewBatch("Run", kitchenID, tc.orders, kernel.PriorityNormal, "", kernel.NewUUID())

				assert.ErrorIs(t, err, errs.ErrInvalidOrderSet)
				assert.Equal(t, errs.KindInvalidOrderSet, errs.KindOf(err))
			})
		}
	})

	t.Run("requires name and creator", func(t *testing.T) {
		kitchenID := kernel.NewUUID()
		_, err := batch.NewBatch("", kitchenID, []*order.Order{newOrder(t, kitchenID, 1)},
			kernel.PriorityNormal, "", kernel.UUID{})
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestBatch_ItemCascade(t *testing.T) {
	b, a, o := newBatch(t)

	// first item progress starts the batch
	first := itemsOf(b, a.ID())[0]
	completed, err := b.UpdateItemStatus(first.ID(), batch.InProgress)
	require.NoError(t, err)
	assert.False(t, completed)
	assert.Equal(t, batch.InProgress, b.Status())
	require.NotNil(t, b.StartedAt())

	// finishing only order A keeps the batch running
	for _, item := range itemsOf(b, a.ID()) {
		if item.Status() == batch.Pending {
			_, err = b.UpdateItemStatus(item.ID(), batch.InProgress)
			require.NoError(t, err)
		}
		completed, err = b.UpdateItemStatus(item.ID(), batch.Completed)
		require.NoError(t, err)
		assert.False(t, completed)
		assert.NotNil(t, item.CompletedAt())
	}
	assert.Equal(t, batch.InProgress, b.Status())
	assert.Nil(t, b.CompletedAt())

	// last item completes the batch
	last := itemsOf(b, o.ID())[0]
	_, err = b.UpdateItemStatus(last.ID(), batch.InProgress)
	require.NoError(t, err)
	completed, err = b.UpdateItemStatus(last.ID(), batch.Completed)
	require.NoError(t, err)
	assert.True(t, completed)
	assert.Equal(t, batch.Completed, b.Status())
	assert.NotNil(t, b.CompletedAt())
}

func TestBatch_UpdateItemStatusErrors(t *testing.T) {
	b, _, _ := newBatch(t)
	item := b.Items()[0]

	_, err := b.UpdateItemStatus(item.ID(), batch.Pending)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)

	_, err = b.UpdateItemStatus(kernel.NewUUID(), batch.InProgress)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)

	require.NoError(t, b.Cancel("oven down"))
	_, err = b.UpdateItemStatus(item.ID(), batch.InProgress)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestBatch_ItemTransitions(t *testing.T) {
	allowed := map[batch.Status][]batch.Status{
		batch.Pending:    {batch.InProgress, batch.Completed, batch.Cancelled},
		batch.InProgress: {batch.Completed, batch.Cancelled},
	}
	for _, from := range batch.Statuses() {
		for _, to := range batch.Statuses() {
			expected := false
			for _, a := range allowed[from] {
				expected = expected || a == to
			}
			assert.Equal(t, expected, from.CanItemTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestBatch_CompletePendingItems(t *testing.T) {
	b, a, o := newBatch(t)

	// completing a pending item starts the batch
	first := itemsOf(b, a.ID())[0]
	completed, err := b.UpdateItemStatus(first.ID(), batch.Completed)
	require.NoError(t, err)
	assert.False(t, completed)
	assert.Equal(t, batch.Completed, first.Status())
	assert.NotNil(t, first.CompletedAt())
	assert.Equal(t, batch.InProgress, b.Status())
	require.NotNil(t, b.StartedAt())

	for _, item := range append(itemsOf(b, a.ID())[1:], itemsOf(b, o.ID())...) {
		completed, err = b.UpdateItemStatus(item.ID(), batch.Completed)
		require.NoError(t, err)
	}
	assert.True(t, completed)
	assert.Equal(t, batch.Completed, b.Status())
	assert.NotNil(t, b.CompletedAt())
}

func TestBatch_CancelledItem(t *testing.T) {
	t.Run("blocks automatic completion", func(t *testing.T) {
		b, a, o := newBatch(t)
		dropped := itemsOf(b, o.ID())[0]
		_, err := b.UpdateItemStatus(dropped.ID(), batch.Cancelled)
		require.NoError(t, err)

		var completed bool
		for _, item := range itemsOf(b, a.ID()) {
			completed, err = b.UpdateItemStatus(item.ID(), batch.Completed)
			require.NoError(t, err)
		}

		assert.False(t, completed)
		assert.Equal(t, batch.InProgress, b.Status())
		assert.False(t, b.IsComplete())
	})

	t.Run("explicit completion keeps it cancelled", func(t *testing.T) {
		b, a, o := newBatch(t)
		dropped := itemsOf(b, o.ID())[0]
		_, err := b.UpdateItemStatus(dropped.ID(), batch.Cancelled)
		require.NoError(t, err)
		require.NoError(t, b.ChangeStatus(batch.InProgress))

		require.NoError(t, b.ChangeStatus(batch.Completed))

		assert.Equal(t, batch.Completed, b.Status())
		assert.NotNil(t, b.CompletedAt())
		assert.Equal(t, batch.Cancelled, dropped.Status())
		assert.Nil(t, dropped.CompletedAt())
		for _, item := range itemsOf(b, a.ID()) {
			assert.Equal(t, batch.Completed, item.Status())
		}
		for _, item := range b.Items() {
			assert.False(t, item.Status().IsOpen())
		}
	})
}

func TestBatch_ChangeStatus(t *testing.T) {
	t.Run("transition closure", func(t *testing.T) {
		allowed := map[batch.Status][]batch.Status{
			batch.Pending:    {batch.InProgress, batch.Cancelled},
			batch.InProgress: {batch.Completed, batch.Cancelled},
		}
		for _, from := range batch.Statuses() {
			for _, to := range batch.Statuses() {
				expected := false
				for _, a := range allowed[from] {
					expected = expected || a == to
				}
				assert.Equal(t, expected, from.CanTransitionTo(to), "%s -> %s", from, to)
			}
		}
	})

	t.Run("direct completion completes open items", func(t *testing.T) {
		b, _, _ := newBatch(t)
		require.NoError(t, b.ChangeStatus(batch.InProgress))
		require.NotNil(t, b.StartedAt())

		require.NoError(t, b.ChangeStatus(batch.Completed))

		assert.True(t, b.IsComplete())
		assert.NotNil(t, b.CompletedAt())
	})

	t.Run("pending cannot complete directly", func(t *testing.T) {
		b, _, _ := newBatch(t)

		err := b.ChangeStatus(batch.Completed)

		var transitionErr *errs.InvalidTransitionError
		require.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, "pending", transitionErr.Current)
		assert.Equal(t, "completed", transitionErr.Requested)
	})

	t.Run("cancel through status change", func(t *testing.T) {
		b, _, _ := newBatch(t)

		require.NoError(t, b.ChangeStatus(batch.Cancelled))

		assert.Equal(t, batch.Cancelled, b.Status())
		assert.Empty(t, b.Notes())
	})
}

func TestBatch_Cancel(t *testing.T) {
	b, _, _ := newBatch(t)
	b.SetNotes("rush")
	require.NoError(t, b.ChangeStatus(batch.InProgress))
	_, err := b.UpdateItemStatus(b.Items()[0].ID(), batch.InProgress)
	require.NoError(t, err)

	require.NoError(t, b.Cancel("  oven down "))

	assert.Equal(t, batch.Cancelled, b.Status())
	assert.Equal(t, "rush\nCancelled: oven down", b.Notes())
	for _, item := range b.Items() {
		assert.Equal(t, batch.Cancelled, item.Status())
	}
	assert.ErrorIs(t, b.Cancel("again"), errs.ErrInvalidTransition)
}

func TestBatch_AssignTo(t *testing.T) {
	b, _, _ := newBatch(t)
	user := kernel.NewUUID()

	require.NoError(t, b.AssignTo(user))
	assert.True(t, b.AssigneeID().IsEqual(user))

	require.NoError(t, b.Cancel(""))
	assert.ErrorIs(t, b.AssignTo(user), errs.ErrInvalidTransition)
}

func TestRestoreBatch(t *testing.T) {
	src, _, _ := newBatch(t)
	items := make([]batch.ItemState, 0)
	for _, item := range src.Items() {
		items = append(items, batch.ItemState{
			ID: item.ID(), OrderID: item.OrderID(), OrderItemID: item.OrderItemID(),
			ProductID: item.ProductID(), Variant: item.Variant(), Quantity: item.Quantity(),
			Status: batch.Completed,
		})
	}

	restored, err := batch.RestoreBatch(batch.State{
		ID: src.ID(), Name: src.Name(), KitchenID: src.KitchenID(), Status: batch.InProgress,
		Priority: src.Priority(), CreatorID: src.CreatorID(), Items: items,
		CreatedAt: src.CreatedAt(), UpdatedAt: src.UpdatedAt(),
	})

	require.NoError(t, err)
	assert.True(t, restored.IsComplete())
	assert.Empty(t, restored.DomainEvents())
	assert.Equal(t, src.OrderIDs(), restored.OrderIDs())

	_, err = batch.RestoreBatch(batch.State{})
	assert.Error(t, err)
}
