package batch

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// Item is the production record of one order line within a batch.
type Item struct {
	id          kernel.UUID
	batchID     kernel.UUID
	orderID     kernel.UUID
	orderItemID kernel.UUID
	productID   kernel.UUID
	variant     string
	quantity    int
	status      Status
	completedAt *time.Time
}

// ItemState is the persisted form consumed by RestoreBatch.
type ItemState struct {
	ID          kernel.UUID
	OrderID     kernel.UUID
	OrderItemID kernel.UUID
	ProductID   kernel.UUID
	Variant     string
	Quantity    int
	Status      Status
	CompletedAt *time.Time
}

func (i *Item) ID() kernel.UUID          { return i.id }
func (i *Item) BatchID() kernel.UUID     { return i.batchID }
func (i *Item) OrderID() kernel.UUID     { return i.orderID }
func (i *Item) OrderItemID() kernel.UUID { return i.orderItemID }
func (i *Item) ProductID() kernel.UUID   { return i.productID }
func (i *Item) Variant() string          { return i.variant }
func (i *Item) Quantity() int            { return i.quantity }
func (i *Item) Status() Status           { return i.status }
func (i *Item) CompletedAt() *time.Time  { return i.completedAt }

func (i *Item) moveTo(next Status, now time.Time) error {
	if err := i.status.itemTransition(next); err != nil {
		return err
	}
	i.force(next, now)
	return nil
}

// force sets the status without consulting the table. Batch level completion
// and cancellation use it.
func (i *Item) force(next Status, now time.Time) {
	i.status = next
	if next == Completed {
		i.completedAt = &now
	}
}
