package services

import (
	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// ProductionCoordinator applies the order side of batch operations so that an
// order's status never disagrees with the batch containing it.
type ProductionCoordinator struct{}

func NewProductionCoordinator() ProductionCoordinator {
	return ProductionCoordinator{}
}

// Assemble creates a pending batch from orders and moves every order to
// preparing. Nothing is changed when validation fails.
func (ProductionCoordinator) Assemble(
	name string,
	kitchenID kernel.UUID,
	orders []*order.Order,
	priority kernel.Priority,
	notes string,
	creatorID kernel.UUID,
) (*batch.Batch, error) {
	b, err := batch.NewBatch(name, kitchenID, orders, priority, notes, creatorID)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if err := o.MarkPreparing(); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// CascadeCompletion moves every order of a completed batch to ready. orders
// must contain every order the batch references.
func (c ProductionCoordinator) CascadeCompletion(b *batch.Batch, orders []*order.Order) error {
	if b.Status() != batch.Completed {
		return errs.NewInvalidTransitionError("batch", b.Status().String(), batch.Completed.String())
	}
	byID, err := c.index(b, orders)
	if err != nil {
		return err
	}
	for _, id := range b.OrderIDs() {
		if err := byID[id].MarkReadyFromBatch(); err != nil {
			return err
		}
	}
	return nil
}

// Compensate returns every order of a cancelled batch to received.
func (c ProductionCoordinator) Compensate(b *batch.Batch, orders []*order.Order) error {
	if b.Status() != batch.Cancelled {
		return errs.NewInvalidTransitionError("batch", b.Status().String(), batch.Cancelled.String())
	}
	byID, err := c.index(b, orders)
	if err != nil {
		return err
	}
	for _, id := range b.OrderIDs() {
		if err := byID[id].Requeue(); err != nil {
			return err
		}
	}
	return nil
}

func (ProductionCoordinator) index(b *batch.Batch, orders []*order.Order) (map[kernel.UUID]*order.Order, error) {
	byID := make(map[kernel.UUID]*order.Order, len(orders))
	for _, o := range orders {
		byID[o.ID()] = o
	}
	for _, id := range b.OrderIDs() {
		if _, ok := byID[id]; !ok {
			return nil, errs.NewObjectNotFoundError("orderId", id)
		}
	}
	return byID, nil
}
