package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order and all of its items. Either both are written
	// or, through the enclosing unit of work, neither is.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists status, assignee, notes and timestamps. Items are
	// immutable and never rewritten.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with its items.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves and row-locks an order.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetManyForUpdate row-locks the given orders in id order and returns the
	// ones that exist. Callers detect missing ids themselves.
	GetManyForUpdate(ctx context.Context, ids []kernel.UUID) ([]*order.Order, error)

	// CountActiveByKitchen counts orders in received, preparing or packing per
	// kitchen. Kitchens without such orders are absent from the map.
	CountActiveByKitchen(ctx context.Context, kitchenIDs []kernel.UUID) (map[kernel.UUID]int, error)
}
