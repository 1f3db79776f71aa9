package services

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/kitchen"
	"fulfillment/internal/pkg/errs"
)

// KitchenSelector chooses the kitchen with the greatest available capacity.
type KitchenSelector struct{}

func NewKitchenSelector() KitchenSelector {
	return KitchenSelector{}
}

// Select returns the active kitchen with the greatest available capacity,
// where activeOrders maps a kitchen id to its count of received, preparing and
// packing orders. Ties go to the kitchen whose name sorts first. When no
// kitchen has room the error is errs.ErrNoCapacity.
func (KitchenSelector) Select(kitchens []*kitchen.Kitchen, activeOrders map[kernel.UUID]int) (*kitchen.Kitchen, error) {
	var (
		best          *kitchen.Kitchen
		bestAvailable int
	)

	for _, k := range kitchens {
		if err := k.Validate(); err != nil {
			return nil, err
		}
		if !k.IsActive() {
			continue
		}

		available := k.AvailableCapacity(activeOrders[k.ID()])
		if available <= 0 {
			continue
		}
		if best == nil || available > bestAvailable ||
			(available == bestAvailable && k.Name() < best.Name()) {
			best, bestAvailable = k, available
		}
	}

	if best == nil {
		return nil, errs.ErrNoCapacity
	}
	return best, nil
}
