// Package ports defines the contracts between the fulfillment core and its
// infrastructure: repositories bound to a unit of work and the outbound
// channels used to publish events.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/kitchen"
)

// KitchenRepository persists kitchens together with their zone links.
type KitchenRepository interface {
	// Add stores a new kitchen and its zone links.
	Add(ctx context.Context, k *kitchen.Kitchen) error

	// Update stores name, capacity, activity and zone link changes.
	Update(ctx context.Context, k *kitchen.Kitchen) error

	// Get returns the kitchen or an errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*kitchen.Kitchen, error)

	// GetForUpdate is Get with a row lock held until the unit of work ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*kitchen.Kitchen, error)

	// LockActive returns every active kitchen ordered by name and locks their
	// rows. Concurrent routers serialize on these locks, which keeps the
	// capacity check consistent with the order insert that follows.
	LockActive(ctx context.Context) ([]*kitchen.Kitchen, error)
}

// ZoneRepository persists zones.
type ZoneRepository interface {
	Add(ctx context.Context, z *kitchen.Zone) error

	// Get returns the zone or an errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*kitchen.Zone, error)
}
