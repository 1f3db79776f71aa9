package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetKitchensQueryIsNotConstructed = errors.New(
		"GetKitchensQuery must be created via NewGetKitchensQuery or NewGetKitchensByZoneQuery constructor",
	)
	ErrGetKitchenQueryIsNotConstructed = errors.New(
		"GetKitchenQuery must be created via NewGetKitchenQuery constructor",
	)
)

// GetKitchensQuery lists active kitchens, optionally only those linked to a
// zone.
type GetKitchensQuery struct {
	zoneID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetKitchensQuery lists every active kitchen.
func NewGetKitchensQuery() GetKitchensQuery {
	return GetKitchensQuery{guard: guard.NewConstructorGuard()}
}

// NewGetKitchensByZoneQuery lists active kitchens with an active link to
// zoneID.
func NewGetKitchensByZoneQuery(zoneID kernel.UUID) (GetKitchensQuery, error) {
	var id kernel.UUID
	if err := requireID("zoneId", zoneID, &id); err != nil {
		return GetKitchensQuery{}, err
	}
	return GetKitchensQuery{zoneID: &id, guard: guard.NewConstructorGuard()}, nil
}

func (q GetKitchensQuery) Validate() error {
	return q.guard.Validate(ErrGetKitchensQueryIsNotConstructed)
}

// GetKitchenQuery reads one kitchen, active or not.
type GetKitchenQuery struct {
	kitchenID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetKitchenQuery(kitchenID kernel.UUID) (GetKitchenQuery, error) {
	var q GetKitchenQuery
	if err := requireID("kitchenId", kitchenID, &q.kitchenID); err != nil {
		return GetKitchenQuery{}, err
	}
	q.guard = guard.NewConstructorGuard()
	return q, nil
}

func (q GetKitchenQuery) Validate() error {
	return q.guard.Validate(ErrGetKitchenQueryIsNotConstructed)
}

// KitchenView is a kitchen joined with its primary zone. AvailableCapacity
// is capacity minus the orders currently received, preparing or packing, and
// may be negative after a capacity cut.
type KitchenView struct {
	ID                kernel.UUID
	Name              string
	Capacity          int
	ActiveOrders      int
	AvailableCapacity int
	IsActive          bool
	ZoneID            *kernel.UUID
	ZoneName          string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
