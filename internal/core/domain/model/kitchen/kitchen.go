package kitchen

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const (
	// MinCapacity and MaxCapacity bound a kitchen's concurrent order count.
	MinCapacity = 1
	MaxCapacity = 10000

	EventCreated     = "kitchen.created"
	EventUpdated     = "kitchen.updated"
	EventDeactivated = "kitchen.deactivated"
)

// ErrKitchenIsNotConstructed is returned by Validate on a kitchen literal.
var ErrKitchenIsNotConstructed = errors.New("Kitchen must be created via NewKitchen or RestoreKitchen")

// ZoneLink attaches a kitchen to a zone.
type ZoneLink struct {
	ZoneID    kernel.UUID
	IsPrimary bool
	Activity  kernel.Activity
}

// Kitchen is the aggregate root of the kitchen registry.
//
// Invariants:
//   - capacity is within [MinCapacity, MaxCapacity]
//   - an active kitchen has exactly one active primary zone link
//   - an inactive kitchen only has inactive zone links
type Kitchen struct {
	kernel.EventRecorder

	id        kernel.UUID
	name      string
	capacity  int
	activity  kernel.Activity
	zones     []ZoneLink
	createdAt time.Time
	updatedAt time.Time
	guard     guard.ConstructorGuard
}

// NewKitchen creates an active kitchen whose primary zone is zone. It fails
// with errs.ErrInvalidZone when the zone is missing or inactive.
func NewKitchen(name string, zone *Zone, capacity int) (*Kitchen, error) {
	if zone == nil || !zone.IsActive() {
		return nil, errs.ErrInvalidZone
	}

	now := time.Now().UTC()
	k := &Kitchen{
		id:        kernel.NewUUID(),
		activity:  kernel.Active,
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}
	if err := errors.Join(
		k.setName(name),
		k.setCapacity(capacity),
	); err != nil {
		return nil, err
	}
	k.zones = []ZoneLink{{ZoneID: zone.ID(), IsPrimary: true, Activity: kernel.Active}}

	k.raise(EventCreated, map[string]any{"name": k.name, "capacity": k.capacity})
	return k, nil
}

// RestoreKitchen rebuilds a kitchen from storage without raising events.
func RestoreKitchen(
	id kernel.UUID,
	name string,
	capacity int,
	activity kernel.Activity,
	zones []ZoneLink,
	createdAt, updatedAt time.Time,
) (*Kitchen, error) {
	k := &Kitchen{
		createdAt: createdAt,
		updatedAt: updatedAt,
		guard:     guard.NewConstructorGuard(),
	}
	if err := errors.Join(
		k.setID(id),
		k.setName(name),
		k.setCapacity(capacity),
		activity.Validate(),
	); err != nil {
		return nil, err
	}
	k.activity = activity
	k.zones = append([]ZoneLink(nil), zones...)
	return k, nil
}

func (k *Kitchen) ID() kernel.UUID           { return k.id }
func (k *Kitchen) Name() string              { return k.name }
func (k *Kitchen) Capacity() int             { return k.capacity }
func (k *Kitchen) Activity() kernel.Activity { return k.activity }
func (k *Kitchen) IsActive() bool            { return k.activity.IsActive() }
func (k *Kitchen) CreatedAt() time.Time      { return k.createdAt }
func (k *Kitchen) UpdatedAt() time.Time      { return k.updatedAt }

// Zones returns a copy of the zone links.
func (k *Kitchen) Zones() []ZoneLink {
	return append([]ZoneLink(nil), k.zones...)
}

// PrimaryZone returns the active primary zone, if any.
func (k *Kitchen) PrimaryZone() (kernel.UUID, bool) {
	for _, link := range k.zones {
		if link.IsPrimary && link.Activity.IsActive() {
			return link.ZoneID, true
		}
	}
	return kernel.UUID{}, false
}

// AvailableCapacity is the configured capacity minus the number of the
// kitchen's orders in received, preparing or packing. Inactive kitchens have
// none.
func (k *Kitchen) AvailableCapacity(activeOrders int) int {
	if !k.IsActive() {
		return 0
	}
	return k.capacity - activeOrders
}

// Changes holds the optional fields of a registry update. Nil fields are left
// untouched.
type Changes struct {
	Name        *string
	Capacity    *int
	PrimaryZone *Zone
}

// Update applies the supplied fields. Inactive kitchens cannot be updated.
func (k *Kitchen) Update(changes Changes) error {
	if !k.IsActive() {
		return fmt.Errorf("%w: kitchen %s is inactive", errs.ErrInvalidKitchen, k.id)
	}

	next := *k
	next.zones = k.Zones()
	var fieldErrs []error
	if changes.Name != nil {
		fieldErrs = append(fieldErrs, next.setName(*changes.Name))
	}
	if changes.Capacity != nil {
		fieldErrs = append(fieldErrs, next.setCapacity(*changes.Capacity))
	}
	if changes.PrimaryZone != nil {
		fieldErrs = append(fieldErrs, next.setPrimaryZone(changes.PrimaryZone))
	}
	if err := errors.Join(fieldErrs...); err != nil {
		return err
	}

	k.name, k.capacity, k.zones = next.name, next.capacity, next.zones
	k.updatedAt = time.Now().UTC()
	k.raise(EventUpdated, map[string]any{"name": k.name, "capacity": k.capacity})
	return nil
}

// Deactivate tags the kitchen Inactive and deactivates every zone link.
// In-flight orders are left to be resolved independently. Deactivating an
// inactive kitchen is a no-op.
func (k *Kitchen) Deactivate() {
	if !k.IsActive() {
		return
	}
	k.activity = kernel.Inactive
	for i := range k.zones {
		k.zones[i].Activity = kernel.Inactive
	}
	k.updatedAt = time.Now().UTC()
	k.raise(EventDeactivated, nil)
}

func (k *Kitchen) Validate() error {
	if k == nil {
		return ErrKitchenIsNotConstructed
	}
	return k.guard.Validate(ErrKitchenIsNotConstructed)
}

func (k *Kitchen) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("kitchenId", err)
	}
	k.id = id
	return nil
}

func (k *Kitchen) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	k.name = name
	return nil
}

func (k *Kitchen) setCapacity(capacity int) error {
	if capacity < MinCapacity || capacity > MaxCapacity {
		return errs.NewValueIsOutOfRangeError("capacity", capacity, MinCapacity, MaxCapacity)
	}
	k.capacity = capacity
	return nil
}

func (k *Kitchen) setPrimaryZone(zone *Zone) error {
	if !zone.IsActive() {
		return errs.ErrInvalidZone
	}
	found := false
	for i := range k.zones {
		isTarget := k.zones[i].ZoneID.IsEqual(zone.ID())
		k.zones[i].IsPrimary = isTarget
		if isTarget {
			k.zones[i].Activity = kernel.Active
			found = true
		}
	}
	if !found {
		k.zones = append(k.zones, ZoneLink{ZoneID: zone.ID(), IsPrimary: true, Activity: kernel.Active})
	}
	return nil
}

func (k *Kitchen) raise(eventType string, payload map[string]any) {
	k.Record(kernel.NewDomainEvent(eventType, kernel.AggregateKitchen, k.id, k.id, payload))
}
