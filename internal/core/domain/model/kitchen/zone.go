package kitchen

import (
	"errors"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrZoneIsNotConstructed is returned by Validate on a zone literal.
var ErrZoneIsNotConstructed = errors.New("Zone must be created via NewZone or RestoreZone")

// Zone is a service area kitchens are attached to.
type Zone struct {
	id        kernel.UUID
	name      string
	activity  kernel.Activity
	createdAt time.Time
	guard     guard.ConstructorGuard
}

// NewZone creates an active zone.
func NewZone(name string) (*Zone, error) {
	z := &Zone{
		id:        kernel.NewUUID(),
		activity:  kernel.Active,
		createdAt: time.Now().UTC(),
		guard:     guard.NewConstructorGuard(),
	}
	if err := z.setName(name); err != nil {
		return nil, err
	}
	return z, nil
}

// RestoreZone rebuilds a zone from storage.
func RestoreZone(id kernel.UUID, name string, activity kernel.Activity, createdAt time.Time) (*Zone, error) {
	z := &Zone{
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}
	if err := errors.Join(
		z.setID(id),
		z.setName(name),
		activity.Validate(),
	); err != nil {
		return nil, err
	}
	z.activity = activity
	return z, nil
}

func (z *Zone) ID() kernel.UUID           { return z.id }
func (z *Zone) Name() string              { return z.name }
func (z *Zone) Activity() kernel.Activity { return z.activity }
func (z *Zone) CreatedAt() time.Time      { return z.createdAt }
func (z *Zone) IsActive() bool            { return z.activity.IsActive() }

// Deactivate tags the zone Inactive. Kitchens cannot be created in or moved
// to an inactive zone.
func (z *Zone) Deactivate() {
	z.activity = kernel.Inactive
}

func (z *Zone) Validate() error {
	if z == nil {
		return ErrZoneIsNotConstructed
	}
	return z.guard.Validate(ErrZoneIsNotConstructed)
}

func (z *Zone) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("zoneId", err)
	}
	z.id = id
	return nil
}

func (z *Zone) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("zoneName")
	}
	z.name = name
	return nil
}
