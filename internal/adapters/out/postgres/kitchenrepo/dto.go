// Package kitchenrepo persists kitchens, zones and the links between them.
package kitchenrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/kitchen"

	"github.com/google/uuid"
)

// ZoneDTO is the row of the zones table.
type ZoneDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:255;not null"`
	IsActive  bool      `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (ZoneDTO) TableName() string {
	return "zones"
}

// KitchenDTO is the row of the kitchens table.
type KitchenDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:255;not null;index"`
	Capacity  int       `gorm:"not null"`
	IsActive  bool      `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (KitchenDTO) TableName() string {
	return "kitchens"
}

// KitchenZoneDTO links a kitchen to a zone. At most one active link per
// kitchen is primary.
type KitchenZoneDTO struct {
	KitchenID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ZoneID    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	IsPrimary bool      `gorm:"not null"`
	IsActive  bool      `gorm:"not null"`
}

func (KitchenZoneDTO) TableName() string {
	return "kitchen_zones"
}

func zoneFromDomain(z *kitchen.Zone) ZoneDTO {
	return ZoneDTO{
		ID:        z.ID().Bytes(),
		Name:      z.Name(),
		IsActive:  z.IsActive(),
		CreatedAt: z.CreatedAt(),
	}
}

func zoneToDomain(dto ZoneDTO) (*kitchen.Zone, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	return kitchen.RestoreZone(id, dto.Name, kernel.ActivityOf(dto.IsActive), dto.CreatedAt)
}

func kitchenFromDomain(k *kitchen.Kitchen) (KitchenDTO, []KitchenZoneDTO) {
	links := make([]KitchenZoneDTO, 0, len(k.Zones()))
	for _, z := range k.Zones() {
		links = append(links, KitchenZoneDTO{
			KitchenID: k.ID().Bytes(),
			ZoneID:    z.ZoneID.Bytes(),
			IsPrimary: z.IsPrimary,
			IsActive:  z.Activity.IsActive(),
		})
	}
	return KitchenDTO{
		ID:        k.ID().Bytes(),
		Name:      k.Name(),
		Capacity:  k.Capacity(),
		IsActive:  k.IsActive(),
		CreatedAt: k.CreatedAt(),
		UpdatedAt: k.UpdatedAt(),
	}, links
}

func kitchenToDomain(dto KitchenDTO, links []KitchenZoneDTO) (*kitchen.Kitchen, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}

	zones := make([]kitchen.ZoneLink, 0, len(links))
	for _, l := range links {
		zoneID, zoneErr := kernel.UUIDFromGoogle(l.ZoneID)
		if zoneErr != nil {
			return nil, zoneErr
		}
		zones = append(zones, kitchen.ZoneLink{
			ZoneID:    zoneID,
			IsPrimary: l.IsPrimary,
			Activity:  kernel.ActivityOf(l.IsActive),
		})
	}

	return kitchen.RestoreKitchen(id, dto.Name, dto.Capacity, kernel.ActivityOf(dto.IsActive), zones, dto.CreatedAt, dto.UpdatedAt)
}
