package kitchenrepo

import (
	"context"
	"errors"

	"fulfillment/internal/adapters/out/postgres/pgerr"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/kitchen"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// aggregateTracker receives every aggregate the repository writes so that the
// unit of work can flush its domain events.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormKitchenRepository implements ports.KitchenRepository using GORM.
type GormKitchenRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// NewGormKitchenRepository creates a new GORM kitchen repository.
func NewGormKitchenRepository(db *gorm.DB, tracker aggregateTracker) *GormKitchenRepository {
	return &GormKitchenRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new kitchen together with its zone links.
func (r *GormKitchenRepository) Add(ctx context.Context, k *kitchen.Kitchen) error {
	if err := k.Validate(); err != nil {
		return err
	}

	dto, links := kitchenFromDomain(k)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.Wrap("insert kitchen", err)
	}
	if len(links) > 0 {
		if err := r.db.WithContext(ctx).Create(&links).Error; err != nil {
			return pgerr.Wrap("insert kitchen zones", err)
		}
	}

	r.tracker.TrackAggregate(k.ID(), k)
	return nil
}

// Update saves name, capacity and activity and replaces the zone links.
func (r *GormKitchenRepository) Update(ctx context.Context, k *kitchen.Kitchen) error {
	if err := k.Validate(); err != nil {
		return err
	}

	dto, links := kitchenFromDomain(k)
	result := r.db.WithContext(ctx).Model(&KitchenDTO{}).
		Where("id = ?", dto.ID).
		Select("name", "capacity", "is_active", "updated_at").
		Updates(&dto)
	if result.Error != nil {
		return pgerr.Wrap("update kitchen", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("kitchen", k.ID().String())
	}

	if err := r.db.WithContext(ctx).Where("kitchen_id = ?", dto.ID).Delete(&KitchenZoneDTO{}).Error; err != nil {
		return pgerr.Wrap("delete kitchen zones", err)
	}
	if len(links) > 0 {
		if err := r.db.WithContext(ctx).Create(&links).Error; err != nil {
			return pgerr.Wrap("insert kitchen zones", err)
		}
	}

	r.tracker.TrackAggregate(k.ID(), k)
	return nil
}

// Get retrieves a kitchen by ID.
func (r *GormKitchenRepository) Get(ctx context.Context, id kernel.UUID) (*kitchen.Kitchen, error) {
	return r.get(ctx, r.db, id)
}

// GetForUpdate retrieves a kitchen and locks its row.
func (r *GormKitchenRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*kitchen.Kitchen, error) {
	return r.get(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// LockActive locks every active kitchen in name order.
func (r *GormKitchenRepository) LockActive(ctx context.Context) ([]*kitchen.Kitchen, error) {
	var dtos []KitchenDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("is_active = ?", true).
		Order("name ASC, id ASC").
		Find(&dtos).Error
	if err != nil {
		return nil, pgerr.Wrap("lock active kitchens", err)
	}
	return r.withLinks(ctx, dtos)
}

func (r *GormKitchenRepository) get(ctx context.Context, db *gorm.DB, id kernel.UUID) (*kitchen.Kitchen, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto KitchenDTO
	if err := db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("kitchen", id.String())
		}
		return nil, pgerr.Wrap("get kitchen", err)
	}

	kitchens, err := r.withLinks(ctx, []KitchenDTO{dto})
	if err != nil {
		return nil, err
	}
	return kitchens[0], nil
}

func (r *GormKitchenRepository) withLinks(ctx context.Context, dtos []KitchenDTO) ([]*kitchen.Kitchen, error) {
	if len(dtos) == 0 {
		return []*kitchen.Kitchen{}, nil
	}

	ids := make([]uuid.UUID, len(dtos))
	for i, dto := range dtos {
		ids[i] = dto.ID
	}

	var links []KitchenZoneDTO
	if err := r.db.WithContext(ctx).Where("kitchen_id IN ?", ids).Find(&links).Error; err != nil {
		return nil, pgerr.Wrap("get kitchen zones", err)
	}
	byKitchen := make(map[uuid.UUID][]KitchenZoneDTO, len(dtos))
	for _, l := range links {
		byKitchen[l.KitchenID] = append(byKitchen[l.KitchenID], l)
	}

	kitchens := make([]*kitchen.Kitchen, 0, len(dtos))
	for _, dto := range dtos {
		k, err := kitchenToDomain(dto, byKitchen[dto.ID])
		if err != nil {
			return nil, err
		}
		kitchens = append(kitchens, k)
	}
	return kitchens, nil
}

// GormZoneRepository implements ports.ZoneRepository using GORM.
type GormZoneRepository struct {
	db *gorm.DB
}

// NewGormZoneRepository creates a new GORM zone repository.
func NewGormZoneRepository(db *gorm.DB) *GormZoneRepository {
	return &GormZoneRepository{db: db}
}

// Add saves a new zone.
func (r *GormZoneRepository) Add(ctx context.Context, z *kitchen.Zone) error {
	if err := z.Validate(); err != nil {
		return err
	}

	dto := zoneFromDomain(z)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.Wrap("insert zone", err)
	}
	return nil
}

// Get retrieves a zone by ID.
func (r *GormZoneRepository) Get(ctx context.Context, id kernel.UUID) (*kitchen.Zone, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ZoneDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("zone", id.String())
		}
		return nil, pgerr.Wrap("get zone", err)
	}
	return zoneToDomain(dto)
}
