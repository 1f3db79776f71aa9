package orderrepo

import (
	"context"
	"errors"

	"fulfillment/internal/adapters/out/postgres/pgerr"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order and its items.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, items := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.Wrap("insert order", err)
	}
	if err := r.db.WithContext(ctx).Create(&items).Error; err != nil {
		return pgerr.Wrap("insert order items", err)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves the mutable part of an existing order.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, _ := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select("status", "assignee_id", "notes", "updated_at", "estimated_completion", "actual_completion").
		Updates(&dto)
	if result.Error != nil {
		return pgerr.Wrap("update order", result.Error)
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, r.db, id)
}

// GetForUpdate retrieves an order and locks its row.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// GetManyForUpdate locks the existing orders among ids in id order.
func (r *GormOrderRepository) GetManyForUpdate(ctx context.Context, ids []kernel.UUID) ([]*order.Order, error) {
	if len(ids) == 0 {
		return []*order.Order{}, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		raw = append(raw, id.Bytes())
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", raw).
		Order("id ASC").
		Find(&dtos).Error
	if err != nil {
		return nil, pgerr.Wrap("lock orders", err)
	}
	return r.withItems(ctx, dtos)
}

// CountActiveByKitchen counts received, preparing and packing orders per
// kitchen.
func (r *GormOrderRepository) CountActiveByKitchen(ctx context.Context, kitchenIDs []kernel.UUID) (map[kernel.UUID]int, error) {
	counts := make(map[kernel.UUID]int, len(kitchenIDs))
	if len(kitchenIDs) == 0 {
		return counts, nil
	}

	raw := make([]uuid.UUID, len(kitchenIDs))
	for i, id := range kitchenIDs {
		raw[i] = id.Bytes()
	}
	active := order.ActiveStatuses()
	statuses := make([]int, len(active))
	for i, s := range active {
		statuses[i] = int(s)
	}

	var rows []struct {
		KitchenID uuid.UUID
		Active    int
	}
	err := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Select("kitchen_id, COUNT(*) AS active").
		Where("kitchen_id IN ? AND status IN ?", raw, statuses).
		Group("kitchen_id").
		Scan(&rows).Error
	if err != nil {
		return nil, pgerr.Wrap("count active orders", err)
	}

	for _, row := range rows {
		id, idErr := kernel.UUIDFromGoogle(row.KitchenID)
		if idErr != nil {
			return nil, idErr
		}
		counts[id] = row.Active
	}
	return counts, nil
}

func (r *GormOrderRepository) get(ctx context.Context, db *gorm.DB, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, pgerr.Wrap("get order", err)
	}

	orders, err := r.withItems(ctx, []OrderDTO{dto})
	if err != nil {
		return nil, err
	}
	return orders[0], nil
}

func (r *GormOrderRepository) withItems(ctx context.Context, dtos []OrderDTO) ([]*order.Order, error) {
	if len(dtos) == 0 {
		return []*order.Order{}, nil
	}

	ids := make([]uuid.UUID, len(dtos))
	for i, dto := range dtos {
		ids[i] = dto.ID
	}

	var items []ItemDTO
	if err := r.db.WithContext(ctx).Where("order_id IN ?", ids).Order("position ASC").Find(&items).Error; err != nil {
		return nil, pgerr.Wrap("get order items", err)
	}
	byOrder := make(map[uuid.UUID][]ItemDTO, len(dtos))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto, byOrder[dto.ID])
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
