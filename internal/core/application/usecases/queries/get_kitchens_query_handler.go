package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GetKitchensQueryHandler serves the registry reads. They need an
// authenticated caller but no kitchen permission.
type GetKitchensQueryHandler struct {
	db *gorm.DB
}

func NewGetKitchensQueryHandler(db *gorm.DB) GetKitchensQueryHandler {
	return GetKitchensQueryHandler{db: db}
}

// Handle lists active kitchens ordered by name.
func (h GetKitchensQueryHandler) Handle(ctx context.Context, query GetKitchensQuery) ([]KitchenView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if query.zoneID == nil {
		return h.load(ctx, "k.is_active")
	}
	return h.load(ctx, `k.is_active AND EXISTS (
		SELECT 1 FROM kitchen_zones l
		WHERE l.kitchen_id = k.id AND l.zone_id = ? AND l.is_active
	)`, query.zoneID.Bytes())
}

// HandleOne reads a single kitchen or fails with NotFound.
func (h GetKitchensQueryHandler) HandleOne(ctx context.Context, query GetKitchenQuery) (KitchenView, error) {
	if err := query.Validate(); err != nil {
		return KitchenView{}, err
	}
	views, err := h.load(ctx, "k.id = ?", query.kitchenID.Bytes())
	if err != nil {
		return KitchenView{}, err
	}
	if len(views) == 0 {
		return KitchenView{}, errs.NewObjectNotFoundError("kitchen", query.kitchenID)
	}
	return views[0], nil
}

type kitchenRow struct {
	ID           uuid.UUID
	Name         string
	Capacity     int
	IsActive     bool
	ActiveOrders int
	ZoneID       *uuid.UUID
	ZoneName     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (h GetKitchensQueryHandler) load(ctx context.Context, where string, args ...any) ([]KitchenView, error) {
	var rows []kitchenRow
	err := h.db.WithContext(ctx).Raw(`
		SELECT
			k.id,
			k.name,
			k.capacity,
			k.is_active,
			COALESCE(a.active, 0) AS active_orders,
			z.id AS zone_id,
			z.name AS zone_name,
			k.created_at,
			k.updated_at
		FROM kitchens k
		LEFT JOIN kitchen_zones kz ON kz.kitchen_id = k.id AND kz.is_primary
		LEFT JOIN zones z ON z.id = kz.zone_id
		LEFT JOIN (
			SELECT kitchen_id, COUNT(*) AS active
			FROM orders
			WHERE status = ANY(?)
			GROUP BY kitchen_id
		) a ON a.kitchen_id = k.id
		WHERE `+where+`
		ORDER BY k.name, k.id
	`, append([]any{pq.Array(statusInts(order.ActiveStatuses()))}, args...)...).Scan(&rows).Error
	if err != nil {
		return nil, errs.NewPersistenceFailureError("load kitchens", err)
	}

	views := make([]KitchenView, 0, len(rows))
	for _, r := range rows {
		id, err := kernel.UUIDFromGoogle(r.ID)
		if err != nil {
			return nil, err
		}
		view := KitchenView{
			ID:                id,
			Name:              r.Name,
			Capacity:          r.Capacity,
			ActiveOrders:      r.ActiveOrders,
			AvailableCapacity: r.Capacity - r.ActiveOrders,
			IsActive:          r.IsActive,
			ZoneID:            kernel.OptionalUUIDFromGoogle(r.ZoneID),
			CreatedAt:         r.CreatedAt.UTC(),
			UpdatedAt:         r.UpdatedAt.UTC(),
		}
		if r.ZoneName != nil {
			view.ZoneName = *r.ZoneName
		}
		views = append(views, view)
	}
	return views, nil
}
