package queries

import (
	"context"
	"database/sql"

	"fulfillment/internal/core/domain/model/access"
	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

type statusPriorityCount struct {
	Status   int
	Priority int
	N        int64
}

func countByStatusAndPriority(ctx context.Context, db *gorm.DB, table string, kitchenID kernel.UUID) ([]statusPriorityCount, error) {
	var rows []statusPriorityCount
	err := db.WithContext(ctx).Table(table).
		Select("status, priority, COUNT(*) AS n").
		Where("kitchen_id = ?", kitchenID.Bytes()).
		Group("status, priority").
		Scan(&rows).Error
	if err != nil {
		return nil, errs.NewPersistenceFailureError("count "+table, err)
	}
	return rows, nil
}

// GetKitchenOrderStatsQueryHandler needs orders:view on the kitchen.
type GetKitchenOrderStatsQueryHandler struct {
	db   *gorm.DB
	auth Authorizer
}

func NewGetKitchenOrderStatsQueryHandler(db *gorm.DB, auth Authorizer) GetKitchenOrderStatsQueryHandler {
	return GetKitchenOrderStatsQueryHandler{db: db, auth: auth}
}

func (h GetKitchenOrderStatsQueryHandler) Handle(ctx context.Context, query KitchenStatsQuery) (KitchenOrderStats, error) {
	if err := query.Validate(); err != nil {
		return KitchenOrderStats{}, err
	}
	if err := h.auth.authorize(ctx, query.actorID, query.kitchenID, access.OrdersView); err != nil {
		return KitchenOrderStats{}, err
	}

	counts, err := countByStatusAndPriority(ctx, h.db, "orders", query.kitchenID)
	if err != nil {
		return KitchenOrderStats{}, err
	}
	stats := KitchenOrderStats{
		KitchenID:  query.kitchenID,
		ByStatus:   make(map[order.Status]int64),
		ByPriority: make(map[kernel.Priority]int64),
	}
	for _, c := range counts {
		status := order.Status(c.Status)
		stats.Total += c.N
		stats.ByStatus[status] += c.N
		stats.ByPriority[kernel.Priority(c.Priority)] += c.N
		if status.IsActive() {
			stats.Active += c.N
		}
	}

	var avg sql.NullFloat64
	err = h.db.WithContext(ctx).Raw(`
		SELECT AVG(EXTRACT(EPOCH FROM (actual_completion - created_at)) / 60)
		FROM orders
		WHERE kitchen_id = ? AND status = ? AND actual_completion IS NOT NULL
	`, query.kitchenID.Bytes(), int(order.Completed)).Row().Scan(&avg)
	if err != nil {
		return KitchenOrderStats{}, errs.NewPersistenceFailureError("average order completion", err)
	}
	stats.AvgCompletionMinutes = nullableFloat(avg)
	return stats, nil
}

// GetKitchenBatchStatsQueryHandler needs batches:view on the kitchen.
type GetKitchenBatchStatsQueryHandler struct {
	db   *gorm.DB
	auth Authorizer
}

func NewGetKitchenBatchStatsQueryHandler(db *gorm.DB, auth Authorizer) GetKitchenBatchStatsQueryHandler {
	return GetKitchenBatchStatsQueryHandler{db: db, auth: auth}
}

func (h GetKitchenBatchStatsQueryHandler) Handle(ctx context.Context, query KitchenStatsQuery) (KitchenBatchStats, error) {
	if err := query.Validate(); err != nil {
		return KitchenBatchStats{}, err
	}
	if err := h.auth.authorize(ctx, query.actorID, query.kitchenID, access.BatchesView); err != nil {
		return KitchenBatchStats{}, err
	}

	counts, err := countByStatusAndPriority(ctx, h.db, "batches", query.kitchenID)
	if err != nil {
		return KitchenBatchStats{}, err
	}
	stats := KitchenBatchStats{
		KitchenID:  query.kitchenID,
		ByStatus:   make(map[batch.Status]int64),
		ByPriority: make(map[kernel.Priority]int64),
	}
	for _, c := range counts {
		status := batch.Status(c.Status)
		stats.Total += c.N
		stats.ByStatus[status] += c.N
		stats.ByPriority[kernel.Priority(c.Priority)] += c.N
		if status.IsOpen() {
			stats.Open += c.N
		}
	}

	var avg sql.NullFloat64
	err = h.db.WithContext(ctx).Raw(`
		SELECT AVG(EXTRACT(EPOCH FROM (completed_at - started_at)) / 60)
		FROM batches
		WHERE kitchen_id = ? AND status = ? AND started_at IS NOT NULL AND completed_at IS NOT NULL
	`, query.kitchenID.Bytes(), int(batch.Completed)).Row().Scan(&avg)
	if err != nil {
		return KitchenBatchStats{}, errs.NewPersistenceFailureError("average batch completion", err)
	}
	stats.AvgCompletionMinutes = nullableFloat(avg)
	return stats, nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}
