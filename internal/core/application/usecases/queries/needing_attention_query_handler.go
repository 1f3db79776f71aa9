package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/access"
	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

func attentionPriorities() []int {
	var out []kernel.Priority
	for _, p := range kernel.Priorities() {
		if p.NeedsAttention() {
			out = append(out, p)
		}
	}
	return priorityInts(out)
}

func terminalOrderStatuses() []int {
	var out []order.Status
	for _, s := range order.Statuses() {
		if s.IsTerminal() {
			out = append(out, s)
		}
	}
	return statusInts(out)
}

func overdueBy(eta *time.Time, now time.Time) time.Duration {
	if eta == nil || !eta.Before(now) {
		return 0
	}
	return now.Sub(*eta)
}

// GetOrdersNeedingAttentionQueryHandler needs orders:view on the kitchen.
type GetOrdersNeedingAttentionQueryHandler struct {
	db   *gorm.DB
	auth Authorizer
}

func NewGetOrdersNeedingAttentionQueryHandler(db *gorm.DB, auth Authorizer) GetOrdersNeedingAttentionQueryHandler {
	return GetOrdersNeedingAttentionQueryHandler{db: db, auth: auth}
}

func (h GetOrdersNeedingAttentionQueryHandler) Handle(
	ctx context.Context,
	query NeedingAttentionQuery,
) ([]OrderAttention, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := h.auth.authorize(ctx, query.actorID, query.kitchenID, access.OrdersView); err != nil {
		return nil, err
	}

	var rows []orderSummaryRow
	err := h.db.WithContext(ctx).Table("orders AS o").
		Select(orderSummaryColumns).
		Where("o.kitchen_id = ?", query.kitchenID.Bytes()).
		Where("o.status <> ALL(?)", pq.Array(terminalOrderStatuses())).
		Where("o.priority = ANY(?) OR o.estimated_completion < ?", pq.Array(attentionPriorities()), query.now).
		Order("o.priority DESC, o.estimated_completion ASC NULLS LAST, o.created_at ASC, o.id ASC").
		Scopes(limitTo(query.limit)).
		Scan(&rows).Error
	if err != nil {
		return nil, errs.NewPersistenceFailureError("orders needing attention", err)
	}

	out := make([]OrderAttention, 0, len(rows))
	for _, row := range rows {
		summary, err := row.toSummary()
		if err != nil {
			return nil, err
		}
		out = append(out, OrderAttention{
			OrderSummary: summary,
			OverdueBy:    overdueBy(summary.EstimatedCompletion, query.now),
		})
	}
	return out, nil
}

// GetBatchesNeedingAttentionQueryHandler needs batches:view on the kitchen.
type GetBatchesNeedingAttentionQueryHandler struct {
	db   *gorm.DB
	auth Authorizer
}

func NewGetBatchesNeedingAttentionQueryHandler(db *gorm.DB, auth Authorizer) GetBatchesNeedingAttentionQueryHandler {
	return GetBatchesNeedingAttentionQueryHandler{db: db, auth: auth}
}

type batchAttentionRow struct {
	ID                  uuid.UUID
	Name                string
	KitchenID           uuid.UUID
	Status              int
	Priority            int
	AssigneeID          *uuid.UUID
	ItemCount           int
	CompletedItems      int
	CreatedAt           time.Time
	StartedAt           *time.Time
	EstimatedCompletion *time.Time
}

func (h GetBatchesNeedingAttentionQueryHandler) Handle(
	ctx context.Context,
	query NeedingAttentionQuery,
) ([]BatchAttention, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := h.auth.authorize(ctx, query.actorID, query.kitchenID, access.BatchesView); err != nil {
		return nil, err
	}

	var rows []batchAttentionRow
	err := h.db.WithContext(ctx).Table("batches AS b").
		Select(`b.id, b.name, b.kitchen_id, b.status, b.priority, b.assignee_id,
			b.created_at, b.started_at, b.estimated_completion,
			(SELECT COUNT(*) FROM batch_items i WHERE i.batch_id = b.id) AS item_count,
			(SELECT COUNT(*) FROM batch_items i WHERE i.batch_id = b.id AND i.status = ?) AS completed_items`,
			int(batch.Completed)).
		Where("b.kitchen_id = ?", query.kitchenID.Bytes()).
		Where("b.status = ANY(?)", pq.Array(batchOpenStatuses())).
		Where("b.priority = ANY(?) OR b.estimated_completion < ?", pq.Array(attentionPriorities()), query.now).
		Order("b.priority DESC, b.estimated_completion ASC NULLS LAST, b.created_at ASC, b.id ASC").
		Scopes(limitTo(query.limit)).
		Scan(&rows).Error
	if err != nil {
		return nil, errs.NewPersistenceFailureError("batches needing attention", err)
	}

	out := make([]BatchAttention, 0, len(rows))
	for _, r := range rows {
		id, err := kernel.UUIDFromGoogle(r.ID)
		if err != nil {
			return nil, err
		}
		kitchenID, err := kernel.UUIDFromGoogle(r.KitchenID)
		if err != nil {
			return nil, err
		}
		eta := utcPtr(r.EstimatedCompletion)
		out = append(out, BatchAttention{
			ID:                  id,
			Name:                r.Name,
			KitchenID:           kitchenID,
			Status:              batch.Status(r.Status),
			Priority:            kernel.Priority(r.Priority),
			AssigneeID:          kernel.OptionalUUIDFromGoogle(r.AssigneeID),
			ItemCount:           r.ItemCount,
			CompletedItems:      r.CompletedItems,
			CreatedAt:           r.CreatedAt.UTC(),
			StartedAt:           utcPtr(r.StartedAt),
			EstimatedCompletion: eta,
			OverdueBy:           overdueBy(eta, query.now),
		})
	}
	return out, nil
}

func batchOpenStatuses() []int {
	open := batch.OpenStatuses()
	out := make([]int, len(open))
	for i, s := range open {
		out[i] = int(s)
	}
	return out
}

// GetAttentionSummaryQueryHandler feeds the attention gauges.
type GetAttentionSummaryQueryHandler struct {
	db *gorm.DB
}

func NewGetAttentionSummaryQueryHandler(db *gorm.DB) GetAttentionSummaryQueryHandler {
	return GetAttentionSummaryQueryHandler{db: db}
}

// Handle returns one entry per active kitchen, ordered by name, including
// kitchens with nothing to report.
func (h GetAttentionSummaryQueryHandler) Handle(ctx context.Context, query AttentionSummaryQuery) ([]KitchenAttention, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var rows []struct {
		ID      uuid.UUID
		Name    string
		Orders  int64
		Batches int64
	}
	priorities := pq.Array(attentionPriorities())
	err := h.db.WithContext(ctx).Raw(`
		SELECT
			k.id,
			k.name,
			(SELECT COUNT(*) FROM orders o
				WHERE o.kitchen_id = k.id
				AND o.status <> ALL(?)
				AND (o.priority = ANY(?) OR o.estimated_completion < ?)) AS orders,
			(SELECT COUNT(*) FROM batches b
				WHERE b.kitchen_id = k.id
				AND b.status = ANY(?)
				AND (b.priority = ANY(?) OR b.estimated_completion < ?)) AS batches
		FROM kitchens k
		WHERE k.is_active
		ORDER BY k.name, k.id
	`,
		pq.Array(terminalOrderStatuses()), priorities, query.now,
		pq.Array(batchOpenStatuses()), priorities, query.now,
	).Scan(&rows).Error
	if err != nil {
		return nil, errs.NewPersistenceFailureError("attention summary", err)
	}

	out := make([]KitchenAttention, 0, len(rows))
	for _, r := range rows {
		id, err := kernel.UUIDFromGoogle(r.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, KitchenAttention{KitchenID: id, Name: r.Name, Orders: r.Orders, Batches: r.Batches})
	}
	return out, nil
}
