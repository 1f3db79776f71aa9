package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/access"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListKitchenOrdersQueryHandler reads order pages. The caller needs
// orders:view on the kitchen.
type ListKitchenOrdersQueryHandler struct {
	db   *gorm.DB
	auth Authorizer
}

func NewListKitchenOrdersQueryHandler(db *gorm.DB, auth Authorizer) ListKitchenOrdersQueryHandler {
	return ListKitchenOrdersQueryHandler{db: db, auth: auth}
}

type orderSummaryRow struct {
	ID                  uuid.UUID
	Number              string
	KitchenID           uuid.UUID
	CustomerName        string
	CustomerPhone       string
	Status              int
	Priority            int
	Total               decimal.Decimal
	ItemCount           int
	AssigneeID          *uuid.UUID
	Notes               string
	CreatedAt           time.Time
	UpdatedAt           time.Time
	EstimatedCompletion *time.Time
	ActualCompletion    *time.Time
}

const orderSummaryColumns = `o.id, o.number, o.kitchen_id, o.customer_name, o.customer_phone,
	o.status, o.priority, o.total, o.assignee_id, o.notes, o.created_at, o.updated_at,
	o.estimated_completion, o.actual_completion,
	(SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id) AS item_count`

func (r orderSummaryRow) toSummary() (OrderSummary, error) {
	id, err := kernel.UUIDFromGoogle(r.ID)
	if err != nil {
		return OrderSummary{}, err
	}
	kitchenID, err := kernel.UUIDFromGoogle(r.KitchenID)
	if err != nil {
		return OrderSummary{}, err
	}
	return OrderSummary{
		ID:                  id,
		Number:              r.Number,
		KitchenID:           kitchenID,
		CustomerName:        r.CustomerName,
		CustomerPhone:       r.CustomerPhone,
		Status:              order.Status(r.Status),
		Priority:            kernel.Priority(r.Priority),
		Total:               r.Total,
		ItemCount:           r.ItemCount,
		AssigneeID:          kernel.OptionalUUIDFromGoogle(r.AssigneeID),
		Notes:               r.Notes,
		CreatedAt:           r.CreatedAt.UTC(),
		UpdatedAt:           r.UpdatedAt.UTC(),
		EstimatedCompletion: utcPtr(r.EstimatedCompletion),
		ActualCompletion:    utcPtr(r.ActualCompletion),
	}, nil
}

func (h ListKitchenOrdersQueryHandler) Handle(
	ctx context.Context,
	query ListKitchenOrdersQuery,
) (ListKitchenOrdersResponse, error) {
	if err := query.Validate(); err != nil {
		return ListKitchenOrdersResponse{}, err
	}
	if err := h.auth.authorize(ctx, query.actorID, query.kitchenID, access.OrdersView); err != nil {
		return ListKitchenOrdersResponse{}, err
	}

	base := func() *gorm.DB {
		tx := h.db.WithContext(ctx).Table("orders AS o").
			Where("o.kitchen_id = ?", query.kitchenID.Bytes())
		if query.filter.Len() > 0 {
			tx = tx.Clauses(clause.Where{Exprs: query.filter.Expressions()})
		}
		return tx
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return ListKitchenOrdersResponse{}, errs.NewPersistenceFailureError("count kitchen orders", err)
	}

	var rows []orderSummaryRow
	err := base().
		Select(orderSummaryColumns).
		Order("o.priority DESC, o.created_at ASC, o.id ASC").
		Scopes(limitTo(query.limit)).
		Offset(query.offset).
		Scan(&rows).Error
	if err != nil {
		return ListKitchenOrdersResponse{}, errs.NewPersistenceFailureError("list kitchen orders", err)
	}

	resp := ListKitchenOrdersResponse{Orders: make([]OrderSummary, 0, len(rows)), Total: total}
	for _, row := range rows {
		summary, err := row.toSummary()
		if err != nil {
			return ListKitchenOrdersResponse{}, err
		}
		resp.Orders = append(resp.Orders, summary)
	}
	return resp, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
