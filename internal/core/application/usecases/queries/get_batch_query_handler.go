package queries

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/access"
	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetBatchQueryHandler reads a batch for a holder of batches:view on its
// kitchen. A batch the caller cannot see is reported as PermissionDenied
// whether or not it exists.
type GetBatchQueryHandler struct {
	db   *gorm.DB
	auth Authorizer
}

func NewGetBatchQueryHandler(db *gorm.DB, auth Authorizer) GetBatchQueryHandler {
	return GetBatchQueryHandler{db: db, auth: auth}
}

func (h GetBatchQueryHandler) Handle(ctx context.Context, query GetBatchQuery) (GetBatchQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetBatchQueryResponse{}, err
	}

	var header struct {
		ID                  uuid.UUID
		Name                string
		KitchenID           uuid.UUID
		Status              int
		Priority            int
		CreatorID           uuid.UUID
		AssigneeID          *uuid.UUID
		Notes               string
		CreatedAt           time.Time
		UpdatedAt           time.Time
		StartedAt           *time.Time
		CompletedAt         *time.Time
		EstimatedCompletion *time.Time
	}
	result := h.db.WithContext(ctx).Table("batches").
		Where("id = ?", query.batchID.Bytes()).
		Limit(1).
		Scan(&header)
	if result.Error != nil {
		return GetBatchQueryResponse{}, errs.NewPersistenceFailureError("get batch", result.Error)
	}
	if result.RowsAffected == 0 {
		return GetBatchQueryResponse{}, fmt.Errorf("%w: batch %s", errs.ErrPermissionDenied, query.batchID)
	}

	kitchenID, err := kernel.UUIDFromGoogle(header.KitchenID)
	if err != nil {
		return GetBatchQueryResponse{}, err
	}
	if err := h.auth.authorize(ctx, query.actorID, kitchenID, access.BatchesView); err != nil {
		return GetBatchQueryResponse{}, err
	}

	creatorID, err := kernel.UUIDFromGoogle(header.CreatorID)
	if err != nil {
		return GetBatchQueryResponse{}, err
	}
	resp := GetBatchQueryResponse{
		ID:                  query.batchID,
		Name:                header.Name,
		KitchenID:           kitchenID,
		Status:              batch.Status(header.Status),
		Priority:            kernel.Priority(header.Priority),
		CreatorID:           creatorID,
		AssigneeID:          kernel.OptionalUUIDFromGoogle(header.AssigneeID),
		Notes:               header.Notes,
		CreatedAt:           header.CreatedAt.UTC(),
		UpdatedAt:           header.UpdatedAt.UTC(),
		StartedAt:           utcPtr(header.StartedAt),
		CompletedAt:         utcPtr(header.CompletedAt),
		EstimatedCompletion: utcPtr(header.EstimatedCompletion),
	}

	items, err := h.items(ctx, query.batchID)
	if err != nil {
		return GetBatchQueryResponse{}, err
	}
	resp.Items = items
	return resp, nil
}

func (h GetBatchQueryHandler) items(ctx context.Context, batchID kernel.UUID) ([]BatchItemView, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			order_item_id,
			product_id,
			variant,
			quantity,
			status,
			completed_at
		FROM batch_items
		WHERE batch_id = ?
		ORDER BY order_id, id
	`, batchID.Bytes()).Rows()
	if err != nil {
		return nil, errs.NewPersistenceFailureError("get batch items", err)
	}
	defer rows.Close()

	items := make([]BatchItemView, 0)
	for rows.Next() {
		var (
			id, orderID, orderItemID, productID uuid.UUID
			item                                BatchItemView
			status                              int
			completedAt                         *time.Time
		)
		err = rows.Scan(&id, &orderID, &orderItemID, &productID, &item.Variant, &item.Quantity, &status, &completedAt)
		if err != nil {
			return nil, errs.NewPersistenceFailureError("scan batch item", err)
		}

		if item.ID, err = kernel.UUIDFromGoogle(id); err != nil {
			return nil, err
		}
		if item.OrderID, err = kernel.UUIDFromGoogle(orderID); err != nil {
			return nil, err
		}
		if item.OrderItemID, err = kernel.UUIDFromGoogle(orderItemID); err != nil {
			return nil, err
		}
		if item.ProductID, err = kernel.UUIDFromGoogle(productID); err != nil {
			return nil, err
		}
		item.Status = batch.Status(status)
		item.CompletedAt = utcPtr(completedAt)
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, errs.NewPersistenceFailureError("read batch items", err)
	}
	return items, nil
}
