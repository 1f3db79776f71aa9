package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetBatchQueryIsNotConstructed = errors.New(
		"GetBatchQuery must be created via NewGetBatchQuery constructor",
	)
)

// GetBatchQuery reads one batch with its items.
type GetBatchQuery struct {
	actorID kernel.UUID
	batchID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetBatchQuery(actorID, batchID kernel.UUID) (GetBatchQuery, error) {
	var q GetBatchQuery
	if err := requireID("actorId", actorID, &q.actorID); err != nil {
		return GetBatchQuery{}, err
	}
	if err := requireID("batchId", batchID, &q.batchID); err != nil {
		return GetBatchQuery{}, err
	}
	q.guard = guard.NewConstructorGuard()
	return q, nil
}

func (q GetBatchQuery) Validate() error {
	return q.guard.Validate(ErrGetBatchQueryIsNotConstructed)
}

// BatchItemView is one production line of a batch.
type BatchItemView struct {
	ID          kernel.UUID
	OrderID     kernel.UUID
	OrderItemID kernel.UUID
	ProductID   kernel.UUID
	Variant     string
	Quantity    int
	Status      batch.Status
	CompletedAt *time.Time
}

// GetBatchQueryResponse is a batch with items ordered by order then item id.
type GetBatchQueryResponse struct {
	ID                  kernel.UUID
	Name                string
	KitchenID           kernel.UUID
	Status              batch.Status
	Priority            kernel.Priority
	CreatorID           kernel.UUID
	AssigneeID          *kernel.UUID
	Notes               string
	CreatedAt           time.Time
	UpdatedAt           time.Time
	StartedAt           *time.Time
	CompletedAt         *time.Time
	EstimatedCompletion *time.Time
	Items               []BatchItemView
}
