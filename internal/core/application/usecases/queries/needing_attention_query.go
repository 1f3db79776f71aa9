package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrNeedingAttentionQueryIsNotConstructed = errors.New(
		"NeedingAttentionQuery must be created via NewNeedingAttentionQuery constructor",
	)
	ErrAttentionSummaryQueryIsNotConstructed = errors.New(
		"AttentionSummaryQuery must be created via NewAttentionSummaryQuery constructor",
	)
)

// NeedingAttentionQuery selects the non-terminal orders or batches of a
// kitchen that are high or urgent, or whose estimated completion is before
// now. Results come most urgent first, then most overdue first.
type NeedingAttentionQuery struct {
	actorID   kernel.UUID
	kitchenID kernel.UUID
	now       time.Time
	limit     int

	guard guard.ConstructorGuard
}

// NewNeedingAttentionQuery builds the query. A zero limit returns every
// order or batch needing attention.
func NewNeedingAttentionQuery(actorID, kitchenID kernel.UUID, now time.Time, limit int) (NeedingAttentionQuery, error) {
	var q NeedingAttentionQuery
	if err := requireID("actorId", actorID, &q.actorID); err != nil {
		return NeedingAttentionQuery{}, err
	}
	if err := requireID("kitchenId", kitchenID, &q.kitchenID); err != nil {
		return NeedingAttentionQuery{}, err
	}
	if now.IsZero() {
		return NeedingAttentionQuery{}, errs.NewValueIsRequiredError("now")
	}
	if limit < 0 || limit > MaxPageSize {
		return NeedingAttentionQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 0, MaxPageSize)
	}
	q.now = now.UTC()
	q.limit = limit
	q.guard = guard.NewConstructorGuard()
	return q, nil
}

func (q NeedingAttentionQuery) Validate() error {
	return q.guard.Validate(ErrNeedingAttentionQueryIsNotConstructed)
}

// OrderAttention is an order needing attention. OverdueBy is zero unless the
// estimated completion has passed.
type OrderAttention struct {
	OrderSummary
	OverdueBy time.Duration
}

// BatchAttention is a batch needing attention with its item progress.
type BatchAttention struct {
	ID                  kernel.UUID
	Name                string
	KitchenID           kernel.UUID
	Status              batch.Status
	Priority            kernel.Priority
	AssigneeID          *kernel.UUID
	ItemCount           int
	CompletedItems      int
	CreatedAt           time.Time
	StartedAt           *time.Time
	EstimatedCompletion *time.Time
	OverdueBy           time.Duration
}

// AttentionSummaryQuery counts attention items per active kitchen. It is an
// operator read with no actor.
type AttentionSummaryQuery struct {
	now time.Time

	guard guard.ConstructorGuard
}

func NewAttentionSummaryQuery(now time.Time) (AttentionSummaryQuery, error) {
	if now.IsZero() {
		return AttentionSummaryQuery{}, errs.NewValueIsRequiredError("now")
	}
	return AttentionSummaryQuery{now: now.UTC(), guard: guard.NewConstructorGuard()}, nil
}

func (q AttentionSummaryQuery) Validate() error {
	return q.guard.Validate(ErrAttentionSummaryQueryIsNotConstructed)
}

// KitchenAttention holds the attention counts of one kitchen.
type KitchenAttention struct {
	KitchenID kernel.UUID
	Name      string
	Orders    int64
	Batches   int64
}
