package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrKitchenStatsQueryIsNotConstructed = errors.New(
		"KitchenStatsQuery must be created via NewKitchenStatsQuery constructor",
	)
)

// KitchenStatsQuery selects the kitchen whose order or batch statistics are
// read. The same query serves both handlers.
type KitchenStatsQuery struct {
	actorID   kernel.UUID
	kitchenID kernel.UUID

	guard guard.ConstructorGuard
}

func NewKitchenStatsQuery(actorID, kitchenID kernel.UUID) (KitchenStatsQuery, error) {
	var q KitchenStatsQuery
	if err := requireID("actorId", actorID, &q.actorID); err != nil {
		return KitchenStatsQuery{}, err
	}
	if err := requireID("kitchenId", kitchenID, &q.kitchenID); err != nil {
		return KitchenStatsQuery{}, err
	}
	q.guard = guard.NewConstructorGuard()
	return q, nil
}

func (q KitchenStatsQuery) Validate() error {
	return q.guard.Validate(ErrKitchenStatsQueryIsNotConstructed)
}

// KitchenOrderStats counts a kitchen's orders. AvgCompletionMinutes spans
// creation to completion of completed orders and is nil when there are none.
type KitchenOrderStats struct {
	KitchenID            kernel.UUID
	Total                int64
	Active               int64
	ByStatus             map[order.Status]int64
	ByPriority           map[kernel.Priority]int64
	AvgCompletionMinutes *float64
}

// KitchenBatchStats counts a kitchen's batches. AvgCompletionMinutes spans
// start to completion of completed batches.
type KitchenBatchStats struct {
	KitchenID            kernel.UUID
	Total                int64
	Open                 int64
	ByStatus             map[batch.Status]int64
	ByPriority           map[kernel.Priority]int64
	AvgCompletionMinutes *float64
}
