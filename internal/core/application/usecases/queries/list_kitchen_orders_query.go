package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// MaxPageSize bounds an explicit page size.
const MaxPageSize = 200

var (
	ErrListKitchenOrdersQueryIsNotConstructed = errors.New(
		"ListKitchenOrdersQuery must be created via NewListKitchenOrdersQuery constructor",
	)
)

// ListKitchenOrdersQuery pages through the orders of one kitchen matching a
// filter, most urgent first and oldest first within a priority.
//
// Example:
//
//	filter, _ := NewOrderFilter(StatusIn{order.Received}, TextSearch{Term: "smith"})
//	query, err := NewListKitchenOrdersQuery(actorID, kitchenID, filter, 20, 0)
//	if err != nil {
//	    return err
//	}
//	page, err := handler.Handle(ctx, query)
type ListKitchenOrdersQuery struct {
	actorID   kernel.UUID
	kitchenID kernel.UUID
	filter    OrderFilter
	limit     int
	offset    int

	guard guard.ConstructorGuard
}

// NewListKitchenOrdersQuery builds the query. A zero limit returns every
// matching order.
func NewListKitchenOrdersQuery(
	actorID, kitchenID kernel.UUID,
	filter OrderFilter,
	limit, offset int,
) (ListKitchenOrdersQuery, error) {
	q := ListKitchenOrdersQuery{filter: filter}
	if err := requireID("actorId", actorID, &q.actorID); err != nil {
		return ListKitchenOrdersQuery{}, err
	}
	if err := requireID("kitchenId", kitchenID, &q.kitchenID); err != nil {
		return ListKitchenOrdersQuery{}, err
	}
	if limit < 0 || limit > MaxPageSize {
		return ListKitchenOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 0, MaxPageSize)
	}
	if offset < 0 {
		return ListKitchenOrdersQuery{}, errs.NewValueIsOutOfRangeError("offset", offset, 0, "unbounded")
	}
	q.limit = limit
	q.offset = offset
	q.guard = guard.NewConstructorGuard()
	return q, nil
}

func (q ListKitchenOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListKitchenOrdersQueryIsNotConstructed)
}

func (q ListKitchenOrdersQuery) KitchenID() kernel.UUID { return q.kitchenID }
func (q ListKitchenOrdersQuery) Filter() OrderFilter    { return q.filter }
func (q ListKitchenOrdersQuery) Limit() int             { return q.limit }
func (q ListKitchenOrdersQuery) Offset() int            { return q.offset }

// OrderSummary is one row of an order listing.
type OrderSummary struct {
	ID                  kernel.UUID
	Number              string
	KitchenID           kernel.UUID
	CustomerName        string
	CustomerPhone       string
	Status              order.Status
	Priority            kernel.Priority
	Total               decimal.Decimal
	ItemCount           int
	AssigneeID          *kernel.UUID
	Notes               string
	CreatedAt           time.Time
	UpdatedAt           time.Time
	EstimatedCompletion *time.Time
	ActualCompletion    *time.Time
}

// ListKitchenOrdersResponse is one page and the number of matching orders.
type ListKitchenOrdersResponse struct {
	Orders []OrderSummary
	Total  int64
}
