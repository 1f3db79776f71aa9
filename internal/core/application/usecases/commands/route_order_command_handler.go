package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
)

// RouteOrderResult identifies the stored order and the kitchen chosen for it.
type RouteOrderResult struct {
	OrderID   kernel.UUID
	Number    string
	KitchenID kernel.UUID
}

type RouteOrderCommandHandler struct {
	uowFactory RoutingUoWFactory
	selector   services.KitchenSelector
	retry      RetryPolicy
}

func NewRouteOrderCommandHandler(
	uowFactory RoutingUoWFactory,
	selector services.KitchenSelector,
	retry RetryPolicy,
) RouteOrderCommandHandler {
	return RouteOrderCommandHandler{
		uowFactory: uowFactory,
		selector:   selector,
		retry:      retry,
	}
}

// Handle selects the kitchen with the greatest available capacity and stores
// the order with its items in one transaction. The active kitchens stay
// locked from the capacity count until commit, so concurrent routers never
// overcommit a kitchen. errs.ErrNoCapacity is returned when every kitchen is
// full; the caller decides whether to retry later.
func (h *RouteOrderCommandHandler) Handle(ctx context.Context, cmd RouteOrderCommand) (RouteOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return RouteOrderResult{}, err
	}

	lines := cmd.Lines()
	items := make([]*order.Item, 0, len(lines))
	itemErrs := make([]error, 0)
	for _, line := range lines {
		item, err := order.NewItem(line.ProductID, line.Variant, line.Quantity, line.UnitPrice)
		if err != nil {
			itemErrs = append(itemErrs, err)
			continue
		}
		items = append(items, item)
	}
	if err := errors.Join(itemErrs...); err != nil {
		return RouteOrderResult{}, err
	}

	return inTx(ctx, h.retry, func() (RouteOrderResult, error) {
		return h.route(ctx, cmd, items)
	})
}

func (h *RouteOrderCommandHandler) route(ctx context.Context, cmd RouteOrderCommand, items []*order.Item) (RouteOrderResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return RouteOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	kitchens, err := uow.KitchenRepository().LockActive(ctx)
	if err != nil {
		return RouteOrderResult{}, err
	}

	ids := make([]kernel.UUID, len(kitchens))
	for i, k := range kitchens {
		ids[i] = k.ID()
	}
	orderRepo := uow.OrderRepository()
	active, err := orderRepo.CountActiveByKitchen(ctx, ids)
	if err != nil {
		return RouteOrderResult{}, err
	}

	chosen, err := h.selector.Select(kitchens, active)
	if err != nil {
		return RouteOrderResult{}, err
	}

	o, err := order.NewOrder(chosen.ID(), cmd.Customer(), cmd.Delivery(), items, cmd.Priority(), cmd.Notes())
	if err != nil {
		return RouteOrderResult{}, err
	}

	if err = orderRepo.Add(ctx, o); err != nil {
		return RouteOrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return RouteOrderResult{}, err
	}

	return RouteOrderResult{OrderID: o.ID(), Number: o.Number(), KitchenID: chosen.ID()}, nil
}
