package http

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const outcomeRouted = "routed"

// RouteOrder handles POST /api/v1/orders - routes a checked-out order.
func (s *Server) RouteOrder(c echo.Context) error {
	var req RouteOrderRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	cmd, err := routeOrderCommand(req)
	if err != nil {
		s.recordRouting(err)
		return err
	}

	res, err := s.handlers.RouteOrder.Handle(c.Request().Context(), cmd)
	s.recordRouting(err)
	if err != nil {
		return err
	}

	return created(c, RoutedOrderResponse{
		OrderID:   res.OrderID.Bytes(),
		Number:    res.Number,
		KitchenID: res.KitchenID.Bytes(),
	})
}

func (s *Server) recordRouting(err error) {
	outcome := outcomeRouted
	if err != nil {
		outcome = string(errs.KindOf(err))
	}
	s.metrics.RoutingOutcomes.WithLabelValues(outcome).Inc()
}

func routeOrderCommand(req RouteOrderRequest) (commands.RouteOrderCommand, error) {
	lines := make([]commands.RouteOrderLine, 0, len(req.Items))
	var lineErrs []error
	for i, item := range req.Items {
		productID, err := kernel.UUIDFromGoogle(item.ProductID)
		if err != nil {
			lineErrs = append(lineErrs, errs.NewValueIsRequiredError(fmt.Sprintf("items[%d].productId", i)))
			continue
		}
		price, err := kernel.MoneyFromString(item.UnitPrice)
		if err != nil {
			lineErrs = append(lineErrs, errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d].unitPrice", i), err))
			continue
		}
		lines = append(lines, commands.RouteOrderLine{
			ProductID: productID,
			Variant:   item.Variant,
			Quantity:  item.Quantity,
			UnitPrice: price,
		})
	}
	priority, err := kernel.ParsePriority(req.Priority)
	if err != nil {
		lineErrs = append(lineErrs, err)
	}
	if err := errors.Join(lineErrs...); err != nil {
		return commands.RouteOrderCommand{}, err
	}

	return commands.NewRouteOrderCommand(
		order.Customer{
			Name:  req.Customer.Name,
			Phone: req.Customer.Phone,
			Email: req.Customer.Email,
		},
		order.Delivery{
			AddressLine:  req.Delivery.AddressLine,
			City:         req.Delivery.City,
			PostalCode:   req.Delivery.PostalCode,
			Instructions: req.Delivery.Instructions,
		},
		lines,
		priority,
		req.Notes,
	)
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:orderId/status.
func (s *Server) UpdateOrderStatus(c echo.Context) error {
	actorID, err := actorOf(c)
	if err != nil {
		return err
	}
	orderID, err := pathID(c, "orderId")
	if err != nil {
		return err
	}
	var req UpdateOrderStatusRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return err
	}
	assigneeID, err := optionalBodyID("assigneeId", req.AssigneeID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(actorID, orderID, status, assigneeID, req.EstimatedCompletion, req.Notes)
	if err != nil {
		return err
	}
	if err := s.handlers.UpdateOrderStatus.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return ok(c, IDResponse{ID: orderID.Bytes()})
}

// AssignOrder handles POST /api/v1/orders/:orderId/assignee.
func (s *Server) AssignOrder(c echo.Context) error {
	actorID, err := actorOf(c)
	if err != nil {
		return err
	}
	orderID, err := pathID(c, "orderId")
	if err != nil {
		return err
	}
	var req AssigneeRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	userID, err := bodyID("userId", req.UserID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAssignOrderCommand(actorID, orderID, userID)
	if err != nil {
		return err
	}
	if err := s.handlers.AssignOrder.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return ok(c, IDResponse{ID: orderID.Bytes()})
}

// ListKitchenOrders handles GET /api/v1/kitchens/:kitchenId/orders.
func (s *Server) ListKitchenOrders(c echo.Context) error {
	actorID, err := actorOf(c)
	if err != nil {
		return err
	}
	kitchenID, err := pathID(c, "kitchenId")
	if err != nil {
		return err
	}

	filter, err := orderFilter(c)
	if err != nil {
		return err
	}
	var limit, offset *int
	if err := errors.Join(queryParam(c, "limit", &limit), queryParam(c, "offset", &offset)); err != nil {
		return err
	}

	query, err := queries.NewListKitchenOrdersQuery(actorID, kitchenID, filter, deref(limit), deref(offset))
	if err != nil {
		return err
	}
	page, err := s.handlers.ListKitchenOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return ok(c, toOrderPage(page, query))
}

func orderFilter(c echo.Context) (queries.OrderFilter, error) {
	var (
		statuses   *[]string
		priorities *[]string
		assigneeID *uuid.UUID
		from, to   *time.Time
		term       *string
	)
	if err := errors.Join(
		queryParam(c, "status", &statuses),
		queryParam(c, "priority", &priorities),
		queryParam(c, "assigneeId", &assigneeID),
		queryParam(c, "from", &from),
		queryParam(c, "to", &to),
		queryParam(c, "q", &term),
	); err != nil {
		return queries.OrderFilter{}, err
	}

	var predicates []queries.OrderPredicate
	if names := deref(statuses); len(names) > 0 {
		in := make(queries.StatusIn, 0, len(names))
		for _, name := range names {
			status, err := order.ParseStatus(name)
			if err != nil {
				return queries.OrderFilter{}, err
			}
			in = append(in, status)
		}
		predicates = append(predicates, in)
	}
	if names := deref(priorities); len(names) > 0 {
		in := make(queries.PriorityIn, 0, len(names))
		for _, name := range names {
			p, err := kernel.ParsePriority(name)
			if err != nil {
				return queries.OrderFilter{}, err
			}
			in = append(in, p)
		}
		predicates = append(predicates, in)
	}
	if assigneeID != nil {
		userID, err := bodyID("assigneeId", *assigneeID)
		if err != nil {
			return queries.OrderFilter{}, err
		}
		predicates = append(predicates, queries.AssignedTo{UserID: userID})
	}
	if from != nil || to != nil {
		predicates = append(predicates, queries.DateRange{From: from, To: to})
	}
	if term != nil && *term != "" {
		predicates = append(predicates, queries.TextSearch{Term: *term})
	}

	return queries.NewOrderFilter(predicates...)
}

// GetKitchenOrderStats handles GET /api/v1/kitchens/:kitchenId/orders/stats.
func (s *Server) GetKitchenOrderStats(c echo.Context) error {
	query, err := s.statsQuery(c)
	if err != nil {
		return err
	}
	stats, err := s.handlers.OrderStats.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return ok(c, toOrderStats(stats))
}

// GetOrdersNeedingAttention handles GET /api/v1/kitchens/:kitchenId/orders/attention.
func (s *Server) GetOrdersNeedingAttention(c echo.Context) error {
	query, err := s.attentionQuery(c)
	if err != nil {
		return err
	}
	items, err := s.handlers.OrdersAttention.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return ok(c, toOrderAttention(items))
}

func (s *Server) statsQuery(c echo.Context) (queries.KitchenStatsQuery, error) {
	actorID, err := actorOf(c)
	if err != nil {
		return queries.KitchenStatsQuery{}, err
	}
	kitchenID, err := pathID(c, "kitchenId")
	if err != nil {
		return queries.KitchenStatsQuery{}, err
	}
	return queries.NewKitchenStatsQuery(actorID, kitchenID)
}

func (s *Server) attentionQuery(c echo.Context) (queries.NeedingAttentionQuery, error) {
	actorID, err := actorOf(c)
	if err != nil {
		return queries.NeedingAttentionQuery{}, err
	}
	kitchenID, err := pathID(c, "kitchenId")
	if err != nil {
		return queries.NeedingAttentionQuery{}, err
	}
	var limit *int
	if err := queryParam(c, "limit", &limit); err != nil {
		return queries.NeedingAttentionQuery{}, err
	}
	return queries.NewNeedingAttentionQuery(actorID, kitchenID, s.now(), deref(limit))
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
