package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrRouteOrderCommandIsNotConstructed = errors.New(
	"RouteOrderCommand must be created via NewRouteOrderCommand constructor",
)

// RouteOrderLine is one validated line item supplied by the storefront.
type RouteOrderLine struct {
	ProductID kernel.UUID
	Variant   string
	Quantity  int
	UnitPrice kernel.Money
}

// RouteOrderCommand carries a checked-out order awaiting a kitchen.
type RouteOrderCommand struct { //nolint:recvcheck //using for validation
	customer order.Customer
	delivery order.Delivery
	lines    []RouteOrderLine
	priority kernel.Priority
	notes    string

	guard guard.ConstructorGuard
}

func NewRouteOrderCommand(
	customer order.Customer,
	delivery order.Delivery,
	lines []RouteOrderLine,
	priority kernel.Priority,
	notes string,
) (RouteOrderCommand, error) {
	cmd := RouteOrderCommand{
		customer: customer,
		delivery: delivery,
		notes:    notes,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setLines(lines),
		cmd.setPriority(priority),
	); err != nil {
		return RouteOrderCommand{}, err
	}

	return cmd, nil
}

func (c RouteOrderCommand) Validate() error {
	return c.guard.Validate(ErrRouteOrderCommandIsNotConstructed)
}

func (c RouteOrderCommand) Customer() order.Customer  { return c.customer }
func (c RouteOrderCommand) Delivery() order.Delivery  { return c.delivery }
func (c RouteOrderCommand) Priority() kernel.Priority { return c.priority }
func (c RouteOrderCommand) Notes() string             { return c.notes }

func (c RouteOrderCommand) Lines() []RouteOrderLine {
	return append([]RouteOrderLine(nil), c.lines...)
}

func (c *RouteOrderCommand) setLines(lines []RouteOrderLine) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	c.lines = append([]RouteOrderLine(nil), lines...)
	return nil
}

func (c *RouteOrderCommand) setPriority(p kernel.Priority) error {
	if err := p.Validate(); err != nil {
		return err
	}
	c.priority = p
	return nil
}
