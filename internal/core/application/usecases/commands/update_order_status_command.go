package commands

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
)

// UpdateOrderStatusCommand requests a lifecycle transition. Assignee, ETA and
// notes are optional and applied together with the transition.
type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	actorID    kernel.UUID
	orderID    kernel.UUID
	status     order.Status
	assigneeID *kernel.UUID
	eta        *time.Time
	notes      *string

	guard guard.ConstructorGuard
}

func NewUpdateOrderStatusCommand(
	actorID, orderID kernel.UUID,
	status order.Status,
	assigneeID *kernel.UUID,
	eta *time.Time,
	notes *string,
) (UpdateOrderStatusCommand, error) {
	cmd := UpdateOrderStatusCommand{
		assigneeID: assigneeID,
		eta:        eta,
		notes:      notes,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		requireID("actorId", actorID, &cmd.actorID),
		requireID("orderId", orderID, &cmd.orderID),
		cmd.setStatus(status),
	); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	return cmd, nil
}

func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

func (c UpdateOrderStatusCommand) ActorID() kernel.UUID     { return c.actorID }
func (c UpdateOrderStatusCommand) OrderID() kernel.UUID     { return c.orderID }
func (c UpdateOrderStatusCommand) Status() order.Status     { return c.status }
func (c UpdateOrderStatusCommand) AssigneeID() *kernel.UUID { return c.assigneeID }
func (c UpdateOrderStatusCommand) ETA() *time.Time          { return c.eta }
func (c UpdateOrderStatusCommand) Notes() *string           { return c.notes }

func (c *UpdateOrderStatusCommand) setStatus(status order.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	c.status = status
	return nil
}

// requireID validates id and stores it in dst.
func requireID(param string, id kernel.UUID, dst *kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(param, err)
	}
	*dst = id
	return nil
}
