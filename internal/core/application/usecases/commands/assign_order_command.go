package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrAssignOrderCommandIsNotConstructed = errors.New(
	"AssignOrderCommand must be created via NewAssignOrderCommand constructor",
)

// AssignOrderCommand hands an order to a staff member of its kitchen.
type AssignOrderCommand struct {
	actorID kernel.UUID
	orderID kernel.UUID
	userID  kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssignOrderCommand(actorID, orderID, userID kernel.UUID) (AssignOrderCommand, error) {
	cmd := AssignOrderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		requireID("actorId", actorID, &cmd.actorID),
		requireID("orderId", orderID, &cmd.orderID),
		requireID("userId", userID, &cmd.userID),
	); err != nil {
		return AssignOrderCommand{}, err
	}

	return cmd, nil
}

func (c AssignOrderCommand) Validate() error {
	return c.guard.Validate(ErrAssignOrderCommandIsNotConstructed)
}

func (c AssignOrderCommand) ActorID() kernel.UUID { return c.actorID }
func (c AssignOrderCommand) OrderID() kernel.UUID { return c.orderID }
func (c AssignOrderCommand) UserID() kernel.UUID  { return c.userID }
