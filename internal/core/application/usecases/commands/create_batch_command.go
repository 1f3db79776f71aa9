package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCreateBatchCommandIsNotConstructed = errors.New(
	"CreateBatchCommand must be created via NewCreateBatchCommand constructor",
)

// CreateBatchCommand groups orders of one kitchen into a production batch.
type CreateBatchCommand struct { //nolint:recvcheck //using for validation
	actorID   kernel.UUID
	kitchenID kernel.UUID
	name      string
	orderIDs  []kernel.UUID
	priority  kernel.Priority
	notes     string

	guard guard.ConstructorGuard
}

// NewCreateBatchCommand validates the request shape. The order ids must be a
// non-empty set without duplicates; whether the orders qualify is decided
// inside the transaction.
func NewCreateBatchCommand(
	actorID, kitchenID kernel.UUID,
	name string,
	orderIDs []kernel.UUID,
	priority kernel.Priority,
	notes string,
) (CreateBatchCommand, error) {
	cmd := CreateBatchCommand{
		notes: notes,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		requireID("actorId", actorID, &cmd.actorID),
		requireID("kitchenId", kitchenID, &cmd.kitchenID),
		cmd.setName(name),
		cmd.setPriority(priority),
	); err != nil {
		return CreateBatchCommand{}, err
	}
	if err := cmd.setOrderIDs(orderIDs); err != nil {
		return CreateBatchCommand{}, err
	}

	return cmd, nil
}

func (c CreateBatchCommand) Validate() error {
	return c.guard.Validate(ErrCreateBatchCommandIsNotConstructed)
}

func (c CreateBatchCommand) ActorID() kernel.UUID      { return c.actorID }
func (c CreateBatchCommand) KitchenID() kernel.UUID    { return c.kitchenID }
func (c CreateBatchCommand) Name() string              { return c.name }
func (c CreateBatchCommand) Priority() kernel.Priority { return c.priority }
func (c CreateBatchCommand) Notes() string             { return c.notes }

func (c CreateBatchCommand) OrderIDs() []kernel.UUID {
	return append([]kernel.UUID(nil), c.orderIDs...)
}

func (c *CreateBatchCommand) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("name")
	}
	c.name = name
	return nil
}

func (c *CreateBatchCommand) setPriority(p kernel.Priority) error {
	if err := p.Validate(); err != nil {
		return err
	}
	c.priority = p
	return nil
}

func (c *CreateBatchCommand) setOrderIDs(ids []kernel.UUID) error {
	if len(ids) == 0 {
		return errs.NewInvalidOrderSetError("", "no orders supplied")
	}
	seen := make(map[kernel.UUID]struct{}, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return errs.NewInvalidOrderSetError("", "contains an empty order id")
		}
		if _, dup := seen[id]; dup {
			return errs.NewInvalidOrderSetError(id.String(), "is listed more than once")
		}
		seen[id] = struct{}{}
	}
	c.orderIDs = append([]kernel.UUID(nil), ids...)
	return nil
}
