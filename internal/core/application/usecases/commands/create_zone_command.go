package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCreateZoneCommandIsNotConstructed = errors.New(
	"CreateZoneCommand must be created via NewCreateZoneCommand constructor",
)

type CreateZoneCommand struct { //nolint:recvcheck //using for validation
	actorID kernel.UUID
	name    string

	guard guard.ConstructorGuard
}

func NewCreateZoneCommand(actorID kernel.UUID, name string) (CreateZoneCommand, error) {
	cmd := CreateZoneCommand{
		name:  name,
		guard: guard.NewConstructorGuard(),
	}

	var nameErr error
	if name == "" {
		nameErr = errs.NewValueIsRequiredError("name")
	}
	if err := errors.Join(requireID("actorId", actorID, &cmd.actorID), nameErr); err != nil {
		return CreateZoneCommand{}, err
	}

	return cmd, nil
}

func (c CreateZoneCommand) Validate() error {
	return c.guard.Validate(ErrCreateZoneCommandIsNotConstructed)
}

func (c CreateZoneCommand) ActorID() kernel.UUID { return c.actorID }
func (c CreateZoneCommand) Name() string         { return c.name }
