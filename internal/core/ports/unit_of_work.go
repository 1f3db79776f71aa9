package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Repositories obtained from it share its transaction. Domain events raised
// by aggregates the repositories stored are written to the outbox on Commit,
// inside the same transaction.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit flushes pending domain events and commits.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction and discards pending events.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	KitchenRepository() KitchenRepository
	ZoneRepository() ZoneRepository
	OrderRepository() OrderRepository
	BatchRepository() BatchRepository
	AccessRepository() AccessRepository
}
