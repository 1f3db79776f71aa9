// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, authorization,
// transaction management and persistence, replayed whole on transient
// persistence conflicts.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// KitchenRepoFactory provides access to kitchen and zone repositories
	// within a transaction.
	KitchenRepoFactory interface {
		KitchenRepository() ports.KitchenRepository
		ZoneRepository() ports.ZoneRepository
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// BatchRepoFactory provides access to the batch repository within a transaction.
	BatchRepoFactory interface {
		BatchRepository() ports.BatchRepository
	}

	// AccessRepoFactory provides access to roles and assignments within a transaction.
	AccessRepoFactory interface {
		AccessRepository() ports.AccessRepository
	}

	// RoutingUoW covers order routing, which needs kitchens and orders only.
	RoutingUoW interface {
		TxManager
		KitchenRepoFactory
		OrderRepoFactory
	}

	// RoutingUoWFactory creates new routing unit of work instances.
	RoutingUoWFactory interface {
		Create() RoutingUoW
	}

	// UoW manages transactions across every aggregate of the core. Lifecycle
	// and registry commands use it because each of them consults the access
	// gate before mutating.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   grant, err := uow.AccessRepository().FindGrant(ctx, actorID, kitchenID)
	//   // ... authorize, load, mutate, store
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		KitchenRepoFactory
		OrderRepoFactory
		BatchRepoFactory
		AccessRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)
