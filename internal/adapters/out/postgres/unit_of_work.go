// Package postgres provides the GORM implementation of the unit of work.
//
// A unit of work owns one database transaction. Repositories handed out while
// the transaction is open run inside it and report every aggregate they write
// back to the unit of work. On Commit the domain events of those aggregates are
// appended to the outbox in the same transaction, so a state change and its
// notification are stored together or not at all.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.OrderRepository().Add(ctx, o); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// Each UnitOfWork instance serves a single goroutine. Row locks taken by
// GetForUpdate and LockActive are held until Commit or Rollback.
package postgres

import (
	"context"

	"fulfillment/internal/adapters/out/postgres/accessrepo"
	"fulfillment/internal/adapters/out/postgres/batchrepo"
	"fulfillment/internal/adapters/out/postgres/kitchenrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/outboxrepo"
	"fulfillment/internal/adapters/out/postgres/pgerr"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"gorm.io/gorm"
)

// trackedAggregate is an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
// Factory ensures each business operation gets a fresh unit of work instance
// with proper isolation from other concurrent operations.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork instance.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return f.CreateGorm()
}

// CreateGorm is Create returning the concrete type.
func (f *GormUnitOfWorkFactory) CreateGorm() *GormUnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and the outbox entries
// of the aggregates written in it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. Calling Begin twice is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return pgerr.Wrap("begin", tx.Error)
	}
	uow.tx = tx
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Commit appends the pending domain events to the outbox and commits. The
// current trace context travels with the events as message headers.
//
// Returns gorm.ErrInvalidTransaction if no transaction is active.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	sources := uow.eventSources()
	events := make([]kernel.DomainEvent, 0)
	for _, src := range sources {
		events = append(events, src.DomainEvents()...)
	}

	if len(events) > 0 {
		headers := propagation.MapCarrier{}
		otel.GetTextMapPropagator().Inject(ctx, headers)
		if err := outboxrepo.NewGormOutboxRepository(uow.tx, 0).Append(ctx, events, headers); err != nil {
			return err
		}
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		return pgerr.Wrap("commit", err)
	}

	for _, src := range sources {
		src.ClearDomainEvents()
	}
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Rollback discards the transaction and forgets the tracked aggregates.
//
// Returns gorm.ErrInvalidTransaction if no transaction is active.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

// KitchenRepository returns a kitchen repository bound to the transaction.
func (uow *GormUnitOfWork) KitchenRepository() ports.KitchenRepository {
	return kitchenrepo.NewGormKitchenRepository(uow.conn(), uow)
}

// ZoneRepository returns a zone repository bound to the transaction.
func (uow *GormUnitOfWork) ZoneRepository() ports.ZoneRepository {
	return kitchenrepo.NewGormZoneRepository(uow.conn())
}

// OrderRepository returns an order repository bound to the transaction.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

// BatchRepository returns a batch repository bound to the transaction.
func (uow *GormUnitOfWork) BatchRepository() ports.BatchRepository {
	return batchrepo.NewGormBatchRepository(uow.conn(), uow)
}

// AccessRepository returns an access repository bound to the transaction.
func (uow *GormUnitOfWork) AccessRepository() ports.AccessRepository {
	return accessrepo.NewGormAccessRepository(uow.conn())
}

// TrackAggregate registers an aggregate written within this unit of work.
// Repositories call it after every successful Add or Update.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// conn returns the open transaction, or the pool outside of one.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// eventSources returns each tracked event source once, in tracking order.
func (uow *GormUnitOfWork) eventSources() []kernel.EventSource {
	seen := make(map[kernel.EventSource]struct{}, len(uow.trackedAggregates))
	out := make([]kernel.EventSource, 0, len(uow.trackedAggregates))
	for _, t := range uow.trackedAggregates {
		src, ok := t.Aggregate.(kernel.EventSource)
		if !ok {
			continue
		}
		if _, dup := seen[src]; dup {
			continue
		}
		seen[src] = struct{}{}
		out = append(out, src)
	}
	return out
}
