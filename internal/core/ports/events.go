package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// OutboxMessage is a persisted domain event awaiting delivery.
type OutboxMessage struct {
	ID            kernel.UUID
	EventType     string
	AggregateType string
	AggregateID   kernel.UUID
	KitchenID     kernel.UUID
	Payload       []byte
	Headers       map[string]string
	Attempts      int
	CreatedAt     time.Time
}

// OutboxStore is read by the relay job.
type OutboxStore interface {
	// WithinClaim runs fn with up to limit pending messages locked, oldest
	// first, skipping rows another relay holds. The ids fn reports as sent
	// or failed are updated before the claim ends.
	WithinClaim(ctx context.Context, limit int, fn func(ctx context.Context, messages []OutboxMessage) (sent []kernel.UUID, failed map[kernel.UUID]error)) error
}

// EventPublisher delivers outbox messages to an external broker.
type EventPublisher interface {
	Publish(ctx context.Context, messages []OutboxMessage) error
}

// EventBroadcaster pushes messages to live dashboard subscribers of a
// kitchen. Broadcasting is best effort and never fails the relay.
type EventBroadcaster interface {
	Broadcast(kitchenID kernel.UUID, message OutboxMessage)
}

// IdempotencyStore remembers request keys for a limited time.
type IdempotencyStore interface {
	// Seen records key and reports whether it had already been recorded.
	Seen(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Forget drops key so a request that failed may be retried with it.
	Forget(ctx context.Context, key string) error
}
