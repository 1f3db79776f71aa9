package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/kernel"
)

// BatchRepository defines the persistence contract for batch aggregates.
type BatchRepository interface {
	// Add persists a new batch with its items.
	Add(ctx context.Context, b *batch.Batch) error

	// Update persists the batch header and the status of every item.
	Update(ctx context.Context, b *batch.Batch) error

	// Get retrieves a batch with its items.
	Get(ctx context.Context, id kernel.UUID) (*batch.Batch, error)

	// GetForUpdate retrieves a batch and locks its row for the rest of the
	// unit of work. Every item update and cascade goes through this lock.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*batch.Batch, error)

	// BatchIDForItem resolves the batch owning an item.
	BatchIDForItem(ctx context.Context, itemID kernel.UUID) (kernel.UUID, error)

	// OpenBatchOrderIDs returns the subset of orderIDs referenced by a pending
	// or in-progress batch.
	OpenBatchOrderIDs(ctx context.Context, orderIDs []kernel.UUID) ([]kernel.UUID, error)
}
