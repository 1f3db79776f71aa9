package batchrepo

import (
	"context"
	"errors"
	"sort"

	"fulfillment/internal/adapters/out/postgres/pgerr"
	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormBatchRepository implements ports.BatchRepository using GORM.
type GormBatchRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// NewGormBatchRepository creates a new GORM batch repository.
func NewGormBatchRepository(db *gorm.DB, tracker aggregateTracker) *GormBatchRepository {
	return &GormBatchRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new batch with all of its items.
func (r *GormBatchRepository) Add(ctx context.Context, b *batch.Batch) error {
	if err := b.Validate(); err != nil {
		return err
	}

	dto, items := fromDomain(b)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.Wrap("insert batch", err)
	}
	if len(items) > 0 {
		if err := r.db.WithContext(ctx).CreateInBatches(&items, 200).Error; err != nil {
			return pgerr.Wrap("insert batch items", err)
		}
	}

	r.tracker.TrackAggregate(b.ID(), b)
	return nil
}

// Update saves the batch header and every item status.
func (r *GormBatchRepository) Update(ctx context.Context, b *batch.Batch) error {
	if err := b.Validate(); err != nil {
		return err
	}

	dto, items := fromDomain(b)
	result := r.db.WithContext(ctx).Model(&BatchDTO{}).
		Where("id = ?", dto.ID).
		Select("status", "assignee_id", "notes", "updated_at", "started_at", "completed_at", "estimated_completion").
		Updates(&dto)
	if result.Error != nil {
		return pgerr.Wrap("update batch", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("batch", b.ID().String())
	}

	for i := range items {
		err := r.db.WithContext(ctx).Model(&ItemDTO{}).
			Where("id = ? AND batch_id = ?", items[i].ID, dto.ID).
			Select("status", "completed_at").
			Updates(&items[i]).Error
		if err != nil {
			return pgerr.Wrap("update batch item", err)
		}
	}

	r.tracker.TrackAggregate(b.ID(), b)
	return nil
}

// Get retrieves a batch by ID.
func (r *GormBatchRepository) Get(ctx context.Context, id kernel.UUID) (*batch.Batch, error) {
	return r.get(ctx, r.db, id)
}

// GetForUpdate retrieves a batch and locks its row.
func (r *GormBatchRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*batch.Batch, error) {
	return r.get(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// BatchIDForItem resolves the batch that owns itemID.
func (r *GormBatchRepository) BatchIDForItem(ctx context.Context, itemID kernel.UUID) (kernel.UUID, error) {
	if err := itemID.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	var item ItemDTO
	if err := r.db.WithContext(ctx).Select("id", "batch_id").Take(&item, "id = ?", itemID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return kernel.UUID{}, errs.NewObjectNotFoundError("batch item", itemID.String())
		}
		return kernel.UUID{}, pgerr.Wrap("get batch item", err)
	}
	return kernel.UUIDFromGoogle(item.BatchID)
}

// OpenBatchOrderIDs returns the orders among orderIDs that a pending or
// in-progress batch references, sorted by id.
func (r *GormBatchRepository) OpenBatchOrderIDs(ctx context.Context, orderIDs []kernel.UUID) ([]kernel.UUID, error) {
	if len(orderIDs) == 0 {
		return []kernel.UUID{}, nil
	}

	raw := make([]uuid.UUID, len(orderIDs))
	for i, id := range orderIDs {
		raw[i] = id.Bytes()
	}
	open := batch.OpenStatuses()
	statuses := make([]int, len(open))
	for i, s := range open {
		statuses[i] = int(s)
	}

	var found []uuid.UUID
	err := r.db.WithContext(ctx).Model(&ItemDTO{}).
		Joins("JOIN batches ON batches.id = batch_items.batch_id").
		Where("batch_items.order_id IN ? AND batches.status IN ?", raw, statuses).
		Distinct().
		Pluck("batch_items.order_id", &found).Error
	if err != nil {
		return nil, pgerr.Wrap("find open batch orders", err)
	}

	sort.Slice(found, func(i, j int) bool { return found[i].String() < found[j].String() })
	out := make([]kernel.UUID, 0, len(found))
	for _, f := range found {
		id, idErr := kernel.UUIDFromGoogle(f)
		if idErr != nil {
			return nil, idErr
		}
		out = append(out, id)
	}
	return out, nil
}

func (r *GormBatchRepository) get(ctx context.Context, db *gorm.DB, id kernel.UUID) (*batch.Batch, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto BatchDTO
	if err := db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("batch", id.String())
		}
		return nil, pgerr.Wrap("get batch", err)
	}

	var items []ItemDTO
	if err := r.db.WithContext(ctx).Where("batch_id = ?", dto.ID).Order("order_id ASC, id ASC").Find(&items).Error; err != nil {
		return nil, pgerr.Wrap("get batch items", err)
	}
	return toDomain(dto, items)
}
