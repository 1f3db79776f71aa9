package outboxrepo

import (
	"context"
	"time"

	"fulfillment/internal/adapters/out/postgres/pgerr"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultMaxAttempts is the number of failed deliveries after which a message
// is parked as failed.
const DefaultMaxAttempts = 10

// GormOutboxRepository writes and claims outbox rows.
type GormOutboxRepository struct {
	db          *gorm.DB
	maxAttempts int
}

// NewGormOutboxRepository creates an outbox repository. A non-positive
// maxAttempts selects DefaultMaxAttempts.
func NewGormOutboxRepository(db *gorm.DB, maxAttempts int) *GormOutboxRepository {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &GormOutboxRepository{db: db, maxAttempts: maxAttempts}
}

// Append stores events as pending messages carrying headers.
func (r *GormOutboxRepository) Append(ctx context.Context, events []kernel.DomainEvent, headers map[string]string) error {
	if len(events) == 0 {
		return nil
	}

	dtos := make([]MessageDTO, 0, len(events))
	for _, e := range events {
		dto, err := fromEvent(e, headers)
		if err != nil {
			return pgerr.Wrap("encode outbox event", err)
		}
		dtos = append(dtos, dto)
	}

	if err := r.db.WithContext(ctx).Create(&dtos).Error; err != nil {
		return pgerr.Wrap("insert outbox events", err)
	}
	return nil
}

// WithinClaim locks up to limit pending rows, oldest first, hands them to fn
// and records the outcome before committing.
func (r *GormOutboxRepository) WithinClaim(
	ctx context.Context,
	limit int,
	fn func(ctx context.Context, messages []ports.OutboxMessage) (sent []kernel.UUID, failed map[kernel.UUID]error),
) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dtos []MessageDTO
		err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("status = ?", StatusPending).
			Order("created_at ASC, id ASC").
			Limit(limit).
			Find(&dtos).Error
		if err != nil {
			return err
		}
		if len(dtos) == 0 {
			return nil
		}

		messages := make([]ports.OutboxMessage, 0, len(dtos))
		attempts := make(map[uuid.UUID]int, len(dtos))
		for _, dto := range dtos {
			m, mapErr := toMessage(dto)
			if mapErr != nil {
				return mapErr
			}
			messages = append(messages, m)
			attempts[dto.ID] = dto.Attempts
		}

		sent, failed := fn(ctx, messages)
		return r.settle(tx, sent, failed, attempts)
	})
	return pgerr.Wrap("claim outbox events", err)
}

func (r *GormOutboxRepository) settle(tx *gorm.DB, sent []kernel.UUID, failed map[kernel.UUID]error, attempts map[uuid.UUID]int) error {
	if len(sent) > 0 {
		ids := make([]uuid.UUID, len(sent))
		for i, id := range sent {
			ids[i] = id.Bytes()
		}
		err := tx.Model(&MessageDTO{}).
			Where("id IN ?", ids).
			Updates(map[string]any{"status": StatusSent, "sent_at": time.Now().UTC()}).Error
		if err != nil {
			return err
		}
	}

	for id, cause := range failed {
		n := attempts[id.Bytes()] + 1
		status := StatusPending
		if n >= r.maxAttempts {
			status = StatusFailed
		}
		err := tx.Model(&MessageDTO{}).
			Where("id = ?", id.Bytes()).
			Updates(map[string]any{"status": status, "attempts": n, "last_error": cause.Error()}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// CountPending returns the number of messages awaiting delivery.
func (r *GormOutboxRepository) CountPending(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&MessageDTO{}).Where("status = ?", StatusPending).Count(&n).Error; err != nil {
		return 0, pgerr.Wrap("count outbox events", err)
	}
	return n, nil
}
