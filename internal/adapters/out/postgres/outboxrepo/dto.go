// Package outboxrepo stores domain events written by the unit of work and
// hands them to the relay.
package outboxrepo

import (
	"encoding/json"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Delivery states of an outbox row.
const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// MessageDTO is the row of the outbox_events table.
type MessageDTO struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey"`
	EventType     string            `gorm:"size:64;not null;index"`
	AggregateType string            `gorm:"size:32;not null"`
	AggregateID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	KitchenID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	Payload       datatypes.JSON    `gorm:"not null"`
	Headers       datatypes.JSONMap `gorm:"not null"`
	Status        string            `gorm:"size:16;not null;index:idx_outbox_status_created,priority:1"`
	Attempts      int               `gorm:"not null;default:0"`
	LastError     string            `gorm:"type:text;not null;default:''"`
	CreatedAt     time.Time         `gorm:"not null;index:idx_outbox_status_created,priority:2"`
	SentAt        *time.Time
}

func (MessageDTO) TableName() string {
	return "outbox_events"
}

// envelope is the JSON document relayed to subscribers.
type envelope struct {
	ID            string         `json:"id"`
	Type          string         `json:"type"`
	AggregateType string         `json:"aggregateType"`
	AggregateID   string         `json:"aggregateId"`
	KitchenID     string         `json:"kitchenId"`
	OccurredAt    time.Time      `json:"occurredAt"`
	Payload       map[string]any `json:"payload"`
}

func fromEvent(e kernel.DomainEvent, headers map[string]string) (MessageDTO, error) {
	payload, err := json.Marshal(envelope{
		ID:            e.ID.String(),
		Type:          e.Type,
		AggregateType: e.AggregateType,
		AggregateID:   e.AggregateID.String(),
		KitchenID:     e.KitchenID.String(),
		OccurredAt:    e.OccurredAt,
		Payload:       e.Payload,
	})
	if err != nil {
		return MessageDTO{}, err
	}

	h := make(datatypes.JSONMap, len(headers))
	for k, v := range headers {
		h[k] = v
	}

	return MessageDTO{
		ID:            e.ID.Bytes(),
		EventType:     e.Type,
		AggregateType: e.AggregateType,
		AggregateID:   e.AggregateID.Bytes(),
		KitchenID:     e.KitchenID.Bytes(),
		Payload:       datatypes.JSON(payload),
		Headers:       h,
		Status:        StatusPending,
		CreatedAt:     e.OccurredAt,
	}, nil
}

func toMessage(dto MessageDTO) (ports.OutboxMessage, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return ports.OutboxMessage{}, err
	}
	aggregateID, err := kernel.UUIDFromGoogle(dto.AggregateID)
	if err != nil {
		return ports.OutboxMessage{}, err
	}
	kitchenID, err := kernel.UUIDFromGoogle(dto.KitchenID)
	if err != nil {
		return ports.OutboxMessage{}, err
	}

	headers := make(map[string]string, len(dto.Headers))
	for k, v := range dto.Headers {
		if s, ok := v.(string); ok {
			headers[k] = s
		}
	}

	return ports.OutboxMessage{
		ID:            id,
		EventType:     dto.EventType,
		AggregateType: dto.AggregateType,
		AggregateID:   aggregateID,
		KitchenID:     kitchenID,
		Payload:       []byte(dto.Payload),
		Headers:       headers,
		Attempts:      dto.Attempts,
		CreatedAt:     dto.CreatedAt,
	}, nil
}
