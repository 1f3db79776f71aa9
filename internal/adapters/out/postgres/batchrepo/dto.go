// Package batchrepo persists production batches and their items.
package batchrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// BatchDTO is the row of the batches table.
type BatchDTO struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name                string     `gorm:"size:255;not null"`
	KitchenID           uuid.UUID  `gorm:"type:uuid;not null;index:idx_batches_kitchen_status,priority:1"`
	Status              int        `gorm:"type:smallint;not null;index:idx_batches_kitchen_status,priority:2"`
	Priority            int        `gorm:"type:smallint;not null"`
	CreatorID           uuid.UUID  `gorm:"type:uuid;not null"`
	AssigneeID          *uuid.UUID `gorm:"type:uuid;index"`
	Notes               string     `gorm:"type:text;not null;default:''"`
	CreatedAt           time.Time  `gorm:"not null"`
	UpdatedAt           time.Time  `gorm:"not null"`
	StartedAt           *time.Time
	CompletedAt         *time.Time
	EstimatedCompletion *time.Time
}

func (BatchDTO) TableName() string {
	return "batches"
}

// ItemDTO is the row of the batch_items table, one per order line.
type ItemDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	BatchID     uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderItemID uuid.UUID `gorm:"type:uuid;not null"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null"`
	Variant     string    `gorm:"size:255;not null;default:''"`
	Quantity    int       `gorm:"not null"`
	Status      int       `gorm:"type:smallint;not null"`
	CompletedAt *time.Time
}

func (ItemDTO) TableName() string {
	return "batch_items"
}

func fromDomain(b *batch.Batch) (BatchDTO, []ItemDTO) {
	items := make([]ItemDTO, 0, len(b.Items()))
	for _, it := range b.Items() {
		items = append(items, ItemDTO{
			ID:          it.ID().Bytes(),
			BatchID:     b.ID().Bytes(),
			OrderID:     it.OrderID().Bytes(),
			OrderItemID: it.OrderItemID().Bytes(),
			ProductID:   it.ProductID().Bytes(),
			Variant:     it.Variant(),
			Quantity:    it.Quantity(),
			Status:      int(it.Status()),
			CompletedAt: it.CompletedAt(),
		})
	}

	return BatchDTO{
		ID:                  b.ID().Bytes(),
		Name:                b.Name(),
		KitchenID:           b.KitchenID().Bytes(),
		Status:              int(b.Status()),
		Priority:            int(b.Priority()),
		CreatorID:           b.CreatorID().Bytes(),
		AssigneeID:          kernel.OptionalBytes(b.AssigneeID()),
		Notes:               b.Notes(),
		CreatedAt:           b.CreatedAt(),
		UpdatedAt:           b.UpdatedAt(),
		StartedAt:           b.StartedAt(),
		CompletedAt:         b.CompletedAt(),
		EstimatedCompletion: b.EstimatedCompletion(),
	}, items
}

func toDomain(dto BatchDTO, itemDTOs []ItemDTO) (*batch.Batch, error) {
	ids, err := parseUUIDs(dto.ID, dto.KitchenID, dto.CreatorID)
	if err != nil {
		return nil, err
	}

	items := make([]batch.ItemState, 0, len(itemDTOs))
	for _, it := range itemDTOs {
		itemIDs, itemErr := parseUUIDs(it.ID, it.OrderID, it.OrderItemID, it.ProductID)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, batch.ItemState{
			ID:          itemIDs[0],
			OrderID:     itemIDs[1],
			OrderItemID: itemIDs[2],
			ProductID:   itemIDs[3],
			Variant:     it.Variant,
			Quantity:    it.Quantity,
			Status:      batch.Status(it.Status),
			CompletedAt: it.CompletedAt,
		})
	}

	return batch.RestoreBatch(batch.State{
		ID:                  ids[0],
		Name:                dto.Name,
		KitchenID:           ids[1],
		Status:              batch.Status(dto.Status),
		Priority:            kernel.Priority(dto.Priority),
		CreatorID:           ids[2],
		AssigneeID:          kernel.OptionalUUIDFromGoogle(dto.AssigneeID),
		Items:               items,
		Notes:               dto.Notes,
		CreatedAt:           dto.CreatedAt,
		UpdatedAt:           dto.UpdatedAt,
		StartedAt:           dto.StartedAt,
		CompletedAt:         dto.CompletedAt,
		EstimatedCompletion: dto.EstimatedCompletion,
	})
}

func parseUUIDs(raw ...uuid.UUID) ([]kernel.UUID, error) {
	out := make([]kernel.UUID, len(raw))
	for i, r := range raw {
		id, err := kernel.UUIDFromGoogle(r)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}
