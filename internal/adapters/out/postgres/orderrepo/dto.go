// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// Orders and their line items live in separate tables; items are written once
// with the order and never rewritten.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The kitchen/status index serves capacity counts and kitchen listings.
type OrderDTO struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Number              string          `gorm:"size:32;not null;uniqueIndex"`
	KitchenID           uuid.UUID       `gorm:"type:uuid;not null;index:idx_orders_kitchen_status,priority:1"`
	Status              int             `gorm:"type:smallint;not null;index:idx_orders_kitchen_status,priority:2"`
	Priority            int             `gorm:"type:smallint;not null"`
	Customer            CustomerDTO     `gorm:"embedded;embeddedPrefix:customer_"`
	Delivery            DeliveryDTO     `gorm:"embedded;embeddedPrefix:delivery_"`
	Total               decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	AssigneeID          *uuid.UUID      `gorm:"type:uuid;index"`
	Notes               string          `gorm:"type:text;not null;default:''"`
	CreatedAt           time.Time       `gorm:"not null;index"`
	UpdatedAt           time.Time       `gorm:"not null"`
	EstimatedCompletion *time.Time
	ActualCompletion    *time.Time
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// CustomerDTO is the embedded customer snapshot.
type CustomerDTO struct {
	Name  string `gorm:"size:255;not null"`
	Phone string `gorm:"size:64;not null;default:''"`
	Email string `gorm:"size:255;not null;default:''"`
}

// DeliveryDTO is the embedded delivery address snapshot.
type DeliveryDTO struct {
	AddressLine  string `gorm:"size:512;not null;default:''"`
	City         string `gorm:"size:128;not null;default:''"`
	PostalCode   string `gorm:"size:32;not null;default:''"`
	Instructions string `gorm:"type:text;not null;default:''"`
}

// ItemDTO is one order line.
type ItemDTO struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position  int             `gorm:"not null;default:0"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Variant   string          `gorm:"size:255;not null;default:''"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	LineTotal decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

// TableName specifies the database table name for order lines.
func (ItemDTO) TableName() string {
	return "order_items"
}

// fromDomain converts an order aggregate to its header row and item rows.
func fromDomain(o *order.Order) (OrderDTO, []ItemDTO) {
	items := make([]ItemDTO, 0, len(o.Items()))
	for i, item := range o.Items() {
		items = append(items, ItemDTO{
			ID:        item.ID().Bytes(),
			OrderID:   o.ID().Bytes(),
			Position:  i,
			ProductID: item.ProductID().Bytes(),
			Variant:   item.Variant(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().Amount(),
			LineTotal: item.LineTotal().Amount(),
		})
	}

	c, d := o.Customer(), o.Delivery()
	return OrderDTO{
		ID:        o.ID().Bytes(),
		Number:    o.Number(),
		KitchenID: o.KitchenID().Bytes(),
		Status:    int(o.Status()),
		Priority:  int(o.Priority()),
		Customer: CustomerDTO{
			Name:  c.Name,
			Phone: c.Phone,
			Email: c.Email,
		},
		Delivery: DeliveryDTO{
			AddressLine:  d.AddressLine,
			City:         d.City,
			PostalCode:   d.PostalCode,
			Instructions: d.Instructions,
		},
		Total:               o.Total().Amount(),
		AssigneeID:          kernel.OptionalBytes(o.AssigneeID()),
		Notes:               o.Notes(),
		CreatedAt:           o.CreatedAt(),
		UpdatedAt:           o.UpdatedAt(),
		EstimatedCompletion: o.EstimatedCompletion(),
		ActualCompletion:    o.ActualCompletion(),
	}, items
}

// toDomain rebuilds an order from its header row and item rows.
func toDomain(dto OrderDTO, itemDTOs []ItemDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	kitchenID, err := kernel.UUIDFromGoogle(dto.KitchenID)
	if err != nil {
		return nil, err
	}

	items := make([]*order.Item, 0, len(itemDTOs))
	for _, it := range itemDTOs {
		item, itemErr := itemToDomain(id, it)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(order.State{
		ID:        id,
		Number:    dto.Number,
		KitchenID: kitchenID,
		Customer: order.Customer{
			Name:  dto.Customer.Name,
			Phone: dto.Customer.Phone,
			Email: dto.Customer.Email,
		},
		Delivery: order.Delivery{
			AddressLine:  dto.Delivery.AddressLine,
			City:         dto.Delivery.City,
			PostalCode:   dto.Delivery.PostalCode,
			Instructions: dto.Delivery.Instructions,
		},
		Items:               items,
		Status:              order.Status(dto.Status),
		Priority:            kernel.Priority(dto.Priority),
		AssigneeID:          kernel.OptionalUUIDFromGoogle(dto.AssigneeID),
		Notes:               dto.Notes,
		CreatedAt:           dto.CreatedAt,
		UpdatedAt:           dto.UpdatedAt,
		EstimatedCompletion: dto.EstimatedCompletion,
		ActualCompletion:    dto.ActualCompletion,
	})
}

func itemToDomain(orderID kernel.UUID, dto ItemDTO) (*order.Item, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	productID, err := kernel.UUIDFromGoogle(dto.ProductID)
	if err != nil {
		return nil, err
	}
	price, err := kernel.NewMoney(dto.UnitPrice)
	if err != nil {
		return nil, err
	}
	return order.RestoreItem(id, orderID, productID, dto.Variant, dto.Quantity, price)
}
