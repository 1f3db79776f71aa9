package order

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// MaxItemQuantity bounds a single line item.
const MaxItemQuantity = 1000

// Item is an immutable order line. Its line total is quantity × unit price.
type Item struct {
	id        kernel.UUID
	orderID   kernel.UUID
	productID kernel.UUID
	variant   string
	quantity  int
	unitPrice kernel.Money
}

// NewItem creates a line item not yet attached to an order. NewOrder binds it.
func NewItem(productID kernel.UUID, variant string, quantity int, unitPrice kernel.Money) (*Item, error) {
	item := &Item{id: kernel.NewUUID()}
	if err := errors.Join(
		item.setProduct(productID),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
	); err != nil {
		return nil, err
	}
	item.variant = strings.TrimSpace(variant)
	return item, nil
}

// RestoreItem rebuilds a stored line item.
func RestoreItem(id, orderID, productID kernel.UUID, variant string, quantity int, unitPrice kernel.Money) (*Item, error) {
	item := &Item{variant: variant}
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		item.setProduct(productID),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
	); err != nil {
		return nil, err
	}
	item.id, item.orderID = id, orderID
	return item, nil
}

func (i *Item) ID() kernel.UUID         { return i.id }
func (i *Item) OrderID() kernel.UUID    { return i.orderID }
func (i *Item) ProductID() kernel.UUID  { return i.productID }
func (i *Item) Variant() string         { return i.variant }
func (i *Item) Quantity() int           { return i.quantity }
func (i *Item) UnitPrice() kernel.Money { return i.unitPrice }
func (i *Item) LineTotal() kernel.Money { return i.unitPrice.Times(i.quantity) }

func (i *Item) setProduct(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("productId", err)
	}
	i.productID = productID
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity < 1 || quantity > MaxItemQuantity {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, MaxItemQuantity)
	}
	i.quantity = quantity
	return nil
}

func (i *Item) setUnitPrice(price kernel.Money) error {
	if err := price.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("unitPrice", err)
	}
	i.unitPrice = price
	return nil
}
