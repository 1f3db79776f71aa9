package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const (
	EventRouted        = "order.routed"
	EventStatusChanged = "order.status_changed"
	EventAssigned      = "order.assigned"
)

// ErrOrderIsNotConstructed is returned when an Order was not created through
// NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Customer is the contact snapshot taken at checkout.
type Customer struct {
	Name  string
	Phone string
	Email string
}

// Delivery is the address snapshot taken at checkout.
type Delivery struct {
	AddressLine  string
	City         string
	PostalCode   string
	Instructions string
}

// Order is the aggregate root of the order lifecycle. It is created by the
// router in Received status and afterwards mutated only through its methods.
//
// Order follows these invariants:
//   - kitchenID is set once at routing and never changes
//   - it holds at least one item and its total equals the sum of line totals
//   - status changes follow the transition table of Status
//   - actualCompletion is set exactly when the order reaches Completed
type Order struct {
	kernel.EventRecorder

	id                  kernel.UUID
	number              string
	kitchenID           kernel.UUID
	customer            Customer
	delivery            Delivery
	items               []*Item
	total               kernel.Money
	status              Status
	priority            kernel.Priority
	assigneeID          *kernel.UUID
	notes               string
	createdAt           time.Time
	updatedAt           time.Time
	estimatedCompletion *time.Time
	actualCompletion    *time.Time

	guard guard.ConstructorGuard
}

// NewOrder creates a Received order owned by kitchenID. Items are bound to the
// new order and the total is computed from their line totals.
//
// Example:
//
//	price, _ := kernel.MoneyFromString("4.50")
//	item, _ := order.NewItem(productID, "vanilla", 2, price)
//	o, err := order.NewOrder(kitchenID, order.Customer{Name: "Ada"},
//	    order.Delivery{AddressLine: "1 Main St", City: "Springfield"},
//	    []*order.Item{item}, kernel.PriorityNormal, "")
func NewOrder(
	kitchenID kernel.UUID,
	customer Customer,
	delivery Delivery,
	items []*Item,
	priority kernel.Priority,
	notes string,
) (*Order, error) {
	now := time.Now().UTC()
	o := &Order{
		id:        kernel.NewUUID(),
		number:    GenerateNumber(now),
		status:    Received,
		notes:     strings.TrimSpace(notes),
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setKitchen(kitchenID),
		o.setCustomer(customer),
		o.setDelivery(delivery),
		o.setItems(items),
		o.setPriority(priority),
	); err != nil {
		return nil, err
	}
	for _, item := range o.items {
		item.orderID = o.id
	}

	o.raise(EventRouted, map[string]any{
		"number":   o.number,
		"status":   o.status.String(),
		"priority": o.priority.String(),
		"total":    o.total.String(),
	})
	return o, nil
}

// State is the persisted form of an order consumed by RestoreOrder.
type State struct {
	ID                  kernel.UUID
	Number              string
	KitchenID           kernel.UUID
	Customer            Customer
	Delivery            Delivery
	Items               []*Item
	Status              Status
	Priority            kernel.Priority
	AssigneeID          *kernel.UUID
	Notes               string
	CreatedAt           time.Time
	UpdatedAt           time.Time
	EstimatedCompletion *time.Time
	ActualCompletion    *time.Time
}

// RestoreOrder rebuilds an order from storage without raising events.
func RestoreOrder(s State) (*Order, error) {
	o := &Order{
		number:              s.Number,
		customer:            s.Customer,
		delivery:            s.Delivery,
		assigneeID:          s.AssigneeID,
		notes:               s.Notes,
		createdAt:           s.CreatedAt,
		updatedAt:           s.UpdatedAt,
		estimatedCompletion: s.EstimatedCompletion,
		actualCompletion:    s.ActualCompletion,
		guard:               guard.NewConstructorGuard(),
	}
	if err := errors.Join(
		o.setID(s.ID),
		o.setKitchen(s.KitchenID),
		o.setPriority(s.Priority),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}
	o.status = s.Status
	o.items = append([]*Item(nil), s.Items...)
	o.total = sumLineTotals(o.items)
	return o, nil
}

// GenerateNumber returns a human readable order number such as
// ORD-20261019-4F2A9C.
func GenerateNumber(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(kernel.NewUUID().String(), "-", "")[:6])
	return fmt.Sprintf("ORD-%s-%s", at.UTC().Format("20060102"), suffix)
}

func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID                 { return o.id }
func (o *Order) Number() string                  { return o.number }
func (o *Order) KitchenID() kernel.UUID          { return o.kitchenID }
func (o *Order) Customer() Customer              { return o.customer }
func (o *Order) Delivery() Delivery              { return o.delivery }
func (o *Order) Total() kernel.Money             { return o.total }
func (o *Order) Status() Status                  { return o.status }
func (o *Order) Priority() kernel.Priority       { return o.priority }
func (o *Order) AssigneeID() *kernel.UUID        { return o.assigneeID }
func (o *Order) Notes() string                   { return o.notes }
func (o *Order) CreatedAt() time.Time            { return o.createdAt }
func (o *Order) UpdatedAt() time.Time            { return o.updatedAt }
func (o *Order) EstimatedCompletion() *time.Time { return o.estimatedCompletion }
func (o *Order) ActualCompletion() *time.Time    { return o.actualCompletion }

// Items returns the line items in insertion order.
func (o *Order) Items() []*Item {
	return append([]*Item(nil), o.items...)
}

// ChangeStatus applies a caller requested transition. inOpenBatch tells
// whether the order is referenced by a pending or in-progress batch; such
// orders only become ready through MarkReadyFromBatch.
func (o *Order) ChangeStatus(next Status, inOpenBatch bool) error {
	if next == Ready && inOpenBatch {
		return errs.NewInvalidTransitionError("order", o.status.String(), next.String())
	}
	newStatus, err := o.status.TransitionTo(next)
	if err != nil {
		return err
	}
	o.moveTo(newStatus, "")
	return nil
}

// SetEstimatedCompletion replaces the ETA. Nil clears it.
func (o *Order) SetEstimatedCompletion(eta *time.Time) {
	if eta != nil {
		utc := eta.UTC()
		eta = &utc
	}
	o.estimatedCompletion = eta
	o.updatedAt = time.Now().UTC()
}

// SetNotes replaces the free-text notes.
func (o *Order) SetNotes(notes string) {
	o.notes = strings.TrimSpace(notes)
	o.updatedAt = time.Now().UTC()
}

// AssignTo records the staff member responsible for the order. Whether that
// user may work in the kitchen is checked by the caller.
func (o *Order) AssignTo(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("userId", err)
	}
	if o.status.IsTerminal() {
		return errs.NewInvalidTransitionError("order", o.status.String(), "assigned")
	}
	o.assigneeID = &userID
	o.updatedAt = time.Now().UTC()
	o.raise(EventAssigned, map[string]any{"assigneeId": userID.String()})
	return nil
}

// MarkPreparing moves a received order into production when a batch is
// created. An order already preparing is left as is.
func (o *Order) MarkPreparing() error {
	switch o.status {
	case Preparing:
		return nil
	case Received:
		o.moveTo(Preparing, "batch_created")
		return nil
	default:
		return errs.NewInvalidTransitionError("order", o.status.String(), Preparing.String())
	}
}

// MarkReadyFromBatch is the completion cascade edge. Cancelled orders are
// skipped.
func (o *Order) MarkReadyFromBatch() error {
	switch o.status {
	case Cancelled:
		return nil
	case Preparing, Packing:
		o.moveTo(Ready, "batch_completed")
		return nil
	default:
		return errs.NewInvalidTransitionError("order", o.status.String(), Ready.String())
	}
}

// Requeue is the cancel compensation edge: the order re-enters the routable
// pool. Cancelled orders are skipped.
func (o *Order) Requeue() error {
	switch o.status {
	case Cancelled, Received:
		return nil
	case Preparing, Packing:
		o.moveTo(Received, "batch_cancelled")
		return nil
	default:
		return errs.NewInvalidTransitionError("order", o.status.String(), Received.String())
	}
}

func (o *Order) moveTo(next Status, reason string) {
	previous := o.status
	now := time.Now().UTC()
	o.status = next
	o.updatedAt = now
	if next == Completed {
		o.actualCompletion = &now
	}

	payload := map[string]any{
		"number": o.number,
		"from":   previous.String(),
		"to":     next.String(),
	}
	if reason != "" {
		payload["reason"] = reason
	}
	o.raise(EventStatusChanged, payload)
}

func (o *Order) raise(eventType string, payload map[string]any) {
	o.Record(kernel.NewDomainEvent(eventType, kernel.AggregateOrder, o.id, o.kitchenID, payload))
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	o.id = id
	return nil
}

func (o *Order) setKitchen(kitchenID kernel.UUID) error {
	if err := kitchenID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("kitchenId", err)
	}
	o.kitchenID = kitchenID
	return nil
}

func (o *Order) setCustomer(c Customer) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = strings.TrimSpace(c.Email)
	if c.Name == "" {
		return errs.NewValueIsRequiredError("customerName")
	}
	if c.Phone == "" && c.Email == "" {
		return errs.NewValueIsRequiredError("customerContact")
	}
	o.customer = c
	return nil
}

func (o *Order) setDelivery(d Delivery) error {
	d.AddressLine = strings.TrimSpace(d.AddressLine)
	d.City = strings.TrimSpace(d.City)
	if d.AddressLine == "" || d.City == "" {
		return errs.NewValueIsRequiredError("deliveryAddress")
	}
	o.delivery = d
	return nil
}

func (o *Order) setItems(items []*Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if item == nil {
			return errs.NewValueIsInvalidError("items")
		}
	}
	o.items = append([]*Item(nil), items...)
	o.total = sumLineTotals(o.items)
	return nil
}

func (o *Order) setPriority(p kernel.Priority) error {
	if err := p.Validate(); err != nil {
		return err
	}
	o.priority = p
	return nil
}

func sumLineTotals(items []*Item) kernel.Money {
	total := kernel.ZeroMoney()
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}
