package batch

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const (
	EventCreated           = "batch.created"
	EventStatusChanged     = "batch.status_changed"
	EventItemStatusChanged = "batch.item_status_changed"
	EventAssigned          = "batch.assigned"
)

// ErrBatchIsNotConstructed is returned when a Batch was not created through
// NewBatch or RestoreBatch.
var ErrBatchIsNotConstructed = errors.New("Batch must be created via NewBatch constructor")

// Batch is the aggregate root of a production run.
//
// Invariants:
//   - every item references an order owned by the batch kitchen
//   - startedAt is set once the batch leaves pending
//   - completedAt is set exactly when the batch is completed
//   - a completed batch has no open items; items cancelled before completion
//     stay cancelled
//   - a cancelled batch has only cancelled items
type Batch struct {
	kernel.EventRecorder

	id                  kernel.UUID
	name                string
	kitchenID           kernel.UUID
	status              Status
	priority            kernel.Priority
	creatorID           kernel.UUID
	assigneeID          *kernel.UUID
	items               []*Item
	notes               string
	createdAt           time.Time
	updatedAt           time.Time
	startedAt           *time.Time
	completedAt         *time.Time
	estimatedCompletion *time.Time

	guard guard.ConstructorGuard
}

// NewBatch creates a pending batch of kitchenID holding one item per order
// line of orders. Every order must belong to the kitchen and be received or
// preparing, and no order may be listed twice; otherwise an
// InvalidOrderSetError names the first offender and nothing is created.
//
// The orders themselves are not modified. Moving them to preparing is part of
// the same unit of work and is done by the caller.
func NewBatch(
	name string,
	kitchenID kernel.UUID,
	orders []*order.Order,
	priority kernel.Priority,
	notes string,
	creatorID kernel.UUID,
) (*Batch, error) {
	now := time.Now().UTC()
	b := &Batch{
		id:        kernel.NewUUID(),
		status:    Pending,
		notes:     strings.TrimSpace(notes),
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}
	if err := errors.Join(
		b.setName(name),
		b.setKitchen(kitchenID),
		b.setPriority(priority),
		b.setCreator(creatorID),
	); err != nil {
		return nil, err
	}
	if err := b.explode(orders); err != nil {
		return nil, err
	}

	b.raise(EventCreated, map[string]any{
		"name":     b.name,
		"status":   b.status.String(),
		"priority": b.priority.String(),
		"orders":   idStrings(b.OrderIDs()),
		"items":    len(b.items),
	})
	return b, nil
}

func (b *Batch) explode(orders []*order.Order) error {
	if len(orders) == 0 {
		return errs.NewInvalidOrderSetError("", "no orders supplied")
	}
	seen := make(map[kernel.UUID]struct{}, len(orders))
	for _, o := range orders {
		if _, dup := seen[o.ID()]; dup {
			return errs.NewInvalidOrderSetError(o.ID().String(), "is listed more than once")
		}
		seen[o.ID()] = struct{}{}

		if !o.KitchenID().IsEqual(b.kitchenID) {
			return errs.NewInvalidOrderSetError(o.ID().String(), "belongs to another kitchen")
		}
		if !o.Status().IsBatchable() {
			return errs.NewInvalidOrderSetError(o.ID().String(),
				fmt.Sprintf("is %s, expected received or preparing", o.Status()))
		}
		for _, line := range o.Items() {
			b.items = append(b.items, &Item{
				id:          kernel.NewUUID(),
				batchID:     b.id,
				orderID:     o.ID(),
				orderItemID: line.ID(),
				productID:   line.ProductID(),
				variant:     line.Variant(),
				quantity:    line.Quantity(),
				status:      Pending,
			})
		}
	}
	return nil
}

// State is the persisted form of a batch consumed by RestoreBatch.
type State struct {
	ID                  kernel.UUID
	Name                string
	KitchenID           kernel.UUID
	Status              Status
	Priority            kernel.Priority
	CreatorID           kernel.UUID
	AssigneeID          *kernel.UUID
	Items               []ItemState
	Notes               string
	CreatedAt           time.Time
	UpdatedAt           time.Time
	StartedAt           *time.Time
	CompletedAt         *time.Time
	EstimatedCompletion *time.Time
}

// RestoreBatch rebuilds a batch from storage without raising events.
func RestoreBatch(s State) (*Batch, error) {
	b := &Batch{
		assigneeID:          s.AssigneeID,
		notes:               s.Notes,
		createdAt:           s.CreatedAt,
		updatedAt:           s.UpdatedAt,
		startedAt:           s.StartedAt,
		completedAt:         s.CompletedAt,
		estimatedCompletion: s.EstimatedCompletion,
		guard:               guard.NewConstructorGuard(),
	}
	if err := errors.Join(
		b.setID(s.ID),
		b.setName(s.Name),
		b.setKitchen(s.KitchenID),
		b.setPriority(s.Priority),
		b.setCreator(s.CreatorID),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}
	b.status = s.Status

	b.items = make([]*Item, 0, len(s.Items))
	for _, is := range s.Items {
		if err := is.Status.Validate(); err != nil {
			return nil, err
		}
		b.items = append(b.items, &Item{
			id:          is.ID,
			batchID:     b.id,
			orderID:     is.OrderID,
			orderItemID: is.OrderItemID,
			productID:   is.ProductID,
			variant:     is.Variant,
			quantity:    is.Quantity,
			status:      is.Status,
			completedAt: is.CompletedAt,
		})
	}
	return b, nil
}

func (b *Batch) Validate() error {
	if b == nil {
		return ErrBatchIsNotConstructed
	}
	return b.guard.Validate(ErrBatchIsNotConstructed)
}

func (b *Batch) ID() kernel.UUID                 { return b.id }
func (b *Batch) Name() string                    { return b.name }
func (b *Batch) KitchenID() kernel.UUID          { return b.kitchenID }
func (b *Batch) Status() Status                  { return b.status }
func (b *Batch) Priority() kernel.Priority       { return b.priority }
func (b *Batch) CreatorID() kernel.UUID          { return b.creatorID }
func (b *Batch) AssigneeID() *kernel.UUID        { return b.assigneeID }
func (b *Batch) Notes() string                   { return b.notes }
func (b *Batch) CreatedAt() time.Time            { return b.createdAt }
func (b *Batch) UpdatedAt() time.Time            { return b.updatedAt }
func (b *Batch) StartedAt() *time.Time           { return b.startedAt }
func (b *Batch) CompletedAt() *time.Time         { return b.completedAt }
func (b *Batch) EstimatedCompletion() *time.Time { return b.estimatedCompletion }

// Items returns the batch items in creation order.
func (b *Batch) Items() []*Item {
	return append([]*Item(nil), b.items...)
}

// Item looks up an item of this batch.
func (b *Batch) Item(itemID kernel.UUID) (*Item, bool) {
	for _, item := range b.items {
		if item.id.IsEqual(itemID) {
			return item, true
		}
	}
	return nil, false
}

// OrderIDs returns the distinct source orders in first-seen order.
func (b *Batch) OrderIDs() []kernel.UUID {
	seen := make(map[kernel.UUID]struct{})
	ids := make([]kernel.UUID, 0)
	for _, item := range b.items {
		if _, ok := seen[item.orderID]; ok {
			continue
		}
		seen[item.orderID] = struct{}{}
		ids = append(ids, item.orderID)
	}
	return ids
}

// IsComplete reports whether every item is completed.
func (b *Batch) IsComplete() bool {
	if len(b.items) == 0 {
		return false
	}
	for _, item := range b.items {
		if item.status != Completed {
			return false
		}
	}
	return true
}

// ChangeStatus applies a requested batch transition. Completing a batch
// completes every open item and leaves cancelled items as they are.
// Cancelling delegates to Cancel without a reason.
func (b *Batch) ChangeStatus(next Status) error {
	if next == Cancelled {
		return b.Cancel("")
	}
	if err := b.status.transition(next); err != nil {
		return err
	}

	now := time.Now().UTC()
	if next == Completed {
		for _, item := range b.items {
			if item.status.IsOpen() {
				item.force(Completed, now)
			}
		}
	}
	b.moveTo(next, now, "")
	return nil
}

// UpdateItemStatus moves one item. The first item to make progress, whether
// it starts or completes, starts a pending batch; the last item to complete
// completes the batch, in which case the returned flag is true and the
// caller must cascade the source orders to ready.
func (b *Batch) UpdateItemStatus(itemID kernel.UUID, next Status) (bool, error) {
	item, ok := b.Item(itemID)
	if !ok {
		return false, errs.NewObjectNotFoundError("itemId", itemID)
	}

	now := time.Now().UTC()
	previous := item.status
	if err := item.moveTo(next, now); err != nil {
		return false, err
	}
	b.updatedAt = now
	b.raise(EventItemStatusChanged, map[string]any{
		"itemId":  item.id.String(),
		"orderId": item.orderID.String(),
		"from":    previous.String(),
		"to":      next.String(),
	})

	if b.status == Pending && (next == InProgress || next == Completed) {
		b.moveTo(InProgress, now, "item_started")
	}
	if b.status == InProgress && b.IsComplete() {
		b.moveTo(Completed, now, "all_items_completed")
		return true, nil
	}
	return false, nil
}

// Cancel aborts the batch: every item is cancelled and reason is appended to
// the notes. The caller requeues the source orders.
func (b *Batch) Cancel(reason string) error {
	if err := b.status.transition(Cancelled); err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, item := range b.items {
		item.force(Cancelled, now)
	}
	if reason = strings.TrimSpace(reason); reason != "" {
		line := "Cancelled: " + reason
		if b.notes == "" {
			b.notes = line
		} else {
			b.notes = b.notes + "\n" + line
		}
	}
	b.moveTo(Cancelled, now, reason)
	return nil
}

// AssignTo records the staff member running the batch.
func (b *Batch) AssignTo(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("userId", err)
	}
	if b.status.IsTerminal() {
		return errs.NewInvalidTransitionError("batch", b.status.String(), "assigned")
	}
	b.assigneeID = &userID
	b.updatedAt = time.Now().UTC()
	b.raise(EventAssigned, map[string]any{"assigneeId": userID.String()})
	return nil
}

// SetEstimatedCompletion replaces the ETA. Nil clears it.
func (b *Batch) SetEstimatedCompletion(eta *time.Time) {
	if eta != nil {
		utc := eta.UTC()
		eta = &utc
	}
	b.estimatedCompletion = eta
	b.updatedAt = time.Now().UTC()
}

// SetNotes replaces the free-text notes.
func (b *Batch) SetNotes(notes string) {
	b.notes = strings.TrimSpace(notes)
	b.updatedAt = time.Now().UTC()
}

func (b *Batch) moveTo(next Status, now time.Time, reason string) {
	previous := b.status
	b.status = next
	b.updatedAt = now
	switch next {
	case InProgress:
		if b.startedAt == nil {
			b.startedAt = &now
		}
	case Completed:
		b.completedAt = &now
	}

	payload := map[string]any{
		"from":   previous.String(),
		"to":     next.String(),
		"orders": idStrings(b.OrderIDs()),
	}
	if reason != "" {
		payload["reason"] = reason
	}
	b.raise(EventStatusChanged, payload)
}

func (b *Batch) raise(eventType string, payload map[string]any) {
	b.Record(kernel.NewDomainEvent(eventType, kernel.AggregateBatch, b.id, b.kitchenID, payload))
}

func (b *Batch) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("batchId", err)
	}
	b.id = id
	return nil
}

func (b *Batch) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	b.name = name
	return nil
}

func (b *Batch) setKitchen(kitchenID kernel.UUID) error {
	if err := kitchenID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("kitchenId", err)
	}
	b.kitchenID = kitchenID
	return nil
}

func (b *Batch) setPriority(p kernel.Priority) error {
	if err := p.Validate(); err != nil {
		return err
	}
	b.priority = p
	return nil
}

func (b *Batch) setCreator(creatorID kernel.UUID) error {
	if err := creatorID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("creatorId", err)
	}
	b.creatorID = creatorID
	return nil
}

func idStrings(ids []kernel.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
