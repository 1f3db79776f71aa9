package kernel

import "time"

// Aggregate types carried by domain events.
const (
	AggregateKitchen = "kitchen"
	AggregateOrder   = "order"
	AggregateBatch   = "batch"
)

// DomainEvent describes a state change of an aggregate. The unit of work
// persists every raised event to the outbox in the transaction that produced
// it; relays then deliver it to subscribers.
type DomainEvent struct {
	ID            UUID
	Type          string
	AggregateType string
	AggregateID   UUID
	KitchenID     UUID
	OccurredAt    time.Time
	Payload       map[string]any
}

// NewDomainEvent stamps a fresh id and the current UTC time.
func NewDomainEvent(eventType, aggregateType string, aggregateID, kitchenID UUID, payload map[string]any) DomainEvent {
	return DomainEvent{
		ID:            NewUUID(),
		Type:          eventType,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		KitchenID:     kitchenID,
		OccurredAt:    time.Now().UTC(),
		Payload:       payload,
	}
}

// EventSource is implemented by aggregates that raise domain events.
type EventSource interface {
	DomainEvents() []DomainEvent
	ClearDomainEvents()
}

// EventRecorder is embedded by aggregates to collect raised events until the
// unit of work drains them.
type EventRecorder struct {
	events []DomainEvent
}

// Record appends an event.
func (r *EventRecorder) Record(event DomainEvent) {
	r.events = append(r.events, event)
}

// DomainEvents returns a copy of the pending events.
func (r *EventRecorder) DomainEvents() []DomainEvent {
	out := make([]DomainEvent, len(r.events))
	copy(out, r.events)
	return out
}

// ClearDomainEvents drops pending events.
func (r *EventRecorder) ClearDomainEvents() {
	r.events = nil
}
