// Package kernel provides the shared value objects of the fulfillment domain.
//
// The package includes:
//   - UUID: identifier value object used by every aggregate
//   - Money: non-negative decimal amount used for prices and order totals
//   - Priority: low, normal, high and urgent, shared by orders and batches
//   - Activity: the Active | Inactive tag carried by kitchens, zones and roles
//   - DomainEvent and EventRecorder: status change notifications raised by
//     aggregates and flushed to the outbox by the unit of work
//
// All value objects are immutable and safe for concurrent use.
package kernel
