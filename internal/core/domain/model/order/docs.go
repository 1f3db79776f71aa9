// Package order provides the Order aggregate of the fulfillment core and the
// lifecycle state machine that governs it.
//
// The package includes:
//   - Order: the aggregate root holding the customer and delivery snapshots,
//     the immutable line items, the owning kitchen and the lifecycle status
//   - Item: one immutable line item with its computed line total
//   - Status: the lifecycle states and the transition table
//
// Key business rules:
//   - Orders move received -> preparing -> packing -> ready -> dispatched -> completed
//   - Any non-terminal order may be cancelled; completed and cancelled are terminal
//   - Self transitions are rejected
//   - ready is not accepted from a caller while the order sits in an open batch;
//     the batch completion cascade sets it through MarkReadyFromBatch
//   - The owning kitchen never changes after routing
package order
