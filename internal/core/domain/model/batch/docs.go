// Package batch contains the Batch aggregate: a production run grouping the
// line items of several orders of one kitchen.
//
// A batch owns one Item per source order line. Item progress drives the batch:
// the first item that starts moves a pending batch to in_progress, and when
// every item is completed the batch completes. Completing or cancelling a
// batch is reported to the caller so that the source orders can be moved in
// the same transaction (see services.ProductionCoordinator).
package batch
