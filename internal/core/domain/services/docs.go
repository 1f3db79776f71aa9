// Package services holds the domain services of the fulfillment core: logic
// that spans several aggregates or needs data no single aggregate owns.
//
//   - KitchenSelector picks the kitchen an incoming order is routed to
//   - AccessGate decides whether a staff member may act on a kitchen
//   - ProductionCoordinator keeps orders and the batch containing them in step
//
// Services are stateless apart from configuration and never touch storage;
// command handlers load and lock the aggregates they need and persist the
// result in one unit of work.
package services
