// Package kitchen contains the Kitchen aggregate and the Zone entity of the
// kitchen registry.
//
// A kitchen is a production site with a configured capacity: the maximum
// number of orders it may hold in received, preparing or packing at once. It
// is linked to one or more zones, exactly one of them primary while the
// kitchen is active. Kitchens are never deleted; Deactivate tags them
// Inactive and deactivates their zone links so that routing and access
// assignment skip them by construction.
package kitchen
