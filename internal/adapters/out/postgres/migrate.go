package postgres

import (
	"fulfillment/internal/adapters/out/postgres/accessrepo"
	"fulfillment/internal/adapters/out/postgres/batchrepo"
	"fulfillment/internal/adapters/out/postgres/kitchenrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/outboxrepo"

	"gorm.io/gorm"
)

// Models lists every table of the service in creation order.
func Models() []any {
	return []any{
		&kitchenrepo.ZoneDTO{},
		&kitchenrepo.KitchenDTO{},
		&kitchenrepo.KitchenZoneDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&batchrepo.BatchDTO{},
		&batchrepo.ItemDTO{},
		&accessrepo.RoleDTO{},
		&accessrepo.PermissionDTO{},
		&accessrepo.AssignmentDTO{},
		&outboxrepo.MessageDTO{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// Truncate empties every table. Intended for test suites.
func Truncate(db *gorm.DB) error {
	return db.Exec(`TRUNCATE TABLE zones, kitchens, kitchen_zones, orders, order_items,
		batches, batch_items, roles, role_permissions, staff_assignments, outbox_events`).Error
}
