package access

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Permission is a (name, value) pair granted by a role, rendered as
// "name:value".
type Permission struct {
	Name  string
	Value string
}

// Permission catalogue checked by the lifecycle managers.
var (
	OrdersView    = Permission{Name: "orders", Value: "view"}
	OrdersUpdate  = Permission{Name: "orders", Value: "update"}
	OrdersAssign  = Permission{Name: "orders", Value: "assign"}
	BatchesView   = Permission{Name: "batches", Value: "view"}
	BatchesCreate = Permission{Name: "batches", Value: "create"}
	BatchesUpdate = Permission{Name: "batches", Value: "update"}
	BatchesAssign = Permission{Name: "batches", Value: "assign"}
	BatchesCancel = Permission{Name: "batches", Value: "cancel"}
	AccessManage  = Permission{Name: "access", Value: "manage"}
)

// Catalogue lists every known permission.
func Catalogue() []Permission {
	return []Permission{
		OrdersView, OrdersUpdate, OrdersAssign,
		BatchesView, BatchesCreate, BatchesUpdate, BatchesAssign, BatchesCancel,
		AccessManage,
	}
}

// ParsePermission parses "name:value". Both parts are required; membership in
// the catalogue is not checked so that roles may carry extra grants.
func ParsePermission(s string) (Permission, error) {
	name, value, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || name == "" || value == "" {
		return Permission{}, errs.NewValueIsInvalidErrorWithCause("permission",
			fmt.Errorf("%q is not of the form name:value", s))
	}
	return Permission{Name: name, Value: value}, nil
}

func (p Permission) String() string {
	return p.Name + ":" + p.Value
}
