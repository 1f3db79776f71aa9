package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Activity tags kitchens, zones and roles as Active or Inactive. Inactive
// entities are kept for history and excluded from routing, capacity and
// permission computations.
type Activity int

const (
	ActivityUnknown Activity = iota
	Active
	Inactive
)

// ParseActivity maps "active" and "inactive" to their tags.
func ParseActivity(s string) (Activity, error) {
	switch s {
	case "active":
		return Active, nil
	case "inactive":
		return Inactive, nil
	default:
		return ActivityUnknown, errs.NewValueIsInvalidErrorWithCause("activity",
			fmt.Errorf("%q is neither active nor inactive", s))
	}
}

// ActivityOf converts a boolean active column.
func ActivityOf(active bool) Activity {
	if active {
		return Active
	}
	return Inactive
}

func (a Activity) IsActive() bool {
	return a == Active
}

func (a Activity) String() string {
	switch a {
	case Active:
		return "active"
	case Inactive:
		return "inactive"
	default:
		return "unknown"
	}
}

func (a Activity) Validate() error {
	if a != Active && a != Inactive {
		return errs.NewValueIsInvalidErrorWithCause("activity", fmt.Errorf("%d is not a valid activity", a))
	}
	return nil
}
