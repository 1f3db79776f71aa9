package queries

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm/clause"
)

// MaxSearchTermLength bounds TextSearch terms.
const MaxSearchTermLength = 100

// OrderPredicate is one filter of a kitchen order listing. The set of
// predicates is closed: StatusIn, PriorityIn, AssignedTo, DateRange and
// TextSearch. Each translates to a parameterized clause; no caller text is
// ever spliced into SQL.
type OrderPredicate interface {
	validate() error
	expression() clause.Expression
}

// StatusIn keeps orders in any of the listed statuses.
type StatusIn []order.Status

// PriorityIn keeps orders of any of the listed priorities.
type PriorityIn []kernel.Priority

// AssignedTo keeps orders assigned to one staff member.
type AssignedTo struct {
	UserID kernel.UUID
}

// DateRange keeps orders created in [From, To). Either bound may be nil.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// TextSearch matches the order number, customer name or customer phone,
// case-insensitively, as a substring.
type TextSearch struct {
	Term string
}

func column(name string) clause.Column {
	return clause.Column{Table: "o", Name: name}
}

func (p StatusIn) validate() error {
	if len(p) == 0 {
		return errs.NewValueIsRequiredError("status")
	}
	for _, s := range p {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (p StatusIn) expression() clause.Expression {
	values := make([]any, len(p))
	for i, s := range p {
		values[i] = int(s)
	}
	return clause.IN{Column: column("status"), Values: values}
}

func (p PriorityIn) validate() error {
	if len(p) == 0 {
		return errs.NewValueIsRequiredError("priority")
	}
	for _, pr := range p {
		if err := pr.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (p PriorityIn) expression() clause.Expression {
	values := make([]any, len(p))
	for i, pr := range p {
		values[i] = int(pr)
	}
	return clause.IN{Column: column("priority"), Values: values}
}

func (p AssignedTo) validate() error {
	if err := p.UserID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("assigneeId", err)
	}
	return nil
}

func (p AssignedTo) expression() clause.Expression {
	return clause.Eq{Column: column("assignee_id"), Value: p.UserID.Bytes()}
}

func (p DateRange) validate() error {
	if p.From == nil && p.To == nil {
		return errs.NewValueIsRequiredError("dateRange")
	}
	if p.From != nil && p.To != nil && !p.From.Before(*p.To) {
		return errs.NewValueIsInvalidErrorWithCause("dateRange", errors.New("from must be before to"))
	}
	return nil
}

func (p DateRange) expression() clause.Expression {
	exprs := make([]clause.Expression, 0, 2)
	if p.From != nil {
		exprs = append(exprs, clause.Gte{Column: column("created_at"), Value: p.From.UTC()})
	}
	if p.To != nil {
		exprs = append(exprs, clause.Lt{Column: column("created_at"), Value: p.To.UTC()})
	}
	return clause.And(exprs...)
}

func (p TextSearch) validate() error {
	term := strings.TrimSpace(p.Term)
	if term == "" {
		return errs.NewValueIsRequiredError("search")
	}
	if len(term) > MaxSearchTermLength {
		return errs.NewValueIsOutOfRangeError("search", len(term), 1, MaxSearchTermLength)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (p TextSearch) expression() clause.Expression {
	pattern := "%" + likeEscaper.Replace(strings.TrimSpace(p.Term)) + "%"
	exprs := make([]clause.Expression, 0, 3)
	for _, name := range []string{"number", "customer_name", "customer_phone"} {
		exprs = append(exprs, clause.Expr{
			SQL:  `? ILIKE ? ESCAPE '\'`,
			Vars: []any{column(name), pattern},
		})
	}
	return clause.Or(exprs...)
}

// OrderFilter is a validated conjunction of predicates.
type OrderFilter struct {
	predicates []OrderPredicate
}

// NewOrderFilter validates every predicate. Nil predicates are ignored and
// an empty filter matches every order of the kitchen.
func NewOrderFilter(predicates ...OrderPredicate) (OrderFilter, error) {
	kept := make([]OrderPredicate, 0, len(predicates))
	var invalid []error
	for i, p := range predicates {
		if p == nil {
			continue
		}
		if err := p.validate(); err != nil {
			invalid = append(invalid, fmt.Errorf("filter %d: %w", i, err))
			continue
		}
		kept = append(kept, p)
	}
	if err := errors.Join(invalid...); err != nil {
		return OrderFilter{}, err
	}
	return OrderFilter{predicates: kept}, nil
}

// Len returns the number of predicates.
func (f OrderFilter) Len() int {
	return len(f.predicates)
}

// Predicates returns the validated predicates, in order.
func (f OrderFilter) Predicates() []OrderPredicate {
	return f.predicates
}

// Expressions returns the clause of each predicate, in order.
func (f OrderFilter) Expressions() []clause.Expression {
	out := make([]clause.Expression, len(f.predicates))
	for i, p := range f.predicates {
		out[i] = p.expression()
	}
	return out
}
