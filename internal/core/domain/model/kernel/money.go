package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrMoneyIsNotConstructed is returned by Validate on a zero value Money.
var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError("Money must be created via NewMoney or MoneyFromString")

// Money is a non-negative amount in the store currency with two decimal
// places. Unit prices, line totals and order totals use it.
type Money struct {
	amount        decimal.Decimal
	isConstructed bool
}

// ZeroMoney returns a constructed zero amount.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero, isConstructed: true}
}

// NewMoney wraps amount, rounded half away from zero to cents.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%s is negative", amount.String()))
	}
	return Money{amount: amount.Round(2), isConstructed: true}, nil
}

// MoneyFromString parses a decimal string such as "12.50".
func MoneyFromString(s string) (Money, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(amount)
}

// Amount returns the decimal value.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Add returns the sum of both amounts.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount), isConstructed: true}
}

// Times returns the amount multiplied by quantity. Line totals are computed
// with it.
func (m Money) Times(quantity int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity))), isConstructed: true}
}

// IsEqual compares amounts numerically, so 1.5 equals 1.50.
func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String renders the amount with exactly two decimals.
func (m Money) String() string {
	return m.amount.StringFixed(2)
}

// Validate returns ErrMoneyIsNotConstructed for the zero value.
func (m Money) Validate() error {
	if !m.isConstructed {
		return ErrMoneyIsNotConstructed
	}
	return nil
}
