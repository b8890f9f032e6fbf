package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// minorUnitsPerMajor is the number of minor units (cents) in one major currency unit.
const minorUnitsPerMajor = 100

// loyaltyDivisor is the amount of major currency units that earns one loyalty point.
const loyaltyDivisor = 100

// Money is a value object representing a monetary amount in integer minor units
// (cents). Keeping amounts in integers avoids floating-point rounding in order
// totals and loyalty computations.
//
// Money is immutable: arithmetic methods return new values. The zero value is a
// valid amount of zero.
//
// Example usage:
//
//	price, _ := kernel.NewMoney(1995) // 19.95
//	total := price.MultiplyQty(3)     // 59.85
type Money struct {
	cents int64
}

// NewMoney creates a Money value from an amount in minor units.
// Negative amounts are rejected: the domain has no concept of negative prices
// or totals.
func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"money amount",
			fmt.Errorf("%d is negative", cents),
		)
	}
	return Money{cents: cents}, nil
}

// Zero returns a zero monetary amount.
func Zero() Money {
	return Money{}
}

// Cents returns the amount in minor units.
func (m Money) Cents() int64 {
	return m.cents
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// MultiplyQty returns the amount multiplied by a non-negative item quantity.
func (m Money) MultiplyQty(qty int) Money {
	return Money{cents: m.cents * int64(qty)}
}

// LoyaltyPoints returns the loyalty points earned by this amount:
// one point per 100 major currency units, rounded down.
func (m Money) LoyaltyPoints() int64 {
	return m.cents / (minorUnitsPerMajor * loyaltyDivisor)
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.cents == 0
}

// IsEqual compares two amounts for equality.
func (m Money) IsEqual(other Money) bool {
	return m.cents == other.cents
}

// String returns the amount formatted with two decimal places, e.g. "19.95".
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/minorUnitsPerMajor, m.cents%minorUnitsPerMajor)
}
