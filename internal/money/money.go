// Package money provides the minor-unit currency type used by the ledger.
//
// Amounts are carried as an integer count of cents so that splitting and
// balance folding stay exact. Conversions to and from decimals go through
// shopspring/decimal, never through float64.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Cents is a signed amount expressed in minor currency units.
type Cents int64

// Epsilon is the comparison tolerance for currency values: one minor unit.
const Epsilon Cents = 1

// EpsilonDecimal is Epsilon expressed in currency units (0.01).
var EpsilonDecimal = decimal.New(1, -2)

// MaxAmount bounds the magnitude of any single amount accepted from outside
// (one trillion currency units). Folding up to ~92k such amounts still fits
// in int64.
const MaxAmount Cents = 100_000_000_000_000

var maxAmountDecimal = decimal.NewFromInt(int64(MaxAmount))

var ErrInvalidAmount = errors.New("invalid amount")

// FromDecimal converts a currency value to cents, rounding half away from
// zero on the third decimal place. Values beyond MaxAmount in either
// direction return ErrInvalidAmount.
func FromDecimal(d decimal.Decimal) (Cents, error) {
	c := d.Round(2).Shift(2)
	if c.Abs().GreaterThan(maxAmountDecimal) {
		return 0, ErrInvalidAmount
	}
	return Cents(c.IntPart()), nil
}

// Parse converts a decimal string to cents.
//
// Both dot (12.34) and comma (12,34) separators are accepted. Unlike
// ParsePositive it allows zero and negative values, which makes it usable
// for balances.
func Parse(s string) (Cents, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return FromDecimal(d)
}

// ParsePositive is Parse restricted to amounts of at least one cent.
func ParsePositive(s string) (Cents, error) {
	c, err := Parse(s)
	if err != nil {
		return 0, err
	}
	if c <= 0 {
		return 0, ErrInvalidAmount
	}
	return c, nil
}

// Decimal returns the value in currency units with two decimal places.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// Float64 is meant for display and charts only.
func (c Cents) Float64() float64 {
	f, _ := c.Decimal().Float64()
	return f
}

// Abs returns the magnitude of c.
func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}

// DivRound divides c by n and rounds the quotient to the nearest cent.
// Division by zero yields zero.
func (c Cents) DivRound(n int) Cents {
	if n == 0 {
		return 0
	}
	return Cents(c.Decimal().Div(decimal.NewFromInt(int64(n))).Round(2).Shift(2).IntPart())
}

// String renders the amount with two decimals, for logs.
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// MarshalJSON encodes the amount as a bare JSON number with two decimals.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.Decimal().StringFixed(2)), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (c *Cents) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return ErrInvalidAmount
	}
	v, err := FromDecimal(d)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Sum adds up amounts.
func Sum(amounts ...Cents) Cents {
	var total Cents
	for _, a := range amounts {
		total += a
	}
	return total
}
