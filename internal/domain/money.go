package domain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Cents is an amount in minor currency units. All settlement arithmetic runs on
// Cents; decimal.Decimal is only used at the edges (JSON, SQL NUMERIC).
type Cents int64

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(math.MinInt64)
)

// ToCents converts a decimal amount into minor units. Amounts carrying more than
// two decimal places are rejected rather than rounded.
func ToCents(d decimal.Decimal) (Cents, error) {
	scaled := d.Mul(hundred)
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("amount %s has sub-cent precision", d.String())
	}
	if scaled.GreaterThan(maxCents) || scaled.LessThan(minCents) {
		return 0, fmt.Errorf("amount %s out of range", d.String())
	}
	return Cents(scaled.IntPart()), nil
}

// Decimal converts back to a two-place decimal.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}

func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// PercentOf returns round_half_up(c * percent / 100) in minor units.
func (c Cents) PercentOf(percent decimal.Decimal) Cents {
	return Cents(decimal.NewFromInt(int64(c)).Mul(percent).Div(hundred).Round(0).IntPart())
}
