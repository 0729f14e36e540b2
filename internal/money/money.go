package money

import (
	"bytes"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Amount is a currency value in minor units (paise). Arithmetic stays in integers so
// balances never drift.
type Amount int64

const (
	// MinorUnits is the number of decimal places carried by an Amount.
	MinorUnits = 2

	// MaxAmount is the largest amount a single transaction may carry. It is the largest
	// integer a JSON client can represent exactly.
	MaxAmount Amount = 1<<53 - 1
)

// FromMajor converts whole rupees into an Amount.
func FromMajor(units int64) Amount {
	return Amount(units * 100)
}

// FromDecimal converts a major-unit decimal (e.g. 250.50) into an Amount. More than two
// decimal places or a value outside the int64 range is rejected.
func FromDecimal(d decimal.Decimal) (Amount, error) {
	minor := d.Shift(MinorUnits)
	if !minor.IsInteger() {
		return 0, fmt.Errorf("amount %s has more than %d decimal places", d.String(), MinorUnits)
	}
	if minor.GreaterThan(decimal.NewFromInt(math.MaxInt64)) || minor.LessThan(decimal.NewFromInt(math.MinInt64)) {
		return 0, fmt.Errorf("amount %s is out of range", d.String())
	}
	return Amount(minor.IntPart()), nil
}

// Parse reads a major-unit string such as "2850" or "115406.50".
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return FromDecimal(d)
}

func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -MinorUnits)
}

// String renders the amount in major units with two decimals.
func (a Amount) String() string {
	return a.Decimal().StringFixed(MinorUnits)
}

func (a Amount) IsPositive() bool {
	return a > 0
}

// Add returns a+b, failing instead of wrapping around on overflow.
func (a Amount) Add(b Amount) (Amount, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}

// Sub returns a-b, failing instead of wrapping around on overflow.
func (a Amount) Sub(b Amount) (Amount, bool) {
	if b == math.MinInt64 {
		return 0, false
	}
	return a.Add(-b)
}

// MarshalJSON writes the amount as a bare major-unit number, e.g. 250 or 250.5.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal().String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string in major units.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*a = 0
		return nil
	}
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
