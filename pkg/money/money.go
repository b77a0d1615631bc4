package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount is returned for malformed, over-precise or
	// out-of-bound input.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrAmountOverflow is returned when an arithmetic result leaves the
	// configured bound.
	ErrAmountOverflow = errors.New("amount overflow")
)

// Money is an exact signed amount with a fixed number of fractional digits.
// The zero value is a valid zero amount at precision 0.
type Money struct {
	value decimal.Decimal
	prec  int32
}

// Context holds the precision and absolute bound every Money produced by it
// obeys. Contexts are immutable and safe for concurrent use.
type Context struct {
	precision int32
	limit     decimal.Decimal
}

// Default uses currency minor units of two digits and a bound of 10^12.
var Default = MustNewContext(2, "1000000000000")

// NewContext builds a context. maxAbs is an inclusive absolute bound.
func NewContext(precision int32, maxAbs string) (*Context, error) {
	if precision < 0 || precision > 18 {
		return nil, fmt.Errorf("precision %d out of range", precision)
	}
	limit, err := decimal.NewFromString(strings.TrimSpace(maxAbs))
	if err != nil {
		return nil, fmt.Errorf("parse bound %q: %w", maxAbs, err)
	}
	if !limit.IsPositive() {
		return nil, fmt.Errorf("bound must be positive, got %s", maxAbs)
	}
	return &Context{precision: precision, limit: limit}, nil
}

// MustNewContext is NewContext that panics on error.
func MustNewContext(precision int32, maxAbs string) *Context {
	c, err := NewContext(precision, maxAbs)
	if err != nil {
		panic(err)
	}
	return c
}

// Precision returns the number of fractional digits.
func (c *Context) Precision() int32 { return c.precision }

// Zero returns a zero amount at the context precision.
func (c *Context) Zero() Money { return Money{value: decimal.Zero, prec: c.precision} }

// Parse converts a decimal string into Money. Exponent notation, NaN and
// empty strings are rejected, as is any fractional part longer than the
// context precision or a value outside the absolute bound.
func (c *Context) Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "eE") {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if frac := fractionalDigits(s); frac > int(c.precision) {
		return Money{}, fmt.Errorf("%w: %q has %d fractional digits, max %d", ErrInvalidAmount, s, frac, c.precision)
	}
	return c.bounded(d, ErrInvalidAmount)
}

// FromDecimal converts a stored decimal, rejecting values that need more
// fractional digits than the context precision.
func (c *Context) FromDecimal(d decimal.Decimal) (Money, error) {
	if !d.Round(c.precision).Equal(d) {
		return Money{}, fmt.Errorf("%w: %s exceeds precision %d", ErrInvalidAmount, d.String(), c.precision)
	}
	return c.bounded(d.Round(c.precision), ErrInvalidAmount)
}

// ParseStored parses a NUMERIC rendered as text by the database. Trailing
// zeros beyond the precision are accepted.
func (c *Context) ParseStored(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return c.FromDecimal(d)
}

// MustParse is Parse that panics on error. Intended for constants and tests.
func (c *Context) MustParse(s string) Money {
	m, err := c.Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// FromMinorUnits builds an amount from an integer count of minor units.
func (c *Context) FromMinorUnits(units int64) (Money, error) {
	return c.bounded(decimal.New(units, -c.precision), ErrInvalidAmount)
}

// Add returns a+b, failing with ErrAmountOverflow past the bound.
func (c *Context) Add(a, b Money) (Money, error) {
	return c.bounded(a.value.Add(b.value), ErrAmountOverflow)
}

// Sub returns a-b, failing with ErrAmountOverflow past the bound.
func (c *Context) Sub(a, b Money) (Money, error) {
	return c.bounded(a.value.Sub(b.value), ErrAmountOverflow)
}

// Sum adds all values in order.
func (c *Context) Sum(values ...Money) (Money, error) {
	total := c.Zero()
	var err error
	for _, v := range values {
		if total, err = c.Add(total, v); err != nil {
			return Money{}, err
		}
	}
	return total, nil
}

// bounded rejects |d| above the limit with kind: ErrInvalidAmount for input,
// ErrAmountOverflow for arithmetic results.
func (c *Context) bounded(d decimal.Decimal, kind error) (Money, error) {
	if d.Abs().GreaterThan(c.limit) {
		return Money{}, fmt.Errorf("%w: |%s| exceeds %s", kind, d.String(), c.limit.String())
	}
	// Rounding never happens here: inputs are validated to the precision
	// and addition of two values at precision p stays at precision p.
	return Money{value: d, prec: c.precision}, nil
}

func fractionalDigits(s string) int {
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return 0
	}
	return len(s) - i - 1
}

// Neg returns -m.
func (m Money) Neg() Money { return Money{value: m.value.Neg(), prec: m.prec} }

// Abs returns |m|.
func (m Money) Abs() Money { return Money{value: m.value.Abs(), prec: m.prec} }

// Cmp returns -1, 0 or +1.
func (m Money) Cmp(o Money) int { return m.value.Cmp(o.value) }

// Equal reports whether both amounts are numerically equal.
func (m Money) Equal(o Money) bool { return m.value.Equal(o.value) }

func (m Money) IsZero() bool     { return m.value.IsZero() }
func (m Money) IsNegative() bool { return m.value.IsNegative() }
func (m Money) IsPositive() bool { return m.value.IsPositive() }

// LessThan reports m < o.
func (m Money) LessThan(o Money) bool { return m.value.LessThan(o.value) }

// Min returns the smaller of m and o.
func (m Money) Min(o Money) Money {
	if o.LessThan(m) {
		return o
	}
	return m
}

// Decimal exposes the underlying value for storage adapters.
func (m Money) Decimal() decimal.Decimal { return m.value }

// String renders the amount with exactly the context precision, e.g. "100.00".
func (m Money) String() string { return m.value.StringFixed(m.prec) }

// MarshalJSON encodes the amount as a JSON string. There is no decoder:
// precision belongs to a Context, so inbound amounts arrive as strings and
// go through Context.Parse.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}
