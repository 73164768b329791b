package rentbook

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the reporting currency when none is configured.
const DefaultCurrency = "AUD"

// Money represents a signed monetary value in the reporting currency.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

func M[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

func newDecimal[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

// ParseMoney parses a plain decimal amount ("-450.00", "1068") in the given currency.
func ParseMoney(s, currency string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money{value: d, cur: currency}, nil
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	code := m.cur
	if code == "" {
		code = DefaultCurrency
	}
	return *money.New(0, code).Currency()
}

// String returns the amount formatted for its currency ("$1,068.00").
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(dec.IntPart())
}

// Simple wrapper around decimal.Decimal

func (m Money) Currency() string          { return m.cur }
func (m Money) Decimal() decimal.Decimal  { return m.value }
func (m Money) Equal(n Money) bool        { return m.value.Equal(n.value) && m.SameCurrency(n) }
func (m Money) IsZero() bool              { return m.value.IsZero() }
func (m Money) IsPositive() bool          { return m.value.IsPositive() }
func (m Money) IsNegative() bool          { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool     { return m.value.LessThan(n.value) }
func (m Money) GreaterThan(n Money) bool  { return m.value.GreaterThan(n.value) }
func (m Money) Neg() Money                { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Abs() Money                { return Money{value: m.value.Abs(), cur: m.cur} }
func (m Money) Times(n int) Money         { return Money{value: m.value.Mul(decimal.NewFromInt(int64(n))), cur: m.cur} }
func (m Money) In(currency string) Money  { return Money{value: m.value, cur: currency} }
func (m Money) Round() Money              { return Money{value: m.value.Round(m.fraction()), cur: m.cur} }
func (m Money) fraction() int32           { return int32(m.currency().Fraction) }
func (m Money) Cmp(n Money) int           { return m.value.Cmp(n.value) }
func (m Money) Sign() int                 { return m.value.Sign() }
func (m Money) Add(n Money) Money         { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money         { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }
func (m Money) ApproxEqual(n Money) bool  { return m.value.Sub(n.value).Abs().LessThan(halfCent) }
func (m Money) SameCurrency(n Money) bool { return m.cur == "" || n.cur == "" || m.cur == n.cur }

var halfCent = decimal.New(5, -3)

// makes the "" currency totally weak.
func cur(A, B Money) string {
	if A.cur == "" {
		return B.cur
	}
	if B.cur == "" {
		return A.cur
	}
	if A.cur != B.cur {
		panic("currency mismatch" + A.cur + "!=" + B.cur)
	}
	return A.cur
}

// Split divides m into n parts in minor units of its currency. Every part is
// the truncated quotient except the first one, which also takes the remainder
// so that the parts always sum back to m exactly.
func (m Money) Split(n int) []Money {
	if n < 1 {
		return nil
	}
	frac := m.fraction()
	minor := m.value.Shift(frac).Round(0) // total in cents
	count := decimal.NewFromInt(int64(n))
	part := minor.Div(count).Truncate(0)
	first := minor.Sub(part.Mul(count.Sub(decimal.NewFromInt(1))))

	parts := make([]Money, n)
	parts[0] = Money{value: first.Shift(-frac), cur: m.cur}
	for i := 1; i < n; i++ {
		parts[i] = Money{value: part.Shift(-frac), cur: m.cur}
	}
	return parts
}

// Sum adds up amounts, starting from zero.
func Sum(amounts ...Money) Money {
	var total Money
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// MarshalJSON writes the amount rounded to the currency fraction as a plain
// JSON number. The currency is stored once, at the session level.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.value.Round(m.fraction()))
}

// UnmarshalJSON reads a JSON number or a numeric string. The currency is left
// empty; it is a weak currency that adopts the currency of the first amount it
// is added to.
func (m *Money) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("invalid amount %s: %w", b, err)
	}
	*m = Money{value: d}
	return nil
}
