package rentbook

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Ratio is a dimensionless ratio between two amounts (yield, LVR, DSCR).
// A ratio whose denominator is zero or unknown is not available, and renders
// as "N/A".
type Ratio struct {
	value decimal.Decimal
	ok    bool
}

// NA is the unavailable ratio.
func NA() Ratio { return Ratio{} }

// RatioOf returns num / den, or NA when den is zero.
func RatioOf(num, den Money) Ratio {
	if den.IsZero() {
		return NA()
	}
	return Ratio{value: num.value.DivRound(den.value, 8), ok: true}
}

// R is a helper to build an available ratio from a constant.
func R(v float64) Ratio { return Ratio{value: decimal.NewFromFloat(v), ok: true} }

// Valid reports whether the ratio is available.
func (r Ratio) Valid() bool { return r.ok }

// Decimal returns the ratio value, zero when not available.
func (r Ratio) Decimal() decimal.Decimal { return r.value }

// Equal compares two ratios with a 1e-4 precision. Two NA ratios are equal.
func (r Ratio) Equal(q Ratio) bool {
	if r.ok != q.ok {
		return false
	}
	return r.value.Sub(q.value).Abs().LessThan(decimal.New(1, -4))
}

// String formats the ratio as a percentage ("5.25%").
func (r Ratio) String() string {
	if !r.ok {
		return "N/A"
	}
	return r.value.Shift(2).StringFixed(2) + "%"
}

// Multiple formats the ratio as a coverage multiple ("1.35x").
func (r Ratio) Multiple() string {
	if !r.ok {
		return "N/A"
	}
	return r.value.StringFixed(2) + "x"
}

// MarshalJSON writes the ratio rounded to 4 decimals, or null when not available.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.ok {
		return []byte("null"), nil
	}
	return json.Marshal(r.value.Round(4))
}

// UnmarshalJSON is the reverse of MarshalJSON.
func (r *Ratio) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = NA()
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	*r = Ratio{value: d, ok: true}
	return nil
}
