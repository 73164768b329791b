package date

import (
	"encoding"
	"fmt"
	"time"
)

// MonthFormat is the layout of a month key ("2024-01").
const MonthFormat = "2006-01"

// Month is a calendar month. It is the time granularity of the ledger.
type Month struct {
	y int
	m time.Month
}

// NewMonth returns a normalized Month, so that NewMonth(2024, 13) is January 2025.
func NewMonth(year int, month time.Month) Month {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Month{t.Year(), t.Month()}
}

// Year of the month.
func (m Month) Year() int { return m.y }

// Month of the year.
func (m Month) Month() time.Month { return m.m }

// IsZero returns true for the zero Month.
func (m Month) IsZero() bool { return m == Month{} }

// index is a monotonic month counter used for arithmetic and comparison.
func (m Month) index() int { return m.y*12 + int(m.m) - 1 }

// Add returns the month n months after m (n may be negative).
func (m Month) Add(n int) Month { return NewMonth(m.y, m.m+time.Month(n)) }

// Sub returns the number of months from x to m.
func (m Month) Sub(x Month) int { return m.index() - x.index() }

// Before reports whether m is before x.
func (m Month) Before(x Month) bool { return m.index() < x.index() }

// After reports whether m is after x.
func (m Month) After(x Month) bool { return m.index() > x.index() }

// First day of the month.
func (m Month) First() Date { return New(m.y, m.m, 1) }

// Last day of the month.
func (m Month) Last() Date { return New(m.y, m.m+1, 0) }

// String returns the "YYYY-MM" key of the month.
func (m Month) String() string {
	if m.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", m.y, m.m)
}

// ParseMonth parses a "YYYY-MM" (or "YYYY-M") month key.
func ParseMonth(str string) (Month, error) {
	on, err := time.Parse("2006-1", str)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q want format %q: %w", str, MonthFormat, err)
	}
	return NewMonth(on.Year(), on.Month()), nil
}

// MustParseMonth is like ParseMonth but panics on error.
func MustParseMonth(str string) Month {
	m, err := ParseMonth(str)
	if err != nil {
		panic(err.Error())
	}
	return m
}

// MarshalText makes Month usable as a JSON object key.
func (m Month) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText is the reverse of MarshalText.
func (m *Month) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*m = Month{}
		return nil
	}
	v, err := ParseMonth(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

var _ encoding.TextMarshaler = Month{}
var _ encoding.TextUnmarshaler = (*Month)(nil)
