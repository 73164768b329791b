package date

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
	"time"
)

// Range represents an inclusive range of months.
type Range struct{ From, To Month }

// NewRange returns the range of n months starting at from.
func NewRange(from Month, n int) Range { return Range{From: from, To: from.Add(n - 1)} }

// Calendar returns the calendar year y.
func Calendar(y int) Range { return NewRange(NewMonth(y, time.January), 12) }

// Fiscal returns the fiscal year that starts in year y on the given start month.
func Fiscal(y int, start time.Month) Range { return NewRange(NewMonth(y, start), 12) }

// FiscalOf returns the fiscal year that contains m.
func FiscalOf(m Month, start time.Month) Range {
	y := m.Year()
	if m.Month() < start {
		y--
	}
	return Fiscal(y, start)
}

// Contains return true if m is included in the range (boundaries included).
func (r Range) Contains(m Month) bool { return !m.Before(r.From) && !m.After(r.To) }

// Len is the number of months in the range.
func (r Range) Len() int { return r.To.Sub(r.From) + 1 }

// Months iterates over the months of the range in chronological order.
func (r Range) Months() iter.Seq[Month] {
	return func(yield func(Month) bool) {
		for m := r.From; !m.After(r.To); m = m.Add(1) {
			if !yield(m) {
				return
			}
		}
	}
}

// Label names a year long range: "2024-25" when it spans two calendar years,
// "2024" otherwise.
func (r Range) Label() string {
	if r.From.Year() == r.To.Year() {
		return strconv.Itoa(r.From.Year())
	}
	return fmt.Sprintf("%d-%02d", r.From.Year(), r.To.Year()%100)
}

func (r Range) String() string { return r.From.String() + ".." + r.To.String() }

// ParseFiscal resolves a fiscal year label ("2024-25" or "2024") into its range.
func ParseFiscal(label string, start time.Month) (Range, error) {
	head, tail, split := strings.Cut(strings.TrimSpace(label), "-")
	y, err := strconv.Atoi(head)
	if err != nil || len(head) != 4 {
		return Range{}, fmt.Errorf("invalid fiscal year %q want format \"2024-25\"", label)
	}
	r := Fiscal(y, start)
	if split {
		end, err := strconv.Atoi(tail)
		if err != nil || end != r.To.Year()%100 {
			return Range{}, fmt.Errorf("invalid fiscal year %q: %d-%02d expected for a year starting in %s", label, y, r.To.Year()%100, start)
		}
	}
	return r, nil
}

// FiscalLabels returns the labels of the fiscal years starting between first
// and last (inclusive), newest first.
func FiscalLabels(first, last int, start time.Month) []string {
	var labels []string
	for y := last; y >= first; y-- {
		labels = append(labels, Fiscal(y, start).Label())
	}
	return labels
}
