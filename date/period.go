package date

import (
	"fmt"
	"strings"
)

// Period is the step between two occurrences of a recurring entry.
type Period int

const (
	Monthly    Period = 1
	Quarterly  Period = 3
	HalfYearly Period = 6
)

// Months returns the number of months in the period.
func (p Period) Months() int { return int(p) }

// Valid reports whether p is one of the supported periods.
func (p Period) Valid() bool {
	switch p {
	case Monthly, Quarterly, HalfYearly:
		return true
	}
	return false
}

func (p Period) String() string {
	switch p {
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case HalfYearly:
		return "half-yearly"
	default:
		return fmt.Sprintf("every %d months", int(p))
	}
}

// ParsePeriod accepts a period name or its number of months.
func ParsePeriod(p string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "monthly", "month", "1":
		return Monthly, nil
	case "quarterly", "quarter", "3":
		return Quarterly, nil
	case "half-yearly", "halfyearly", "semester", "6":
		return HalfYearly, nil
	default:
		return Monthly, fmt.Errorf("unknown period %q (want monthly, quarterly or half-yearly)", p)
	}
}
