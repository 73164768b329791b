package rentbook

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/etnz/rentbook/date"
	"github.com/google/uuid"
)

// Mode is the way a manual entry is expanded into ledger entries.
type Mode string

const (
	// Single is one entry of the total amount in the start month.
	Single Mode = "single"
	// EqualSplit divides the total amount into Count occurrences.
	EqualSplit Mode = "equal_split"
	// FixedRepeat repeats Amount for Count occurrences.
	FixedRepeat Mode = "fixed_repeat"
)

// ParseMode parses a Mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case Single, EqualSplit, FixedRepeat:
		return m, nil
	case "split":
		return EqualSplit, nil
	case "repeat":
		return FixedRepeat, nil
	}
	return "", fmt.Errorf("unknown mode %q (want single, equal_split or fixed_repeat)", s)
}

// ManualEntrySpec is a user entered amount, possibly recurring. It is the
// only source of truth for the entries it generates: entries are never
// stored nor edited, they are regenerated from the spec.
type ManualEntrySpec struct {
	ID       string      `json:"id"`
	Property string      `json:"property"`
	Category Category    `json:"category"`
	Mode     Mode        `json:"mode"`
	Total    Money       `json:"total_amount"`
	Amount   Money       `json:"amount,omitzero"` // per occurrence, fixed_repeat only
	Count    int         `json:"count,omitempty"`
	Interval date.Period `json:"interval_months"`
	Start    date.Month  `json:"start_month"`
	Memo     string      `json:"memo,omitempty"`
}

// entryNamespace scopes the name based UUIDs of manual entry specs.
var entryNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("rentbook:manual-entry"))

// WithID returns a copy of the spec with a deterministic ID derived from its
// content, unless it already has one.
func (s ManualEntrySpec) WithID() ManualEntrySpec {
	if s.ID != "" {
		return s
	}
	b, _ := json.Marshal(s)
	s.ID = uuid.NewSHA1(entryNamespace, b).String()[:8]
	return s
}

// occurrences returns the number of entries the spec generates.
func (s ManualEntrySpec) occurrences() int {
	if s.Mode == Single {
		return 1
	}
	return s.Count
}

// Validate checks the spec and returns all the problems found.
func (s ManualEntrySpec) Validate() error {
	var errs []error
	if !s.Category.Valid() {
		errs = append(errs, fmt.Errorf("unknown category %q", s.Category))
	}
	if s.Start.IsZero() {
		errs = append(errs, errors.New("start month is missing"))
	}
	interval := s.Interval
	if interval == 0 {
		interval = date.Monthly
	}
	if !interval.Valid() {
		errs = append(errs, fmt.Errorf("interval of %d months is not supported (want 1, 3 or 6)", s.Interval))
	}
	for _, m := range []Money{s.Total, s.Amount} {
		if !m.Round().Equal(m) {
			errs = append(errs, fmt.Errorf("amount %s is not a whole number of cents", m.Decimal()))
		}
	}
	switch s.Mode {
	case Single:
	case EqualSplit:
		if s.Count < 1 {
			errs = append(errs, fmt.Errorf("equal split needs a positive count, got %d", s.Count))
		}
	case FixedRepeat:
		if s.Count < 1 {
			errs = append(errs, fmt.Errorf("fixed repeat needs a positive count, got %d", s.Count))
		} else if !s.Total.IsZero() && !s.Amount.Times(s.Count).Equal(s.Total) {
			errs = append(errs, fmt.Errorf("fixed repeat total %s differs from %d x %s", s.Total, s.Count, s.Amount))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown mode %q", s.Mode))
	}
	return errors.Join(errs...)
}

// Generate expands the spec into ledger entries. The output only depends on
// the spec: generating twice yields identical entries.
//
// The entries are dated on the first day of their month, spaced by the spec
// interval starting at the start month. Generation stops after the requested
// number of occurrences whatever the fiscal year boundaries.
func Generate(s ManualEntrySpec) ([]ClassifiedRecord, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manual entry %s: %w", s.ID, err)
	}
	interval := s.Interval
	if interval == 0 {
		interval = date.Monthly
	}

	var amounts []Money
	switch s.Mode {
	case Single:
		amounts = []Money{s.Total}
	case EqualSplit:
		amounts = s.Total.Split(s.Count)
	case FixedRepeat:
		amounts = make([]Money, s.Count)
		for i := range amounts {
			amounts[i] = s.Amount
		}
	}

	label := s.Memo
	if label == "" {
		label = s.Category.Label()
	}
	n := s.occurrences()
	entries := make([]ClassifiedRecord, 0, n)
	for i, amount := range amounts {
		month := s.Start.Add(i * interval.Months())
		desc := label
		if n > 1 {
			desc = fmt.Sprintf("%s (%d/%d)", label, i+1, n)
		}
		entries = append(entries, ClassifiedRecord{
			RawRecord: RawRecord{
				Date:        month.First(),
				Description: desc,
				Amount:      amount,
				DocumentID:  "manual:" + s.ID,
				SourceType:  Manual,
				Line:        i,
			},
			Category: s.Category,
			Verdict:  Matched,
			Property: s.Property,
			Included: true,
		})
	}
	return entries, nil
}
