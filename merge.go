package rentbook

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/etnz/rentbook/date"
)

// ChangeStatus qualifies how a merge affected a ledger cell.
type ChangeStatus string

const (
	NewMonth  ChangeStatus = "new-month" // the month had no data before
	Added     ChangeStatus = "added"     // the cell was empty before
	Updated   ChangeStatus = "updated"   // the cell value changed
	Unchanged ChangeStatus = "unchanged" // the document confirmed the cell value
)

// Change is one line of a merge change log.
type Change struct {
	Status   ChangeStatus `json:"status"`
	Property string       `json:"property"`
	Month    date.Month   `json:"month"`
	Category Category     `json:"category,omitempty"` // empty for NewMonth
	Items    int          `json:"items,omitempty"`    // NewMonth only
	Old      Money        `json:"old"`
	New      Money        `json:"new"`
}

func (c Change) String() string {
	switch c.Status {
	case NewMonth:
		return fmt.Sprintf("%-9s %s %s: %d items", c.Status, c.Property, c.Month, c.Items)
	case Added:
		return fmt.Sprintf("%-9s %s %s %s: %s", c.Status, c.Property, c.Month, c.Category.Label(), c.New)
	default:
		return fmt.Sprintf("%-9s %s %s %s: %s -> %s", c.Status, c.Property, c.Month, c.Category.Label(), c.Old, c.New)
	}
}

// Merge replaces the records of a document in the ledger and reports how the
// cells touched by the document changed. Merging a document again replaces
// its previous records, so that a corrected or re-downloaded statement never
// counts twice. User overrides are preserved.
func (l *Ledger) Merge(documentID string, records []ClassifiedRecord) ([]Change, error) {
	before, err := l.Matrix()
	if err != nil {
		return nil, err
	}
	touched := make(map[cellKey]bool)
	for _, r := range l.records {
		if r.DocumentID == documentID {
			touched[cellKey{r.Category, r.Month()}] = true
		}
	}
	for _, r := range records {
		touched[cellKey{r.Category, r.Month()}] = true
	}

	if err := l.ReplaceDocument(documentID, records); err != nil {
		return nil, err
	}
	after, err := l.Matrix()
	if err != nil {
		return nil, err
	}

	known := make(map[date.Month]bool)
	for _, m := range before.Months() {
		known[m] = true
	}
	keys := make([]cellKey, 0, len(touched))
	for k := range touched {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b cellKey) int {
		if c := a.month.Sub(b.month); c != 0 {
			return cmp.Compare(c, 0)
		}
		return cmp.Compare(slices.Index(categories, a.category), slices.Index(categories, b.category))
	})

	var changes []Change
	newMonths := make(map[date.Month]int)
	for _, k := range keys {
		old, cur := before.Cell(k.category, k.month), after.Cell(k.category, k.month)
		if !known[k.month] {
			if !cur.IsZero() {
				newMonths[k.month]++
			}
			continue
		}
		c := Change{Property: l.property.ID, Month: k.month, Category: k.category, Old: old, New: cur}
		switch {
		case old.IsZero() && !cur.IsZero():
			c.Status = Added
		case !old.Equal(cur):
			c.Status = Updated
		default:
			c.Status = Unchanged
		}
		changes = append(changes, c)
	}
	months := slices.SortedFunc(maps.Keys(newMonths), func(a, b date.Month) int { return cmp.Compare(a.Sub(b), 0) })
	for _, m := range months {
		changes = append(changes, Change{Status: NewMonth, Property: l.property.ID, Month: m, Items: newMonths[m]})
	}
	return changes, nil
}
