package rentbook

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/etnz/rentbook/date"
)

// Ledger aggregates the records of one property into a month by category
// matrix.
//
// The Ledger owns three kinds of primary data: the classified records coming
// from documents, the manual entry specs, and the user inclusion overrides.
// Everything else (cells, totals, indicators) is derived on read, and
// memoized until the next mutation.
type Ledger struct {
	property Property
	fyStart  time.Month
	currency string

	records   []ClassifiedRecord
	specs     []ManualEntrySpec
	overrides map[RecordKey]bool

	version int     // incremented on every mutation
	cache   *Matrix // valid while cache.version == version
}

// NewLedger creates an empty ledger for a configured property.
func NewLedger(p Property, cfg Config) *Ledger {
	cur := cfg.Currency
	if cur == "" {
		cur = DefaultCurrency
	}
	fy := cfg.FYStartMonth
	if fy == 0 {
		fy = time.July
	}
	return &Ledger{
		property:  p,
		fyStart:   fy,
		currency:  cur,
		overrides: make(map[RecordKey]bool),
	}
}

func (l *Ledger) touch() { l.version++ }

// Property returns the property configuration of the ledger.
func (l *Ledger) Property() Property { return l.property }

// SetProperty updates the property configuration. The id cannot change.
func (l *Ledger) SetProperty(p Property) error {
	if p.ID != l.property.ID {
		return fmt.Errorf("cannot rename ledger %q to %q", l.property.ID, p.ID)
	}
	l.property = p
	return nil
}

// Currency returns the reporting currency of the ledger.
func (l *Ledger) Currency() string { return l.currency }

// FYStart returns the first month of the fiscal year.
func (l *Ledger) FYStart() time.Month { return l.fyStart }

// Records returns a copy of the document records in insertion order.
func (l *Ledger) Records() []ClassifiedRecord { return slices.Clone(l.records) }

// Specs returns a copy of the manual entry specs.
func (l *Ledger) Specs() []ManualEntrySpec { return slices.Clone(l.specs) }

// Overrides returns a copy of the user inclusion overrides.
func (l *Ledger) Overrides() map[RecordKey]bool { return maps.Clone(l.overrides) }

// Documents returns the ids of the documents that contributed records, in
// order of first appearance.
func (l *Ledger) Documents() []string {
	var docs []string
	for _, r := range l.records {
		if !slices.Contains(docs, r.DocumentID) {
			docs = append(docs, r.DocumentID)
		}
	}
	return docs
}

// own checks that a record can belong to this ledger and sets its currency
// and property.
func (l *Ledger) own(r ClassifiedRecord) (ClassifiedRecord, error) {
	if r.Property == "" {
		r.Property = l.property.ID
	}
	if r.Property != l.property.ID {
		return r, fmt.Errorf("record %s belongs to property %q, not %q", r.Key(), r.Property, l.property.ID)
	}
	if !r.Category.Valid() {
		return r, fmt.Errorf("record %s has unknown category %q", r.Key(), r.Category)
	}
	if !r.Amount.SameCurrency(M(0, l.currency)) {
		return r, fmt.Errorf("record %s is in %s, ledger reports in %s", r.Key(), r.Amount.Currency(), l.currency)
	}
	r.Amount = r.Amount.In(l.currency)
	return r, nil
}

// Add appends document records to the ledger. Records are rejected if they
// belong to another property or if their key is already present.
func (l *Ledger) Add(records ...ClassifiedRecord) error {
	keys := make(map[RecordKey]bool, len(l.records))
	for _, r := range l.records {
		keys[r.Key()] = true
	}
	owned := make([]ClassifiedRecord, 0, len(records))
	for _, r := range records {
		r, err := l.own(r)
		if err != nil {
			return err
		}
		if keys[r.Key()] {
			return fmt.Errorf("record %s is already in the ledger", r.Key())
		}
		keys[r.Key()] = true
		owned = append(owned, r)
	}
	l.records = append(l.records, owned...)
	l.touch()
	return nil
}

// ReplaceDocument replaces all the records of a document by a new set. User
// overrides on the document records are kept.
func (l *Ledger) ReplaceDocument(documentID string, records []ClassifiedRecord) error {
	kept := l.records[:0:0]
	for _, r := range l.records {
		if r.DocumentID != documentID {
			kept = append(kept, r)
		}
	}
	for _, r := range records {
		if r.DocumentID != documentID {
			return fmt.Errorf("record %s does not belong to document %s", r.Key(), documentID)
		}
	}
	previous := l.records
	l.records = kept
	if err := l.Add(records...); err != nil {
		l.records = previous
		return err
	}
	return nil
}

// RemoveDocument drops all the records of a document. Overrides are kept so
// that re-adding the document restores the user decisions.
func (l *Ledger) RemoveDocument(documentID string) int {
	before := len(l.records)
	l.records = slices.DeleteFunc(l.records, func(r ClassifiedRecord) bool { return r.DocumentID == documentID })
	l.touch()
	return before - len(l.records)
}

// Record returns the document record with the given key.
func (l *Ledger) Record(key RecordKey) (ClassifiedRecord, bool) {
	for _, r := range l.records {
		if r.Key() == key {
			return r, true
		}
	}
	return ClassifiedRecord{}, false
}

// SetIncluded records a user decision to include or exclude a record. The
// decision outlives re-ingestion of the record's document.
func (l *Ledger) SetIncluded(key RecordKey, included bool) error {
	if _, ok := l.Record(key); !ok {
		return fmt.Errorf("no record %s in ledger %q", key, l.property.ID)
	}
	l.overrides[key] = included
	l.touch()
	return nil
}

// SetDocumentIncluded applies SetIncluded to all the records of a document.
func (l *Ledger) SetDocumentIncluded(documentID string, included bool) (int, error) {
	n := 0
	for _, r := range l.records {
		if r.DocumentID == documentID {
			l.overrides[r.Key()] = included
			n++
		}
	}
	if n == 0 {
		return 0, fmt.Errorf("no document %s in ledger %q", documentID, l.property.ID)
	}
	l.touch()
	return n, nil
}

// ClearOverride removes the user decision on a record, its default inclusion
// applies again.
func (l *Ledger) ClearOverride(key RecordKey) {
	delete(l.overrides, key)
	l.touch()
}

// Included returns the effective inclusion of a record: the user override if
// any, the address based default otherwise.
func (l *Ledger) Included(r ClassifiedRecord) bool {
	if v, ok := l.overrides[r.Key()]; ok {
		return v
	}
	return r.Included
}

// AddManual adds a manual entry spec, or replaces the spec with the same id,
// and returns it with its id and property set. A spec without id is always
// added, even if an identical spec exists.
func (l *Ledger) AddManual(s ManualEntrySpec) (ManualEntrySpec, error) {
	if s.Property == "" {
		s.Property = l.property.ID
	}
	if s.Property != l.property.ID {
		return s, fmt.Errorf("manual entry for property %q cannot be added to %q", s.Property, l.property.ID)
	}
	s.Total = s.Total.In(l.currency)
	s.Amount = s.Amount.In(l.currency)
	if s.ID == "" {
		s.ID = l.newSpecID(s)
	}
	if _, err := Generate(s); err != nil {
		return s, err
	}
	if i := slices.IndexFunc(l.specs, func(x ManualEntrySpec) bool { return x.ID == s.ID }); i >= 0 {
		l.specs[i] = s
	} else {
		l.specs = append(l.specs, s)
	}
	l.touch()
	return s, nil
}

// newSpecID derives the id of a new spec from its content, suffixed when
// another spec already uses it.
func (l *Ledger) newSpecID(s ManualEntrySpec) string {
	base := s.WithID().ID
	taken := func(id string) bool {
		return slices.ContainsFunc(l.specs, func(x ManualEntrySpec) bool { return x.ID == id })
	}
	id := base
	for n := 2; taken(id); n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}
	return id
}

// RemoveManual removes a manual entry spec by id.
func (l *Ledger) RemoveManual(id string) bool {
	before := len(l.specs)
	l.specs = slices.DeleteFunc(l.specs, func(s ManualEntrySpec) bool { return s.ID == id })
	l.touch()
	return len(l.specs) != before
}

// SetManual sets the manual amount of a category for a month, replacing the
// previous manual amount. A zero amount removes it.
func (l *Ledger) SetManual(month date.Month, c Category, amount Money) error {
	id := fmt.Sprintf("set:%s:%s", c, month)
	if amount.IsZero() {
		l.RemoveManual(id)
		return nil
	}
	_, err := l.AddManual(ManualEntrySpec{
		ID:       id,
		Category: c,
		Mode:     Single,
		Total:    amount,
		Interval: date.Monthly,
		Start:    month,
	})
	return err
}

// Entries returns every record of the ledger: document records first, then
// the entries generated from manual specs.
func (l *Ledger) Entries() ([]ClassifiedRecord, error) {
	entries := slices.Clone(l.records)
	for _, s := range l.specs {
		generated, err := Generate(s)
		if err != nil {
			return nil, err
		}
		for _, e := range generated {
			e.Amount = e.Amount.In(l.currency)
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// Review returns the records that need the user attention: uncertain
// category or address.
func (l *Ledger) Review() []ClassifiedRecord {
	var res []ClassifiedRecord
	for _, r := range l.records {
		if r.NeedsReview() {
			res = append(res, r)
		}
	}
	return res
}

// Matrix returns the month by category matrix of the ledger. The matrix is
// rebuilt after any mutation and checked for consistency.
func (l *Ledger) Matrix() (*Matrix, error) {
	if l.cache != nil && l.cache.version == l.version {
		return l.cache, nil
	}
	entries, err := l.Entries()
	if err != nil {
		return nil, err
	}
	m := newMatrix(l.property.ID, l.currency)
	for _, e := range entries {
		if l.Included(e) {
			m.add(e)
		}
	}
	if err := l.check(m, entries); err != nil {
		return nil, err
	}
	m.version = l.version
	l.cache = m
	return m, nil
}

// Check verifies that every cell equals the sum of its included records.
func (l *Ledger) Check() error {
	_, err := l.Matrix()
	return err
}

// check re-derives the cells independently from the matrix accumulation.
func (l *Ledger) check(m *Matrix, entries []ClassifiedRecord) error {
	expected := make(map[cellKey]Money)
	for _, e := range entries {
		if !l.Included(e) {
			continue
		}
		k := cellKey{e.Category, e.Month()}
		expected[k] = expected[k].Add(e.Amount)
	}
	var errs []error
	for k, cell := range m.cells {
		if want := expected[k]; !cell.Equal(want) {
			errs = append(errs, &AggregationInconsistency{Property: l.property.ID, Category: k.category, Month: k.month, Cell: cell, Records: want})
		}
		delete(expected, k)
	}
	for k, want := range expected {
		if !want.IsZero() {
			errs = append(errs, &AggregationInconsistency{Property: l.property.ID, Category: k.category, Month: k.month, Records: want})
		}
	}
	return errors.Join(errs...)
}

// Cell returns the value of a cell, zero for an empty cell.
func (l *Ledger) Cell(c Category, month date.Month) (Money, error) {
	m, err := l.Matrix()
	if err != nil {
		return Money{}, err
	}
	return m.Cell(c, month), nil
}

// Totals returns the category totals over a range of months.
func (l *Ledger) Totals(r date.Range) (Totals, error) {
	m, err := l.Matrix()
	if err != nil {
		return Totals{}, err
	}
	return m.Totals(r), nil
}

// FiscalYear returns the totals of a fiscal year given its label ("2024-25").
func (l *Ledger) FiscalYear(label string) (Totals, error) {
	r, err := date.ParseFiscal(label, l.fyStart)
	if err != nil {
		return Totals{}, err
	}
	return l.Totals(r)
}

// CalendarYear returns the totals of a calendar year.
func (l *Ledger) CalendarYear(y int) (Totals, error) { return l.Totals(date.Calendar(y)) }

// FiscalYears lists the labels of the fiscal years with data, newest first.
func (l *Ledger) FiscalYears() ([]string, error) {
	m, err := l.Matrix()
	if err != nil {
		return nil, err
	}
	var labels []string
	for _, month := range slices.Backward(m.Months()) {
		if label := date.FiscalOf(month, l.fyStart).Label(); !slices.Contains(labels, label) {
			labels = append(labels, label)
		}
	}
	return labels, nil
}

type cellKey struct {
	category Category
	month    date.Month
}

// Matrix is a read only month by category view of a ledger.
type Matrix struct {
	property string
	currency string
	cells    map[cellKey]Money
	version  int
}

func newMatrix(property, currency string) *Matrix {
	return &Matrix{property: property, currency: currency, cells: make(map[cellKey]Money)}
}

func (m *Matrix) add(r ClassifiedRecord) {
	k := cellKey{r.Category, r.Month()}
	m.cells[k] = m.cells[k].Add(r.Amount)
}

// Cell returns the value of a cell, zero for an empty cell.
func (m *Matrix) Cell(c Category, month date.Month) Money {
	if v, ok := m.cells[cellKey{c, month}]; ok {
		return v
	}
	return M(0, m.currency)
}

// Months returns the sorted months that have at least one cell.
func (m *Matrix) Months() []date.Month {
	set := make(map[date.Month]bool)
	for k := range m.cells {
		set[k.month] = true
	}
	months := slices.Collect(maps.Keys(set))
	slices.SortFunc(months, func(a, b date.Month) int { return cmp.Compare(a.Sub(b), 0) })
	return months
}

// Row returns the values of a category for each month of a range.
func (m *Matrix) Row(c Category, r date.Range) []Money {
	row := make([]Money, 0, r.Len())
	for month := range r.Months() {
		row = append(row, m.Cell(c, month))
	}
	return row
}

// Totals sums each category over a range of months.
func (m *Matrix) Totals(r date.Range) Totals {
	t := Totals{Range: r, ByCategory: make(map[Category]Money)}
	for _, c := range categories {
		t.ByCategory[c] = M(0, m.currency)
	}
	for k, v := range m.cells {
		if r.Contains(k.month) {
			t.ByCategory[k.category] = t.ByCategory[k.category].Add(v)
		}
	}
	return t
}
