package rentbook

import (
	"fmt"
	"strings"

	"github.com/etnz/rentbook/date"
)

// SourceType identifies the kind of document a record was extracted from.
type SourceType string

const (
	RentalStatement SourceType = "rental_statement"
	Bank            SourceType = "bank"
	Utility         SourceType = "utility"
	Invoice         SourceType = "invoice"
	// Manual marks entries generated from a ManualEntrySpec.
	Manual SourceType = "manual"
)

// DocumentTypes lists the source types a document can be declared as.
var DocumentTypes = []SourceType{RentalStatement, Bank, Utility, Invoice}

// ParseSourceType parses a declared document type. The empty string is
// accepted and means "infer from content".
func ParseSourceType(s string) (SourceType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "rental_statement", "rental", "statement":
		return RentalStatement, nil
	case "bank":
		return Bank, nil
	case "utility", "bill":
		return Utility, nil
	case "invoice", "notice":
		return Invoice, nil
	case "manual":
		return Manual, nil
	}
	return "", fmt.Errorf("unknown source type %q (want rental_statement, bank, utility or invoice)", s)
}

// Headings of a rental statement, recorded in RawRecord.Section for the lines
// found under them.
const (
	HeadingMoneyIn  = "money in"
	HeadingMoneyOut = "money out"
	HeadingBills    = "bills"
	HeadingEFT      = "eft"
)

// RawRecord is a single line item as found in a document. It is never
// modified after extraction.
type RawRecord struct {
	Date        date.Date  `json:"date"`
	Description string     `json:"description"`
	Amount      Money      `json:"amount"`
	DocumentID  string     `json:"document"`
	SourceType  SourceType `json:"source"`
	// Line is the position of the record in its document, starting at 0.
	Line int `json:"line"`
	// Section is the statement heading the line was found under, if any.
	Section string `json:"section,omitempty"`
}

// Key identifies the record across re-extractions of the same document.
func (r RawRecord) Key() RecordKey { return RecordKey(fmt.Sprintf("%s#%d", r.DocumentID, r.Line)) }

// Month is the ledger month the record falls in.
func (r RawRecord) Month() date.Month { return r.Date.MonthOf() }

// RecordKey is the stable identifier of a record: "<document id>#<line>".
type RecordKey string

// Document returns the document part of the key.
func (k RecordKey) Document() string {
	doc, _, _ := strings.Cut(string(k), "#")
	return doc
}

// Verdict is the classifier confidence for a record.
type Verdict string

const (
	Matched   Verdict = "matched"
	Ambiguous Verdict = "ambiguous"
	Unmatched Verdict = "unmatched"
)

// NeedsReview reports whether the user must confirm the category.
func (v Verdict) NeedsReview() bool { return v == Ambiguous || v == Unmatched }

// AddressVerdict is the result of comparing a document address with the
// configured property address.
type AddressVerdict string

const (
	// AddressNotChecked applies to sources without a property address (bank, manual).
	AddressNotChecked AddressVerdict = ""
	AddressMatched    AddressVerdict = "matched"
	AddressPartial    AddressVerdict = "partial"
	AddressMismatch   AddressVerdict = "mismatch"
	AddressNotFound   AddressVerdict = "not_found"
)

// Included is the default inclusion policy: only a mismatch is excluded.
func (a AddressVerdict) Included() bool { return a != AddressMismatch }

// ClassifiedRecord is a RawRecord with its category and inclusion decision.
type ClassifiedRecord struct {
	RawRecord
	Category Category       `json:"category"`
	Verdict  Verdict        `json:"verdict"`
	Property string         `json:"property"`
	Address  AddressVerdict `json:"address,omitempty"`
	// Included is the default inclusion derived from Address. User overrides
	// are held by the Ledger and take precedence.
	Included bool `json:"included"`
}

// MarshalJSON writes the record fields in a stable order.
func (r ClassifiedRecord) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", r.Date)
	w.Append("source", r.SourceType)
	w.Append("document", r.DocumentID)
	w.Append("line", r.Line)
	w.Optional("section", r.Section)
	w.Append("description", r.Description)
	w.Append("amount", r.Amount)
	w.Append("category", r.Category)
	w.Append("verdict", r.Verdict)
	w.Append("property", r.Property)
	w.Optional("address", r.Address)
	w.Append("included", r.Included)
	return w.MarshalJSON()
}

// NeedsReview reports whether the record must be confirmed by the user,
// either for its category or for its address.
func (r ClassifiedRecord) NeedsReview() bool {
	return r.Verdict.NeedsReview() || r.Address == AddressMismatch || r.Address == AddressPartial
}
