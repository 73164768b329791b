package rentbook

import (
	"errors"
	"fmt"

	"github.com/etnz/rentbook/date"
)

var (
	// ErrNoTextLayer is the cause of an ExtractionError for documents that
	// carry no text at all, typically a scanned image.
	ErrNoTextLayer = errors.New("document has no text layer")
	// ErrNoRecords is the cause of an ExtractionError for documents where no
	// date and amount pairing could be found.
	ErrNoRecords = errors.New("no recognizable date and amount found")
)

// ExtractionError reports a document that could not be parsed. The document
// needs manual entry; the rest of the batch is not affected.
type ExtractionError struct {
	Document string // document name
	Reason   string
	Err      error
}

func (e *ExtractionError) Error() string {
	msg := fmt.Sprintf("%s: needs manual entry: %s", e.Document, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// AggregationInconsistency reports a ledger cell whose value differs from the
// sum of its contributing records. It is a bug, never a user error.
type AggregationInconsistency struct {
	Property string
	Category Category
	Month    date.Month
	Cell     Money
	Records  Money
}

func (e *AggregationInconsistency) Error() string {
	return fmt.Sprintf("aggregation inconsistency in %s %s %s: cell is %s but records sum to %s",
		e.Property, e.Month, e.Category, e.Cell, e.Records)
}

// NoticeKind categorizes the review notices raised while ingesting documents.
type NoticeKind string

const (
	// ClassificationAmbiguous is raised for records the classifier could not
	// categorize with certainty. The record is kept with its fallback category.
	ClassificationAmbiguous NoticeKind = "classification_ambiguous"
	// AddressMismatchNotice is raised when a document address differs from the
	// property address. The document is excluded by default.
	AddressMismatchNotice NoticeKind = "address_mismatch"
	// AddressPartialNotice is raised when a document address only partially
	// matches; the document stays included.
	AddressPartialNotice NoticeKind = "address_partial"
)

// Notice is a non fatal finding that requires the user attention.
type Notice struct {
	Kind     NoticeKind `json:"kind"`
	Document string     `json:"document"`
	Record   RecordKey  `json:"record,omitempty"`
	Message  string     `json:"message"`
}

func (n Notice) String() string {
	if n.Record != "" {
		return fmt.Sprintf("%s [%s] %s: %s", n.Document, n.Record, n.Kind, n.Message)
	}
	return fmt.Sprintf("%s %s: %s", n.Document, n.Kind, n.Message)
}
