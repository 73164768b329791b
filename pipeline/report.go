package pipeline

import (
	"errors"
	"fmt"

	"github.com/etnz/rentbook"
	"github.com/etnz/rentbook/address"
	"github.com/etnz/rentbook/extract"
)

// Status is the outcome of processing one document.
type Status string

const (
	Parsed  Status = "parsed"
	Failed  Status = "failed"  // needs manual entry
	Skipped Status = "skipped" // already ingested
)

// DocumentReport is the outcome of processing one document.
type DocumentReport struct {
	Document   string // document id
	Name       string
	Property   string
	SourceType rentbook.SourceType
	Status     Status
	Source     extract.ParseSource
	// Address is the comparison of the document address with the property
	// address, zero for bank statements.
	Address address.Result
	Records []rentbook.ClassifiedRecord
	Notices []rentbook.Notice
	Err     error
}

// Report lists the outcome of a batch, in submission order, and the changes
// made to the ledgers.
type Report struct {
	Documents []DocumentReport
	Changes   []rentbook.Change
}

// Err joins the errors of the failed documents.
func (r *Report) Err() error {
	var errs []error
	for _, d := range r.Documents {
		if d.Err != nil {
			errs = append(errs, d.Err)
		}
	}
	return errors.Join(errs...)
}

// Notices returns the review notices of all documents.
func (r *Report) Notices() []rentbook.Notice {
	var notices []rentbook.Notice
	for _, d := range r.Documents {
		notices = append(notices, d.Notices...)
	}
	return notices
}

// Count returns the number of documents with the given status.
func (r *Report) Count(s Status) int {
	n := 0
	for _, d := range r.Documents {
		if d.Status == s {
			n++
		}
	}
	return n
}

func (r *Report) String() string {
	return fmt.Sprintf("%d parsed, %d failed, %d skipped, %d changes, %d notices",
		r.Count(Parsed), r.Count(Failed), r.Count(Skipped), len(r.Changes), len(r.Notices()))
}
