// Package extract turns documents into raw records.
//
// Text is read from PDFs, spreadsheets, JSON and CSV exports or plain text,
// then each source type has its own layout: headed sections and summary lines
// for rental statements, one transaction per line for bank statements, a
// single total for bills and invoices. Extraction is a pure function of the
// document bytes.
package extract

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/etnz/rentbook"
	"github.com/etnz/rentbook/date"
)

// ParseSource tells how the records of a document were found.
type ParseSource string

const (
	FromText  ParseSource = "text"
	FromTable ParseSource = "table"
)

// Result is the outcome of a successful extraction.
type Result struct {
	Document   string // document id
	Name       string
	SourceType rentbook.SourceType
	Records    []rentbook.RawRecord
	// Address is the property address printed in the document, if any.
	Address string
	// Month is the month the document reports on, if detected.
	Month  date.Month
	Text   string
	Source ParseSource
}

// Extractor reads documents. The zero value is ready to use.
type Extractor struct {
	// JSONPath locates the transactions of JSON exports, DefaultJSONPath if
	// empty.
	JSONPath string
	// Currency of the amounts, AUD if empty.
	Currency string
}

func (e Extractor) currency() string {
	if e.Currency == "" {
		return "AUD"
	}
	return e.Currency
}

func (e Extractor) jsonPath() string {
	if e.JSONPath == "" {
		return DefaultJSONPath
	}
	return e.JSONPath
}

// Extract reads the records of a document. Failures are always an
// *rentbook.ExtractionError: the document needs manual entry.
func (e Extractor) Extract(doc Document) (*Result, error) {
	fail := func(reason string, err error) error {
		return &rentbook.ExtractionError{Document: doc.Name, Reason: reason, Err: err}
	}
	res := &Result{Document: doc.ID(), Name: doc.Name, SourceType: doc.SourceType}

	var rows [][]string
	var err error
	switch format := Sniff(doc.Name, doc.Data); format {
	case Image:
		return nil, fail("scanned image", rentbook.ErrNoTextLayer)
	case XLSX:
		rows, err = xlsxRows(doc.Data)
	case CSV:
		rows, err = csvRows(doc.Data)
	case JSON:
		rows, err = jsonRows(doc.Data, e.jsonPath())
	case PDF:
		res.Text, err = pdfText(doc.Data)
	default:
		if !utf8.Valid(doc.Data) {
			return nil, fail("binary content", rentbook.ErrNoTextLayer)
		}
		res.Text = string(doc.Data)
	}
	if err != nil {
		return nil, fail("unreadable document", err)
	}

	if rows != nil {
		res.Source = FromTable
		if res.SourceType == "" {
			res.SourceType = rentbook.Bank
		}
		res.Records = tableRecords(rows, e.currency())
		return e.finish(res, fail)
	}

	res.Source = FromText
	if strings.TrimSpace(res.Text) == "" {
		return nil, fail("empty text layer", rentbook.ErrNoTextLayer)
	}
	if res.SourceType == "" {
		res.SourceType = InferSourceType(res.Text)
	}
	res.Month, _ = DetectMonth(res.Text)
	if res.SourceType != rentbook.Bank {
		res.Address = ExtractAddress(res.Text)
	}
	switch res.SourceType {
	case rentbook.RentalStatement:
		if res.Month.IsZero() {
			return nil, fail("no statement period found", rentbook.ErrNoRecords)
		}
		res.Records = rentalRecords(res.Text, res.Month, e.currency())
	case rentbook.Bank:
		res.Records = bankRecords(res.Text, e.currency())
	case rentbook.Utility, rentbook.Invoice:
		res.Records = billRecords(res.Text, res.Month, e.currency())
	default:
		return nil, fail("unsupported source type "+string(res.SourceType), errors.ErrUnsupported)
	}
	return e.finish(res, fail)
}

// finish numbers the records and attributes them to their document.
func (e Extractor) finish(res *Result, fail func(string, error) error) (*Result, error) {
	if len(res.Records) == 0 {
		return nil, fail("no records", rentbook.ErrNoRecords)
	}
	for i := range res.Records {
		r := &res.Records[i]
		r.DocumentID = res.Document
		r.SourceType = res.SourceType
		r.Line = i
	}
	if res.Month.IsZero() {
		res.Month = res.Records[0].Month()
	}
	return res, nil
}
