package extract

import (
	"errors"
	"testing"
	"time"

	"github.com/etnz/rentbook"
	"github.com/etnz/rentbook/date"
	"github.com/xuri/excelize/v2"
)

func aud(v float64) rentbook.Money { return rentbook.M(v, "AUD") }

type wantRecord struct {
	on      date.Date
	desc    string
	amount  float64
	section string
}

func checkRecords(t *testing.T, got []rentbook.RawRecord, wants []wantRecord) {
	t.Helper()
	if len(got) != len(wants) {
		t.Fatalf("got %d records %v, want %d", len(got), got, len(wants))
	}
	for i, w := range wants {
		r := got[i]
		if r.Date != w.on {
			t.Errorf("record #%d date = %s, want %s", i, r.Date, w.on)
		}
		if r.Description != w.desc {
			t.Errorf("record #%d description = %q, want %q", i, r.Description, w.desc)
		}
		if !r.Amount.Equal(aud(w.amount)) {
			t.Errorf("record #%d amount = %s, want %s", i, r.Amount, aud(w.amount))
		}
		if r.Section != w.section {
			t.Errorf("record #%d section = %q, want %q", i, r.Section, w.section)
		}
		if r.Line != i {
			t.Errorf("record #%d line = %d", i, r.Line)
		}
	}
}

func TestExtract_BankText(t *testing.T) {
	doc := Document{Name: "jan.txt", Data: []byte(`Date Description Amount Balance
15/01/2024 STRATA MGMT QTR FEE -450.00 12,550.00
16/01/2024 RENT RECEIVED 2,100.00 14,650.00
17/01/2024 SYDNEY WATER 180.50 14,469.50
18/01/2024 BANK FEE (12.00) 14,457.50
`)}
	res, err := Extractor{}.Extract(doc)
	if err != nil {
		t.Fatalf("Extract() unexpected error: %v", err)
	}
	if res.SourceType != rentbook.Bank || res.Source != FromText {
		t.Errorf("Extract() = %s from %s, want bank from text", res.SourceType, res.Source)
	}
	if res.Address != "" {
		t.Errorf("Extract() address = %q, want none for a bank statement", res.Address)
	}
	if got, want := res.Month, date.NewMonth(2024, time.January); got != want {
		t.Errorf("Extract() month = %s, want %s", got, want)
	}
	checkRecords(t, res.Records, []wantRecord{
		{date.New(2024, time.January, 15), "STRATA MGMT QTR FEE", -450, ""},
		{date.New(2024, time.January, 16), "RENT RECEIVED", 2100, ""},
		{date.New(2024, time.January, 17), "SYDNEY WATER", -180.5, ""},
		{date.New(2024, time.January, 18), "BANK FEE", -12, ""},
	})
	for _, r := range res.Records {
		if r.DocumentID != doc.ID() || r.SourceType != rentbook.Bank {
			t.Errorf("record %v not attributed to its document", r)
		}
	}
}

func TestExtract_BankTextWithBillPayments(t *testing.T) {
	doc := Document{Name: "feb.txt", Data: []byte(`15/01/2024 STRATA MGMT QTR FEE -450.00 12,550.00
20/01/2024 AGL ELECTRICITY -120.00 12,430.00
21/01/2024 TELSTRA NBN BROADBAND -89.00 12,341.00
`)}
	res, err := Extractor{}.Extract(doc)
	if err != nil {
		t.Fatalf("Extract() unexpected error: %v", err)
	}
	if res.SourceType != rentbook.Bank {
		t.Errorf("Extract() type = %s, want bank", res.SourceType)
	}
	checkRecords(t, res.Records, []wantRecord{
		{date.New(2024, time.January, 15), "STRATA MGMT QTR FEE", -450, ""},
		{date.New(2024, time.January, 20), "AGL ELECTRICITY", -120, ""},
		{date.New(2024, time.January, 21), "TELSTRA NBN BROADBAND", -89, ""},
	})
}

func TestExtract_CSV(t *testing.T) {
	doc := Document{Name: "export.csv", Data: []byte("Date,Description,Debit,Credit\n" +
		"15/01/2024,STRATA MGMT QTR FEE,450.00,\n" +
		"16/01/2024,RENT,,\"2,100.00\"\n" +
		"not a date,ignored,1.00,\n")}
	res, err := Extractor{}.Extract(doc)
	if err != nil {
		t.Fatalf("Extract() unexpected error: %v", err)
	}
	if res.Source != FromTable {
		t.Errorf("Extract() source = %s, want table", res.Source)
	}
	checkRecords(t, res.Records, []wantRecord{
		{date.New(2024, time.January, 15), "STRATA MGMT QTR FEE", -450, ""},
		{date.New(2024, time.January, 16), "RENT", 2100, ""},
	})
}

func TestExtract_CSVSemicolonWithoutHeader(t *testing.T) {
	doc := Document{Name: "export.csv", Data: []byte("2024-01-15;STRATA MGMT QTR FEE;-450.00\n")}
	res, err := Extractor{}.Extract(doc)
	if err != nil {
		t.Fatalf("Extract() unexpected error: %v", err)
	}
	checkRecords(t, res.Records, []wantRecord{
		{date.New(2024, time.January, 15), "STRATA MGMT QTR FEE", -450, ""},
	})
}

func TestExtract_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]any{
		{"Date", "Narrative", "Amount"},
		{"15/01/2024", "STRATA MGMT QTR FEE", "-450.00"},
		{"20/01/2024", "Rent", "2100"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("SetSheetRow() unexpected error: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer() unexpected error: %v", err)
	}

	res, err := Extractor{}.Extract(Document{Name: "export.xlsx", Data: buf.Bytes()})
	if err != nil {
		t.Fatalf("Extract() unexpected error: %v", err)
	}
	checkRecords(t, res.Records, []wantRecord{
		{date.New(2024, time.January, 15), "STRATA MGMT QTR FEE", -450, ""},
		{date.New(2024, time.January, 20), "Rent", 2100, ""},
	})
}

func TestExtract_JSON(t *testing.T) {
	data := []byte(`{"account": "123", "transactions": [
		{"date": "2024-01-15", "description": "STRATA MGMT QTR FEE", "amount": -450},
		{"date": "2024-01-20", "description": "Rent", "amount": 2100.5}
	]}`)
	res, err := Extractor{}.Extract(Document{Name: "export.json", Data: data})
	if err != nil {
		t.Fatalf("Extract() unexpected error: %v", err)
	}
	checkRecords(t, res.Records, []wantRecord{
		{date.New(2024, time.January, 15), "STRATA MGMT QTR FEE", -450, ""},
		{date.New(2024, time.January, 20), "Rent", 2100.5, ""},
	})

	data = []byte(`{"data": {"items": [{"date": "15/01/2024", "memo": "Water", "value": "-80.00"}]}}`)
	res, err = Extractor{JSONPath: "$.data.items[*]"}.Extract(Document{Name: "export.json", Data: data})
	if err != nil {
		t.Fatalf("Extract() with a custom path unexpected error: %v", err)
	}
	checkRecords(t, res.Records, []wantRecord{
		{date.New(2024, time.January, 15), "Water", -80, ""},
	})
}

func TestExtract_RentalItemised(t *testing.T) {
	doc := Document{Name: "statement.txt", Data: []byte(`Rental statement
Property: 12 Smith St, Parramatta NSW 2150
Statement period: 1 Jan 2024 - 31 Jan 2024
Money In
Rent 01/01 - 31/01 2,100.00
Money Out
Management fee 184.80
Bills
Plumbing · Blocked drain 220.00
Total bills 220.00
EFT
Withdrawal by EFT to owner 1,695.20
`)}
	res, err := Extractor{}.Extract(doc)
	if err != nil {
		t.Fatalf("Extract() unexpected error: %v", err)
	}
	if res.SourceType != rentbook.RentalStatement {
		t.Errorf("Extract() type = %s, want rental_statement", res.SourceType)
	}
	if got, want := res.Address, "12 Smith St, Parramatta NSW 2150"; got != want {
		t.Errorf("Extract() address = %q, want %q", got, want)
	}
	end := date.New(2024, time.January, 31)
	checkRecords(t, res.Records, []wantRecord{
		{end, "Rent 01/01 - 31/01", 2100, rentbook.HeadingMoneyIn},
		{end, "Management fee", -184.8, rentbook.HeadingMoneyOut},
		{end, "Plumbing · Blocked drain", -220, rentbook.HeadingBills},
		{end, "Withdrawal by EFT to owner", 1695.2, rentbook.HeadingEFT},
	})
}

func TestExtract_RentalSummary(t *testing.T) {
	doc := Document{Name: "statement.txt", Data: []byte(`Owner statement
Premises: 12 Smith St, Parramatta NSW 2150
Period ending 29/02/2024
Money in: $2,100.00
Money out: $184.80
You received: $1,915.20
`)}
	res, err := Extractor{}.Extract(doc)
	if err != nil {
		t.Fatalf("Extract() unexpected error: %v", err)
	}
	if got, want := res.Address, "12 Smith St, Parramatta NSW 2150"; got != want {
		t.Errorf("Extract() address = %q, want %q", got, want)
	}
	end := date.New(2024, time.February, 29)
	checkRecords(t, res.Records, []wantRecord{
		{end, "Money in", 2100, rentbook.HeadingMoneyIn},
		{end, "Money out", -184.8, rentbook.HeadingMoneyOut},
		{end, "You received", 1915.2, rentbook.HeadingEFT},
	})
}

func TestExtract_Ownership(t *testing.T) {
	doc := Document{Name: "ownership.txt", Data: []byte(`Ownership statement March 2024
Overview
Income $780.00 $0.00 $780.00
Total paid in agency fees $85.80
Plumbing · Leaking tap, invoice 123 $120.00
Management fees · March $85.80
Room 1, 12 Smith St, Parramatta NSW 2150 Net income: $300.00
Room 2, 12 Smith St, Parramatta NSW 2150 Net income: $274.20
`)}
	res, err := Extractor{}.Extract(doc)
	if err != nil {
		t.Fatalf("Extract() unexpected error: %v", err)
	}
	if got, want := res.Address, "12 Smith St, Parramatta NSW 2150"; got != want {
		t.Errorf("Extract() address = %q, want %q", got, want)
	}
	end := date.New(2024, time.March, 31)
	checkRecords(t, res.Records, []wantRecord{
		{end, "Income", 780, rentbook.HeadingMoneyIn},
		{end, "Agency fees", -85.8, rentbook.HeadingMoneyOut},
		{end, "Plumbing · Leaking tap, invoice 123", -120, rentbook.HeadingBills},
		{end, "Net income", 574.2, rentbook.HeadingEFT},
	})
}

func TestExtract_Bill(t *testing.T) {
	doc := Document{Name: "agl.txt", Data: []byte(`AGL Energy
Supply address: 12 Smith St, Parramatta NSW 2150
Issue date: 05/02/2024
Electricity usage 512 kWh
Total amount due $245.10
`)}
	res, err := Extractor{}.Extract(doc)
	if err != nil {
		t.Fatalf("Extract() unexpected error: %v", err)
	}
	if res.SourceType != rentbook.Utility {
		t.Errorf("Extract() type = %s, want utility", res.SourceType)
	}
	if got, want := res.Address, "12 Smith St, Parramatta NSW 2150"; got != want {
		t.Errorf("Extract() address = %q, want %q", got, want)
	}
	checkRecords(t, res.Records, []wantRecord{
		{date.New(2024, time.February, 5), "AGL Energy", -245.1, ""},
	})
}

func TestExtract_Failures(t *testing.T) {
	tests := []struct {
		name  string
		doc   Document
		cause error
	}{
		{"scanned image", Document{Name: "scan.png", Data: []byte("\x89PNG\r\n\x1a\n....")}, rentbook.ErrNoTextLayer},
		{"empty text", Document{Name: "empty.txt", Data: []byte("  \n\n")}, rentbook.ErrNoTextLayer},
		{"no records", Document{Name: "letter.txt", Data: []byte("Dear owner, nothing to report.")}, rentbook.ErrNoRecords},
		{"rental without period", Document{Name: "s.txt", Data: []byte("Rental statement\nMoney in: $100.00"), SourceType: rentbook.RentalStatement}, rentbook.ErrNoRecords},
		{"empty table", Document{Name: "e.csv", Data: []byte("Date,Description,Amount\n")}, rentbook.ErrNoRecords},
		{"malformed pdf", Document{Name: "bad.pdf", Data: []byte("%PDF-1.4 truncated")}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extractor{}.Extract(tt.doc)
			var xerr *rentbook.ExtractionError
			if !errors.As(err, &xerr) {
				t.Fatalf("Extract() error = %v, want an ExtractionError", err)
			}
			if xerr.Document != tt.doc.Name {
				t.Errorf("ExtractionError.Document = %q, want %q", xerr.Document, tt.doc.Name)
			}
			if tt.cause != nil && !errors.Is(err, tt.cause) {
				t.Errorf("Extract() error = %v, want cause %v", err, tt.cause)
			}
		})
	}
}

func TestExtract_Deterministic(t *testing.T) {
	doc := Document{Name: "jan.txt", Data: []byte("15/01/2024 STRATA MGMT QTR FEE -450.00\n")}
	first, err := Extractor{}.Extract(doc)
	if err != nil {
		t.Fatalf("Extract() unexpected error: %v", err)
	}
	again, _ := Extractor{}.Extract(Document{Name: "copy.txt", Data: doc.Data})
	if first.Document != again.Document || first.Records[0].Key() != again.Records[0].Key() {
		t.Errorf("Extract() ids differ: %s vs %s", first.Records[0].Key(), again.Records[0].Key())
	}
	other := Document{Name: "jan.txt", Data: []byte("15/01/2024 STRATA MGMT QTR FEE -451.00\n")}
	if doc.ID() == other.ID() {
		t.Errorf("ID() is the same for different content")
	}
}

func TestSniff(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Format
	}{
		{"a.bin", "%PDF-1.7", PDF},
		{"a.bin", "PK\x03\x04", XLSX},
		{"a.bin", "  {\"a\": 1}", JSON},
		{"a.bin", "[]", JSON},
		{"a.csv", "a,b", CSV},
		{"a.TSV", "a\tb", CSV},
		{"a.txt", "hello", Text},
		{"scan.jpg", "", Image},
		{"a.bin", "\xff\xd8\xff\xe0", Image},
	}
	for _, tt := range tests {
		if got := Sniff(tt.name, []byte(tt.data)); got != tt.want {
			t.Errorf("Sniff(%q, %q) = %s, want %s", tt.name, tt.data, got, tt.want)
		}
	}
}
