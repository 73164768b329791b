package extract

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/rentbook"
	"github.com/xuri/excelize/v2"
)

// DefaultJSONPath locates the transactions of a JSON bank export.
const DefaultJSONPath = "$.transactions[*]"

// csvRows reads a delimited file. The delimiter is the most frequent of
// comma, semicolon and tab on the first line.
func csvRows(data []byte) ([][]string, error) {
	first, _, _ := bytes.Cut(data, []byte("\n"))
	delim := ','
	best := bytes.Count(first, []byte(","))
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(first, []byte(string(d))); n > best {
			delim, best = d, n
		}
	}
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot read CSV: %w", err)
	}
	return rows, nil
}

// xlsxRows reads the rows of the first sheet of a workbook.
func xlsxRows(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot open workbook: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheet")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("cannot read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// jsonRows locates the records of a JSON export with a JSONPath expression
// and turns them into a table, the header being the keys of the first
// record.
func jsonRows(data []byte, path string) ([][]string, error) {
	var jobj any
	if err := json.Unmarshal(data, &jobj); err != nil {
		return nil, fmt.Errorf("cannot decode JSON: %w", err)
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("cannot evaluate %q: %w", path, err)
	}
	list, ok := jval.([]any)
	if !ok {
		list = []any{jval}
	}
	var header []string
	var rows [][]string
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if header == nil {
			for k := range obj {
				header = append(header, k)
			}
			// column detection is by name, any stable order will do.
			slices.Sort(header)
			rows = append(rows, header)
		}
		row := make([]string, len(header))
		for i, k := range header {
			switch v := obj[k].(type) {
			case float64:
				row[i] = strconv.FormatFloat(v, 'f', -1, 64)
			case nil:
			default:
				row[i] = fmt.Sprint(v)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// columns locates the fields of a transaction table. A negative index means
// the column is absent.
type columns struct {
	date, desc, amount, debit, credit int
}

func (c columns) valid() bool {
	return c.date >= 0 && c.desc >= 0 && (c.amount >= 0 || c.debit >= 0 || c.credit >= 0)
}

// headerColumns matches column names. It reports false if the row is not a
// header.
func headerColumns(row []string) (columns, bool) {
	c := columns{-1, -1, -1, -1, -1}
	set := func(p *int, i int) {
		if *p < 0 {
			*p = i
		}
	}
	for i, cell := range row {
		h := strings.ToLower(strings.TrimSpace(cell))
		switch {
		case strings.Contains(h, "date"):
			set(&c.date, i)
		case strings.Contains(h, "debit"), strings.Contains(h, "withdraw"), h == "out":
			set(&c.debit, i)
		case strings.Contains(h, "credit"), strings.Contains(h, "deposit"), h == "in":
			set(&c.credit, i)
		case strings.Contains(h, "amount"), h == "value":
			set(&c.amount, i)
		case strings.Contains(h, "desc"), strings.Contains(h, "detail"), strings.Contains(h, "narr"),
			strings.Contains(h, "particular"), strings.Contains(h, "transaction"), strings.Contains(h, "memo"),
			strings.Contains(h, "payee"), h == "reference":
			set(&c.desc, i)
		}
	}
	return c, c.valid()
}

// positionalColumns is the layout of headerless exports: date, description,
// amount.
var positionalColumns = columns{date: 0, desc: 1, amount: 2, debit: -1, credit: -1}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// tableRecords maps the rows of a transaction table to records. Rows without
// a parsable date and amount are skipped.
func tableRecords(rows [][]string, currency string) []rentbook.RawRecord {
	if len(rows) == 0 {
		return nil
	}
	cols, ok := headerColumns(rows[0])
	if ok {
		rows = rows[1:]
	} else {
		cols = positionalColumns
	}
	var records []rentbook.RawRecord
	for _, row := range rows {
		on, err := ParseDate(cell(row, cols.date))
		if err != nil {
			continue
		}
		amount, ok := rowAmount(row, cols, currency)
		if !ok {
			continue
		}
		records = append(records, rentbook.RawRecord{
			Date:        on,
			Description: cell(row, cols.desc),
			Amount:      amount,
			Line:        len(records),
		})
	}
	return records
}

// rowAmount reads a signed amount, either from a signed amount column, or
// from a debit and a credit column.
func rowAmount(row []string, cols columns, currency string) (rentbook.Money, bool) {
	if s := cell(row, cols.amount); s != "" {
		m, err := ParseAmount(s, currency)
		return m, err == nil
	}
	if s := cell(row, cols.credit); s != "" {
		if m, err := ParseAmount(s, currency); err == nil && !m.IsZero() {
			return m.Abs(), true
		}
	}
	if s := cell(row, cols.debit); s != "" {
		if m, err := ParseAmount(s, currency); err == nil && !m.IsZero() {
			return m.Abs().Neg(), true
		}
	}
	return rentbook.Money{}, false
}
