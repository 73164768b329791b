package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/rentbook"
	md "github.com/nao1215/markdown"
)

// ReviewMarkdown lists the records of a ledger that need the user attention:
// uncertain categories and address mismatches. Each row carries the record
// key to use with include and exclude.
func ReviewMarkdown(l *rentbook.Ledger) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	p := l.Property()
	doc.H1(fmt.Sprintf("Review %s", p.Name))
	records := l.Review()
	if len(records) == 0 {
		doc.PlainText("Nothing to review.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
		},
		Header: []string{"Key", "Date", "Description", "Amount", "Category", "Verdict", "Address", "Included"},
		Rows:   [][]string{},
	}
	overrides := l.Overrides()
	for _, r := range records {
		included := "no"
		if l.Included(r) {
			included = "yes"
		}
		if _, ok := overrides[r.Key()]; ok {
			included += " (override)"
		}
		address := string(r.Address)
		if address == "" {
			address = "-"
		}
		table.Rows = append(table.Rows, []string{
			"`" + string(r.Key()) + "`",
			r.Date.String(),
			cellText(r.Description),
			r.Amount.String(),
			r.Category.Label(),
			string(r.Verdict),
			address,
			included,
		})
	}
	doc.PlainText(fmt.Sprintf("%d records to review.", len(records)))
	doc.Table(table)
	return doc.String()
}
