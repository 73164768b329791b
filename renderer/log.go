package renderer

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/etnz/rentbook"
	"github.com/etnz/rentbook/pipeline"
	"github.com/etnz/rentbook/store"
	md "github.com/nao1215/markdown"
)

// IngestMarkdown renders the outcome of an ingestion batch: the processed
// documents, the change log of the ledgers and the notices to review.
func IngestMarkdown(r *pipeline.Report) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Ingestion")
	doc.PlainText(r.String() + ".")

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignLeft,
		},
		Header: []string{"Document", "Property", "Type", "Status", "Records", "Address"},
		Rows:   [][]string{},
	}
	for _, d := range r.Documents {
		address := string(d.Address.Verdict)
		if address == "" {
			address = "-"
		}
		table.Rows = append(table.Rows, []string{
			cellText(d.Name),
			d.Property,
			string(d.SourceType),
			string(d.Status),
			fmt.Sprint(len(d.Records)),
			address,
		})
	}
	doc.H2("Documents")
	doc.Table(table)

	var failures []string
	for _, d := range r.Documents {
		if d.Err == nil {
			continue
		}
		reason := d.Err.Error()
		var xerr *rentbook.ExtractionError
		if errors.As(d.Err, &xerr) {
			reason = xerr.Reason
		}
		failures = append(failures, fmt.Sprintf("%s: %s", d.Name, reason))
	}
	if len(failures) > 0 {
		doc.H2("Needs Manual Entry")
		doc.BulletList(failures...)
	}

	if len(r.Changes) > 0 {
		doc.H2("Changes")
		doc.Table(ChangesTable(r.Changes))
	}

	if notices := r.Notices(); len(notices) > 0 {
		var lines []string
		for _, n := range notices {
			lines = append(lines, n.String())
		}
		doc.H2("Notices")
		doc.BulletList(lines...)
	}
	return doc.String()
}

// ChangesTable is the change log of a merge, one row per touched cell.
func ChangesTable(changes []rentbook.Change) md.TableSet {
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Status", "Property", "Month", "Category", "Old", "New"},
		Rows:   [][]string{},
	}
	for _, c := range changes {
		old, category := amount(c.Old), c.Category.Label()
		switch c.Status {
		case rentbook.NewMonth:
			old, category = "-", fmt.Sprintf("%d items", c.Items)
		case rentbook.Added:
			old = "-"
		}
		table.Rows = append(table.Rows, []string{
			string(c.Status),
			c.Property,
			c.Month.String(),
			category,
			old,
			amount(c.New),
		})
	}
	return table
}

// PendingMarkdown lists the documents whose extraction failed and that need
// a manual entry.
func PendingMarkdown(docs []store.Document) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Pending Documents")
	if len(docs) == 0 {
		doc.PlainText("No document needs manual entry.")
		return doc.String()
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
		},
		Header: []string{"Document", "Property", "Type", "Error", "Processed"},
		Rows:   [][]string{},
	}
	for _, d := range docs {
		table.Rows = append(table.Rows, []string{
			cellText(d.Name),
			d.Property,
			string(d.SourceType),
			cellText(d.Error),
			d.ProcessedAt.Format("2006-01-02 15:04"),
		})
	}
	doc.Table(table)
	return doc.String()
}
