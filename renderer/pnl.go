// Package renderer formats ledgers, summaries and ingestion logs as markdown.
package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/rentbook"
	"github.com/etnz/rentbook/date"
	md "github.com/nao1215/markdown"
)

// PnLMarkdown renders the profit and loss statement of a property over a
// year long range: one column per month, one row per category with data,
// the section totals and the key figures of the period.
func PnLMarkdown(l *rentbook.Ledger, r date.Range) (string, error) {
	m, err := l.Matrix()
	if err != nil {
		return "", err
	}
	totals := m.Totals(r)
	p := l.Property()

	var b strings.Builder
	title := md.NewMarkdown(io.Discard)
	title.H1(fmt.Sprintf("%s P&L %s", p.Name, r.Label()))
	if p.Address != "" {
		title.PlainText(p.Address)
	}
	b.WriteString(title.String())

	months := make([]date.Month, 0, r.Len())
	for month := range r.Months() {
		months = append(months, month)
	}

	written := false
	for _, s := range rentbook.Sections {
		ConditionalBlock(&b, func(w io.Writer) bool {
			ok := renderSection(w, m, totals, s, months, r)
			written = written || ok
			return ok
		})
	}
	if !written {
		b.WriteString(md.NewMarkdown(io.Discard).PlainText("No data for this period.").String())
		return b.String(), nil
	}
	b.WriteString(kpiTable(totals.KPIs()))
	return b.String(), nil
}

// renderSection writes the table of a P&L section. It reports false when the
// section has no data over the range.
func renderSection(w io.Writer, m *rentbook.Matrix, totals rentbook.Totals, s rentbook.Section, months []date.Month, r date.Range) bool {
	header := []string{s.String()}
	align := []md.TableAlignment{md.AlignLeft}
	for _, month := range months {
		header = append(header, monthHeader(month))
		align = append(align, md.AlignRight)
	}
	header = append(header, r.Label())
	align = append(align, md.AlignRight)

	table := md.TableSet{Alignment: align, Header: header, Rows: [][]string{}}
	sum := make([]rentbook.Money, len(months))
	for _, c := range rentbook.CategoriesOf(s) {
		values := m.Row(c, r)
		if allZero(values) {
			continue
		}
		row := []string{c.Label()}
		for i, v := range values {
			row = append(row, amount(v))
			sum[i] = sum[i].Add(v)
		}
		table.Rows = append(table.Rows, append(row, amount(totals.Get(c))))
	}
	if len(table.Rows) == 0 {
		return false
	}

	if s == rentbook.CashFlow {
		// EFT less the utilities and the loan repayments paid by the owner.
		row := []string{md.Bold("Net Cash Flow")}
		for _, month := range months {
			v := m.Cell(rentbook.NetEFT, month).Add(m.Cell(rentbook.MortgageRepayment, month))
			for _, c := range rentbook.CategoriesOf(rentbook.Utilities) {
				v = v.Add(m.Cell(c, month))
			}
			row = append(row, md.Bold(amount(v)))
		}
		row = append(row, md.Bold(amount(totals.KPIs().NetCashFlow)))
		table.Rows = append(table.Rows, row)
	} else {
		row := []string{md.Bold("Total " + s.String())}
		for _, v := range sum {
			row = append(row, md.Bold(amount(v)))
		}
		row = append(row, md.Bold(amount(totals.Section(s))))
		table.Rows = append(table.Rows, row)
	}

	doc := md.NewMarkdown(io.Discard)
	doc.H2(s.String())
	doc.Table(table)
	io.WriteString(w, doc.String())
	return true
}

func allZero(row []rentbook.Money) bool {
	for _, v := range row {
		if !v.IsZero() {
			return false
		}
	}
	return true
}

// kpiTable renders the key figures of a period. Costs are shown as positive
// amounts.
func kpiTable(k rentbook.KPIs) string {
	doc := md.NewMarkdown(io.Discard)
	doc.H2("Key Figures")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Figure", "Value"},
		Rows: [][]string{
			{"Income", k.Income.String()},
			{"Operating Expenses", k.OperatingExpenses.String()},
			{md.Bold("Net Operating Income"), md.Bold(k.NOI.String())},
			{"NOI Margin", k.NOIMargin.String()},
			{"Financing", k.Financing.String()},
			{"Utilities", k.Utilities.String()},
			{md.Bold("Net Profit"), md.Bold(k.NetProfit.String())},
			{"Debt Service", k.DebtService.String()},
			{"DSCR", k.DSCR.Multiple()},
			{"Cash Received (EFT)", k.EFT.String()},
			{md.Bold("Net Cash Flow"), md.Bold(k.NetCashFlow.String())},
		},
	})
	return doc.String()
}
