package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/rentbook"
	md "github.com/nao1215/markdown"
)

// SummaryMarkdown renders the portfolio summary: one row per property with
// its indicators and ratios, the portfolio row, then the category totals.
func SummaryMarkdown(s *rentbook.PortfolioSummary) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Portfolio Summary %s", s.Label()))
	doc.PlainText(fmt.Sprintf("%d properties, %s to %s.", len(s.Properties), s.Range.From, s.Range.To))

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Property", "Income", "NOI", "Net Profit", "DSCR", "Gross Yield", "Net Yield", "LVR", "Equity"},
		Rows:   [][]string{},
	}
	for _, p := range s.Properties {
		table.Rows = append(table.Rows, []string{
			p.Property.Name,
			p.KPIs.Income.String(),
			p.KPIs.NOI.String(),
			p.KPIs.NetProfit.String(),
			p.KPIs.DSCR.Multiple(),
			p.GrossYield.String(),
			p.Yield.String(),
			p.LVR.String(),
			optional(p.Equity),
		})
	}
	table.Rows = append(table.Rows, []string{
		md.Bold("Portfolio"),
		md.Bold(s.KPIs.Income.String()),
		md.Bold(s.KPIs.NOI.String()),
		md.Bold(s.KPIs.NetProfit.String()),
		md.Bold(s.KPIs.DSCR.Multiple()),
		"",
		md.Bold(s.Yield.String()),
		md.Bold(s.LVR.String()),
		md.Bold(s.Equity.String()),
	})
	doc.H2("Properties")
	doc.Table(table)

	totals := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Category", s.Label()},
		Rows:      [][]string{},
	}
	for _, sec := range rentbook.Sections {
		for _, c := range rentbook.CategoriesOf(sec) {
			if v := s.Totals.Get(c); !v.IsZero() {
				totals.Rows = append(totals.Rows, []string{c.Label(), v.String()})
			}
		}
		if sec != rentbook.CashFlow {
			totals.Rows = append(totals.Rows, []string{md.Bold("Total " + sec.String()), md.Bold(amount(s.Totals.Section(sec)))})
		}
	}
	doc.H2("Totals")
	doc.Table(totals)

	return doc.String()
}
