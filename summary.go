package rentbook

import (
	"fmt"

	"github.com/etnz/rentbook/date"
)

// PropertySummary holds the figures of one property over the summary period.
type PropertySummary struct {
	Property Property
	Totals   Totals
	KPIs     KPIs
	// Ratios are N/A when the property lacks the required input.
	GrossYield Ratio  // income / purchase price
	Yield      Ratio  // net profit / asset value
	LVR        Ratio  // loan balance / asset value
	Equity     *Money // asset value - loan balance, nil when unknown
}

// PortfolioSummary is the read only consolidation of several ledgers over a
// period. It owns no data: it is rebuilt from the ledgers on demand.
type PortfolioSummary struct {
	Range      date.Range
	Properties []PropertySummary
	Totals     Totals // per category, summed across properties
	KPIs       KPIs
	Yield      Ratio
	LVR        Ratio
	Equity     Money
	matrix     *Matrix
}

// Label names the summary period ("2024-25" or "2024").
func (s *PortfolioSummary) Label() string { return s.Range.Label() }

// Cell returns the portfolio total of a category for a month.
func (s *PortfolioSummary) Cell(c Category, month date.Month) Money { return s.matrix.Cell(c, month) }

// Months returns the months with data, across all properties.
func (s *PortfolioSummary) Months() []date.Month { return s.matrix.Months() }

// Summarize consolidates the ledgers over a range of months. Missing property
// financials only make that property ratios N/A; an inconsistent ledger fails
// the whole summary.
func Summarize(ledgers []*Ledger, r date.Range) (*PortfolioSummary, error) {
	currency := DefaultCurrency
	if len(ledgers) > 0 {
		currency = ledgers[0].Currency()
	}
	s := &PortfolioSummary{
		Range:  r,
		matrix: newMatrix("portfolio", currency),
	}

	var inputs KPIInputs
	var netProfit, assets, assetsWithLoan, loans, equity Money
	for _, l := range ledgers {
		if l.Currency() != currency {
			return nil, fmt.Errorf("property %q reports in %s, portfolio in %s", l.Property().ID, l.Currency(), currency)
		}
		m, err := l.Matrix()
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", l.Property().ID, err)
		}
		for k, v := range m.cells {
			s.matrix.cells[k] = s.matrix.cells[k].Add(v)
		}

		ps := summarizeProperty(l.Property(), m.Totals(r))
		s.Properties = append(s.Properties, ps)
		inputs = inputs.Add(ps.KPIs.KPIInputs)

		p := ps.Property
		if v := p.AssetValue(); v != nil {
			netProfit = netProfit.Add(ps.KPIs.NetProfit)
			assets = assets.Add(*v)
			if p.LoanBalance != nil {
				assetsWithLoan = assetsWithLoan.Add(*v)
				loans = loans.Add(*p.LoanBalance)
			}
		}
		if ps.Equity != nil {
			equity = equity.Add(*ps.Equity)
		}
	}
	s.Totals = s.matrix.Totals(r)
	s.KPIs = inputs.Compute()
	s.Yield = RatioOf(netProfit, assets)
	s.LVR = RatioOf(loans, assetsWithLoan)
	s.Equity = equity.In(currency)
	return s, nil
}

func summarizeProperty(p Property, t Totals) PropertySummary {
	ps := PropertySummary{
		Property:   p,
		Totals:     t,
		KPIs:       t.KPIs(),
		GrossYield: NA(),
		Yield:      NA(),
		LVR:        NA(),
	}
	if p.PurchasePrice != nil {
		ps.GrossYield = RatioOf(ps.KPIs.Income, *p.PurchasePrice)
	}
	value := p.AssetValue()
	if value == nil {
		return ps
	}
	ps.Yield = RatioOf(ps.KPIs.NetProfit, *value)
	if p.LoanBalance != nil {
		ps.LVR = RatioOf(*p.LoanBalance, *value)
		equity := value.Sub(*p.LoanBalance)
		ps.Equity = &equity
	}
	return ps
}
