package rentbook

import (
	"github.com/etnz/rentbook/date"
)

// Totals is the sum of every category over a range of months. It is derived
// from the ledger cells and never stored.
type Totals struct {
	Range      date.Range
	ByCategory map[Category]Money
}

// Get returns the signed total of a category, zero when the category has no cell.
func (t Totals) Get(c Category) Money { return t.ByCategory[c] }

// Section returns the signed total of a section.
func (t Totals) Section(s Section) Money {
	var total Money
	for _, c := range CategoriesOf(s) {
		total = total.Add(t.ByCategory[c])
	}
	return total
}

// KPIs computes the key performance indicators of the totals.
func (t Totals) KPIs() KPIs {
	// Expenses are recorded as outflows (negative), indicators work on magnitudes.
	return KPIInputs{
		Income:            t.Section(Income),
		OperatingExpenses: t.Section(Operating).Neg(),
		Utilities:         t.Section(Utilities).Neg(),
		Financing:         t.Section(Financing).Neg(),
		DebtService:       t.Get(MortgageRepayment).Neg(),
		EFT:               t.Get(NetEFT),
	}.Compute()
}

// KPIInputs are the aggregates the indicators derive from. Expenses are
// expressed as positive costs.
type KPIInputs struct {
	Income            Money
	OperatingExpenses Money
	Utilities         Money
	Financing         Money
	DebtService       Money // loan repayments, interest and principal
	EFT               Money // cash remitted by the managing agent
}

// KPIs are the derived indicators of a property (or portfolio) over a period.
type KPIs struct {
	KPIInputs
	NOI         Money // Income - OperatingExpenses
	NetProfit   Money // NOI - Financing - Utilities
	NetCashFlow Money // EFT - Utilities - DebtService
	NOIMargin   Ratio // NOI / Income
	DSCR        Ratio // NOI / DebtService, N/A without debt service
}

// Compute derives the indicators.
func (in KPIInputs) Compute() KPIs {
	noi := in.Income.Sub(in.OperatingExpenses)
	return KPIs{
		KPIInputs:   in,
		NOI:         noi,
		NetProfit:   noi.Sub(in.Financing).Sub(in.Utilities),
		NetCashFlow: in.EFT.Sub(in.Utilities).Sub(in.DebtService),
		NOIMargin:   RatioOf(noi, in.Income),
		DSCR:        RatioOf(noi, in.DebtService),
	}
}

// Add sums two sets of inputs, used to consolidate several properties.
func (in KPIInputs) Add(o KPIInputs) KPIInputs {
	return KPIInputs{
		Income:            in.Income.Add(o.Income),
		OperatingExpenses: in.OperatingExpenses.Add(o.OperatingExpenses),
		Utilities:         in.Utilities.Add(o.Utilities),
		Financing:         in.Financing.Add(o.Financing),
		DebtService:       in.DebtService.Add(o.DebtService),
		EFT:               in.EFT.Add(o.EFT),
	}
}
