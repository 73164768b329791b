package rentbook

import (
	"fmt"
	"strings"
)

// Category is a line of the profit and loss taxonomy. The set is closed: a
// classified record always carries exactly one of the categories below.
type Category string

const (
	RentIncome  Category = "rent_income"
	OtherIncome Category = "other_income"
	BillShare   Category = "bill_share"

	ManagementFee Category = "management_fee"
	LettingFee    Category = "letting_fee"
	CouncilRates  Category = "council_rates"
	LandTax       Category = "land_tax"
	Strata        Category = "strata"
	Insurance     Category = "insurance"
	Repairs       Category = "repairs"
	Cleaning      Category = "cleaning"
	Advertising   Category = "advertising"
	OtherExpense  Category = "other_expense"

	Electricity Category = "electricity"
	Water       Category = "water"
	Gas         Category = "gas"
	Internet    Category = "internet"

	MortgageInterest Category = "mortgage_interest"

	NetEFT            Category = "net_eft"
	MortgageRepayment Category = "mortgage_repayment"
	PrincipalRepaid   Category = "principal_repaid"
)

// Section groups categories into the blocks of the P&L.
type Section string

const (
	Income    Section = "income"
	Operating Section = "operating"
	Utilities Section = "utilities"
	Financing Section = "financing"
	CashFlow  Section = "cash_flow"
)

// Sections lists the P&L sections in presentation order.
var Sections = []Section{Income, Operating, Utilities, Financing, CashFlow}

func (s Section) String() string {
	switch s {
	case Income:
		return "Income"
	case Operating:
		return "Operating Expenses"
	case Utilities:
		return "Utilities"
	case Financing:
		return "Financing"
	case CashFlow:
		return "Cash Flow"
	}
	return string(s)
}

type categoryInfo struct {
	label   string
	section Section
}

// categories holds every category in presentation order.
var categories = []Category{
	RentIncome, OtherIncome, BillShare,
	ManagementFee, LettingFee, CouncilRates, LandTax, Strata, Insurance, Repairs, Cleaning, Advertising, OtherExpense,
	Electricity, Water, Gas, Internet,
	MortgageInterest,
	NetEFT, MortgageRepayment, PrincipalRepaid,
}

var categoryInfos = map[Category]categoryInfo{
	RentIncome:        {"Rental Income", Income},
	OtherIncome:       {"Other Income", Income},
	BillShare:         {"Excess Bill Shares", Income},
	ManagementFee:     {"Management Fees", Operating},
	LettingFee:        {"Letting Fees", Operating},
	CouncilRates:      {"Council Rates", Operating},
	LandTax:           {"Land Tax", Operating},
	Strata:            {"Strata / Body Corporate", Operating},
	Insurance:         {"Building Insurance", Operating},
	Repairs:           {"Maintenance & Repairs", Operating},
	Cleaning:          {"Cleaning", Operating},
	Advertising:       {"Advertising", Operating},
	OtherExpense:      {"Miscellaneous", Operating},
	Electricity:       {"Electricity", Utilities},
	Water:             {"Water", Utilities},
	Gas:               {"Gas", Utilities},
	Internet:          {"Internet", Utilities},
	MortgageInterest:  {"Mortgage Interest", Financing},
	NetEFT:            {"Cash Received (EFT)", CashFlow},
	MortgageRepayment: {"Less: Mortgage Repayment", CashFlow},
	PrincipalRepaid:   {"Principal Repaid", CashFlow},
}

// Categories returns all categories in presentation order.
func Categories() []Category { return append([]Category(nil), categories...) }

// CategoriesOf returns the categories of a section in presentation order.
func CategoriesOf(s Section) []Category {
	var res []Category
	for _, c := range categories {
		if categoryInfos[c].section == s {
			res = append(res, c)
		}
	}
	return res
}

// Valid reports whether c belongs to the closed set of categories.
func (c Category) Valid() bool {
	_, ok := categoryInfos[c]
	return ok
}

// Section returns the P&L section of the category.
func (c Category) Section() Section { return categoryInfos[c].section }

// Label returns the human readable row label of the category.
func (c Category) Label() string {
	if info, ok := categoryInfos[c]; ok {
		return info.label
	}
	return string(c)
}

// ParseCategory accepts a category identifier ("strata") or its row label
// ("Strata / Body Corporate"), case insensitive.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if c := Category(strings.ToLower(s)); c.Valid() {
		return c, nil
	}
	for _, c := range categories {
		if strings.EqualFold(categoryInfos[c].label, s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// FallbackCategory is the category given to a record no rule recognizes:
// other_expense for an outflow, other_income otherwise.
func FallbackCategory(amount Money) Category {
	if amount.IsNegative() {
		return OtherExpense
	}
	return OtherIncome
}
