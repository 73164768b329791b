package rentbook

import (
	"time"

	"github.com/etnz/rentbook/date"
)

// AUD is a helper for test to create money from const.
func AUD(v float64) Money { return M(v, "AUD") }

// month is a helper for test to create a month.
func month(y int, m time.Month) date.Month { return date.NewMonth(y, m) }

// testConfig is a single property portfolio with an July fiscal year.
func testConfig() Config {
	price, value, loan := AUD(600000), AUD(800000), AUD(500000)
	return Config{
		FYStartMonth: time.July,
		Currency:     "AUD",
		Properties: []Property{{
			ID:            "IP#1",
			Name:          "12 Smith St",
			Address:       "12 Smith St, Parramatta NSW 2150",
			PurchasePrice: &price,
			CurrentValue:  &value,
			LoanBalance:   &loan,
		}},
	}
}

// rec is a helper for test to create a classified record of the first property.
func rec(doc string, line int, on date.Date, c Category, amount float64) ClassifiedRecord {
	return ClassifiedRecord{
		RawRecord: RawRecord{
			Date:        on,
			Description: c.Label(),
			Amount:      AUD(amount),
			DocumentID:  doc,
			SourceType:  Bank,
			Line:        line,
		},
		Category: c,
		Verdict:  Matched,
		Property: "IP#1",
		Included: true,
	}
}
