package classify

import (
	"strings"
	"testing"

	"github.com/etnz/rentbook"
)

func record(t rentbook.SourceType, section, desc string, amount float64) rentbook.RawRecord {
	return rentbook.RawRecord{Description: desc, Amount: rentbook.M(amount, "AUD"), SourceType: t, Section: section}
}

func TestBankStrategy(t *testing.T) {
	c := Default()
	tests := []struct {
		desc    string
		amount  float64
		want    rentbook.Category
		verdict rentbook.Verdict
	}{
		{"STRATA MGMT QTR FEE", -450, rentbook.Strata, rentbook.Matched},
		{"Sydney Water Corp BPAY", -180.5, rentbook.Water, rentbook.Matched},
		{"WATER HEATER REPAIR", -600, rentbook.Repairs, rentbook.Matched},
		{"CARPET CLEAN BOND", -220, rentbook.Cleaning, rentbook.Matched},
		{"HOME LOAN REPAYMENT", -2400, rentbook.MortgageRepayment, rentbook.Matched},
		{"Interest charged", -1800, rentbook.MortgageInterest, rentbook.Matched},
		{"Ray White Rent Received", 2100, rentbook.RentIncome, rentbook.Matched},
		{"AGL GAS", -90, rentbook.Electricity, rentbook.Ambiguous},
		{"TRANSFER TO SAVINGS", -500, rentbook.OtherExpense, rentbook.Unmatched},
		{"REFUND", 12, rentbook.OtherIncome, rentbook.Unmatched},
		{"Rentals", -5, rentbook.OtherExpense, rentbook.Unmatched}, // whole words only
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, err := c.Classify(record(rentbook.Bank, "", tt.desc, tt.amount), "")
			if err != nil {
				t.Fatalf("Classify() unexpected error: %v", err)
			}
			if got.Category != tt.want || got.Verdict != tt.verdict {
				t.Errorf("Classify(%q) = %s/%s, want %s/%s", tt.desc, got.Category, got.Verdict, tt.want, tt.verdict)
			}
		})
	}
}

func TestRentalStrategy(t *testing.T) {
	c := Default()
	tests := []struct {
		section string
		desc    string
		want    rentbook.Category
		verdict rentbook.Verdict
	}{
		{rentbook.HeadingMoneyIn, "Rent 01/07 - 31/07", rentbook.RentIncome, rentbook.Matched},
		{rentbook.HeadingMoneyIn, "Water usage recovery", rentbook.RentIncome, rentbook.Matched},
		{rentbook.HeadingMoneyOut, "Management fee", rentbook.ManagementFee, rentbook.Matched},
		{rentbook.HeadingMoneyOut, "Commission", rentbook.ManagementFee, rentbook.Matched},
		{rentbook.HeadingMoneyOut, "Letting fee", rentbook.LettingFee, rentbook.Matched},
		{rentbook.HeadingBills, "Plumbing · Blocked drain kitchen", rentbook.Repairs, rentbook.Matched},
		{rentbook.HeadingBills, "Sundry", rentbook.OtherExpense, rentbook.Ambiguous},
		{rentbook.HeadingEFT, "Withdrawal by EFT to owner", rentbook.NetEFT, rentbook.Matched},
		{"", "Council rates", rentbook.CouncilRates, rentbook.Matched},
	}
	for _, tt := range tests {
		t.Run(tt.section+"/"+tt.desc, func(t *testing.T) {
			got, err := c.Classify(record(rentbook.RentalStatement, tt.section, tt.desc, -1), "")
			if err != nil {
				t.Fatalf("Classify() unexpected error: %v", err)
			}
			if got.Category != tt.want || got.Verdict != tt.verdict {
				t.Errorf("Classify(%q) = %s/%s, want %s/%s", tt.desc, got.Category, got.Verdict, tt.want, tt.verdict)
			}
		})
	}
}

func TestBillStrategy(t *testing.T) {
	c := Default()
	tests := []struct {
		source rentbook.SourceType
		text   string
		want   rentbook.Category
	}{
		{rentbook.Utility, "AGL Energy\nUsage 512 kWh\nTotal amount due $245.10", rentbook.Electricity},
		{rentbook.Utility, "Sydney Water\nWater usage charges\nAmount due $180.50", rentbook.Water},
		{rentbook.Utility, "Jemena\nGas usage 1200 MJ", rentbook.Gas},
		{rentbook.Utility, "Aussie Broadband NBN 100", rentbook.Internet},
		{rentbook.Invoice, "City of Parramatta\nRates and Charges Notice 2024/25", rentbook.CouncilRates},
		{rentbook.Invoice, "Revenue NSW\nLand tax assessment notice", rentbook.LandTax},
		{rentbook.Invoice, "Strata Plan 12345 Administrative Fund levy", rentbook.Strata},
		{rentbook.Invoice, "Landlord insurance policy renewal", rentbook.Insurance},
		{rentbook.Invoice, "TAX INVOICE Bob the Plumber", rentbook.Repairs},
	}
	for _, tt := range tests {
		name := strings.SplitN(tt.text, "\n", 2)[0]
		t.Run(name, func(t *testing.T) {
			got, err := c.Classify(record(tt.source, "", "bill total", -100), tt.text)
			if err != nil {
				t.Fatalf("Classify() unexpected error: %v", err)
			}
			if got.Category != tt.want || got.Verdict != rentbook.Matched {
				t.Errorf("Classify() = %s/%s, want %s/matched", got.Category, got.Verdict, tt.want)
			}
		})
	}

	got, _ := c.Classify(record(rentbook.Invoice, "", "bill total", -100), "Thank you for your business")
	if got.Category != rentbook.OtherExpense || got.Verdict != rentbook.Unmatched {
		t.Errorf("Classify() = %s/%s, want other_expense/unmatched", got.Category, got.Verdict)
	}
}

func TestClassifier_UnknownSource(t *testing.T) {
	if _, err := Default().Classify(record(rentbook.Manual, "", "x", 1), ""); err == nil {
		t.Error("Classify() expected an error for manual records")
	}
}

func TestClassify_Repeatable(t *testing.T) {
	c := Default()
	r := record(rentbook.Bank, "", "STRATA MGMT QTR FEE", -450)
	first, _ := c.Classify(r, "")
	for range 3 {
		if got, _ := c.Classify(r, ""); got != first {
			t.Fatalf("Classify() = %v, then %v", first, got)
		}
	}
}

func TestParseRules(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{"valid", "bank: [{category: water, keywords: [water]}]\nutility: [{category: gas, keywords: [gas]}]\ninvoice: [{category: strata, keywords: [levy]}]", false},
		{"unknown category", "bank: [{category: pool, keywords: [pool]}]\nutility: [{category: gas, keywords: [gas]}]\ninvoice: [{category: strata, keywords: [levy]}]", true},
		{"missing table", "bank: [{category: water, keywords: [water]}]", true},
		{"empty keyword", "bank: [{category: water, keywords: ['--']}]\nutility: [{category: gas, keywords: [gas]}]\ninvoice: [{category: strata, keywords: [levy]}]", true},
		{"not yaml", "bank: [", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRules(strings.NewReader(tt.yaml))
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadRules() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadRulesFile_Default(t *testing.T) {
	rs, err := LoadRulesFile("")
	if err != nil {
		t.Fatalf("LoadRulesFile() unexpected error: %v", err)
	}
	if len(rs.Bank) == 0 || len(rs.Utility) == 0 || len(rs.Invoice) == 0 {
		t.Errorf("LoadRulesFile() = %+v, want the embedded tables", rs)
	}
}
