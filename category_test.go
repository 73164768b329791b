package rentbook

import "testing"

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"strata", Strata, false},
		{"Strata / Body Corporate", Strata, false},
		{" mortgage_interest ", MortgageInterest, false},
		{"cash received (eft)", NetEFT, false},
		{"pool", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCategory(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCategory(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCategoriesOf(t *testing.T) {
	total := 0
	for _, s := range Sections {
		for _, c := range CategoriesOf(s) {
			if c.Section() != s {
				t.Errorf("%s.Section() = %s, want %s", c, c.Section(), s)
			}
			total++
		}
	}
	if got := len(Categories()); got != total {
		t.Errorf("sections hold %d categories, want %d", total, got)
	}
}

func TestFallbackCategory(t *testing.T) {
	if got := FallbackCategory(AUD(-0.01)); got != OtherExpense {
		t.Errorf("FallbackCategory(-0.01) = %q, want other_expense", got)
	}
	if got := FallbackCategory(AUD(0)); got != OtherIncome {
		t.Errorf("FallbackCategory(0) = %q, want other_income", got)
	}
}
