package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/rentbook"
)

const sample = `
fy_start_month: 7
currency: aud
properties:
  - id: IP#1
    name: Smith St
    address: 12 Smith St, Parramatta NSW 2150
    purchase_price: 600000
    current_value: 800_000
    loan_balance: 500000.50
  - id: IP#2
    address: 3/4 King St, Newtown NSW 2042
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if cfg.FYStartMonth != time.July || cfg.Currency != "AUD" {
		t.Errorf("Parse() = %s %s, want July AUD", cfg.FYStartMonth, cfg.Currency)
	}
	if len(cfg.Properties) != 2 {
		t.Fatalf("Parse() has %d properties, want 2", len(cfg.Properties))
	}
	p := cfg.Properties[0]
	if got, want := *p.CurrentValue, rentbook.M(800000, "AUD"); !got.Equal(want) {
		t.Errorf("current value = %s, want %s", got, want)
	}
	if got, want := *p.LoanBalance, rentbook.M(500000.5, "AUD"); !got.Equal(want) {
		t.Errorf("loan balance = %s, want %s", got, want)
	}
	q := cfg.Properties[1]
	if q.Name != "IP#2" || q.PurchasePrice != nil {
		t.Errorf("second property = %+v, want its id as name and no purchase price", q)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", "properties: ["},
		{"month out of range", "fy_start_month: 13"},
		{"unknown month", "fy_start_month: smarch"},
		{"duplicate ids", "properties: [{id: a}, {id: a}]"},
		{"invalid amount", "properties: [{id: a, purchase_price: lots}]"},
		{"negative value", "properties: [{id: a, loan_balance: -1}]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Errorf("Parse(%q) expected an error", tt.yaml)
			}
		})
	}
}

func TestParse_MonthName(t *testing.T) {
	cfg, err := Parse([]byte("fy_start_month: January"))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if cfg.FYStartMonth != time.January {
		t.Errorf("FYStartMonth = %s, want January", cfg.FYStartMonth)
	}
}

func TestParse_EnvOverrides(t *testing.T) {
	t.Setenv(EnvFYStart, "apr")
	t.Setenv(EnvCurrency, "nzd")
	t.Setenv(EnvRules, "my-rules.yaml")
	cfg, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if cfg.FYStartMonth != time.April || cfg.Currency != "NZD" || cfg.Rules != "my-rules.yaml" {
		t.Errorf("Parse() = %s %s %q, want the environment values", cfg.FYStartMonth, cfg.Currency, cfg.Rules)
	}
	if got := cfg.Properties[0].PurchasePrice.Currency(); got != "NZD" {
		t.Errorf("purchase price currency = %s, want NZD", got)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rentbook.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	env := filepath.Join(dir, ".env")
	if err := os.WriteFile(env, []byte(EnvFYStart+"=1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv does not override variables already set.
	t.Setenv(EnvFYStart, "")
	os.Unsetenv(EnvFYStart)

	cfg, err := Load(path, env)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.FYStartMonth != time.January {
		t.Errorf("FYStartMonth = %s, want January from the .env file", cfg.FYStartMonth)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml"), env); err == nil {
		t.Error("Load() expected an error for a missing file")
	}
}
