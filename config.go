package rentbook

import (
	"errors"
	"fmt"
	"time"

	"github.com/etnz/rentbook/date"
)

// Property is the configuration of one real-estate property.
type Property struct {
	ID      string `json:"id"`   // short identifier, e.g. "IP#1"
	Name    string `json:"name"` // display name
	Address string `json:"address,omitempty"`
	// Financial inputs of the portfolio summary. They are optional: a nil
	// value yields N/A ratios for the property.
	PurchasePrice *Money `json:"purchase_price"`
	CurrentValue  *Money `json:"current_value"`
	LoanBalance   *Money `json:"loan_balance"`
}

// AssetValue is the current value, or the purchase price when the current
// value is unknown.
func (p Property) AssetValue() *Money {
	if p.CurrentValue != nil {
		return p.CurrentValue
	}
	return p.PurchasePrice
}

// Config holds everything the pipeline needs to know about the portfolio.
// It is passed explicitly to each component.
type Config struct {
	FYStartMonth time.Month `json:"fy_start_month"`
	Currency     string     `json:"currency"`
	Properties   []Property `json:"properties"`
}

// DefaultConfig is an Australian fiscal year (July to June) in AUD.
func DefaultConfig() Config {
	return Config{FYStartMonth: time.July, Currency: DefaultCurrency}
}

// Property returns the configuration of the property with the given id.
func (c Config) Property(id string) (Property, bool) {
	for _, p := range c.Properties {
		if p.ID == id {
			return p, true
		}
	}
	return Property{}, false
}

// FiscalYear resolves a fiscal year label such as "2024-25".
func (c Config) FiscalYear(label string) (date.Range, error) {
	return date.ParseFiscal(label, c.FYStartMonth)
}

// FiscalOf returns the fiscal year containing m.
func (c Config) FiscalOf(m date.Month) date.Range { return date.FiscalOf(m, c.FYStartMonth) }

// Validate checks the configuration and returns all the problems found.
func (c Config) Validate() error {
	var errs []error
	if c.FYStartMonth < time.January || c.FYStartMonth > time.December {
		errs = append(errs, fmt.Errorf("fiscal year start month %d is not in 1..12", c.FYStartMonth))
	}
	if c.Currency == "" {
		errs = append(errs, errors.New("currency is missing"))
	}
	seen := make(map[string]bool)
	for i, p := range c.Properties {
		if p.ID == "" {
			errs = append(errs, fmt.Errorf("property #%d has no id", i+1))
			continue
		}
		if seen[p.ID] {
			errs = append(errs, fmt.Errorf("property id %q is used twice", p.ID))
		}
		seen[p.ID] = true
		for _, v := range []*Money{p.PurchasePrice, p.CurrentValue, p.LoanBalance} {
			if v != nil && v.IsNegative() {
				errs = append(errs, fmt.Errorf("property %q has a negative value %s", p.ID, v))
			}
		}
	}
	return errors.Join(errs...)
}
