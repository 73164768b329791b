// Package config loads the portfolio configuration of the rb tool from a
// YAML file, with overrides from the environment and a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/rentbook"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables overriding the file.
const (
	EnvFYStart  = "RENTBOOK_FY_START"
	EnvCurrency = "RENTBOOK_CURRENCY"
	EnvRules    = "RENTBOOK_RULES"
)

// Config is the portfolio configuration plus the settings of the tool.
type Config struct {
	rentbook.Config
	// Rules is the classification rules file, the embedded rules if empty.
	Rules string
	// JSONPath locates the transactions in JSON bank exports.
	JSONPath string
}

// file is the YAML layout of the configuration file.
//
//	fy_start_month: 7
//	currency: AUD
//	properties:
//	  - id: IP#1
//	    name: Smith St
//	    address: 12 Smith St, Parramatta NSW 2150
//	    purchase_price: 600000
type file struct {
	FYStartMonth month      `yaml:"fy_start_month"`
	Currency     string     `yaml:"currency"`
	Rules        string     `yaml:"rules"`
	JSONPath     string     `yaml:"json_path"`
	Properties   []property `yaml:"properties"`
}

type property struct {
	ID            string  `yaml:"id"`
	Name          string  `yaml:"name"`
	Address       string  `yaml:"address"`
	PurchasePrice *amount `yaml:"purchase_price"`
	CurrentValue  *amount `yaml:"current_value"`
	LoanBalance   *amount `yaml:"loan_balance"`
}

// amount keeps the literal text of a YAML number, for exact decimals.
type amount string

func (a *amount) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: amount must be a number", n.Line)
	}
	*a = amount(strings.ReplaceAll(n.Value, "_", ""))
	return nil
}

// month accepts a month number or name.
type month time.Month

func (m *month) UnmarshalYAML(n *yaml.Node) error {
	v, err := parseMonth(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*m = month(v)
	return nil
}

func parseMonth(s string) (time.Month, error) {
	s = strings.TrimSpace(s)
	if i, err := strconv.Atoi(s); err == nil {
		return time.Month(i), nil
	}
	for m := time.January; m <= time.December; m++ {
		if len(s) >= 3 && strings.HasPrefix(strings.ToLower(m.String()), strings.ToLower(s)) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("invalid month %q", s)
}

// Load reads the configuration file at path. A .env file is loaded first,
// envPath if given or ./.env when present; the environment overrides the
// file.
func Load(path string, envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read configuration: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("configuration %q: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML configuration and applies the environment overrides.
func Parse(data []byte) (*Config, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("cannot decode: %w", err)
	}
	cfg := &Config{Config: rentbook.DefaultConfig(), Rules: f.Rules, JSONPath: f.JSONPath}
	if f.FYStartMonth != 0 {
		cfg.FYStartMonth = time.Month(f.FYStartMonth)
	}
	if f.Currency != "" {
		cfg.Currency = strings.ToUpper(f.Currency)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	for _, p := range f.Properties {
		prop := rentbook.Property{ID: p.ID, Name: p.Name, Address: p.Address}
		var err error
		if prop.PurchasePrice, err = p.PurchasePrice.money(cfg.Currency); err != nil {
			return nil, fmt.Errorf("property %q purchase price: %w", p.ID, err)
		}
		if prop.CurrentValue, err = p.CurrentValue.money(cfg.Currency); err != nil {
			return nil, fmt.Errorf("property %q current value: %w", p.ID, err)
		}
		if prop.LoanBalance, err = p.LoanBalance.money(cfg.Currency); err != nil {
			return nil, fmt.Errorf("property %q loan balance: %w", p.ID, err)
		}
		if prop.Name == "" {
			prop.Name = prop.ID
		}
		cfg.Properties = append(cfg.Properties, prop)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *amount) money(currency string) (*rentbook.Money, error) {
	if a == nil {
		return nil, nil
	}
	m, err := rentbook.ParseMoney(string(*a), currency)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvFYStart); v != "" {
		m, err := parseMonth(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvFYStart, err)
		}
		c.FYStartMonth = m
	}
	if v := os.Getenv(EnvCurrency); v != "" {
		c.Currency = strings.ToUpper(v)
	}
	if v := os.Getenv(EnvRules); v != "" {
		c.Rules = v
	}
	return nil
}
