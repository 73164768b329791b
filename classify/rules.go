package classify

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"unicode"

	"github.com/etnz/rentbook"
	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRules []byte

// Rule maps a set of keywords to a category.
type Rule struct {
	Category rentbook.Category `yaml:"category"`
	Keywords []string          `yaml:"keywords"`
}

// RuleSet holds the rule tables of every document format.
type RuleSet struct {
	Bank    []Rule `yaml:"bank"`    // transaction descriptions
	Utility []Rule `yaml:"utility"` // utility bill signatures
	Invoice []Rule `yaml:"invoice"` // invoice and notice signatures
}

// DefaultRules returns the embedded rule tables.
func DefaultRules() *RuleSet {
	rs, err := ParseRules(defaultRules)
	if err != nil {
		panic(fmt.Sprintf("invalid embedded rules: %v", err))
	}
	return rs
}

// ParseRules decodes and validates YAML rule tables.
func ParseRules(data []byte) (*RuleSet, error) {
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("cannot decode rules: %w", err)
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return &rs, nil
}

// LoadRules reads YAML rule tables from r.
func LoadRules(r io.Reader) (*RuleSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read rules: %w", err)
	}
	return ParseRules(data)
}

// LoadRulesFile reads the rules file at path. An empty path returns the
// default rules.
func LoadRulesFile(path string) (*RuleSet, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open rules file: %w", err)
	}
	defer f.Close()
	rs, err := LoadRules(f)
	if err != nil {
		return nil, fmt.Errorf("rules file %q: %w", path, err)
	}
	return rs, nil
}

// Validate checks that every rule has a known category and keywords.
func (rs *RuleSet) Validate() error {
	var errs []error
	check := func(table string, rules []Rule) {
		if len(rules) == 0 {
			errs = append(errs, fmt.Errorf("%s: no rules", table))
		}
		for i, r := range rules {
			if !r.Category.Valid() {
				errs = append(errs, fmt.Errorf("%s rule #%d: unknown category %q", table, i+1, r.Category))
			}
			if len(r.Keywords) == 0 {
				errs = append(errs, fmt.Errorf("%s rule #%d (%s): no keywords", table, i+1, r.Category))
			}
			if slices.ContainsFunc(r.Keywords, func(k string) bool { return len(words(k)) == 0 }) {
				errs = append(errs, fmt.Errorf("%s rule #%d (%s): empty keyword", table, i+1, r.Category))
			}
		}
	}
	check("bank", rs.Bank)
	check("utility", rs.Utility)
	check("invoice", rs.Invoice)
	return errors.Join(errs...)
}

// words lower-cases s and splits it on anything that is not a letter or a
// digit.
func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
