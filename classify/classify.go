// Package classify maps extracted records to the categories of the P&L.
//
// Each document format has its own Strategy: rental statements trust the
// heading a line was found under, bank transactions are matched against
// keyword rules, and bills get the category of the bill type detected in the
// document text. Strategies hold no mutable state: classifying the same
// record twice always yields the same result.
package classify

import (
	"fmt"

	"github.com/etnz/rentbook"
)

// Result is the category of a record and the confidence in it.
type Result struct {
	Category rentbook.Category
	Verdict  rentbook.Verdict
	Rule     string // keyword or heading that decided, empty when unmatched
}

// Strategy classifies the records of one document format. text is the full
// text of the document the record was extracted from, it may be empty.
type Strategy interface {
	Classify(r rentbook.RawRecord, text string) Result
}

// unmatched is the result for records no rule recognizes.
func unmatched(r rentbook.RawRecord) Result {
	return Result{Category: rentbook.FallbackCategory(r.Amount), Verdict: rentbook.Unmatched}
}

// BankStrategy matches transaction descriptions against keyword rules.
type BankStrategy struct {
	m matcher
}

// NewBankStrategy compiles the keyword rules.
func NewBankStrategy(rules []Rule) *BankStrategy { return &BankStrategy{m: newMatcher(rules)} }

func (s *BankStrategy) Classify(r rentbook.RawRecord, _ string) Result {
	kw, found, ambiguous := s.m.match(r.Description, nil)
	switch {
	case !found:
		return unmatched(r)
	case ambiguous:
		return Result{Category: kw.category, Verdict: rentbook.Ambiguous, Rule: kw.text}
	}
	return Result{Category: kw.category, Verdict: rentbook.Matched, Rule: kw.text}
}

// RentalStrategy classifies the lines of a rental statement. The heading a
// line was found under decides first; itemised bills are matched against
// keyword rules limited to expenses.
type RentalStrategy struct {
	m matcher
}

// NewRentalStrategy compiles the keyword rules used for itemised lines.
func NewRentalStrategy(rules []Rule) *RentalStrategy { return &RentalStrategy{m: newMatcher(rules)} }

func isExpense(c rentbook.Category) bool {
	return c.Section() == rentbook.Operating || c.Section() == rentbook.Utilities
}

func (s *RentalStrategy) Classify(r rentbook.RawRecord, _ string) Result {
	switch r.Section {
	case rentbook.HeadingMoneyIn:
		return Result{Category: rentbook.RentIncome, Verdict: rentbook.Matched, Rule: r.Section}
	case rentbook.HeadingEFT:
		return Result{Category: rentbook.NetEFT, Verdict: rentbook.Matched, Rule: r.Section}
	case rentbook.HeadingMoneyOut:
		// Money out of a statement is the agency fees unless the line says otherwise.
		if kw, found, _ := s.m.match(r.Description, isExpense); found {
			return Result{Category: kw.category, Verdict: rentbook.Matched, Rule: kw.text}
		}
		return Result{Category: rentbook.ManagementFee, Verdict: rentbook.Matched, Rule: r.Section}
	case rentbook.HeadingBills:
		kw, found, ambiguous := s.m.match(r.Description, isExpense)
		switch {
		case !found:
			return Result{Category: rentbook.OtherExpense, Verdict: rentbook.Ambiguous, Rule: r.Section}
		case ambiguous:
			return Result{Category: kw.category, Verdict: rentbook.Ambiguous, Rule: kw.text}
		}
		return Result{Category: kw.category, Verdict: rentbook.Matched, Rule: kw.text}
	}
	kw, found, ambiguous := s.m.match(r.Description, nil)
	switch {
	case !found:
		return unmatched(r)
	case ambiguous:
		return Result{Category: kw.category, Verdict: rentbook.Ambiguous, Rule: kw.text}
	}
	return Result{Category: kw.category, Verdict: rentbook.Matched, Rule: kw.text}
}

// BillStrategy classifies the total of a utility bill or an invoice. The
// bill type is detected once from the document text and fixes the category.
type BillStrategy struct {
	s signatures
}

// NewBillStrategy uses the rules as ordered bill type signatures.
func NewBillStrategy(rules []Rule) *BillStrategy { return &BillStrategy{s: signatures(rules)} }

// Detect returns the bill type found in the document text.
func (s *BillStrategy) Detect(text string) (rentbook.Category, bool) {
	c, _, ok := s.s.detect(text)
	return c, ok
}

func (s *BillStrategy) Classify(r rentbook.RawRecord, text string) Result {
	if text == "" {
		text = r.Description
	}
	c, kw, ok := s.s.detect(text)
	if !ok {
		return unmatched(r)
	}
	return Result{Category: c, Verdict: rentbook.Matched, Rule: kw}
}

// Classifier selects the strategy matching the source type of a record.
type Classifier struct {
	strategies map[rentbook.SourceType]Strategy
}

// New builds a classifier from rule tables.
func New(rs *RuleSet) *Classifier {
	return &Classifier{strategies: map[rentbook.SourceType]Strategy{
		rentbook.RentalStatement: NewRentalStrategy(rs.Bank),
		rentbook.Bank:            NewBankStrategy(rs.Bank),
		rentbook.Utility:         NewBillStrategy(rs.Utility),
		rentbook.Invoice:         NewBillStrategy(rs.Invoice),
	}}
}

// Default is a classifier using the embedded rules.
func Default() *Classifier { return New(DefaultRules()) }

// Strategy returns the strategy of a source type.
func (c *Classifier) Strategy(t rentbook.SourceType) (Strategy, bool) {
	s, ok := c.strategies[t]
	return s, ok
}

// Classify returns the category of a record using the strategy of its source
// type.
func (c *Classifier) Classify(r rentbook.RawRecord, text string) (Result, error) {
	s, ok := c.strategies[r.SourceType]
	if !ok {
		return Result{}, fmt.Errorf("no classification rules for %q records", r.SourceType)
	}
	return s.Classify(r, text), nil
}
