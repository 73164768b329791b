// Package pipeline runs documents through extraction, classification and
// address matching, and merges the resulting records into the ledgers of a
// session.
package pipeline

import (
	"context"
	"fmt"

	"github.com/etnz/rentbook"
	"github.com/etnz/rentbook/address"
	"github.com/etnz/rentbook/classify"
	"github.com/etnz/rentbook/extract"
	"github.com/etnz/rentbook/logger"
)

// History tells which documents were already ingested.
type History interface {
	IsParsed(id string) (bool, error)
}

// Pipeline holds the components applied to each document.
type Pipeline struct {
	Extractor  extract.Extractor
	Classifier *classify.Classifier
	// History, when set, skips the documents already parsed unless Force is
	// set.
	History History
	Force   bool
}

// New returns a pipeline with the given classification rules.
func New(rules *classify.RuleSet, currency string) *Pipeline {
	return &Pipeline{
		Extractor:  extract.Extractor{Currency: currency},
		Classifier: classify.New(rules),
	}
}

// Process extracts, classifies and matches one document. It has no side
// effect: the records are not merged.
func (p *Pipeline) Process(cfg rentbook.Config, doc extract.Document) DocumentReport {
	rep := DocumentReport{Document: doc.ID(), Name: doc.Name, Property: doc.PropertyID, SourceType: doc.SourceType}
	fail := func(err error) DocumentReport {
		rep.Status, rep.Err = Failed, err
		return rep
	}
	prop, ok := cfg.Property(doc.PropertyID)
	if !ok {
		return fail(fmt.Errorf("%s: unknown property %q", doc.Name, doc.PropertyID))
	}

	x := p.Extractor
	if x.Currency == "" {
		x.Currency = cfg.Currency
	}
	res, err := x.Extract(doc)
	if err != nil {
		return fail(err)
	}
	rep.SourceType, rep.Source = res.SourceType, res.Source

	verdict := rentbook.AddressNotChecked
	if res.SourceType != rentbook.Bank {
		rep.Address = address.Match(res.Address, prop.Address)
		verdict = rep.Address.Verdict
		switch verdict {
		case rentbook.AddressMismatch:
			rep.Notices = append(rep.Notices, rentbook.Notice{
				Kind:     rentbook.AddressMismatchNotice,
				Document: doc.Name,
				Message:  fmt.Sprintf("address %q is not %q (%s), excluded", res.Address, prop.Address, rep.Address.Reason),
			})
		case rentbook.AddressPartial:
			rep.Notices = append(rep.Notices, rentbook.Notice{
				Kind:     rentbook.AddressPartialNotice,
				Document: doc.Name,
				Message:  fmt.Sprintf("address %q partially matches %q (%s)", res.Address, prop.Address, rep.Address.Reason),
			})
		}
	}

	for _, raw := range res.Records {
		c, err := p.Classifier.Classify(raw, res.Text)
		if err != nil {
			return fail(fmt.Errorf("%s: %w", doc.Name, err))
		}
		r := rentbook.ClassifiedRecord{
			RawRecord: raw,
			Category:  c.Category,
			Verdict:   c.Verdict,
			Property:  prop.ID,
			Address:   verdict,
			Included:  verdict.Included(),
		}
		if c.Verdict.NeedsReview() {
			rep.Notices = append(rep.Notices, rentbook.Notice{
				Kind:     rentbook.ClassificationAmbiguous,
				Document: doc.Name,
				Record:   r.Key(),
				Message:  fmt.Sprintf("%q %s is %s as %s", r.Description, r.Amount, c.Verdict, c.Category.Label()),
			})
		}
		rep.Records = append(rep.Records, r)
	}
	rep.Status = Parsed
	return rep
}

// Ingest processes documents one at a time and merges the parsed ones into
// the session ledgers. A failed document never stops the batch: its error is
// in the report. The returned error is fatal, the session must not be saved.
func (p *Pipeline) Ingest(ctx context.Context, s *rentbook.Session, docs []extract.Document) (*Report, error) {
	log := logger.FromContext(ctx)
	cfg := s.Config()
	report := &Report{}

	var properties []string
	parsed := make(map[string][]DocumentReport)
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		id := doc.ID()
		if p.History != nil && !p.Force {
			done, err := p.History.IsParsed(id)
			if err != nil {
				return report, err
			}
			if done {
				log.Debug().Str("document", doc.Name).Str("id", id).Msg("already ingested, skipped")
				report.Documents = append(report.Documents, DocumentReport{Document: id, Name: doc.Name, Property: doc.PropertyID, SourceType: doc.SourceType, Status: Skipped})
				continue
			}
		}

		rep := p.Process(cfg, doc)
		report.Documents = append(report.Documents, rep)
		if rep.Status == Failed {
			log.Warn().Err(rep.Err).Str("document", doc.Name).Str("id", id).Msg("needs manual entry")
			continue
		}
		log.Info().
			Str("document", doc.Name).
			Str("id", id).
			Str("type", string(rep.SourceType)).
			Str("address", string(rep.Address.Verdict)).
			Int("records", len(rep.Records)).
			Msg("extracted")
		if _, ok := parsed[rep.Property]; !ok {
			properties = append(properties, rep.Property)
		}
		parsed[rep.Property] = append(parsed[rep.Property], rep)
	}

	for _, id := range properties {
		l, ok := s.Ledger(id)
		if !ok {
			return report, fmt.Errorf("session has no ledger for property %q", id)
		}
		for _, rep := range parsed[id] {
			changes, err := l.Merge(rep.Document, rep.Records)
			if err != nil {
				return report, fmt.Errorf("cannot merge %s: %w", rep.Name, err)
			}
			report.Changes = append(report.Changes, changes...)
		}
		if err := l.Check(); err != nil {
			return report, err
		}
		log.Debug().Str("property", id).Int("documents", len(parsed[id])).Msg("merged")
	}
	return report, nil
}
