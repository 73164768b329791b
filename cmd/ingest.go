package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/rentbook"
	"github.com/etnz/rentbook/extract"
	"github.com/etnz/rentbook/pipeline"
	"github.com/etnz/rentbook/renderer"
	"github.com/etnz/rentbook/store"
	"github.com/google/subcommands"
)

type ingestCmd struct {
	property   string
	sourceType string
	force      bool
}

func (*ingestCmd) Name() string     { return "ingest" }
func (*ingestCmd) Synopsis() string { return "read documents into the ledger of a property" }
func (*ingestCmd) Usage() string {
	return `rb ingest [-property <id>] [-type <type>] [-force] <files...>

  Extracts the records of each document, classifies them, checks the
  document address against the property address and merges them into the
  ledger. Prints the change log.

  Documents already ingested are skipped unless -force is given. Documents
  that cannot be read are listed by 'rb pending'.

Usage Examples:
$ rb ingest -property IP#1 statements/2024-07.pdf bank/export.csv
`
}

func (c *ingestCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.property, "property", "", "Property the documents belong to. Defaults to the only property.")
	f.StringVar(&c.sourceType, "type", "", "Document type (rental_statement, bank, utility, invoice). Inferred by default.")
	f.BoolVar(&c.force, "force", false, "Read documents again even if already ingested")
}

func (c *ingestCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: no document to ingest")
		return subcommands.ExitUsageError
	}
	var sourceType rentbook.SourceType
	if c.sourceType != "" {
		t, err := rentbook.ParseSourceType(c.sourceType)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		sourceType = t
	}

	s, cfg, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	l, err := selectLedger(s, c.property)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	var docs []extract.Document
	for _, path := range f.Args() {
		doc, err := extract.Open(path, sourceType, l.Property().ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		docs = append(docs, doc)
	}

	rs, err := rules(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	history, closeHistory, err := openHistory()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeHistory()

	p := pipeline.New(rs, s.Config().Currency)
	p.Extractor.JSONPath = cfg.JSONPath
	p.History = history
	p.Force = c.force

	report, err := p.Ingest(ctx, s, docs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: ingestion aborted, the session is unchanged: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := saveSession(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := history.Record(historyOf(report, time.Now())...); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.IngestMarkdown(report))
	return subcommands.ExitSuccess
}

// historyOf converts the processed documents of a report into history
// records. Skipped documents are already recorded.
func historyOf(report *pipeline.Report, now time.Time) []store.Document {
	var docs []store.Document
	for _, d := range report.Documents {
		if d.Status == pipeline.Skipped {
			continue
		}
		h := store.Document{
			ID:          d.Document,
			Name:        d.Name,
			Property:    d.Property,
			SourceType:  d.SourceType,
			Status:      store.Parsed,
			Records:     len(d.Records),
			ProcessedAt: now,
		}
		if d.Err != nil {
			h.Status = store.Failed
			h.Error = d.Err.Error()
		}
		docs = append(docs, h)
	}
	return docs
}
