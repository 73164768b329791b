package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/rentbook"
	"github.com/etnz/rentbook/renderer"
	"github.com/google/subcommands"
)

// reviewCmd holds the flags for the 'review' subcommand.
type reviewCmd struct {
	property string
}

func (*reviewCmd) Name() string { return "review" }

func (*reviewCmd) Synopsis() string { return "list the records to review" }
func (*reviewCmd) Usage() string {
	return `rb review [-property <id>]

  Lists the records with an uncertain category or a document address that
  does not match the property. Use 'rb include' and 'rb exclude' with the
  record key to decide.
`
}

func (c *reviewCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.property, "property", "", "Property to review. Reviews all properties by default.")
}

func (c *reviewCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, _, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	ledgers := s.Ledgers()
	if c.property != "" {
		l, err := selectLedger(s, c.property)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		ledgers = []*rentbook.Ledger{l}
	}

	var b strings.Builder
	for _, l := range ledgers {
		b.WriteString(renderer.ReviewMarkdown(l))
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

// includeCmd sets the user override of records, to include them or to
// exclude them.
type includeCmd struct {
	include bool
}

func (c *includeCmd) Name() string {
	if c.include {
		return "include"
	}
	return "exclude"
}

func (c *includeCmd) Synopsis() string {
	if c.include {
		return "count records in the ledger"
	}
	return "leave records out of the ledger"
}

func (c *includeCmd) Usage() string {
	return fmt.Sprintf(`rb %s <record-key...>

  Overrides the default inclusion of records. Record keys are listed by
  'rb review'. The decision survives a new ingestion of the document.
`, c.Name())
}

func (c *includeCmd) SetFlags(f *flag.FlagSet) {}

func (c *includeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: no record key")
		return subcommands.ExitUsageError
	}
	s, _, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, arg := range f.Args() {
		key := rentbook.RecordKey(arg)
		if err := setIncluded(s, key, c.include); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("%s %s\n", c.Name()+"d", key)
	}
	if err := saveSession(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// setIncluded finds the ledger holding a record and overrides its inclusion.
func setIncluded(s *rentbook.Session, key rentbook.RecordKey, included bool) error {
	for _, l := range s.Ledgers() {
		if _, ok := l.Record(key); ok {
			return l.SetIncluded(key, included)
		}
	}
	return fmt.Errorf("no record %q", key)
}
