package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rentbook"
	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the session file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `rb fmt

  Validates the session file: every ledger is rebuilt from its records and
  manual entries and checked for consistency. The session is then written
  back in its canonical form, with the properties of the configuration file.
`
}

func (p *fmtCmd) SetFlags(f *flag.FlagSet) {}

func (p *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, _, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load session: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := check(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := saveSession(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Formatted %s\n", *sessionFile)
	return subcommands.ExitSuccess
}

func check(s *rentbook.Session) error {
	for _, l := range s.Ledgers() {
		if err := l.Check(); err != nil {
			return fmt.Errorf("property %q: %w", l.Property().ID, err)
		}
	}
	return nil
}
