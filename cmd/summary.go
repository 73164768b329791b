package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rentbook"
	"github.com/etnz/rentbook/date"
	"github.com/etnz/rentbook/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	fy   string
	year int
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the portfolio summary" }
func (*summaryCmd) Usage() string {
	return `rb summary [-fy <label> | -year <year>]

  Displays the indicators of each property and of the portfolio: income,
  NOI, net profit, DSCR, yields, LVR and equity. Defaults to the latest
  fiscal year with data.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.fy, "fy", "", "Fiscal year label (e.g. 2024-25)")
	f.IntVar(&c.year, "year", 0, "Calendar year. Overrides -fy.")
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, _, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	r, err := reportingRange(s.Config(), c.fy, c.year, s.FiscalYears)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	summary, err := s.Summary(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.SummaryMarkdown(summary))
	return subcommands.ExitSuccess
}

// reportingRange resolves the -fy and -year flags. Without them it is the
// latest fiscal year with data.
func reportingRange(cfg rentbook.Config, fy string, year int, labels func() ([]string, error)) (date.Range, error) {
	if year > 0 {
		return date.Calendar(year), nil
	}
	if fy == "" {
		all, err := labels()
		if err != nil {
			return date.Range{}, err
		}
		if len(all) == 0 {
			return date.Range{}, fmt.Errorf("no data, use -fy or -year")
		}
		fy = all[0]
	}
	return cfg.FiscalYear(fy)
}
