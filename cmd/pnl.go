package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rentbook/renderer"
	"github.com/google/subcommands"
)

type pnlCmd struct {
	property string
	fy       string
	year     int
}

func (*pnlCmd) Name() string     { return "pnl" }
func (*pnlCmd) Synopsis() string { return "display the profit and loss statement of a property" }
func (*pnlCmd) Usage() string {
	return `rb pnl [-property <id>] [-fy <label> | -year <year>]

  Displays the month by month profit and loss statement of a property for a
  fiscal year (e.g. 2024-25) or a calendar year. Defaults to the latest
  fiscal year with data.
`
}

func (c *pnlCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.property, "property", "", "Property to report on. Defaults to the only property.")
	f.StringVar(&c.fy, "fy", "", "Fiscal year label (e.g. 2024-25)")
	f.IntVar(&c.year, "year", 0, "Calendar year. Overrides -fy.")
}

func (c *pnlCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, _, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	l, err := selectLedger(s, c.property)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	r, err := reportingRange(s.Config(), c.fy, c.year, l.FiscalYears)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	md, err := renderer.PnLMarkdown(l, r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
