package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/etnz/rentbook/docs"
	"github.com/google/subcommands"
)

// topicCmd prints the embedded guides: how documents are ingested and
// reviewed, the manual entry modes, the category table and the reports.
type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "read the rentbook guides" }
func (*topicCmd) Usage() string {
	return `rb topic [<topic>...]

  Prints the guides about keeping the books of the portfolio. Without
  topic, prints the list of guides. '*' prints them all.

Usage Examples:
$ rb topic categories      # the P&L categories and their sections
$ rb topic entries config  # manual entry modes, then the configuration file
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		printMarkdown(docs.Index())
		return subcommands.ExitSuccess
	}

	if all, err := docs.GetAllTopics(); err == nil {
		for _, t := range f.Args() {
			if t != "*" && !slices.Contains(all, t) {
				fmt.Fprintf(os.Stderr, "Error: no guide %q, available: %s\n", t, strings.Join(all, ", "))
				return subcommands.ExitUsageError
			}
		}
	}

	guide, err := docs.GetTopics(f.Args()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(guide)
	return subcommands.ExitSuccess
}
