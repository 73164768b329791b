package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rentbook/renderer"
	"github.com/google/subcommands"
)

type pendingCmd struct{}

func (*pendingCmd) Name() string     { return "pending" }
func (*pendingCmd) Synopsis() string { return "list the documents that need manual entry" }
func (*pendingCmd) Usage() string {
	return `rb pending

  Lists the documents whose extraction failed. Their amounts must be entered
  with 'rb entry' or 'rb set'.
`
}

func (c *pendingCmd) SetFlags(f *flag.FlagSet) {}

func (c *pendingCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	history, closeHistory, err := openHistory()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeHistory()

	docs, err := history.Pending()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.PendingMarkdown(docs))
	return subcommands.ExitSuccess
}
