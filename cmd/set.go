package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rentbook"
	"github.com/etnz/rentbook/date"
	"github.com/google/subcommands"
)

type setCmd struct {
	property string
	month    string
	category string
	amount   string
}

func (*setCmd) Name() string     { return "set" }
func (*setCmd) Synopsis() string { return "set the manual value of a month" }
func (*setCmd) Usage() string {
	return `rb set [-property <id>] -month <YYYY-MM> -category <category> -amount <amount>

  Sets the manual value of a category for one month, replacing the previous
  manual value. A zero amount removes it. Document records are not affected.
`
}

func (c *setCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.property, "property", "", "Property to edit. Defaults to the only property.")
	f.StringVar(&c.month, "month", "", "Month (YYYY-MM)")
	f.StringVar(&c.category, "category", "", "Category")
	f.StringVar(&c.amount, "amount", "0", "Signed amount, costs are negative")
}

func (c *setCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	month, err := date.ParseMonth(c.month)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	category, err := rentbook.ParseCategory(c.category)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

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
	amount, err := rentbook.ParseMoney(c.amount, l.Currency())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err := l.SetManual(month, category, amount); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := saveSession(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	cell, err := l.Cell(category, month)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s %s %s: %s\n", l.Property().ID, month, category.Label(), cell)
	return subcommands.ExitSuccess
}
