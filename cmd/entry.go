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

type entryCmd struct {
	property string
	category string
	mode     string
	total    string
	amount   string
	count    int
	interval string
	start    string
	memo     string
	remove   string
}

func (*entryCmd) Name() string     { return "entry" }
func (*entryCmd) Synopsis() string { return "add a manual entry to the ledger of a property" }
func (*entryCmd) Usage() string {
	return `rb entry [-property <id>] -category <category> [-mode <mode>] (-total <amount> | -amount <amount>) [-count <n>] [-interval <period>] -start <YYYY-MM> [-memo <text>]
rb entry [-property <id>] -remove <id>

  Adds a manual entry spec, the ledger generates its entries:
    single        the total in the start month
    equal_split   the total divided into count entries
    fixed_repeat  the amount count times

  Positive amounts of expense categories are recorded as costs.
`
}

func (c *entryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.property, "property", "", "Property of the entry. Defaults to the only property.")
	f.StringVar(&c.category, "category", "", "Category of the entry")
	f.StringVar(&c.mode, "mode", string(rentbook.Single), "Mode (single, equal_split, fixed_repeat)")
	f.StringVar(&c.total, "total", "", "Total amount")
	f.StringVar(&c.amount, "amount", "", "Amount of each entry (fixed_repeat)")
	f.IntVar(&c.count, "count", 0, "Number of entries (equal_split, fixed_repeat)")
	f.StringVar(&c.interval, "interval", date.Monthly.String(), "Interval between entries (monthly, quarterly, half-yearly)")
	f.StringVar(&c.start, "start", "", "Month of the first entry (YYYY-MM)")
	f.StringVar(&c.memo, "memo", "", "Free text")
	f.StringVar(&c.remove, "remove", "", "Remove the manual entry with this id")
}

func (c *entryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	if c.remove != "" {
		if !l.RemoveManual(c.remove) {
			fmt.Fprintf(os.Stderr, "Error: no manual entry %q\n", c.remove)
			return subcommands.ExitFailure
		}
		if err := saveSession(s); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Removed manual entry %s\n", c.remove)
		return subcommands.ExitSuccess
	}

	spec, err := c.spec(l.Currency())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	spec, err = l.AddManual(spec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := saveSession(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Added manual entry %s: %s %s from %s\n", spec.ID, spec.Category.Label(), spec.Mode, spec.Start)
	return subcommands.ExitSuccess
}

// spec builds the manual entry spec from the flags.
func (c *entryCmd) spec(currency string) (rentbook.ManualEntrySpec, error) {
	category, err := rentbook.ParseCategory(c.category)
	if err != nil {
		return rentbook.ManualEntrySpec{}, err
	}
	mode, err := rentbook.ParseMode(c.mode)
	if err != nil {
		return rentbook.ManualEntrySpec{}, err
	}
	interval, err := date.ParsePeriod(c.interval)
	if err != nil {
		return rentbook.ManualEntrySpec{}, err
	}
	start, err := date.ParseMonth(c.start)
	if err != nil {
		return rentbook.ManualEntrySpec{}, err
	}
	spec := rentbook.ManualEntrySpec{
		Category: category,
		Mode:     mode,
		Count:    c.count,
		Interval: interval,
		Start:    start,
		Memo:     c.memo,
	}
	if c.total != "" {
		if spec.Total, err = rentbook.ParseMoney(c.total, currency); err != nil {
			return spec, err
		}
		spec.Total = signedFor(category, spec.Total)
	}
	if c.amount != "" {
		if spec.Amount, err = rentbook.ParseMoney(c.amount, currency); err != nil {
			return spec, err
		}
		spec.Amount = signedFor(category, spec.Amount)
	}
	if mode == rentbook.FixedRepeat && spec.Total.IsZero() {
		spec.Total = spec.Amount.Times(spec.Count)
	}
	if mode != rentbook.FixedRepeat && spec.Total.IsZero() {
		spec.Total = spec.Amount
	}
	return spec, nil
}

// signedFor turns a positive amount into a cost for the categories that are
// not income nor cash received.
func signedFor(c rentbook.Category, m rentbook.Money) rentbook.Money {
	if c.Section() == rentbook.Income || c == rentbook.NetEFT {
		return m
	}
	if m.IsPositive() {
		return m.Neg()
	}
	return m
}

// categoryNames lists the category identifiers.
func categoryNames() []string {
	var names []string
	for _, c := range rentbook.Categories() {
		names = append(names, string(c))
	}
	return names
}
