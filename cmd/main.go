package cmd

import (
	"github.com/etnz/rentbook/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Commands lists the subcommands of rb.
var Commands = []subcommands.Command{
	&initCmd{},
	&ingestCmd{},
	&reviewCmd{},
	&includeCmd{include: true},
	&includeCmd{include: false},
	&entryCmd{},
	&setCmd{},
	&pnlCmd{},
	&summaryCmd{},
	&pendingCmd{},
	&fmtCmd{},
	&topicCmd{},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands {
		c.Register(cmd, "")
	}
	c.Register(c.HelpCommand(), "help")
	c.Register(c.FlagsCommand(), "help")
	c.Register(c.CommandsCommand(), "help")
}

// Completion describes the command line for shell completion.
func Completion() *complete.Command {
	categories := predict.Set{}
	for _, c := range categoryNames() {
		categories = append(categories, c)
	}
	sources := predict.Set{"rental_statement", "bank", "utility", "invoice"}
	period := predict.Set{"monthly", "quarterly", "half-yearly"}
	property := predict.Something
	topics := predict.Set{"*"}
	if all, err := docs.GetAllTopics(); err == nil {
		topics = append(topics, all...)
	}

	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"session": predict.Files("*.json"),
			"config":  predict.Files("*.yaml"),
			"history": predict.Files("*.db"),
			"v":       predict.Nothing,
			"raw":     predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"init": {Flags: map[string]complete.Predictor{"force": predict.Nothing}},
			"ingest": {
				Flags: map[string]complete.Predictor{"property": property, "type": sources, "force": predict.Nothing},
				Args:  predict.Files("*"),
			},
			"review":  {Flags: map[string]complete.Predictor{"property": property}},
			"include": {Args: predict.Something},
			"exclude": {Args: predict.Something},
			"entry": {Flags: map[string]complete.Predictor{
				"property": property,
				"category": categories,
				"mode":     predict.Set{"single", "equal_split", "fixed_repeat"},
				"total":    predict.Something,
				"amount":   predict.Something,
				"count":    predict.Something,
				"interval": period,
				"start":    predict.Something,
				"memo":     predict.Something,
				"remove":   predict.Something,
			}},
			"set": {Flags: map[string]complete.Predictor{
				"property": property,
				"category": categories,
				"month":    predict.Something,
				"amount":   predict.Something,
			}},
			"pnl":     {Flags: map[string]complete.Predictor{"property": property, "fy": predict.Something, "year": predict.Something}},
			"summary": {Flags: map[string]complete.Predictor{"fy": predict.Something, "year": predict.Something}},
			"pending": {},
			"fmt":     {},
			"topic":   {Args: topics},
		},
	}
}
