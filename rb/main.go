// Command rb keeps the books of a rental property portfolio.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/rentbook/cmd"
	"github.com/google/subcommands"
)

func main() {
	// Answers the shell completion requests, and exits, when run by the shell.
	cmd.Completion().Complete("rb")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cmd.Register(commander)
	flag.Parse()

	if name := flag.Arg(0); name != "" && !registered(commander, name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}

	ctx := cmd.WithLogger(context.Background())
	os.Exit(int(commander.Execute(ctx)))
}

func registered(commander *subcommands.Commander, name string) bool {
	found := false
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		if c.Name() == name {
			found = true
		}
	})
	return found
}
