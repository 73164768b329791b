package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rentbook"
	"github.com/google/subcommands"
)

type initCmd struct {
	force bool
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "create a session from the configuration file" }
func (*initCmd) Usage() string {
	return `rb init [-force]

  Creates an empty session file with the properties of the configuration
  file. An existing session is kept unless -force is given.
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "force", false, "Replace an existing session file")
}

func (c *initCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if _, err := os.Stat(*sessionFile); err == nil && !c.force {
		fmt.Fprintf(os.Stderr, "Error: session %q already exists, use -force to replace it\n", *sessionFile)
		return subcommands.ExitFailure
	}
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	s := rentbook.NewSession(cfg.Config)
	if err := saveSession(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Created %s with %d properties\n", *sessionFile, len(s.Ledgers()))
	return subcommands.ExitSuccess
}
