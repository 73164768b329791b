// Package cmd implements the CLI application to keep the books of a rental
// property portfolio.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/rentbook"
	"github.com/etnz/rentbook/classify"
	"github.com/etnz/rentbook/config"
	"github.com/etnz/rentbook/logger"
	"github.com/etnz/rentbook/store"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	sessionFile = flag.String("session", "session.json", "Path to the session file holding the ledgers")
	configFile  = flag.String("config", "rentbook.yaml", "Path to the portfolio configuration file")
	historyFile = flag.String("history", filepath.Join(".rentbook", "history.db"), "Path to the processed documents database")
	Verbose     = flag.Bool("v", false, "Log debug messages")
	raw         = flag.Bool("raw", false, "Print reports as raw markdown")
)

// WithLogger returns a context carrying the logger of the application.
func WithLogger(ctx context.Context) context.Context {
	return logger.WithContext(ctx, logger.New(logger.Level(*Verbose)))
}

// loadConfig reads the configuration file. A missing file is the default
// configuration, without properties.
func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(*configFile); os.IsNotExist(err) {
		return &config.Config{Config: rentbook.DefaultConfig()}, nil
	}
	return config.Load(*configFile)
}

// rules returns the classification rules of the configuration.
func rules(cfg *config.Config) (*classify.RuleSet, error) {
	if cfg.Rules == "" {
		return classify.DefaultRules(), nil
	}
	return classify.LoadRulesFile(cfg.Rules)
}

// openSession loads the configuration and the session.
func openSession() (*rentbook.Session, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	s, err := rentbook.OpenSession(*sessionFile, cfg.Config)
	if err != nil {
		return nil, nil, err
	}
	return s, cfg, nil
}

// saveSession writes the session back to the session file.
func saveSession(s *rentbook.Session) error {
	return rentbook.SaveSession(*sessionFile, s)
}

// openHistory opens the processed documents database.
func openHistory() (*store.History, func() error, error) {
	conn, err := store.Open(*historyFile)
	if err != nil {
		return nil, nil, err
	}
	return store.NewHistory(conn), conn.Close, nil
}

// selectLedger returns the ledger of a property. The id can be omitted when
// the session has a single property.
func selectLedger(s *rentbook.Session, id string) (*rentbook.Ledger, error) {
	if id != "" {
		l, ok := s.Ledger(id)
		if !ok {
			return nil, fmt.Errorf("unknown property %q", id)
		}
		return l, nil
	}
	ledgers := s.Ledgers()
	switch len(ledgers) {
	case 0:
		return nil, fmt.Errorf("no property configured in %q", *configFile)
	case 1:
		return ledgers[0], nil
	}
	return nil, fmt.Errorf("%d properties, use -property to select one", len(ledgers))
}

// printMarkdown renders markdown for the terminal, or prints it as is with
// -raw or when rendering fails.
func printMarkdown(md string) {
	if *raw {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(160))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
