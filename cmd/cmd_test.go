package cmd

import (
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/etnz/rentbook"
	"github.com/etnz/rentbook/date"
	"github.com/etnz/rentbook/pipeline"
	"github.com/etnz/rentbook/store"
	"github.com/google/subcommands"
)

func aud(v float64) rentbook.Money { return rentbook.M(v, "AUD") }

// workspace points the global flags to a temp dir holding a one property
// configuration.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := `fy_start_month: 7
currency: AUD
properties:
  - id: IP#1
    name: Smith St
    address: 12 Smith St, Parramatta NSW 2150
`
	if err := os.WriteFile(filepath.Join(dir, "rentbook.yaml"), []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}
	set := func(p *string, v string) {
		old := *p
		*p = v
		t.Cleanup(func() { *p = old })
	}
	set(sessionFile, filepath.Join(dir, "session.json"))
	set(configFile, filepath.Join(dir, "rentbook.yaml"))
	set(historyFile, filepath.Join(dir, ".rentbook", "history.db"))
	*raw = true
	t.Cleanup(func() { *raw = false })
	return dir
}

// run executes a subcommand with its arguments.
func run(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("%s: %v", c.Name(), err)
	}
	return c.Execute(context.Background(), f)
}

func TestCommands(t *testing.T) {
	workspace(t)

	steps := []struct {
		cmd  subcommands.Command
		args []string
		want subcommands.ExitStatus
	}{
		{&initCmd{}, nil, subcommands.ExitSuccess},
		{&initCmd{}, nil, subcommands.ExitFailure}, // already exists
		{&setCmd{}, []string{"-month", "2024-10", "-category", "water", "-amount", "-96.40"}, subcommands.ExitSuccess},
		{&setCmd{}, []string{"-month", "2024-13", "-category", "water"}, subcommands.ExitUsageError},
		{&entryCmd{}, []string{"-category", "insurance", "-mode", "equal_split", "-total", "1200", "-count", "12", "-start", "2024-07"}, subcommands.ExitSuccess},
		{&entryCmd{}, []string{"-category", "holiday", "-start", "2024-07"}, subcommands.ExitUsageError},
		{&includeCmd{include: false}, []string{"nope#0"}, subcommands.ExitFailure},
		{&pnlCmd{}, []string{"-fy", "2024-25"}, subcommands.ExitSuccess},
		{&summaryCmd{}, nil, subcommands.ExitSuccess},
		{&reviewCmd{}, nil, subcommands.ExitSuccess},
		{&pendingCmd{}, nil, subcommands.ExitSuccess},
		{&fmtCmd{}, nil, subcommands.ExitSuccess},
		{&ingestCmd{}, nil, subcommands.ExitUsageError},
		{&topicCmd{}, nil, subcommands.ExitSuccess},
		{&topicCmd{}, []string{"categories", "entries"}, subcommands.ExitSuccess},
		{&topicCmd{}, []string{"*"}, subcommands.ExitSuccess},
		{&topicCmd{}, []string{"securities"}, subcommands.ExitUsageError},
	}
	for _, s := range steps {
		if got := run(t, s.cmd, s.args...); got != s.want {
			t.Fatalf("%s %v = %v, want %v", s.cmd.Name(), s.args, got, s.want)
		}
	}

	s, _, err := openSession()
	if err != nil {
		t.Fatal(err)
	}
	l, ok := s.Ledger("IP#1")
	if !ok {
		t.Fatal("no ledger IP#1")
	}
	tests := []struct {
		category rentbook.Category
		month    date.Month
		want     rentbook.Money
	}{
		{rentbook.Water, date.NewMonth(2024, time.October), aud(-96.40)},
		{rentbook.Insurance, date.NewMonth(2024, time.July), aud(-100)},
		{rentbook.Insurance, date.NewMonth(2025, time.June), aud(-100)},
	}
	for _, tt := range tests {
		got, err := l.Cell(tt.category, tt.month)
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("Cell(%s, %s) = %s, want %s", tt.category, tt.month, got, tt.want)
		}
	}
}

func TestIngest(t *testing.T) {
	dir := workspace(t)
	statement := `Rental statement
Property: 12 Smith St, Parramatta 2150
Statement period: 1 Mar 2024 - 31 Mar 2024
Money In
Rent 01/03 - 31/03 2,100.00
Money Out
Management fee 184.80
EFT
Withdrawal by EFT to owner 1,915.20
`
	path := filepath.Join(dir, "march.txt")
	if err := os.WriteFile(path, []byte(statement), 0644); err != nil {
		t.Fatal(err)
	}

	if got := run(t, &ingestCmd{}, path); got != subcommands.ExitSuccess {
		t.Fatalf("ingest = %v, want success", got)
	}
	// the second run skips the known document
	if got := run(t, &ingestCmd{}, path); got != subcommands.ExitSuccess {
		t.Fatalf("second ingest = %v, want success", got)
	}

	s, _, err := openSession()
	if err != nil {
		t.Fatal(err)
	}
	l, _ := s.Ledger("IP#1")
	got, err := l.Cell(rentbook.RentIncome, date.NewMonth(2024, time.March))
	if err != nil {
		t.Fatal(err)
	}
	if want := aud(2100); !got.Equal(want) {
		t.Errorf("rent = %s, want %s", got, want)
	}

	h, closeHistory, err := openHistory()
	if err != nil {
		t.Fatal(err)
	}
	defer closeHistory()
	docs, err := h.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].Status != store.Parsed || docs[0].Name != "march.txt" || docs[0].Records != 3 {
		t.Errorf("history = %+v, want march.txt parsed", docs)
	}
}

func TestSignedFor(t *testing.T) {
	tests := []struct {
		category rentbook.Category
		in       float64
		want     float64
	}{
		{rentbook.Insurance, 1200, -1200},
		{rentbook.Insurance, -1200, -1200},
		{rentbook.MortgageRepayment, 2150, -2150},
		{rentbook.RentIncome, 500, 500},
		{rentbook.NetEFT, 1915.20, 1915.20},
		{rentbook.OtherIncome, -20, -20},
	}
	for _, tt := range tests {
		if got := signedFor(tt.category, aud(tt.in)); !got.Equal(aud(tt.want)) {
			t.Errorf("signedFor(%s, %v) = %s, want %v", tt.category, tt.in, got, tt.want)
		}
	}
}

func TestEntrySpec(t *testing.T) {
	c := &entryCmd{category: "council_rates", mode: "fixed_repeat", amount: "520", count: 4, interval: "quarterly", start: "2024-08"}
	spec, err := c.spec("AUD")
	if err != nil {
		t.Fatal(err)
	}
	if !spec.Amount.Equal(aud(-520)) || !spec.Total.Equal(aud(-2080)) {
		t.Errorf("amount, total = %s, %s, want -520, -2080", spec.Amount, spec.Total)
	}
	if spec.Interval != date.Quarterly || spec.Start != date.NewMonth(2024, time.August) {
		t.Errorf("interval, start = %v, %v", spec.Interval, spec.Start)
	}
	if err := spec.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestReportingRange(t *testing.T) {
	cfg := rentbook.DefaultConfig()
	labels := func() ([]string, error) { return []string{"2024-25", "2023-24"}, nil }
	none := func() ([]string, error) { return nil, nil }

	tests := []struct {
		name    string
		fy      string
		year    int
		labels  func() ([]string, error)
		want    date.Range
		wantErr bool
	}{
		{"latest", "", 0, labels, date.Fiscal(2024, time.July), false},
		{"fy", "2023-24", 0, labels, date.Fiscal(2023, time.July), false},
		{"year", "2023-24", 2022, labels, date.Calendar(2022), false},
		{"no data", "", 0, none, date.Range{}, true},
		{"bad label", "2023-25", 0, labels, date.Range{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reportingRange(cfg, tt.fy, tt.year, tt.labels)
			if (err != nil) != tt.wantErr {
				t.Fatalf("reportingRange() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("reportingRange() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHistoryOf(t *testing.T) {
	now := time.Date(2024, time.August, 2, 9, 30, 0, 0, time.UTC)
	report := &pipeline.Report{Documents: []pipeline.DocumentReport{
		{Document: "a", Name: "a.pdf", Property: "IP#1", Status: pipeline.Parsed, Records: make([]rentbook.ClassifiedRecord, 3)},
		{Document: "b", Name: "b.png", Property: "IP#1", Status: pipeline.Failed, Err: errors.New("no text layer")},
		{Document: "c", Name: "c.pdf", Property: "IP#1", Status: pipeline.Skipped},
	}}
	got := historyOf(report, now)
	if len(got) != 2 {
		t.Fatalf("got %d documents, want 2", len(got))
	}
	if got[0].Status != store.Parsed || got[0].Records != 3 || !got[0].ProcessedAt.Equal(now) {
		t.Errorf("parsed document = %+v", got[0])
	}
	if got[1].Status != store.Failed || got[1].Error != "no text layer" {
		t.Errorf("failed document = %+v", got[1])
	}
}

func TestExtensionEnv(t *testing.T) {
	workspace(t)
	env := extensionEnv()
	for _, want := range []string{
		EnvSession + "=" + *sessionFile,
		EnvConfig + "=" + *configFile,
		EnvHistory + "=" + *historyFile,
		EnvVerbose + "=false",
	} {
		if !slices.Contains(env, want) {
			t.Errorf("extensionEnv() lacks %q", want)
		}
	}
}
