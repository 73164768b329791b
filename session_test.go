package rentbook

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/etnz/rentbook/date"
)

func testSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(testConfig())
	s.SavedAt = date.New(2024, time.August, 2)
	l, _ := s.Ledger("IP#1")
	jul := date.New(2024, time.July, 31)
	partial := rec("statement-jul", 1, jul, ManagementFee, -145.2)
	partial.SourceType = RentalStatement
	partial.Section = "money out"
	partial.Address = AddressPartial
	if err := l.Add(rec("statement-jul", 0, jul, RentIncome, 2420), partial); err != nil {
		t.Fatal(err)
	}
	if err := l.SetIncluded("statement-jul#1", false); err != nil {
		t.Fatal(err)
	}
	if _, err := l.AddManual(ManualEntrySpec{
		Category: Internet,
		Mode:     FixedRepeat,
		Amount:   AUD(-89),
		Count:    12,
		Interval: date.Monthly,
		Start:    month(2024, time.July),
		Memo:     "NBN plan",
	}); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSession_RoundTrip(t *testing.T) {
	s := testSession(t)
	var first bytes.Buffer
	if err := EncodeSession(&first, s); err != nil {
		t.Fatalf("EncodeSession() unexpected error: %v", err)
	}

	decoded, err := DecodeSession(bytes.NewReader(first.Bytes()))
	if err != nil {
		t.Fatalf("DecodeSession() unexpected error: %v", err)
	}
	var second bytes.Buffer
	if err := EncodeSession(&second, decoded); err != nil {
		t.Fatalf("EncodeSession() unexpected error: %v", err)
	}
	if first.String() != second.String() {
		t.Errorf("round trip differs:\n%s\n---\n%s", first.String(), second.String())
	}

	l, _ := decoded.Ledger("IP#1")
	fy, err := l.FiscalYear("2024-25")
	if err != nil {
		t.Fatalf("FiscalYear() unexpected error: %v", err)
	}
	if got, want := fy.Get(ManagementFee), AUD(0); !got.Equal(want) {
		t.Errorf("management fees = %v, want %v (override kept)", got, want)
	}
	if got, want := fy.Get(Internet), AUD(-1068); !got.Equal(want) {
		t.Errorf("internet = %v, want %v", got, want)
	}

	for _, want := range []string{`"version": "1.1"`, `"fy_labels": [`, `"2024-07": {`, `"Internet": -89`} {
		if !strings.Contains(first.String(), want) {
			t.Errorf("snapshot does not contain %s:\n%s", want, first.String())
		}
	}
}

func TestDecodeSession_Version(t *testing.T) {
	_, err := DecodeSession(strings.NewReader(`{"version": "0.9", "properties": []}`))
	if err == nil {
		t.Error("DecodeSession() expected an error for an unsupported version")
	}
}

func TestOpenSaveSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions", "portfolio.json")
	cfg := testConfig()

	s, err := OpenSession(path, cfg)
	if err != nil {
		t.Fatalf("OpenSession() unexpected error: %v", err)
	}
	if got := len(s.Ledgers()); got != 1 {
		t.Fatalf("len(Ledgers()) = %d, want 1", got)
	}
	saved := testSession(t)
	if err := SaveSession(path, saved); err != nil {
		t.Fatalf("SaveSession() unexpected error: %v", err)
	}

	cfg.Properties = append(cfg.Properties, Property{ID: "IP#2", Name: "Unit 4"})
	reopened, err := OpenSession(path, cfg)
	if err != nil {
		t.Fatalf("OpenSession() unexpected error: %v", err)
	}
	if got := len(reopened.Ledgers()); got != 2 {
		t.Errorf("len(Ledgers()) = %d, want 2", got)
	}
	l, _ := reopened.Ledger("IP#1")
	if got := len(l.Records()); got != 2 {
		t.Errorf("len(Records()) = %d, want 2", got)
	}

	cfg.Currency = "USD"
	if _, err := OpenSession(path, cfg); err == nil {
		t.Error("OpenSession() expected an error when switching currency")
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("session directory has %d files, want 1 (no temp file left)", len(entries))
	}
}
