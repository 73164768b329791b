package rentbook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/etnz/rentbook/date"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// SessionVersion is the version of the session snapshot format.
const SessionVersion = "1.1"

// Session is the state of a portfolio being built: its configuration and one
// ledger per property.
type Session struct {
	SavedAt date.Date
	config  Config
	ledgers []*Ledger
}

// NewSession creates a session with an empty ledger for every configured property.
func NewSession(cfg Config) *Session {
	if cfg.Currency == "" {
		cfg.Currency = DefaultCurrency
	}
	if cfg.FYStartMonth == 0 {
		cfg.FYStartMonth = time.July
	}
	s := &Session{config: Config{FYStartMonth: cfg.FYStartMonth, Currency: cfg.Currency}}
	for _, p := range cfg.Properties {
		s.AddProperty(p)
	}
	return s
}

// Config returns the session configuration, including the properties.
func (s *Session) Config() Config {
	cfg := s.config
	cfg.Properties = nil
	for _, l := range s.ledgers {
		cfg.Properties = append(cfg.Properties, l.Property())
	}
	return cfg
}

// Ledgers returns the property ledgers in configuration order.
func (s *Session) Ledgers() []*Ledger { return slices.Clone(s.ledgers) }

// Ledger returns the ledger of a property.
func (s *Session) Ledger(id string) (*Ledger, bool) {
	for _, l := range s.ledgers {
		if l.Property().ID == id {
			return l, true
		}
	}
	return nil, false
}

// AddProperty adds a property to the session, or updates its configuration
// if it already exists.
func (s *Session) AddProperty(p Property) *Ledger {
	if l, ok := s.Ledger(p.ID); ok {
		l.SetProperty(p)
		return l
	}
	l := NewLedger(p, s.config)
	s.ledgers = append(s.ledgers, l)
	return l
}

// Reconfigure applies a new configuration to a loaded session: property
// details are updated and new properties added. Properties absent from cfg
// are kept, they still own records.
func (s *Session) Reconfigure(cfg Config) error {
	if cfg.Currency != "" && cfg.Currency != s.config.Currency && len(s.ledgers) > 0 {
		return fmt.Errorf("session reports in %s, cannot switch to %s", s.config.Currency, cfg.Currency)
	}
	if cfg.FYStartMonth != 0 && cfg.FYStartMonth != s.config.FYStartMonth {
		s.config.FYStartMonth = cfg.FYStartMonth
		for _, l := range s.ledgers {
			l.fyStart = cfg.FYStartMonth
		}
	}
	for _, p := range cfg.Properties {
		s.AddProperty(p)
	}
	return nil
}

// Summary consolidates all the ledgers over a range of months.
func (s *Session) Summary(r date.Range) (*PortfolioSummary, error) { return Summarize(s.ledgers, r) }

// FiscalYears lists the labels of the fiscal years with data in any ledger,
// newest first.
func (s *Session) FiscalYears() ([]string, error) {
	var labels []string
	for _, l := range s.ledgers {
		fys, err := l.FiscalYears()
		if err != nil {
			return nil, err
		}
		for _, fy := range fys {
			if !slices.Contains(labels, fy) {
				labels = append(labels, fy)
			}
		}
	}
	slices.Sort(labels)
	slices.Reverse(labels)
	return labels, nil
}

// propertyJSON is the persisted form of a ledger.
type propertyJSON struct {
	Property
	Records   []ClassifiedRecord          `json:"records"`
	Manual    []ManualEntrySpec           `json:"manual"`
	Overrides map[RecordKey]bool          `json:"overrides"`
	Data      map[string]map[string]Money `json:"data"` // derived, ignored on decode
}

// sessionJSON is the persisted form of a session.
type sessionJSON struct {
	Version      string         `json:"version"`
	SavedAt      date.Date      `json:"saved_at"`
	FYStartMonth time.Month     `json:"fy_start_month"`
	FYLabels     []string       `json:"fy_labels"`
	Currency     string         `json:"currency"`
	Properties   []propertyJSON `json:"properties"`
}

// MarshalJSON writes the ledger with its primary data, followed by the
// materialized month by category matrix for readers of the snapshot.
func (p propertyJSON) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", p.ID)
	w.Append("name", p.Name)
	w.Optional("address", p.Address)
	w.Append("purchase_price", p.PurchasePrice)
	w.Append("current_value", p.CurrentValue)
	w.Append("loan_balance", p.LoanBalance)
	w.Append("records", nonNil(p.Records))
	w.Append("manual", nonNil(p.Manual))
	w.Append("overrides", p.Overrides)
	w.Append("data", p.Data)
	return w.MarshalJSON()
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (l *Ledger) snapshot() (propertyJSON, error) {
	m, err := l.Matrix()
	if err != nil {
		return propertyJSON{}, err
	}
	data := make(map[string]map[string]Money)
	for k, v := range m.cells {
		month := k.month.String()
		if data[month] == nil {
			data[month] = make(map[string]Money)
		}
		data[month][k.category.Label()] = v
	}
	return propertyJSON{
		Property:  l.property,
		Records:   l.records,
		Manual:    l.specs,
		Overrides: l.overrides,
		Data:      data,
	}, nil
}

// EncodeSession writes the session snapshot as indented JSON. Encoding is
// deterministic: a decoded session encodes back to the same bytes.
func EncodeSession(w io.Writer, s *Session) error {
	labels, err := s.FiscalYears()
	if err != nil {
		return fmt.Errorf("cannot encode session: %w", err)
	}
	out := sessionJSON{
		Version:      SessionVersion,
		SavedAt:      s.SavedAt,
		FYStartMonth: s.config.FYStartMonth,
		FYLabels:     nonNil(labels),
		Currency:     s.config.Currency,
	}
	for _, l := range s.ledgers {
		p, err := l.snapshot()
		if err != nil {
			return fmt.Errorf("cannot encode session: %w", err)
		}
		out.Properties = append(out.Properties, p)
	}
	out.Properties = nonNil(out.Properties)

	raw, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("cannot encode session: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("cannot encode session: %w", err)
	}
	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())
	return err
}

// DecodeSession reads a session snapshot. Ledgers are rebuilt from their
// records, manual specs and overrides; the materialized data is ignored.
func DecodeSession(r io.Reader) (*Session, error) {
	var in sessionJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("invalid session: %w", err)
	}
	if in.Version != SessionVersion {
		return nil, fmt.Errorf("unsupported session version %q, want %q", in.Version, SessionVersion)
	}
	s := NewSession(Config{FYStartMonth: in.FYStartMonth, Currency: in.Currency})
	s.SavedAt = in.SavedAt
	for _, p := range in.Properties {
		l := s.AddProperty(p.Property)
		if err := l.Add(p.Records...); err != nil {
			return nil, fmt.Errorf("invalid session property %q: %w", p.ID, err)
		}
		for _, spec := range p.Manual {
			if _, err := l.AddManual(spec); err != nil {
				return nil, fmt.Errorf("invalid session property %q: %w", p.ID, err)
			}
		}
		for k, v := range p.Overrides {
			l.overrides[k] = v
		}
		l.touch()
	}
	return s, nil
}
