package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/rentbook"
	"github.com/etnz/rentbook/date"
)

// ParseAmount parses an amount as printed in statements: "$1,234.50",
// "AUD 80", "(450.00)" and "450.00 DR" are negative amounts when
// parenthesised or debited.
func ParseAmount(s, currency string) (rentbook.Money, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	neg := false
	switch {
	case strings.HasSuffix(v, "DR"):
		neg, v = true, strings.TrimSpace(strings.TrimSuffix(v, "DR"))
	case strings.HasSuffix(v, "CR"):
		v = strings.TrimSpace(strings.TrimSuffix(v, "CR"))
	}
	if strings.HasPrefix(v, "(") && strings.HasSuffix(v, ")") {
		neg, v = true, v[1:len(v)-1]
	}
	v = strings.NewReplacer("AUD", "", "$", "", ",", "", " ", "").Replace(v)
	if strings.HasPrefix(v, "-") {
		neg, v = !neg, v[1:]
	}
	if v == "" {
		return rentbook.Money{}, fmt.Errorf("invalid amount %q", s)
	}
	m, err := rentbook.ParseMoney(v, currency)
	if err != nil {
		return rentbook.Money{}, fmt.Errorf("invalid amount %q", s)
	}
	if neg {
		m = m.Neg()
	}
	return m, nil
}

var dateLayouts = []string{
	"2/1/2006",
	"2/1/06",
	"2-1-2006",
	"2-1-06",
	"2.1.2006",
	"2006-1-2",
	"2006/1/2",
	"2 Jan 2006",
	"2 January 2006",
	"2-Jan-2006",
	"2 Jan 06",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
}

// ParseDate parses the day first dates used in Australian documents, and ISO
// dates.
func ParseDate(s string) (date.Date, error) {
	s = strings.Join(strings.Fields(s), " ")
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return date.New(t.Date()), nil
		}
	}
	// time.Parse does not know abbreviations such as "Sept".
	if t, err := time.Parse("2 Jan 2006", titleMonth(s)); err == nil {
		return date.New(t.Date()), nil
	}
	return date.Date{}, fmt.Errorf("invalid date %q", s)
}

var monthNames = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

// monthOf resolves a month name or abbreviation.
func monthOf(name string) (time.Month, bool) {
	if len(name) < 3 {
		return 0, false
	}
	m, ok := monthNames[strings.ToLower(name[:3])]
	return m, ok
}

func titleMonth(s string) string {
	f := strings.Fields(s)
	if len(f) == 3 {
		if m, ok := monthOf(f[1]); ok {
			f[1] = m.String()[:3]
		}
	}
	return strings.Join(f, " ")
}

const monthPattern = `(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`

var (
	// Statement months, most reliable first. Each pattern captures either a
	// full date, or a month name and a year.
	ownershipMonth = regexp.MustCompile(`(?i)ownership\s+statement\s+` + monthPattern + `\s+(\d{4})`)
	periodEnd      = regexp.MustCompile(`(?i)statement\s+period[:\s]*\d{1,2}\s+\w+\s+\d{4}\s*(?:-|–|—|to)+\s*\d{1,2}\s+` + monthPattern + `\s+(\d{4})`)
	labeledDates   = []*regexp.Regexp{
		regexp.MustCompile(`(?i)issue\s*date[:\s]+(\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4})`),
		regexp.MustCompile(`(?i)date\s+of\s+issue[:\s]+(\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4})`),
		regexp.MustCompile(`(?i)invoice\s+date[:\s]+(\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4})`),
		regexp.MustCompile(`(?i)billing\s+date[:\s]+(\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4})`),
		regexp.MustCompile(`(?i)statement\s+date[:\s]+(\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4})`),
		regexp.MustCompile(`(?i)period\s+ending[:\s]+(\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4})`),
		regexp.MustCompile(`(?i)(?:issue|invoice|statement)\s*date[:\s]+(\d{1,2}\s+[a-z]{3,9}\s+\d{4})`),
		regexp.MustCompile(`(?i)period\s+ending[:\s]+(\d{1,2}\s+[a-z]{3,9}\s+\d{4})`),
	}
	monthYear = regexp.MustCompile(`(?i)\b` + monthPattern + `[\s-]+(\d{4})\b`)
)

// DetectDate returns the issue or statement date printed in a document.
func DetectDate(text string) (date.Date, bool) {
	for _, re := range labeledDates {
		if m := re.FindStringSubmatch(text); m != nil {
			if d, err := ParseDate(m[1]); err == nil {
				return d, true
			}
		}
	}
	return date.Date{}, false
}

// DetectMonth returns the month a document reports on: the ownership
// statement month, the end of the statement period, an issue date, or the
// first "Month Year" found.
func DetectMonth(text string) (date.Month, bool) {
	for _, re := range []*regexp.Regexp{ownershipMonth, periodEnd} {
		if m := re.FindStringSubmatch(text); m != nil {
			if month, ok := parseMonthYear(m[1], m[2]); ok {
				return month, true
			}
		}
	}
	if d, ok := DetectDate(text); ok {
		return d.MonthOf(), true
	}
	for _, m := range monthYear.FindAllStringSubmatch(text, -1) {
		if month, ok := parseMonthYear(m[1], m[2]); ok {
			return month, true
		}
	}
	return date.Month{}, false
}

func parseMonthYear(name, year string) (date.Month, bool) {
	m, ok := monthOf(name)
	if !ok {
		return date.Month{}, false
	}
	y, err := strconv.Atoi(year)
	if err != nil || y < 2000 || y > 2100 {
		return date.Month{}, false
	}
	return date.NewMonth(y, m), true
}

var (
	labeledAddresses = []*regexp.Regexp{
		regexp.MustCompile(`(?i)property\s+address[:\s]+([^\n]+)`),
		regexp.MustCompile(`(?i)service\s+address[:\s]+([^\n]+)`),
		regexp.MustCompile(`(?i)supply\s+address[:\s]+([^\n]+)`),
		regexp.MustCompile(`(?i)installation\s+address[:\s]+([^\n]+)`),
		regexp.MustCompile(`(?i)premises[:\s]+([^\n]+)`),
		regexp.MustCompile(`(?i)rental\s+property[:\s]+([^\n]+)`),
		regexp.MustCompile(`(?i)site\s+address[:\s]+([^\n]+)`),
		regexp.MustCompile(`(?i)property[:]\s*([^\n]+)`),
		regexp.MustCompile(`(?i)address[:]\s*([^\n]+)`),
	}
	roomAddress = regexp.MustCompile(`(?i)room\s+\d+,\s+(.+?)\s+net income:`)
	streetAddress = regexp.MustCompile(`(?i)\d+[a-z]?(?:/\d+[a-z]?)?\s+[\w'-]+(?:\s+[\w'-]+){0,3}\s+` +
		`(?:street|st|avenue|ave|av|road|rd|drive|dr|place|pl|court|ct|crescent|cres|cr|boulevard|blvd|` +
		`lane|ln|way|close|cl|circuit|cct|parade|pde|terrace|tce|highway|hwy|grove|gr|parkway|square|sq|` +
		`rise|mews|loop)\b(?:[,\s]+[a-z][a-z\s]*?)?[,\s]+(?:nsw|vic|qld|wa|sa|tas|act|nt)\s+\d{4}`)
)

// ExtractAddress returns the property address printed in a document: a
// labeled field if any, otherwise the first street address with a state and
// a postcode. It returns "" when nothing looks like an address.
func ExtractAddress(text string) string {
	clean := func(s string) string { return strings.Join(strings.Fields(s), " ") }
	for _, re := range labeledAddresses {
		if m := re.FindStringSubmatch(text); m != nil {
			if a := clean(m[1]); len(a) > 6 && len(a) < 200 {
				return a
			}
		}
	}
	if m := roomAddress.FindStringSubmatch(text); m != nil {
		return clean(m[1])
	}
	return clean(streetAddress.FindString(text))
}

var (
	rentalMarkers  = regexp.MustCompile(`(?i)ownership\s+statement|rental\s+statement|owner\s+statement|statement\s+to\s+owner|money\s+in\b|eft\s+to\s+owner|you\s+received`)
	noticeMarkers  = regexp.MustCompile(`(?i)council\s+rates|rates\s+notice|rate\s+notice|rates\s+and\s+charges|land\s+tax|revenue\s+nsw|state\s+revenue`)
	strataMarkers  = regexp.MustCompile(`(?i)strata\s+levy|levy\s+notice|body\s+corporate|owners\s+corporation|strata\s+plan`)
	invoiceMarkers = regexp.MustCompile(`(?i)tax\s+invoice|\binvoice\s+(?:no|number|date)|certificate\s+of\s+insurance|policy\s+renewal`)
	utilityMarkers = regexp.MustCompile(`(?i)\bkwh\b|electricity\s+(?:usage|charges?|supply)|water\s+usage|water\s+use|sewerage\s+(?:service|charges?)|natural\s+gas|gas\s+usage|nbn\s+service|broadband\s+(?:plan|service)|supply\s+charge`)
)

// isTransactionList reports whether a text lists dated transactions without
// the total of a bill: a bank statement, whatever its descriptions say.
func isTransactionList(text string) bool {
	n := 0
	for _, l := range strings.Split(text, "\n") {
		if bankLine.MatchString(strings.TrimSpace(l)) {
			n++
		}
	}
	if n < 2 {
		return false
	}
	for _, re := range billTotals[:len(billTotals)-1] {
		if re.MatchString(text) {
			return false
		}
	}
	return true
}

// InferSourceType guesses the type of a text document. Rental statements are
// recognized first, then lists of transactions, government notices, strata levies, invoices and
// utility bills; anything else is read as a bank statement.
func InferSourceType(text string) rentbook.SourceType {
	switch {
	case rentalMarkers.MatchString(text):
		return rentbook.RentalStatement
	case isTransactionList(text):
		return rentbook.Bank
	case noticeMarkers.MatchString(text), strataMarkers.MatchString(text), invoiceMarkers.MatchString(text):
		return rentbook.Invoice
	case utilityMarkers.MatchString(text):
		return rentbook.Utility
	}
	return rentbook.Bank
}
