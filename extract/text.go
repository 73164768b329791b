package extract

import (
	"regexp"
	"strings"

	"github.com/etnz/rentbook"
	"github.com/etnz/rentbook/date"
)

const amountPattern = `\(?-?\$?\s?\d[\d,]*\.\d{2}\)?(?:\s?(?:CR|DR|Cr|Dr))?`

// itemLine is a description followed by an amount.
var itemLine = regexp.MustCompile(`^(.*?[^\s$(-])\s+(` + amountPattern + `)$`)

// headings maps the section titles of a rental statement to the heading
// recorded on the lines found below them.
var headings = map[string]string{
	"money in":          rentbook.HeadingMoneyIn,
	"income":            rentbook.HeadingMoneyIn,
	"money out":         rentbook.HeadingMoneyOut,
	"fees":              rentbook.HeadingMoneyOut,
	"bills":             rentbook.HeadingBills,
	"bills paid":        rentbook.HeadingBills,
	"expenses":          rentbook.HeadingBills,
	"eft":               rentbook.HeadingEFT,
	"payments to owner": rentbook.HeadingEFT,
	"eft to owner":      rentbook.HeadingEFT,
}

func heading(line string) (string, bool) {
	h, ok := headings[strings.ToLower(strings.TrimRight(strings.TrimSpace(line), ":"))]
	return h, ok
}

// signed gives an amount the sign of the heading it was found under: money
// in and EFT are positive, the rest are expenses.
func signed(m rentbook.Money, section string) rentbook.Money {
	if section == rentbook.HeadingMoneyIn || section == rentbook.HeadingEFT {
		return m.Abs()
	}
	return m.Abs().Neg()
}

// rentalRecords reads the lines of a rental statement, trying the ownership
// statement layout first, then headed sections of items, then the generic
// summary lines. Every record is dated at the end of the statement month.
func rentalRecords(text string, month date.Month, currency string) []rentbook.RawRecord {
	on := month.Last()
	if ownershipMonth.MatchString(text) {
		if records := ownershipRecords(text, on, currency); len(records) > 0 {
			return records
		}
	}
	if records := itemisedRecords(text, on, currency); len(records) > 0 {
		return records
	}
	return summaryRecords(text, on, currency)
}

// itemisedRecords reads statements laid out as headed sections of
// "description amount" lines.
func itemisedRecords(text string, on date.Date, currency string) []rentbook.RawRecord {
	var records []rentbook.RawRecord
	section := ""
	for _, l := range strings.Split(text, "\n") {
		if h, ok := heading(l); ok {
			section = h
			continue
		}
		if section == "" {
			continue
		}
		m := itemLine.FindStringSubmatch(strings.TrimSpace(l))
		if m == nil || strings.HasPrefix(strings.ToLower(m[1]), "total") {
			continue
		}
		amount, err := ParseAmount(m[2], currency)
		if err != nil {
			continue
		}
		records = append(records, rentbook.RawRecord{
			Date:        on,
			Description: strings.TrimSpace(m[1]),
			Amount:      signed(amount, section),
			Section:     section,
		})
	}
	return records
}

var (
	ownershipIncome = regexp.MustCompile(`(?im)^\s*Income\s+\$([\d,]+\.?\d*)`)
	ownershipFees   = regexp.MustCompile(`(?i)Total\s+paid\s+in\s+agency\s+fees\s+\$([\d,]+\.?\d*)`)
	ownershipNet    = regexp.MustCompile(`(?i)Net income:\s+\$([\d,]+\.?\d*)`)
	ownershipBill   = regexp.MustCompile(`(?m)^([A-Za-z][^\n·]{1,80}?)\s+·\s+[^\n$]*\$([\d,]+\.?\d*)\s*$`)
	// summary lines that also use the "Category · details" layout.
	billSkip = regexp.MustCompile(`(?i)^(rent\s+payment|management\s+fees?|paid\s+on|contributions?|failed|transfer\s+to|withdrawal|total|gst|overview|income|expenses)`)
)

// ownershipRecords reads the ownership statement layout: an income line, the
// total of agency fees, itemised bills as "Category · details $amount" and
// one "Net income:" line per room, their sum being the EFT.
func ownershipRecords(text string, on date.Date, currency string) []rentbook.RawRecord {
	var records []rentbook.RawRecord
	add := func(desc, section string, amount rentbook.Money) {
		records = append(records, rentbook.RawRecord{Date: on, Description: desc, Amount: signed(amount, section), Section: section})
	}
	if m := ownershipIncome.FindStringSubmatch(text); m != nil {
		if v, err := ParseAmount(m[1], currency); err == nil {
			add("Income", rentbook.HeadingMoneyIn, v)
		}
	}
	if m := ownershipFees.FindStringSubmatch(text); m != nil {
		if v, err := ParseAmount(m[1], currency); err == nil {
			add("Agency fees", rentbook.HeadingMoneyOut, v)
		}
	}
	for _, m := range ownershipBill.FindAllStringSubmatch(text, -1) {
		desc := strings.TrimSpace(m[1])
		v, err := ParseAmount(m[2], currency)
		if err != nil || !v.IsPositive() || billSkip.MatchString(desc) {
			continue
		}
		add(strings.TrimSpace(m[0][:strings.LastIndex(m[0], "$")]), rentbook.HeadingBills, v)
	}
	var eft []rentbook.Money
	for _, m := range ownershipNet.FindAllStringSubmatch(text, -1) {
		if v, err := ParseAmount(m[1], currency); err == nil {
			eft = append(eft, v)
		}
	}
	if len(eft) > 0 {
		add("Net income", rentbook.HeadingEFT, rentbook.Sum(eft...))
	}
	return records
}

type summaryLine struct {
	re      *regexp.Regexp
	section string
	desc    string
}

// summaryLines are tried in order, the first match of a heading wins.
var summaryLines = []summaryLine{
	{regexp.MustCompile(`(?i)money\s+in[:\s]+\$?([\d,]+\.\d{2})`), rentbook.HeadingMoneyIn, "Money in"},
	{regexp.MustCompile(`(?i)money\s+out[:\s]+\$?([\d,]+\.\d{2})`), rentbook.HeadingMoneyOut, "Money out"},
	{regexp.MustCompile(`(?i)you\s+received[:\s]+\$?([\d,]+\.\d{2})`), rentbook.HeadingEFT, "You received"},
	{regexp.MustCompile(`(?i)withdrawal\s+by\s+eft[^$\n]{0,60}\$?([\d,]+\.\d{2})`), rentbook.HeadingEFT, "Withdrawal by EFT"},
	{regexp.MustCompile(`(?i)eft\s+to\s+owner[^$\n]{0,30}\$?([\d,]+\.\d{2})`), rentbook.HeadingEFT, "EFT to owner"},
	{regexp.MustCompile(`(?i)total\s+eft[^$\d\n]{0,20}\$?([\d,]+\.\d{2})`), rentbook.HeadingEFT, "Total EFT"},
	{regexp.MustCompile(`(?i)disbursement\s+to\s+owner[:\s]+\$?([\d,]+\.\d{2})`), rentbook.HeadingEFT, "Disbursement to owner"},
	{regexp.MustCompile(`(?i)net\s+amount[:\s]+\$?([\d,]+\.\d{2})`), rentbook.HeadingEFT, "Net amount"},
}

// summaryRecords reads the money in, money out and EFT totals of a
// statement.
func summaryRecords(text string, on date.Date, currency string) []rentbook.RawRecord {
	var records []rentbook.RawRecord
	seen := make(map[string]bool)
	for _, s := range summaryLines {
		if seen[s.section] {
			continue
		}
		m := s.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := ParseAmount(m[1], currency)
		if err != nil || v.IsZero() {
			continue
		}
		seen[s.section] = true
		records = append(records, rentbook.RawRecord{Date: on, Description: s.desc, Amount: signed(v, s.section), Section: s.section})
	}
	return records
}

const datePattern = `\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4}|\d{4}-\d{2}-\d{2}|\d{1,2}\s+[A-Za-z]{3,9}\s+\d{4}`

var bankLine = regexp.MustCompile(`^(` + datePattern + `)\s+(.+?)\s+(` + amountPattern + `)(?:\s+` + amountPattern + `)?$`)

// credits are the words marking an unsigned amount as money received.
var credits = regexp.MustCompile(`(?i)\b(credit|deposit|received|refund)\b`)

// bankRecords reads one transaction per "date description amount [balance]"
// line. Unsigned amounts are debits unless the description says otherwise.
func bankRecords(text, currency string) []rentbook.RawRecord {
	var records []rentbook.RawRecord
	for _, l := range strings.Split(text, "\n") {
		m := bankLine.FindStringSubmatch(strings.TrimSpace(l))
		if m == nil {
			continue
		}
		on, err := ParseDate(m[1])
		if err != nil {
			continue
		}
		amount, err := ParseAmount(m[3], currency)
		if err != nil {
			continue
		}
		if unsigned(m[3]) && !credits.MatchString(m[2]) {
			amount = amount.Neg()
		}
		records = append(records, rentbook.RawRecord{Date: on, Description: strings.TrimSpace(m[2]), Amount: amount})
	}
	return records
}

func unsigned(amount string) bool {
	a := strings.ToUpper(amount)
	return !strings.ContainsAny(a, "-(") && !strings.HasSuffix(a, "CR") && !strings.HasSuffix(a, "DR")
}

// billTotals are tried in order.
var billTotals = []*regexp.Regexp{
	regexp.MustCompile(`(?i)amount\s+due[^$\d\n]{0,30}\$?\s*([\d,]+\.\d{2})`),
	regexp.MustCompile(`(?i)total\s+due[^$\d\n]{0,30}\$?\s*([\d,]+\.\d{2})`),
	regexp.MustCompile(`(?i)total\s+amount[^$\d\n]{0,30}\$?\s*([\d,]+\.\d{2})`),
	regexp.MustCompile(`(?i)balance\s+due[^$\d\n]{0,30}\$?\s*([\d,]+\.\d{2})`),
	regexp.MustCompile(`(?i)amount\s+payable[^$\d\n]{0,30}\$?\s*([\d,]+\.\d{2})`),
	regexp.MustCompile(`(?i)total[^$\d\n]{0,20}\$\s*([\d,]+\.\d{2})`),
}

// billRecords reads the total of a utility bill or an invoice, as a single
// expense dated on the issue date or at the end of the billed month.
func billRecords(text string, month date.Month, currency string) []rentbook.RawRecord {
	var total rentbook.Money
	found := false
	for _, re := range billTotals {
		if m := re.FindStringSubmatch(text); m != nil {
			if v, err := ParseAmount(m[1], currency); err == nil {
				total, found = v, true
				break
			}
		}
	}
	if !found {
		return nil
	}
	on, ok := DetectDate(text)
	if !ok {
		if month.IsZero() {
			return nil
		}
		on = month.Last()
	}
	return []rentbook.RawRecord{{Date: on, Description: vendor(text), Amount: total.Abs().Neg()}}
}

// vendor is the first line of a bill.
func vendor(text string) string {
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			return l
		}
	}
	return ""
}
