package renderer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/rentbook"
	"github.com/etnz/rentbook/date"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// amount formats a cell value, empty cells are shown as a dash.
func amount(m rentbook.Money) string {
	if m.IsZero() {
		return "-"
	}
	return m.String()
}

// optional formats a nil-able amount.
func optional(m *rentbook.Money) string {
	if m == nil {
		return "N/A"
	}
	return m.String()
}

// monthHeader is the short column title of a month ("Jul 24").
func monthHeader(m date.Month) string {
	return fmt.Sprintf("%s %02d", m.Month().String()[:3], m.Year()%100)
}

// cellText keeps table cells on a single line.
func cellText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.ReplaceAll(s, "|", "/")
}
