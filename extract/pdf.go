package extract

import (
	"bytes"
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"rsc.io/pdf"
)

// pdfText returns the text layer of a PDF, one line per baseline. The reader
// panics on some malformed files, the panic is returned as an error.
func pdfText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("cannot open PDF: %w", err)
	}
	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, line := range pdfLines(p.Content().Text) {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

// pdfLines groups glyphs sharing a baseline into lines, top to bottom, and
// inserts a space where consecutive glyphs are not adjacent.
func pdfLines(glyphs []pdf.Text) []string {
	if len(glyphs) == 0 {
		return nil
	}
	sorted := slices.Clone(glyphs)
	slices.SortStableFunc(sorted, func(a, b pdf.Text) int {
		if math.Abs(a.Y-b.Y) > baselineTolerance(a, b) {
			return cmp.Compare(b.Y, a.Y)
		}
		return cmp.Compare(a.X, b.X)
	})

	var lines []string
	var b strings.Builder
	prev := sorted[0]
	b.WriteString(prev.S)
	for _, g := range sorted[1:] {
		if math.Abs(g.Y-prev.Y) > baselineTolerance(g, prev) {
			lines = append(lines, strings.TrimSpace(b.String()))
			b.Reset()
		} else if gap := g.X - (prev.X + prev.W); gap > g.FontSize*0.2 {
			b.WriteByte(' ')
		}
		b.WriteString(g.S)
		prev = g
	}
	lines = append(lines, strings.TrimSpace(b.String()))
	return slices.DeleteFunc(lines, func(s string) bool { return s == "" })
}

func baselineTolerance(a, b pdf.Text) float64 {
	return max(a.FontSize, b.FontSize, 1) * 0.3
}
