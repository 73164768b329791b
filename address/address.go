// Package address compares the property address found in a document with the
// configured address of a property.
//
// Addresses are Australian street addresses ("Unit 4, 12 Smith St, Parramatta
// NSW 2150"). When both sides carry a postcode, the postcode decides whether
// the document is about the same suburb, and the unit, number and street name
// whether it is about the same property. Without postcodes the verdict falls
// back to the share of common words.
package address

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/etnz/rentbook"
	"golang.org/x/text/cases"
)

// Result is the outcome of a comparison.
type Result struct {
	Verdict rentbook.AddressVerdict
	Score   float64 // similarity in [0,1]
	Reason  string  // human readable explanation
}

// Included is the default inclusion of the records of the document.
func (r Result) Included() bool { return r.Verdict.Included() }

func (r Result) String() string { return fmt.Sprintf("%s (%.0f%%): %s", r.Verdict, 100*r.Score, r.Reason) }

var abbreviations = map[string]string{
	"st":   "street",
	"rd":   "road",
	"ave":  "avenue",
	"av":   "avenue",
	"dr":   "drive",
	"pl":   "place",
	"ct":   "court",
	"cres": "crescent",
	"blvd": "boulevard",
	"cl":   "close",
	"cct":  "circuit",
	"hwy":  "highway",
	"pde":  "parade",
	"tce":  "terrace",
}

// streetTypes end the street part of an address.
var streetTypes = func() map[string]bool {
	m := map[string]bool{"lane": true, "way": true, "grove": true, "square": true}
	for _, long := range abbreviations {
		m[long] = true
	}
	return m
}()

// unitWords introduce a unit number, they carry no information once removed:
// "Unit 4, 12 Smith St" and "4/12 Smith St" both start with the unit number.
var unitWords = map[string]bool{
	"unit":      true,
	"apartment": true,
	"apt":       true,
	"flat":      true,
	"suite":     true,
	"shop":      true,
	"lot":       true,
}

var states = map[string]bool{
	"nsw": true, "vic": true, "qld": true, "wa": true, "sa": true, "tas": true, "act": true, "nt": true,
}

var (
	noise    = regexp.MustCompile(`[^\p{L}\p{N}/ ]+`)
	postcode = regexp.MustCompile(`^\d{4}$`)
)

// Normalize case-folds an address, expands street abbreviations and strips
// punctuation and unit words. Normalize("Unit 4, 12 Smith St.") is
// "4 12 smith street".
func Normalize(s string) string { return strings.Join(tokens(s), " ") }

func tokens(s string) []string {
	s = cases.Fold().String(s)
	s = noise.ReplaceAllString(s, " ")
	var res []string
	for _, w := range strings.Fields(s) {
		if unitWords[w] {
			continue
		}
		if long, ok := abbreviations[w]; ok {
			w = long
		}
		res = append(res, w)
	}
	return res
}

// street returns the unit, the number and the street name of an address: the
// words up to the street type. Without a street type it is the leading
// numbers. "4/12" and "4 12" are the same.
func street(words []string) string {
	end := -1
	for i, w := range words {
		if streetTypes[w] {
			end = i + 1
			break
		}
	}
	if end < 0 {
		end = 0
		for end < len(words) && strings.ContainsAny(words[end], "0123456789") && !postcode.MatchString(words[end]) {
			end++
		}
	}
	return strings.Join(strings.Fields(strings.ReplaceAll(strings.Join(words[:end], " "), "/", " ")), " ")
}

// postcodeOf returns the last 4 digit token, Australian addresses end with it.
func postcodeOf(words []string) string {
	for i := len(words) - 1; i >= 0; i-- {
		if postcode.MatchString(words[i]) {
			return words[i]
		}
	}
	return ""
}

// overlap is the fraction of the configured words found in the extracted address.
func overlap(extracted, configured []string) float64 {
	if len(configured) == 0 {
		return 0
	}
	seen := make(map[string]bool, len(extracted))
	for _, w := range extracted {
		seen[w] = true
	}
	common, total := 0, 0
	counted := make(map[string]bool, len(configured))
	for _, w := range configured {
		if counted[w] {
			continue
		}
		counted[w] = true
		total++
		if seen[w] {
			common++
		}
	}
	return float64(common) / float64(total)
}

func sharedState(extracted, configured []string) bool {
	for _, a := range extracted {
		if !states[a] {
			continue
		}
		for _, b := range configured {
			if a == b {
				return true
			}
		}
	}
	return false
}

// Match compares the address extracted from a document with the configured
// address of the property.
func Match(extracted, configured string) Result {
	ext, ref := tokens(extracted), tokens(configured)
	switch {
	case len(ext) == 0:
		return Result{Verdict: rentbook.AddressNotFound, Reason: "no address found in the document"}
	case len(ref) == 0:
		return Result{Verdict: rentbook.AddressNotFound, Reason: "no address configured for the property"}
	}
	score := overlap(ext, ref)
	if strings.Join(ext, " ") == strings.Join(ref, " ") {
		return Result{Verdict: rentbook.AddressMatched, Score: 1, Reason: "same address"}
	}

	extPC, refPC := postcodeOf(ext), postcodeOf(ref)
	if extPC != "" && refPC != "" {
		if extPC != refPC {
			return Result{Verdict: rentbook.AddressMismatch, Score: 0, Reason: fmt.Sprintf("postcode %s differs from %s", extPC, refPC)}
		}
		extStreet, refStreet := street(ext), street(ref)
		if extStreet == refStreet {
			return Result{Verdict: rentbook.AddressMatched, Score: 1, Reason: "same postcode and street address"}
		}
		return Result{Verdict: rentbook.AddressPartial, Score: score, Reason: fmt.Sprintf("same postcode, %q differs from %q", extStreet, refStreet)}
	}

	state := sharedState(ext, ref)
	switch {
	case score >= 0.8 || (state && score >= 0.5):
		return Result{Verdict: rentbook.AddressMatched, Score: score, Reason: "most words match"}
	case score >= 0.35 || state:
		return Result{Verdict: rentbook.AddressPartial, Score: score, Reason: "some words match"}
	}
	return Result{Verdict: rentbook.AddressMismatch, Score: score, Reason: "different address"}
}
