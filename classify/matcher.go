package classify

import (
	"cmp"
	"slices"
	"strings"

	"github.com/etnz/rentbook"
)

// keyword is a compiled rule keyword.
type keyword struct {
	phrase   string // normalized words surrounded by spaces
	words    int    // specificity
	category rentbook.Category
	text     string // as declared
}

// matcher finds the most specific keyword contained in a text. It is read
// only once built, and can be shared.
type matcher struct {
	keywords []keyword // most specific first, declaration order otherwise
}

func newMatcher(rules []Rule) matcher {
	var kws []keyword
	for _, r := range rules {
		for _, k := range r.Keywords {
			w := words(k)
			kws = append(kws, keyword{
				phrase:   " " + strings.Join(w, " ") + " ",
				words:    len(w),
				category: r.Category,
				text:     k,
			})
		}
	}
	slices.SortStableFunc(kws, func(a, b keyword) int { return cmp.Compare(b.words, a.words) })
	return matcher{keywords: kws}
}

// normalize prepares a text for whole word matching.
func normalize(text string) string { return " " + strings.Join(words(text), " ") + " " }

// match returns the first keyword found in text among the categories accepted
// by allow (nil accepts all). ambiguous is set when a keyword of another
// category matches with the same specificity.
func (m matcher) match(text string, allow func(rentbook.Category) bool) (kw keyword, found, ambiguous bool) {
	text = normalize(text)
	for _, k := range m.keywords {
		if found && k.words < kw.words {
			break
		}
		if allow != nil && !allow(k.category) {
			continue
		}
		if !strings.Contains(text, k.phrase) {
			continue
		}
		if !found {
			kw, found = k, true
			continue
		}
		if k.category != kw.category {
			ambiguous = true
			break
		}
	}
	return kw, found, ambiguous
}

// signatures detects the type of a bill: the first rule, in declaration
// order, with a keyword in the text wins.
type signatures []Rule

func (s signatures) detect(text string) (rentbook.Category, string, bool) {
	text = normalize(text)
	for _, r := range s {
		for _, k := range r.Keywords {
			if strings.Contains(text, normalize(k)) {
				return r.Category, k, true
			}
		}
	}
	return "", "", false
}
