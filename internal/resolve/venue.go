package resolve

import (
	"regexp"
	"strings"
)

// Two distinct venue representations come out of title text, and they stay
// distinct on purpose: the slug is a stable first-pass grouping key, the
// token set is a semantic similarity signal for the fuzzy second pass.

const maxSlugLen = 60

var (
	liveAtOnRe  = regexp.MustCompile(`(?i)live at (.+?) on `)
	liveAtEndRe = regexp.MustCompile(`(?i)live at (.+)$`)

	nonAlnumRe    = regexp.MustCompile(`[^a-z0-9]+`)
	yearRe        = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	bareNumberRe  = regexp.MustCompile(`\b\d{1,2}\b`)
	datePatternRe = regexp.MustCompile(`\b(19|20)\d{2}[-./]\d{1,2}[-./]\d{1,2}\b`)
)

// VenueSlug derives the slug half of the showKey from a title. Patterns
// "Live at <venue> on <date>" and "... - Live at <venue>" are tried first;
// otherwise the portion of the title before " on " is slugified whole.
func VenueSlug(title string) string {
	phrase := venuePhrase(title)
	return slugify(phrase)
}

func venuePhrase(title string) string {
	if m := liveAtOnRe.FindStringSubmatch(title); m != nil {
		return m[1]
	}
	if m := liveAtEndRe.FindStringSubmatch(title); m != nil {
		return m[1]
	}
	if i := strings.Index(title, " on "); i > 0 {
		return title[:i]
	}
	return title
}

func slugify(s string) string {
	s = strings.ToLower(s)
	s = nonAlnumRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLen {
		s = strings.Trim(s[:maxSlugLen], "-")
	}
	return s
}

type tokenSet map[string]struct{}

func (t tokenSet) overlap(other tokenSet) int {
	small, large := t, other
	if len(large) < len(small) {
		small, large = large, small
	}
	n := 0
	for tok := range small {
		if _, ok := large[tok]; ok {
			n++
		}
	}
	return n
}

func (t tokenSet) jaccard(other tokenSet) float64 {
	union := len(t) + len(other) - t.overlap(other)
	if union == 0 {
		return 0
	}
	return float64(t.overlap(other)) / float64(union)
}

// venueTokens reduces a title to the tokens that identify its venue:
// the extracted venue phrase (or failing that the whole title), lowercased,
// with dates, years and bare 1-2 digit numbers stripped, filtered of short
// tokens and stop words.
func venueTokens(title string, stop map[string]struct{}) tokenSet {
	phrase := strings.ToLower(venuePhrase(title))
	phrase = datePatternRe.ReplaceAllString(phrase, " ")
	phrase = yearRe.ReplaceAllString(phrase, " ")
	phrase = bareNumberRe.ReplaceAllString(phrase, " ")
	phrase = nonAlnumRe.ReplaceAllString(phrase, " ")

	set := tokenSet{}
	for _, tok := range strings.Fields(phrase) {
		if len(tok) < 3 {
			continue
		}
		if _, stopped := stop[tok]; stopped {
			continue
		}
		set[tok] = struct{}{}
	}
	return set
}

// tokensSimilar is the shared fuzzy-merge predicate: enough token overlap,
// or full containment of a tiny set, or high Jaccard similarity. Tuned to
// merge wording variants of one venue without merging distinct venues that
// happen to share a date.
func tokensSimilar(a, b tokenSet) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	overlap := a.overlap(b)
	if overlap >= 2 {
		return true
	}
	smaller := len(a)
	if len(b) < smaller {
		smaller = len(b)
	}
	if smaller <= 2 && overlap >= 1 {
		return true
	}
	return a.jaccard(b) >= 0.45
}
