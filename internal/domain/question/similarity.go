package question

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// DefaultThreshold is the ratio above which two texts count as similar.
const DefaultThreshold = 0.7

// fold case-folds s. A Caser keeps state, so each call builds its own.
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// wordSet returns the distinct case-folded words of s.
func wordSet(s string) map[string]struct{} {
	fields := strings.Fields(fold(s))
	set := make(map[string]struct{}, len(fields))
	for _, w := range fields {
		set[w] = struct{}{}
	}
	return set
}

// Similarity returns the word-overlap ratio of a and b: the number of
// distinct case-folded words they share divided by the larger of the two
// distinct word counts. Identical non-empty texts yield 1, empty input 0.
func Similarity(a, b string) float64 {
	wa, wb := wordSet(a), wordSet(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}
	shared := 0
	for w := range wb {
		if _, ok := wa[w]; ok {
			shared++
		}
	}
	return float64(shared) / float64(max(len(wa), len(wb)))
}

// Similar reports whether the ratio of a and b is strictly above threshold.
func Similar(a, b string, threshold float64) bool {
	return Similarity(a, b) > threshold
}

// Match is a bank entry that resembles a candidate.
type Match struct {
	Index int     `json:"index"`
	Text  string  `json:"text"`
	Ratio float64 `json:"ratio"`
}

// FindSimilar returns the bank entries whose similarity to text exceeds
// threshold, highest ratio first. Ties keep bank order.
func FindSimilar(text string, bank []string, threshold float64) []Match {
	var out []Match
	for i, b := range bank {
		if r := Similarity(text, b); r > threshold {
			out = append(out, Match{Index: i, Text: b, Ratio: r})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Ratio > out[j].Ratio })
	return out
}
