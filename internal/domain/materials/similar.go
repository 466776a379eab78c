package materials

import (
	"iter"
	"slices"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// FindSimilar yields catalogue names resembling the description, best first.
// The sequence is computed afresh on each iteration.
func (t *Table) FindSimilar(description string) iter.Seq[string] {
	return func(yield func(string) bool) {
		n := Normalize(description)
		if n == "" {
			return
		}
		type hit struct {
			name  string
			score int
		}
		var hits []hit
		for _, k := range t.keys {
			if s := similarity(n, k); s > 0 {
				hits = append(hits, hit{t.entries[k].Name, s})
			}
		}
		slices.SortFunc(hits, func(a, b hit) int {
			if a.score != b.score {
				return b.score - a.score
			}
			return strings.Compare(a.name, b.name)
		})
		for _, h := range hits {
			if !yield(h.name) {
				return
			}
		}
	}
}

// similarity scores how close a normalized description is to a catalogue key.
// Zero means unrelated.
func similarity(desc, key string) int {
	if strings.Contains(key, desc) || strings.Contains(desc, key) {
		return 100
	}
	dt, kt := strings.Fields(desc), strings.Fields(key)

	sharedDims, sharedWords := 0, 0
	for _, d := range dt {
		for _, k := range kt {
			switch {
			case hasDigit(d) && d == k:
				sharedDims++
			case !hasDigit(d) && !hasDigit(k) && closeWords(d, k):
				sharedWords++
			}
		}
	}
	switch {
	case sharedDims > 0 && sharedWords > 0:
		return 50 + 10*sharedDims + 5*sharedWords
	case sharedWords > 0 && len(dt) == 1:
		return 20 + 5*sharedWords
	default:
		return 0
	}
}

func hasDigit(s string) bool { return strings.IndexFunc(s, unicode.IsDigit) >= 0 }

// closeWords treats identical words, and longer words within edit distance 2, as the same.
func closeWords(a, b string) bool {
	if a == b {
		return true
	}
	if len(a) < 4 || len(b) < 4 {
		return false
	}
	return levenshtein.ComputeDistance(a, b) <= 2
}
