package materials

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"
)

var ErrEmptyTable = errors.New("materials: empty section table")

// Table is an immutable section catalogue. It is safe for concurrent use.
type Table struct {
	entries map[string]Entry
	keys    []string // normalized, longest first
	names   []string // display names, sorted
}

// NewTable validates entries and builds a table. Later duplicates replace earlier ones.
func NewTable(entries []Entry) (*Table, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyTable
	}
	t := &Table{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" || !e.valid() {
			return nil, fmt.Errorf("materials: invalid section %q", e.Name)
		}
		t.entries[Normalize(e.Name)] = e
	}
	for k, e := range t.entries {
		t.keys = append(t.keys, k)
		t.names = append(t.names, e.Name)
	}
	slices.SortFunc(t.keys, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})
	slices.Sort(t.names)
	return t, nil
}

var defaultTable = sync.OnceValue(func() *Table {
	t, err := NewTable(defaultSections)
	if err != nil {
		panic(err)
	}
	return t
})

// DefaultTable returns the built-in catalogue, built once per process.
func DefaultTable() *Table { return defaultTable() }

// Extend returns a new table with extra entries layered over t.
func (t *Table) Extend(extra []Entry) (*Table, error) {
	all := make([]Entry, 0, len(t.entries)+len(extra))
	for _, k := range t.keys {
		all = append(all, t.entries[k])
	}
	return NewTable(append(all, extra...))
}

func (t *Table) Len() int { return len(t.entries) }

func (t *Table) Names() []string { return slices.Clone(t.names) }

// Lookup resolves a free-text description: exact normalized match first,
// then the longest catalogue name contained in the description.
func (t *Table) Lookup(description string) (Entry, bool) {
	n := Normalize(description)
	if n == "" {
		return Entry{}, false
	}
	if e, ok := t.entries[n]; ok {
		return e, true
	}
	for _, k := range t.keys {
		if containsAtBoundary(n, k) {
			return t.entries[k], true
		}
	}
	return Entry{}, false
}

// containsAtBoundary reports whether key occurs in s and is not followed by
// more digits, so "ismc 100" does not match "ismc 1000".
func containsAtBoundary(s, key string) bool {
	for from := 0; ; {
		i := strings.Index(s[from:], key)
		if i < 0 {
			return false
		}
		end := from + i + len(key)
		if end == len(s) || !isDigitOrDot(s[end]) {
			return true
		}
		from += i + 1
	}
}

func isDigitOrDot(c byte) bool { return c == '.' || (c >= '0' && c <= '9') }

var (
	dimRe    = regexp.MustCompile(`(\d)\s*[x×*]\s*(\d)`)
	mmRe     = regexp.MustCompile(`(\d)\s+mm\b`)
	zeroRe   = regexp.MustCompile(`(^|[^\d.])0+(\d)`)
	spacesRe = regexp.MustCompile(`\s+`)
)

var plurals = map[string]string{
	"bars": "bar", "pipes": "pipe", "sheets": "sheet", "flats": "flat",
	"angles": "angle", "channels": "channel", "rounds": "round", "tubes": "tube",
	"beams": "beam", "plates": "plate",
}

// Normalize folds a section description to its lookup form.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "×", "x")
	// applied twice: a match consumes the digit that starts the next dimension
	s = dimRe.ReplaceAllString(s, "${1}x${2}")
	s = dimRe.ReplaceAllString(s, "${1}x${2}")
	s = mmRe.ReplaceAllString(s, "${1}mm")
	s = zeroRe.ReplaceAllString(s, "${1}${2}")
	words := strings.Fields(spacesRe.ReplaceAllString(s, " "))
	for i, w := range words {
		if p, ok := plurals[w]; ok {
			words[i] = p
		}
	}
	return strings.Join(words, " ")
}
