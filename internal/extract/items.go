package extract

import (
	"cmp"
	"regexp"
	"slices"
	"strings"

	"github.com/Spok95/quote-bot/internal/domain/materials"
	"github.com/Spok95/quote-bot/internal/domain/quotation"
)

const (
	num     = `(\d[\d,]*(?:\.\d+)?)`
	unit    = `(` + quotation.UnitPattern + `)`
	ratePfx = `@\s*(?:rs\.?|inr|₹)?\s*`
	desc    = `([A-Za-z][A-Za-z0-9 ./×*()+&'"-]*?)`
)

// itemShape is one way of writing line items. Every shape runs over the
// message; text claimed by an earlier shape is masked so later shapes only see
// what is left.
type itemShape struct {
	name  string
	re    *regexp.Regexp
	build func(e *Extractor, m []string) (quotation.LineItem, bool)
}

var itemShapes = []itemShape{
	{
		// 1. MS Channel 75x40x6mm
		//    • 7.14 kg/m × 6 m × 140 Nos = 5,997.6 kg
		name: "structured",
		re: regexp.MustCompile(`(?im)^\s*\d{1,3}[.)]\s*([^\n•]+?)\s*[•*·]?\s*` + num + `\s*kg\s*/\s*m(?:tr|etre)?\s*[×x*]\s*` + num +
			`\s*m(?:trs?|etres?|eters?)?\s*[×x*]\s*` + num + `\s*(?:nos?|pcs|pieces?)\.?\s*=\s*` + num + `\s*kg`),
		build: buildStructured,
	},
	{
		// ISMC 100x50 - 5MT @ Rs.56
		name:  "inline",
		re:    regexp.MustCompile(`(?i)` + desc + `\s*(?:[-–:]\s*)?` + num + `\s*` + unit + `\b\.?\s*` + ratePfx + num),
		build: buildInline(1, 2, 3, 4),
	},
	{
		// 5MT TMT bars @ Rs.58
		name:  "inline-qty-first",
		re:    regexp.MustCompile(`(?i)\b` + num + `\s*` + unit + `\b\.?\s+` + desc + `\s*` + ratePfx + num),
		build: buildInline(3, 1, 2, 4),
	},
	{
		// MS Channel 75x40x6mm – 6 MTR Length, 140 Nos
		// TMT Bars 10mm - 5 MT
		name: "bare",
		re: regexp.MustCompile(`(?i)` + desc + `\s*[-–:]\s*(?:` + num + `\s*(?:mtrs?|metres?|meters?|m)\b\.?\s*(?:length|long|lg)?\s*,?\s*)?` +
			num + `\s*` + unit + `\b`),
		build: buildBare,
	},
}

// sentenceBreak splits on sentence ends without cutting decimals like "Rs.56" or "1.6mm".
var sentenceBreak = regexp.MustCompile(`\.\s+|\n|;`)

// maskByte blanks claimed text. It is neither a space, a word rune nor a
// separator, so no shape can match across it.
const maskByte = 0

type hit struct {
	at int
	it quotation.LineItem
}

func (e *Extractor) items(text, customer string) []quotation.LineItem {
	buf := []byte(text)
	var hits []hit
	take := func(shape itemShape, from, to int) {
		seg := string(buf[from:to])
		for _, loc := range shape.re.FindAllStringSubmatchIndex(seg, -1) {
			it, ok := shape.build(e, submatches(seg, loc))
			if !ok {
				continue
			}
			it.Description = cleanDescription(it.Description, customer)
			if it.Description == "" {
				continue
			}
			hits = append(hits, hit{at: from + loc[0], it: it})
			for i := from + loc[0]; i < from+loc[1]; i++ {
				buf[i] = maskByte
			}
		}
	}

	take(itemShapes[0], 0, len(buf))
	for _, span := range segments(string(buf)) {
		for _, shape := range itemShapes[1:] {
			take(shape, span[0], span[1])
		}
	}

	slices.SortStableFunc(hits, func(a, b hit) int { return cmp.Compare(a.at, b.at) })
	var out []quotation.LineItem
	for _, h := range hits {
		out = append(out, h.it)
	}
	return out
}

// segments returns the byte ranges between sentence breaks.
func segments(text string) [][2]int {
	var out [][2]int
	prev := 0
	for _, br := range sentenceBreak.FindAllStringIndex(text, -1) {
		out = append(out, [2]int{prev, br[0]})
		prev = br[1]
	}
	return append(out, [2]int{prev, len(text)})
}

func submatches(s string, loc []int) []string {
	m := make([]string, len(loc)/2)
	for i := range m {
		if loc[2*i] >= 0 {
			m[i] = s[loc[2*i]:loc[2*i+1]]
		}
	}
	return m
}

func buildStructured(e *Extractor, m []string) (quotation.LineItem, bool) {
	kgm, ok1 := parsePositive(m[2])
	length, ok2 := parsePositive(m[3])
	pieces, ok3 := parsePositive(m[4])
	total, ok4 := parsePositive(m[5])
	if !ok1 || !ok2 || !ok3 {
		return quotation.LineItem{}, false
	}
	if !ok4 {
		total = kgm * length * pieces
	}
	return quotation.LineItem{
		Description:  m[1],
		Quantity:     total,
		Unit:         quotation.UnitKg,
		Pieces:       pieces,
		LengthMetres: length,
		KgPerMetre:   kgm,
	}, true
}

func buildInline(d, q, u, r int) func(*Extractor, []string) (quotation.LineItem, bool) {
	return func(e *Extractor, m []string) (quotation.LineItem, bool) {
		qty, ok := parsePositive(m[q])
		if !ok {
			return quotation.LineItem{}, false
		}
		it := quotation.LineItem{Description: m[d]}
		it.Quantity, it.Unit = quotation.NormalizeQuantity(qty, m[u])
		if rate, ok := parsePositive(m[r]); ok {
			it.Rate = quotation.Rate(rate)
		}
		return it, true
	}
}

// buildBare handles items without a rate. Pieces of a known section are
// converted to kilograms so the per-kg rate applies; a missing length means a
// standard 6 m piece.
func buildBare(e *Extractor, m []string) (quotation.LineItem, bool) {
	qty, ok := parsePositive(m[3])
	if !ok {
		return quotation.LineItem{}, false
	}
	it := quotation.LineItem{Description: m[1]}
	it.Quantity, it.Unit = quotation.NormalizeQuantity(qty, m[4])
	if l, ok := parsePositive(m[2]); ok {
		it.LengthMetres = l
	}
	if it.Unit != quotation.UnitNos {
		return it, true
	}
	entry, found := e.table.Lookup(m[1])
	if !found {
		return it, true
	}
	if it.LengthMetres == 0 && !entry.IsSheet() {
		it.LengthMetres = materials.DefaultLengthMetres
	}
	kg, ok := e.table.ComputeWeight(m[1], qty, it.LengthMetres)
	if !ok {
		return it, true
	}
	it.Pieces = qty
	it.KgPerMetre = entry.KgPerMetre
	it.Quantity = kg
	it.Unit = quotation.UnitKg
	return it, true
}

var (
	leadingNoiseRe = regexp.MustCompile(`(?i)^(?:and|also|plus|with|item|items|product|products|need|require|required|supply(?:\s+of)?)\b[\s:,-]*`)
	quoteLeadRe    = regexp.MustCompile(`(?i)^.*\b(?:quote|quotation|estimate|price|rate)s?\s+(?:to|for|of)\s+`)
	uomLeadRe      = regexp.MustCompile(`(?i)^.*\bu\.?o\.?m\.?\s+(?:to\s+be\s+|should\s+be\s+|is\s+)?(?:in\s+)?[a-z]+\s+`)
)

func cleanDescription(s, customer string) string {
	s = strings.TrimSpace(s)
	if customer != "" {
		if i := strings.Index(strings.ToLower(s), strings.ToLower(customer)); i >= 0 {
			s = s[i+len(customer):]
		}
	}
	s = quoteLeadRe.ReplaceAllString(s, "")
	s = uomLeadRe.ReplaceAllString(s, "")
	for {
		t := strings.TrimLeft(leadingNoiseRe.ReplaceAllString(s, ""), " :,-–")
		if t == s {
			break
		}
		s = t
	}
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimRight(s, " -–:,.")
}

func parsePositive(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, ok := quotation.ParseNumber(s)
	return v, ok && v > 0
}
