package extract

import (
	"regexp"
	"strings"

	"github.com/Spok95/quote-bot/internal/domain/materials"
	"github.com/Spok95/quote-bot/internal/domain/quotation"
)

// matcher pairs a pattern with a value extractor. The extractor may reject a match.
type matcher struct {
	re  *regexp.Regexp
	get func(m []string) (string, bool)
}

func firstMatch(text string, ms []matcher) (string, bool) {
	for _, m := range ms {
		for _, sm := range m.re.FindAllStringSubmatch(text, -1) {
			if v, ok := m.get(sm); ok {
				return v, true
			}
		}
	}
	return "", false
}

func group(i int) func([]string) (string, bool) {
	return func(m []string) (string, bool) {
		v := strings.TrimSpace(m[i])
		return v, v != ""
	}
}

// term clips a captured free-text value at the next clause or field keyword.
func term(i int) func([]string) (string, bool) {
	return func(m []string) (string, bool) {
		v := clip(m[i])
		return v, v != ""
	}
}

var fieldKeywordRe = regexp.MustCompile(`(?i)\b(?:transport(?:ation)?|freight|loading|unloading|payment|delivery|validity|valid\s+(?:for|till|until)|add\s+\d|gst|igst)\b`)

func clip(s string) string {
	cut := len(s)
	for _, sep := range []string{", ", ". ", "\n", ";", " & "} {
		if i := strings.Index(s, sep); i >= 0 && i < cut {
			cut = i
		}
	}
	if loc := fieldKeywordRe.FindStringIndex(s); loc != nil && loc[0] > 0 && loc[0] < cut {
		cut = loc[0]
	}
	s = strings.TrimSpace(s[:cut])
	s = strings.TrimRight(s, ".,:- ")
	return capitalize(s)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] -= 'a' - 'A'
	}
	return string(r)
}

const (
	namePart = `(\p{L}[\p{L}\p{M}\p{N}&.'()/ -]{1,80}?)`
	nameEnd  = `\s*(?:[:;,\n]|\.(?:\s|$)|\s[-–]\s|$)`
	msPrefix = `(?:m/s\.?\s*|messrs\.?\s*)?`
)

var customerMatchers = []matcher{
	{regexp.MustCompile(`(?i)\b(?:quote|quotation|estimate|offer|proforma|price|rates?)\s+(?:to|for)\s+` + msPrefix + namePart + nameEnd), group(1)},
	{regexp.MustCompile(`(?i)\b(?:customer|client|buyer|party)(?:\s+name)?\s*[:=-]\s*` + msPrefix + namePart + nameEnd), group(1)},
	{regexp.MustCompile(`(?i)(?:^|\s)(?:to|for)\s+` + msPrefix + namePart + `\s*[,:]`), group(1)},
	{regexp.MustCompile(`(?i)\b(?:dear|attn\.?|attention)\s*:?\s*` + msPrefix + namePart + nameEnd), group(1)},
}

// cityAfterCustomer captures "quote to NAME, CITY." as the customer's location.
var cityAfterCustomer = regexp.MustCompile(`(?i)\b(?:quote|quotation|estimate|offer)\s+(?:to|for)\s+` + msPrefix + namePart + `\s*,\s*(\p{L}[\p{L}\p{M} ]{1,40}?)\s*(?:\.|\n|$)`)

var (
	productUnitRe  = regexp.MustCompile(`(?i)\d\s*(?:mm|mt|kg|nos|pcs|mtrs?)\b|@|₹`)
	companyWordRe  = regexp.MustCompile(`(?i)\b(?:industries|industry|corp|corporation|company|co|ltd|limited|pvt|private|llp|inc|enterprises?|works|traders?|trading|engineering|engineers|constructions?|builders|infra|associates|agencies|solutions|group|steels?|metals?|energy)\b`)
	stopNames      = map[string]bool{"you": true, "me": true, "us": true, "him": true, "her": true, "them": true, "the": true, "a": true, "an": true}
	prefixStripper = regexp.MustCompile(`(?i)^(?:m/s\.?|messrs\.?|mr\.?|mrs\.?|ms\.?)\s+`)
)

func cleanCustomer(s string) string {
	s = strings.TrimSpace(s)
	s = prefixStripper.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimRight(s, ".,:;- ")
}

// validCustomer rejects captures that look like products rather than parties.
func validCustomer(name string, rates materials.RateTable, table *materials.Table) bool {
	if len(name) < 2 || len(name) > 99 || stopNames[strings.ToLower(name)] {
		return false
	}
	if productUnitRe.MatchString(name) {
		return false
	}
	if companyWordRe.MatchString(name) {
		return true
	}
	if _, ok := table.Lookup(name); ok {
		return false
	}
	return rates.Family(name) == ""
}

func (e *Extractor) customer(text string) (name, city string) {
	for _, m := range customerMatchers {
		for _, sm := range m.re.FindAllStringSubmatch(text, -1) {
			n := cleanCustomer(sm[1])
			if validCustomer(n, e.rates, e.table) {
				name = n
				break
			}
		}
		if name != "" {
			break
		}
	}
	if name == "" {
		return "", ""
	}
	if m := cityAfterCustomer.FindStringSubmatch(text); m != nil && cleanCustomer(m[1]) == name {
		c := strings.TrimSpace(m[2])
		if !strings.EqualFold(c, name) && !fieldKeywordRe.MatchString(c) {
			city = capitalize(c)
		}
	}
	return name, city
}

var addressMatchers = []matcher{
	{regexp.MustCompile(`(?i)\b(?:address|addr\.?|located\s+at)\s*[:=-]\s*([^\n;]+)`), func(m []string) (string, bool) {
		v := m[1]
		if i := strings.Index(v, ". "); i >= 0 {
			v = v[:i]
		}
		if loc := fieldKeywordRe.FindStringIndex(v); loc != nil && loc[0] > 0 {
			v = v[:loc[0]]
		}
		v = strings.TrimRight(strings.TrimSpace(v), ".,")
		return v, v != ""
	}},
}

var taxIDMatchers = []matcher{
	{regexp.MustCompile(`(?i)\b(` + quotation.TaxIDPattern + `)\b`), group(1)},
}

var gstMatchers = []matcher{
	{regexp.MustCompile(`(?i)\b(\d{1,3}(?:\.\d+)?)\s*%\s*(?:i|c|s)?gst\b`), group(1)},
	{regexp.MustCompile(`(?i)\b(?:i|c|s)?gst\s*(?:@|:|=|of|at|is)?\s*(\d{1,3}(?:\.\d+)?)\s*%`), group(1)},
	{regexp.MustCompile(`(?i)\bgst\s*(?:@|:|=)\s*(\d{1,3}(?:\.\d+)?)\b`), group(1)},
}

const verb = `\s*(?:[:=-]|\bis\b|\bare\b|\bwill\s+be\b)?\s*`

var transportMatchers = []matcher{
	{regexp.MustCompile(`(?i)\b(?:transport(?:ation)?|freight|cartage)(?:\s+charges?)?` + verb + `([^\n;]+)`), term(1)},
}

var loadingMatchers = []matcher{
	{regexp.MustCompile(`(?i)\b(?:loading|unloading)(?:\s*(?:&|and)\s*unloading)?(?:\s+charges?)?` + verb + `([^\n;]+)`), term(1)},
}

var paymentMatchers = []matcher{
	{regexp.MustCompile(`(?i)\bpayment(?:\s+terms?)?` + verb + `([^\n;]+)`), term(1)},
	{regexp.MustCompile(`(?i)\b(\d{1,3}\s*%\s*advance[^\n;,.]*)`), term(1)},
	{regexp.MustCompile(`(?i)\b(against\s+(?:delivery|proforma|pi)|cash\s+on\s+delivery|immediate\s+payment|advance\s+payment|net\s+\d+\s+days)\b`), term(1)},
}

var deliveryMatchers = []matcher{
	{regexp.MustCompile(`(?i)\bdelivery(?:\s+(?:terms?|period|time|schedule))?` + verb + `([^\n;]+)`), term(1)},
	{regexp.MustCompile(`(?i)\b(ex[- ]?works|ex[- ]?godown|door\s+delivery|immediate\s+dispatch)\b`), term(1)},
}

var validityMatchers = []matcher{
	{regexp.MustCompile(`(?i)\b(?:price\s+|quote\s+|offer\s+)?validity` + verb + `([^\n;]+)`), term(1)},
	{regexp.MustCompile(`(?i)\bvalid\s+(?:for|till|until|upto|up\s+to)\s+([^\n;]+)`), term(1)},
}

var (
	sectionRateSuffixRe = regexp.MustCompile(`(?i)\b(angle\s+(?:and|&)\s+channel|flat|angle|channel|sheet|plate|pipe|bar|beam|column|tmt)s?\s*[-–:]\s*(?:rs\.?|₹)?\s*(\d+(?:\.\d+)?)\s*(?:₹|rs\.?|/-)?\s*(?:\+\s*gst|/\s*kg|per\s*kg)`)
	sectionRateColonRe  = regexp.MustCompile(`(?i)\b(angle\s+(?:and|&)\s+channel|flat|angle|channel|sheet|plate|pipe|bar|beam|column|tmt)s?\s*:\s*(?:rs\.?|₹)?\s*(\d+(?:\.\d+)?)\s*(?:[,;\n]|$)`)
)

// extractSectionRates reads group rates such as "Flat - 51+GST" or
// "ANGLE AND CHANNEL – 50₹ + GST", keyed by rate family.
func extractSectionRates(text string, rates materials.RateTable) map[string]float64 {
	out := map[string]float64{}
	for _, re := range []*regexp.Regexp{sectionRateSuffixRe, sectionRateColonRe} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			v, ok := parsePositive(m[2])
			if !ok {
				continue
			}
			label := strings.ToLower(m[1])
			if strings.Contains(label, "angle") && strings.Contains(label, "channel") {
				out[materials.FamilyAngle] = v
				out[materials.FamilyChannel] = v
				continue
			}
			if fam := rates.Family(label); fam != "" {
				if _, seen := out[fam]; !seen {
					out[fam] = v
				}
			}
		}
	}
	return out
}
