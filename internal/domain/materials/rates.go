package materials

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// FallbackRate is used when no family rule matches and no usable fallback is configured.
const FallbackRate = 50.0

// Family names used as rate keys.
const (
	FamilyFlat    = "flat"
	FamilyAngle   = "angle"
	FamilyChannel = "channel"
	FamilyTMT     = "tmt"
	FamilySheet   = "sheet"
	FamilyPipe    = "pipe"
	FamilyBeam    = "beam"
	FamilyRound   = "round"
)

// RateRule maps a section family to a per-kg rate. Keywords are matched as word prefixes.
type RateRule struct {
	Family   string
	Keywords []string
	Rate     float64
}

// RateTable is an ordered list of family rules. The first matching rule wins.
// It is a value type; With* methods return modified copies.
type RateTable struct {
	rules    []RateRule
	fallback float64
}

func DefaultRates() RateTable {
	return RateTable{
		rules: []RateRule{
			{Family: FamilyFlat, Keywords: []string{"flat", "strip"}, Rate: 51},
			{Family: FamilyAngle, Keywords: []string{"angle", "isa"}, Rate: 50},
			{Family: FamilyChannel, Keywords: []string{"channel", "ismc"}, Rate: 50},
			{Family: FamilyTMT, Keywords: []string{"tmt", "bar", "rebar"}, Rate: 52},
			{Family: FamilySheet, Keywords: []string{"sheet", "plate", "hr", "cr", "chequered"}, Rate: 55},
			{Family: FamilyPipe, Keywords: []string{"pipe", "tube", "hollow"}, Rate: 60},
			{Family: FamilyRound, Keywords: []string{"round", "rod"}, Rate: 52},
			{Family: FamilyBeam, Keywords: []string{"beam", "ismb", "rsj", "joist", "column"}, Rate: 70},
		},
		fallback: FallbackRate,
	}
}

// WithRates returns a copy with the given family rates replaced. Unknown families
// are appended as new rules keyed on the family name itself.
func (r RateTable) WithRates(overrides map[string]float64) RateTable {
	rules := make([]RateRule, 0, len(overrides))
	for _, fam := range slices.Sorted(maps.Keys(overrides)) {
		rules = append(rules, RateRule{Family: fam, Rate: overrides[fam]})
	}
	return r.WithRules(rules)
}

// WithRules is WithRates with keywords: a rule that lists keywords replaces the
// keywords of its family, and new families match on their keywords.
func (r RateTable) WithRules(rules []RateRule) RateTable {
	out := RateTable{rules: slices.Clone(r.rules), fallback: r.fallback}
	for _, rule := range rules {
		fam := strings.ToLower(strings.TrimSpace(rule.Family))
		if fam == "" || !positive(rule.Rate) {
			continue
		}
		if fam == "default" || fam == "other" {
			out.fallback = rule.Rate
			continue
		}
		kws := slices.Clone(rule.Keywords)
		idx := slices.IndexFunc(out.rules, func(rr RateRule) bool { return rr.Family == fam })
		if idx >= 0 {
			out.rules[idx].Rate = rule.Rate
			if len(kws) > 0 {
				out.rules[idx].Keywords = kws
			}
			continue
		}
		if len(kws) == 0 {
			kws = []string{fam}
		}
		out.rules = append(out.rules, RateRule{Family: fam, Keywords: kws, Rate: rule.Rate})
	}
	return out
}

// Family returns the family of a description, or "" when no rule matches.
func (r RateTable) Family(description string) string {
	words := strings.FieldsFunc(strings.ToLower(description), func(c rune) bool {
		return !(c >= 'a' && c <= 'z')
	})
	for _, rule := range r.rules {
		for _, kw := range rule.Keywords {
			for _, w := range words {
				if w == kw || (len(kw) > 2 && strings.HasPrefix(w, kw)) {
					return rule.Family
				}
			}
		}
	}
	return ""
}

// InferRate returns a per-kg rate for the description. Rates quoted in the message
// for the same family (known) take precedence over the table. The result is always positive.
func (r RateTable) InferRate(description string, known map[string]float64) float64 {
	fam := r.Family(description)
	if fam != "" {
		if v, ok := known[fam]; ok && positive(v) {
			return v
		}
		for _, rule := range r.rules {
			if rule.Family == fam && positive(rule.Rate) {
				return rule.Rate
			}
		}
	}
	if positive(r.fallback) {
		return r.fallback
	}
	return FallbackRate
}

// Rates lists family rates in rule order, with the fallback last under "default".
func (r RateTable) Rates() []RateRule {
	out := slices.Clone(r.rules)
	return append(out, RateRule{Family: "default", Rate: r.Fallback()})
}

func (r RateTable) Fallback() float64 {
	if positive(r.fallback) {
		return r.fallback
	}
	return FallbackRate
}

func (rr RateRule) String() string {
	return fmt.Sprintf("%s: ₹%.2f/kg", rr.Family, rr.Rate)
}
