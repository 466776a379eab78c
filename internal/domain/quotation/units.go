package quotation

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// UnitPattern matches every unit spelling accepted in free text and edit commands.
// Longer alternatives come first so "mtrs" is not read as "mt".
const UnitPattern = `mtrs?|metres?|meters?|mt|m\.t\.?|tonnes?|tons?|kgs?|kilograms?|nos?\.?|pcs|pieces?|pc`

// TaxIDPattern matches an Indian GSTIN such as 33ABCDE1234F1Z5.
const TaxIDPattern = `\d{2}[A-Z]{5}\d{4}[A-Z][1-9A-Z]Z[0-9A-Z]`

var taxIDRe = regexp.MustCompile(`^` + TaxIDPattern + `$`)

func ValidTaxID(s string) bool { return taxIDRe.MatchString(strings.ToUpper(strings.TrimSpace(s))) }

// NormalizeQuantity converts a raw quantity and unit into the draft's units.
// Tonnes become kilograms; anything unrecognised is treated as kilograms.
func NormalizeQuantity(value float64, unit string) (float64, Unit) {
	u := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(unit)), ".")
	switch u {
	case "mt", "m.t", "ton", "tons", "tonne", "tonnes":
		return value * 1000, UnitKg
	case "no", "nos", "pcs", "pc", "piece", "pieces":
		return value, UnitNos
	case "mtr", "mtrs", "metre", "metres", "meter", "meters":
		return value, UnitMetres
	default:
		return value, UnitKg
	}
}

var quantityRe = regexp.MustCompile(`(?i)^\s*(\d[\d,]*(?:\.\d+)?)\s*(` + UnitPattern + `)?\s*$`)

// ParseQuantity reads "5000", "5 MT" or "140 nos".
func ParseQuantity(s string) (float64, Unit, bool) {
	m := quantityRe.FindStringSubmatch(s)
	if m == nil {
		return 0, "", false
	}
	v, ok := ParseNumber(m[1])
	if !ok {
		return 0, "", false
	}
	q, u := NormalizeQuantity(v, m[2])
	return q, u, true
}

var amountRe = regexp.MustCompile(`(?i)^\s*(?:rs\.?|inr|₹)?\s*(\d[\d,]*(?:\.\d+)?)\s*(?:/-)?\s*(?:(?:/|per)\s*(?:kg|mt|nos?|pc))?\s*$`)

// ParseAmount reads a money value such as "55", "₹55", "Rs.55/kg".
func ParseAmount(s string) (float64, bool) {
	m := amountRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	return ParseNumber(m[1])
}

// ParseNumber parses a decimal with optional thousands separators and rejects NaN/Inf.
func ParseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	if err != nil || !finite(v) {
		return 0, false
	}
	return v, true
}

// CoerceGST replaces an absent or non-finite percentage with the default and clamps to [0,100].
func CoerceGST(v float64, present bool) float64 {
	if !present || !finite(v) {
		return DefaultGST
	}
	return math.Min(100, math.Max(0, v))
}

// ValidGST reports whether an explicitly entered percentage is acceptable.
func ValidGST(v float64) bool { return finite(v) && v >= 0 && v <= 100 }
