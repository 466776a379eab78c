package quotation

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Totals struct {
	Subtotal   float64
	GSTPercent float64
	GSTAmount  float64
	GrandTotal float64
}

func (d Draft) Totals() Totals {
	var sub float64
	for _, it := range d.Items {
		sub += it.Amount()
	}
	gst := CoerceGST(d.GSTPercent, true)
	tax := round2(sub * gst / 100)
	return Totals{
		Subtotal:   round2(sub),
		GSTPercent: gst,
		GSTAmount:  tax,
		GrandTotal: round2(sub + tax),
	}
}

var (
	ErrMissingCustomer = errors.New("customer name is missing")
	ErrNoItems         = errors.New("no line items")
	ErrItemIncomplete  = errors.New("line item is incomplete")
)

// RateFunc supplies a per-unit rate for an item description.
type RateFunc func(description string) float64

// Finalize fills missing rates, coerces GST and checks the draft is fit for rendering.
// The receiver is not modified.
func (d Draft) Finalize(rate RateFunc) (Draft, error) {
	out := d.Clone()
	out.CustomerName = strings.TrimSpace(out.CustomerName)
	if len(out.CustomerName) < MinNameLen {
		return d, ErrMissingCustomer
	}
	if len(out.Items) == 0 {
		return d, ErrNoItems
	}
	for i := range out.Items {
		it := &out.Items[i]
		if !it.HasRate() && rate != nil {
			it.Rate = Rate(rate(it.Description))
			it.RateInferred = true
		}
		if strings.TrimSpace(it.Description) == "" || !it.HasRate() || !finite(it.Quantity) || it.Quantity <= 0 {
			return d, fmt.Errorf("item %d: %w", i+1, ErrItemIncomplete)
		}
	}
	out.GSTPercent = CoerceGST(out.GSTPercent, true)
	for _, s := range []*string{&out.Transport, &out.Loading, &out.Payment, &out.Delivery, &out.Validity} {
		if strings.TrimSpace(*s) == "" {
			*s = NotSpecified
		}
	}
	out.Refresh()
	return out, nil
}

// Summary renders the draft as a plain-text block for chat replies.
func (d Draft) Summary() string {
	var b strings.Builder
	name := d.CustomerName
	if strings.TrimSpace(name) == "" {
		name = "(not set)"
	}
	fmt.Fprintf(&b, "Quotation for: %s\n", name)
	if d.CustomerAddress != "" {
		fmt.Fprintf(&b, "Address: %s\n", d.CustomerAddress)
	}
	if d.CustomerTaxID != "" {
		fmt.Fprintf(&b, "GSTIN: %s\n", d.CustomerTaxID)
	}

	b.WriteString("\nItems:\n")
	if len(d.Items) == 0 {
		b.WriteString("  (none yet)\n")
	}
	for i, it := range d.Items {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, it.Line())
	}

	t := d.Totals()
	fmt.Fprintf(&b, "\nSubtotal: %s\n", FormatINR(t.Subtotal))
	fmt.Fprintf(&b, "GST (%s%%): %s\n", formatQty(t.GSTPercent), FormatINR(t.GSTAmount))
	fmt.Fprintf(&b, "Total: %s\n", FormatINR(t.GrandTotal))

	b.WriteString("\nTerms:\n")
	fmt.Fprintf(&b, "  Transport: %s\n", orDefault(d.Transport))
	fmt.Fprintf(&b, "  Loading: %s\n", orDefault(d.Loading))
	fmt.Fprintf(&b, "  Payment: %s\n", orDefault(d.Payment))
	fmt.Fprintf(&b, "  Delivery: %s\n", orDefault(d.Delivery))
	fmt.Fprintf(&b, "  Validity: %s", orDefault(d.Validity))
	return b.String()
}

// Line renders the item as "description - qty unit @ rate = amount".
func (i LineItem) Line() string {
	rate := "rate pending"
	if i.HasRate() {
		rate = "@ " + FormatINR(*i.Rate)
		if i.RateInferred {
			rate += " (est.)"
		}
	}
	return fmt.Sprintf("%s - %s %s %s = %s", i.Description, formatQty(i.Quantity), i.Unit, rate, FormatINR(i.Amount()))
}

func orDefault(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotSpecified
	}
	return s
}

// formatQty shows at most three decimals; stored quantities keep full precision.
func formatQty(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}

// FormatINR formats an amount with Indian digit grouping: ₹12,34,567.50.
func FormatINR(v float64) string {
	if !finite(v) {
		v = 0
	}
	neg := v < 0
	s := strconv.FormatFloat(math.Abs(round2(v)), 'f', 2, 64)
	intPart, frac, _ := strings.Cut(s, ".")

	var groups []string
	if len(intPart) > 3 {
		head, tail := intPart[:len(intPart)-3], intPart[len(intPart)-3:]
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		groups = append([]string{head}, groups...)
		groups = append(groups, tail)
	} else {
		groups = []string{intPart}
	}

	out := "₹" + strings.Join(groups, ",") + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}
