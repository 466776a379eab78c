package checklist

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Spok95/quote-bot/internal/domain/quotation"
)

type StepID string

const (
	StepCustomer     StepID = "customerName"
	StepItems        StepID = "items"
	StepGST          StepID = "gst"
	StepTransport    StepID = "transport"
	StepLoading      StepID = "loadingCharges"
	StepPayment      StepID = "paymentTerms"
	StepDelivery     StepID = "deliveryTerms"
	StepValidity     StepID = "priceValidity"
	StepConfirmation StepID = "confirmation"
)

// SubStep is the position inside one line item.
type SubStep string

const (
	SubNone        SubStep = ""
	SubDescription SubStep = "description"
	SubQuantity    SubStep = "quantity"
	SubRate        SubStep = "rate"
)

type Step struct {
	ID       StepID
	Field    quotation.Field
	Title    string
	Prompt   string
	Required bool
	Examples []string

	// set stores a validated value; it returns a corrective message when the value is rejected.
	set func(d *quotation.Draft, value string) string
	// fallback applies the declared default for optional steps.
	fallback func(d *quotation.Draft)
}

var (
	customerNameRe   = regexp.MustCompile(`^[\p{L}\p{M}\p{N}\s&\-.,()'/]+$`)
	customerPrefixRe = regexp.MustCompile(`(?i)^(?:for|to|customer(?:\s+name)?\s*:)\s+`)
)

var steps = []Step{
	{
		ID:       StepCustomer,
		Field:    quotation.FieldCustomerName,
		Title:    "Customer name",
		Prompt:   "What is the customer name or company name?",
		Required: true,
		Examples: []string{"ABC Company", "Swastik Industries", "XYZ Construction Pvt Ltd"},
		set: func(d *quotation.Draft, v string) string {
			v = customerPrefixRe.ReplaceAllString(v, "")
			if utf8.RuneCountInString(v) < quotation.MinNameLen || !customerNameRe.MatchString(v) {
				return "Customer name should be at least 2 characters and contain only letters, numbers, spaces and common business symbols."
			}
			d.CustomerName = v
			return ""
		},
	},
	{
		ID:       StepItems,
		Field:    quotation.FieldItems,
		Title:    "Products",
		Prompt:   "Let's add products to your quotation.",
		Required: true,
	},
	{
		ID:       StepGST,
		Field:    quotation.FieldGST,
		Title:    "GST",
		Prompt:   "What GST percentage should be applied? (Default: 18%)",
		Examples: []string{"18", "12", "5", "0"},
		set: func(d *quotation.Draft, v string) string {
			g, ok := quotation.ParseNumber(strings.TrimSuffix(strings.TrimSpace(v), "%"))
			if !ok {
				return "Please enter a valid number for GST."
			}
			if !quotation.ValidGST(g) {
				return "GST should be between 0% and 100%."
			}
			d.GSTPercent = g
			return ""
		},
		fallback: func(d *quotation.Draft) { d.GSTPercent = quotation.DefaultGST },
	},
	termStep(StepTransport, quotation.FieldTransport, "Transport", "What are the transport arrangements?",
		func(d *quotation.Draft) *string { return &d.Transport },
		"Included", "Extra as per actuals", "Buyer arrangement", "Ex-works"),
	termStep(StepLoading, quotation.FieldLoading, "Loading charges", "What are the loading charges?",
		func(d *quotation.Draft) *string { return &d.Loading },
		"Rs.250 per MT extra", "Included", "Buyer arrangement", "As per actuals"),
	termStep(StepPayment, quotation.FieldPayment, "Payment terms", "What are the payment terms?",
		func(d *quotation.Draft) *string { return &d.Payment },
		"100% Advance", "50% Advance, 50% on delivery", "Net 30 days", "Cash on delivery"),
	termStep(StepDelivery, quotation.FieldDelivery, "Delivery terms", "When and where should the material be delivered?",
		func(d *quotation.Draft) *string { return &d.Delivery },
		"Within 7 days", "Immediate", "Ex-stock", "Door delivery"),
	termStep(StepValidity, quotation.FieldValidity, "Price validity", "How long should this quotation be valid?",
		func(d *quotation.Draft) *string { return &d.Validity },
		"7 days", "15 days", "30 days", "Till stocks last"),
	{
		ID:       StepConfirmation,
		Title:    "Confirmation",
		Prompt:   "Reply \"yes\" to finalize the quotation or \"edit\" to change something.",
		Required: true,
	},
}

func termStep(id StepID, f quotation.Field, title, prompt string, field func(*quotation.Draft) *string, examples ...string) Step {
	return Step{
		ID:       id,
		Field:    f,
		Title:    title,
		Prompt:   prompt,
		Examples: examples,
		set: func(d *quotation.Draft, v string) string {
			*field(d) = v
			return ""
		},
		fallback: func(d *quotation.Draft) { *field(d) = quotation.NotSpecified },
	}
}

var subPrompts = map[SubStep]string{
	SubDescription: "What is the product description? (e.g. TMT Bars 10mm, ISMB 150, HR Sheet 2mm)",
	SubQuantity:    "What is the quantity? (in kg, or with a unit: 5 MT, 140 Nos)",
	SubRate:        "What is the rate per unit (₹)? Type \"auto\" to use the standard rate.",
}

// Steps lists the checklist in order.
func Steps() []Step { return steps }

func indexOf(id StepID) int {
	for i, s := range steps {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// FormatPrompt adds examples and the skip hint to a step prompt.
func FormatPrompt(s Step) string {
	var b strings.Builder
	b.WriteString(s.Prompt)
	if len(s.Examples) > 0 {
		fmt.Fprintf(&b, "\nExamples: %s", strings.Join(s.Examples, ", "))
	}
	if !s.Required {
		b.WriteString("\nOptional: type \"skip\" to use the default.")
	}
	return b.String()
}
