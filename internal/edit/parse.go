// Package edit interprets imperative changes to an existing draft, such as
// "change customer name to ABC Company" or "update GST to 12%".
package edit

import (
	"regexp"
	"strings"

	"github.com/Spok95/quote-bot/internal/domain/quotation"
)

type Target string

const (
	TargetUnknown  Target = "unknown"
	TargetCustomer Target = "customer"
	TargetProduct  Target = "product"
	TargetTerms    Target = "terms"
	TargetMeta     Target = "meta"
)

type Action string

const (
	ActionNone           Action = ""
	ActionSetName        Action = "set_name"
	ActionSetAddress     Action = "set_address"
	ActionSetTaxID       Action = "set_gstin"
	ActionAddItem        Action = "add_item"
	ActionRemoveLast     Action = "remove_last"
	ActionRemoveItem     Action = "remove_item"
	ActionUpdatePrice    Action = "update_price"
	ActionUpdateQuantity Action = "update_quantity"
	ActionSetGST         Action = "set_gst"
	ActionSetTransport   Action = "set_transport"
	ActionSetLoading     Action = "set_loading"
	ActionSetPayment     Action = "set_payment"
	ActionSetDelivery    Action = "set_delivery"
	ActionSetValidity    Action = "set_validity"
	ActionShowDraft      Action = "show_draft"
	ActionReset          Action = "reset"
	ActionFinalize       Action = "finalize"
	ActionHelp           Action = "help"
)

// Operation is a parsed edit. Payload fields are set according to Action.
type Operation struct {
	Target Target
	Action Action

	Text   string              // names, addresses, terms
	Number float64             // GST, rate or quantity
	Unit   quotation.Unit      // with a quantity
	Item   *quotation.LineItem // new line item
	Ref    string              // 1-based item number or description fragment

	// Problem is set when the command was recognised but its value is unusable.
	Problem string
}

func (op Operation) Recognized() bool { return op.Target != TargetUnknown }

// LeavesEditMode reports whether the orchestrator should stop editing after this operation.
func (op Operation) LeavesEditMode() bool { return op.Action == ActionFinalize }

type rule struct {
	re    *regexp.Regexp
	build func(m []string) Operation
}

const (
	verb = `^(?:change|update|set|modify|edit|make)\s+(?:the\s+)?`
	to   = `\s+(?:to|as|=|:)\s*`
)

func re(s string) *regexp.Regexp { return regexp.MustCompile(`(?i)` + s) }

// rules are tried in order; the first match wins. Term rules come before the
// generic add rule so "add loading charges 250" is not read as a product.
var rules = []rule{
	{re(verb + `(?:customer(?:'s)?\s+|client\s+|party\s+)?name` + to + `(.+)$`), customer(ActionSetName)},
	{re(verb + `(?:customer|client|party)` + to + `(.+)$`), customer(ActionSetName)},
	{re(verb + `(?:customer\s+|delivery\s+|site\s+)?address` + `(?:\s+(?:to|as|=|:))?\s+(.+)$`), customer(ActionSetAddress)},
	{re(verb + `(?:customer\s+)?gstin` + `(?:\s+(?:to|as|=|:))?\s+(\S+)$`), taxID},

	{re(verb + `(?:[ics]?gst)(?:\s+(?:rate|percentage|percent))?(?:\s+(?:to|as|at|=|:))?\s+(.+?)\s*%?$`), gst},
	{re(verb + `transport(?:ation)?(?:\s+(?:charges?|terms?))?` + to + `(.+)$`), term(ActionSetTransport)},
	{re(`^(?:add|change|update|set)\s+(?:the\s+)?loading(?:\s+(?:and\s+unloading\s+)?charges?)?(?:\s+(?:to|as|=|:))?\s+(.+)$`), term(ActionSetLoading)},
	{re(verb + `payment(?:\s+terms?)?` + to + `(.+)$`), term(ActionSetPayment)},
	{re(verb + `delivery(?:\s+(?:terms?|period|time|date))?` + to + `(.+)$`), term(ActionSetDelivery)},
	{re(verb + `(?:price\s+|quote\s+|quotation\s+)?validity` + to + `(.+)$`), term(ActionSetValidity)},

	{re(`^(?:remove|delete|drop)\s+(?:the\s+)?last(?:\s+(?:item|product|line))?$`), func([]string) Operation {
		return Operation{Target: TargetProduct, Action: ActionRemoveLast}
	}},
	{re(`^(?:remove|delete|drop)\s+(?:the\s+)?(?:item|product|line)\s*(?:no\.?\s*|#\s*)?(\d+)$`), ref(ActionRemoveItem)},
	{re(`^(?:remove|delete|drop)\s+(?:the\s+)?(?:item\s+|product\s+)?(.+)$`), ref(ActionRemoveItem)},
	{re(verb + `(?:price|rate)\s+(?:of|for)\s+(?:item\s+)?(.+?)` + `\s+(?:to|as|at|=)\s*(.+)$`), price},
	{re(verb + `(?:quantity|qty)\s+(?:of|for)\s+(?:item\s+)?(.+?)` + `\s+(?:to|as|=)\s*(.+)$`), quantity},
	{re(`^add\s+(?:an?\s+)?(?:new\s+)?(?:item|product)?\s*:?\s*(.+?)\s*@\s*(.+)$`), addItem},
	{re(`^add\s+(?:an?\s+)?(?:new\s+)?(?:item|product)?\s*:?\s*(.+)$`), addItem},
}

// Parse maps command text onto an Operation. Unrecognised text yields TargetUnknown.
func Parse(text string) Operation {
	s := strings.TrimSpace(text)
	switch quotation.ParseCommand(s) {
	case quotation.CommandShowDraft:
		return Operation{Target: TargetMeta, Action: ActionShowDraft}
	case quotation.CommandReset:
		return Operation{Target: TargetMeta, Action: ActionReset}
	case quotation.CommandFinalize:
		return Operation{Target: TargetMeta, Action: ActionFinalize}
	case quotation.CommandHelp:
		return Operation{Target: TargetMeta, Action: ActionHelp}
	}
	s = strings.TrimRight(s, ".!")
	for _, r := range rules {
		if m := r.re.FindStringSubmatch(s); m != nil {
			return r.build(m)
		}
	}
	return Operation{Target: TargetUnknown}
}

func customer(a Action) func([]string) Operation {
	return func(m []string) Operation {
		op := Operation{Target: TargetCustomer, Action: a, Text: strings.TrimSpace(m[1])}
		if a == ActionSetName && len(op.Text) < quotation.MinNameLen {
			op.Problem = "Customer name should be at least 2 characters."
		}
		return op
	}
}

func taxID(m []string) Operation {
	op := Operation{Target: TargetCustomer, Action: ActionSetTaxID, Text: strings.ToUpper(strings.TrimSpace(m[1]))}
	if !quotation.ValidTaxID(op.Text) {
		op.Problem = "That does not look like a valid GSTIN, e.g. 33ABCDE1234F1Z5."
	}
	return op
}

func gst(m []string) Operation {
	op := Operation{Target: TargetTerms, Action: ActionSetGST}
	v, ok := quotation.ParseNumber(strings.TrimSuffix(m[1], "%"))
	switch {
	case !ok:
		op.Problem = "Please give GST as a number, e.g. \"update GST to 12%\"."
	case !quotation.ValidGST(v):
		op.Problem = "GST should be between 0% and 100%."
	}
	op.Number = v
	return op
}

func term(a Action) func([]string) Operation {
	return func(m []string) Operation {
		return Operation{Target: TargetTerms, Action: a, Text: strings.TrimSpace(m[1])}
	}
}

func ref(a Action) func([]string) Operation {
	return func(m []string) Operation {
		return Operation{Target: TargetProduct, Action: a, Ref: strings.TrimSpace(m[1])}
	}
}

func price(m []string) Operation {
	op := Operation{Target: TargetProduct, Action: ActionUpdatePrice, Ref: strings.TrimSpace(m[1])}
	v, ok := quotation.ParseAmount(m[2])
	if !ok || v <= 0 {
		op.Problem = "Please give the new rate as a positive number, e.g. \"update price of TMT to 60\"."
	}
	op.Number = v
	return op
}

func quantity(m []string) Operation {
	op := Operation{Target: TargetProduct, Action: ActionUpdateQuantity, Ref: strings.TrimSpace(m[1])}
	q, u, ok := quotation.ParseQuantity(m[2])
	if !ok || q <= 0 {
		op.Problem = "Please give the new quantity, e.g. \"update quantity of TMT to 5 MT\"."
	}
	op.Number, op.Unit = q, u
	return op
}

var itemQtyRe = regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?)\s*(` + quotation.UnitPattern + `)(?:\b|$)`)

// addItem reads "TMT 10mm 5MT" with an optional rate. The last quantity in the
// text wins so dimensions such as "10mm" or "100x50" are left in the description.
func addItem(m []string) Operation {
	op := Operation{Target: TargetProduct, Action: ActionAddItem}
	body := m[1]
	loc := itemQtyRe.FindAllStringSubmatchIndex(body, -1)
	if len(loc) == 0 {
		op.Problem = "Please include a quantity, e.g. \"add item TMT 10mm 5MT @ 55\"."
		return op
	}
	last := loc[len(loc)-1]
	v, ok := quotation.ParseNumber(body[last[2]:last[3]])
	if !ok || v <= 0 {
		op.Problem = "The quantity must be greater than zero."
		return op
	}
	it := quotation.LineItem{}
	it.Quantity, it.Unit = quotation.NormalizeQuantity(v, body[last[4]:last[5]])

	desc := body[:last[0]] + " " + body[last[1]:]
	desc = strings.Join(strings.Fields(desc), " ")
	desc = strings.TrimPrefix(strings.Trim(desc, " -–:,"), "of ")
	it.Description = strings.TrimSpace(desc)
	if len(it.Description) < 2 {
		op.Problem = "Please include a product description, e.g. \"add item TMT 10mm 5MT\"."
		return op
	}

	if len(m) > 2 {
		r, ok := quotation.ParseAmount(m[2])
		if !ok || r <= 0 {
			op.Problem = "Please give the rate as a positive number, e.g. \"@ 55\"."
			return op
		}
		it.Rate = quotation.Rate(r)
	}
	op.Item = &it
	return op
}
