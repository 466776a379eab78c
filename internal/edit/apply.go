package edit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Spok95/quote-bot/internal/domain/materials"
	"github.com/Spok95/quote-bot/internal/domain/quotation"
)

// Interpreter applies parsed operations. Rates fill in items added without a price.
type Interpreter struct {
	rates materials.RateTable
}

func New(rates materials.RateTable) *Interpreter { return &Interpreter{rates: rates} }

// Handle parses and applies in one step.
func (in *Interpreter) Handle(d quotation.Draft, text string) (quotation.Draft, Operation, string) {
	op := Parse(text)
	out, msg := in.Apply(d, op)
	return out, op, msg
}

// Apply returns a new draft with the operation applied and a confirmation for
// the user. The input draft is never modified; unusable operations return it as is.
func (in *Interpreter) Apply(d quotation.Draft, op Operation) (quotation.Draft, string) {
	if op.Target == TargetUnknown {
		return d, "I couldn't understand that change.\n\n" + Help()
	}
	if op.Problem != "" {
		return d, op.Problem
	}

	out := d.Clone()
	var msg string
	switch op.Action {
	case ActionSetName:
		out.CustomerName = op.Text
		msg = fmt.Sprintf("Customer name updated to %s.", op.Text)
	case ActionSetAddress:
		out.CustomerAddress = op.Text
		msg = fmt.Sprintf("Address updated to %s.", op.Text)
	case ActionSetTaxID:
		out.CustomerTaxID = op.Text
		msg = fmt.Sprintf("GSTIN updated to %s.", op.Text)

	case ActionAddItem:
		it := *op.Item
		if it.Rate != nil {
			it.Rate = quotation.Rate(*it.Rate)
		} else {
			it.Rate = quotation.Rate(in.rates.InferRate(it.Description, nil))
			it.RateInferred = true
		}
		it.Section = in.rates.Family(it.Description)
		out.Items = append(out.Items, it)
		msg = "Added item: " + it.Line()
	case ActionRemoveLast:
		if len(out.Items) == 0 {
			return d, "There are no items to remove."
		}
		last := out.Items[len(out.Items)-1]
		out.Items = out.Items[:len(out.Items)-1]
		msg = "Removed: " + last.Description
	case ActionRemoveItem:
		i, ok := findItem(out.Items, op.Ref)
		if !ok {
			return d, noItem(op.Ref, d.Items)
		}
		removed := out.Items[i]
		out.Items = append(out.Items[:i], out.Items[i+1:]...)
		msg = "Removed: " + removed.Description
	case ActionUpdatePrice:
		i, ok := findItem(out.Items, op.Ref)
		if !ok {
			return d, noItem(op.Ref, d.Items)
		}
		out.Items[i].Rate = quotation.Rate(op.Number)
		out.Items[i].RateInferred = false
		msg = "Updated: " + out.Items[i].Line()
	case ActionUpdateQuantity:
		i, ok := findItem(out.Items, op.Ref)
		if !ok {
			return d, noItem(op.Ref, d.Items)
		}
		out.Items[i].Quantity, out.Items[i].Unit = op.Number, op.Unit
		out.Items[i].Pieces = 0
		msg = "Updated: " + out.Items[i].Line()

	case ActionSetGST:
		out.GSTPercent = op.Number
		msg = fmt.Sprintf("GST updated to %s%%.", strconv.FormatFloat(op.Number, 'f', -1, 64))
	case ActionSetTransport:
		out.Transport = op.Text
		msg = "Transport updated to " + op.Text + "."
	case ActionSetLoading:
		out.Loading = op.Text
		msg = "Loading charges updated to " + op.Text + "."
	case ActionSetPayment:
		out.Payment = op.Text
		msg = "Payment terms updated to " + op.Text + "."
	case ActionSetDelivery:
		out.Delivery = op.Text
		msg = "Delivery terms updated to " + op.Text + "."
	case ActionSetValidity:
		out.Validity = op.Text
		msg = "Price validity updated to " + op.Text + "."

	case ActionShowDraft:
		return d, d.Summary()
	case ActionReset:
		return quotation.NewDraft(), "Draft cleared. You can start a new quotation."
	case ActionFinalize:
		return d, "Finalizing the quotation."
	case ActionHelp:
		return d, Help()
	default:
		return d, Help()
	}
	out.Refresh()
	return out, msg
}

// findItem resolves a 1-based item number or a case-insensitive description fragment.
func findItem(items []quotation.LineItem, ref string) (int, bool) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		return n - 1, n >= 1 && n <= len(items)
	}
	key := materials.Normalize(ref)
	if key == "" {
		return 0, false
	}
	for i, it := range items {
		if strings.Contains(materials.Normalize(it.Description), key) {
			return i, true
		}
	}
	return 0, false
}

func noItem(ref string, items []quotation.LineItem) string {
	if len(items) == 0 {
		return "The draft has no items yet."
	}
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = fmt.Sprintf("%d. %s", i+1, it.Description)
	}
	return fmt.Sprintf("No item matches %q. Current items:\n%s", ref, strings.Join(names, "\n"))
}

// Help lists the supported command shapes.
func Help() string {
	return `You can say:
  Customer:
    change customer name to ABC Company
    update address to New Delhi
    set GSTIN to 07ABCDE1234F1Z5
  Products:
    add item TMT 10mm 5MT @ 55
    add item ISMB 150 20 nos
    remove last item
    remove item 2
    update price of TMT to 60
    update quantity of ISMB to 3 MT
  Terms:
    change GST to 12%
    set transport to Extra
    update loading charges to Rs.300 per MT
    set payment terms to 100% advance
    set delivery to within 7 days
    set validity to 15 days
  Other:
    show draft, reset, done`
}
