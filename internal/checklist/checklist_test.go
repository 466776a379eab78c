package checklist

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/Spok95/quote-bot/internal/domain/materials"
	"github.com/Spok95/quote-bot/internal/domain/quotation"
)

func feed(t *testing.T, c *Checklist, inputs ...string) StepResult {
	t.Helper()
	var res StepResult
	for _, in := range inputs {
		res = c.ProcessInput(in)
		if !res.Accepted {
			t.Fatalf("input %q rejected at %s: %s", in, res.Step, res.Message)
		}
	}
	return res
}

func TestScenarioFullFlow(t *testing.T) {
	c := New(materials.DefaultRates())
	res := feed(t, c, "XYZ Corp", "TMT Bars 10mm", "5000", "55", "no", "18", "Included", "Rs.250 per MT", "", "", "7 days")

	if !res.IsComplete || res.Step != StepConfirmation {
		t.Fatalf("not complete: %+v", res)
	}
	d := c.Draft
	if d.CustomerName != "XYZ Corp" || len(d.Items) != 1 {
		t.Fatalf("draft = %+v", d)
	}
	if got := d.Items[0].Amount(); got != 275000 {
		t.Fatalf("amount = %v", got)
	}
	if d.Loading != "Rs.250 per MT" || d.Payment != quotation.NotSpecified || d.Delivery != quotation.NotSpecified || d.Validity != "7 days" {
		t.Fatalf("terms = %q %q %q %q", d.Loading, d.Payment, d.Delivery, d.Validity)
	}
	if c.Progress().Percentage != 100 {
		t.Fatalf("progress = %+v", c.Progress())
	}
}

func TestRejectedInputKeepsCursor(t *testing.T) {
	cases := []struct {
		name  string
		setup []string
		bad   string
	}{
		{"empty customer", nil, ""},
		{"short customer", nil, "A"},
		{"odd customer", nil, "ABC <script>"},
		{"numeric description", []string{"XYZ Corp"}, "5000"},
		{"bad quantity", []string{"XYZ Corp", "TMT Bars 10mm"}, "lots"},
		{"zero quantity", []string{"XYZ Corp", "TMT Bars 10mm"}, "0"},
		{"bad rate", []string{"XYZ Corp", "TMT Bars 10mm", "5000"}, "cheap"},
		{"gate garbage", []string{"XYZ Corp", "TMT Bars 10mm", "5000", "55"}, "42"},
		{"gate skip", []string{"XYZ Corp", "TMT Bars 10mm", "5000", "55"}, "skip"},
		{"negative gst", []string{"XYZ Corp", "TMT Bars 10mm", "5000", "55", "no"}, "-5"},
		{"gst over 100", []string{"XYZ Corp", "TMT Bars 10mm", "5000", "55", "no"}, "150"},
		{"gst text", []string{"XYZ Corp", "TMT Bars 10mm", "5000", "55", "no"}, "eighteen"},
		{"confirmation", []string{"XYZ Corp", "TMT Bars 10mm", "5000", "55", "no", "", "", "", "", "", ""}, "maybe"},
	}
	for _, tc := range cases {
		c := New(materials.DefaultRates())
		feed(t, c, tc.setup...)
		before := c.State
		draft := c.Draft.Clone()

		res := c.ProcessInput(tc.bad)
		if res.Accepted {
			t.Fatalf("%s: input %q accepted", tc.name, tc.bad)
		}
		if res.Message == "" || res.NextPrompt == "" {
			t.Fatalf("%s: missing corrective message: %+v", tc.name, res)
		}
		if !reflect.DeepEqual(c.State, before) {
			t.Fatalf("%s: state moved from %+v to %+v", tc.name, before, c.State)
		}
		if !reflect.DeepEqual(c.Draft, draft) {
			t.Fatalf("%s: draft changed", tc.name)
		}
	}
}

func TestMoreItemsGate(t *testing.T) {
	c := New(materials.DefaultRates())
	res := feed(t, c, "XYZ Corp", "TMT Bars 10mm", "5 MT", "auto")
	if !res.AwaitingMoreItems {
		t.Fatalf("gate not raised: %+v", res)
	}
	it := c.Draft.Items[0]
	if it.Quantity != 5000 || it.Unit != quotation.UnitKg || !it.RateInferred || *it.Rate != 52 || it.Section != materials.FamilyTMT {
		t.Fatalf("item = %+v", it)
	}

	// A description at the gate starts the next item directly.
	res = feed(t, c, "ISMB 150")
	if c.State.Sub != SubQuantity || c.State.Pending.Description != "ISMB 150" || res.Step != StepItems {
		t.Fatalf("state = %+v", c.State)
	}
	feed(t, c, "140 nos", "₹70/kg", "yes")
	if c.State.Sub != SubDescription || len(c.Draft.Items) != 2 {
		t.Fatalf("yes did not restart the item cycle: %+v", c.State)
	}
	if c.Draft.Items[1].Unit != quotation.UnitNos || *c.Draft.Items[1].Rate != 70 {
		t.Fatalf("second item = %+v", c.Draft.Items[1])
	}
	feed(t, c, "MS Pipe 50mm", "100", "60", "nope")
	if c.Current() != StepGST || len(c.Draft.Items) != 3 {
		t.Fatalf("current = %s items=%d", c.Current(), len(c.Draft.Items))
	}
}

func TestSkipAppliesDefaults(t *testing.T) {
	c := New(materials.DefaultRates())
	feed(t, c, "XYZ Corp", "TMT Bars 10mm", "5000", "55", "no")
	c.Draft.GSTPercent = 5
	c.Draft.Transport = "Extra"
	feed(t, c, "skip", "N/A")
	if c.Draft.GSTPercent != quotation.DefaultGST || c.Draft.Transport != quotation.NotSpecified {
		t.Fatalf("defaults not applied: gst=%v transport=%q", c.Draft.GSTPercent, c.Draft.Transport)
	}
	if c.Current() != StepLoading {
		t.Fatalf("current = %s", c.Current())
	}
}

func TestCustomerRequired(t *testing.T) {
	c := New(materials.DefaultRates())
	if res := c.ProcessInput("skip"); res.Accepted || c.Current() != StepCustomer || c.Draft.CustomerName != "" {
		t.Fatalf("skip accepted on a required step: %+v", res)
	}
}

func TestCustomerNames(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"XYZ Corp", true},
		{"ABC & Sons (Pvt) Ltd.", true},
		{"Müller Stahl GmbH", true},
		{"Šećer Steels", true},
		{"Ünal Çelik A.Ş.", true},
		{"भारत स्टील्स", true},
		{"Ü", false},
		{"ABC <script>", false},
		{"Steel #1", false},
	}
	for _, tc := range cases {
		c := New(materials.DefaultRates())
		res := c.ProcessInput(tc.in)
		if res.Accepted != tc.ok {
			t.Fatalf("%q: accepted = %v, want %v (%s)", tc.in, res.Accepted, tc.ok, res.Message)
		}
		if tc.ok && c.Draft.CustomerName != tc.in {
			t.Fatalf("%q: stored %q", tc.in, c.Draft.CustomerName)
		}
	}
}

func TestNewFromDraftResumesAtMissing(t *testing.T) {
	d := quotation.NewDraft()
	d.Items = []quotation.LineItem{{Description: "ISMC 100", Quantity: 5000, Unit: quotation.UnitKg, Rate: quotation.Rate(56)}}
	d.Payment = "100% advance"
	c := NewFromDraft(d, materials.DefaultRates())
	if c.Current() != StepCustomer {
		t.Fatalf("current = %s", c.Current())
	}
	feed(t, c, "ABC Industries")
	if c.Current() != StepTransport {
		t.Fatalf("filled steps not skipped: %s", c.Current())
	}
	feed(t, c, "Included", "")
	if c.Current() != StepDelivery {
		t.Fatalf("payment not skipped: %s", c.Current())
	}
	if len(d.Items) != 1 || d.CustomerName != "" {
		t.Fatal("source draft mutated")
	}

	d2 := quotation.NewDraft()
	d2.CustomerName = "ABC Industries"
	c2 := NewFromDraft(d2, materials.DefaultRates())
	if c2.Current() != StepItems || c2.State.Sub != SubDescription {
		t.Fatalf("items resume = %s %+v", c2.Current(), c2.State)
	}
}

func TestSkipToStepAndReset(t *testing.T) {
	c := New(materials.DefaultRates())
	feed(t, c, "XYZ Corp", "TMT Bars 10mm", "5000", "55", "no", "12")

	if c.SkipToStep("nowhere") {
		t.Fatal("unknown step accepted")
	}
	if !c.SkipToStep(StepItems) || !c.State.AwaitingMoreItems || len(c.Draft.Items) != 1 {
		t.Fatalf("skip to items = %+v", c.State)
	}

	c.Reset(false)
	if c.Current() != StepCustomer || len(c.Draft.Items) != 1 || c.Draft.CustomerName != "" || c.Draft.GSTPercent != 18 {
		t.Fatalf("partial reset = %+v", c.Draft)
	}
	c.Reset(true)
	if len(c.Draft.Items) != 0 || !reflect.DeepEqual(c.Draft, quotation.NewDraft()) {
		t.Fatalf("full reset = %+v", c.Draft)
	}
}

func TestConfirmation(t *testing.T) {
	answers := map[string]Decision{
		"yes":             DecisionFinalize,
		"done":            DecisionFinalize,
		"edit":            DecisionEdit,
		"change gst to 5": DecisionEdit,
		"no":              DecisionEdit,
	}
	for in, want := range answers {
		c := New(materials.DefaultRates())
		feed(t, c, "XYZ Corp", "TMT Bars 10mm", "5000", "55", "no", "", "", "", "", "", "")
		res := c.ProcessInput(in)
		if !res.Accepted || res.Decision != want || !res.IsComplete {
			t.Fatalf("%q: %+v", in, res)
		}
		if done := c.Done(); done != (want == DecisionFinalize) {
			t.Fatalf("%q: done = %v", in, done)
		}
	}
}

func TestStateSurvivesSerialization(t *testing.T) {
	c := New(materials.DefaultRates())
	feed(t, c, "XYZ Corp", "TMT Bars 10mm", "5000")

	raw, err := json.Marshal(c.State)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	r := Restore(st, c.Draft, materials.DefaultRates())
	res := feed(t, r, "55")
	if !res.AwaitingMoreItems || len(r.Draft.Items) != 1 || r.Draft.Items[0].Amount() != 275000 {
		t.Fatalf("restored flow = %+v %+v", res, r.Draft.Items)
	}
}

func TestFormatPrompt(t *testing.T) {
	got := FormatPrompt(steps[indexOf(StepValidity)])
	want := "How long should this quotation be valid?\nExamples: 7 days, 15 days, 30 days, Till stocks last\nOptional: type \"skip\" to use the default."
	if got != want {
		t.Fatalf("prompt = %q", got)
	}
}

func TestAddItemsAtGate(t *testing.T) {
	c := New(materials.DefaultRates())
	feed(t, c, "XYZ Corp")
	if !c.AcceptsItemLine() {
		t.Fatal("description sub-step should accept an item line")
	}
	items := []quotation.LineItem{{Description: "ISMB 150", Quantity: 1380, Unit: quotation.UnitKg, Rate: quotation.Rate(70)}}
	res := c.AddItems(items)
	if !res.Accepted || !res.AwaitingMoreItems || len(c.Draft.Items) != 1 {
		t.Fatalf("add items: %+v", res)
	}
	if c.Draft.Items[0].Section != materials.FamilyBeam {
		t.Fatalf("section = %q", c.Draft.Items[0].Section)
	}
	feed(t, c, "no")
	if c.Current() != StepGST || c.AcceptsItemLine() {
		t.Fatalf("cursor at %s", c.Current())
	}
	if res := c.AddItems(items); res.Accepted || len(c.Draft.Items) != 1 {
		t.Fatal("items accepted outside the items step")
	}
}
