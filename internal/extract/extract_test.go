package extract

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/Spok95/quote-bot/internal/domain/materials"
	"github.com/Spok95/quote-bot/internal/domain/quotation"
)

type fakeFallback struct {
	draft *quotation.Draft
	err   error
	block bool
	calls int
}

func (f *fakeFallback) SuggestExtraction(ctx context.Context, _ string) (*quotation.Draft, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.draft, f.err
}

func newExtractor(t *testing.T, opts ...Option) *Extractor {
	t.Helper()
	e, err := New(materials.DefaultTable(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestNewRequiresTable(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrNoMaterialTable) {
		t.Fatalf("err = %v", err)
	}
}

func TestExtractInlineQuote(t *testing.T) {
	res := newExtractor(t).Extract(context.Background(), "Quote to ABC Industries: ISMC 100x50 - 5MT @ Rs.56")
	d := res.Draft
	if d.CustomerName != "ABC Industries" {
		t.Fatalf("customer = %q", d.CustomerName)
	}
	if len(d.Items) != 1 {
		t.Fatalf("items = %+v", d.Items)
	}
	it := d.Items[0]
	if it.Description != "ISMC 100x50" || it.Quantity != 5000 || it.Unit != quotation.UnitKg || *it.Rate != 56 || it.RateInferred {
		t.Fatalf("item = %+v", it)
	}
	if it.Amount() != 280000 {
		t.Fatalf("amount = %v", it.Amount())
	}
	if d.GSTPercent != 18 || res.GSTExplicit {
		t.Fatalf("gst = %v explicit=%v", d.GSTPercent, res.GSTExplicit)
	}
	if !res.Complete() || res.UsedFallback {
		t.Fatalf("clarification = %+v fallback=%v", res.Clarification, res.UsedFallback)
	}
}

func TestExtractBareItemsWithLengths(t *testing.T) {
	text := "Create quote to SRI ENERGY, VIRALIMALAI. UOM to be in Mtrs. " +
		"MS Channel 75x40x6mm – 6 MTR Length, 140 Nos MS Channel 100x50x06 mm – 6 MTR Length, 20 Nos " +
		"MS Channel 125x65x06 mm – 6 MTR Length, 40 Nos MS Flat 50x06 mm – 6 MTR Length, 60 Nos " +
		"Transport Included, Loading Charges Included. Add 18% GST"
	res := newExtractor(t).Extract(context.Background(), text)
	d := res.Draft

	if d.CustomerName != "SRI ENERGY" || d.CustomerAddress != "VIRALIMALAI" {
		t.Fatalf("customer = %q address = %q", d.CustomerName, d.CustomerAddress)
	}
	want := []struct {
		desc string
		kg   float64
		rate float64
	}{
		{"MS Channel 75x40x6mm", 5997.6, 50},
		{"MS Channel 100x50x06 mm", 1147.2, 50},
		{"MS Channel 125x65x06 mm", 3144, 50},
		{"MS Flat 50x06 mm", 849.6, 51},
	}
	if len(d.Items) != len(want) {
		t.Fatalf("items = %+v", d.Items)
	}
	for i, w := range want {
		it := d.Items[i]
		if it.Description != w.desc || math.Abs(it.Quantity-w.kg) > 1e-6 || it.Unit != quotation.UnitKg || *it.Rate != w.rate || !it.RateInferred {
			t.Fatalf("item %d = %+v, want %+v", i, it, w)
		}
		if it.LengthMetres != 6 {
			t.Fatalf("item %d length = %v", i, it.LengthMetres)
		}
	}
	if d.Transport != "Included" || d.Loading != "Included" || d.GSTPercent != 18 || !res.GSTExplicit {
		t.Fatalf("terms = %q %q %v", d.Transport, d.Loading, d.GSTPercent)
	}
	if res.Confidence < 90 || res.Confidence > 100 {
		t.Fatalf("confidence = %d", res.Confidence)
	}
}

func TestExtractNoPunctuationBetweenItems(t *testing.T) {
	text := "Create quotation to DEF Engineering Works, Chennai UOM to be in Metres MS Angle 50x50x6mm – 12 MTR Length, 25 Nos " +
		"MS Pipe 32mm NB – 6 MTR Length, 50 Nos Loading charges included Add 18% GST"
	d := newExtractor(t).Extract(context.Background(), text).Draft
	if d.CustomerName != "DEF Engineering Works" {
		t.Fatalf("customer = %q", d.CustomerName)
	}
	if len(d.Items) != 2 || d.Items[0].Description != "MS Angle 50x50x6mm" || d.Items[0].Quantity != 1350 {
		t.Fatalf("items = %+v", d.Items)
	}
	if d.Items[1].Quantity != 645 || *d.Items[1].Rate != 60 {
		t.Fatalf("pipe = %+v", d.Items[1])
	}
	if d.Loading != "Included" {
		t.Fatalf("loading = %q", d.Loading)
	}
}

func TestExtractStructuredWithSectionRates(t *testing.T) {
	text := "Quotation for Ramesh Steels:\n" +
		"1. MS Channel 75x40x6mm\n• 7.14 kg/m × 6 m × 140 Nos = 5,997.6 kg\n" +
		"2. MS Flat 75x10mm\n• 5.89 kg/m × 6 m × 50 Nos = 1,767 kg\n" +
		"Channel - 50+GST, Flat - 53+GST\nPayment terms: 100% advance\nValidity: 7 days"
	res := newExtractor(t).Extract(context.Background(), text)
	d := res.Draft
	if d.CustomerName != "Ramesh Steels" {
		t.Fatalf("customer = %q", d.CustomerName)
	}
	if len(d.Items) != 2 {
		t.Fatalf("items = %+v", d.Items)
	}
	if d.Items[0].Quantity != 5997.6 || d.Items[0].Pieces != 140 || d.Items[0].KgPerMetre != 7.14 || *d.Items[0].Rate != 50 {
		t.Fatalf("item 0 = %+v", d.Items[0])
	}
	if d.Items[1].Quantity != 1767 || *d.Items[1].Rate != 53 {
		t.Fatalf("item 1 = %+v", d.Items[1])
	}
	if res.SectionRates[materials.FamilyFlat] != 53 || res.GSTExplicit {
		t.Fatalf("section rates = %v gstExplicit=%v", res.SectionRates, res.GSTExplicit)
	}
	if d.Payment != "100% advance" || d.Validity != "7 days" {
		t.Fatalf("payment = %q validity = %q", d.Payment, d.Validity)
	}
}

func TestExtractQtyFirstAndCombinedRates(t *testing.T) {
	text := "Need price for Kumar Traders. 5MT TMT bars @ Rs.58, 2 MT ms angle 40x40x6mm @ 49"
	d := newExtractor(t).Extract(context.Background(), text).Draft
	if d.CustomerName != "Kumar Traders" {
		t.Fatalf("customer = %q", d.CustomerName)
	}
	if len(d.Items) != 2 || d.Items[0].Description != "TMT bars" || d.Items[0].Quantity != 5000 || *d.Items[0].Rate != 58 {
		t.Fatalf("items = %+v", d.Items)
	}

	rates := extractSectionRates("ANGLE AND CHANNEL – 50₹ + GST, Pipe: 61", materials.DefaultRates())
	if rates[materials.FamilyAngle] != 50 || rates[materials.FamilyChannel] != 50 || rates[materials.FamilyPipe] != 61 {
		t.Fatalf("rates = %v", rates)
	}
	if r := extractSectionRates("TMT - 5 MT", materials.DefaultRates()); len(r) != 0 {
		t.Fatalf("quantity read as rate: %v", r)
	}
}

func TestExtractMixedShapes(t *testing.T) {
	type item struct {
		desc     string
		kg       float64
		inferred bool
	}
	cases := []struct {
		name string
		text string
		want []item
	}{
		{
			"sentences",
			"Quote to ABC Industries: ISMC 100 - 5MT @ 56. TMT Bars 10mm - 2 MT",
			[]item{{"ISMC 100", 5000, false}, {"TMT Bars 10mm", 2000, true}},
		},
		{
			"lines",
			"Quote to ABC Industries: ISMC 100 - 5MT @ 56\nTMT Bars 10mm - 2 MT",
			[]item{{"ISMC 100", 5000, false}, {"TMT Bars 10mm", 2000, true}},
		},
		{
			"one sentence",
			"Quote to ABC Industries: ISMC 100 - 5MT @ 56 and TMT Bars 10mm - 2 MT",
			[]item{{"ISMC 100", 5000, false}, {"TMT Bars 10mm", 2000, true}},
		},
		{
			"bare before inline",
			"Quote to ABC Industries: TMT Bars 10mm - 2 MT. 5MT ms angle 40x40x6mm @ 49",
			[]item{{"TMT Bars 10mm", 2000, true}, {"ms angle 40x40x6mm", 5000, false}},
		},
		{
			"structured and inline",
			"Quotation for Ramesh Steels:\n1. MS Channel 75x40x6mm\n• 7.14 kg/m × 6 m × 140 Nos = 5,997.6 kg\nTMT Bars 10mm - 2 MT @ 55",
			[]item{{"MS Channel 75x40x6mm", 5997.6, true}, {"TMT Bars 10mm", 2000, false}},
		},
	}
	for _, tc := range cases {
		d := newExtractor(t).Extract(context.Background(), tc.text).Draft
		if len(d.Items) != len(tc.want) {
			t.Fatalf("%s: items = %+v", tc.name, d.Items)
		}
		for i, w := range tc.want {
			it := d.Items[i]
			if it.Description != w.desc || math.Abs(it.Quantity-w.kg) > 1e-6 || it.Unit != quotation.UnitKg || it.Rate == nil || it.RateInferred != w.inferred {
				t.Fatalf("%s: item %d = %+v, want %+v", tc.name, i, it, w)
			}
		}
	}
}

func TestExtractNonASCIICustomer(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"Quote to Müller Stahl: TMT Bars 10mm - 5 MT @ 55", "Müller Stahl"},
		{"Quotation for Šećer Steels: ISMC 100 - 2 MT @ 56", "Šećer Steels"},
		{"Price for Ünal Çelik Ltd, ISMB 150 - 1 MT @ 70", "Ünal Çelik Ltd"},
	}
	for _, tc := range cases {
		d := newExtractor(t).Extract(context.Background(), tc.text).Draft
		if d.CustomerName != tc.want || len(d.Items) != 1 {
			t.Fatalf("%q: customer %q items %+v", tc.text, d.CustomerName, d.Items)
		}
	}
}

func TestExtractGSTClampAndTaxID(t *testing.T) {
	text := "Quote for ABC Industries, GSTIN 33ABCDE1234F1Z5: TMT Bars 10mm - 5 MT @ 55. Add 150% GST"
	d := newExtractor(t).Extract(context.Background(), text).Draft
	if d.GSTPercent != 100 {
		t.Fatalf("gst = %v", d.GSTPercent)
	}
	if d.CustomerTaxID != "33ABCDE1234F1Z5" {
		t.Fatalf("gstin = %q", d.CustomerTaxID)
	}
	if math.IsNaN(d.Totals().GrandTotal) {
		t.Fatal("NaN total")
	}
}

func TestExtractClarification(t *testing.T) {
	res := newExtractor(t).Extract(context.Background(), "TMT Bars 10mm - 5 MT @ 55")
	if res.Complete() {
		t.Fatal("expected clarification")
	}
	if len(res.Clarification.Missing) != 1 || res.Clarification.Missing[0] != quotation.FieldCustomerName {
		t.Fatalf("missing = %v", res.Clarification.Missing)
	}
	if !strings.Contains(res.Clarification.Prompt, "customer name") {
		t.Fatalf("prompt = %q", res.Clarification.Prompt)
	}

	res = newExtractor(t).Extract(context.Background(), "")
	if res.Complete() || len(res.Clarification.Missing) != 2 || len(res.Draft.Items) != 0 {
		t.Fatalf("empty input result = %+v", res)
	}
}

func TestExtractUnknownSectionWarns(t *testing.T) {
	res := newExtractor(t).Extract(context.Background(), "Quote for ABC Industries: MS Channle 75x40x6mm - 140 Nos")
	if len(res.Draft.Items) != 1 || res.Draft.Items[0].Unit != quotation.UnitNos {
		t.Fatalf("items = %+v", res.Draft.Items)
	}
	if len(res.Warnings) != 1 || len(res.Warnings[0].Suggestions) == 0 || res.Warnings[0].Suggestions[0] != "MS Channel 75x40x6mm" {
		t.Fatalf("warnings = %+v", res.Warnings)
	}
}

func TestFallbackFillsOnlyEmptyFields(t *testing.T) {
	fb := &fakeFallback{draft: &quotation.Draft{
		CustomerName: "Fallback Co",
		Transport:    "Extra",
		Items:        []quotation.LineItem{{Description: "Should not be used", Quantity: 1}},
	}}
	e := newExtractor(t, WithFallback(fb, time.Second))
	res := e.Extract(context.Background(), "Transport included. TMT Bars 10mm - 5 MT")
	if fb.calls != 1 || !res.UsedFallback {
		t.Fatalf("calls = %d used = %v", fb.calls, res.UsedFallback)
	}
	d := res.Draft
	if d.CustomerName != "Fallback Co" {
		t.Fatalf("customer = %q", d.CustomerName)
	}
	if d.Transport != "Included" {
		t.Fatalf("fallback overwrote transport: %q", d.Transport)
	}
	if len(d.Items) != 1 || d.Items[0].Description != "TMT Bars 10mm" || *d.Items[0].Rate != 52 {
		t.Fatalf("items = %+v", d.Items)
	}
	if !res.Complete() {
		t.Fatalf("clarification = %+v", res.Clarification)
	}
}

func TestFallbackSuppliesItems(t *testing.T) {
	fb := &fakeFallback{draft: &quotation.Draft{
		CustomerName: "Sai Constructions",
		Items:        []quotation.LineItem{{Description: "HR Sheet 3mm", Quantity: 2000, Unit: quotation.UnitKg}},
		Payment:      "Net 30 days",
	}}
	e := newExtractor(t, WithFallback(fb, time.Second))
	d := e.Extract(context.Background(), "please send the usual sheet offer to sai constructions asap").Draft
	if len(d.Items) != 1 || *d.Items[0].Rate != 55 || !d.Items[0].RateInferred {
		t.Fatalf("items = %+v", d.Items)
	}
	if d.Payment != "Net 30 days" {
		t.Fatalf("payment = %q", d.Payment)
	}
}

func TestFallbackFailureIsSwallowed(t *testing.T) {
	fb := &fakeFallback{err: errors.New("boom")}
	e := newExtractor(t, WithFallback(fb, time.Second))
	res := e.Extract(context.Background(), "something vague about steel for our new site")
	if res.UsedFallback || res.Complete() {
		t.Fatalf("res = %+v", res)
	}
}

func TestFallbackTimeoutIsBounded(t *testing.T) {
	fb := &fakeFallback{block: true}
	e := newExtractor(t, WithFallback(fb, 20*time.Millisecond))
	start := time.Now()
	res := e.Extract(context.Background(), "something vague about steel for our new site")
	if time.Since(start) > 2*time.Second {
		t.Fatal("fallback not bounded by timeout")
	}
	if res.UsedFallback || res.Complete() {
		t.Fatalf("res = %+v", res)
	}
}

func TestFallbackSkippedForShortInput(t *testing.T) {
	fb := &fakeFallback{draft: &quotation.Draft{CustomerName: "X Co"}}
	e := newExtractor(t, WithFallback(fb, time.Second))
	e.Extract(context.Background(), "steel pls")
	if fb.calls != 0 {
		t.Fatalf("fallback called %d times", fb.calls)
	}
}

func TestConfidenceBounds(t *testing.T) {
	e := newExtractor(t)
	for _, in := range []string{"", "hi", "quote", "Quote to ABC Industries: ISMC 100x50 - 5MT @ Rs.56", strings.Repeat("x ", 500)} {
		c := e.Extract(context.Background(), in).Confidence
		if c < 0 || c > 100 {
			t.Fatalf("confidence(%q) = %d", in, c)
		}
	}
}

func TestRateOverrides(t *testing.T) {
	e := newExtractor(t).WithRateOverrides(map[string]float64{"tmt": 60})
	d := e.Extract(context.Background(), "Quote for ABC Industries: TMT Bars 10mm - 5 MT").Draft
	if len(d.Items) != 1 || *d.Items[0].Rate != 60 {
		t.Fatalf("items = %+v", d.Items)
	}
}

func TestItemsOnly(t *testing.T) {
	e := newExtractor(t)
	items := e.Items("TMT Bars 10mm - 5 MT @ 55")
	if len(items) != 1 || items[0].Quantity != 5000 || *items[0].Rate != 55 || items[0].RateInferred {
		t.Fatalf("inline items = %+v", items)
	}
	items = e.Items("ISMB 150 - 10 nos")
	if len(items) != 1 || items[0].Quantity != 1380 || items[0].Unit != quotation.UnitKg || *items[0].Rate != 70 || !items[0].RateInferred {
		t.Fatalf("bare items = %+v", items)
	}
	if items := e.Items("XYZ Corp"); len(items) != 0 {
		t.Fatalf("name parsed as item: %+v", items)
	}
}
