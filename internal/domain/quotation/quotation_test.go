package quotation

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestNormalizeQuantity(t *testing.T) {
	cases := []struct {
		v    float64
		unit string
		want float64
		u    Unit
	}{
		{5, "MT", 5000, UnitKg},
		{2.5, "tonnes", 2500, UnitKg},
		{1, "ton", 1000, UnitKg},
		{140, "Nos", 140, UnitNos},
		{140, "nos.", 140, UnitNos},
		{12, "pcs", 12, UnitNos},
		{300, "kg", 300, UnitKg},
		{6, "mtrs", 6, UnitMetres},
		{42, "", 42, UnitKg},
	}
	for _, c := range cases {
		got, u := NormalizeQuantity(c.v, c.unit)
		if got != c.want || u != c.u {
			t.Fatalf("NormalizeQuantity(%v,%q) = %v %s, want %v %s", c.v, c.unit, got, u, c.want, c.u)
		}
	}
}

func TestParseQuantityAndAmount(t *testing.T) {
	if q, u, ok := ParseQuantity("5 MT"); !ok || q != 5000 || u != UnitKg {
		t.Fatalf("ParseQuantity(5 MT) = %v %s %v", q, u, ok)
	}
	if q, _, ok := ParseQuantity("5,000"); !ok || q != 5000 {
		t.Fatalf("ParseQuantity(5,000) = %v %v", q, ok)
	}
	if _, _, ok := ParseQuantity("lots"); ok {
		t.Fatal("ParseQuantity accepted words")
	}
	for _, in := range []string{"55", "₹55", "Rs.55", "rs 55/kg", "55 per kg"} {
		if v, ok := ParseAmount(in); !ok || v != 55 {
			t.Fatalf("ParseAmount(%q) = %v %v", in, v, ok)
		}
	}
	if _, ok := ParseNumber("NaN"); ok {
		t.Fatal("ParseNumber accepted NaN")
	}
}

func TestCoerceGST(t *testing.T) {
	cases := []struct {
		v       float64
		present bool
		want    float64
	}{
		{12, true, 12},
		{0, false, 18},
		{math.NaN(), true, 18},
		{math.Inf(1), true, 18},
		{-5, true, 0},
		{150, true, 100},
	}
	for _, c := range cases {
		if got := CoerceGST(c.v, c.present); got != c.want {
			t.Fatalf("CoerceGST(%v,%v) = %v, want %v", c.v, c.present, got, c.want)
		}
	}
	if ValidGST(-5) || ValidGST(150) || !ValidGST(0) || !ValidGST(100) {
		t.Fatal("ValidGST boundaries wrong")
	}
}

func TestAmountAndTotals(t *testing.T) {
	d := NewDraft()
	d.Items = append(d.Items, LineItem{Description: "ISMC 100x50", Quantity: 5000, Unit: UnitKg, Rate: Rate(56)})
	if got := d.Items[0].Amount(); got != 280000 {
		t.Fatalf("amount = %v", got)
	}
	d.Items[0].Quantity = 1000
	if got := d.Items[0].Amount(); got != 56000 {
		t.Fatalf("amount after quantity change = %v", got)
	}

	d.GSTPercent = math.NaN()
	tot := d.Totals()
	if tot.GSTPercent != 18 || tot.GSTAmount != 10080 || tot.GrandTotal != 66080 {
		t.Fatalf("totals = %+v", tot)
	}
}

func TestNewDraftMetadata(t *testing.T) {
	d := NewDraft()
	if d.Metadata.CompletionPercentage != 12 {
		t.Fatalf("completion = %d", d.Metadata.CompletionPercentage)
	}
	missing := d.RequiredMissing()
	if len(missing) != 2 || missing[0] != FieldCustomerName || missing[1] != FieldItems {
		t.Fatalf("required missing = %v", missing)
	}
}

func TestFinalize(t *testing.T) {
	d := NewDraft()
	if _, err := d.Finalize(nil); !errors.Is(err, ErrMissingCustomer) {
		t.Fatalf("err = %v", err)
	}
	d.CustomerName = "XYZ Corp"
	if _, err := d.Finalize(nil); !errors.Is(err, ErrNoItems) {
		t.Fatalf("err = %v", err)
	}
	d.Items = []LineItem{{Description: "TMT Bars 10mm", Quantity: 5000, Unit: UnitKg}}
	if _, err := d.Finalize(nil); !errors.Is(err, ErrItemIncomplete) {
		t.Fatalf("err = %v", err)
	}

	out, err := d.Finalize(func(string) float64 { return 52 })
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if !out.Items[0].HasRate() || *out.Items[0].Rate != 52 || !out.Items[0].RateInferred {
		t.Fatalf("rate not inferred: %+v", out.Items[0])
	}
	if d.Items[0].Rate != nil {
		t.Fatal("Finalize mutated its receiver")
	}
}

func TestFormatINR(t *testing.T) {
	cases := map[float64]string{
		0:         "₹0.00",
		999:       "₹999.00",
		1000:      "₹1,000.00",
		280000:    "₹2,80,000.00",
		1234567.5: "₹12,34,567.50",
		-1500:     "-₹1,500.00",
	}
	for v, want := range cases {
		if got := FormatINR(v); got != want {
			t.Fatalf("FormatINR(%v) = %q, want %q", v, got, want)
		}
	}
}

func TestSummaryMentionsTotals(t *testing.T) {
	d := NewDraft()
	d.CustomerName = "ABC Industries"
	d.Items = []LineItem{{Description: "ISMC 100x50", Quantity: 5000, Unit: UnitKg, Rate: Rate(56)}}
	s := d.Summary()
	for _, want := range []string{"ABC Industries", "ISMC 100x50", "₹2,80,000.00", "GST (18%)", "₹3,30,400.00"} {
		if !strings.Contains(s, want) {
			t.Fatalf("summary missing %q:\n%s", want, s)
		}
	}
}

func TestLineRoundsQuantityForDisplay(t *testing.T) {
	cases := []struct {
		qty  float64
		want string
	}{
		{5997.599999999999, "5997.6 Kg"},
		{1234.56789, "1234.568 Kg"},
		{5000, "5000 Kg"},
	}
	for _, c := range cases {
		it := LineItem{Description: "MS Channel", Quantity: c.qty, Unit: UnitKg, Rate: Rate(50)}
		if got := it.Line(); !strings.Contains(got, " - "+c.want+" @") {
			t.Fatalf("Line() = %q, want quantity %q", got, c.want)
		}
		if it.Quantity != c.qty {
			t.Fatalf("quantity changed to %v", it.Quantity)
		}
	}
}

func TestParseCommand(t *testing.T) {
	cases := map[string]Command{
		"skip":         CommandSkip,
		"  N/A ":       CommandSkip,
		"Reset":        CommandReset,
		"start over":   CommandReset,
		"show draft":   CommandShowDraft,
		"Done!":        CommandFinalize,
		"/help":        CommandHelp,
		"undo":         CommandBack,
		"cancel":       CommandCancel,
		"skip the gst": CommandUnknown,
		"XYZ Corp":     CommandUnknown,
	}
	for in, want := range cases {
		if got := ParseCommand(in); got != want {
			t.Fatalf("ParseCommand(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestYesNo(t *testing.T) {
	if !IsYes("Yeah") || !IsYes("add more") || IsYes("no") {
		t.Fatal("IsYes")
	}
	if !IsNo("no") || !IsNo("Done.") || IsNo("yes") {
		t.Fatal("IsNo")
	}
}
