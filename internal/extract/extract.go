// Package extract turns a free-text quotation request into a structured draft.
//
// Each field has an ordered list of matchers; the first one producing a valid
// value wins. When customer or items are still missing a remote model can be
// asked for suggestions, which only ever fill fields that are empty.
package extract

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/Spok95/quote-bot/internal/domain/materials"
	"github.com/Spok95/quote-bot/internal/domain/quotation"
)

var ErrNoMaterialTable = errors.New("extract: material table is required")

const (
	DefaultFallbackMinLength = 20
	DefaultFallbackTimeout   = 8 * time.Second
)

// Fallback suggests a draft for text the local matchers could not fully parse.
type Fallback interface {
	SuggestExtraction(ctx context.Context, text string) (*quotation.Draft, error)
}

type Result struct {
	Draft         quotation.Draft
	Confidence    int
	Clarification *Clarification // nil when customer and items were found
	Warnings      []Warning
	SectionRates  map[string]float64
	GSTExplicit   bool
	UsedFallback  bool
}

// Complete reports whether the draft can go straight to confirmation.
func (r Result) Complete() bool { return r.Clarification == nil }

type Clarification struct {
	Missing []quotation.Field
	Prompt  string
}

// Warning flags an item whose weight could not be resolved from the catalogue.
type Warning struct {
	Item        int
	Message     string
	Suggestions []string
}

type Extractor struct {
	table    *materials.Table
	rates    materials.RateTable
	fallback Fallback
	timeout  time.Duration
	minLen   int
	log      *slog.Logger
}

type Option func(*Extractor)

func WithFallback(f Fallback, timeout time.Duration) Option {
	return func(e *Extractor) {
		e.fallback = f
		if timeout > 0 {
			e.timeout = timeout
		}
	}
}

func WithRates(rt materials.RateTable) Option { return func(e *Extractor) { e.rates = rt } }

func WithLogger(l *slog.Logger) Option { return func(e *Extractor) { e.log = l } }

func WithFallbackMinLength(n int) Option { return func(e *Extractor) { e.minLen = n } }

func New(table *materials.Table, opts ...Option) (*Extractor, error) {
	if table == nil {
		return nil, ErrNoMaterialTable
	}
	e := &Extractor{
		table:   table,
		rates:   materials.DefaultRates(),
		timeout: DefaultFallbackTimeout,
		minLen:  DefaultFallbackMinLength,
		log:     slog.Default(),
	}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

// WithRateOverrides returns a shallow copy using session-specific family rates.
func (e *Extractor) WithRateOverrides(overrides map[string]float64) *Extractor {
	if len(overrides) == 0 {
		return e
	}
	cp := *e
	cp.rates = e.rates.WithRates(overrides)
	return &cp
}

func (e *Extractor) Rates() materials.RateTable { return e.rates }

func (e *Extractor) Table() *materials.Table { return e.table }

// Extract never fails: unparseable input yields an empty draft with a clarification.
func (e *Extractor) Extract(ctx context.Context, text string) Result {
	text = strings.TrimSpace(text)
	d := quotation.NewDraft()
	res := Result{}

	res.SectionRates = extractSectionRates(text, e.rates)

	d.CustomerName, d.CustomerAddress = e.customer(text)
	if addr, ok := firstMatch(text, addressMatchers); ok {
		d.CustomerAddress = addr
	}
	if id, ok := firstMatch(text, taxIDMatchers); ok {
		d.CustomerTaxID = strings.ToUpper(id)
	}

	d.Items = e.items(text, d.CustomerName)

	if v, ok := firstMatch(text, gstMatchers); ok {
		n, _ := quotation.ParseNumber(v)
		d.GSTPercent = quotation.CoerceGST(n, true)
		res.GSTExplicit = true
	}
	for _, t := range []struct {
		dst *string
		ms  []matcher
	}{
		{&d.Transport, transportMatchers},
		{&d.Loading, loadingMatchers},
		{&d.Payment, paymentMatchers},
		{&d.Delivery, deliveryMatchers},
		{&d.Validity, validityMatchers},
	} {
		if v, ok := firstMatch(text, t.ms); ok {
			*t.dst = v
		}
	}

	if !d.HasRequired() && e.fallback != nil && len(text) >= e.minLen {
		res.UsedFallback = e.applyFallback(ctx, text, &d, res.GSTExplicit)
	}

	e.completeItems(&d, res.SectionRates)
	res.Warnings = e.weightWarnings(d.Items)
	d.Refresh()

	res.Draft = d
	res.Confidence = confidence(text, d, res.GSTExplicit)
	if missing := d.RequiredMissing(); len(missing) > 0 {
		res.Clarification = clarify(missing)
	}
	return res
}

// Items parses line items alone, filling missing rates from the rate table.
func (e *Extractor) Items(text string) []quotation.LineItem {
	d := quotation.Draft{Items: e.items(strings.TrimSpace(text), "")}
	e.completeItems(&d, extractSectionRates(text, e.rates))
	return d.Items
}

// applyFallback merges remote suggestions into empty fields only.
func (e *Extractor) applyFallback(ctx context.Context, text string, d *quotation.Draft, gstExplicit bool) bool {
	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	s, err := e.fallback.SuggestExtraction(cctx, text)
	if err != nil || s == nil {
		if err != nil {
			e.log.Warn("extraction fallback failed", "err", err)
		}
		return false
	}
	if ctx.Err() != nil {
		return false
	}

	if strings.TrimSpace(d.CustomerName) == "" {
		if name := cleanCustomer(s.CustomerName); validCustomer(name, e.rates, e.table) {
			d.CustomerName = name
		}
	}
	if d.CustomerAddress == "" {
		d.CustomerAddress = strings.TrimSpace(s.CustomerAddress)
	}
	if d.CustomerTaxID == "" {
		d.CustomerTaxID = strings.ToUpper(strings.TrimSpace(s.CustomerTaxID))
	}
	if len(d.Items) == 0 {
		for _, it := range s.Items {
			if strings.TrimSpace(it.Description) == "" || !(it.Quantity > 0) || math.IsInf(it.Quantity, 0) {
				continue
			}
			if it.Unit == "" {
				it.Unit = quotation.UnitKg
			}
			if it.Rate != nil && !it.HasRate() {
				it.Rate = nil
			}
			d.Items = append(d.Items, it)
		}
	}
	if !gstExplicit && s.GSTPercent > 0 {
		d.GSTPercent = quotation.CoerceGST(s.GSTPercent, true)
	}
	for _, f := range []struct{ dst, src *string }{
		{&d.Transport, &s.Transport},
		{&d.Loading, &s.Loading},
		{&d.Payment, &s.Payment},
		{&d.Delivery, &s.Delivery},
		{&d.Validity, &s.Validity},
	} {
		v := strings.TrimSpace(*f.src)
		if *f.dst == quotation.NotSpecified && v != "" && !strings.EqualFold(v, quotation.NotSpecified) {
			*f.dst = v
		}
	}
	return true
}

// completeItems infers missing rates and records the section family of each item.
func (e *Extractor) completeItems(d *quotation.Draft, sectionRates map[string]float64) {
	for i := range d.Items {
		it := &d.Items[i]
		if it.Section == "" {
			it.Section = e.rates.Family(it.Description)
		}
		if !it.HasRate() {
			it.Rate = quotation.Rate(e.rates.InferRate(it.Description, sectionRates))
			it.RateInferred = true
		}
	}
}

func (e *Extractor) weightWarnings(items []quotation.LineItem) []Warning {
	var out []Warning
	for i, it := range items {
		if it.Unit != quotation.UnitNos {
			continue
		}
		if _, ok := e.table.Lookup(it.Description); ok {
			continue
		}
		w := Warning{Item: i, Message: "weight unknown for " + it.Description}
		for name := range e.table.FindSimilar(it.Description) {
			w.Suggestions = append(w.Suggestions, name)
			if len(w.Suggestions) == 3 {
				break
			}
		}
		out = append(out, w)
	}
	return out
}

var clarifyPrompts = map[quotation.Field]string{
	quotation.FieldCustomerName: "Could you please specify the customer name? (e.g., 'for ABC Industries')",
	quotation.FieldItems:        "Which products do you need? (e.g., 'TMT Bars 10mm - 5 MT @ 55')",
}

func clarify(missing []quotation.Field) *Clarification {
	lines := make([]string, 0, len(missing))
	for _, f := range missing {
		lines = append(lines, clarifyPrompts[f])
	}
	return &Clarification{Missing: slices.Clone(missing), Prompt: strings.Join(lines, "\n")}
}
