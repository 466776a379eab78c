package intent

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeFallback struct {
	label string
	err   error
	block bool
	calls int
}

func (f *fakeFallback) ClassifyIntent(ctx context.Context, _ string) (string, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.label, f.err
}

func TestClassifyRules(t *testing.T) {
	c := New()
	cases := []struct {
		msg  string
		want Intent
	}{
		{"hi", Casual},
		{"Thanks!", Casual},
		{"", Casual},
		{"How are you doing today?", Casual},
		{"Quote for ABC Industries: ISMC 100x50 - 5MT @ Rs.56", Quotation},
		{"Need a quote for 5 MT TMT bars @ 55", Quotation},
		{"Update GST to 12%", Edit},
		{"change customer name to XYZ Corp", Edit},
		{"remove last item", Edit},
		{"what's the weather like", Casual},
	}
	for _, tc := range cases {
		if got := c.Classify(context.Background(), tc.msg, SessionContext{}); got.Intent != tc.want {
			t.Fatalf("Classify(%q) = %s (scores %v), want %s", tc.msg, got.Intent, got.Scores, tc.want)
		}
	}
}

func TestKeywordsMatchWholeWords(t *testing.T) {
	s := Score("this shipment")
	if s[Casual] != 0 {
		t.Fatalf("substring keyword matched: %v", s)
	}
}

func TestTieBreaksTowardEditWithDraft(t *testing.T) {
	c := New()
	msg := "change price"
	if got := c.Classify(context.Background(), msg, SessionContext{}); got.Intent != Quotation {
		t.Fatalf("without draft = %s", got.Intent)
	}
	if got := c.Classify(context.Background(), msg, SessionContext{HasDraft: true}); got.Intent != Edit {
		t.Fatalf("with draft = %s", got.Intent)
	}
}

func TestFallbackOnZeroScore(t *testing.T) {
	fb := &fakeFallback{label: "Quotation"}
	c := New(WithFallback(fb, time.Second))
	got := c.Classify(context.Background(), "what's the weather like", SessionContext{})
	if got.Intent != Quotation || !got.UsedFallback || fb.calls != 1 {
		t.Fatalf("decision = %+v calls=%d", got, fb.calls)
	}
}

func TestWeakScoreWithoutIndicatorKeepsLeadingIntent(t *testing.T) {
	cases := []struct {
		msg  string
		want Intent
	}{
		{"steel is strong", Quotation},
		{"tell me about angle", Quotation},
	}
	for _, tc := range cases {
		fb := &fakeFallback{label: "casual"}
		c := New(WithFallback(fb, time.Second))
		got := c.Classify(context.Background(), tc.msg, SessionContext{})
		if got.Intent != tc.want || got.UsedFallback || fb.calls != 0 {
			t.Fatalf("%q: decision = %+v calls=%d", tc.msg, got, fb.calls)
		}
	}
}

func TestFallbackNotUsedForShortOrConfident(t *testing.T) {
	fb := &fakeFallback{label: "edit"}
	c := New(WithFallback(fb, time.Second))
	c.Classify(context.Background(), "hmm", SessionContext{})
	c.Classify(context.Background(), "Quote for ABC Industries: ISMC 100x50 - 5MT @ Rs.56", SessionContext{})
	if fb.calls != 0 {
		t.Fatalf("fallback called %d times", fb.calls)
	}
}

func TestFallbackMinLength(t *testing.T) {
	fb := &fakeFallback{label: "quotation"}
	c := New(WithFallback(fb, time.Second), WithFallbackMinLength(30))
	got := c.Classify(context.Background(), "what's the weather like", SessionContext{})
	if got.Intent != Casual || got.UsedFallback || fb.calls != 0 {
		t.Fatalf("decision = %+v calls=%d", got, fb.calls)
	}
}

func TestFallbackFailuresBecomeCasual(t *testing.T) {
	cases := []*fakeFallback{
		{label: "banana"},
		{err: errors.New("boom")},
		{block: true},
	}
	for _, fb := range cases {
		c := New(WithFallback(fb, 20*time.Millisecond))
		start := time.Now()
		got := c.Classify(context.Background(), "what's the weather like", SessionContext{})
		if got.Intent != Casual {
			t.Fatalf("fallback %+v gave %s", fb, got.Intent)
		}
		if time.Since(start) > time.Second {
			t.Fatal("fallback timeout not enforced")
		}
	}
}

func TestCoerce(t *testing.T) {
	cases := map[string]Intent{
		"quotation":  Quotation,
		" 'Edit' ":   Edit,
		"casual":     Casual,
		"something":  Casual,
		"":           Casual,
		"Quotation.": Quotation,
	}
	for in, want := range cases {
		if got := Coerce(in); got != want {
			t.Fatalf("Coerce(%q) = %s, want %s", in, got, want)
		}
	}
}
