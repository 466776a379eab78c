// Package intent decides whether a message asks for a quotation, edits the
// current draft, or is casual conversation.
//
// Classification flow:
//  1. Short greetings and acknowledgements resolve to casual immediately.
//  2. Keyword (+1) and pattern (+2) scoring per intent.
//  3. Any positive score keeps the leading intent; a weak one without a
//     secondary indicator is only logged.
//  4. Messages that score zero go to the remote model when one is configured.
package intent

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"
)

type Intent string

const (
	Quotation Intent = "quotation"
	Edit      Intent = "edit"
	Casual    Intent = "casual"
)

// order breaks score ties.
var order = []Intent{Quotation, Edit, Casual}

const (
	confidentScore         = 3
	DefaultFallbackMinLen  = 10
	DefaultFallbackTimeout = 5 * time.Second
)

// Fallback labels text the rules could not place.
type Fallback interface {
	ClassifyIntent(ctx context.Context, text string) (string, error)
}

// SessionContext carries what the classifier may know about the conversation.
type SessionContext struct {
	HasDraft bool
}

type Decision struct {
	Intent       Intent
	Scores       map[Intent]int
	UsedFallback bool
}

type Classifier struct {
	fallback Fallback
	timeout  time.Duration
	minLen   int
	log      *slog.Logger
}

type Option func(*Classifier)

func WithFallback(f Fallback, timeout time.Duration) Option {
	return func(c *Classifier) {
		c.fallback = f
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

func WithLogger(l *slog.Logger) Option { return func(c *Classifier) { c.log = l } }

// WithFallbackMinLength sets how long a message must be before the remote
// classifier is consulted.
func WithFallbackMinLength(n int) Option { return func(c *Classifier) { c.minLen = n } }

func New(opts ...Option) *Classifier {
	c := &Classifier{
		timeout: DefaultFallbackTimeout,
		minLen:  DefaultFallbackMinLen,
		log:     slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Classify always returns one of the three intents.
func (c *Classifier) Classify(ctx context.Context, message string, sc SessionContext) Decision {
	msg := strings.ToLower(strings.TrimSpace(message))
	if msg == "" || isSimpleCasual(msg) {
		return Decision{Intent: Casual}
	}

	scores := Score(msg)
	top := leading(scores, sc)
	dec := Decision{Intent: top, Scores: scores}

	switch s := scores[top]; {
	case s >= confidentScore:
		return dec
	case s > 0:
		if !secondaryCheck(top, msg) {
			c.log.Debug("weak intent without indicator", "intent", top, "score", s)
		}
		return dec
	default:
		if label, ok := c.ask(ctx, msg); ok {
			return Decision{Intent: label, Scores: scores, UsedFallback: true}
		}
		return Decision{Intent: Casual, Scores: scores}
	}
}

func (c *Classifier) ask(ctx context.Context, msg string) (Intent, bool) {
	if c.fallback == nil || len(msg) <= c.minLen {
		return "", false
	}
	cctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	label, err := c.fallback.ClassifyIntent(cctx, msg)
	if err != nil {
		c.log.Warn("intent fallback failed", "err", err)
		return "", false
	}
	if ctx.Err() != nil {
		return "", false
	}
	return Coerce(label), true
}

// Coerce maps a free-form label onto an intent; anything unrecognised is Casual.
func Coerce(label string) Intent {
	l := strings.ToLower(strings.TrimSpace(label))
	l = strings.Trim(l, `"'.`)
	switch {
	case strings.HasPrefix(l, "quot"):
		return Quotation
	case strings.HasPrefix(l, "edit"):
		return Edit
	default:
		return Casual
	}
}

// Score counts keyword (+1) and pattern (+2) hits per intent on lowercased text.
func Score(msg string) map[Intent]int {
	scores := map[Intent]int{Quotation: 0, Edit: 0, Casual: 0}
	for _, in := range order {
		for _, re := range keywordRes[in] {
			if re.MatchString(msg) {
				scores[in]++
			}
		}
		for _, re := range patterns[in] {
			if re.MatchString(msg) {
				scores[in] += 2
			}
		}
	}
	return scores
}

func leading(scores map[Intent]int, sc SessionContext) Intent {
	top := order[0]
	for _, in := range order[1:] {
		if scores[in] > scores[top] {
			top = in
		}
	}
	if sc.HasDraft && top == Quotation && scores[Edit] == scores[Quotation] {
		return Edit
	}
	return top
}

var secondary = map[Intent]*regexp.Regexp{
	Edit:      regexp.MustCompile(`\b(?:change|update|add|remove|set|modify)\b`),
	Quotation: regexp.MustCompile(`\b(?:quote|quotation|price|estimate|cost)\b|@|₹`),
	Casual:    regexp.MustCompile(`.`),
}

func secondaryCheck(in Intent, msg string) bool { return secondary[in].MatchString(msg) }

var simpleCasual = map[string]bool{
	"hi": true, "hello": true, "hey": true, "ok": true, "okay": true, "yes": true, "no": true,
	"thanks": true, "thank you": true, "thx": true, "bye": true, "good morning": true, "good evening": true,
}

func isSimpleCasual(msg string) bool {
	return simpleCasual[strings.TrimRight(msg, ".!?")]
}
