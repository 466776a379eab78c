// Package llm is the optional remote-model fallback: structured extraction of
// quotation requests and single-label intent classification.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/time/rate"

	"github.com/Spok95/quote-bot/internal/domain/quotation"
)

var ErrEmptyResponse = errors.New("llm: empty response")

// Completer sends one prompt and returns the raw model text.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Observer counts remote calls. Kind is "extract" or "intent".
type Observer interface {
	FallbackCall(kind string, err error)
}

// Service adapts a Completer to the extraction and intent fallbacks.
type Service struct {
	c       Completer
	limiter *rate.Limiter
	log     *slog.Logger
	obs     Observer
}

type Option func(*Service)

// WithRateLimit caps remote calls per second across all sessions.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(s *Service) {
		if perSecond > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
		}
	}
}

func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.log = l } }

func WithObserver(o Observer) Option { return func(s *Service) { s.obs = o } }

func New(c Completer, opts ...Option) *Service {
	s := &Service{c: c, limiter: rate.NewLimiter(rate.Inf, 1), log: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SuggestExtraction asks the model for a draft of the message.
func (s *Service) SuggestExtraction(ctx context.Context, text string) (*quotation.Draft, error) {
	raw, err := s.call(ctx, "extract", extractionSystemPrompt, text)
	if err != nil {
		return nil, err
	}
	d, err := ParseDraft(raw)
	if err != nil {
		s.log.Debug("unusable extraction response", "raw", truncate(raw, 200))
		return nil, err
	}
	return d, nil
}

// ClassifyIntent returns the model's label as is; the classifier coerces it.
func (s *Service) ClassifyIntent(ctx context.Context, text string) (string, error) {
	raw, err := s.call(ctx, "intent", intentSystemPrompt, text)
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(raw)), nil
}

func (s *Service) call(ctx context.Context, kind, system, text string) (out string, err error) {
	defer func() {
		if s.obs != nil {
			s.obs.FallbackCall(kind, err)
		}
	}()
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("llm %s: rate limit: %w", kind, err)
	}
	out, err = s.c.Complete(ctx, system, text)
	if err != nil {
		return "", fmt.Errorf("llm %s: %w", kind, err)
	}
	if strings.TrimSpace(out) == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
