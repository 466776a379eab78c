package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records assistant activity. It satisfies dialog.Recorder and llm.Observer.
type Metrics struct {
	turns          *prometheus.CounterVec
	confidence     prometheus.Histogram
	clarifications prometheus.Counter
	finalized      prometheus.Counter
	fallback       *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		turns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quote_bot",
			Name:      "turns_total",
			Help:      "Conversation turns by route.",
		}, []string{"route"}),
		confidence: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quote_bot",
			Name:      "extraction_confidence",
			Help:      "Confidence score of free-text extractions.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
		clarifications: f.NewCounter(prometheus.CounterOpts{
			Namespace: "quote_bot",
			Name:      "clarifications_total",
			Help:      "Extractions that needed a clarification.",
		}),
		finalized: f.NewCounter(prometheus.CounterOpts{
			Namespace: "quote_bot",
			Name:      "quotations_finalized_total",
			Help:      "Quotations handed off after confirmation.",
		}),
		fallback: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quote_bot",
			Name:      "fallback_calls_total",
			Help:      "Remote model calls by kind and outcome.",
		}, []string{"kind", "outcome"}),
	}
}

func (m *Metrics) Turn(route string) { m.turns.WithLabelValues(route).Inc() }

func (m *Metrics) Extraction(confidence int, complete bool) {
	m.confidence.Observe(float64(confidence))
	if !complete {
		m.clarifications.Inc()
	}
}

func (m *Metrics) Finalized() { m.finalized.Inc() }

func (m *Metrics) FallbackCall(kind string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.fallback.WithLabelValues(kind, outcome).Inc()
}
