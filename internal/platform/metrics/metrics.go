package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. A nil *Metrics
// is valid and turns every method into a no-op, which keeps tests free of
// registry wiring.
type Metrics struct {
	ScoringsValidated  *prometheus.CounterVec
	ScoringDuration    prometheus.Histogram
	TokenVerifications *prometheus.CounterVec
	TokensIssued       prometheus.Counter
	ThrottleDecisions  *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ScoringsValidated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bilan_scorings_validated_total",
			Help: "Total number of scoring payloads processed, by outcome",
		}, []string{"outcome"}),
		ScoringDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "bilan_scoring_duration_seconds",
			Help:    "Time spent validating and normalizing one scoring payload",
			Buckets: prometheus.DefBuckets,
		}),
		TokenVerifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bilan_token_verifications_total",
			Help: "Total number of share token verifications, by outcome",
		}, []string{"outcome"}),
		TokensIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bilan_tokens_issued_total",
			Help: "Total number of share tokens issued",
		}),
		ThrottleDecisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bilan_throttle_decisions_total",
			Help: "Total number of send throttle decisions, by outcome",
		}, []string{"outcome"}),
	}
}

// RecordScoring counts one scoring validation by outcome ("ok" or "rejected")
// and observes its duration.
func (m *Metrics) RecordScoring(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ScoringsValidated.WithLabelValues(outcome).Inc()
	m.ScoringDuration.Observe(elapsed.Seconds())
}

// RecordTokenVerification counts one verification as "valid" or "invalid".
// Invalid is a single bucket on purpose; per-cause labels would leak which
// check failed.
func (m *Metrics) RecordTokenVerification(valid bool) {
	if m == nil {
		return
	}
	outcome := "invalid"
	if valid {
		outcome = "valid"
	}
	m.TokenVerifications.WithLabelValues(outcome).Inc()
}

// IncrementTokensIssued counts one issued share token.
func (m *Metrics) IncrementTokensIssued() {
	if m == nil {
		return
	}
	m.TokensIssued.Inc()
}

// RecordThrottleDecision counts one throttle outcome: "allowed", "throttled"
// or "conflict".
func (m *Metrics) RecordThrottleDecision(outcome string) {
	if m == nil {
		return
	}
	m.ThrottleDecisions.WithLabelValues(outcome).Inc()
}
