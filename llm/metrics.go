package llm

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus instrumentation for the LLM client. All metrics
// are labeled by provider and model so per-endpoint behavior is visible when
// fallback chains are in play.
type Metrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	fallbacks *prometheus.CounterVec
	retries   *prometheus.CounterVec
	tokens    *prometheus.CounterVec
}

// NewMetrics creates and registers LLM client metrics on the given
// registerer. Pass prometheus.DefaultRegisterer for the process-wide
// registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cybersaga",
			Subsystem: "llm",
			Name:      "requests_total",
			Help:      "LLM completion requests by provider, model and outcome.",
		}, []string{"provider", "model", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cybersaga",
			Subsystem: "llm",
			Name:      "request_duration_seconds",
			Help:      "End-to-end LLM request latency including retries.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		}, []string{"provider", "model"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cybersaga",
			Subsystem: "llm",
			Name:      "fallbacks_total",
			Help:      "Times a request fell through to a lower-preference model.",
		}, []string{"capability"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cybersaga",
			Subsystem: "llm",
			Name:      "retries_total",
			Help:      "Retry attempts by provider and model.",
		}, []string{"provider", "model"}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cybersaga",
			Subsystem: "llm",
			Name:      "tokens_total",
			Help:      "Token consumption by provider, model and direction.",
		}, []string{"provider", "model", "direction"}),
	}

	if reg != nil {
		reg.MustRegister(m.requests, m.duration, m.fallbacks, m.retries, m.tokens)
	}
	return m
}

func (m *Metrics) observeRequest(provider, modelName, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(provider, modelName, status).Inc()
	m.duration.WithLabelValues(provider, modelName).Observe(elapsed.Seconds())
}

func (m *Metrics) observeFallback(capability string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(capability).Inc()
}

func (m *Metrics) observeRetries(provider, modelName string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.retries.WithLabelValues(provider, modelName).Add(float64(n))
}

func (m *Metrics) observeTokens(provider, modelName string, usage TokenUsage) {
	if m == nil {
		return
	}
	m.tokens.WithLabelValues(provider, modelName, "prompt").Add(float64(usage.PromptTokens))
	m.tokens.WithLabelValues(provider, modelName, "completion").Add(float64(usage.CompletionTokens))
}
