package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConversationMetrics exposes counters/histograms for chat turn processing.
type ConversationMetrics struct {
	turnsTotal       *prometheus.CounterVec
	llmFallbackTotal prometheus.Counter
	leadsCaptured    prometheus.Counter
	turnLatency      *prometheus.HistogramVec
}

func NewConversationMetrics(reg prometheus.Registerer) *ConversationMetrics {
	m := &ConversationMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadchat",
			Subsystem: "conversation",
			Name:      "turns_total",
			Help:      "Total processed user turns",
		}, []string{"stage", "outcome"}),
		llmFallbackTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "leadchat",
			Subsystem: "conversation",
			Name:      "llm_fallback_total",
			Help:      "Turns answered with the canned question because the LLM was unavailable",
		}),
		leadsCaptured: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "leadchat",
			Subsystem: "conversation",
			Name:      "leads_captured_total",
			Help:      "Conversations that reached the summary with a complete lead",
		}),
		turnLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "leadchat",
			Subsystem: "conversation",
			Name:      "turn_latency_seconds",
			Help:      "Latency of one full turn including the phrasing call",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.llmFallbackTotal, m.leadsCaptured, m.turnLatency)
	return m
}

func (m *ConversationMetrics) ObserveTurn(stage, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(stage, outcome).Inc()
	m.turnLatency.WithLabelValues(outcome).Observe(seconds)
}

func (m *ConversationMetrics) ObserveLLMFallback() {
	if m == nil {
		return
	}
	m.llmFallbackTotal.Inc()
}

func (m *ConversationMetrics) ObserveLeadCaptured() {
	if m == nil {
		return
	}
	m.leadsCaptured.Inc()
}
