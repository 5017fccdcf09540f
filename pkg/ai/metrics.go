package ai

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	completionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "evaluator",
		Subsystem: "ai",
		Name:      "completion_duration_seconds",
		Help:      "Duration of completion requests",
	}, []string{"provider", "model"})

	completionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "evaluator",
		Subsystem: "ai",
		Name:      "completion_failures_total",
		Help:      "Number of failed completion requests",
	}, []string{"provider", "model"})

	completionTokens = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "evaluator",
		Subsystem: "ai",
		Name:      "completion_tokens_total",
		Help:      "Tokens consumed by completion requests",
	}, []string{"provider", "model", "kind"})
)

func observeUsage(provider, model string, usage Usage) {
	completionTokens.WithLabelValues(provider, model, "prompt").Add(float64(usage.PromptTokens))
	completionTokens.WithLabelValues(provider, model, "completion").Add(float64(usage.CompletionTokens))
}
