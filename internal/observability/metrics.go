package observability

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce       sync.Once
	httpRequestsTotal  *prometheus.CounterVec
	httpLatencySeconds *prometheus.HistogramVec
	httpErrorsTotal    *prometheus.CounterVec
	questionsTotal     *prometheus.CounterVec
	batchSize          prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		questionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evaluation_questions_total",
			Help: "Questions evaluated, partitioned by outcome.",
		}, []string{"outcome"})

		batchSize = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "evaluation_batch_size",
			Help:    "Number of questions per evaluation request.",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, httpErrorsTotal, questionsTotal, batchSize)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// EvaluatedQuestions counts per-question outcomes ("scored" or "failed").
func EvaluatedQuestions() *prometheus.CounterVec {
	RegisterMetrics()
	return questionsTotal
}

// EvaluationBatchSize observes how many questions each request carried.
func EvaluationBatchSize() prometheus.Histogram {
	RegisterMetrics()
	return batchSize
}

// MetricsHandler serves the default Prometheus registry, which also carries the
// completion metrics registered by pkg/ai.
func MetricsHandler() fiber.Handler {
	RegisterMetrics()
	return adaptor.HTTPHandler(promhttp.Handler())
}
