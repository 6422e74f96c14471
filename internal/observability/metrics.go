package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	httpRequestsTotal    *prometheus.CounterVec
	httpLatencySeconds   *prometheus.HistogramVec
	queryOperationsTotal *prometheus.CounterVec
	queryCacheTotal      *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		queryOperationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "query_operations_total",
			Help: "Query handler operations by model, operation and outcome.",
		}, []string{"model", "operation", "outcome"})

		queryCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "query_cache_requests_total",
			Help: "List cache lookups by model and result.",
		}, []string{"model", "result"})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, queryOperationsTotal, queryCacheTotal)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// QueryOperations exposes the per-model operation counter.
func QueryOperations() *prometheus.CounterVec {
	RegisterMetrics()
	return queryOperationsTotal
}

// QueryCache exposes the list cache hit/miss counter.
func QueryCache() *prometheus.CounterVec {
	RegisterMetrics()
	return queryCacheTotal
}
