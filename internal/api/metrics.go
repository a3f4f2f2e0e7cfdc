package api

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// clientMetrics records one sample per API call
type clientMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newClientMetrics(reg prometheus.Registerer) *clientMetrics {
	m := &clientMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stageconnect_api_requests_total",
			Help: "Total number of requests sent to the StageConnect API.",
		}, []string{"method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stageconnect_api_request_duration_seconds",
			Help:    "Latency of requests sent to the StageConnect API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

// observe records a finished call. status is 0 when no response came back.
func (m *clientMetrics) observe(method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(method, code).Inc()
	m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}
