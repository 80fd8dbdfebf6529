package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "zsdeploy"

	diffRequestsTotal = "diff_requests_total"
	diffBytesTotal    = "diff_response_bytes_total"

	resultOK    = "ok"
	resultError = "error"
)

// metrics are kept on a registry owned by the server so several servers can
// live in one process.
type metrics struct {
	registry     *prometheus.Registry
	diffRequests *prometheus.CounterVec
	diffBytes    prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		diffRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      diffRequestsTotal,
				Help:      "How many diffs have been requested, by result.",
			},
			[]string{"result"},
		),
		diffBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      diffBytesTotal,
				Help:      "How many bytes of diff output have been served.",
			},
		),
	}

	m.registry.MustRegister(m.diffRequests, m.diffBytes)
	return m
}

func (m *metrics) observe(err error, n int) {
	if err != nil {
		m.diffRequests.WithLabelValues(resultError).Inc()
		return
	}

	m.diffRequests.WithLabelValues(resultOK).Inc()
	m.diffBytes.Add(float64(n))
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
