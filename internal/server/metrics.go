package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rackscope/internal/analyzer"
)

type metrics struct {
	registry *prometheus.Registry

	// analyses counts analyze requests by outcome (decoded, cached, failed).
	analyses *prometheus.CounterVec

	// decodeSeconds observes decode time for freshly decoded presets.
	decodeSeconds prometheus.Histogram

	// requests counts HTTP responses by route pattern and status code.
	requests *prometheus.CounterVec
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)
	return &metrics{
		registry: reg,
		analyses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rackscope",
			Name:      "analyses_total",
			Help:      "Analyze requests by outcome",
		}, []string{"outcome"}),
		decodeSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rackscope",
			Name:      "decode_duration_seconds",
			Help:      "Time spent decoding uploaded presets",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rackscope",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP responses by route and status code",
		}, []string{"route", "code"}),
	}
}

func (m *metrics) recordOutcome(outcome analyzer.Outcome, duration time.Duration) {
	m.analyses.WithLabelValues(string(outcome)).Inc()
	if outcome == analyzer.OutcomeDecoded {
		m.decodeSeconds.Observe(duration.Seconds())
	}
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
