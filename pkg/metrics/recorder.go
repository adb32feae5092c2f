// Package metrics provides Prometheus-based metrics recording for tool calls
// and the subprocesses they spawn.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"auggie-mcp/pkg/version"
)

// Recorder receives call and subprocess observations.
type Recorder interface {
	ObserveCall(tool, outcome string, duration time.Duration)
	ObserveFilesChanged(tool string, n int)
	ObserveSubprocess(binary, result string)
}

// PrometheusRecorder implements the Recorder interface using Prometheus metrics.
type PrometheusRecorder struct {
	registry        *prometheus.Registry
	callsTotal      *prometheus.CounterVec
	callDuration    *prometheus.HistogramVec
	subprocessTotal *prometheus.CounterVec
	filesChanged    *prometheus.HistogramVec
}

// NewPrometheusRecorder creates a recorder backed by its own registry, so
// several servers (or tests) in one process do not collide.
func NewPrometheusRecorder() *PrometheusRecorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		version.Collector(),
	)
	factory := promauto.With(registry)

	return &PrometheusRecorder{
		registry: registry,
		callsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auggie_mcp_calls_total",
				Help: "Total number of tool calls by tool and outcome",
			},
			[]string{"tool", "outcome"},
		),
		callDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "auggie_mcp_call_duration_seconds",
				Help:    "Duration of tool calls in seconds",
				Buckets: []float64{0.5, 1, 5, 15, 30, 60, 120, 300, 600},
			},
			[]string{"tool"},
		),
		subprocessTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auggie_mcp_subprocess_total",
				Help: "Total number of spawned subprocesses by binary and result",
			},
			[]string{"binary", "result"},
		),
		filesChanged: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "auggie_mcp_files_changed",
				Help:    "Number of files changed per implement call",
				Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
			},
			[]string{"tool"},
		),
	}
}

// ObserveCall records a completed tool call.
func (p *PrometheusRecorder) ObserveCall(tool, outcome string, duration time.Duration) {
	p.callsTotal.WithLabelValues(tool, outcome).Inc()
	p.callDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// ObserveFilesChanged records the size of a change set.
func (p *PrometheusRecorder) ObserveFilesChanged(tool string, n int) {
	p.filesChanged.WithLabelValues(tool).Observe(float64(n))
}

// ObserveSubprocess records one subprocess outcome.
func (p *PrometheusRecorder) ObserveSubprocess(binary, result string) {
	p.subprocessTotal.WithLabelValues(binary, result).Inc()
}

// Registry exposes the underlying registry.
func (p *PrometheusRecorder) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// NopRecorder discards all observations.
type NopRecorder struct{}

func (NopRecorder) ObserveCall(string, string, time.Duration) {}
func (NopRecorder) ObserveFilesChanged(string, int)            {}
func (NopRecorder) ObserveSubprocess(string, string)           {}
