// Package metrics implements the observability hooks with Prometheus.
//
// A [Registry] owns its own prometheus.Registry, so several can coexist in
// tests. Install registers the hooks globally:
//
//	reg := metrics.NewRegistry(true)
//	reg.Install()
//	http.Handle("/metrics", reg.Handler())
//
// One-shot CLI runs can dump the collected values in the node-exporter
// textfile format with [Registry.WriteToTextfile].
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/forcelayout/pkg/observability"
)

// Namespace prefixes every metric name.
const Namespace = "forcelayout"

// Registry holds all metrics of the layout service.
type Registry struct {
	// Run metrics
	RunsTotal     *prometheus.CounterVec
	RunDuration   prometheus.Histogram
	RunsInFlight  prometheus.Gauge
	RunGraphNodes prometheus.Histogram

	// Pass metrics
	PassesTotal    *prometheus.CounterVec
	PassDuration   *prometheus.HistogramVec
	PassIterations *prometheus.CounterVec
	ReseedsTotal   *prometheus.CounterVec

	// Cache metrics
	CacheRequestsTotal *prometheus.CounterVec
	CacheErrorsTotal   *prometheus.CounterVec
	CacheWrittenBytes  prometheus.Counter

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry creates a registry with every metric initialized. Process
// and Go runtime collectors are included when withRuntime is set.
func NewRegistry(withRuntime bool) *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	if withRuntime {
		r.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	r.initRunMetrics()
	r.initPassMetrics()
	r.initCacheMetrics()
	r.initHTTPMetrics()
	return r
}

// Prometheus returns the underlying registry.
func (r *Registry) Prometheus() *prometheus.Registry { return r.registry }

// Install registers r as the global layout, cache and HTTP hooks.
func (r *Registry) Install() {
	observability.SetLayoutHooks(NewLayoutHooks(r))
	observability.SetCacheHooks(NewCacheHooks(r))
	observability.SetHTTPHooks(NewHTTPHooks(r))
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// WriteToTextfile writes the current values to path in the textfile
// collector format. The file is replaced atomically.
func (r *Registry) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
