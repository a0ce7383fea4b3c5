package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/digibouquet/pkg/errors"
	"github.com/matzehuels/digibouquet/pkg/observability"
)

// Metrics holds the Prometheus metrics of one API server. It implements the
// observability hook interfaces so the pipeline, cache and store report into
// the same registry.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	layouts        *prometheus.CounterVec
	layoutDuration prometheus.Histogram
	renders        *prometheus.CounterVec
	renderDuration prometheus.Histogram

	cacheEvents *prometheus.CounterVec
	cacheBytes  prometheus.Counter

	storeOps      *prometheus.CounterVec
	storeDuration *prometheus.HistogramVec
	storeRetries  *prometheus.CounterVec
}

// NewMetrics creates a collector with its own registry under namespace.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		layouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layouts_total",
			Help:      "Bouquet layouts computed, by flower count",
		}, []string{"flowers"}),
		layoutDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_duration_seconds",
			Help:      "Bouquet layout duration in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05},
		}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Artifacts rendered, by format and status",
		}, []string{"format", "status"}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Render duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Cache hits, misses and writes by key type",
		}, []string{"event", "key_type"}),
		cacheBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache",
		}),
		storeOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Bouquet store operations by outcome",
		}, []string{"operation", "backend", "status"}),
		storeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Bouquet store operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "backend"}),
		storeRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_retries_total",
			Help:      "Retried bouquet store operations",
		}, []string{"operation"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.layouts,
		m.layoutDuration,
		m.renders,
		m.renderDuration,
		m.cacheEvents,
		m.cacheBytes,
		m.storeOps,
		m.storeDuration,
		m.storeRetries,
	)
	return m
}

// Registry returns the registry metrics are registered with.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Register installs m as the global pipeline, cache and store hooks.
func (m *Metrics) Register() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetStoreHooks(m)
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// =============================================================================
// Observability hooks
// =============================================================================

func (m *Metrics) OnLayoutStart(context.Context, int) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, flowers int, d time.Duration, _ error) {
	m.layouts.WithLabelValues(strconv.Itoa(flowers)).Inc()
	m.layoutDuration.Observe(d.Seconds())
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	status := statusLabel(err)
	for _, f := range formats {
		m.renders.WithLabelValues(f, status).Inc()
	}
	m.renderDuration.Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues("hit", keyType).Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues("miss", keyType).Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues("set", keyType).Inc()
	m.cacheBytes.Add(float64(size))
}

func (m *Metrics) OnCreate(_ context.Context, backend string, d time.Duration, err error) {
	m.storeOps.WithLabelValues("create", backend, statusLabel(err)).Inc()
	m.storeDuration.WithLabelValues("create", backend).Observe(d.Seconds())
}

func (m *Metrics) OnFetch(_ context.Context, backend string, found bool, d time.Duration, err error) {
	status := statusLabel(err)
	if err == nil && !found {
		status = "not_found"
	}
	m.storeOps.WithLabelValues("fetch", backend, status).Inc()
	m.storeDuration.WithLabelValues("fetch", backend).Observe(d.Seconds())
}

func (m *Metrics) OnRetry(_ context.Context, op string, _ int, _ error) {
	m.storeRetries.WithLabelValues(op).Inc()
}

func statusLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if code := errors.GetCode(err); code != "" {
		return string(code)
	}
	return "error"
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.StoreHooks    = (*Metrics)(nil)
)
