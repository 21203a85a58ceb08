// Package metrics exports floor, render, cache and HTTP activity as
// Prometheus metrics.
//
// A [Registry] implements every hook interface in
// [github.com/matzehuels/hapticfloor/pkg/observability], so wiring it up is a
// single call:
//
//	reg := metrics.NewRegistry()
//	reg.Install()
//	http.Handle("/metrics", reg.Handler())
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/hapticfloor/pkg/observability"
)

const namespace = "hapticfloor"

// Registry holds all metrics for the application.
type Registry struct {
	// Floor
	ReloadsTotal      *prometheus.CounterVec
	ReloadDuration    prometheus.Histogram
	ActiveNodes       prometheus.Gauge
	PassiveNodes      prometheus.Gauge
	TicksTotal        prometheus.Counter
	BankOverflowTotal prometheus.Counter

	// Render
	RendersTotal   *prometheus.CounterVec
	RenderDuration prometheus.Histogram

	// Cache
	CacheRequestsTotal *prometheus.CounterVec
	CacheSetBytes      *prometheus.HistogramVec

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a registry with all metrics initialized.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initFloorMetrics()
	r.initRenderMetrics()
	r.initCacheMetrics()
	r.initHTTPMetrics()
	return r
}

func (r *Registry) initFloorMetrics() {
	f := promauto.With(r.registry)
	r.ReloadsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reloads_total",
		Help:      "Total number of layout reloads by result",
	}, []string{"status"})
	r.ReloadDuration = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "reload_duration_seconds",
		Help:      "Layout reload latency in seconds",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
	})
	r.ActiveNodes = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_nodes",
		Help:      "Number of active nodes in the loaded layout",
	})
	r.PassiveNodes = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "passive_nodes",
		Help:      "Number of passive nodes in the loaded layout",
	})
	r.TicksTotal = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ticks_total",
		Help:      "Total number of value banks routed",
	})
	r.BankOverflowTotal = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bank_overflow_total",
		Help:      "Ticks whose bank was longer than the active node count",
	})
}

func (r *Registry) initRenderMetrics() {
	f := promauto.With(r.registry)
	r.RendersTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "renders_total",
		Help:      "Total number of mesh renders by result",
	}, []string{"status"})
	r.RenderDuration = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "render_duration_seconds",
		Help:      "Mesh render latency in seconds",
		Buckets:   prometheus.DefBuckets,
	})
}

func (r *Registry) initCacheMetrics() {
	f := promauto.With(r.registry)
	r.CacheRequestsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_requests_total",
		Help:      "Cache lookups by key type and result",
	}, []string{"key_type", "result"})
	r.CacheSetBytes = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "cache_set_bytes",
		Help:      "Size of values written to the cache",
		Buckets:   []float64{100, 1000, 10000, 100000, 1000000},
	}, []string{"key_type"})
}

func (r *Registry) initHTTPMetrics() {
	f := promauto.With(r.registry)
	r.HTTPRequestsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"method", "route", "status"})
	r.HTTPRequestDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Install registers r as the floor, pipeline, cache and HTTP hooks.
func (r *Registry) Install() {
	observability.SetFloorHooks(floorHooks{r})
	observability.SetPipelineHooks(pipelineHooks{r})
	observability.SetCacheHooks(cacheHooks{r})
	observability.SetHTTPHooks(httpHooks{r})
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// =============================================================================
// Hook adapters
// =============================================================================

type floorHooks struct{ r *Registry }

func (h floorHooks) OnReload(_ context.Context, _ string, active, passive int, d time.Duration, err error) {
	h.r.ReloadsTotal.WithLabelValues(status(err)).Inc()
	h.r.ReloadDuration.Observe(d.Seconds())
	h.r.ActiveNodes.Set(float64(active))
	h.r.PassiveNodes.Set(float64(passive))
}

func (h floorHooks) OnTick(_ context.Context, activeCount, bankLen int) {
	h.r.TicksTotal.Inc()
	if bankLen > activeCount {
		h.r.BankOverflowTotal.Inc()
	}
}

type pipelineHooks struct{ r *Registry }

func (pipelineHooks) OnRenderStart(context.Context, []string) {}

func (h pipelineHooks) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	h.r.RendersTotal.WithLabelValues(status(err)).Inc()
	h.r.RenderDuration.Observe(d.Seconds())
}

type cacheHooks struct{ r *Registry }

func (h cacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.r.CacheRequestsTotal.WithLabelValues(keyType, "hit").Inc()
}

func (h cacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.r.CacheRequestsTotal.WithLabelValues(keyType, "miss").Inc()
}

func (h cacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.r.CacheSetBytes.WithLabelValues(keyType).Observe(float64(size))
}

type httpHooks struct{ r *Registry }

func (h httpHooks) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	h.r.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	h.r.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
