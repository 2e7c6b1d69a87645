package inkwell

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/xiwu-io/inkwell/content"
)

const metricsNamespace = "inkwell"

// Metrics records index and OG image activity in Prometheus. It implements
// content.Observer so the index reports cache hits and scans directly.
// A nil *Metrics is a valid no-op recorder.
type Metrics struct {
	registry *prom.Registry

	cacheLookups  *prom.CounterVec
	indexLoads    *prom.HistogramVec
	indexPosts    *prom.GaugeVec
	ogRenders     *prom.CounterVec
	ogRateLimited prom.Counter
}

// NewMetrics registers the engine collectors, together with the Go runtime
// and process collectors, on reg. A nil reg gets a fresh registry.
func NewMetrics(reg *prom.Registry) *Metrics {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	m := &Metrics{
		registry: reg,
		cacheLookups: prom.NewCounterVec(prom.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "index_cache_lookups_total",
			Help:      "Post index cache lookups by locale and state (miss, fresh, stale)",
		}, []string{"locale", "state"}),
		indexLoads: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "index_build_duration_seconds",
			Help:      "Time spent scanning and sorting a locale's posts",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"locale"}),
		indexPosts: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "index_posts",
			Help:      "Published posts found by the last index build",
		}, []string{"locale"}),
		ogRenders: prom.NewCounterVec(prom.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "og_renders_total",
			Help:      "OG images rendered by source (title, post)",
		}, []string{"source"}),
		ogRateLimited: prom.NewCounter(prom.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "og_rate_limited_total",
			Help:      "OG requests rejected by the per-client rate limit",
		}),
	}
	reg.MustRegister(
		m.cacheLookups,
		m.indexLoads,
		m.indexPosts,
		m.ogRenders,
		m.ogRateLimited,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prom.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// CacheLookup implements content.Observer.
func (m *Metrics) CacheLookup(locale string, state content.CacheState) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(locale, state.String()).Inc()
}

// IndexLoaded implements content.Observer.
func (m *Metrics) IndexLoaded(locale string, posts int, d time.Duration) {
	if m == nil {
		return
	}
	m.indexLoads.WithLabelValues(locale).Observe(d.Seconds())
	m.indexPosts.WithLabelValues(locale).Set(float64(posts))
}

// OGRendered counts a rendered image. source is "title" or "post".
func (m *Metrics) OGRendered(source string) {
	if m == nil {
		return
	}
	m.ogRenders.WithLabelValues(source).Inc()
}

// OGRateLimited counts a rejected OG request.
func (m *Metrics) OGRateLimited() {
	if m == nil {
		return
	}
	m.ogRateLimited.Inc()
}

// metricsHandler exposes the app registry in the Prometheus text format.
func (a *App) metricsHandler() echo.HandlerFunc {
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: a.Metrics.Registry(),
	})
}
