package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/matzehuels/forcelayout/pkg/observability"
)

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// =============================================================================
// Layout
// =============================================================================

type layoutHooks struct{ r *Registry }

// NewLayoutHooks returns layout hooks recording into r.
func NewLayoutHooks(r *Registry) observability.LayoutHooks { return layoutHooks{r} }

func (h layoutHooks) OnRunStart(_ context.Context, _ string, nodes, _ int) {
	h.r.RunsInFlight.Inc()
	h.r.RunGraphNodes.Observe(float64(nodes))
}

func (h layoutHooks) OnRunComplete(_ context.Context, _ string, d time.Duration, err error) {
	h.r.RunsInFlight.Dec()
	h.r.RunsTotal.WithLabelValues(status(err)).Inc()
	h.r.RunDuration.Observe(d.Seconds())
}

func (h layoutHooks) OnPassComplete(_ context.Context, pass string, iterations int, d time.Duration, err error) {
	h.r.PassesTotal.WithLabelValues(pass, status(err)).Inc()
	h.r.PassDuration.WithLabelValues(pass).Observe(d.Seconds())
	h.r.PassIterations.WithLabelValues(pass).Add(float64(iterations))
}

func (h layoutHooks) OnReseed(_ context.Context, pass string) {
	h.r.ReseedsTotal.WithLabelValues(pass).Inc()
}

// =============================================================================
// Cache
// =============================================================================

type cacheHooks struct{ r *Registry }

// NewCacheHooks returns cache hooks recording into r.
func NewCacheHooks(r *Registry) observability.CacheHooks { return cacheHooks{r} }

func (h cacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.r.CacheRequestsTotal.WithLabelValues(keyType, "hit").Inc()
}

func (h cacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.r.CacheRequestsTotal.WithLabelValues(keyType, "miss").Inc()
}

func (h cacheHooks) OnCacheSet(_ context.Context, _ string, size int) {
	h.r.CacheWrittenBytes.Add(float64(size))
}

func (h cacheHooks) OnCacheError(_ context.Context, keyType string, _ error) {
	h.r.CacheErrorsTotal.WithLabelValues(keyType).Inc()
}

// =============================================================================
// HTTP
// =============================================================================

type httpHooks struct{ r *Registry }

// NewHTTPHooks returns HTTP hooks recording into r. Routes should be chi
// route patterns, not raw paths, to keep label cardinality bounded.
func NewHTTPHooks(r *Registry) observability.HTTPHooks { return httpHooks{r} }

func (h httpHooks) OnRequest(context.Context, string, string) {
	h.r.HTTPRequestsInFlight.Inc()
}

func (h httpHooks) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	h.r.HTTPRequestsInFlight.Dec()
	h.r.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	h.r.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
