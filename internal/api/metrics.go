package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// comparisonsTotal counts engine comparisons by the regime that came out cheaper.
var comparisonsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "regimecalc",
	Subsystem: "api",
	Name:      "comparisons_total",
	Help:      "Total regime comparisons computed, by cheaper regime.",
}, []string{"cheaper"})

// cacheRequestsTotal counts response cache lookups.
var cacheRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "regimecalc",
	Subsystem: "api",
	Name:      "cache_requests_total",
	Help:      "Total response cache lookups, by result (hit or miss).",
}, []string{"result"})

// requestDuration tracks request latency per route pattern.
var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "regimecalc",
	Subsystem: "api",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency by method, route and status.",
	Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
}, []string{"method", "route", "status"})

// metricsMiddleware records requestDuration. The route label is the chi
// pattern so that user IDs do not explode the label set.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		requestDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}
