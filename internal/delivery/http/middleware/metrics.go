package middleware

import (
	"net/http"
	"strconv"
	"time"

	"partnershipintake/internal/metrics"
)

// Metrics records request counts and latencies labeled by the matched route pattern.
// It must wrap the mux so that r.Pattern is populated after routing.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := captureStatus(w)
		next.ServeHTTP(wrapped, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(wrapped.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
