package middleware

import (
	"net/http"
	"time"
)

// HTTPObserver records served requests, e.g. into Prometheus.
type HTTPObserver interface {
	ObserveHTTPRequest(method, path string, status int, duration time.Duration)
}

// Metrics reports every request to observer, labelled by the matched route pattern so
// path parameters do not explode label cardinality. Unrouted requests share one label.
func Metrics(observer HTTPObserver, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := wrapResponseWriter(w)
		next.ServeHTTP(wrapped, r)
		pattern := r.Pattern
		if pattern == "" {
			pattern = "unmatched"
		}
		observer.ObserveHTTPRequest(r.Method, pattern, wrapped.status, time.Since(start))
	})
}
