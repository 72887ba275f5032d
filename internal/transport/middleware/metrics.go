package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/wordgraph/internal/metrics"
)

// Metrics records request latency by method, route pattern and status. The
// route pattern keeps label cardinality bounded; unmatched requests share
// one label.
func Metrics() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			metrics.RequestDuration.
				WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).
				Observe(time.Since(start).Seconds())
		})
	}
}
