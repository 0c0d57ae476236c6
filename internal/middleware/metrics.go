package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Dan9191/mealmate/internal/metrics"
	"github.com/gorilla/mux"
)

// MetricsMiddleware records HTTP metrics for each request. It is installed with
// Router.Use so the route template is known and ids do not explode label cardinality.
func MetricsMiddleware(m *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			m.IncrementInFlight()
			defer m.DecrementInFlight()

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			path := r.URL.Path
			if route := mux.CurrentRoute(r); route != nil {
				if tpl, err := route.GetPathTemplate(); err == nil {
					path = tpl
				}
			}
			m.RecordHTTPRequest(r.Method, path, strconv.Itoa(rec.status), time.Since(start))
		})
	}
}
