package middlewares

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// HTTPObserver es la parte de metrics.Metrics que usa WithMetrics.
type HTTPObserver interface {
	ObserveHTTP(method, path string, status int, d time.Duration)
	InflightInc()
	InflightDec()
}

// WithMetrics instrumenta requests. La etiqueta path es el patrón de chi
// (/api/profile/{id}) para no explotar la cardinalidad con ids.
func WithMetrics(obs HTTPObserver) Middleware {
	if obs == nil {
		return nil
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			obs.InflightInc()
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			defer func() {
				obs.InflightDec()
				obs.ObserveHTTP(r.Method, routePattern(r), rec.Status(), time.Since(start))
			}()
			next.ServeHTTP(rec, r)
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
