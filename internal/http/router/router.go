// Package router arma el árbol de rutas HTTP del servicio sobre chi.
package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	healthctrl "github.com/dropDatabas3/profilegate/internal/http/controllers/health"
	profilesctrl "github.com/dropDatabas3/profilegate/internal/http/controllers/profiles"
	httperrors "github.com/dropDatabas3/profilegate/internal/http/errors"
	mw "github.com/dropDatabas3/profilegate/internal/http/middlewares"
	"github.com/dropDatabas3/profilegate/internal/metrics"
	"github.com/dropDatabas3/profilegate/internal/rate"
)

// Deps contiene las dependencias del router. Gate y Resolver son obligatorios.
type Deps struct {
	Gate     profilesctrl.Gate
	Resolver mw.CallerResolver

	// Store se pinguea en /readyz. nil => siempre ready.
	Store     healthctrl.Pinger
	StoreName string

	// Opcionales
	Metrics     *metrics.Metrics // habilita /metrics e instrumentación
	MetricsPath string           // default /metrics
	RateLimiter rate.Limiter     // solo rutas /api

	// CORSOrigins vacío => "*" (sin credenciales).
	CORSOrigins []string
}

// DefaultCORSOptions devuelve la política CORS para el cliente web.
func DefaultCORSOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}
}

// New construye el handler raíz.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	base := []mw.Middleware{
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithLogging(),
		mw.WithSecurityHeaders(),
	}
	if deps.Metrics != nil {
		base = append(base, mw.WithMetrics(deps.Metrics))
	}
	r.Use(mw.Std(base...))
	r.Use(cors.Handler(DefaultCORSOptions(deps.CORSOrigins)))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	// ─── Infra (público) ───
	health := healthctrl.NewHealthController(deps.Store, deps.StoreName)
	r.Get("/readyz", health.Readyz)
	if deps.Metrics != nil {
		path := deps.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, deps.Metrics.Handler())
	}

	// ─── API (bearer) ───
	profiles := profilesctrl.NewProfilesController(deps.Gate)
	r.Route("/api", func(api chi.Router) {
		api.Use(mw.Std(
			mw.WithNoStore(),
			rateLimit(deps),
			mw.RequireCaller(deps.Resolver),
		))
		api.Get("/profile", profiles.GetOwn)
		api.Get("/profile/{id}", profiles.GetByID)
		api.Get("/profiles", profiles.List)
		api.Post("/role", profiles.SetRole)
	})

	return r
}

func rateLimit(deps Deps) mw.Middleware {
	if deps.RateLimiter == nil {
		return nil
	}
	cfg := mw.RateLimitConfig{Limiter: deps.RateLimiter}
	if deps.Metrics != nil {
		cfg.OnLimited = func(path string) {
			deps.Metrics.ObserveRateLimited(pathLabel(path))
		}
	}
	return mw.WithRateLimit(cfg)
}

// pathLabel colapsa los ids para no explotar la cardinalidad de la métrica.
func pathLabel(path string) string {
	if strings.HasPrefix(path, "/api/profile/") {
		return "/api/profile/{id}"
	}
	return path
}
