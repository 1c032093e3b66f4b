// Package server es la raíz de composición: arma store, resolver, gate,
// limiter y router a partir de la configuración, y corre el http.Server con
// apagado ordenado.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	rdb "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/profilegate/internal/access"
	"github.com/dropDatabas3/profilegate/internal/auth"
	"github.com/dropDatabas3/profilegate/internal/auth/gotrue"
	"github.com/dropDatabas3/profilegate/internal/config"
	"github.com/dropDatabas3/profilegate/internal/domain/repository"
	"github.com/dropDatabas3/profilegate/internal/http/router"
	jwtx "github.com/dropDatabas3/profilegate/internal/jwt"
	"github.com/dropDatabas3/profilegate/internal/metrics"
	"github.com/dropDatabas3/profilegate/internal/observability/logger"
	"github.com/dropDatabas3/profilegate/internal/rate"
	store "github.com/dropDatabas3/profilegate/internal/store"
	"github.com/dropDatabas3/profilegate/internal/util"

	// Registra los adapters de store vía init()
	_ "github.com/dropDatabas3/profilegate/internal/store/adapters/dal"
)

// App agrupa el handler y los recursos de larga vida del proceso.
type App struct {
	Handler http.Handler
	Store   store.Connection
	Gate    *access.Gate
	Metrics *metrics.Metrics

	redis *rdb.Client
}

// Options permite inyectar colaboradores en tests.
type Options struct {
	// Registry para las métricas. nil => prometheus.DefaultRegisterer.
	Registry *prometheus.Registry
	// Identity reemplaza al provider construido desde config.
	Identity repository.IdentityProvider
}

// Build construye la App. El caller debe llamar Close.
func Build(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	log := logger.L().With(logger.Layer("server"), logger.Component("wiring"))

	conn, err := store.Open(ctx, store.AdapterConfig{
		Name:         cfg.Storage.Driver,
		DSN:          cfg.Storage.DSN,
		URL:          cfg.Storage.URL,
		ServiceKey:   cfg.Storage.ServiceKey,
		Timeout:      config.Dur(cfg.Storage.Timeout),
		MaxOpenConns: cfg.Storage.Postgres.MaxOpenConns,
		MaxIdleConns: cfg.Storage.Postgres.MaxIdleConns,
		SeedFile:     cfg.Storage.SeedFile,
	})
	if err != nil {
		return nil, fmt.Errorf("server: open store: %w", err)
	}
	app := &App{Store: conn}

	idp := opts.Identity
	if idp == nil {
		idp, err = identityProvider(cfg)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
	}
	resolver := auth.NewResolver(idp, cfg.Identity.Provider)

	var observer access.Observer
	if cfg.Metrics.Enabled {
		var reg prometheus.Registerer = prometheus.DefaultRegisterer
		var gat prometheus.Gatherer = prometheus.DefaultGatherer
		if opts.Registry != nil {
			reg, gat = opts.Registry, opts.Registry
		}
		app.Metrics, err = metrics.New(reg, gat)
		if err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("server: metrics: %w", err)
		}
		observer = app.Metrics
	}

	app.Gate = access.NewGate(conn, access.Config{
		Table:     cfg.Storage.ProfilesTable,
		Procedure: cfg.Storage.RoleProcedure,
		Observer:  observer,
	})

	var limiter rate.Limiter
	if cfg.Rate.Enabled {
		limiter, err = app.limiter(ctx, cfg)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
	}

	deps := router.Deps{
		Gate:        app.Gate,
		Resolver:    resolver,
		Store:       conn,
		StoreName:   conn.Name(),
		MetricsPath: cfg.Metrics.Path,
		RateLimiter: limiter,
		CORSOrigins: cfg.Server.CORSAllowedOrigins,
		Metrics:     app.Metrics,
	}
	app.Handler = router.New(deps)

	log.Info("wiring ready",
		logger.String("storage", conn.Name()),
		logger.String("storage_target", storageTarget(cfg)),
		logger.Provider(cfg.Identity.Provider),
		zap.Bool("rate_limit", limiter != nil),
		zap.Bool("metrics", app.Metrics != nil),
	)
	return app, nil
}

// storageTarget describe el backend sin credenciales, para logs.
func storageTarget(cfg *config.Config) string {
	switch cfg.Storage.Driver {
	case "postgres":
		return util.MaskDSN(cfg.Storage.DSN)
	case "postgrest":
		return cfg.Storage.URL + " key=" + util.MaskSecret(cfg.Storage.ServiceKey)
	default:
		return cfg.Storage.SeedFile
	}
}

func identityProvider(cfg *config.Config) (repository.IdentityProvider, error) {
	switch cfg.Identity.Provider {
	case "gotrue":
		return gotrue.New(cfg.Identity.URL, cfg.Identity.APIKey, config.Dur(cfg.Identity.Timeout)), nil
	case "jwt":
		v, err := jwtx.NewVerifier(cfg.Identity.JWTSecret, cfg.Identity.JWTAudience)
		if err != nil {
			return nil, fmt.Errorf("server: jwt verifier: %w", err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("server: unknown identity provider %q", cfg.Identity.Provider)
	}
}

// limiter usa Redis si hay addr (compartido entre réplicas); si no, memoria local.
func (a *App) limiter(ctx context.Context, cfg *config.Config) (rate.Limiter, error) {
	window := config.Dur(cfg.Rate.Window)
	if cfg.Rate.Redis.Addr == "" {
		return rate.NewMemoryLimiter(cfg.Rate.MaxRequests, window), nil
	}
	a.redis = rdb.NewClient(&rdb.Options{
		Addr: cfg.Rate.Redis.Addr,
		DB:   cfg.Rate.Redis.DB,
	})
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := a.redis.Ping(pctx).Err(); err != nil {
		return nil, fmt.Errorf("server: redis ping %s: %w", cfg.Rate.Redis.Addr, err)
	}
	return rate.NewRedisLimiter(a.redis, cfg.Rate.Redis.Prefix, cfg.Rate.MaxRequests, window), nil
}

// Close libera store y redis.
func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	return errors.Join(errs...)
}

// NewHTTPServer arma el http.Server con los timeouts de config.
func NewHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           h,
		ReadTimeout:       config.Dur(cfg.Server.ReadTimeout),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      config.Dur(cfg.Server.WriteTimeout),
		IdleTimeout:       60 * time.Second,
	}
}

// Serve atiende en ln hasta que ctx se cancela, y luego hace Shutdown con
// shutdownTimeout. Un error de Serve cancela la espera.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener, shutdownTimeout time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	return g.Wait()
}

// Run es el camino de `serve`: build, listen y apagado en SIGINT/SIGTERM.
func Run(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.L().With(logger.Layer("server"))

	app, err := Build(ctx, cfg, Options{})
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn("cleanup error", logger.Err(err))
		}
	}()

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", cfg.Server.Addr, err)
	}

	srv := NewHTTPServer(cfg, app.Handler)
	log.Info("listening", logger.String("addr", ln.Addr().String()), logger.String("env", cfg.App.Env))

	err = Serve(ctx, srv, ln, config.Dur(cfg.Server.ShutdownTimeout))
	log.Info("server stopped")
	return err
}
