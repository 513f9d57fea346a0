package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/groupledger/internal/auth"
	"github.com/mmynk/groupledger/internal/cache"
	"github.com/mmynk/groupledger/internal/config"
	"github.com/mmynk/groupledger/internal/metrics"
	"github.com/mmynk/groupledger/internal/middleware"
	"github.com/mmynk/groupledger/internal/service"
	"github.com/mmynk/groupledger/internal/storage/sqlite"
	"github.com/mmynk/groupledger/pkg/api/apiconnect"
)

func serveCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Starts the Connect API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	if cfg.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required to serve")
	}
	jwtManager, err := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration)
	if err != nil {
		return err
	}

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.Database.Path)

	m := metrics.New()
	reportCache, closeCache, err := newReportCache(ctx, cfg, m)
	if err != nil {
		return err
	}
	defer closeCache()

	reports := service.NewReports(store,
		service.WithCache(reportCache),
		service.WithMetrics(m),
		service.WithRecentLimit(cfg.Analytics.RecentLimit),
		service.WithConcurrency(cfg.Analytics.Concurrency),
	)

	authed := connect.WithInterceptors(middleware.RequireAuth(jwtManager), middleware.LoggingInterceptor())
	open := connect.WithInterceptors(middleware.OptionalAuth(jwtManager), middleware.LoggingInterceptor())

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewLedgerServiceHandler(service.NewLedgerService(), open))
	mux.Handle(apiconnect.NewGroupServiceHandler(service.NewGroupService(store, reports), authed))
	mux.Handle(apiconnect.NewExpenseServiceHandler(service.NewExpenseService(store, reports), authed))
	if cfg.HTTP.MetricsPath != "" {
		mux.Handle(cfg.HTTP.MetricsPath, m.Handler())
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// h2c serves HTTP/2 without TLS, which Connect streaming clients need.
	handler := h2c.NewHandler(loggingMiddleware(corsMiddleware(mux)), &http2.Server{})

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Connect server starting", "address", cfg.HTTP.Addr, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Stopping server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newReportCache builds the configured report cache and returns a func that
// releases it.
func newReportCache(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (cache.Cache[service.GroupReport], func(), error) {
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.Noop[service.GroupReport]{}, func() {}, nil

	case config.CacheRedis:
		rc, err := cache.NewRedisCache[service.GroupReport](ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPrefix, cfg.Cache.TTL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect report cache: %w", err)
		}
		slog.Info("Report cache ready", "backend", "redis", "addr", cfg.Cache.RedisAddr)
		return rc, func() { _ = rc.Close() }, nil

	default:
		lru := cache.NewLRUCache[service.GroupReport](cfg.Cache.Size, cfg.Cache.TTL)
		manager := cache.NewManager()
		manager.Register(lru)
		if cfg.Cache.TTL > 0 && cfg.Cache.CleanupInterval > 0 {
			manager.StartCleanup(cfg.Cache.CleanupInterval, func(removed int) {
				m.CacheExpired(removed)
				slog.Debug("Report cache swept", "removed", removed)
			})
		}
		slog.Info("Report cache ready", "backend", "memory", "size", cfg.Cache.Size, "ttl", cfg.Cache.TTL)
		return lru, manager.Stop, nil
	}
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
