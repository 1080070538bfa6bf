// Command contactd runs the contacts API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/contactd/contactd/internal/adapter/cloudinary"
	cdhttp "github.com/contactd/contactd/internal/adapter/http"
	"github.com/contactd/contactd/internal/adapter/postgres"
	redisadapter "github.com/contactd/contactd/internal/adapter/redis"
	"github.com/contactd/contactd/internal/adapter/ristretto"
	"github.com/contactd/contactd/internal/adapter/smtp"
	"github.com/contactd/contactd/internal/cache"
	"github.com/contactd/contactd/internal/config"
	"github.com/contactd/contactd/internal/logger"
	"github.com/contactd/contactd/internal/middleware"
	cacheport "github.com/contactd/contactd/internal/port/cache"
	"github.com/contactd/contactd/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	slog.SetDefault(logger.New(cfg.Logging))
	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"cache_backend", cfg.Cache.Backend,
		"log_level", cfg.Logging.Level,
	)

	ctx := context.Background()

	// --- Infrastructure ---

	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	slog.Info("postgres connected")

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	slog.Info("migrations applied")

	// Cache backend. The redis client is created without a startup ping:
	// an unreachable cache must not prevent the API from serving.
	var backend cacheport.Cache
	var cachePing func(ctx context.Context) error
	switch cfg.Cache.Backend {
	case "redis":
		rdb := redisadapter.New(cfg.Redis)
		defer func() { _ = rdb.Close() }()
		backend = rdb
		cachePing = rdb.Ping
		slog.Info("redis cache backend", "addr", cfg.Redis.Addr)
	case "memory":
		mem, err := ristretto.New(cfg.Cache.MemoryMaxSizeMB << 20)
		if err != nil {
			return fmt.Errorf("memory cache: %w", err)
		}
		defer mem.Close()
		backend = mem
		slog.Info("in-process cache backend", "max_size_mb", cfg.Cache.MemoryMaxSizeMB)
	}

	rc := cache.NewResponseCache(backend, cfg.Cache.DefaultTTL)

	// --- Services ---

	store := postgres.NewStore(pool)
	mailer := smtp.New(cfg.Mail)
	uploader := cloudinary.New(cfg.Cloudinary)

	handlers := &cdhttp.Handlers{
		Auth:     service.NewAuthService(store, mailer, rc, &cfg.Auth, cfg.Server.BaseURL),
		Users:    service.NewUserService(store, uploader, rc),
		Contacts: service.NewContactService(store, rc),
	}

	// --- HTTP ---

	rl := middleware.NewRateLimiter(cfg.Rate.RequestsPerMinute, cfg.Rate.Burst)
	stopCleanup := rl.StartCleanup(time.Minute, 10*time.Minute)
	defer stopCleanup()

	health := &cdhttp.HealthHandler{DBPing: pool.Ping, CachePing: cachePing}

	r := chi.NewRouter()
	r.Use(cdhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(middleware.RequestID)
	r.Use(cdhttp.Logger)
	r.Use(cdhttp.SecurityHeaders)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	cdhttp.MountRoutes(r, handlers, cfg, rc, rl, health)

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
