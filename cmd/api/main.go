package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	"github.com/upcharify/admin-api/internal/api/router"
	"github.com/upcharify/admin-api/internal/appointments"
	"github.com/upcharify/admin-api/internal/audit"
	"github.com/upcharify/admin-api/internal/auth"
	appconfig "github.com/upcharify/admin-api/internal/config"
	"github.com/upcharify/admin-api/internal/dashboard"
	"github.com/upcharify/admin-api/internal/doctors"
	"github.com/upcharify/admin-api/internal/hospitals"
	"github.com/upcharify/admin-api/internal/observability/metrics"
	"github.com/upcharify/admin-api/internal/querycache"
	"github.com/upcharify/admin-api/internal/users"
	"github.com/upcharify/admin-api/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting admin API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()
	db.SetMaxOpenConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)

	// Separate pgx pool for the audit trail.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open audit pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	rdb := redis.NewClient(redisOpts)
	defer func() { _ = rdb.Close() }()

	registry := prometheus.NewRegistry()
	apiMetrics := metrics.NewAPIMetrics(registry)
	tracer := otel.Tracer("admin-api")

	listCache := querycache.New(rdb, cfg.ListCacheTTL, tracer)
	dashCache := querycache.New(rdb, cfg.DashboardCacheTTL, tracer)
	recorder := audit.NewRecorder(pool, logger)
	tokenStore := auth.NewTokenStore(rdb, tracer)

	usersRepo := users.NewRepository(db)

	routerCfg := &router.Config{
		Logger: logger,
		AuthHandler: auth.NewHandler(auth.HandlerConfig{
			Users:      usersRepo,
			Tokens:     tokenStore,
			Logger:     logger,
			JWTSecret:  cfg.JWTSecret,
			AccessTTL:  cfg.AccessTokenTTL,
			RefreshTTL: cfg.RefreshTokenTTL,
			ResetTTL:   cfg.ResetTokenTTL,
		}),
		HospitalsHandler: hospitals.NewHandler(hospitals.HandlerConfig{
			Repo:         hospitals.NewRepository(db),
			Cache:        listCache,
			Audit:        recorder,
			Metrics:      apiMetrics,
			Logger:       logger,
			DefaultLimit: cfg.DefaultPageLimit,
		}),
		UsersHandler: users.NewHandler(users.HandlerConfig{
			Repo:         usersRepo,
			Cache:        listCache,
			Audit:        recorder,
			Metrics:      apiMetrics,
			Logger:       logger,
			DefaultLimit: cfg.DefaultPageLimit,
		}),
		DoctorsHandler: doctors.NewHandler(doctors.HandlerConfig{
			Repo:         doctors.NewRepository(db),
			Cache:        listCache,
			Audit:        recorder,
			Metrics:      apiMetrics,
			Logger:       logger,
			DefaultLimit: cfg.DefaultPageLimit,
		}),
		AppointmentsHandler: appointments.NewHandler(appointments.HandlerConfig{
			Repo:         appointments.NewRepository(db),
			Cache:        listCache,
			Audit:        recorder,
			Metrics:      apiMetrics,
			Logger:       logger,
			DefaultLimit: cfg.DefaultPageLimit,
		}),
		DashboardHandler: dashboard.NewHandler(dashboard.HandlerConfig{
			Repo:    dashboard.NewRepository(db),
			Cache:   dashCache,
			Audit:   recorder,
			Metrics: apiMetrics,
			Logger:  logger,
		}),
		Metrics:            apiMetrics,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		JWTSecret:          cfg.JWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		AuthRateLimit:      cfg.AuthRateLimit,
		AuthRateBurst:      cfg.AuthRateBurst,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
