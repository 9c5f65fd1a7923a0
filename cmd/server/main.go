package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/AnshRaj112/mindtrack/internal/config"
	"github.com/AnshRaj112/mindtrack/internal/database"
	"github.com/AnshRaj112/mindtrack/internal/handlers"
	"github.com/AnshRaj112/mindtrack/internal/logger"
	"github.com/AnshRaj112/mindtrack/internal/metrics"
	"github.com/AnshRaj112/mindtrack/internal/middleware"
	"github.com/AnshRaj112/mindtrack/internal/routes"
	"github.com/AnshRaj112/mindtrack/internal/services"
)

func main() {
	// Load env
	envErr := godotenv.Load()
	cfg := config.Load()

	zlog, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()
	if envErr != nil {
		zlog.Debug("No .env file found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL
	zlog.Info("Connecting to PostgreSQL...")
	db, err := database.ConnectPostgres(ctx, cfg.PostgresURI)
	if err != nil {
		zlog.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer database.DisconnectPostgres()
	zlog.Info("Connected to PostgreSQL, tables initialized")

	if cfg.SeedSampleData {
		entries, contacts, err := database.SeedSampleData(ctx, db)
		if err != nil {
			zlog.Warn("Sample data seeding failed", zap.Error(err))
		} else {
			zlog.Info("Sample data seeded", zap.Int("entries", entries), zap.Int("contacts", contacts))
		}
	}

	// Redis is optional: without it lists are not cached and only the in-process limiter runs
	redisClient, err := database.ConnectRedis(ctx, cfg.RedisURI)
	if err != nil {
		zlog.Warn("Redis unavailable, continuing without cache", zap.Error(err))
		redisClient = nil
	} else if redisClient != nil {
		zlog.Info("Connected to Redis")
		defer database.DisconnectRedis()
	}

	cache := services.NewCacheService(redisClient, cfg.CacheTTL)
	collector := metrics.NewCollector("mindtrack")

	handlers.InitServices(
		services.NewJournalService(db, cache),
		services.NewContactService(db, cache),
		services.NewHealthService(db),
		handlers.Options{
			Logger:       zlog,
			Metrics:      collector,
			Version:      cfg.Version,
			Environment:  cfg.Environment,
			ExposeErrors: !cfg.IsProduction(),
		},
	)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logger(zlog))
	r.Use(middleware.Metrics(collector))
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity(ctx.Done()) {
			r.Use(mw)
		}
		r.Use(middleware.NewWriteRateLimit(ctx.Done()))
		zlog.Info("Production security enabled (security headers, per-IP and write rate limiting)")
	}
	r.Use(middleware.RateLimit(redisClient, middleware.RateLimitMaxRequests, middleware.RateLimitWindow))

	routes.SetupRoutes(r, collector)
	zlog.Info("Registered routes", zap.Strings("endpoints", routes.AvailableEndpoints))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		zlog.Info("MindTrack backend running", zap.String("addr", srv.Addr), zap.String("env", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Graceful shutdown failed", zap.Error(err))
	}
}
