package main

import (
	"context"
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
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/glidebook/glidebook/internal/api/router"
	"github.com/glidebook/glidebook/internal/app/bootstrap"
	"github.com/glidebook/glidebook/internal/booking"
	appconfig "github.com/glidebook/glidebook/internal/config"
	"github.com/glidebook/glidebook/internal/customer"
	"github.com/glidebook/glidebook/internal/media"
	"github.com/glidebook/glidebook/internal/observability/metrics"
	"github.com/glidebook/glidebook/internal/pricing"
	"github.com/glidebook/glidebook/internal/provider"
	"github.com/glidebook/glidebook/internal/servicearea"
	"github.com/glidebook/glidebook/pkg/logging"
)

func main() {
	// A missing .env file is fine outside local development.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting glidebook admin API",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	sqlDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = sqlDB.Close() }()

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	mirrorStore := bootstrap.BuildMirrorStore(redisClient)
	if mirrorStore == nil {
		logger.Warn("redis mirror disabled, serving from database only")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	bookingMetrics := metrics.NewBookingMetrics(registry)

	providerRepo := provider.NewRepository(pool)
	bookingRepo := booking.NewRepository(pool)
	bookingService := booking.NewService(bookingRepo, providerRepo, bookingMetrics, logger)
	bookingHandler := booking.NewHandler(bookingService, cfg.CalendarMaxVisible, logger)

	statsRepo := booking.NewStatsRepository(pool)
	statsHandler := booking.NewStatsHandler(statsRepo, registry, logger)

	providerHandler := provider.NewHandler(providerRepo, logger)

	var customerMirror customer.Mirror
	var pricingMirror pricing.Mirror
	if mirrorStore != nil {
		customerMirror = mirrorStore
		pricingMirror = mirrorStore
	}

	customerRepo := customer.NewRepository(sqlDB)
	customerHandler := customer.NewHandler(customerRepo, customerMirror, logger)

	pricingRepo := pricing.NewRepository(pool)
	pricingHandler := pricing.NewHandler(pricingRepo, pricingMirror, logger)

	serviceAreaHandler, err := buildServiceAreaHandler(cfg, pricingRepo, logger)
	if err != nil {
		logger.Error("failed to create geocoder", "error", err)
		os.Exit(1)
	}
	if serviceAreaHandler == nil {
		logger.Warn("geocoder not configured, service area resolution disabled")
	}

	mediaStore, err := bootstrap.BuildMediaStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build media store", "error", err)
		os.Exit(1)
	}
	if !mediaStore.Enabled() {
		logger.Warn("media storage not configured, image uploads disabled")
	}
	mediaHandler := media.NewHandler(mediaStore, logger)

	routerCfg := &router.Config{
		Logger: logger,

		BookingHandler:      bookingHandler,
		BookingStatsHandler: statsHandler,
		ProviderHandler:     providerHandler,
		CustomerHandler:     customerHandler,
		PricingHandler:      pricingHandler,
		ServiceAreaHandler:  serviceAreaHandler,
		MediaHandler:        mediaHandler,

		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if redisClient != nil {
		_ = redisClient.Close()
	}

	logger.Info("server stopped")
}

// buildServiceAreaHandler returns nil without error when no geocoder is
// configured; the resolve endpoint is simply not mounted.
func buildServiceAreaHandler(cfg *appconfig.Config, store servicearea.LocationStore, logger *logging.Logger) (*servicearea.Handler, error) {
	if cfg.GeocoderBaseURL == "" {
		return nil, nil
	}
	geocoder, err := servicearea.NewGeocoder(servicearea.GeocoderConfig{
		BaseURL: cfg.GeocoderBaseURL,
		APIKey:  cfg.GeocoderAPIKey,
		Timeout: cfg.GeocoderTimeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	return servicearea.NewHandler(geocoder, store, logger), nil
}
