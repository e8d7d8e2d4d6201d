package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/healthcare-portal/cmd/mainconfig"
	"github.com/wolfman30/healthcare-portal/internal/api/router"
	"github.com/wolfman30/healthcare-portal/internal/app/bootstrap"
	"github.com/wolfman30/healthcare-portal/internal/appointments"
	appconfig "github.com/wolfman30/healthcare-portal/internal/config"
	"github.com/wolfman30/healthcare-portal/internal/dashboard"
	"github.com/wolfman30/healthcare-portal/internal/directory"
	"github.com/wolfman30/healthcare-portal/internal/healthmetrics"
	"github.com/wolfman30/healthcare-portal/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/healthcare-portal/internal/http/middleware"
	"github.com/wolfman30/healthcare-portal/internal/observability/metrics"
	"github.com/wolfman30/healthcare-portal/internal/prescriptions"
	"github.com/wolfman30/healthcare-portal/internal/profiles"
	"github.com/wolfman30/healthcare-portal/internal/scheduling"
	"github.com/wolfman30/healthcare-portal/internal/visits"
	"github.com/wolfman30/healthcare-portal/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting healthcare-portal API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"timezone", cfg.AppTimezone,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("api server failed", "error", err)
		os.Exit(1)
	}
	fmt.Println("Server exited gracefully")
}

func run(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) error {
	if cfg.JWTSecret == "" && cfg.CognitoUserPoolID == "" {
		return errors.New("JWT_SECRET or COGNITO_USER_POOL_ID is required")
	}

	pool, err := bootstrap.BuildPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	sqlDB, err := bootstrap.BuildSQLDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient == nil {
		return fmt.Errorf("redis unavailable at %q", cfg.RedisAddr)
	}
	defer func() { _ = redisClient.Close() }()

	var awsCfg *aws.Config
	if needsAWS(cfg) {
		loaded, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return fmt.Errorf("load AWS config: %w", err)
		}
		awsCfg = &loaded
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	portalMetrics := metrics.NewPortalMetrics(registry)

	loc := cfg.Location()
	assistant := scheduling.NewAssistant(loc, nil)

	sender := bootstrap.BuildEmailSender(cfg, awsCfg, logger)
	dispatcher, waitDispatch, err := bootstrap.BuildDispatcher(cfg, awsCfg, sender, portalMetrics, logger)
	if err != nil {
		return err
	}

	// Repositories and services
	profileRepo := profiles.NewRepository(sqlDB)
	visitRepo := visits.NewRepository(sqlDB)
	directoryStore := directory.NewStore(redisClient)
	metricsService := healthmetrics.NewService(healthmetrics.NewPostgresRepository(pool), loc, portalMetrics, logger)
	appointmentService := appointments.NewService(
		appointments.NewPostgresRepository(pool),
		directoryStore,
		assistant,
		logger,
		appointments.WithDispatcher(dispatcher),
		appointments.WithPatientNamer(profileRepo),
		appointments.WithObserver(portalMetrics),
	)
	dashboardService := dashboard.NewService(profileRepo, appointmentService, metricsService, visitRepo, cfg.DashboardMetricLimit, logger)

	// Setup router
	r := router.New(&router.Config{
		Logger: logger,
		Health: handlers.NewHealthHandler(map[string]handlers.Pinger{
			"postgres": handlers.PingFunc(pool.Ping),
			"redis":    handlers.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }),
		}, logger),
		Profiles:       profiles.NewHandler(profileRepo, loc, logger),
		Metrics:        healthmetrics.NewHandler(metricsService, logger),
		Directory:      directory.NewHandler(directoryStore, loc, logger),
		Appointments:   appointments.NewHandler(appointmentService, logger),
		Visits:         visits.NewHandler(visitRepo, loc, logger),
		Prescriptions:  prescriptions.NewHandler(prescriptions.NewRepository(pool), bootstrap.BuildFileStore(cfg, awsCfg, logger), loc, logger),
		Dashboard:      dashboard.NewHandler(dashboardService, logger),
		PortalMetrics:  portalMetrics,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		JWTSecret:      cfg.JWTSecret,
		Cognito: httpmiddleware.CognitoConfig{
			Region:     cfg.CognitoRegion,
			UserPoolID: cfg.CognitoUserPoolID,
			ClientID:   cfg.CognitoClientID,
		},
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
		RateLimitCtx:       ctx,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "email_provider", sender.Provider())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	waitDispatch()

	logger.Info("server stopped")
	return nil
}

// needsAWS reports whether any configured feature talks to AWS.
func needsAWS(cfg *appconfig.Config) bool {
	return cfg.EmailProvider == "ses" || cfg.NotifyQueueURL != "" || cfg.PrescriptionBucket != ""
}
