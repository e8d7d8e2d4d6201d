package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/healthcare-portal/internal/appointments"
	"github.com/wolfman30/healthcare-portal/internal/dashboard"
	"github.com/wolfman30/healthcare-portal/internal/directory"
	"github.com/wolfman30/healthcare-portal/internal/healthmetrics"
	"github.com/wolfman30/healthcare-portal/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/healthcare-portal/internal/http/middleware"
	"github.com/wolfman30/healthcare-portal/internal/observability/metrics"
	"github.com/wolfman30/healthcare-portal/internal/prescriptions"
	"github.com/wolfman30/healthcare-portal/internal/profiles"
	"github.com/wolfman30/healthcare-portal/internal/visits"
	"github.com/wolfman30/healthcare-portal/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger *logging.Logger

	Health        *handlers.HealthHandler
	Profiles      *profiles.Handler
	Metrics       *healthmetrics.Handler
	Directory     *directory.Handler
	Appointments  *appointments.Handler
	Visits        *visits.Handler
	Prescriptions *prescriptions.Handler
	Dashboard     *dashboard.Handler

	PortalMetrics  *metrics.PortalMetrics
	MetricsHandler http.Handler

	JWTSecret          string
	Cognito            httpmiddleware.CognitoConfig
	CORSAllowedOrigins []string

	// RateLimitRPS <= 0 disables rate limiting. RateLimitCtx stops the
	// limiter's idle sweep.
	RateLimitRPS   float64
	RateLimitBurst int
	RateLimitCtx   context.Context
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	r.Use(cfg.PortalMetrics.Middleware)
	if cfg.RateLimitRPS > 0 {
		ctx := cfg.RateLimitCtx
		if ctx == nil {
			ctx = context.Background()
		}
		r.Use(httpmiddleware.RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		if cfg.Health != nil {
			public.Get("/health", cfg.Health.HealthCheck)
		} else {
			public.Get("/health", handlers.NewHealthHandler(nil, cfg.Logger).HealthCheck)
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Patient routes (bearer JWT)
	r.Route("/api", func(api chi.Router) {
		api.Use(httpmiddleware.PatientAuth(cfg.Cognito, cfg.JWTSecret))

		if cfg.Profiles != nil {
			api.Get("/profile", cfg.Profiles.Get)
			api.Put("/profile", cfg.Profiles.Update)
		}
		if cfg.Metrics != nil {
			api.Route("/metrics", func(m chi.Router) {
				m.Get("/", cfg.Metrics.List)
				m.Post("/", cfg.Metrics.Create)
				m.Get("/advisories", cfg.Metrics.Advisories)
				m.Delete("/{metricID}", cfg.Metrics.Delete)
			})
		}
		if cfg.Directory != nil {
			api.Get("/hospitals", cfg.Directory.ListHospitals)
			api.Get("/hospitals/{hospitalID}/doctors", cfg.Directory.ListDoctors)
		}
		if cfg.Appointments != nil {
			api.Route("/appointments", func(a chi.Router) {
				a.Get("/", cfg.Appointments.List)
				a.Post("/", cfg.Appointments.Book)
				a.Get("/slots", cfg.Appointments.Slots)
				a.Post("/{appointmentID}/cancel", cfg.Appointments.Cancel)
			})
		}
		if cfg.Visits != nil {
			api.Route("/visits", func(v chi.Router) {
				v.Get("/", cfg.Visits.List)
				v.Post("/", cfg.Visits.Create)
				v.Get("/{visitID}", cfg.Visits.Get)
				v.Put("/{visitID}", cfg.Visits.Update)
				v.Delete("/{visitID}", cfg.Visits.Delete)
			})
		}
		if cfg.Prescriptions != nil {
			api.Route("/prescriptions", func(p chi.Router) {
				p.Get("/", cfg.Prescriptions.List)
				p.Post("/", cfg.Prescriptions.Create)
				p.Get("/{prescriptionID}", cfg.Prescriptions.Get)
				p.Delete("/{prescriptionID}", cfg.Prescriptions.Delete)
				p.Put("/{prescriptionID}/file", cfg.Prescriptions.UploadFile)
				p.Get("/{prescriptionID}/download", cfg.Prescriptions.Download)
			})
		}
		if cfg.Dashboard != nil {
			api.Get("/dashboard", cfg.Dashboard.Get)
		}
	})

	return r
}
