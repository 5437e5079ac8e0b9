// Package router assembles the public API surface: the /api/v1 tree with its
// auth gates, plus the unauthenticated health and metrics endpoints.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/upcharify/admin-api/internal/appointments"
	"github.com/upcharify/admin-api/internal/auth"
	"github.com/upcharify/admin-api/internal/dashboard"
	"github.com/upcharify/admin-api/internal/doctors"
	"github.com/upcharify/admin-api/internal/hospitals"
	httpmiddleware "github.com/upcharify/admin-api/internal/http/middleware"
	"github.com/upcharify/admin-api/internal/observability/metrics"
	"github.com/upcharify/admin-api/internal/users"
	"github.com/upcharify/admin-api/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger *logging.Logger

	AuthHandler         *auth.Handler
	HospitalsHandler    *hospitals.Handler
	UsersHandler        *users.Handler
	DoctorsHandler      *doctors.Handler
	AppointmentsHandler *appointments.Handler
	DashboardHandler    *dashboard.Handler

	Metrics        *metrics.APIMetrics
	MetricsHandler http.Handler

	JWTSecret          string
	CORSAllowedOrigins []string

	// Requests per second and burst for the /auth endpoints.
	AuthRateLimit float64
	AuthRateBurst int
}

// adminRoles may manage hospital records; superAdminRoles get the full
// cross-tenant console.
var (
	adminRoles      = []string{users.RoleSuperAdmin, users.RoleAdmin, users.RoleHospitalAdmin}
	superAdminRoles = []string{users.RoleSuperAdmin, users.RoleAdmin}
)

// New creates the chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger, cfg.Metrics))
	}

	// Public endpoints.
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(api chi.Router) {
		if cfg.AuthHandler != nil {
			api.Group(func(pub chi.Router) {
				if cfg.AuthRateLimit > 0 {
					pub.Use(httpmiddleware.RateLimit(cfg.AuthRateLimit, cfg.AuthRateBurst))
				}
				pub.Mount("/auth", cfg.AuthHandler.Routes())
			})
		}

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.Auth(cfg.JWTSecret))
			admin.Use(httpmiddleware.RequireRole(adminRoles...))
			if cfg.HospitalsHandler != nil {
				admin.Mount("/hospital", cfg.HospitalsHandler.Routes())
			}
		})

		api.Route("/super-admin", func(super chi.Router) {
			super.Use(httpmiddleware.Auth(cfg.JWTSecret))
			super.Use(httpmiddleware.RequireRole(superAdminRoles...))
			if cfg.UsersHandler != nil {
				super.Mount("/users", cfg.UsersHandler.Routes())
			}
			if cfg.DoctorsHandler != nil {
				super.Mount("/doctors", cfg.DoctorsHandler.Routes())
			}
			if cfg.AppointmentsHandler != nil {
				super.Mount("/appointments", cfg.AppointmentsHandler.Routes())
			}
			if cfg.DashboardHandler != nil {
				super.Mount("/dashboard", cfg.DashboardHandler.Routes())
			}
		})
	})

	return r
}
