// Package api provides the REST HTTP surface of the directory service.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ymtools/ivrdir/internal/logger"
	"github.com/ymtools/ivrdir/pkg/activity"
	"github.com/ymtools/ivrdir/pkg/api/auth"
	"github.com/ymtools/ivrdir/pkg/api/handlers"
	apimiddleware "github.com/ymtools/ivrdir/pkg/api/middleware"
	"github.com/ymtools/ivrdir/pkg/directory"
	"github.com/ymtools/ivrdir/pkg/metrics"
	"github.com/ymtools/ivrdir/pkg/users"
)

// RouterDeps carries everything the router wires into handlers.
type RouterDeps struct {
	Service    *directory.Service
	Users      *users.Store
	Activity   *activity.Log
	JWTService *auth.JWTService
}

// NewRouter creates and configures the chi router with all middleware
// and routes.
//
// Routes:
//   - GET /health - Liveness probe
//   - GET /health/ready - Readiness probe (remote credential state)
//   - GET /metrics - Prometheus metrics (when enabled)
//   - POST /api/v1/auth/login - User authentication
//   - GET /api/v1/auth/me - Current user info
//   - GET /api/v1/directory - Directory listing
//   - GET /api/v1/directory/search - Tree-wide search
//   - POST /api/v1/directory/upload - Multipart audio upload
//   - DELETE /api/v1/directory - Entry deletion
//   - PUT /api/v1/directory/metadata - Annotation override
//   - GET /api/v1/directory/download - Permission-checked download redirect
//   - GET /api/v1/directory/validate - Remote credential validation
//   - /api/v1/users/* - Account management (admin only)
//   - /api/v1/activity/* - Audit trail (admin only)
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Middleware stack - order matters
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	healthHandler := handlers.NewHealthHandler(deps.Service)
	r.Route("/health", func(r chi.Router) {
		r.Get("/", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
	})

	if metrics.IsEnabled() {
		r.Get("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP)
	}

	authHandler := handlers.NewAuthHandler(deps.Users, deps.JWTService)
	directoryHandler := handlers.NewDirectoryHandler(deps.Service, deps.Users, deps.Activity)
	userHandler := handlers.NewUserHandler(deps.Users)
	activityHandler := handlers.NewActivityHandler(deps.Activity)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)

		// Everything else needs a valid token
		r.Group(func(r chi.Router) {
			r.Use(apimiddleware.JWTAuth(deps.JWTService))

			r.Get("/auth/me", authHandler.Me)

			r.Route("/directory", func(r chi.Router) {
				r.Get("/", directoryHandler.List)
				r.Delete("/", directoryHandler.Delete)
				r.Get("/search", directoryHandler.Search)
				r.Post("/upload", directoryHandler.Upload)
				r.Put("/metadata", directoryHandler.SetMetadata)
				r.Get("/download", directoryHandler.Download)
				r.Get("/validate", directoryHandler.Validate)
			})

			// Admin-only surfaces
			r.Group(func(r chi.Router) {
				r.Use(apimiddleware.RequireAdmin())

				r.Route("/users", func(r chi.Router) {
					r.Get("/", userHandler.List)
					r.Post("/", userHandler.Create)
					r.Delete("/{id}", userHandler.Delete)
					r.Post("/{id}/password", userHandler.SetPassword)
					r.Put("/{id}/permissions", userHandler.SetPermissions)
					r.Post("/{id}/grants/toggle", userHandler.ToggleGrant)
				})

				r.Route("/activity", func(r chi.Router) {
					r.Get("/", activityHandler.List)
					r.Delete("/", activityHandler.Clear)
				})
			})
		})
	})

	return r
}

// isHealthPath returns true if the request path is a healthcheck endpoint.
func isHealthPath(path string) bool {
	return path == "/health" || strings.HasPrefix(path, "/health/")
}

// requestLogger logs each request with its status and duration.
// Healthcheck requests log at debug level to keep the output readable.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := chimiddleware.GetReqID(r.Context())

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		if isHealthPath(r.URL.Path) {
			logger.Debug("%s %s -> %d (%s) [%s]",
				r.Method, r.URL.Path, ww.Status(), time.Since(start), requestID)
			return
		}
		logger.Info("%s %s -> %d (%s) [%s]",
			r.Method, r.URL.Path, ww.Status(), time.Since(start), requestID)
	})
}
