package handlers

import (
	"net/http"
	"time"

	"github.com/ymtools/ivrdir/pkg/directory"
)

// HealthHandler serves the unauthenticated health probes.
type HealthHandler struct {
	service *directory.Service
}

// NewHealthHandler creates a HealthHandler. The service may be nil for
// liveness-only deployments.
func NewHealthHandler(service *directory.Service) *HealthHandler {
	return &HealthHandler{service: service}
}

// Liveness reports that the process is up.
//
// GET /health
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	WriteJSONOK(w, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

// Readiness reports whether the service can answer directory requests.
// The baseline always can, so this only degrades to "degraded" when a
// remote source is configured but its credential fails; listings still
// work through the fallback, hence 200 rather than 503.
//
// GET /health/ready
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	remote := "not_configured"

	if h.service != nil && h.service.RemoteConfigured() {
		if h.service.ValidateCredential(r.Context()) {
			remote = "ok"
		} else {
			remote = "unreachable"
			status = "degraded"
		}
	}

	WriteJSONOK(w, map[string]any{
		"status":    status,
		"remote":    remote,
		"timestamp": time.Now().UTC(),
	})
}
