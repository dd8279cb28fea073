package handlers

import (
	"net/http"

	"github.com/ymtools/ivrdir/pkg/activity"
)

// ActivityHandler serves the admin-only audit trail endpoints.
type ActivityHandler struct {
	log *activity.Log
}

// NewActivityHandler creates an ActivityHandler.
func NewActivityHandler(log *activity.Log) *ActivityHandler {
	return &ActivityHandler{log: log}
}

// List returns the audit trail, newest first.
//
// GET /api/v1/activity
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	WriteJSONOK(w, h.log.Entries())
}

// Clear empties the audit trail.
//
// DELETE /api/v1/activity
func (h *ActivityHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.log.Clear(r.Context())
	WriteNoContent(w)
}
