package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/ymtools/ivrdir/internal/logger"
	"github.com/ymtools/ivrdir/pkg/activity"
	"github.com/ymtools/ivrdir/pkg/directory"
	"github.com/ymtools/ivrdir/pkg/ivrpath"
	"github.com/ymtools/ivrdir/pkg/users"
)

// maxUploadBytes caps multipart uploads. The IVR system handles audio
// prompts, not large media; 50 MB covers even long shiurim.
const maxUploadBytes = 50 << 20

// DirectoryHandler serves the directory tree endpoints: listing,
// search, upload, delete, metadata and download.
type DirectoryHandler struct {
	service  *directory.Service
	users    *users.Store
	activity *activity.Log
}

// NewDirectoryHandler creates a DirectoryHandler.
func NewDirectoryHandler(service *directory.Service, userStore *users.Store, log *activity.Log) *DirectoryHandler {
	return &DirectoryHandler{service: service, users: userStore, activity: log}
}

// List returns the entries the user may see under ?path=. The root is
// the empty path.
//
// GET /api/v1/directory?path=1/2
func (h *DirectoryHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.users)
	if !ok {
		return
	}

	path := r.URL.Query().Get("path")
	entries, err := h.service.List(r.Context(), path, user)
	if err != nil {
		writeDirectoryError(w, err)
		return
	}

	WriteJSONOK(w, map[string]any{
		"path":    path,
		"entries": entries,
	})
}

// Search returns entries matching ?q= across the whole visible tree.
//
// GET /api/v1/directory/search?q=shiur
func (h *DirectoryHandler) Search(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.users)
	if !ok {
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		BadRequest(w, "q is required")
		return
	}

	results, err := h.service.Search(r.Context(), query, user)
	if err != nil {
		writeDirectoryError(w, err)
		return
	}

	WriteJSONOK(w, map[string]any{
		"query":   query,
		"results": results,
	})
}

// Upload accepts a multipart audio upload into the folder given by the
// "path" form field. The stored name is assigned by the service, not
// the client.
//
// POST /api/v1/directory/upload
func (h *DirectoryHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.users)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		BadRequest(w, "Invalid multipart body")
		return
	}

	path := r.FormValue("path")
	file, header, err := r.FormFile("file")
	if err != nil {
		BadRequest(w, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		InternalServerError(w, "Failed to read upload")
		return
	}

	// Sibling names drive the sequential naming scheme; only what the
	// uploading user can see counts, matching the directory view the
	// upload came from.
	siblings, err := h.service.List(r.Context(), path, user)
	if err != nil {
		writeDirectoryError(w, err)
		return
	}

	entry, err := h.service.Upload(r.Context(), path, data, header.Filename, siblings, user)
	if err != nil {
		writeDirectoryError(w, err)
		return
	}

	h.activity.Record(r.Context(), user.ID, entry.Name, entry.Path, activity.ActionUpload)
	WriteJSONCreated(w, entry)
}

// Delete masks the entry at ?path=. Repeating the request is harmless.
//
// DELETE /api/v1/directory?path=1/001.wav
func (h *DirectoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.users)
	if !ok {
		return
	}

	path := r.URL.Query().Get("path")
	if path == "" {
		BadRequest(w, "path is required")
		return
	}

	if err := h.service.Delete(r.Context(), path, user); err != nil {
		writeDirectoryError(w, err)
		return
	}

	h.activity.Record(r.Context(), user.ID, ivrpath.Base(path), path, activity.ActionDelete)
	WriteNoContent(w)
}

type metadataRequest struct {
	Path string `json:"path"`
	Text string `json:"text"`
}

// SetMetadata stores a free-text annotation for a path. An empty text
// removes the annotation.
//
// PUT /api/v1/directory/metadata
func (h *DirectoryHandler) SetMetadata(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r, h.users); !ok {
		return
	}

	var req metadataRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Path == "" {
		BadRequest(w, "path is required")
		return
	}

	h.service.SetMetadata(r.Context(), req.Path, req.Text)
	WriteNoContent(w)
}

// Download checks the download permission, records the access, and
// redirects to the entry's content URL. The entry is located by listing
// its parent so visibility rules apply.
//
// GET /api/v1/directory/download?path=1/001.wav
func (h *DirectoryHandler) Download(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.users)
	if !ok {
		return
	}
	if !directory.CanDownload(user) {
		Forbidden(w, "User may not download files")
		return
	}

	path := r.URL.Query().Get("path")
	if path == "" {
		BadRequest(w, "path is required")
		return
	}

	entries, err := h.service.List(r.Context(), ivrpath.Parent(path), user)
	if err != nil {
		writeDirectoryError(w, err)
		return
	}

	for _, e := range entries {
		if e.Path != path {
			continue
		}
		if e.Kind == directory.KindFolder {
			BadRequest(w, "Cannot download a folder")
			return
		}
		if e.ContentURL == "" {
			NotFound(w, "Entry has no downloadable content")
			return
		}
		h.activity.Record(r.Context(), user.ID, e.Name, e.Path, activity.ActionDownload)
		http.Redirect(w, r, e.ContentURL, http.StatusFound)
		return
	}

	NotFound(w, "Entry not found")
}

// Validate reports whether a remote directory source is configured and
// whether its credential currently works.
//
// GET /api/v1/directory/validate
func (h *DirectoryHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r, h.users); !ok {
		return
	}

	configured := h.service.RemoteConfigured()
	valid := false
	if configured {
		valid = h.service.ValidateCredential(r.Context())
	}

	WriteJSONOK(w, map[string]bool{
		"remoteConfigured": configured,
		"credentialValid":  valid,
	})
}

// writeDirectoryError maps the service error taxonomy onto HTTP status
// codes.
func writeDirectoryError(w http.ResponseWriter, err error) {
	var dirErr *directory.Error
	if !errors.As(err, &dirErr) {
		logger.Error("Directory operation failed: %v", err)
		InternalServerError(w, "Directory operation failed")
		return
	}

	switch dirErr.Code {
	case directory.ErrPermissionDenied:
		Forbidden(w, dirErr.Message)
	case directory.ErrInvalidArgument:
		BadRequest(w, dirErr.Message)
	case directory.ErrUnauthorized:
		Unauthorized(w, dirErr.Message)
	case directory.ErrRemoteUnavailable, directory.ErrRemoteRejected:
		WriteProblem(w, http.StatusBadGateway, "Bad Gateway", dirErr.Message)
	default:
		InternalServerError(w, dirErr.Message)
	}
}
