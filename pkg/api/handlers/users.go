package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ymtools/ivrdir/internal/logger"
	"github.com/ymtools/ivrdir/pkg/directory"
	"github.com/ymtools/ivrdir/pkg/users"
)

// UserHandler serves the admin-only account management endpoints.
type UserHandler struct {
	users *users.Store
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(userStore *users.Store) *UserHandler {
	return &UserHandler{users: userStore}
}

// accountView is the API shape of an account. The password hash never
// leaves the server.
type accountView struct {
	ID           string         `json:"id"`
	DisplayName  string         `json:"displayName"`
	Role         directory.Role `json:"role"`
	GrantedPaths []string       `json:"grantedPaths"`
	CanUpload    bool           `json:"canUpload"`
	CanDelete    bool           `json:"canDelete"`
	CanDownload  bool           `json:"canDownload"`
}

func toView(a users.Account) accountView {
	return accountView{
		ID:           a.ID,
		DisplayName:  a.DisplayName,
		Role:         a.Role,
		GrantedPaths: a.GrantedPaths,
		CanUpload:    a.CanUpload,
		CanDelete:    a.CanDelete,
		CanDownload:  a.CanDownload,
	}
}

// List returns all accounts.
//
// GET /api/v1/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts := h.users.List()
	views := make([]accountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, toView(a))
	}
	WriteJSONOK(w, views)
}

type createUserRequest struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"displayName"`
	Password    string         `json:"password"`
	Role        directory.Role `json:"role"`
	CanUpload   bool           `json:"canUpload"`
	CanDelete   bool           `json:"canDelete"`
	CanDownload bool           `json:"canDownload"`
}

// Create adds a new account.
//
// POST /api/v1/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	account := users.Account{
		ID:          req.ID,
		DisplayName: req.DisplayName,
		Role:        req.Role,
		CanUpload:   req.CanUpload,
		CanDelete:   req.CanDelete,
		CanDownload: req.CanDownload,
	}

	err := h.users.Create(r.Context(), account, req.Password)
	switch {
	case errors.Is(err, users.ErrAlreadyExists):
		Conflict(w, "A user with this id already exists")
		return
	case err != nil:
		writeUserError(w, err)
		return
	}

	logger.Info("User %s created", req.ID)
	created, err := h.users.Get(req.ID)
	if err != nil {
		InternalServerError(w, "Failed to read created user")
		return
	}
	WriteJSONCreated(w, toView(created))
}

// Delete removes an account.
//
// DELETE /api/v1/users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.users.Delete(r.Context(), id); err != nil {
		writeUserError(w, err)
		return
	}
	logger.Info("User %s deleted", id)
	WriteNoContent(w)
}

type passwordRequest struct {
	Password string `json:"password"`
}

// SetPassword replaces an account's password.
//
// POST /api/v1/users/{id}/password
func (h *UserHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.users.SetPassword(r.Context(), id, req.Password); err != nil {
		writeUserError(w, err)
		return
	}
	WriteNoContent(w)
}

type permissionsRequest struct {
	CanUpload   bool `json:"canUpload"`
	CanDelete   bool `json:"canDelete"`
	CanDownload bool `json:"canDownload"`
}

// SetPermissions replaces an account's granular permission flags.
//
// PUT /api/v1/users/{id}/permissions
func (h *UserHandler) SetPermissions(w http.ResponseWriter, r *http.Request) {
	var req permissionsRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	err := h.users.SetPermissions(r.Context(), id, req.CanUpload, req.CanDelete, req.CanDownload)
	if err != nil {
		writeUserError(w, err)
		return
	}
	WriteNoContent(w)
}

type grantRequest struct {
	Path string `json:"path"`
}

// ToggleGrant flips one path grant on an account, like a checkbox in a
// permissions editor.
//
// POST /api/v1/users/{id}/grants/toggle
func (h *UserHandler) ToggleGrant(w http.ResponseWriter, r *http.Request) {
	var req grantRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.users.TogglePathGrant(r.Context(), id, req.Path); err != nil {
		writeUserError(w, err)
		return
	}

	account, err := h.users.Get(id)
	if err != nil {
		writeUserError(w, err)
		return
	}
	WriteJSONOK(w, toView(account))
}

func writeUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, users.ErrNotFound):
		NotFound(w, "User not found")
	default:
		var dirErr *directory.Error
		if errors.As(err, &dirErr) && dirErr.Code == directory.ErrInvalidArgument {
			BadRequest(w, dirErr.Message)
			return
		}
		logger.Error("User operation failed: %v", err)
		InternalServerError(w, "User operation failed")
	}
}
