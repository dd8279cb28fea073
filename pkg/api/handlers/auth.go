package handlers

import (
	"errors"
	"net/http"

	"github.com/ymtools/ivrdir/internal/logger"
	"github.com/ymtools/ivrdir/pkg/api/auth"
	"github.com/ymtools/ivrdir/pkg/api/middleware"
	"github.com/ymtools/ivrdir/pkg/directory"
	"github.com/ymtools/ivrdir/pkg/users"
)

// AuthHandler serves login and current-user endpoints.
type AuthHandler struct {
	users      *users.Store
	jwtService *auth.JWTService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(userStore *users.Store, jwtService *auth.JWTService) *AuthHandler {
	return &AuthHandler{users: userStore, jwtService: jwtService}
}

type loginRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token *auth.Token    `json:"token"`
	User  directory.User `json:"user"`
}

// Login authenticates an id/password pair and returns a signed token.
//
// POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.ID == "" || req.Password == "" {
		BadRequest(w, "id and password are required")
		return
	}

	user, err := h.users.Authenticate(req.ID, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			logger.Info("Failed login attempt for id %s", req.ID)
			Unauthorized(w, "Invalid id or password")
			return
		}
		InternalServerError(w, "Login failed")
		return
	}

	token, err := h.jwtService.Generate(user)
	if err != nil {
		logger.Error("Failed to sign token for user %s: %v", user.ID, err)
		InternalServerError(w, "Login failed")
		return
	}

	logger.Info("User %s logged in", user.ID)
	WriteJSONOK(w, loginResponse{Token: token, User: user})
}

// Me returns the authenticated user's current account state, including
// grants changed since the token was issued.
//
// GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.users)
	if !ok {
		return
	}
	WriteJSONOK(w, user)
}

// currentUser resolves the authenticated account from the request
// claims. The account is re-read from the store so revoked users and
// changed grants take effect immediately. Writes the error response and
// returns ok=false when resolution fails.
func currentUser(w http.ResponseWriter, r *http.Request, store *users.Store) (directory.User, bool) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		Unauthorized(w, "Authentication required")
		return directory.User{}, false
	}

	account, err := store.Get(claims.UserID)
	if err != nil {
		Unauthorized(w, "Account no longer exists")
		return directory.User{}, false
	}
	return account.User(), true
}
