package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/storefront/internal/session"
	"github.com/utafrali/storefront/internal/store"
	"github.com/utafrali/storefront/pkg/httputil"
)

// SessionHandler handles sign-in state.
type SessionHandler struct {
	sessions *session.Context
	sf       *store.Storefront
	logger   *slog.Logger
}

// NewSessionHandler creates a new session HTTP handler.
func NewSessionHandler(sessions *session.Context, sf *store.Storefront, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, sf: sf, logger: logger}
}

// LoginRequest is the JSON request body for signing in.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=200"`
	Password string `json:"password" validate:"required,max=200"`
}

// SessionResponse describes the current session.
type SessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"userId,omitempty"`
}

func (h *SessionHandler) state(r *http.Request) SessionResponse {
	uid, _ := h.sessions.CurrentUserID(r.Context())
	return SessionResponse{
		Authenticated: h.sessions.IsAuthenticated(r.Context()),
		UserID:        uid,
	}
}

// GetSession handles GET /api/v1/session
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.state(r))
}

// Login handles POST /api/v1/session
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decode(w, r, &req, h.logger) {
		return
	}

	if err := h.sessions.Login(r.Context(), req.Username, req.Password); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	// The signed-in user's cart replaces whatever was loaded before.
	h.sf.Cart.LoadCart(r.Context())

	httputil.WriteData(w, http.StatusOK, h.state(r))
}

// Logout handles DELETE /api/v1/session
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	h.sf.Cart.LoadCart(r.Context())

	w.WriteHeader(http.StatusNoContent)
}
