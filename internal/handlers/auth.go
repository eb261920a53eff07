package handlers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/car-maintenance-tracker/internal/auth"
	"github.com/ukydev/car-maintenance-tracker/internal/metrics"
	"github.com/ukydev/car-maintenance-tracker/internal/models"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService *auth.Service
	metrics     *metrics.Metrics
	log         logrus.FieldLogger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *auth.Service, m *metrics.Metrics, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		metrics:     m,
		log:         log,
	}
}

// Login handles user login. An unreadable body is treated as missing
// credentials and simply fails to match.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq models.LoginRequest
	if err := decodeJSON(r, &loginReq); err != nil {
		loginReq = models.LoginRequest{}
	}

	resp, err := h.authService.Login(loginReq.Email, loginReq.Password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, r, h.log, err)
			return
		}
		h.metrics.LoginAttempt(false)
		h.log.Info("Rejected demo login")
		writeJSON(w, http.StatusBadRequest, models.AuthResponse{
			Success: false,
			Message: auth.MessageLoginFailed,
		})
		return
	}

	h.metrics.LoginAttempt(true)
	h.log.WithField("user_id", resp.User.ID).Info("Demo user logged in")
	writeJSON(w, http.StatusOK, resp)
}

// Logout always succeeds; there is no session to end.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.authService.Logout())
}

// Me returns the demo identity without looking at any token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.CurrentUserResponse{User: h.authService.CurrentUser()})
}
