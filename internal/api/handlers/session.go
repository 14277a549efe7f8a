package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/menugate/internal/api/middleware"
	"github.com/Harshitk-cp/menugate/internal/service"
	"github.com/Harshitk-cp/menugate/internal/session"
	"go.uber.org/zap"
)

type SessionHandler struct {
	svc      *service.SessionService
	provider *session.Provider
	logger   *zap.Logger
}

func NewSessionHandler(svc *service.SessionService, provider *session.Provider, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{svc: svc, provider: provider, logger: logger}
}

// Refresh reissues the caller's token with their current memberships.
func (h *SessionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	issued, err := h.svc.Refresh(r.Context(), sess.UserID)
	if err != nil {
		h.logger.Error("session refresh failed", zap.String("user_id", sess.UserID.String()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to refresh session")
		return
	}

	h.provider.SetCookie(w, issued.Token, issued.ExpiresAt)
	writeJSON(w, http.StatusOK, issued)
}
