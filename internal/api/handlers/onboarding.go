package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Harshitk-cp/menugate/internal/api/middleware"
	"github.com/Harshitk-cp/menugate/internal/domain"
	"github.com/Harshitk-cp/menugate/internal/service"
	"github.com/Harshitk-cp/menugate/internal/session"
	"go.uber.org/zap"
)

type OnboardingHandler struct {
	onboarding *service.OnboardingService
	sessions   *service.SessionService
	provider   *session.Provider
	logger     *zap.Logger
}

func NewOnboardingHandler(onboarding *service.OnboardingService, sessions *service.SessionService, provider *session.Provider, logger *zap.Logger) *OnboardingHandler {
	return &OnboardingHandler{onboarding: onboarding, sessions: sessions, provider: provider, logger: logger}
}

type onboardingResponse struct {
	Tenant     *domain.Tenant     `json:"tenant"`
	Membership *domain.Membership `json:"membership"`
	Token      string             `json:"token,omitempty"`
	ExpiresAt  *time.Time         `json:"expires_at,omitempty"`
}

type validationResponse struct {
	Error  string               `json:"error"`
	Fields []service.FieldError `json:"fields"`
}

// Create onboards a tenant for the caller and reissues their session so the
// new membership is visible to admission right away.
func (h *OnboardingHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req service.OnboardingInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tenant, membership, err := h.onboarding.Onboard(r.Context(), sess.UserID, req)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, validationResponse{Error: "invalid form data", Fields: verr.Fields})
		case errors.Is(err, service.ErrSlugTaken):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrSlugReserved):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			h.logger.Error("onboarding failed", zap.String("user_id", sess.UserID.String()), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to create business")
		}
		return
	}

	resp := onboardingResponse{Tenant: tenant, Membership: membership}
	issued, err := h.sessions.Refresh(r.Context(), sess.UserID)
	if err != nil {
		// The tenant exists; the client can still refresh its session later.
		h.logger.Warn("session refresh after onboarding failed",
			zap.String("user_id", sess.UserID.String()),
			zap.String("tenant_id", tenant.ID.String()),
			zap.Error(err),
		)
	} else {
		h.provider.SetCookie(w, issued.Token, issued.ExpiresAt)
		resp.Token = issued.Token
		resp.ExpiresAt = &issued.ExpiresAt
	}

	writeJSON(w, http.StatusCreated, resp)
}
