package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/menugate/internal/admission"
	"github.com/Harshitk-cp/menugate/internal/api/middleware"
	"github.com/Harshitk-cp/menugate/internal/domain"
	"go.uber.org/zap"
)

// PageHandler renders admitted pages as JSON descriptors. Everything it shows
// comes from the verdict the admission middleware placed in context; it never
// serves without one and never goes back to the tenant store.
type PageHandler struct {
	logger *zap.Logger
}

func NewPageHandler(logger *zap.Logger) *PageHandler {
	return &PageHandler{logger: logger}
}

type tenantView struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
}

type pageResponse struct {
	Page      string        `json:"page"`
	Locale    domain.Locale `json:"locale"`
	Path      string        `json:"path"`
	Subdomain bool          `json:"subdomain"`
	Tenant    *tenantView   `json:"tenant,omitempty"`
	Role      domain.Role   `json:"role,omitempty"`
}

func (h *PageHandler) Serve(w http.ResponseWriter, r *http.Request) {
	v := middleware.VerdictFromContext(r.Context())
	if v == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if v.Route.Kind == admission.RouteTenantScoped && v.Tenant == nil {
		h.logger.Error("tenant page admitted without a tenant", zap.String("path", r.URL.Path))
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	resp := pageResponse{
		Page:      pageName(v.Route),
		Locale:    v.Locale,
		Path:      r.URL.Path,
		Subdomain: v.Subdomain,
		Role:      v.Role,
	}
	if t := v.Tenant; t != nil {
		resp.Tenant = &tenantView{
			Slug:        t.Slug,
			Name:        t.Name,
			Address:     t.Address,
			PhoneNumber: t.PhoneNumber,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func pageName(c admission.Classification) string {
	if c.Kind != admission.RouteTenantScoped {
		return c.Kind.String()
	}
	if c.Private {
		return "tenant_admin"
	}
	return "tenant_public"
}
