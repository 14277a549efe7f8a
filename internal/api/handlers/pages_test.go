package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Harshitk-cp/menugate/internal/admission"
	"github.com/Harshitk-cp/menugate/internal/api/middleware"
	"github.com/Harshitk-cp/menugate/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func servePage(path string, v *admission.Verdict) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if v != nil {
		req = req.WithContext(middleware.WithVerdict(req.Context(), v))
	}
	w := httptest.NewRecorder()
	NewPageHandler(zap.NewNop()).Serve(w, req)
	return w
}

func TestPageHandler_RequiresVerdict(t *testing.T) {
	w := servePage("/en/pricing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPageHandler_PlatformPage(t *testing.T) {
	v := &admission.Verdict{Kind: admission.KindPassThrough, Locale: "ar", Route: admission.Classification{Kind: admission.RoutePublic}}

	w := servePage("/ar/pricing", v)

	require.Equal(t, http.StatusOK, w.Code)
	var body pageResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "public", body.Page)
	assert.Equal(t, domain.Locale("ar"), body.Locale)
	assert.Nil(t, body.Tenant)
}

func TestPageHandler_TenantPage(t *testing.T) {
	v := &admission.Verdict{
		Kind:   admission.KindPassThrough,
		Locale: "en",
		Route: admission.Classification{
			Kind:          admission.RouteTenantScoped,
			TenantSlug:    "cafe",
			RemainingPath: "/admin",
			Private:       true,
		},
		Tenant: &domain.TenantRef{
			ID:          uuid.New(),
			Slug:        "cafe",
			Name:        "Cafe Mocha",
			Address:     "1 Harbour Road, Portside",
			PhoneNumber: "+971500000000",
		},
		Role: domain.RoleStaff,
	}

	w := servePage("/en/cafe/admin", v)

	require.Equal(t, http.StatusOK, w.Code)
	var body pageResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "tenant_admin", body.Page)
	assert.Equal(t, domain.RoleStaff, body.Role)
	require.NotNil(t, body.Tenant)
	assert.Equal(t, "Cafe Mocha", body.Tenant.Name)
	assert.Equal(t, "+971500000000", body.Tenant.PhoneNumber)
}

func TestPageHandler_TenantRouteWithoutTenant(t *testing.T) {
	v := &admission.Verdict{
		Kind:   admission.KindPassThrough,
		Locale: "en",
		Route:  admission.Classification{Kind: admission.RouteTenantScoped, TenantSlug: "cafe", RemainingPath: "/"},
	}
	assert.Equal(t, http.StatusNotFound, servePage("/en/cafe", v).Code)
}
