package admission

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteTable_Classify(t *testing.T) {
	rt := NewRouteTable(DefaultRouteConfig())

	tests := []struct {
		path string
		want Classification
	}{
		{"/", Classification{Kind: RoutePublic}},
		{"", Classification{Kind: RoutePublic}},
		{"/pricing", Classification{Kind: RoutePublic}},
		{"/pricing/", Classification{Kind: RoutePublic}},
		{"/help-center", Classification{Kind: RoutePublic}},
		{"/login", Classification{Kind: RouteAuthPage}},
		{"/register", Classification{Kind: RouteAuthPage}},
		{"/change-password", Classification{Kind: RouteAuthPage}},
		{"/onboarding", Classification{Kind: RoutePlatform}},
		{"/forbidden", Classification{Kind: RoutePlatform}},
		{"/bella-italia", Classification{Kind: RouteTenantScoped, TenantSlug: "bella-italia", RemainingPath: "/"}},
		{"/bella-italia/menu", Classification{Kind: RouteTenantScoped, TenantSlug: "bella-italia", RemainingPath: "/menu"}},
		{"/bella-italia/admin", Classification{Kind: RouteTenantScoped, TenantSlug: "bella-italia", RemainingPath: "/admin", Private: true}},
		{"/bella-italia/admin/menu/items", Classification{Kind: RouteTenantScoped, TenantSlug: "bella-italia", RemainingPath: "/admin/menu/items", Private: true}},
		{"/bella-italia/administrator", Classification{Kind: RouteTenantScoped, TenantSlug: "bella-italia", RemainingPath: "/administrator"}},
		// Exact public pages do not extend to their subpaths.
		{"/pricing/enterprise", Classification{Kind: RouteTenantScoped, TenantSlug: "pricing", RemainingPath: "/enterprise"}},
		{"/login/extra", Classification{Kind: RouteTenantScoped, TenantSlug: "login", RemainingPath: "/extra"}},
		{"/Bella", Classification{Kind: RouteUnclassified}},
		{"/_next/static", Classification{Kind: RouteUnclassified}},
		{"/favicon.ico", Classification{Kind: RouteUnclassified}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, rt.Classify(tt.path))
		})
	}
}

func TestRouteTable_PublicPrefixes(t *testing.T) {
	cfg := DefaultRouteConfig()
	cfg.PublicPrefixes = []string{"/blog"}
	rt := NewRouteTable(cfg)

	assert.Equal(t, RoutePublic, rt.Classify("/blog").Kind)
	assert.Equal(t, RoutePublic, rt.Classify("/blog/launch-week").Kind)
	assert.Equal(t, RouteTenantScoped, rt.Classify("/blogger/menu").Kind)
	assert.True(t, rt.IsReserved("blog"))
}

func TestRouteTable_ExactSetsWinOverPrefixes(t *testing.T) {
	cfg := DefaultRouteConfig()
	cfg.PublicPrefixes = []string{"/"}
	rt := NewRouteTable(cfg)

	assert.Equal(t, RouteAuthPage, rt.Classify("/login").Kind)
	assert.Equal(t, RoutePlatform, rt.Classify("/onboarding").Kind)
	assert.Equal(t, RoutePublic, rt.Classify("/anything/else").Kind)
}

func TestRouteTable_IsReserved(t *testing.T) {
	rt := NewRouteTable(DefaultRouteConfig())

	for _, slug := range []string{"pricing", "login", "onboarding", "forbidden", "help-center"} {
		assert.True(t, rt.IsReserved(slug), slug)
	}
	for _, slug := range []string{"bella-italia", "admin", "cafe"} {
		assert.False(t, rt.IsReserved(slug), slug)
	}
}

func TestRouteTable_IsPrivateSubpath(t *testing.T) {
	rt := NewRouteTable(DefaultRouteConfig())

	assert.True(t, rt.IsPrivateSubpath("/admin"))
	assert.True(t, rt.IsPrivateSubpath("admin/dashboard"))
	assert.True(t, rt.IsPrivateSubpath("//admin//"))
	assert.False(t, rt.IsPrivateSubpath("/"))
	assert.False(t, rt.IsPrivateSubpath("/menu"))
	assert.False(t, rt.IsPrivateSubpath("/admins"))
}
