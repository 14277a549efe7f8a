package admission

import (
	"strings"

	"github.com/Harshitk-cp/menugate/internal/domain"
)

type RouteKind int

const (
	// RouteTenantScoped is the fallback: the first segment is a tenant slug candidate.
	RouteTenantScoped RouteKind = iota
	RoutePublic
	RouteAuthPage
	// RoutePlatform covers signed-in platform pages that belong to no tenant
	// (onboarding, forbidden).
	RoutePlatform
	// RouteUnclassified is a path in no list whose first segment cannot be a slug.
	RouteUnclassified
)

func (k RouteKind) String() string {
	switch k {
	case RoutePublic:
		return "public"
	case RouteAuthPage:
		return "auth_page"
	case RoutePlatform:
		return "platform"
	case RouteUnclassified:
		return "unclassified"
	default:
		return "tenant_scoped"
	}
}

// Classification describes a locale-free path.
type Classification struct {
	Kind RouteKind
	// TenantSlug and RemainingPath are set for RouteTenantScoped only.
	TenantSlug    string
	RemainingPath string
	// Private marks RemainingPath as part of the tenant administration area.
	Private bool
}

// RouteConfig lists the fixed route sets. Paths are locale-free and "/"-rooted.
type RouteConfig struct {
	PublicExact     []string
	PublicPrefixes  []string
	AuthPages       []string
	PlatformPages   []string
	PrivatePrefixes []string
}

func DefaultRouteConfig() RouteConfig {
	return RouteConfig{
		PublicExact: []string{
			"/", "/pricing", "/contact", "/faq", "/terms", "/privacy",
			"/demo", "/features", "/help-center",
		},
		AuthPages:       []string{"/login", "/register", "/password-reset", "/change-password"},
		PlatformPages:   []string{"/onboarding", "/forbidden", "/not-found"},
		PrivatePrefixes: []string{"/admin"},
	}
}

// RouteTable classifies paths. Precedence is fixed:
// exact sets (public, auth, platform) before the public prefix list, and every
// listed route before the tenant-scoped fallback, so no slug can shadow them.
type RouteTable struct {
	publicExact     map[string]struct{}
	authExact       map[string]struct{}
	platformExact   map[string]struct{}
	publicPrefixes  []string
	privatePrefixes []string
	reserved        map[string]struct{}
}

func NewRouteTable(cfg RouteConfig) *RouteTable {
	t := &RouteTable{
		publicExact:     toSet(cfg.PublicExact),
		authExact:       toSet(cfg.AuthPages),
		platformExact:   toSet(cfg.PlatformPages),
		publicPrefixes:  cleanAll(cfg.PublicPrefixes),
		privatePrefixes: cleanAll(cfg.PrivatePrefixes),
		reserved:        make(map[string]struct{}),
	}

	for _, group := range [][]string{cfg.PublicExact, cfg.AuthPages, cfg.PlatformPages, cfg.PublicPrefixes} {
		for _, p := range group {
			if segs := splitPath(p); len(segs) > 0 {
				t.reserved[segs[0]] = struct{}{}
			}
		}
	}
	return t
}

func (t *RouteTable) Classify(path string) Classification {
	p := cleanPath(path)

	if _, ok := t.publicExact[p]; ok {
		return Classification{Kind: RoutePublic}
	}
	if _, ok := t.authExact[p]; ok {
		return Classification{Kind: RouteAuthPage}
	}
	if _, ok := t.platformExact[p]; ok {
		return Classification{Kind: RoutePlatform}
	}
	if hasAnyPrefix(p, t.publicPrefixes) {
		return Classification{Kind: RoutePublic}
	}

	segments := splitPath(p)
	if len(segments) == 0 || !domain.IsSlugSyntax(segments[0]) {
		return Classification{Kind: RouteUnclassified}
	}
	remaining := joinPath(segments[1:])
	return Classification{
		Kind:          RouteTenantScoped,
		TenantSlug:    segments[0],
		RemainingPath: remaining,
		Private:       t.IsPrivateSubpath(remaining),
	}
}

// IsPrivateSubpath reports whether a tenant-relative path is in the administration area.
func (t *RouteTable) IsPrivateSubpath(path string) bool {
	return hasAnyPrefix(cleanPath(path), t.privatePrefixes)
}

// IsReserved reports whether slug collides with the first segment of a listed route.
func (t *RouteTable) IsReserved(slug string) bool {
	_, ok := t.reserved[slug]
	return ok
}

// hasAnyPrefix matches on segment boundaries: "/admin" covers "/admin" and
// "/admin/menu" but not "/administrator".
func hasAnyPrefix(p string, prefixes []string) bool {
	for _, pref := range prefixes {
		if pref == "/" || p == pref || strings.HasPrefix(p, pref+"/") {
			return true
		}
	}
	return false
}

func cleanPath(p string) string {
	return joinPath(splitPath(p))
}

func cleanAll(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, cleanPath(p))
	}
	return out
}

func toSet(paths []string) map[string]struct{} {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[cleanPath(p)] = struct{}{}
	}
	return set
}
