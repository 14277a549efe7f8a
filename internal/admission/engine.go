package admission

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/Harshitk-cp/menugate/internal/domain"
	"go.uber.org/zap"
)

const (
	loginPath      = "/login"
	onboardingPath = "/onboarding"
	dashboardPath  = "/admin/dashboard"

	// CallbackParam carries the originally requested path through the login page.
	CallbackParam = "callbackUrl"

	pipelineMain      = "main"
	pipelineSubdomain = "subdomain"
)

// FallbackPolicy decides what an authenticated caller gets on an unclassified path.
type FallbackPolicy string

const (
	// FallbackPass lets the request through and relies on downstream protection.
	FallbackPass FallbackPolicy = "pass"
	// FallbackNotFound answers not-found instead.
	FallbackNotFound FallbackPolicy = "not_found"
)

func ParseFallbackPolicy(s string) (FallbackPolicy, error) {
	switch FallbackPolicy(s) {
	case "", FallbackPass:
		return FallbackPass, nil
	case FallbackNotFound:
		return FallbackNotFound, nil
	default:
		return "", fmt.Errorf("unknown fallback policy %q", s)
	}
}

// Recorder receives one call per verdict and per tenant lookup.
type Recorder interface {
	RecordVerdict(pipeline, kind, reason string)
	RecordTenantLookup(result string, d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordVerdict(string, string, string)     {}
func (nopRecorder) RecordTenantLookup(string, time.Duration) {}

// Request is everything admission looks at.
type Request struct {
	Host     string
	Path     string
	RawQuery string
	Locale   LocalePreference
	// Session is consulted lazily, only on branches that need the caller's identity.
	Session SessionSource
}

type Config struct {
	Routes    *RouteTable
	Locales   *LocaleResolver
	Hosts     *HostParser
	Directory TenantDirectory
	Fallback  FallbackPolicy
	// SubdomainLocaleRedirect sends subdomain requests without a locale segment
	// to the locale-prefixed URL before rewriting.
	SubdomainLocaleRedirect bool
	Recorder                Recorder
}

// Engine renders admission verdicts. It holds no per-request state and is safe
// for concurrent use.
type Engine struct {
	routes                  *RouteTable
	locales                 *LocaleResolver
	hosts                   *HostParser
	directory               TenantDirectory
	fallback                FallbackPolicy
	subdomainLocaleRedirect bool
	recorder                Recorder
	logger                  *zap.Logger
}

func NewEngine(cfg Config, logger *zap.Logger) (*Engine, error) {
	if cfg.Locales == nil {
		return nil, fmt.Errorf("admission: locale resolver is required")
	}
	if cfg.Directory == nil {
		return nil, fmt.Errorf("admission: tenant directory is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Engine{
		routes:                  cfg.Routes,
		locales:                 cfg.Locales,
		hosts:                   cfg.Hosts,
		directory:               cfg.Directory,
		fallback:                cfg.Fallback,
		subdomainLocaleRedirect: cfg.SubdomainLocaleRedirect,
		recorder:                cfg.Recorder,
		logger:                  logger,
	}
	if e.routes == nil {
		e.routes = NewRouteTable(DefaultRouteConfig())
	}
	if e.hosts == nil {
		e.hosts = NewHostParser()
	}
	if e.fallback == "" {
		e.fallback = FallbackPass
	}
	if e.recorder == nil {
		e.recorder = nopRecorder{}
	}
	return e, nil
}

func (e *Engine) Routes() *RouteTable {
	return e.routes
}

func (e *Engine) Locales() *LocaleResolver {
	return e.locales
}

// Admit evaluates one request. It always returns a verdict: lookup failures
// resolve to the restrictive outcome and a panic anywhere below becomes not-found.
func (e *Engine) Admit(ctx context.Context, req Request) (v Verdict) {
	pipeline := pipelineMain
	defer func() {
		if rec := recover(); rec != nil {
			e.logger.Error("admission panicked",
				zap.Any("panic", rec),
				zap.String("host", req.Host),
				zap.String("path", req.Path),
			)
			v = notFound(ReasonInvariant)
		}
		if v.Locale == "" {
			v.Locale = e.locales.Default()
		}
		e.recorder.RecordVerdict(pipeline, v.Kind.String(), string(v.Reason))
	}()

	loc := e.locales.Resolve(req.Path, req.Locale)
	if candidate := e.hosts.Parse(req.Host); candidate != "" {
		pipeline = pipelineSubdomain
		return e.admitSubdomain(ctx, candidate, loc, req)
	}
	return e.admitMain(ctx, loc, req)
}

// admitSubdomain serves {slug}.host traffic. Subdomains are customer-facing
// only: the administration area is never reachable through them.
func (e *Engine) admitSubdomain(ctx context.Context, slug string, loc LocaleResult, req Request) Verdict {
	v := e.decideSubdomain(ctx, slug, loc, req)
	v.Locale = loc.Locale
	v.Subdomain = true
	return v
}

func (e *Engine) decideSubdomain(ctx context.Context, slug string, loc LocaleResult, req Request) Verdict {
	ref, reason, ok := e.lookupTenant(ctx, slug)
	if !ok {
		return notFound(reason)
	}

	remaining := loc.PathWithoutLocale
	route := Classification{
		Kind:          RouteTenantScoped,
		TenantSlug:    slug,
		RemainingPath: remaining,
		Private:       e.routes.IsPrivateSubpath(remaining),
	}

	var v Verdict
	switch {
	case route.Private:
		v = notFound(ReasonPrivateSubdomain)
	case !loc.HasLocale && e.subdomainLocaleRedirect:
		v = redirect(withQuery(Localize(loc.Locale, remaining), req.RawQuery), ReasonLocalePrefix)
	default:
		v = rewrite(withQuery(tenantPath(loc.Locale, slug, remaining), req.RawQuery), ReasonSubdomainRewrite)
	}
	v.Route = route
	v.Tenant = ref
	return v
}

func (e *Engine) admitMain(ctx context.Context, loc LocaleResult, req Request) Verdict {
	route := e.routes.Classify(loc.PathWithoutLocale)
	v := e.decideMain(ctx, route, loc, req)
	v.Locale = loc.Locale
	v.Route = route

	// Every page lives under a locale prefix.
	if v.Kind == KindPassThrough && !loc.HasLocale {
		v.Kind = KindRedirect
		v.Target = withQuery(Localize(loc.Locale, loc.PathWithoutLocale), req.RawQuery)
		v.Reason = ReasonLocalePrefix
	}
	return v
}

func (e *Engine) decideMain(ctx context.Context, route Classification, loc LocaleResult, req Request) Verdict {
	switch route.Kind {
	case RoutePublic:
		return passThrough(ReasonPublic)

	case RouteAuthPage:
		id := e.identity(ctx, req.Session)
		if !id.Authenticated() {
			return passThrough(ReasonAuthPage)
		}
		return landing(loc.Locale, id)

	case RouteTenantScoped:
		return e.decideTenantRoute(ctx, route, loc, req)

	case RoutePlatform:
		id := e.identity(ctx, req.Session)
		if !id.Authenticated() {
			return redirect(Localize(loc.Locale, loginPath), ReasonLoginWall)
		}
		return passThrough(ReasonPlatform)

	default:
		id := e.identity(ctx, req.Session)
		if !id.Authenticated() {
			return redirect(Localize(loc.Locale, loginPath), ReasonLoginWall)
		}
		return e.applyFallback(loc, id)
	}
}

func (e *Engine) decideTenantRoute(ctx context.Context, route Classification, loc LocaleResult, req Request) Verdict {
	if route.TenantSlug == "" {
		e.logger.Error("tenant-scoped route without a slug", zap.String("path", loc.PathWithoutLocale))
		return notFound(ReasonInvariant)
	}

	ref, reason, ok := e.lookupTenant(ctx, route.TenantSlug)
	if !ok {
		return notFound(reason)
	}

	var v Verdict
	id := e.identity(ctx, req.Session)
	switch {
	case !id.Authenticated():
		q := url.Values{CallbackParam: {tenantPath(loc.Locale, route.TenantSlug, route.RemainingPath)}}
		v = redirect(Localize(loc.Locale, loginPath)+"?"+q.Encode(), ReasonLoginWall)

	case !id.HasMemberships():
		v = redirect(Localize(loc.Locale, onboardingPath), ReasonOnboardingWall)

	default:
		m, member := id.MembershipFor(route.TenantSlug)
		if !member {
			v = forbidden(ForbiddenContext{
				AttemptedTenant: route.TenantSlug,
				Tenants:         id.Slugs(),
			}, ReasonNoMembership)
			break
		}
		v = passThrough(ReasonMember)
		v.Role = m.Role
	}
	v.Tenant = ref
	return v
}

// landing picks where a signed-in user goes instead of an auth page.
func landing(locale domain.Locale, id Identity) Verdict {
	if m, ok := id.FirstMembership(); ok {
		return redirect(tenantPath(locale, m.TenantSlug, dashboardPath), ReasonPostLoginLanding)
	}
	return redirect(Localize(locale, onboardingPath), ReasonPostLoginOnboard)
}

func (e *Engine) applyFallback(loc LocaleResult, id Identity) Verdict {
	e.logger.Info("unclassified path reached fallback",
		zap.String("path", loc.PathWithoutLocale),
		zap.String("policy", string(e.fallback)),
		zap.String("user_id", id.UserID().String()),
	)
	if e.fallback == FallbackNotFound {
		return notFound(ReasonFallbackNotFound)
	}
	return passThrough(ReasonFallbackPass)
}

// lookupTenant performs the single directory round trip for a request.
func (e *Engine) lookupTenant(ctx context.Context, slug string) (*domain.TenantRef, Reason, bool) {
	start := time.Now()
	ref, err := e.directory.FindBySlug(ctx, slug)
	elapsed := time.Since(start)

	switch {
	case err != nil:
		e.recorder.RecordTenantLookup("error", elapsed)
		e.logger.Warn("tenant lookup failed",
			zap.String("slug", slug),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return nil, ReasonDirectoryFailure, false
	case ref == nil:
		e.recorder.RecordTenantLookup("miss", elapsed)
		return nil, ReasonUnknownTenant, false
	default:
		e.recorder.RecordTenantLookup("hit", elapsed)
		return ref, "", true
	}
}

// identity treats an unverifiable session as no session.
func (e *Engine) identity(ctx context.Context, src SessionSource) Identity {
	if src == nil {
		return Identity{}
	}
	s, err := src.GetSession(ctx)
	if err != nil {
		e.logger.Info("session rejected", zap.Error(err))
		return Identity{}
	}
	return NewIdentity(s)
}

func tenantPath(locale domain.Locale, slug, remaining string) string {
	return Localize(locale, "/"+slug+cleanPath(remaining))
}

func withQuery(path, rawQuery string) string {
	if rawQuery == "" {
		return path
	}
	return path + "?" + rawQuery
}
