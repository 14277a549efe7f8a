package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Harshitk-cp/menugate/internal/admission"
	"github.com/Harshitk-cp/menugate/internal/api/handlers"
	mw "github.com/Harshitk-cp/menugate/internal/api/middleware"
	"github.com/Harshitk-cp/menugate/internal/buildconfig"
	"github.com/Harshitk-cp/menugate/internal/config"
	"github.com/Harshitk-cp/menugate/internal/domain"
	"github.com/Harshitk-cp/menugate/internal/metrics"
	"github.com/Harshitk-cp/menugate/internal/service"
	"github.com/Harshitk-cp/menugate/internal/session"
	"github.com/Harshitk-cp/menugate/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// App holds the router and the pieces main needs for lifecycle management.
type App struct {
	Router    *chi.Mux
	Limiter   *mw.RateLimiter
	Engine    *admission.Engine
	Sessions  *session.Provider
	Directory *admission.CachedDirectory
}

// Settings is the runtime configuration of the HTTP surface.
type Settings struct {
	Locales                 []string
	DefaultLocale           string
	LocaleDetection         bool
	PlatformHosts           []string
	SubdomainLocaleRedirect bool
	FallbackPolicy          string
	Cache                   admission.CacheConfig

	SessionSecret string
	SessionTTL    time.Duration
	SessionCookie string
	LocaleCookie  string
	CookieDomain  string
	CookieSecure  bool

	RateLimitRPS   float64
	RateLimitBurst int
}

// Deps are the collaborators NewApp would otherwise build from a database pool.
type Deps struct {
	Tenants     domain.TenantStore
	Memberships domain.MembershipStore
	// Ping reports database health for /health.
	Ping     func(ctx context.Context) error
	Registry *prometheus.Registry
}

func SettingsFromConfig() Settings {
	cache := admission.DefaultCacheConfig()
	cache.Size = config.TenantCacheSize()
	cache.TTL = config.TenantCacheTTL()
	cache.MissTTL = config.TenantMissTTL()

	return Settings{
		Locales:                 config.Locales(),
		DefaultLocale:           config.DefaultLocale(),
		LocaleDetection:         config.LocaleDetection(),
		PlatformHosts:           config.PlatformHosts(),
		SubdomainLocaleRedirect: config.SubdomainLocaleRedirect(),
		FallbackPolicy:          config.FallbackPolicy(),
		Cache:                   cache,
		SessionSecret:           config.SessionSecret(),
		SessionTTL:              config.SessionTTL(),
		SessionCookie:           config.SessionCookie(),
		LocaleCookie:            config.LocaleCookie(),
		CookieDomain:            config.CookieDomain(),
		CookieSecure:            config.CookieSecure(),
		RateLimitRPS:            config.RateLimitRPS(),
		RateLimitBurst:          config.RateLimitBurst(),
	}
}

// NewApp wires the application on top of a Postgres pool using env configuration.
func NewApp(db *pgxpool.Pool, logger *zap.Logger) (*App, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return NewAppWith(Deps{
		Tenants:     store.NewTenantStore(db),
		Memberships: store.NewMembershipStore(db),
		Ping:        db.Ping,
		Registry:    reg,
	}, SettingsFromConfig(), logger)
}

func NewAppWith(deps Deps, s Settings, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}
	collector := metrics.NewCollector(deps.Registry)

	// Admission
	supported := make([]domain.Locale, 0, len(s.Locales))
	for _, l := range s.Locales {
		supported = append(supported, domain.Locale(l))
	}
	locales, err := admission.NewLocaleResolver(supported, domain.Locale(s.DefaultLocale), s.LocaleDetection)
	if err != nil {
		return nil, fmt.Errorf("locales: %w", err)
	}
	fallback, err := admission.ParseFallbackPolicy(s.FallbackPolicy)
	if err != nil {
		return nil, err
	}
	directory := admission.NewCachedDirectory(admission.NewStoreDirectory(deps.Tenants), s.Cache, logger)
	engine, err := admission.NewEngine(admission.Config{
		Routes:                  admission.NewRouteTable(admission.DefaultRouteConfig()),
		Locales:                 locales,
		Hosts:                   admission.NewHostParser(s.PlatformHosts...),
		Directory:               directory,
		Fallback:                fallback,
		SubdomainLocaleRedirect: s.SubdomainLocaleRedirect,
		Recorder:                collector,
	}, logger)
	if err != nil {
		return nil, err
	}

	// Sessions
	codec, err := session.NewCodec(s.SessionSecret, s.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("session codec: %w", err)
	}
	provider := session.NewProvider(codec, session.CookieConfig{
		Name:   s.SessionCookie,
		Domain: s.CookieDomain,
		Secure: s.CookieSecure,
	})

	// Services
	onboardingSvc := service.NewOnboardingService(deps.Tenants, func(slug string) bool {
		return engine.Routes().IsReserved(slug) || engine.Locales().IsSupported(slug)
	}, logger)
	onboardingSvc.SetDirectoryCache(directory)
	sessionSvc := service.NewSessionService(deps.Memberships, codec)

	// Handlers
	onboardingHandler := handlers.NewOnboardingHandler(onboardingSvc, sessionSvc, provider, logger)
	sessionHandler := handlers.NewSessionHandler(sessionSvc, provider, logger)
	pageHandler := handlers.NewPageHandler(logger)

	limiter := mw.NewRateLimiter(s.RateLimitRPS, s.RateLimitBurst)

	r := chi.NewRouter()
	app := &App{
		Router:    r,
		Limiter:   limiter,
		Engine:    engine,
		Sessions:  provider,
		Directory: directory,
	}

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Metrics(collector))
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(limiter))

	r.Get("/health", healthHandler(deps.Ping))
	r.Handle("/metrics", metrics.Handler(deps.Registry))

	r.Route("/api", func(r chi.Router) {
		r.Use(mw.RequireSession(provider, logger))
		r.Post("/onboarding", onboardingHandler.Create)
		r.Post("/session/refresh", sessionHandler.Refresh)
	})

	// Every other path is a page and goes through admission first.
	pages := chi.NewRouter()
	pages.Use(mw.Admission(engine, provider, mw.AdmissionOptions{
		LocaleCookie: s.LocaleCookie,
		CookieDomain: s.CookieDomain,
		CookieSecure: s.CookieSecure,
	}, logger))
	pages.Get("/*", pageHandler.Serve)
	r.Mount("/", pages)

	return app, nil
}

func healthHandler(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info := buildconfig.VersionInfo()
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				info["status"] = "error"
				info["error"] = err.Error()
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(info)
				return
			}
		}

		info["status"] = "ok"
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(info)
	}
}

// Compile-time interface checks.
var (
	_ domain.TenantStore      = (*store.TenantStore)(nil)
	_ domain.MembershipStore  = (*store.MembershipStore)(nil)
	_ admission.Recorder      = (*metrics.Collector)(nil)
	_ mw.HTTPRecorder         = (*metrics.Collector)(nil)
	_ admission.SessionSource = (*session.RequestSession)(nil)
	_ service.DirectoryCache  = (*admission.CachedDirectory)(nil)
	_ service.TokenIssuer     = (*session.Codec)(nil)
)
