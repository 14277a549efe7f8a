package middleware

import (
	"context"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/Harshitk-cp/menugate/internal/admission"
	"github.com/Harshitk-cp/menugate/internal/session"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	verdictContextKey contextKey = "verdict"

	localeCookieMaxAge = 365 * 24 * 60 * 60
)

func VerdictFromContext(ctx context.Context) *admission.Verdict {
	v, _ := ctx.Value(verdictContextKey).(*admission.Verdict)
	return v
}

func WithVerdict(ctx context.Context, v *admission.Verdict) context.Context {
	return context.WithValue(ctx, verdictContextKey, v)
}

type AdmissionOptions struct {
	LocaleCookie string
	CookieDomain string
	CookieSecure bool
}

type forbiddenResponse struct {
	Error   string   `json:"error"`
	Tenant  string   `json:"tenant"`
	Tenants []string `json:"tenants"`
	Links   []string `json:"links"`
}

// Admission runs every page request through engine and carries out the verdict.
// Requests for files (a dot in the last segment) are not admitted.
func Admission(engine *admission.Engine, sessions *session.Provider, opts AdmissionOptions, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isAssetPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			req := admission.Request{
				Host:     r.Host,
				Path:     r.URL.Path,
				RawQuery: r.URL.RawQuery,
				Locale: admission.LocalePreference{
					Cookie:         cookieValue(r, opts.LocaleCookie),
					AcceptLanguage: r.Header.Get("Accept-Language"),
				},
				Session: sessions.ForRequest(r),
			}
			v := engine.Admit(r.Context(), req)

			fields := []zap.Field{
				zap.String("verdict", v.Kind.String()),
				zap.String("reason", string(v.Reason)),
			}
			if v.Tenant != nil {
				fields = append(fields, zap.String("tenant", v.Tenant.Slug))
			}
			Annotate(r.Context(), fields...)
			logger.Debug("admission verdict", append(fields,
				zap.String("request_id", RequestIDFromContext(r.Context())),
				zap.String("target", v.Target),
			)...)

			switch v.Kind {
			case admission.KindRedirect:
				http.Redirect(w, r, v.Target, http.StatusTemporaryRedirect)

			case admission.KindNotFound:
				writeError(w, http.StatusNotFound, "not found")

			case admission.KindForbidden:
				writeForbidden(w, v)

			case admission.KindRewrite:
				persistLocale(w, r, v, opts)
				next.ServeHTTP(w, rewriteRequest(r, v))

			default:
				persistLocale(w, r, v, opts)
				next.ServeHTTP(w, r.WithContext(WithVerdict(r.Context(), &v)))
			}
		})
	}
}

func writeForbidden(w http.ResponseWriter, v admission.Verdict) {
	resp := forbiddenResponse{Error: "forbidden", Tenants: []string{}, Links: []string{}}
	if v.Forbidden != nil {
		resp.Tenant = v.Forbidden.AttemptedTenant
		for _, slug := range v.Forbidden.Tenants {
			resp.Tenants = append(resp.Tenants, slug)
			resp.Links = append(resp.Links, admission.Localize(v.Locale, "/"+slug+"/admin"))
		}
	}
	writeJSON(w, http.StatusForbidden, resp)
}

// rewriteRequest points r at the canonical path while keeping the client URL.
func rewriteRequest(r *http.Request, v admission.Verdict) *http.Request {
	escaped, q, _ := strings.Cut(v.Target, "?")
	p, err := url.PathUnescape(escaped)
	if err != nil {
		p = escaped
	}

	ctx := WithVerdict(r.Context(), &v)
	r2 := r.Clone(ctx)
	r2.URL.Path = p
	r2.URL.RawPath = escaped
	r2.URL.RawQuery = q
	r2.RequestURI = r2.URL.RequestURI()

	// A mounted chi router matches on RoutePath, not URL.Path.
	if rctx := chi.RouteContext(ctx); rctx != nil {
		rctx.RoutePath = r2.URL.EscapedPath()
	}
	return r2
}

func persistLocale(w http.ResponseWriter, r *http.Request, v admission.Verdict, opts AdmissionOptions) {
	if opts.LocaleCookie == "" || v.Locale == "" || cookieValue(r, opts.LocaleCookie) == string(v.Locale) {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     opts.LocaleCookie,
		Value:    string(v.Locale),
		Path:     "/",
		Domain:   opts.CookieDomain,
		MaxAge:   localeCookieMaxAge,
		Secure:   opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func cookieValue(r *http.Request, name string) string {
	if name == "" {
		return ""
	}
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func isAssetPath(p string) bool {
	return strings.Contains(path.Base(p), ".")
}
