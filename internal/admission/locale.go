package admission

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Harshitk-cp/menugate/internal/domain"
	"golang.org/x/text/language"
)

// LocaleResult is the outcome of resolving the locale for a request path.
type LocaleResult struct {
	// HasLocale is true when the first path segment named a supported locale.
	HasLocale bool
	Locale    domain.Locale
	// PathWithoutLocale is always "/"-rooted; the root is "/".
	PathWithoutLocale string
}

// LocalePreference carries the request's stored and negotiated preferences.
type LocalePreference struct {
	Cookie         string
	AcceptLanguage string
}

// LocaleResolver picks the effective locale: path segment, then the preference
// cookie, then Accept-Language (when detection is on), then the default.
type LocaleResolver struct {
	supported []domain.Locale
	set       map[domain.Locale]struct{}
	def       domain.Locale
	detect    bool
	matcher   language.Matcher
}

func NewLocaleResolver(supported []domain.Locale, def domain.Locale, detect bool) (*LocaleResolver, error) {
	if len(supported) == 0 {
		return nil, fmt.Errorf("at least one locale is required")
	}

	r := &LocaleResolver{
		set:    make(map[domain.Locale]struct{}, len(supported)),
		def:    def,
		detect: detect,
	}
	tags := make([]language.Tag, 0, len(supported))
	for _, l := range supported {
		if l == "" {
			return nil, fmt.Errorf("empty locale code")
		}
		if _, dup := r.set[l]; dup {
			continue
		}
		tag, err := language.Parse(string(l))
		if err != nil {
			return nil, fmt.Errorf("invalid locale %q: %w", l, err)
		}
		r.set[l] = struct{}{}
		r.supported = append(r.supported, l)
		tags = append(tags, tag)
	}
	if _, ok := r.set[def]; !ok {
		return nil, fmt.Errorf("default locale %q is not in the supported set", def)
	}
	r.matcher = language.NewMatcher(tags)
	return r, nil
}

func (r *LocaleResolver) Default() domain.Locale {
	return r.def
}

func (r *LocaleResolver) Supported() []domain.Locale {
	return append([]domain.Locale(nil), r.supported...)
}

func (r *LocaleResolver) IsSupported(code string) bool {
	_, ok := r.set[domain.Locale(code)]
	return ok
}

// Resolve never returns an empty locale.
func (r *LocaleResolver) Resolve(path string, pref LocalePreference) LocaleResult {
	segments := splitPath(path)
	if len(segments) > 0 && r.IsSupported(segments[0]) {
		return LocaleResult{
			HasLocale:         true,
			Locale:            domain.Locale(segments[0]),
			PathWithoutLocale: joinPath(segments[1:]),
		}
	}
	return LocaleResult{
		Locale:            r.preferred(pref),
		PathWithoutLocale: joinPath(segments),
	}
}

func (r *LocaleResolver) preferred(pref LocalePreference) domain.Locale {
	if c := strings.TrimSpace(pref.Cookie); r.IsSupported(c) {
		return domain.Locale(c)
	}
	if r.detect && pref.AcceptLanguage != "" {
		tags, _, err := language.ParseAcceptLanguage(pref.AcceptLanguage)
		if err == nil && len(tags) > 0 {
			_, idx, conf := r.matcher.Match(tags...)
			if conf != language.No && idx >= 0 && idx < len(r.supported) {
				return r.supported[idx]
			}
		}
	}
	return r.def
}

// Localize prefixes a decoded path with locale and returns it in escaped form,
// ready for a Location header or a rewrite target. The root maps to "/{locale}".
func Localize(locale domain.Locale, path string) string {
	segments := splitPath(path)
	if len(segments) == 0 {
		return "/" + string(locale)
	}
	escaped := make([]string, len(segments))
	for i, seg := range segments {
		escaped[i] = url.PathEscape(seg)
	}
	return "/" + string(locale) + joinPath(escaped)
}

func splitPath(path string) []string {
	raw := strings.Split(path, "/")
	segments := raw[:0]
	for _, s := range raw {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func joinPath(segments []string) string {
	return "/" + strings.Join(segments, "/")
}
