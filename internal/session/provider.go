package session

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Harshitk-cp/menugate/internal/domain"
)

type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
}

// Provider finds the session token on a request and decodes it with a Codec.
// A bearer Authorization header wins over the cookie.
type Provider struct {
	codec  *Codec
	cookie CookieConfig
}

func NewProvider(codec *Codec, cookie CookieConfig) *Provider {
	if cookie.Name == "" {
		cookie.Name = "menugate_session"
	}
	return &Provider{codec: codec, cookie: cookie}
}

func (p *Provider) Codec() *Codec {
	return p.codec
}

// Token returns the raw token carried by r, or "".
func (p *Provider) Token(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(p.cookie.Name); err == nil {
		return c.Value
	}
	return ""
}

// ForRequest returns a lazily evaluated session for r. The token is verified at
// most once, on the first GetSession call.
func (p *Provider) ForRequest(r *http.Request) *RequestSession {
	return &RequestSession{provider: p, token: p.Token(r)}
}

// SetCookie stores token on the client until expires.
func (p *Provider) SetCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     p.cookie.Name,
		Value:    token,
		Path:     "/",
		Domain:   p.cookie.Domain,
		Expires:  expires,
		HttpOnly: true,
		Secure:   p.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// RequestSession is the session of one request.
type RequestSession struct {
	provider *Provider
	token    string

	once    sync.Once
	session *domain.Session
	err     error
}

// GetSession returns nil, nil when the request carries no token.
func (s *RequestSession) GetSession(context.Context) (*domain.Session, error) {
	s.once.Do(func() {
		if s.token == "" {
			return
		}
		s.session, s.err = s.provider.codec.Parse(s.token)
	})
	return s.session, s.err
}
