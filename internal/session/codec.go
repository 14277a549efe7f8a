package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/Harshitk-cp/menugate/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "menugate"

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrWeakSecret   = errors.New("session secret must be at least 32 bytes")
)

// Claims is the signed session payload. The subject is the user ID.
type Claims struct {
	Memberships []domain.MembershipClaim `json:"memberships"`
	jwt.RegisteredClaims
}

// Codec signs and verifies HS256 session tokens.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if len(secret) < 32 {
		return nil, ErrWeakSecret
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", ttl)
	}
	return &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for s and returns it with its expiry.
func (c *Codec) Issue(s *domain.Session) (string, time.Time, error) {
	if s == nil || s.UserID == uuid.Nil {
		return "", time.Time{}, fmt.Errorf("issue session: missing user id")
	}

	now := c.now()
	expires := now.Add(c.ttl)
	memberships := s.Memberships
	if memberships == nil {
		memberships = []domain.MembershipClaim{}
	}
	claims := &Claims{
		Memberships: memberships,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   s.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
			ID:        uuid.NewString(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return token, expires, nil
}

// Parse verifies token and decodes its session. Every failure wraps ErrInvalidToken.
func (c *Codec) Parse(token string) (*domain.Session, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	for _, m := range claims.Memberships {
		if !domain.IsSlugSyntax(m.TenantSlug) {
			return nil, fmt.Errorf("%w: bad membership slug %q", ErrInvalidToken, m.TenantSlug)
		}
		if !m.Role.IsValid() {
			return nil, fmt.Errorf("%w: bad membership role %q", ErrInvalidToken, m.Role)
		}
	}

	memberships := claims.Memberships
	if memberships == nil {
		memberships = []domain.MembershipClaim{}
	}
	return &domain.Session{UserID: userID, Memberships: memberships}, nil
}
