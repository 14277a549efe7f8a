package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Harshitk-cp/menugate/internal/domain"
	"github.com/google/uuid"
)

type TokenIssuer interface {
	Issue(s *domain.Session) (string, time.Time, error)
}

// IssuedSession is a freshly signed session token.
type IssuedSession struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Session   *domain.Session `json:"session"`
}

// SessionService rebuilds session tokens from the membership table. Tokens are
// snapshots, so this is the only way a new membership becomes visible to admission.
type SessionService struct {
	memberships domain.MembershipStore
	issuer      TokenIssuer
}

func NewSessionService(memberships domain.MembershipStore, issuer TokenIssuer) *SessionService {
	return &SessionService{memberships: memberships, issuer: issuer}
}

func (s *SessionService) Refresh(ctx context.Context, userID uuid.UUID) (*IssuedSession, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUserID
	}
	claims, err := s.memberships.ListClaimsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	sess := &domain.Session{UserID: userID, Memberships: claims}
	token, expires, err := s.issuer.Issue(sess)
	if err != nil {
		return nil, err
	}
	return &IssuedSession{Token: token, ExpiresAt: expires, Session: sess}, nil
}
