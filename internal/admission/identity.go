package admission

import (
	"context"

	"github.com/Harshitk-cp/menugate/internal/domain"
	"github.com/google/uuid"
)

// SessionSource yields the caller's session, or nil when there is none.
// An error means a credential was presented but could not be verified.
type SessionSource interface {
	GetSession(ctx context.Context) (*domain.Session, error)
}

type SessionSourceFunc func(ctx context.Context) (*domain.Session, error)

func (f SessionSourceFunc) GetSession(ctx context.Context) (*domain.Session, error) {
	return f(ctx)
}

// Identity is the admission view of the current session. The zero value is anonymous.
type Identity struct {
	session *domain.Session
}

func NewIdentity(s *domain.Session) Identity {
	return Identity{session: s}
}

func (i Identity) Authenticated() bool {
	return i.session != nil
}

func (i Identity) UserID() uuid.UUID {
	if i.session == nil {
		return uuid.Nil
	}
	return i.session.UserID
}

func (i Identity) HasMemberships() bool {
	return i.session != nil && len(i.session.Memberships) > 0
}

func (i Identity) MembershipFor(tenantSlug string) (domain.MembershipClaim, bool) {
	if i.session == nil || tenantSlug == "" {
		return domain.MembershipClaim{}, false
	}
	for _, m := range i.session.Memberships {
		if m.TenantSlug == tenantSlug {
			return m, true
		}
	}
	return domain.MembershipClaim{}, false
}

// FirstMembership returns memberships in token order. That order is not
// "most recent" or "primary"; it is whatever was captured at issuance.
func (i Identity) FirstMembership() (domain.MembershipClaim, bool) {
	if !i.HasMemberships() {
		return domain.MembershipClaim{}, false
	}
	return i.session.Memberships[0], true
}

// Slugs lists the tenants the caller can access, in token order.
func (i Identity) Slugs() []string {
	if i.session == nil {
		return nil
	}
	slugs := make([]string, 0, len(i.session.Memberships))
	for _, m := range i.session.Memberships {
		if m.TenantSlug != "" {
			slugs = append(slugs, m.TenantSlug)
		}
	}
	return slugs
}
