package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleStaff  Role = "STAFF"
	RoleMember Role = "MEMBER"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleStaff, RoleMember:
		return true
	}
	return false
}

// Membership grants a user a role on a tenant. (UserID, TenantID) is unique.
type Membership struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	TenantID uuid.UUID `json:"tenant_id"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// MembershipClaim is the denormalized membership carried inside a session token.
type MembershipClaim struct {
	TenantSlug string    `json:"slug"`
	TenantID   uuid.UUID `json:"tenant_id"`
	Role       Role      `json:"role"`
}
