package domain

import "github.com/google/uuid"

// Session is the decoded identity of a signed-in user.
//
// Memberships is a snapshot taken when the token was issued. Tenants created or
// joined afterwards stay invisible until the token is reissued.
type Session struct {
	UserID      uuid.UUID         `json:"user_id"`
	Memberships []MembershipClaim `json:"memberships"`
}
