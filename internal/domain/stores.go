package domain

import (
	"context"

	"github.com/google/uuid"
)

type TenantStore interface {
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)
	// CreateWithOwner inserts the tenant and an OWNER membership for ownerID
	// atomically. On return t and the membership carry their generated fields.
	CreateWithOwner(ctx context.Context, t *Tenant, ownerID uuid.UUID) (*Membership, error)
}

type MembershipStore interface {
	// ListClaimsByUser returns the user's memberships joined with tenant slugs,
	// oldest first.
	ListClaimsByUser(ctx context.Context, userID uuid.UUID) ([]MembershipClaim, error)
}
