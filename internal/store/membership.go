package store

import (
	"context"

	"github.com/Harshitk-cp/menugate/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MembershipStore struct {
	db *pgxpool.Pool
}

func NewMembershipStore(db *pgxpool.Pool) *MembershipStore {
	return &MembershipStore{db: db}
}

func (s *MembershipStore) ListClaimsByUser(ctx context.Context, userID uuid.UUID) ([]domain.MembershipClaim, error) {
	rows, err := s.db.Query(ctx,
		`SELECT t.slug, m.tenant_id, m.role
		 FROM memberships m
		 JOIN tenants t ON t.id = m.tenant_id
		 WHERE m.user_id = $1
		 ORDER BY m.joined_at ASC, m.id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	claims := []domain.MembershipClaim{}
	for rows.Next() {
		var c domain.MembershipClaim
		var role string
		if err := rows.Scan(&c.TenantSlug, &c.TenantID, &role); err != nil {
			return nil, err
		}
		c.Role = domain.Role(role)
		claims = append(claims, c)
	}
	return claims, rows.Err()
}
