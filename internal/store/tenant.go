package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Harshitk-cp/menugate/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TenantStore struct {
	db *pgxpool.Pool
}

func NewTenantStore(db *pgxpool.Pool) *TenantStore {
	return &TenantStore{db: db}
}

func (s *TenantStore) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	t := &domain.Tenant{}
	err := s.db.QueryRow(ctx,
		`SELECT id, slug, name, phone_number, address, email, created_at
		 FROM tenants WHERE slug = $1`,
		slug,
	).Scan(&t.ID, &t.Slug, &t.Name, &t.PhoneNumber, &t.Address, &t.Email, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *TenantStore) CreateWithOwner(ctx context.Context, t *domain.Tenant, ownerID uuid.UUID) (*domain.Membership, error) {
	m := &domain.Membership{UserID: ownerID, Role: domain.RoleOwner}

	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`INSERT INTO tenants (slug, name, phone_number, address, email)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id, created_at`,
			t.Slug, t.Name, t.PhoneNumber, t.Address, t.Email,
		).Scan(&t.ID, &t.CreatedAt); err != nil {
			return fmt.Errorf("insert tenant: %w", err)
		}

		m.TenantID = t.ID
		if err := tx.QueryRow(ctx,
			`INSERT INTO memberships (tenant_id, user_id, role)
			 VALUES ($1, $2, $3)
			 RETURNING id, joined_at`,
			m.TenantID, m.UserID, string(m.Role),
		).Scan(&m.ID, &m.JoinedAt); err != nil {
			return fmt.Errorf("insert owner membership: %w", err)
		}
		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrConflict
		}
		return nil, err
	}
	return m, nil
}
