package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Harshitk-cp/menugate/internal/domain"
	"github.com/Harshitk-cp/menugate/internal/store"
	"github.com/google/uuid"
)

// mockTenantStore implements domain.TenantStore for testing.
type mockTenantStore struct {
	tenants     map[string]*domain.Tenant
	memberships []*domain.Membership
	err         error
}

func newMockTenantStore() *mockTenantStore {
	return &mockTenantStore{tenants: make(map[string]*domain.Tenant)}
}

func (m *mockTenantStore) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	t, ok := m.tenants[slug]
	if !ok {
		return nil, store.ErrNotFound
	}
	return t, nil
}

func (m *mockTenantStore) CreateWithOwner(ctx context.Context, t *domain.Tenant, ownerID uuid.UUID) (*domain.Membership, error) {
	if m.err != nil {
		return nil, m.err
	}
	if _, ok := m.tenants[t.Slug]; ok {
		return nil, store.ErrConflict
	}
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	m.tenants[t.Slug] = t
	mem := &domain.Membership{
		ID:       uuid.New(),
		UserID:   ownerID,
		TenantID: t.ID,
		Role:     domain.RoleOwner,
		JoinedAt: t.CreatedAt,
	}
	m.memberships = append(m.memberships, mem)
	return mem, nil
}

type forgetRecorder struct {
	forgotten []string
}

func (f *forgetRecorder) Forget(slug string) {
	f.forgotten = append(f.forgotten, slug)
}

func validInput() OnboardingInput {
	return OnboardingInput{
		BusinessName: "Bella Italia",
		PhoneNumber:  "+14155550123",
		Address:      "12 Market Street, Springfield",
		TenantSlug:   "bella-italia",
	}
}

func TestOnboardingService_Onboard(t *testing.T) {
	tenants := newMockTenantStore()
	cache := &forgetRecorder{}
	s := NewOnboardingService(tenants, nil, nil)
	s.SetDirectoryCache(cache)
	userID := uuid.New()

	in := validInput()
	in.BusinessName = "  Bella Italia  "

	tenant, m, err := s.Onboard(context.Background(), userID, in)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if tenant.ID == uuid.Nil {
		t.Fatal("expected tenant ID to be set")
	}
	if tenant.Name != "Bella Italia" {
		t.Fatalf("expected trimmed name, got %q", tenant.Name)
	}
	if m.Role != domain.RoleOwner || m.UserID != userID || m.TenantID != tenant.ID {
		t.Fatalf("unexpected membership %+v", m)
	}
	if len(cache.forgotten) != 1 || cache.forgotten[0] != "bella-italia" {
		t.Fatalf("expected cache to forget bella-italia, got %v", cache.forgotten)
	}
}

func TestOnboardingService_SlugTaken(t *testing.T) {
	s := NewOnboardingService(newMockTenantStore(), nil, nil)
	ctx := context.Background()

	if _, _, err := s.Onboard(ctx, uuid.New(), validInput()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	_, _, err := s.Onboard(ctx, uuid.New(), validInput())
	if !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}

func TestOnboardingService_Reserved(t *testing.T) {
	routes := map[string]bool{"pricing": true, "en": true}
	s := NewOnboardingService(newMockTenantStore(), func(slug string) bool { return routes[slug] }, nil)

	for _, slug := range []string{"pricing", "www", "api", "admin"} {
		in := validInput()
		in.TenantSlug = slug
		_, _, err := s.Onboard(context.Background(), uuid.New(), in)
		if !errors.Is(err, ErrSlugReserved) {
			t.Errorf("slug %q: expected ErrSlugReserved, got %v", slug, err)
		}
	}
}

func TestOnboardingService_StoreError(t *testing.T) {
	tenants := newMockTenantStore()
	tenants.err = errors.New("connection reset")
	cache := &forgetRecorder{}
	s := NewOnboardingService(tenants, nil, nil)
	s.SetDirectoryCache(cache)

	_, _, err := s.Onboard(context.Background(), uuid.New(), validInput())
	if err == nil || errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected raw store error, got %v", err)
	}
	if len(cache.forgotten) != 0 {
		t.Fatal("cache must not be touched on failure")
	}
}

func TestOnboardingService_RequiresUser(t *testing.T) {
	s := NewOnboardingService(newMockTenantStore(), nil, nil)
	_, _, err := s.Onboard(context.Background(), uuid.Nil, validInput())
	if !errors.Is(err, ErrMissingUserID) {
		t.Fatalf("expected ErrMissingUserID, got %v", err)
	}
}

func TestValidateOnboarding(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*OnboardingInput)
		fields []string
	}{
		{"valid", func(*OnboardingInput) {}, nil},
		{"valid arabic name", func(in *OnboardingInput) { in.BusinessName = "مطعم" }, nil},
		{"short name", func(in *OnboardingInput) { in.BusinessName = "B" }, []string{"businessName"}},
		{"long name", func(in *OnboardingInput) { in.BusinessName = strings.Repeat("b", 101) }, []string{"businessName"}},
		{"short phone", func(in *OnboardingInput) { in.PhoneNumber = "+1415" }, []string{"phoneNumber"}},
		{"phone with letters", func(in *OnboardingInput) { in.PhoneNumber = "+1415555CALL" }, []string{"phoneNumber"}},
		{"phone leading zero", func(in *OnboardingInput) { in.PhoneNumber = "04155550123" }, []string{"phoneNumber"}},
		{"short address", func(in *OnboardingInput) { in.Address = "Main St" }, []string{"address"}},
		{"short slug", func(in *OnboardingInput) { in.TenantSlug = "ab" }, []string{"tenantSlug"}},
		{"long slug", func(in *OnboardingInput) { in.TenantSlug = strings.Repeat("a", 31) }, []string{"tenantSlug"}},
		{"uppercase slug", func(in *OnboardingInput) { in.TenantSlug = "Bella" }, []string{"tenantSlug"}},
		{"trailing hyphen", func(in *OnboardingInput) { in.TenantSlug = "bella-" }, []string{"tenantSlug"}},
		{"several fields", func(in *OnboardingInput) {
			in.BusinessName = ""
			in.TenantSlug = "-x-"
		}, []string{"businessName", "tenantSlug"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			err := ValidateOnboarding(in)

			if tt.fields == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatal("expected error to match ErrInvalidInput")
			}
			var got []string
			for _, f := range verr.Fields {
				got = append(got, f.Field)
			}
			if strings.Join(got, ",") != strings.Join(tt.fields, ",") {
				t.Fatalf("fields = %v, want %v", got, tt.fields)
			}
		})
	}
}
