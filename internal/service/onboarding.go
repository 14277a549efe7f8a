package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Harshitk-cp/menugate/internal/domain"
	"github.com/Harshitk-cp/menugate/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidInput  = errors.New("invalid onboarding input")
	ErrSlugTaken     = errors.New("this subdomain is already taken")
	ErrSlugReserved  = errors.New("this subdomain is reserved")
	ErrMissingUserID = errors.New("user id is required")
)

// Slugs that are never handed out, on top of route and locale names.
var reservedSlugs = map[string]struct{}{
	"admin": {}, "api": {}, "app": {}, "assets": {}, "health": {},
	"mail": {}, "metrics": {}, "static": {}, "www": {},
}

var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)

type OnboardingInput struct {
	BusinessName string `json:"businessName"`
	PhoneNumber  string `json:"phoneNumber"`
	Address      string `json:"address"`
	TenantSlug   string `json:"tenantSlug"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed. It matches ErrInvalidInput.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid onboarding input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// DirectoryCache is told about new tenants so a cached "unknown slug" answer
// does not outlive the tenant's creation.
type DirectoryCache interface {
	Forget(slug string)
}

type OnboardingService struct {
	tenants  domain.TenantStore
	reserved func(slug string) bool
	cache    DirectoryCache
	logger   *zap.Logger
}

// NewOnboardingService creates the service. reserved may be nil; it extends the
// built-in reserved list, typically with route and locale names.
func NewOnboardingService(tenants domain.TenantStore, reserved func(slug string) bool, logger *zap.Logger) *OnboardingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OnboardingService{tenants: tenants, reserved: reserved, logger: logger}
}

func (s *OnboardingService) SetDirectoryCache(c DirectoryCache) {
	s.cache = c
}

// Onboard creates a tenant owned by userID.
func (s *OnboardingService) Onboard(ctx context.Context, userID uuid.UUID, in OnboardingInput) (*domain.Tenant, *domain.Membership, error) {
	if userID == uuid.Nil {
		return nil, nil, ErrMissingUserID
	}
	in = normalizeInput(in)
	if err := ValidateOnboarding(in); err != nil {
		return nil, nil, err
	}
	if s.IsReserved(in.TenantSlug) {
		return nil, nil, ErrSlugReserved
	}

	t := &domain.Tenant{
		Slug:        in.TenantSlug,
		Name:        in.BusinessName,
		PhoneNumber: in.PhoneNumber,
		Address:     in.Address,
	}
	m, err := s.tenants.CreateWithOwner(ctx, t, userID)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, nil, ErrSlugTaken
		}
		return nil, nil, err
	}

	if s.cache != nil {
		s.cache.Forget(t.Slug)
	}
	s.logger.Info("tenant onboarded",
		zap.String("tenant_id", t.ID.String()),
		zap.String("slug", t.Slug),
		zap.String("user_id", userID.String()),
	)
	return t, m, nil
}

func (s *OnboardingService) IsReserved(slug string) bool {
	if _, ok := reservedSlugs[slug]; ok {
		return true
	}
	return s.reserved != nil && s.reserved(slug)
}

func normalizeInput(in OnboardingInput) OnboardingInput {
	return OnboardingInput{
		BusinessName: strings.TrimSpace(in.BusinessName),
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		Address:      strings.TrimSpace(in.Address),
		TenantSlug:   strings.TrimSpace(in.TenantSlug),
	}
}

// ValidateOnboarding checks field shapes only. Lengths count characters, not bytes.
func ValidateOnboarding(in OnboardingInput) error {
	var fields []FieldError
	check := func(field string, ok bool, msg string) {
		if !ok {
			fields = append(fields, FieldError{Field: field, Message: msg})
		}
	}

	check("businessName", between(in.BusinessName, 2, 100), "must be 2 to 100 characters")

	phoneLen := between(in.PhoneNumber, 10, 20)
	check("phoneNumber", phoneLen, "must be 10 to 20 characters")
	if phoneLen {
		check("phoneNumber", phonePattern.MatchString(in.PhoneNumber), "must be digits with an optional leading +")
	}

	check("address", between(in.Address, 10, 200), "must be 10 to 200 characters")

	slugLen := between(in.TenantSlug, 3, 30)
	check("tenantSlug", slugLen, "must be 3 to 30 characters")
	if slugLen {
		check("tenantSlug", domain.IsSlugSyntax(in.TenantSlug),
			"must be lowercase letters, digits and hyphens, not starting or ending with a hyphen")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func between(s string, lo, hi int) bool {
	n := utf8.RuneCountInString(s)
	return n >= lo && n <= hi
}
