package domain

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Tenant is a restaurant account. Slug is unique and never changes after onboarding.
type Tenant struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number"`
	Address     string    `json:"address"`
	Email       string    `json:"email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TenantRef is what the tenant directory resolves and caches: identity plus the
// public profile pages render, so an admitted request needs no second lookup.
type TenantRef struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	PhoneNumber string    `json:"phone_number"`
}

func (t *Tenant) Ref() TenantRef {
	return TenantRef{
		ID:          t.ID,
		Slug:        t.Slug,
		Name:        t.Name,
		Address:     t.Address,
		PhoneNumber: t.PhoneNumber,
	}
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// IsSlugSyntax reports whether s has the shape of a slug: lowercase letters,
// digits and inner hyphens, at most 63 characters so it fits a DNS label.
// Length rules for new tenants are stricter and live in onboarding.
func IsSlugSyntax(s string) bool {
	return len(s) <= 63 && slugPattern.MatchString(s)
}
