package admission

import "github.com/Harshitk-cp/menugate/internal/domain"

type Kind int

const (
	KindPassThrough Kind = iota
	KindRedirect
	KindRewrite
	KindNotFound
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindPassThrough:
		return "pass_through"
	case KindRedirect:
		return "redirect"
	case KindRewrite:
		return "rewrite"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Reason names the decision-table row that produced a verdict.
type Reason string

const (
	ReasonPublic           Reason = "public"
	ReasonAuthPage         Reason = "auth_page"
	ReasonPostLoginLanding Reason = "post_login_landing"
	ReasonPostLoginOnboard Reason = "post_login_onboarding"
	ReasonLoginWall        Reason = "login_wall"
	ReasonOnboardingWall   Reason = "onboarding_wall"
	ReasonMember           Reason = "member"
	ReasonNoMembership     Reason = "no_membership"
	ReasonUnknownTenant    Reason = "unknown_tenant"
	ReasonDirectoryFailure Reason = "directory_failure"
	ReasonPrivateSubdomain Reason = "private_on_subdomain"
	ReasonSubdomainRewrite Reason = "subdomain_rewrite"
	ReasonLocalePrefix     Reason = "locale_prefix"
	ReasonPlatform         Reason = "platform"
	ReasonFallbackPass     Reason = "fallback_pass"
	ReasonFallbackNotFound Reason = "fallback_not_found"
	ReasonInvariant        Reason = "invariant_violation"
)

// ForbiddenContext is shown on the 403 page as a recovery aid.
type ForbiddenContext struct {
	AttemptedTenant string   `json:"tenant"`
	Tenants         []string `json:"tenants"`
}

// Verdict is the admission outcome for one request.
type Verdict struct {
	Kind   Kind
	Reason Reason
	// Target is the redirect location or the rewritten path, with query.
	Target string
	Locale domain.Locale
	// Route is the classification of the path the page handler will serve;
	// for rewrites that is the canonical main-domain path.
	Route Classification
	// Tenant and Role are set once a tenant has been resolved (Role only for members).
	Tenant    *domain.TenantRef
	Role      domain.Role
	Forbidden *ForbiddenContext
	Subdomain bool
}

func passThrough(reason Reason) Verdict {
	return Verdict{Kind: KindPassThrough, Reason: reason}
}

func redirect(target string, reason Reason) Verdict {
	return Verdict{Kind: KindRedirect, Target: target, Reason: reason}
}

func rewrite(target string, reason Reason) Verdict {
	return Verdict{Kind: KindRewrite, Target: target, Reason: reason}
}

func notFound(reason Reason) Verdict {
	return Verdict{Kind: KindNotFound, Reason: reason}
}

func forbidden(ctx ForbiddenContext, reason Reason) Verdict {
	return Verdict{Kind: KindForbidden, Forbidden: &ctx, Reason: reason}
}
