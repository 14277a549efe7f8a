package admission

import (
	"net"
	"strings"

	"golang.org/x/net/publicsuffix"
)

const localDevSuffix = ".localhost"

// HostParser extracts the tenant candidate from a request host.
type HostParser struct {
	platformHosts []string
}

// NewHostParser returns a parser that treats the given hosts (and "www." in
// front of them) as the platform's main domain. Subdomains of a platform host are
// resolved against it directly; any other host falls back to public-suffix parsing.
func NewHostParser(platformHosts ...string) *HostParser {
	p := &HostParser{}
	for _, h := range platformHosts {
		h = normalizeHost(h)
		if h != "" {
			p.platformHosts = append(p.platformHosts, h)
		}
	}
	return p
}

// Parse returns the tenant candidate for host, or "" when the request targets
// the main domain. It never fails: anything it cannot make sense of yields "".
func (p *HostParser) Parse(host string) string {
	host = normalizeHost(host)
	if host == "" || net.ParseIP(host) != nil {
		return ""
	}

	// bella-italia.localhost:3000
	if strings.HasSuffix(host, localDevSuffix) {
		return firstLabel(strings.TrimSuffix(host, localDevSuffix))
	}

	for _, ph := range p.platformHosts {
		if host == ph {
			return ""
		}
		if strings.HasSuffix(host, "."+ph) {
			return tenantLabel(strings.TrimSuffix(host, "."+ph))
		}
	}

	apex, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil || apex == host {
		return ""
	}
	// Preview hosts put several labels in front of the apex; only the first one names the tenant.
	return tenantLabel(strings.TrimSuffix(host, "."+apex))
}

// tenantLabel treats a leading "www" as the main domain even when more labels
// follow, so www.bella.menugate.app is not the tenant "bella". "www" is a reserved
// slug, so no tenant can own it either way.
func tenantLabel(sub string) string {
	label := firstLabel(sub)
	if label == "www" {
		return ""
	}
	return label
}

func firstLabel(sub string) string {
	label, _, _ := strings.Cut(sub, ".")
	if !isHostLabel(label) {
		return ""
	}
	return label
}

func isHostLabel(s string) bool {
	if s == "" || len(s) > 63 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-':
		default:
			return false
		}
	}
	return true
}

// normalizeHost lowercases host and strips the port and any trailing dot.
func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return ""
	}
	if strings.HasPrefix(host, "[") {
		// IPv6 literal, never a tenant.
		return ""
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	} else if strings.Count(host, ":") == 1 {
		host, _, _ = strings.Cut(host, ":")
	}
	return strings.TrimSuffix(host, ".")
}
