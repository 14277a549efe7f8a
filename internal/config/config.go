package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by MENUGATE_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("MENUGATE_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Missing files are fine; the environment may already be populated.
	_ = godotenv.Load(envFile)
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// SessionSecret is the HS256 key for session tokens. Required.
func SessionSecret() string {
	return os.Getenv("SESSION_SECRET")
}

func SessionCookie() string {
	return envString("SESSION_COOKIE", "menugate_session")
}

// SessionTTL defaults to 30 days.
func SessionTTL() time.Duration {
	return envDuration("SESSION_TTL", 30*24*time.Hour)
}

// LocaleCookie names the cookie holding the visitor's last locale.
func LocaleCookie() string {
	return envString("LOCALE_COOKIE", "NEXT_LOCALE")
}

func DefaultLocale() string {
	return envString("DEFAULT_LOCALE", "en")
}

// Locales returns the supported locale codes, "en,ar" if not set.
func Locales() []string {
	return envList("LOCALES", []string{"en", "ar"})
}

// LocaleDetection enables Accept-Language negotiation when no locale is in the path or cookie.
func LocaleDetection() bool {
	return envBool("LOCALE_DETECTION", true)
}

// PlatformHosts lists the main-domain hosts, e.g. "menugate.app".
// Hosts not listed are resolved through the public suffix list.
func PlatformHosts() []string {
	return envList("PLATFORM_HOSTS", nil)
}

func SubdomainLocaleRedirect() bool {
	return envBool("SUBDOMAIN_LOCALE_REDIRECT", true)
}

// FallbackPolicy is "pass" or "not_found"; validated by the admission package.
func FallbackPolicy() string {
	return envString("FALLBACK_POLICY", "pass")
}

func TenantCacheSize() int {
	return envInt("TENANT_CACHE_SIZE", 4096)
}

func TenantCacheTTL() time.Duration {
	return envDuration("TENANT_CACHE_TTL", 5*time.Minute)
}

// TenantMissTTL is how long an unknown slug is remembered. "0s" disables it.
func TenantMissTTL() time.Duration {
	v := os.Getenv("TENANT_MISS_TTL")
	if v == "" {
		return 10 * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 10 * time.Second
	}
	return d
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	return envInt("RATE_LIMIT_BURST", 20)
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	return envString("LOG_LEVEL", "info")
}

func CookieSecure() bool {
	return envBool("COOKIE_SECURE", false)
}

// CookieDomain scopes session cookies, e.g. ".menugate.app" to share them with subdomains.
func CookieDomain() string {
	return os.Getenv("COOKIE_DOMAIN")
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func envList(key string, def []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
