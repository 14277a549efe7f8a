package admission

import (
	"context"
	"errors"
	"time"

	"github.com/Harshitk-cp/menugate/internal/domain"
	"github.com/Harshitk-cp/menugate/internal/store"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// TenantDirectory answers "does a tenant with this slug exist".
// A nil ref with a nil error means not found.
type TenantDirectory interface {
	FindBySlug(ctx context.Context, slug string) (*domain.TenantRef, error)
}

// StoreDirectory adapts a TenantStore to TenantDirectory.
type StoreDirectory struct {
	store domain.TenantStore
}

func NewStoreDirectory(s domain.TenantStore) *StoreDirectory {
	return &StoreDirectory{store: s}
}

func (d *StoreDirectory) FindBySlug(ctx context.Context, slug string) (*domain.TenantRef, error) {
	t, err := d.store.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	ref := t.Ref()
	return &ref, nil
}

type CacheConfig struct {
	Size int
	TTL  time.Duration
	// MissTTL bounds how long an unknown slug is remembered. Zero disables negative caching.
	MissTTL time.Duration
	// BreakerFailures consecutive lookup errors open the breaker for BreakerTimeout.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Size:            4096,
		TTL:             5 * time.Minute,
		MissTTL:         10 * time.Second,
		BreakerFailures: 5,
		BreakerTimeout:  30 * time.Second,
	}
}

// CachedDirectory fronts another directory with an expiring LRU and a circuit
// breaker. Slugs never change once created, so positive entries only expire to
// bound memory. Lookups are never retried; an open breaker fails immediately.
type CachedDirectory struct {
	next    TenantDirectory
	hits    *expirable.LRU[string, domain.TenantRef]
	misses  *expirable.LRU[string, struct{}]
	breaker *gobreaker.CircuitBreaker[*domain.TenantRef]
	logger  *zap.Logger
}

func NewCachedDirectory(next TenantDirectory, cfg CacheConfig, logger *zap.Logger) *CachedDirectory {
	if logger == nil {
		logger = zap.NewNop()
	}
	def := DefaultCacheConfig()
	if cfg.Size <= 0 {
		cfg.Size = def.Size
	}
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = def.BreakerFailures
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = def.BreakerTimeout
	}

	d := &CachedDirectory{
		next:   next,
		hits:   expirable.NewLRU[string, domain.TenantRef](cfg.Size, nil, cfg.TTL),
		logger: logger,
	}
	if cfg.MissTTL > 0 {
		d.misses = expirable.NewLRU[string, struct{}](cfg.Size, nil, cfg.MissTTL)
	}

	failures := cfg.BreakerFailures
	d.breaker = gobreaker.NewCircuitBreaker[*domain.TenantRef](gobreaker.Settings{
		Name:    "tenant-directory",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// A caller going away says nothing about the database.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return d
}

func (d *CachedDirectory) FindBySlug(ctx context.Context, slug string) (*domain.TenantRef, error) {
	if ref, ok := d.hits.Get(slug); ok {
		return &ref, nil
	}
	if d.misses != nil {
		if _, ok := d.misses.Get(slug); ok {
			return nil, nil
		}
	}

	ref, err := d.breaker.Execute(func() (*domain.TenantRef, error) {
		return d.next.FindBySlug(ctx, slug)
	})
	if err != nil {
		return nil, err
	}
	if ref == nil {
		if d.misses != nil {
			d.misses.Add(slug, struct{}{})
		}
		return nil, nil
	}
	d.hits.Add(slug, *ref)
	return ref, nil
}

// Forget drops any cached answer for slug, e.g. after the tenant was created.
func (d *CachedDirectory) Forget(slug string) {
	d.hits.Remove(slug)
	if d.misses != nil {
		d.misses.Remove(slug)
	}
}
