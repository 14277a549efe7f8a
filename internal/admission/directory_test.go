package admission

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Harshitk-cp/menugate/internal/domain"
	"github.com/Harshitk-cp/menugate/internal/store"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDirectory is an in-memory TenantDirectory that counts lookups.
type fakeDirectory struct {
	mu      sync.Mutex
	tenants map[string]domain.TenantRef
	err     error
	panics  bool
	calls   int
}

func newFakeDirectory(slugs ...string) *fakeDirectory {
	d := &fakeDirectory{tenants: make(map[string]domain.TenantRef)}
	for _, s := range slugs {
		d.add(s)
	}
	return d
}

func (d *fakeDirectory) add(slug string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tenants[slug] = domain.TenantRef{ID: uuid.New(), Slug: slug}
}

func (d *fakeDirectory) setErr(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = err
}

func (d *fakeDirectory) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

func (d *fakeDirectory) FindBySlug(ctx context.Context, slug string) (*domain.TenantRef, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if d.panics {
		panic("directory exploded")
	}
	if d.err != nil {
		return nil, d.err
	}
	ref, ok := d.tenants[slug]
	if !ok {
		return nil, nil
	}
	return &ref, nil
}

type fakeTenantStore struct {
	tenants map[string]*domain.Tenant
	err     error
}

func (s *fakeTenantStore) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	if s.err != nil {
		return nil, s.err
	}
	t, ok := s.tenants[slug]
	if !ok {
		return nil, store.ErrNotFound
	}
	return t, nil
}

func (s *fakeTenantStore) CreateWithOwner(ctx context.Context, t *domain.Tenant, ownerID uuid.UUID) (*domain.Membership, error) {
	return nil, errors.New("not implemented")
}

func TestStoreDirectory_FindBySlug(t *testing.T) {
	id := uuid.New()
	s := &fakeTenantStore{tenants: map[string]*domain.Tenant{
		"bella-italia": {ID: id, Slug: "bella-italia", Name: "Bella Italia"},
	}}
	d := NewStoreDirectory(s)
	ctx := context.Background()

	ref, err := d.FindBySlug(ctx, "bella-italia")
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, domain.TenantRef{ID: id, Slug: "bella-italia", Name: "Bella Italia"}, *ref)

	ref, err = d.FindBySlug(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, ref)

	s.err = errors.New("connection refused")
	ref, err = d.FindBySlug(ctx, "bella-italia")
	assert.Error(t, err)
	assert.Nil(t, ref)
}

func TestCachedDirectory_CachesHits(t *testing.T) {
	next := newFakeDirectory("cafe")
	d := NewCachedDirectory(next, DefaultCacheConfig(), nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ref, err := d.FindBySlug(ctx, "cafe")
		require.NoError(t, err)
		require.NotNil(t, ref)
		assert.Equal(t, "cafe", ref.Slug)
	}
	assert.Equal(t, 1, next.callCount())
}

func TestCachedDirectory_NegativeCache(t *testing.T) {
	next := newFakeDirectory()
	d := NewCachedDirectory(next, CacheConfig{MissTTL: 20 * time.Millisecond}, nil)
	ctx := context.Background()

	ref, err := d.FindBySlug(ctx, "cafe")
	require.NoError(t, err)
	assert.Nil(t, ref)

	next.add("cafe")

	ref, err = d.FindBySlug(ctx, "cafe")
	require.NoError(t, err)
	assert.Nil(t, ref, "miss should still be cached")
	assert.Equal(t, 1, next.callCount())

	time.Sleep(50 * time.Millisecond)

	ref, err = d.FindBySlug(ctx, "cafe")
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, 2, next.callCount())
}

func TestCachedDirectory_Forget(t *testing.T) {
	next := newFakeDirectory()
	d := NewCachedDirectory(next, CacheConfig{MissTTL: time.Minute}, nil)
	ctx := context.Background()

	ref, err := d.FindBySlug(ctx, "cafe")
	require.NoError(t, err)
	assert.Nil(t, ref)

	next.add("cafe")
	d.Forget("cafe")

	ref, err = d.FindBySlug(ctx, "cafe")
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, "cafe", ref.Slug)
}

func TestCachedDirectory_ErrorsAreNotCached(t *testing.T) {
	next := newFakeDirectory("cafe")
	next.setErr(errors.New("timeout"))
	d := NewCachedDirectory(next, CacheConfig{MissTTL: time.Minute, BreakerFailures: 10}, nil)
	ctx := context.Background()

	_, err := d.FindBySlug(ctx, "cafe")
	require.Error(t, err)

	next.setErr(nil)
	ref, err := d.FindBySlug(ctx, "cafe")
	require.NoError(t, err)
	require.NotNil(t, ref)
}

func TestCachedDirectory_BreakerOpens(t *testing.T) {
	next := newFakeDirectory("cafe")
	next.setErr(errors.New("connection refused"))
	d := NewCachedDirectory(next, CacheConfig{BreakerFailures: 2, BreakerTimeout: time.Minute}, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := d.FindBySlug(ctx, "cafe")
		require.Error(t, err)
	}
	assert.Equal(t, 2, next.callCount())

	_, err := d.FindBySlug(ctx, "cafe")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, next.callCount(), "open breaker must not reach the directory")
}

func TestCachedDirectory_CanceledCallerDoesNotTrip(t *testing.T) {
	next := newFakeDirectory("cafe")
	next.setErr(context.Canceled)
	d := NewCachedDirectory(next, CacheConfig{BreakerFailures: 1, BreakerTimeout: time.Minute}, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := d.FindBySlug(ctx, "cafe")
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, 3, next.callCount())
}
