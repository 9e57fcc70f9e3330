package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/phrazzld/projpool-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokenStore struct {
	revoked map[string]bool
	lookups int
	err     error
}

func (f *fakeTokenStore) Revoke(_ context.Context, token *domain.RevokedToken) error {
	if f.err != nil {
		return f.err
	}
	f.revoked[token.JTI] = true
	return nil
}

func (f *fakeTokenStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	f.lookups++
	if f.err != nil {
		return false, f.err
	}
	return f.revoked[jti], nil
}

func (f *fakeTokenStore) DeleteOlderThan(context.Context, time.Time) (int64, error) {
	return 0, nil
}

// racingTokenStore runs afterRead once its database answer has been taken,
// standing in for a logout that commits while a request is being checked.
type racingTokenStore struct {
	*fakeTokenStore
	afterRead func()
}

func (s *racingTokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	revoked, err := s.fakeTokenStore.IsRevoked(ctx, jti)
	if s.afterRead != nil {
		hook := s.afterRead
		s.afterRead = nil
		hook()
	}
	return revoked, err
}

type cacheEntry struct {
	revoked bool
	ttl     time.Duration
}

type fakeCache struct {
	entries map[string]cacheEntry
	getErr  error
	setErr  error
	deleted []string
}

func (f *fakeCache) Get(_ context.Context, jti string) (bool, bool, error) {
	if f.getErr != nil {
		return false, false, f.getErr
	}
	e, ok := f.entries[jti]
	return e.revoked, ok, nil
}

func (f *fakeCache) Set(_ context.Context, jti string, revoked bool, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[jti] = cacheEntry{revoked: revoked, ttl: ttl}
	return nil
}

func (f *fakeCache) SetIfAbsent(_ context.Context, jti string, revoked bool, ttl time.Duration) (bool, error) {
	if f.setErr != nil {
		return false, f.setErr
	}
	if _, ok := f.entries[jti]; ok {
		return false, nil
	}
	f.entries[jti] = cacheEntry{revoked: revoked, ttl: ttl}
	return true, nil
}

func (f *fakeCache) Delete(_ context.Context, jti string) error {
	f.deleted = append(f.deleted, jti)
	delete(f.entries, jti)
	return nil
}

func newFakes() (*fakeTokenStore, *fakeCache) {
	return &fakeTokenStore{revoked: map[string]bool{}}, &fakeCache{entries: map[string]cacheEntry{}}
}

func testClaims(now time.Time) *Claims {
	return &Claims{ID: "jti-1", ExpiresAt: now.Add(30 * time.Minute)}
}

func TestRevocationsWithoutCache(t *testing.T) {
	t.Parallel()

	tokens, _ := newFakes()
	r := NewRevocations(tokens, nil, nil)
	claims := testClaims(time.Now())

	revoked, err := r.IsRevoked(context.Background(), claims)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(context.Background(), claims))
	require.NoError(t, r.Revoke(context.Background(), claims), "revoking twice succeeds")

	revoked, err = r.IsRevoked(context.Background(), claims)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRevocationsRevokeCachesForRemainingLifetime(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokens, cache := newFakes()
	r := NewRevocations(tokens, cache, nil)
	r.timeFunc = func() time.Time { return now }

	require.NoError(t, r.Revoke(context.Background(), testClaims(now)))

	assert.True(t, tokens.revoked["jti-1"])
	assert.Equal(t, cacheEntry{revoked: true, ttl: 30 * time.Minute}, cache.entries["jti-1"])
}

func TestRevocationsRevokeEvictsWhenCacheWriteFails(t *testing.T) {
	t.Parallel()

	tokens, cache := newFakes()
	cache.entries["jti-1"] = cacheEntry{revoked: false, ttl: time.Minute}
	cache.setErr = errors.New("redis down")
	r := NewRevocations(tokens, cache, nil)

	require.NoError(t, r.Revoke(context.Background(), testClaims(time.Now())))
	assert.Equal(t, []string{"jti-1"}, cache.deleted)
	assert.NotContains(t, cache.entries, "jti-1")
}

func TestRevocationsRevokeStoreFailure(t *testing.T) {
	t.Parallel()

	tokens, cache := newFakes()
	tokens.err = errors.New("db down")
	r := NewRevocations(tokens, cache, nil)

	err := r.Revoke(context.Background(), testClaims(time.Now()))
	require.Error(t, err)
	assert.Empty(t, cache.entries, "cache is untouched when the database write fails")
}

func TestRevocationsRevokeRejectsEmptyJTI(t *testing.T) {
	t.Parallel()

	tokens, _ := newFakes()
	r := NewRevocations(tokens, nil, nil)

	err := r.Revoke(context.Background(), &Claims{})
	assert.ErrorIs(t, err, domain.ErrInvalidJTI)
}

func TestRevocationsIsRevokedUsesCache(t *testing.T) {
	t.Parallel()

	tokens, cache := newFakes()
	cache.entries["jti-1"] = cacheEntry{revoked: true, ttl: time.Minute}
	r := NewRevocations(tokens, cache, nil)

	revoked, err := r.IsRevoked(context.Background(), testClaims(time.Now()))
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Zero(t, tokens.lookups)
}

func TestRevocationsIsRevokedBackfillsCache(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("negative", func(t *testing.T) {
		t.Parallel()
		tokens, cache := newFakes()
		r := NewRevocations(tokens, cache, nil)
		r.timeFunc = func() time.Time { return now }

		revoked, err := r.IsRevoked(context.Background(), testClaims(now))
		require.NoError(t, err)
		assert.False(t, revoked)
		assert.Equal(t, cacheEntry{revoked: false, ttl: DefaultNegativeCacheTTL}, cache.entries["jti-1"])
	})

	t.Run("positive", func(t *testing.T) {
		t.Parallel()
		tokens, cache := newFakes()
		tokens.revoked["jti-1"] = true
		r := NewRevocations(tokens, cache, nil)
		r.timeFunc = func() time.Time { return now }

		revoked, err := r.IsRevoked(context.Background(), testClaims(now))
		require.NoError(t, err)
		assert.True(t, revoked)
		assert.Equal(t, cacheEntry{revoked: true, ttl: 30 * time.Minute}, cache.entries["jti-1"])
	})
}

func TestRevocationsIsRevokedFallsBackOnCacheError(t *testing.T) {
	t.Parallel()

	tokens, cache := newFakes()
	tokens.revoked["jti-1"] = true
	cache.getErr = errors.New("redis down")
	r := NewRevocations(tokens, cache, nil)

	revoked, err := r.IsRevoked(context.Background(), testClaims(time.Now()))
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, 1, tokens.lookups)
}

func TestRevocationsIsRevokedStoreError(t *testing.T) {
	t.Parallel()

	tokens, _ := newFakes()
	tokens.err = errors.New("db down")
	r := NewRevocations(tokens, nil, nil)

	_, err := r.IsRevoked(context.Background(), testClaims(time.Now()))
	assert.Error(t, err)
}

func TestRevocationsBackfillDoesNotOverwriteConcurrentRevoke(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokens, cache := newFakes()
	racing := &racingTokenStore{fakeTokenStore: tokens}
	r := NewRevocations(racing, cache, nil)
	r.timeFunc = func() time.Time { return now }
	claims := testClaims(now)

	racing.afterRead = func() {
		require.NoError(t, r.Revoke(context.Background(), claims))
	}

	revoked, err := r.IsRevoked(context.Background(), claims)
	require.NoError(t, err)
	assert.False(t, revoked, "the in-flight check saw the pre-logout state")
	assert.True(t, tokens.revoked["jti-1"])
	assert.Equal(t, cacheEntry{revoked: true, ttl: 30 * time.Minute}, cache.entries["jti-1"])

	revoked, err = r.IsRevoked(context.Background(), claims)
	require.NoError(t, err)
	assert.True(t, revoked, "later requests with the logged-out token are rejected")
}
