package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/projpool-api/internal/domain"
	"github.com/phrazzld/projpool-api/internal/platform/logger"
	"github.com/phrazzld/projpool-api/internal/store"
)

// DefaultNegativeCacheTTL bounds how long a "not revoked" answer is cached.
const DefaultNegativeCacheTTL = time.Minute

// RevocationCache is a fast lookaside for revocation state.
type RevocationCache interface {
	// Get returns the cached state and whether an entry was present.
	Get(ctx context.Context, jti string) (revoked bool, found bool, err error)

	// Set stores the state for ttl, replacing any entry.
	Set(ctx context.Context, jti string, revoked bool, ttl time.Duration) error

	// SetIfAbsent stores the state for ttl only when no entry exists and
	// reports whether it was stored.
	SetIfAbsent(ctx context.Context, jti string, revoked bool, ttl time.Duration) (bool, error)

	// Delete removes any entry for jti.
	Delete(ctx context.Context, jti string) error
}

// Revocations records logged-out tokens and answers whether a token was revoked.
// PostgreSQL is authoritative; the cache is optional.
type Revocations struct {
	store       store.RevokedTokenStore
	cache       RevocationCache
	negativeTTL time.Duration
	timeFunc    func() time.Time
	logger      *slog.Logger
}

// NewRevocations creates a Revocations checker. cache may be nil.
func NewRevocations(tokens store.RevokedTokenStore, cache RevocationCache, logger *slog.Logger) *Revocations {
	if tokens == nil {
		panic("revoked token store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Revocations{
		store:       tokens,
		cache:       cache,
		negativeTTL: DefaultNegativeCacheTTL,
		timeFunc:    time.Now,
		logger:      logger.With(slog.String("component", "revocations")),
	}
}

// Revoke records the token's jti. Revoking an already revoked token succeeds.
func (r *Revocations) Revoke(ctx context.Context, claims *Claims) error {
	log := logger.FromContextOrDefault(ctx, r.logger)

	token, err := domain.NewRevokedToken(claims.ID)
	if err != nil {
		return err
	}
	if err := r.store.Revoke(ctx, token); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	if r.cache == nil {
		return nil
	}
	if err := r.cache.Set(ctx, claims.ID, true, r.remaining(claims)); err != nil {
		// A stale negative entry must not outlive the revocation.
		log.Warn("failed to cache revoked token", slog.String("error", err.Error()))
		if delErr := r.cache.Delete(ctx, claims.ID); delErr != nil {
			log.Error("failed to evict revocation cache entry",
				slog.String("error", delErr.Error()))
		}
	}
	return nil
}

// IsRevoked reports whether the token has been revoked.
func (r *Revocations) IsRevoked(ctx context.Context, claims *Claims) (bool, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	if r.cache != nil {
		revoked, found, err := r.cache.Get(ctx, claims.ID)
		switch {
		case err != nil:
			log.Warn("revocation cache lookup failed, using database",
				slog.String("error", err.Error()))
		case found:
			return revoked, nil
		}
	}

	revoked, err := r.store.IsRevoked(ctx, claims.ID)
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}

	if r.cache != nil {
		r.backfill(ctx, log, claims, revoked)
	}

	return revoked, nil
}

// backfill caches a database answer. A negative answer is written only when
// no entry exists, so a concurrent Revoke that already cached the token as
// revoked is never overwritten.
func (r *Revocations) backfill(ctx context.Context, log *slog.Logger, claims *Claims, revoked bool) {
	var err error
	if revoked {
		err = r.cache.Set(ctx, claims.ID, true, r.remaining(claims))
	} else {
		_, err = r.cache.SetIfAbsent(ctx, claims.ID, false, r.negativeTTL)
	}
	if err != nil {
		log.Debug("failed to back-fill revocation cache", slog.String("error", err.Error()))
	}
}

// remaining returns how long the token stays otherwise valid.
func (r *Revocations) remaining(claims *Claims) time.Duration {
	ttl := claims.ExpiresAt.Sub(r.timeFunc())
	if ttl < r.negativeTTL {
		return r.negativeTTL
	}
	return ttl
}
