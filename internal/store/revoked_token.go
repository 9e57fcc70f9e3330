package store

import (
	"context"
	"time"

	"github.com/phrazzld/projpool-api/internal/domain"
)

// RevokedTokenStore persists the identifiers of logged-out access tokens.
type RevokedTokenStore interface {
	// Revoke records a token identifier. Revoking twice is not an error.
	Revoke(ctx context.Context, token *domain.RevokedToken) error

	// IsRevoked reports whether the identifier has been revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// DeleteOlderThan removes records created before cutoff and returns how
	// many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
