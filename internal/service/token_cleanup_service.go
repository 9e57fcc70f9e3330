package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/projpool-api/internal/metrics"
	"github.com/phrazzld/projpool-api/internal/platform/logger"
	"github.com/phrazzld/projpool-api/internal/store"
)

// TokenCleanupService removes revocation records that can no longer matter.
type TokenCleanupService struct {
	tokens   store.RevokedTokenStore
	lifetime time.Duration
	timeFunc func() time.Time
	logger   *slog.Logger
}

// NewTokenCleanupService creates a TokenCleanupService. A record older than
// lifetime belongs to a token that has expired anyway.
func NewTokenCleanupService(
	tokens store.RevokedTokenStore,
	lifetime time.Duration,
	logger *slog.Logger,
) (*TokenCleanupService, error) {
	if tokens == nil {
		return nil, errNilDependency("revoked token store")
	}
	if lifetime <= 0 {
		return nil, errors.New("token lifetime must be positive")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TokenCleanupService{
		tokens:   tokens,
		lifetime: lifetime,
		timeFunc: time.Now,
		logger:   logger.With(slog.String("component", "token_cleanup_service")),
	}, nil
}

// Cleanup deletes revoked-token records older than the token lifetime and
// returns how many were removed.
func (s *TokenCleanupService) Cleanup(ctx context.Context) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	cutoff := s.timeFunc().UTC().Add(-s.lifetime)

	deleted, err := s.tokens.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		log.Error("failed to clean up revoked tokens",
			slog.Time("cutoff", cutoff),
			slog.String("error", err.Error()))
		return 0, NewServiceError("token cleanup", "cleanup", "failed to delete revoked tokens", err)
	}

	metrics.AddRevokedTokensCleaned(deleted)
	log.Info("revoked tokens cleaned up",
		slog.Time("cutoff", cutoff),
		slog.Int64("deleted", deleted))

	return deleted, nil
}
