package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/projpool-api/internal/domain"
	"github.com/phrazzld/projpool-api/internal/platform/logger"
	"github.com/phrazzld/projpool-api/internal/store"
)

// PostgresRevokedTokenStore implements store.RevokedTokenStore on PostgreSQL.
type PostgresRevokedTokenStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRevokedTokenStore creates a revoked token store.
func NewPostgresRevokedTokenStore(db store.DBTX, logger *slog.Logger) *PostgresRevokedTokenStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresRevokedTokenStore{
		db:     db,
		logger: logger.With(slog.String("component", "revoked_token_store")),
	}
}

var _ store.RevokedTokenStore = (*PostgresRevokedTokenStore)(nil)

// Revoke implements store.RevokedTokenStore.Revoke
func (s *PostgresRevokedTokenStore) Revoke(ctx context.Context, token *domain.RevokedToken) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO revoked_tokens (jti, created_at)
		VALUES ($1, $2)
		ON CONFLICT (jti) DO NOTHING
	`, token.JTI, token.CreatedAt)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to revoke token",
			slog.String("error", err.Error()))
		return MapError(err)
	}
	return nil
}

// IsRevoked implements store.RevokedTokenStore.IsRevoked
func (s *PostgresRevokedTokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)`, jti).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", MapError(err))
	}
	return revoked, nil
}

// DeleteOlderThan implements store.RevokedTokenStore.DeleteOlderThan
func (s *PostgresRevokedTokenStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, MapError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("deleted expired revoked tokens",
		slog.Int64("count", n),
		slog.Time("cutoff", cutoff))
	return n, nil
}
