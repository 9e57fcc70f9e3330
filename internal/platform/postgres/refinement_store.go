package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/projpool-api/internal/domain"
	"github.com/phrazzld/projpool-api/internal/platform/logger"
	"github.com/phrazzld/projpool-api/internal/store"
)

// PostgresRefinementStore implements store.RefinementStore on PostgreSQL.
// Rows live in the refined_labels table.
type PostgresRefinementStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRefinementStore creates a refinement store. If logger is nil, a default logger will be used.
func NewPostgresRefinementStore(db store.DBTX, logger *slog.Logger) *PostgresRefinementStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresRefinementStore{
		db:     db,
		logger: logger.With(slog.String("component", "refinement_store")),
	}
}

var _ store.RefinementStore = (*PostgresRefinementStore)(nil)

// WithTx implements store.RefinementStore.WithTx
func (s *PostgresRefinementStore) WithTx(tx *sql.Tx) store.RefinementStore {
	return &PostgresRefinementStore{db: tx, logger: s.logger}
}

// Create implements store.RefinementStore.Create
func (s *PostgresRefinementStore) Create(ctx context.Context, r *domain.Refinement) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO refined_labels (id, label_id, difficulty, generated_text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.ID, r.LabelID, string(r.Difficulty), r.GeneratedText, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create refinement",
			slog.String("error", err.Error()),
			slog.String("label_id", r.LabelID.String()),
			slog.String("difficulty", string(r.Difficulty)))
		return MapError(err)
	}
	return nil
}

// GetForUser implements store.RefinementStore.GetForUser
func (s *PostgresRefinementStore) GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Refinement, error) {
	var r domain.Refinement
	var difficulty string
	err := s.db.QueryRowContext(ctx, `
		SELECT r.id, r.label_id, r.difficulty, r.generated_text, r.created_at, r.updated_at
		FROM refined_labels r
		JOIN labels l ON l.id = r.label_id
		JOIN projects p ON p.id = l.project_id
		WHERE r.id = $1 AND p.user_id = $2
	`, id, userID).Scan(&r.ID, &r.LabelID, &difficulty, &r.GeneratedText, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrRefinementNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get refinement",
			slog.String("error", err.Error()),
			slog.String("refinement_id", id.String()))
		return nil, MapError(err)
	}
	r.Difficulty = domain.Difficulty(difficulty)
	return &r, nil
}

// ListByLabels implements store.RefinementStore.ListByLabels
func (s *PostgresRefinementStore) ListByLabels(ctx context.Context, labelIDs []uuid.UUID) ([]*domain.Refinement, error) {
	if len(labelIDs) == 0 {
		return []*domain.Refinement{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, label_id, difficulty, generated_text, created_at, updated_at
		FROM refined_labels
		WHERE label_id = ANY($1)
		ORDER BY label_id,
			CASE difficulty WHEN 'simple' THEN 0 WHEN 'intermediate' THEN 1 ELSE 2 END
	`, labelIDs)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list refinements",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	refinements := make([]*domain.Refinement, 0, len(labelIDs)*len(domain.Difficulties()))
	for rows.Next() {
		var r domain.Refinement
		var difficulty string
		if err := rows.Scan(&r.ID, &r.LabelID, &difficulty, &r.GeneratedText, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, MapError(err)
		}
		r.Difficulty = domain.Difficulty(difficulty)
		refinements = append(refinements, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return refinements, nil
}

// Update implements store.RefinementStore.Update
func (s *PostgresRefinementStore) Update(ctx context.Context, r *domain.Refinement) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE refined_labels
		SET generated_text = $1, updated_at = $2
		WHERE id = $3
	`, r.GeneratedText, r.UpdatedAt, r.ID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update refinement",
			slog.String("error", err.Error()),
			slog.String("refinement_id", r.ID.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrRefinementNotFound)
}
