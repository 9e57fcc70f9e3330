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

// PostgresLabelStore implements store.LabelStore on PostgreSQL.
type PostgresLabelStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLabelStore creates a label store. If logger is nil, a default logger will be used.
func NewPostgresLabelStore(db store.DBTX, logger *slog.Logger) *PostgresLabelStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresLabelStore{
		db:     db,
		logger: logger.With(slog.String("component", "label_store")),
	}
}

var _ store.LabelStore = (*PostgresLabelStore)(nil)

// WithTx implements store.LabelStore.WithTx
func (s *PostgresLabelStore) WithTx(tx *sql.Tx) store.LabelStore {
	return &PostgresLabelStore{db: tx, logger: s.logger}
}

// Create implements store.LabelStore.Create
func (s *PostgresLabelStore) Create(ctx context.Context, l *domain.Label) error {
	if err := l.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO labels (id, project_id, text, created_at)
		VALUES ($1, $2, $3, $4)
	`, l.ID, l.ProjectID, l.Text, l.CreatedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: project with ID %s not found", store.ErrInvalidEntity, l.ProjectID)
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create label",
			slog.String("error", err.Error()),
			slog.String("project_id", l.ProjectID.String()))
		return MapError(err)
	}
	return nil
}

// GetForUser implements store.LabelStore.GetForUser
func (s *PostgresLabelStore) GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Label, error) {
	var l domain.Label
	err := s.db.QueryRowContext(ctx, `
		SELECT l.id, l.project_id, l.text, l.created_at
		FROM labels l
		JOIN projects p ON p.id = l.project_id
		WHERE l.id = $1 AND p.user_id = $2
	`, id, userID).Scan(&l.ID, &l.ProjectID, &l.Text, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrLabelNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get label",
			slog.String("error", err.Error()),
			slog.String("label_id", id.String()))
		return nil, MapError(err)
	}
	return &l, nil
}

// ListByProject implements store.LabelStore.ListByProject
func (s *PostgresLabelStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Label, error) {
	return s.list(ctx, `
		SELECT id, project_id, text, created_at
		FROM labels
		WHERE project_id = $1
		ORDER BY created_at, id
	`, projectID)
}

// ListByProjects implements store.LabelStore.ListByProjects
func (s *PostgresLabelStore) ListByProjects(ctx context.Context, projectIDs []uuid.UUID) ([]*domain.Label, error) {
	if len(projectIDs) == 0 {
		return []*domain.Label{}, nil
	}
	return s.list(ctx, `
		SELECT id, project_id, text, created_at
		FROM labels
		WHERE project_id = ANY($1)
		ORDER BY created_at, id
	`, projectIDs)
}

// CountByProject implements store.LabelStore.CountByProject
func (s *PostgresLabelStore) CountByProject(ctx context.Context, projectID uuid.UUID) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM labels WHERE project_id = $1`, projectID).Scan(&n); err != nil {
		return 0, MapError(err)
	}
	return n, nil
}

// Delete implements store.LabelStore.Delete
func (s *PostgresLabelStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM labels WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete label",
			slog.String("error", err.Error()),
			slog.String("label_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrLabelNotFound)
}

func (s *PostgresLabelStore) list(ctx context.Context, query string, args ...any) ([]*domain.Label, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list labels",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	labels := make([]*domain.Label, 0)
	for rows.Next() {
		var l domain.Label
		if err := rows.Scan(&l.ID, &l.ProjectID, &l.Text, &l.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		labels = append(labels, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return labels, nil
}
