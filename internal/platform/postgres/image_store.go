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

const imageColumns = `id, project_id, filename, gcs_path, content_type, created_at`

// PostgresImageStore implements store.ImageStore on PostgreSQL.
type PostgresImageStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresImageStore creates an image store. If logger is nil, a default logger will be used.
func NewPostgresImageStore(db store.DBTX, logger *slog.Logger) *PostgresImageStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresImageStore{
		db:     db,
		logger: logger.With(slog.String("component", "image_store")),
	}
}

var _ store.ImageStore = (*PostgresImageStore)(nil)

// WithTx implements store.ImageStore.WithTx
func (s *PostgresImageStore) WithTx(tx *sql.Tx) store.ImageStore {
	return &PostgresImageStore{db: tx, logger: s.logger}
}

// Create implements store.ImageStore.Create
func (s *PostgresImageStore) Create(ctx context.Context, img *domain.Image) error {
	if err := img.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO images (id, project_id, filename, gcs_path, content_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, img.ID, img.ProjectID, img.Filename, img.ObjectPath, img.ContentType, img.CreatedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: project with ID %s not found", store.ErrInvalidEntity, img.ProjectID)
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create image",
			slog.String("error", err.Error()),
			slog.String("project_id", img.ProjectID.String()))
		return MapError(err)
	}
	return nil
}

// GetForUser implements store.ImageStore.GetForUser
func (s *PostgresImageStore) GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Image, error) {
	var img domain.Image
	err := s.db.QueryRowContext(ctx, `
		SELECT i.id, i.project_id, i.filename, i.gcs_path, i.content_type, i.created_at
		FROM images i
		JOIN projects p ON p.id = i.project_id
		WHERE i.id = $1 AND p.user_id = $2
	`, id, userID).Scan(&img.ID, &img.ProjectID, &img.Filename, &img.ObjectPath, &img.ContentType, &img.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrImageNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get image",
			slog.String("error", err.Error()),
			slog.String("image_id", id.String()))
		return nil, MapError(err)
	}
	return &img, nil
}

// ListByProject implements store.ImageStore.ListByProject
func (s *PostgresImageStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Image, error) {
	return s.list(ctx, `
		SELECT `+imageColumns+`
		FROM images
		WHERE project_id = $1
		ORDER BY created_at, id
	`, projectID)
}

// ListByProjects implements store.ImageStore.ListByProjects
func (s *PostgresImageStore) ListByProjects(ctx context.Context, projectIDs []uuid.UUID) ([]*domain.Image, error) {
	if len(projectIDs) == 0 {
		return []*domain.Image{}, nil
	}
	return s.list(ctx, `
		SELECT `+imageColumns+`
		FROM images
		WHERE project_id = ANY($1)
		ORDER BY created_at, id
	`, projectIDs)
}

// CountByProject implements store.ImageStore.CountByProject
func (s *PostgresImageStore) CountByProject(ctx context.Context, projectID uuid.UUID) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM images WHERE project_id = $1`, projectID).Scan(&n); err != nil {
		return 0, MapError(err)
	}
	return n, nil
}

// ListPathsByUser implements store.ImageStore.ListPathsByUser
func (s *PostgresImageStore) ListPathsByUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.gcs_path
		FROM images i
		JOIN projects p ON p.id = i.project_id
		WHERE p.user_id = $1
	`, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	paths := make([]string, 0)
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, MapError(err)
		}
		paths = append(paths, path)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return paths, nil
}

// Delete implements store.ImageStore.Delete
func (s *PostgresImageStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM images WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete image",
			slog.String("error", err.Error()),
			slog.String("image_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrImageNotFound)
}

func (s *PostgresImageStore) list(ctx context.Context, query string, args ...any) ([]*domain.Image, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list images",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	images := make([]*domain.Image, 0)
	for rows.Next() {
		var img domain.Image
		if err := rows.Scan(&img.ID, &img.ProjectID, &img.Filename, &img.ObjectPath, &img.ContentType, &img.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		images = append(images, &img)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return images, nil
}
