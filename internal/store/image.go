package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/projpool-api/internal/domain"
)

// ImageStore defines the interface for image metadata persistence.
// The image bytes themselves live in object storage.
type ImageStore interface {
	// Create saves image metadata.
	// Returns ErrDuplicate if the object path is already recorded.
	Create(ctx context.Context, image *domain.Image) error

	// GetForUser retrieves an image whose project is owned by userID.
	// Returns ErrImageNotFound otherwise.
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Image, error)

	// ListByProject returns a project's images in upload order.
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Image, error)

	// ListByProjects returns the images of several projects in upload order.
	ListByProjects(ctx context.Context, projectIDs []uuid.UUID) ([]*domain.Image, error)

	// CountByProject returns how many images a project has.
	CountByProject(ctx context.Context, projectID uuid.UUID) (int, error)

	// ListPathsByUser returns the object paths of every image in the user's projects.
	ListPathsByUser(ctx context.Context, userID uuid.UUID) ([]string, error)

	// Delete removes image metadata.
	// Returns ErrImageNotFound if the image does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new ImageStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ImageStore
}
