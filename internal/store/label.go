package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/projpool-api/internal/domain"
)

// LabelStore defines the interface for label data persistence.
type LabelStore interface {
	// Create saves a new label.
	Create(ctx context.Context, label *domain.Label) error

	// GetForUser retrieves a label whose project is owned by userID.
	// Returns ErrLabelNotFound otherwise.
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Label, error)

	// ListByProject returns a project's labels in creation order.
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Label, error)

	// ListByProjects returns the labels of several projects in creation order.
	ListByProjects(ctx context.Context, projectIDs []uuid.UUID) ([]*domain.Label, error)

	// CountByProject returns how many labels a project has.
	CountByProject(ctx context.Context, projectID uuid.UUID) (int, error)

	// Delete removes a label and its refinements.
	// Returns ErrLabelNotFound if the label does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new LabelStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) LabelStore
}
