package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/projpool-api/internal/domain"
)

// ProjectStore defines the interface for project data persistence.
type ProjectStore interface {
	// Create saves a new project.
	// Returns ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, project *domain.Project) error

	// GetByID retrieves a project regardless of owner.
	// Returns ErrProjectNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)

	// GetForUser retrieves a project owned by userID.
	// Returns ErrProjectNotFound if it does not exist or belongs to someone else.
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Project, error)

	// LockForUser takes a row lock on a project owned by userID for the rest
	// of the enclosing transaction. Returns ErrProjectNotFound otherwise.
	LockForUser(ctx context.Context, id, userID uuid.UUID) error

	// ListByUser returns the user's projects, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error)

	// ListPublic returns all projects, newest first.
	ListPublic(ctx context.Context, limit, offset int) ([]*domain.Project, error)

	// Update persists name, description and updated_at.
	// Returns ErrProjectNotFound if the project does not exist.
	Update(ctx context.Context, project *domain.Project) error

	// Delete removes a project along with its labels, refinements and images.
	// Returns ErrProjectNotFound if the project does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new ProjectStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ProjectStore
}
