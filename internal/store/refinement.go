package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/projpool-api/internal/domain"
)

// RefinementStore defines the interface for refined label persistence.
type RefinementStore interface {
	// Create saves a new refinement.
	// Returns ErrDuplicate if the label already has one for the difficulty.
	Create(ctx context.Context, refinement *domain.Refinement) error

	// GetForUser retrieves a refinement whose label's project is owned by userID.
	// Returns ErrRefinementNotFound otherwise.
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Refinement, error)

	// ListByLabels returns the refinements of several labels ordered by label
	// and difficulty.
	ListByLabels(ctx context.Context, labelIDs []uuid.UUID) ([]*domain.Refinement, error)

	// Update persists generated_text and updated_at.
	// Returns ErrRefinementNotFound if the refinement does not exist.
	Update(ctx context.Context, refinement *domain.Refinement) error

	// WithTx returns a new RefinementStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) RefinementStore
}
