package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/projpool-api/internal/domain"
	"github.com/phrazzld/projpool-api/internal/store"
)

// The store mocks below return zero values when a function field is unset.
// WithTx returns the receiver so expectations survive transactions.

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	CreateFn        func(ctx context.Context, user *domain.User) error
	GetByIDFn       func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	DeleteFn        func(ctx context.Context, id uuid.UUID) error
}

var _ store.UserStore = (*MockUserStore)(nil)

// Create implements store.UserStore
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	return nil
}

// GetByID implements store.UserStore
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrUserNotFound
}

// GetByUsername implements store.UserStore
func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}
	return nil, store.ErrUserNotFound
}

// Delete implements store.UserStore
func (m *MockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

// WithTx implements store.UserStore
func (m *MockUserStore) WithTx(*sql.Tx) store.UserStore { return m }

// MockProjectStore implements store.ProjectStore for testing
type MockProjectStore struct {
	CreateFn      func(ctx context.Context, project *domain.Project) error
	GetByIDFn     func(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	GetForUserFn  func(ctx context.Context, id, userID uuid.UUID) (*domain.Project, error)
	LockForUserFn func(ctx context.Context, id, userID uuid.UUID) error
	ListByUserFn  func(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error)
	ListPublicFn  func(ctx context.Context, limit, offset int) ([]*domain.Project, error)
	UpdateFn      func(ctx context.Context, project *domain.Project) error
	DeleteFn      func(ctx context.Context, id uuid.UUID) error
}

var _ store.ProjectStore = (*MockProjectStore)(nil)

// Create implements store.ProjectStore
func (m *MockProjectStore) Create(ctx context.Context, project *domain.Project) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, project)
	}
	return nil
}

// GetByID implements store.ProjectStore
func (m *MockProjectStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrProjectNotFound
}

// GetForUser implements store.ProjectStore
func (m *MockProjectStore) GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Project, error) {
	if m.GetForUserFn != nil {
		return m.GetForUserFn(ctx, id, userID)
	}
	return nil, store.ErrProjectNotFound
}

// LockForUser implements store.ProjectStore
func (m *MockProjectStore) LockForUser(ctx context.Context, id, userID uuid.UUID) error {
	if m.LockForUserFn != nil {
		return m.LockForUserFn(ctx, id, userID)
	}
	return nil
}

// ListByUser implements store.ProjectStore
func (m *MockProjectStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	return []*domain.Project{}, nil
}

// ListPublic implements store.ProjectStore
func (m *MockProjectStore) ListPublic(ctx context.Context, limit, offset int) ([]*domain.Project, error) {
	if m.ListPublicFn != nil {
		return m.ListPublicFn(ctx, limit, offset)
	}
	return []*domain.Project{}, nil
}

// Update implements store.ProjectStore
func (m *MockProjectStore) Update(ctx context.Context, project *domain.Project) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, project)
	}
	return nil
}

// Delete implements store.ProjectStore
func (m *MockProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

// WithTx implements store.ProjectStore
func (m *MockProjectStore) WithTx(*sql.Tx) store.ProjectStore { return m }

// MockLabelStore implements store.LabelStore for testing
type MockLabelStore struct {
	CreateFn         func(ctx context.Context, label *domain.Label) error
	GetForUserFn     func(ctx context.Context, id, userID uuid.UUID) (*domain.Label, error)
	ListByProjectFn  func(ctx context.Context, projectID uuid.UUID) ([]*domain.Label, error)
	ListByProjectsFn func(ctx context.Context, projectIDs []uuid.UUID) ([]*domain.Label, error)
	CountByProjectFn func(ctx context.Context, projectID uuid.UUID) (int, error)
	DeleteFn         func(ctx context.Context, id uuid.UUID) error
}

var _ store.LabelStore = (*MockLabelStore)(nil)

// Create implements store.LabelStore
func (m *MockLabelStore) Create(ctx context.Context, label *domain.Label) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, label)
	}
	return nil
}

// GetForUser implements store.LabelStore
func (m *MockLabelStore) GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Label, error) {
	if m.GetForUserFn != nil {
		return m.GetForUserFn(ctx, id, userID)
	}
	return nil, store.ErrLabelNotFound
}

// ListByProject implements store.LabelStore
func (m *MockLabelStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Label, error) {
	if m.ListByProjectFn != nil {
		return m.ListByProjectFn(ctx, projectID)
	}
	return []*domain.Label{}, nil
}

// ListByProjects implements store.LabelStore
func (m *MockLabelStore) ListByProjects(ctx context.Context, projectIDs []uuid.UUID) ([]*domain.Label, error) {
	if m.ListByProjectsFn != nil {
		return m.ListByProjectsFn(ctx, projectIDs)
	}
	return []*domain.Label{}, nil
}

// CountByProject implements store.LabelStore
func (m *MockLabelStore) CountByProject(ctx context.Context, projectID uuid.UUID) (int, error) {
	if m.CountByProjectFn != nil {
		return m.CountByProjectFn(ctx, projectID)
	}
	return 0, nil
}

// Delete implements store.LabelStore
func (m *MockLabelStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

// WithTx implements store.LabelStore
func (m *MockLabelStore) WithTx(*sql.Tx) store.LabelStore { return m }

// MockRefinementStore implements store.RefinementStore for testing
type MockRefinementStore struct {
	CreateFn       func(ctx context.Context, refinement *domain.Refinement) error
	GetForUserFn   func(ctx context.Context, id, userID uuid.UUID) (*domain.Refinement, error)
	ListByLabelsFn func(ctx context.Context, labelIDs []uuid.UUID) ([]*domain.Refinement, error)
	UpdateFn       func(ctx context.Context, refinement *domain.Refinement) error
}

var _ store.RefinementStore = (*MockRefinementStore)(nil)

// Create implements store.RefinementStore
func (m *MockRefinementStore) Create(ctx context.Context, refinement *domain.Refinement) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, refinement)
	}
	return nil
}

// GetForUser implements store.RefinementStore
func (m *MockRefinementStore) GetForUser(
	ctx context.Context,
	id, userID uuid.UUID,
) (*domain.Refinement, error) {
	if m.GetForUserFn != nil {
		return m.GetForUserFn(ctx, id, userID)
	}
	return nil, store.ErrRefinementNotFound
}

// ListByLabels implements store.RefinementStore
func (m *MockRefinementStore) ListByLabels(
	ctx context.Context,
	labelIDs []uuid.UUID,
) ([]*domain.Refinement, error) {
	if m.ListByLabelsFn != nil {
		return m.ListByLabelsFn(ctx, labelIDs)
	}
	return []*domain.Refinement{}, nil
}

// Update implements store.RefinementStore
func (m *MockRefinementStore) Update(ctx context.Context, refinement *domain.Refinement) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, refinement)
	}
	return nil
}

// WithTx implements store.RefinementStore
func (m *MockRefinementStore) WithTx(*sql.Tx) store.RefinementStore { return m }

// MockImageStore implements store.ImageStore for testing
type MockImageStore struct {
	CreateFn          func(ctx context.Context, image *domain.Image) error
	GetForUserFn      func(ctx context.Context, id, userID uuid.UUID) (*domain.Image, error)
	ListByProjectFn   func(ctx context.Context, projectID uuid.UUID) ([]*domain.Image, error)
	ListByProjectsFn  func(ctx context.Context, projectIDs []uuid.UUID) ([]*domain.Image, error)
	CountByProjectFn  func(ctx context.Context, projectID uuid.UUID) (int, error)
	ListPathsByUserFn func(ctx context.Context, userID uuid.UUID) ([]string, error)
	DeleteFn          func(ctx context.Context, id uuid.UUID) error
}

var _ store.ImageStore = (*MockImageStore)(nil)

// Create implements store.ImageStore
func (m *MockImageStore) Create(ctx context.Context, image *domain.Image) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, image)
	}
	return nil
}

// GetForUser implements store.ImageStore
func (m *MockImageStore) GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Image, error) {
	if m.GetForUserFn != nil {
		return m.GetForUserFn(ctx, id, userID)
	}
	return nil, store.ErrImageNotFound
}

// ListByProject implements store.ImageStore
func (m *MockImageStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Image, error) {
	if m.ListByProjectFn != nil {
		return m.ListByProjectFn(ctx, projectID)
	}
	return []*domain.Image{}, nil
}

// ListByProjects implements store.ImageStore
func (m *MockImageStore) ListByProjects(ctx context.Context, projectIDs []uuid.UUID) ([]*domain.Image, error) {
	if m.ListByProjectsFn != nil {
		return m.ListByProjectsFn(ctx, projectIDs)
	}
	return []*domain.Image{}, nil
}

// CountByProject implements store.ImageStore
func (m *MockImageStore) CountByProject(ctx context.Context, projectID uuid.UUID) (int, error) {
	if m.CountByProjectFn != nil {
		return m.CountByProjectFn(ctx, projectID)
	}
	return 0, nil
}

// ListPathsByUser implements store.ImageStore
func (m *MockImageStore) ListPathsByUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	if m.ListPathsByUserFn != nil {
		return m.ListPathsByUserFn(ctx, userID)
	}
	return []string{}, nil
}

// Delete implements store.ImageStore
func (m *MockImageStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

// WithTx implements store.ImageStore
func (m *MockImageStore) WithTx(*sql.Tx) store.ImageStore { return m }

// MockRevokedTokenStore implements store.RevokedTokenStore for testing
type MockRevokedTokenStore struct {
	RevokeFn          func(ctx context.Context, token *domain.RevokedToken) error
	IsRevokedFn       func(ctx context.Context, jti string) (bool, error)
	DeleteOlderThanFn func(ctx context.Context, cutoff time.Time) (int64, error)
}

var _ store.RevokedTokenStore = (*MockRevokedTokenStore)(nil)

// Revoke implements store.RevokedTokenStore
func (m *MockRevokedTokenStore) Revoke(ctx context.Context, token *domain.RevokedToken) error {
	if m.RevokeFn != nil {
		return m.RevokeFn(ctx, token)
	}
	return nil
}

// IsRevoked implements store.RevokedTokenStore
func (m *MockRevokedTokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if m.IsRevokedFn != nil {
		return m.IsRevokedFn(ctx, jti)
	}
	return false, nil
}

// DeleteOlderThan implements store.RevokedTokenStore
func (m *MockRevokedTokenStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.DeleteOlderThanFn != nil {
		return m.DeleteOlderThanFn(ctx, cutoff)
	}
	return 0, nil
}
