package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/projpool-api/internal/domain"
	"github.com/phrazzld/projpool-api/internal/service"
	"github.com/phrazzld/projpool-api/internal/service/auth"
)

// MockUserService implements service.UserService for testing
type MockUserService struct {
	RegisterFn     func(ctx context.Context, username, password string) (*domain.User, error)
	AuthenticateFn func(ctx context.Context, username, password string) (string, error)
	LogoutFn       func(ctx context.Context, claims *auth.Claims) error
	GetProfileFn   func(ctx context.Context, userID uuid.UUID) (*service.UserProfile, error)
	DeleteFn       func(ctx context.Context, actorID, userID uuid.UUID) error
}

var _ service.UserService = (*MockUserService)(nil)

// Register implements service.UserService
func (m *MockUserService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, username, password)
	}
	return &domain.User{ID: uuid.New(), Username: username}, nil
}

// Authenticate implements service.UserService
func (m *MockUserService) Authenticate(ctx context.Context, username, password string) (string, error) {
	if m.AuthenticateFn != nil {
		return m.AuthenticateFn(ctx, username, password)
	}
	return "", service.ErrInvalidCredentials
}

// Logout implements service.UserService
func (m *MockUserService) Logout(ctx context.Context, claims *auth.Claims) error {
	if m.LogoutFn != nil {
		return m.LogoutFn(ctx, claims)
	}
	return nil
}

// GetProfile implements service.UserService
func (m *MockUserService) GetProfile(ctx context.Context, userID uuid.UUID) (*service.UserProfile, error) {
	if m.GetProfileFn != nil {
		return m.GetProfileFn(ctx, userID)
	}
	return nil, nil
}

// Delete implements service.UserService
func (m *MockUserService) Delete(ctx context.Context, actorID, userID uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, actorID, userID)
	}
	return nil
}

// MockProjectService implements service.ProjectService for testing
type MockProjectService struct {
	CreateFn   func(ctx context.Context, userID uuid.UUID, name, description string) (*service.ProjectDetail, error)
	ListMineFn func(ctx context.Context, userID uuid.UUID) ([]*service.ProjectDetail, error)
	GetFn      func(ctx context.Context, userID, projectID uuid.UUID) (*service.ProjectDetail, error)
	UpdateFn   func(
		ctx context.Context,
		userID, projectID uuid.UUID,
		update service.ProjectUpdate,
	) (*service.ProjectDetail, error)
	DeleteFn     func(ctx context.Context, userID, projectID uuid.UUID) error
	ListPublicFn func(ctx context.Context, limit, offset int) ([]*service.ProjectDetail, error)
}

var _ service.ProjectService = (*MockProjectService)(nil)

// Create implements service.ProjectService
func (m *MockProjectService) Create(
	ctx context.Context,
	userID uuid.UUID,
	name, description string,
) (*service.ProjectDetail, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, userID, name, description)
	}
	return nil, nil
}

// ListMine implements service.ProjectService
func (m *MockProjectService) ListMine(ctx context.Context, userID uuid.UUID) ([]*service.ProjectDetail, error) {
	if m.ListMineFn != nil {
		return m.ListMineFn(ctx, userID)
	}
	return []*service.ProjectDetail{}, nil
}

// Get implements service.ProjectService
func (m *MockProjectService) Get(ctx context.Context, userID, projectID uuid.UUID) (*service.ProjectDetail, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, userID, projectID)
	}
	return nil, nil
}

// Update implements service.ProjectService
func (m *MockProjectService) Update(
	ctx context.Context,
	userID, projectID uuid.UUID,
	update service.ProjectUpdate,
) (*service.ProjectDetail, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, userID, projectID, update)
	}
	return nil, nil
}

// Delete implements service.ProjectService
func (m *MockProjectService) Delete(ctx context.Context, userID, projectID uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, projectID)
	}
	return nil
}

// ListPublic implements service.ProjectService
func (m *MockProjectService) ListPublic(ctx context.Context, limit, offset int) ([]*service.ProjectDetail, error) {
	if m.ListPublicFn != nil {
		return m.ListPublicFn(ctx, limit, offset)
	}
	return []*service.ProjectDetail{}, nil
}

// MockLabelService implements service.LabelService for testing
type MockLabelService struct {
	ListFn             func(ctx context.Context, userID, projectID uuid.UUID) ([]*service.LabelDetail, error)
	AddFn              func(ctx context.Context, userID, projectID uuid.UUID, texts []string) ([]*service.LabelDetail, error)
	GetFn              func(ctx context.Context, userID, labelID uuid.UUID) (*service.LabelDetail, error)
	DeleteFn           func(ctx context.Context, userID, labelID uuid.UUID) error
	UpdateRefinementFn func(
		ctx context.Context,
		userID, refinementID uuid.UUID,
		update service.RefinementUpdate,
	) (*service.RefinementDetail, error)
}

var _ service.LabelService = (*MockLabelService)(nil)

// List implements service.LabelService
func (m *MockLabelService) List(ctx context.Context, userID, projectID uuid.UUID) ([]*service.LabelDetail, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, projectID)
	}
	return []*service.LabelDetail{}, nil
}

// Add implements service.LabelService
func (m *MockLabelService) Add(
	ctx context.Context,
	userID, projectID uuid.UUID,
	texts []string,
) ([]*service.LabelDetail, error) {
	if m.AddFn != nil {
		return m.AddFn(ctx, userID, projectID, texts)
	}
	return []*service.LabelDetail{}, nil
}

// Get implements service.LabelService
func (m *MockLabelService) Get(ctx context.Context, userID, labelID uuid.UUID) (*service.LabelDetail, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, userID, labelID)
	}
	return nil, nil
}

// Delete implements service.LabelService
func (m *MockLabelService) Delete(ctx context.Context, userID, labelID uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, labelID)
	}
	return nil
}

// UpdateRefinement implements service.LabelService
func (m *MockLabelService) UpdateRefinement(
	ctx context.Context,
	userID, refinementID uuid.UUID,
	update service.RefinementUpdate,
) (*service.RefinementDetail, error) {
	if m.UpdateRefinementFn != nil {
		return m.UpdateRefinementFn(ctx, userID, refinementID, update)
	}
	return nil, nil
}

// MockImageService implements service.ImageService for testing
type MockImageService struct {
	UploadFn func(
		ctx context.Context,
		userID, projectID uuid.UUID,
		upload *service.ImageUpload,
	) (*domain.Image, error)
	ListFn   func(ctx context.Context, userID, projectID uuid.UUID) ([]*domain.Image, error)
	GetFn    func(ctx context.Context, userID, imageID uuid.UUID) (*domain.Image, error)
	DeleteFn func(ctx context.Context, userID, imageID uuid.UUID) error
}

var _ service.ImageService = (*MockImageService)(nil)

// Upload implements service.ImageService
func (m *MockImageService) Upload(
	ctx context.Context,
	userID, projectID uuid.UUID,
	upload *service.ImageUpload,
) (*domain.Image, error) {
	if m.UploadFn != nil {
		return m.UploadFn(ctx, userID, projectID, upload)
	}
	return nil, nil
}

// List implements service.ImageService
func (m *MockImageService) List(ctx context.Context, userID, projectID uuid.UUID) ([]*domain.Image, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, projectID)
	}
	return []*domain.Image{}, nil
}

// Get implements service.ImageService
func (m *MockImageService) Get(ctx context.Context, userID, imageID uuid.UUID) (*domain.Image, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, userID, imageID)
	}
	return nil, nil
}

// Delete implements service.ImageService
func (m *MockImageService) Delete(ctx context.Context, userID, imageID uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, imageID)
	}
	return nil
}
