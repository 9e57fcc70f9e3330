package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/projpool-api/internal/blob"
	"github.com/phrazzld/projpool-api/internal/domain"
	"github.com/phrazzld/projpool-api/internal/events"
	"github.com/phrazzld/projpool-api/internal/platform/logger"
	"github.com/phrazzld/projpool-api/internal/store"
)

// Paging bounds for the public project listing.
const (
	DefaultPublicLimit = 50
	MaxPublicLimit     = 100
)

// ProjectUpdate holds a partial project update. Nil fields are left unchanged.
type ProjectUpdate struct {
	Name        *string
	Description *string
}

// ProjectService provides project operations. Every method except
// ListPublic is scoped to the projects userID owns.
type ProjectService interface {
	Create(ctx context.Context, userID uuid.UUID, name, description string) (*ProjectDetail, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]*ProjectDetail, error)
	Get(ctx context.Context, userID, projectID uuid.UUID) (*ProjectDetail, error)
	Update(ctx context.Context, userID, projectID uuid.UUID, update ProjectUpdate) (*ProjectDetail, error)

	// Delete removes the project with its labels, refinements and images,
	// then deletes the image objects.
	Delete(ctx context.Context, userID, projectID uuid.UUID) error

	// ListPublic lists every user's projects, newest first.
	ListPublic(ctx context.Context, limit, offset int) ([]*ProjectDetail, error)
}

type projectServiceImpl struct {
	stores  Stores
	blobs   blob.Store
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewProjectService creates a new ProjectService.
// It returns an error if any of the required dependencies are nil.
func NewProjectService(
	stores Stores,
	blobs blob.Store,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (ProjectService, error) {
	if err := stores.validate(); err != nil {
		return nil, err
	}
	if blobs == nil {
		return nil, errNilDependency("blob store")
	}
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &projectServiceImpl{
		stores:  stores,
		blobs:   blobs,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "project_service")),
	}, nil
}

// NormalizePage clamps public listing parameters to the supported range.
func NormalizePage(limit, offset int) (int, int) {
	switch {
	case limit <= 0:
		limit = DefaultPublicLimit
	case limit > MaxPublicLimit:
		limit = MaxPublicLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Create implements ProjectService.Create.
func (s *projectServiceImpl) Create(
	ctx context.Context,
	userID uuid.UUID,
	name, description string,
) (*ProjectDetail, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	project, err := domain.NewProject(userID, name, description)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.stores.DB, func(ctx context.Context, tx *sql.Tx) error {
		return s.stores.Projects.WithTx(tx).Create(ctx, project)
	})
	if err != nil {
		log.Error("failed to create project",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError("project", "create", "failed to save project", err)
	}

	log.Info("project created", slog.String("project_id", project.ID.String()))
	emit(ctx, s.emitter, log, events.TypeProjectCreated, events.ProjectPayload{
		ProjectID: project.ID,
		UserID:    userID,
	})

	return s.detail(ctx, "create", project)
}

// ListMine implements ProjectService.ListMine.
func (s *projectServiceImpl) ListMine(ctx context.Context, userID uuid.UUID) ([]*ProjectDetail, error) {
	projects, err := s.stores.Projects.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewServiceError("project", "list", "failed to list projects", err)
	}

	details, err := s.stores.loadProjectDetails(ctx, projects)
	if err != nil {
		return nil, NewServiceError("project", "list", "failed to load project details", err)
	}
	return details, nil
}

// Get implements ProjectService.Get.
func (s *projectServiceImpl) Get(ctx context.Context, userID, projectID uuid.UUID) (*ProjectDetail, error) {
	project, err := s.stores.Projects.GetForUser(ctx, projectID, userID)
	if err != nil {
		return nil, NewServiceError("project", "get", "failed to retrieve project", err)
	}
	return s.detail(ctx, "get", project)
}

// Update implements ProjectService.Update.
func (s *projectServiceImpl) Update(
	ctx context.Context,
	userID, projectID uuid.UUID,
	update ProjectUpdate,
) (*ProjectDetail, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var project *domain.Project
	err := store.RunInTransaction(ctx, s.stores.DB, func(ctx context.Context, tx *sql.Tx) error {
		projects := s.stores.Projects.WithTx(tx)

		var err error
		project, err = projects.GetForUser(ctx, projectID, userID)
		if err != nil {
			return err
		}
		if err := project.ApplyPatch(update.Name, update.Description); err != nil {
			return err
		}
		return projects.Update(ctx, project)
	})
	if err != nil {
		return nil, NewServiceError("project", "update", "failed to update project", err)
	}

	log.Info("project updated", slog.String("project_id", projectID.String()))
	emit(ctx, s.emitter, log, events.TypeProjectUpdated, events.ProjectPayload{
		ProjectID: projectID,
		UserID:    userID,
	})

	return s.detail(ctx, "update", project)
}

// Delete implements ProjectService.Delete.
func (s *projectServiceImpl) Delete(ctx context.Context, userID, projectID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var paths []string
	err := store.RunInTransaction(ctx, s.stores.DB, func(ctx context.Context, tx *sql.Tx) error {
		projects := s.stores.Projects.WithTx(tx)
		if err := projects.LockForUser(ctx, projectID, userID); err != nil {
			return err
		}

		images, err := s.stores.Images.WithTx(tx).ListByProject(ctx, projectID)
		if err != nil {
			return err
		}
		for _, img := range images {
			paths = append(paths, img.ObjectPath)
		}

		return projects.Delete(ctx, projectID)
	})
	if err != nil {
		return NewServiceError("project", "delete", "failed to delete project", err)
	}

	deleteBlobs(ctx, s.blobs, log, paths)

	log.Info("project deleted",
		slog.String("project_id", projectID.String()),
		slog.Int("image_count", len(paths)))
	emit(ctx, s.emitter, log, events.TypeProjectDeleted, events.ProjectPayload{
		ProjectID: projectID,
		UserID:    userID,
	})

	return nil
}

// ListPublic implements ProjectService.ListPublic.
func (s *projectServiceImpl) ListPublic(ctx context.Context, limit, offset int) ([]*ProjectDetail, error) {
	limit, offset = NormalizePage(limit, offset)

	projects, err := s.stores.Projects.ListPublic(ctx, limit, offset)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list public projects",
			slog.String("error", err.Error()))
		return nil, NewServiceError("project", "list public", "failed to list projects", err)
	}

	details, err := s.stores.loadProjectDetails(ctx, projects)
	if err != nil {
		return nil, NewServiceError("project", "list public", "failed to load project details", err)
	}
	return details, nil
}

func (s *projectServiceImpl) detail(ctx context.Context, op string, project *domain.Project) (*ProjectDetail, error) {
	details, err := s.stores.loadProjectDetails(ctx, []*domain.Project{project})
	if err != nil {
		return nil, NewServiceError("project", op, "failed to load project details", err)
	}
	return details[0], nil
}
