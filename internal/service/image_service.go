package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/projpool-api/internal/blob"
	"github.com/phrazzld/projpool-api/internal/domain"
	"github.com/phrazzld/projpool-api/internal/events"
	"github.com/phrazzld/projpool-api/internal/media"
	"github.com/phrazzld/projpool-api/internal/metrics"
	"github.com/phrazzld/projpool-api/internal/platform/logger"
	"github.com/phrazzld/projpool-api/internal/store"
)

// ImageUpload is an uploaded file as received from the client.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// ImageService provides project image operations scoped to the projects
// userID owns.
type ImageService interface {
	// Upload normalizes the image, stores it and records its metadata.
	// A nil upload reports ErrMissingImage.
	Upload(ctx context.Context, userID, projectID uuid.UUID, upload *ImageUpload) (*domain.Image, error)

	List(ctx context.Context, userID, projectID uuid.UUID) ([]*domain.Image, error)
	Get(ctx context.Context, userID, imageID uuid.UUID) (*domain.Image, error)

	// Delete removes the metadata first. A failure to delete the stored
	// object afterwards is logged and does not fail the call.
	Delete(ctx context.Context, userID, imageID uuid.UUID) error
}

type imageServiceImpl struct {
	stores  Stores
	blobs   blob.Store
	emitter events.EventEmitter
	opts    media.Options
	logger  *slog.Logger
}

// NewImageService creates a new ImageService.
// It returns an error if any of the required dependencies are nil.
func NewImageService(
	stores Stores,
	blobs blob.Store,
	emitter events.EventEmitter,
	opts media.Options,
	logger *slog.Logger,
) (ImageService, error) {
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

	return &imageServiceImpl{
		stores:  stores,
		blobs:   blobs,
		emitter: emitter,
		opts:    opts,
		logger:  logger.With(slog.String("component", "image_service")),
	}, nil
}

// Upload implements ImageService.Upload.
func (s *imageServiceImpl) Upload(
	ctx context.Context,
	userID, projectID uuid.UUID,
	upload *ImageUpload,
) (*domain.Image, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	image, err := s.upload(ctx, log, userID, projectID, upload)
	switch {
	case err == nil:
		metrics.IncImagesUploaded(metrics.OutcomeSuccess)
	case isClientError(err):
		metrics.IncImagesUploaded(metrics.OutcomeRejected)
	default:
		metrics.IncImagesUploaded(metrics.OutcomeFailure)
	}
	return image, err
}

func (s *imageServiceImpl) upload(
	ctx context.Context,
	log *slog.Logger,
	userID, projectID uuid.UUID,
	upload *ImageUpload,
) (*domain.Image, error) {
	project, err := s.stores.Projects.GetForUser(ctx, projectID, userID)
	if err != nil {
		return nil, NewServiceError("image", "upload", "failed to retrieve project", err)
	}

	count, err := s.stores.Images.CountByProject(ctx, project.ID)
	if err != nil {
		return nil, NewServiceError("image", "upload", "failed to count images", err)
	}
	if count >= domain.MaxImagesPerProject {
		return nil, ErrImageLimit
	}

	if upload == nil || upload.Content == nil {
		return nil, ErrMissingImage
	}
	if upload.Filename == "" {
		return nil, ErrMissingFilename
	}
	filename := media.SecureFilename(upload.Filename)
	if !media.IsAllowed(filename) {
		return nil, ErrUnsupportedImageType
	}

	processed, err := media.Normalize(upload.Content, s.opts)
	if err != nil {
		return nil, err
	}

	objectPath, err := s.blobs.Put(
		ctx,
		blob.ObjectName(uuid.New(), filename),
		processed.ContentType,
		bytes.NewReader(processed.Data),
	)
	if err != nil {
		log.Error("failed to store image object",
			slog.String("project_id", project.ID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError("image", "upload", "an error occurred during image upload", err)
	}

	image, err := domain.NewImage(project.ID, filename, objectPath, processed.ContentType)
	if err == nil {
		err = store.RunInTransaction(ctx, s.stores.DB, func(ctx context.Context, tx *sql.Tx) error {
			if err := s.stores.Projects.WithTx(tx).LockForUser(ctx, project.ID, userID); err != nil {
				return err
			}

			images := s.stores.Images.WithTx(tx)
			count, err := images.CountByProject(ctx, project.ID)
			if err != nil {
				return err
			}
			if count >= domain.MaxImagesPerProject {
				return ErrImageLimit
			}
			return images.Create(ctx, image)
		})
	}
	if err != nil {
		log.Error("failed to save image metadata, removing object",
			slog.String("object_path", objectPath),
			slog.String("error", err.Error()))
		deleteBlobs(ctx, s.blobs, log, []string{objectPath})
		return nil, NewServiceError("image", "upload", "failed to save image metadata", err)
	}

	log.Info("image uploaded",
		slog.String("image_id", image.ID.String()),
		slog.String("project_id", project.ID.String()),
		slog.Int("width", processed.Width),
		slog.Int("height", processed.Height))
	emit(ctx, s.emitter, log, events.TypeImageUploaded, events.ImagePayload{
		ImageID:   image.ID,
		ProjectID: project.ID,
	})

	return image, nil
}

// List implements ImageService.List.
func (s *imageServiceImpl) List(ctx context.Context, userID, projectID uuid.UUID) ([]*domain.Image, error) {
	if _, err := s.stores.Projects.GetForUser(ctx, projectID, userID); err != nil {
		return nil, NewServiceError("image", "list", "failed to retrieve project", err)
	}

	images, err := s.stores.Images.ListByProject(ctx, projectID)
	if err != nil {
		return nil, NewServiceError("image", "list", "failed to list images", err)
	}
	return images, nil
}

// Get implements ImageService.Get.
func (s *imageServiceImpl) Get(ctx context.Context, userID, imageID uuid.UUID) (*domain.Image, error) {
	image, err := s.stores.Images.GetForUser(ctx, imageID, userID)
	if err != nil {
		return nil, NewServiceError("image", "get", "failed to retrieve image", err)
	}
	return image, nil
}

// Delete implements ImageService.Delete.
func (s *imageServiceImpl) Delete(ctx context.Context, userID, imageID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var image *domain.Image
	err := store.RunInTransaction(ctx, s.stores.DB, func(ctx context.Context, tx *sql.Tx) error {
		images := s.stores.Images.WithTx(tx)

		var err error
		image, err = images.GetForUser(ctx, imageID, userID)
		if err != nil {
			return err
		}
		return images.Delete(ctx, imageID)
	})
	if err != nil {
		return NewServiceError("image", "delete", "failed to delete image", err)
	}

	deleteBlobs(ctx, s.blobs, log, []string{image.ObjectPath})

	emit(ctx, s.emitter, log, events.TypeImageDeleted, events.ImagePayload{
		ImageID:   imageID,
		ProjectID: image.ProjectID,
	})

	return nil
}

// isClientError reports whether err was caused by the request rather than
// by a dependency.
func isClientError(err error) bool {
	return errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, store.ErrNotFound) ||
		errors.Is(err, ErrImageLimit) ||
		errors.Is(err, ErrMissingImage) ||
		errors.Is(err, ErrMissingFilename) ||
		errors.Is(err, ErrUnsupportedImageType) ||
		errors.Is(err, media.ErrInvalidImage)
}
