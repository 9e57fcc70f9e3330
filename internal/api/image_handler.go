package api

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/phrazzld/projpool-api/internal/api/shared"
	"github.com/phrazzld/projpool-api/internal/platform/logger"
	"github.com/phrazzld/projpool-api/internal/service"
)

// ImageFormField is the multipart field that carries the uploaded image.
const ImageFormField = "image"

// multipartMemory is the part of a multipart body kept in memory; the rest
// spills to temporary files.
const multipartMemory = 8 << 20

// ImageHandler handles image upload and metadata requests.
type ImageHandler struct {
	images         service.ImageService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewImageHandler creates a new ImageHandler. Request bodies larger than
// maxUploadBytes are rejected with 413.
func NewImageHandler(images service.ImageService, maxUploadBytes int64, logger *slog.Logger) *ImageHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ImageHandler")
	}

	return &ImageHandler{
		images:         images,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "image_handler")),
	}
}

// UploadImage handles POST /projects/{projectID}/images.
func (h *ImageHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, projectID, ok := handleUserIDAndPathUUID(w, r, "projectID", h.logger)
	if !ok {
		return
	}

	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	upload, closeFn, err := h.readUpload(r)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			HandleAPIError(w, r, err, "")
			return
		}
		log.Debug("unreadable multipart body", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	defer closeFn()

	image, err := h.images.Upload(r.Context(), userID, projectID, upload)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to upload image")
		return
	}

	log.Info("image uploaded",
		slog.String("project_id", projectID.String()),
		slog.String("image_id", image.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, imageToResponse(image))
}

// readUpload extracts the image part. A missing part yields a nil upload and
// a part without a filename yields an empty Filename, so the service can
// report which one it was.
func (h *ImageHandler) readUpload(r *http.Request) (*service.ImageUpload, func(), error) {
	noop := func() {}

	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, err
	}
	cleanup := func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			h.logger.Warn("failed to remove multipart temp files", slog.String("error", err.Error()))
		}
	}

	file, header, err := r.FormFile(ImageFormField)
	if errors.Is(err, http.ErrMissingFile) {
		if _, ok := r.MultipartForm.Value[ImageFormField]; ok {
			return &service.ImageUpload{}, cleanup, nil
		}
		return nil, cleanup, nil
	}
	if err != nil {
		cleanup()
		return nil, noop, err
	}

	return &service.ImageUpload{Filename: header.Filename, Content: file}, func() {
		closeFile(h.logger, file)
		cleanup()
	}, nil
}

func closeFile(log *slog.Logger, f multipart.File) {
	if err := f.Close(); err != nil {
		log.Warn("failed to close uploaded file", slog.String("error", err.Error()))
	}
}

// ListImages handles GET /projects/{projectID}/images.
func (h *ImageHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := handleUserIDAndPathUUID(w, r, "projectID", h.logger)
	if !ok {
		return
	}

	images, err := h.images.List(r.Context(), userID, projectID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list images")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, imagesToResponse(images))
}

// GetImage handles GET /images/{imageID}.
func (h *ImageHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	userID, imageID, ok := handleUserIDAndPathUUID(w, r, "imageID", h.logger)
	if !ok {
		return
	}

	image, err := h.images.Get(r.Context(), userID, imageID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get image")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, imageToResponse(image))
}

// DeleteImage handles DELETE /images/{imageID}.
func (h *ImageHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	userID, imageID, ok := handleUserIDAndPathUUID(w, r, "imageID", h.logger)
	if !ok {
		return
	}

	if err := h.images.Delete(r.Context(), userID, imageID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete image")
		return
	}

	shared.RespondWithMessage(w, r, http.StatusOK, "Image deleted successfully")
}
