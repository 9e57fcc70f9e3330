package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Image limits
const (
	MaxImagesPerProject     = 3
	MaxImageFilenameLength  = 255
	MaxImageObjectPathLen   = 1024
	DefaultImageContentType = "application/octet-stream"
)

// AllowedImageExtensions lists the accepted upload extensions, lower case and
// without the leading dot.
var AllowedImageExtensions = []string{"jpg", "jpeg"}

// Image validation errors
var (
	ErrEmptyImageID         = newValidationError("image ID cannot be empty")
	ErrEmptyImageProjectID  = newValidationError("image project ID cannot be empty")
	ErrEmptyImageFilename   = newValidationError("image filename cannot be empty")
	ErrImageFilenameTooLong = newValidationError("image filename must be at most 255 characters")
	ErrEmptyImageObjectPath = newValidationError("image object path cannot be empty")
	ErrImageObjectPathLong  = newValidationError("image object path must be at most 1024 characters")
)

// Image is the metadata of a project image held in object storage.
type Image struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"project_id"`
	Filename    string    `json:"filename"`
	ObjectPath  string    `json:"gcs_path"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewImage creates validated image metadata. An empty content type becomes
// DefaultImageContentType.
func NewImage(projectID uuid.UUID, filename, objectPath, contentType string) (*Image, error) {
	if strings.TrimSpace(contentType) == "" {
		contentType = DefaultImageContentType
	}

	img := &Image{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Filename:    filename,
		ObjectPath:  objectPath,
		ContentType: contentType,
		CreatedAt:   time.Now().UTC(),
	}

	if err := img.Validate(); err != nil {
		return nil, err
	}

	return img, nil
}

// Validate checks if the Image has valid data.
func (i *Image) Validate() error {
	switch {
	case i.ID == uuid.Nil:
		return ErrEmptyImageID
	case i.ProjectID == uuid.Nil:
		return ErrEmptyImageProjectID
	case i.Filename == "":
		return ErrEmptyImageFilename
	case len(i.Filename) > MaxImageFilenameLength:
		return ErrImageFilenameTooLong
	case i.ObjectPath == "":
		return ErrEmptyImageObjectPath
	case len(i.ObjectPath) > MaxImageObjectPathLen:
		return ErrImageObjectPathLong
	}
	return nil
}
