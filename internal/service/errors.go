package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/projpool-api/internal/domain"
)

// Sentinel errors returned by the services. The API layer maps each of them
// to a status code and a client-safe message.
var (
	// ErrForbidden indicates the caller may not act on another user's account.
	ErrForbidden = errors.New("you are not authorized to delete this user")

	// ErrInvalidCredentials is returned for an unknown username or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrLabelLimit is returned when a project would exceed its label limit.
	ErrLabelLimit = fmt.Errorf(
		"adding these labels would exceed limit of labels %d per project",
		domain.MaxLabelsPerProject,
	)

	// ErrNoLabels is returned when a label request has no non-blank entries.
	ErrNoLabels = errors.New("at least one non-blank label is required")

	// ErrTooManyLabels is returned when a single request carries more labels
	// than one request may add.
	ErrTooManyLabels = fmt.Errorf("at most %d labels can be added per request", domain.MaxLabelsPerRequest)

	// ErrImageLimit is returned when a project already holds its maximum images.
	ErrImageLimit = fmt.Errorf(
		"maximum of %d images already uploaded for this project",
		domain.MaxImagesPerProject,
	)

	// ErrMissingImage is returned when the upload has no image part.
	ErrMissingImage = errors.New("no image file part in the request")

	// ErrMissingFilename is returned when the image part has no usable filename.
	ErrMissingFilename = errors.New("no image file selected")

	// ErrUnsupportedImageType is returned for extensions outside the allow list.
	ErrUnsupportedImageType = errors.New("file type not allowed, please upload one of: jpg, jpeg")

	// ErrRefinementUpdate is returned when a refinement update carries neither
	// or both of feedback and generated_text.
	ErrRefinementUpdate = errors.New("provide exactly one of feedback or generated_text")
)

// ServiceError wraps an unexpected failure with the operation that produced it.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// errNilDependency reports a missing constructor argument.
func errNilDependency(name string) error {
	return fmt.Errorf("%s cannot be nil", name)
}
