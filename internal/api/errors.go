package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/projpool-api/internal/api/shared"
	"github.com/phrazzld/projpool-api/internal/domain"
	"github.com/phrazzld/projpool-api/internal/generation"
	"github.com/phrazzld/projpool-api/internal/media"
	"github.com/phrazzld/projpool-api/internal/platform/logger"
	"github.com/phrazzld/projpool-api/internal/service"
	"github.com/phrazzld/projpool-api/internal/service/auth"
	"github.com/phrazzld/projpool-api/internal/store"
)

const genericErrorMessage = "An unexpected error occurred"

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var maxBytesErr *http.MaxBytesError

	switch {
	case err == nil:
		return http.StatusInternalServerError

	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrRevokedToken),
		errors.Is(err, auth.ErrTaskTokenRejected),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Payload too large
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, service.ErrLabelLimit),
		errors.Is(err, service.ErrNoLabels),
		errors.Is(err, service.ErrTooManyLabels),
		errors.Is(err, service.ErrImageLimit),
		errors.Is(err, service.ErrMissingImage),
		errors.Is(err, service.ErrMissingFilename),
		errors.Is(err, service.ErrUnsupportedImageType),
		errors.Is(err, service.ErrRefinementUpdate),
		errors.Is(err, media.ErrInvalidImage):
		return http.StatusBadRequest

	// Upstream language model errors
	case errors.Is(err, generation.ErrGenerationFailed),
		errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrEmptyResponse),
		errors.Is(err, generation.ErrContentBlocked),
		errors.Is(err, generation.ErrTransientFailure):
		return http.StatusBadGateway

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return genericErrorMessage
	}

	var maxBytesErr *http.MaxBytesError

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrMissingToken):
		return "Authorization token is required"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, auth.ErrRevokedToken):
		return "Token has been revoked"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"
	case errors.Is(err, auth.ErrTaskTokenRejected):
		return "Invalid task token"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	// Authorization errors
	case errors.Is(err, service.ErrForbidden):
		return "You are not authorized to delete this user"

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrProjectNotFound):
		return "Project not found"
	case errors.Is(err, store.ErrLabelNotFound):
		return "Label not found"
	case errors.Is(err, store.ErrRefinementNotFound):
		return "Refined label not found"
	case errors.Is(err, store.ErrImageNotFound):
		return "Image not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	// Conflict errors
	case errors.Is(err, store.ErrUsernameExists):
		return "A user with that name already exists"
	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	case errors.As(err, &maxBytesErr):
		return fmt.Sprintf("Uploaded file exceeds the %d byte limit", maxBytesErr.Limit)

	// Bad request errors
	case errors.Is(err, service.ErrLabelLimit):
		return fmt.Sprintf(
			"Adding these labels would exceed limit of labels %d per project",
			domain.MaxLabelsPerProject,
		)
	case errors.Is(err, service.ErrNoLabels):
		return "At least one non-blank label is required"
	case errors.Is(err, service.ErrTooManyLabels):
		return fmt.Sprintf("At most %d labels can be added per request", domain.MaxLabelsPerRequest)
	case errors.Is(err, service.ErrImageLimit):
		return fmt.Sprintf("Maximum of %d images already uploaded for this project", domain.MaxImagesPerProject)
	case errors.Is(err, service.ErrMissingImage):
		return "No image file part in the request"
	case errors.Is(err, service.ErrMissingFilename):
		return "No image file selected"
	case errors.Is(err, service.ErrUnsupportedImageType):
		return "File type not allowed. Please upload one of: jpg, jpeg"
	case errors.Is(err, service.ErrRefinementUpdate):
		return "Provide feedback or generated_text"
	case errors.Is(err, media.ErrInvalidImage):
		return "Uploaded file is not a valid image"
	case errors.Is(err, domain.ErrValidation):
		return validationMessage(err)
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID format"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	// Upstream language model errors
	case errors.Is(err, generation.ErrContentBlocked):
		return "The language model declined to process this request"
	case errors.Is(err, generation.ErrGenerationFailed),
		errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrEmptyResponse),
		errors.Is(err, generation.ErrTransientFailure):
		return "Failed to generate refined labels"

	default:
		return genericErrorMessage
	}
}

// validationMessage returns the message of the innermost domain validation
// error in the chain. Domain validation messages never carry user input.
func validationMessage(err error) string {
	cur := err
	for {
		next := errors.Unwrap(cur)
		if next == nil || !errors.Is(next, domain.ErrValidation) {
			break
		}
		cur = next
	}
	return capitalize(cur.Error())
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// HandleAPIError writes the status code and safe message for err and logs the
// redacted error. For unmapped errors fallbackMsg, when set, replaces the
// generic message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMsg string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallbackMsg != "" {
		message = fallbackMsg
	}

	var opts []shared.ResponseOption
	if status == http.StatusBadGateway {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// handleRequestError answers a body that failed to decode or validate.
func handleRequestError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContextOrDefault(r.Context(), slog.Default())

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		HandleAPIError(w, r, err, "")
		return
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		log.Debug("request validation failed", slog.Int("violations", len(verrs)))
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	log.Debug("invalid request body", slog.String("error_type", fmt.Sprintf("%T", err)))
	shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message naming the first failing field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}

	fe := verrs[0]
	field := fe.Field()
	if field == "" {
		return "Validation error"
	}
	return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(fe.Tag(), fe.Param()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag, param string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "must be at least " + param + " characters"
	case "max":
		return "must be at most " + param + " characters"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(param, " ", ", ")
	default:
		return "validation failed"
	}
}
