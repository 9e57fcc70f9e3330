// Package blob defines the object storage boundary for project images.
package blob

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrForeignPath is returned when asked to delete an object outside the
	// configured bucket.
	ErrForeignPath = errors.New("object path is outside the configured bucket")

	// ErrInvalidPath is returned for object paths that cannot be parsed.
	ErrInvalidPath = errors.New("invalid object path")

	// ErrStorageUnavailable wraps failures talking to the object store.
	ErrStorageUnavailable = errors.New("object storage unavailable")
)

// Store writes and deletes image objects.
type Store interface {
	// Put uploads r under name and returns the stored object path
	// (gs://bucket/prefix/name).
	Put(ctx context.Context, name, contentType string, r io.Reader) (string, error)

	// Delete removes the object at objectPath. Deleting a missing object
	// succeeds.
	Delete(ctx context.Context, objectPath string) error
}

// ObjectName builds a collision-free object name from a sanitized filename.
func ObjectName(id uuid.UUID, filename string) string {
	return strings.ReplaceAll(id.String(), "-", "") + "_" + filename
}
