package store

import (
	"errors"
	"fmt"
)

// Sentinels shared by every store implementation. Entity-specific errors wrap
// ErrNotFound or ErrDuplicate so callers can match either level.
var (
	ErrNotFound          = errors.New("entity not found")
	ErrDuplicate         = errors.New("entity already exists")
	ErrInvalidEntity     = errors.New("invalid entity")
	ErrTransactionFailed = errors.New("transaction failed")

	// Lookups scoped to a user report another user's rows with these too.
	ErrUserNotFound       = fmt.Errorf("%w: user", ErrNotFound)
	ErrProjectNotFound    = fmt.Errorf("%w: project", ErrNotFound)
	ErrLabelNotFound      = fmt.Errorf("%w: label", ErrNotFound)
	ErrRefinementNotFound = fmt.Errorf("%w: refined label", ErrNotFound)
	ErrImageNotFound      = fmt.Errorf("%w: image", ErrNotFound)

	ErrUsernameExists = fmt.Errorf("%w: username", ErrDuplicate)
)

// IsNotFoundError reports whether err is, or wraps, ErrNotFound.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is, or wraps, ErrDuplicate.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
