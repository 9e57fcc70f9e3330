package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Username and password bounds. The password ceiling is bcrypt's input limit.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 80
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// User validation errors
var (
	ErrEmptyUserID       = newValidationError("user ID cannot be empty")
	ErrEmptyUsername     = newValidationError("username cannot be empty")
	ErrInvalidUsername   = newValidationError("username must be between 3 and 80 characters")
	ErrPasswordTooShort  = newValidationError("password must be at least 8 characters long")
	ErrPasswordTooLong   = newValidationError("password must be at most 72 characters long")
	ErrEmptyPassword     = newValidationError("password cannot be empty")
	ErrEmptyPasswordHash = newValidationError("hashed password cannot be empty")
)

// User represents a registered ProjPool account.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Password       string    `json:"-"` // Plaintext, only present during registration
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given username and plaintext password.
// The caller is responsible for hashing the password before storing the user.
func NewUser(username, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Username:  username,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if strings.TrimSpace(u.Username) == "" {
		return ErrEmptyUsername
	}

	if n := utf8.RuneCountInString(u.Username); n < MinUsernameLength || n > MaxUsernameLength {
		return ErrInvalidUsername
	}

	if u.Password != "" {
		return ValidatePassword(u.Password)
	}

	// Persisted users carry only the hash.
	if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

// ValidatePassword checks a plaintext password against the length policy.
// Length is measured in bytes because bcrypt truncates on bytes.
func ValidatePassword(password string) error {
	switch {
	case password == "":
		return ErrEmptyPassword
	case utf8.RuneCountInString(password) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(password) > MaxPasswordLength:
		return ErrPasswordTooLong
	}
	return nil
}
