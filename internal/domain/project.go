package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Project field bounds
const (
	MaxProjectNameLength        = 120
	MaxProjectDescriptionLength = 5000
)

// Project validation errors
var (
	ErrEmptyProjectID         = newValidationError("project ID cannot be empty")
	ErrEmptyProjectUserID     = newValidationError("project user ID cannot be empty")
	ErrEmptyProjectName       = newValidationError("project name cannot be empty")
	ErrProjectNameTooLong     = newValidationError("project name must be at most 120 characters")
	ErrProjectDescriptionLong = newValidationError("project description must be at most 5000 characters")
	ErrEmptyProjectPatch      = newValidationError("at least one of name or description must be provided")
)

// Project is a user-owned description of something to build. Labels break the
// project down into parts and images illustrate it.
type Project struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProject creates a validated project owned by userID.
func NewProject(userID uuid.UUID, name, description string) (*Project, error) {
	now := time.Now().UTC()
	p := &Project{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        strings.TrimSpace(name),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Validate checks if the Project has valid data.
func (p *Project) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyProjectID
	}
	if p.UserID == uuid.Nil {
		return ErrEmptyProjectUserID
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyProjectName
	}
	if utf8.RuneCountInString(p.Name) > MaxProjectNameLength {
		return ErrProjectNameTooLong
	}
	if utf8.RuneCountInString(p.Description) > MaxProjectDescriptionLength {
		return ErrProjectDescriptionLong
	}
	return nil
}

// ApplyPatch updates the non-nil fields and re-validates the project.
// The project is left untouched when validation fails.
func (p *Project) ApplyPatch(name, description *string) error {
	if name == nil && description == nil {
		return ErrEmptyProjectPatch
	}

	updated := *p
	if name != nil {
		updated.Name = strings.TrimSpace(*name)
	}
	if description != nil {
		updated.Description = *description
	}
	if err := updated.Validate(); err != nil {
		return err
	}

	updated.UpdatedAt = time.Now().UTC()
	*p = updated
	return nil
}
