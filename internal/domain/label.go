package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Label limits
const (
	MaxLabelTextLength  = 100
	MaxLabelsPerProject = 10
	MaxLabelsPerRequest = 10
)

// Label validation errors
var (
	ErrEmptyLabelID        = newValidationError("label ID cannot be empty")
	ErrEmptyLabelProjectID = newValidationError("label project ID cannot be empty")
	ErrEmptyLabelText      = newValidationError("label text cannot be empty")
	ErrLabelTextTooLong    = newValidationError("label text must be at most 100 characters")
)

// Label names one part of a project. Every label carries one refinement per
// difficulty.
type Label struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// NewLabel creates a validated label. Surrounding whitespace is trimmed.
func NewLabel(projectID uuid.UUID, text string) (*Label, error) {
	l := &Label{
		ID:        uuid.New(),
		ProjectID: projectID,
		Text:      strings.TrimSpace(text),
		CreatedAt: time.Now().UTC(),
	}

	if err := l.Validate(); err != nil {
		return nil, err
	}

	return l, nil
}

// Validate checks if the Label has valid data.
func (l *Label) Validate() error {
	if l.ID == uuid.Nil {
		return ErrEmptyLabelID
	}
	if l.ProjectID == uuid.Nil {
		return ErrEmptyLabelProjectID
	}
	if strings.TrimSpace(l.Text) == "" {
		return ErrEmptyLabelText
	}
	if utf8.RuneCountInString(l.Text) > MaxLabelTextLength {
		return ErrLabelTextTooLong
	}
	return nil
}

// NonBlankLabels returns the trimmed, non-blank entries of texts in order.
func NonBlankLabels(texts []string) []string {
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	}
	return out
}
