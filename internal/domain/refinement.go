package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Difficulty is the skill level a refinement is written for.
type Difficulty string

// Supported difficulties
const (
	DifficultySimple       Difficulty = "simple"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyInDepth      Difficulty = "in_depth"
)

// Difficulties returns every difficulty in presentation order.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultySimple, DifficultyIntermediate, DifficultyInDepth}
}

// IsValid reports whether d is a supported difficulty.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultySimple, DifficultyIntermediate, DifficultyInDepth:
		return true
	}
	return false
}

// Bounds for user edits of a refinement
const (
	MinFeedbackLength   = 5
	MaxFeedbackLength   = 500
	MinEditedTextLength = 3
	MaxEditedTextLength = 5000
)

// Refinement validation errors
var (
	ErrEmptyRefinementID      = newValidationError("refinement ID cannot be empty")
	ErrEmptyRefinementLabelID = newValidationError("refinement label ID cannot be empty")
	ErrInvalidDifficulty      = newValidationError("difficulty must be one of simple, intermediate, in_depth")
	ErrEmptyGeneratedText     = newValidationError("generated text cannot be empty")
	ErrInvalidFeedback        = newValidationError(fmt.Sprintf("feedback must be between %d and %d characters", MinFeedbackLength, MaxFeedbackLength))
	ErrInvalidEditedText      = newValidationError(fmt.Sprintf("generated_text must be between %d and %d characters", MinEditedTextLength, MaxEditedTextLength))
)

// Refinement is AI-generated guidance for completing a label at one difficulty.
type Refinement struct {
	ID            uuid.UUID  `json:"id"`
	LabelID       uuid.UUID  `json:"label_id"`
	Difficulty    Difficulty `json:"difficulty"`
	GeneratedText string     `json:"generated_text"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewRefinement creates a validated refinement for labelID.
func NewRefinement(labelID uuid.UUID, difficulty Difficulty, text string) (*Refinement, error) {
	now := time.Now().UTC()
	r := &Refinement{
		ID:            uuid.New(),
		LabelID:       labelID,
		Difficulty:    difficulty,
		GeneratedText: strings.TrimSpace(text),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}

	return r, nil
}

// Validate checks if the Refinement has valid data.
func (r *Refinement) Validate() error {
	if r.ID == uuid.Nil {
		return ErrEmptyRefinementID
	}
	if r.LabelID == uuid.Nil {
		return ErrEmptyRefinementLabelID
	}
	if !r.Difficulty.IsValid() {
		return ErrInvalidDifficulty
	}
	if strings.TrimSpace(r.GeneratedText) == "" {
		return ErrEmptyGeneratedText
	}
	return nil
}

// Rewrite replaces the generated text and bumps UpdatedAt.
func (r *Refinement) Rewrite(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyGeneratedText
	}
	r.GeneratedText = text
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// ValidateFeedback checks reviewer feedback used to regenerate a refinement.
func ValidateFeedback(feedback string) error {
	if n := utf8.RuneCountInString(feedback); n < MinFeedbackLength || n > MaxFeedbackLength {
		return ErrInvalidFeedback
	}
	return nil
}

// ValidateEditedText checks a manually edited refinement text.
func ValidateEditedText(text string) error {
	if n := utf8.RuneCountInString(text); n < MinEditedTextLength || n > MaxEditedTextLength {
		return ErrInvalidEditedText
	}
	return nil
}
