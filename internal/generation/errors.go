package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when refinement fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate refinement")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrEmptyResponse is returned when the LLM answers without any text
	ErrEmptyResponse = errors.New("empty response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrUnknownDifficulty is returned when no prompt exists for a difficulty
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)
