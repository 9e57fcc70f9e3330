package generation

import (
	"context"

	"github.com/phrazzld/projpool-api/internal/domain"
)

// Generator produces guidance text for project labels.
// Implementations must be safe for concurrent use.
type Generator interface {
	// RefineLabel generates guidance for one label at one difficulty.
	// Errors wrap one of the package sentinels.
	RefineLabel(ctx context.Context, req RefineRequest) (string, error)

	// ReviseRefinement rewrites previously generated text according to
	// user feedback, changing only what the feedback asks for.
	ReviseRefinement(ctx context.Context, req ReviseRequest) (string, error)
}

// ImageRef points at a stored project image the model may look at.
type ImageRef struct {
	ObjectPath  string
	ContentType string
}

// RefineRequest carries everything needed to refine a single label.
type RefineRequest struct {
	LabelText          string
	Difficulty         domain.Difficulty
	ProjectName        string
	ProjectDescription string
	Images             []ImageRef
}

// ReviseRequest carries a previous refinement and the user's feedback.
type ReviseRequest struct {
	PreviousText string
	Feedback     string
	LabelText    string
	Difficulty   domain.Difficulty
}
