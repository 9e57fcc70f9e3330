package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/projpool-api/internal/domain"
	"github.com/phrazzld/projpool-api/internal/service"
)

// Request payloads

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=80"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CreateProjectRequest defines the payload for creating a project. The
// description key must be present but may be empty.
type CreateProjectRequest struct {
	Name        string  `json:"name"        validate:"required,max=120"`
	Description *string `json:"description" validate:"required,max=5000"`
}

// UpdateProjectRequest is a partial project update. Absent fields are left
// unchanged.
type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// AddLabelsRequest carries the label texts to refine.
type AddLabelsRequest struct {
	Labels []string `json:"labels" validate:"required"`
}

// UpdateRefinementRequest carries either reviewer feedback or a manual edit.
type UpdateRefinementRequest struct {
	Feedback      *string `json:"feedback"`
	GeneratedText *string `json:"generated_text"`
}

// Response payloads

// LoginResponse defines the successful response for the login endpoint.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// CleanupResponse reports the result of a revoked-token purge.
type CleanupResponse struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

// UserRef is the owner embedded in a project.
type UserRef struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// ProjectRef is the project embedded in a label or user profile.
type ProjectRef struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

// LabelRef is the input label embedded in a refinement.
type LabelRef struct {
	ID   uuid.UUID `json:"id"`
	Text string    `json:"text"`
}

// RefinementResponse is one generated text of a label.
type RefinementResponse struct {
	ID            uuid.UUID         `json:"id"`
	GeneratedText string            `json:"generated_text"`
	Difficulty    domain.Difficulty `json:"difficulty"`
}

// RefinedLabelResponse is a refinement together with its input label.
type RefinedLabelResponse struct {
	RefinementResponse
	InputLabel LabelRef `json:"input_label"`
}

// LabelResponse is a label with its refinements.
type LabelResponse struct {
	ID          uuid.UUID            `json:"id"`
	Text        string               `json:"text"`
	Project     *ProjectRef          `json:"project,omitempty"`
	Refinements []RefinementResponse `json:"refinements"`
}

// ImageResponse is the stored metadata of an uploaded image.
type ImageResponse struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	ObjectPath  string    `json:"gcs_path"`
	ContentType string    `json:"content_type"`
}

// ProjectResponse is a project with its owner, labels and images.
type ProjectResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	User        *UserRef        `json:"user"`
	Labels      []LabelResponse `json:"labels"`
	Images      []ImageResponse `json:"images"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// UserResponse is a user with the projects they own.
type UserResponse struct {
	ID       uuid.UUID    `json:"id"`
	Username string       `json:"username"`
	Projects []ProjectRef `json:"projects"`
}

// Converters

func projectRef(p *domain.Project) *ProjectRef {
	if p == nil {
		return nil
	}
	return &ProjectRef{ID: p.ID, Name: p.Name, Description: p.Description}
}

func refinementToResponse(r *domain.Refinement) RefinementResponse {
	return RefinementResponse{
		ID:            r.ID,
		GeneratedText: r.GeneratedText,
		Difficulty:    r.Difficulty,
	}
}

func refinedLabelToResponse(d *service.RefinementDetail) RefinedLabelResponse {
	return RefinedLabelResponse{
		RefinementResponse: refinementToResponse(d.Refinement),
		InputLabel:         LabelRef{ID: d.Label.ID, Text: d.Label.Text},
	}
}

// labelToResponse converts a label detail. withProject controls whether the
// parent project is embedded, which is redundant inside a project response.
func labelToResponse(d *service.LabelDetail, withProject bool) LabelResponse {
	resp := LabelResponse{
		ID:          d.Label.ID,
		Text:        d.Label.Text,
		Refinements: make([]RefinementResponse, 0, len(d.Refinements)),
	}
	if withProject {
		resp.Project = projectRef(d.Project)
	}
	for _, r := range d.Refinements {
		resp.Refinements = append(resp.Refinements, refinementToResponse(r))
	}
	return resp
}

func labelsToResponse(details []*service.LabelDetail, withProject bool) []LabelResponse {
	resp := make([]LabelResponse, 0, len(details))
	for _, d := range details {
		resp = append(resp, labelToResponse(d, withProject))
	}
	return resp
}

func imageToResponse(img *domain.Image) ImageResponse {
	return ImageResponse{
		ID:          img.ID,
		Filename:    img.Filename,
		ObjectPath:  img.ObjectPath,
		ContentType: img.ContentType,
	}
}

func imagesToResponse(images []*domain.Image) []ImageResponse {
	resp := make([]ImageResponse, 0, len(images))
	for _, img := range images {
		resp = append(resp, imageToResponse(img))
	}
	return resp
}

func projectToResponse(d *service.ProjectDetail) ProjectResponse {
	resp := ProjectResponse{
		ID:          d.Project.ID,
		Name:        d.Project.Name,
		Description: d.Project.Description,
		Labels:      labelsToResponse(d.Labels, false),
		Images:      imagesToResponse(d.Images),
		CreatedAt:   d.Project.CreatedAt,
		UpdatedAt:   d.Project.UpdatedAt,
	}
	if d.Owner != nil {
		resp.User = &UserRef{ID: d.Owner.ID, Username: d.Owner.Username}
	}
	return resp
}

func projectsToResponse(details []*service.ProjectDetail) []ProjectResponse {
	resp := make([]ProjectResponse, 0, len(details))
	for _, d := range details {
		resp = append(resp, projectToResponse(d))
	}
	return resp
}

func userToResponse(p *service.UserProfile) UserResponse {
	resp := UserResponse{
		ID:       p.User.ID,
		Username: p.User.Username,
		Projects: make([]ProjectRef, 0, len(p.Projects)),
	}
	for _, project := range p.Projects {
		resp.Projects = append(resp.Projects, *projectRef(project))
	}
	return resp
}
