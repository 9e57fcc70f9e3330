package events

import "github.com/google/uuid"

// UserPayload accompanies user.registered and user.deleted.
type UserPayload struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username,omitempty"`
}

// ProjectPayload accompanies the project.* events.
type ProjectPayload struct {
	ProjectID uuid.UUID `json:"project_id"`
	UserID    uuid.UUID `json:"user_id"`
}

// LabelsPayload accompanies labels.refined and label.deleted.
type LabelsPayload struct {
	ProjectID uuid.UUID   `json:"project_id"`
	LabelIDs  []uuid.UUID `json:"label_ids"`
}

// RefinementPayload accompanies refinement.updated. Source is "feedback" or "edit".
type RefinementPayload struct {
	RefinementID uuid.UUID `json:"refinement_id"`
	LabelID      uuid.UUID `json:"label_id"`
	Source       string    `json:"source"`
}

// ImagePayload accompanies image.uploaded and image.deleted.
type ImagePayload struct {
	ImageID   uuid.UUID `json:"image_id"`
	ProjectID uuid.UUID `json:"project_id"`
}
