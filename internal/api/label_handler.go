package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/projpool-api/internal/api/shared"
	"github.com/phrazzld/projpool-api/internal/platform/logger"
	"github.com/phrazzld/projpool-api/internal/service"
)

// LabelHandler handles label and refined label requests.
type LabelHandler struct {
	labels service.LabelService
	logger *slog.Logger
}

// NewLabelHandler creates a new LabelHandler.
func NewLabelHandler(labels service.LabelService, logger *slog.Logger) *LabelHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for LabelHandler")
	}

	return &LabelHandler{
		labels: labels,
		logger: logger.With(slog.String("component", "label_handler")),
	}
}

// ListLabels handles GET /projects/{projectID}/labels.
func (h *LabelHandler) ListLabels(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := handleUserIDAndPathUUID(w, r, "projectID", h.logger)
	if !ok {
		return
	}

	details, err := h.labels.List(r.Context(), userID, projectID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list labels")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, labelsToResponse(details, true))
}

// AddLabels handles POST /projects/{projectID}/labels. Every new label is
// refined at each difficulty before anything is stored.
func (h *LabelHandler) AddLabels(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, projectID, ok := handleUserIDAndPathUUID(w, r, "projectID", h.logger)
	if !ok {
		return
	}

	var req AddLabelsRequest
	if !parseAndValidateRequest(w, r, &req) {
		return
	}

	details, err := h.labels.Add(r.Context(), userID, projectID, req.Labels)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add labels")
		return
	}

	log.Info("labels refined",
		slog.String("project_id", projectID.String()),
		slog.Int("count", len(details)))
	shared.RespondWithJSON(w, r, http.StatusCreated, labelsToResponse(details, true))
}

// GetLabel handles GET /labels/{labelID}.
func (h *LabelHandler) GetLabel(w http.ResponseWriter, r *http.Request) {
	userID, labelID, ok := handleUserIDAndPathUUID(w, r, "labelID", h.logger)
	if !ok {
		return
	}

	detail, err := h.labels.Get(r.Context(), userID, labelID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get label")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, labelToResponse(detail, true))
}

// DeleteLabel handles DELETE /labels/{labelID}.
func (h *LabelHandler) DeleteLabel(w http.ResponseWriter, r *http.Request) {
	userID, labelID, ok := handleUserIDAndPathUUID(w, r, "labelID", h.logger)
	if !ok {
		return
	}

	if err := h.labels.Delete(r.Context(), userID, labelID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete label")
		return
	}

	shared.RespondWithMessage(w, r, http.StatusOK, "Label deleted successfully")
}

// UpdateRefinement handles PATCH /refined_labels/{refinedID}. The body holds
// either reviewer feedback for the model or a manual edit, never both.
func (h *LabelHandler) UpdateRefinement(w http.ResponseWriter, r *http.Request) {
	userID, refinementID, ok := handleUserIDAndPathUUID(w, r, "refinedID", h.logger)
	if !ok {
		return
	}

	var req UpdateRefinementRequest
	if !parseAndValidateRequest(w, r, &req) {
		return
	}

	switch {
	case req.Feedback == nil && req.GeneratedText == nil:
		shared.RespondWithError(w, r, http.StatusBadRequest, "Provide feedback or generated_text")
		return
	case req.Feedback != nil && req.GeneratedText != nil:
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"Cannot provide both feedback and generated_text in the same request")
		return
	}

	update := service.RefinementUpdate{Feedback: req.Feedback, GeneratedText: req.GeneratedText}
	detail, err := h.labels.UpdateRefinement(r.Context(), userID, refinementID, update)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update refined label")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, refinedLabelToResponse(detail))
}
