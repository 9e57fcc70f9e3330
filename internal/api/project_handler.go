package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/phrazzld/projpool-api/internal/api/shared"
	"github.com/phrazzld/projpool-api/internal/platform/logger"
	"github.com/phrazzld/projpool-api/internal/service"
)

// ProjectHandler handles project requests.
type ProjectHandler struct {
	projects service.ProjectService
	logger   *slog.Logger
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projects service.ProjectService, logger *slog.Logger) *ProjectHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProjectHandler")
	}

	return &ProjectHandler{
		projects: projects,
		logger:   logger.With(slog.String("component", "project_handler")),
	}
}

// ListProjects handles GET /projects and lists the caller's projects.
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	userID, ok := handleUserIDFromContext(w, r, h.logger)
	if !ok {
		return
	}

	details, err := h.projects.ListMine(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list projects")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, projectsToResponse(details))
}

// CreateProject handles POST /projects.
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handleUserIDFromContext(w, r, h.logger)
	if !ok {
		return
	}

	var req CreateProjectRequest
	if !parseAndValidateRequest(w, r, &req) {
		return
	}

	detail, err := h.projects.Create(r.Context(), userID, req.Name, *req.Description)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create project")
		return
	}

	log.Debug("project created", slog.String("project_id", detail.Project.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, projectToResponse(detail))
}

// ListPublicProjects handles GET /projects/public. It accepts optional
// limit and offset query parameters.
func (h *ProjectHandler) ListPublicProjects(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}
	offset, ok := queryInt(w, r, "offset")
	if !ok {
		return
	}

	details, err := h.projects.ListPublic(r.Context(), limit, offset)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list projects")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, projectsToResponse(details))
}

// GetProject handles GET /projects/{projectID}.
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := handleUserIDAndPathUUID(w, r, "projectID", h.logger)
	if !ok {
		return
	}

	detail, err := h.projects.Get(r.Context(), userID, projectID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get project")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, projectToResponse(detail))
}

// UpdateProject handles PATCH /projects/{projectID}.
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := handleUserIDAndPathUUID(w, r, "projectID", h.logger)
	if !ok {
		return
	}

	var req UpdateProjectRequest
	if !parseAndValidateRequest(w, r, &req) {
		return
	}

	update := service.ProjectUpdate{Name: req.Name, Description: req.Description}
	detail, err := h.projects.Update(r.Context(), userID, projectID, update)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update project")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, projectToResponse(detail))
}

// DeleteProject handles DELETE /projects/{projectID}.
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := handleUserIDAndPathUUID(w, r, "projectID", h.logger)
	if !ok {
		return
	}

	if err := h.projects.Delete(r.Context(), userID, projectID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete project")
		return
	}

	shared.RespondWithMessage(w, r, http.StatusOK, "Project deleted successfully")
}

// queryInt reads an optional integer query parameter. Zero means absent.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+name+": must be an integer")
		return 0, false
	}
	return n, true
}
