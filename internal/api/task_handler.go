package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/projpool-api/internal/api/shared"
	"github.com/phrazzld/projpool-api/internal/platform/logger"
)

// TokenCleaner purges revoked tokens that can no longer be presented.
type TokenCleaner interface {
	Cleanup(ctx context.Context) (int64, error)
}

// TaskHandler handles requests sent by the scheduler. Routes using it must
// be behind task token verification.
type TaskHandler struct {
	cleaner TokenCleaner
	logger  *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(cleaner TokenCleaner, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		cleaner: cleaner,
		logger:  logger.With(slog.String("component", "task_handler")),
	}
}

// CleanupRevokedTokens handles POST /tasks/cleanup-revoked-tokens.
func (h *TaskHandler) CleanupRevokedTokens(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	deleted, err := h.cleaner.Cleanup(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to clean up revoked tokens")
		return
	}

	log.Info("revoked tokens cleaned up", slog.Int64("deleted", deleted))
	shared.RespondWithJSON(w, r, http.StatusOK, CleanupResponse{
		Message: "Cleanup of revoked tokens completed",
		Deleted: deleted,
	})
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
