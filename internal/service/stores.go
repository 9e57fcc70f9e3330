package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/projpool-api/internal/blob"
	"github.com/phrazzld/projpool-api/internal/events"
	"github.com/phrazzld/projpool-api/internal/store"
)

// Stores bundles the persistence dependencies shared by the services.
// DB is used to open transactions; the stores are rebound with WithTx.
type Stores struct {
	DB          *sql.DB
	Users       store.UserStore
	Projects    store.ProjectStore
	Labels      store.LabelStore
	Refinements store.RefinementStore
	Images      store.ImageStore
}

func (s Stores) validate() error {
	switch {
	case s.DB == nil:
		return errNilDependency("db")
	case s.Users == nil:
		return errNilDependency("user store")
	case s.Projects == nil:
		return errNilDependency("project store")
	case s.Labels == nil:
		return errNilDependency("label store")
	case s.Refinements == nil:
		return errNilDependency("refinement store")
	case s.Images == nil:
		return errNilDependency("image store")
	}
	return nil
}

// emit publishes a domain event. Failures are logged and never fail the
// request that produced the event.
func emit(ctx context.Context, emitter events.EventEmitter, log *slog.Logger, eventType string, payload any) {
	event, err := events.NewEvent(eventType, payload)
	if err != nil {
		log.Error("failed to build event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
		return
	}
	if err := emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("failed to emit event",
			slog.String("event_type", eventType),
			slog.String("event_id", event.ID.String()),
			slog.String("error", err.Error()))
	}
}

// deleteBlobs removes stored objects after their rows are gone.
// A failure leaves an orphaned object and is only logged.
func deleteBlobs(ctx context.Context, blobs blob.Store, log *slog.Logger, paths []string) {
	for _, p := range paths {
		if err := blobs.Delete(ctx, p); err != nil {
			log.Warn("failed to delete image object",
				slog.String("object_path", p),
				slog.String("error", err.Error()))
		}
	}
}
