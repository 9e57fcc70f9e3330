package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/projpool-api/internal/domain"
	"github.com/phrazzld/projpool-api/internal/events"
	"github.com/phrazzld/projpool-api/internal/generation"
	"github.com/phrazzld/projpool-api/internal/metrics"
	"github.com/phrazzld/projpool-api/internal/platform/logger"
	"github.com/phrazzld/projpool-api/internal/store"
	"golang.org/x/sync/errgroup"
)

// RefinementUpdate changes a refinement either by regenerating it from
// feedback or by replacing its text. Exactly one field must be set.
type RefinementUpdate struct {
	Feedback      *string
	GeneratedText *string
}

// LabelOptions tunes label generation.
type LabelOptions struct {
	// MaxConcurrency bounds the generator calls in flight for one request.
	MaxConcurrency int

	// IncludeImages passes the project's images to the generator.
	IncludeImages bool
}

// LabelService provides label and refinement operations scoped to the
// projects userID owns.
type LabelService interface {
	List(ctx context.Context, userID, projectID uuid.UUID) ([]*LabelDetail, error)

	// Add creates labels from texts and generates a refinement for every
	// difficulty. If any generation fails nothing is stored.
	Add(ctx context.Context, userID, projectID uuid.UUID, texts []string) ([]*LabelDetail, error)

	Get(ctx context.Context, userID, labelID uuid.UUID) (*LabelDetail, error)
	Delete(ctx context.Context, userID, labelID uuid.UUID) error

	UpdateRefinement(
		ctx context.Context,
		userID, refinementID uuid.UUID,
		update RefinementUpdate,
	) (*RefinementDetail, error)
}

type labelServiceImpl struct {
	stores    Stores
	generator generation.Generator
	emitter   events.EventEmitter
	opts      LabelOptions
	logger    *slog.Logger
}

// NewLabelService creates a new LabelService.
// It returns an error if any of the required dependencies are nil.
func NewLabelService(
	stores Stores,
	generator generation.Generator,
	emitter events.EventEmitter,
	opts LabelOptions,
	logger *slog.Logger,
) (LabelService, error) {
	if err := stores.validate(); err != nil {
		return nil, err
	}
	if generator == nil {
		return nil, errNilDependency("generator")
	}
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &labelServiceImpl{
		stores:    stores,
		generator: generator,
		emitter:   emitter,
		opts:      opts,
		logger:    logger.With(slog.String("component", "label_service")),
	}, nil
}

// List implements LabelService.List.
func (s *labelServiceImpl) List(ctx context.Context, userID, projectID uuid.UUID) ([]*LabelDetail, error) {
	project, err := s.stores.Projects.GetForUser(ctx, projectID, userID)
	if err != nil {
		return nil, NewServiceError("label", "list", "failed to retrieve project", err)
	}

	labels, err := s.stores.Labels.ListByProject(ctx, projectID)
	if err != nil {
		return nil, NewServiceError("label", "list", "failed to list labels", err)
	}

	details, err := s.stores.loadLabelDetails(ctx, map[uuid.UUID]*domain.Project{project.ID: project}, labels)
	if err != nil {
		return nil, NewServiceError("label", "list", "failed to load refinements", err)
	}
	return details, nil
}

// Add implements LabelService.Add.
func (s *labelServiceImpl) Add(
	ctx context.Context,
	userID, projectID uuid.UUID,
	texts []string,
) ([]*LabelDetail, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	project, err := s.stores.Projects.GetForUser(ctx, projectID, userID)
	if err != nil {
		return nil, NewServiceError("label", "add", "failed to retrieve project", err)
	}

	texts = domain.NonBlankLabels(texts)
	switch {
	case len(texts) == 0:
		return nil, ErrNoLabels
	case len(texts) > domain.MaxLabelsPerRequest:
		return nil, ErrTooManyLabels
	}

	labels := make([]*domain.Label, len(texts))
	for i, text := range texts {
		labels[i], err = domain.NewLabel(project.ID, text)
		if err != nil {
			return nil, err
		}
	}

	existing, err := s.stores.Labels.CountByProject(ctx, project.ID)
	if err != nil {
		return nil, NewServiceError("label", "add", "failed to count labels", err)
	}
	if existing+len(labels) > domain.MaxLabelsPerProject {
		log.Debug("label limit reached",
			slog.Int("existing", existing),
			slog.Int("requested", len(labels)))
		return nil, ErrLabelLimit
	}

	var images []generation.ImageRef
	if s.opts.IncludeImages {
		stored, err := s.stores.Images.ListByProject(ctx, project.ID)
		if err != nil {
			return nil, NewServiceError("label", "add", "failed to list images", err)
		}
		for _, img := range stored {
			images = append(images, generation.ImageRef{
				ObjectPath:  img.ObjectPath,
				ContentType: img.ContentType,
			})
		}
	}

	refinements, err := s.generateAll(ctx, project, labels, images)
	if err != nil {
		log.Error("label refinement failed",
			slog.String("project_id", project.ID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.stores.DB, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.stores.Projects.WithTx(tx).LockForUser(ctx, project.ID, userID); err != nil {
			return err
		}

		txLabels := s.stores.Labels.WithTx(tx)
		count, err := txLabels.CountByProject(ctx, project.ID)
		if err != nil {
			return err
		}
		if count+len(labels) > domain.MaxLabelsPerProject {
			return ErrLabelLimit
		}

		txRefinements := s.stores.Refinements.WithTx(tx)
		for i, label := range labels {
			if err := txLabels.Create(ctx, label); err != nil {
				return err
			}
			for _, r := range refinements[i] {
				if err := txRefinements.Create(ctx, r); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, NewServiceError("label", "add", "failed to save labels", err)
	}

	details := make([]*LabelDetail, len(labels))
	ids := make([]uuid.UUID, len(labels))
	for i, label := range labels {
		for _, r := range refinements[i] {
			metrics.IncRefinementsGenerated(string(r.Difficulty))
		}
		ids[i] = label.ID
		details[i] = &LabelDetail{Label: label, Project: project, Refinements: refinements[i]}
	}

	log.Info("labels refined",
		slog.String("project_id", project.ID.String()),
		slog.Int("label_count", len(labels)))
	emit(ctx, s.emitter, log, events.TypeLabelsRefined, events.LabelsPayload{
		ProjectID: project.ID,
		LabelIDs:  ids,
	})

	return details, nil
}

// generateAll produces one refinement per label and difficulty. The first
// failure cancels the remaining calls.
func (s *labelServiceImpl) generateAll(
	ctx context.Context,
	project *domain.Project,
	labels []*domain.Label,
	images []generation.ImageRef,
) ([][]*domain.Refinement, error) {
	difficulties := domain.Difficulties()
	results := make([][]*domain.Refinement, len(labels))
	for i := range results {
		results[i] = make([]*domain.Refinement, len(difficulties))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.MaxConcurrency)

	for i, label := range labels {
		for j, difficulty := range difficulties {
			g.Go(func() error {
				text, err := s.generator.RefineLabel(gctx, generation.RefineRequest{
					LabelText:          label.Text,
					Difficulty:         difficulty,
					ProjectName:        project.Name,
					ProjectDescription: project.Description,
					Images:             images,
				})
				if err != nil {
					return fmt.Errorf("error generating explanations %q with difficulty %q: %w",
						label.Text, difficulty, err)
				}

				r, err := domain.NewRefinement(label.ID, difficulty, text)
				if err != nil {
					return fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
				}
				results[i][j] = r
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Get implements LabelService.Get.
func (s *labelServiceImpl) Get(ctx context.Context, userID, labelID uuid.UUID) (*LabelDetail, error) {
	label, err := s.stores.Labels.GetForUser(ctx, labelID, userID)
	if err != nil {
		return nil, NewServiceError("label", "get", "failed to retrieve label", err)
	}

	project, err := s.stores.Projects.GetByID(ctx, label.ProjectID)
	if err != nil {
		return nil, NewServiceError("label", "get", "failed to retrieve project", err)
	}

	details, err := s.stores.loadLabelDetails(
		ctx,
		map[uuid.UUID]*domain.Project{project.ID: project},
		[]*domain.Label{label},
	)
	if err != nil {
		return nil, NewServiceError("label", "get", "failed to load refinements", err)
	}
	return details[0], nil
}

// Delete implements LabelService.Delete.
func (s *labelServiceImpl) Delete(ctx context.Context, userID, labelID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var label *domain.Label
	err := store.RunInTransaction(ctx, s.stores.DB, func(ctx context.Context, tx *sql.Tx) error {
		labels := s.stores.Labels.WithTx(tx)

		var err error
		label, err = labels.GetForUser(ctx, labelID, userID)
		if err != nil {
			return err
		}
		return labels.Delete(ctx, labelID)
	})
	if err != nil {
		return NewServiceError("label", "delete", "failed to delete label", err)
	}

	log.Info("label deleted", slog.String("label_id", labelID.String()))
	emit(ctx, s.emitter, log, events.TypeLabelDeleted, events.LabelsPayload{
		ProjectID: label.ProjectID,
		LabelIDs:  []uuid.UUID{labelID},
	})

	return nil
}

// UpdateRefinement implements LabelService.UpdateRefinement.
func (s *labelServiceImpl) UpdateRefinement(
	ctx context.Context,
	userID, refinementID uuid.UUID,
	update RefinementUpdate,
) (*RefinementDetail, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if (update.Feedback == nil) == (update.GeneratedText == nil) {
		return nil, ErrRefinementUpdate
	}

	refinement, err := s.stores.Refinements.GetForUser(ctx, refinementID, userID)
	if err != nil {
		return nil, NewServiceError("refinement", "update", "failed to retrieve refinement", err)
	}
	label, err := s.stores.Labels.GetForUser(ctx, refinement.LabelID, userID)
	if err != nil {
		return nil, NewServiceError("refinement", "update", "failed to retrieve label", err)
	}

	source := "edit"
	if update.Feedback != nil {
		source = "feedback"
		feedback := strings.TrimSpace(*update.Feedback)
		if err := domain.ValidateFeedback(feedback); err != nil {
			return nil, err
		}

		text, err := s.generator.ReviseRefinement(ctx, generation.ReviseRequest{
			PreviousText: refinement.GeneratedText,
			Feedback:     feedback,
			LabelText:    label.Text,
			Difficulty:   refinement.Difficulty,
		})
		if err != nil {
			log.Error("refinement revision failed",
				slog.String("refinement_id", refinementID.String()),
				slog.String("error", err.Error()))
			return nil, err
		}
		if err := refinement.Rewrite(text); err != nil {
			return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
		}
	} else {
		text := strings.TrimSpace(*update.GeneratedText)
		if err := domain.ValidateEditedText(text); err != nil {
			return nil, err
		}
		if err := refinement.Rewrite(text); err != nil {
			return nil, err
		}
	}

	if err := s.stores.Refinements.Update(ctx, refinement); err != nil {
		log.Error("failed to save refinement",
			slog.String("refinement_id", refinementID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError("refinement", "update", "failed to save refinement", err)
	}

	emit(ctx, s.emitter, log, events.TypeRefinementUpdated, events.RefinementPayload{
		RefinementID: refinement.ID,
		LabelID:      label.ID,
		Source:       source,
	})

	return &RefinementDetail{Refinement: refinement, Label: label}, nil
}
