package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/projpool-api/internal/domain"
	"github.com/phrazzld/projpool-api/internal/events"
	"github.com/phrazzld/projpool-api/internal/service"
	"github.com/phrazzld/projpool-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProjectService(t *testing.T, f *fixture) service.ProjectService {
	t.Helper()
	svc, err := service.NewProjectService(f.stores(), f.blobs, f.emitter, nil)
	require.NoError(t, err)
	return svc
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name                  string
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{"defaults", 0, 0, service.DefaultPublicLimit, 0},
		{"negative limit", -5, 10, service.DefaultPublicLimit, 10},
		{"capped", 500, 0, service.MaxPublicLimit, 0},
		{"negative offset", 20, -1, 20, 0},
		{"within range", 25, 50, 25, 50},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			limit, offset := service.NormalizePage(tc.limit, tc.offset)
			assert.Equal(t, tc.wantLimit, limit)
			assert.Equal(t, tc.wantOffset, offset)
		})
	}
}

func TestProjectServiceCreate(t *testing.T) {
	f := newFixture(t)
	alice := testUser(t, "alice")
	f.users.GetByIDFn = func(context.Context, uuid.UUID) (*domain.User, error) { return alice, nil }
	f.expectCommit()

	var saved *domain.Project
	f.projects.CreateFn = func(_ context.Context, p *domain.Project) error {
		saved = p
		return nil
	}

	svc := newProjectService(t, f)
	detail, err := svc.Create(context.Background(), alice.ID, "  Birdhouse ", "cedar")

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "Birdhouse", detail.Project.Name)
	assert.Equal(t, alice.ID, detail.Project.UserID)
	assert.Equal(t, alice, detail.Owner)
	assert.Empty(t, detail.Labels)
	assert.Empty(t, detail.Images)
	assert.Equal(t, []string{events.TypeProjectCreated}, f.emitter.Types())
}

func TestProjectServiceCreateInvalid(t *testing.T) {
	f := newFixture(t)
	svc := newProjectService(t, f)

	_, err := svc.Create(context.Background(), uuid.New(), "   ", "desc")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProjectServiceGetAssemblesDetails(t *testing.T) {
	f := newFixture(t)
	alice := testUser(t, "alice")
	project := testProject(t, alice.ID)
	f.ownProject(project)
	f.users.GetByIDFn = func(context.Context, uuid.UUID) (*domain.User, error) { return alice, nil }

	roof, err := domain.NewLabel(project.ID, "Roof")
	require.NoError(t, err)
	simple, err := domain.NewRefinement(roof.ID, domain.DifficultySimple, "Nail two boards together.")
	require.NoError(t, err)
	image, err := domain.NewImage(project.ID, "front.jpg", "gs://bucket/project_images/x_front.jpg", "image/jpeg")
	require.NoError(t, err)

	f.labels.ListByProjectsFn = func(_ context.Context, ids []uuid.UUID) ([]*domain.Label, error) {
		assert.Equal(t, []uuid.UUID{project.ID}, ids)
		return []*domain.Label{roof}, nil
	}
	f.refinements.ListByLabelsFn = func(_ context.Context, ids []uuid.UUID) ([]*domain.Refinement, error) {
		assert.Equal(t, []uuid.UUID{roof.ID}, ids)
		return []*domain.Refinement{simple}, nil
	}
	f.images.ListByProjectsFn = func(context.Context, []uuid.UUID) ([]*domain.Image, error) {
		return []*domain.Image{image}, nil
	}

	svc := newProjectService(t, f)

	detail, err := svc.Get(context.Background(), alice.ID, project.ID)
	require.NoError(t, err)
	assert.Equal(t, project, detail.Project)
	require.Len(t, detail.Labels, 1)
	assert.Equal(t, roof, detail.Labels[0].Label)
	assert.Equal(t, project, detail.Labels[0].Project)
	assert.Equal(t, []*domain.Refinement{simple}, detail.Labels[0].Refinements)
	assert.Equal(t, []*domain.Image{image}, detail.Images)

	_, err = svc.Get(context.Background(), uuid.New(), project.ID)
	assert.ErrorIs(t, err, store.ErrProjectNotFound, "other users see not found")
}

func TestProjectServiceListPublicSharesOwnerLookups(t *testing.T) {
	f := newFixture(t)
	alice := testUser(t, "alice")
	projects := []*domain.Project{testProject(t, alice.ID), testProject(t, alice.ID)}

	var gotLimit, gotOffset int
	f.projects.ListPublicFn = func(_ context.Context, limit, offset int) ([]*domain.Project, error) {
		gotLimit, gotOffset = limit, offset
		return projects, nil
	}
	lookups := 0
	f.users.GetByIDFn = func(context.Context, uuid.UUID) (*domain.User, error) {
		lookups++
		return alice, nil
	}

	svc := newProjectService(t, f)
	details, err := svc.ListPublic(context.Background(), 0, -3)

	require.NoError(t, err)
	assert.Len(t, details, 2)
	assert.Equal(t, service.DefaultPublicLimit, gotLimit)
	assert.Equal(t, 0, gotOffset)
	assert.Equal(t, 1, lookups)
}

func TestProjectServiceUpdate(t *testing.T) {
	alice := testUser(t, "alice")

	t.Run("partial update", func(t *testing.T) {
		f := newFixture(t)
		project := testProject(t, alice.ID)
		f.ownProject(project)
		f.users.GetByIDFn = func(context.Context, uuid.UUID) (*domain.User, error) { return alice, nil }
		f.expectCommit()

		updated := 0
		f.projects.UpdateFn = func(context.Context, *domain.Project) error {
			updated++
			return nil
		}

		desc := "Now with a copper roof"
		svc := newProjectService(t, f)
		detail, err := svc.Update(context.Background(), alice.ID, project.ID, service.ProjectUpdate{Description: &desc})

		require.NoError(t, err)
		assert.Equal(t, 1, updated)
		assert.Equal(t, "Birdhouse", detail.Project.Name)
		assert.Equal(t, desc, detail.Project.Description)
		assert.Equal(t, []string{events.TypeProjectUpdated}, f.emitter.Types())
	})

	t.Run("empty patch", func(t *testing.T) {
		f := newFixture(t)
		project := testProject(t, alice.ID)
		f.ownProject(project)
		f.expectRollback()

		svc := newProjectService(t, f)
		_, err := svc.Update(context.Background(), alice.ID, project.ID, service.ProjectUpdate{})

		assert.ErrorIs(t, err, domain.ErrEmptyProjectPatch)
		assert.Empty(t, f.emitter.Types())
	})

	t.Run("not owner", func(t *testing.T) {
		f := newFixture(t)
		project := testProject(t, alice.ID)
		f.ownProject(project)
		f.expectRollback()

		name := "Mine now"
		svc := newProjectService(t, f)
		_, err := svc.Update(context.Background(), uuid.New(), project.ID, service.ProjectUpdate{Name: &name})

		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestProjectServiceDelete(t *testing.T) {
	alice := testUser(t, "alice")

	t.Run("removes image objects after commit", func(t *testing.T) {
		f := newFixture(t)
		project := testProject(t, alice.ID)
		f.ownProject(project)
		f.expectCommit()

		image, err := domain.NewImage(project.ID, "a.jpg", "gs://bucket/project_images/a.jpg", "image/jpeg")
		require.NoError(t, err)
		f.images.ListByProjectFn = func(context.Context, uuid.UUID) ([]*domain.Image, error) {
			return []*domain.Image{image}, nil
		}

		svc := newProjectService(t, f)
		require.NoError(t, svc.Delete(context.Background(), alice.ID, project.ID))

		assert.Equal(t, []string{image.ObjectPath}, f.blobs.Deleted())
		assert.Equal(t, []string{events.TypeProjectDeleted}, f.emitter.Types())
	})

	t.Run("database failure", func(t *testing.T) {
		f := newFixture(t)
		project := testProject(t, alice.ID)
		f.ownProject(project)
		f.expectRollback()
		f.projects.DeleteFn = func(context.Context, uuid.UUID) error {
			return errors.New("foreign key violation")
		}

		svc := newProjectService(t, f)
		assert.Error(t, svc.Delete(context.Background(), alice.ID, project.ID))
		assert.Empty(t, f.blobs.Deleted())
	})
}
