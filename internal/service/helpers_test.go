package service_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/projpool-api/internal/domain"
	"github.com/phrazzld/projpool-api/internal/mocks"
	"github.com/phrazzld/projpool-api/internal/service"
	"github.com/phrazzld/projpool-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture wires every service dependency to a mock. Transactions run against
// sqlmock; each test declares the Begin/Commit/Rollback it expects.
type fixture struct {
	db          *sql.DB
	sql         sqlmock.Sqlmock
	users       *mocks.MockUserStore
	projects    *mocks.MockProjectStore
	labels      *mocks.MockLabelStore
	refinements *mocks.MockRefinementStore
	images      *mocks.MockImageStore
	blobs       *mocks.MockBlobStore
	emitter     *mocks.MockEventEmitter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, sqlMock.ExpectationsWereMet(), "unmet transaction expectations")
		_ = db.Close()
	})

	return &fixture{
		db:          db,
		sql:         sqlMock,
		users:       &mocks.MockUserStore{},
		projects:    &mocks.MockProjectStore{},
		labels:      &mocks.MockLabelStore{},
		refinements: &mocks.MockRefinementStore{},
		images:      &mocks.MockImageStore{},
		blobs:       &mocks.MockBlobStore{},
		emitter:     &mocks.MockEventEmitter{},
	}
}

func (f *fixture) stores() service.Stores {
	return service.Stores{
		DB:          f.db,
		Users:       f.users,
		Projects:    f.projects,
		Labels:      f.labels,
		Refinements: f.refinements,
		Images:      f.images,
	}
}

func (f *fixture) expectCommit() {
	f.sql.ExpectBegin()
	f.sql.ExpectCommit()
}

func (f *fixture) expectRollback() {
	f.sql.ExpectBegin()
	f.sql.ExpectRollback()
}

// ownProject makes GetForUser/GetByID/LockForUser succeed only for owner.
func (f *fixture) ownProject(project *domain.Project) {
	f.projects.GetForUserFn = func(_ context.Context, id, userID uuid.UUID) (*domain.Project, error) {
		if id == project.ID && userID == project.UserID {
			return project, nil
		}
		return nil, storeNotFound(id)
	}
	f.projects.GetByIDFn = func(_ context.Context, id uuid.UUID) (*domain.Project, error) {
		if id == project.ID {
			return project, nil
		}
		return nil, storeNotFound(id)
	}
	f.projects.LockForUserFn = func(_ context.Context, id, userID uuid.UUID) error {
		if id == project.ID && userID == project.UserID {
			return nil
		}
		return storeNotFound(id)
	}
}

func testUser(t *testing.T, username string) *domain.User {
	t.Helper()
	return &domain.User{
		ID:             uuid.New(),
		Username:       username,
		HashedPassword: "hashed:password123",
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
}

func testProject(t *testing.T, owner uuid.UUID) *domain.Project {
	t.Helper()
	p, err := domain.NewProject(owner, "Birdhouse", "A cedar birdhouse for the garden")
	require.NoError(t, err)
	return p
}

func storeNotFound(id uuid.UUID) error {
	return fmt.Errorf("%w: %s", store.ErrProjectNotFound, id)
}
