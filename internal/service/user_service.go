package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/projpool-api/internal/blob"
	"github.com/phrazzld/projpool-api/internal/domain"
	"github.com/phrazzld/projpool-api/internal/events"
	"github.com/phrazzld/projpool-api/internal/platform/logger"
	"github.com/phrazzld/projpool-api/internal/service/auth"
	"github.com/phrazzld/projpool-api/internal/store"
)

// TokenRevoker records that an access token may no longer be used.
type TokenRevoker interface {
	Revoke(ctx context.Context, claims *auth.Claims) error
}

// UserService provides account operations.
type UserService interface {
	// Register creates a user with a hashed password.
	// Returns store.ErrUsernameExists when the username is taken.
	Register(ctx context.Context, username, password string) (*domain.User, error)

	// Authenticate checks credentials and issues an access token.
	// Returns ErrInvalidCredentials for an unknown user or a wrong password.
	Authenticate(ctx context.Context, username, password string) (string, error)

	// Logout revokes the presented token. Revoking twice succeeds.
	Logout(ctx context.Context, claims *auth.Claims) error

	// GetProfile returns a user with their projects.
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserProfile, error)

	// Delete removes userID and everything it owns. Only the user itself
	// may do this; anyone else gets ErrForbidden.
	Delete(ctx context.Context, actorID, userID uuid.UUID) error
}

type userServiceImpl struct {
	stores  Stores
	hasher  auth.PasswordHasher
	tokens  auth.JWTService
	revoker TokenRevoker
	blobs   blob.Store
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewUserService creates a new UserService.
// It returns an error if any of the required dependencies are nil.
// A nil emitter discards events.
func NewUserService(
	stores Stores,
	hasher auth.PasswordHasher,
	tokens auth.JWTService,
	revoker TokenRevoker,
	blobs blob.Store,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (UserService, error) {
	if err := stores.validate(); err != nil {
		return nil, err
	}
	if hasher == nil {
		return nil, errNilDependency("password hasher")
	}
	if tokens == nil {
		return nil, errNilDependency("jwt service")
	}
	if revoker == nil {
		return nil, errNilDependency("token revoker")
	}
	if blobs == nil {
		return nil, errNilDependency("blob store")
	}
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &userServiceImpl{
		stores:  stores,
		hasher:  hasher,
		tokens:  tokens,
		revoker: revoker,
		blobs:   blobs,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "user_service")),
	}, nil
}

// Register implements UserService.Register.
func (s *userServiceImpl) Register(ctx context.Context, username, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(username, password)
	if err != nil {
		log.Debug("rejected registration", slog.String("error", err.Error()))
		return nil, err
	}

	hash, err := s.hasher.Hash(user.Password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, NewServiceError("user", "register", "failed to hash password", err)
	}
	user.HashedPassword = hash
	user.Password = ""

	err = store.RunInTransaction(ctx, s.stores.DB, func(ctx context.Context, tx *sql.Tx) error {
		return s.stores.Users.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			log.Debug("username already taken", slog.String("username", username))
		} else {
			log.Error("failed to save user", slog.String("error", err.Error()))
		}
		return nil, NewServiceError("user", "register", "failed to save user", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	emit(ctx, s.emitter, log, events.TypeUserRegistered, events.UserPayload{
		UserID:   user.ID,
		Username: user.Username,
	})

	return user, nil
}

// Authenticate implements UserService.Authenticate.
func (s *userServiceImpl) Authenticate(ctx context.Context, username, password string) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.stores.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login for unknown username")
			return "", ErrInvalidCredentials
		}
		log.Error("failed to look up user", slog.String("error", err.Error()))
		return "", NewServiceError("user", "authenticate", "failed to look up user", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login with wrong password", slog.String("user_id", user.ID.String()))
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(ctx, user.ID)
	if err != nil {
		log.Error("failed to generate token", slog.String("error", err.Error()))
		return "", NewServiceError("user", "authenticate", "failed to generate token", err)
	}

	return token, nil
}

// Logout implements UserService.Logout.
func (s *userServiceImpl) Logout(ctx context.Context, claims *auth.Claims) error {
	if err := s.revoker.Revoke(ctx, claims); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to revoke token",
			slog.String("error", err.Error()))
		return NewServiceError("user", "logout", "failed to revoke token", err)
	}
	return nil
}

// GetProfile implements UserService.GetProfile.
func (s *userServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*UserProfile, error) {
	user, err := s.stores.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, NewServiceError("user", "get profile", "failed to retrieve user", err)
	}

	projects, err := s.stores.Projects.ListByUser(ctx, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list projects",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError("user", "get profile", "failed to list projects", err)
	}

	return &UserProfile{User: user, Projects: projects}, nil
}

// Delete implements UserService.Delete.
func (s *userServiceImpl) Delete(ctx context.Context, actorID, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.stores.Users.GetByID(ctx, userID); err != nil {
		return NewServiceError("user", "delete", "failed to retrieve user", err)
	}
	if actorID != userID {
		log.Warn("attempt to delete another user",
			slog.String("actor_id", actorID.String()),
			slog.String("user_id", userID.String()))
		return ErrForbidden
	}

	var paths []string
	err := store.RunInTransaction(ctx, s.stores.DB, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		paths, err = s.stores.Images.WithTx(tx).ListPathsByUser(ctx, userID)
		if err != nil {
			return err
		}
		return s.stores.Users.WithTx(tx).Delete(ctx, userID)
	})
	if err != nil {
		log.Error("failed to delete user",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return NewServiceError("user", "delete", "failed to delete user", err)
	}

	deleteBlobs(ctx, s.blobs, log, paths)

	log.Info("user deleted",
		slog.String("user_id", userID.String()),
		slog.Int("image_count", len(paths)))
	emit(ctx, s.emitter, log, events.TypeUserDeleted, events.UserPayload{UserID: userID})

	return nil
}
