package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"cloud.google.com/go/storage"
	goredis "github.com/redis/go-redis/v9"

	"github.com/phrazzld/projpool-api/internal/api/middleware"
	"github.com/phrazzld/projpool-api/internal/config"
	"github.com/phrazzld/projpool-api/internal/events"
	"github.com/phrazzld/projpool-api/internal/generation"
	"github.com/phrazzld/projpool-api/internal/media"
	"github.com/phrazzld/projpool-api/internal/platform/amqp"
	"github.com/phrazzld/projpool-api/internal/platform/gcs"
	"github.com/phrazzld/projpool-api/internal/platform/gemini"
	"github.com/phrazzld/projpool-api/internal/platform/postgres"
	"github.com/phrazzld/projpool-api/internal/platform/redis"
	"github.com/phrazzld/projpool-api/internal/service"
	"github.com/phrazzld/projpool-api/internal/service/auth"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Optional infrastructure, nil when not configured
	redisClient *goredis.Client
	publisher   *amqp.Publisher
	gcsClient   *storage.Client

	jwtService   auth.JWTService
	revocations  *auth.Revocations
	taskVerifier *auth.TaskTokenVerifier

	userService    service.UserService
	projectService service.ProjectService
	labelService   service.LabelService
	imageService   service.ImageService
	tokenCleanup   *service.TokenCleanupService

	rateLimiter *middleware.RateLimiter
}

// newApplication opens every backing service and wires the stores, services
// and platform adapters together. On error, anything already opened is closed.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (app *application, err error) {
	app = &application{config: cfg, logger: logger}
	defer func() {
		if err != nil {
			app.cleanup()
			app = nil
		}
	}()

	app.db, err = postgres.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	stores := service.Stores{
		DB:          app.db,
		Users:       postgres.NewPostgresUserStore(app.db, logger),
		Projects:    postgres.NewPostgresProjectStore(app.db, logger),
		Labels:      postgres.NewPostgresLabelStore(app.db, logger),
		Refinements: postgres.NewPostgresRefinementStore(app.db, logger),
		Images:      postgres.NewPostgresImageStore(app.db, logger),
	}
	revokedTokens := postgres.NewPostgresRevokedTokenStore(app.db, logger)

	var cache auth.RevocationCache
	if cfg.Redis.Enabled() {
		app.redisClient, err = redis.NewClient(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		cache = redis.NewRevocationCache(app.redisClient)
	}
	app.revocations = auth.NewRevocations(revokedTokens, cache, logger)

	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create jwt service: %w", err)
	}
	app.taskVerifier = auth.NewTaskTokenVerifier(cfg.Tasks.ServiceURL, logger)

	emitter := events.NewInMemoryEventEmitter(logger)
	if cfg.Events.AMQPURL != "" {
		app.publisher, err = amqp.NewPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to amqp broker: %w", err)
		}
		emitter.RegisterHandler(app.publisher)
	}

	app.gcsClient, err = gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	blobs := gcs.NewStore(app.gcsClient, cfg.Storage, logger)

	prompts, err := generation.DefaultPrompts()
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}
	generator, err := gemini.NewGeminiGenerator(ctx, logger, cfg.LLM, prompts)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	app.userService, err = service.NewUserService(
		stores,
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		app.jwtService,
		app.revocations,
		blobs,
		emitter,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.projectService, err = service.NewProjectService(stores, blobs, emitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create project service: %w", err)
	}

	app.labelService, err = service.NewLabelService(stores, generator, emitter, service.LabelOptions{
		MaxConcurrency: cfg.LLM.MaxConcurrency,
		IncludeImages:  cfg.LLM.IncludeImages,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create label service: %w", err)
	}

	app.imageService, err = service.NewImageService(stores, blobs, emitter, media.Options{
		MaxDimension: cfg.Storage.MaxImageDimension,
		Quality:      cfg.Storage.JPEGQuality,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create image service: %w", err)
	}

	app.tokenCleanup, err = service.NewTokenCleanupService(revokedTokens, cfg.Auth.TokenLifetime(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create token cleanup service: %w", err)
	}

	app.rateLimiter = middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)

	return app, nil
}

// cleanup releases all resources held by the application.
func (app *application) cleanup() {
	if app.publisher != nil {
		if err := app.publisher.Close(); err != nil {
			app.logger.Error("failed to close amqp publisher", slog.String("error", err.Error()))
		}
	}
	if app.gcsClient != nil {
		if err := app.gcsClient.Close(); err != nil {
			app.logger.Error("failed to close storage client", slog.String("error", err.Error()))
		}
	}
	if app.redisClient != nil {
		if err := app.redisClient.Close(); err != nil {
			app.logger.Error("failed to close redis client", slog.String("error", err.Error()))
		}
	}
	if app.db != nil {
		app.logger.Info("closing database connection")
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", slog.String("error", err.Error()))
		}
	}
}
