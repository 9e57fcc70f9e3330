package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phrazzld/projpool-api/internal/api"
	"github.com/phrazzld/projpool-api/internal/api/middleware"
	"github.com/phrazzld/projpool-api/internal/config"
	"github.com/phrazzld/projpool-api/internal/service"
	"github.com/phrazzld/projpool-api/internal/service/auth"
)

// corsMaxAge is the preflight cache lifetime in seconds.
const corsMaxAge = 86400

// routerDeps holds everything the router needs. Interfaces keep the router
// testable with mocks; a nil rateLimiter or revocations disables that check.
type routerDeps struct {
	users        service.UserService
	projects     service.ProjectService
	labels       service.LabelService
	images       service.ImageService
	cleaner      api.TokenCleaner
	jwtService   auth.JWTService
	revocations  middleware.RevocationChecker
	taskVerifier middleware.TaskTokenVerifier
	rateLimiter  *middleware.RateLimiter
}

// routerDeps returns the application's services for newRouter.
func (app *application) routerDeps() routerDeps {
	deps := routerDeps{
		users:        app.userService,
		projects:     app.projectService,
		labels:       app.labelService,
		images:       app.imageService,
		cleaner:      app.tokenCleanup,
		jwtService:   app.jwtService,
		revocations:  app.revocations,
		taskVerifier: app.taskVerifier,
	}
	if app.config.Server.RateLimitRPS > 0 {
		deps.rateLimiter = app.rateLimiter
	}
	return deps
}

// newRouter builds the chi router with the middleware stack and all routes.
func newRouter(cfg *config.Config, deps routerDeps, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.TraceMiddleware(logger))
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	if cfg.Server.FrontendURL != "" {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{cfg.Server.FrontendURL},
			AllowedMethods: []string{
				http.MethodGet,
				http.MethodPost,
				http.MethodPut,
				http.MethodPatch,
				http.MethodDelete,
				http.MethodOptions,
			},
			AllowedHeaders:   []string{"Content-Type", "Authorization", "Accept"},
			ExposedHeaders:   []string{"Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           corsMaxAge,
		}))
	}
	if deps.rateLimiter != nil {
		r.Use(deps.rateLimiter.Handler)
	}

	userHandler := api.NewUserHandler(deps.users, logger)
	projectHandler := api.NewProjectHandler(deps.projects, logger)
	labelHandler := api.NewLabelHandler(deps.labels, logger)
	imageHandler := api.NewImageHandler(deps.images, cfg.Server.MaxUploadBytes, logger)
	taskHandler := api.NewTaskHandler(deps.cleaner, logger)
	authMiddleware := middleware.NewAuthMiddleware(deps.jwtService, deps.revocations, logger)

	r.Get("/health", api.Health)
	if cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Public routes
	r.Post("/register", userHandler.Register)
	r.Post("/login", userHandler.Login)
	r.Get("/user/{userID}", userHandler.GetUser)
	r.Get("/projects/public", projectHandler.ListPublicProjects)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/logout", userHandler.Logout)
		r.Delete("/user/{userID}", userHandler.DeleteUser)

		r.Get("/projects", projectHandler.ListProjects)
		r.Post("/projects", projectHandler.CreateProject)
		r.Get("/projects/{projectID}", projectHandler.GetProject)
		r.Patch("/projects/{projectID}", projectHandler.UpdateProject)
		r.Delete("/projects/{projectID}", projectHandler.DeleteProject)

		r.Get("/projects/{projectID}/labels", labelHandler.ListLabels)
		r.Post("/projects/{projectID}/labels", labelHandler.AddLabels)
		r.Get("/labels/{labelID}", labelHandler.GetLabel)
		r.Delete("/labels/{labelID}", labelHandler.DeleteLabel)
		r.Patch("/refined_labels/{refinedID}", labelHandler.UpdateRefinement)

		r.Get("/projects/{projectID}/images", imageHandler.ListImages)
		r.Post("/projects/{projectID}/images", imageHandler.UploadImage)
		r.Get("/images/{imageID}", imageHandler.GetImage)
		r.Delete("/images/{imageID}", imageHandler.DeleteImage)
	})

	// Scheduler routes need a configured OIDC audience
	if cfg.Tasks.ServiceURL != "" {
		r.With(middleware.RequireTaskToken(deps.taskVerifier)).
			Post("/tasks/cleanup-revoked-tokens", taskHandler.CleanupRevokedTokens)
	} else {
		logger.Info("task routes disabled, tasks.service_url is not set")
	}

	return r
}
