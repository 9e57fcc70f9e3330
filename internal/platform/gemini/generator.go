package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/phrazzld/projpool-api/internal/config"
	"github.com/phrazzld/projpool-api/internal/generation"
	"github.com/phrazzld/projpool-api/internal/metrics"
	"github.com/phrazzld/projpool-api/internal/platform/circuitbreaker"
	"github.com/phrazzld/projpool-api/internal/platform/logger"
	"google.golang.org/genai"
)

const (
	operationRefine = "refine"
	operationRevise = "revise"
)

// contentGenerator is satisfied by *genai.Models.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator implements the generation.Generator interface using
// Vertex AI Gemini models.
type GeminiGenerator struct {
	logger  *slog.Logger
	config  config.LLMConfig
	prompts *generation.Prompts
	models  contentGenerator
	breaker *circuitbreaker.Breaker

	// sleep waits between retries; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error

	rngMu sync.Mutex
	rng   *rand.Rand
}

var _ generation.Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a generator backed by a Vertex AI genai client.
func NewGeminiGenerator(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
	prompts *generation.Prompts,
) (*GeminiGenerator, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("%w: project ID cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("%w: region cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  cfg.ProjectID,
		Location: cfg.Region,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create genai client: %v", generation.ErrInvalidConfig, err)
	}

	return newGenerator(logger, cfg, prompts, client.Models)
}

func newGenerator(
	logger *slog.Logger,
	cfg config.LLMConfig,
	prompts *generation.Prompts,
	models contentGenerator,
) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if prompts == nil {
		return nil, fmt.Errorf("%w: prompts cannot be nil", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.MaxRetries < 0 {
		logger.Warn("invalid max retries value, using default", slog.Int("max_retries", 3))
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelaySeconds < 1 {
		cfg.RetryDelaySeconds = 1
	}

	return &GeminiGenerator{
		logger:  logger.With(slog.String("component", "gemini_generator"), slog.String("model", cfg.ModelName)),
		config:  cfg,
		prompts: prompts,
		models:  models,
		breaker: circuitbreaker.New(circuitbreaker.DefaultConfig()),
		sleep:   sleepContext,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// RefineLabel implements generation.Generator.
func (g *GeminiGenerator) RefineLabel(ctx context.Context, req generation.RefineRequest) (string, error) {
	prompt, err := g.prompts.Refine(req)
	if err != nil {
		return "", err
	}

	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	if g.config.IncludeImages {
		for _, img := range req.Images {
			parts = append(parts, genai.NewPartFromURI(img.ObjectPath, img.ContentType))
		}
	}

	log := logger.FromContextOrDefault(ctx, g.logger)
	log.DebugContext(ctx, "refining label",
		slog.String("difficulty", string(req.Difficulty)),
		slog.Int("prompt_length", len(prompt)),
		slog.Int("image_parts", len(parts)-1))

	return g.generate(ctx, operationRefine, []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)})
}

// ReviseRefinement implements generation.Generator.
func (g *GeminiGenerator) ReviseRefinement(ctx context.Context, req generation.ReviseRequest) (string, error) {
	prompt, err := g.prompts.Revise(req)
	if err != nil {
		return "", err
	}
	return g.generate(ctx, operationRevise, genai.Text(prompt))
}

// generate calls the model through the circuit breaker with retries and
// records the outcome.
func (g *GeminiGenerator) generate(ctx context.Context, operation string, contents []*genai.Content) (string, error) {
	start := time.Now()
	text, err := g.callWithRetry(ctx, operation, contents)
	metrics.ObserveLLMCall(operation, outcomeOf(err), time.Since(start))
	return text, err
}

// callWithRetry makes up to MaxRetries+1 attempts. Permanent errors are
// returned immediately; transient errors are retried after an exponential
// delay with jitter.
func (g *GeminiGenerator) callWithRetry(ctx context.Context, operation string, contents []*genai.Content) (string, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)
	maxRetries := g.config.MaxRetries

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		var text string
		err := g.breaker.Execute(func() error {
			var callErr error
			text, callErr = g.callOnce(ctx, contents)
			return callErr
		}, isTransient)

		if err == nil {
			log.DebugContext(ctx, "gemini call succeeded",
				slog.String("operation", operation),
				slog.Int("attempt", attempt+1))
			return text, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			log.DebugContext(ctx, "gemini call abandoned by caller",
				slog.String("operation", operation),
				slog.String("error", ctxErr.Error()))
			return "", ctxErr
		}

		if errors.Is(err, circuitbreaker.ErrOpen) {
			log.WarnContext(ctx, "gemini circuit breaker open, not calling", slog.String("operation", operation))
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
		}

		if !isTransient(err) {
			log.WarnContext(ctx, "permanent gemini error, not retrying",
				slog.String("operation", operation),
				slog.String("error", err.Error()))
			return "", err
		}

		if attempt >= maxRetries {
			log.ErrorContext(ctx, "gemini retries exhausted",
				slog.String("operation", operation),
				slog.Int("attempts", attempt+1),
				slog.String("error", err.Error()))
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				generation.ErrTransientFailure, maxRetries, err)
		}

		delay := g.backoff(attempt)
		log.InfoContext(ctx, "retrying gemini call after delay",
			slog.String("operation", operation),
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()))

		if err := g.sleep(ctx, delay); err != nil {
			return "", err
		}
	}
}

// callOnce performs a single GenerateContent call and extracts its text.
func (g *GeminiGenerator) callOnce(ctx context.Context, contents []*genai.Content) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	resp, err := g.models.GenerateContent(ctx, g.config.ModelName, contents, nil)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", classifyAPIError(err)
	}
	return extractText(resp)
}

// extractText concatenates the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", generation.ErrEmptyResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: response blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: candidate has no content", generation.ErrInvalidResponse)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("%w: candidate text is empty", generation.ErrEmptyResponse)
	}
	return text, nil
}

// classifyAPIError wraps SDK errors so callers can tell retryable failures apart.
func classifyAPIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests, apiErr.Code >= http.StatusInternalServerError:
			return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
		case apiErr.Code == http.StatusBadRequest:
			return fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
		default:
			return fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
		}
	}
	// Network-level failures carry no status code.
	return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
}

// isTransient reports whether err is worth retrying and counts against the
// breaker. A caller's own cancellation or deadline never does.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return errors.Is(err, generation.ErrTransientFailure)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, generation.ErrContentBlocked):
		return metrics.OutcomeBlocked
	default:
		return metrics.OutcomeFailure
	}
}

// backoff returns baseDelay * 2^attempt * [0.5, 1.0).
func (g *GeminiGenerator) backoff(attempt int) time.Duration {
	g.rngMu.Lock()
	jitter := 0.5 + g.rng.Float64()*0.5
	g.rngMu.Unlock()

	seconds := float64(g.config.RetryDelaySeconds) * math.Pow(2, float64(attempt)) * jitter
	return time.Duration(seconds * float64(time.Second))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
