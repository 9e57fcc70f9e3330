package auth

import (
	"context"
	"log/slog"

	"google.golang.org/api/idtoken"
)

// validateFunc matches idtoken.Validate.
type validateFunc func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// TaskTokenVerifier checks Google-signed OIDC ID tokens presented by the
// scheduler that calls maintenance task endpoints.
type TaskTokenVerifier struct {
	audience string
	validate validateFunc
	logger   *slog.Logger
}

// NewTaskTokenVerifier creates a verifier that accepts tokens issued for audience.
func NewTaskTokenVerifier(audience string, logger *slog.Logger) *TaskTokenVerifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskTokenVerifier{
		audience: audience,
		validate: idtoken.Validate,
		logger:   logger.With(slog.String("component", "task_token_verifier")),
	}
}

// Verify returns ErrMissingToken for an empty token and ErrTaskTokenRejected
// when the signature, expiry or audience check fails.
func (v *TaskTokenVerifier) Verify(ctx context.Context, token string) error {
	if token == "" {
		return ErrMissingToken
	}
	if v.audience == "" {
		v.logger.WarnContext(ctx, "task token rejected: no audience configured")
		return ErrTaskTokenRejected
	}

	payload, err := v.validate(ctx, token, v.audience)
	if err != nil {
		v.logger.WarnContext(ctx, "task token verification failed",
			slog.String("error", err.Error()))
		return ErrTaskTokenRejected
	}

	v.logger.InfoContext(ctx, "task token verified",
		slog.String("issuer", payload.Issuer),
		slog.String("subject", payload.Subject))
	return nil
}
