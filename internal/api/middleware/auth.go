package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/projpool-api/internal/api/shared"
	"github.com/phrazzld/projpool-api/internal/platform/logger"
	"github.com/phrazzld/projpool-api/internal/redact"
	"github.com/phrazzld/projpool-api/internal/service/auth"
)

// Reason codes sent with 401 responses.
const (
	ReasonAuthorizationRequired = "authorization_required"
	ReasonInvalidToken          = "invalid_token"
	ReasonTokenExpired          = "token_expired"
	ReasonTokenRevoked          = "token_revoked"
)

// RevocationChecker reports whether a validated token has been revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, claims *auth.Claims) (bool, error)
}

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService  auth.JWTService
	revocations RevocationChecker
	logger      *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
// A nil revocations skips the revocation check.
func NewAuthMiddleware(jwtService auth.JWTService, revocations RevocationChecker, logger *slog.Logger) *AuthMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMiddleware{
		jwtService:  jwtService,
		revocations: revocations,
		logger:      logger.With(slog.String("component", "auth_middleware")),
	}
}

// Authenticate validates JWT tokens from the Authorization header and
// adds the claims and user ID to the request context for authorized requests.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContextOrDefault(r.Context(), m.logger)

		token, err := bearerToken(r)
		if err != nil {
			respondTokenError(w, r, err)
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			if !isTokenError(err) {
				log.Error("failed to validate token", slog.String("error", redact.Error(err)))
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
				return
			}
			respondTokenError(w, r, err)
			return
		}

		if m.revocations != nil {
			revoked, err := m.revocations.IsRevoked(r.Context(), claims)
			if err != nil {
				log.Error("failed to check token revocation", slog.String("error", redact.Error(err)))
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
				return
			}
			if revoked {
				respondTokenError(w, r, auth.ErrRevokedToken)
				return
			}
		}

		ctx := shared.WithClaims(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", auth.ErrMissingToken
	}

	scheme, token, found := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", auth.ErrInvalidToken
	}
	return token, nil
}

func isTokenError(err error) bool {
	return errors.Is(err, auth.ErrInvalidToken) ||
		errors.Is(err, auth.ErrExpiredToken) ||
		errors.Is(err, auth.ErrTokenNotYetValid) ||
		errors.Is(err, auth.ErrRevokedToken) ||
		errors.Is(err, auth.ErrMissingToken)
}

// TokenErrorReason returns the reason code and message for a token failure.
func TokenErrorReason(err error) (reason, message string) {
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return ReasonAuthorizationRequired, "Authorization token is required"
	case errors.Is(err, auth.ErrExpiredToken):
		return ReasonTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrRevokedToken):
		return ReasonTokenRevoked, "Token has been revoked"
	default:
		return ReasonInvalidToken, "Invalid token"
	}
}

func respondTokenError(w http.ResponseWriter, r *http.Request, err error) {
	reason, message := TokenErrorReason(err)
	shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, message, err, shared.WithReason(reason))
}
