package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/phrazzld/projpool-api/internal/api/shared"
	"github.com/phrazzld/projpool-api/internal/service/auth"
)

// TaskTokenVerifier validates the OIDC token a scheduler presents.
type TaskTokenVerifier interface {
	Verify(ctx context.Context, token string) error
}

// RequireTaskToken admits only requests carrying a task token accepted by
// verifier.
func RequireTaskToken(verifier TaskTokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err == nil {
				err = verifier.Verify(r.Context(), token)
			}
			if err != nil {
				reason := ReasonInvalidToken
				message := "Invalid task token"
				if errors.Is(err, auth.ErrMissingToken) {
					reason, message = TokenErrorReason(err)
				}
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, message, err,
					shared.WithReason(reason), shared.WithElevatedLogLevel())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
