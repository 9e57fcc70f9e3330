package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/projpool-api/internal/api/shared"
	"github.com/phrazzld/projpool-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type verifierFunc func(ctx context.Context, token string) error

func (f verifierFunc) Verify(ctx context.Context, token string) error { return f(ctx, token) }

func TestRequireTaskToken(t *testing.T) {
	verifier := verifierFunc(func(ctx context.Context, token string) error {
		if token != "google-signed" {
			return auth.ErrTaskTokenRejected
		}
		return nil
	})

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedReason string
	}{
		{"accepted token", "Bearer google-signed", http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, ReasonAuthorizationRequired},
		{"rejected token", "Bearer forged", http.StatusUnauthorized, ReasonInvalidToken},
		{"wrong scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, ReasonInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/tasks/cleanup-revoked-tokens", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			RequireTaskToken(verifier)(okHandler()).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				return
			}
			var resp shared.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedReason, resp.Reason)
		})
	}
}
