package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/projpool-api/internal/api/shared"
	"github.com/phrazzld/projpool-api/internal/mocks"
	"github.com/phrazzld/projpool-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type revocationFunc func(ctx context.Context, claims *auth.Claims) (bool, error)

func (f revocationFunc) IsRevoked(ctx context.Context, claims *auth.Claims) (bool, error) {
	return f(ctx, claims)
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	validClaims := &auth.Claims{UserID: userID, ID: "jti-1"}

	tests := []struct {
		name           string
		authHeader     string
		validateErr    error
		claims         *auth.Claims
		revoked        bool
		revocationErr  error
		expectedStatus int
		expectedReason string
	}{
		{
			name:           "valid token",
			authHeader:     "Bearer valid-token",
			claims:         validClaims,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "lowercase scheme",
			authHeader:     "bearer valid-token",
			claims:         validClaims,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing auth header",
			expectedStatus: http.StatusUnauthorized,
			expectedReason: ReasonAuthorizationRequired,
		},
		{
			name:           "invalid auth format",
			authHeader:     "InvalidFormat",
			expectedStatus: http.StatusUnauthorized,
			expectedReason: ReasonInvalidToken,
		},
		{
			name:           "expired token",
			authHeader:     "Bearer expired-token",
			validateErr:    auth.ErrExpiredToken,
			expectedStatus: http.StatusUnauthorized,
			expectedReason: ReasonTokenExpired,
		},
		{
			name:           "invalid token",
			authHeader:     "Bearer invalid-token",
			validateErr:    auth.ErrInvalidToken,
			expectedStatus: http.StatusUnauthorized,
			expectedReason: ReasonInvalidToken,
		},
		{
			name:           "revoked token",
			authHeader:     "Bearer revoked-token",
			claims:         validClaims,
			revoked:        true,
			expectedStatus: http.StatusUnauthorized,
			expectedReason: ReasonTokenRevoked,
		},
		{
			name:           "revocation store unavailable",
			authHeader:     "Bearer valid-token",
			claims:         validClaims,
			revocationErr:  errors.New("connection refused"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jwtService := &mocks.MockJWTService{
				ValidateErr: tt.validateErr,
				Claims:      tt.claims,
			}
			revocations := revocationFunc(func(ctx context.Context, claims *auth.Claims) (bool, error) {
				return tt.revoked, tt.revocationErr
			})

			middleware := NewAuthMiddleware(jwtService, revocations, nil)

			var captured *auth.Claims
			var capturedUserID uuid.UUID
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				captured, _ = shared.ClaimsFromContext(r.Context())
				capturedUserID, _ = shared.UserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Add("Authorization", tt.authHeader)
			}
			recorder := httptest.NewRecorder()

			middleware.Authenticate(nextHandler).ServeHTTP(recorder, req)

			assert.Equal(t, tt.expectedStatus, recorder.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, validClaims, captured)
				assert.Equal(t, userID, capturedUserID)
				return
			}

			var resp shared.ErrorResponse
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedReason, resp.Reason)
		})
	}
}

func TestAuthMiddlewareWithoutRevocations(t *testing.T) {
	jwtService := &mocks.MockJWTService{Claims: &auth.Claims{UserID: uuid.New()}}
	middleware := NewAuthMiddleware(jwtService, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	req.Header.Set("Authorization", "Bearer token")
	recorder := httptest.NewRecorder()

	middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestTokenErrorReason(t *testing.T) {
	tests := []struct {
		err     error
		reason  string
		message string
	}{
		{auth.ErrMissingToken, ReasonAuthorizationRequired, "Authorization token is required"},
		{auth.ErrExpiredToken, ReasonTokenExpired, "Token has expired"},
		{auth.ErrRevokedToken, ReasonTokenRevoked, "Token has been revoked"},
		{auth.ErrTokenNotYetValid, ReasonInvalidToken, "Invalid token"},
		{auth.ErrInvalidToken, ReasonInvalidToken, "Invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.reason+"/"+tt.err.Error(), func(t *testing.T) {
			reason, message := TokenErrorReason(tt.err)
			assert.Equal(t, tt.reason, reason)
			assert.Equal(t, tt.message, message)
		})
	}
}
