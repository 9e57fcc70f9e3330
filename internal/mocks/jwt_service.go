package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/projpool-api/internal/service/auth"
)

// MockJWTService implements auth.JWTService. Without the Fn fields it issues
// Token and validates every token to Claims, or fails with ValidateErr.
type MockJWTService struct {
	GenerateTokenFn func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	Token       string
	Err         error
	Claims      *auth.Claims
	ValidateErr error
}

var _ auth.JWTService = (*MockJWTService)(nil)

// GenerateToken implements auth.JWTService
func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateTokenFn == nil {
		return m.Token, m.Err
	}
	return m.GenerateTokenFn(ctx, userID)
}

// ValidateToken implements auth.JWTService
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn == nil {
		return m.Claims, m.ValidateErr
	}
	return m.ValidateTokenFn(ctx, tokenString)
}
