package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/projpool-api/internal/config"
	"github.com/phrazzld/projpool-api/internal/platform/logger"
)

const (
	accessTokenType = "access"
	minSecretLength = 32
	clockLeeway     = 2 * time.Minute
)

// jwtCustomClaims is the on-the-wire claim set of an access token.
type jwtCustomClaims struct {
	UserID    uuid.UUID `json:"uid"`
	TokenType string    `json:"type"`
	jwt.RegisteredClaims
}

// hmacJWTService signs and verifies HS256 access tokens.
type hmacJWTService struct {
	key      []byte
	lifetime time.Duration
	now      func() time.Time
}

var _ JWTService = (*hmacJWTService)(nil)

// NewJWTService returns an HS256 JWTService configured from cfg.
func NewJWTService(cfg config.AuthConfig) (JWTService, error) {
	return newHMACJWTService(cfg, time.Now)
}

func newHMACJWTService(cfg config.AuthConfig, now func() time.Time) (*hmacJWTService, error) {
	switch {
	case len(cfg.JWTSecret) < minSecretLength:
		return nil, fmt.Errorf("jwt secret must be at least %d characters", minSecretLength)
	case cfg.TokenLifetimeMinutes <= 0:
		return nil, errors.New("token lifetime must be positive")
	}
	return &hmacJWTService{
		key:      []byte(cfg.JWTSecret),
		lifetime: cfg.TokenLifetime(),
		now:      now,
	}, nil
}

// GenerateToken issues an access token for userID with a fresh jti.
func (s *hmacJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	issued := s.now()
	claims := jwtCustomClaims{
		UserID:    userID,
		TokenType: accessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(s.lifetime)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		logger.FromContext(ctx).Error("failed to sign access token",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// ValidateToken checks signature, expiry and token type, and returns the
// claims. It does not consult the revocation list.
func (s *hmacJWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	now := s.now()
	parsed := &jwtCustomClaims{}

	token, err := jwt.ParseWithClaims(tokenString, parsed, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(clockLeeway),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		mapped := classifyParseError(err)
		logger.FromContext(ctx).Debug("access token rejected",
			slog.String("reason", mapped.Error()),
			slog.String("error_type", fmt.Sprintf("%T", err)))
		return nil, mapped
	}

	if !token.Valid || parsed.TokenType != accessTokenType || parsed.ID == "" || parsed.IssuedAt == nil {
		logger.FromContext(ctx).Debug("access token rejected", slog.String("reason", "unexpected claims"))
		return nil, ErrInvalidToken
	}

	return &Claims{
		UserID:    parsed.UserID,
		Subject:   parsed.Subject,
		IssuedAt:  parsed.IssuedAt.Time,
		ExpiresAt: parsed.ExpiresAt.Time,
		ID:        parsed.ID,
	}, nil
}

func (s *hmacJWTService) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return s.key, nil
}

func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return ErrTokenNotYetValid
	default:
		return ErrInvalidToken
	}
}
