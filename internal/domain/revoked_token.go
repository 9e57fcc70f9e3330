package domain

import "time"

// MaxJTILength bounds the token identifier column.
const MaxJTILength = 64

// ErrInvalidJTI is returned for empty or oversized token identifiers.
var ErrInvalidJTI = newValidationError("token identifier must be between 1 and 64 characters")

// RevokedToken records an access token that was logged out before it expired.
type RevokedToken struct {
	JTI       string    `json:"jti"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRevokedToken creates a validated revocation record.
func NewRevokedToken(jti string) (*RevokedToken, error) {
	if jti == "" || len(jti) > MaxJTILength {
		return nil, ErrInvalidJTI
	}
	return &RevokedToken{JTI: jti, CreatedAt: time.Now().UTC()}, nil
}
