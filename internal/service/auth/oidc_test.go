package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/idtoken"
)

func TestTaskTokenVerifier(t *testing.T) {
	t.Parallel()

	const audience = "https://projpool-api.example.run.app"

	tests := []struct {
		name     string
		audience string
		token    string
		validate validateFunc
		wantErr  error
	}{
		{
			name:     "valid token",
			audience: audience,
			token:    "id-token",
			validate: func(_ context.Context, token, aud string) (*idtoken.Payload, error) {
				if token != "id-token" || aud != audience {
					return nil, errors.New("unexpected arguments")
				}
				return &idtoken.Payload{Issuer: "https://accounts.google.com", Subject: "scheduler"}, nil
			},
		},
		{
			name:     "missing token",
			audience: audience,
			wantErr:  ErrMissingToken,
		},
		{
			name:     "no audience configured",
			audience: "",
			token:    "id-token",
			wantErr:  ErrTaskTokenRejected,
		},
		{
			name:     "validation fails",
			audience: audience,
			token:    "id-token",
			validate: func(context.Context, string, string) (*idtoken.Payload, error) {
				return nil, errors.New("idtoken: audience provided does not match aud claim in the JWT")
			},
			wantErr: ErrTaskTokenRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v := NewTaskTokenVerifier(tt.audience, nil)
			if tt.validate != nil {
				v.validate = tt.validate
			}

			err := v.Verify(context.Background(), tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
