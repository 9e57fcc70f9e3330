package shared

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedRequest struct {
	Name string `json:"name" validate:"required,max=10"`
	Age  int    `json:"age"  validate:"gte=0"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantErr     bool
		errContains string
	}{
		{name: "valid json", body: `{"name": "test", "age": 30}`},
		{name: "invalid json", body: `{"name": "test",}`, wantErr: true, errContains: "invalid character"},
		{name: "empty body", body: "", wantErr: true, errContains: "EOF"},
		{name: "unknown field", body: `{"name": "test", "admin": true}`, wantErr: true, errContains: "unknown field"},
		{name: "trailing value", body: `{"name": "a"}{"name": "b"}`, wantErr: true, errContains: "single JSON value"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(tc.body))

			var target namedRequest
			err := DecodeJSON(req, &target)

			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, namedRequest{Name: "test", Age: 30}, target)
		})
	}
}

type errorReader struct{}

func (errorReader) Read([]byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

func TestDecodeJSONWithReadError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/test", errorReader{})

	var target namedRequest
	err := DecodeJSON(req, &target)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

type selfValidating struct {
	Name string
}

func (s *selfValidating) Validate() error {
	if s.Name == "invalid" {
		return errors.New("invalid name")
	}
	return nil
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     interface{}
		wantErr bool
	}{
		{"struct tags pass", &namedRequest{Name: "ok"}, false},
		{"struct tags fail", &namedRequest{Name: ""}, true},
		{"custom validator pass", &selfValidating{Name: "test"}, false},
		{"custom validator fail", &selfValidating{Name: "invalid"}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRequest(tc.req)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRequestReportsJSONFieldNames(t *testing.T) {
	err := ValidateRequest(&namedRequest{Name: "much too long"})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 1)
	assert.Equal(t, "name", verrs[0].Field())
	assert.Equal(t, "max", verrs[0].Tag())
}
