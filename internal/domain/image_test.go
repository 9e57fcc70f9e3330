package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewImage(t *testing.T) {
	projectID := uuid.New()

	img, err := NewImage(projectID, "deck.jpg", "gs://bucket/project_images/abc_deck.jpg", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultImageContentType, img.ContentType)
	assert.Equal(t, "gs://bucket/project_images/abc_deck.jpg", img.ObjectPath)

	img, err = NewImage(projectID, "deck.jpg", "gs://bucket/x", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.ContentType)

	_, err = NewImage(projectID, "", "gs://bucket/x", "image/jpeg")
	assert.ErrorIs(t, err, ErrEmptyImageFilename)

	_, err = NewImage(projectID, strings.Repeat("f", 256), "gs://bucket/x", "image/jpeg")
	assert.ErrorIs(t, err, ErrImageFilenameTooLong)

	_, err = NewImage(projectID, "deck.jpg", "", "image/jpeg")
	assert.ErrorIs(t, err, ErrEmptyImageObjectPath)

	_, err = NewImage(uuid.Nil, "deck.jpg", "gs://bucket/x", "image/jpeg")
	assert.ErrorIs(t, err, ErrEmptyImageProjectID)
}

func TestNewRevokedToken(t *testing.T) {
	tok, err := NewRevokedToken(uuid.NewString())
	require.NoError(t, err)
	assert.False(t, tok.CreatedAt.IsZero())

	_, err = NewRevokedToken("")
	assert.ErrorIs(t, err, ErrInvalidJTI)

	_, err = NewRevokedToken(strings.Repeat("j", 65))
	assert.ErrorIs(t, err, ErrInvalidJTI)
}
