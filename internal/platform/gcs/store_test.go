package gcs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/phrazzld/projpool-api/internal/blob"
	"github.com/phrazzld/projpool-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	bytes.Buffer
	closeErr error
	closed   bool
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return w.closeErr
}

type fakeBucket struct {
	writers      map[string]*fakeWriter
	contentTypes map[string]string
	deleted      []string
	closeErr     error
	deleteErr    error
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{writers: map[string]*fakeWriter{}, contentTypes: map[string]string{}}
}

func (b *fakeBucket) NewWriter(_ context.Context, object, contentType string) io.WriteCloser {
	w := &fakeWriter{closeErr: b.closeErr}
	b.writers[object] = w
	b.contentTypes[object] = contentType
	return w
}

func (b *fakeBucket) Delete(_ context.Context, object string) error {
	if b.deleteErr != nil {
		return b.deleteErr
	}
	b.deleted = append(b.deleted, object)
	return nil
}

func testStorageConfig() config.StorageConfig {
	return config.StorageConfig{BucketName: "projpool-images", ObjectPrefix: "project_images/"}
}

func TestPut(t *testing.T) {
	bucket := newFakeBucket()
	s := newStore(bucket, testStorageConfig(), nil)

	path, err := s.Put(context.Background(), "abc_shed.jpg", "image/jpeg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "gs://projpool-images/project_images/abc_shed.jpg", path)
	w := bucket.writers["project_images/abc_shed.jpg"]
	require.NotNil(t, w)
	assert.True(t, w.closed)
	assert.Equal(t, "jpeg-bytes", w.String())
	assert.Equal(t, "image/jpeg", bucket.contentTypes["project_images/abc_shed.jpg"])
}

func TestPutWithoutPrefix(t *testing.T) {
	bucket := newFakeBucket()
	s := newStore(bucket, config.StorageConfig{BucketName: "b"}, nil)

	path, err := s.Put(context.Background(), "x.jpg", "image/jpeg", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "gs://b/x.jpg", path)
}

func TestPutFinalizeFailure(t *testing.T) {
	bucket := newFakeBucket()
	bucket.closeErr = errors.New("googleapi: Error 503")
	s := newStore(bucket, testStorageConfig(), nil)

	_, err := s.Put(context.Background(), "x.jpg", "image/jpeg", strings.NewReader("x"))
	assert.ErrorIs(t, err, blob.ErrStorageUnavailable)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("client went away") }

func TestPutReadFailure(t *testing.T) {
	bucket := newFakeBucket()
	s := newStore(bucket, testStorageConfig(), nil)

	_, err := s.Put(context.Background(), "x.jpg", "image/jpeg", failingReader{})
	assert.ErrorIs(t, err, blob.ErrStorageUnavailable)
	assert.True(t, bucket.writers["project_images/x.jpg"].closed)
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		deleteErr  error
		wantErr    error
		wantObject string
	}{
		{
			name:       "own object",
			path:       "gs://projpool-images/project_images/abc_shed.jpg",
			wantObject: "project_images/abc_shed.jpg",
		},
		{
			name:      "missing object is success",
			path:      "gs://projpool-images/project_images/gone.jpg",
			deleteErr: storage.ErrObjectNotExist,
		},
		{
			name:    "foreign bucket",
			path:    "gs://someone-else/project_images/a.jpg",
			wantErr: blob.ErrForeignPath,
		},
		{
			name:    "not a gs path",
			path:    "https://storage.googleapis.com/projpool-images/a.jpg",
			wantErr: blob.ErrInvalidPath,
		},
		{
			name:    "bucket only",
			path:    "gs://projpool-images",
			wantErr: blob.ErrInvalidPath,
		},
		{
			name:      "backend failure",
			path:      "gs://projpool-images/project_images/a.jpg",
			deleteErr: errors.New("googleapi: Error 500"),
			wantErr:   blob.ErrStorageUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket := newFakeBucket()
			bucket.deleteErr = tt.deleteErr
			s := newStore(bucket, testStorageConfig(), nil)

			err := s.Delete(context.Background(), tt.path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, bucket.deleted)
				return
			}
			require.NoError(t, err)
			if tt.wantObject != "" {
				assert.Equal(t, []string{tt.wantObject}, bucket.deleted)
			}
		})
	}
}
