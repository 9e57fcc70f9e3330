// Package gcs implements blob.Store on Google Cloud Storage.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/phrazzld/projpool-api/internal/blob"
	"github.com/phrazzld/projpool-api/internal/config"
	"github.com/phrazzld/projpool-api/internal/platform/logger"
)

const scheme = "gs://"

// bucketAPI is the subset of *storage.BucketHandle used by Store.
type bucketAPI interface {
	NewWriter(ctx context.Context, object, contentType string) io.WriteCloser
	Delete(ctx context.Context, object string) error
}

// Store writes project images into a single bucket under a fixed prefix.
type Store struct {
	bucket     bucketAPI
	bucketName string
	prefix     string
	logger     *slog.Logger
}

var _ blob.Store = (*Store)(nil)

// NewStore creates a Store using an existing storage client.
func NewStore(client *storage.Client, cfg config.StorageConfig, logger *slog.Logger) *Store {
	return newStore(&bucketHandle{h: client.Bucket(cfg.BucketName)}, cfg, logger)
}

func newStore(bucket bucketAPI, cfg config.StorageConfig, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		bucket:     bucket,
		bucketName: cfg.BucketName,
		prefix:     strings.Trim(cfg.ObjectPrefix, "/"),
		logger:     logger.With(slog.String("component", "gcs_store"), slog.String("bucket", cfg.BucketName)),
	}
}

// Put implements blob.Store.
func (s *Store) Put(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	object := s.objectName(name)

	w := s.bucket.NewWriter(ctx, object, contentType)
	n, err := io.Copy(w, r)
	if err != nil {
		_ = w.Close()
		log.ErrorContext(ctx, "failed to write object",
			slog.String("object", object),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: write %s: %v", blob.ErrStorageUnavailable, object, err)
	}
	if err := w.Close(); err != nil {
		log.ErrorContext(ctx, "failed to finalize object",
			slog.String("object", object),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: finalize %s: %v", blob.ErrStorageUnavailable, object, err)
	}

	log.InfoContext(ctx, "object uploaded",
		slog.String("object", object),
		slog.Int64("bytes", n))
	return scheme + s.bucketName + "/" + object, nil
}

// Delete implements blob.Store.
func (s *Store) Delete(ctx context.Context, objectPath string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	object, err := s.parse(objectPath)
	if err != nil {
		return err
	}

	if err := s.bucket.Delete(ctx, object); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			log.DebugContext(ctx, "object already deleted", slog.String("object", object))
			return nil
		}
		return fmt.Errorf("%w: delete %s: %v", blob.ErrStorageUnavailable, object, err)
	}

	log.InfoContext(ctx, "object deleted", slog.String("object", object))
	return nil
}

func (s *Store) objectName(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}

// parse splits gs://bucket/object and checks the bucket.
func (s *Store) parse(objectPath string) (string, error) {
	rest, ok := strings.CutPrefix(objectPath, scheme)
	if !ok {
		return "", fmt.Errorf("%w: %q", blob.ErrInvalidPath, objectPath)
	}
	bucket, object, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", fmt.Errorf("%w: %q", blob.ErrInvalidPath, objectPath)
	}
	if bucket != s.bucketName {
		return "", fmt.Errorf("%w: bucket %q", blob.ErrForeignPath, bucket)
	}
	return object, nil
}

// bucketHandle adapts *storage.BucketHandle to bucketAPI.
type bucketHandle struct {
	h *storage.BucketHandle
}

func (b *bucketHandle) NewWriter(ctx context.Context, object, contentType string) io.WriteCloser {
	w := b.h.Object(object).NewWriter(ctx)
	w.ContentType = contentType
	return w
}

func (b *bucketHandle) Delete(ctx context.Context, object string) error {
	return b.h.Object(object).Delete(ctx)
}
