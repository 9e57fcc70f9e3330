package gcs

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
)

// NewClient creates a Cloud Storage client using application default credentials.
func NewClient(ctx context.Context) (*storage.Client, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return client, nil
}
