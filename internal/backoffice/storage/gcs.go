package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCS stores files as objects of a single Google Cloud Storage bucket.
type GCS struct {
	client    *gcs.Client
	bucket    string
	publicURL string
}

// NewGCS connects with application default credentials unless a service
// account JSON is given.
func NewGCS(ctx context.Context, bucket, credentialsJSON, publicURL string) (*GCS, error) {
	var opts []option.ClientOption
	if strings.TrimSpace(credentialsJSON) != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcs client: %w", err)
	}
	if publicURL == "" {
		publicURL = "https://storage.googleapis.com/" + bucket
	}
	return &GCS{client: client, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

func (g *GCS) Write(ctx context.Context, name string, data []byte, contentType string) error {
	w := g.client.Bucket(g.bucket).Object(name).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to upload object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}
	return nil
}

func (g *GCS) Delete(ctx context.Context, name string) error {
	err := g.client.Bucket(g.bucket).Object(name).Delete(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil
	}
	return err
}

func (g *GCS) Exists(ctx context.Context, name string) (bool, error) {
	_, err := g.client.Bucket(g.bucket).Object(name).Attrs(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (g *GCS) URL(name string) string {
	return g.publicURL + "/" + strings.TrimLeft(name, "/")
}

func (g *GCS) Close() error {
	return g.client.Close()
}
