package objectstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/gofiber/fiber/v2/log"
	"google.golang.org/api/option"
)

// GCSStore stores objects in a Google Cloud Storage bucket.
type GCSStore struct {
	client *storage.Client
	cfg    *Config
}

func NewGCSStore(ctx context.Context, cfg *Config) (*GCSStore, error) {
	opts := []option.ClientOption{option.WithScopes(storage.ScopeReadWrite)}
	if cfg.GCSCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GCSCredentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	log.Infof("[ObjectStore] GCS store ready for bucket: %s", cfg.BucketName)
	return &GCSStore{client: client, cfg: cfg}, nil
}

func (s *GCSStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	w := s.client.Bucket(s.cfg.BucketName).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000, immutable"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

func (s *GCSStore) PublicURL(key string) string {
	return gcsPublicURL(s.cfg, key)
}

func gcsPublicURL(cfg *Config, key string) string {
	if cfg.PublicBaseURL != "" {
		return joinURL(cfg.PublicBaseURL, key)
	}
	return joinURL("https://storage.googleapis.com/"+cfg.BucketName, key)
}
