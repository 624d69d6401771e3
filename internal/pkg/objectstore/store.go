// Package objectstore writes generated assets to durable object storage.
package objectstore

import (
	"context"
	"fmt"
	"strings"
)

// Store is the durable object storage used for generated artwork.
type Store interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	PublicURL(key string) string
}

// New returns the Store selected by cfg.Driver.
func New(ctx context.Context, cfg *Config) (Store, error) {
	switch cfg.Driver {
	case DriverS3:
		return NewS3Store(ctx, cfg)
	case DriverGCS:
		return NewGCSStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
