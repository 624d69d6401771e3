package objectstore

import (
	"errors"
	"strings"

	"github.com/vitrinepost/vitrinepost/internal/pkg/env"
)

const (
	DriverS3  = "s3"
	DriverGCS = "gcs"
)

// Config holds object storage configuration
type Config struct {
	Driver string

	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services

	GCSCredentialsFile string

	// PublicBaseURL overrides the URL prefix of stored objects, e.g. a CDN domain.
	PublicBaseURL string
}

// LoadConfig loads storage configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Driver:             strings.ToLower(env.GetEnv("STORAGE_DRIVER", DriverS3)),
		AccessKeyID:        env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey:    env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:             env.GetEnv("S3_REGION", "us-east-1"),
		BucketName:         env.GetEnv("STORAGE_BUCKET_NAME", ""),
		EndpointURL:        strings.TrimRight(env.GetEnv("S3_ENDPOINT_URL", ""), "/"),
		GCSCredentialsFile: env.GetEnv("GCS_CREDENTIALS_FILE", ""),
		PublicBaseURL:      strings.TrimRight(env.GetEnv("STORAGE_PUBLIC_BASE_URL", ""), "/"),
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.BucketName == "" {
		return errors.New("STORAGE_BUCKET_NAME is required")
	}
	switch c.Driver {
	case DriverS3:
		if c.AccessKeyID == "" {
			return errors.New("S3_ACCESS_KEY_ID is required for the s3 driver")
		}
		if c.SecretAccessKey == "" {
			return errors.New("S3_SECRET_ACCESS_KEY is required for the s3 driver")
		}
	case DriverGCS:
	default:
		return errors.New("STORAGE_DRIVER must be s3 or gcs")
	}
	return nil
}
