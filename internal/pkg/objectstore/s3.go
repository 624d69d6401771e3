package objectstore

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2/log"
)

// S3Store stores objects in an S3 or S3-compatible bucket.
type S3Store struct {
	client *s3.Client
	cfg    *Config
}

func NewS3Store(ctx context.Context, cfg *Config) (*S3Store, error) {
	awsConfig, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			// S3-compatible providers (MinIO, B2, R2) expect path-style URLs
			o.UsePathStyle = true
		}
	})

	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(cfg.BucketName)}); err != nil {
		return nil, fmt.Errorf("bucket %s not accessible: %w", cfg.BucketName, err)
	}

	log.Infof("[ObjectStore] S3 store ready for bucket: %s", cfg.BucketName)
	return &S3Store{client: client, cfg: cfg}, nil
}

func (s *S3Store) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.BucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
		Metadata: map[string]string{
			"upload-source": "vitrinepost-generation",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	log.Debugf("[ObjectStore] Uploaded s3://%s/%s (%d bytes)", s.cfg.BucketName, key, len(data))
	return nil
}

// PublicURL prefers the configured public base, then the custom endpoint in
// path style, then the virtual-hosted AWS URL.
func (s *S3Store) PublicURL(key string) string {
	return s3PublicURL(s.cfg, key)
}

func s3PublicURL(cfg *Config, key string) string {
	switch {
	case cfg.PublicBaseURL != "":
		return joinURL(cfg.PublicBaseURL, key)
	case cfg.EndpointURL != "":
		return joinURL(cfg.EndpointURL+"/"+cfg.BucketName, key)
	default:
		return joinURL(fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.BucketName, cfg.Region), key)
	}
}
