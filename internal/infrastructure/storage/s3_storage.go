// Package storage provides the object storage backend for product images.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	infraconfig "github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

var _ catalogapp.ImageStorage = (*S3ImageStorage)(nil)

// S3ImageStorage stores product images in any S3-compatible backend
// (AWS S3, MinIO, and the like).
type S3ImageStorage struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
	logger        *zap.Logger
}

// NewS3ImageStorage creates an image store from the storage configuration
func NewS3ImageStorage(cfg infraconfig.StorageConfig, logger *zap.Logger) (*S3ImageStorage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, fmt.Errorf("storage credentials are required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(normalizeEndpoint(cfg.Endpoint))
		}
	})

	return &S3ImageStorage{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		logger:        logger,
	}, nil
}

// Upload stores the object and returns its public URL
func (s *S3ImageStorage) Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	if key == "" {
		return "", fmt.Errorf("storage key is required")
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", key, err)
	}

	publicURL := s.publicURL(key)
	s.logger.Debug("uploaded image",
		zap.String("key", key),
		zap.String("url", publicURL))
	return publicURL, nil
}

// Delete removes the object behind a previously returned public URL.
// Unknown URLs are ignored so stale image rows never block deletion.
func (s *S3ImageStorage) Delete(ctx context.Context, imageURL string) error {
	key := s.keyFromURL(imageURL)
	if key == "" {
		s.logger.Warn("skipping delete of unrecognized image URL", zap.String("url", imageURL))
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

func (s *S3ImageStorage) publicURL(key string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
}

// keyFromURL recovers the storage key from a public URL, or "" when the
// URL does not belong to this bucket.
func (s *S3ImageStorage) keyFromURL(imageURL string) string {
	if s.publicBaseURL != "" && strings.HasPrefix(imageURL, s.publicBaseURL+"/") {
		return strings.TrimPrefix(imageURL, s.publicBaseURL+"/")
	}
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return ""
	}
	path := strings.TrimPrefix(parsed.Path, "/")
	// Path-style URLs carry the bucket as the first segment.
	if rest, ok := strings.CutPrefix(path, s.bucket+"/"); ok {
		return rest
	}
	if strings.HasPrefix(parsed.Host, s.bucket+".") {
		return path
	}
	return ""
}

func normalizeEndpoint(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	return "https://" + endpoint
}
