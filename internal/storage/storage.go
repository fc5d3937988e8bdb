// Package storage is the object-storage collaborator. The core persists
// only key references; bytes are uploaded and served outside the workflow
// engine.
package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectStore removes stored objects by key and resolves public URLs.
type ObjectStore interface {
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// S3Store deletes objects from an S3 bucket.
type S3Store struct {
	client *s3.Client
	bucket string
	region string
}

// NewS3Store builds an S3-backed store using the default AWS config chain.
func NewS3Store(ctx context.Context, bucket, region string) (*S3Store, error) {
	cfg, errLoad := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if errLoad != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", errLoad)
	}
	return &S3Store{client: s3.NewFromConfig(cfg), bucket: bucket, region: region}, nil
}

// Delete removes the object stored under key.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, errDelete := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if errDelete != nil {
		return fmt.Errorf("storage: delete %s: %w", key, errDelete)
	}
	return nil
}

// URL resolves the public URL for a stored key.
func (s *S3Store) URL(key string) string {
	if key == "" {
		return ""
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// Noop is used in dev/tests when no bucket is configured.
type Noop struct{}

// Delete does nothing.
func (Noop) Delete(context.Context, string) error { return nil }

// URL returns the key unchanged.
func (Noop) URL(key string) string { return key }
