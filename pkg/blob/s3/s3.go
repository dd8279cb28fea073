// Package s3 implements a blob store backed by Amazon S3 or S3-compatible
// storage.
//
// Intended for deployments where several ivrdir instances share overlay
// state, or where no local disk is available. Each blob key maps to one
// object under an optional key prefix, so the bucket stays human-readable.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/ymtools/ivrdir/pkg/blob"
)

// S3BlobStore implements blob.Store on an S3 bucket.
//
// Thread safety: the AWS SDK client is safe for concurrent use. Concurrent
// saves of the same key are last-writer-wins, which matches the overlay's
// consistency model.
type S3BlobStore struct {
	client    *s3.Client
	bucket    string
	keyPrefix string
}

// S3BlobStoreConfig contains configuration for the S3 blob store.
type S3BlobStoreConfig struct {
	// Client is the configured S3 client
	Client *s3.Client

	// Bucket is the S3 bucket name. The bucket must already exist.
	Bucket string

	// KeyPrefix is an optional prefix for all object keys.
	// Example: "ivrdir/" results in keys like "ivrdir/overlay/deleted".
	KeyPrefix string
}

// NewS3BlobStore creates a new S3-backed blob store and verifies bucket
// access with a HeadBucket call.
func NewS3BlobStore(ctx context.Context, cfg S3BlobStoreConfig) (*S3BlobStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if cfg.Client == nil {
		return nil, fmt.Errorf("S3 client is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	_, err := cfg.Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(cfg.Bucket),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to access bucket %q: %w", cfg.Bucket, err)
	}

	return &S3BlobStore{
		client:    cfg.Client,
		bucket:    cfg.Bucket,
		keyPrefix: cfg.KeyPrefix,
	}, nil
}

// objectKey maps a blob key to its S3 object key.
func (s *S3BlobStore) objectKey(key string) string {
	return s.keyPrefix + key
}

// Load returns the blob stored under key, or blob.ErrNotFound.
func (s *S3BlobStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, blob.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load blob %q from S3: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %q body: %w", key, err)
	}

	return data, nil
}

// Save stores data under key using PutObject.
func (s *S3BlobStore) Save(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("failed to save blob %q to S3: %w", key, err)
	}

	return nil
}

// Delete removes the blob under key. S3 DeleteObject is idempotent, so
// missing keys are not an error.
func (s *S3BlobStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete blob %q from S3: %w", key, err)
	}

	return nil
}

// Close is a no-op; the S3 client holds no resources requiring cleanup.
func (s *S3BlobStore) Close() error {
	return nil
}

// isNotFound reports whether err is an S3 "no such key" error.
func isNotFound(err error) bool {
	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return true
	}
	// Some S3-compatible endpoints answer with a bare 404 error code
	// instead of a typed NoSuchKey response.
	return strings.Contains(err.Error(), "NotFound") ||
		strings.Contains(err.Error(), "NoSuchKey")
}
