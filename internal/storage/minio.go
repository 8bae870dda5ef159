package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig encapsulates the connection info for the S3-compatible backend.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
}

// MinioClient implements ObjectStore on top of minio-go.
type MinioClient struct {
	client *minio.Client
	region string
}

// NewMinioClient builds a new MinioClient from the given config.
func NewMinioClient(cfg MinioConfig) (*MinioClient, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("storage endpoint must be provided")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("storage credentials must be provided")
	}

	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build storage client for %s: %w", endpoint, err)
	}

	return &MinioClient{
		client: client,
		region: cfg.Region,
	}, nil
}

// EnsureBucket lists the existing buckets and creates the named one with the
// configured region when no case-insensitive match is found. The
// list-then-create sequence is not atomic against concurrent creators; a
// single invoker is assumed.
func (c *MinioClient) EnsureBucket(ctx context.Context, name string) (bool, error) {
	buckets, err := c.client.ListBuckets(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list buckets: %w", err)
	}

	if bucketExists(buckets, name) {
		return false, nil
	}

	if err := c.client.MakeBucket(ctx, name, minio.MakeBucketOptions{Region: c.region}); err != nil {
		return false, fmt.Errorf("failed to create bucket %s in %s: %w", name, c.region, err)
	}

	return true, nil
}

// UploadObject writes data under key with a public-read canned ACL.
func (c *MinioClient) UploadObject(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	info, err := c.client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"x-amz-acl": "public-read",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to bucket %s: %w", key, bucket, err)
	}
	if info.Bucket == "" && info.Key == "" {
		return fmt.Errorf("storage backend did not acknowledge upload of %s", key)
	}
	return nil
}

func bucketExists(buckets []minio.BucketInfo, name string) bool {
	for _, b := range buckets {
		if strings.EqualFold(b.Name, name) {
			return true
		}
	}
	return false
}

var _ ObjectStore = (*MinioClient)(nil)
