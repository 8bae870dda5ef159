package storage

import "context"

// ObjectStore captures the minimal bucket operations the pipeline needs.
type ObjectStore interface {
	// EnsureBucket makes sure the named bucket exists, creating it with the
	// configured location policy when absent. It reports whether a bucket
	// was created.
	EnsureBucket(ctx context.Context, name string) (bool, error)
	// UploadObject writes data under key with public-read access.
	UploadObject(ctx context.Context, bucket, key string, data []byte, contentType string) error
}
