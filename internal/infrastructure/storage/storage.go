// Package storage provides object storage for form templates and archived documents.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrObjectNotFound is returned when a key does not exist in the bucket
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore is the subset of object storage the document service relies on
type ObjectStore interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	GetObject(ctx context.Context, storageKey string) ([]byte, error)
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	GetBucket() string
}

// ParseURI splits an s3://bucket/key reference into its parts
func ParseURI(uri string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 uri: %q", uri)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 uri needs a bucket and a key: %q", uri)
	}
	return bucket, key, nil
}

// IsURI reports whether path names an object rather than a local file
func IsURI(path string) bool {
	return strings.HasPrefix(path, "s3://")
}
