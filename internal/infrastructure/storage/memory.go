package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"
)

var _ ObjectStore = (*MemoryObjectStorage)(nil)

// MemoryObjectStorage keeps objects in process memory. It stands in for S3
// wherever an ObjectStore is needed without a bucket.
type MemoryObjectStorage struct {
	// BaseURL prefixes generated download URLs
	BaseURL string

	bucket  string
	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	data        []byte
	contentType string
}

// NewMemoryObjectStorage creates an empty in-memory bucket
func NewMemoryObjectStorage(bucket string) *MemoryObjectStorage {
	return &MemoryObjectStorage{
		BaseURL: "http://localhost:9000",
		bucket:  bucket,
		objects: make(map[string]memoryObject),
	}
}

// Upload stores a copy of data under storageKey
func (s *MemoryObjectStorage) Upload(_ context.Context, storageKey string, data []byte, contentType string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[storageKey] = memoryObject{
		data:        append([]byte(nil), data...),
		contentType: contentType,
	}
	return nil
}

// GetObject returns a copy of the stored bytes
func (s *MemoryObjectStorage) GetObject(_ context.Context, storageKey string) ([]byte, error) {
	if storageKey == "" {
		return nil, errors.New("storage key is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[storageKey]
	if !ok {
		return nil, fmt.Errorf("%s: %w", storageKey, ErrObjectNotFound)
	}
	return append([]byte(nil), obj.data...), nil
}

// ContentType returns the content type recorded at upload
func (s *MemoryObjectStorage) ContentType(storageKey string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.objects[storageKey].contentType
}

// ObjectExists checks if an object exists
func (s *MemoryObjectStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[storageKey]
	return ok, nil
}

// GenerateDownloadURL returns an unsigned URL carrying the expiry as a query parameter
func (s *MemoryObjectStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	expiresAt := time.Now().Add(expiresIn)
	u := s.BaseURL + "/" + url.PathEscape(s.bucket) + "/" + storageKey + "?expires=" + url.QueryEscape(expiresAt.Format(time.RFC3339))
	return u, expiresAt, nil
}

// GetBucket returns the bucket name
func (s *MemoryObjectStorage) GetBucket() string {
	return s.bucket
}
