package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	exportapp "github.com/commerce/backend/internal/application/export"
)

// InMemoryObjectStorage keeps files in process memory. Suitable for tests
// and single-instance development setups without an object store.
type InMemoryObjectStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte
	bucket  string
	baseURL string
}

// NewInMemoryObjectStorage creates an empty in-memory storage
func NewInMemoryObjectStorage(bucket string) *InMemoryObjectStorage {
	return &InMemoryObjectStorage{
		objects: make(map[string][]byte),
		bucket:  bucket,
		baseURL: "https://storage.invalid",
	}
}

// EnsureBucket is a no-op for in-memory storage
func (s *InMemoryObjectStorage) EnsureBucket(ctx context.Context) error {
	return nil
}

// Upload stores data under the given key
func (s *InMemoryObjectStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), data...)
	return nil
}

// GenerateDownloadURL returns a fake URL for the stored file
func (s *InMemoryObjectStorage) GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.objects[key]; !ok {
		return "", time.Time{}, errors.New("object not found: " + key)
	}

	expiresAt := time.Now().Add(expiresIn)
	return s.baseURL + "/" + s.bucket + "/" + key, expiresAt, nil
}

// DeleteObject removes a stored file
func (s *InMemoryObjectStorage) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// ObjectExists reports whether a file exists under the key
func (s *InMemoryObjectStorage) ObjectExists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.New("storage key is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok, nil
}

// Bucket returns the bucket name
func (s *InMemoryObjectStorage) Bucket() string {
	return s.bucket
}

// Object returns the stored bytes for a key, for test assertions
func (s *InMemoryObjectStorage) Object(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	return data, ok
}

// Ensure InMemoryObjectStorage implements ObjectStorage
var _ exportapp.ObjectStorage = (*InMemoryObjectStorage)(nil)
