package memstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"
)

const signedURLFmt = "memory://%s/%s?expires=%d"

type ObjectStore struct {
	faults

	mu      sync.RWMutex
	bucket  string
	objects map[string][]byte
	now     func() time.Time
}

func NewObjectStore(bucket string) *ObjectStore {
	return &ObjectStore{
		faults:  newFaults(),
		bucket:  bucket,
		objects: make(map[string][]byte),
		now:     time.Now,
	}
}

func (s *ObjectStore) Put(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	if err := s.hit(OpPut); err != nil {
		return "", err
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()

	return key, nil
}

// Remove deletes every key. Missing keys are not an error, matching S3 DeleteObjects.
func (s *ObjectStore) Remove(_ context.Context, keys []string) error {
	if err := s.hit(OpRemove); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.objects, key)
	}
	return nil
}

func (s *ObjectStore) CreateSignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	if err := s.hit(OpSign); err != nil {
		return "", err
	}
	expires := s.now().Add(ttl).Unix()
	return fmt.Sprintf(signedURLFmt, s.bucket, url.PathEscape(key), expires), nil
}

func (s *ObjectStore) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok
}

func (s *ObjectStore) Object(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	return data, ok
}

func (s *ObjectStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
