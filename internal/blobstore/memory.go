package blobstore

import (
	"context"
	"sync"
)

// Object is one stored blob with its declared content type.
type Object struct {
	Data        []byte
	ContentType string
}

// Memory is the in-process blob store used by tests and local runs.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]Object
}

func NewMemory() *Memory {
	return &Memory{objects: make(map[string]Object)}
}

func (s *Memory) Put(_ context.Context, key string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[key] = Object{Data: buf, ContentType: contentType}
	return nil
}

// Object returns a stored blob and whether it exists. Test helper.
func (s *Memory) Object(key string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj, ok
}

// Len reports how many blobs have been written. Test helper.
func (s *Memory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
