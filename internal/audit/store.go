package audit

import (
	"context"
	"sync"
)

// Sink receives audit events. Stores and brokers implement it.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// MemoryStore is an append-only in-memory sink, used by tests and
// single-process deployments.
type MemoryStore struct {
	mu     sync.RWMutex
	events map[string][]Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{events: make(map[string][]Event)}
}

func (s *MemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.TransactionID] = append(s.events[event.TransactionID], event)
	return nil
}

// ListByTransaction returns the events recorded for one transaction.
func (s *MemoryStore) ListByTransaction(_ context.Context, txnID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[txnID]...), nil
}
