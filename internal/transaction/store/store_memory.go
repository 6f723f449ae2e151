package store

import (
	"context"
	"sync"

	"vouch/internal/transaction/lifecycle"
	"vouch/internal/transaction/models"
)

// Memory keeps transactions in a mutex-guarded map. It favors clarity over
// performance and backs both tests and single-process deployments.
type Memory struct {
	mu   sync.RWMutex
	txns map[string]*models.Transaction
}

func NewMemory() *Memory {
	return &Memory{txns: make(map[string]*models.Transaction)}
}

func (s *Memory) Put(_ context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txns[tx.ID] = tx.Clone()
	return nil
}

func (s *Memory) Get(_ context.Context, id string) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if tx, ok := s.txns[id]; ok {
		return tx.Clone(), nil
	}
	return nil, ErrNotFound
}

func (s *Memory) UpdateDocument(_ context.Context, id string, update lifecycle.DocumentUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.txns[id]
	if !ok {
		return ErrNotFound
	}
	next := tx.Clone()
	if err := update.Apply(next); err != nil {
		return err
	}
	s.txns[id] = next
	return nil
}
