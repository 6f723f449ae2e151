// Package store persists transaction records. Implementations are
// interface-driven so the in-memory, Postgres, and Redis variants are
// interchangeable without rewiring business code.
package store

import (
	"context"
	"fmt"

	"vouch/internal/transaction/lifecycle"
	"vouch/internal/transaction/models"
	"vouch/pkg/platform/sentinel"
)

//go:generate mockgen -source=store.go -destination=mocks/mocks.go -package=mocks Store

// ErrNotFound marks absent transactions. Lookups fail closed: callers
// translate this into a terminal not-found, never "new record".
var ErrNotFound = fmt.Errorf("transaction: %w", sentinel.ErrNotFound)

// Store is the capability surface intake and status reads need: point lookup,
// full insert, and a single combined partial update per intake.
type Store interface {
	// Put inserts the full record as one atomic write. The record is visible
	// to Get immediately afterwards.
	Put(ctx context.Context, tx *models.Transaction) error
	// Get returns the record or ErrNotFound.
	Get(ctx context.Context, id string) (*models.Transaction, error)
	// UpdateDocument applies one intake's combined partial update, leaving
	// every other document type and field untouched. Returns ErrNotFound if
	// the transaction does not exist.
	UpdateDocument(ctx context.Context, id string, update lifecycle.DocumentUpdate) error
}
