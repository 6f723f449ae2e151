package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"vouch/internal/transaction/lifecycle"
	"vouch/internal/transaction/models"
)

const txnKeyPrefix = "kyc:txn:"

// Redis stores each transaction as one JSON value. Updates are get-modify-set:
// concurrent intakes for the same transaction race with last-writer-wins,
// which matches the documented per-document ownership model.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (s *Redis) Put(ctx context.Context, tx *models.Transaction) error {
	raw, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("marshal transaction: %w", err)
	}
	if err := s.client.Set(ctx, txnKeyPrefix+tx.ID, raw, 0).Err(); err != nil {
		return fmt.Errorf("set transaction: %w", err)
	}
	return nil
}

func (s *Redis) Get(ctx context.Context, id string) (*models.Transaction, error) {
	raw, err := s.client.Get(ctx, txnKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	var tx models.Transaction
	if err := json.Unmarshal(raw, &tx); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	return &tx, nil
}

func (s *Redis) UpdateDocument(ctx context.Context, id string, update lifecycle.DocumentUpdate) error {
	tx, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := update.Apply(tx); err != nil {
		return err
	}
	return s.Put(ctx, tx)
}
