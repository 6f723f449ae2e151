package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"vouch/internal/transaction/lifecycle"
	"vouch/internal/transaction/models"
	ambienttx "vouch/pkg/platform/tx"
)

// Postgres persists transactions as JSONB documents keyed by id. The partial
// update for an intake is a single UPDATE so other document types are never
// rewritten.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// q returns the ambient transaction from the context when one is present,
// falling back to the pool.
func (s *Postgres) q(ctx context.Context) querier {
	if tx, ok := ambienttx.From(ctx); ok {
		return tx
	}
	return s.db
}

// EnsureSchema bootstraps the transactions table. An advisory lock serializes
// DDL across concurrently starting instances.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082901)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const ddl = `
CREATE TABLE IF NOT EXISTS transactions (
	id TEXT PRIMARY KEY,
	personal_info JSONB NOT NULL,
	status JSONB NOT NULL,
	documents JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (s *Postgres) Put(ctx context.Context, tx *models.Transaction) error {
	personal, err := json.Marshal(tx.PersonalInfo)
	if err != nil {
		return fmt.Errorf("marshal personal info: %w", err)
	}
	status, err := json.Marshal(tx.Status)
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}
	documents, err := json.Marshal(tx.Documents)
	if err != nil {
		return fmt.Errorf("marshal documents: %w", err)
	}

	_, err = s.q(ctx).ExecContext(ctx, `
INSERT INTO transactions (id, personal_info, status, documents, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`,
		tx.ID, personal, status, documents, tx.CreatedAt, tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (s *Postgres) Get(ctx context.Context, id string) (*models.Transaction, error) {
	row := s.q(ctx).QueryRowContext(ctx, `
SELECT id, personal_info, status, documents, created_at, updated_at
FROM transactions WHERE id = $1`, id)

	var (
		tx        models.Transaction
		personal  []byte
		status    []byte
		documents []byte
	)
	err := row.Scan(&tx.ID, &personal, &status, &documents, &tx.CreatedAt, &tx.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select transaction: %w", err)
	}

	if err := json.Unmarshal(personal, &tx.PersonalInfo); err != nil {
		return nil, fmt.Errorf("decode personal info: %w", err)
	}
	if err := json.Unmarshal(status, &tx.Status); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}
	if err := json.Unmarshal(documents, &tx.Documents); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	return &tx, nil
}

func (s *Postgres) UpdateDocument(ctx context.Context, id string, update lifecycle.DocumentUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}

	record, err := json.Marshal(update.Record)
	if err != nil {
		return fmt.Errorf("marshal document record: %w", err)
	}
	contact, err := contactJSON(update.Contact)
	if err != nil {
		return err
	}

	res, err := s.q(ctx).ExecContext(ctx, `
UPDATE transactions
SET documents = jsonb_set(documents, ARRAY[$2], $3::jsonb),
	status = jsonb_set(status, ARRAY[$2], to_jsonb($4::text)),
	personal_info = personal_info || $5::jsonb,
	updated_at = $6
WHERE id = $1`,
		id, string(update.Type), record, string(update.Status), contact, update.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update transaction document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// contactJSON renders the contact merge as a JSONB patch containing only the
// fields that are set, so `||` never clobbers creation-time identity fields.
func contactJSON(c *lifecycle.ContactMerge) ([]byte, error) {
	patch := map[string]string{}
	if c != nil {
		set := func(k, v string) {
			if v != "" {
				patch[k] = v
			}
		}
		set("country", c.Country)
		set("city", c.City)
		set("state", c.State)
		set("postalCode", c.PostalCode)
		set("address1", c.Address1)
		set("address2", c.Address2)
	}
	out, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("marshal contact patch: %w", err)
	}
	return out, nil
}
