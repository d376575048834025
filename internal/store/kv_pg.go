package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// KVPG stores values in the kv_store table.
type KVPG struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewKVPG(db *pgxpool.Pool, timeout time.Duration) *KVPG {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &KVPG{db: db, timeout: timeout}
}

func (r *KVPG) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *KVPG) Get(ctx context.Context, key string) ([]byte, error) {
	const query = `SELECT value FROM kv_store WHERE key = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var value []byte
	err := r.db.QueryRow(timeoutCtx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

func (r *KVPG) Set(ctx context.Context, key string, value []byte) error {
	const query = `
	INSERT INTO kv_store (key, value, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (key) DO UPDATE SET
		value = EXCLUDED.value,
		updated_at = now()
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.db.Exec(timeoutCtx, query, key, value)
	return err
}

func (r *KVPG) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM kv_store WHERE key = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.db.Exec(timeoutCtx, query, key)
	return err
}

func (r *KVPG) Ping(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.Ping(timeoutCtx)
}
