package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SyncLockKey is the advisory lock id held for the duration of a sync run.
const SyncLockKey int64 = 0x6d6370687562 // "mcphub"

// Store is a Querier that can also run a function inside a transaction.
type Store interface {
	Querier
	ExecTx(ctx context.Context, fn func(Querier) error) error
}

// Locker hands out session-scoped advisory locks.
type Locker interface {
	// TryLock returns ok=false without blocking when the lock is held elsewhere.
	// release must be called exactly once when ok is true.
	TryLock(ctx context.Context, key int64) (release func(), ok bool, err error)
}

// SQLStore is the pgx-backed Store.
type SQLStore struct {
	*Queries
	pool *pgxpool.Pool
}

// NewStore wraps a connection pool.
func NewStore(pool *pgxpool.Pool) *SQLStore {
	return &SQLStore{
		Queries: New(pool),
		pool:    pool,
	}
}

// ExecTx runs fn in a transaction, committing when fn returns nil.
func (s *SQLStore) ExecTx(ctx context.Context, fn func(Querier) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // Rollback is a no-op if the transaction is already committed.

	if err := fn(s.Queries.WithTx(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// TryLock takes a PostgreSQL session advisory lock on a dedicated pool connection.
// The connection is held until release is called.
func (s *SQLStore) TryLock(ctx context.Context, key int64) (func(), bool, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("acquire connection: %w", err)
	}

	var ok bool
	if err := conn.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", key).Scan(&ok); err != nil {
		conn.Release()
		return nil, false, fmt.Errorf("try advisory lock: %w", err)
	}
	if !ok {
		conn.Release()
		return nil, false, nil
	}

	release := func() {
		// A fresh context: the caller's may already be cancelled and the lock must still go.
		_, _ = conn.Exec(context.Background(), "SELECT pg_advisory_unlock($1)", key)
		conn.Release()
	}
	return release, true, nil
}

// Ping checks connectivity for the health endpoint.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
