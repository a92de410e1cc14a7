package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLocker serialises work per key with session advisory locks, so API
// replicas sharing one database agree on a single writer per cart. Keys are
// hashed with hashtext into the advisory lock space.
type PostgresLocker struct {
	pool    *pgxpool.Pool
	backoff time.Duration
}

// NewPostgresLocker returns a locker holding one pooled connection per held key.
func NewPostgresLocker(pool *pgxpool.Pool) *PostgresLocker {
	return &PostgresLocker{pool: pool, backoff: defaultRedisBackoff}
}

// WithLock runs fn while holding the advisory lock for key.
func (l *PostgresLocker) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	if l == nil || l.pool == nil {
		return errors.New("lock: postgres pool not configured")
	}
	if fn == nil {
		return errNoCallback
	}
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("lock: acquire connection: %w", err)
	}
	defer conn.Release()

	ticker := time.NewTicker(l.backoff)
	defer ticker.Stop()
	for {
		var ok bool
		if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock(hashtext($1))`, key).Scan(&ok); err != nil {
			return fmt.Errorf("lock: try %s: %w", key, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}

	defer func() {
		unlockCtx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()
		if _, err := conn.Exec(unlockCtx, `SELECT pg_advisory_unlock(hashtext($1))`, key); err != nil {
			// a session that cannot unlock must not go back to the pool still holding the lock
			_ = conn.Conn().Close(unlockCtx)
		}
	}()
	return fn(ctx)
}
