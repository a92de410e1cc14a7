package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only while it still carries the caller's token.
var releaseScript = redis.NewScript(`if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
end
return 0`)

const (
	defaultRedisTTL     = 30 * time.Second
	defaultRedisBackoff = 50 * time.Millisecond
	defaultRedisPrefix  = "lock:"
	releaseTimeout      = 2 * time.Second
)

// RedisOption configures a RedisLocker.
type RedisOption func(*RedisLocker)

// WithTTL bounds how long a crashed holder can keep a key locked.
func WithTTL(ttl time.Duration) RedisOption {
	return func(l *RedisLocker) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

// WithRetryBackoff sets the pause between acquisition attempts.
func WithRetryBackoff(d time.Duration) RedisOption {
	return func(l *RedisLocker) {
		if d > 0 {
			l.backoff = d
		}
	}
}

// WithPrefix namespaces lock keys.
func WithPrefix(prefix string) RedisOption {
	return func(l *RedisLocker) {
		l.prefix = prefix
	}
}

// RedisLocker serialises work per key across processes sharing one Redis, so
// several API replicas can mutate the same cart store.
type RedisLocker struct {
	client  *redis.Client
	ttl     time.Duration
	backoff time.Duration
	prefix  string
}

// NewRedisLocker returns a locker using client.
func NewRedisLocker(client *redis.Client, opts ...RedisOption) *RedisLocker {
	l := &RedisLocker{
		client:  client,
		ttl:     defaultRedisTTL,
		backoff: defaultRedisBackoff,
		prefix:  defaultRedisPrefix,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// WithLock runs fn while holding the lock for key. The lock is released even
// when fn fails; if it cannot be taken before ctx ends, ctx.Err() is returned.
func (l *RedisLocker) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	if l == nil || l.client == nil {
		return errors.New("lock: redis client not configured")
	}
	if fn == nil {
		return errNoCallback
	}
	key = l.prefix + key
	token := uuid.NewString()
	if err := l.acquire(ctx, key, token); err != nil {
		return err
	}
	defer l.release(key, token)
	return fn(ctx)
}

func (l *RedisLocker) acquire(ctx context.Context, key, token string) error {
	ticker := time.NewTicker(l.backoff)
	defer ticker.Stop()
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// release runs on its own deadline so a cancelled request still frees the key.
// A failed release leaves the key to expire after the TTL.
func (l *RedisLocker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()
	_ = releaseScript.Run(ctx, l.client, []string{key}, token).Err()
}
