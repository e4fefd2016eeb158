// internal/infrastructure/lock/lock.go
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ErrLockFailed is returned when the lock is still held by someone else after all retries.
var ErrLockFailed = errors.New("failed to acquire lock")

// ReleaseFunc gives a lock back. It is safe to call once the lock has already expired.
type ReleaseFunc func(ctx context.Context) error

// Locker serializes work on a key across processes.
type Locker interface {
	Acquire(ctx context.Context, key string) (ReleaseFunc, error)
}

// Config tunes lock expiry and retry behaviour.
type Config struct {
	TTL           time.Duration `mapstructure:"ttl"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
	MaxRetries    int           `mapstructure:"max_retries"`
}

// unlockScript deletes the key only if it still holds our token, so an expired lock
// re-acquired by another holder is never removed.
const unlockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end`

// RedisLocker implements Locker with SET NX PX and a compare-and-delete release.
type RedisLocker struct {
	client redis.Cmdable
	cfg    Config
}

// NewRedisLocker creates a RedisLocker.
func NewRedisLocker(client redis.Cmdable, cfg Config) *RedisLocker {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 100 * time.Millisecond
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 30
	}
	return &RedisLocker{client: client, cfg: cfg}
}

// Acquire blocks until the lock is taken, the retries run out or ctx is done.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (ReleaseFunc, error) {
	token := uuid.NewString()
	for i := 0; i < l.cfg.MaxRetries; i++ {
		ok, err := l.client.SetNX(ctx, key, token, l.cfg.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("lock %s: %w", key, err)
		}
		if ok {
			return func(ctx context.Context) error {
				return l.client.Eval(ctx, unlockScript, []string{key}, token).Err()
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.cfg.RetryInterval):
		}
	}
	return nil, ErrLockFailed
}

// NoopLocker grants every lock immediately; used when Redis is not configured.
type NoopLocker struct{}

func (NoopLocker) Acquire(context.Context, string) (ReleaseFunc, error) {
	return func(context.Context) error { return nil }, nil
}

// RequestKey names the lock guarding decisions on one deposit or withdraw request.
func RequestKey(kind string, id int64) string {
	return fmt.Sprintf("ledger:lock:%s_request:%d", kind, id)
}
