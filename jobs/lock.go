package jobs

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Lock keeps one replica at a time inside a job run.
type Lock interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

type nopLock struct{}

// NopLock always succeeds, for single instance deployments.
func NopLock() Lock { return nopLock{} }

func (nopLock) TryLock(context.Context, string, time.Duration) (bool, error) { return true, nil }
func (nopLock) Unlock(context.Context, string) error { return nil }

// only the holder may release
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

type RedisLock struct {
	client *redis.Client
	owner  string
}

func NewRedisLock(redisURL string) (*RedisLock, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}

	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return nil, errors.Wrap(err, "lock owner")
	}

	return &RedisLock{
		client: redis.NewClient(opts),
		owner:  hex.EncodeToString(b[:]),
	}, nil
}

func (l *RedisLock) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, key, l.owner, ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, "redis setnx")
	}
	return ok, nil
}

func (l *RedisLock) Unlock(ctx context.Context, key string) error {
	err := unlockScript.Run(ctx, l.client, []string{key}, l.owner).Err()
	return errors.Wrap(err, "redis unlock")
}

func (l *RedisLock) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

func (l *RedisLock) Close() error {
	return l.client.Close()
}
