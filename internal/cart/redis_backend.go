package cart

import (
	"context"
	"time"

	"github.com/ecomsuite/storefront/pkg/redis"
)

// RedisBackend stores cart snapshots in Redis under namespaced keys,
// with an optional TTL so abandoned carts age out.
type RedisBackend struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisBackend(client *redis.Client, ttl time.Duration) *RedisBackend {
	return &RedisBackend{client: client, ttl: ttl}
}

func (r *RedisBackend) Load(ctx context.Context, key string) ([]Line, error) {
	payload, err := r.client.Get(ctx, r.client.CartKey(key))
	if err != nil {
		if redis.IsNil(err) {
			return nil, nil
		}
		return nil, err
	}
	return decodeSnapshot([]byte(payload))
}

func (r *RedisBackend) Save(ctx context.Context, key string, lines []Line) error {
	payload, err := encodeSnapshot(lines)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.client.CartKey(key), payload, r.ttl)
}
