package store

import (
	"context"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "soratech:store:"

// RedisPersister keeps snapshots in Redis, one JSON value per client key.
type RedisPersister struct {
	client *redis.Client
}

func NewRedisPersister(opts *redis.Options) *RedisPersister {
	return &RedisPersister{client: redis.NewClient(opts)}
}

func (p *RedisPersister) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := p.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (p *RedisPersister) Save(ctx context.Context, key string, data []byte) error {
	// Snapshots live until overwritten; there is no expiry on client state.
	return p.client.Set(ctx, redisKeyPrefix+key, data, 0).Err()
}
