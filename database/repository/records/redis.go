package recordsRepo

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "agendapro:records:"

type redisBackend struct {
	client *redis.Client
}

// NewRedisStore returns a RecordStore keeping each collection as a JSON string key.
func NewRedisStore(client *redis.Client) RecordStore {
	return &blobStore{backend: &redisBackend{client: client}}
}

func (r *redisBackend) get(ctx context.Context, collection string) ([]byte, bool, error) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+collection).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (r *redisBackend) put(ctx context.Context, collection string, data []byte) error {
	return r.client.Set(ctx, redisKeyPrefix+collection, data, 0).Err()
}

func (r *redisBackend) ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisBackend) close(context.Context) error {
	return r.client.Close()
}
