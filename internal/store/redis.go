package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"intent-insights/internal/common/database"
)

// RedisStore keeps each document under <collection>:<uuid> and records the
// id in the <collection>:index sorted set scored by write time.
type RedisStore struct {
	client *database.RedisClient
	now    func() time.Time
}

func NewRedisStore(client *database.RedisClient) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func (s *RedisStore) Name() string { return "redis" }

func (s *RedisStore) Ping(ctx context.Context) error { return s.client.Ping(ctx) }

func (s *RedisStore) Close() error { return s.client.Close() }

func documentKey(collection, id string) string {
	return collection + ":" + id
}

func indexKey(collection string) string {
	return collection + ":index"
}

func (s *RedisStore) Add(ctx context.Context, collection string, doc interface{}) (string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("%w: encode document: %v", ErrWriteFailed, err)
	}

	id := uuid.NewString()
	_, err = s.client.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, documentKey(collection, id), body, 0)
		pipe.ZAdd(ctx, indexKey(collection), redis.Z{
			Score:  float64(s.now().UnixMilli()),
			Member: id,
		})
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return id, nil
}

func (s *RedisStore) Get(ctx context.Context, collection, id string, out interface{}) error {
	body, err := s.client.Client.Get(ctx, documentKey(collection, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return json.Unmarshal(body, out)
}

