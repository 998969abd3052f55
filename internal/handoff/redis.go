package handoff

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps paths under studysprint:<client>:currentSyllabusPath.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects and pings. A zero ttl keeps entries forever.
func NewRedisStore(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	log.Printf("[handoff] connected to redis at %s", addr)
	return &RedisStore{client: rdb, ttl: ttl}, nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(c *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: c, ttl: ttl}
}

func redisKey(clientID string) string {
	return fmt.Sprintf("studysprint:%s:%s", clientID, Key)
}

func (r *RedisStore) Get(ctx context.Context, clientID string) (string, error) {
	p, err := r.client.Get(ctx, redisKey(clientID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get syllabus path: %w", err)
	}
	return p, nil
}

func (r *RedisStore) Set(ctx context.Context, clientID, path string) error {
	if err := r.client.Set(ctx, redisKey(clientID), path, r.ttl).Err(); err != nil {
		return fmt.Errorf("set syllabus path: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
