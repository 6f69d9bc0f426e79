// Package redis provides a Redis-backed seen-set for article URLs.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Config configures the Redis connection and the set key.
type Config struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// SeenStore keeps processed URLs as members of a single Redis set.
type SeenStore struct {
	client *goredis.Client
	key    string
}

// NewSeenStore connects to Redis and verifies connectivity.
func NewSeenStore(ctx context.Context, cfg Config) (*SeenStore, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return &SeenStore{client: client, key: cfg.Key}, nil
}

func (s *SeenStore) Exists(ctx context.Context, url string) (bool, error) {
	return s.client.SIsMember(ctx, s.key, url).Result()
}

func (s *SeenStore) Insert(ctx context.Context, url string) error {
	return s.client.SAdd(ctx, s.key, url).Err()
}

// Close releases the connection pool.
func (s *SeenStore) Close() error {
	return s.client.Close()
}
