package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Options selects the redis server. URL wins over Addr when both are set.
type Options struct {
	URL      string
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// RedisStorage - storage.KV поверх Redis; все ключи получают префикс
type RedisStorage struct {
	client *goredis.Client
	prefix string
}

// New connects and pings with a 5s timeout.
func New(ctx context.Context, opts Options) (*RedisStorage, error) {
	clientOpts := &goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}

	if opts.URL != "" {
		parsed, err := goredis.ParseURL(opts.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		clientOpts = parsed
	}

	client := goredis.NewClient(clientOpts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewFromClient(client, opts.Prefix), nil
}

func NewFromClient(client *goredis.Client, prefix string) *RedisStorage {
	return &RedisStorage{client: client, prefix: prefix}
}

func (s *RedisStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get item: %w", err)
	}
	return v, true, nil
}

func (s *RedisStorage) SetItem(ctx context.Context, key string, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set item: %w", err)
	}
	return nil
}

func (s *RedisStorage) RemoveItem(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("failed to remove item: %w", err)
	}
	return nil
}

func (s *RedisStorage) Close() error {
	return s.client.Close()
}
