package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "recall:memory:"

// RedisStore persists memories as Redis string values, one key per user.
// Keys carry no TTL; memories live until deleted.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis with the given URL
// (e.g. redis://localhost:6379/0).
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	if redisURL == "" {
		return nil, errors.New("redis url is required")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func redisKey(userID string) string {
	return redisKeyPrefix + userID
}

func (s *RedisStore) Read(ctx context.Context, userID string) (string, error) {
	content, err := s.client.Get(ctx, redisKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read memory: %w", err)
	}
	return content, nil
}

func (s *RedisStore) Write(ctx context.Context, userID, content string) error {
	if err := s.client.Set(ctx, redisKey(userID), content, 0).Err(); err != nil {
		return fmt.Errorf("write memory: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, redisKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete memory: %w", err)
	}
	return nil
}

func (s *RedisStore) ListUsers(ctx context.Context) ([]string, error) {
	var users []string
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		users = append(users, strings.TrimPrefix(iter.Val(), redisKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	sort.Strings(users)
	return users, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
