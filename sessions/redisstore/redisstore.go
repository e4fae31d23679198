// Package redisstore keeps session entries in Redis. Every process using the same
// client and prefix shares one session.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/d-madiou/job-board-client/sessions"
	"github.com/redis/go-redis/v9"
)

var _ sessions.Storage = (*Storage)(nil)

// Storage is a Redis-based sessions.Storage.
type Storage struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

type Option func(*Storage)

// WithPrefix sets the key prefix (default "jobboard:").
func WithPrefix(prefix string) Option {
	return func(s *Storage) {
		s.prefix = prefix
	}
}

// WithTTL expires entries after ttl. Zero keeps them until removed.
func WithTTL(ttl time.Duration) Option {
	return func(s *Storage) {
		s.ttl = ttl
	}
}

func New(client redis.UniversalClient, options ...Option) (*Storage, error) {
	if client == nil {
		return nil, errors.New("[redisstore.New] client is required")
	}
	s := &Storage{
		client: client,
		prefix: "jobboard:",
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return v, true, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *Storage) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
