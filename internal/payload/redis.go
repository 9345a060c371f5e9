// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package payload

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrPayloadNotFound is returned when the payload key does not exist.
var ErrPayloadNotFound = errors.New("payload not found")

// RedisSourceOptions configures the Redis payload source.
type RedisSourceOptions struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379/0)
	URL string

	// Key holds the payload JSON document
	Key string

	// ConnectTimeout is the timeout for establishing a connection
	ConnectTimeout time.Duration

	// ReadTimeout is the timeout for read operations
	ReadTimeout time.Duration
}

// DefaultRedisSourceOptions returns sensible defaults.
func DefaultRedisSourceOptions() RedisSourceOptions {
	return RedisSourceOptions{
		Key:            "skinpatch:payload",
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    3 * time.Second,
	}
}

// RedisSource reads the payload from a Redis string key written by the
// configuration backend.
type RedisSource struct {
	client *redis.Client
	key    string
}

// NewRedisSource connects to Redis and verifies the connection.
func NewRedisSource(opts RedisSourceOptions) (*RedisSource, error) {
	if opts.URL == "" {
		return nil, errors.New("redis URL is required")
	}
	if opts.Key == "" {
		return nil, errors.New("payload key is required")
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, err
	}
	if opts.ConnectTimeout > 0 {
		redisOpts.DialTimeout = opts.ConnectTimeout
	}
	if opts.ReadTimeout > 0 {
		redisOpts.ReadTimeout = opts.ReadTimeout
	}

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), redisOpts.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisSource{client: client, key: opts.Key}, nil
}

// Fetch implements Source.
func (s *RedisSource) Fetch(ctx context.Context) (*Payload, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: key %q", ErrPayloadNotFound, s.key)
	}
	if err != nil {
		return nil, fmt.Errorf("reading payload key: %w", err)
	}
	return Decode(data)
}

// Close releases the connection pool.
func (s *RedisSource) Close() error {
	return s.client.Close()
}
