// Package ratelimit backs fiber's limiter with Redis so request counts are
// shared between replicas.
package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "fithub:ratelimit:"
	opTimeout = 500 * time.Millisecond
	scanBatch = 100
)

// Storage implements fiber.Storage on a Redis client. Every key it touches
// is namespaced so Reset leaves unrelated data alone.
type Storage struct {
	rdb *redis.Client
}

func New(addr string) *Storage {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr}))
}

func NewWithClient(rdb *redis.Client) *Storage {
	return &Storage{rdb: rdb}
}

func key(k string) string { return keyPrefix + k }

// Ping checks the connection; used on startup.
func (s *Storage) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Get returns nil, nil for a missing key.
func (s *Storage) Get(k string) ([]byte, error) {
	if k == "" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	val, err := s.rdb.Get(ctx, key(k)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

func (s *Storage) Set(k string, val []byte, exp time.Duration) error {
	if k == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return s.rdb.Set(ctx, key(k), val, exp).Err()
}

func (s *Storage) Delete(k string) error {
	if k == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return s.rdb.Del(ctx, key(k)).Err()
}

// Reset drops every limiter key.
func (s *Storage) Reset() error {
	ctx := context.Background()
	iter := s.rdb.Scan(ctx, 0, keyPrefix+"*", scanBatch).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := s.rdb.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return s.rdb.Del(ctx, batch...).Err()
	}
	return nil
}

func (s *Storage) Close() error {
	return s.rdb.Close()
}
