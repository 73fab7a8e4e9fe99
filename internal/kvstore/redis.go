package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "tiflisi"

// cmdable is the subset of redis commands the backend issues.
type cmdable interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Redis stores each entry as a plain string key tiflisi:<ns>:<key>. Every
// write refreshes the TTL, so idle sessions expire on their own.
type Redis struct {
	store  cmdable
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to url (redis://host:port/db) and pings it.
func NewRedis(ctx context.Context, url string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("kvstore: parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	r := &Redis{store: client, client: client, ttl: ttl}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("kvstore: redis ping: %w", err)
	}
	return r, nil
}

func (r *Redis) Key(ns, key string) string {
	return strings.Join([]string{redisPrefix, ns, key}, ":")
}

func (r *Redis) Get(ctx context.Context, ns, key string) ([]byte, bool, error) {
	v, err := r.store.Get(ctx, r.Key(ns, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, ns, key string, value []byte) error {
	return r.store.Set(ctx, r.Key(ns, key), value, r.ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, ns, key string) error {
	return r.store.Del(ctx, r.Key(ns, key)).Err()
}

func (r *Redis) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
