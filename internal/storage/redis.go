package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

// WindowTTL expires an idle short-term window
const WindowTTL = 40 * time.Minute

// RedisWindow keeps the short-term window in a Redis list so it survives restarts
// and can be shared by several planner processes.
type RedisWindow struct {
	client   *redis.Client
	key      string
	capacity int
}

// NewRedisWindow connects to redisURL and checks the connection
func NewRedisWindow(ctx context.Context, redisURL, key string, capacity int) (*RedisWindow, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisWindowFromClient(client, key, capacity), nil
}

// NewRedisWindowFromClient wraps an existing client
func NewRedisWindowFromClient(client *redis.Client, key string, capacity int) *RedisWindow {
	if capacity < 1 {
		capacity = 1
	}
	return &RedisWindow{client: client, key: key, capacity: capacity}
}

// Push appends the exchange and trims the list to capacity in one transaction
func (r *RedisWindow) Push(ctx context.Context, e Exchange) error {
	data, err := sonic.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal exchange: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, r.key, data)
		pipe.LTrim(ctx, r.key, int64(-r.capacity), -1)
		pipe.Expire(ctx, r.key, WindowTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to push exchange: %w", err)
	}
	return nil
}

// Recent returns up to n of the newest exchanges, oldest first
func (r *RedisWindow) Recent(ctx context.Context, n int) ([]Exchange, error) {
	if n <= 0 {
		return []Exchange{}, nil
	}
	raw, err := r.client.LRange(ctx, r.key, int64(-n), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read exchanges: %w", err)
	}

	out := make([]Exchange, 0, len(raw))
	for _, item := range raw {
		var e Exchange
		if err := sonic.UnmarshalString(item, &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal exchange: %w", err)
		}
		out = append(out, e)
	}
	return out, nil
}

// Len returns the number of stored exchanges
func (r *RedisWindow) Len(ctx context.Context) (int, error) {
	n, err := r.client.LLen(ctx, r.key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read window length: %w", err)
	}
	return int(n), nil
}

// Close releases the connection pool
func (r *RedisWindow) Close() error {
	return r.client.Close()
}

var _ Window = (*RedisWindow)(nil)
