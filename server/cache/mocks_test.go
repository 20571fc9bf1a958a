package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockStore struct {
	GetFunc func(ctx context.Context, key string) ([]byte, bool, error)
	SetFunc func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m mockStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return m.GetFunc(ctx, key)
}

func (m mockStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.SetFunc(ctx, key, value, ttl)
}

type mockObserver struct {
	mu     sync.Mutex
	hits   int
	misses int
}

func (m *mockObserver) ObserveCache(hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case hit:
		m.hits++
	default:
		m.misses++
	}
}

func (m *mockObserver) count(hit bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		return m.hits
	}
	return m.misses
}

type mockRedisClient struct {
	GetFunc   func(ctx context.Context, key string) *redis.StringCmd
	SetFunc   func(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	PingFunc  func(ctx context.Context) *redis.StatusCmd
	CloseFunc func() error
}

func (m mockRedisClient) Get(ctx context.Context, key string) *redis.StringCmd {
	return m.GetFunc(ctx, key)
}

func (m mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	return m.SetFunc(ctx, key, value, expiration)
}

func (m mockRedisClient) Ping(ctx context.Context) *redis.StatusCmd {
	return m.PingFunc(ctx)
}

func (m mockRedisClient) Close() error {
	return m.CloseFunc()
}
