package documents

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"verigate/pkg/platform/sentinel"
)

// KeyIndex maps document ids to object keys.
type KeyIndex interface {
	Put(ctx context.Context, documentID, key string) error
	// Get returns sentinel.ErrNotFound for an unknown id.
	Get(ctx context.Context, documentID string) (string, error)
	Delete(ctx context.Context, documentID string) error
}

// MemoryKeyIndex is a process-local KeyIndex.
type MemoryKeyIndex struct {
	mu   sync.RWMutex
	keys map[string]string
}

func NewMemoryKeyIndex() *MemoryKeyIndex {
	return &MemoryKeyIndex{keys: make(map[string]string)}
}

func (m *MemoryKeyIndex) Put(_ context.Context, documentID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[documentID] = key
	return nil
}

func (m *MemoryKeyIndex) Get(_ context.Context, documentID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	key, ok := m.keys[documentID]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return key, nil
}

func (m *MemoryKeyIndex) Delete(_ context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, documentID)
	return nil
}

const redisKeyPrefix = "verigate:document:"

// RedisKeyIndex shares the index between instances.
type RedisKeyIndex struct {
	client *redis.Client
}

func NewRedisKeyIndex(client *redis.Client) *RedisKeyIndex {
	return &RedisKeyIndex{client: client}
}

func (r *RedisKeyIndex) Put(ctx context.Context, documentID, key string) error {
	if err := r.client.Set(ctx, redisKeyPrefix+documentID, key, 0).Err(); err != nil {
		return fmt.Errorf("index document %s: %w", documentID, err)
	}
	return nil
}

func (r *RedisKeyIndex) Get(ctx context.Context, documentID string) (string, error) {
	key, err := r.client.Get(ctx, redisKeyPrefix+documentID).Result()
	if errors.Is(err, redis.Nil) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("lookup document %s: %w", documentID, err)
	}
	return key, nil
}

func (r *RedisKeyIndex) Delete(ctx context.Context, documentID string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+documentID).Err(); err != nil {
		return fmt.Errorf("unindex document %s: %w", documentID, err)
	}
	return nil
}
