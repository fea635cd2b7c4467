package statscache

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// MemorySlot keeps the snapshot in process memory.
type MemorySlot struct {
	p atomic.Pointer[Snapshot]
}

func (s *MemorySlot) Load(context.Context) (*Snapshot, error) {
	return s.p.Load(), nil
}

func (s *MemorySlot) Store(_ context.Context, snap Snapshot) error {
	s.p.Store(&snap)
	return nil
}

// DefaultRedisKey is where RedisSlot keeps the snapshot.
const DefaultRedisKey = "flashdeck:platform_stats"

// RedisClient is the subset of the go-redis client RedisSlot needs.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisSlot shares one snapshot between every process pointing at the same
// Redis. Entries expire after ttl; a zero ttl keeps them.
type RedisSlot struct {
	client RedisClient
	key    string
	ttl    time.Duration
}

func NewRedisSlot(client RedisClient, key string, ttl time.Duration) *RedisSlot {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisSlot{client: client, key: key, ttl: ttl}
}

func (s *RedisSlot) Load(ctx context.Context) (*Snapshot, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *RedisSlot) Store(ctx context.Context, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, data, s.ttl).Err()
}
