package cache

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"
)

const memoryEvictionPercentage = 10

// MemoryStore is an in-process sharded TTL cache. All entries share the TTL
// the store was built with; the per-call ttl argument is accepted for
// interface compatibility only.
type MemoryStore struct {
	client *sturdyc.Client[[]byte]
}

// NewMemoryStore builds an in-process store holding up to capacity entries
// across numShards shards, each expiring after ttl.
func NewMemoryStore(capacity, numShards int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		client: sturdyc.New[[]byte](capacity, numShards, ttl, memoryEvictionPercentage),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := s.client.Get(key)
	if !ok {
		return nil, false, nil
	}
	return value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.client.Set(key, value)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.client.Delete(key)
	return nil
}
