package catalog

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/reelbase/reelbase/internal/cache"
	"github.com/reelbase/reelbase/internal/database"
	"github.com/reelbase/reelbase/internal/logger"
)

// Policy holds the tunable parts of the cache-aside behavior. EvictKindKeys
// controls whether writes also evict the per-kind listing keys; when off,
// those listings may stay stale for up to TTL after a write.
type Policy struct {
	TTL           time.Duration
	EvictKindKeys bool
}

// CachedRepository decorates a base Repository with cache-aside reads for the
// three cacheable shapes (all entries, entry by id, entries by kind) and
// invalidation on every write.
//
// The cache is a best-effort accelerator: any backend failure is absorbed and
// the call degrades to the base repository. Cache errors never fail a request.
type CachedRepository struct {
	base  Repository
	store cache.Store

	mu     sync.RWMutex
	policy Policy
}

// NewCachedRepository wraps base with cache-aside behavior against store.
func NewCachedRepository(base Repository, store cache.Store, policy Policy) *CachedRepository {
	return &CachedRepository{base: base, store: store, policy: policy}
}

// SetPolicy swaps the cache policy; applied by the config reload watcher.
func (c *CachedRepository) SetPolicy(policy Policy) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.policy = policy
}

// SetStore swaps the cache backend. Used when a config reload rebuilds the
// in-process store; in-flight reads finish against whichever store they
// started with.
func (c *CachedRepository) SetStore(store cache.Store) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = store
}

func (c *CachedRepository) currentPolicy() Policy {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.policy
}

func (c *CachedRepository) currentStore() cache.Store {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store
}

// ListAll serves the full listing from cache when present, populating it on
// miss.
func (c *CachedRepository) ListAll(ctx context.Context) ([]database.CatalogEntry, error) {
	var cached []database.CatalogEntry
	if c.lookup(ctx, cache.KeyAllEntries, &cached) {
		return cached, nil
	}

	entries, err := c.base.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	c.populate(ctx, cache.KeyAllEntries, entries)
	return entries, nil
}

// GetByID caches found entries only; absence is never cached.
func (c *CachedRepository) GetByID(ctx context.Context, id string) (*database.CatalogEntry, error) {
	var cached database.CatalogEntry
	if c.lookup(ctx, cache.EntryKey(id), &cached) {
		return &cached, nil
	}

	entry, err := c.base.GetByID(ctx, id)
	if err != nil || entry == nil {
		return entry, err
	}
	c.populate(ctx, cache.EntryKey(id), entry)
	return entry, nil
}

func (c *CachedRepository) ListByKind(ctx context.Context, kind database.MediaKind) ([]database.CatalogEntry, error) {
	key := cache.KindKey(string(kind))

	var cached []database.CatalogEntry
	if c.lookup(ctx, key, &cached) {
		return cached, nil
	}

	entries, err := c.base.ListByKind(ctx, kind)
	if err != nil {
		return nil, err
	}
	c.populate(ctx, key, entries)
	return entries, nil
}

// SearchTitle is not cached: free-text keys would explode cardinality.
func (c *CachedRepository) SearchTitle(ctx context.Context, title string) ([]database.CatalogEntry, error) {
	return c.base.SearchTitle(ctx, title)
}

// ListByAnyGenre is not cached: multi-value filter keys would explode
// cardinality.
func (c *CachedRepository) ListByAnyGenre(ctx context.Context, genres []string) ([]database.CatalogEntry, error) {
	return c.base.ListByAnyGenre(ctx, genres)
}

// Create passes through and evicts the full listing, which is now stale.
func (c *CachedRepository) Create(ctx context.Context, entry *database.CatalogEntry) error {
	if err := c.base.Create(ctx, entry); err != nil {
		return err
	}
	c.evictAfterCreate(ctx)
	return nil
}

func (c *CachedRepository) CreateMany(ctx context.Context, entries []*database.CatalogEntry) error {
	if err := c.base.CreateMany(ctx, entries); err != nil {
		return err
	}
	c.evictAfterCreate(ctx)
	return nil
}

// Update passes through and evicts the full listing and the entry's own key.
func (c *CachedRepository) Update(ctx context.Context, id string, entry *database.CatalogEntry) error {
	if err := c.base.Update(ctx, id, entry); err != nil {
		return err
	}
	c.evictAfterWrite(ctx, id)
	return nil
}

func (c *CachedRepository) Delete(ctx context.Context, id string) (int64, error) {
	affected, err := c.base.Delete(ctx, id)
	if err != nil {
		return affected, err
	}
	c.evictAfterWrite(ctx, id)
	return affected, nil
}

// lookup deserializes a cached value into out, reporting whether it was
// served. Backend errors count as misses.
func (c *CachedRepository) lookup(ctx context.Context, key string, out interface{}) bool {
	data, found, err := c.currentStore().Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed, falling back to store", "key", key, "error", err)
		return false
	}
	if !found {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		logger.Warn("cache entry corrupt, falling back to store", "key", key, "error", err)
		return false
	}
	return true
}

func (c *CachedRepository) populate(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		logger.Warn("failed to serialize cache entry", "key", key, "error", err)
		return
	}
	if err := c.currentStore().Set(ctx, key, data, c.currentPolicy().TTL); err != nil {
		logger.Warn("cache write failed", "key", key, "error", err)
	}
}

func (c *CachedRepository) evict(ctx context.Context, keys ...string) {
	store := c.currentStore()
	for _, key := range keys {
		if err := store.Delete(ctx, key); err != nil {
			logger.Warn("cache eviction failed", "key", key, "error", err)
		}
	}
}

func (c *CachedRepository) evictAfterCreate(ctx context.Context) {
	keys := []string{cache.KeyAllEntries}
	if c.currentPolicy().EvictKindKeys {
		keys = append(keys, kindKeys()...)
	}
	c.evict(ctx, keys...)
}

func (c *CachedRepository) evictAfterWrite(ctx context.Context, id string) {
	keys := []string{cache.KeyAllEntries, cache.EntryKey(id)}
	if c.currentPolicy().EvictKindKeys {
		keys = append(keys, kindKeys()...)
	}
	c.evict(ctx, keys...)
}

func kindKeys() []string {
	return []string{
		cache.KindKey(string(database.MediaKindMovie)),
		cache.KindKey(string(database.MediaKindSeries)),
	}
}
