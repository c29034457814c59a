// Package catalogmodule owns the catalog feature: the record store adapter,
// the cache-aside layer around it, the catalog service, and the /api/entries
// routes.
package catalogmodule

import (
	"context"

	"github.com/hashicorp/go-hclog"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/reelbase/reelbase/internal/cache"
	"github.com/reelbase/reelbase/internal/catalog"
	"github.com/reelbase/reelbase/internal/config"
	"github.com/reelbase/reelbase/internal/database"
	"github.com/reelbase/reelbase/internal/logger"
	"github.com/reelbase/reelbase/internal/modules/modulemanager"
)

// Module represents the catalog module
type Module struct {
	id   string
	name string
	core bool

	db          *gorm.DB
	redisClient *redis.Client
	store       cache.Store
	cached      *catalog.CachedRepository
	service     *catalog.Service
	log         hclog.Logger
}

// Auto-register the module when imported
func init() {
	Register()
}

// Register registers this module with the module system
func Register() {
	modulemanager.Register(&Module{
		id:   "system.catalog",
		name: "Catalog",
		core: true,
	})
}

// ID returns the module ID
func (m *Module) ID() string {
	return m.id
}

// Name returns the module name
func (m *Module) Name() string {
	return m.name
}

// Core returns whether this is a core module
func (m *Module) Core() bool {
	return m.core
}

// Migrate runs the catalog schema migration
func (m *Module) Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&database.CatalogEntry{})
}

// Init builds the repository, cache store and service from the current
// configuration, and registers a config watcher so cache changes are picked up
// without a restart.
func (m *Module) Init() error {
	cfg := config.Get()

	m.log = logger.Named("catalog")
	m.db = database.GetDB()

	store, err := m.buildStore(&cfg.Cache)
	if err != nil {
		return err
	}
	m.store = store

	repo := catalog.NewRepository(m.db)
	m.cached = catalog.NewCachedRepository(repo, m.store, policyFrom(&cfg.Cache))
	m.service = catalog.NewService(m.cached)

	config.AddWatcher(m.onConfigReload)

	m.log.Info("catalog module initialized", "cache_backend", cfg.Cache.Backend)
	return nil
}

// onConfigReload applies the reloaded cache settings. The in-process store
// fixes its TTL at construction, so a TTL change on that backend rebuilds the
// store, dropping whatever it held.
func (m *Module) onConfigReload(oldConfig, newConfig *config.Config) {
	m.cached.SetPolicy(policyFrom(&newConfig.Cache))

	if m.redisClient == nil && newConfig.Cache.TTL != oldConfig.Cache.TTL {
		m.store = cache.NewMemoryStore(newConfig.Cache.Capacity, newConfig.Cache.NumShards, newConfig.Cache.TTL)
		m.cached.SetStore(m.store)
		m.log.Info("memory cache rebuilt for new ttl", "ttl", newConfig.Cache.TTL)
	}

	m.log.Info("cache policy updated",
		"ttl", newConfig.Cache.TTL,
		"evict_kind_keys", newConfig.Cache.EvictKindKeysOnWrite)
}

func (m *Module) buildStore(cfg *config.CacheConfig) (cache.Store, error) {
	switch cfg.Backend {
	case "redis":
		m.redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return cache.NewRedisStore(m.redisClient, cfg.KeyPrefix), nil
	default:
		return cache.NewMemoryStore(cfg.Capacity, cfg.NumShards, cfg.TTL), nil
	}
}

func policyFrom(cfg *config.CacheConfig) catalog.Policy {
	return catalog.Policy{
		TTL:           cfg.TTL,
		EvictKindKeys: cfg.EvictKindKeysOnWrite,
	}
}

// CacheHealth reports cache backend reachability for the health surface. The
// in-process backend is always reachable.
func (m *Module) CacheHealth(ctx context.Context) error {
	if pinger, ok := m.store.(cache.Pinger); ok {
		return pinger.Ping(ctx)
	}
	return nil
}

// Shutdown closes the redis client if one was opened
func (m *Module) Shutdown(ctx context.Context) error {
	if m.redisClient != nil {
		return m.redisClient.Close()
	}
	return nil
}

// Service returns the catalog service
func (m *Module) Service() *catalog.Service {
	return m.service
}
