// Package modulemanager wires self-registering feature modules into the
// application lifecycle: Register at import time, Migrate and Init at
// startup, RegisterRoutes when the router is built.
package modulemanager

import (
	"context"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/reelbase/reelbase/internal/logger"
)

// Module defines the interface that all modules must implement
type Module interface {
	ID() string                // Unique identifier for the module
	Name() string              // Display name for the module
	Core() bool                // Whether this is a core module
	Migrate(db *gorm.DB) error // Run database migrations
	Init() error               // Initialize the module
}

// RouteRegistrar is an optional interface for modules that register routes
type RouteRegistrar interface {
	RegisterRoutes(router *gin.Engine)
}

// Shutdowner is an optional interface for modules with teardown work
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

// ModuleRegistry manages module registration and initialization
type ModuleRegistry struct {
	modules     []Module
	mu          sync.RWMutex
	initialized bool
}

// Registry is the global module registry
var Registry = &ModuleRegistry{}

// Register adds a module to the global registry
func Register(m Module) {
	Registry.Register(m)
}

// Register adds a module to the registry
func (r *ModuleRegistry) Register(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		logger.Warn("module registered after initialization", "module", m.ID())
	}

	r.modules = append(r.modules, m)
	logger.Info("module registered", "module", m.ID(), "name", m.Name())
}

// LoadAll migrates and initializes all registered modules
func LoadAll(db *gorm.DB) error {
	return Registry.LoadAll(db)
}

// LoadAll migrates and initializes all registered modules
func (r *ModuleRegistry) LoadAll(db *gorm.DB) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.modules {
		if err := m.Migrate(db); err != nil {
			return fmt.Errorf("module %s migration failed: %w", m.ID(), err)
		}
		if err := m.Init(); err != nil {
			return fmt.Errorf("module %s initialization failed: %w", m.ID(), err)
		}
		logger.Info("module initialized", "module", m.ID())
	}

	r.initialized = true
	return nil
}

// RegisterRoutes registers routes for all modules that implement RouteRegistrar
func RegisterRoutes(router *gin.Engine) {
	Registry.RegisterRoutes(router)
}

// RegisterRoutes registers routes for all modules that implement RouteRegistrar
func (r *ModuleRegistry) RegisterRoutes(router *gin.Engine) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.modules {
		if registrar, ok := m.(RouteRegistrar); ok {
			registrar.RegisterRoutes(router)
		}
	}
}

// Shutdown tears down all modules that implement Shutdowner, in reverse
// registration order.
func Shutdown(ctx context.Context) {
	Registry.Shutdown(ctx)
}

// Shutdown tears down all modules that implement Shutdowner
func (r *ModuleRegistry) Shutdown(ctx context.Context) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.modules) - 1; i >= 0; i-- {
		if s, ok := r.modules[i].(Shutdowner); ok {
			if err := s.Shutdown(ctx); err != nil {
				logger.Error("module shutdown failed", "module", r.modules[i].ID(), "error", err)
			}
		}
	}
}

// ListModules returns all registered modules
func ListModules() []Module {
	return Registry.ListModules()
}

// ListModules returns all registered modules
func (r *ModuleRegistry) ListModules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	modules := make([]Module, len(r.modules))
	copy(modules, r.modules)
	return modules
}
