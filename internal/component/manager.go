package component

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/wasmkit/calchost/internal/config"
	"github.com/wasmkit/calchost/internal/wasm"
)

// Manager manages component lifecycle.
type Manager struct {
	cfg         *config.HostConfig
	runtime     *wasm.Runtime
	loader      *Loader
	registry    *Registry
	instanceMgr *wasm.InstanceManager
	logger      *zap.Logger

	mu     sync.RWMutex
	loaded bool
}

// NewManager creates a new component manager.
func NewManager(
	cfg *config.HostConfig,
	runtime *wasm.Runtime,
	hostFuncs *wasm.HostFunctionsImpl,
	logger *zap.Logger,
) *Manager {
	return &Manager{
		cfg:         cfg,
		runtime:     runtime,
		loader:      NewLoader(runtime, logger),
		registry:    NewRegistry(logger),
		instanceMgr: wasm.NewInstanceManager(runtime, hostFuncs, logger),
		logger:      logger.With(zap.String("component", "component-manager")),
	}
}

// LoadAll discovers and loads all components from configured paths.
func (m *Manager) LoadAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loaded {
		return fmt.Errorf("components already loaded")
	}

	m.logger.Info("Loading components",
		zap.Strings("paths", m.cfg.ComponentPaths),
	)

	components, err := m.loader.Discover(ctx, m.cfg.ComponentPaths)
	if err != nil {
		// An empty directory is not fatal; the host just has nothing to
		// serve yet.
		if _, ok := err.(*NoneFoundError); ok {
			m.logger.Warn("No components found in configured paths",
				zap.Strings("paths", m.cfg.ComponentPaths),
			)
			m.loaded = true
			return nil
		}
		return err
	}

	for _, comp := range components {
		if err := m.registry.Register(comp); err != nil {
			m.logger.Error("Failed to register component",
				zap.String("name", comp.Manifest.Name),
				zap.Error(err),
			)
			continue
		}
	}

	m.loaded = true

	m.logger.Info("Components loaded successfully",
		zap.Int("count", len(components)),
	)

	return nil
}

// Get retrieves a component by name.
func (m *Manager) Get(name string) (*Component, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	comp, ok := m.registry.Get(name)
	if !ok {
		return nil, &NotFoundError{ComponentName: name}
	}

	return comp, nil
}

// FindByWorld finds a component implementing the given world.
func (m *Manager) FindByWorld(world string) (*Component, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	components := m.registry.LookupByWorld(world)
	if len(components) == 0 {
		return nil, fmt.Errorf("no component found for world '%s'", world)
	}

	// Return first match (future: support version selection)
	return components[0], nil
}

// Instantiate creates a new instance of a component.
func (m *Manager) Instantiate(ctx context.Context, name string) (*wasm.Instance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	comp, ok := m.registry.Get(name)
	if !ok {
		return nil, &NotFoundError{ComponentName: name}
	}

	instance, err := m.instanceMgr.Instantiate(ctx, &wasm.InstanceConfig{
		ModuleName: comp.Compiled.Name,
	})
	if err != nil {
		return nil, err
	}

	return instance, nil
}

// Shutdown gracefully shuts down all components.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.logger.Info("Shutting down component manager")

	// Runtime close handles instance cleanup
	if err := m.runtime.Close(ctx); err != nil {
		m.logger.Error("Failed to shutdown runtime", zap.Error(err))
		return err
	}

	m.logger.Info("Component manager shutdown complete")
	return nil
}

// Registry returns the component registry (for testing/inspection).
func (m *Manager) Registry() *Registry {
	return m.registry
}

// IsLoaded returns whether components have been loaded.
func (m *Manager) IsLoaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded
}
