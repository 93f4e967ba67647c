package component

import (
	"sync"

	"go.uber.org/zap"
)

// Registry manages loaded components.
type Registry struct {
	sync.RWMutex
	components map[string]*Component   // name -> component
	byWorld    map[string][]*Component // world ID -> components
	logger     *zap.Logger
}

// NewRegistry creates a new component registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		components: make(map[string]*Component),
		byWorld:    make(map[string][]*Component),
		logger:     logger.With(zap.String("component", "component-registry")),
	}
}

// Register adds a component to the registry.
func (r *Registry) Register(comp *Component) error {
	r.Lock()
	defer r.Unlock()

	name := comp.Manifest.Name

	// Check for duplicates
	if _, exists := r.components[name]; exists {
		return &AlreadyRegisteredError{ComponentName: name}
	}

	r.components[name] = comp

	// Index by world
	world := comp.Manifest.World
	r.byWorld[world] = append(r.byWorld[world], comp)

	r.logger.Info("Component registered",
		zap.String("name", name),
		zap.String("world", world),
	)

	return nil
}

// Get retrieves a component by name.
func (r *Registry) Get(name string) (*Component, bool) {
	r.RLock()
	defer r.RUnlock()

	comp, ok := r.components[name]
	return comp, ok
}

// LookupByWorld finds components implementing a world.
func (r *Registry) LookupByWorld(world string) []*Component {
	r.RLock()
	defer r.RUnlock()

	components, ok := r.byWorld[world]
	if !ok || len(components) == 0 {
		return []*Component{}
	}
	// Return copy to avoid race conditions
	result := make([]*Component, len(components))
	copy(result, components)
	return result
}

// List returns all registered components.
func (r *Registry) List() []*Component {
	r.RLock()
	defer r.RUnlock()

	result := make([]*Component, 0, len(r.components))
	for _, comp := range r.components {
		result = append(result, comp)
	}
	return result
}

// Unregister removes a component from the registry.
func (r *Registry) Unregister(name string) {
	r.Lock()
	defer r.Unlock()

	comp, ok := r.components[name]
	if !ok {
		return
	}

	// Remove from world index
	world := comp.Manifest.World
	components := r.byWorld[world]
	for i, c := range components {
		if c.Manifest.Name == name {
			r.byWorld[world] = append(components[:i], components[i+1:]...)
			break
		}
	}

	delete(r.components, name)

	r.logger.Info("Component unregistered", zap.String("name", name))
}

// Count returns the number of registered components.
func (r *Registry) Count() int {
	r.RLock()
	defer r.RUnlock()

	return len(r.components)
}
