// Package host wires the runtime, the component manager and metrics into
// the invocation surface the CLI uses.
package host

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wasmkit/calchost/internal/component"
	"github.com/wasmkit/calchost/internal/config"
	"github.com/wasmkit/calchost/internal/metrics"
	"github.com/wasmkit/calchost/internal/wasm"
	"github.com/wasmkit/calchost/internal/wit"
)

// Service is the component host.
type Service struct {
	cfg     *config.HostConfig
	logger  *zap.Logger
	runtime *wasm.Runtime
	manager *component.Manager
	metrics *metrics.Metrics

	mu        sync.Mutex
	instances map[string]*wasm.Instance // component name -> live instance
}

// NewService creates the host from configuration.
func NewService(ctx context.Context, cfg *config.HostConfig, logger *zap.Logger) (*Service, error) {
	wasmConfig := &wasm.RuntimeConfig{
		MemoryPages:  cfg.Wasm.MemoryPages,
		DebugEnabled: cfg.Wasm.Debug,
		CacheDir:     cfg.Wasm.CacheDir,
		MaxInstances: cfg.Wasm.MaxInstances,
	}

	runtime, err := wasm.NewRuntime(ctx, logger, wasmConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Wasm runtime: %w", err)
	}

	manager := component.NewManager(cfg, runtime, wasm.NewHostFunctions(logger), logger)

	logger.Info("Component host initialized",
		zap.Uint32("wasm_memory_pages", cfg.Wasm.MemoryPages),
		zap.String("wasm_cache_dir", cfg.Wasm.CacheDir),
	)

	return &Service{
		cfg:       cfg,
		logger:    logger,
		runtime:   runtime,
		manager:   manager,
		metrics:   metrics.New(),
		instances: make(map[string]*wasm.Instance),
	}, nil
}

// LoadComponents discovers and loads components from the configured paths.
func (s *Service) LoadComponents(ctx context.Context) error {
	return s.manager.LoadAll(ctx)
}

// Components returns all registered components.
func (s *Service) Components() []*component.Component {
	return s.manager.Registry().List()
}

// Describe returns the interface descriptor of a component.
func (s *Service) Describe(name string) (*wit.Descriptor, error) {
	comp, err := s.manager.Get(name)
	if err != nil {
		return nil, err
	}
	return comp.Descriptor(), nil
}

// Call invokes an exported function of a named component. Each component
// is instantiated once, lazily, and reused across calls; the exported
// operations are stateless, so reuse is safe.
func (s *Service) Call(ctx context.Context, componentName, function string, params ...uint64) ([]uint64, error) {
	instance, err := s.Instance(ctx, componentName)
	if err != nil {
		return nil, err
	}

	timeout := time.Duration(s.cfg.Wasm.ExecutionTimeout) * time.Second
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	results, err := instance.Call(ctx, function, params...)
	s.metrics.ObserveCall(componentName, function, time.Since(start), err)

	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, &wasm.TimeoutError{Duration: timeout}
	}
	return results, err
}

// Metrics exposes the invocation metrics, for the scrape endpoint.
func (s *Service) Metrics() *metrics.Metrics {
	return s.metrics
}

// MetricsEnabled reports whether the scrape endpoint should be served.
func (s *Service) MetricsEnabled() bool {
	return s.cfg.MetricsEnabled
}

// Instance returns the live instance for a component, creating it on
// first use. Callers that want typed wrappers build them around this.
func (s *Service) Instance(ctx context.Context, componentName string) (*wasm.Instance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if inst, ok := s.instances[componentName]; ok {
		return inst, nil
	}

	inst, err := s.manager.Instantiate(ctx, componentName)
	if err != nil {
		return nil, err
	}
	s.instances[componentName] = inst
	return inst, nil
}

// Close gracefully shuts down the host.
func (s *Service) Close(ctx context.Context) error {
	s.logger.Info("Shutting down component host")

	// Runtime close tears down live instances.
	if err := s.manager.Shutdown(ctx); err != nil {
		s.logger.Error("Failed to shutdown component manager", zap.Error(err))
		return err
	}

	s.logger.Info("Component host shutdown complete")
	return nil
}
