package wasm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wasmkit/calchost/internal/wit"
)

// InstanceManager creates and manages module instances.
type InstanceManager struct {
	runtime   *Runtime
	logger    *zap.Logger
	hostFuncs *HostFunctionsImpl

	// Host module registration happens once per runtime.
	hostOnce sync.Once
	hostErr  error
}

// NewInstanceManager creates a new instance manager.
func NewInstanceManager(runtime *Runtime, hostFuncs *HostFunctionsImpl, logger *zap.Logger) *InstanceManager {
	return &InstanceManager{
		runtime:   runtime,
		hostFuncs: hostFuncs,
		logger:    logger.With(zap.String("component", "wasm-instance")),
	}
}

// InstanceConfig holds configuration for creating instances.
type InstanceConfig struct {
	// Module name to instantiate.
	ModuleName string

	// Instance ID (if empty, one is generated).
	InstanceID string
}

// Instance represents an instantiated Wasm module.
//
// The exported operations are pure functions of their arguments; all state
// an invocation touches lives on the call stack. The mutex below exists
// only because wazero's api.Function.Call is not goroutine-safe, not
// because calls share anything.
type Instance struct {
	// wazero module instance.
	module api.Module

	// Runtime that tracks this instance, for removal on Close.
	runtime *Runtime

	// Descriptor of the instantiated module.
	descriptor *wit.Descriptor

	// Instance metadata.
	ID        string
	Name      string
	CreatedAt int64

	// Exported functions, cached from the descriptor at instantiation.
	exports map[string]api.Function

	mu sync.Mutex
}

// Instantiate creates a new instance from a compiled module.
// Host functions are exported to the Wasm module.
func (m *InstanceManager) Instantiate(ctx context.Context, config *InstanceConfig) (*Instance, error) {
	// Get compiled module from cache.
	compiled, ok := m.runtime.GetCompiledModule(config.ModuleName)
	if !ok {
		return nil, &ModuleNotFoundError{ModuleName: config.ModuleName}
	}

	// Generate instance ID if not provided.
	instanceID := config.InstanceID
	if instanceID == "" {
		instanceID = generateInstanceID()
	}

	m.logger.Info("Instantiating Wasm module",
		zap.String("module", config.ModuleName),
		zap.String("instance_id", instanceID),
	)

	// Register the host import module once.
	m.hostOnce.Do(func() {
		m.hostErr = m.registerHostModule(ctx)
	})
	if m.hostErr != nil {
		return nil, fmt.Errorf("failed to register host functions: %w", m.hostErr)
	}

	// Instantiate the guest module with host functions available.
	// This creates a sandboxed execution environment.
	moduleConfig := wazero.NewModuleConfig().
		WithName(instanceID).
		WithStartFunctions() // Do not run _start; exports are called directly

	module, err := m.runtime.runtime.InstantiateModule(ctx, compiled.Module, moduleConfig)
	if err != nil {
		return nil, &InstantiationError{
			ModuleName: config.ModuleName,
			InstanceID: instanceID,
			Err:        err,
		}
	}

	// Cache the functions the descriptor names. Binding validation at load
	// time guarantees they exist with the declared signatures.
	exports := make(map[string]api.Function, len(compiled.Descriptor.Functions))
	for _, fn := range compiled.Descriptor.Functions {
		exports[fn.Name] = module.ExportedFunction(fn.Name)
	}

	instance := &Instance{
		module:     module,
		runtime:    m.runtime,
		descriptor: compiled.Descriptor,
		ID:         instanceID,
		Name:       config.ModuleName,
		CreatedAt:  time.Now().Unix(),
		exports:    exports,
	}

	// Track active instance.
	m.runtime.StoreInstance(instanceID, module)

	m.logger.Info("Module instantiated successfully",
		zap.String("instance_id", instanceID),
		zap.Int("exported_functions", len(exports)),
	)

	return instance, nil
}

// Call invokes an exported function with stack-word arguments and returns
// its stack-word results.
func (i *Instance) Call(ctx context.Context, name string, params ...uint64) ([]uint64, error) {
	fn, ok := i.exports[name]
	if !ok || fn == nil {
		return nil, &FunctionNotFoundError{ModuleName: i.Name, FunctionName: name}
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	return fn.Call(ctx, params...)
}

// Exports returns the names of the callable exported functions.
func (i *Instance) Exports() []string {
	names := make([]string, 0, len(i.exports))
	for name := range i.exports {
		names = append(names, name)
	}
	return names
}

// Descriptor returns the interface descriptor of the instantiated module.
func (i *Instance) Descriptor() *wit.Descriptor {
	return i.descriptor
}

// Close closes the instance and releases resources.
func (i *Instance) Close(ctx context.Context) error {
	i.runtime.DeleteInstance(i.ID)
	return i.module.Close(ctx)
}

// Module exposes the underlying wazero module, used by memory helpers.
func (i *Instance) Module() api.Module {
	return i.module
}

// registerHostModule instantiates the "host" import module so guests can
// import its functions.
func (m *InstanceManager) registerHostModule(ctx context.Context) error {
	builder := m.runtime.runtime.NewHostModuleBuilder("host")

	// Export log_message function.
	// Wasm modules can call this to log messages.
	builder.NewFunctionBuilder().
		WithFunc(m.hostFuncs.logMessage).
		WithParameterNames("level", "ptr", "length").
		Export("log_message")

	if _, err := builder.Instantiate(ctx); err != nil {
		return err
	}
	return nil
}

// generateInstanceID generates a unique instance ID.
func generateInstanceID() string {
	return fmt.Sprintf("inst-%d", time.Now().UnixNano())
}
