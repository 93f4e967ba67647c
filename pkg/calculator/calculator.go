// Package calculator provides a typed client for components exporting the
// vscode:example/calculator world.
package calculator

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"

	"github.com/wasmkit/calchost/internal/wasm"
)

const (
	// WorldID identifies the interface a component must export to be
	// usable through this package.
	WorldID = "vscode:example/calculator"

	// WorldName is the short name the world is exported under.
	WorldName = "calculator"

	// FuncAdd is the sole exported operation.
	FuncAdd = "add"
)

// Calculator wraps an instantiated component and exposes its operations
// with native parameter and result types.
type Calculator struct {
	instance *wasm.Instance
}

// New wraps an instance whose module was validated against the calculator
// world at load time.
func New(instance *wasm.Instance) *Calculator {
	return &Calculator{instance: instance}
}

// Add invokes the exported add function. Addition wraps modulo 2^32.
func (c *Calculator) Add(ctx context.Context, a, b uint32) (uint32, error) {
	results, err := c.instance.Call(ctx, FuncAdd, api.EncodeU32(a), api.EncodeU32(b))
	if err != nil {
		return 0, err
	}
	if len(results) != 1 {
		return 0, fmt.Errorf("add returned %d results, want 1", len(results))
	}
	return api.DecodeU32(results[0]), nil
}

// Instance returns the underlying component instance.
func (c *Calculator) Instance() *wasm.Instance {
	return c.instance
}
