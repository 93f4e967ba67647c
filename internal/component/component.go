package component

import (
	"time"

	"github.com/wasmkit/calchost/internal/wasm"
	"github.com/wasmkit/calchost/internal/wit"
)

// Component is a loaded component: its manifest, its compiled Wasm module,
// and the interface descriptor extracted from the binary.
type Component struct {
	// Manifest is the parsed component metadata
	Manifest *Manifest

	// Compiled is the compiled Wasm module
	Compiled *wasm.CompiledModule

	// LoadedAt is the timestamp when the component was loaded
	LoadedAt time.Time
}

// Name returns the component name.
func (c *Component) Name() string {
	return c.Manifest.Name
}

// World returns the fully qualified world the component implements.
func (c *Component) World() string {
	return c.Manifest.World
}

// Version returns the component version.
func (c *Component) Version() string {
	return c.Manifest.Version
}

// Descriptor returns the interface descriptor embedded in the binary.
func (c *Component) Descriptor() *wit.Descriptor {
	return c.Compiled.Descriptor
}

// Exports returns the signatures of the component's exported functions.
func (c *Component) Exports() []string {
	fns := c.Compiled.Descriptor.Functions
	out := make([]string, len(fns))
	for i, fn := range fns {
		out[i] = fn.Signature()
	}
	return out
}
