package component

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/wasmkit/calchost/internal/wasm"
	"github.com/wasmkit/calchost/internal/wasmtest"
)

func testComponent(name, world string) *Component {
	return &Component{
		Manifest: &Manifest{
			Name:    name,
			Version: "1.0.0",
			World:   world,
			Wasm:    WasmConfig{File: "add.wasm"},
		},
		Compiled: &wasm.CompiledModule{
			Name:       name,
			Descriptor: wasmtest.CalculatorDescriptor(),
		},
		LoadedAt: time.Now(),
	}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := NewRegistry(zaptest.NewLogger(t))

	comp := testComponent("calculator", "vscode:example/calculator")
	if err := registry.Register(comp); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got, ok := registry.Get("calculator")
	if !ok || got != comp {
		t.Fatal("registered component not retrievable")
	}
	if registry.Count() != 1 {
		t.Errorf("count = %d, want 1", registry.Count())
	}
}

func TestRegistryDuplicate(t *testing.T) {
	registry := NewRegistry(zaptest.NewLogger(t))

	comp := testComponent("calculator", "vscode:example/calculator")
	if err := registry.Register(comp); err != nil {
		t.Fatal(err)
	}

	err := registry.Register(testComponent("calculator", "vscode:example/calculator"))
	var dup *AlreadyRegisteredError
	if !errors.As(err, &dup) {
		t.Fatalf("expected AlreadyRegisteredError, got %v", err)
	}
}

func TestRegistryLookupByWorld(t *testing.T) {
	registry := NewRegistry(zaptest.NewLogger(t))

	first := testComponent("calc-a", "vscode:example/calculator")
	second := testComponent("calc-b", "vscode:example/calculator")
	other := testComponent("other", "vscode:example/other")

	for _, comp := range []*Component{first, second, other} {
		if err := registry.Register(comp); err != nil {
			t.Fatal(err)
		}
	}

	matches := registry.LookupByWorld("vscode:example/calculator")
	if len(matches) != 2 {
		t.Fatalf("lookup returned %d components, want 2", len(matches))
	}

	if got := registry.LookupByWorld("vscode:example/missing"); len(got) != 0 {
		t.Errorf("lookup of unknown world returned %d components", len(got))
	}
}

func TestRegistryUnregister(t *testing.T) {
	registry := NewRegistry(zaptest.NewLogger(t))

	comp := testComponent("calculator", "vscode:example/calculator")
	if err := registry.Register(comp); err != nil {
		t.Fatal(err)
	}

	registry.Unregister("calculator")

	if _, ok := registry.Get("calculator"); ok {
		t.Error("component still retrievable after unregister")
	}
	if got := registry.LookupByWorld("vscode:example/calculator"); len(got) != 0 {
		t.Error("world index still lists unregistered component")
	}

	// Unregistering an unknown name is a no-op.
	registry.Unregister("missing")
}
