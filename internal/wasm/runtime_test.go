package wasm

import (
	"context"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestNewRuntime(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	runtime, err := NewRuntime(ctx, logger, nil)
	if err != nil {
		t.Fatalf("Failed to create runtime: %v", err)
	}

	if runtime == nil {
		t.Fatal("Runtime is nil")
	}

	if err := runtime.Close(context.Background()); err != nil {
		t.Errorf("Failed to close runtime: %v", err)
	}
}

func TestRuntimeCloseIdempotent(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	runtime, err := NewRuntime(ctx, logger, nil)
	if err != nil {
		t.Fatal(err)
	}

	// Close multiple times should not error.
	if err := runtime.Close(ctx); err != nil {
		t.Errorf("First close failed: %v", err)
	}
	if err := runtime.Close(ctx); err != nil {
		t.Errorf("Second close failed: %v", err)
	}

	if !runtime.IsClosed() {
		t.Error("IsClosed() = false after Close")
	}
}

func TestDefaultRuntimeConfig(t *testing.T) {
	config := DefaultRuntimeConfig()

	if config.MemoryPages != 256 {
		t.Errorf("Default memory pages = %d, want 256", config.MemoryPages)
	}

	if config.DebugEnabled {
		t.Error("Debug should be disabled by default")
	}

	if config.MaxInstances != 100 {
		t.Errorf("Default max instances = %d, want 100", config.MaxInstances)
	}
}

func TestRuntimeCompilationCacheDir(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	config := DefaultRuntimeConfig()
	config.CacheDir = t.TempDir()

	runtime, err := NewRuntime(ctx, logger, config)
	if err != nil {
		t.Fatalf("Failed to create runtime with cache dir: %v", err)
	}
	runtime.Close(ctx)
}

func TestRuntimeModuleCache(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	runtime, err := NewRuntime(ctx, logger, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer runtime.Close(ctx)

	module := &CompiledModule{
		Name:      "test-module",
		Source:    "test",
		SizeBytes: 1024,
	}

	runtime.StoreCompiledModule(module)

	got, ok := runtime.GetCompiledModule("test-module")
	if !ok {
		t.Fatal("Stored module not found")
	}
	if got != module {
		t.Error("Cache returned a different module")
	}

	if _, ok := runtime.GetCompiledModule("missing"); ok {
		t.Error("Lookup of missing module succeeded")
	}
}
