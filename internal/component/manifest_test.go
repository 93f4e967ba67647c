package component

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeComponentDir(t *testing.T, manifest string, wasmBytes []byte) string {
	t.Helper()
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "manifest.yaml"), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
	if wasmBytes != nil {
		if err := os.WriteFile(filepath.Join(dir, "add.wasm"), wasmBytes, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

const calculatorManifest = `name: calculator
version: 1.0.0
world: vscode:example/calculator
wasm:
  file: add.wasm
author: example
license: MIT
`

func TestParseManifest(t *testing.T) {
	dir := writeComponentDir(t, calculatorManifest, []byte{0x00})

	m, err := ParseManifest(dir)
	if err != nil {
		t.Fatalf("Failed to parse manifest: %v", err)
	}

	if m.Name != "calculator" {
		t.Errorf("name = %q, want calculator", m.Name)
	}
	if m.Version != "1.0.0" {
		t.Errorf("version = %q, want 1.0.0", m.Version)
	}
	if m.World != "vscode:example/calculator" {
		t.Errorf("world = %q", m.World)
	}
	if m.WasmPath() != filepath.Join(dir, "add.wasm") {
		t.Errorf("wasm path = %q", m.WasmPath())
	}
}

func TestParseManifestMissing(t *testing.T) {
	_, err := ParseManifest(t.TempDir())

	var notFound *ManifestNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ManifestNotFoundError, got %v", err)
	}
}

func TestParseManifestInvalid(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		field    string
	}{
		{
			name:     "missing name",
			manifest: "version: 1.0.0\nworld: a:b/c\nwasm:\n  file: add.wasm\n",
			field:    "name",
		},
		{
			name:     "missing version",
			manifest: "name: x\nworld: a:b/c\nwasm:\n  file: add.wasm\n",
			field:    "version",
		},
		{
			name:     "unqualified world",
			manifest: "name: x\nversion: 1.0.0\nworld: calculator\nwasm:\n  file: add.wasm\n",
			field:    "world",
		},
		{
			name:     "missing wasm file",
			manifest: "name: x\nversion: 1.0.0\nworld: a:b/c\n",
			field:    "wasm.file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeComponentDir(t, tt.manifest, []byte{0x00})

			_, err := ParseManifest(dir)
			var verr *ManifestValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ManifestValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestParseManifestWasmMissing(t *testing.T) {
	dir := writeComponentDir(t, calculatorManifest, nil)

	_, err := ParseManifest(dir)
	var notFound *WasmNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected WasmNotFoundError, got %v", err)
	}
}
