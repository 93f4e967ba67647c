package component

import (
	"fmt"
)

// ManifestNotFoundError occurs when manifest.yaml is not found in a directory.
type ManifestNotFoundError struct {
	Path string
	Err  error
}

func (e *ManifestNotFoundError) Error() string {
	return fmt.Sprintf("manifest not found at '%s': %v", e.Path, e.Err)
}

func (e *ManifestNotFoundError) Unwrap() error {
	return e.Err
}

// ManifestParseError occurs when manifest.yaml cannot be parsed as valid YAML.
type ManifestParseError struct {
	Path string
	Err  error
}

func (e *ManifestParseError) Error() string {
	return fmt.Sprintf("failed to parse manifest at '%s': %v", e.Path, e.Err)
}

func (e *ManifestParseError) Unwrap() error {
	return e.Err
}

// ManifestValidationError occurs when manifest.yaml fails validation.
type ManifestValidationError struct {
	Path    string
	Field   string
	Message string
}

func (e *ManifestValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("manifest validation failed at '%s': %s (field: %s)",
			e.Path, e.Message, e.Field)
	}
	return fmt.Sprintf("manifest validation failed at '%s': %s", e.Path, e.Message)
}

// WasmNotFoundError occurs when the Wasm file referenced in manifest doesn't exist.
type WasmNotFoundError struct {
	ManifestPath string
	WasmFile     string
}

func (e *WasmNotFoundError) Error() string {
	return fmt.Sprintf("Wasm file '%s' not found (referenced in manifest '%s')",
		e.WasmFile, e.ManifestPath)
}

// WorldMismatchError occurs when the manifest declares one world and the
// binary's interface descriptor another.
type WorldMismatchError struct {
	ComponentName string
	ManifestWorld string
	BinaryWorld   string
}

func (e *WorldMismatchError) Error() string {
	return fmt.Sprintf("component '%s' declares world '%s' but its binary encodes world '%s'",
		e.ComponentName, e.ManifestWorld, e.BinaryWorld)
}

// LoadError occurs when component loading fails.
type LoadError struct {
	ComponentName string
	Err           error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load component '%s': %v", e.ComponentName, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NotFoundError occurs when a component is not found in the registry.
type NotFoundError struct {
	ComponentName string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("component '%s' not found", e.ComponentName)
}

// AlreadyRegisteredError occurs when attempting to register a duplicate component.
type AlreadyRegisteredError struct {
	ComponentName string
}

func (e *AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("component '%s' is already registered", e.ComponentName)
}

// NoneFoundError occurs when no components are found in the configured paths.
type NoneFoundError struct {
	Paths []string
}

func (e *NoneFoundError) Error() string {
	return fmt.Sprintf("no components found in paths: %v", e.Paths)
}
