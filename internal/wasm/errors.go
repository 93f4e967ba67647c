package wasm

import (
	"fmt"
	"time"
)

// CompilationError occurs when Wasm module compilation fails
type CompilationError struct {
	ModuleName string
	Err        error
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("failed to compile Wasm module '%s': %v", e.ModuleName, e.Err)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

// DescriptorMissingError occurs when a module carries no component-type
// custom section, so its interface cannot be discovered.
type DescriptorMissingError struct {
	ModuleName string
}

func (e *DescriptorMissingError) Error() string {
	return fmt.Sprintf("module '%s' has no interface descriptor section", e.ModuleName)
}

// DescriptorError occurs when the interface descriptor section is present
// but cannot be decoded.
type DescriptorError struct {
	ModuleName string
	Section    string
	Err        error
}

func (e *DescriptorError) Error() string {
	return fmt.Sprintf("invalid interface descriptor in module '%s' (section %s): %v",
		e.ModuleName, e.Section, e.Err)
}

func (e *DescriptorError) Unwrap() error {
	return e.Err
}

// BindingMismatchError occurs when the interface descriptor disagrees with
// the module's actual exports. Detected at load time, never at call time.
type BindingMismatchError struct {
	ModuleName string
	Function   string
	Reason     string
}

func (e *BindingMismatchError) Error() string {
	return fmt.Sprintf("binding mismatch in module '%s', function '%s': %s",
		e.ModuleName, e.Function, e.Reason)
}

// InstantiationError occurs when module instantiation fails
type InstantiationError struct {
	ModuleName string
	InstanceID string
	Err        error
}

func (e *InstantiationError) Error() string {
	return fmt.Sprintf("failed to instantiate module '%s' (instance: %s): %v",
		e.ModuleName, e.InstanceID, e.Err)
}

func (e *InstantiationError) Unwrap() error {
	return e.Err
}

// ModuleNotFoundError occurs when a module is not in cache
type ModuleNotFoundError struct {
	ModuleName string
}

func (e *ModuleNotFoundError) Error() string {
	return fmt.Sprintf("module '%s' not found in cache", e.ModuleName)
}

// FunctionNotFoundError occurs when an exported function is missing
type FunctionNotFoundError struct {
	ModuleName   string
	FunctionName string
}

func (e *FunctionNotFoundError) Error() string {
	return fmt.Sprintf("function '%s' not found in module '%s'",
		e.FunctionName, e.ModuleName)
}

// MemoryAccessError occurs when memory operations fail
type MemoryAccessError struct {
	Operation string
	Address   uint32
	Length    uint32
	Err       error
}

func (e *MemoryAccessError) Error() string {
	return fmt.Sprintf("memory access failed (op=%s, addr=%d, len=%d): %v",
		e.Operation, e.Address, e.Length, e.Err)
}

func (e *MemoryAccessError) Unwrap() error {
	return e.Err
}

// TimeoutError occurs when Wasm execution times out
type TimeoutError struct {
	Duration time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("Wasm execution timed out after %v", e.Duration)
}
