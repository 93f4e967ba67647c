// Package wit models the interface descriptor that component tooling embeds
// in a Wasm binary, and implements the binary encoding used for it.
//
// The descriptor is a static, read-only blob. It describes the shape of an
// exported world (interface name, function names, signatures, producer
// metadata) for host-side discovery. It is decoded once at load time and
// never consulted while calls are in flight.
package wit

import (
	"fmt"
	"strings"
)

// CustomSectionPrefix is the name prefix of the core-module custom section
// that carries an encoded world. Bindings generators append their own name
// and version after the prefix, e.g.
// "component-type:wit-bindgen:0.21.0:calculator:encoded world".
const CustomSectionPrefix = "component-type:"

// EncodingVersion is the wit-component encoding scheme version this package
// reads and writes.
const EncodingVersion = 0x04

// Descriptor describes one exported world.
type Descriptor struct {
	// WorldID is the fully qualified world name, e.g.
	// "vscode:example/calculator".
	WorldID string

	// WorldName is the short world name the blob exports its type under,
	// e.g. "calculator".
	WorldName string

	// Functions are the world's exported functions, in declaration order.
	Functions []Function

	// Producers records which tools produced the blob, keyed by field name
	// (conventionally "processed-by"). Nil when the blob carries no
	// producers section.
	Producers []ProducerField
}

// Function is one exported function signature.
type Function struct {
	Name   string
	Params []Param

	// Result is nil for functions that return nothing.
	Result *ValueKind
}

// Param is a named function parameter.
type Param struct {
	Name string
	Kind ValueKind
}

// ProducerField is one field of the producers section, e.g.
// processed-by -> [{wit-component 0.201.0} {wit-bindgen-rust 0.21.0}].
type ProducerField struct {
	Name    string
	Entries []ProducerEntry
}

// ProducerEntry names one tool and its version.
type ProducerEntry struct {
	Name    string
	Version string
}

// Function returns the exported function with the given name.
func (d *Descriptor) Function(name string) (Function, bool) {
	for _, f := range d.Functions {
		if f.Name == name {
			return f, true
		}
	}
	return Function{}, false
}

// Validate checks structural requirements that the binary encoding cannot
// express: a qualified world ID, a short name, and at least one function.
func (d *Descriptor) Validate() error {
	if !IsWorldID(d.WorldID) {
		return &InvalidDescriptorError{Field: "world_id", Reason: fmt.Sprintf("%q is not a namespace:package/world identifier", d.WorldID)}
	}
	if d.WorldName == "" {
		return &InvalidDescriptorError{Field: "world_name", Reason: "world name is empty"}
	}
	if len(d.Functions) == 0 {
		return &InvalidDescriptorError{Field: "functions", Reason: "world exports no functions"}
	}
	seen := make(map[string]struct{}, len(d.Functions))
	for _, f := range d.Functions {
		if f.Name == "" {
			return &InvalidDescriptorError{Field: "functions", Reason: "function with empty name"}
		}
		if _, dup := seen[f.Name]; dup {
			return &InvalidDescriptorError{Field: "functions", Reason: fmt.Sprintf("duplicate export %q", f.Name)}
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

// IsWorldID reports whether s has the namespace:package/world shape used for
// qualified world names.
func IsWorldID(s string) bool {
	colon := strings.IndexByte(s, ':')
	if colon <= 0 {
		return false
	}
	rest := s[colon+1:]
	slash := strings.IndexByte(rest, '/')
	return slash > 0 && slash < len(rest)-1
}

// Signature renders the function in wit-like notation, for logs and the
// inspect output.
func (f Function) Signature() string {
	var b strings.Builder
	b.WriteString(f.Name)
	b.WriteString(": func(")
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		b.WriteString(": ")
		b.WriteString(p.Kind.String())
	}
	b.WriteByte(')')
	if f.Result != nil {
		b.WriteString(" -> ")
		b.WriteString(f.Result.String())
	}
	return b.String()
}
