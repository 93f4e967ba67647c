// Package wasmtest assembles small core Wasm binaries for tests. Guests are
// normally produced by a toolchain; tests build them byte by byte so the
// host packages can be exercised without fixture files.
package wasmtest

import (
	"github.com/wasmkit/calchost/internal/wit"
)

// CalculatorDescriptor is the descriptor of the calculator world:
// add: func(a: u32, b: u32) -> u32.
func CalculatorDescriptor() *wit.Descriptor {
	u32 := wit.KindU32
	return &wit.Descriptor{
		WorldID:   "vscode:example/calculator",
		WorldName: "calculator",
		Functions: []wit.Function{{
			Name: "add",
			Params: []wit.Param{
				{Name: "a", Kind: wit.KindU32},
				{Name: "b", Kind: wit.KindU32},
			},
			Result: &u32,
		}},
		Producers: []wit.ProducerField{{
			Name: "processed-by",
			Entries: []wit.ProducerEntry{
				{Name: "wit-component", Version: "0.201.0"},
				{Name: "wit-bindgen-rust", Version: "0.21.0"},
			},
		}},
	}
}

// EncodedCalculatorWorld returns the calculator descriptor in its binary
// form. Panics on encoding failure, which would be a bug in the fixture.
func EncodedCalculatorWorld() []byte {
	blob, err := wit.Encode(CalculatorDescriptor())
	if err != nil {
		panic(err)
	}
	return blob
}

// MustEncode encodes a descriptor, panicking on failure. For fixtures
// derived from CalculatorDescriptor with fields swapped out.
func MustEncode(d *wit.Descriptor) []byte {
	blob, err := wit.Encode(d)
	if err != nil {
		panic(err)
	}
	return blob
}

// AddModule builds a core Wasm module whose single export has the
// (i32, i32) -> i32 signature and computes wraparound addition. exportName
// is normally "add"; other names let tests provoke binding mismatches.
// When descriptor is non-nil it is embedded as a component-type custom
// section.
func AddModule(exportName string, descriptor []byte) []byte {
	mod := []byte{
		0x00, 0x61, 0x73, 0x6d, // Magic: \0asm
		0x01, 0x00, 0x00, 0x00, // Version: 1
	}

	// Type section: one func type (i32, i32) -> i32.
	mod = append(mod, section(0x01, []byte{0x01, 0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f})...)

	// Function section: one function using type 0.
	mod = append(mod, section(0x03, []byte{0x01, 0x00})...)

	// Export section: the function under exportName.
	exp := []byte{0x01}
	exp = appendName(exp, exportName)
	exp = append(exp, 0x00, 0x00) // func, index 0
	mod = append(mod, section(0x07, exp)...)

	// Code section: local.get 0, local.get 1, i32.add, end.
	body := []byte{0x00, 0x20, 0x00, 0x20, 0x01, 0x6a, 0x0b}
	code := append([]byte{0x01, byte(len(body))}, body...)
	mod = append(mod, section(0x0a, code)...)

	if descriptor != nil {
		mod = append(mod, CustomSection(wit.CustomSectionPrefix+"calculator:encoded world", descriptor)...)
	}
	return mod
}

// CustomSection frames name and data as a core-module custom section.
func CustomSection(name string, data []byte) []byte {
	payload := appendName(nil, name)
	payload = append(payload, data...)
	return section(0x00, payload)
}

func section(id byte, payload []byte) []byte {
	out := appendULEB([]byte{id}, uint32(len(payload)))
	return append(out, payload...)
}

func appendName(dst []byte, s string) []byte {
	dst = appendULEB(dst, uint32(len(s)))
	return append(dst, s...)
}

func appendULEB(dst []byte, v uint32) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		dst = append(dst, b)
		if v == 0 {
			return dst
		}
	}
}
