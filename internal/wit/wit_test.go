package wit

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
)

// calculatorBlob is the encoded world for vscode:example/calculator as
// emitted by wit-component 0.201.0 / wit-bindgen-rust 0.21.0. It is the
// canonical fixture for both directions of the codec.
var calculatorBlob = []byte(
	"\x00asm\x0d\x00\x01\x00" +
		"\x00\x19\x16wit-component-encoding\x04\x00" +
		"\x07\x37\x01\x41\x02\x01\x41\x02\x01\x40\x02\x01\x61\x79\x01\x62\x79\x00\x79" +
		"\x04\x00\x03add\x01\x00" +
		"\x04\x01\x19vscode:example/calculator\x04\x00" +
		"\x0b\x10\x01\x00\x0acalculator\x03\x00\x00" +
		"\x00\x47\x09producers\x01\x0cprocessed-by\x02\x0dwit-component\x070.201.0\x10wit-bindgen-rust\x060.21.0")

func calculatorDescriptor() *Descriptor {
	u32 := KindU32
	return &Descriptor{
		WorldID:   "vscode:example/calculator",
		WorldName: "calculator",
		Functions: []Function{{
			Name: "add",
			Params: []Param{
				{Name: "a", Kind: KindU32},
				{Name: "b", Kind: KindU32},
			},
			Result: &u32,
		}},
		Producers: []ProducerField{{
			Name: "processed-by",
			Entries: []ProducerEntry{
				{Name: "wit-component", Version: "0.201.0"},
				{Name: "wit-bindgen-rust", Version: "0.21.0"},
			},
		}},
	}
}

func TestGoldenBlobLength(t *testing.T) {
	// The blob is declared as [u8; 183] by the generator that produced it.
	if len(calculatorBlob) != 183 {
		t.Fatalf("fixture is %d bytes, want 183", len(calculatorBlob))
	}
}

func TestDecodeCalculatorBlob(t *testing.T) {
	d, err := Decode(calculatorBlob)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if d.WorldID != "vscode:example/calculator" {
		t.Errorf("WorldID = %q", d.WorldID)
	}
	if d.WorldName != "calculator" {
		t.Errorf("WorldName = %q", d.WorldName)
	}

	if len(d.Functions) != 1 {
		t.Fatalf("got %d functions, want 1", len(d.Functions))
	}
	fn := d.Functions[0]
	if fn.Name != "add" {
		t.Errorf("function name = %q", fn.Name)
	}
	if len(fn.Params) != 2 ||
		fn.Params[0] != (Param{Name: "a", Kind: KindU32}) ||
		fn.Params[1] != (Param{Name: "b", Kind: KindU32}) {
		t.Errorf("params = %+v", fn.Params)
	}
	if fn.Result == nil || *fn.Result != KindU32 {
		t.Errorf("result = %v", fn.Result)
	}
	if got := fn.Signature(); got != "add: func(a: u32, b: u32) -> u32" {
		t.Errorf("Signature() = %q", got)
	}

	if len(d.Producers) != 1 || d.Producers[0].Name != "processed-by" {
		t.Fatalf("producers = %+v", d.Producers)
	}
	entries := d.Producers[0].Entries
	if len(entries) != 2 ||
		entries[0] != (ProducerEntry{Name: "wit-component", Version: "0.201.0"}) ||
		entries[1] != (ProducerEntry{Name: "wit-bindgen-rust", Version: "0.21.0"}) {
		t.Errorf("producer entries = %+v", entries)
	}
}

func TestEncodeCalculatorBlob(t *testing.T) {
	got, err := Encode(calculatorDescriptor())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.Equal(got, calculatorBlob) {
		t.Errorf("encoded blob differs from fixture\n got: %x\nwant: %x", got, calculatorBlob)
	}
}

func TestEncodeRequiresWorldName(t *testing.T) {
	d := calculatorDescriptor()
	d.WorldName = ""

	if _, err := Encode(d); err == nil {
		t.Fatal("Encode accepted a descriptor without a world name")
	}

	// Every successful encoding therefore carries the export section.
	blob, err := Encode(calculatorDescriptor())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(blob, append([]byte{sectionExport, 0x10, 0x01, nameKindPlain, 0x0a}, "calculator"...)) {
		t.Error("encoded blob is missing the type export section")
	}
}

func TestRoundTrip(t *testing.T) {
	u64 := KindU64
	multi := &Descriptor{
		WorldID:   "acme:math/arith",
		WorldName: "arith",
		Functions: []Function{
			{
				Name: "add",
				Params: []Param{
					{Name: "a", Kind: KindU32},
					{Name: "b", Kind: KindU32},
				},
				Result: func() *ValueKind { k := KindU32; return &k }(),
			},
			{
				Name: "mul64",
				Params: []Param{
					{Name: "x", Kind: KindU64},
					{Name: "y", Kind: KindU64},
				},
				Result: &u64,
			},
			{
				Name:   "reset",
				Params: nil,
				Result: nil,
			},
		},
	}

	for _, d := range []*Descriptor{calculatorDescriptor(), multi} {
		blob, err := Encode(d)
		if err != nil {
			t.Fatalf("Encode(%s) failed: %v", d.WorldID, err)
		}
		back, err := Decode(blob)
		if err != nil {
			t.Fatalf("Decode(%s) failed: %v", d.WorldID, err)
		}
		if !reflect.DeepEqual(d, back) {
			t.Errorf("round trip mismatch for %s\n got: %+v\nwant: %+v", d.WorldID, back, d)
		}
	}
}

func TestDecodeTruncated(t *testing.T) {
	// Prefixes must either fail cleanly or, when they end on a section
	// boundary past the mandatory sections, decode to the same world.
	// Nothing may panic.
	for i := 0; i < len(calculatorBlob); i++ {
		d, err := Decode(calculatorBlob[:i])
		if err == nil && d.WorldID != "vscode:example/calculator" {
			t.Errorf("%d-byte prefix decoded to unexpected world %q", i, d.WorldID)
		}
	}

	// Prefixes that cut into the type section must always fail.
	for i := 36; i < 92; i++ {
		if _, err := Decode(calculatorBlob[:i]); err == nil {
			t.Errorf("Decode of %d-byte prefix unexpectedly succeeded", i)
		}
	}
}

func TestDecodeRejectsBadInput(t *testing.T) {
	badMagic := append([]byte{}, calculatorBlob...)
	badMagic[1] = 'x'

	badLayer := append([]byte{}, calculatorBlob...)
	badLayer[6] = 0x02

	badEncoding := append([]byte{}, calculatorBlob...)
	badEncoding[33] = 0x09 // encoding version byte

	tests := []struct {
		name string
		blob []byte
		want error
	}{
		{"bad magic", badMagic, &MalformedError{}},
		{"bad layer", badLayer, &UnsupportedVersionError{}},
		{"bad encoding version", badEncoding, &UnsupportedVersionError{}},
		{"empty", nil, &MalformedError{}},
	}

	for _, tt := range tests {
		_, err := Decode(tt.blob)
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		switch tt.want.(type) {
		case *MalformedError:
			var e *MalformedError
			if !errors.As(err, &e) {
				t.Errorf("%s: got %T (%v), want MalformedError", tt.name, err, err)
			}
		case *UnsupportedVersionError:
			var e *UnsupportedVersionError
			if !errors.As(err, &e) {
				t.Errorf("%s: got %T (%v), want UnsupportedVersionError", tt.name, err, err)
			}
		}
	}
}

func TestValidate(t *testing.T) {
	d := calculatorDescriptor()
	if err := d.Validate(); err != nil {
		t.Errorf("valid descriptor rejected: %v", err)
	}

	bad := calculatorDescriptor()
	bad.WorldID = "calculator"
	if err := bad.Validate(); err == nil {
		t.Error("unqualified world ID accepted")
	}

	dup := calculatorDescriptor()
	dup.Functions = append(dup.Functions, dup.Functions[0])
	if err := dup.Validate(); err == nil {
		t.Error("duplicate export accepted")
	}

	empty := calculatorDescriptor()
	empty.Functions = nil
	if err := empty.Validate(); err == nil {
		t.Error("function-less world accepted")
	}
}

func TestIsWorldID(t *testing.T) {
	valid := []string{"vscode:example/calculator", "a:b/c"}
	invalid := []string{"", "calculator", "a:b", ":b/c", "a:b/", "a:/c"}

	for _, s := range valid {
		if !IsWorldID(s) {
			t.Errorf("IsWorldID(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsWorldID(s) {
			t.Errorf("IsWorldID(%q) = true, want false", s)
		}
	}
}

func TestValueKindCore(t *testing.T) {
	tests := []struct {
		kind ValueKind
		core CoreType
		ok   bool
	}{
		{KindBool, CoreI32, true},
		{KindU8, CoreI32, true},
		{KindU16, CoreI32, true},
		{KindU32, CoreI32, true},
		{KindS32, CoreI32, true},
		{KindChar, CoreI32, true},
		{KindU64, CoreI64, true},
		{KindS64, CoreI64, true},
		{KindF32, CoreF32, true},
		{KindF64, CoreF64, true},
		{KindString, 0, false},
	}

	for _, tt := range tests {
		core, ok := tt.kind.Core()
		if ok != tt.ok || (ok && core != tt.core) {
			t.Errorf("%s.Core() = %v, %v; want %v, %v", tt.kind, core, ok, tt.core, tt.ok)
		}
	}
}
