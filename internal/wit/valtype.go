package wit

import "fmt"

// ValueKind is a component-model primitive value type. The byte values are
// the ones used in the binary descriptor encoding.
type ValueKind byte

const (
	KindBool   ValueKind = 0x7f
	KindS8     ValueKind = 0x7e
	KindU8     ValueKind = 0x7d
	KindS16    ValueKind = 0x7c
	KindU16    ValueKind = 0x7b
	KindS32    ValueKind = 0x7a
	KindU32    ValueKind = 0x79
	KindS64    ValueKind = 0x78
	KindU64    ValueKind = 0x77
	KindF32    ValueKind = 0x76
	KindF64    ValueKind = 0x75
	KindChar   ValueKind = 0x74
	KindString ValueKind = 0x73
)

// CoreType is a core WebAssembly value type, the representation primitives
// take when they cross the call boundary.
type CoreType byte

const (
	CoreI32 CoreType = 0x7f
	CoreI64 CoreType = 0x7e
	CoreF32 CoreType = 0x7d
	CoreF64 CoreType = 0x7c
)

var kindNames = map[ValueKind]string{
	KindBool:   "bool",
	KindS8:     "s8",
	KindU8:     "u8",
	KindS16:    "s16",
	KindU16:    "u16",
	KindS32:    "s32",
	KindU32:    "u32",
	KindS64:    "s64",
	KindU64:    "u64",
	KindF32:    "f32",
	KindF64:    "f64",
	KindChar:   "char",
	KindString: "string",
}

func (k ValueKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("valtype(%#x)", byte(k))
}

func (k ValueKind) valid() bool {
	_, ok := kindNames[k]
	return ok
}

// Core returns the core type the kind lowers to when passed by value. The
// second result is false for kinds that do not fit a single core value
// (currently only string, which lowers to a pointer/length pair).
func (k ValueKind) Core() (CoreType, bool) {
	switch k {
	case KindBool, KindS8, KindU8, KindS16, KindU16, KindS32, KindU32, KindChar:
		return CoreI32, true
	case KindS64, KindU64:
		return CoreI64, true
	case KindF32:
		return CoreF32, true
	case KindF64:
		return CoreF64, true
	default:
		return 0, false
	}
}

func (t CoreType) String() string {
	switch t {
	case CoreI32:
		return "i32"
	case CoreI64:
		return "i64"
	case CoreF32:
		return "f32"
	case CoreF64:
		return "f64"
	}
	return fmt.Sprintf("coretype(%#x)", byte(t))
}
