package wasm

import (
	"bytes"

	"github.com/tetratelabs/wazero/api"
)

// Memory provides bounds-checked read access to a guest's linear memory.
//
// Guests pass primitives by value; memory access is only needed when a
// host function receives a pointer/length pair, as log_message does. All
// reads are copies, so later guest writes cannot race host use of the
// data.
type Memory struct {
	mem api.Memory
}

// NewMemory creates a memory helper for the given module.
func NewMemory(module api.Module) *Memory {
	return &Memory{mem: module.Memory()}
}

// ReadBytes copies length bytes from guest memory at ptr.
func (m *Memory) ReadBytes(ptr uint32, length uint32) ([]byte, bool) {
	if m.mem == nil {
		return nil, false
	}
	view, ok := m.mem.Read(ptr, length)
	if !ok {
		return nil, false
	}
	out := make([]byte, len(view))
	copy(out, view)
	return out, true
}

// ReadString reads a null-terminated string from guest memory, scanning at
// most maxLen bytes.
func (m *Memory) ReadString(ptr uint32, maxLen uint32) (string, bool) {
	buf, ok := m.ReadBytes(ptr, maxLen)
	if !ok {
		return "", false
	}
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return string(buf), true
}
