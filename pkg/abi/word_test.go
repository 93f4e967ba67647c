package abi

import "testing"

func TestU32RoundTrip(t *testing.T) {
	values := []uint32{0, 1, 100, 300, 0x7FFFFFFF, 0x80000000, 0xFFFFFFFF}

	for _, v := range values {
		if got := U32(AsWord(v)); got != v {
			t.Errorf("U32(AsWord(%d)) = %d", v, got)
		}
	}
}

func TestReinterpretation(t *testing.T) {
	// The all-ones pattern is -1 on the wire and MaxUint32 natively.
	if w := AsWord(uint32(0xFFFFFFFF)); w != -1 {
		t.Errorf("AsWord(0xFFFFFFFF) = %d, want -1", w)
	}
	if got := U32(-1); got != 0xFFFFFFFF {
		t.Errorf("U32(-1) = %d, want 0xFFFFFFFF", got)
	}

	if got := FromWord[uint16](AsWord(uint16(0xBEEF))); got != 0xBEEF {
		t.Errorf("u16 round trip = %#x", got)
	}
	if got := FromWord[int8](AsWord(int8(-5))); got != -5 {
		t.Errorf("s8 round trip = %d", got)
	}
}

func TestBoolAndChar(t *testing.T) {
	if AsWordBool(true) != 1 || AsWordBool(false) != 0 {
		t.Error("bool lowering is not 0/1")
	}
	if !Bool(1) || !Bool(-7) || Bool(0) {
		t.Error("bool lifting mismatch")
	}

	for _, r := range []rune{'a', '✓', 0x10FFFF} {
		if got := Char(AsWordChar(r)); got != r {
			t.Errorf("Char(AsWordChar(%q)) = %q", r, got)
		}
	}
}

func TestNarrowLifts(t *testing.T) {
	w := AsWord(uint32(0x12345678))
	if got := U16(w); got != 0x5678 {
		t.Errorf("U16 = %#x, want 0x5678", got)
	}
	if got := U8(w); got != 0x78 {
		t.Errorf("U8 = %#x, want 0x78", got)
	}
	if got := S32(w); got != 0x12345678 {
		t.Errorf("S32 = %#x", got)
	}
}
