// Package abi defines the word-level conversions used when primitive
// values cross the component boundary.
//
// The calling convention passes every primitive in a fixed-width general
// purpose word, signed on the wire. Values are reinterpreted between their
// native type and the word, never range-checked: a native value wider than
// the wire width truncates. Each primitive type converts through the same
// two functions, so new exported operations reuse the conversions instead
// of duplicating reinterpretation logic.
package abi

// Word is the 32-bit unit the boundary passes primitive values in.
type Word = int32

// WordInteger constrains integer types that fit a single word.
type WordInteger interface {
	~int8 | ~int16 | ~int32 | ~uint8 | ~uint16 | ~uint32
}

// AsWord lowers v into a word by reinterpretation.
func AsWord[T WordInteger](v T) Word {
	return Word(v)
}

// FromWord lifts a word into T by reinterpretation.
func FromWord[T WordInteger](w Word) T {
	return T(w)
}

// U32 lifts a word as an unsigned 32-bit value.
func U32(w Word) uint32 { return uint32(w) }

// U16 lifts the low 16 bits of a word as unsigned.
func U16(w Word) uint16 { return uint16(w) }

// U8 lifts the low 8 bits of a word as unsigned.
func U8(w Word) uint8 { return uint8(w) }

// S32 lifts a word as a signed 32-bit value.
func S32(w Word) int32 { return w }

// AsWordBool lowers a bool into a word (false=0, true=1).
func AsWordBool(b bool) Word {
	if b {
		return 1
	}
	return 0
}

// Bool lifts a word as a bool. Any non-zero bit pattern is true.
func Bool(w Word) bool { return w != 0 }

// AsWordChar lowers a character into a word as its scalar value.
func AsWordChar(r rune) Word { return Word(r) }

// Char lifts a word as a character scalar value.
func Char(w Word) rune { return rune(w) }
