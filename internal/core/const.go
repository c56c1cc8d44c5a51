package core

import "math"

// ConstKind tags the shape of a Const (spec.md section 3.2's constant
// literals, section 6.2's numeric literal styles).
type ConstKind uint8

const (
	ConstBool ConstKind = iota
	ConstU8
	ConstU16
	ConstU32
	ConstU64
	ConstS8
	ConstS16
	ConstS32
	ConstS64
	ConstF32
	ConstF64
	ConstPos // a byte offset into a binary buffer (spec.md section 4.5)
)

// UIntStyle records how an unsigned-integer literal was written in the
// surface syntax, so that it can be printed back the same way (spec.md
// section 6.2, "numeric literal styles are preserved through
// elaboration"). It has no effect on equality or evaluation: two constants
// that differ only in style are still the same value.
type UIntStyle uint8

const (
	StyleDecimal UIntStyle = iota
	StyleBinary
	StyleOctal
	StyleHex
	StyleAscii // a packed ASCII character sequence, e.g. b"OK"
)

// Const is a constant literal value. Exactly one of the numeric fields is
// meaningful, selected by Kind; Bits stores unsigned and float payloads
// bit-for-bit so that a single field covers every width.
type Const struct {
	Kind  ConstKind
	Bits  uint64 // unsigned ints, signed ints (two's complement), float bit patterns, bool (0/1), byte offsets
	Style UIntStyle
}

// Bool builds a boolean constant.
func Bool(v bool) Const {
	var b uint64
	if v {
		b = 1
	}
	return Const{Kind: ConstBool, Bits: b}
}

// BoolValue reports the boolean payload; only meaningful when Kind ==
// ConstBool.
func (c Const) BoolValue() bool {
	return c.Bits != 0
}

// U builds an unsigned integer constant of the given kind and display style.
func U(kind ConstKind, v uint64, style UIntStyle) Const {
	return Const{Kind: kind, Bits: v, Style: style}
}

// S builds a signed integer constant of the given kind, stored two's
// complement in Bits.
func S(kind ConstKind, v int64) Const {
	return Const{Kind: kind, Bits: uint64(v)}
}

// SignedValue reinterprets Bits as a two's complement signed integer.
func (c Const) SignedValue() int64 {
	return int64(c.Bits)
}

// F builds a floating-point constant, storing its IEEE-754 bit pattern in
// Bits (widened to 64 bits for ConstF32, with the low 32 bits holding the
// float32 pattern).
func F(kind ConstKind, v float64) Const {
	if kind == ConstF32 {
		return Const{Kind: kind, Bits: uint64(math.Float32bits(float32(v)))}
	}
	return Const{Kind: kind, Bits: math.Float64bits(v)}
}

// FloatValue reinterprets Bits as the floating-point payload; only
// meaningful when Kind is ConstF32 or ConstF64.
func (c Const) FloatValue() float64 {
	if c.Kind == ConstF32 {
		return float64(math.Float32frombits(uint32(c.Bits)))
	}
	return math.Float64frombits(c.Bits)
}

// Pos builds a buffer-position constant.
func Pos(offset uint64) Const {
	return Const{Kind: ConstPos, Bits: offset}
}

// Equal compares two constants for the bitwise/structural equality used by
// ConstMatch dispatch and by conversion-checking (spec.md section 3.2,
// invariant 4: branches must be pairwise-distinct under this equality).
func (c Const) Equal(o Const) bool {
	return c.Kind == o.Kind && c.Bits == o.Bits
}
