package core

// PrimName enumerates the built-in types, format descriptions, and
// functions available to every module without import (spec.md section 3.2's
// Prim constructor, section 4.5's format primitives, section 6.4's
// operators available inside refinement predicates).
type PrimName uint16

const (
	PrimInvalid PrimName = iota

	// Base types.
	PrimVoidType
	PrimBoolType
	PrimU8Type
	PrimU16Type
	PrimU32Type
	PrimU64Type
	PrimS8Type
	PrimS16Type
	PrimS32Type
	PrimS64Type
	PrimF32Type
	PrimF64Type
	PrimPosType
	PrimArrayType // Array8/16/32/64 are collapsed into one indexed by length's Const kind at call sites
	PrimRefType   // Ref(F): a deferred pointer to a value of format F, the Repr of FormatLink
	PrimOptionType
	PrimFormatType

	// Format type formers (each has Repr equal to the like-named base type,
	// spec.md section 4.5's Repr table).
	PrimFormatU8
	PrimFormatU16Be
	PrimFormatU16Le
	PrimFormatU32Be
	PrimFormatU32Le
	PrimFormatU64Be
	PrimFormatU64Le
	PrimFormatS8
	PrimFormatS16Be
	PrimFormatS16Le
	PrimFormatS32Be
	PrimFormatS32Le
	PrimFormatS64Be
	PrimFormatS64Le
	PrimFormatF32Be
	PrimFormatF32Le
	PrimFormatF64Be
	PrimFormatF64Le
	PrimFormatArray8  // array8(n : U8, F): Repr = Array(n, Repr(F))
	PrimFormatArray16 // array16(n : U16, F): Repr = Array(n, Repr(F))
	PrimFormatArray32 // array32(n : U32, F): Repr = Array(n, Repr(F))
	PrimFormatArray64 // array64(n : U64, F): Repr = Array(n, Repr(F))

	// Format combinators that aren't surface-level record/overlap/cond but
	// still appear as stuck prim applications (spec.md section 4.5).
	PrimFormatLink      // a relative or absolute offset to another format, read lazily
	PrimFormatDeref     // dereferences a FormatLink, given its target offset and format
	PrimFormatStreamPos // the current read cursor, as a Pos
	PrimFormatSucceed   // succeed(T, v): always succeeds with representation v : T, consumes no input
	PrimFormatFail      // fail: always fails to read
	PrimFormatUnwrap    // unwrap(T, o): reads an Option(T) format and fails on None

	// The one coercion from format descriptions to the types they describe
	// (spec.md section 4.1).
	PrimFormatRepr

	// Boolean connectives, usable inside refinement predicates.
	PrimBoolEq
	PrimBoolNeq
	PrimBoolNot
	PrimBoolAnd
	PrimBoolOr

	// Integer comparison and arithmetic, usable inside refinement
	// predicates (spec.md section 6.4). These are polymorphic over the
	// fixed-width integer kinds; the elaborator resolves the concrete
	// PrimName from the operand's known type (spec.md section 4.3 "binary
	// operator resolution").
	PrimIntEq
	PrimIntNeq
	PrimIntLt
	PrimIntLe
	PrimIntGt
	PrimIntGe
	PrimIntAdd
	PrimIntSub
	PrimIntMul
	PrimIntNeg

	// A reported error standing in for a term that failed to elaborate; it
	// unifies with anything, suppressing cascades (spec.md section 5.3).
	PrimReportedError
)

// arity gives the number of explicit arguments each function-shaped prim
// consumes before it can reduce; 0 for prims that are types or type
// formers applied directly via FunApp at the surface, not reduced here.
var arity = map[PrimName]int{
	PrimFormatArray8:    2, // (len, elem-format)
	PrimFormatArray16:   2, // (len, elem-format)
	PrimFormatArray32:   2, // (len, elem-format)
	PrimFormatArray64:   2, // (len, elem-format)
	PrimFormatLink:      2, // (offset, format)
	PrimFormatDeref:     2, // (format, pos)
	PrimFormatSucceed:   2, // (type, value)
	PrimFormatUnwrap:    2, // (type, option-format-repr)
	PrimFormatRepr:      1, // (format)
	PrimBoolEq:          2,
	PrimBoolNeq:         2,
	PrimBoolNot:         1,
	PrimBoolAnd:         2,
	PrimBoolOr:          2,
	PrimIntEq:           2,
	PrimIntNeq:          2,
	PrimIntLt:           2,
	PrimIntLe:           2,
	PrimIntGt:           2,
	PrimIntGe:           2,
	PrimIntAdd:          2,
	PrimIntSub:          2,
	PrimIntMul:          2,
	PrimIntNeg:          1,
}

// Arity returns how many arguments p needs before ElimContext.FunApp can
// attempt to reduce it; prims absent from the table take zero arguments.
func (p PrimName) Arity() int {
	return arity[p]
}

// IsIntFormat reports whether p is one of the fixed-width integer/float
// format type-formers (spec.md section 4.5's Repr table, each mapping to
// the like-named base numeric type).
func (p PrimName) IsIntFormat() bool {
	switch p {
	case PrimFormatU8, PrimFormatU16Be, PrimFormatU16Le, PrimFormatU32Be, PrimFormatU32Le,
		PrimFormatU64Be, PrimFormatU64Le, PrimFormatS8, PrimFormatS16Be, PrimFormatS16Le,
		PrimFormatS32Be, PrimFormatS32Le, PrimFormatS64Be, PrimFormatS64Le,
		PrimFormatF32Be, PrimFormatF32Le, PrimFormatF64Be, PrimFormatF64Le:
		return true
	}
	return false
}

// ReprType returns the base-type prim that a fixed-width format prim reads
// into, per spec.md section 4.5's Repr table. ok is false for formats whose
// representation isn't a single base type (e.g. FormatArray, FormatRecord).
func (p PrimName) ReprType() (PrimName, bool) {
	switch p {
	case PrimFormatU8:
		return PrimU8Type, true
	case PrimFormatU16Be, PrimFormatU16Le:
		return PrimU16Type, true
	case PrimFormatU32Be, PrimFormatU32Le:
		return PrimU32Type, true
	case PrimFormatU64Be, PrimFormatU64Le:
		return PrimU64Type, true
	case PrimFormatS8:
		return PrimS8Type, true
	case PrimFormatS16Be, PrimFormatS16Le:
		return PrimS16Type, true
	case PrimFormatS32Be, PrimFormatS32Le:
		return PrimS32Type, true
	case PrimFormatS64Be, PrimFormatS64Le:
		return PrimS64Type, true
	case PrimFormatF32Be, PrimFormatF32Le:
		return PrimF32Type, true
	case PrimFormatF64Be, PrimFormatF64Le:
		return PrimF64Type, true
	}
	return PrimInvalid, false
}

// ArrayLenType returns the base-type prim that a width-indexed array format's
// length parameter must have, per spec.md section 4.1/4.5 (`array16 : U16 ->
// Format -> Format`, and similarly for 8/32/64). ok is false for anything
// that isn't one of the four array format prims.
func (p PrimName) ArrayLenType() (PrimName, bool) {
	switch p {
	case PrimFormatArray8:
		return PrimU8Type, true
	case PrimFormatArray16:
		return PrimU16Type, true
	case PrimFormatArray32:
		return PrimU32Type, true
	case PrimFormatArray64:
		return PrimU64Type, true
	}
	return PrimInvalid, false
}

// Name is the identifier this prim is bound to at the top of every module's
// scope (spec.md section 3.2, "prims are referenced by a reserved global
// name").
func (p PrimName) Name() string {
	if n, ok := primNames[p]; ok {
		return n
	}
	return "<invalid-prim>"
}

// LookupPrim resolves a reserved name to a PrimName, for the elaborator's
// initial global scope (spec.md section 4.1). ok is false for any name that
// isn't a reserved prim.
func LookupPrim(name string) (PrimName, bool) {
	p, ok := primByName[name]
	return p, ok
}

var primNames = map[PrimName]string{
	PrimVoidType:        "Void",
	PrimBoolType:        "Bool",
	PrimU8Type:          "U8",
	PrimU16Type:         "U16",
	PrimU32Type:         "U32",
	PrimU64Type:         "U64",
	PrimS8Type:          "S8",
	PrimS16Type:         "S16",
	PrimS32Type:         "S32",
	PrimS64Type:         "S64",
	PrimF32Type:         "F32",
	PrimF64Type:         "F64",
	PrimPosType:         "Pos",
	PrimArrayType:       "Array",
	PrimRefType:         "Ref",
	PrimOptionType:      "Option",
	PrimFormatType:      "Format",
	PrimFormatU8:        "u8",
	PrimFormatU16Be:     "u16be",
	PrimFormatU16Le:     "u16le",
	PrimFormatU32Be:     "u32be",
	PrimFormatU32Le:     "u32le",
	PrimFormatU64Be:     "u64be",
	PrimFormatU64Le:     "u64le",
	PrimFormatS8:        "s8",
	PrimFormatS16Be:     "s16be",
	PrimFormatS16Le:     "s16le",
	PrimFormatS32Be:     "s32be",
	PrimFormatS32Le:     "s32le",
	PrimFormatS64Be:     "s64be",
	PrimFormatS64Le:     "s64le",
	PrimFormatF32Be:     "f32be",
	PrimFormatF32Le:     "f32le",
	PrimFormatF64Be:     "f64be",
	PrimFormatF64Le:     "f64le",
	PrimFormatArray8:    "array8",
	PrimFormatArray16:   "array16",
	PrimFormatArray32:   "array32",
	PrimFormatArray64:   "array64",
	PrimFormatLink:      "link",
	PrimFormatDeref:     "deref",
	PrimFormatStreamPos: "stream_pos",
	PrimFormatSucceed:   "succeed",
	PrimFormatFail:      "fail",
	PrimFormatUnwrap:    "unwrap",
	PrimFormatRepr:      "Repr",
	PrimBoolEq:          "bool_eq",
	PrimBoolNeq:         "bool_neq",
	PrimBoolNot:         "bool_not",
	PrimBoolAnd:         "bool_and",
	PrimBoolOr:          "bool_or",
	PrimIntEq:           "int_eq",
	PrimIntNeq:          "int_neq",
	PrimIntLt:           "int_lt",
	PrimIntLe:           "int_le",
	PrimIntGt:           "int_gt",
	PrimIntGe:           "int_ge",
	PrimIntAdd:          "int_add",
	PrimIntSub:          "int_sub",
	PrimIntMul:          "int_mul",
	PrimIntNeg:          "int_neg",
	PrimReportedError:   "reported_error",
}

var primByName = func() map[string]PrimName {
	m := make(map[string]PrimName, len(primNames))
	for p, n := range primNames {
		m[n] = p
	}
	return m
}()
