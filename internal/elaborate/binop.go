package elaborate

import (
	"github.com/yeslogic/ddl/internal/core"
	"github.com/yeslogic/ddl/internal/surface"
)

// numericPrimOf reports whether v is (stuck on) one of the fixed-width
// numeric base-type prims, and if so which one.
func numericPrimOf(v core.Value) (core.PrimName, bool) {
	s, ok := v.(*core.Stuck)
	if !ok || len(s.Spine) != 0 {
		return core.PrimInvalid, false
	}
	ph, ok := s.Head.(core.PrimHead)
	if !ok {
		return core.PrimInvalid, false
	}
	switch ph.Prim {
	case core.PrimU8Type, core.PrimU16Type, core.PrimU32Type, core.PrimU64Type,
		core.PrimS8Type, core.PrimS16Type, core.PrimS32Type, core.PrimS64Type,
		core.PrimF32Type, core.PrimF64Type:
		return ph.Prim, true
	}
	return core.PrimInvalid, false
}

func isBoolPrim(v core.Value) bool {
	s, ok := v.(*core.Stuck)
	if !ok || len(s.Spine) != 0 {
		return false
	}
	ph, ok := s.Head.(core.PrimHead)
	return ok && ph.Prim == core.PrimBoolType
}

// resolveBinOp picks the single concrete prim a surface binary operator
// resolves to once both operand types are known (spec.md section 4.3's
// "Binary operators": "the elaborator synthesizes both operand types, then
// picks the uniquely-typed primitive from a fixed table"). resultType is
// nil when the result is always Bool. Every fixed-width numeric kind
// shares one generic PrimIntXxx prim rather than spec.md's illustrative
// per-width table (U8Add, U16Add, ...): internal/semantics already reduces
// these generically over the runtime Const.Kind, so a per-width prim
// family would be a thinner wrapper with no semantic difference.
func resolveBinOp(op surface.Operator, lhsType, rhsType core.Value) (core.PrimName, core.Value, bool) {
	if lnum, ok := numericPrimOf(lhsType); ok {
		rnum, ok := numericPrimOf(rhsType)
		if !ok || rnum != lnum {
			return core.PrimInvalid, nil, false
		}
		switch op {
		case surface.OpAdd:
			return core.PrimIntAdd, lhsType, true
		case surface.OpSub:
			return core.PrimIntSub, lhsType, true
		case surface.OpMul:
			return core.PrimIntMul, lhsType, true
		case surface.OpEq:
			return core.PrimIntEq, nil, true
		case surface.OpNeq:
			return core.PrimIntNeq, nil, true
		case surface.OpLt:
			return core.PrimIntLt, nil, true
		case surface.OpLe:
			return core.PrimIntLe, nil, true
		case surface.OpGt:
			return core.PrimIntGt, nil, true
		case surface.OpGe:
			return core.PrimIntGe, nil, true
		}
		return core.PrimInvalid, nil, false
	}
	if isBoolPrim(lhsType) && isBoolPrim(rhsType) {
		switch op {
		case surface.OpEq:
			return core.PrimBoolEq, nil, true
		case surface.OpNeq:
			return core.PrimBoolNeq, nil, true
		case surface.OpAnd:
			return core.PrimBoolAnd, nil, true
		case surface.OpOr:
			return core.PrimBoolOr, nil, true
		}
	}
	return core.PrimInvalid, nil, false
}
