package elaborate

import (
	"github.com/yeslogic/ddl/internal/core"
	"github.com/yeslogic/ddl/internal/env"
	"github.com/yeslogic/ddl/internal/semantics"
)

// primTypes gives the type of every prim a bare name can refer to, evaluated
// once at package init time since none of these terms reference an item,
// local, or metavariable beyond their own self-contained binders (spec.md
// section 3.2's Prim constructor; the elaborator looks a bare name like `u8`
// or `Repr` up in this table when it isn't shadowed by a local or item of
// the same name). The width-generic int_* operator prims have no entry, so
// a bare `int_add` is an unbound name; operators reach them through
// resolveBinOp.
var primTypes = buildPrimTypes()

func universe() core.Term { return &core.Universe{} }
func prim(p core.PrimName) core.Term { return &core.Prim{Prim: p} }
func local(i int) core.Term { return &core.LocalVar{Index: env.Index(i)} }

func arrow(input, output core.Term) core.Term {
	return &core.FunType{Plicity: core.Explicit, Name: core.NoName, Input: input, Output: output}
}

func buildPrimTypes() map[core.PrimName]core.Value {
	evalClosed := func(t core.Term) core.Value {
		return semantics.NewEvalContext(
			env.NewSliceEnv[core.Value](nil),
			env.NewSliceEnv[semantics.MetaEntry](nil),
			env.NewSharedEnv[core.Value](),
		).Eval(t)
	}

	m := map[core.PrimName]core.Value{}

	// Base types and format-universe markers are all classified by Type.
	for _, p := range []core.PrimName{
		core.PrimVoidType, core.PrimBoolType,
		core.PrimU8Type, core.PrimU16Type, core.PrimU32Type, core.PrimU64Type,
		core.PrimS8Type, core.PrimS16Type, core.PrimS32Type, core.PrimS64Type,
		core.PrimF32Type, core.PrimF64Type, core.PrimPosType, core.PrimFormatType,
	} {
		m[p] = evalClosed(universe())
	}

	// Array : (len : U64) -> (elem : Type) -> Type
	m[core.PrimArrayType] = evalClosed(arrow(prim(core.PrimU64Type), arrow(universe(), universe())))
	// Ref : (format : Format) -> Type
	m[core.PrimRefType] = evalClosed(arrow(prim(core.PrimFormatType), universe()))
	// Option : (elem : Type) -> Type
	m[core.PrimOptionType] = evalClosed(arrow(universe(), universe()))
	// Repr : (format : Format) -> Type
	m[core.PrimFormatRepr] = evalClosed(arrow(prim(core.PrimFormatType), universe()))

	// Format type-formers: every scalar reader is a bare value of type
	// Format; array/link/deref/succeed/unwrap are functions into Format.
	for _, p := range []core.PrimName{
		core.PrimFormatU8, core.PrimFormatU16Be, core.PrimFormatU16Le,
		core.PrimFormatU32Be, core.PrimFormatU32Le, core.PrimFormatU64Be, core.PrimFormatU64Le,
		core.PrimFormatS8, core.PrimFormatS16Be, core.PrimFormatS16Le,
		core.PrimFormatS32Be, core.PrimFormatS32Le, core.PrimFormatS64Be, core.PrimFormatS64Le,
		core.PrimFormatF32Be, core.PrimFormatF32Le, core.PrimFormatF64Be, core.PrimFormatF64Le,
		core.PrimFormatStreamPos, core.PrimFormatFail,
	} {
		m[p] = evalClosed(prim(core.PrimFormatType))
	}

	// array8/array16/array32/array64 : (len : Un) -> Format -> Format, each
	// constrained to the like-width length type (spec.md section 4.1, 4.5).
	m[core.PrimFormatArray8] = evalClosed(arrow(prim(core.PrimU8Type), arrow(prim(core.PrimFormatType), prim(core.PrimFormatType))))
	m[core.PrimFormatArray16] = evalClosed(arrow(prim(core.PrimU16Type), arrow(prim(core.PrimFormatType), prim(core.PrimFormatType))))
	m[core.PrimFormatArray32] = evalClosed(arrow(prim(core.PrimU32Type), arrow(prim(core.PrimFormatType), prim(core.PrimFormatType))))
	m[core.PrimFormatArray64] = evalClosed(arrow(prim(core.PrimU64Type), arrow(prim(core.PrimFormatType), prim(core.PrimFormatType))))
	m[core.PrimFormatLink] = evalClosed(arrow(prim(core.PrimPosType), arrow(prim(core.PrimFormatType), prim(core.PrimFormatType))))
	m[core.PrimFormatDeref] = evalClosed(arrow(prim(core.PrimFormatType), arrow(prim(core.PrimPosType), prim(core.PrimFormatType))))

	// succeed : (T : Type) -> (v : T) -> Format
	m[core.PrimFormatSucceed] = evalClosed(&core.FunType{
		Plicity: core.Explicit, Name: core.NoName, Input: universe(),
		Output: &core.FunType{Plicity: core.Explicit, Name: core.NoName, Input: local(0), Output: prim(core.PrimFormatType)},
	})
	// unwrap : (T : Type) -> (o : Option(T)) -> Format
	m[core.PrimFormatUnwrap] = evalClosed(&core.FunType{
		Plicity: core.Explicit, Name: core.NoName, Input: universe(),
		Output: &core.FunType{
			Plicity: core.Explicit, Name: core.NoName,
			Input:  &core.FunApp{Plicity: core.Explicit, Head: prim(core.PrimOptionType), Arg: local(0)},
			Output: prim(core.PrimFormatType),
		},
	})

	boolOp1 := evalClosed(arrow(prim(core.PrimBoolType), prim(core.PrimBoolType)))
	boolOp2 := evalClosed(arrow(prim(core.PrimBoolType), arrow(prim(core.PrimBoolType), prim(core.PrimBoolType))))
	m[core.PrimBoolNot] = boolOp1
	m[core.PrimBoolEq] = boolOp2
	m[core.PrimBoolNeq] = boolOp2
	m[core.PrimBoolAnd] = boolOp2
	m[core.PrimBoolOr] = boolOp2

	m[core.PrimReportedError] = evalClosed(universe()) // never read back; suppressed by IsEqual

	return m
}

// intOpType builds the monomorphic type of an int comparison/arithmetic
// prim once its concrete width kind is known (spec.md section 4.3's binary
// operator resolution picks the width from the operands first).
func intOpType(width core.PrimName, resultBool bool) core.Value {
	result := width
	if resultBool {
		result = core.PrimBoolType
	}
	return semantics.NewEvalContext(
		env.NewSliceEnv[core.Value](nil),
		env.NewSliceEnv[semantics.MetaEntry](nil),
		env.NewSharedEnv[core.Value](),
	).Eval(arrow(prim(width), arrow(prim(width), prim(result))))
}
