package semantics

import "github.com/yeslogic/ddl/internal/core"

// FormatRepr computes the type described by a format value: the shape of
// the data that reading that format against a buffer would produce (spec.md
// section 4.1, 4.5's Repr table). It is the one coercion from Format to
// Type in the whole language, and it distributes structurally over every
// format-shaped value:
//
//	Repr(FormatRecord)   = RecordType of each field's Repr, later fields'
//	                       Repr allowed to depend on earlier fields' Repr
//	Repr(FormatOverlap)  = same as FormatRecord: Repr only describes the
//	                       decoded shape, not the read strategy
//	Repr(FormatCond)     = Repr of the underlying format (a refinement adds
//	                       a read-time check, not a new representation type)
//	Repr(prim format)    = the like-named base type (u8 -> U8, f64be -> F64, ...)
//	Repr(array format)   = Array(len, Repr(elem))
//	Repr(succeed(T, _))  = T
//	Repr(fail)           = Void
//	Repr(unwrap(T, _))   = T
//	Repr(link(_, F))     = Ref(F)
//	Repr(deref(F, _))    = Repr(F)
//	Repr(stream_pos)     = Pos
//
// A stuck format value (blocked on a metavariable or free variable) yields
// a stuck Repr application, preserved for later forcing once the format
// becomes concrete.
func (ctx ElimContext) FormatRepr(format core.Value) core.Value {
	switch f := ctx.Force(format).(type) {
	case *core.FormatRecordVal:
		return &core.RecordTypeVal{Telescope: reprTelescope(f.Telescope)}

	case *core.FormatOverlapVal:
		return &core.RecordTypeVal{Telescope: reprTelescope(f.Telescope)}

	case *core.FormatCondVal:
		return ctx.FormatRepr(f.Format)

	case *core.Stuck:
		if ph, ok := f.Head.(core.PrimHead); ok {
			if base, ok := ph.Prim.ReprType(); ok && len(f.Spine) == 0 {
				return core.StuckPrim(base)
			}
			if isArrayFormat(ph.Prim) && len(f.Spine) == 2 {
				length := spineArg(f.Spine, 0)
				elem := spineArg(f.Spine, 1)
				elemRepr := ctx.FormatRepr(elem)
				return &core.Stuck{
					Head: core.PrimHead{Prim: core.PrimArrayType},
					Spine: []core.Elim{
						core.FunElim{Plicity: core.Explicit, Arg: length},
						core.FunElim{Plicity: core.Explicit, Arg: elemRepr},
					},
				}
			}
			if ph.Prim == core.PrimFormatSucceed && len(f.Spine) == 2 {
				return spineArg(f.Spine, 0)
			}
			if ph.Prim == core.PrimFormatFail && len(f.Spine) == 0 {
				return core.StuckPrim(core.PrimVoidType)
			}
			if ph.Prim == core.PrimFormatUnwrap && len(f.Spine) == 2 {
				return spineArg(f.Spine, 0)
			}
			if ph.Prim == core.PrimFormatLink && len(f.Spine) == 2 {
				target := spineArg(f.Spine, 1)
				return &core.Stuck{
					Head:  core.PrimHead{Prim: core.PrimRefType},
					Spine: []core.Elim{core.FunElim{Plicity: core.Explicit, Arg: target}},
				}
			}
			if ph.Prim == core.PrimFormatDeref && len(f.Spine) == 2 {
				return ctx.FormatRepr(spineArg(f.Spine, 0))
			}
			if ph.Prim == core.PrimFormatStreamPos && len(f.Spine) == 0 {
				return core.StuckPrim(core.PrimPosType)
			}
		}
		return f.WithElim(FormatReprElim{})

	case *core.ReportedErrorVal:
		return f

	default:
		badTerm("FormatRepr on non-format value %T", f)
		return nil
	}
}

// FormatReprElim marks a stuck spine as "awaiting FormatRepr", so that
// quoting can reconstruct `Repr(...)` around the un-reduced format term
// rather than silently dropping the coercion (spec.md section 4.1).
type FormatReprElim = core.FormatReprElim

func reprTelescope(t core.Telescope) core.Telescope {
	t.ApplyRepr = true
	return t
}

// isArrayFormat reports whether p is one of the width-indexed array format
// prims (array8/array16/array32/array64), every one of which reprs down to
// the same generic Array(len, elem) type former (spec.md section 4.1's note
// that Array8/16/32/64 collapse into one type indexed by the length's Const
// kind at call sites).
func isArrayFormat(p core.PrimName) bool {
	_, ok := p.ArrayLenType()
	return ok
}

func spineArg(spine []core.Elim, i int) core.Value {
	fe, ok := spine[i].(core.FunElim)
	if !ok {
		badTerm("expected FunElim at spine position %d", i)
	}
	return fe.Arg
}
