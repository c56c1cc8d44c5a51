package semantics

import (
	"github.com/yeslogic/ddl/internal/core"
	"github.com/yeslogic/ddl/internal/env"
)

// ConversionContext decides definitional equality between two values
// (spec.md section 4.2). It shares a QuoteContext's notion of "how many
// locals are in scope", since eta-expansion needs to introduce fresh
// variables at the right level.
type ConversionContext struct {
	Context
	Locals env.EnvLen
}

// NewConversionContext builds a ConversionContext over the given number of
// local bindings.
func NewConversionContext(items env.SliceEnv[core.Value], metas env.SliceEnv[MetaEntry], locals env.EnvLen) ConversionContext {
	return ConversionContext{Context: Context{Items: items, Metas: metas}, Locals: locals}
}

func (ctx ConversionContext) elim() ElimContext {
	return ElimContext{Context: ctx.Context}
}

func (ctx ConversionContext) bind() ConversionContext {
	return ConversionContext{Context: ctx.Context, Locals: ctx.Locals + 1}
}

func (ctx ConversionContext) freshVar() core.Value {
	return core.StuckVar(env.Level(ctx.Locals))
}

// IsEqual reports whether x and y are definitionally equal: equal as terms
// up to evaluation, unfolding of solved metavariables, and the eta laws for
// functions and records (spec.md section 4.2). A ReportedErrorVal is equal
// to anything, so that one failed elaboration doesn't cascade into a wall
// of further unification errors (spec.md section 5.3).
func (ctx ConversionContext) IsEqual(x, y core.Value) bool {
	x = ctx.elim().Force(x)
	y = ctx.elim().Force(y)

	if _, ok := x.(*core.ReportedErrorVal); ok {
		return true
	}
	if _, ok := y.(*core.ReportedErrorVal); ok {
		return true
	}

	switch x := x.(type) {
	case *core.UniverseVal:
		_, ok := y.(*core.UniverseVal)
		return ok

	case *core.FunTypeVal:
		yf, ok := y.(*core.FunTypeVal)
		if !ok || x.Plicity != yf.Plicity {
			return false
		}
		if !ctx.IsEqual(x.Input, yf.Input) {
			return false
		}
		fresh := ctx.freshVar()
		next := ctx.bind()
		return next.IsEqual(next.elim().evalClosure(x.Output, fresh), next.elim().evalClosure(yf.Output, fresh))

	case *core.FunLitVal:
		fresh := ctx.freshVar()
		next := ctx.bind()
		lhs := next.elim().evalClosure(x.Body, fresh)
		rhs := next.elim().FunApp(y, x.Plicity, fresh)
		return next.IsEqual(lhs, rhs)

	case *core.RecordTypeVal:
		yr, ok := y.(*core.RecordTypeVal)
		if !ok {
			return false
		}
		return ctx.isEqualTelescope(x.Telescope, yr.Telescope)

	case *core.RecordLitVal:
		return ctx.isEqualRecordLit(x, y)

	case *core.ArrayLitVal:
		ya, ok := y.(*core.ArrayLitVal)
		if !ok || len(x.Exprs) != len(ya.Exprs) {
			return false
		}
		for i := range x.Exprs {
			if !ctx.IsEqual(x.Exprs[i], ya.Exprs[i]) {
				return false
			}
		}
		return true

	case *core.FormatRecordVal:
		yf, ok := y.(*core.FormatRecordVal)
		if !ok {
			return false
		}
		return ctx.isEqualTelescope(x.Telescope, yf.Telescope)

	case *core.FormatOverlapVal:
		yf, ok := y.(*core.FormatOverlapVal)
		if !ok {
			return false
		}
		return ctx.isEqualTelescope(x.Telescope, yf.Telescope)

	case *core.FormatCondVal:
		yf, ok := y.(*core.FormatCondVal)
		if !ok {
			return false
		}
		if !ctx.IsEqual(x.Format, yf.Format) {
			return false
		}
		fresh := ctx.freshVar()
		next := ctx.bind()
		return next.IsEqual(next.elim().evalClosure(x.Pred, fresh), next.elim().evalClosure(yf.Pred, fresh))

	case *core.ConstLitVal:
		yc, ok := y.(*core.ConstLitVal)
		return ok && x.Const.Equal(yc.Const)

	case *core.Stuck:
		if _, ok := y.(*core.FunLitVal); ok {
			return ctx.isEqualEtaFun(y.(*core.FunLitVal), x)
		}
		if _, ok := y.(*core.RecordLitVal); ok {
			return ctx.isEqualRecordLit(y.(*core.RecordLitVal), x)
		}
		ys, ok := y.(*core.Stuck)
		if !ok {
			return false
		}
		return ctx.isEqualStuck(x, ys)

	default:
		badTerm("unhandled value %T in conversion check", x)
		return false
	}
}

// isEqualEtaFun handles the case where one side of a function comparison is
// a literal and the other is still stuck (e.g. a free variable of function
// type): apply both to a fresh variable and recurse (spec.md section 4.2's
// eta law for functions).
func (ctx ConversionContext) isEqualEtaFun(lit *core.FunLitVal, stuck core.Value) bool {
	fresh := ctx.freshVar()
	next := ctx.bind()
	lhs := next.elim().evalClosure(lit.Body, fresh)
	rhs := next.elim().FunApp(stuck, lit.Plicity, fresh)
	return next.IsEqual(lhs, rhs)
}

// isEqualRecordLit handles record-literal comparisons, including the eta
// law when one side is stuck (a free variable known only to have record
// type): project the stuck side by the literal's labels and compare
// field-by-field (spec.md section 4.2).
func (ctx ConversionContext) isEqualRecordLit(lit *core.RecordLitVal, other core.Value) bool {
	switch other := other.(type) {
	case *core.RecordLitVal:
		if len(lit.Labels) != len(other.Labels) {
			return false
		}
		for i, l := range lit.Labels {
			if other.Labels[i] != l {
				return false
			}
			if !ctx.IsEqual(lit.Exprs[i], other.Exprs[i]) {
				return false
			}
		}
		return true

	case *core.Stuck:
		for i, l := range lit.Labels {
			projected := ctx.elim().RecordProj(other, l)
			if !ctx.IsEqual(lit.Exprs[i], projected) {
				return false
			}
		}
		return true

	default:
		return false
	}
}

func (ctx ConversionContext) isEqualTelescope(a, b core.Telescope) bool {
	if len(a.Terms) != len(b.Terms) {
		return false
	}
	cur := ctx
	restA, restB := a, b
	for {
		labelA, valA, contA, okA := cur.elim().SplitTelescope(restA)
		_, valB, contB, okB := cur.elim().SplitTelescope(restB)
		if okA != okB {
			return false
		}
		if !okA {
			return true
		}
		if !cur.IsEqual(valA, valB) {
			return false
		}
		fresh := cur.freshVar()
		restA = contA(fresh)
		restB = contB(fresh)
		_ = labelA
		cur = cur.bind()
	}
}

func (ctx ConversionContext) isEqualStuck(x, y *core.Stuck) bool {
	if !sameHead(x.Head, y.Head) {
		return false
	}
	if len(x.Spine) != len(y.Spine) {
		return false
	}
	for i := range x.Spine {
		if !ctx.isEqualElim(x.Spine[i], y.Spine[i]) {
			return false
		}
	}
	return true
}

func sameHead(a, b core.Head) bool {
	switch a := a.(type) {
	case core.ItemVarHead:
		b, ok := b.(core.ItemVarHead)
		return ok && a.Level == b.Level
	case core.LocalVarHead:
		b, ok := b.(core.LocalVarHead)
		return ok && a.Level == b.Level
	case core.MetaVarHead:
		b, ok := b.(core.MetaVarHead)
		return ok && a.Level == b.Level
	case core.PrimHead:
		b, ok := b.(core.PrimHead)
		return ok && a.Prim == b.Prim
	default:
		return false
	}
}

func (ctx ConversionContext) isEqualElim(a, b core.Elim) bool {
	switch a := a.(type) {
	case core.FunElim:
		b, ok := b.(core.FunElim)
		return ok && a.Plicity == b.Plicity && ctx.IsEqual(a.Arg, b.Arg)
	case core.ProjElim:
		b, ok := b.(core.ProjElim)
		return ok && a.Label == b.Label
	case core.MatchElim:
		b, ok := b.(core.MatchElim)
		if !ok || len(a.Branches) != len(b.Branches) {
			return false
		}
		for i := range a.Branches {
			if !a.Branches[i].Const.Equal(b.Branches[i].Const) {
				return false
			}
		}
		return true
	case FormatReprElim:
		_, ok := b.(FormatReprElim)
		return ok
	default:
		return false
	}
}
