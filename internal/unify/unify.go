// Package unify implements higher-order pattern unification over core
// values: deciding whether two values can be made equal, and if so,
// recording whatever metavariable solutions make that true (spec.md section
// 4.4). It is grounded directly on the reference elaborator's unification
// algorithm (spec.md section 4.4; original_source/fathom/src/core/semantics.rs
// for the value shapes it operates over).
package unify

import (
	"fmt"

	"github.com/yeslogic/ddl/internal/core"
	"github.com/yeslogic/ddl/internal/env"
	"github.com/yeslogic/ddl/internal/semantics"
)

// Error reports a unification failure: two values that cannot be made
// equal, however their metavariables are solved.
type Error struct {
	Lhs, Rhs core.Value
	Reason   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to unify: %s", e.Reason)
}

// Context performs unification within a particular local scope, against a
// mutable metavariable store (spec.md section 4.4). Unlike
// semantics.Context, it holds the metavariable environment by unique
// ownership, since solving a metavariable mutates it.
type Context struct {
	Items  env.SliceEnv[core.Value]
	Metas  *env.UniqueEnv[semantics.MetaEntry]
	Locals env.EnvLen
}

// New builds a unification Context.
func New(items env.SliceEnv[core.Value], metas *env.UniqueEnv[semantics.MetaEntry], locals env.EnvLen) Context {
	return Context{Items: items, Metas: metas, Locals: locals}
}

func (ctx Context) elimCtx() semantics.ElimContext {
	return semantics.NewElimContext(ctx.Items, ctx.Metas.Slice())
}

func (ctx Context) quoteCtx() semantics.QuoteContext {
	return semantics.NewQuoteContext(ctx.Items, ctx.Metas.Slice(), ctx.Locals)
}

func (ctx Context) convCtx() semantics.ConversionContext {
	return semantics.NewConversionContext(ctx.Items, ctx.Metas.Slice(), ctx.Locals)
}

func (ctx Context) bind() Context {
	return Context{Items: ctx.Items, Metas: ctx.Metas, Locals: ctx.Locals + 1}
}

func (ctx Context) freshVar() core.Value {
	return core.StuckVar(env.Level(ctx.Locals))
}

// Unify attempts to make v1 and v2 equal, solving metavariables as needed.
// It returns a non-nil *Error on failure; the caller is expected to
// cascade a ReportedError rather than abort elaboration (spec.md section
// 5.3).
func (ctx Context) Unify(v1, v2 core.Value) error {
	v1 = ctx.elimCtx().Force(v1)
	v2 = ctx.elimCtx().Force(v2)

	if _, ok := v1.(*core.ReportedErrorVal); ok {
		return nil
	}
	if _, ok := v2.(*core.ReportedErrorVal); ok {
		return nil
	}

	s1, stuck1 := v1.(*core.Stuck)
	s2, stuck2 := v2.(*core.Stuck)

	if stuck1 {
		if mh, ok := s1.Head.(core.MetaVarHead); ok {
			return ctx.unifyFlexRigid(mh.Level, s1.Spine, v2)
		}
	}
	if stuck2 {
		if mh, ok := s2.Head.(core.MetaVarHead); ok {
			return ctx.unifyFlexRigid(mh.Level, s2.Spine, v1)
		}
	}
	if stuck1 && stuck2 {
		if sameHead(s1.Head, s2.Head) {
			return ctx.unifySpines(s1.Spine, s2.Spine)
		}
	}

	switch v1 := v1.(type) {
	case *core.UniverseVal:
		if _, ok := v2.(*core.UniverseVal); ok {
			return nil
		}
		return ctx.mismatch(v1, v2)

	case *core.FunTypeVal:
		v2f, ok := v2.(*core.FunTypeVal)
		if !ok || v1.Plicity != v2f.Plicity {
			return ctx.mismatch(v1, v2)
		}
		if err := ctx.Unify(v1.Input, v2f.Input); err != nil {
			return err
		}
		fresh := ctx.freshVar()
		next := ctx.bind()
		return next.Unify(next.elimCtx().EvalClosure(v1.Output, fresh), next.elimCtx().EvalClosure(v2f.Output, fresh))

	case *core.FunLitVal:
		fresh := ctx.freshVar()
		next := ctx.bind()
		lhs := next.elimCtx().EvalClosure(v1.Body, fresh)
		rhs := next.elimCtx().FunApp(v2, v1.Plicity, fresh)
		return next.Unify(lhs, rhs)

	case *core.RecordTypeVal:
		v2r, ok := v2.(*core.RecordTypeVal)
		if !ok {
			return ctx.mismatch(v1, v2)
		}
		return ctx.unifyTelescopes(v1.Telescope, v2r.Telescope)

	case *core.RecordLitVal:
		return ctx.unifyRecordLit(v1, v2)

	case *core.ArrayLitVal:
		v2a, ok := v2.(*core.ArrayLitVal)
		if !ok || len(v1.Exprs) != len(v2a.Exprs) {
			return ctx.mismatch(v1, v2)
		}
		for i := range v1.Exprs {
			if err := ctx.Unify(v1.Exprs[i], v2a.Exprs[i]); err != nil {
				return err
			}
		}
		return nil

	case *core.FormatRecordVal:
		v2f, ok := v2.(*core.FormatRecordVal)
		if !ok {
			return ctx.mismatch(v1, v2)
		}
		return ctx.unifyTelescopes(v1.Telescope, v2f.Telescope)

	case *core.FormatOverlapVal:
		v2f, ok := v2.(*core.FormatOverlapVal)
		if !ok {
			return ctx.mismatch(v1, v2)
		}
		return ctx.unifyTelescopes(v1.Telescope, v2f.Telescope)

	case *core.FormatCondVal:
		v2f, ok := v2.(*core.FormatCondVal)
		if !ok {
			return ctx.mismatch(v1, v2)
		}
		if err := ctx.Unify(v1.Format, v2f.Format); err != nil {
			return err
		}
		fresh := ctx.freshVar()
		next := ctx.bind()
		return next.Unify(next.elimCtx().EvalClosure(v1.Pred, fresh), next.elimCtx().EvalClosure(v2f.Pred, fresh))

	case *core.ConstLitVal:
		v2c, ok := v2.(*core.ConstLitVal)
		if !ok || !v1.Const.Equal(v2c.Const) {
			return ctx.mismatch(v1, v2)
		}
		return nil

	case *core.Stuck:
		if lit, ok := v2.(*core.FunLitVal); ok {
			return ctx.unifyEtaFun(lit, v1)
		}
		if lit, ok := v2.(*core.RecordLitVal); ok {
			return ctx.unifyRecordLit(lit, v1)
		}
		return ctx.mismatch(v1, v2)

	default:
		return ctx.mismatch(v1, v2)
	}
}

func (ctx Context) unifyEtaFun(lit *core.FunLitVal, stuck core.Value) error {
	fresh := ctx.freshVar()
	next := ctx.bind()
	lhs := next.elimCtx().EvalClosure(lit.Body, fresh)
	rhs := next.elimCtx().FunApp(stuck, lit.Plicity, fresh)
	return next.Unify(lhs, rhs)
}

func (ctx Context) unifyRecordLit(lit *core.RecordLitVal, other core.Value) error {
	switch other := other.(type) {
	case *core.RecordLitVal:
		if len(lit.Labels) != len(other.Labels) {
			return ctx.mismatch(lit, other)
		}
		for i, l := range lit.Labels {
			if other.Labels[i] != l {
				return ctx.mismatch(lit, other)
			}
			if err := ctx.Unify(lit.Exprs[i], other.Exprs[i]); err != nil {
				return err
			}
		}
		return nil

	case *core.Stuck:
		for i, l := range lit.Labels {
			projected := ctx.elimCtx().RecordProj(other, l)
			if err := ctx.Unify(lit.Exprs[i], projected); err != nil {
				return err
			}
		}
		return nil

	default:
		return ctx.mismatch(lit, other)
	}
}

func (ctx Context) unifyTelescopes(a, b core.Telescope) error {
	if len(a.Terms) != len(b.Terms) {
		return ctx.mismatch(nil, nil)
	}
	cur := ctx
	restA, restB := a, b
	for {
		_, valA, contA, okA := cur.elimCtx().SplitTelescope(restA)
		_, valB, contB, okB := cur.elimCtx().SplitTelescope(restB)
		if okA != okB {
			return ctx.mismatch(nil, nil)
		}
		if !okA {
			return nil
		}
		if err := cur.Unify(valA, valB); err != nil {
			return err
		}
		fresh := cur.freshVar()
		restA, restB = contA(fresh), contB(fresh)
		cur = cur.bind()
	}
}

func (ctx Context) unifySpines(a, b []core.Elim) error {
	if len(a) != len(b) {
		return ctx.mismatch(nil, nil)
	}
	for i := range a {
		fa, ok := a[i].(core.FunElim)
		if !ok {
			continue // projections/matches on identical stuck heads with identical spines so far must already agree
		}
		fb, ok := b[i].(core.FunElim)
		if !ok || fa.Plicity != fb.Plicity {
			return ctx.mismatch(nil, nil)
		}
		if err := ctx.Unify(fa.Arg, fb.Arg); err != nil {
			return err
		}
	}
	return nil
}

func (ctx Context) mismatch(v1, v2 core.Value) error {
	return &Error{Lhs: v1, Rhs: v2, Reason: "mismatched values"}
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
