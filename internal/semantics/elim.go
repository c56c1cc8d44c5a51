package semantics

import (
	"github.com/yeslogic/ddl/internal/core"
	"github.com/yeslogic/ddl/internal/env"
)

// Force resolves a value to its weak head normal form, unfolding a Stuck
// MetaVar head if it has since been solved and re-applying its spine
// (spec.md section 4.1, "forcing"). It is idempotent and a no-op on
// anything that isn't blocked on a solved meta.
func (ctx ElimContext) Force(v core.Value) core.Value {
	s, ok := v.(*core.Stuck)
	if !ok {
		return v
	}
	mh, ok := s.Head.(core.MetaVarHead)
	if !ok {
		return v
	}
	entry, ok := ctx.Metas.GetLevel(mh.Level)
	if !ok || !entry.IsSolved() {
		return v
	}
	return ctx.Force(ctx.applySpine(entry.Solution, s.Spine))
}

// applySpine replays a stuck spine against a now-concrete head.
func (ctx ElimContext) applySpine(head core.Value, spine []core.Elim) core.Value {
	for _, e := range spine {
		switch e := e.(type) {
		case core.FunElim:
			head = ctx.FunApp(head, e.Plicity, e.Arg)
		case core.ProjElim:
			head = ctx.RecordProj(head, e.Label)
		case core.MatchElim:
			head = ctx.matchConst(head, e.Branches, e.Default, e.Env)
		case FormatReprElim:
			head = ctx.FormatRepr(head)
		default:
			badTerm("unhandled elimination frame %T", e)
		}
	}
	return head
}

// applyInfos applies a (freshly evaluated, possibly still-unsolved) meta
// head to each Param entry of a binder-info vector, skipping Def entries,
// reconstructing the same application an explicitly-written spine of local
// variables would have produced (spec.md section 4.1, section 9).
func (ctx ElimContext) applyInfos(head core.Value, infos []core.EntryKind, locals env.SharedEnv[core.Value]) core.Value {
	n := len(infos)
	for i, kind := range infos {
		if kind != core.EntryParam {
			continue
		}
		// Entry i (in binding order, oldest first) sits at index n-1-i of
		// the current local environment.
		v, ok := locals.GetIndex(env.Index(n - 1 - i))
		if !ok {
			badTerm("InsertedMeta info vector longer than local environment")
		}
		head = ctx.FunApp(head, core.Explicit, v)
	}
	return head
}

// FunApp applies fn to arg (spec.md section 4.2). A stuck head grows its
// spine; a literal function reduces by evaluating its body; a prim head
// accumulates arguments until it has enough to attempt a primitive
// reduction.
func (ctx ElimContext) FunApp(fn core.Value, plicity core.Plicity, arg core.Value) core.Value {
	switch fn := ctx.Force(fn).(type) {
	case *core.FunLitVal:
		return ctx.evalClosure(fn.Body, arg)

	case *core.Stuck:
		if ph, ok := fn.Head.(core.PrimHead); ok {
			spine := appendElim(fn.Spine, core.FunElim{Plicity: plicity, Arg: arg})
			if len(spine) >= ph.Prim.Arity() {
				if reduced, ok := ctx.reducePrim(ph.Prim, spine); ok {
					return reduced
				}
			}
			return &core.Stuck{Head: fn.Head, Spine: spine}
		}
		return fn.WithElim(core.FunElim{Plicity: plicity, Arg: arg})

	case *core.ReportedErrorVal:
		return fn

	default:
		badTerm("FunApp on non-function value %T", fn)
		return nil
	}
}

func appendElim(spine []core.Elim, e core.Elim) []core.Elim {
	out := make([]core.Elim, len(spine)+1)
	copy(out, spine)
	out[len(spine)] = e
	return out
}

// RecordProj projects Label out of a record value (spec.md section 4.2). A
// stuck head grows its spine; a literal record looks the field up
// directly.
func (ctx ElimContext) RecordProj(v core.Value, label core.Symbol) core.Value {
	switch v := ctx.Force(v).(type) {
	case *core.RecordLitVal:
		for i, l := range v.Labels {
			if l == label {
				return v.Exprs[i]
			}
		}
		badTerm("record literal has no field %q", label)
		return nil

	case *core.Stuck:
		return v.WithElim(core.ProjElim{Label: label})

	case *core.ReportedErrorVal:
		return v

	default:
		badTerm("RecordProj on non-record value %T", v)
		return nil
	}
}

// matchConst pattern-matches scrutinee against branches, falling back to
// defaultTerm (evaluated in localEnv) if nothing matches (spec.md section
// 3.2, invariant 4; section 4.2). Branches are tried in order and the
// first whose constant equals the scrutinee is taken.
func (ctx ElimContext) matchConst(scrutinee core.Value, branches []core.ConstBranch, defaultTerm core.Term, localEnv env.SharedEnv[core.Value]) core.Value {
	switch scrutinee := ctx.Force(scrutinee).(type) {
	case *core.ConstLitVal:
		for _, b := range branches {
			if b.Const.Equal(scrutinee.Const) {
				return ctx.evalIn(localEnv, b.Body)
			}
		}
		if defaultTerm == nil {
			badTerm("ConstMatch scrutinee %v matched no branch and has no default", scrutinee.Const)
		}
		return ctx.evalIn(localEnv, defaultTerm)

	case *core.Stuck:
		return scrutinee.WithElim(core.MatchElim{Branches: branches, Default: defaultTerm, Env: localEnv})

	case *core.ReportedErrorVal:
		return scrutinee

	default:
		badTerm("ConstMatch on non-constant value %T", scrutinee)
		return nil
	}
}

// SplitTelescope peels the first entry off a telescope, returning its
// label, its evaluated type (or, when ApplyRepr is set, the Repr of its
// evaluated format), and a continuation that closes the remaining entries
// once the caller supplies a value for the entry just split off (spec.md
// section 3.3, glossary "Telescope"; section 4.5's Repr-of-record-format
// rule). ok is false once the telescope is empty.
func (ctx ElimContext) SplitTelescope(t core.Telescope) (core.Symbol, core.Value, func(core.Value) core.Telescope, bool) {
	if len(t.Terms) == 0 {
		return core.NoName, nil, nil, false
	}
	label := t.Labels[0]
	raw := ctx.evalIn(t.Env, t.Terms[0])
	entryVal := raw
	if t.ApplyRepr {
		entryVal = ctx.FormatRepr(raw)
	}
	rest := core.Telescope{
		Labels:    t.Labels[1:],
		Terms:     t.Terms[1:],
		ApplyRepr: t.ApplyRepr,
	}
	cont := func(v core.Value) core.Telescope {
		rest.Env = t.Env.WithPushed(v)
		return rest
	}
	return label, entryVal, cont, true
}

// EvalClosure evaluates c applied to arg; exported so that callers outside
// this package (the unifier, the elaborator) can force a closure's body
// without reaching into unexported helpers.
func (ctx ElimContext) EvalClosure(c core.Closure, arg core.Value) core.Value {
	return ctx.evalClosure(c, arg)
}
