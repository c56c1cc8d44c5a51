package unify

import (
	"fmt"

	"github.com/yeslogic/ddl/internal/core"
	"github.com/yeslogic/ddl/internal/env"
	"github.com/yeslogic/ddl/internal/semantics"
)

// unifyFlexRigid solves metaLevel against rhs, given the spine metaLevel was
// applied to on the flexible side (spec.md section 4.4). This only handles
// the pattern fragment: spine must consist entirely of distinct, stuck
// local variables with empty spines of their own (the "higher-order
// pattern" condition). Anything outside that fragment is reported as a
// unification failure rather than attempted — the reference elaborator's
// fuller inversion (arbitrary spines via postponement) is future work.
func (ctx Context) unifyFlexRigid(metaLevel env.Level, spine []core.Elim, rhs core.Value) error {
	if entry, ok := ctx.Metas.GetLevel(metaLevel); ok && entry.IsSolved() {
		// Force should already have unfolded this; defensive no-op.
		return ctx.Unify(entry.Solution, rhs)
	}

	renaming, domain, err := buildPartialRenaming(spine)
	if err != nil {
		return &Error{Reason: fmt.Sprintf("cannot solve metavariable: %s", err)}
	}

	r := &renamer{
		elim:      ctx.elimCtx(),
		metaLevel: metaLevel,
		ren:       renaming,
		domain:    domain,
		srcLocals: env.Level(ctx.Locals),
	}
	body, err := r.rename(rhs)
	if err != nil {
		return &Error{Reason: fmt.Sprintf("cannot solve metavariable: %s", err)}
	}

	// Wrap the renamed body in one explicit FunLit per pattern variable, so
	// the solution is a closed term applicable to exactly the spine that
	// was inverted (spec.md section 4.4's "solve" step).
	solutionTerm := body
	for i := 0; i < int(domain); i++ {
		solutionTerm = &core.FunLit{Plicity: core.Explicit, Name: core.NoName, Body: solutionTerm}
	}

	solutionVal := semantics.NewEvalContext(ctx.Items, ctx.Metas.Slice(), env.NewSharedEnv[core.Value]()).Eval(solutionTerm)
	ctx.Metas.Set(metaLevel, semantics.MetaEntry{Solution: solutionVal})
	return nil
}

// buildPartialRenaming checks that spine is a valid higher-order pattern —
// every entry a FunElim applying a distinct, argument-less local variable —
// and returns the source-level-to-target-level map plus how many pattern
// variables were found (spec.md section 4.4, glossary "Partial renaming").
func buildPartialRenaming(spine []core.Elim) (map[env.Level]env.Level, env.EnvLen, error) {
	ren := make(map[env.Level]env.Level, len(spine))
	var domain env.EnvLen
	for _, e := range spine {
		fe, ok := e.(core.FunElim)
		if !ok {
			return nil, 0, fmt.Errorf("non-variable eliminator in spine")
		}
		s, ok := fe.Arg.(*core.Stuck)
		if !ok || len(s.Spine) != 0 {
			return nil, 0, fmt.Errorf("non-variable argument in spine")
		}
		lv, ok := s.Head.(core.LocalVarHead)
		if !ok {
			return nil, 0, fmt.Errorf("non-local argument in spine")
		}
		if _, dup := ren[lv.Level]; dup {
			return nil, 0, fmt.Errorf("duplicate variable in spine")
		}
		ren[lv.Level] = env.Level(domain)
		domain++
	}
	return ren, domain, nil
}

// renamer replays a value as a term in the solution's own binder space,
// substituting each pattern variable's source level with its target index,
// occurs-checking the metavariable being solved, and rejecting any free
// variable outside the pattern's domain (spec.md section 4.4's "occurs
// check" and "scope check").
type renamer struct {
	elim      semantics.ElimContext
	metaLevel env.Level
	ren       map[env.Level]env.Level
	domain    env.EnvLen // number of binders introduced on the target (solution) side so far
	srcLocals env.Level  // next fresh level to hand out on the source (rhs) side when going under a binder
}

func (r *renamer) extend() *renamer {
	cp := make(map[env.Level]env.Level, len(r.ren)+1)
	for k, v := range r.ren {
		cp[k] = v
	}
	cp[r.srcLocals] = env.Level(r.domain)
	return &renamer{elim: r.elim, metaLevel: r.metaLevel, ren: cp, domain: r.domain + 1, srcLocals: r.srcLocals + 1}
}

// rename is the renaming analogue of QuoteContext.Quote: it forces and
// structurally recurses, but resolves LocalVarHead levels through ren
// instead of assuming an identity mapping with the current scope.
func (r *renamer) rename(v core.Value) (core.Term, error) {
	switch v := r.elim.Force(v).(type) {
	case *core.Stuck:
		return r.renameStuck(v)

	case *core.UniverseVal:
		return &core.Universe{}, nil

	case *core.FunTypeVal:
		input, err := r.rename(v.Input)
		if err != nil {
			return nil, err
		}
		next := r.extend()
		fresh := core.StuckVar(env.Level(r.srcLocals))
		output, err := next.rename(r.elim.EvalClosure(v.Output, fresh))
		if err != nil {
			return nil, err
		}
		return &core.FunType{Plicity: v.Plicity, Name: v.Name, Input: input, Output: output}, nil

	case *core.FunLitVal:
		next := r.extend()
		fresh := core.StuckVar(env.Level(r.srcLocals))
		body, err := next.rename(r.elim.EvalClosure(v.Body, fresh))
		if err != nil {
			return nil, err
		}
		return &core.FunLit{Plicity: v.Plicity, Name: v.Name, Body: body}, nil

	case *core.RecordTypeVal:
		labels, types, err := r.renameTelescope(v.Telescope)
		if err != nil {
			return nil, err
		}
		return &core.RecordType{Labels: labels, Types: types}, nil

	case *core.RecordLitVal:
		exprs := make([]core.Term, len(v.Exprs))
		for i, e := range v.Exprs {
			t, err := r.rename(e)
			if err != nil {
				return nil, err
			}
			exprs[i] = t
		}
		return &core.RecordLit{Labels: v.Labels, Exprs: exprs}, nil

	case *core.ArrayLitVal:
		exprs := make([]core.Term, len(v.Exprs))
		for i, e := range v.Exprs {
			t, err := r.rename(e)
			if err != nil {
				return nil, err
			}
			exprs[i] = t
		}
		return &core.ArrayLit{Exprs: exprs}, nil

	case *core.FormatRecordVal:
		labels, formats, err := r.renameTelescope(v.Telescope)
		if err != nil {
			return nil, err
		}
		return &core.FormatRecord{Labels: labels, Formats: formats}, nil

	case *core.FormatOverlapVal:
		labels, formats, err := r.renameTelescope(v.Telescope)
		if err != nil {
			return nil, err
		}
		return &core.FormatOverlap{Labels: labels, Formats: formats}, nil

	case *core.FormatCondVal:
		format, err := r.rename(v.Format)
		if err != nil {
			return nil, err
		}
		next := r.extend()
		fresh := core.StuckVar(env.Level(r.srcLocals))
		pred, err := next.rename(r.elim.EvalClosure(v.Pred, fresh))
		if err != nil {
			return nil, err
		}
		return &core.FormatCond{Name: v.Name, Format: format, Pred: pred}, nil

	case *core.ConstLitVal:
		return &core.ConstLitTerm{Const: v.Const}, nil

	case *core.ReportedErrorVal:
		return &core.Prim{Prim: core.PrimReportedError}, nil

	default:
		return nil, fmt.Errorf("unhandled value %T during renaming", v)
	}
}

func (r *renamer) renameTelescope(t core.Telescope) ([]core.Symbol, []core.Term, error) {
	labels := make([]core.Symbol, 0, len(t.Labels))
	terms := make([]core.Term, 0, len(t.Labels))
	cur := r
	rest := t
	for {
		label, entryVal, cont, ok := cur.elim.SplitTelescope(rest)
		if !ok {
			break
		}
		term, err := cur.rename(entryVal)
		if err != nil {
			return nil, nil, err
		}
		labels = append(labels, label)
		terms = append(terms, term)
		fresh := core.StuckVar(env.Level(cur.srcLocals))
		rest = cont(fresh)
		cur = cur.extend()
	}
	return labels, terms, nil
}

func (r *renamer) renameStuck(s *core.Stuck) (core.Term, error) {
	head, err := r.renameHead(s.Head)
	if err != nil {
		return nil, err
	}
	var result core.Term = head
	applyFormatRepr := false
	for _, e := range s.Spine {
		switch e := e.(type) {
		case core.FunElim:
			arg, err := r.rename(e.Arg)
			if err != nil {
				return nil, err
			}
			result = &core.FunApp{Plicity: e.Plicity, Head: result, Arg: arg}
		case core.ProjElim:
			result = &core.RecordProj{Head: result, Label: e.Label}
		case semantics.FormatReprElim:
			applyFormatRepr = true
		default:
			return nil, fmt.Errorf("unhandled elimination frame %T during renaming", e)
		}
	}
	if applyFormatRepr {
		result = &core.FunApp{Plicity: core.Explicit, Head: &core.Prim{Prim: core.PrimFormatRepr}, Arg: result}
	}
	return result, nil
}

func (r *renamer) renameHead(h core.Head) (core.Term, error) {
	switch h := h.(type) {
	case core.ItemVarHead:
		return &core.ItemVar{Level: h.Level}, nil
	case core.LocalVarHead:
		target, ok := r.ren[h.Level]
		if !ok {
			return nil, fmt.Errorf("variable escapes the pattern's scope")
		}
		idx, ok := r.domain.LevelToIndex(target)
		if !ok {
			return nil, fmt.Errorf("variable escapes the pattern's scope")
		}
		return &core.LocalVar{Index: idx}, nil
	case core.MetaVarHead:
		if h.Level == r.metaLevel {
			return nil, fmt.Errorf("metavariable occurs in its own solution")
		}
		return &core.MetaVar{Level: h.Level}, nil
	case core.PrimHead:
		return &core.Prim{Prim: h.Prim}, nil
	default:
		return nil, fmt.Errorf("unhandled stuck head %T during renaming", h)
	}
}
