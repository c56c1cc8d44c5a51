package semantics

import (
	"github.com/yeslogic/ddl/internal/core"
	"github.com/yeslogic/ddl/internal/env"
)

// QuoteContext turns values back into terms, the other half of
// normalization by evaluation (spec.md section 4.1). It needs to know how
// many locals are currently in scope so that a LocalVarHead's level can be
// converted back to the index that's meaningful at the point the quoted
// term will be read back in.
type QuoteContext struct {
	Context
	Locals env.EnvLen
}

// NewQuoteContext builds a QuoteContext for quoting values produced under
// the given number of local bindings.
func NewQuoteContext(items env.SliceEnv[core.Value], metas env.SliceEnv[MetaEntry], locals env.EnvLen) QuoteContext {
	return QuoteContext{Context: Context{Items: items, Metas: metas}, Locals: locals}
}

func (ctx QuoteContext) elim() ElimContext {
	return ElimContext{Context: ctx.Context}
}

// bind returns a QuoteContext one binder deeper, for quoting under a
// closure or telescope entry.
func (ctx QuoteContext) bind() QuoteContext {
	return QuoteContext{Context: ctx.Context, Locals: ctx.Locals + 1}
}

// Quote reduces v to a term in beta-normal form (spec.md section 4.1); it
// does not eta-expand stuck values. It always forces first, so the result
// reflects every metavariable solution known at the time of the call.
func (ctx QuoteContext) Quote(v core.Value) core.Term {
	switch v := ctx.elim().Force(v).(type) {
	case *core.Stuck:
		return ctx.quoteStuck(v)

	case *core.UniverseVal:
		return &core.Universe{}

	case *core.FunTypeVal:
		out := ctx.quoteClosure(v.Output)
		return &core.FunType{Plicity: v.Plicity, Name: v.Name, Input: ctx.Quote(v.Input), Output: out}

	case *core.FunLitVal:
		return &core.FunLit{Plicity: v.Plicity, Name: v.Name, Body: ctx.quoteClosure(v.Body)}

	case *core.RecordTypeVal:
		labels, types := ctx.quoteTelescope(v.Telescope)
		return &core.RecordType{Labels: labels, Types: types}

	case *core.RecordLitVal:
		exprs := make([]core.Term, len(v.Exprs))
		for i, e := range v.Exprs {
			exprs[i] = ctx.Quote(e)
		}
		return &core.RecordLit{Labels: v.Labels, Exprs: exprs}

	case *core.ArrayLitVal:
		exprs := make([]core.Term, len(v.Exprs))
		for i, e := range v.Exprs {
			exprs[i] = ctx.Quote(e)
		}
		return &core.ArrayLit{Exprs: exprs}

	case *core.FormatRecordVal:
		labels, formats := ctx.quoteTelescope(v.Telescope)
		return &core.FormatRecord{Labels: labels, Formats: formats}

	case *core.FormatOverlapVal:
		labels, formats := ctx.quoteTelescope(v.Telescope)
		return &core.FormatOverlap{Labels: labels, Formats: formats}

	case *core.FormatCondVal:
		return &core.FormatCond{
			Name:   v.Name,
			Format: ctx.Quote(v.Format),
			Pred:   ctx.quoteClosure(v.Pred),
		}

	case *core.ConstLitVal:
		return &core.ConstLitTerm{Const: v.Const}

	case *core.ReportedErrorVal:
		return &core.Prim{Prim: core.PrimReportedError}

	default:
		badTerm("unhandled value %T", v)
		return nil
	}
}

// quoteClosure quotes a closure's body one binder deeper, applying it to a
// fresh stuck variable standing for the bound argument.
func (ctx QuoteContext) quoteClosure(c core.Closure) core.Term {
	inner := ctx.bind()
	arg := core.StuckVar(env.Level(ctx.Locals))
	applied := inner.elim().evalClosure(c, arg)
	return inner.Quote(applied)
}

// quoteTelescope quotes every entry of a telescope in turn, binding one
// fresh variable per entry so later entries can refer to earlier ones.
func (ctx QuoteContext) quoteTelescope(t core.Telescope) ([]core.Symbol, []core.Term) {
	labels := make([]core.Symbol, 0, len(t.Labels))
	terms := make([]core.Term, 0, len(t.Labels))
	cur := ctx
	rest := t
	for {
		label, entryVal, cont, ok := cur.elim().SplitTelescope(rest)
		if !ok {
			break
		}
		labels = append(labels, label)
		terms = append(terms, cur.Quote(entryVal))
		arg := core.StuckVar(env.Level(cur.Locals))
		rest = cont(arg)
		cur = cur.bind()
	}
	return labels, terms
}

func (ctx QuoteContext) quoteStuck(s *core.Stuck) core.Term {
	head := ctx.quoteHead(s.Head)
	applyFormatRepr := false
	result := head
	for _, e := range s.Spine {
		switch e := e.(type) {
		case core.FunElim:
			result = &core.FunApp{Plicity: e.Plicity, Head: result, Arg: ctx.Quote(e.Arg)}
		case core.ProjElim:
			result = &core.RecordProj{Head: result, Label: e.Label}
		case core.MatchElim:
			result = ctx.quoteMatch(result, e)
		case FormatReprElim:
			applyFormatRepr = true
		default:
			badTerm("unhandled elimination frame %T", e)
		}
	}
	if applyFormatRepr {
		result = &core.FunApp{Plicity: core.Explicit, Head: &core.Prim{Prim: core.PrimFormatRepr}, Arg: result}
	}
	return result
}

func (ctx QuoteContext) quoteMatch(head core.Term, m core.MatchElim) core.Term {
	branches := make([]core.ConstBranch, len(m.Branches))
	for i, b := range m.Branches {
		branches[i] = core.ConstBranch{Const: b.Const, Body: b.Body}
	}
	return &core.ConstMatch{Head: head, Branches: branches, Default: m.Default}
}

func (ctx QuoteContext) quoteHead(h core.Head) core.Term {
	switch h := h.(type) {
	case core.ItemVarHead:
		return &core.ItemVar{Level: h.Level}
	case core.LocalVarHead:
		idx, ok := ctx.Locals.LevelToIndex(h.Level)
		if !ok {
			badTerm("LocalVarHead(%d) out of range for %d locals", h.Level, ctx.Locals)
		}
		return &core.LocalVar{Index: idx}
	case core.MetaVarHead:
		return &core.MetaVar{Level: h.Level}
	case core.PrimHead:
		return &core.Prim{Prim: h.Prim}
	default:
		badTerm("unhandled stuck head %T", h)
		return nil
	}
}
