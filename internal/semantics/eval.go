package semantics

import "github.com/yeslogic/ddl/internal/core"

// Eval reduces a term to weak head normal form in the scope this
// EvalContext was built over (spec.md section 4.1). Sub-terms under
// binders are left unevaluated, packaged as closures — evaluation never
// recurses under a binder it hasn't been asked to.
func (ctx EvalContext) Eval(t core.Term) core.Value {
	switch t := t.(type) {
	case *core.ItemVar:
		v, ok := ctx.Items.GetLevel(t.Level)
		if !ok {
			badTerm("ItemVar(%d) out of range", t.Level)
		}
		return v

	case *core.LocalVar:
		v, ok := ctx.Locals.GetIndex(t.Index)
		if !ok {
			badTerm("LocalVar(%d) out of range", t.Index)
		}
		return v

	case *core.MetaVar:
		if entry, ok := ctx.Metas.GetLevel(t.Level); ok && entry.IsSolved() {
			return entry.Solution
		}
		return core.StuckMeta(t.Level)

	case *core.InsertedMeta:
		head := ctx.Eval(&core.MetaVar{Level: t.Level})
		return ctx.elim().applyInfos(head, t.Infos, ctx.Locals)

	case *core.Ann:
		return ctx.Eval(t.Expr)

	case *core.Let:
		def := ctx.Eval(t.Def)
		body := EvalContext{Context: ctx.Context, Locals: ctx.Locals.WithPushed(def)}
		return body.Eval(t.Body)

	case *core.Universe:
		return &core.UniverseVal{}

	case *core.FunType:
		return &core.FunTypeVal{
			Plicity: t.Plicity,
			Name:    t.Name,
			Input:   ctx.Eval(t.Input),
			Output:  core.Closure{Env: ctx.Locals.Snapshot(), Body: t.Output},
		}

	case *core.FunLit:
		return &core.FunLitVal{
			Plicity: t.Plicity,
			Name:    t.Name,
			Body:    core.Closure{Env: ctx.Locals.Snapshot(), Body: t.Body},
		}

	case *core.FunApp:
		fn := ctx.Eval(t.Head)
		arg := ctx.Eval(t.Arg)
		return ctx.elim().FunApp(fn, t.Plicity, arg)

	case *core.RecordType:
		return &core.RecordTypeVal{Telescope: core.Telescope{
			Env:    ctx.Locals.Snapshot(),
			Labels: t.Labels,
			Terms:  t.Types,
		}}

	case *core.RecordLit:
		exprs := make([]core.Value, len(t.Exprs))
		for i, e := range t.Exprs {
			exprs[i] = ctx.Eval(e)
		}
		return &core.RecordLitVal{Labels: t.Labels, Exprs: exprs}

	case *core.RecordProj:
		head := ctx.Eval(t.Head)
		return ctx.elim().RecordProj(head, t.Label)

	case *core.ArrayLit:
		exprs := make([]core.Value, len(t.Exprs))
		for i, e := range t.Exprs {
			exprs[i] = ctx.Eval(e)
		}
		return &core.ArrayLitVal{Exprs: exprs}

	case *core.FormatRecord:
		return &core.FormatRecordVal{Telescope: core.Telescope{
			Env:    ctx.Locals.Snapshot(),
			Labels: t.Labels,
			Terms:  t.Formats,
		}}

	case *core.FormatOverlap:
		return &core.FormatOverlapVal{Telescope: core.Telescope{
			Env:    ctx.Locals.Snapshot(),
			Labels: t.Labels,
			Terms:  t.Formats,
		}}

	case *core.FormatCond:
		return &core.FormatCondVal{
			Name:   t.Name,
			Format: ctx.Eval(t.Format),
			Pred:   core.Closure{Env: ctx.Locals.Snapshot(), Body: t.Pred},
		}

	case *core.Prim:
		return core.StuckPrim(t.Prim)

	case *core.ConstLitTerm:
		return &core.ConstLitVal{Const: t.Const}

	case *core.ConstMatch:
		head := ctx.Eval(t.Head)
		return ctx.elim().matchConst(head, t.Branches, t.Default, ctx.Locals)

	default:
		badTerm("unhandled term %T", t)
		return nil
	}
}
