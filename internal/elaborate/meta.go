package elaborate

import (
	"github.com/yeslogic/ddl/internal/core"
	"github.com/yeslogic/ddl/internal/surface"
)

// freshMetaTerm allocates a metavariable of the given type and returns an
// InsertedMeta term applying it to the current local context (spec.md
// section 4.1's "InsertedMeta fetches the meta and applies it to the
// current local context filtered by infos").
func (ctx *Context) freshMetaTerm(typ core.Value, src MetaSource) core.Term {
	lv := ctx.Metas.Fresh(typ, src)
	return &core.InsertedMeta{Level: lv, Infos: ctx.Locals.InfosSnapshot()}
}

// freshMetaType allocates a metavariable standing for an as-yet-unknown
// type, itself classified by Universe.
func (ctx *Context) freshMetaType(src MetaSource) core.Term {
	return ctx.freshMetaTerm(ctx.eval(universeVal()), src)
}

func universeVal() core.Term { return &core.Universe{} }

// elabHole handles `?name` and `_`: two fresh metavariables, one for the
// hole's type and one for its value, with the type-meta suppressed at
// finalize time (it's never user-facing on its own) and the value-meta
// reported as a HoleSolution note once solved (spec.md section 4.3's "Key
// contracts" on placeholders and holes).
func (ctx *Context) elabHole(span surface.Pos, name string) (core.Term, core.Value) {
	typeMeta := ctx.freshMetaTerm(ctx.eval(&core.Universe{}), MetaSource{Span: span, Suppress: true})
	typeVal := ctx.eval(typeMeta)
	valMeta := ctx.freshMetaTerm(typeVal, MetaSource{Span: span, Name: name, ForResult: name != ""})
	return valMeta, typeVal
}

// insertImplicits repeatedly inserts a fresh metavariable argument while
// the synthesized type is an implicit function type, stopping once the
// type is no longer an implicit FunType (spec.md section 4.3's "Implicit
// insertion").
func (ctx *Context) insertImplicits(span surface.Pos, term core.Term, typ core.Value) (core.Term, core.Value) {
	for {
		forced := ctx.elimCtx().Force(typ)
		ft, ok := forced.(*core.FunTypeVal)
		if !ok || ft.Plicity != core.Implicit {
			return term, forced
		}
		argMeta := ctx.freshMetaTerm(ft.Input, MetaSource{Span: span, Suppress: true})
		argVal := ctx.eval(argMeta)
		term = &core.FunApp{Plicity: core.Implicit, Head: term, Arg: argMeta}
		typ = ctx.elimCtx().EvalClosure(ft.Output, argVal)
	}
}
