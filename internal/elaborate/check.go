package elaborate

import (
	"github.com/yeslogic/ddl/internal/core"
	"github.com/yeslogic/ddl/internal/diagnostic"
	"github.com/yeslogic/ddl/internal/surface"
)

// Check elaborates e against an already-known expected type (spec.md section
// 4.3's "check" judgement). Every shape that can't be checked directly falls
// through to Synth plus a unification against expected, which is also where
// the sole Format => Type coercion (Repr) gets inserted.
func (ctx *Context) Check(e surface.Expr, expected core.Value) core.Term {
	forced := ctx.elimCtx().Force(expected)

	switch e := e.(type) {
	case *surface.Hole:
		return ctx.checkHole(e.Span(), e.Name, forced)

	case *surface.Placeholder:
		return ctx.checkHole(e.Span(), "", forced)

	case *surface.Let:
		return ctx.checkLet(e, forced)

	case *surface.FunLit:
		return ctx.checkFunLit(e.Params, e.Body, forced)

	case *surface.RecordLit:
		return ctx.checkRecordLit(e, forced)

	case *surface.ArrayLit:
		return ctx.checkArrayLit(e, forced)

	case *surface.NumberLit:
		if kind, ok := numericKindOf(headPrim(forced)); ok {
			return ctx.checkNumberLit(e, kind)
		}

	case *surface.ByteStringLit:
		if kind, ok := numericKindOf(headPrim(forced)); ok {
			return ctx.checkByteStringLit(e, kind)
		}

	case *surface.If:
		return ctx.checkIf(e, forced)

	case *surface.Match:
		return ctx.checkMatch(e, forced)

	case *surface.FormatRecord:
		term, typ := ctx.synthFormatRecord(e)
		return ctx.coerceTo(e.Span(), term, typ, forced)
	}

	term, typ := ctx.Synth(e)
	return ctx.coerceTo(e.Span(), term, typ, forced)
}

// headPrim reports the prim a (forced) value is stuck on with an empty
// spine, or PrimInvalid if it isn't a bare prim.
func headPrim(v core.Value) core.PrimName {
	s, ok := v.(*core.Stuck)
	if !ok || len(s.Spine) != 0 {
		return core.PrimInvalid
	}
	ph, ok := s.Head.(core.PrimHead)
	if !ok {
		return core.PrimInvalid
	}
	return ph.Prim
}

// coerceTo unifies a synthesized type against the expected type, inserting
// the Format => Type Repr coercion first when expected is a type but the
// synthesized type is Format (spec.md section 4.1, 4.3).
func (ctx *Context) coerceTo(span surface.Pos, term core.Term, typ, expected core.Value) core.Term {
	if _, expectIsType := expected.(*core.UniverseVal); expectIsType {
		if headPrim(ctx.elimCtx().Force(typ)) == core.PrimFormatType {
			// The sole Format => Type coercion: wrap in Repr(_) and reclassify
			// as Universe (spec.md section 4.1).
			term = &core.FunApp{Plicity: core.Explicit, Head: &core.Prim{Prim: core.PrimFormatRepr}, Arg: term}
			typ = &core.UniverseVal{}
		}
	}
	if err := ctx.unifyCtx().Unify(typ, expected); err != nil {
		ctx.report(diagnostic.CodeFailedToUnify, span, "type mismatch: "+err.Error())
	}
	return term
}

func (ctx *Context) checkHole(span surface.Pos, name string, expected core.Value) core.Term {
	return ctx.freshMetaTerm(expected, MetaSource{Span: span, Name: name, ForResult: name != ""})
}

func (ctx *Context) checkLet(e *surface.Let, expected core.Value) core.Term {
	var defTerm core.Term
	var defTyp core.Value
	if e.Type != nil {
		typTerm := ctx.checkType(e.Type)
		defTyp = ctx.eval(typTerm)
		defTerm = ctx.Check(e.Def, defTyp)
	} else {
		defTerm, defTyp = ctx.Synth(e.Def)
	}
	defVal := ctx.eval(defTerm)

	n := int(ctx.Locals.Len())
	ctx.Locals.Push(e.Name, defTyp, defVal, core.EntryDef)
	bodyTerm := ctx.Check(e.Body, expected)
	ctx.Locals.Truncate(n)

	sym := ctx.intern(e.Name)
	return &core.Let{Name: sym, Type: ctx.quote(defTyp), Def: defTerm, Body: bodyTerm}
}

// checkFunLit walks params against nested FunTypeVal layers, automatically
// inserting a binder for any implicit parameter expected but not written at
// the surface (spec.md section 4.3's "implicit parameters may be omitted
// from function literals").
func (ctx *Context) checkFunLit(params []surface.Param, body surface.Expr, expected core.Value) core.Term {
	if len(params) == 0 {
		return ctx.Check(body, expected)
	}
	param := params[0]

	forced := ctx.elimCtx().Force(expected)
	ft, ok := forced.(*core.FunTypeVal)
	if !ok {
		ctx.report(diagnostic.CodeUnexpectedParameter, param.Pos, "this function literal has more parameters than its expected type")
		return &core.Prim{Prim: core.PrimReportedError}
	}

	wantPlicity := core.Explicit
	if param.Plicity == surface.ParamImplicit {
		wantPlicity = core.Implicit
	}
	if ft.Plicity == core.Implicit && wantPlicity == core.Explicit {
		// The expected type wants an implicit parameter the surface omitted;
		// insert a binder for it and retry the same surface param.
		n := int(ctx.Locals.Len())
		fresh := ctx.Locals.PushParam("", ft.Input)
		bodyTerm := ctx.checkFunLit(params, body, ctx.elimCtx().EvalClosure(ft.Output, fresh))
		ctx.Locals.Truncate(n)
		return &core.FunLit{Plicity: core.Implicit, Name: core.NoName, Body: bodyTerm}
	}
	if ft.Plicity != wantPlicity {
		ctx.report(diagnostic.CodePlicityArgumentMismatch, param.Pos, "explicit/implicit parameter mismatch")
	}

	n := int(ctx.Locals.Len())
	if param.Type != nil {
		annTerm := ctx.checkType(param.Type)
		if err := ctx.unifyCtx().Unify(ctx.eval(annTerm), ft.Input); err != nil {
			ctx.report(diagnostic.CodeFailedToUnify, param.Pos, "parameter annotation does not match the expected type: "+err.Error())
		}
	}
	fresh := ctx.Locals.PushParam(param.Name, ft.Input)
	bodyTerm := ctx.checkFunLit(params[1:], body, ctx.elimCtx().EvalClosure(ft.Output, fresh))
	ctx.Locals.Truncate(n)

	return &core.FunLit{Plicity: ft.Plicity, Name: ctx.intern(param.Name), Body: bodyTerm}
}

func (ctx *Context) checkArrayLit(e *surface.ArrayLit, expected core.Value) core.Term {
	s, ok := expected.(*core.Stuck)
	if !ok {
		ctx.report(diagnostic.CodeFailedToUnify, e.Span(), "array literal checked against a non-array type")
		return &core.Prim{Prim: core.PrimReportedError}
	}
	ph, ok := s.Head.(core.PrimHead)
	if !ok || ph.Prim != core.PrimArrayType || len(s.Spine) != 2 {
		ctx.report(diagnostic.CodeFailedToUnify, e.Span(), "array literal checked against a non-array type")
		return &core.Prim{Prim: core.PrimReportedError}
	}
	lenArg := spineArgElim(s.Spine, 0)
	elemTyp := spineArgElim(s.Spine, 1)
	if lit, ok := ctx.elimCtx().Force(lenArg).(*core.ConstLitVal); ok {
		if lit.Const.Bits != uint64(len(e.Exprs)) {
			ctx.report(diagnostic.CodeFailedToUnify, e.Span(), "array literal length does not match its expected type")
		}
	}
	var terms []core.Term
	for _, sub := range e.Exprs {
		terms = append(terms, ctx.Check(sub, elemTyp))
	}
	return &core.ArrayLit{Exprs: terms}
}

func spineArgElim(spine []core.Elim, i int) core.Value {
	fe, ok := spine[i].(core.FunElim)
	if !ok {
		return nil
	}
	return fe.Arg
}

// checkRecordLit handles three cases depending on what expected turns out to
// be: a genuine record type (ordinary field-by-field check), Universe (a
// tuple written in type position synthesizes an anonymous record type,
// spec.md section 4.3's tuple sugar), or Format (the same tuple synthesizes
// a sequential format record).
func (ctx *Context) checkRecordLit(e *surface.RecordLit, expected core.Value) core.Term {
	switch {
	case isUniverseVal(expected):
		return ctx.checkTupleAsRecordType(e)
	case headPrim(expected) == core.PrimFormatType:
		return ctx.checkTupleAsFormatRecord(e)
	}

	rt, ok := expected.(*core.RecordTypeVal)
	if !ok {
		ctx.report(diagnostic.CodeFailedToUnify, e.Span(), "record literal checked against a non-record type")
		return &core.Prim{Prim: core.PrimReportedError}
	}

	n := int(ctx.Locals.Len())
	cur := rt.Telescope
	var labels []core.Symbol
	var terms []core.Term
	for _, f := range e.Fields {
		label, fieldTyp, cont, ok := ctx.elimCtx().SplitTelescope(cur)
		if !ok {
			ctx.report(diagnostic.CodeMismatchedFieldLabels, f.Pos, "too many fields in this record literal")
			break
		}
		wantLabel := ctx.intern(f.Label)
		if wantLabel != label {
			ctx.report(diagnostic.CodeMismatchedFieldLabels, f.Pos, "expected field `"+ctx.symbolName(label)+"`, found `"+f.Label+"`")
		}
		fieldExpr := f.Expr
		if fieldExpr == nil {
			// `{ l }` shorthand for `{ l = l }`.
			fieldExpr = &surface.Name{Text: f.Label}
		}
		fieldTerm := ctx.Check(fieldExpr, fieldTyp)
		fieldVal := ctx.eval(fieldTerm)
		labels = append(labels, label)
		terms = append(terms, fieldTerm)
		cur = cont(fieldVal)
	}
	ctx.Locals.Truncate(n)
	return &core.RecordLit{Labels: labels, Exprs: terms}
}

func (ctx *Context) checkTupleAsRecordType(e *surface.RecordLit) core.Term {
	n := int(ctx.Locals.Len())
	var labels []core.Symbol
	var terms []core.Term
	for _, f := range e.Fields {
		fieldExpr := f.Expr
		if fieldExpr == nil {
			ctx.report(diagnostic.CodeFailedToUnify, f.Pos, "a tuple type field must be a type expression")
			continue
		}
		typTerm := ctx.checkType(fieldExpr)
		typVal := ctx.eval(typTerm)
		label := ctx.intern(f.Label)
		ctx.Locals.PushParam(f.Label, typVal)
		labels = append(labels, label)
		terms = append(terms, typTerm)
	}
	ctx.Locals.Truncate(n)
	return &core.RecordType{Labels: labels, Types: terms}
}

func (ctx *Context) checkTupleAsFormatRecord(e *surface.RecordLit) core.Term {
	n := int(ctx.Locals.Len())
	var labels []core.Symbol
	var terms []core.Term
	for _, f := range e.Fields {
		fieldExpr := f.Expr
		if fieldExpr == nil {
			ctx.report(diagnostic.CodeFailedToUnify, f.Pos, "a tuple format field must be a format expression")
			continue
		}
		formatTerm := ctx.Check(fieldExpr, core.StuckPrim(core.PrimFormatType))
		formatVal := ctx.eval(formatTerm)
		reprTyp := ctx.elimCtx().FormatRepr(formatVal)
		label := ctx.intern(f.Label)
		ctx.Locals.PushParam(f.Label, reprTyp)
		labels = append(labels, label)
		terms = append(terms, formatTerm)
	}
	ctx.Locals.Truncate(n)
	return &core.FormatRecord{Labels: labels, Formats: terms}
}

func isUniverseVal(v core.Value) bool {
	_, ok := v.(*core.UniverseVal)
	return ok
}

func (ctx *Context) symbolName(s core.Symbol) string {
	if !s.Named {
		return "_"
	}
	return ctx.Symbols.Name(s.Symbol)
}

// checkIf desugars `if cond then conseq else alt` to a ConstMatch over the
// two Bool constants (spec.md section 4.3's "if-then-else desugars to
// ConstMatch").
func (ctx *Context) checkIf(e *surface.If, expected core.Value) core.Term {
	condTerm := ctx.Check(e.Cond, core.StuckPrim(core.PrimBoolType))
	conseqTerm := ctx.Check(e.Conseq, expected)
	altTerm := ctx.Check(e.Alt, expected)
	return &core.ConstMatch{
		Head: condTerm,
		Branches: []core.ConstBranch{
			{Const: core.Bool(false), Body: altTerm},
			{Const: core.Bool(true), Body: conseqTerm},
		},
	}
}
