package elaborate

import (
	"github.com/yeslogic/ddl/internal/core"
	"github.com/yeslogic/ddl/internal/diagnostic"
	"github.com/yeslogic/ddl/internal/surface"
)

// Synth elaborates e without an expected type, returning its core term and
// the type it was found to have (spec.md section 4.3's "synth" judgement).
// Implicit function arguments are inserted automatically unless e's own head
// form is itself an implicit function type being referenced bare.
func (ctx *Context) Synth(e surface.Expr) (core.Term, core.Value) {
	term, typ := ctx.synth(e)
	switch e.(type) {
	case *surface.FunType, *surface.FunArrow:
		// Pi-types are classified by Universe directly; inserting implicits
		// here would try to apply Universe as a function.
		return term, typ
	}
	return ctx.insertImplicits(e.Span(), term, typ)
}

func (ctx *Context) synth(e surface.Expr) (core.Term, core.Value) {
	switch e := e.(type) {
	case *surface.Name:
		return ctx.synthName(e)

	case *surface.Hole:
		return ctx.elabHole(e.Span(), e.Name)

	case *surface.Placeholder:
		return ctx.elabHole(e.Span(), "")

	case *surface.TypeExpr:
		return &core.Universe{}, &core.UniverseVal{}

	case *surface.BoolLit:
		return &core.ConstLitTerm{Const: core.Bool(e.Value)}, core.StuckPrim(core.PrimBoolType)

	case *surface.Ann:
		typTerm := ctx.checkType(e.Type)
		typVal := ctx.eval(typTerm)
		exprTerm := ctx.Check(e.Expr, typVal)
		return &core.Ann{Expr: exprTerm, Type: typTerm}, typVal

	case *surface.Let:
		return ctx.synthLet(e)

	case *surface.FunArrow:
		inputTerm := ctx.checkType(e.Input)
		inputVal := ctx.eval(inputTerm)
		n := int(ctx.Locals.Len())
		ctx.Locals.PushParam("", inputVal)
		outputTerm := ctx.checkType(e.Output)
		ctx.Locals.Truncate(n)
		return &core.FunType{Plicity: core.Explicit, Name: core.NoName, Input: inputTerm, Output: outputTerm},
			&core.UniverseVal{}

	case *surface.FunType:
		return ctx.synthFunType(e)

	case *surface.FunLit:
		return ctx.synthFunLit(e)

	case *surface.FunApp:
		return ctx.synthApp(e)

	case *surface.RecordType:
		return ctx.synthRecordType(e)

	case *surface.RecordProj:
		return ctx.synthProj(e)

	case *surface.FormatRecord:
		return ctx.synthFormatRecord(e)

	case *surface.NumberLit:
		ctx.report(diagnostic.CodeAmbiguousNumericLiteral, e.Span(), "cannot infer the type of a numeric literal here; annotate it with `: T`")
		return &core.Prim{Prim: core.PrimReportedError}, &core.ReportedErrorVal{}

	case *surface.ByteStringLit:
		ctx.report(diagnostic.CodeAmbiguousNumericLiteral, e.Span(), "cannot infer the type of a byte string literal here; annotate it with `: T`")
		return &core.Prim{Prim: core.PrimReportedError}, &core.ReportedErrorVal{}

	case *surface.ArrayLit:
		return ctx.synthArrayLit(e)

	case *surface.RecordLit:
		ctx.report(diagnostic.CodeCannotInferType, e.Span(), "cannot infer the type of a record literal here; annotate it with `: T`")
		return &core.Prim{Prim: core.PrimReportedError}, &core.ReportedErrorVal{}

	case *surface.If:
		ctx.report(diagnostic.CodeCannotInferType, e.Span(), "cannot infer the type of an if-expression here; annotate it with `: T`")
		return &core.Prim{Prim: core.PrimReportedError}, &core.ReportedErrorVal{}

	case *surface.Match:
		ctx.report(diagnostic.CodeAmbiguousMatchExpression, e.Span(), "cannot infer the type of a match expression; annotate it with `: T`")
		return &core.Prim{Prim: core.PrimReportedError}, &core.ReportedErrorVal{}

	case *surface.BinOp:
		return ctx.synthBinOp(e)

	case *surface.UnaryOp:
		return ctx.synthUnaryOp(e)
	}

	ctx.report(diagnostic.CodeCannotInferType, e.Span(), "cannot infer a type for this expression")
	return &core.Prim{Prim: core.PrimReportedError}, &core.ReportedErrorVal{}
}

// checkType elaborates e as a type, i.e. checks it against Universe, and
// returns the resulting term directly (never wrapped in an Ann).
func (ctx *Context) checkType(e surface.Expr) core.Term {
	return ctx.Check(e, &core.UniverseVal{})
}

func (ctx *Context) synthName(e *surface.Name) (core.Term, core.Value) {
	if idx, typ, ok := ctx.Locals.Lookup(e.Text); ok {
		return &core.LocalVar{Index: idx}, typ
	}
	if lv, typ, ok := ctx.Items.Lookup(e.Text); ok {
		return &core.ItemVar{Level: lv}, typ
	}
	if p, ok := core.LookupPrim(e.Text); ok {
		if typ, ok := primTypes[p]; ok {
			return &core.Prim{Prim: p}, typ
		}
	}
	ctx.report(diagnostic.CodeUnboundName, e.Span(), "unbound name `"+e.Text+"`")
	return &core.Prim{Prim: core.PrimReportedError}, &core.ReportedErrorVal{}
}

func (ctx *Context) synthLet(e *surface.Let) (core.Term, core.Value) {
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
	bodyTerm, bodyTyp := ctx.Synth(e.Body)
	ctx.Locals.Truncate(n)

	sym := ctx.intern(e.Name)
	return &core.Let{Name: sym, Type: ctx.quote(defTyp), Def: defTerm, Body: bodyTerm}, bodyTyp
}

func (ctx *Context) synthFunType(e *surface.FunType) (core.Term, core.Value) {
	n := int(ctx.Locals.Len())
	var terms []core.Term
	var plicities []core.Plicity
	var names []core.Symbol
	for _, param := range e.Params {
		var typTerm core.Term
		if param.Type != nil {
			typTerm = ctx.checkType(param.Type)
		} else {
			typTerm = ctx.freshMetaType(MetaSource{Span: param.Pos, Suppress: true})
		}
		typVal := ctx.eval(typTerm)
		ctx.Locals.PushParam(param.Name, typVal)
		terms = append(terms, typTerm)
		if param.Plicity == surface.ParamImplicit {
			plicities = append(plicities, core.Implicit)
		} else {
			plicities = append(plicities, core.Explicit)
		}
		names = append(names, ctx.intern(param.Name))
	}
	outputTerm := ctx.checkType(e.Output)
	ctx.Locals.Truncate(n)

	result := outputTerm
	for i := len(terms) - 1; i >= 0; i-- {
		result = &core.FunType{Plicity: plicities[i], Name: names[i], Input: terms[i], Output: result}
	}
	return result, &core.UniverseVal{}
}

// synthFunLit only handles function literals whose every parameter carries
// an explicit annotation; an unannotated parameter makes the literal's type
// ambiguous (spec.md section 4.3's "function literals synthesize only when
// fully annotated").
func (ctx *Context) synthFunLit(e *surface.FunLit) (core.Term, core.Value) {
	for _, param := range e.Params {
		if param.Type == nil {
			ctx.report(diagnostic.CodeCannotInferType, param.Pos,
				"cannot infer the type of an unannotated function parameter; annotate it with `: T`")
			return &core.Prim{Prim: core.PrimReportedError}, &core.ReportedErrorVal{}
		}
	}

	n := int(ctx.Locals.Len())
	var terms []core.Term
	var plicities []core.Plicity
	var names []core.Symbol
	for _, param := range e.Params {
		typTerm := ctx.checkType(param.Type)
		typVal := ctx.eval(typTerm)
		ctx.Locals.PushParam(param.Name, typVal)
		terms = append(terms, typTerm)
		if param.Plicity == surface.ParamImplicit {
			plicities = append(plicities, core.Implicit)
		} else {
			plicities = append(plicities, core.Explicit)
		}
		names = append(names, ctx.intern(param.Name))
	}
	bodyTerm, bodyTyp := ctx.Synth(e.Body)
	bodyTypTerm := ctx.quote(bodyTyp)
	ctx.Locals.Truncate(n)

	resultTerm := bodyTerm
	resultTypeTerm := bodyTypTerm
	for i := len(terms) - 1; i >= 0; i-- {
		resultTerm = &core.FunLit{Plicity: plicities[i], Name: names[i], Body: resultTerm}
		resultTypeTerm = &core.FunType{Plicity: plicities[i], Name: names[i], Input: terms[i], Output: resultTypeTerm}
	}
	return resultTerm, ctx.eval(resultTypeTerm)
}

func (ctx *Context) synthApp(e *surface.FunApp) (core.Term, core.Value) {
	headTerm, headTyp := ctx.synth(e.Head)
	if !e.ImplicitArg {
		headTerm, headTyp = ctx.insertImplicits(e.Head.Span(), headTerm, headTyp)
	}

	forced := ctx.elimCtx().Force(headTyp)
	ft, ok := forced.(*core.FunTypeVal)
	if !ok {
		if _, isErr := forced.(*core.ReportedErrorVal); !isErr {
			ctx.report(diagnostic.CodeUnexpectedArgument, e.Span(), "applied a value that isn't a function")
		}
		return &core.Prim{Prim: core.PrimReportedError}, &core.ReportedErrorVal{}
	}

	wantImplicit := e.ImplicitArg
	if (ft.Plicity == core.Implicit) != wantImplicit {
		ctx.report(diagnostic.CodePlicityArgumentMismatch, e.Span(), "explicit/implicit argument mismatch")
	}

	argTerm := ctx.Check(e.Arg, ft.Input)
	argVal := ctx.eval(argTerm)
	resultTyp := ctx.elimCtx().EvalClosure(ft.Output, argVal)
	return &core.FunApp{Plicity: ft.Plicity, Head: headTerm, Arg: argTerm}, resultTyp
}

func (ctx *Context) synthRecordType(e *surface.RecordType) (core.Term, core.Value) {
	seen := map[string]bool{}
	n := int(ctx.Locals.Len())
	var labels []core.Symbol
	var terms []core.Term
	for _, f := range e.Fields {
		if seen[f.Label] {
			ctx.report(diagnostic.CodeDuplicateLabel, f.Pos, "duplicate field label `"+f.Label+"`")
		}
		seen[f.Label] = true
		typTerm := ctx.checkType(f.Type)
		typVal := ctx.eval(typTerm)
		ctx.Locals.PushParam(f.Label, typVal)
		labels = append(labels, ctx.intern(f.Label))
		terms = append(terms, typTerm)
	}
	ctx.Locals.Truncate(n)
	return &core.RecordType{Labels: labels, Types: terms}, &core.UniverseVal{}
}

func (ctx *Context) synthProj(e *surface.RecordProj) (core.Term, core.Value) {
	headTerm, headTyp := ctx.Synth(e.Head)
	forced := ctx.elimCtx().Force(headTyp)
	rt, ok := forced.(*core.RecordTypeVal)
	if !ok {
		if _, isErr := forced.(*core.ReportedErrorVal); !isErr {
			ctx.report(diagnostic.CodeUnknownField, e.Span(), "projected a field from a value that isn't a record")
		}
		return &core.Prim{Prim: core.PrimReportedError}, &core.ReportedErrorVal{}
	}
	headVal := ctx.eval(headTerm)
	label := ctx.intern(e.Label)
	fieldTyp, ok := ctx.fieldType(headVal, rt.Telescope, label)
	if !ok {
		ctx.report(diagnostic.CodeUnknownField, e.Span(), "record has no field `"+e.Label+"`")
		return &core.Prim{Prim: core.PrimReportedError}, &core.ReportedErrorVal{}
	}
	return &core.RecordProj{Head: headTerm, Label: label}, fieldTyp
}

// fieldType walks tele one entry at a time, projecting headVal for every
// entry consumed so later entries' dependent types see the right values,
// until it finds label (spec.md section 3.3's telescope splitting).
func (ctx *Context) fieldType(headVal core.Value, tele core.Telescope, label core.Symbol) (core.Value, bool) {
	cur := tele
	for {
		l, typ, cont, ok := ctx.elimCtx().SplitTelescope(cur)
		if !ok {
			return nil, false
		}
		if l == label {
			return typ, true
		}
		cur = cont(ctx.elimCtx().RecordProj(headVal, l))
	}
}

func (ctx *Context) synthFormatRecord(e *surface.FormatRecord) (core.Term, core.Value) {
	seen := map[string]bool{}
	n := int(ctx.Locals.Len())
	var labels []core.Symbol
	var formatTerms []core.Term
	for _, f := range e.Fields {
		if seen[f.Label] {
			ctx.report(diagnostic.CodeDuplicateLabel, f.Pos, "duplicate field label `"+f.Label+"`")
		}
		seen[f.Label] = true

		var fieldFormatTerm core.Term
		if f.Computed != nil {
			// `l = e` consumes no input: its value e becomes the field's
			// representation directly, desugared to succeed(T, e) (spec.md
			// section 4.5's "computed fields").
			valTerm, valTyp := ctx.Synth(f.Computed)
			typTerm := ctx.quote(valTyp)
			fieldFormatTerm = &core.FunApp{
				Plicity: core.Explicit,
				Head:    &core.FunApp{Plicity: core.Explicit, Head: &core.Prim{Prim: core.PrimFormatSucceed}, Arg: typTerm},
				Arg:     valTerm,
			}
		} else {
			fieldFormatTerm = ctx.Check(f.Format, core.StuckPrim(core.PrimFormatType))
			if f.Where != nil {
				fieldFormatVal := ctx.eval(fieldFormatTerm)
				reprTyp := ctx.elimCtx().FormatRepr(fieldFormatVal)
				predName := ctx.intern(f.Label)
				n2 := int(ctx.Locals.Len())
				ctx.Locals.PushParam(f.Label, reprTyp)
				predTerm := ctx.Check(f.Where, core.StuckPrim(core.PrimBoolType))
				ctx.Locals.Truncate(n2)
				fieldFormatTerm = &core.FormatCond{Name: predName, Format: fieldFormatTerm, Pred: predTerm}
			}
		}
		fieldFormatVal := ctx.eval(fieldFormatTerm)
		reprTyp := ctx.elimCtx().FormatRepr(fieldFormatVal)
		ctx.Locals.PushParam(f.Label, reprTyp)
		labels = append(labels, ctx.intern(f.Label))
		formatTerms = append(formatTerms, fieldFormatTerm)
	}
	ctx.Locals.Truncate(n)

	if e.Overlap {
		return &core.FormatOverlap{Labels: labels, Formats: formatTerms}, core.StuckPrim(core.PrimFormatType)
	}
	return &core.FormatRecord{Labels: labels, Formats: formatTerms}, core.StuckPrim(core.PrimFormatType)
}

// synthArrayLit synthesizes from the first element, then checks every other
// element against that same type (spec.md section 4.3 leaves an empty
// array's element type ambiguous without an expected type).
func (ctx *Context) synthArrayLit(e *surface.ArrayLit) (core.Term, core.Value) {
	if len(e.Exprs) == 0 {
		ctx.report(diagnostic.CodeCannotInferType, e.Span(), "cannot infer the element type of an empty array literal; annotate it with `: T`")
		return &core.Prim{Prim: core.PrimReportedError}, &core.ReportedErrorVal{}
	}
	firstTerm, elemTyp := ctx.Synth(e.Exprs[0])
	terms := []core.Term{firstTerm}
	for _, sub := range e.Exprs[1:] {
		terms = append(terms, ctx.Check(sub, elemTyp))
	}
	n := core.U(core.ConstU64, uint64(len(terms)), core.StyleDecimal)
	arrTyp := &core.Stuck{
		Head: core.PrimHead{Prim: core.PrimArrayType},
		Spine: []core.Elim{
			core.FunElim{Plicity: core.Explicit, Arg: &core.ConstLitVal{Const: n}},
			core.FunElim{Plicity: core.Explicit, Arg: elemTyp},
		},
	}
	return &core.ArrayLit{Exprs: terms}, arrTyp
}

func (ctx *Context) synthBinOp(e *surface.BinOp) (core.Term, core.Value) {
	lhsTerm, lhsTyp := ctx.Synth(e.Lhs)
	rhsTerm, rhsTyp := ctx.Synth(e.Rhs)
	p, resultTyp, ok := resolveBinOp(e.Op, lhsTyp, rhsTyp)
	if !ok {
		ctx.report(diagnostic.CodeFailedToUnify, e.Span(), "operands of this operator do not have compatible types")
		return &core.Prim{Prim: core.PrimReportedError}, &core.ReportedErrorVal{}
	}
	term := &core.FunApp{
		Plicity: core.Explicit,
		Head:    &core.FunApp{Plicity: core.Explicit, Head: &core.Prim{Prim: p}, Arg: lhsTerm},
		Arg:     rhsTerm,
	}
	if resultTyp == nil {
		return term, core.StuckPrim(core.PrimBoolType)
	}
	return term, resultTyp
}

func (ctx *Context) synthUnaryOp(e *surface.UnaryOp) (core.Term, core.Value) {
	operandTerm, operandTyp := ctx.Synth(e.Expr)
	switch e.Op {
	case surface.OpNot:
		if !isBoolPrim(ctx.elimCtx().Force(operandTyp)) {
			ctx.report(diagnostic.CodeFailedToUnify, e.Span(), "`!` expects a Bool operand")
			return &core.Prim{Prim: core.PrimReportedError}, &core.ReportedErrorVal{}
		}
		return &core.FunApp{Plicity: core.Explicit, Head: &core.Prim{Prim: core.PrimBoolNot}, Arg: operandTerm},
			core.StuckPrim(core.PrimBoolType)
	case surface.OpNeg:
		if _, ok := numericPrimOf(ctx.elimCtx().Force(operandTyp)); !ok {
			ctx.report(diagnostic.CodeFailedToUnify, e.Span(), "`-` expects a numeric operand")
			return &core.Prim{Prim: core.PrimReportedError}, &core.ReportedErrorVal{}
		}
		return &core.FunApp{Plicity: core.Explicit, Head: &core.Prim{Prim: core.PrimIntNeg}, Arg: operandTerm}, operandTyp
	}
	ctx.report(diagnostic.CodeCannotInferType, e.Span(), "unsupported unary operator")
	return &core.Prim{Prim: core.PrimReportedError}, &core.ReportedErrorVal{}
}
