package elaborate

import (
	"github.com/yeslogic/ddl/internal/core"
	"github.com/yeslogic/ddl/internal/diagnostic"
	"github.com/yeslogic/ddl/internal/surface"
)

// checkMatch elaborates a match expression into a ConstMatch, the only
// pattern-matching shape the core language has (spec.md section 3.2,
// invariant 4; section 4.3's "non-constant patterns stay unsupported" —
// every arm's pattern must be a literal or a catch-all binder, never a
// constructor pattern, since there are no sum types in the core language to
// destructure).
func (ctx *Context) checkMatch(e *surface.Match, expected core.Value) core.Term {
	scrutTerm, scrutTyp := ctx.Synth(e.Scrutinee)
	forcedScrutTyp := ctx.elimCtx().Force(scrutTyp)

	scrutKind, isNumeric := numericKindOf(headPrim(forcedScrutTyp))
	isBool := isBoolPrim(forcedScrutTyp)
	if !isNumeric && !isBool {
		if _, isErr := forcedScrutTyp.(*core.ReportedErrorVal); !isErr {
			ctx.report(diagnostic.CodeUnsupportedPatternMatch, e.Span(), "match scrutinee must have a numeric or Bool type")
		}
		return &core.Prim{Prim: core.PrimReportedError}
	}

	var branches []core.ConstBranch
	var defaultTerm core.Term
	seen := map[string]bool{}
	unreachableReported := false

	for _, arm := range e.Arms {
		if defaultTerm != nil {
			if !unreachableReported {
				ctx.report(diagnostic.CodeUnreachablePattern, arm.Pos, "this pattern is unreachable after a catch-all arm")
				unreachableReported = true
			}
			continue
		}

		switch pat := arm.Pattern.(type) {
		case *surface.NumberPattern:
			if !isNumeric {
				ctx.report(diagnostic.CodeUnsupportedPatternMatch, arm.Pos, "a numeric pattern cannot match a Bool scrutinee")
				continue
			}
			if seen[pat.Text] {
				ctx.report(diagnostic.CodeUnreachablePattern, arm.Pos, "duplicate pattern `"+pat.Text+"`")
				continue
			}
			seen[pat.Text] = true
			constTerm := ctx.checkNumberLit(&surface.NumberLit{Text: pat.Text}, scrutKind)
			body := ctx.Check(arm.Body, expected)
			if constLit, ok := constTerm.(*core.ConstLitTerm); ok {
				branches = append(branches, core.ConstBranch{Const: constLit.Const, Body: body})
			}

		case *surface.NamePattern:
			if pat.Name == "_" {
				defaultTerm = ctx.Check(arm.Body, expected)
				continue
			}
			n := int(ctx.Locals.Len())
			ctx.Locals.Push(pat.Name, scrutTyp, ctx.eval(scrutTerm), core.EntryDef)
			defaultTerm = ctx.Check(arm.Body, expected)
			ctx.Locals.Truncate(n)

		default:
			ctx.report(diagnostic.CodeUnsupportedPatternMatch, arm.Pos, "unsupported pattern shape")
		}
	}

	if defaultTerm == nil {
		if isBool && len(branches) >= 2 {
			// true and false both covered explicitly; fine without a catch-all.
		} else {
			ctx.report(diagnostic.CodeNonExhaustiveMatch, e.Span(), "match is not exhaustive; add a catch-all `_` arm")
		}
	}

	return &core.ConstMatch{Head: scrutTerm, Branches: branches, Default: defaultTerm}
}
