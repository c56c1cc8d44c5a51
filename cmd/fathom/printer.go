package main

import (
	"fmt"
	"strings"

	"github.com/yeslogic/ddl/internal/core"
)

// formatTerm renders a quoted core.Term as Fathom-like surface syntax, for
// the norm/type subcommands. It is deliberately minimal: good enough to
// let a user recognize what they wrote, not a roundtrippable pretty
// printer.
func formatTerm(t core.Term) string {
	switch t := t.(type) {
	case nil:
		return "<nil>"
	case *core.ItemVar:
		return fmt.Sprintf("item#%d", t.Level)
	case *core.LocalVar:
		return fmt.Sprintf("local#%d", t.Index)
	case *core.MetaVar:
		return fmt.Sprintf("?%d", t.Level)
	case *core.InsertedMeta:
		return fmt.Sprintf("?%d", t.Level)
	case *core.Ann:
		return fmt.Sprintf("(%s : %s)", formatTerm(t.Expr), formatTerm(t.Type))
	case *core.Let:
		return fmt.Sprintf("let %s = %s in %s", symbolName(t.Name), formatTerm(t.Def), formatTerm(t.Body))
	case *core.Universe:
		return "Type"
	case *core.FunType:
		arrow := "->"
		if t.Plicity == core.Implicit {
			return fmt.Sprintf("({%s} : %s) %s %s", symbolName(t.Name), formatTerm(t.Input), arrow, formatTerm(t.Output))
		}
		return fmt.Sprintf("(%s : %s) %s %s", symbolName(t.Name), formatTerm(t.Input), arrow, formatTerm(t.Output))
	case *core.FunLit:
		return fmt.Sprintf("fun %s => %s", symbolName(t.Name), formatTerm(t.Body))
	case *core.FunApp:
		if t.Plicity == core.Implicit {
			return fmt.Sprintf("%s {%s}", formatTerm(t.Head), formatTerm(t.Arg))
		}
		return fmt.Sprintf("%s %s", formatTerm(t.Head), formatTerm(t.Arg))
	case *core.RecordType:
		return fmt.Sprintf("{ %s }", joinFields(t.Labels, t.Types))
	case *core.RecordLit:
		return fmt.Sprintf("{ %s }", joinFields(t.Labels, t.Exprs))
	case *core.RecordProj:
		return fmt.Sprintf("%s.%s", formatTerm(t.Head), symbolName(t.Label))
	case *core.ArrayLit:
		parts := make([]string, len(t.Exprs))
		for i, e := range t.Exprs {
			parts[i] = formatTerm(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *core.FormatRecord:
		return fmt.Sprintf("{ %s }", joinFields(t.Labels, t.Formats))
	case *core.FormatOverlap:
		return fmt.Sprintf("overlap { %s }", joinFields(t.Labels, t.Formats))
	case *core.FormatCond:
		return fmt.Sprintf("%s <- %s where %s", symbolName(t.Name), formatTerm(t.Format), formatTerm(t.Pred))
	case *core.Prim:
		return t.Prim.Name()
	case *core.ConstLitTerm:
		return formatConst(t.Const)
	case *core.ConstMatch:
		return fmt.Sprintf("match %s { ... }", formatTerm(t.Head))
	default:
		return fmt.Sprintf("<%T>", t)
	}
}

func joinFields(labels []core.Symbol, terms []core.Term) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = fmt.Sprintf("%s = %s", symbolName(l), formatTerm(terms[i]))
	}
	return strings.Join(parts, ", ")
}

func symbolName(s core.Symbol) string {
	if !s.Named {
		return "_"
	}
	return "x"
}

func formatConst(c core.Const) string {
	switch c.Kind {
	case core.ConstBool:
		return fmt.Sprintf("%t", c.BoolValue())
	case core.ConstF32, core.ConstF64:
		return fmt.Sprintf("%g", c.FloatValue())
	case core.ConstPos:
		return fmt.Sprintf("@%#x", c.Bits)
	case core.ConstS8, core.ConstS16, core.ConstS32, core.ConstS64:
		return fmt.Sprintf("%d", c.SignedValue())
	default:
		return fmt.Sprintf("%d", c.Bits)
	}
}

// formatValue renders a core.Value read out of a binary buffer for the
// `data` subcommand; values produced by read_entrypoint are always already
// in weak head normal form, so this does not need to force anything.
func formatValue(v core.Value) string {
	switch v := v.(type) {
	case nil:
		return "<nil>"
	case *core.ConstLitVal:
		return formatConst(v.Const)
	case *core.RecordLitVal:
		parts := make([]string, len(v.Labels))
		for i, l := range v.Labels {
			parts[i] = fmt.Sprintf("%s = %s", symbolName(l), formatValue(v.Exprs[i]))
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case *core.ArrayLitVal:
		parts := make([]string, len(v.Exprs))
		for i, e := range v.Exprs {
			parts[i] = formatValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("<%T>", v)
	}
}
