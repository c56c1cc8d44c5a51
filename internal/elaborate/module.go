package elaborate

import (
	"github.com/yeslogic/ddl/internal/core"
	"github.com/yeslogic/ddl/internal/diagnostic"
	"github.com/yeslogic/ddl/internal/env"
	"github.com/yeslogic/ddl/internal/surface"
	"github.com/yeslogic/ddl/internal/symbol"
)

// Module is a fully elaborated module: parallel item names, types, and
// definitions in elaboration order (spec.md section 4.3's top-level entry
// point, "ElaborateModule").
type Module struct {
	Names  []string
	Types  []core.Value
	Values []core.Value
}

// ElaborateModule elaborates every item of mod in source order, threading a
// fresh Context through the whole module so later items can reference
// earlier ones by name (spec.md section 4.3: "items may reference earlier
// definitions only", ruling out mutual recursion between top-level items —
// a forward or self reference resolves as an unbound name, and
// CodeCyclicItemDependency is reported below when an item reuses the name
// of an earlier one).
func ElaborateModule(symbols *symbol.Table, mod *surface.Module) (*Module, *diagnostic.DiagnosticList, *Context) {
	ctx := NewContext(symbols)
	diags := diagnostic.NewDiagnosticList("")

	seen := map[string]bool{}
	for _, item := range mod.Items {
		if seen[item.Name] {
			ctx.report(diagnostic.CodeDuplicateLabel, item.Pos, "duplicate top-level definition `"+item.Name+"`")
		}
		seen[item.Name] = true

		// An item's own name is not yet in ItemEnv while its body
		// elaborates, so a reference to itself resolves as an unbound name
		// rather than silently becoming a self-loop (spec.md section 4.3 —
		// items are ordered, non-recursive definitions; recursive formats
		// are expressed through FormatLink/FormatDeref instead).
		if _, _, ok := ctx.Items.Lookup(item.Name); ok {
			ctx.report(diagnostic.CodeCyclicItemDependency, item.Pos, "item `"+item.Name+"` was already defined")
		}

		var typTerm core.Term
		var typVal core.Value
		var defTerm core.Term
		if item.Type != nil {
			typTerm = ctx.checkType(item.Type)
			typVal = ctx.eval(typTerm)
			defTerm = ctx.Check(item.Def, typVal)
		} else {
			defTerm, typVal = ctx.Synth(item.Def)
		}
		defVal := ctx.eval(defTerm)
		ctx.Items.Push(item.Name, typVal, defVal)
	}

	ctx.Finalize(diags)

	n := int(ctx.Items.Types.Len())
	types := make([]core.Value, n)
	values := make([]core.Value, n)
	for i := 0; i < n; i++ {
		types[i], _ = ctx.Items.Types.GetLevel(env.Level(i))
		values[i], _ = ctx.Items.Values.GetLevel(env.Level(i))
	}

	return &Module{
		Names:  append([]string{}, ctx.Items.Names...),
		Types:  types,
		Values: values,
	}, diags, ctx
}
