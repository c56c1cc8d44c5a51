package elaborate

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yeslogic/ddl/internal/core"
	"github.com/yeslogic/ddl/internal/diagnostic"
	"github.com/yeslogic/ddl/internal/surface"
	"github.com/yeslogic/ddl/internal/symbol"
)

func elaborate(t *testing.T, src string) (*Module, *diagnostic.DiagnosticList, *Context) {
	t.Helper()
	mod, errs := surface.ParseSource(src)
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	module, diags, ctx := ElaborateModule(symbol.NewTable(), mod)
	return module, diags, ctx
}

func requireNoErrors(t *testing.T, diags *diagnostic.DiagnosticList) {
	t.Helper()
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diags.Format())
	}
}

func TestElaborateNumberLitAgainstU32(t *testing.T) {
	module, diags, ctx := elaborate(t, `def answer : U32 = 42;`)
	requireNoErrors(t, diags)

	want := []string{"answer"}
	if diff := cmp.Diff(want, module.Names); diff != "" {
		t.Fatalf("item names mismatch (-want +got):\n%s", diff)
	}

	val, ok := ctx.Force(module.Values[0]).(*core.ConstLitVal)
	if !ok {
		t.Fatalf("expected a constant value, got %T", module.Values[0])
	}
	if !val.Const.Equal(core.U(core.ConstU32, 42, core.StyleDecimal)) {
		t.Fatalf("got const %+v", val.Const)
	}
}

func TestElaborateUnboundNameReported(t *testing.T) {
	_, diags, _ := elaborate(t, `def x : U32 = y;`)
	if !diags.HasErrors() {
		t.Fatalf("expected an unbound-name diagnostic")
	}
	errs := diags.Errors()
	if errs[0].Code != diagnostic.CodeUnboundName {
		t.Fatalf("got code %q, want %q", errs[0].Code, diagnostic.CodeUnboundName)
	}
}

func TestElaborateIfDesugarsToConstMatch(t *testing.T) {
	module, diags, ctx := elaborate(t, `def picked : U8 = if true then 1 else 2;`)
	requireNoErrors(t, diags)

	val, ok := ctx.Force(module.Values[0]).(*core.ConstLitVal)
	if !ok {
		t.Fatalf("expected a constant value, got %T", module.Values[0])
	}
	if !val.Const.Equal(core.U(core.ConstU8, 1, core.StyleDecimal)) {
		t.Fatalf("got const %+v, want 1 (true branch)", val.Const)
	}
}

func TestElaborateRecordLiteralTupleSugar(t *testing.T) {
	module, diags, ctx := elaborate(t, `def pair : (U8, U8) = (1, 2);`)
	requireNoErrors(t, diags)

	lit, ok := ctx.Force(module.Values[0]).(*core.RecordLitVal)
	if !ok {
		t.Fatalf("expected a record literal value, got %T", module.Values[0])
	}
	if len(lit.Exprs) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(lit.Exprs))
	}
}

func TestElaborateFormatRecordReprCoercion(t *testing.T) {
	// A FormatRecord checked against `entry : Type` coerces through the sole
	// Format => Type rule (Repr).
	_, diags, _ := elaborate(t, `def entry : Type = { a <- u8, b <- u16be };`)
	requireNoErrors(t, diags)
}

func TestElaborateMatchNonExhaustiveReported(t *testing.T) {
	_, diags, _ := elaborate(t, `
def f : U8 -> U8 = fun x => match x {
  0 => 1,
};`)
	if !diags.HasErrors() {
		t.Fatalf("expected a non-exhaustive-match diagnostic")
	}
	found := false
	for _, d := range diags.Errors() {
		if d.Code == diagnostic.CodeNonExhaustiveMatch {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %q among: %v", diagnostic.CodeNonExhaustiveMatch, diags.Errors())
	}
}

func TestElaborateMatchWithCatchAll(t *testing.T) {
	_, diags, _ := elaborate(t, `
def f : U8 -> U8 = fun x => match x {
  0 => 1,
  _ => 2,
};`)
	requireNoErrors(t, diags)
}

func TestElaborateDuplicateItemReported(t *testing.T) {
	_, diags, _ := elaborate(t, `
def a : U8 = 1;
def a : U8 = 2;
`)
	if !diags.HasErrors() {
		t.Fatalf("expected a diagnostic for the duplicate item")
	}
}

func TestElaborateRecordLitFieldTypesTelescope(t *testing.T) {
	module, diags, ctx := elaborate(t, `def pt : { x : U8, y : U8 } = { x = 1, y = 2 };`)
	requireNoErrors(t, diags)

	lit, ok := ctx.Force(module.Values[0]).(*core.RecordLitVal)
	if !ok {
		t.Fatalf("expected a record literal value, got %T", module.Values[0])
	}
	if diff := cmp.Diff(2, len(lit.Labels)); diff != "" {
		t.Fatalf("label count mismatch (-want +got):\n%s", diff)
	}
}

func (ctx *Context) Force(v core.Value) core.Value {
	return ctx.elimCtx().Force(v)
}
