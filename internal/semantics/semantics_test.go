package semantics

import (
	"testing"

	"github.com/yeslogic/ddl/internal/core"
	"github.com/yeslogic/ddl/internal/env"
	"github.com/yeslogic/ddl/internal/symbol"
)

func emptyEnvs() (env.SliceEnv[core.Value], env.SliceEnv[MetaEntry]) {
	return env.NewSliceEnv[core.Value](nil), env.NewSliceEnv[MetaEntry](nil)
}

func TestEvalQuoteIdentityFunction(t *testing.T) {
	items, metas := emptyEnvs()
	// fun x => x, applied to a U8 literal, should normalize back to the
	// literal.
	identity := &core.FunLit{Name: core.NoName, Body: &core.LocalVar{Index: 0}}
	ctx := NewEvalContext(items, metas, env.NewSharedEnv[core.Value]())
	fn := ctx.Eval(identity)

	arg := &core.ConstLitVal{Const: core.U(core.ConstU8, 42, core.StyleDecimal)}
	applied := ctx.elim().FunApp(fn, core.Explicit, arg)

	q := NewQuoteContext(items, metas, 0)
	got := q.Quote(applied)

	lit, ok := got.(*core.ConstLitTerm)
	if !ok || lit.Const.Bits != 42 {
		t.Fatalf("Quote(applied identity) = %#v, want ConstLitTerm{42}", got)
	}
}

func TestConversionRecordEta(t *testing.T) {
	items, metas := emptyEnvs()
	conv := NewConversionContext(items, metas, 1)

	tbl := symbol.NewTable()
	x := core.NameOf(tbl.Intern("x"))

	lit := &core.RecordLitVal{
		Labels: []core.Symbol{x},
		Exprs:  []core.Value{&core.ConstLitVal{Const: core.Bool(true)}},
	}

	if !conv.IsEqual(lit, lit) {
		t.Fatalf("a record literal should be equal to itself")
	}

	// A stuck local variable standing for a record, projected to the same
	// field and wrapped back into a literal, should compare equal to the
	// original literal under the eta law for records.
	stuckRecord := core.StuckVar(0)
	elimCtx := NewElimContext(items, metas)
	projectedX := elimCtx.RecordProj(stuckRecord, x)
	asRecord := &core.RecordLitVal{Labels: []core.Symbol{x}, Exprs: []core.Value{projectedX}}

	if !conv.IsEqual(asRecord, stuckRecord) {
		t.Fatalf("eta-expanded record should be equal to its stuck source")
	}
}

func TestFormatReprBaseTypes(t *testing.T) {
	items, metas := emptyEnvs()
	elimCtx := NewElimContext(items, metas)

	repr := elimCtx.FormatRepr(core.StuckPrim(core.PrimFormatU16Be))
	s, ok := repr.(*core.Stuck)
	if !ok {
		t.Fatalf("FormatRepr(u16be) = %#v, want stuck U16 type", repr)
	}
	ph, ok := s.Head.(core.PrimHead)
	if !ok || ph.Prim != core.PrimU16Type {
		t.Fatalf("FormatRepr(u16be) head = %#v, want U16Type", s.Head)
	}
}

func TestMatchConstDispatch(t *testing.T) {
	items, metas := emptyEnvs()
	ctx := NewEvalContext(items, metas, env.NewSharedEnv[core.Value]())

	term := &core.ConstMatch{
		Head: &core.ConstLitTerm{Const: core.Bool(true)},
		Branches: []core.ConstBranch{
			{Const: core.Bool(true), Body: &core.ConstLitTerm{Const: core.U(core.ConstU8, 1, core.StyleDecimal)}},
			{Const: core.Bool(false), Body: &core.ConstLitTerm{Const: core.U(core.ConstU8, 0, core.StyleDecimal)}},
		},
	}
	got := ctx.Eval(term)
	lit, ok := got.(*core.ConstLitVal)
	if !ok || lit.Const.Bits != 1 {
		t.Fatalf("Eval(match true) = %#v, want ConstLitVal{1}", got)
	}
}
