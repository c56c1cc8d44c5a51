package unify

import (
	"testing"

	"github.com/yeslogic/ddl/internal/core"
	"github.com/yeslogic/ddl/internal/env"
	"github.com/yeslogic/ddl/internal/semantics"
)

func newMetas(n int) *env.UniqueEnv[semantics.MetaEntry] {
	metas := env.NewUniqueEnv[semantics.MetaEntry]()
	for i := 0; i < n; i++ {
		metas.Push(semantics.MetaEntry{})
	}
	return metas
}

func TestUnifySolvesPatternMeta(t *testing.T) {
	items := env.NewSliceEnv[core.Value](nil)
	metas := newMetas(1)
	ctx := New(items, metas, 1)

	// ?0 x =?= x, under one bound variable x at level 0: solves ?0 := fun a => a.
	x := core.StuckVar(0)
	meta := (&core.Stuck{Head: core.MetaVarHead{Level: 0}}).WithElim(core.FunElim{Plicity: core.Explicit, Arg: x})

	if err := ctx.Unify(meta, x); err != nil {
		t.Fatalf("Unify failed: %v", err)
	}

	entry, ok := metas.GetLevel(0)
	if !ok || !entry.IsSolved() {
		t.Fatalf("metavariable was not solved")
	}

	// Applying the solution to a fresh argument should yield that argument
	// back (it solved to the identity function).
	elim := semantics.NewElimContext(items, metas.Slice())
	arg := &core.ConstLitVal{Const: core.Bool(true)}
	got := elim.FunApp(entry.Solution, core.Explicit, arg)
	lit, ok := got.(*core.ConstLitVal)
	if !ok || !lit.Const.Equal(arg.Const) {
		t.Fatalf("solution applied to arg = %#v, want %#v", got, arg)
	}
}

func TestUnifyRejectsNonPatternSpine(t *testing.T) {
	items := env.NewSliceEnv[core.Value](nil)
	metas := newMetas(1)
	ctx := New(items, metas, 0)

	// ?0 applied to a non-variable argument (a constant) cannot be solved
	// by pattern unification.
	arg := &core.ConstLitVal{Const: core.Bool(true)}
	meta := (&core.Stuck{Head: core.MetaVarHead{Level: 0}}).WithElim(core.FunElim{Plicity: core.Explicit, Arg: arg})

	if err := ctx.Unify(meta, arg); err == nil {
		t.Fatalf("expected a unification error for a non-pattern spine")
	}
}

func TestUnifyConstLits(t *testing.T) {
	items := env.NewSliceEnv[core.Value](nil)
	metas := newMetas(0)
	ctx := New(items, metas, 0)

	a := &core.ConstLitVal{Const: core.U(core.ConstU8, 3, core.StyleDecimal)}
	b := &core.ConstLitVal{Const: core.U(core.ConstU8, 3, core.StyleHex)}
	if err := ctx.Unify(a, b); err != nil {
		t.Fatalf("equal constants (differing only in display style) should unify: %v", err)
	}

	c := &core.ConstLitVal{Const: core.U(core.ConstU8, 4, core.StyleDecimal)}
	if err := ctx.Unify(a, c); err == nil {
		t.Fatalf("expected unequal constants to fail to unify")
	}
}
