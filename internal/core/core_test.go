package core

import "testing"

func TestPlicityString(t *testing.T) {
	if Explicit.String() != "explicit" {
		t.Fatalf("Explicit.String() = %q", Explicit.String())
	}
	if Implicit.String() != "implicit" {
		t.Fatalf("Implicit.String() = %q", Implicit.String())
	}
}

func TestConstEqual(t *testing.T) {
	a := U(ConstU8, 7, StyleDecimal)
	b := U(ConstU8, 7, StyleHex)
	if !a.Equal(b) {
		t.Fatalf("constants differing only in style should be equal")
	}

	c := U(ConstU16, 7, StyleDecimal)
	if a.Equal(c) {
		t.Fatalf("constants of different kinds should not be equal")
	}

	d := U(ConstU8, 8, StyleDecimal)
	if a.Equal(d) {
		t.Fatalf("constants of different value should not be equal")
	}
}

func TestConstSignedRoundTrip(t *testing.T) {
	c := S(ConstS32, -42)
	if c.SignedValue() != -42 {
		t.Fatalf("SignedValue() = %d, want -42", c.SignedValue())
	}
}

func TestPrimLookupRoundTrip(t *testing.T) {
	p, ok := LookupPrim("u16be")
	if !ok || p != PrimFormatU16Be {
		t.Fatalf("LookupPrim(u16be) = %v, %v", p, ok)
	}
	if p.Name() != "u16be" {
		t.Fatalf("Name() = %q, want u16be", p.Name())
	}

	reprType, ok := p.ReprType()
	if !ok || reprType != PrimU16Type {
		t.Fatalf("ReprType() = %v, %v", reprType, ok)
	}
}

func TestPrimArity(t *testing.T) {
	if PrimFormatArray16.Arity() != 2 {
		t.Fatalf("FormatArray16 arity = %d, want 2", PrimFormatArray16.Arity())
	}
	if PrimFormatRepr.Arity() != 1 {
		t.Fatalf("FormatRepr arity = %d, want 1", PrimFormatRepr.Arity())
	}
	if PrimBoolType.Arity() != 0 {
		t.Fatalf("BoolType arity = %d, want 0", PrimBoolType.Arity())
	}
}

func TestPrimArrayLenType(t *testing.T) {
	cases := []struct {
		name string
		want PrimName
	}{
		{"array8", PrimU8Type},
		{"array16", PrimU16Type},
		{"array32", PrimU32Type},
		{"array64", PrimU64Type},
	}
	for _, c := range cases {
		p, ok := LookupPrim(c.name)
		if !ok {
			t.Fatalf("LookupPrim(%s) not found", c.name)
		}
		lenType, ok := p.ArrayLenType()
		if !ok || lenType != c.want {
			t.Fatalf("%s.ArrayLenType() = %v, %v; want %v", c.name, lenType, ok, c.want)
		}
	}
}

func TestStuckWithElim(t *testing.T) {
	base := StuckVar(0)
	extended := base.WithElim(FunElim{Arg: &ConstLitVal{Const: Bool(true)}})

	if len(base.Spine) != 0 {
		t.Fatalf("WithElim mutated the original spine")
	}
	if len(extended.Spine) != 1 {
		t.Fatalf("expected one elimination frame, got %d", len(extended.Spine))
	}
}
