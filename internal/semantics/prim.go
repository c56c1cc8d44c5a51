package semantics

import "github.com/yeslogic/ddl/internal/core"

// reducePrim attempts to reduce a fully (or over-) applied prim given its
// full argument spine, following spec.md section 4.2's primitive reduction
// rules and section 6.4's predicate operators. ok is false when the
// arguments aren't concrete enough to reduce (e.g. one operand is itself
// stuck), in which case the caller leaves the application stuck. Repr is
// the exception: FormatRepr itself handles stuck formats.
func (ctx ElimContext) reducePrim(p core.PrimName, spine []core.Elim) (core.Value, bool) {
	need := p.Arity()
	if need == 0 || len(spine) < need {
		return nil, false
	}
	args := make([]core.Value, need)
	for i := 0; i < need; i++ {
		args[i] = ctx.Force(spineArg(spine, i))
	}
	for _, a := range args {
		if _, stuck := a.(*core.Stuck); stuck && p != core.PrimFormatRepr {
			return nil, false
		}
		if _, reported := a.(*core.ReportedErrorVal); reported {
			return &core.ReportedErrorVal{}, true
		}
	}

	reduce := func(v core.Value) (core.Value, bool) {
		if len(spine) == need {
			return v, true
		}
		// Extra arguments beyond arity: re-apply them to the result.
		rest := spine[need:]
		return ctx.applySpine(v, rest), true
	}

	switch p {
	case core.PrimBoolNot:
		return reduce(&core.ConstLitVal{Const: core.Bool(!constBool(args[0]))})
	case core.PrimBoolAnd:
		return reduce(&core.ConstLitVal{Const: core.Bool(constBool(args[0]) && constBool(args[1]))})
	case core.PrimBoolOr:
		return reduce(&core.ConstLitVal{Const: core.Bool(constBool(args[0]) || constBool(args[1]))})
	case core.PrimBoolEq:
		return reduce(&core.ConstLitVal{Const: core.Bool(constBool(args[0]) == constBool(args[1]))})
	case core.PrimBoolNeq:
		return reduce(&core.ConstLitVal{Const: core.Bool(constBool(args[0]) != constBool(args[1]))})

	case core.PrimIntEq:
		return reduce(&core.ConstLitVal{Const: core.Bool(intBits(args[0]) == intBits(args[1]))})
	case core.PrimIntNeq:
		return reduce(&core.ConstLitVal{Const: core.Bool(intBits(args[0]) != intBits(args[1]))})
	case core.PrimIntLt:
		return reduce(intCompare(args[0], args[1], func(a, b int64) bool { return a < b }, func(a, b uint64) bool { return a < b }))
	case core.PrimIntLe:
		return reduce(intCompare(args[0], args[1], func(a, b int64) bool { return a <= b }, func(a, b uint64) bool { return a <= b }))
	case core.PrimIntGt:
		return reduce(intCompare(args[0], args[1], func(a, b int64) bool { return a > b }, func(a, b uint64) bool { return a > b }))
	case core.PrimIntGe:
		return reduce(intCompare(args[0], args[1], func(a, b int64) bool { return a >= b }, func(a, b uint64) bool { return a >= b }))
	case core.PrimIntAdd:
		return reduce(intArith(args[0], args[1], func(a, b int64) int64 { return a + b }, func(a, b uint64) uint64 { return a + b }))
	case core.PrimIntSub:
		return reduce(intArith(args[0], args[1], func(a, b int64) int64 { return a - b }, func(a, b uint64) uint64 { return a - b }))
	case core.PrimIntMul:
		return reduce(intArith(args[0], args[1], func(a, b int64) int64 { return a * b }, func(a, b uint64) uint64 { return a * b }))
	case core.PrimIntNeg:
		c := constOf(args[0])
		if isSignedKind(c.Kind) {
			return reduce(&core.ConstLitVal{Const: core.S(c.Kind, -c.SignedValue())})
		}
		return reduce(&core.ConstLitVal{Const: core.U(c.Kind, -c.Bits, c.Style)})

	case core.PrimFormatRepr:
		return reduce(ctx.FormatRepr(args[0]))

	default:
		return nil, false
	}
}

func constOf(v core.Value) core.Const {
	cl, ok := v.(*core.ConstLitVal)
	if !ok {
		badTerm("expected constant value, got %T", v)
	}
	return cl.Const
}

func constBool(v core.Value) bool {
	return constOf(v).BoolValue()
}

func intBits(v core.Value) uint64 {
	return constOf(v).Bits
}

func isSignedKind(k core.ConstKind) bool {
	switch k {
	case core.ConstS8, core.ConstS16, core.ConstS32, core.ConstS64:
		return true
	}
	return false
}

func intCompare(a, b core.Value, signed func(int64, int64) bool, unsigned func(uint64, uint64) bool) core.Value {
	ca, cb := constOf(a), constOf(b)
	if isSignedKind(ca.Kind) {
		return &core.ConstLitVal{Const: core.Bool(signed(ca.SignedValue(), cb.SignedValue()))}
	}
	return &core.ConstLitVal{Const: core.Bool(unsigned(ca.Bits, cb.Bits))}
}

func intArith(a, b core.Value, signed func(int64, int64) int64, unsigned func(uint64, uint64) uint64) core.Value {
	ca, cb := constOf(a), constOf(b)
	if isSignedKind(ca.Kind) {
		return &core.ConstLitVal{Const: core.S(ca.Kind, signed(ca.SignedValue(), cb.SignedValue()))}
	}
	return &core.ConstLitVal{Const: core.U(ca.Kind, unsigned(ca.Bits, cb.Bits), ca.Style)}
}
