package elaborate

import (
	"strconv"
	"strings"

	"github.com/yeslogic/ddl/internal/core"
	"github.com/yeslogic/ddl/internal/diagnostic"
	"github.com/yeslogic/ddl/internal/surface"
)

// numericKindOf maps a base-type prim to the ConstKind it checks numeric
// literals against, for the kinds spec.md section 4.3 allows as a literal's
// expected type.
func numericKindOf(p core.PrimName) (core.ConstKind, bool) {
	switch p {
	case core.PrimU8Type:
		return core.ConstU8, true
	case core.PrimU16Type:
		return core.ConstU16, true
	case core.PrimU32Type:
		return core.ConstU32, true
	case core.PrimU64Type:
		return core.ConstU64, true
	case core.PrimS8Type:
		return core.ConstS8, true
	case core.PrimS16Type:
		return core.ConstS16, true
	case core.PrimS32Type:
		return core.ConstS32, true
	case core.PrimS64Type:
		return core.ConstS64, true
	case core.PrimF32Type:
		return core.ConstF32, true
	case core.PrimF64Type:
		return core.ConstF64, true
	}
	return 0, false
}

func bitWidth(k core.ConstKind) uint {
	switch k {
	case core.ConstU8, core.ConstS8:
		return 8
	case core.ConstU16, core.ConstS16:
		return 16
	case core.ConstU32, core.ConstS32:
		return 32
	case core.ConstU64, core.ConstS64:
		return 64
	}
	return 64
}

func isSigned(k core.ConstKind) bool {
	switch k {
	case core.ConstS8, core.ConstS16, core.ConstS32, core.ConstS64:
		return true
	}
	return false
}

func isFloatKind(k core.ConstKind) bool {
	return k == core.ConstF32 || k == core.ConstF64
}

// checkNumberLit elaborates a surface number literal against a known
// numeric ConstKind, preserving its written radix as a UIntStyle (spec.md
// section 4.3's "numeric literal styles" / section 9's property 1).
func (ctx *Context) checkNumberLit(lit *surface.NumberLit, kind core.ConstKind) core.Term {
	text := strings.ReplaceAll(lit.Text, "_", "")

	if isFloatKind(kind) {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			ctx.report(diagnostic.CodeInvalidNumericLiteral, lit.Span(), "invalid floating-point literal "+lit.Text)
			return &core.Prim{Prim: core.PrimReportedError}
		}
		return &core.ConstLitTerm{Const: core.F(kind, v)}
	}

	base, digits, style := 10, text, core.StyleDecimal
	switch {
	case strings.HasPrefix(text, "0x"), strings.HasPrefix(text, "0X"):
		base, digits, style = 16, text[2:], core.StyleHex
	case strings.HasPrefix(text, "0b"), strings.HasPrefix(text, "0B"):
		base, digits, style = 2, text[2:], core.StyleBinary
	case strings.HasPrefix(text, "0o"), strings.HasPrefix(text, "0O"):
		base, digits, style = 8, text[2:], core.StyleOctal
	}

	bits, err := strconv.ParseUint(digits, base, int(bitWidth(kind)))
	if err != nil {
		ctx.report(diagnostic.CodeInvalidNumericLiteral, lit.Span(), "integer literal "+lit.Text+" out of range or malformed")
		return &core.Prim{Prim: core.PrimReportedError}
	}

	if isSigned(kind) {
		return &core.ConstLitTerm{Const: core.S(kind, int64(bits))}
	}
	return &core.ConstLitTerm{Const: core.U(kind, bits, style)}
}

// checkByteStringLit packs a b"..." literal as big-endian ASCII into an
// unsigned integer constant of exactly the expected width in bytes,
// diagnosing non-ASCII content or a length mismatch (spec.md section 4.3's
// "Literals" contract on string literals checked against Un).
func (ctx *Context) checkByteStringLit(lit *surface.ByteStringLit, kind core.ConstKind) core.Term {
	raw, err := surface.UnescapeByteString(lit.Text)
	if err != nil {
		ctx.report(diagnostic.CodeInvalidNumericLiteral, lit.Span(), err.Error())
		return &core.Prim{Prim: core.PrimReportedError}
	}
	width := int(bitWidth(kind)) / 8
	if len(raw) != width {
		ctx.report(diagnostic.CodeInvalidNumericLiteral, lit.Span(),
			"byte string literal does not match the expected width in bytes")
		return &core.Prim{Prim: core.PrimReportedError}
	}
	var bits uint64
	for _, b := range raw {
		if b > 0x7f {
			ctx.report(diagnostic.CodeInvalidNumericLiteral, lit.Span(), "byte string literal contains non-ASCII byte")
			return &core.Prim{Prim: core.PrimReportedError}
		}
		bits = bits<<8 | uint64(b)
	}
	return &core.ConstLitTerm{Const: core.U(kind, bits, core.StyleAscii)}
}
