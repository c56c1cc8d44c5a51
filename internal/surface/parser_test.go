package surface_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeslogic/ddl/internal/surface"
)

func parseOne(t *testing.T, src string) surface.Item {
	t.Helper()
	mod, errs := surface.ParseSource(src)
	require.Empty(t, errs, "unexpected parse errors")
	require.Len(t, mod.Items, 1)
	return mod.Items[0]
}

func TestParseSimpleDef(t *testing.T) {
	item := parseOne(t, `def answer : U32 = 42;`)
	assert.Equal(t, "answer", item.Name)
	require.NotNil(t, item.Type)
	require.NotNil(t, item.Def)

	name, ok := item.Type.(*surface.Name)
	require.True(t, ok, "expected a bare name type, got %T", item.Type)
	assert.Equal(t, "U32", name.Text)

	lit, ok := item.Def.(*surface.NumberLit)
	require.True(t, ok, "expected a number literal, got %T", item.Def)
	assert.Equal(t, "42", lit.Text)
}

func TestParseUnannotatedDef(t *testing.T) {
	item := parseOne(t, `def flag = true;`)
	assert.Nil(t, item.Type)

	lit, ok := item.Def.(*surface.BoolLit)
	require.True(t, ok)
	assert.True(t, lit.Value)
}

func TestParseFunctionDefSugar(t *testing.T) {
	item := parseOne(t, `def id (x : U8) : U8 = x;`)
	fn, ok := item.Def.(*surface.FunLit)
	require.True(t, ok, "expected def-with-params to desugar to a FunLit, got %T", item.Def)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "x", fn.Params[0].Name)
}

func TestParseFormatRecordDistinguishedFromRecordLit(t *testing.T) {
	item := parseOne(t, `def entry : Format = { a <- u8, b <- u16be };`)
	rec, ok := item.Def.(*surface.FormatRecord)
	require.True(t, ok, "expected a FormatRecord, got %T", item.Def)
	require.Len(t, rec.Fields, 2)
	assert.Equal(t, "a", rec.Fields[0].Label)
	assert.Equal(t, "b", rec.Fields[1].Label)
	assert.False(t, rec.Overlap)
}

func TestParseOverlapFormatRecord(t *testing.T) {
	item := parseOne(t, `def entry : Format = overlap { a <- u8, b <- u8 };`)
	rec, ok := item.Def.(*surface.FormatRecord)
	require.True(t, ok)
	assert.True(t, rec.Overlap)
}

func TestParseFormatFieldRefinement(t *testing.T) {
	item := parseOne(t, `def entry : Format = { b <- u8 where b == (1 : U8) };`)
	rec, ok := item.Def.(*surface.FormatRecord)
	require.True(t, ok)
	require.Len(t, rec.Fields, 1)
	require.NotNil(t, rec.Fields[0].Where)

	bin, ok := rec.Fields[0].Where.(*surface.BinOp)
	require.True(t, ok, "expected a BinOp, got %T", rec.Fields[0].Where)
	assert.Equal(t, surface.OpEq, bin.Op)
}

func TestParsePlainRecordLit(t *testing.T) {
	item := parseOne(t, `def pt : { x : U8, y : U8 } = { x = 1, y = 2 };`)
	typ, ok := item.Type.(*surface.RecordType)
	require.True(t, ok, "expected a RecordType, got %T", item.Type)
	require.Len(t, typ.Fields, 2)

	lit, ok := item.Def.(*surface.RecordLit)
	require.True(t, ok, "expected a RecordLit, got %T", item.Def)
	require.Len(t, lit.Fields, 2)
}

func TestParseMatchArms(t *testing.T) {
	item := parseOne(t, `
def f : U8 -> U8 = fun x => match x {
  0 => 1,
  _ => 2,
};`)
	fn, ok := item.Def.(*surface.FunLit)
	require.True(t, ok)

	m, ok := fn.Body.(*surface.Match)
	require.True(t, ok, "expected a Match, got %T", fn.Body)
	require.Len(t, m.Arms, 2)

	_, ok = m.Arms[0].Pattern.(*surface.NumberPattern)
	assert.True(t, ok, "expected the first arm to be a NumberPattern, got %T", m.Arms[0].Pattern)
}

func TestParseBinOpPrecedence(t *testing.T) {
	// `a + b * c` should parse as `a + (b * c)`, '*' binding tighter.
	item := parseOne(t, `def r : U8 = (a : U8) + (b : U8) * (c : U8);`)
	top, ok := item.Def.(*surface.BinOp)
	require.True(t, ok)
	assert.Equal(t, surface.OpAdd, top.Op)

	rhs, ok := top.Rhs.(*surface.BinOp)
	require.True(t, ok, "expected the right operand to itself be a BinOp, got %T", top.Rhs)
	assert.Equal(t, surface.OpMul, rhs.Op)
}

func TestParseUnterminatedParenReported(t *testing.T) {
	_, errs := surface.ParseSource(`def r : U8 = (a`)
	assert.NotEmpty(t, errs, "expected a parse error on unterminated input")
}
