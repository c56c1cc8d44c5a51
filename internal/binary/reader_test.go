package binary_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeslogic/ddl/internal/binary"
	"github.com/yeslogic/ddl/internal/core"
	"github.com/yeslogic/ddl/internal/elaborate"
	"github.com/yeslogic/ddl/internal/semantics"
	"github.com/yeslogic/ddl/internal/surface"
	"github.com/yeslogic/ddl/internal/symbol"
)

// elaborateFormat elaborates src's sole item and returns its value plus an
// ElimContext suitable for reading it, mirroring how pkg/api.Read builds
// one around an elaborated entrypoint.
func elaborateFormat(t *testing.T, src string) (core.Value, semantics.ElimContext) {
	t.Helper()
	mod, parseErrs := surface.ParseSource(src)
	require.Empty(t, parseErrs)

	module, diags, ctx := elaborate.ElaborateModule(symbol.NewTable(), mod)
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %s", diags.Format())
	require.Len(t, module.Values, 1)

	elimCtx := semantics.NewElimContext(ctx.Items.Values.Slice(), ctx.Metas.Slice())
	return module.Values[0], elimCtx
}

func TestReadEntrypointScalarRecord(t *testing.T) {
	format, elimCtx := elaborateFormat(t, `def entry : Format = { a <- u8, b <- u16be };`)

	result, err := binary.ReadEntrypoint(elimCtx, format, []byte{0x2a, 0x00, 0x10})
	require.NoError(t, err)

	rec, ok := result.Root.(*core.RecordLitVal)
	require.True(t, ok, "expected a record value, got %T", result.Root)
	require.Len(t, rec.Exprs, 2)

	a, ok := rec.Exprs[0].(*core.ConstLitVal)
	require.True(t, ok)
	assert.Equal(t, uint64(0x2a), a.Const.Bits)

	b, ok := rec.Exprs[1].(*core.ConstLitVal)
	require.True(t, ok)
	assert.Equal(t, uint64(0x10), b.Const.Bits)
}

func TestReadEntrypointOverlapTakesFurthestCursor(t *testing.T) {
	format, elimCtx := elaborateFormat(t, `def entry : Format = overlap { narrow <- u8, wide <- u32be };`)

	result, err := binary.ReadEntrypoint(elimCtx, format, []byte{0x00, 0x00, 0x00, 0x07})
	require.NoError(t, err)
	assert.Empty(t, result.Entries)

	rec, ok := result.Root.(*core.RecordLitVal)
	require.True(t, ok)
	require.Len(t, rec.Exprs, 2)

	wide, ok := rec.Exprs[1].(*core.ConstLitVal)
	require.True(t, ok)
	assert.Equal(t, uint64(7), wide.Const.Bits)
}

func TestReadEntrypointCondFailureReported(t *testing.T) {
	format, elimCtx := elaborateFormat(t, `def entry : Format = { b <- u8 where b == (1 : U8) };`)

	_, err := binary.ReadEntrypoint(elimCtx, format, []byte{0x02})
	require.Error(t, err)
	assert.Contains(t, err.Error(), binary.CodeCondFailure)
}

func TestReadEntrypointArrayOfScalars(t *testing.T) {
	format, elimCtx := elaborateFormat(t, `def entry : Format = array64 3 u8;`)

	result, err := binary.ReadEntrypoint(elimCtx, format, []byte{1, 2, 3})
	require.NoError(t, err)

	arr, ok := result.Root.(*core.ArrayLitVal)
	require.True(t, ok, "expected an array value, got %T", result.Root)
	require.Len(t, arr.Exprs, 3)
}

func TestReadEntrypointDependentArray16Length(t *testing.T) {
	format, elimCtx := elaborateFormat(t, `def entry : Format = { len <- u16be, data <- array16 len u32be };`)

	result, err := binary.ReadEntrypoint(elimCtx, format, []byte{
		0x00, 0x02, // len = 2
		0x00, 0x00, 0x00, 0x0a, // data[0] = 10
		0x00, 0x00, 0x00, 0x14, // data[1] = 20
	})
	require.NoError(t, err)

	rec, ok := result.Root.(*core.RecordLitVal)
	require.True(t, ok, "expected a record value, got %T", result.Root)
	require.Len(t, rec.Exprs, 2)

	arr, ok := rec.Exprs[1].(*core.ArrayLitVal)
	require.True(t, ok, "expected data field to be an array value, got %T", rec.Exprs[1])
	require.Len(t, arr.Exprs, 2)

	first, ok := arr.Exprs[0].(*core.ConstLitVal)
	require.True(t, ok)
	assert.Equal(t, uint64(10), first.Const.Bits)

	second, ok := arr.Exprs[1].(*core.ConstLitVal)
	require.True(t, ok)
	assert.Equal(t, uint64(20), second.Const.Bits)
}

func TestReadEntrypointBufferErrorOnShortInput(t *testing.T) {
	format, elimCtx := elaborateFormat(t, `def entry : Format = u32be;`)

	_, err := binary.ReadEntrypoint(elimCtx, format, []byte{0x00, 0x01})
	require.Error(t, err)
	assert.Contains(t, err.Error(), binary.CodeBufferError)
}
