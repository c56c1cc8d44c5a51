package sourcemap

import "testing"

const sampleModule = "def magic : U32 = 0xcafebabe;\n" +
	"def header : Format = {\n" +
	"  magic <- u32be,\n" +
	"  version <- u16be,\n" +
	"};\n"

func TestNewLineIndexCountsModuleLines(t *testing.T) {
	idx := NewLineIndex(sampleModule)
	if idx.LineCount() != 5 {
		t.Errorf("LineCount() = %d, want 5", idx.LineCount())
	}
}

func TestNewLineIndexEmptySource(t *testing.T) {
	idx := NewLineIndex("")
	if idx.LineCount() != 1 {
		t.Errorf("LineCount() = %d, want 1", idx.LineCount())
	}
	line, col := idx.ByteOffsetToLineColumn(0)
	if line != 0 || col != 0 {
		t.Errorf("ByteOffsetToLineColumn(0) = (%d, %d), want (0, 0)", line, col)
	}
}

func TestNewLineIndexSingleLineNoTerminator(t *testing.T) {
	idx := NewLineIndex("def x : U8 = 1;")
	if idx.LineCount() != 1 {
		t.Errorf("LineCount() = %d, want 1", idx.LineCount())
	}
}

func TestByteOffsetToLineColumnLocatesFieldInsideRecord(t *testing.T) {
	// Offset of "version" on line 3 (0-indexed).
	prefix := "def magic : U32 = 0xcafebabe;\ndef header : Format = {\n  magic <- u32be,\n  "
	offset := len(prefix)
	if got := sampleModule[offset:][:len("version")]; got != "version" {
		t.Fatalf("test fixture drifted: offset did not land on 'version', landed on %q", got)
	}

	idx := NewLineIndex(sampleModule)
	line, col := idx.ByteOffsetToLineColumn(offset)
	if line != 3 {
		t.Fatalf("line = %d, want 3", line)
	}
	if col != 2 {
		t.Errorf("col = %d, want 2", col)
	}
}

func TestByteOffsetToLineColumnClampsPastEnd(t *testing.T) {
	src := "def x : U8 = 1;"
	idx := NewLineIndex(src)
	line, col := idx.ByteOffsetToLineColumn(1000)
	if line != 0 || col != len(src) {
		t.Errorf("ByteOffsetToLineColumn(1000) = (%d, %d), want (0, %d)", line, col, len(src))
	}
}

func TestByteOffsetToLineColumnNegativeOffset(t *testing.T) {
	idx := NewLineIndex(sampleModule)
	line, col := idx.ByteOffsetToLineColumn(-5)
	if line != 0 || col != 0 {
		t.Errorf("ByteOffsetToLineColumn(-5) = (%d, %d), want (0, 0)", line, col)
	}
}

func TestLineIndexHandlesCRLFFormatDefinitions(t *testing.T) {
	src := "def a : Format = u8;\r\ndef b : Format = u16be;\r\n"
	idx := NewLineIndex(src)
	if idx.LineCount() != 2 {
		t.Fatalf("LineCount() = %d, want 2", idx.LineCount())
	}
	if got := idx.Line(0); got != "def a : Format = u8;" {
		t.Errorf("Line(0) = %q", got)
	}
	if got := idx.Line(1); got != "def b : Format = u16be;" {
		t.Errorf("Line(1) = %q", got)
	}
}

func TestLineIndexHandlesStandaloneCR(t *testing.T) {
	src := "def a : Format = u8;\rdef b : Format = u16be;\r"
	idx := NewLineIndex(src)
	if idx.LineCount() != 2 {
		t.Fatalf("LineCount() = %d, want 2", idx.LineCount())
	}
}

func TestLineReturnsFieldLineWithoutTerminator(t *testing.T) {
	idx := NewLineIndex(sampleModule)
	if got := idx.Line(2); got != "  magic <- u32be," {
		t.Errorf("Line(2) = %q", got)
	}
}

func TestLineOutOfRange(t *testing.T) {
	idx := NewLineIndex(sampleModule)
	if got := idx.Line(-1); got != "" {
		t.Errorf("Line(-1) = %q, want empty", got)
	}
	if got := idx.Line(idx.LineCount()); got != "" {
		t.Errorf("Line(LineCount()) = %q, want empty", got)
	}
}

func TestLineLastLineNoTrailingNewline(t *testing.T) {
	idx := NewLineIndex("def a : Format = u8;\ndef b : Format = u16be;")
	if got := idx.Line(1); got != "def b : Format = u16be;" {
		t.Errorf("Line(1) = %q", got)
	}
}
