// Package sourcemap converts a Fathom module's byte-offset spans (the only
// position representation the lexer and elaborator carry, per spec.md
// section 6.1's token spans and section 7's diagnostic ranges) into
// line/column positions suitable for printing in a diagnostic or in the
// `fathom` CLI's "file:line:col" error lines.
package sourcemap

import "sort"

// LineIndex pre-computes line start offsets for a source string so that
// repeated byte-offset-to-line/column lookups (one per diagnostic span, of
// which an elaboration run can produce many) don't each re-scan the whole
// source.
type LineIndex struct {
	source     string
	lineStarts []int // byte offset of each line start
}

// NewLineIndex builds a LineIndex over source, recognizing LF, CRLF, and
// standalone CR line endings (Fathom source files aren't required to use a
// single convention).
func NewLineIndex(source string) *LineIndex {
	idx := &LineIndex{
		source:     source,
		lineStarts: []int{0},
	}

	for i := 0; i < len(source); i++ {
		switch source[i] {
		case '\n':
			if next := i + 1; next < len(source) {
				idx.lineStarts = append(idx.lineStarts, next)
			}
		case '\r':
			if i+1 < len(source) && source[i+1] == '\n' {
				if next := i + 2; next < len(source) {
					idx.lineStarts = append(idx.lineStarts, next)
				}
				i++
			} else if next := i + 1; next < len(source) {
				idx.lineStarts = append(idx.lineStarts, next)
			}
		}
	}

	return idx
}

// LineCount returns the number of lines in the indexed source.
func (idx *LineIndex) LineCount() int {
	return len(idx.lineStarts)
}

// ByteOffsetToLineColumn converts a byte offset into a 0-indexed line and
// column, both measured in bytes (Fathom identifiers and operators are
// ASCII, per spec.md section 6.1's lexical grammar, so a byte column never
// needs to distinguish itself from a rune column in practice). offset is
// clamped to the end of the source rather than erroring, so that a span
// computed one-past-the-last-token never panics a diagnostic print.
func (idx *LineIndex) ByteOffsetToLineColumn(offset int) (line, col int) {
	if offset < 0 {
		return 0, 0
	}
	if offset >= len(idx.source) {
		if len(idx.source) == 0 {
			return 0, 0
		}
		offset = len(idx.source)
	}

	line = sort.Search(len(idx.lineStarts), func(i int) bool {
		return idx.lineStarts[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}

	col = offset - idx.lineStarts[line]
	return line, col
}

// Line returns the 0-indexed line's text, without its terminator. Used by
// DiagnosticList.FormatDiagnostic to print the source line under a
// diagnostic's caret without re-splitting the whole module on every call.
func (idx *LineIndex) Line(line int) string {
	if line < 0 || line >= len(idx.lineStarts) {
		return ""
	}
	start := idx.lineStarts[line]
	end := len(idx.source)
	if line+1 < len(idx.lineStarts) {
		end = idx.lineStarts[line+1]
	}
	text := idx.source[start:end]
	for len(text) > 0 && (text[len(text)-1] == '\n' || text[len(text)-1] == '\r') {
		text = text[:len(text)-1]
	}
	return text
}
