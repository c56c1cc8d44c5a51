// Package diagnostic provides error reporting and diagnostic messages for
// the elaborator, unifier, and binary interpreter.
package diagnostic

import (
	"fmt"
	"strings"

	"github.com/yeslogic/ddl/internal/sourcemap"
)

// Severity represents the severity level of a diagnostic.
type Severity uint8

const (
	// Error prevents the module from elaborating successfully.
	Error Severity = iota
	// Warning is a non-blocking issue.
	Warning
	// Info is an informational message.
	Info
	// Note provides additional context for another diagnostic, or stands
	// alone to report something useful but non-blocking (e.g. a hole's
	// solution).
	Note
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Note:
		return "note"
	default:
		return "unknown"
	}
}

// Position represents a position in source code.
type Position struct {
	Offset int // Byte offset (0-based)
	Line   int // Line number (1-based)
	Column int // Column number (1-based)
}

// Range represents a range in source code.
type Range struct {
	Start Position
	End   Position
}

// RelatedInfo provides additional location information for a diagnostic.
type RelatedInfo struct {
	Range   Range
	Message string
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	Severity Severity
	Code     Code          // Error code, e.g. CodeUnboundName
	Message  string        // Human-readable message
	Range    Range         // Source location
	Related  []RelatedInfo // Related locations
	Hint     string        // Optional clarifying note shown under the message
}

// Error returns a formatted error string.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Range.Start.Line, d.Range.Start.Column, d.Severity, d.Message)
}

// DiagnosticList collects diagnostics produced while elaborating a module.
type DiagnosticList struct {
	diagnostics []Diagnostic
	lineIndex   *sourcemap.LineIndex
	source      string
	hasErrors   bool
}

// NewDiagnosticList creates a new diagnostic list for the given source.
func NewDiagnosticList(source string) *DiagnosticList {
	return &DiagnosticList{
		diagnostics: make([]Diagnostic, 0),
		lineIndex:   sourcemap.NewLineIndex(source),
		source:      source,
	}
}

// Add adds a diagnostic to the list.
func (dl *DiagnosticList) Add(d Diagnostic) {
	dl.diagnostics = append(dl.diagnostics, d)
	if d.Severity == Error {
		dl.hasErrors = true
	}
}

// AddError adds an error diagnostic at the given byte offset.
func (dl *DiagnosticList) AddError(code Code, offset int, message string) {
	dl.AddErrorRange(code, offset, offset+1, message)
}

// AddErrorRange adds an error diagnostic for a byte range.
func (dl *DiagnosticList) AddErrorRange(code Code, start, end int, message string) {
	dl.Add(Diagnostic{
		Severity: Error,
		Code:     code,
		Message:  message,
		Range:    dl.MakeRange(start, end),
	})
}

// AddWarning adds a warning diagnostic at the given byte offset.
func (dl *DiagnosticList) AddWarning(code Code, offset int, message string) {
	dl.Add(Diagnostic{
		Severity: Warning,
		Code:     code,
		Message:  message,
		Range:    dl.MakeRange(offset, offset+1),
	})
}

// AddNote adds a note diagnostic at the given byte offset — used, among
// other things, to report a hole's eventual solution (spec.md section
// 5.3's "HoleSolution is a note, not an error").
func (dl *DiagnosticList) AddNote(offset int, message string) {
	dl.Add(Diagnostic{
		Severity: Note,
		Message:  message,
		Range:    dl.MakeRange(offset, offset+1),
	})
}

// MakePosition converts a byte offset to a Position.
func (dl *DiagnosticList) MakePosition(offset int) Position {
	line, col := dl.lineIndex.ByteOffsetToLineColumn(offset)
	return Position{
		Offset: offset,
		Line:   line + 1, // Convert to 1-based
		Column: col + 1,  // Convert to 1-based
	}
}

// MakeRange converts byte offsets to a Range.
func (dl *DiagnosticList) MakeRange(start, end int) Range {
	return Range{
		Start: dl.MakePosition(start),
		End:   dl.MakePosition(end),
	}
}

// HasErrors returns true if there are any error-level diagnostics.
func (dl *DiagnosticList) HasErrors() bool {
	return dl.hasErrors
}

// Diagnostics returns all collected diagnostics.
func (dl *DiagnosticList) Diagnostics() []Diagnostic {
	return dl.diagnostics
}

// Errors returns only error-level diagnostics.
func (dl *DiagnosticList) Errors() []Diagnostic {
	var errors []Diagnostic
	for _, d := range dl.diagnostics {
		if d.Severity == Error {
			errors = append(errors, d)
		}
	}
	return errors
}

// Count returns the total number of diagnostics.
func (dl *DiagnosticList) Count() int {
	return len(dl.diagnostics)
}

// ErrorCount returns the number of error-level diagnostics.
func (dl *DiagnosticList) ErrorCount() int {
	count := 0
	for _, d := range dl.diagnostics {
		if d.Severity == Error {
			count++
		}
	}
	return count
}

// Format formats all diagnostics as a human-readable string.
func (dl *DiagnosticList) Format() string {
	if len(dl.diagnostics) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, d := range dl.diagnostics {
		sb.WriteString(dl.FormatDiagnostic(&d))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatDiagnostic formats a single diagnostic with source context.
func (dl *DiagnosticList) FormatDiagnostic(d *Diagnostic) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%d:%d: %s[%s]: %s\n",
		d.Range.Start.Line, d.Range.Start.Column, d.Severity, d.Code, d.Message))

	if d.Hint != "" {
		sb.WriteString(fmt.Sprintf("  hint: %s\n", d.Hint))
	}

	sourceLine := dl.getSourceLine(d.Range.Start.Line)
	if sourceLine != "" {
		sb.WriteString(fmt.Sprintf("    %s\n", sourceLine))
		caret := strings.Repeat(" ", d.Range.Start.Column-1+4) + "^"
		if d.Range.End.Line == d.Range.Start.Line && d.Range.End.Column > d.Range.Start.Column {
			caret += strings.Repeat("~", d.Range.End.Column-d.Range.Start.Column-1)
		}
		sb.WriteString(caret)
		sb.WriteByte('\n')
	}

	for _, rel := range d.Related {
		sb.WriteString(fmt.Sprintf("  %d:%d: note: %s\n",
			rel.Range.Start.Line, rel.Range.Start.Column, rel.Message))
	}

	return sb.String()
}

// getSourceLine returns the source code line at the given 1-based line number.
func (dl *DiagnosticList) getSourceLine(line int) string {
	if line < 1 || line > dl.lineIndex.LineCount() {
		return ""
	}
	return dl.lineIndex.Line(line - 1)
}

// Clear removes all diagnostics.
func (dl *DiagnosticList) Clear() {
	dl.diagnostics = dl.diagnostics[:0]
	dl.hasErrors = false
}

// Code identifies the kind of condition a diagnostic reports (spec.md
// section 7).
type Code string

const (
	// Elaboration errors.
	CodeUnboundName               Code = "unbound-name"
	CodeUnknownField              Code = "unknown-field"
	CodeFailedToUnify             Code = "failed-to-unify"
	CodePlicityArgumentMismatch   Code = "plicity-argument-mismatch"
	CodeUnexpectedArgument        Code = "unexpected-argument"
	CodeUnexpectedParameter       Code = "unexpected-parameter"
	CodeAmbiguousNumericLiteral   Code = "ambiguous-numeric-literal"
	CodeInvalidNumericLiteral     Code = "invalid-numeric-literal"
	CodeDuplicateLabel            Code = "duplicate-label"
	CodeMismatchedFieldLabels     Code = "mismatched-field-labels"
	CodeUnsupportedPatternMatch   Code = "unsupported-pattern-match"
	CodeAmbiguousMatchExpression  Code = "ambiguous-match-expression"
	CodeNonExhaustiveMatch        Code = "non-exhaustive-match"
	CodeUnsolvedMeta              Code = "unsolved-metavariable"
	CodeCyclicItemDependency      Code = "cyclic-item-dependency"
	CodeHoleSolution              Code = "hole-solution"
	CodeRefutablePattern          Code = "refutable-pattern"
	CodeUnreachablePattern        Code = "unreachable-pattern"
	CodeCannotInferType           Code = "cannot-infer-type"

	// Binary-interpreter read errors (spec.md section 4.5, section 6.5).
	CodeReadFailFormat Code = "read-fail-format"
	CodeCondFailure    Code = "cond-failure"
	CodeUnwrappedNone  Code = "unwrapped-none"
	CodeBufferError    Code = "buffer-error"
)

// Filter controls which diagnostics are reported, keyed by Code.
type Filter struct {
	// Rules maps diagnostic codes to their severity override. A missing
	// entry means use the default severity. Severity 255 disables the
	// code entirely.
	Rules map[Code]Severity
}

const disabled Severity = 255

// NewFilter creates a new filter with default settings (nothing
// overridden).
func NewFilter() *Filter {
	return &Filter{Rules: make(map[Code]Severity)}
}

// SetRule sets the severity for a diagnostic code.
func (f *Filter) SetRule(code Code, severity Severity) {
	f.Rules[code] = severity
}

// DisableRule disables a diagnostic code entirely.
func (f *Filter) DisableRule(code Code) {
	f.Rules[code] = disabled
}

// IsDisabled returns true if the code is disabled.
func (f *Filter) IsDisabled(code Code) bool {
	sev, ok := f.Rules[code]
	return ok && sev == disabled
}

// GetSeverity returns the severity for a code, or the default if not set.
func (f *Filter) GetSeverity(code Code, defaultSev Severity) Severity {
	if sev, ok := f.Rules[code]; ok && sev != disabled {
		return sev
	}
	return defaultSev
}
