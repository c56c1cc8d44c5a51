// Package api provides the public API for elaborating and reading Fathom
// format descriptions.
//
// This package is intended for programmatic use of the elaborator and
// binary interpreter. For CLI usage, see cmd/fathom.
package api

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/yeslogic/ddl/internal/binary"
	"github.com/yeslogic/ddl/internal/core"
	"github.com/yeslogic/ddl/internal/diagnostic"
	"github.com/yeslogic/ddl/internal/elaborate"
	"github.com/yeslogic/ddl/internal/semantics"
	"github.com/yeslogic/ddl/internal/surface"
	"github.com/yeslogic/ddl/internal/symbol"
)

// Options controls an elaboration run.
type Options struct {
	// Logger receives structured progress/diagnostic-count logging at
	// Debug level; defaults to a discarding logger when nil.
	Logger hclog.Logger
}

// ElaborateResult is the outcome of elaborating one module's source text.
type ElaborateResult struct {
	// Diagnostics holds every error, warning, and note produced, in
	// report order.
	Diagnostics []diagnostic.Diagnostic

	// Module is the fully elaborated module (item names, their types, and
	// their normal-form values). Populated even when Diagnostics is
	// non-empty, so a caller can still inspect whatever did elaborate.
	Module *elaborate.Module

	// Context is the underlying elaboration context, exposed for callers
	// that need to quote/evaluate further terms against the same item
	// environment (e.g. Read, below).
	Context *elaborate.Context
}

// Failed reports whether any diagnostic at Error severity or above was
// produced (spec.md section 6.4: "the presence of any Error after
// elaboration sets the session status to failed").
func (r *ElaborateResult) Failed() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == diagnostic.Error {
			return true
		}
	}
	return false
}

// Elaborate parses and elaborates one Fathom module from source text.
func Elaborate(source string, opts Options) *ElaborateResult {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	diags := diagnostic.NewDiagnosticList(source)

	mod, parseErrs := surface.ParseSource(source)
	for _, e := range parseErrs {
		diags.Add(diagnostic.Diagnostic{
			Severity: diagnostic.Error,
			Message:  e.Error(),
		})
	}
	logger.Debug("parsed module", "items", len(mod.Items), "parse-errors", len(parseErrs))

	symbols := symbol.NewTable()
	elaborated, elabDiags, ctx := elaborate.ElaborateModule(symbols, mod)
	for _, d := range elabDiags.Diagnostics() {
		diags.Add(d)
	}
	logger.Debug("elaborated module", "diagnostics", elabDiags.Count())

	return &ElaborateResult{
		Diagnostics: diags.Diagnostics(),
		Module:      elaborated,
		Context:     ctx,
	}
}

// ReadResult is the outcome of reading a binary buffer against an already
// elaborated format value.
type ReadResult struct {
	Entries []binary.Entry
	Root    core.Value
	Err     error
}

// Read runs read_entrypoint (spec.md section 4.5) over buf using the item
// named entrypoint from an already-elaborated module as the top-level
// format. ctx must be the Context returned alongside the Module that
// defines entrypoint (ordinarily from a prior Elaborate call).
func Read(ctx *elaborate.Context, entrypoint string, buf []byte) (*ReadResult, error) {
	lv, typ, ok := ctx.Items.Lookup(entrypoint)
	if !ok {
		return nil, fmt.Errorf("no such item %q", entrypoint)
	}
	_ = typ // the item's type is Format; read_entrypoint operates on its value directly

	val, ok := ctx.Items.Values.GetLevel(lv)
	if !ok {
		return nil, fmt.Errorf("item %q has no recorded value", entrypoint)
	}

	elimCtx := semantics.NewElimContext(ctx.Items.Values.Slice(), ctx.Metas.Slice())
	result, err := binary.ReadEntrypoint(elimCtx, val, buf)
	if result == nil {
		return &ReadResult{Err: err}, err
	}
	return &ReadResult{Entries: result.Entries, Root: result.Root, Err: err}, err
}
