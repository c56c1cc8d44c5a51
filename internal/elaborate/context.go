// Package elaborate implements the bidirectional elaborator: surface.Expr in,
// core.Term (plus its core.Value type) out, driven by Check/Synth (spec.md
// section 4.3). It owns the three environments elaboration threads through —
// the item environment, the metavariable environment, and the local
// environment — and the two-phase message session described in spec.md
// section 4.6, grounded on
// original_source/fathom/src/surface/elaboration.rs's Context.
package elaborate

import (
	"github.com/yeslogic/ddl/internal/core"
	"github.com/yeslogic/ddl/internal/diagnostic"
	"github.com/yeslogic/ddl/internal/env"
	"github.com/yeslogic/ddl/internal/semantics"
	"github.com/yeslogic/ddl/internal/surface"
	"github.com/yeslogic/ddl/internal/symbol"
	"github.com/yeslogic/ddl/internal/unify"
)

// ItemEnv holds every top-level definition elaborated so far, in
// elaboration order (spec.md section 4.3's "items may reference earlier
// definitions only"). Names, types, and values are parallel vectors indexed
// by the same env.Level.
type ItemEnv struct {
	Names  []string
	Types  *env.UniqueEnv[core.Value]
	Values *env.UniqueEnv[core.Value]
}

// NewItemEnv creates an empty item environment.
func NewItemEnv() *ItemEnv {
	return &ItemEnv{Types: env.NewUniqueEnv[core.Value](), Values: env.NewUniqueEnv[core.Value]()}
}

// Lookup finds the most recently defined item named name.
func (e *ItemEnv) Lookup(name string) (env.Level, core.Value, bool) {
	for i := len(e.Names) - 1; i >= 0; i-- {
		if e.Names[i] == name {
			lv := env.Level(i)
			typ, _ := e.Types.GetLevel(lv)
			return lv, typ, true
		}
	}
	return 0, nil, false
}

// Push records a fully elaborated item.
func (e *ItemEnv) Push(name string, typ, val core.Value) env.Level {
	e.Names = append(e.Names, name)
	e.Types.Push(typ)
	return e.Values.Push(val)
}

// MetaSource records where a metavariable came from, so the finalize pass
// can phrase its diagnostic appropriately (or suppress it entirely when a
// more specific message was already reported at the point it was created;
// spec.md section 4.6's "suppressed" metavariable categories).
type MetaSource struct {
	Span      surface.Pos
	Name      string // "" unless this is a named hole `?name`
	Suppress  bool   // true for placeholder/error-term metas already reported elsewhere
	ForResult bool   // true if this meta stands for a hole's solution (for HoleSolution notes)
}

// MetaEnv is the metavariable environment: a mutable, append-only store of
// solutions plus the parallel type/source bookkeeping needed to report
// unsolved metas meaningfully at finalize time (spec.md section 4.4, 4.6).
type MetaEnv struct {
	entries *env.UniqueEnv[semantics.MetaEntry]
	types   []core.Value
	sources []MetaSource
}

// NewMetaEnv creates an empty metavariable environment.
func NewMetaEnv() *MetaEnv {
	return &MetaEnv{entries: env.NewUniqueEnv[semantics.MetaEntry]()}
}

// Fresh allocates a new unsolved metavariable of the given type.
func (m *MetaEnv) Fresh(typ core.Value, src MetaSource) env.Level {
	lv := m.entries.Push(semantics.MetaEntry{})
	m.types = append(m.types, typ)
	m.sources = append(m.sources, src)
	return lv
}

// Get returns the current solution state of a metavariable.
func (m *MetaEnv) Get(lv env.Level) (semantics.MetaEntry, bool) {
	return m.entries.GetLevel(lv)
}

// Slice returns a read-only view suitable for handing to the semantics and
// unify packages.
func (m *MetaEnv) Slice() env.SliceEnv[semantics.MetaEntry] {
	return m.entries.Slice()
}

// Unsolved reports every metavariable that never received a solution, for
// the finalize pass (spec.md section 4.6).
func (m *MetaEnv) Unsolved() []struct {
	Level  env.Level
	Type   core.Value
	Source MetaSource
} {
	var out []struct {
		Level  env.Level
		Type   core.Value
		Source MetaSource
	}
	for i := 0; i < int(m.entries.Len()); i++ {
		lv := env.Level(i)
		entry, _ := m.entries.GetLevel(lv)
		if entry.IsSolved() {
			continue
		}
		out = append(out, struct {
			Level  env.Level
			Type   core.Value
			Source MetaSource
		}{Level: lv, Type: m.types[i], Source: m.sources[i]})
	}
	return out
}

// LocalEnv is the local binder stack threaded through Check/Synth: parallel
// name/type/binder-kind vectors alongside the SharedEnv of bound values used
// for evaluation (spec.md section 4.2, 4.3).
type LocalEnv struct {
	Names  []string
	Types  []core.Value
	Infos  []core.EntryKind
	Values env.SharedEnv[core.Value]
}

// NewLocalEnv creates an empty local environment.
func NewLocalEnv() *LocalEnv {
	return &LocalEnv{Values: env.NewSharedEnv[core.Value]()}
}

// Len returns the number of local bindings currently in scope.
func (l *LocalEnv) Len() env.EnvLen {
	return l.Values.Len()
}

// Push introduces one new local binding.
func (l *LocalEnv) Push(name string, typ core.Value, val core.Value, kind core.EntryKind) {
	l.Names = append(l.Names, name)
	l.Types = append(l.Types, typ)
	l.Infos = append(l.Infos, kind)
	l.Values.Push(val)
}

// PushParam introduces a bound parameter, whose value is a fresh stuck
// variable standing for the (as yet unknown) argument.
func (l *LocalEnv) PushParam(name string, typ core.Value) core.Value {
	v := core.StuckVar(env.Level(l.Len()))
	l.Push(name, typ, v, core.EntryParam)
	return v
}

// Truncate drops every binding introduced after length n, restoring the
// local environment to how it looked before those bindings (used after
// leaving a sub-expression's scope, e.g. a let's body).
func (l *LocalEnv) Truncate(n int) {
	l.Names = l.Names[:n]
	l.Types = l.Types[:n]
	l.Infos = l.Infos[:n]
	l.Values.Truncate(env.EnvLen(n))
}

// Lookup finds the nearest (innermost) local binding named name, returning
// its de Bruijn index and type.
func (l *LocalEnv) Lookup(name string) (env.Index, core.Value, bool) {
	n := len(l.Names)
	for i := n - 1; i >= 0; i-- {
		if l.Names[i] == name {
			idx, ok := l.Len().LevelToIndex(env.Level(i))
			if !ok {
				return 0, nil, false
			}
			return idx, l.Types[i], true
		}
	}
	return 0, nil, false
}

// InfosSnapshot returns a copy of the binder-kind vector, for building an
// InsertedMeta over exactly the current local context.
func (l *LocalEnv) InfosSnapshot() []core.EntryKind {
	out := make([]core.EntryKind, len(l.Infos))
	copy(out, l.Infos)
	return out
}

// SessionState is the elaboration session state machine (spec.md section
// 4.6): messages accumulate silently while Fresh/Elaborating, and are only
// rendered into diagnostics once Finalize is called. A message's text is
// fixed when it is reported; a metavariable solved later in the module does
// not change it.
type SessionState uint8

const (
	StateFresh SessionState = iota
	StateElaborating
	StateDraining
	StateDone
)

// message is a deferred diagnostic: elaboration records these instead of
// writing straight to a DiagnosticList, and Finalize renders them in report
// order. A message carries plain text only, so no metavariable solution is
// substituted into it before rendering.
type message struct {
	code    diagnostic.Code
	span    surface.Pos
	text    string
	isNote  bool
}

// Context is the elaborator's mutable state for one module (spec.md
// section 4.3). A fresh Context is created per module; items accumulate in
// ItemEnv as they elaborate.
type Context struct {
	Symbols *symbol.Table
	Items   *ItemEnv
	Metas   *MetaEnv
	Locals  *LocalEnv

	state    SessionState
	messages []message
}

// NewContext creates an elaboration context sharing symbols across the
// whole module (and, if reused, across multiple modules).
func NewContext(symbols *symbol.Table) *Context {
	return &Context{
		Symbols: symbols,
		Items:   NewItemEnv(),
		Metas:   NewMetaEnv(),
		Locals:  NewLocalEnv(),
		state:   StateFresh,
	}
}

func (ctx *Context) report(code diagnostic.Code, span surface.Pos, text string) {
	if ctx.state == StateFresh {
		ctx.state = StateElaborating
	}
	ctx.messages = append(ctx.messages, message{code: code, span: span, text: text})
}

func (ctx *Context) reportNote(span surface.Pos, text string) {
	ctx.messages = append(ctx.messages, message{span: span, text: text, isNote: true})
}

// evalCtx builds a semantics.EvalContext over the current items, metas, and
// locals.
func (ctx *Context) evalCtx() semantics.EvalContext {
	return semantics.NewEvalContext(ctx.Items.Values.Slice(), ctx.Metas.Slice(), ctx.Locals.Values)
}

func (ctx *Context) elimCtx() semantics.ElimContext {
	return semantics.NewElimContext(ctx.Items.Values.Slice(), ctx.Metas.Slice())
}

func (ctx *Context) quoteCtx() semantics.QuoteContext {
	return semantics.NewQuoteContext(ctx.Items.Values.Slice(), ctx.Metas.Slice(), ctx.Locals.Len())
}

func (ctx *Context) convCtx() semantics.ConversionContext {
	return semantics.NewConversionContext(ctx.Items.Values.Slice(), ctx.Metas.Slice(), ctx.Locals.Len())
}

func (ctx *Context) unifyCtx() unify.Context {
	return unify.New(ctx.Items.Values.Slice(), ctx.Metas.entries, ctx.Locals.Len())
}

// eval evaluates a term in the current local scope.
func (ctx *Context) eval(t core.Term) core.Value {
	return ctx.evalCtx().Eval(t)
}

// quote quotes a value back to a term in the current local scope.
func (ctx *Context) quote(v core.Value) core.Term {
	return ctx.quoteCtx().Quote(v)
}

// Quote exposes quote to callers outside this package (pkg/api, cmd/fathom)
// that need to print an elaborated item's type or normal form.
func (ctx *Context) Quote(v core.Value) core.Term {
	return ctx.quote(v)
}

// intern is a convenience wrapper around the shared symbol table.
func (ctx *Context) intern(name string) core.Symbol {
	if name == "" || name == "_" {
		return core.NoName
	}
	return core.NameOf(ctx.Symbols.Intern(name))
}

// Finalize transitions Fresh/Elaborating -> Draining -> Done, rendering
// every deferred message, one HoleSolution note per solved named hole, and
// one UnsolvedMetaVar diagnostic per still-unsolved, non-suppressed
// metavariable (spec.md section 4.6's "messages are surfaced once at the
// end").
func (ctx *Context) Finalize(diags *diagnostic.DiagnosticList) {
	ctx.state = StateDraining
	for _, m := range ctx.messages {
		if m.isNote {
			diags.Add(diagnostic.Diagnostic{Severity: diagnostic.Note, Message: m.text, Range: diags.MakeRange(m.span.Start, m.span.End)})
			continue
		}
		diags.Add(diagnostic.Diagnostic{Severity: diagnostic.Error, Code: m.code, Message: m.text, Range: diags.MakeRange(m.span.Start, m.span.End)})
	}
	for i, src := range ctx.Metas.sources {
		if !src.ForResult {
			continue
		}
		if entry, _ := ctx.Metas.Get(env.Level(i)); entry.IsSolved() {
			diags.Add(diagnostic.Diagnostic{
				Severity: diagnostic.Note,
				Code:     diagnostic.CodeHoleSolution,
				Message:  "hole `?" + src.Name + "` was solved",
				Range:    diags.MakeRange(src.Span.Start, src.Span.End),
			})
		}
	}
	for _, u := range ctx.Metas.Unsolved() {
		if u.Source.Suppress {
			continue
		}
		diags.Add(diagnostic.Diagnostic{
			Severity: diagnostic.Error,
			Code:     diagnostic.CodeUnsolvedMeta,
			Message:  "unsolved metavariable",
			Range:    diags.MakeRange(u.Source.Span.Start, u.Source.Span.End),
		})
	}
	ctx.state = StateDone
}
