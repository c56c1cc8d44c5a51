// Package semantics implements normalization by evaluation for the core
// language: evaluating terms to values, quoting values back to terms, and
// checking values for conversion (definitional equality). It is grounded
// directly on the reference evaluator's Value/Closure/Telescope/Head/Elim
// shapes (spec.md sections 3.3, 4.1, 4.2) and the primitive reduction rules
// those shapes exist to support.
package semantics

import (
	"fmt"

	"github.com/yeslogic/ddl/internal/core"
	"github.com/yeslogic/ddl/internal/env"
)

// MetaEntry is one slot of the metavariable environment: either still
// unsolved (Solution == nil) or resolved to a value the one time it was
// solved (spec.md section 4.4, "metavariables are solved at most once").
type MetaEntry struct {
	Solution core.Value
}

// IsSolved reports whether this metavariable has a recorded solution.
func (m MetaEntry) IsSolved() bool {
	return m.Solution != nil
}

// Context is the read-only environment shared by every stage of NbE: the
// values bound to top-level items, and the current state of every
// metavariable. Both are owned elsewhere (internal/elaborate) and handed in
// as borrowed views so that evaluation never mutates elaboration state.
type Context struct {
	Items env.SliceEnv[core.Value]
	Metas env.SliceEnv[MetaEntry]
}

// badTerm reports a core-term invariant violation: a LocalVar, ItemVar, or
// MetaVar whose index or level doesn't resolve in its environment. This can
// only happen if the elaborator produced a malformed term, which is a bug
// in this program, not a user-facing error — so it panics rather than
// threading an error return through every evaluation step.
func badTerm(format string, args ...any) {
	panic(fmt.Sprintf("core: malformed term: "+format, args...))
}

// EvalContext evaluates terms to values within a particular local scope
// (spec.md section 4.1). A fresh EvalContext is built whenever a closure is
// applied, carrying the local environment that closure captured.
type EvalContext struct {
	Context
	Locals env.SharedEnv[core.Value]
}

// NewEvalContext builds an EvalContext for evaluating a term in the given
// local scope.
func NewEvalContext(items env.SliceEnv[core.Value], metas env.SliceEnv[MetaEntry], locals env.SharedEnv[core.Value]) EvalContext {
	return EvalContext{Context: Context{Items: items, Metas: metas}, Locals: locals}
}

// elim returns the ElimContext sharing this EvalContext's items and metas,
// used internally whenever evaluation needs to force or apply an already
// reduced value.
func (ctx EvalContext) elim() ElimContext {
	return ElimContext{Context: ctx.Context}
}

// ElimContext applies eliminators (function application, record
// projection, pattern match, format Repr) to already-evaluated values. It
// carries no local environment of its own: when it needs to evaluate a
// closure's body, it builds a fresh EvalContext from the environment that
// closure captured (spec.md section 3.3's sharing invariant).
type ElimContext struct {
	Context
}

// NewElimContext builds an ElimContext over the given items and metas.
func NewElimContext(items env.SliceEnv[core.Value], metas env.SliceEnv[MetaEntry]) ElimContext {
	return ElimContext{Context: Context{Items: items, Metas: metas}}
}

// evalClosure evaluates a closure's body in its captured environment
// extended with one argument.
func (ctx ElimContext) evalClosure(c core.Closure, arg core.Value) core.Value {
	locals := c.Env.WithPushed(arg)
	return NewEvalContext(ctx.Items, ctx.Metas, locals).Eval(c.Body)
}

// evalIn evaluates a term in an arbitrary captured local environment,
// sharing this context's items and metas. Used when splitting a telescope:
// each entry's term is evaluated in the telescope's own environment, not
// the caller's.
func (ctx ElimContext) evalIn(locals env.SharedEnv[core.Value], t core.Term) core.Value {
	return NewEvalContext(ctx.Items, ctx.Metas, locals).Eval(t)
}
