package core

import "github.com/yeslogic/ddl/internal/env"

// Value is the semantic domain produced by evaluation: a term reduced to
// weak head normal form (spec.md section 3.3). Every shape the evaluator can
// produce is listed below; anything still blocked on an unsolved
// metavariable or a free variable is a Stuck value carrying the elimination
// spine that would resume it once unblocked.
type Value interface {
	isValue()
}

// Head is the un-reducible head of a Stuck value (spec.md section 3.3,
// "stuck values are classified by their head").
type Head interface {
	isHead()
}

// ItemVarHead is a stuck reference to a top-level definition that has no
// unfolded value available (an opaque/axiom item).
type ItemVarHead struct {
	Level env.Level
}

func (ItemVarHead) isHead() {}

// LocalVarHead is a stuck reference to a bound local variable, addressed by
// the level it was bound at (levels are stable under further binding,
// unlike indices).
type LocalVarHead struct {
	Level env.Level
}

func (LocalVarHead) isHead() {}

// MetaVarHead is a stuck reference to an as-yet-unsolved metavariable.
type MetaVarHead struct {
	Level env.Level
}

func (MetaVarHead) isHead() {}

// PrimHead is a stuck reference to a prim that doesn't yet have enough
// arguments, or whose arguments aren't themselves concrete enough to
// reduce (spec.md section 4.2's primitive reduction rules).
type PrimHead struct {
	Prim PrimName
}

func (PrimHead) isHead() {}

// Elim is one frame of an elimination spine stacked onto a stuck head
// (spec.md section 3.3).
type Elim interface {
	isElim()
}

// FunElim applies an argument.
type FunElim struct {
	Plicity Plicity
	Arg     Value
}

func (FunElim) isElim() {}

// ProjElim projects a record field.
type ProjElim struct {
	Label Symbol
}

func (ProjElim) isElim() {}

// MatchElim pattern-matches the stuck head against Branches, falling back
// to Default.
type MatchElim struct {
	Branches []ConstBranch
	Default  Term
	// Env is the local environment Branches/Default were captured in,
	// needed to evaluate whichever arm eventually fires once the scrutinee
	// becomes concrete.
	Env env.SharedEnv[Value]
}

func (MatchElim) isElim() {}

// FormatReprElim is the frame semantics.FormatRepr pushes onto a stuck
// format, recording a pending Repr application.
type FormatReprElim struct{}

func (FormatReprElim) isElim() {}

// Stuck is a value blocked on a head that can't reduce further, carrying
// the spine of eliminators waiting to be applied once it does (spec.md
// section 3.3).
type Stuck struct {
	Head  Head
	Spine []Elim
}

func (*Stuck) isValue() {}

// UniverseVal is the value form of Universe.
type UniverseVal struct{}

func (*UniverseVal) isValue() {}

// Closure pairs a term under one binder with the environment it closes
// over; applying it evaluates Body in Env extended with the argument
// (spec.md section 3.3's sharing invariant, section 9).
type Closure struct {
	Env  env.SharedEnv[Value]
	Body Term
}

// Telescope is a sequence of closures sharing one environment, used for
// record types/format-records: each entry's type can refer to the values of
// earlier entries once the telescope is split one step at a time (spec.md
// section 3.3, glossary "Telescope"). ApplyRepr, when set, means this
// telescope's entries are format descriptions and splitting should apply
// Repr to each entry on the way out (used by FormatRecord's Repr rule,
// spec.md section 4.5).
type Telescope struct {
	Env       env.SharedEnv[Value]
	Labels    []Symbol
	Terms     []Term
	ApplyRepr bool
}

// Len reports the number of remaining entries in the telescope.
func (t Telescope) Len() int {
	return len(t.Terms)
}

// FunTypeVal is a dependent function type value.
type FunTypeVal struct {
	Plicity Plicity
	Name    Symbol
	Input   Value
	Output  Closure
}

func (*FunTypeVal) isValue() {}

// FunLitVal is a function literal value.
type FunLitVal struct {
	Plicity Plicity
	Name    Symbol
	Body    Closure
}

func (*FunLitVal) isValue() {}

// RecordTypeVal is a dependent record type value, represented as a
// telescope of field types (spec.md section 3.3, invariant 3).
type RecordTypeVal struct {
	Telescope Telescope
}

func (*RecordTypeVal) isValue() {}

// RecordLitVal is a record literal value; fields are already reduced to
// values (spec.md section 3.3's sharing invariant: field values may share
// structure with each other through the environment they were built in).
type RecordLitVal struct {
	Labels []Symbol
	Exprs  []Value
}

func (*RecordLitVal) isValue() {}

// ArrayLitVal is an array literal value.
type ArrayLitVal struct {
	Exprs []Value
}

func (*ArrayLitVal) isValue() {}

// FormatRecordVal is a sequential record-format value.
type FormatRecordVal struct {
	Telescope Telescope
}

func (*FormatRecordVal) isValue() {}

// FormatOverlapVal is an overlap record-format value.
type FormatOverlapVal struct {
	Telescope Telescope
}

func (*FormatOverlapVal) isValue() {}

// FormatCondVal is a conditional refinement-format value: reading Format
// binds its representation for Pred, a closure over one argument (spec.md
// section 4.3, section 4.5). This mirrors FormatCond's term shape rather
// than a stuck Prim application because, unlike the format prims (succeed
// and unwrap take two arguments, fail none), a conditional format carries both a
// name and a one-place predicate closure — giving it its own value shape
// keeps FormatRepr's "pass through to the base format's repr" rule a single
// direct case instead of a disguised prim-arity check.
type FormatCondVal struct {
	Name   Symbol
	Format Value
	Pred   Closure
}

func (*FormatCondVal) isValue() {}

// ConstLitVal is the value form of a literal constant.
type ConstLitVal struct {
	Const Const
}

func (*ConstLitVal) isValue() {}

// ReportedErrorVal stands in for a value whose term failed to elaborate. It
// compares equal to anything during conversion-checking, suppressing
// cascades of spurious errors (spec.md section 5.3).
type ReportedErrorVal struct{}

func (*ReportedErrorVal) isValue() {}

// StuckVar builds a Stuck value with an empty spine referencing a local
// variable — the starting point when a local is looked up during
// evaluation.
func StuckVar(lv env.Level) *Stuck {
	return &Stuck{Head: LocalVarHead{Level: lv}}
}

// StuckMeta builds a Stuck value with an empty spine referencing an
// unsolved metavariable.
func StuckMeta(lv env.Level) *Stuck {
	return &Stuck{Head: MetaVarHead{Level: lv}}
}

// StuckItem builds a Stuck value with an empty spine referencing an opaque
// top-level item.
func StuckItem(lv env.Level) *Stuck {
	return &Stuck{Head: ItemVarHead{Level: lv}}
}

// StuckPrim builds a Stuck value with an empty spine for a prim that has no
// arguments yet.
func StuckPrim(p PrimName) *Stuck {
	return &Stuck{Head: PrimHead{Prim: p}}
}

// WithElim returns a copy of s with e pushed onto the end of its spine.
func (s *Stuck) WithElim(e Elim) *Stuck {
	spine := make([]Elim, len(s.Spine)+1)
	copy(spine, s.Spine)
	spine[len(s.Spine)] = e
	return &Stuck{Head: s.Head, Spine: spine}
}
