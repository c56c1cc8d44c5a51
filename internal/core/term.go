// Package core defines the core-language IR described in spec.md section
// 3.2 and 3.3: terms (the syntactic representation produced by the
// elaborator) and values (the semantic domain produced by evaluating
// terms). It also defines the small supporting vocabulary — plicity,
// constants, and primitives — shared by both.
package core

import (
	"github.com/yeslogic/ddl/internal/env"
	"github.com/yeslogic/ddl/internal/symbol"
)

// Plicity says whether a function parameter is written explicitly at call
// sites, or inserted implicitly by unification (spec.md section 3.2).
type Plicity uint8

const (
	Explicit Plicity = iota
	Implicit
)

func (p Plicity) String() string {
	if p == Implicit {
		return "implicit"
	}
	return "explicit"
}

// EntryKind tags one entry of an InsertedMeta's info-vector: whether a local
// binder is a parameter that should be applied to the metavariable, or a
// definition that should be skipped (spec.md section 4.3, section 9's note
// on metavariable solutions under locals).
type EntryKind uint8

const (
	EntryParam EntryKind = iota
	EntryDef
)

// Term is the core-language syntactic IR (spec.md section 3.2). Every
// constructor below implements isTerm so that a Term can only ever be one of
// these shapes — the same sum-type-via-marker-method idiom as the surface
// AST.
type Term interface {
	isTerm()
}

// ItemVar references a top-level definition by level.
type ItemVar struct {
	Level env.Level
}

func (*ItemVar) isTerm() {}

// LocalVar is a de Bruijn index into the local scope. Invariant: Index must
// be less than the length of the local environment at this point in the
// term (spec.md section 3.2, invariant 1).
type LocalVar struct {
	Index env.Index
}

func (*LocalVar) isTerm() {}

// MetaVar references an unsolved (or since-solved) placeholder by level.
// Invariant: Level must reference an entry in the metavariable environment
// (spec.md section 3.2, invariant 2).
type MetaVar struct {
	Level env.Level
}

func (*MetaVar) isTerm() {}

// InsertedMeta is a metavariable implicitly applied to the current local
// context, filtered by Infos: a Param entry is applied, a Def entry is
// skipped (spec.md section 4.1, section 9).
type InsertedMeta struct {
	Level env.Level
	Infos []EntryKind
}

func (*InsertedMeta) isTerm() {}

// Ann is a type annotation.
type Ann struct {
	Expr Term
	Type Term
}

func (*Ann) isTerm() {}

// Let is a non-recursive let-binding.
type Let struct {
	Name Symbol
	Type Term
	Def  Term
	Body Term
}

func (*Let) isTerm() {}

// Universe is the universe of types.
type Universe struct{}

func (*Universe) isTerm() {}

// FunType is a dependent function type; Output is a term under one binder.
type FunType struct {
	Plicity Plicity
	Name    Symbol
	Input   Term
	Output  Term
}

func (*FunType) isTerm() {}

// FunLit is a function literal; Body is a term under one binder.
type FunLit struct {
	Plicity Plicity
	Name    Symbol
	Body    Term
}

func (*FunLit) isTerm() {}

// FunApp is a function application.
type FunApp struct {
	Plicity Plicity
	Head    Term
	Arg     Term
}

func (*FunApp) isTerm() {}

// RecordType is a dependent record type: a telescope of field types, named
// by Labels in declaration order (spec.md section 3.2, invariant 3).
type RecordType struct {
	Labels []Symbol
	Types  []Term
}

func (*RecordType) isTerm() {}

// RecordLit is a record literal.
type RecordLit struct {
	Labels []Symbol
	Exprs  []Term
}

func (*RecordLit) isTerm() {}

// RecordProj projects a single field out of a record value.
type RecordProj struct {
	Head  Term
	Label Symbol
}

func (*RecordProj) isTerm() {}

// ArrayLit is an array literal.
type ArrayLit struct {
	Exprs []Term
}

func (*ArrayLit) isTerm() {}

// FormatRecord is a sequential record format: fields are read in order, each
// field's representation bound for subsequent fields (spec.md section 4.5).
type FormatRecord struct {
	Labels  []Symbol
	Formats []Term
}

func (*FormatRecord) isTerm() {}

// FormatOverlap is a record format whose fields all start at the same base
// offset; the cursor after reading is the maximum cursor across fields
// (spec.md section 4.5, glossary "Overlap format").
type FormatOverlap struct {
	Labels  []Symbol
	Formats []Term
}

func (*FormatOverlap) isTerm() {}

// FormatCond is a conditional refinement format: reads Format, binds its
// representation as Name for Pred (a term under one binder), and fails to
// read unless Pred evaluates to true (spec.md section 4.3 "Format fields",
// section 4.5).
type FormatCond struct {
	Name   Symbol
	Format Term
	Pred   Term
}

func (*FormatCond) isTerm() {}

// Prim is a reference to a built-in type, value, or function (spec.md
// section 3.2).
type Prim struct {
	Prim PrimName
}

func (*Prim) isTerm() {}

// ConstLitTerm is a literal constant.
type ConstLitTerm struct {
	Const Const
}

func (*ConstLitTerm) isTerm() {}

// ConstMatch pattern-matches Head against Branches, falling back to Default
// if no branch matches (spec.md section 3.2, invariant 4). Branches are in
// the order the elaborator emitted them (source order for a match
// expression) and are not sorted; a literal written two ways (`1`, `0x1`)
// yields two branches with equal constants, and the first one matches.
type ConstMatch struct {
	Head     Term
	Branches []ConstBranch
	Default  Term // nil if there is no default arm
}

func (*ConstMatch) isTerm() {}

// ConstBranch is one arm of a ConstMatch.
type ConstBranch struct {
	Const Const
	Body  Term
}

// Symbol is the name carried on a binder; the zero value means "no name was
// given" (an implicit or anonymous binder), matching Option<StringId> in the
// original implementation.
type Symbol struct {
	symbol.Symbol
	Named bool
}

// NoName is the absence of a binder name.
var NoName = Symbol{}

// NameOf wraps a symbol.Symbol as a named Symbol.
func NameOf(s symbol.Symbol) Symbol {
	return Symbol{Symbol: s, Named: true}
}
