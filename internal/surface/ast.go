package surface

// Pos is a byte-offset span into the source a node was parsed from.
type Pos struct {
	Start, End int
}

// Module is a sequence of top-level items (spec.md section 6.3).
type Module struct {
	Items []Item
}

// Item is a top-level definition. Every module item is a Def; Fathom has no
// other top-level item kind at the surface (spec.md section 6.3).
type Item struct {
	Pos  Pos
	Name string
	Type Expr // nil if not annotated
	Def  Expr
}

// Param is one parameter of a surface-level function definition or
// function literal, desugared during elaboration into nested FunType/FunLit
// terms (spec.md section 6.3's "definitions may take parameters" sugar).
type Param struct {
	Pos      Pos
	Plicity  ParamPlicity
	Name     string // "" for a placeholder parameter
	Type     Expr   // nil if not annotated
}

// ParamPlicity mirrors core.Plicity at the surface, before elaboration
// resolves which parameters are actually implicit.
type ParamPlicity uint8

const (
	ParamExplicit ParamPlicity = iota
	ParamImplicit
)

// Expr is the surface expression AST (spec.md section 6.2). As with the
// core IR, every shape implements a private marker method so an Expr can
// only ever be one of these.
type Expr interface {
	isExpr()
	Span() Pos
}

type base struct{ Pos Pos }

func (b base) Span() Pos { return b.Pos }

// Name is a reference to a bound variable, item, or prim.
type Name struct {
	base
	Text string
}

func (*Name) isExpr() {}

// Hole is an elaborator-filled placeholder, optionally named (`?n`) so its
// solution can be referred back to in diagnostics (spec.md section 5.3).
type Hole struct {
	base
	Name string // "" for an anonymous hole
}

func (*Hole) isExpr() {}

// Placeholder (`_`) asks the elaborator to infer this position entirely,
// distinct from a Hole only in that it's never referred to again.
type Placeholder struct {
	base
}

func (*Placeholder) isExpr() {}

// Ann is an explicit type annotation, `expr : type`.
type Ann struct {
	base
	Expr Expr
	Type Expr
}

func (*Ann) isExpr() {}

// Let is `let name : type = def; body` or `let name = def; body`.
type Let struct {
	base
	Name string
	Type Expr // nil if not annotated
	Def  Expr
	Body Expr
}

func (*Let) isExpr() {}

// TypeExpr is the literal keyword `Type`, the universe of types.
type TypeExpr struct {
	base
}

func (*TypeExpr) isExpr() {}

// FunArrow is a non-dependent function type, `A -> B`.
type FunArrow struct {
	base
	Input  Expr
	Output Expr
}

func (*FunArrow) isExpr() {}

// FunType is a dependent function type with one or more parameters,
// `fun (x : A) (@y : B) -> C`.
type FunType struct {
	base
	Params []Param
	Output Expr
}

func (*FunType) isExpr() {}

// FunLit is a function literal, `fun x y => body`.
type FunLit struct {
	base
	Params []Param
	Body   Expr
}

func (*FunLit) isExpr() {}

// FunApp is a function application; ImplicitArg is set for an explicit `@arg`
// application (spec.md section 6.2's "explicit application of an implicit
// parameter").
type FunApp struct {
	base
	Head        Expr
	Arg         Expr
	ImplicitArg bool
}

func (*FunApp) isExpr() {}

// RecordTypeField is one field of a record type.
type RecordTypeField struct {
	Pos   Pos
	Label string
	Type  Expr
}

// RecordType is `{ l1 : T1, l2 : T2 }`.
type RecordType struct {
	base
	Fields []RecordTypeField
}

func (*RecordType) isExpr() {}

// RecordLitField is one field of a record literal; Expr is nil for
// shorthand `{ l }` meaning `{ l = l }`.
type RecordLitField struct {
	Pos   Pos
	Label string
	Expr  Expr
}

// RecordLit is `{ l1 = e1, l2 = e2 }`.
type RecordLit struct {
	base
	Fields []RecordLitField
}

func (*RecordLit) isExpr() {}

// RecordProj is `head.label`.
type RecordProj struct {
	base
	Head  Expr
	Label string
}

func (*RecordProj) isExpr() {}

// ArrayLit is `[e1, e2, e3]`.
type ArrayLit struct {
	base
	Exprs []Expr
}

func (*ArrayLit) isExpr() {}

// FormatField is one field of a format-record literal: `l <- F` read
// sequentially, `l <- F where p` a refined field desugared to FormatCond,
// or `l = e` a computed field that consumes no input (spec.md section
// 6.3's format-record syntax).
type FormatField struct {
	Pos       Pos
	Label     string
	Format    Expr // nil for a computed field
	Where     Expr // refinement predicate, nil if unrefined
	Computed  Expr // nil for a read field
}

// FormatRecord is `{ f1 <- F1, f2 <- F2 where p, f3 = e }`, distinguished
// from an ordinary record literal by its keyword-free `<-`/`where` sugar;
// the parser tells them apart by how the first field is written, not by a
// distinct delimiter (spec.md section 6.3).
type FormatRecord struct {
	base
	Fields []FormatField
	// Overlap marks this as an overlap-format record (all fields start at
	// the same offset) rather than a sequential one (spec.md section 4.5,
	// glossary "Overlap format").
	Overlap bool
}

func (*FormatRecord) isExpr() {}

// NumberLit is a numeric literal, radix and display style carried through
// to elaboration (spec.md section 6.2, 6.4's "numeric literal styles").
type NumberLit struct {
	base
	Text string
}

func (*NumberLit) isExpr() {}

// ByteStringLit is a `b"..."` packed ASCII literal (spec.md section 6.2).
type ByteStringLit struct {
	base
	Text string
}

func (*ByteStringLit) isExpr() {}

// BoolLit is the literal keyword `true` or `false`.
type BoolLit struct {
	base
	Value bool
}

func (*BoolLit) isExpr() {}

// If is `if cond then conseq else alt`, desugared during elaboration to a
// ConstMatch over the two Bool constants (spec.md section 4.3's "if-then-else
// desugars to ConstMatch").
type If struct {
	base
	Cond   Expr
	Conseq Expr
	Alt    Expr
}

func (*If) isExpr() {}

// MatchArm is one arm of a match expression.
type MatchArm struct {
	Pos     Pos
	Pattern Pattern
	Body    Expr
}

// Match is `match scrutinee { arm1, arm2, ... }` (spec.md section 6.2,
// section 4.3's pattern compilation).
type Match struct {
	base
	Scrutinee Expr
	Arms      []MatchArm
}

func (*Match) isExpr() {}

// BinOp is a surface binary operator application, resolved to a concrete
// core prim once the operand types are known (spec.md section 4.3's
// "binary operator resolution").
type BinOp struct {
	base
	Op    Operator
	Lhs   Expr
	Rhs   Expr
}

func (*BinOp) isExpr() {}

// UnaryOp is a surface unary operator application (`!x`, `-x`).
type UnaryOp struct {
	base
	Op   Operator
	Expr Expr
}

func (*UnaryOp) isExpr() {}

// Operator names a surface operator independent of the concrete type its
// operands turn out to have.
type Operator uint8

const (
	OpEq Operator = iota
	OpNeq
	OpLt
	OpLe
	OpGt
	OpGe
	OpAdd
	OpSub
	OpMul
	OpNeg
	OpNot
	OpAnd
	OpOr
)

// Pattern is a surface match pattern: a literal constant, a binder, or a
// wildcard (spec.md section 4.3's "non-constant patterns stay unsupported").
type Pattern interface {
	isPattern()
	Span() Pos
}

// NumberPattern matches a numeric literal exactly.
type NumberPattern struct {
	base
	Text string
}

func (*NumberPattern) isPattern() {}

// NamePattern binds the scrutinee to Name for the arm's body, or — when
// Name is "_" — matches anything without binding.
type NamePattern struct {
	base
	Name string
}

func (*NamePattern) isPattern() {}
