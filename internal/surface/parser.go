package surface

import "fmt"

// Parser turns a token stream into a Module (spec.md section 6.1-6.3). It
// is a straightforward recursive-descent parser with one level of
// precedence-climbing for binary operators, in the same spirit as the
// teacher's hand-written parser, sized to this much smaller grammar.
type Parser struct {
	toks []Token
	pos  int
	errs []error
}

// NewParser builds a Parser over an already-lexed token stream.
func NewParser(toks []Token) *Parser {
	return &Parser{toks: toks}
}

// ParseSource lexes and parses src in one step.
func ParseSource(src string) (*Module, []error) {
	toks, lexErrs := NewLexer(src).Tokenize()
	p := NewParser(toks)
	mod := p.parseModule()
	errs := append(lexErrs, p.errs...)
	return mod, errs
}

func (p *Parser) cur() Token {
	return p.toks[p.pos]
}

func (p *Parser) at(k TokenKind) bool {
	return p.cur().Kind == k
}

func (p *Parser) advance() Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k TokenKind, what string) Token {
	if !p.at(k) {
		p.errf("expected %s, found %q", what, p.cur().Text)
		return p.cur()
	}
	return p.advance()
}

func (p *Parser) errf(format string, args ...any) {
	p.errs = append(p.errs, fmt.Errorf("byte %d: %s", p.cur().Start, fmt.Sprintf(format, args...)))
}

func (p *Parser) pos_(start int) Pos {
	return Pos{Start: start, End: p.toks[p.pos].Start}
}

func (p *Parser) parseModule() *Module {
	mod := &Module{}
	for !p.at(TokenEOF) {
		if !p.at(TokenKwDef) {
			p.errf("expected 'def', found %q", p.cur().Text)
			p.advance()
			continue
		}
		mod.Items = append(mod.Items, p.parseItem())
	}
	return mod
}

func (p *Parser) parseItem() Item {
	start := p.cur().Start
	p.expect(TokenKwDef, "'def'")
	name := p.expect(TokenIdent, "a name").Text

	var params []Param
	for p.at(TokenLParen) || p.at(TokenAt) {
		params = append(params, p.parseParam())
	}

	var typ Expr
	if p.at(TokenColon) {
		p.advance()
		typ = p.parseExpr()
	}
	p.expect(TokenEquals, "'='")
	def := p.parseExpr()
	p.expect(TokenSemicolon, "';'")

	if len(params) > 0 {
		def = &FunLit{base: base{p.pos_(start)}, Params: params, Body: def}
		if typ != nil {
			typ = &FunType{base: base{p.pos_(start)}, Params: params, Output: typ}
		}
	}

	return Item{Pos: p.pos_(start), Name: name, Type: typ, Def: def}
}

// parseParam parses `(x : T)`, `(x)`, or `@(x : T)`/`@x`.
func (p *Parser) parseParam() Param {
	start := p.cur().Start
	plicity := ParamExplicit
	if p.at(TokenAt) {
		p.advance()
		plicity = ParamImplicit
	}
	if !p.at(TokenLParen) {
		name := p.expect(TokenIdent, "a parameter name").Text
		return Param{Pos: p.pos_(start), Plicity: plicity, Name: name}
	}
	p.advance()
	name := ""
	if p.at(TokenIdent) {
		name = p.advance().Text
	} else {
		p.expect(TokenPlaceholder, "a parameter name or '_'")
	}
	var typ Expr
	if p.at(TokenColon) {
		p.advance()
		typ = p.parseExpr()
	}
	p.expect(TokenRParen, "')'")
	return Param{Pos: p.pos_(start), Plicity: plicity, Name: name, Type: typ}
}

// parseExpr parses a full expression, including `let`, `fun ... =>`,
// annotations, and binary operators, in roughly the teacher's
// lowest-precedence-first structure.
func (p *Parser) parseExpr() Expr {
	start := p.cur().Start

	switch {
	case p.at(TokenKwLet):
		return p.parseLet(start)
	case p.at(TokenKwFun):
		return p.parseFun(start)
	case p.at(TokenKwIf):
		return p.parseIf(start)
	}

	expr := p.parseOpExpr()
	if p.at(TokenColon) {
		p.advance()
		typ := p.parseExpr()
		return &Ann{base: base{p.pos_(start)}, Expr: expr, Type: typ}
	}
	return expr
}

func (p *Parser) parseLet(start int) Expr {
	p.advance() // 'let'
	name := p.expect(TokenIdent, "a name").Text
	var typ Expr
	if p.at(TokenColon) {
		p.advance()
		typ = p.parseOpExpr()
	}
	p.expect(TokenEquals, "'='")
	def := p.parseExpr()
	p.expect(TokenSemicolon, "';'")
	body := p.parseExpr()
	return &Let{base: base{p.pos_(start)}, Name: name, Type: typ, Def: def, Body: body}
}

func (p *Parser) parseIf(start int) Expr {
	p.advance() // 'if'
	cond := p.parseExpr()
	p.expect(TokenKwThen, "'then'")
	conseq := p.parseExpr()
	p.expect(TokenKwElse, "'else'")
	alt := p.parseExpr()
	return &If{base: base{p.pos_(start)}, Cond: cond, Conseq: conseq, Alt: alt}
}

func (p *Parser) parseFun(start int) Expr {
	p.advance() // 'fun'
	var params []Param
	for p.at(TokenLParen) || p.at(TokenAt) || p.at(TokenIdent) || p.at(TokenPlaceholder) {
		params = append(params, p.parseParam())
	}
	if p.at(TokenThinArrow) {
		p.advance()
		output := p.parseExpr()
		return &FunType{base: base{p.pos_(start)}, Params: params, Output: output}
	}
	p.expect(TokenFatArrow, "'=>'")
	body := p.parseExpr()
	return &FunLit{base: base{p.pos_(start)}, Params: params, Body: body}
}

// precedence table, low to high.
var binPrec = map[TokenKind]int{
	TokenOpOrOr:   1,
	TokenOpAndAnd: 2,
	TokenOpEq:     3, TokenOpNeq: 3,
	TokenOpLt: 3, TokenOpLe: 3, TokenOpGt: 3, TokenOpGe: 3,
	TokenOpPlus: 4, TokenOpMinus: 4,
	TokenOpStar: 5,
}

var binOpOf = map[TokenKind]Operator{
	TokenOpOrOr: OpOr, TokenOpAndAnd: OpAnd,
	TokenOpEq: OpEq, TokenOpNeq: OpNeq,
	TokenOpLt: OpLt, TokenOpLe: OpLe, TokenOpGt: OpGt, TokenOpGe: OpGe,
	TokenOpPlus: OpAdd, TokenOpMinus: OpSub, TokenOpStar: OpMul,
}

func (p *Parser) parseOpExpr() Expr {
	return p.parseBinExpr(0)
}

func (p *Parser) parseBinExpr(minPrec int) Expr {
	start := p.cur().Start
	lhs := p.parseUnary()
	for {
		prec, ok := binPrec[p.cur().Kind]
		if !ok || prec < minPrec {
			return lhs
		}
		op := binOpOf[p.cur().Kind]
		p.advance()
		rhs := p.parseBinExpr(prec + 1)
		lhs = &BinOp{base: base{p.pos_(start)}, Op: op, Lhs: lhs, Rhs: rhs}
	}
}

func (p *Parser) parseUnary() Expr {
	start := p.cur().Start
	switch p.cur().Kind {
	case TokenOpBang:
		p.advance()
		return &UnaryOp{base: base{p.pos_(start)}, Op: OpNot, Expr: p.parseUnary()}
	case TokenOpMinus:
		p.advance()
		return &UnaryOp{base: base{p.pos_(start)}, Op: OpNeg, Expr: p.parseUnary()}
	}
	return p.parseApp()
}

func (p *Parser) parseApp() Expr {
	start := p.cur().Start
	head := p.parsePostfix()
	for p.startsAtom() {
		implicit := false
		if p.at(TokenAt) {
			implicit = true
			p.advance()
		}
		arg := p.parsePostfix()
		head = &FunApp{base: base{p.pos_(start)}, Head: head, Arg: arg, ImplicitArg: implicit}
	}
	if p.at(TokenThinArrow) {
		p.advance()
		output := p.parseExpr()
		return &FunArrow{base: base{p.pos_(start)}, Input: head, Output: output}
	}
	return head
}

func (p *Parser) startsAtom() bool {
	switch p.cur().Kind {
	case TokenIdent, TokenHole, TokenPlaceholder, TokenNumber, TokenByteString,
		TokenLParen, TokenLBrace, TokenLBracket, TokenKwType, TokenAt,
		TokenKwTrue, TokenKwFalse:
		return true
	}
	return false
}

func (p *Parser) parsePostfix() Expr {
	start := p.cur().Start
	e := p.parseAtom()
	for p.at(TokenDot) {
		p.advance()
		label := p.expect(TokenIdent, "a field name").Text
		e = &RecordProj{base: base{p.pos_(start)}, Head: e, Label: label}
	}
	return e
}

func (p *Parser) parseAtom() Expr {
	start := p.cur().Start
	switch p.cur().Kind {
	case TokenIdent:
		if p.cur().Text == "overlap" && p.toks[p.pos+1].Kind == TokenLBrace {
			p.advance()
			return p.parseBraces(start, true)
		}
		return &Name{base: base{p.pos_(start)}, Text: p.advance().Text}
	case TokenKwOverlap:
		if p.toks[p.pos+1].Kind == TokenLBrace {
			p.advance()
			return p.parseBraces(start, true)
		}
	case TokenHole:
		text := p.advance().Text
		name := ""
		if len(text) > 1 {
			name = text[1:]
		}
		return &Hole{base: base{p.pos_(start)}, Name: name}
	case TokenPlaceholder:
		p.advance()
		return &Placeholder{base: base{p.pos_(start)}}
	case TokenKwType:
		p.advance()
		return &TypeExpr{base: base{p.pos_(start)}}
	case TokenKwTrue:
		p.advance()
		return &BoolLit{base: base{p.pos_(start)}, Value: true}
	case TokenKwFalse:
		p.advance()
		return &BoolLit{base: base{p.pos_(start)}, Value: false}
	case TokenNumber:
		return &NumberLit{base: base{p.pos_(start)}, Text: p.advance().Text}
	case TokenByteString:
		return &ByteStringLit{base: base{p.pos_(start)}, Text: p.advance().Text}
	case TokenLParen:
		p.advance()
		if p.at(TokenRParen) {
			p.advance()
			return &RecordLit{base: base{p.pos_(start)}}
		}
		first := p.parseExpr()
		if !p.at(TokenComma) {
			p.expect(TokenRParen, "')'")
			return first
		}
		// A tuple `(e1, e2, ...)` desugars at parse time to a positional
		// record literal `{ _0 = e1, _1 = e2, ... }` (spec.md section 4.3's
		// tuple-as-record sugar).
		fields := []RecordLitField{{Pos: first.Span(), Label: "_0", Expr: first}}
		for p.at(TokenComma) {
			p.advance()
			if p.at(TokenRParen) {
				break
			}
			e := p.parseExpr()
			fields = append(fields, RecordLitField{Pos: e.Span(), Label: fmt.Sprintf("_%d", len(fields)), Expr: e})
		}
		p.expect(TokenRParen, "')'")
		return &RecordLit{base: base{p.pos_(start)}, Fields: fields}
	case TokenLBracket:
		p.advance()
		var exprs []Expr
		for !p.at(TokenRBracket) && !p.at(TokenEOF) {
			exprs = append(exprs, p.parseExpr())
			if p.at(TokenComma) {
				p.advance()
			} else {
				break
			}
		}
		p.expect(TokenRBracket, "']'")
		return &ArrayLit{base: base{p.pos_(start)}, Exprs: exprs}
	case TokenLBrace:
		return p.parseBraces(start, false)
	case TokenKwMatch:
		return p.parseMatch(start)
	}

	p.errf("expected an expression, found %q", p.cur().Text)
	p.advance()
	return &Placeholder{base: base{p.pos_(start)}}
}

// parseBraces disambiguates `{ ... }` between a record type, a record
// literal, and a format record by looking at how the first field is
// written (spec.md section 6.3): `l : T` is a type field, `l <- F` (with
// an optional `where p`) is a format field, anything else is a value
// field.
func (p *Parser) parseBraces(start int, overlap bool) Expr {
	p.advance() // '{'
	if p.at(TokenRBrace) {
		p.advance()
		return &RecordLit{base: base{p.pos_(start)}}
	}

	firstLabelStart := p.pos
	label := ""
	if p.at(TokenIdent) {
		label = p.toks[firstLabelStart].Text
	}

	switch {
	case p.toks[firstLabelStart+1].Kind == TokenColon:
		return p.parseRecordTypeBody(start)
	case p.toks[firstLabelStart+1].Kind == TokenArrowLeft:
		return p.parseFormatRecordBody(start, overlap)
	default:
		_ = label
		return p.parseRecordLitBody(start)
	}
}

func (p *Parser) parseRecordTypeBody(start int) Expr {
	var fields []RecordTypeField
	for !p.at(TokenRBrace) && !p.at(TokenEOF) {
		fstart := p.cur().Start
		label := p.expect(TokenIdent, "a field label").Text
		p.expect(TokenColon, "':'")
		typ := p.parseExpr()
		fields = append(fields, RecordTypeField{Pos: p.pos_(fstart), Label: label, Type: typ})
		if p.at(TokenComma) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(TokenRBrace, "'}'")
	return &RecordType{base: base{p.pos_(start)}, Fields: fields}
}

func (p *Parser) parseRecordLitBody(start int) Expr {
	var fields []RecordLitField
	for !p.at(TokenRBrace) && !p.at(TokenEOF) {
		fstart := p.cur().Start
		label := p.expect(TokenIdent, "a field label").Text
		var expr Expr
		if p.at(TokenEquals) {
			p.advance()
			expr = p.parseExpr()
		}
		fields = append(fields, RecordLitField{Pos: p.pos_(fstart), Label: label, Expr: expr})
		if p.at(TokenComma) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(TokenRBrace, "'}'")
	return &RecordLit{base: base{p.pos_(start)}, Fields: fields}
}

func (p *Parser) parseFormatRecordBody(start int, overlap bool) Expr {
	var fields []FormatField
	for !p.at(TokenRBrace) && !p.at(TokenEOF) {
		fstart := p.cur().Start
		label := p.expect(TokenIdent, "a field label").Text
		field := FormatField{Pos: p.pos_(fstart), Label: label}
		switch {
		case p.at(TokenArrowLeft):
			p.advance()
			field.Format = p.parseOpExpr()
			if p.at(TokenKwWhere) {
				p.advance()
				field.Where = p.parseExpr()
			}
		case p.at(TokenEquals):
			p.advance()
			field.Computed = p.parseExpr()
		default:
			p.errf("expected '<-' or '=' after field label %q", label)
		}
		fields = append(fields, field)
		if p.at(TokenComma) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(TokenRBrace, "'}'")
	return &FormatRecord{base: base{p.pos_(start)}, Fields: fields, Overlap: overlap}
}

func (p *Parser) parseMatch(start int) Expr {
	p.advance() // 'match'
	scrutinee := p.parsePostfix()
	p.expect(TokenLBrace, "'{'")
	var arms []MatchArm
	for !p.at(TokenRBrace) && !p.at(TokenEOF) {
		astart := p.cur().Start
		pat := p.parsePattern()
		p.expect(TokenFatArrow, "'=>'")
		body := p.parseExpr()
		arms = append(arms, MatchArm{Pos: p.pos_(astart), Pattern: pat, Body: body})
		if p.at(TokenComma) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(TokenRBrace, "'}'")
	return &Match{base: base{p.pos_(start)}, Scrutinee: scrutinee, Arms: arms}
}

func (p *Parser) parsePattern() Pattern {
	start := p.cur().Start
	switch p.cur().Kind {
	case TokenNumber:
		return &NumberPattern{base: base{p.pos_(start)}, Text: p.advance().Text}
	case TokenIdent:
		return &NamePattern{base: base{p.pos_(start)}, Name: p.advance().Text}
	case TokenPlaceholder:
		p.advance()
		return &NamePattern{base: base{p.pos_(start)}, Name: "_"}
	default:
		p.errf("expected a pattern, found %q", p.cur().Text)
		p.advance()
		return &NamePattern{base: base{p.pos_(start)}, Name: "_"}
	}
}
