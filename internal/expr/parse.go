package expr

// Grammar:
//
//	expr    := term (('+' | '-') term)*
//	term    := factor (('*' | '/') factor)*
//	factor  := unary | primary
//	unary   := ('+' | '-') primary
//	primary := NUMBER | IDENT | '(' expr ')'
//
// The parser does not keep a precedence table. It parses a factor, then
// repeatedly parses (operator, factor) pairs; when the upcoming operator
// binds tighter than the one just consumed (multiplicative after
// additive), it absorbs the tighter-binding run into the right operand
// before folding. Folding is otherwise immediate and left-to-right,
// which gives both tiers left associativity.

// Parse translates src into an expression tree.
//
// The whole input must form exactly one expression. A leftover
// unlexable token is an unexpected-token error; any other leftover
// token is a trailing-input error. A failed parse returns a
// *ParseError and no tree, and never mutates anything.
func Parse(src string) (Expr, error) {
	p := &parser{toks: lex(src)}
	if p.peek().kind == tokenEOF {
		return nil, newEmptyInputError()
	}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	switch tok := p.peek(); tok.kind {
	case tokenEOF:
	case tokenInvalid:
		return nil, newUnexpectedTokenError(tok)
	default:
		return nil, newTrailingInputError(tok)
	}
	return e, nil
}

// parser walks the token stream produced by lex. toks always ends with
// an EOF token, so peek never runs off the end.
type parser struct {
	toks []token
	cur  int
}

func (p *parser) peek() token {
	return p.toks[p.cur]
}

func (p *parser) next() token {
	tok := p.toks[p.cur]
	if tok.kind != tokenEOF {
		p.cur++
	}
	return tok
}

func (p *parser) expr() (Expr, error) {
	lhs, err := p.factor()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := binaryOpFor(p.peek().kind)
		if !ok {
			break
		}
		p.next()
		rhs, err := p.factor()
		if err != nil {
			return nil, err
		}
		// Absorb any tighter-binding run into rhs before folding, so
		// 2+3*4 groups as 2+(3*4) while 2*3+4 folds immediately.
		for {
			tight, ok := binaryOpFor(p.peek().kind)
			if !ok || tight.precedence() <= op.precedence() {
				break
			}
			p.next()
			operand, err := p.factor()
			if err != nil {
				return nil, err
			}
			rhs = Binary{Op: tight, Left: rhs, Right: operand}
		}
		lhs = Binary{Op: op, Left: lhs, Right: rhs}
	}
	return lhs, nil
}

func (p *parser) factor() (Expr, error) {
	switch p.peek().kind {
	case tokenPlus:
		p.next()
		operand, err := p.primary()
		if err != nil {
			return nil, err
		}
		return Unary{Op: OpPos, Operand: operand}, nil
	case tokenMinus:
		p.next()
		operand, err := p.primary()
		if err != nil {
			return nil, err
		}
		return Unary{Op: OpNeg, Operand: operand}, nil
	default:
		return p.primary()
	}
}

func (p *parser) primary() (Expr, error) {
	switch tok := p.peek(); tok.kind {
	case tokenNumber:
		p.next()
		return Val{Number: tok.number}, nil
	case tokenIdent:
		p.next()
		return Var{Name: tok.text}, nil
	case tokenLParen:
		open := p.next()
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokenRParen {
			return nil, newUnclosedParenError(open)
		}
		p.next()
		return e, nil
	default:
		return nil, newUnexpectedTokenError(tok)
	}
}

// binaryOpFor maps an operator token to its BinaryOp.
func binaryOpFor(kind tokenKind) (BinaryOp, bool) {
	switch kind {
	case tokenPlus:
		return OpAdd, true
	case tokenMinus:
		return OpSub, true
	case tokenStar:
		return OpMul, true
	case tokenSlash:
		return OpDiv, true
	}
	return 0, false
}
