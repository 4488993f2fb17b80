package parser

import (
	"github.com/schiffy91/btrc-sub001/internal/ast"
	"github.com/schiffy91/btrc-sub001/internal/token"
)

// parseExpr is the entry point of the precedence-climbing expression
// parser: assignment binds loosest, postfix/primary bind tightest.
func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseAssignment()
}

var compoundAssignOps = map[token.Kind]ast.BinaryOp{
	token.PlusEq: ast.Add, token.MinusEq: ast.Sub, token.StarEq: ast.Mul,
	token.SlashEq: ast.Div, token.PercentEq: ast.Mod, token.AmpEq: ast.BitAnd,
	token.PipeEq: ast.BitOr, token.CaretEq: ast.BitXor,
	token.LtLtEq: ast.Shl, token.GtGtEq: ast.Shr,
}

func (p *Parser) parseAssignment() (ast.Expr, error) {
	left, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if p.check(token.Eq) {
		t := p.advance()
		value, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return &ast.AssignExpr{Position: p.pos2(t), Target: left, Op: ast.Eq, Value: value}, nil
	}
	if op, ok := compoundAssignOps[p.cur().Kind]; ok {
		t := p.advance()
		value, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return &ast.AssignExpr{Position: p.pos2(t), Target: left, Op: op, Value: value}, nil
	}
	return left, nil
}

func (p *Parser) parseTernary() (ast.Expr, error) {
	cond, err := p.parseCoalesce()
	if err != nil {
		return nil, err
	}
	if p.check(token.Question) {
		t := p.advance()
		then, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Colon); err != nil {
			return nil, err
		}
		els, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return &ast.TernaryExpr{Position: p.pos2(t), Cond: cond, Then: then, Else: els}, nil
	}
	return cond, nil
}

func (p *Parser) parseCoalesce() (ast.Expr, error) {
	left, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	for p.check(token.QuestionQuestion) {
		t := p.advance()
		right, err := p.parseLogicalOr()
		if err != nil {
			return nil, err
		}
		left = &ast.CoalesceExpr{Position: p.pos2(t), Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) binaryLevel(next func() (ast.Expr, error), ops map[token.Kind]ast.BinaryOp) (ast.Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ops[p.cur().Kind]
		if !ok {
			return left, nil
		}
		t := p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Position: p.pos2(t), Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseLogicalOr() (ast.Expr, error) {
	return p.binaryLevel(p.parseLogicalAnd, map[token.Kind]ast.BinaryOp{token.PipePipe: ast.Or})
}

func (p *Parser) parseLogicalAnd() (ast.Expr, error) {
	return p.binaryLevel(p.parseBitOr, map[token.Kind]ast.BinaryOp{token.AmpAmp: ast.And})
}

func (p *Parser) parseBitOr() (ast.Expr, error) {
	return p.binaryLevel(p.parseBitXor, map[token.Kind]ast.BinaryOp{token.Pipe: ast.BitOr})
}

func (p *Parser) parseBitXor() (ast.Expr, error) {
	return p.binaryLevel(p.parseBitAnd, map[token.Kind]ast.BinaryOp{token.Caret: ast.BitXor})
}

func (p *Parser) parseBitAnd() (ast.Expr, error) {
	return p.binaryLevel(p.parseEquality, map[token.Kind]ast.BinaryOp{token.Amp: ast.BitAnd})
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	return p.binaryLevel(p.parseRelational, map[token.Kind]ast.BinaryOp{
		token.EqEq: ast.Eq, token.BangEq: ast.Ne,
	})
}

func (p *Parser) parseRelational() (ast.Expr, error) {
	return p.binaryLevel(p.parseShift, map[token.Kind]ast.BinaryOp{
		token.Lt: ast.Lt, token.Gt: ast.Gt, token.LtEq: ast.Le, token.GtEq: ast.Ge,
	})
}

func (p *Parser) parseShift() (ast.Expr, error) {
	return p.binaryLevel(p.parseAdditive, map[token.Kind]ast.BinaryOp{
		token.LtLt: ast.Shl, token.GtGt: ast.Shr,
	})
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	return p.binaryLevel(p.parseMultiplicative, map[token.Kind]ast.BinaryOp{
		token.Plus: ast.Add, token.Minus: ast.Sub,
	})
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	return p.binaryLevel(p.parseUnary, map[token.Kind]ast.BinaryOp{
		token.Star: ast.Mul, token.Slash: ast.Div, token.Percent: ast.Mod,
	})
}

var unaryOps = map[token.Kind]ast.UnaryOp{
	token.Minus: ast.Neg, token.Bang: ast.Not, token.Tilde: ast.BitNot,
	token.Star: ast.Deref, token.Amp: ast.AddrOf,
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.check(token.PlusPlus) || p.check(token.MinusMinus) {
		t := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		op := ast.PreInc
		if t.Kind == token.MinusMinus {
			op = ast.PreDec
		}
		return &ast.UnaryExpr{Position: p.pos2(t), Op: op, Operand: operand}, nil
	}
	if op, ok := unaryOps[p.cur().Kind]; ok {
		t := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Position: p.pos2(t), Op: op, Operand: operand}, nil
	}
	if p.check(token.LParen) && p.looksLikeCast() {
		t := p.advance()
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.CastExpr{Position: p.pos2(t), Target: operand, Type: ty}, nil
	}
	if p.check(token.Sizeof) {
		t := p.advance()
		if _, err := p.expect(token.LParen); err != nil {
			return nil, err
		}
		se := &ast.SizeofExpr{Position: p.pos2(t)}
		if p.isTypeStart() && p.looksLikeTypeUntilCloseParen() {
			ty, err := p.parseType()
			if err != nil {
				return nil, err
			}
			se.Type = ty
		} else {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			se.Expr = e
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		return se, nil
	}
	return p.parsePostfix()
}

// looksLikeCast disambiguates "(Type)expr" from a parenthesized
// expression or a tuple literal via save/restore lookahead.
func (p *Parser) looksLikeCast() bool {
	m := p.save()
	defer p.restore(m)
	p.advance() // '('
	if !p.isTypeStart() {
		return false
	}
	if _, err := p.parseType(); err != nil {
		return false
	}
	if !p.check(token.RParen) {
		return false
	}
	p.advance()
	switch p.cur().Kind {
	case token.Ident, token.IntLit, token.FloatLit, token.StringLit, token.CharLit,
		token.LParen, token.Minus, token.Bang, token.Tilde, token.Self, token.Super,
		token.New, token.PlusPlus, token.MinusMinus:
		return true
	default:
		return false
	}
}

func (p *Parser) looksLikeTypeUntilCloseParen() bool {
	m := p.save()
	defer p.restore(m)
	if _, err := p.parseType(); err != nil {
		return false
	}
	return p.check(token.RParen)
}
