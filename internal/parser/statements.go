package parser

import (
	"github.com/schiffy91/btrc-sub001/internal/ast"
	"github.com/schiffy91/btrc-sub001/internal/token"
)

func (p *Parser) parseBlock() (*ast.Block, error) {
	start, err := p.expect(token.LBrace)
	if err != nil {
		return nil, err
	}
	b := &ast.Block{Position: p.pos2(start)}
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		b.Stmts = append(b.Stmts, s)
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	return b, nil
}

// parseStmt dispatches on the current token to the right statement form.
// Like the declaration dispatcher, it peeks rather than backtracks except
// for the three-way "for" disambiguation and the var/expr boundary.
func (p *Parser) parseStmt() (ast.Stmt, error) {
	switch p.cur().Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.If:
		return p.parseIfStmt()
	case token.While:
		return p.parseWhileStmt()
	case token.Do:
		return p.parseDoWhileStmt()
	case token.For:
		return p.parseForStmt()
	case token.Parallel:
		return p.parseParallelForStmt()
	case token.Switch:
		return p.parseSwitchStmt()
	case token.Return:
		return p.parseReturnStmt()
	case token.Break:
		t := p.advance()
		if _, err := p.expect(token.Semicolon); err != nil {
			return nil, err
		}
		return &ast.BreakStmt{Position: p.pos2(t)}, nil
	case token.Continue:
		t := p.advance()
		if _, err := p.expect(token.Semicolon); err != nil {
			return nil, err
		}
		return &ast.ContinueStmt{Position: p.pos2(t)}, nil
	case token.Delete:
		t := p.advance()
		target, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semicolon); err != nil {
			return nil, err
		}
		return &ast.DeleteStmt{Position: p.pos2(t), Target: target}, nil
	case token.Keep:
		t := p.advance()
		target, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semicolon); err != nil {
			return nil, err
		}
		return &ast.KeepStmt{Position: p.pos2(t), Target: target}, nil
	case token.Release:
		t := p.advance()
		target, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semicolon); err != nil {
			return nil, err
		}
		return &ast.ReleaseStmt{Position: p.pos2(t), Target: target}, nil
	case token.Try:
		return p.parseTryCatchStmt()
	case token.Throw:
		t := p.advance()
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semicolon); err != nil {
			return nil, err
		}
		return &ast.ThrowStmt{Position: p.pos2(t), Value: value}, nil
	case token.Var:
		return p.parseVarDeclStmt()
	default:
		if p.isTypeStart() && p.looksLikeTypedVarDecl() {
			return p.parseTypedVarDeclStmt()
		}
		return p.parseExprStmt()
	}
}

func (p *Parser) parseIfStmt() (ast.Stmt, error) {
	t := p.advance() // 'if'
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{Position: p.pos2(t), Cond: cond, Then: then}
	if p.match(token.Else) {
		if p.check(token.If) {
			elseIf, err := p.parseIfStmt()
			if err != nil {
				return nil, err
			}
			stmt.Else = elseIf
		} else {
			elseBlock, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			stmt.Else = elseBlock
		}
	}
	return stmt, nil
}

func (p *Parser) parseWhileStmt() (ast.Stmt, error) {
	t := p.advance() // 'while'
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Position: p.pos2(t), Cond: cond, Body: body}, nil
}

func (p *Parser) parseDoWhileStmt() (ast.Stmt, error) {
	t := p.advance() // 'do'
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.While); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return &ast.DoWhileStmt{Position: p.pos2(t), Body: body, Cond: cond}, nil
}

// parseForStmt disambiguates the three "for" surface forms: single-variable
// for-in ("for ident in expr"), two-variable for-in ("for ident, ident in
// expr"), and the parenthesized C-style three-clause form, by bounded
// lookahead after the "for" keyword. The for-in forms take no parentheses.
func (p *Parser) parseForStmt() (ast.Stmt, error) {
	t := p.advance() // 'for'

	if p.check(token.Ident) && p.at(1).Kind == token.In {
		name := p.advance()
		p.advance() // 'in'
		iterable, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &ast.ForInStmt{Position: p.pos2(t), VarName: name.Text, Iterable: iterable, Body: body}, nil
	}

	if p.check(token.Ident) && p.at(1).Kind == token.Comma &&
		p.at(2).Kind == token.Ident && p.at(3).Kind == token.In {
		name := p.advance()
		p.advance() // ','
		val := p.advance()
		p.advance() // 'in'
		iterable, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &ast.ForInStmt{
			Position: p.pos2(t), VarName: name.Text, ValName: val.Text,
			Iterable: iterable, Body: body,
		}, nil
	}

	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	return p.parseCForStmt(t)
}

func (p *Parser) parseCForStmt(t token.Token) (ast.Stmt, error) {
	var init ast.Stmt
	if !p.check(token.Semicolon) {
		var err error
		if p.check(token.Var) {
			init, err = p.parseVarDeclStmtNoSemi()
		} else if p.isTypeStart() && p.looksLikeTypedVarDecl() {
			init, err = p.parseTypedVarDeclStmtNoSemi()
		} else {
			e, exprErr := p.parseExpr()
			if exprErr != nil {
				return nil, exprErr
			}
			init = &ast.ExprStmt{Position: e.Pos(), Expr: e}
		}
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	var cond ast.Expr
	if !p.check(token.Semicolon) {
		c, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		cond = c
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	var update ast.Stmt
	if !p.check(token.RParen) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		update = &ast.ExprStmt{Position: e.Pos(), Expr: e}
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.CForStmt{Position: p.pos2(t), Init: init, Cond: cond, Update: update, Body: body}, nil
}

func (p *Parser) parseParallelForStmt() (ast.Stmt, error) {
	t := p.advance() // 'parallel'
	if _, err := p.expect(token.For); err != nil {
		return nil, err
	}
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.In); err != nil {
		return nil, err
	}
	iterable, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.ParallelForStmt{Position: p.pos2(t), VarName: name.Text, Iterable: iterable, Body: body}, nil
}

func (p *Parser) parseSwitchStmt() (ast.Stmt, error) {
	t := p.advance() // 'switch'
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	subject, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	sw := &ast.SwitchStmt{Position: p.pos2(t), Subject: subject}
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		c, err := p.parseSwitchCase()
		if err != nil {
			return nil, err
		}
		sw.Cases = append(sw.Cases, c)
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	return sw, nil
}

func (p *Parser) parseSwitchCase() (*ast.SwitchCase, error) {
	start := p.cur()
	c := &ast.SwitchCase{Position: p.pos2(start)}
	if p.match(token.Default) {
		c.IsDefault = true
	} else {
		if _, err := p.expect(token.Case); err != nil {
			return nil, err
		}
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		c.Values = append(c.Values, v)
		for p.match(token.Comma) {
			if _, err := p.expect(token.Case); err != nil {
				return nil, err
			}
			v, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			c.Values = append(c.Values, v)
		}
	}
	if _, err := p.expect(token.Colon); err != nil {
		return nil, err
	}
	for !p.check(token.Case) && !p.check(token.Default) && !p.check(token.RBrace) && !p.check(token.EOF) {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		c.Stmts = append(c.Stmts, s)
	}
	return c, nil
}

func (p *Parser) parseReturnStmt() (ast.Stmt, error) {
	t := p.advance() // 'return'
	if p.match(token.Semicolon) {
		return &ast.ReturnStmt{Position: p.pos2(t)}, nil
	}
	v, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Position: p.pos2(t), Value: v}, nil
}

func (p *Parser) parseTryCatchStmt() (ast.Stmt, error) {
	t := p.advance() // 'try'
	tryBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &ast.TryCatchStmt{Position: p.pos2(t), Try: tryBlock}
	if p.match(token.Catch) {
		if _, err := p.expect(token.LParen); err != nil {
			return nil, err
		}
		name, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		stmt.CatchVar = name.Text
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		catchBlock, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Catch = catchBlock
	}
	if p.match(token.Finally) {
		finallyBlock, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Finally = finallyBlock
	}
	return stmt, nil
}

// looksLikeTypedVarDecl distinguishes "Type name = ..." / "Type name;" from
// an expression statement that merely starts with a type keyword (e.g. a
// cast-prefixed expression), via backtracking.
func (p *Parser) looksLikeTypedVarDecl() bool {
	m := p.save()
	defer p.restore(m)
	if _, err := p.parseType(); err != nil {
		return false
	}
	return p.check(token.Ident)
}

func (p *Parser) parseVarDeclStmt() (ast.Stmt, error) {
	stmt, err := p.parseVarDeclStmtNoSemi()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseVarDeclStmtNoSemi parses "var name = initializer" without consuming
// the trailing semicolon, so the C-style for-loop init clause can reuse it.
// The parser never fills Type here; an untyped var requires an initializer
// and the analyzer fills the inferred type later.
func (p *Parser) parseVarDeclStmtNoSemi() (ast.Stmt, error) {
	t := p.advance() // 'var'
	keep := false
	if p.check(token.Keep) {
		keep = true
		p.advance()
	}
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Eq); err != nil {
		return nil, p.errf("'var' declaration requires an initializer")
	}
	init, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.VarDeclStmt{Position: p.pos2(t), Keep: keep, Name: name.Text, Initializer: init}, nil
}

func (p *Parser) parseTypedVarDeclStmt() (ast.Stmt, error) {
	stmt, err := p.parseTypedVarDeclStmtNoSemi()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseTypedVarDeclStmtNoSemi() (ast.Stmt, error) {
	start := p.cur()
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	stmt := &ast.VarDeclStmt{Position: p.pos2(start), Name: name.Text, Type: ty}
	if p.match(token.Eq) {
		init, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Initializer = init
	}
	return stmt, nil
}

func (p *Parser) parseExprStmt() (ast.Stmt, error) {
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return &ast.ExprStmt{Position: e.Pos(), Expr: e}, nil
}
