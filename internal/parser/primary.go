package parser

import (
	"github.com/schiffy91/btrc-sub001/internal/ast"
	"github.com/schiffy91/btrc-sub001/internal/token"
)

func (p *Parser) parsePrimary() (ast.Expr, error) {
	if p.verboseLambdaAhead() {
		return p.parseVerboseLambda()
	}
	t := p.cur()
	switch t.Kind {
	case token.IntLit:
		p.advance()
		return &ast.IntLiteral{Position: p.pos2(t), Text: t.Text}, nil
	case token.FloatLit:
		p.advance()
		return &ast.FloatLiteral{Position: p.pos2(t), Text: t.Text}, nil
	case token.StringLit:
		p.advance()
		return &ast.StringLiteral{Position: p.pos2(t), Value: t.Text}, nil
	case token.CharLit:
		p.advance()
		return &ast.CharLiteral{Position: p.pos2(t), Value: t.Text}, nil
	case token.FStringLit:
		p.advance()
		return p.parseFStringParts(t)
	case token.True:
		p.advance()
		return &ast.BoolLiteral{Position: p.pos2(t), Value: true}, nil
	case token.False:
		p.advance()
		return &ast.BoolLiteral{Position: p.pos2(t), Value: false}, nil
	case token.Null:
		p.advance()
		return &ast.NullLiteral{Position: p.pos2(t)}, nil
	case token.Self:
		p.advance()
		return &ast.SelfExpr{Position: p.pos2(t)}, nil
	case token.Super:
		p.advance()
		return &ast.SuperExpr{Position: p.pos2(t)}, nil
	case token.New:
		return p.parseNewExpr()
	case token.Spawn:
		p.advance()
		body, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return &ast.SpawnExpr{Position: p.pos2(t), Body: body}, nil
	case token.LBracket:
		return p.parseListLiteral()
	case token.LBrace:
		return p.parseMapLiteral()
	case token.LParen:
		return p.parseParenOrTupleOrLambda()
	case token.Ident:
		if p.lambdaAheadFromIdent() {
			return p.parseSingleIdentLambda()
		}
		if brace, ok, err := p.tryParseBraceInit(); ok || err != nil {
			return brace, err
		}
		p.advance()
		return &ast.Identifier{Position: p.pos2(t), Name: t.Text}, nil
	default:
		return nil, p.errf("unexpected token %s %q in expression", t.Kind, t.Text)
	}
}

func (p *Parser) parseNewExpr() (ast.Expr, error) {
	t := p.advance() // 'new'
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	ne := &ast.NewExpr{Position: p.pos2(t), ClassName: name.Text}
	if p.check(token.Lt) {
		p.advance()
		for {
			arg, err := p.parseType()
			if err != nil {
				return nil, err
			}
			ne.GenericArgs = append(ne.GenericArgs, arg)
			if p.match(token.Comma) {
				continue
			}
			break
		}
		if err := p.expectGT(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	args, err := p.parseArgList(token.RParen)
	if err != nil {
		return nil, err
	}
	ne.Args = args
	return ne, nil
}

func (p *Parser) parseListLiteral() (ast.Expr, error) {
	t := p.advance() // '['
	lit := &ast.ListLiteral{Position: p.pos2(t)}
	if p.check(token.RBracket) {
		p.advance()
		return lit, nil
	}
	for {
		e, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		lit.Elements = append(lit.Elements, e)
		if p.match(token.Comma) {
			continue
		}
		break
	}
	if _, err := p.expect(token.RBracket); err != nil {
		return nil, err
	}
	return lit, nil
}

func (p *Parser) parseMapLiteral() (ast.Expr, error) {
	t := p.advance() // '{'
	lit := &ast.MapLiteral{Position: p.pos2(t)}
	if p.check(token.RBrace) {
		p.advance()
		return lit, nil
	}
	for {
		k, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Colon); err != nil {
			return nil, err
		}
		v, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		lit.Entries = append(lit.Entries, ast.MapEntry{Key: k, Value: v})
		if p.match(token.Comma) {
			continue
		}
		break
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	return lit, nil
}

// parseParenOrTupleOrLambda disambiguates "(expr)", "(e1, e2, ...)" (a
// tuple), and "(params) => body" (a lambda) all sharing the same opening
// token, using backtracking lookahead over the parameter list.
func (p *Parser) parseParenOrTupleOrLambda() (ast.Expr, error) {
	if p.lambdaAheadFromParen() {
		return p.parseParenLambda()
	}
	t := p.advance() // '('
	first, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	if p.check(token.Comma) {
		tup := &ast.TupleLiteral{Position: p.pos2(t), Elements: []ast.Expr{first}}
		for p.match(token.Comma) {
			e, err := p.parseAssignment()
			if err != nil {
				return nil, err
			}
			tup.Elements = append(tup.Elements, e)
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		return tup, nil
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	return first, nil
}

// tryParseBraceInit attempts "Ident{ elem, elem, ... }" as a struct/array
// brace initializer. It only commits if the identifier is immediately
// followed by '{', backtracking otherwise so ordinary identifiers and
// block-starting contexts are unaffected. Right after 'in' it never
// commits: there "name {" is a loop iterable followed by the loop body.
func (p *Parser) tryParseBraceInit() (ast.Expr, bool, error) {
	if p.at(1).Kind != token.LBrace || (p.pos > 0 && p.tokens[p.pos-1].Kind == token.In) {
		return nil, false, nil
	}
	m := p.save()
	t := p.advance() // ident
	ty := &ast.TypeExpr{Position: p.pos2(t), Base: t.Text}
	p.advance() // '{'
	bi := &ast.BraceInitializer{Position: p.pos2(t), Type: ty}
	if p.check(token.RBrace) {
		p.advance()
		return bi, true, nil
	}
	for {
		e, err := p.parseAssignment()
		if err != nil {
			p.restore(m)
			return nil, false, nil
		}
		bi.Elements = append(bi.Elements, e)
		if p.match(token.Comma) {
			continue
		}
		break
	}
	if _, err := p.expect(token.RBrace); err != nil {
		p.restore(m)
		return nil, false, nil
	}
	return bi, true, nil
}
