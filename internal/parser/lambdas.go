package parser

import (
	"github.com/schiffy91/btrc-sub001/internal/ast"
	"github.com/schiffy91/btrc-sub001/internal/lexer"
	"github.com/schiffy91/btrc-sub001/internal/token"
)

// verboseLambdaAhead reports whether the cursor sits on the verbose
// lambda form "Type function(...)": a plausible type (qualifiers, base,
// generic arguments, pointers) followed by the "function" keyword.
func (p *Parser) verboseLambdaAhead() bool {
	m := p.save()
	defer p.restore(m)
	for modifierKeywords[p.cur().Kind] {
		p.advance()
	}
	k := p.cur().Kind
	if _, prim := primitiveNames[k]; !prim && k != token.Ident {
		return false
	}
	p.advance()
	if p.check(token.Lt) {
		depth := 1
		p.advance()
		for depth > 0 && !p.check(token.EOF) {
			switch p.cur().Kind {
			case token.Lt:
				depth++
			case token.Gt:
				depth--
			case token.GtGt:
				depth -= 2
			case token.Semicolon, token.LBrace, token.RBrace:
				return false
			}
			p.advance()
		}
	}
	for p.check(token.Star) {
		p.advance()
	}
	return p.check(token.Function)
}

// parseVerboseLambda parses "Type function(params) { body }".
func (p *Parser) parseVerboseLambda() (ast.Expr, error) {
	start := p.cur()
	ret, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Function); err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.LambdaExpr{Position: p.pos2(start), ReturnType: ret, Params: params, Body: body}, nil
}

// lambdaAheadFromIdent reports whether the current IDENT begins a
// single-parameter lambda ("x => x + 1").
func (p *Parser) lambdaAheadFromIdent() bool {
	return p.at(1).Kind == token.FatArrow
}

func (p *Parser) parseSingleIdentLambda() (ast.Expr, error) {
	name := p.advance()
	p.advance() // '=>'
	param := &ast.Param{Position: p.pos2(name), Name: name.Text}
	return p.finishLambda(p.pos2(name), []*ast.Param{param})
}

// lambdaAheadFromParen reports whether the current '(' begins a
// parenthesized lambda parameter list ("(x, y) => ..." or
// "(int a, int b) => ...") rather than a parenthesized expression or
// tuple: the first token inside must be type-ish, and the matching ')'
// must be followed by "=>".
func (p *Parser) lambdaAheadFromParen() bool {
	m := p.save()
	defer p.restore(m)
	p.advance() // '('
	if p.check(token.RParen) {
		p.advance()
		return p.check(token.FatArrow)
	}
	k := p.cur().Kind
	if _, prim := primitiveNames[k]; !prim && k != token.Ident && !modifierKeywords[k] {
		return false
	}
	p.advance()
	depth := 1
	for depth > 0 {
		switch p.cur().Kind {
		case token.LParen:
			depth++
		case token.RParen:
			depth--
		case token.Semicolon, token.LBrace, token.EOF:
			return false
		}
		p.advance()
	}
	return p.check(token.FatArrow)
}

func (p *Parser) parseParenLambda() (ast.Expr, error) {
	start := p.cur()
	p.advance() // '('
	var params []*ast.Param
	if !p.check(token.RParen) {
		for {
			pm, err := p.parseLambdaParam()
			if err != nil {
				return nil, err
			}
			params = append(params, pm)
			if p.match(token.Comma) {
				continue
			}
			break
		}
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.FatArrow); err != nil {
		return nil, err
	}
	return p.finishLambda(p.pos2(start), params)
}

func (p *Parser) parseLambdaParam() (*ast.Param, error) {
	start := p.cur()
	typed := false
	if _, prim := primitiveNames[p.cur().Kind]; prim || modifierKeywords[p.cur().Kind] {
		typed = true
	} else if p.check(token.Ident) {
		switch p.at(1).Kind {
		case token.Ident, token.Lt, token.Star, token.Question:
			typed = true
		}
	}
	if typed {
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		name, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		return &ast.Param{Position: p.pos2(start), Name: name.Text, Type: ty}, nil
	}
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	return &ast.Param{Position: p.pos2(start), Name: name.Text}, nil
}

func (p *Parser) finishLambda(pos ast.Position, params []*ast.Param) (ast.Expr, error) {
	if p.check(token.LBrace) {
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &ast.LambdaExpr{Position: pos, Params: params, Body: body}, nil
	}
	e, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	return &ast.LambdaExpr{Position: pos, Params: params, Expr: e}, nil
}

// parseFStringParts splits an FSTRING_LIT token's text into literal-text
// runs and embedded-expression runs, re-lexing and re-parsing each
// embedded "{ ... }" substring with a fresh lexer and parser, which keeps
// the main grammar closed.
func (p *Parser) parseFStringParts(t token.Token) (ast.Expr, error) {
	lit := &ast.FStringLiteral{Position: p.pos2(t)}
	text := t.Text
	var buf []rune
	runes := []rune(text)
	flush := func() {
		if len(buf) > 0 {
			lit.Parts = append(lit.Parts, ast.FStringPart{Text: string(buf)})
			buf = nil
		}
	}
	for i := 0; i < len(runes); i++ {
		switch {
		case runes[i] == '{' && i+1 < len(runes) && runes[i+1] == '{':
			buf = append(buf, '{')
			i++
		case runes[i] == '}' && i+1 < len(runes) && runes[i+1] == '}':
			buf = append(buf, '}')
			i++
		case runes[i] == '{':
			flush()
			depth := 1
			j := i + 1
			for j < len(runes) && depth > 0 {
				if runes[j] == '{' {
					depth++
				} else if runes[j] == '}' {
					depth--
					if depth == 0 {
						break
					}
				}
				j++
			}
			inner := string(runes[i+1 : j])
			expr, err := p.parseEmbeddedExpr(inner, t)
			if err != nil {
				return nil, err
			}
			lit.Parts = append(lit.Parts, ast.FStringPart{Expr: expr})
			i = j
		default:
			buf = append(buf, runes[i])
		}
	}
	flush()
	return lit, nil
}

func (p *Parser) parseEmbeddedExpr(src string, at token.Token) (ast.Expr, error) {
	toks, err := lexer.Lex(src, p.grammar)
	if err != nil {
		return nil, &Error{Message: "invalid embedded expression in f-string: " + err.Error(), Line: at.Line, Col: at.Col}
	}
	sub := New(toks, src, p.grammar)
	expr, err := sub.parseExpr()
	if err != nil {
		return nil, err
	}
	if !sub.check(token.EOF) {
		return nil, sub.errf("unexpected trailing tokens in embedded f-string expression")
	}
	return expr, nil
}
