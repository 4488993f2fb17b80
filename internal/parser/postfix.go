package parser

import (
	"github.com/schiffy91/btrc-sub001/internal/ast"
	"github.com/schiffy91/btrc-sub001/internal/token"
)

// parsePostfix handles call, index, field-access (incl. "?."), and
// post-increment/decrement, left-associatively chained onto a primary
// expression.
func (p *Parser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Kind {
		case token.LParen:
			t := p.advance()
			args, err := p.parseArgList(token.RParen)
			if err != nil {
				return nil, err
			}
			expr = &ast.CallExpr{Position: p.pos2(t), Callee: expr, Args: args}
		case token.LBracket:
			t := p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBracket); err != nil {
				return nil, err
			}
			expr = &ast.IndexExpr{Position: p.pos2(t), Container: expr, Index: idx}
		case token.Dot:
			t := p.advance()
			name, err := p.expect(token.Ident)
			if err != nil {
				return nil, err
			}
			expr = &ast.FieldAccessExpr{Position: p.pos2(t), Target: expr, Field: name.Text}
		case token.QuestionDot:
			t := p.advance()
			name, err := p.expect(token.Ident)
			if err != nil {
				return nil, err
			}
			expr = &ast.FieldAccessExpr{Position: p.pos2(t), Target: expr, Field: name.Text, Optional: true}
		case token.PlusPlus:
			t := p.advance()
			expr = &ast.UnaryExpr{Position: p.pos2(t), Op: ast.PostInc, Operand: expr}
		case token.MinusMinus:
			t := p.advance()
			expr = &ast.UnaryExpr{Position: p.pos2(t), Op: ast.PostDec, Operand: expr}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseArgList(closer token.Kind) ([]ast.Expr, error) {
	var args []ast.Expr
	if p.check(closer) {
		p.advance()
		return args, nil
	}
	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.match(token.Comma) {
			continue
		}
		break
	}
	if _, err := p.expect(closer); err != nil {
		return nil, err
	}
	return args, nil
}
