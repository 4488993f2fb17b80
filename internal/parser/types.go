package parser

import (
	"strings"

	"github.com/schiffy91/btrc-sub001/internal/ast"
	"github.com/schiffy91/btrc-sub001/internal/token"
)

// modifierKeywords are C storage/qualifier keywords that may prefix a type.
// Only const changes the TypeExpr; the rest are accepted and dropped.
var modifierKeywords = map[token.Kind]bool{
	token.Const: true, token.Static: true, token.Extern: true, token.Volatile: true,
}

// primitiveNames maps a base-type keyword token to its canonical spelling.
var primitiveNames = map[token.Kind]string{
	token.Void: "void", token.Int: "int", token.Float: "float",
	token.Double: "double", token.Char: "char", token.Short: "short",
	token.Long: "long", token.Unsigned: "unsigned", token.Signed: "signed",
	token.String: "string", token.Bool: "bool",
}

// isTypeStart reports whether the current token could begin a type
// expression, used by the declaration parser to disambiguate a typed
// var-decl from an expression statement.
func (p *Parser) isTypeStart() bool {
	k := p.cur().Kind
	if modifierKeywords[k] {
		return true
	}
	if _, ok := primitiveNames[k]; ok {
		return true
	}
	if k == token.Struct || k == token.Enum || k == token.Union {
		return true
	}
	if k == token.LParen {
		return p.isTupleTypeStart()
	}
	return k == token.Ident
}

// parseType parses a full type expression: an optional run of storage
// qualifiers, a base (a signedness/size keyword combo, a struct/enum/union
// reference, a parenthesized tuple, or a primitive/class/interface name)
// with optional generic arguments, then an optional "[]" array suffix, any
// number of '*' (pointer depth), and an optional '?' nullable marker.
// "T?" is sugar for a nullable "T*": it adds one pointer level.
func (p *Parser) parseType() (*ast.TypeExpr, error) {
	start := p.cur()
	isConst := false
	for modifierKeywords[p.cur().Kind] {
		if p.cur().Kind == token.Const {
			isConst = true
		}
		p.advance()
	}

	te := &ast.TypeExpr{Position: p.pos2(start), IsConst: isConst}

	switch p.cur().Kind {
	case token.Unsigned, token.Signed:
		base := p.advance().Text
		switch p.cur().Kind {
		case token.Int, token.Short, token.Long, token.Char:
			base += " " + p.advance().Text
			if p.check(token.Long) && strings.HasSuffix(base, "long") {
				base += " " + p.advance().Text
			}
		}
		te.Base = base
	case token.Long:
		base := p.advance().Text
		if p.check(token.Long) {
			base += " " + p.advance().Text
		}
		if p.check(token.Int) || p.check(token.Double) {
			base += " " + p.advance().Text
		}
		te.Base = base
	case token.Short:
		base := p.advance().Text
		if p.check(token.Int) {
			base += " " + p.advance().Text
		}
		te.Base = base
	case token.Struct, token.Enum, token.Union:
		kw := p.advance().Text
		name, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		te.Base = kw + " " + name.Text
	case token.LParen:
		return p.parseTupleType(te)
	case token.Ident:
		te.Base = p.advance().Text
	default:
		if name, ok := primitiveNames[p.cur().Kind]; ok {
			p.advance()
			te.Base = name
		} else {
			return nil, p.errf("expected a type, got %s %q", p.cur().Kind, p.cur().Text)
		}
	}

	if p.check(token.Lt) {
		p.advance()
		for {
			arg, err := p.parseType()
			if err != nil {
				return nil, err
			}
			te.GenericArgs = append(te.GenericArgs, arg)
			if p.match(token.Comma) {
				continue
			}
			break
		}
		if err := p.expectGT(); err != nil {
			return nil, err
		}
	}

	if p.check(token.LBracket) && p.at(1).Kind == token.RBracket {
		p.advance()
		p.advance()
		te.IsArray = true
	}
	for p.match(token.Star) {
		te.PointerDepth++
	}
	if p.match(token.Question) {
		te.PointerDepth++
		te.Nullable = true
	}

	return te, nil
}

// parseTupleType parses "(T, T, ...)" into a Tuple<...> type reference.
func (p *Parser) parseTupleType(te *ast.TypeExpr) (*ast.TypeExpr, error) {
	p.advance() // '('
	te.Base = "Tuple"
	for {
		arg, err := p.parseType()
		if err != nil {
			return nil, err
		}
		te.GenericArgs = append(te.GenericArgs, arg)
		if p.match(token.Comma) {
			continue
		}
		break
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	return te, nil
}

// isTupleTypeStart looks ahead from a '(' for a type-ish token followed by
// a top-level comma before the matching ')': "(int, int)" is a tuple type,
// "(a + b)" is not.
func (p *Parser) isTupleTypeStart() bool {
	m := p.save()
	defer p.restore(m)
	p.advance() // '('
	k := p.cur().Kind
	_, prim := primitiveNames[k]
	if !prim && k != token.Ident && !modifierKeywords[k] {
		return false
	}
	p.advance()
	depth := 1
	for !p.check(token.EOF) && depth > 0 {
		switch p.cur().Kind {
		case token.LParen:
			depth++
		case token.RParen:
			depth--
		case token.Comma:
			if depth == 1 {
				return true
			}
		}
		p.advance()
	}
	return false
}

func parseIntLiteral(text string) int {
	n := 0
	for i := 0; i < len(text); i++ {
		if text[i] < '0' || text[i] > '9' {
			break
		}
		n = n*10 + int(text[i]-'0')
	}
	return n
}
