package parser

import (
	"github.com/schiffy91/btrc-sub001/internal/ast"
	"github.com/schiffy91/btrc-sub001/internal/token"
)

// parseTopLevelDecl dispatches on the current token (plus the "@gpu" and
// "keep" prefix flags already consumed) to interface/class/struct/enum/
// rich-enum/typedef/function/var-decl parsing. "@gpu" may only attach to a
// function; anything else after it is a parse error.
func (p *Parser) parseTopLevelDecl() (ast.Decl, error) {
	isGPU := false
	if p.check(token.AtGpu) {
		p.advance()
		isGPU = true
	}
	keepReturn := false
	if p.check(token.Keep) {
		p.advance()
		keepReturn = true
	}
	switch p.cur().Kind {
	case token.Interface:
		if isGPU {
			return nil, p.errf("'@gpu' cannot annotate an interface")
		}
		return p.parseInterfaceDecl()
	case token.Abstract, token.Class:
		if isGPU {
			return nil, p.errf("'@gpu' cannot annotate a class")
		}
		return p.parseClassDecl()
	case token.Struct:
		if isGPU {
			return nil, p.errf("'@gpu' cannot annotate a struct")
		}
		return p.parseStructDecl()
	case token.Enum:
		if isGPU {
			return nil, p.errf("'@gpu' cannot annotate an enum")
		}
		return p.parseEnumOrRichEnumDecl()
	case token.Typedef:
		if isGPU {
			return nil, p.errf("'@gpu' cannot annotate a typedef")
		}
		return p.parseTypedefDecl()
	case token.Var:
		if isGPU {
			return nil, p.errf("'@gpu' cannot annotate a variable")
		}
		return p.parseTopLevelVarDecl()
	default:
		return p.parseFunctionOrTopLevelVarDecl(isGPU, keepReturn)
	}
}

func (p *Parser) parseGenericParamList() ([]string, error) {
	if !p.check(token.Lt) {
		return nil, nil
	}
	p.advance()
	var names []string
	for {
		name, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		names = append(names, name.Text)
		if p.match(token.Comma) {
			continue
		}
		break
	}
	if err := p.expectGT(); err != nil {
		return nil, err
	}
	return names, nil
}

func (p *Parser) parseNameList() ([]string, error) {
	var names []string
	for {
		name, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		names = append(names, name.Text)
		if p.match(token.Comma) {
			continue
		}
		break
	}
	return names, nil
}

func (p *Parser) parseInterfaceDecl() (ast.Decl, error) {
	t := p.advance() // 'interface'
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	iface := &ast.InterfaceDecl{Position: p.pos2(t), Name: name.Text}
	generics, err := p.parseGenericParamList()
	if err != nil {
		return nil, err
	}
	iface.GenericArgs = generics
	if p.match(token.Extends) {
		parent, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		iface.Extends = parent.Text
	}
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	for !p.check(token.RBrace) {
		keep := false
		if p.check(token.Keep) {
			keep = true
			p.advance()
		}
		sigStart := p.cur()
		retType, err := p.parseType()
		if err != nil {
			return nil, err
		}
		mname, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		params, err := p.parseParamList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semicolon); err != nil {
			return nil, err
		}
		iface.Methods = append(iface.Methods, &ast.MethodSig{
			Position: p.pos2(sigStart), Name: mname.Text, Params: params,
			ReturnType: retType, Keep: keep,
		})
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	return iface, nil
}

func (p *Parser) parseParamList() ([]*ast.Param, error) {
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	var params []*ast.Param
	if p.check(token.RParen) {
		p.advance()
		return params, nil
	}
	for {
		start := p.cur()
		keep := p.match(token.Keep)
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		name, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		if p.check(token.LBracket) {
			p.advance()
			ty.IsArray = true
			if !p.check(token.RBracket) {
				size, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				ty.ArraySize = size
			}
			if _, err := p.expect(token.RBracket); err != nil {
				return nil, err
			}
		}
		param := &ast.Param{Position: p.pos2(start), Keep: keep, Name: name.Text, Type: ty}
		if p.match(token.Eq) {
			def, err := p.parseAssignment()
			if err != nil {
				return nil, err
			}
			param.Default = def
		}
		params = append(params, param)
		if p.match(token.Comma) {
			continue
		}
		break
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseStructDecl() (ast.Decl, error) {
	t := p.advance() // 'struct'
	name := ""
	if p.check(token.Ident) {
		name = p.advance().Text
	}
	decl := &ast.StructDecl{Position: p.pos2(t), Name: name}
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	for !p.check(token.RBrace) {
		field, err := p.parseFieldDef()
		if err != nil {
			return nil, err
		}
		decl.Fields = append(decl.Fields, field)
		if _, err := p.expect(token.Semicolon); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	if name == "" {
		if _, err := p.expect(token.Semicolon); err != nil {
			return nil, err
		}
	}
	return decl, nil
}

func (p *Parser) parseFieldDef() (*ast.FieldDef, error) {
	start := p.cur()
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	fd := &ast.FieldDef{Position: p.pos2(start), Name: name.Text, Type: ty}
	if p.check(token.LBracket) {
		p.advance()
		if p.check(token.IntLit) {
			n := p.advance()
			fd.ArraySize = parseIntLiteral(n.Text)
		}
		if _, err := p.expect(token.RBracket); err != nil {
			return nil, err
		}
	}
	return fd, nil
}

func (p *Parser) parseEnumOrRichEnumDecl() (ast.Decl, error) {
	t := p.advance() // 'enum'
	if p.match(token.Class) {
		return p.parseRichEnumDeclFrom(t)
	}
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	decl := &ast.EnumDecl{Position: p.pos2(t), Name: name.Text}
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	for !p.check(token.RBrace) {
		vStart := p.cur()
		vname, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		ev := &ast.EnumValue{Position: p.pos2(vStart), Name: vname.Text}
		if p.match(token.Eq) {
			n, err := p.expect(token.IntLit)
			if err != nil {
				return nil, err
			}
			val := parseIntLiteral(n.Text)
			ev.Value = &val
		}
		decl.Values = append(decl.Values, ev)
		if p.match(token.Comma) {
			continue
		}
		break
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) parseRichEnumDeclFrom(t token.Token) (ast.Decl, error) {
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	decl := &ast.RichEnumDecl{Position: p.pos2(t), Name: name.Text}
	generics, err := p.parseGenericParamList()
	if err != nil {
		return nil, err
	}
	decl.GenericArgs = generics
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	for !p.check(token.RBrace) {
		vStart := p.cur()
		vname, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		variant := &ast.RichEnumVariant{Position: p.pos2(vStart), Name: vname.Text}
		if p.check(token.LParen) {
			p.advance()
			if !p.check(token.RParen) {
				for {
					field, err := p.parseFieldDef()
					if err != nil {
						return nil, err
					}
					variant.Fields = append(variant.Fields, field)
					if p.match(token.Comma) {
						continue
					}
					break
				}
			}
			if _, err := p.expect(token.RParen); err != nil {
				return nil, err
			}
		}
		decl.Variants = append(decl.Variants, variant)
		if p.match(token.Comma) {
			continue
		}
		break
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) parseTypedefDecl() (ast.Decl, error) {
	t := p.advance() // 'typedef'
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return &ast.TypedefDecl{Position: p.pos2(t), Name: name.Text, Type: ty}, nil
}

func (p *Parser) parseTopLevelVarDecl() (ast.Decl, error) {
	stmt, err := p.parseVarDeclStmt()
	if err != nil {
		return nil, err
	}
	return stmt.(*ast.VarDeclStmt), nil
}

// parseFunctionOrTopLevelVarDecl parses "Type name(...)  { ... }" or
// "Type name(...) ;" (forward declaration) or "Type name = expr ;" (a
// top-level typed variable), disambiguated by peeking past the name.
func (p *Parser) parseFunctionOrTopLevelVarDecl(isGPU, keepReturn bool) (ast.Decl, error) {
	start := p.cur()
	retType, err := p.parseType()
	if err != nil {
		return nil, err
	}
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	if p.check(token.LParen) {
		params, err := p.parseParamList()
		if err != nil {
			return nil, err
		}
		fn := &ast.FunctionDecl{
			Position: p.pos2(start), IsGPU: isGPU, KeepReturn: keepReturn,
			Name: name.Text, Params: params, ReturnType: retType,
		}
		if p.match(token.Semicolon) {
			return fn, nil
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		fn.Body = body
		return fn, nil
	}
	if isGPU {
		return nil, p.errf("'@gpu' cannot annotate a variable")
	}
	vd := &ast.VarDeclStmt{Position: p.pos2(start), Name: name.Text, Type: retType}
	if p.match(token.Eq) {
		init, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		vd.Initializer = init
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return vd, nil
}

// parseClassDecl parses "[abstract] class Name[<T,...>] [extends P]
// [implements I, ...] { members }".
func (p *Parser) parseClassDecl() (ast.Decl, error) {
	start := p.cur()
	isAbstract := p.match(token.Abstract)
	if _, err := p.expect(token.Class); err != nil {
		return nil, err
	}
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	decl := &ast.ClassDecl{Position: p.pos2(start), Name: name.Text, IsAbstract: isAbstract}
	generics, err := p.parseGenericParamList()
	if err != nil {
		return nil, err
	}
	decl.GenericArgs = generics
	if p.match(token.Extends) {
		parent, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		decl.Extends = parent.Text
	}
	if p.match(token.Implements) {
		names, err := p.parseNameList()
		if err != nil {
			return nil, err
		}
		decl.Implements = names
	}
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	for !p.check(token.RBrace) {
		if err := p.parseClassMember(decl); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	return decl, nil
}

// parseClassMember parses one access-qualified member: a constructor
// (name matches the class name, no declared return type), a field, a
// method, or a C#-style property, appending the result into decl.
func (p *Parser) parseClassMember(decl *ast.ClassDecl) error {
	start := p.cur()
	access := ast.Public
	if p.match(token.Private) {
		access = ast.Private
	} else {
		p.match(token.Public)
	}
	isStatic := p.match(token.Class)
	isAbstract := p.match(token.Abstract)
	isOverride := p.match(token.Override)
	isGPU := false
	if p.check(token.AtGpu) {
		isGPU = true
		p.advance()
	}
	keep := p.match(token.Keep)

	// Constructor: "Name(...) { ... }" with no leading type keyword.
	if p.check(token.Ident) && p.cur().Text == decl.Name && p.at(1).Kind == token.LParen {
		name := p.advance()
		params, err := p.parseParamList()
		if err != nil {
			return err
		}
		body, err := p.parseBlock()
		if err != nil {
			return err
		}
		decl.Constructor = &ast.MethodDecl{
			Position: p.pos2(start), Access: access, IsStatic: isStatic,
			Name: name.Text, Params: params, Body: body,
		}
		return nil
	}

	ty, err := p.parseType()
	if err != nil {
		return err
	}
	name, err := p.expect(token.Ident)
	if err != nil {
		return err
	}

	if p.check(token.LParen) {
		params, err := p.parseParamList()
		if err != nil {
			return err
		}
		method := &ast.MethodDecl{
			Position: p.pos2(start), Access: access, IsStatic: isStatic,
			IsAbstract: isAbstract, IsOverride: isOverride, IsGPU: isGPU,
			KeepReturn: keep, Name: name.Text, Params: params, ReturnType: ty,
		}
		if isAbstract || p.check(token.Semicolon) {
			if _, err := p.expect(token.Semicolon); err != nil {
				return err
			}
			decl.Methods = append(decl.Methods, method)
			return nil
		}
		body, err := p.parseBlock()
		if err != nil {
			return err
		}
		method.Body = body
		decl.Methods = append(decl.Methods, method)
		return nil
	}

	if p.check(token.LBrace) {
		prop, err := p.parsePropertyBody(p.pos2(start), access, name.Text, ty)
		if err != nil {
			return err
		}
		decl.Properties = append(decl.Properties, prop)
		return nil
	}

	field := &ast.FieldDecl{
		Position: p.pos2(start), Access: access, IsStatic: isStatic,
		Keep: keep, Name: name.Text, Type: ty,
	}
	if p.match(token.Eq) {
		init, err := p.parseExpr()
		if err != nil {
			return err
		}
		field.Initializer = init
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return err
	}
	decl.Fields = append(decl.Fields, field)
	return nil
}

// parsePropertyBody parses a C#-style "{ get { ... } set { ... } }" or
// "{ get { ... } }" accessor block. "get"/"set" are contextual identifiers,
// not reserved keywords, matching only in this position.
func (p *Parser) parsePropertyBody(pos ast.Position, access ast.Access, name string, ty *ast.TypeExpr) (*ast.PropertyDecl, error) {
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	prop := &ast.PropertyDecl{Position: pos, Access: access, Name: name, Type: ty}
	for !p.check(token.RBrace) {
		if !p.check(token.Ident) {
			return nil, p.errf("expected 'get' or 'set' in property body")
		}
		kw := p.advance()
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		switch kw.Text {
		case "get":
			prop.Getter = body
		case "set":
			prop.Setter = body
		default:
			return nil, p.errf("expected 'get' or 'set', got %q", kw.Text)
		}
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	return prop, nil
}
