package analyzer

import "github.com/schiffy91/btrc-sub001/internal/ast"

// analyzeDecl dispatches top-level body analysis; registration (pass 1-6)
// has already populated the tables this relies on.
func (a *Analyzer) analyzeDecl(d ast.Decl) {
	switch n := d.(type) {
	case *ast.ClassDecl:
		a.analyzeClass(n)
	case *ast.FunctionDecl:
		a.analyzeFunction(n)
	case *ast.VarDeclStmt:
		a.analyzeVarDecl(n)
	case *ast.EnumDecl, *ast.RichEnumDecl, *ast.InterfaceDecl, *ast.StructDecl,
		*ast.TypedefDecl, *ast.PreprocessorDirective:
		// no body to analyze
	}
}

func (a *Analyzer) analyzeClass(decl *ast.ClassDecl) {
	info := a.classTable[decl.Name]
	if info == nil {
		return
	}
	a.curClass = info
	defer func() { a.curClass = nil }()

	for _, f := range decl.Fields {
		a.upgradeClassType(f.Type)
		a.collectGenericInstances(f.Type)
		if f.Initializer != nil {
			a.pushScope()
			a.analyzeExpr(f.Initializer)
			a.popScope()
		}
	}
	for _, m := range decl.Methods {
		a.analyzeMethod(decl, m, false)
	}
	if decl.Constructor != nil {
		a.analyzeMethod(decl, decl.Constructor, true)
	}
	for _, p := range decl.Properties {
		a.analyzeProperty(decl, p)
	}
}

// validateDefaultParams reports a non-default parameter following a
// defaulted one.
func (a *Analyzer) validateDefaultParams(params []*ast.Param) {
	seenDefault := false
	for _, p := range params {
		if p.Default != nil {
			seenDefault = true
		} else if seenDefault {
			a.errorAt(p.Position, "parameter %q without a default follows a defaulted parameter", p.Name)
		}
	}
}

// upgradeClassType is the key btrc type rule: a class-typed TypeExpr with
// pointer depth 0 that is not nullable is automatically upgraded to
// pointer depth 1 (class values are always heap references); writing the
// pointer explicitly for such a type is a redundancy error. A nullable
// class type keeps whatever pointer depth the parser already gave it. The
// upgrade recurses through generic arguments.
func (a *Analyzer) upgradeClassType(te *ast.TypeExpr) {
	if te == nil {
		return
	}
	for _, arg := range te.GenericArgs {
		a.upgradeClassType(arg)
	}
	if _, isClass := a.classTable[te.Base]; !isClass {
		return
	}
	if te.Nullable {
		return
	}
	if te.PointerDepth == 0 {
		te.PointerDepth = 1
		return
	}
	if te.PointerDepth >= 1 {
		a.errorAt(te.Position, "redundant explicit pointer on class type %q; class values are implicit references", te.Base)
	}
}

// analyzeMethod pushes a parameter scope (defining 'self' for non-static
// methods), validates constructor return-type restrictions, and checks
// exhaustive-return for non-void non-constructor methods.
func (a *Analyzer) analyzeMethod(decl *ast.ClassDecl, m *ast.MethodDecl, isCtor bool) {
	a.validateDefaultParams(m.Params)
	prevMethod := a.curMethod
	prevSelf := a.selfType
	a.curMethod = m
	a.selfType = &ast.TypeExpr{Base: decl.Name, PointerDepth: 1}
	defer func() { a.curMethod = prevMethod; a.selfType = prevSelf }()

	if isCtor {
		if m.ReturnType != nil && m.ReturnType.Base != "void" && m.ReturnType.Base != decl.Name {
			a.errorAt(m.Position, "constructor %q may not declare a return type other than void or %q", m.Name, decl.Name)
		}
	} else {
		a.upgradeClassType(m.ReturnType)
		a.collectGenericInstances(m.ReturnType)
	}

	a.pushScope()
	defer a.popScope()
	if !m.IsStatic {
		a.scope.define(SymbolInfo{Name: "self", Type: a.selfType, Kind: SymParameter})
	}
	for _, p := range m.Params {
		a.upgradeClassType(p.Type)
		a.collectGenericInstances(p.Type)
		a.scope.define(SymbolInfo{Name: p.Name, Type: p.Type, Kind: SymParameter})
	}
	if m.IsGPU {
		a.validateGPUFunction(m.Name, m.Params, m.ReturnType, m.Body, m.Position)
	}
	if m.Body == nil {
		return
	}
	a.analyzeBlock(m.Body)
	if !isCtor && m.ReturnType != nil && m.ReturnType.Base != "void" {
		if !hasReturn(m.Body) {
			a.errorAt(m.Position, "method %q has no return statement on every path but is declared to return %s", m.Name, formatType(m.ReturnType))
		}
	}
}

// analyzeProperty synthesizes a getter/setter method context: 'self' plus,
// for the setter, an implicit 'value' parameter of the property's type.
func (a *Analyzer) analyzeProperty(decl *ast.ClassDecl, p *ast.PropertyDecl) {
	prevSelf := a.selfType
	a.selfType = &ast.TypeExpr{Base: decl.Name, PointerDepth: 1}
	defer func() { a.selfType = prevSelf }()

	if p.Getter != nil {
		a.pushScope()
		a.scope.define(SymbolInfo{Name: "self", Type: a.selfType, Kind: SymParameter})
		a.analyzeBlock(p.Getter)
		if !hasReturn(p.Getter) {
			a.errorAt(p.Position, "property %q getter has no return statement on every path", p.Name)
		}
		a.popScope()
	}
	if p.Setter != nil {
		a.pushScope()
		a.scope.define(SymbolInfo{Name: "self", Type: a.selfType, Kind: SymParameter})
		a.scope.define(SymbolInfo{Name: "value", Type: p.Type, Kind: SymParameter})
		a.analyzeBlock(p.Setter)
		a.popScope()
	}
}

// analyzeFunction mirrors analyzeMethod for a top-level function.
// Recursive calls resolve through the function table, which registration
// filled before any body analysis runs.
func (a *Analyzer) analyzeFunction(fn *ast.FunctionDecl) {
	a.validateDefaultParams(fn.Params)
	a.upgradeClassType(fn.ReturnType)
	a.collectGenericInstances(fn.ReturnType)

	prevMethod := a.curMethod
	a.curMethod = &ast.MethodDecl{Name: fn.Name, Params: fn.Params, ReturnType: fn.ReturnType}
	defer func() { a.curMethod = prevMethod }()

	a.pushScope()
	defer a.popScope()
	for _, p := range fn.Params {
		a.upgradeClassType(p.Type)
		a.collectGenericInstances(p.Type)
		a.scope.define(SymbolInfo{Name: p.Name, Type: p.Type, Kind: SymParameter})
	}
	if fn.IsGPU {
		a.validateGPUFunction(fn.Name, fn.Params, fn.ReturnType, fn.Body, fn.Position)
	}
	if fn.Body == nil {
		return
	}
	a.analyzeBlock(fn.Body)
	if fn.ReturnType != nil && fn.ReturnType.Base != "void" {
		if !hasReturn(fn.Body) {
			a.errorAt(fn.Position, "function %q has no return statement on every path but is declared to return %s", fn.Name, formatType(fn.ReturnType))
		}
	}
}

// hasReturn implements the exhaustive-return analysis: a block has-return
// if any of its statements is a terminal return/throw, an if/else chain
// where every arm has-return, a "while (true)" whose body has-return, a
// switch where every case has-return, or a try/catch where both try and
// catch have-return. Every statement is examined, not just the last one,
// so an exhaustive if/else followed by dead code still counts.
func hasReturn(b *ast.Block) bool {
	if b == nil {
		return false
	}
	for _, s := range b.Stmts {
		if stmtReturns(s) {
			return true
		}
	}
	return false
}

// stmtReturns reports whether a single statement guarantees a return on
// every path through it.
func stmtReturns(s ast.Stmt) bool {
	switch n := s.(type) {
	case *ast.ReturnStmt, *ast.ThrowStmt:
		return true
	case *ast.IfStmt:
		return hasReturnInIf(n)
	case *ast.WhileStmt:
		return isLiteralTrue(n.Cond) && hasReturn(n.Body)
	case *ast.SwitchStmt:
		return switchExhaustivelyReturns(n)
	case *ast.TryCatchStmt:
		return hasReturn(n.Try) && n.Catch != nil && hasReturn(n.Catch)
	case *ast.Block:
		return hasReturn(n)
	}
	return false
}

// hasReturnInIf requires both the then-branch and an else branch (which
// may itself be an else-if, recursively) to have-return; a single-branch
// if without else is never exhaustive.
func hasReturnInIf(s *ast.IfStmt) bool {
	if !hasReturn(s.Then) {
		return false
	}
	switch e := s.Else.(type) {
	case nil:
		return false
	case *ast.IfStmt:
		return hasReturnInIf(e)
	case *ast.Block:
		return hasReturn(e)
	default:
		return false
	}
}

func switchExhaustivelyReturns(s *ast.SwitchStmt) bool {
	hasDefault := false
	for _, c := range s.Cases {
		if c.IsDefault {
			hasDefault = true
		}
		if !caseHasReturn(c) {
			return false
		}
	}
	return hasDefault
}

// caseHasReturn scans a case's flat statement list the way hasReturn
// scans a block: a bare return/throw, an exhaustive if/else, a
// "while (true)", a nested switch, a try/catch, or a wrapping block all
// qualify, wherever they sit in the case body.
func caseHasReturn(c *ast.SwitchCase) bool {
	for _, s := range c.Stmts {
		if stmtReturns(s) {
			return true
		}
	}
	return false
}

func isLiteralTrue(e ast.Expr) bool {
	b, ok := e.(*ast.BoolLiteral)
	return ok && b.Value
}
