package analyzer

import "github.com/schiffy91/btrc-sub001/internal/ast"

// analyzeExpr walks e for diagnostics (arity/access/nullability/division-
// by-zero/etc), recursing into sub-expressions, and returns its inferred
// type. It is the single entry point body analysis uses for any
// expression context; inferType alone (used internally by inference.go)
// does not emit diagnostics.
func (a *Analyzer) analyzeExpr(e ast.Expr) *ast.TypeExpr {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *ast.IntLiteral, *ast.FloatLiteral, *ast.StringLiteral, *ast.CharLiteral,
		*ast.BoolLiteral, *ast.NullLiteral, *ast.Identifier:
		// leaves; nothing to validate beyond inference
	case *ast.SelfExpr:
		if a.curClass == nil || (a.curMethod != nil && a.curMethod.IsStatic) {
			a.errorAt(n.Position, "'self' used outside an instance method")
		}
	case *ast.SuperExpr:
		if a.curClass == nil || a.curClass.Parent == "" {
			a.errorAt(n.Position, "'super' used without a parent class")
		}
	case *ast.FStringLiteral:
		for _, part := range n.Parts {
			if part.Expr != nil {
				a.analyzeExpr(part.Expr)
			}
		}
	case *ast.SizeofExpr:
		if n.Expr != nil {
			a.analyzeExpr(n.Expr)
		}
		if n.Type != nil {
			a.collectGenericInstances(n.Type)
		}
	case *ast.BinaryExpr:
		a.analyzeExpr(n.Left)
		a.analyzeExpr(n.Right)
		if n.Op == ast.Div || n.Op == ast.Mod {
			if lit, ok := n.Right.(*ast.IntLiteral); ok && lit.Text == "0" {
				a.errorAt(n.Position, "division by zero")
			}
		}
	case *ast.UnaryExpr:
		a.analyzeExpr(n.Operand)
	case *ast.CallExpr:
		a.analyzeCall(n)
	case *ast.IndexExpr:
		a.analyzeExpr(n.Container)
		a.analyzeExpr(n.Index)
	case *ast.FieldAccessExpr:
		a.analyzeFieldAccess(n)
	case *ast.AssignExpr:
		a.analyzeExpr(n.Target)
		a.analyzeExpr(n.Value)
	case *ast.TernaryExpr:
		a.analyzeExpr(n.Cond)
		a.analyzeExpr(n.Then)
		a.analyzeExpr(n.Else)
	case *ast.CoalesceExpr:
		a.analyzeExpr(n.Left)
		a.analyzeExpr(n.Right)
	case *ast.CastExpr:
		a.analyzeExpr(n.Target)
		if n.Type != nil {
			a.collectGenericInstances(n.Type)
		}
	case *ast.ListLiteral:
		var elemType *ast.TypeExpr
		for i, el := range n.Elements {
			t := a.analyzeExpr(el)
			if i == 0 {
				elemType = t
			} else if elemType != nil && t != nil && !typeEqualIgnoringPosition(elemType, t) && !a.typesCompatible(elemType, t) {
				a.errorAt(el.Pos(), "list element type %s is incompatible with earlier element type %s", formatType(t), formatType(elemType))
			}
		}
	case *ast.MapLiteral:
		for _, entry := range n.Entries {
			a.analyzeExpr(entry.Key)
			a.analyzeExpr(entry.Value)
		}
	case *ast.TupleLiteral:
		for _, el := range n.Elements {
			a.analyzeExpr(el)
		}
	case *ast.BraceInitializer:
		for _, el := range n.Elements {
			a.analyzeExpr(el)
		}
		if n.Type != nil {
			a.collectGenericInstances(n.Type)
		}
	case *ast.LambdaExpr:
		a.analyzeLambda(n)
	case *ast.NewExpr:
		a.analyzeNewExpr(n)
	case *ast.SpawnExpr:
		a.analyzeExpr(n.Body)
	}
	return a.analyzeExprType(e)
}

// analyzeExprType defers to inferType for the actual type computation; it
// is split out only so analyzeExpr's diagnostic walk above and the type
// cache share one implementation.
func (a *Analyzer) analyzeExprType(e ast.Expr) *ast.TypeExpr {
	return a.inferType(e)
}

// analyzeCall validates argument count/access for constructor-like and
// method calls and registers any generic instances the call's inferred
// return type introduces.
func (a *Analyzer) analyzeCall(n *ast.CallExpr) {
	for _, arg := range n.Args {
		a.analyzeExpr(arg)
	}
	switch callee := n.Callee.(type) {
	case *ast.Identifier:
		if info, ok := a.classTable[callee.Name]; ok {
			if info.IsAbstract {
				a.errorAt(n.Position, "cannot instantiate abstract class %q", callee.Name)
			}
			a.validateConstructorArgs(n, info)
			return
		}
	case *ast.FieldAccessExpr:
		a.analyzeFieldAccess(callee)
		a.validateStaticDispatch(callee)
	default:
		a.analyzeExpr(n.Callee)
	}
	if t := a.inferCallType(n); t != nil {
		a.collectGenericInstances(t)
	}
}

// validateStaticDispatch checks "ClassName.method(...)" call forms: the
// method must be declared class-static to be called this way, and a
// private member is rejected from outside its declaring class.
func (a *Analyzer) validateStaticDispatch(fa *ast.FieldAccessExpr) {
	ident, ok := fa.Target.(*ast.Identifier)
	if !ok {
		return
	}
	info, ok := a.classTable[ident.Name]
	if !ok {
		return
	}
	m, ok := info.Methods[fa.Field]
	if !ok {
		return
	}
	if !m.IsStatic {
		a.errorAt(fa.Position, "method %q is not static; call it on an instance instead of %q", fa.Field, ident.Name)
	}
	a.checkAccess(fa.Position, info, m.Access, fa.Field)
}

func (a *Analyzer) checkAccess(pos ast.Position, owner *ClassInfo, access ast.Access, member string) {
	if access != ast.Private {
		return
	}
	if a.curClass == nil || a.curClass.Name != owner.Name {
		a.errorAt(pos, "private field %q of class %q is not accessible here", member, owner.Name)
	}
}

// validateConstructorArgs checks a constructor call's argument count
// against the declared constructor's parameter list, accounting for
// trailing default parameters.
func (a *Analyzer) validateConstructorArgs(n *ast.CallExpr, info *ClassInfo) {
	if info.Constructor == nil {
		if len(n.Args) != 0 {
			a.errorAt(n.Position, "class %q has no declared constructor but was called with %d argument(s)", info.Name, len(n.Args))
		}
		return
	}
	a.validateCallArity(n.Position, info.Constructor.Params, len(n.Args), info.Name)
}

// validateCallArity checks arg count against params, allowing the call to
// omit any suffix of parameters that carry a default value.
func (a *Analyzer) validateCallArity(pos ast.Position, params []*ast.Param, argCount int, calleeName string) {
	required := 0
	for _, p := range params {
		if p.Default == nil {
			required++
		}
	}
	if argCount < required || argCount > len(params) {
		a.errorAt(pos, "call to %q expects between %d and %d argument(s), got %d", calleeName, required, len(params), argCount)
	}
}

// analyzeFieldAccess validates private-access and emits the nullable-
// safety warning for an unguarded '.' access on a nullable target.
func (a *Analyzer) analyzeFieldAccess(n *ast.FieldAccessExpr) {
	a.analyzeExpr(n.Target)
	targetType := a.inferType(n.Target)
	if targetType != nil && targetType.Nullable && !n.Optional {
		a.warnAt(n.Position, "accessing %q on a nullable value without '?.'", n.Field)
	}
	if targetType == nil {
		return
	}
	switch targetType.Base {
	case "Thread":
		if n.Field != "join" {
			a.errorAt(n.Position, "Thread<T> has no method %q", n.Field)
		}
		return
	case "Mutex":
		if n.Field != "get" && n.Field != "set" && n.Field != "destroy" {
			a.errorAt(n.Position, "Mutex<T> has no method %q", n.Field)
		}
		return
	}
	info, ok := a.classTable[targetType.Base]
	if !ok {
		return
	}
	_, isSelf := n.Target.(*ast.SelfExpr)
	_, isSuper := n.Target.(*ast.SuperExpr)
	if isSelf || isSuper {
		return
	}
	if f, ok := info.Fields[n.Field]; ok {
		a.checkAccess(n.Position, info, f.Access, n.Field)
		return
	}
	if m, ok := info.Methods[n.Field]; ok {
		a.checkAccess(n.Position, info, m.Access, n.Field)
		return
	}
	if p, ok := info.Properties[n.Field]; ok {
		a.checkAccess(n.Position, info, p.Access, n.Field)
	}
}

func (a *Analyzer) analyzeNewExpr(n *ast.NewExpr) {
	for _, arg := range n.Args {
		a.analyzeExpr(arg)
	}
	for _, ga := range n.GenericArgs {
		a.collectGenericInstances(ga)
	}
	if info, ok := a.classTable[n.ClassName]; ok {
		if info.IsAbstract {
			a.errorAt(n.Position, "cannot instantiate abstract class %q", n.ClassName)
		}
		if info.Constructor != nil {
			a.validateCallArity(n.Position, info.Constructor.Params, len(n.Args), n.ClassName)
		} else if len(n.Args) != 0 {
			a.errorAt(n.Position, "class %q has no declared constructor but was called with %d argument(s)", n.ClassName, len(n.Args))
		}
	}
}

// analyzeLambda pushes a parameter scope, analyzes the body (return
// statements are checked against the lambda's own declared return type,
// not the enclosing function's), and fills the lambda's capture set:
// identifiers collected from the body that are not parameters of the
// lambda but do resolve in an enclosing scope. A local of the lambda that
// shadows an enclosing name is listed as a capture too.
func (a *Analyzer) analyzeLambda(n *ast.LambdaExpr) {
	outer := a.scope
	prevMethod := a.curMethod
	a.curMethod = &ast.MethodDecl{Name: "<lambda>", Params: n.Params, ReturnType: n.ReturnType, IsStatic: prevMethod != nil && prevMethod.IsStatic}
	defer func() { a.curMethod = prevMethod }()
	a.pushScope()
	defer a.popScope()
	paramNames := map[string]bool{}
	for _, p := range n.Params {
		a.scope.define(SymbolInfo{Name: p.Name, Type: p.Type, Kind: SymParameter})
		paramNames[p.Name] = true
	}
	if n.Body != nil {
		a.analyzeBlock(n.Body)
	} else if n.Expr != nil {
		a.analyzeExpr(n.Expr)
	}

	n.Captures = n.Captures[:0]
	seen := map[string]bool{}
	for _, name := range collectIdentifiers(n) {
		if paramNames[name] || seen[name] {
			continue
		}
		seen[name] = true
		if _, ok := outer.lookup(name); ok {
			n.Captures = append(n.Captures, name)
		}
	}
}

// collectIdentifiers walks n and returns the Identifier names it
// references, used by analyzeLambda to compute a lambda's capture set
// without needing a generated visitor. Only expression, return,
// variable-declaration, block, if and while statements are descended
// into; identifiers inside other statement kinds (for loops, switch,
// try/catch, throw, delete, keep, release) are not collected.
func collectIdentifiers(n ast.Node) []string {
	var names []string
	var walkExpr func(ast.Expr)
	var walkStmt func(ast.Stmt)

	walkExpr = func(e ast.Expr) {
		if e == nil {
			return
		}
		switch v := e.(type) {
		case *ast.Identifier:
			names = append(names, v.Name)
		case *ast.BinaryExpr:
			walkExpr(v.Left)
			walkExpr(v.Right)
		case *ast.UnaryExpr:
			walkExpr(v.Operand)
		case *ast.CallExpr:
			walkExpr(v.Callee)
			for _, arg := range v.Args {
				walkExpr(arg)
			}
		case *ast.IndexExpr:
			walkExpr(v.Container)
			walkExpr(v.Index)
		case *ast.FieldAccessExpr:
			walkExpr(v.Target)
		case *ast.AssignExpr:
			walkExpr(v.Target)
			walkExpr(v.Value)
		case *ast.TernaryExpr:
			walkExpr(v.Cond)
			walkExpr(v.Then)
			walkExpr(v.Else)
		case *ast.CoalesceExpr:
			walkExpr(v.Left)
			walkExpr(v.Right)
		case *ast.CastExpr:
			walkExpr(v.Target)
		case *ast.ListLiteral:
			for _, el := range v.Elements {
				walkExpr(el)
			}
		case *ast.MapLiteral:
			for _, entry := range v.Entries {
				walkExpr(entry.Key)
				walkExpr(entry.Value)
			}
		case *ast.TupleLiteral:
			for _, el := range v.Elements {
				walkExpr(el)
			}
		case *ast.BraceInitializer:
			for _, el := range v.Elements {
				walkExpr(el)
			}
		case *ast.LambdaExpr:
			if v.Body != nil {
				for _, s := range v.Body.Stmts {
					walkStmt(s)
				}
			}
			walkExpr(v.Expr)
		case *ast.NewExpr:
			for _, arg := range v.Args {
				walkExpr(arg)
			}
		case *ast.SpawnExpr:
			walkExpr(v.Body)
		}
	}

	walkStmt = func(s ast.Stmt) {
		switch v := s.(type) {
		case *ast.ExprStmt:
			walkExpr(v.Expr)
		case *ast.ReturnStmt:
			walkExpr(v.Value)
		case *ast.VarDeclStmt:
			walkExpr(v.Initializer)
		case *ast.Block:
			for _, st := range v.Stmts {
				walkStmt(st)
			}
		case *ast.IfStmt:
			walkExpr(v.Cond)
			for _, st := range v.Then.Stmts {
				walkStmt(st)
			}
			walkStmt(v.Else)
		case *ast.WhileStmt:
			walkExpr(v.Cond)
			for _, st := range v.Body.Stmts {
				walkStmt(st)
			}
		}
	}

	switch v := n.(type) {
	case *ast.LambdaExpr:
		if v.Body != nil {
			for _, s := range v.Body.Stmts {
				walkStmt(s)
			}
		}
		walkExpr(v.Expr)
	}
	return names
}
