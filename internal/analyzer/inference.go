package analyzer

import (
	"sort"

	"github.com/schiffy91/btrc-sub001/internal/ast"
)

func prim(base string) *ast.TypeExpr { return &ast.TypeExpr{Base: base} }

// inferType is the central expression-type dispatcher. Every non-nil
// result is recorded into a.nodeTypes keyed by expression identity before
// returning, so the node-type map covers even sub-expressions visited only
// for their side-typing; an expression whose type cannot be inferred has
// no entry.
func (a *Analyzer) inferType(e ast.Expr) *ast.TypeExpr {
	if e == nil {
		return nil
	}
	if t, ok := a.nodeTypes[e]; ok {
		return t
	}
	var t *ast.TypeExpr
	switch n := e.(type) {
	case *ast.IntLiteral:
		t = prim("int")
	case *ast.FloatLiteral:
		t = prim("float")
	case *ast.StringLiteral:
		t = prim("string")
	case *ast.CharLiteral:
		t = prim("char")
	case *ast.BoolLiteral:
		t = prim("bool")
	case *ast.FStringLiteral:
		t = prim("string")
	case *ast.NullLiteral:
		t = &ast.TypeExpr{Base: "void", PointerDepth: 1, Nullable: true}
	case *ast.SizeofExpr:
		t = prim("int")
	case *ast.Identifier:
		if sym, ok := a.scope.lookup(n.Name); ok {
			t = sym.Type
		} else if owner, ok := a.enumValueOwner(n.Name); ok {
			t = prim(owner)
		}
	case *ast.SelfExpr:
		t = a.selfType
	case *ast.SuperExpr:
		if a.curClass != nil && a.curClass.Parent != "" {
			t = &ast.TypeExpr{Base: a.curClass.Parent, PointerDepth: 1}
		}
	case *ast.FieldAccessExpr:
		t = a.inferFieldAccessType(n)
	case *ast.CallExpr:
		t = a.inferCallType(n)
	case *ast.NewExpr:
		t = &ast.TypeExpr{Base: n.ClassName, GenericArgs: n.GenericArgs, PointerDepth: 1}
	case *ast.IndexExpr:
		t = a.inferIndexType(n)
	case *ast.BinaryExpr:
		t = a.inferBinaryType(n)
	case *ast.CastExpr:
		t = n.Type
	case *ast.UnaryExpr:
		t = a.inferType(n.Operand)
		if t != nil {
			switch n.Op {
			case ast.Deref:
				if t.PointerDepth > 0 {
					shallower := *t
					shallower.PointerDepth--
					t = &shallower
				}
			case ast.AddrOf:
				deeper := *t
				deeper.PointerDepth++
				t = &deeper
			}
		}
	case *ast.TernaryExpr:
		t = a.inferType(n.Then)
	case *ast.CoalesceExpr:
		t = a.inferType(n.Left)
	case *ast.AssignExpr:
		t = a.inferType(n.Target)
	case *ast.LambdaExpr:
		t = a.inferLambdaType(n)
	case *ast.TupleLiteral:
		args := make([]*ast.TypeExpr, len(n.Elements))
		for i, el := range n.Elements {
			args[i] = a.inferType(el)
		}
		t = &ast.TypeExpr{Base: "Tuple", GenericArgs: args}
	case *ast.ListLiteral:
		elem := prim("int")
		if len(n.Elements) > 0 {
			elem = a.inferType(n.Elements[0])
		}
		t = &ast.TypeExpr{Base: "Vector", GenericArgs: []*ast.TypeExpr{elem}}
	case *ast.MapLiteral:
		key, val := prim("string"), prim("int")
		if len(n.Entries) > 0 {
			key = a.inferType(n.Entries[0].Key)
			val = a.inferType(n.Entries[0].Value)
		}
		t = &ast.TypeExpr{Base: "Map", GenericArgs: []*ast.TypeExpr{key, val}}
	case *ast.SpawnExpr:
		t = &ast.TypeExpr{Base: "Thread", PointerDepth: 1, GenericArgs: []*ast.TypeExpr{a.inferSpawnReturnType(n.Body)}}
	case *ast.BraceInitializer:
		if len(n.Elements) > 0 {
			t = a.inferType(n.Elements[0])
		} else {
			t = n.Type
		}
	}
	return a.recordType(e, t)
}

func (a *Analyzer) inferIndexType(n *ast.IndexExpr) *ast.TypeExpr {
	container := a.inferType(n.Container)
	if container == nil || len(container.GenericArgs) == 0 {
		return nil
	}
	arity := collectionArity(container.Base)
	if arity == 2 && len(container.GenericArgs) >= 2 {
		return container.GenericArgs[1]
	}
	return container.GenericArgs[0]
}

// inferFieldAccessType resolves a field/property access through the
// target's class, applying generic substitution for the target's bound
// arguments. "tag" on a rich-enum typed target is always int; an
// optional-chaining ("?.") access inherits the member's declared type
// unchanged (nullability is a warning concern, not a typing one).
func (a *Analyzer) inferFieldAccessType(n *ast.FieldAccessExpr) *ast.TypeExpr {
	targetType := a.inferType(n.Target)
	if targetType != nil {
		if _, ok := a.richEnumTable[targetType.Base]; ok {
			if n.Field == "tag" {
				return prim("int")
			}
			return nil
		}
	}
	if t := a.inferRichEnumVariantField(n); t != nil {
		return t
	}
	if targetType == nil {
		return nil
	}
	info, ok := a.classTable[targetType.Base]
	if !ok {
		return nil
	}
	subst := bindGenericParams(info.GenericParams, targetType.GenericArgs)
	if f, ok := info.Fields[n.Field]; ok {
		return substituteType(f.Type, subst)
	}
	if p, ok := info.Properties[n.Field]; ok {
		return substituteType(p.Type, subst)
	}
	if m, ok := info.Methods[n.Field]; ok {
		return substituteType(m.ReturnType, subst)
	}
	return nil
}

// inferRichEnumVariantField resolves the "value.data.Variant.field" access
// chain into a rich enum's variant payload: when the chain's root is
// rich-enum typed, the second-to-last segment names a variant and the last
// segment one of that variant's fields.
func (a *Analyzer) inferRichEnumVariantField(n *ast.FieldAccessExpr) *ast.TypeExpr {
	variantAccess, ok := n.Target.(*ast.FieldAccessExpr)
	if !ok {
		return nil
	}
	dataAccess, ok := variantAccess.Target.(*ast.FieldAccessExpr)
	if !ok {
		return nil
	}
	switch dataAccess.Target.(type) {
	case *ast.Identifier, *ast.FieldAccessExpr:
	default:
		return nil
	}
	rootType := a.inferType(dataAccess.Target)
	if rootType == nil {
		return nil
	}
	decl, ok := a.richEnumTable[rootType.Base]
	if !ok {
		return nil
	}
	for _, v := range decl.Variants {
		if v.Name != variantAccess.Field {
			continue
		}
		for _, f := range v.Fields {
			if f.Name == n.Field {
				return f.Type
			}
		}
	}
	return nil
}

// inferCallType handles constructor calls ("ClassName(...)"), function
// calls, method calls (with generic substitution), and the handful of
// built-in intrinsic calls (Mutex(...), string/char* methods,
// Thread<T>.join(), Mutex<T>.get()/set()/destroy(), range()).
func (a *Analyzer) inferCallType(n *ast.CallExpr) *ast.TypeExpr {
	switch callee := n.Callee.(type) {
	case *ast.Identifier:
		if callee.Name == "range" {
			return prim("int")
		}
		if callee.Name == "Mutex" {
			var elem *ast.TypeExpr
			if len(n.Args) > 0 {
				elem = a.inferType(n.Args[0])
			}
			return &ast.TypeExpr{Base: "Mutex", PointerDepth: 1, GenericArgs: []*ast.TypeExpr{elem}}
		}
		if _, ok := a.classTable[callee.Name]; ok {
			return &ast.TypeExpr{Base: callee.Name, PointerDepth: 1}
		}
		if fn, ok := a.functionTable[callee.Name]; ok {
			return fn.ReturnType
		}
		return nil
	case *ast.FieldAccessExpr:
		targetType := a.inferType(callee.Target)
		if targetType == nil {
			return nil
		}
		switch targetType.Base {
		case "Thread":
			if callee.Field == "join" && len(targetType.GenericArgs) > 0 {
				return targetType.GenericArgs[0]
			}
		case "Mutex":
			switch callee.Field {
			case "get":
				if len(targetType.GenericArgs) > 0 {
					return targetType.GenericArgs[0]
				}
			case "set", "destroy":
				return prim("void")
			}
		case "string":
			return stringMethodType(callee.Field)
		}
		if targetType.Base == "char" && targetType.PointerDepth >= 1 {
			return stringMethodType(callee.Field)
		}
		info, ok := a.classTable[targetType.Base]
		if !ok {
			return nil
		}
		subst := bindGenericParams(info.GenericParams, targetType.GenericArgs)
		if m, ok := info.Methods[callee.Field]; ok {
			return substituteType(m.ReturnType, subst)
		}
		return nil
	case *ast.SuperExpr:
		if a.curClass != nil {
			return &ast.TypeExpr{Base: a.curClass.Name, PointerDepth: 1}
		}
	}
	return nil
}

// inferBinaryType promotes numeric operands along int < long < float <
// double; comparison and logical operators always yield bool.
func (a *Analyzer) inferBinaryType(n *ast.BinaryExpr) *ast.TypeExpr {
	switch n.Op {
	case ast.Eq, ast.Ne, ast.Lt, ast.Le, ast.Gt, ast.Ge, ast.And, ast.Or:
		return prim("bool")
	}
	left, right := a.inferType(n.Left), a.inferType(n.Right)
	return promoteNumeric(left, right)
}

var numericRank = map[string]int{"int": 0, "long": 1, "float": 2, "double": 3}

func promoteNumeric(a1, a2 *ast.TypeExpr) *ast.TypeExpr {
	if a1 == nil {
		return a2
	}
	if a2 == nil {
		return a1
	}
	r1, ok1 := numericRank[a1.Base]
	r2, ok2 := numericRank[a2.Base]
	if !ok1 {
		return a2
	}
	if !ok2 {
		return a1
	}
	if r1 >= r2 {
		return a1
	}
	return a2
}

// enumValueOwner resolves a bare identifier that names a plain-enum value
// to its declaring enum, scanning enums in name order for determinism.
func (a *Analyzer) enumValueOwner(name string) (string, bool) {
	enums := make([]string, 0, len(a.enumTable))
	for en := range a.enumTable {
		enums = append(enums, en)
	}
	sort.Strings(enums)
	for _, en := range enums {
		for _, v := range a.enumTable[en] {
			if v == name {
				return en, true
			}
		}
	}
	return "", false
}

// inferLambdaType synthesizes the "__fn_ptr<Ret,P0,P1,...>" function
// pointer type the code generator uses to represent a closure value.
func (a *Analyzer) inferLambdaType(n *ast.LambdaExpr) *ast.TypeExpr {
	ret := a.inferLambdaReturn(n)
	args := []*ast.TypeExpr{ret}
	for _, p := range n.Params {
		pt := p.Type
		if pt == nil {
			pt = prim("int")
		}
		args = append(args, pt)
	}
	return &ast.TypeExpr{Base: "__fn_ptr", GenericArgs: args}
}

// inferLambdaReturn scans a block-bodied lambda for its first value-
// carrying return statement, or infers the expression-bodied form's
// expression type directly; it defaults to int rather than leaving the
// lambda untyped.
func (a *Analyzer) inferLambdaReturn(n *ast.LambdaExpr) *ast.TypeExpr {
	if n.ReturnType != nil {
		return n.ReturnType
	}
	if n.Expr != nil {
		if t := a.inferType(n.Expr); t != nil {
			return t
		}
		return prim("int")
	}
	if n.Body != nil {
		if t := firstReturnType(n.Body, a); t != nil {
			return t
		}
	}
	return prim("int")
}

func firstReturnType(b *ast.Block, a *Analyzer) *ast.TypeExpr {
	for _, s := range b.Stmts {
		switch st := s.(type) {
		case *ast.ReturnStmt:
			if st.Value != nil {
				return a.inferType(st.Value)
			}
		case *ast.Block:
			if t := firstReturnType(st, a); t != nil {
				return t
			}
		case *ast.IfStmt:
			if t := firstReturnType(st.Then, a); t != nil {
				return t
			}
		}
	}
	return nil
}

// inferSpawnReturnType infers the R in Thread<R> for "spawn expr", where
// expr is typically a call or a lambda.
func (a *Analyzer) inferSpawnReturnType(e ast.Expr) *ast.TypeExpr {
	var t *ast.TypeExpr
	switch n := e.(type) {
	case *ast.LambdaExpr:
		t = a.inferLambdaReturn(n)
	case *ast.CallExpr:
		t = a.inferCallType(n)
	case *ast.Identifier:
		if fn, ok := a.functionTable[n.Name]; ok {
			t = fn.ReturnType
		} else {
			t = a.inferType(e)
		}
	default:
		t = a.inferType(e)
	}
	if t == nil {
		t = prim("void")
	}
	return t
}

// getElementType is consulted by for-in analysis for the single-variable
// iteration form: string/char* iterate as char, a class with an iterGet
// method iterates as that method's (substituted) return type, and a
// generic container iterates as its first generic argument.
func (a *Analyzer) getElementType(iterType *ast.TypeExpr) (*ast.TypeExpr, bool) {
	if iterType == nil {
		return nil, false
	}
	if iterType.Base == "string" || (iterType.Base == "char" && iterType.PointerDepth >= 1) {
		return prim("char"), true
	}
	if info, ok := a.classTable[iterType.Base]; ok {
		if m, ok := info.Methods["iterGet"]; ok {
			subst := bindGenericParams(info.GenericParams, iterType.GenericArgs)
			return substituteType(m.ReturnType, subst), true
		}
		return nil, false
	}
	if len(iterType.GenericArgs) > 0 {
		return iterType.GenericArgs[0], true
	}
	return nil, false
}
