package analyzer

import (
	"github.com/schiffy91/btrc-sub001/internal/ast"
	"github.com/schiffy91/btrc-sub001/internal/util"
)

// isTerminalStmt reports whether s unconditionally exits the current
// block (return/throw/break/continue), used to flag unreachable code
// immediately following it, a narrower and purely syntactic check than the
// exhaustive-return analysis in functions.go.
func isTerminalStmt(s ast.Stmt) bool {
	switch s.(type) {
	case *ast.ReturnStmt, *ast.ThrowStmt, *ast.BreakStmt, *ast.ContinueStmt:
		return true
	}
	return false
}

// analyzeBlock pushes a scope, analyzes each statement in order, flags any
// statement following a terminal statement as unreachable, and pops the
// scope.
func (a *Analyzer) analyzeBlock(b *ast.Block) {
	a.pushScope()
	defer a.popScope()
	terminated, reported := false, false
	for _, s := range b.Stmts {
		if terminated && !reported {
			a.errorAt(s.Pos(), "unreachable code")
			reported = true // report once per block, not once per trailing statement
		}
		a.analyzeStmt(s)
		if isTerminalStmt(s) {
			terminated = true
		}
	}
}

func (a *Analyzer) analyzeStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.VarDeclStmt:
		a.analyzeVarDecl(n)
	case *ast.ReturnStmt:
		a.analyzeReturnStmt(n)
	case *ast.IfStmt:
		a.analyzeExpr(n.Cond)
		a.analyzeBlock(n.Then)
		if n.Else != nil {
			a.analyzeStmt(n.Else)
		}
	case *ast.WhileStmt:
		a.analyzeExpr(n.Cond)
		a.loopDepth++
		a.breakDepth++
		a.analyzeBlock(n.Body)
		a.loopDepth--
		a.breakDepth--
	case *ast.DoWhileStmt:
		a.loopDepth++
		a.breakDepth++
		a.analyzeBlock(n.Body)
		a.loopDepth--
		a.breakDepth--
		a.analyzeExpr(n.Cond)
	case *ast.ForInStmt:
		a.analyzeForIn(n)
	case *ast.ParallelForStmt:
		a.analyzeParallelFor(n)
	case *ast.CForStmt:
		a.analyzeCFor(n)
	case *ast.SwitchStmt:
		a.analyzeSwitch(n)
	case *ast.ExprStmt:
		a.analyzeExpr(n.Expr)
	case *ast.DeleteStmt:
		a.analyzeExpr(n.Target)
	case *ast.Block:
		a.analyzeBlock(n)
	case *ast.TryCatchStmt:
		a.analyzeBlock(n.Try)
		if n.Catch != nil {
			a.pushScope()
			a.scope.define(SymbolInfo{Name: n.CatchVar, Type: prim("string"), Kind: SymVariable})
			a.analyzeBlock(n.Catch)
			a.popScope()
		}
		if n.Finally != nil {
			a.analyzeBlock(n.Finally)
		}
	case *ast.ThrowStmt:
		a.analyzeExpr(n.Value)
	case *ast.KeepStmt:
		a.analyzeExpr(n.Target)
	case *ast.ReleaseStmt:
		a.analyzeExpr(n.Target)
	case *ast.BreakStmt:
		if a.breakDepth == 0 {
			a.errorAt(n.Position, "'break' outside any loop or switch")
		}
	case *ast.ContinueStmt:
		if a.loopDepth == 0 {
			a.errorAt(n.Position, "'continue' outside any loop")
		}
	}
}

func (a *Analyzer) analyzeReturnStmt(n *ast.ReturnStmt) {
	if n.Value == nil {
		return
	}
	valType := a.analyzeExpr(n.Value)
	if a.curMethod != nil && a.curMethod.ReturnType != nil {
		if !a.typesCompatible(a.curMethod.ReturnType, valType) {
			a.errorAt(n.Position, "cannot return %s from a function declared to return %s", formatType(valType), formatType(a.curMethod.ReturnType))
		}
	}
}

// analyzeVarDecl handles both the untyped "var x = ..." form (requiring an
// initializer, filling the inferred type in place, defaulting to int on
// inference failure) and the explicitly-typed form (class-type upgrade,
// generic-instance collection, initializer compatibility check).
func (a *Analyzer) analyzeVarDecl(n *ast.VarDeclStmt) {
	if n.Type == nil {
		if n.Initializer == nil {
			a.errorAt(n.Position, "'var' declaration for %q requires an initializer", n.Name)
			n.Type = prim("int")
		} else {
			t := a.analyzeExpr(n.Initializer)
			if t == nil {
				a.errorAt(n.Position, "cannot infer type of %q from its initializer", n.Name)
				t = prim("int")
			} else if t.Base == "void" && t.PointerDepth == 0 {
				a.errorAt(n.Position, "cannot initialize %q with a void-typed expression", n.Name)
				t = prim("int")
			}
			n.Type = t
			if _, isClass := a.classTable[t.Base]; isClass && t.PointerDepth == 0 && !t.Nullable {
				upgraded := *t
				upgraded.PointerDepth = 1
				n.Type = &upgraded
			}
			a.checkAliasWarning(n)
		}
		a.collectGenericInstances(n.Type)
		a.scope.define(SymbolInfo{Name: n.Name, Type: n.Type, Kind: SymVariable})
		return
	}

	a.upgradeClassType(n.Type)
	a.collectGenericInstances(n.Type)
	if n.Type.Base == "void" && n.Type.PointerDepth == 0 {
		a.errorAt(n.Position, "variable %q cannot have type void", n.Name)
	}
	if n.Initializer != nil {
		initType := a.analyzeExpr(n.Initializer)
		isEmptyLiteral := false
		switch lit := n.Initializer.(type) {
		case *ast.ListLiteral:
			isEmptyLiteral = len(lit.Elements) == 0
		case *ast.MapLiteral:
			isEmptyLiteral = len(lit.Entries) == 0
		}
		if !isEmptyLiteral && initType != nil && !a.typesCompatible(n.Type, initType) {
			a.errorAt(n.Position, "cannot assign %s to variable %q of type %s", formatType(initType), n.Name, formatType(n.Type))
		}
	}
	a.scope.define(SymbolInfo{Name: n.Name, Type: n.Type, Kind: SymVariable})
}

// checkAliasWarning warns when "var q = p" aliases an existing managed
// (class-typed) variable, suggesting 'keep'. The warning fires even when
// the declaration already carries 'keep'; see DESIGN.md.
func (a *Analyzer) checkAliasWarning(n *ast.VarDeclStmt) {
	ident, ok := n.Initializer.(*ast.Identifier)
	if !ok {
		return
	}
	if n.Type == nil || n.Type.PointerDepth == 0 {
		return
	}
	if _, isClass := a.classTable[n.Type.Base]; !isClass {
		return
	}
	a.warnAt(n.Position, "'%s = %s' aliases a managed reference; consider 'keep'", n.Name, ident.Name)
}

// isRangeCall reports whether e is a call to the built-in "range(...)".
func isRangeCall(e ast.Expr) bool {
	call, ok := e.(*ast.CallExpr)
	if !ok {
		return false
	}
	ident, ok := call.Callee.(*ast.Identifier)
	return ok && ident.Name == "range"
}

// analyzeForIn validates the iterable's shape per the single- and two-
// variable forms and defines the loop variable(s) in a fresh scope over
// the body.
func (a *Analyzer) analyzeForIn(n *ast.ForInStmt) {
	iterType := a.analyzeExpr(n.Iterable)
	a.pushScope()
	a.loopDepth++
	a.breakDepth++
	defer func() {
		a.loopDepth--
		a.breakDepth--
		a.popScope()
	}()

	if n.ValName != "" {
		if isRangeCall(n.Iterable) {
			a.errorAt(n.Position, "range() does not support two-variable for-in")
		} else if iterType != nil {
			if len(iterType.GenericArgs) >= 2 {
				a.scope.define(SymbolInfo{Name: n.VarName, Type: iterType.GenericArgs[0], Kind: SymVariable})
				a.scope.define(SymbolInfo{Name: n.ValName, Type: iterType.GenericArgs[1], Kind: SymVariable})
			} else if info, ok := a.classTable[iterType.Base]; ok {
				_, hasIterValueAt := info.Methods["iterValueAt"]
				_, hasIterGet := info.Methods["iterGet"]
				if !hasIterValueAt && !hasIterGet {
					a.errorAt(n.Position, "class %q does not support two-variable for-in (no iterValueAt/iterGet)", iterType.Base)
				}
				a.scope.define(SymbolInfo{Name: n.VarName, Type: prim("int"), Kind: SymVariable})
				a.scope.define(SymbolInfo{Name: n.ValName, Type: prim("int"), Kind: SymVariable})
			} else {
				a.errorAt(n.Position, "two-variable for-in requires a type with at least 2 generic parameters, got %s", formatType(iterType))
			}
		}
		a.analyzeBlock(n.Body)
		return
	}

	if isRangeCall(n.Iterable) {
		a.scope.define(SymbolInfo{Name: n.VarName, Type: prim("int"), Kind: SymVariable})
		a.analyzeBlock(n.Body)
		return
	}
	elemType, ok := a.getElementType(iterType)
	if !ok {
		a.errorAt(n.Position, "type %s is not iterable", formatType(iterType))
		elemType = prim("int")
	}
	a.scope.define(SymbolInfo{Name: n.VarName, Type: elemType, Kind: SymVariable})
	a.analyzeBlock(n.Body)
}

func (a *Analyzer) analyzeParallelFor(n *ast.ParallelForStmt) {
	iterType := a.analyzeExpr(n.Iterable)
	a.pushScope()
	a.loopDepth++
	a.breakDepth++
	defer func() {
		a.loopDepth--
		a.breakDepth--
		a.popScope()
	}()
	var elemType *ast.TypeExpr
	if isRangeCall(n.Iterable) {
		elemType = prim("int")
	} else if t, ok := a.getElementType(iterType); ok {
		elemType = t
	} else {
		a.errorAt(n.Position, "type %s is not iterable", formatType(iterType))
		elemType = prim("int")
	}
	a.scope.define(SymbolInfo{Name: n.VarName, Type: elemType, Kind: SymVariable})
	a.analyzeBlock(n.Body)
}

func (a *Analyzer) analyzeCFor(n *ast.CForStmt) {
	a.pushScope()
	defer a.popScope()
	if n.Init != nil {
		a.analyzeStmt(n.Init)
	}
	if n.Cond != nil {
		a.analyzeExpr(n.Cond)
	}
	a.loopDepth++
	a.breakDepth++
	a.analyzeBlock(n.Body)
	a.loopDepth--
	a.breakDepth--
	if n.Update != nil {
		a.analyzeStmt(n.Update)
	}
}

// analyzeSwitch validates break/default bookkeeping and, when the subject
// is an enum-typed value with no default branch, checks that every enum
// value is covered, naming any missing values in alphabetical order.
func (a *Analyzer) analyzeSwitch(n *ast.SwitchStmt) {
	subjectType := a.analyzeExpr(n.Subject)
	a.breakDepth++
	defer func() { a.breakDepth-- }()

	hasDefault := false
	covered := map[string]bool{}
	for _, c := range n.Cases {
		if c.IsDefault {
			hasDefault = true
		}
		for _, v := range c.Values {
			a.analyzeExpr(v)
			if ident, ok := v.(*ast.Identifier); ok {
				covered[ident.Name] = true
			}
		}
		a.pushScope()
		for _, st := range c.Stmts {
			a.analyzeStmt(st)
		}
		a.popScope()
	}

	if hasDefault || subjectType == nil {
		return
	}
	values, ok := a.enumTable[subjectType.Base]
	if !ok {
		return
	}
	var missing []string
	for _, v := range values {
		if !covered[v] {
			missing = append(missing, v)
		}
	}
	if len(missing) > 0 {
		missing = sortedStrings(missing)
		a.errorAt(n.Position, "switch on enum %q is not exhaustive, missing: %s", subjectType.Base, util.TextList(missing))
	}
}
