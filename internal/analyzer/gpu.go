package analyzer

import "github.com/schiffy91/btrc-sub001/internal/ast"

// GPU functions are restricted to the WGSL-compatible subset of btrc:
// scalar int/float/bool parameters or int/float arrays, a void or
// typed-array return, and bodies built from arithmetic, comparisons,
// if/else, while, C-style for, and var declarations. Strings, classes,
// collections, lambdas, spawn, try/catch, and print are all rejected.

var gpuScalarTypes = map[string]bool{"int": true, "float": true, "bool": true}
var gpuArrayElemTypes = map[string]bool{"int": true, "float": true}

// gpuBuiltins are the callables available inside a GPU function body.
// gpu_id() yields the invocation index of the current GPU thread.
var gpuBuiltins = map[string]*ast.TypeExpr{
	"gpu_id": {Base: "int"},
}

// validateGPUFunction checks an @gpu function's signature and body against
// the GPU-compatible subset. Diagnostics are collected like any other
// analyzer error; the function body is still analyzed normally afterwards.
func (a *Analyzer) validateGPUFunction(name string, params []*ast.Param, ret *ast.TypeExpr, body *ast.Block, pos ast.Position) {
	for _, p := range params {
		a.validateGPUType(p.Type, "parameter '"+p.Name+"'", name, pos, true)
	}
	if ret != nil && ret.Base != "void" {
		if ret.IsArray {
			if !gpuArrayElemTypes[ret.Base] {
				a.errorAt(pos, "@gpu function %q return type must be void or a typed array (int[] or float[]), got '%s[]'", name, ret.Base)
			}
		} else {
			a.errorAt(pos, "@gpu function %q must return void or a typed array, got %q", name, ret.Base)
		}
	}
	if body != nil {
		a.validateGPUBlock(body, name)
	}
}

func (a *Analyzer) validateGPUType(te *ast.TypeExpr, context, funcName string, pos ast.Position, allowArray bool) {
	if te == nil {
		return
	}
	switch {
	case te.Nullable:
		a.errorAt(pos, "@gpu function %q: nullable types not allowed in %s", funcName, context)
	case te.PointerDepth > 0:
		a.errorAt(pos, "@gpu function %q: pointer types not allowed in %s", funcName, context)
	case te.IsArray && allowArray:
		if !gpuArrayElemTypes[te.Base] {
			a.errorAt(pos, "@gpu function %q: array element type must be int or float in %s, got %q", funcName, context, te.Base)
		}
	case te.IsArray:
		a.errorAt(pos, "@gpu function %q: array types not allowed in %s", funcName, context)
	case len(te.GenericArgs) > 0:
		a.errorAt(pos, "@gpu function %q: generic types not allowed in %s", funcName, context)
	case !gpuScalarTypes[te.Base]:
		a.errorAt(pos, "@gpu function %q: type %q not allowed in %s (use int, float, or bool)", funcName, te.Base, context)
	}
}

func (a *Analyzer) validateGPUBlock(b *ast.Block, funcName string) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		a.validateGPUStmt(s, funcName)
	}
}

func (a *Analyzer) validateGPUStmt(s ast.Stmt, funcName string) {
	switch n := s.(type) {
	case *ast.VarDeclStmt:
		if n.Type != nil {
			a.validateGPUType(n.Type, "variable '"+n.Name+"'", funcName, n.Position, true)
		}
		a.validateGPUExpr(n.Initializer, funcName)
	case *ast.ReturnStmt:
		a.validateGPUExpr(n.Value, funcName)
	case *ast.IfStmt:
		a.validateGPUExpr(n.Cond, funcName)
		a.validateGPUBlock(n.Then, funcName)
		switch e := n.Else.(type) {
		case *ast.Block:
			a.validateGPUBlock(e, funcName)
		case *ast.IfStmt:
			a.validateGPUStmt(e, funcName)
		}
	case *ast.WhileStmt:
		a.validateGPUExpr(n.Cond, funcName)
		a.validateGPUBlock(n.Body, funcName)
	case *ast.CForStmt:
		if n.Init != nil {
			a.validateGPUStmt(n.Init, funcName)
		}
		a.validateGPUExpr(n.Cond, funcName)
		if n.Update != nil {
			a.validateGPUStmt(n.Update, funcName)
		}
		a.validateGPUBlock(n.Body, funcName)
	case *ast.ExprStmt:
		a.validateGPUExpr(n.Expr, funcName)
	case *ast.Block:
		a.validateGPUBlock(n, funcName)
	case *ast.BreakStmt, *ast.ContinueStmt:
		// allowed
	case *ast.ForInStmt, *ast.ParallelForStmt, *ast.TryCatchStmt, *ast.ThrowStmt,
		*ast.DeleteStmt, *ast.KeepStmt, *ast.ReleaseStmt:
		a.errorAt(s.Pos(), "@gpu function %q: %s not allowed in GPU functions", funcName, stmtKindName(s))
	default:
		a.errorAt(s.Pos(), "@gpu function %q: unsupported statement in GPU function", funcName)
	}
}

func (a *Analyzer) validateGPUExpr(e ast.Expr, funcName string) {
	switch n := e.(type) {
	case nil:
	case *ast.IntLiteral, *ast.FloatLiteral, *ast.BoolLiteral, *ast.NullLiteral, *ast.Identifier:
		// allowed
	case *ast.BinaryExpr:
		a.validateGPUExpr(n.Left, funcName)
		a.validateGPUExpr(n.Right, funcName)
	case *ast.UnaryExpr:
		a.validateGPUExpr(n.Operand, funcName)
	case *ast.CallExpr:
		if id, ok := n.Callee.(*ast.Identifier); ok {
			if id.Name == "print" {
				a.errorAt(n.Position, "@gpu function %q: print() not allowed in GPU functions", funcName)
				return
			}
			if _, builtin := gpuBuiltins[id.Name]; builtin {
				return
			}
		} else {
			a.validateGPUExpr(n.Callee, funcName)
		}
		for _, arg := range n.Args {
			a.validateGPUExpr(arg, funcName)
		}
	case *ast.IndexExpr:
		a.validateGPUExpr(n.Container, funcName)
		a.validateGPUExpr(n.Index, funcName)
	case *ast.AssignExpr:
		a.validateGPUExpr(n.Target, funcName)
		a.validateGPUExpr(n.Value, funcName)
	case *ast.TernaryExpr:
		a.validateGPUExpr(n.Cond, funcName)
		a.validateGPUExpr(n.Then, funcName)
		a.validateGPUExpr(n.Else, funcName)
	case *ast.CastExpr:
		a.validateGPUExpr(n.Target, funcName)
	case *ast.FieldAccessExpr:
		a.validateGPUExpr(n.Target, funcName)
	case *ast.StringLiteral, *ast.FStringLiteral:
		a.errorAt(e.Pos(), "@gpu function %q: strings not allowed in GPU functions", funcName)
	case *ast.ListLiteral, *ast.MapLiteral:
		a.errorAt(e.Pos(), "@gpu function %q: collection literals not allowed in GPU functions", funcName)
	case *ast.NewExpr, *ast.SelfExpr, *ast.SpawnExpr, *ast.LambdaExpr:
		a.errorAt(e.Pos(), "@gpu function %q: %s not allowed in GPU functions", funcName, exprKindName(e))
	default:
		// anything else is caught by ordinary type analysis
	}
}

func stmtKindName(s ast.Stmt) string {
	switch s.(type) {
	case *ast.ForInStmt:
		return "for-in loops"
	case *ast.ParallelForStmt:
		return "parallel for loops"
	case *ast.TryCatchStmt:
		return "try/catch"
	case *ast.ThrowStmt:
		return "throw"
	case *ast.DeleteStmt:
		return "delete"
	case *ast.KeepStmt:
		return "keep"
	case *ast.ReleaseStmt:
		return "release"
	}
	return "this statement"
}

func exprKindName(e ast.Expr) string {
	switch e.(type) {
	case *ast.NewExpr:
		return "new"
	case *ast.SelfExpr:
		return "self"
	case *ast.SpawnExpr:
		return "spawn"
	case *ast.LambdaExpr:
		return "lambdas"
	}
	return "this expression"
}
