// Package ast defines the btrc abstract syntax tree as a plain Go struct
// hierarchy: every node is a struct, declarations/statements/expressions
// are distinguished by marker interfaces, and traversal is done with type
// switches rather than a generated visitor.
package ast

// Node is implemented by every AST node; it carries source position for
// diagnostics.
type Node interface {
	Pos() Position
}

// Position is a 1-based source location.
type Position struct {
	Line int
	Col  int
}

func (p Position) Pos() Position { return p }

// Decl is a top-level or class-member declaration.
type Decl interface {
	Node
	declNode()
}

// Stmt is a statement inside a function/method body.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression.
type Expr interface {
	Node
	exprNode()
}

// Program is the root node: a sequence of preprocessor directives
// interleaved with top-level declarations, in source order.
type Program struct {
	Position
	Decls []Decl
}

// PreprocessorDirective is a passthrough '#...' line (include, define,
// pragma, etc). btrc does not interpret these; it threads them into the
// generated C output verbatim.
type PreprocessorDirective struct {
	Position
	Text string
}

func (*PreprocessorDirective) declNode() {}

// TypeExpr denotes a type: a base name, optional generic arguments,
// pointer depth, nullability, and array-ness. Two TypeExprs denote the
// same type iff their normalized keys (see analyzer.normalizeTypeKey)
// match, independent of field order.
type TypeExpr struct {
	Position
	Base         string
	GenericArgs  []*TypeExpr
	PointerDepth int
	Nullable     bool
	IsConst      bool
	IsArray      bool
	ArraySize    Expr // nil if unsized ("T[]")
}
