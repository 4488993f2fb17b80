package ast

// IntLiteral is a decimal/hex/binary/octal integer literal, kept as raw
// text so the code generator can preserve base and suffix.
type IntLiteral struct {
	Position
	Text string
}

func (*IntLiteral) exprNode() {}

// FloatLiteral is a floating-point literal, kept as raw text.
type FloatLiteral struct {
	Position
	Text string
}

func (*FloatLiteral) exprNode() {}

// StringLiteral is a double- or triple-quoted string; Value keeps the
// surrounding quotes and unexpanded escapes, ready for C emission.
type StringLiteral struct {
	Position
	Value string
}

func (*StringLiteral) exprNode() {}

// CharLiteral is a single (possibly-escaped) character; Value keeps the
// surrounding single quotes.
type CharLiteral struct {
	Position
	Value string
}

func (*CharLiteral) exprNode() {}

// BoolLiteral is true/false.
type BoolLiteral struct {
	Position
	Value bool
}

func (*BoolLiteral) exprNode() {}

// NullLiteral is the null pointer/reference constant.
type NullLiteral struct {
	Position
}

func (*NullLiteral) exprNode() {}

// FStringPart is either a literal text run or an embedded expression
// inside an FStringLiteral.
type FStringPart struct {
	Text string // set when Expr == nil
	Expr Expr
}

// FStringLiteral is an interpolated string; its embedded expressions are
// parsed from the raw brace-delimited substrings the lexer captured.
type FStringLiteral struct {
	Position
	Parts []FStringPart
}

func (*FStringLiteral) exprNode() {}

// Identifier is a bare name reference, resolved against the scope chain.
type Identifier struct {
	Position
	Name string
}

func (*Identifier) exprNode() {}

// SelfExpr is "self", valid only inside a non-static method/constructor body.
type SelfExpr struct {
	Position
}

func (*SelfExpr) exprNode() {}

// SuperExpr is "super", used as a call target (super(...) in a
// constructor) or a base for field/method access.
type SuperExpr struct {
	Position
}

func (*SuperExpr) exprNode() {}

// BinaryOp enumerates binary operators.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	And
	Or
	BitAnd
	BitOr
	BitXor
	Shl
	Shr
)

// BinaryExpr is a binary operator application.
type BinaryExpr struct {
	Position
	Op          BinaryOp
	Left, Right Expr
}

func (*BinaryExpr) exprNode() {}

// UnaryOp enumerates unary prefix/postfix operators.
type UnaryOp int

const (
	Neg UnaryOp = iota
	Not
	BitNot
	Deref
	AddrOf
	PreInc
	PreDec
	PostInc
	PostDec
)

// UnaryExpr is a unary operator application.
type UnaryExpr struct {
	Position
	Op      UnaryOp
	Operand Expr
}

func (*UnaryExpr) exprNode() {}

// CallExpr is a function/method/constructor-like call: Callee(Args...).
// Callee is typically an Identifier, a FieldAccessExpr, or SuperExpr.
type CallExpr struct {
	Position
	Callee Expr
	Args   []Expr
}

func (*CallExpr) exprNode() {}

// IndexExpr is "container[index]".
type IndexExpr struct {
	Position
	Container Expr
	Index     Expr
}

func (*IndexExpr) exprNode() {}

// FieldAccessExpr is "target.field" or, when Optional is set, "target?.field".
type FieldAccessExpr struct {
	Position
	Target   Expr
	Field    string
	Optional bool
}

func (*FieldAccessExpr) exprNode() {}

// AssignExpr is "target op= value"; Op is Eq for plain assignment or one
// of the compound-assignment operators.
type AssignExpr struct {
	Position
	Target Expr
	Op     BinaryOp
	Value  Expr
}

func (*AssignExpr) exprNode() {}

// TernaryExpr is "cond ? then : else".
type TernaryExpr struct {
	Position
	Cond, Then, Else Expr
}

func (*TernaryExpr) exprNode() {}

// CoalesceExpr is "left ?? right": left if non-null, else right.
type CoalesceExpr struct {
	Position
	Left, Right Expr
}

func (*CoalesceExpr) exprNode() {}

// CastExpr is "(Type)expr".
type CastExpr struct {
	Position
	Target Expr
	Type   *TypeExpr
}

func (*CastExpr) exprNode() {}

// SizeofExpr is "sizeof(Type)" or "sizeof(expr)".
type SizeofExpr struct {
	Position
	Type *TypeExpr // set for the type form
	Expr Expr      // set for the expression form
}

func (*SizeofExpr) exprNode() {}

// ListLiteral is "[e1, e2, ...]".
type ListLiteral struct {
	Position
	Elements []Expr
}

func (*ListLiteral) exprNode() {}

// MapEntry is one key:value pair in a MapLiteral.
type MapEntry struct {
	Key, Value Expr
}

// MapLiteral is "{k1: v1, k2: v2, ...}".
type MapLiteral struct {
	Position
	Entries []MapEntry
}

func (*MapLiteral) exprNode() {}

// TupleLiteral is "(e1, e2, ...)" with at least two elements.
type TupleLiteral struct {
	Position
	Elements []Expr
}

func (*TupleLiteral) exprNode() {}

// BraceInitializer is "Type{e1, e2, ...}", a struct/array brace-init.
type BraceInitializer struct {
	Position
	Type     *TypeExpr
	Elements []Expr
}

func (*BraceInitializer) exprNode() {}

// LambdaExpr is an anonymous function literal, in either the arrow form
// ("(x) => x + 1") or the verbose form ("int function(int x) { ... }").
// Captures is empty until the analyzer fills it with the lambda's free
// variables; the parser never writes it.
type LambdaExpr struct {
	Position
	ReturnType *TypeExpr // declared by the verbose form only
	Params     []*Param
	Body       *Block // block-bodied form
	Expr       Expr   // expression-bodied form
	Captures   []string
}

func (*LambdaExpr) exprNode() {}

// NewExpr is "new ClassName<Args>(ctorArgs...)".
type NewExpr struct {
	Position
	ClassName   string
	GenericArgs []*TypeExpr
	Args        []Expr
}

func (*NewExpr) exprNode() {}

// SpawnExpr is "spawn expr", launching expr (a call or lambda) on a new
// host thread and yielding a Thread<T> handle.
type SpawnExpr struct {
	Position
	Body Expr
}

func (*SpawnExpr) exprNode() {}
