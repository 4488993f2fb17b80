package ast

// Param is a single function/method/lambda parameter, with an optional
// default-value expression (defaults must be trailing, enforced by the
// analyzer's validateDefaultParams).
type Param struct {
	Position
	Keep    bool
	Name    string
	Type    *TypeExpr
	Default Expr
}

// FieldDecl is a class field: "public int x" or "private List<T> items = ...".
type FieldDecl struct {
	Position
	Access      Access
	IsStatic    bool
	Keep        bool
	Name        string
	Type        *TypeExpr
	Initializer Expr
}

func (*FieldDecl) declNode() {}

// Access is a class-member visibility specifier.
type Access int

const (
	Public Access = iota
	Private
)

// MethodDecl is a class method, including the special case where Name
// equals the enclosing class's name (a constructor).
type MethodDecl struct {
	Position
	Access      Access
	IsStatic    bool
	IsAbstract  bool
	IsOverride  bool
	IsGPU       bool
	KeepReturn  bool
	Name        string
	GenericArgs []string
	Params      []*Param
	ReturnType  *TypeExpr // nil for constructors
	Body        *Block    // nil for abstract/interface method signatures
}

func (*MethodDecl) declNode() {}

// PropertyDecl is a C#-style property with optional get/set accessor
// bodies.
type PropertyDecl struct {
	Position
	Access  Access
	Name    string
	Type    *TypeExpr
	Getter  *Block
	Setter  *Block // nil if read-only; the implicit setter parameter is "value"
}

func (*PropertyDecl) declNode() {}

// ClassDecl is a class declaration, possibly abstract/generic, extending
// one class and implementing zero or more interfaces.
type ClassDecl struct {
	Position
	Name        string
	IsAbstract  bool
	GenericArgs []string
	Extends     string
	Implements  []string
	Fields      []*FieldDecl
	Methods     []*MethodDecl
	Properties  []*PropertyDecl
	Constructor *MethodDecl // nil if none declared
}

func (*ClassDecl) declNode() {}

// MethodSig is an interface method signature (no body).
type MethodSig struct {
	Position
	Name       string
	Params     []*Param
	ReturnType *TypeExpr
	Keep       bool
}

// InterfaceDecl declares a set of method signatures, optionally extending
// a parent interface.
type InterfaceDecl struct {
	Position
	Name        string
	GenericArgs []string
	Extends     string
	Methods     []*MethodSig
}

func (*InterfaceDecl) declNode() {}

// FieldDef is a struct or rich-enum-variant member: a typed name, with an
// optional fixed array size ("int values[4]").
type FieldDef struct {
	Position
	Name      string
	Type      *TypeExpr
	ArraySize int // 0 if not an array field
}

// StructDecl is a plain-old-data aggregate, optionally anonymous (used
// inline as a field type) when Name == "".
type StructDecl struct {
	Position
	Name   string
	Fields []*FieldDef
}

func (*StructDecl) declNode() {}

// EnumValue is one member of a plain (C-style) enum, with an optional
// explicit integer value.
type EnumValue struct {
	Position
	Name  string
	Value *int // nil means auto-assigned (previous + 1, or 0 for the first)
}

// EnumDecl is a plain C-style integer enum.
type EnumDecl struct {
	Position
	Name   string
	Values []*EnumValue
}

func (*EnumDecl) declNode() {}

// RichEnumVariant is one case of a rich (tagged-union) enum, e.g.
// "Some(T value)" or "None".
type RichEnumVariant struct {
	Position
	Name   string
	Fields []*FieldDef
}

// RichEnumDecl declares a Rust/Swift-style discriminated union:
// "enum class Option<T> { Some(T value), None }".
type RichEnumDecl struct {
	Position
	Name        string
	GenericArgs []string
	Variants    []*RichEnumVariant
}

func (*RichEnumDecl) declNode() {}

// TypedefDecl aliases Name to Type.
type TypedefDecl struct {
	Position
	Name string
	Type *TypeExpr
}

func (*TypedefDecl) declNode() {}

// FunctionDecl is a top-level function. Body is nil for a forward
// declaration; a body-ful declaration of the same name elsewhere in the
// program supersedes it. The two signatures are not compared, and a
// forward declaration with no definition is accepted.
type FunctionDecl struct {
	Position
	IsGPU      bool
	KeepReturn bool
	Name       string
	Params     []*Param
	ReturnType *TypeExpr
	Body       *Block
}

func (*FunctionDecl) declNode() {}

// VarDeclStmt declares a variable; it appears both as a statement inside a
// body and (rarely) as a top-level global declaration, hence it implements
// both Decl and Stmt.
type VarDeclStmt struct {
	Position
	Keep        bool
	Name        string
	Type        *TypeExpr // nil for "var x = ..." (type to be inferred)
	Initializer Expr
}

func (*VarDeclStmt) declNode() {}
func (*VarDeclStmt) stmtNode() {}
