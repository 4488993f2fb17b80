// Package analyzer implements the single-pass semantic analysis of a btrc
// AST. One Analyzer struct holds all per-call state; its methods live
// across several files grouped by concern (registration.go, typeutils.go,
// inference.go, expressions.go, statements.go, functions.go, gpu.go).
package analyzer

import (
	"fmt"

	"github.com/schiffy91/btrc-sub001/internal/ast"
)

// SymbolKind classifies an entry in a Scope.
type SymbolKind int

const (
	SymVariable SymbolKind = iota
	SymParameter
	SymFunction
)

// SymbolInfo is one name binding in a Scope.
type SymbolInfo struct {
	Name string
	Type *ast.TypeExpr
	Kind SymbolKind
}

// Scope is a name->SymbolInfo mapping with an optional parent, walked by
// Lookup to implement lexical scoping.
type Scope struct {
	symbols map[string]SymbolInfo
	parent  *Scope
}

func newScope(parent *Scope) *Scope {
	return &Scope{symbols: make(map[string]SymbolInfo), parent: parent}
}

func (s *Scope) define(sym SymbolInfo) {
	s.symbols[sym.Name] = sym
}

func (s *Scope) lookup(name string) (SymbolInfo, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if sym, ok := cur.symbols[name]; ok {
			return sym, true
		}
	}
	return SymbolInfo{}, false
}

// ClassInfo is the registered shape of a class declaration, post-
// inheritance-copy (parent fields/non-constructor methods are copied in
// during registration; constructors are never inherited).
type ClassInfo struct {
	Name           string
	GenericParams  []string
	Fields         map[string]*ast.FieldDecl
	Methods        map[string]*ast.MethodDecl
	Properties     map[string]*ast.PropertyDecl
	Constructor    *ast.MethodDecl
	Parent         string
	Interfaces     []string
	IsAbstract     bool
	IsCyclable     bool
	FieldOrder     []string // insertion order, for deterministic diagnostics
	MethodOrder    []string
	PropertyOrder  []string
}

func newClassInfo(name string) *ClassInfo {
	return &ClassInfo{
		Name:       name,
		Fields:     make(map[string]*ast.FieldDecl),
		Methods:    make(map[string]*ast.MethodDecl),
		Properties: make(map[string]*ast.PropertyDecl),
	}
}

// InterfaceInfo is the registered shape of an interface declaration.
type InterfaceInfo struct {
	Name          string
	Methods       map[string]*ast.MethodSig
	Parent        string
	GenericParams []string
	MethodOrder   []string
}

func newInterfaceInfo(name string) *InterfaceInfo {
	return &InterfaceInfo{Name: name, Methods: make(map[string]*ast.MethodSig)}
}

// genericKey is the structural, position-independent key used to
// deduplicate entries in the generic-instances map.
type genericKey string

// AnalyzedProgram is the immutable (by convention; Go has no const structs)
// result of Analyze. Readers must not mutate it; the program AST it
// references has already been mutated in place by analysis (inferred var
// types filled, class-typed annotations upgraded to pointer depth 1,
// lambda captures populated).
type AnalyzedProgram struct {
	Program          *ast.Program
	ClassTable       map[string]*ClassInfo
	FunctionTable    map[string]*ast.FunctionDecl
	GenericInstances map[string][][]*ast.TypeExpr
	EnumTable        map[string][]string
	InterfaceTable   map[string]*InterfaceInfo
	RichEnumTable    map[string]*ast.RichEnumDecl
	NodeTypes        map[ast.Expr]*ast.TypeExpr
	Errors           []string
	Warnings         []string
}

// Analyzer holds all per-call mutable state. A fresh Analyzer is created by
// every Analyze call; none of its fields are shared across calls, so
// distinct programs may be analyzed concurrently on distinct instances.
type Analyzer struct {
	classTable       map[string]*ClassInfo
	functionTable    map[string]*ast.FunctionDecl
	genericInstances map[string][][]*ast.TypeExpr
	genericSeen      map[string]map[genericKey]bool
	enumTable        map[string][]string
	interfaceTable   map[string]*InterfaceInfo
	richEnumTable    map[string]*ast.RichEnumDecl
	nodeTypes        map[ast.Expr]*ast.TypeExpr
	errors           []string
	warnings         []string

	global      *Scope
	scope       *Scope
	curClass    *ClassInfo
	curMethod   *ast.MethodDecl
	loopDepth   int
	breakDepth  int
	selfType    *ast.TypeExpr
}

// Analyze runs the full multi-pass analysis over program and returns the
// resulting AnalyzedProgram. It never panics on a semantic error: every
// rule violation is appended to errors or warnings and analysis continues,
// so a caller (batch compiler or LSP) always gets a usable result.
func Analyze(program *ast.Program) *AnalyzedProgram {
	a := &Analyzer{
		classTable:       make(map[string]*ClassInfo),
		functionTable:    make(map[string]*ast.FunctionDecl),
		genericInstances: make(map[string][][]*ast.TypeExpr),
		genericSeen:      make(map[string]map[genericKey]bool),
		enumTable:        make(map[string][]string),
		interfaceTable:   make(map[string]*InterfaceInfo),
		richEnumTable:    make(map[string]*ast.RichEnumDecl),
		nodeTypes:        make(map[ast.Expr]*ast.TypeExpr),
	}
	a.global = newScope(nil)
	a.scope = a.global

	a.registerDeclarations(program)
	a.resolveInterfaceParents(program)
	a.validateInheritance(program)
	a.validateInterfaces(program)
	a.validateOverrides(program)
	a.computeCyclableFlags()

	for _, decl := range program.Decls {
		a.analyzeDecl(decl)
	}

	return &AnalyzedProgram{
		Program:          program,
		ClassTable:       a.classTable,
		FunctionTable:    a.functionTable,
		GenericInstances: a.genericInstances,
		EnumTable:        a.enumTable,
		InterfaceTable:   a.interfaceTable,
		RichEnumTable:    a.richEnumTable,
		NodeTypes:        a.nodeTypes,
		Errors:           a.errors,
		Warnings:         a.warnings,
	}
}

func (a *Analyzer) errorAt(pos ast.Position, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.errors = append(a.errors, fmt.Sprintf("%s at %d:%d", msg, pos.Line, pos.Col))
}

func (a *Analyzer) warnAt(pos ast.Position, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.warnings = append(a.warnings, fmt.Sprintf("%s at %d:%d", msg, pos.Line, pos.Col))
}

func (a *Analyzer) pushScope() {
	a.scope = newScope(a.scope)
}

func (a *Analyzer) popScope() {
	if a.scope.parent != nil {
		a.scope = a.scope.parent
	}
}

func (a *Analyzer) recordType(e ast.Expr, t *ast.TypeExpr) *ast.TypeExpr {
	if t != nil {
		a.nodeTypes[e] = t
	}
	return t
}
