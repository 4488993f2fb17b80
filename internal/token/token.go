// Package token defines the closed set of lexical categories for btrc
// source, plus the Token value itself. The keyword/operator portions of
// the Kind enumeration are cross-checked against a loaded grammar at
// startup by grammar.Validate; this package owns only the enumeration.
package token

import "strconv"

// Kind identifies the lexical category of a Token.
type Kind int

const (
	// Literals
	IntLit Kind = iota
	FloatLit
	StringLit
	CharLit
	FStringLit
	Ident

	// C keywords
	Auto
	Break
	Case
	Char
	Const
	Continue
	Default
	Do
	Double
	Else
	Enum
	Extern
	Float
	For
	Goto
	If
	Int
	Long
	Register
	Return
	Short
	Signed
	Sizeof
	Static
	Struct
	Switch
	Typedef
	Union
	Unsigned
	Void
	Volatile
	While

	// btrc keywords
	Abstract
	Bool
	Catch
	Class
	Delete
	Extends
	False
	Finally
	Function
	Implements
	In
	Interface
	Keep
	New
	Null
	Override
	Parallel
	Private
	Public
	Release
	Self
	Spawn
	String
	Super
	Throw
	True
	Try
	Var

	// Annotation
	AtGpu

	// Operators
	Plus
	Minus
	Star
	Slash
	Percent
	Eq
	EqEq
	BangEq
	Lt
	Gt
	LtEq
	GtEq
	AmpAmp
	PipePipe
	Bang
	Amp
	Pipe
	Caret
	Tilde
	LtLt
	GtGt
	PlusEq
	MinusEq
	StarEq
	SlashEq
	PercentEq
	AmpEq
	PipeEq
	CaretEq
	LtLtEq
	GtGtEq
	PlusPlus
	MinusMinus
	Arrow
	FatArrow
	Dot
	Question
	QuestionDot
	QuestionQuestion
	Colon
	Comma
	Semicolon

	// Delimiters
	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace

	// Special
	Preprocessor
	EOF
)

var names = map[Kind]string{
	IntLit: "INT_LIT", FloatLit: "FLOAT_LIT", StringLit: "STRING_LIT",
	CharLit: "CHAR_LIT", FStringLit: "FSTRING_LIT", Ident: "IDENT",

	Auto: "AUTO", Break: "BREAK", Case: "CASE", Char: "CHAR", Const: "CONST",
	Continue: "CONTINUE", Default: "DEFAULT", Do: "DO", Double: "DOUBLE",
	Else: "ELSE", Enum: "ENUM", Extern: "EXTERN", Float: "FLOAT", For: "FOR",
	Goto: "GOTO", If: "IF", Int: "INT", Long: "LONG", Register: "REGISTER",
	Return: "RETURN", Short: "SHORT", Signed: "SIGNED", Sizeof: "SIZEOF",
	Static: "STATIC", Struct: "STRUCT", Switch: "SWITCH", Typedef: "TYPEDEF",
	Union: "UNION", Unsigned: "UNSIGNED", Void: "VOID", Volatile: "VOLATILE",
	While: "WHILE",

	Abstract: "ABSTRACT", Bool: "BOOL", Catch: "CATCH", Class: "CLASS",
	Delete: "DELETE", Extends: "EXTENDS", False: "FALSE", Finally: "FINALLY",
	Function: "FUNCTION", Implements: "IMPLEMENTS", In: "IN",
	Interface: "INTERFACE", Keep: "KEEP", New: "NEW", Null: "NULL",
	Override: "OVERRIDE", Parallel: "PARALLEL", Private: "PRIVATE",
	Public: "PUBLIC", Release: "RELEASE", Self: "SELF", Spawn: "SPAWN",
	String: "STRING", Super: "SUPER", Throw: "THROW", True: "TRUE",
	Try: "TRY", Var: "VAR",

	AtGpu: "AT_GPU",

	Plus: "PLUS", Minus: "MINUS", Star: "STAR", Slash: "SLASH",
	Percent: "PERCENT", Eq: "EQ", EqEq: "EQ_EQ", BangEq: "BANG_EQ",
	Lt: "LT", Gt: "GT", LtEq: "LT_EQ", GtEq: "GT_EQ", AmpAmp: "AMP_AMP",
	PipePipe: "PIPE_PIPE", Bang: "BANG", Amp: "AMP", Pipe: "PIPE",
	Caret: "CARET", Tilde: "TILDE", LtLt: "LT_LT", GtGt: "GT_GT",
	PlusEq: "PLUS_EQ", MinusEq: "MINUS_EQ", StarEq: "STAR_EQ",
	SlashEq: "SLASH_EQ", PercentEq: "PERCENT_EQ", AmpEq: "AMP_EQ",
	PipeEq: "PIPE_EQ", CaretEq: "CARET_EQ", LtLtEq: "LT_LT_EQ",
	GtGtEq: "GT_GT_EQ", PlusPlus: "PLUS_PLUS", MinusMinus: "MINUS_MINUS",
	Arrow: "ARROW", FatArrow: "FAT_ARROW", Dot: "DOT", Question: "QUESTION",
	QuestionDot: "QUESTION_DOT", QuestionQuestion: "QUESTION_QUESTION",
	Colon: "COLON", Comma: "COMMA", Semicolon: "SEMICOLON",

	LParen: "LPAREN", RParen: "RPAREN", LBracket: "LBRACKET",
	RBracket: "RBRACKET", LBrace: "LBRACE", RBrace: "RBRACE",

	Preprocessor: "PREPROCESSOR", EOF: "EOF",
}

// byName is the inverse of names; it is how grammar-derived kind names
// (e.g. "PLUS_EQ") get resolved back to a Kind at startup.
var byName map[string]Kind

func init() {
	byName = make(map[string]Kind, len(names))
	for k, n := range names {
		byName[n] = k
	}
}

// String returns the enumerator name, e.g. "PLUS_EQ".
func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return "UNKNOWN"
}

// Lookup resolves a grammar-derived enumerator name (as produced by
// grammar's character-name table) back to a Kind. The bool is false if no
// such Kind exists; callers (grammar.Validate) treat that as fatal.
func Lookup(name string) (Kind, bool) {
	k, ok := byName[name]
	return k, ok
}

// TypeKeywords is the set of kinds that can begin a type expression.
var TypeKeywords = map[Kind]bool{
	Void: true, Int: true, Float: true, Double: true, Char: true,
	Short: true, Long: true, Unsigned: true, Signed: true, String: true,
	Bool: true, Struct: true, Enum: true, Union: true, Const: true,
	Static: true, Extern: true, Volatile: true,
}

// Keywords maps every reserved word's surface spelling to its Kind. This is
// the Go-native table the lexer classifies identifiers with.
// grammar.Validate checks that each keyword of the grammar file's
// @keywords block names an existing Kind; the entries of this table are
// not compared with that block.
var Keywords = map[string]Kind{
	"auto": Auto, "break": Break, "case": Case, "char": Char, "const": Const,
	"continue": Continue, "default": Default, "do": Do, "double": Double,
	"else": Else, "enum": Enum, "extern": Extern, "float": Float, "for": For,
	"goto": Goto, "if": If, "int": Int, "long": Long, "register": Register,
	"return": Return, "short": Short, "signed": Signed, "sizeof": Sizeof,
	"static": Static, "struct": Struct, "switch": Switch, "typedef": Typedef,
	"union": Union, "unsigned": Unsigned, "void": Void, "volatile": Volatile,
	"while": While,

	"abstract": Abstract, "bool": Bool, "catch": Catch, "class": Class,
	"delete": Delete, "extends": Extends, "false": False, "finally": Finally,
	"function": Function, "implements": Implements, "in": In,
	"interface": Interface, "keep": Keep, "new": New, "null": Null,
	"override": Override, "parallel": Parallel, "private": Private,
	"public": Public, "release": Release, "self": Self, "spawn": Spawn,
	"string": String, "super": Super, "throw": Throw, "true": True,
	"try": Try, "var": Var,
}

// Token is a single lexical unit with 1-based source position.
type Token struct {
	Kind Kind
	Text string
	Line int
	Col  int
}

func (t Token) String() string {
	return t.Kind.String() + "(" + t.Text + ")@" + strconv.Itoa(t.Line) + ":" + strconv.Itoa(t.Col)
}
