// Package printer renders an AST back to btrc source. The output is
// normalized (one statement per line, four-space indents, conservative
// parentheses) rather than byte-faithful to the input: re-parsing the
// printed form yields a structurally identical tree, which is what the
// driver's --ast mode and the parser round-trip tests rely on.
package printer

import (
	"strconv"
	"strings"

	"github.com/schiffy91/btrc-sub001/internal/ast"
)

const indentUnit = "    "

// Program renders every top-level declaration in source order.
func Program(p *ast.Program) string {
	var b strings.Builder
	for i, d := range p.Decls {
		if i > 0 {
			b.WriteByte('\n')
		}
		writeDecl(&b, d, 0)
	}
	return b.String()
}

// Type renders a TypeExpr the way it appears in source.
func Type(te *ast.TypeExpr) string {
	if te == nil {
		return ""
	}
	var b strings.Builder
	writeType(&b, te)
	return b.String()
}

// Expr renders a single expression.
func Expr(e ast.Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

func writeType(b *strings.Builder, te *ast.TypeExpr) {
	if te.IsConst {
		b.WriteString("const ")
	}
	b.WriteString(te.Base)
	if len(te.GenericArgs) > 0 {
		b.WriteByte('<')
		for i, arg := range te.GenericArgs {
			if i > 0 {
				b.WriteString(", ")
			}
			writeType(b, arg)
		}
		b.WriteByte('>')
	}
	if te.IsArray && te.ArraySize == nil {
		b.WriteString("[]")
	}
	stars := te.PointerDepth
	if te.Nullable {
		stars--
	}
	for i := 0; i < stars; i++ {
		b.WriteByte('*')
	}
	if te.Nullable {
		b.WriteByte('?')
	}
}

func writeIndent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString(indentUnit)
	}
}

// ---- declarations ----

func writeDecl(b *strings.Builder, d ast.Decl, depth int) {
	switch n := d.(type) {
	case *ast.PreprocessorDirective:
		b.WriteString(n.Text)
		b.WriteByte('\n')
	case *ast.InterfaceDecl:
		writeInterface(b, n, depth)
	case *ast.ClassDecl:
		writeClass(b, n, depth)
	case *ast.StructDecl:
		writeStruct(b, n, depth)
	case *ast.EnumDecl:
		writeEnum(b, n, depth)
	case *ast.RichEnumDecl:
		writeRichEnum(b, n, depth)
	case *ast.TypedefDecl:
		writeIndent(b, depth)
		b.WriteString("typedef ")
		writeType(b, n.Type)
		b.WriteByte(' ')
		b.WriteString(n.Name)
		b.WriteString(";\n")
	case *ast.FunctionDecl:
		writeFunction(b, n, depth)
	case *ast.VarDeclStmt:
		writeStmt(b, n, depth)
	}
}

func writeGenericParams(b *strings.Builder, names []string) {
	if len(names) == 0 {
		return
	}
	b.WriteByte('<')
	b.WriteString(strings.Join(names, ", "))
	b.WriteByte('>')
}

func writeParams(b *strings.Builder, params []*ast.Param) {
	b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		if p.Keep {
			b.WriteString("keep ")
		}
		if p.Type != nil && p.Type.IsArray && p.Type.ArraySize != nil {
			inner := *p.Type
			inner.IsArray = false
			inner.ArraySize = nil
			writeType(b, &inner)
			b.WriteByte(' ')
			b.WriteString(p.Name)
			b.WriteByte('[')
			writeExpr(b, p.Type.ArraySize)
			b.WriteByte(']')
		} else {
			writeType(b, p.Type)
			b.WriteByte(' ')
			b.WriteString(p.Name)
		}
		if p.Default != nil {
			b.WriteString(" = ")
			writeExpr(b, p.Default)
		}
	}
	b.WriteByte(')')
}

func writeInterface(b *strings.Builder, n *ast.InterfaceDecl, depth int) {
	writeIndent(b, depth)
	b.WriteString("interface ")
	b.WriteString(n.Name)
	writeGenericParams(b, n.GenericArgs)
	if n.Extends != "" {
		b.WriteString(" extends ")
		b.WriteString(n.Extends)
	}
	b.WriteString(" {\n")
	for _, m := range n.Methods {
		writeIndent(b, depth+1)
		if m.Keep {
			b.WriteString("keep ")
		}
		writeType(b, m.ReturnType)
		b.WriteByte(' ')
		b.WriteString(m.Name)
		writeParams(b, m.Params)
		b.WriteString(";\n")
	}
	writeIndent(b, depth)
	b.WriteString("}\n")
}

func writeClass(b *strings.Builder, n *ast.ClassDecl, depth int) {
	writeIndent(b, depth)
	if n.IsAbstract {
		b.WriteString("abstract ")
	}
	b.WriteString("class ")
	b.WriteString(n.Name)
	writeGenericParams(b, n.GenericArgs)
	if n.Extends != "" {
		b.WriteString(" extends ")
		b.WriteString(n.Extends)
	}
	if len(n.Implements) > 0 {
		b.WriteString(" implements ")
		b.WriteString(strings.Join(n.Implements, ", "))
	}
	b.WriteString(" {\n")
	for _, f := range n.Fields {
		writeField(b, f, depth+1)
	}
	if n.Constructor != nil {
		writeMethod(b, n.Constructor, depth+1, true)
	}
	for _, m := range n.Methods {
		writeMethod(b, m, depth+1, false)
	}
	for _, p := range n.Properties {
		writeProperty(b, p, depth+1)
	}
	writeIndent(b, depth)
	b.WriteString("}\n")
}

func writeAccess(b *strings.Builder, access ast.Access) {
	if access == ast.Private {
		b.WriteString("private ")
	} else {
		b.WriteString("public ")
	}
}

func writeField(b *strings.Builder, f *ast.FieldDecl, depth int) {
	writeIndent(b, depth)
	writeAccess(b, f.Access)
	if f.IsStatic {
		b.WriteString("class ")
	}
	if f.Keep {
		b.WriteString("keep ")
	}
	writeType(b, f.Type)
	b.WriteByte(' ')
	b.WriteString(f.Name)
	if f.Initializer != nil {
		b.WriteString(" = ")
		writeExpr(b, f.Initializer)
	}
	b.WriteString(";\n")
}

func writeMethod(b *strings.Builder, m *ast.MethodDecl, depth int, isCtor bool) {
	writeIndent(b, depth)
	writeAccess(b, m.Access)
	if m.IsStatic {
		b.WriteString("class ")
	}
	if m.IsAbstract {
		b.WriteString("abstract ")
	}
	if m.IsOverride {
		b.WriteString("override ")
	}
	if m.IsGPU {
		b.WriteString("@gpu ")
	}
	if m.KeepReturn {
		b.WriteString("keep ")
	}
	if !isCtor {
		writeType(b, m.ReturnType)
		b.WriteByte(' ')
	}
	b.WriteString(m.Name)
	writeParams(b, m.Params)
	if m.Body == nil {
		b.WriteString(";\n")
		return
	}
	b.WriteByte(' ')
	writeBlock(b, m.Body, depth)
	b.WriteByte('\n')
}

func writeProperty(b *strings.Builder, p *ast.PropertyDecl, depth int) {
	writeIndent(b, depth)
	writeAccess(b, p.Access)
	writeType(b, p.Type)
	b.WriteByte(' ')
	b.WriteString(p.Name)
	b.WriteString(" {\n")
	if p.Getter != nil {
		writeIndent(b, depth+1)
		b.WriteString("get ")
		writeBlock(b, p.Getter, depth+1)
		b.WriteByte('\n')
	}
	if p.Setter != nil {
		writeIndent(b, depth+1)
		b.WriteString("set ")
		writeBlock(b, p.Setter, depth+1)
		b.WriteByte('\n')
	}
	writeIndent(b, depth)
	b.WriteString("}\n")
}

func writeStruct(b *strings.Builder, n *ast.StructDecl, depth int) {
	writeIndent(b, depth)
	b.WriteString("struct")
	if n.Name != "" {
		b.WriteByte(' ')
		b.WriteString(n.Name)
	}
	b.WriteString(" {\n")
	for _, f := range n.Fields {
		writeIndent(b, depth+1)
		writeType(b, f.Type)
		b.WriteByte(' ')
		b.WriteString(f.Name)
		if f.ArraySize > 0 {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(f.ArraySize))
			b.WriteByte(']')
		}
		b.WriteString(";\n")
	}
	writeIndent(b, depth)
	b.WriteByte('}')
	if n.Name == "" {
		b.WriteByte(';')
	}
	b.WriteByte('\n')
}

func writeEnum(b *strings.Builder, n *ast.EnumDecl, depth int) {
	writeIndent(b, depth)
	b.WriteString("enum ")
	b.WriteString(n.Name)
	b.WriteString(" { ")
	for i, v := range n.Values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.Name)
		if v.Value != nil {
			b.WriteString(" = ")
			b.WriteString(strconv.Itoa(*v.Value))
		}
	}
	b.WriteString(" };\n")
}

func writeRichEnum(b *strings.Builder, n *ast.RichEnumDecl, depth int) {
	writeIndent(b, depth)
	b.WriteString("enum class ")
	b.WriteString(n.Name)
	writeGenericParams(b, n.GenericArgs)
	b.WriteString(" {\n")
	for i, v := range n.Variants {
		writeIndent(b, depth+1)
		b.WriteString(v.Name)
		if len(v.Fields) > 0 {
			b.WriteByte('(')
			for j, f := range v.Fields {
				if j > 0 {
					b.WriteString(", ")
				}
				writeType(b, f.Type)
				b.WriteByte(' ')
				b.WriteString(f.Name)
			}
			b.WriteByte(')')
		}
		if i < len(n.Variants)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	writeIndent(b, depth)
	b.WriteString("};\n")
}

func writeFunction(b *strings.Builder, n *ast.FunctionDecl, depth int) {
	writeIndent(b, depth)
	if n.IsGPU {
		b.WriteString("@gpu ")
	}
	if n.KeepReturn {
		b.WriteString("keep ")
	}
	writeType(b, n.ReturnType)
	b.WriteByte(' ')
	b.WriteString(n.Name)
	writeParams(b, n.Params)
	if n.Body == nil {
		b.WriteString(";\n")
		return
	}
	b.WriteByte(' ')
	writeBlock(b, n.Body, depth)
	b.WriteByte('\n')
}

// ---- statements ----

func writeBlock(b *strings.Builder, blk *ast.Block, depth int) {
	b.WriteString("{\n")
	for _, s := range blk.Stmts {
		writeStmt(b, s, depth+1)
	}
	writeIndent(b, depth)
	b.WriteByte('}')
}

func writeStmt(b *strings.Builder, s ast.Stmt, depth int) {
	switch n := s.(type) {
	case *ast.Block:
		writeIndent(b, depth)
		writeBlock(b, n, depth)
		b.WriteByte('\n')
	case *ast.ExprStmt:
		writeIndent(b, depth)
		writeExpr(b, n.Expr)
		b.WriteString(";\n")
	case *ast.VarDeclStmt:
		writeIndent(b, depth)
		if n.Type == nil {
			b.WriteString("var ")
			if n.Keep {
				b.WriteString("keep ")
			}
		} else {
			writeType(b, n.Type)
			b.WriteByte(' ')
		}
		b.WriteString(n.Name)
		if n.Initializer != nil {
			b.WriteString(" = ")
			writeExpr(b, n.Initializer)
		}
		b.WriteString(";\n")
	case *ast.ReturnStmt:
		writeIndent(b, depth)
		b.WriteString("return")
		if n.Value != nil {
			b.WriteByte(' ')
			writeExpr(b, n.Value)
		}
		b.WriteString(";\n")
	case *ast.IfStmt:
		writeIndent(b, depth)
		writeIf(b, n, depth)
		b.WriteByte('\n')
	case *ast.WhileStmt:
		writeIndent(b, depth)
		b.WriteString("while (")
		writeExpr(b, n.Cond)
		b.WriteString(") ")
		writeBlock(b, n.Body, depth)
		b.WriteByte('\n')
	case *ast.DoWhileStmt:
		writeIndent(b, depth)
		b.WriteString("do ")
		writeBlock(b, n.Body, depth)
		b.WriteString(" while (")
		writeExpr(b, n.Cond)
		b.WriteString(");\n")
	case *ast.ForInStmt:
		writeIndent(b, depth)
		b.WriteString("for ")
		b.WriteString(n.VarName)
		if n.ValName != "" {
			b.WriteString(", ")
			b.WriteString(n.ValName)
		}
		b.WriteString(" in ")
		writeExpr(b, n.Iterable)
		b.WriteByte(' ')
		writeBlock(b, n.Body, depth)
		b.WriteByte('\n')
	case *ast.ParallelForStmt:
		writeIndent(b, depth)
		b.WriteString("parallel for ")
		b.WriteString(n.VarName)
		b.WriteString(" in ")
		writeExpr(b, n.Iterable)
		b.WriteByte(' ')
		writeBlock(b, n.Body, depth)
		b.WriteByte('\n')
	case *ast.CForStmt:
		writeIndent(b, depth)
		b.WriteString("for (")
		if n.Init != nil {
			writeStmtInline(b, n.Init)
		}
		b.WriteString("; ")
		if n.Cond != nil {
			writeExpr(b, n.Cond)
		}
		b.WriteString("; ")
		if n.Update != nil {
			writeStmtInline(b, n.Update)
		}
		b.WriteString(") ")
		writeBlock(b, n.Body, depth)
		b.WriteByte('\n')
	case *ast.SwitchStmt:
		writeIndent(b, depth)
		b.WriteString("switch (")
		writeExpr(b, n.Subject)
		b.WriteString(") {\n")
		for _, c := range n.Cases {
			writeIndent(b, depth+1)
			if c.IsDefault {
				b.WriteString("default:")
			} else {
				for i, v := range c.Values {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString("case ")
					writeExpr(b, v)
				}
				b.WriteByte(':')
			}
			b.WriteByte('\n')
			for _, st := range c.Stmts {
				writeStmt(b, st, depth+2)
			}
		}
		writeIndent(b, depth)
		b.WriteString("}\n")
	case *ast.BreakStmt:
		writeIndent(b, depth)
		b.WriteString("break;\n")
	case *ast.ContinueStmt:
		writeIndent(b, depth)
		b.WriteString("continue;\n")
	case *ast.DeleteStmt:
		writeIndent(b, depth)
		b.WriteString("delete ")
		writeExpr(b, n.Target)
		b.WriteString(";\n")
	case *ast.KeepStmt:
		writeIndent(b, depth)
		b.WriteString("keep ")
		writeExpr(b, n.Target)
		b.WriteString(";\n")
	case *ast.ReleaseStmt:
		writeIndent(b, depth)
		b.WriteString("release ")
		writeExpr(b, n.Target)
		b.WriteString(";\n")
	case *ast.ThrowStmt:
		writeIndent(b, depth)
		b.WriteString("throw ")
		writeExpr(b, n.Value)
		b.WriteString(";\n")
	case *ast.TryCatchStmt:
		writeIndent(b, depth)
		b.WriteString("try ")
		writeBlock(b, n.Try, depth)
		if n.Catch != nil {
			b.WriteString(" catch (")
			b.WriteString(n.CatchVar)
			b.WriteString(") ")
			writeBlock(b, n.Catch, depth)
		}
		if n.Finally != nil {
			b.WriteString(" finally ")
			writeBlock(b, n.Finally, depth)
		}
		b.WriteByte('\n')
	}
}

// writeIf renders an if/else-if chain on one logical line per header.
func writeIf(b *strings.Builder, n *ast.IfStmt, depth int) {
	b.WriteString("if (")
	writeExpr(b, n.Cond)
	b.WriteString(") ")
	writeBlock(b, n.Then, depth)
	switch e := n.Else.(type) {
	case nil:
	case *ast.IfStmt:
		b.WriteString(" else ")
		writeIf(b, e, depth)
	case *ast.Block:
		b.WriteString(" else ")
		writeBlock(b, e, depth)
	}
}

// writeStmtInline renders a C-for clause without indentation or the
// trailing ";\n".
func writeStmtInline(b *strings.Builder, s ast.Stmt) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		writeExpr(b, n.Expr)
	case *ast.VarDeclStmt:
		if n.Type == nil {
			b.WriteString("var ")
		} else {
			writeType(b, n.Type)
			b.WriteByte(' ')
		}
		b.WriteString(n.Name)
		if n.Initializer != nil {
			b.WriteString(" = ")
			writeExpr(b, n.Initializer)
		}
	}
}

// ---- expressions ----

var binaryOpText = map[ast.BinaryOp]string{
	ast.Add: "+", ast.Sub: "-", ast.Mul: "*", ast.Div: "/", ast.Mod: "%",
	ast.Eq: "==", ast.Ne: "!=", ast.Lt: "<", ast.Le: "<=", ast.Gt: ">", ast.Ge: ">=",
	ast.And: "&&", ast.Or: "||", ast.BitAnd: "&", ast.BitOr: "|", ast.BitXor: "^",
	ast.Shl: "<<", ast.Shr: ">>",
}

func writeExpr(b *strings.Builder, e ast.Expr) {
	switch n := e.(type) {
	case *ast.IntLiteral:
		b.WriteString(n.Text)
	case *ast.FloatLiteral:
		b.WriteString(n.Text)
	case *ast.StringLiteral:
		b.WriteString(n.Value)
	case *ast.CharLiteral:
		b.WriteString(n.Value)
	case *ast.BoolLiteral:
		if n.Value {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case *ast.NullLiteral:
		b.WriteString("null")
	case *ast.Identifier:
		b.WriteString(n.Name)
	case *ast.SelfExpr:
		b.WriteString("self")
	case *ast.SuperExpr:
		b.WriteString("super")
	case *ast.FStringLiteral:
		writeFString(b, n)
	case *ast.BinaryExpr:
		writeOperand(b, n.Left)
		b.WriteByte(' ')
		b.WriteString(binaryOpText[n.Op])
		b.WriteByte(' ')
		writeOperand(b, n.Right)
	case *ast.UnaryExpr:
		switch n.Op {
		case ast.Neg:
			b.WriteByte('-')
			writeOperand(b, n.Operand)
		case ast.Not:
			b.WriteByte('!')
			writeOperand(b, n.Operand)
		case ast.BitNot:
			b.WriteByte('~')
			writeOperand(b, n.Operand)
		case ast.Deref:
			b.WriteByte('*')
			writeOperand(b, n.Operand)
		case ast.AddrOf:
			b.WriteByte('&')
			writeOperand(b, n.Operand)
		case ast.PreInc:
			b.WriteString("++")
			writeOperand(b, n.Operand)
		case ast.PreDec:
			b.WriteString("--")
			writeOperand(b, n.Operand)
		case ast.PostInc:
			writeOperand(b, n.Operand)
			b.WriteString("++")
		case ast.PostDec:
			writeOperand(b, n.Operand)
			b.WriteString("--")
		}
	case *ast.CallExpr:
		writeOperand(b, n.Callee)
		b.WriteByte('(')
		for i, a := range n.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, a)
		}
		b.WriteByte(')')
	case *ast.IndexExpr:
		writeOperand(b, n.Container)
		b.WriteByte('[')
		writeExpr(b, n.Index)
		b.WriteByte(']')
	case *ast.FieldAccessExpr:
		writeOperand(b, n.Target)
		if n.Optional {
			b.WriteString("?.")
		} else {
			b.WriteByte('.')
		}
		b.WriteString(n.Field)
	case *ast.AssignExpr:
		writeOperand(b, n.Target)
		if n.Op == ast.Eq {
			b.WriteString(" = ")
		} else {
			b.WriteByte(' ')
			b.WriteString(binaryOpText[n.Op])
			b.WriteString("= ")
		}
		writeExpr(b, n.Value)
	case *ast.TernaryExpr:
		writeOperand(b, n.Cond)
		b.WriteString(" ? ")
		writeOperand(b, n.Then)
		b.WriteString(" : ")
		writeOperand(b, n.Else)
	case *ast.CoalesceExpr:
		writeOperand(b, n.Left)
		b.WriteString(" ?? ")
		writeOperand(b, n.Right)
	case *ast.CastExpr:
		b.WriteByte('(')
		writeType(b, n.Type)
		b.WriteByte(')')
		writeOperand(b, n.Target)
	case *ast.SizeofExpr:
		b.WriteString("sizeof(")
		if n.Type != nil {
			writeType(b, n.Type)
		} else {
			writeExpr(b, n.Expr)
		}
		b.WriteByte(')')
	case *ast.ListLiteral:
		b.WriteByte('[')
		for i, el := range n.Elements {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, el)
		}
		b.WriteByte(']')
	case *ast.MapLiteral:
		b.WriteByte('{')
		for i, entry := range n.Entries {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, entry.Key)
			b.WriteString(": ")
			writeExpr(b, entry.Value)
		}
		b.WriteByte('}')
	case *ast.TupleLiteral:
		b.WriteByte('(')
		for i, el := range n.Elements {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, el)
		}
		b.WriteByte(')')
	case *ast.BraceInitializer:
		writeType(b, n.Type)
		b.WriteByte('{')
		for i, el := range n.Elements {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, el)
		}
		b.WriteByte('}')
	case *ast.LambdaExpr:
		if n.ReturnType != nil {
			writeType(b, n.ReturnType)
			b.WriteString(" function")
			writeParams(b, n.Params)
			b.WriteByte(' ')
			writeBlock(b, n.Body, 0)
			return
		}
		writeParams(b, n.Params)
		b.WriteString(" => ")
		if n.Expr != nil {
			writeOperand(b, n.Expr)
		} else {
			writeBlock(b, n.Body, 0)
		}
	case *ast.NewExpr:
		b.WriteString("new ")
		b.WriteString(n.ClassName)
		if len(n.GenericArgs) > 0 {
			b.WriteByte('<')
			for i, g := range n.GenericArgs {
				if i > 0 {
					b.WriteString(", ")
				}
				writeType(b, g)
			}
			b.WriteByte('>')
		}
		b.WriteByte('(')
		for i, a := range n.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, a)
		}
		b.WriteByte(')')
	case *ast.SpawnExpr:
		b.WriteString("spawn ")
		writeOperand(b, n.Body)
	}
}

// writeOperand parenthesizes compound sub-expressions so the printed form
// re-parses with the same shape regardless of relative precedence.
func writeOperand(b *strings.Builder, e ast.Expr) {
	switch e.(type) {
	case *ast.BinaryExpr, *ast.UnaryExpr, *ast.TernaryExpr, *ast.CoalesceExpr,
		*ast.AssignExpr, *ast.CastExpr, *ast.LambdaExpr, *ast.SpawnExpr:
		b.WriteByte('(')
		writeExpr(b, e)
		b.WriteByte(')')
	default:
		writeExpr(b, e)
	}
}

func writeFString(b *strings.Builder, n *ast.FStringLiteral) {
	b.WriteString(`f"`)
	for _, part := range n.Parts {
		if part.Expr != nil {
			b.WriteByte('{')
			writeExpr(b, part.Expr)
			b.WriteByte('}')
			continue
		}
		text := strings.ReplaceAll(part.Text, "{", "{{")
		text = strings.ReplaceAll(text, "}", "}}")
		b.WriteString(text)
	}
	b.WriteByte('"')
}
