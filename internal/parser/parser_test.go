package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schiffy91/btrc-sub001/internal/ast"
	"github.com/schiffy91/btrc-sub001/internal/grammar"
	"github.com/schiffy91/btrc-sub001/internal/lexer"
	"github.com/schiffy91/btrc-sub001/internal/printer"
)

func parseSource(t *testing.T, src string) *ast.Program {
	t.Helper()
	gi, err := grammar.Default()
	require.NoError(t, err)
	toks, err := lexer.Lex(src, gi)
	require.NoError(t, err)
	prog, err := Parse(toks, src, gi)
	require.NoError(t, err)
	return prog
}

func firstStmt(t *testing.T, body string) ast.Stmt {
	t.Helper()
	prog := parseSource(t, "void t() { "+body+" }")
	fn, ok := prog.Decls[0].(*ast.FunctionDecl)
	require.True(t, ok)
	require.NotEmpty(t, fn.Body.Stmts)
	return fn.Body.Stmts[0]
}

func Test_Parse_varDeclInference(t *testing.T) {
	assert := assert.New(t)

	stmt := firstStmt(t, "var x = 42;")
	vd, ok := stmt.(*ast.VarDeclStmt)
	require.True(t, ok)
	assert.Nil(vd.Type, "var form leaves the type for the analyzer")
	assert.Equal("x", vd.Name)
	lit, ok := vd.Initializer.(*ast.IntLiteral)
	require.True(t, ok)
	assert.Equal("42", lit.Text)
}

func Test_Parse_varWithoutInitializer(t *testing.T) {
	assert := assert.New(t)

	gi, err := grammar.Default()
	require.NoError(t, err)
	src := "void t() { var x; }"
	toks, err := lexer.Lex(src, gi)
	require.NoError(t, err)
	_, err = Parse(toks, src, gi)
	assert.Error(err, "'var' requires an initializer")
}

func Test_Parse_nestedGenerics(t *testing.T) {
	assert := assert.New(t)

	stmt := firstStmt(t, "Map<string, Vector<int>> m;")
	vd, ok := stmt.(*ast.VarDeclStmt)
	require.True(t, ok)
	require.NotNil(t, vd.Type)
	assert.Equal("Map", vd.Type.Base)
	require.Len(t, vd.Type.GenericArgs, 2)
	assert.Equal("string", vd.Type.GenericArgs[0].Base)

	inner := vd.Type.GenericArgs[1]
	assert.Equal("Vector", inner.Base)
	require.Len(t, inner.GenericArgs, 1)
	assert.Equal("int", inner.GenericArgs[0].Base)
}

func Test_Parse_typeSuffixes(t *testing.T) {
	testCases := []struct {
		name         string
		decl         string
		base         string
		pointerDepth int
		nullable     bool
		isArray      bool
	}{
		{name: "plain", decl: "int x;", base: "int"},
		{name: "pointer", decl: "char* p;", base: "char", pointerDepth: 1},
		{name: "nullable adds a pointer level", decl: "Node? n;", base: "Node", pointerDepth: 1, nullable: true},
		{name: "array", decl: "int[] xs;", base: "int", isArray: true},
		{name: "long long", decl: "long long big;", base: "long long"},
		{name: "unsigned int", decl: "unsigned int u;", base: "unsigned int"},
		{name: "struct reference", decl: "struct Pair pr;", base: "struct Pair"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			vd, ok := firstStmt(t, tc.decl).(*ast.VarDeclStmt)
			require.True(t, ok)
			require.NotNil(t, vd.Type)
			assert.Equal(tc.base, vd.Type.Base)
			assert.Equal(tc.pointerDepth, vd.Type.PointerDepth)
			assert.Equal(tc.nullable, vd.Type.Nullable)
			assert.Equal(tc.isArray, vd.Type.IsArray)
		})
	}
}

func Test_Parse_tupleType(t *testing.T) {
	assert := assert.New(t)

	vd, ok := firstStmt(t, "(int, string) pair;").(*ast.VarDeclStmt)
	require.True(t, ok)
	require.NotNil(t, vd.Type)
	assert.Equal("Tuple", vd.Type.Base)
	require.Len(t, vd.Type.GenericArgs, 2)
	assert.Equal("int", vd.Type.GenericArgs[0].Base)
	assert.Equal("string", vd.Type.GenericArgs[1].Base)
}

func Test_Parse_arrowLambda(t *testing.T) {
	assert := assert.New(t)

	vd, ok := firstStmt(t, "var f = (int a, int b) => a + b;").(*ast.VarDeclStmt)
	require.True(t, ok)
	lam, ok := vd.Initializer.(*ast.LambdaExpr)
	require.True(t, ok)
	require.Len(t, lam.Params, 2)
	assert.Equal("a", lam.Params[0].Name)
	assert.Equal("b", lam.Params[1].Name)
	assert.Nil(lam.ReturnType)
	add, ok := lam.Expr.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(ast.Add, add.Op)
}

func Test_Parse_verboseLambda(t *testing.T) {
	assert := assert.New(t)

	vd, ok := firstStmt(t, "var f = int function() { return 1; };").(*ast.VarDeclStmt)
	require.True(t, ok)
	lam, ok := vd.Initializer.(*ast.LambdaExpr)
	require.True(t, ok)
	require.NotNil(t, lam.ReturnType)
	assert.Equal("int", lam.ReturnType.Base)
	assert.Empty(lam.Params)
	require.NotNil(t, lam.Body)
	_, ok = lam.Body.Stmts[0].(*ast.ReturnStmt)
	assert.True(ok)
}

func Test_Parse_forStatements(t *testing.T) {
	t.Run("single-variable for-in", func(t *testing.T) {
		assert := assert.New(t)
		fi, ok := firstStmt(t, "for x in xs { }").(*ast.ForInStmt)
		require.True(t, ok)
		assert.Equal("x", fi.VarName)
		assert.Empty(fi.ValName)
	})
	t.Run("two-variable for-in", func(t *testing.T) {
		assert := assert.New(t)
		fi, ok := firstStmt(t, "for k, v in m { }").(*ast.ForInStmt)
		require.True(t, ok)
		assert.Equal("k", fi.VarName)
		assert.Equal("v", fi.ValName)
	})
	t.Run("C-style for", func(t *testing.T) {
		assert := assert.New(t)
		cf, ok := firstStmt(t, "for (int i = 0; i < 10; i++) { }").(*ast.CForStmt)
		require.True(t, ok)
		assert.NotNil(cf.Init)
		assert.NotNil(cf.Cond)
		assert.NotNil(cf.Update)
	})
	t.Run("parallel for", func(t *testing.T) {
		assert := assert.New(t)
		pf, ok := firstStmt(t, "parallel for i in range(10) { }").(*ast.ParallelForStmt)
		require.True(t, ok)
		assert.Equal("i", pf.VarName)
	})
}

func Test_Parse_gpuAnnotation(t *testing.T) {
	t.Run("on a function", func(t *testing.T) {
		prog := parseSource(t, "@gpu void k(float[] data) { }")
		fn, ok := prog.Decls[0].(*ast.FunctionDecl)
		require.True(t, ok)
		assert.True(t, fn.IsGPU)
	})
	t.Run("on a class is rejected", func(t *testing.T) {
		gi, err := grammar.Default()
		require.NoError(t, err)
		src := "@gpu class C { }"
		toks, err := lexer.Lex(src, gi)
		require.NoError(t, err)
		_, err = Parse(toks, src, gi)
		assert.Error(t, err)
	})
}

func Test_Parse_forwardDeclaration(t *testing.T) {
	assert := assert.New(t)

	prog := parseSource(t, "int f(int a);\nint f(int a) { return a; }")
	require.Len(t, prog.Decls, 2)
	fwd := prog.Decls[0].(*ast.FunctionDecl)
	def := prog.Decls[1].(*ast.FunctionDecl)
	assert.Nil(fwd.Body)
	assert.NotNil(def.Body)
}

func Test_Parse_fStringBody(t *testing.T) {
	assert := assert.New(t)

	vd, ok := firstStmt(t, `var s = f"x={y + 1} end";`).(*ast.VarDeclStmt)
	require.True(t, ok)
	fs, ok := vd.Initializer.(*ast.FStringLiteral)
	require.True(t, ok)
	require.Len(t, fs.Parts, 3)
	assert.Equal("x=", fs.Parts[0].Text)
	require.NotNil(t, fs.Parts[1].Expr)
	_, ok = fs.Parts[1].Expr.(*ast.BinaryExpr)
	assert.True(ok)
	assert.Equal(" end", fs.Parts[2].Text)
}

func Test_Parse_nestedGenericShiftSplit(t *testing.T) {
	assert := assert.New(t)

	vd, ok := firstStmt(t, "List<List<int>> grid;").(*ast.VarDeclStmt)
	require.True(t, ok)
	assert.Equal("List", vd.Type.Base)
	require.Len(t, vd.Type.GenericArgs, 1)
	assert.Equal("List", vd.Type.GenericArgs[0].Base)
}

func Test_Parse_richEnum(t *testing.T) {
	assert := assert.New(t)

	prog := parseSource(t, "enum class Option<T> { Some(T value), None };")
	re, ok := prog.Decls[0].(*ast.RichEnumDecl)
	require.True(t, ok)
	assert.Equal("Option", re.Name)
	assert.Equal([]string{"T"}, re.GenericArgs)
	require.Len(t, re.Variants, 2)
	assert.Equal("Some", re.Variants[0].Name)
	require.Len(t, re.Variants[0].Fields, 1)
	assert.Equal("value", re.Variants[0].Fields[0].Name)
	assert.Empty(re.Variants[1].Fields)
}

func Test_Parse_classMembers(t *testing.T) {
	assert := assert.New(t)

	src := `
class Counter {
    private int count = 0;
    public class int instances;
    Counter(int start) { self.count = start; }
    public int value() { return self.count; }
    public abstract int step(int by);
    public int doubled {
        get { return self.count * 2; }
    }
}
`
	prog := parseSource(t, src)
	cd, ok := prog.Decls[0].(*ast.ClassDecl)
	require.True(t, ok)
	require.Len(t, cd.Fields, 2)
	assert.Equal(ast.Private, cd.Fields[0].Access)
	assert.True(cd.Fields[1].IsStatic)
	require.NotNil(t, cd.Constructor)
	require.Len(t, cd.Methods, 2)
	assert.True(cd.Methods[1].IsAbstract)
	require.Len(t, cd.Properties, 1)
	assert.NotNil(cd.Properties[0].Getter)
	assert.Nil(cd.Properties[0].Setter)
}

// Test_Parse_printRoundTrip re-parses the pretty-printed form of each
// source and requires the printed renderings to agree, which pins the
// tree shape independent of positions.
func Test_Parse_printRoundTrip(t *testing.T) {
	sources := []string{
		`class Point { public int x; public int y; Point(int x, int y) { self.x = x; self.y = y; } public int norm() { return self.x * self.x + self.y * self.y; } }`,
		`abstract class Shape implements Drawable { public abstract float area(); }`,
		`interface Drawable { void draw(); }`,
		`enum Color { R, G = 4, B };`,
		`enum class Result<T> { Ok(T value), Err(string message) };`,
		`void t() { for k, v in m { print(k); } }`,
		`void t() { var f = (int a, int b) => a + b; var g = int function() { return 1; }; }`,
		`void t() { if (a < b) { return; } else if (a > b) { throw "oops"; } else { x += 1; } }`,
		`void t() { switch (c) { case R: break; default: break; } }`,
		`int fib(int n) { if (n < 2) { return n; } return fib(n - 1) + fib(n - 2); }`,
		`void t() { try { risky(); } catch (e) { print(e); } finally { done(); } }`,
		`Map<string, Vector<int>> index;`,
		`void t() { var s = f"n={n} {{raw}}"; }`,
		`@gpu void scale(float[] data, float factor) { data[gpu_id()] = data[gpu_id()] * factor; }`,
		`void t() { var th = spawn worker; var x = m?.size; delete p; keep q; release q; }`,
		`typedef Vector<int> IntVec;`,
		`struct Pair { int a; int b[4]; }`,
		`void t() { parallel for i in range(100) { work(i); } }`,
	}
	for _, src := range sources {
		t.Run(src[:min(len(src), 40)], func(t *testing.T) {
			assert := assert.New(t)

			first := parseSource(t, src)
			printed := printer.Program(first)
			second := parseSource(t, printed)
			assert.Equal(printed, printer.Program(second))
		})
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
