package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schiffy91/btrc-sub001/internal/ast"
	"github.com/schiffy91/btrc-sub001/internal/grammar"
	"github.com/schiffy91/btrc-sub001/internal/lexer"
	"github.com/schiffy91/btrc-sub001/internal/parser"
)

func analyzeSource(t *testing.T, src string) *AnalyzedProgram {
	t.Helper()
	gi, err := grammar.Default()
	require.NoError(t, err)
	toks, err := lexer.Lex(src, gi)
	require.NoError(t, err)
	prog, err := parser.Parse(toks, src, gi)
	require.NoError(t, err)
	return Analyze(prog)
}

func errorContaining(result *AnalyzedProgram, fragment string) bool {
	for _, e := range result.Errors {
		if strings.Contains(e, fragment) {
			return true
		}
	}
	return false
}

func Test_Analyze_varTypeInference(t *testing.T) {
	testCases := []struct {
		name       string
		body       string
		expectBase string
	}{
		{name: "int literal", body: "var x = 42;", expectBase: "int"},
		{name: "float literal", body: "var x = 2.5;", expectBase: "float"},
		{name: "string literal", body: `var x = "hi";`, expectBase: "string"},
		{name: "bool literal", body: "var x = true;", expectBase: "bool"},
		{name: "list literal", body: "var x = [1, 2];", expectBase: "Vector"},
		{name: "empty list literal", body: "var x = [];", expectBase: "Vector"},
		{name: "map literal", body: `var x = {"a": 1};`, expectBase: "Map"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			result := analyzeSource(t, "void t() { "+tc.body+" }")
			assert.Empty(result.Errors)

			fn := result.Program.Decls[0].(*ast.FunctionDecl)
			vd := fn.Body.Stmts[0].(*ast.VarDeclStmt)
			require.NotNil(t, vd.Type, "analyzer must fill the inferred type")
			assert.Equal(tc.expectBase, vd.Type.Base)
		})
	}
}

func Test_Analyze_privateFieldAccess(t *testing.T) {
	assert := assert.New(t)

	result := analyzeSource(t, `
class A { private int x; }
void t() { A a = A(); a.x = 5; }
`)
	require.Len(t, result.Errors, 1)
	assert.Contains(result.Errors[0], "private field")
	assert.Contains(result.Errors[0], "at 3:")
}

func Test_Analyze_circularInheritance(t *testing.T) {
	assert := assert.New(t)

	result := analyzeSource(t, "class B extends A { } class A extends B { }")
	assert.True(errorContaining(result, "Circular inheritance"))
}

func Test_Analyze_missingParentClass(t *testing.T) {
	assert := assert.New(t)

	result := analyzeSource(t, "class B extends Ghost { }")
	assert.True(errorContaining(result, `Parent class "Ghost" not found`))
}

func Test_Analyze_switchExhaustiveness(t *testing.T) {
	t.Run("missing value is reported", func(t *testing.T) {
		assert := assert.New(t)
		result := analyzeSource(t, `
enum C { R, G, B };
int main() {
    C c = R;
    switch (c) { case R: break; case G: break; }
    return 0;
}
`)
		require.Len(t, result.Errors, 1)
		assert.Contains(result.Errors[0], "not exhaustive, missing: B")
	})
	t.Run("missing values are listed alphabetically", func(t *testing.T) {
		assert := assert.New(t)
		result := analyzeSource(t, `
enum C { Zed, Alpha, Mid };
void t(C c) { switch (c) { } }
`)
		require.Len(t, result.Errors, 1)
		assert.Contains(result.Errors[0], "missing: Alpha, Mid, and Zed")
	})
	t.Run("default branch waives the check", func(t *testing.T) {
		assert := assert.New(t)
		result := analyzeSource(t, `
enum C { R, G, B };
void t(C c) { switch (c) { case R: break; default: break; } }
`)
		assert.Empty(result.Errors)
	})
}

func Test_Analyze_exhaustiveReturn(t *testing.T) {
	testCases := []struct {
		name      string
		src       string
		expectErr bool
	}{
		{name: "if without else is not exhaustive", src: "int foo() { if (true) { return 1; } }", expectErr: true},
		{name: "while true that returns is exhaustive", src: "int foo() { while (true) { return 1; } }"},
		{name: "if-else with both returning", src: "int foo() { if (x) { return 1; } else { return 2; } }"},
		{name: "throw terminates a path", src: `int foo() { if (x) { return 1; } else { throw "no"; } }`},
		{name: "tail return", src: "int foo() { return 3; }"},
		{name: "void needs no return", src: "void foo() { }"},
		{name: "missing entirely", src: "int foo() { int x = 1; }", expectErr: true},
		{name: "try and catch both return", src: `int foo() { try { return f(); } catch (e) { return 0; } }`},
		{name: "exhaustive if-else followed by dead code", src: "int foo(int x) { if (x > 0) { return 1; } else { return 2; } int y = 0; }"},
		{name: "if-else inside a switch case", src: "int f(int x) { switch (x) { case 1: if (x > 0) { return 1; } else { return -1; } default: return 0; } }"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			result := analyzeSource(t, tc.src)
			if tc.expectErr {
				assert.True(errorContaining(result, "no return statement"), "errors: %v", result.Errors)
			} else {
				assert.Empty(result.Errors)
			}
		})
	}
}

func Test_Analyze_returnTypeMismatch(t *testing.T) {
	assert := assert.New(t)

	result := analyzeSource(t, `int f() { return "s"; }`)
	require.Len(t, result.Errors, 1)
	assert.Contains(result.Errors[0], "string")
	assert.Contains(result.Errors[0], "int")
}

func Test_Analyze_classTypeUpgrade(t *testing.T) {
	t.Run("field of class type becomes a reference", func(t *testing.T) {
		assert := assert.New(t)
		result := analyzeSource(t, `
class Leaf { public int n; }
class Tree { public Leaf left; public Leaf? right; }
`)
		assert.Empty(result.Errors)
		tree := result.ClassTable["Tree"]
		require.NotNil(t, tree)
		assert.Equal(1, tree.Fields["left"].Type.PointerDepth)
		assert.Equal(1, tree.Fields["right"].Type.PointerDepth, "nullable keeps the parser's level")
		assert.True(tree.Fields["right"].Type.Nullable)
	})
	t.Run("explicit pointer on a class type is redundant", func(t *testing.T) {
		assert := assert.New(t)
		result := analyzeSource(t, `
class Leaf { public int n; }
class Holder { public Leaf* p; }
`)
		assert.True(errorContaining(result, "redundant explicit pointer"))
	})
}

func Test_Analyze_cyclableClasses(t *testing.T) {
	assert := assert.New(t)

	result := analyzeSource(t, `
class SelfRef { public SelfRef next; }
class A { public B b; }
class B { public A a; }
class Standalone { public int n; }
class Container { public Vector<SelfRef> items; }
class Chain { public Standalone s; }
`)
	assert.Empty(result.Errors)
	assert.True(result.ClassTable["SelfRef"].IsCyclable)
	assert.True(result.ClassTable["A"].IsCyclable)
	assert.True(result.ClassTable["B"].IsCyclable)
	assert.False(result.ClassTable["Standalone"].IsCyclable)
	assert.False(result.ClassTable["Chain"].IsCyclable)
	assert.False(result.ClassTable["Container"].IsCyclable, "holding a cyclable class does not make the holder cyclable")
}

func Test_Analyze_genericInstanceCollection(t *testing.T) {
	assert := assert.New(t)

	result := analyzeSource(t, `
class List<T> { public int len() { return 0; } }
class Map<K, V> { public List<K> keys() { return new List<K>(); } }
void t() {
    Vector<int> v;
    Map<string, int> m;
}
`)
	assert.Empty(result.Errors)
	assert.Contains(result.GenericInstances, "Vector")
	assert.Contains(result.GenericInstances, "Map")
	require.Contains(t, result.GenericInstances, "List", "Map<string,int>.keys() must register List<string>")

	var found bool
	for _, args := range result.GenericInstances["List"] {
		if len(args) == 1 && args[0].Base == "string" {
			found = true
		}
	}
	assert.True(found, "List<string> instance expected from keys() substitution")
}

func Test_Analyze_genericInstanceDeduplication(t *testing.T) {
	assert := assert.New(t)

	result := analyzeSource(t, `
void t() {
    Vector<int> a;
    Vector<int> b;
    Vector<string> c;
}
`)
	assert.Empty(result.Errors)
	assert.Len(result.GenericInstances["Vector"], 2)
}

func Test_Analyze_diagnosticsDeterminism(t *testing.T) {
	assert := assert.New(t)

	src := `
class A { private int x; }
enum C { R, G, B };
int f() { if (true) { return 1; } }
void t() {
    A a = A();
    a.x = 5;
    C c = R;
    switch (c) { case R: break; }
    var z = 1 / 0;
}
`
	first := analyzeSource(t, src)
	for i := 0; i < 10; i++ {
		again := analyzeSource(t, src)
		assert.Equal(first.Errors, again.Errors)
		assert.Equal(first.Warnings, again.Warnings)
	}
	assert.NotEmpty(first.Errors)
}

func Test_Analyze_breakContinuePlacement(t *testing.T) {
	t.Run("break outside loop", func(t *testing.T) {
		result := analyzeSource(t, "void t() { break; }")
		assert.True(t, errorContaining(result, "'break' outside"))
	})
	t.Run("continue outside loop", func(t *testing.T) {
		result := analyzeSource(t, "void t() { continue; }")
		assert.True(t, errorContaining(result, "'continue' outside"))
	})
	t.Run("break in switch is fine", func(t *testing.T) {
		result := analyzeSource(t, "void t(int x) { switch (x) { case 1: break; } }")
		assert.Empty(t, result.Errors)
	})
	t.Run("continue in switch is not", func(t *testing.T) {
		result := analyzeSource(t, "void t(int x) { switch (x) { case 1: continue; } }")
		assert.True(t, errorContaining(result, "'continue' outside"))
	})
}

func Test_Analyze_selfAndSuperPlacement(t *testing.T) {
	t.Run("self outside a class", func(t *testing.T) {
		result := analyzeSource(t, "void t() { var x = self; }")
		assert.True(t, errorContaining(result, "'self'"))
	})
	t.Run("self in a static method", func(t *testing.T) {
		result := analyzeSource(t, "class A { public class int m() { return self.n; } public int n; }")
		assert.True(t, errorContaining(result, "'self'"))
	})
	t.Run("super without a parent", func(t *testing.T) {
		result := analyzeSource(t, "class A { public void m() { super.m(); } }")
		assert.True(t, errorContaining(result, "'super'"))
	})
}

func Test_Analyze_unreachableCode(t *testing.T) {
	result := analyzeSource(t, "int t() { return 1; int x = 2; }")
	assert.True(t, errorContaining(result, "unreachable"))
}

func Test_Analyze_divisionByZero(t *testing.T) {
	result := analyzeSource(t, "void t() { var x = 1 / 0; }")
	assert.True(t, errorContaining(result, "division by zero"))
}

func Test_Analyze_defaultParamOrdering(t *testing.T) {
	result := analyzeSource(t, "void f(int a = 1, int b) { }")
	assert.True(t, errorContaining(result, "default"))
}

func Test_Analyze_abstractInstantiation(t *testing.T) {
	result := analyzeSource(t, `
abstract class Shape { public abstract int area(); }
void t() { var s = new Shape(); }
`)
	assert.True(t, errorContaining(result, "abstract"))
}

func Test_Analyze_staticDispatch(t *testing.T) {
	t.Run("instance method via class name", func(t *testing.T) {
		result := analyzeSource(t, `
class A { public int m() { return 1; } }
void t() { A.m(); }
`)
		assert.True(t, errorContaining(result, "static"))
	})
	t.Run("static method via class name is fine", func(t *testing.T) {
		result := analyzeSource(t, `
class A { public class int m() { return 1; } }
void t() { A.m(); }
`)
		assert.Empty(t, result.Errors)
	})
}

func Test_Analyze_constructorArity(t *testing.T) {
	result := analyzeSource(t, `
class P { P(int a, int b) { } }
void t() { var p = P(1); }
`)
	assert.True(t, errorContaining(result, "argument"))
}

func Test_Analyze_aliasWarning(t *testing.T) {
	assert := assert.New(t)

	result := analyzeSource(t, `
class Big { public int n; }
void t() { var p = new Big(); var q = p; }
`)
	assert.Empty(result.Errors)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(result.Warnings[0], "keep")
}

func Test_Analyze_nullableAccessWarning(t *testing.T) {
	assert := assert.New(t)

	result := analyzeSource(t, `
class Node { public int value; }
void t(Node? n) { var v = n.value; }
`)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(result.Warnings[0], "nullable")
}

func Test_Analyze_forInIterables(t *testing.T) {
	t.Run("range is iterable", func(t *testing.T) {
		result := analyzeSource(t, "void t() { for i in range(10) { } }")
		assert.Empty(t, result.Errors)
	})
	t.Run("string is iterable", func(t *testing.T) {
		result := analyzeSource(t, `void t() { var s = "abc"; for ch in s { } }`)
		assert.Empty(t, result.Errors)
	})
	t.Run("int is not iterable", func(t *testing.T) {
		result := analyzeSource(t, "void t() { var n = 3; for x in n { } }")
		assert.True(t, errorContaining(result, "not iterable"))
	})
	t.Run("generic collection is iterable", func(t *testing.T) {
		result := analyzeSource(t, "void t(Vector<int> v) { for x in v { } }")
		assert.Empty(t, result.Errors)
	})
	t.Run("two-variable form needs two generic args", func(t *testing.T) {
		result := analyzeSource(t, "void t(Vector<int> v) { for k, x in v { } }")
		assert.True(t, errorContaining(result, "two-variable"))
	})
	t.Run("two-variable form over a map", func(t *testing.T) {
		result := analyzeSource(t, "void t(Map<string, int> m) { for k, v in m { } }")
		assert.Empty(t, result.Errors)
	})
	t.Run("class with iterGet", func(t *testing.T) {
		result := analyzeSource(t, `
class Bag { public int iterGet(int i) { return i; } public int len() { return 0; } }
void t(Bag b) { for x in b { } }
`)
		assert.Empty(t, result.Errors)
	})
}

func Test_Analyze_voidInitializer(t *testing.T) {
	result := analyzeSource(t, `
void side() { }
void t() { void v = side(); }
`)
	assert.True(t, errorContaining(result, "void"))
}

func Test_Analyze_gpuValidation(t *testing.T) {
	t.Run("scalar kernel is accepted", func(t *testing.T) {
		result := analyzeSource(t, "@gpu void k(float[] data, float f) { data[gpu_id()] = data[gpu_id()] * f; }")
		assert.Empty(t, result.Errors)
	})
	t.Run("string parameter is rejected", func(t *testing.T) {
		result := analyzeSource(t, "@gpu void k(string s) { }")
		assert.True(t, errorContaining(result, "@gpu"))
	})
	t.Run("print is rejected", func(t *testing.T) {
		result := analyzeSource(t, `@gpu void k(float[] d) { print("no"); }`)
		assert.True(t, errorContaining(result, "print"))
	})
	t.Run("spawn is rejected", func(t *testing.T) {
		result := analyzeSource(t, "@gpu void k(float[] d) { var th = spawn f; }")
		assert.True(t, errorContaining(result, "@gpu"))
	})
	t.Run("non-array return is rejected", func(t *testing.T) {
		result := analyzeSource(t, "@gpu string k() { }")
		assert.True(t, errorContaining(result, "must return void or a typed array"))
	})
}

func Test_Analyze_spawnInference(t *testing.T) {
	assert := assert.New(t)

	result := analyzeSource(t, `
int work() { return 7; }
void t() { var th = spawn work; }
`)
	assert.Empty(result.Errors)
	fn := result.Program.Decls[1].(*ast.FunctionDecl)
	vd := fn.Body.Stmts[0].(*ast.VarDeclStmt)
	require.NotNil(t, vd.Type)
	assert.Equal("Thread", vd.Type.Base)
	require.Len(t, vd.Type.GenericArgs, 1)
	assert.Equal("int", vd.Type.GenericArgs[0].Base)
}

func Test_Analyze_lambdaTypes(t *testing.T) {
	assert := assert.New(t)

	result := analyzeSource(t, "void t() { var f = (int a, int b) => a + b; var g = int function() { return 1; }; }")
	assert.Empty(result.Errors)
	fn := result.Program.Decls[0].(*ast.FunctionDecl)
	f := fn.Body.Stmts[0].(*ast.VarDeclStmt)
	require.NotNil(t, f.Type)
	assert.Equal("__fn_ptr", f.Type.Base)
	require.Len(t, f.Type.GenericArgs, 3)
	assert.Equal("int", f.Type.GenericArgs[0].Base)
}

func Test_Analyze_forwardDeclarationCoalescing(t *testing.T) {
	assert := assert.New(t)

	result := analyzeSource(t, `
int f(int a);
int f(int a) { return a; }
void t() { var x = f(1); }
`)
	assert.Empty(result.Errors)
	require.NotNil(t, result.FunctionTable["f"])
	assert.NotNil(result.FunctionTable["f"].Body, "the defining declaration wins")

	dup := analyzeSource(t, `
int f(int a) { return a; }
int f(int a) { return a + 1; }
`)
	assert.True(errorContaining(dup, "duplicate function"))
}

func Test_Analyze_interfaceValidation(t *testing.T) {
	t.Run("missing method", func(t *testing.T) {
		result := analyzeSource(t, `
interface Drawable { void draw(); }
class Box implements Drawable { }
`)
		assert.True(t, errorContaining(result, "does not implement"))
	})
	t.Run("inherited interface method through parent interface", func(t *testing.T) {
		result := analyzeSource(t, `
interface Base { void close(); }
interface Stream extends Base { void read(); }
class File implements Stream { public void close() { } public void read() { } }
`)
		assert.Empty(t, result.Errors)
	})
}

func Test_Analyze_nodeTypeMap(t *testing.T) {
	assert := assert.New(t)

	result := analyzeSource(t, "void t() { var x = 1 + 2; }")
	assert.Empty(result.Errors)

	fn := result.Program.Decls[0].(*ast.FunctionDecl)
	vd := fn.Body.Stmts[0].(*ast.VarDeclStmt)
	bin := vd.Initializer.(*ast.BinaryExpr)
	ty, ok := result.NodeTypes[bin]
	require.True(t, ok, "every analyzed expression is in the node-type map")
	assert.Equal("int", ty.Base)
}

func Test_Analyze_numericPromotion(t *testing.T) {
	testCases := []struct {
		name   string
		expr   string
		expect string
	}{
		{name: "int plus int", expr: "1 + 2", expect: "int"},
		{name: "int plus float", expr: "1 + 2.5", expect: "float"},
		{name: "float plus double", expr: "2.5f + d", expect: "double"},
		{name: "comparison yields bool", expr: "1 < 2", expect: "bool"},
		{name: "logic yields bool", expr: "a && b", expect: "bool"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			result := analyzeSource(t, "void t(double d, bool a, bool b) { var x = "+tc.expr+"; }")
			fn := result.Program.Decls[0].(*ast.FunctionDecl)
			vd := fn.Body.Stmts[0].(*ast.VarDeclStmt)
			require.NotNil(t, vd.Type)
			assert.Equal(tc.expect, vd.Type.Base)
		})
	}
}
