package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schiffy91/btrc-sub001/internal/grammar"
	"github.com/schiffy91/btrc-sub001/internal/token"
)

func testGrammar(t *testing.T) grammar.Info {
	t.Helper()
	gi, err := grammar.Default()
	require.NoError(t, err)
	return gi
}

func Test_Lex_kindSequence(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    []token.Kind
		expectErr bool
	}{
		{name: "blank input", input: "", expect: []token.Kind{
			token.EOF,
		}},
		{name: "hex literal", input: "0xFF", expect: []token.Kind{
			token.IntLit, token.EOF,
		}},
		{name: "binary literal", input: "0b11", expect: []token.Kind{
			token.IntLit, token.EOF,
		}},
		{name: "octal literal", input: "0o17", expect: []token.Kind{
			token.IntLit, token.EOF,
		}},
		{name: "suffixed int", input: "42ULL", expect: []token.Kind{
			token.IntLit, token.EOF,
		}},
		{name: "float with exponent and suffix", input: "3.14e-2f", expect: []token.Kind{
			token.FloatLit, token.EOF,
		}},
		{name: "plain float", input: "2.5", expect: []token.Kind{
			token.FloatLit, token.EOF,
		}},
		{name: "dot not followed by digit is member access", input: "a.b", expect: []token.Kind{
			token.Ident, token.Dot, token.Ident, token.EOF,
		}},
		{name: "string literal", input: `"hello"`, expect: []token.Kind{
			token.StringLit, token.EOF,
		}},
		{name: "char literal with escape", input: `'\n'`, expect: []token.Kind{
			token.CharLit, token.EOF,
		}},
		{name: "f-string", input: `f"x={y}"`, expect: []token.Kind{
			token.FStringLit, token.EOF,
		}},
		{name: "identifier starting with f is not an f-string", input: "fold", expect: []token.Kind{
			token.Ident, token.EOF,
		}},
		{name: "keywords and idents", input: "class Foo extends Bar", expect: []token.Kind{
			token.Class, token.Ident, token.Extends, token.Ident, token.EOF,
		}},
		{name: "greedy operator match", input: "a <<= 1", expect: []token.Kind{
			token.Ident, token.LtLtEq, token.IntLit, token.EOF,
		}},
		{name: "shift right vs nested generics is lexed greedily", input: ">>", expect: []token.Kind{
			token.GtGt, token.EOF,
		}},
		{name: "optional chain operator", input: "a?.b", expect: []token.Kind{
			token.Ident, token.QuestionDot, token.Ident, token.EOF,
		}},
		{name: "line comment skipped", input: "a // trailing\nb", expect: []token.Kind{
			token.Ident, token.Ident, token.EOF,
		}},
		{name: "block comment skipped", input: "a /* x */ b", expect: []token.Kind{
			token.Ident, token.Ident, token.EOF,
		}},
		{name: "gpu annotation", input: "@gpu void k()", expect: []token.Kind{
			token.AtGpu, token.Void, token.Ident, token.LParen, token.RParen, token.EOF,
		}},
		{name: "preprocessor passthrough", input: "#include <stdio.h>\nint x;", expect: []token.Kind{
			token.Preprocessor, token.Int, token.Ident, token.Semicolon, token.EOF,
		}},
		{name: "hash mid-line is an error", input: "int x; #foo", expectErr: true},
		{name: "unterminated string", input: `"abc`, expectErr: true},
		{name: "string with raw newline", input: "\"ab\nc\"", expectErr: true},
		{name: "unterminated f-string", input: `f"abc`, expectErr: true},
		{name: "unterminated block comment", input: "a /* b", expectErr: true},
		{name: "unknown annotation", input: "@fast", expectErr: true},
		{name: "malformed hex", input: "0x", expectErr: true},
		{name: "malformed binary", input: "0b2", expectErr: true},
	}

	gi := testGrammar(t)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			toks, err := Lex(tc.input, gi)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}
			actual := make([]token.Kind, len(toks))
			for i, tok := range toks {
				actual[i] = tok.Kind
			}
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Lex_literalText(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "string keeps quotes", input: `"hi"`, expect: `"hi"`},
		{name: "string keeps raw escape", input: `"a\tb"`, expect: `"a\tb"`},
		{name: "triple-quoted converts newline", input: "\"\"\"a\nb\"\"\"", expect: `"a\nb"`},
		{name: "char keeps quotes", input: `'x'`, expect: `'x'`},
		{name: "char keeps raw escape", input: `'\0'`, expect: `'\0'`},
		{name: "f-string strips quotes", input: `f"x={y}"`, expect: `x={y}`},
		{name: "f-string literal braces", input: `f"{{literal}}"`, expect: `{{literal}}`},
		{name: "int keeps suffix", input: "42ull", expect: "42ull"},
		{name: "preprocessor keeps hash", input: "#define N 3", expect: "#define N 3"},
		{name: "preprocessor continuation", input: "#define N \\\n 3", expect: "#define N \\\n 3"},
	}

	gi := testGrammar(t)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			toks, err := Lex(tc.input, gi)
			if !assert.NoError(err) {
				return
			}
			if !assert.GreaterOrEqual(len(toks), 2) {
				return
			}
			assert.Equal(tc.expect, toks[0].Text)
		})
	}
}

func Test_Lex_positions(t *testing.T) {
	assert := assert.New(t)
	gi := testGrammar(t)

	src := "int x = 1;\nvoid f() {\n    return;\n}\n"
	toks, err := Lex(src, gi)
	assert.NoError(err)

	prevLine, prevCol := 0, 0
	for _, tok := range toks {
		assert.GreaterOrEqual(tok.Line, 1, "positions are 1-based")
		assert.GreaterOrEqual(tok.Col, 1, "positions are 1-based")
		if tok.Line == prevLine {
			assert.Greater(tok.Col, prevCol, "column must advance within a line")
		} else {
			assert.Greater(tok.Line, prevLine, "line numbers never decrease")
		}
		prevLine, prevCol = tok.Line, tok.Col
	}
	assert.Equal(token.EOF, toks[len(toks)-1].Kind)
}

// renderToken reconstructs the surface text a token came from, for the
// retokenization round trip.
func renderToken(tok token.Token) string {
	switch tok.Kind {
	case token.FStringLit:
		return `f"` + tok.Text + `"`
	case token.Preprocessor:
		return tok.Text + "\n"
	default:
		return tok.Text
	}
}

func Test_Lex_roundTrip(t *testing.T) {
	sources := []string{
		`int add(int a, int b) { return a + b; }`,
		`class Node { public Node? next; public int value = 0; }`,
		"#include <stdio.h>\nvoid main() { printf(\"hi\\n\"); }",
		`var msg = f"total={n * 2}";`,
		`Map<string, Vector<int>> index;`,
		`float x = 3.14e-2f; var mask = 0xFF & 0b11;`,
	}

	gi := testGrammar(t)
	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			assert := assert.New(t)

			first, err := Lex(src, gi)
			if !assert.NoError(err) {
				return
			}
			var sb strings.Builder
			for _, tok := range first {
				if tok.Kind == token.EOF {
					break
				}
				sb.WriteString(renderToken(tok))
				sb.WriteByte(' ')
			}
			second, err := Lex(sb.String(), gi)
			if !assert.NoError(err) {
				return
			}
			if !assert.Equal(len(first), len(second)) {
				return
			}
			for i := range first {
				assert.Equal(first[i].Kind, second[i].Kind, "kind mismatch at %d", i)
				assert.Equal(first[i].Text, second[i].Text, "text mismatch at %d", i)
			}
		})
	}
}
