package btrc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schiffy91/btrc-sub001/internal/token"
)

func Test_Compile_cleanProgram(t *testing.T) {
	assert := assert.New(t)

	fe, err := New()
	require.NoError(t, err)

	result, err := fe.Compile("void t() { var x = 42; }", "t.btrc")
	require.NoError(t, err)
	assert.Equal("t.btrc", result.Filename)
	assert.Equal(token.EOF, result.Tokens[len(result.Tokens)-1].Kind)
	assert.Len(result.Program.Decls, 1)
	assert.Empty(result.Analysis.Errors)
	assert.Empty(result.Analysis.Warnings)
}

func Test_Compile_semanticErrorsDoNotFail(t *testing.T) {
	assert := assert.New(t)

	fe, err := New()
	require.NoError(t, err)

	result, err := fe.Compile("int f() { if (true) { return 1; } }", "f.btrc")
	require.NoError(t, err, "semantic problems are diagnostics, not Go errors")
	assert.NotEmpty(result.Analysis.Errors)
	assert.NotNil(result.Program, "the result stays usable for tooling")
}

func Test_Compile_parseErrorAborts(t *testing.T) {
	fe, err := New()
	require.NoError(t, err)

	_, err = fe.Compile("void t() { var x; }", "bad.btrc")
	assert.Error(t, err)
}

func Test_NewWithGrammar_rejectsBrokenGrammar(t *testing.T) {
	_, err := NewWithGrammar("no lexical section here")
	assert.Error(t, err)
}
