package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Default_loadsAndValidates(t *testing.T) {
	assert := assert.New(t)

	gi, err := Default()
	require.NoError(t, err)

	assert.True(gi.Keywords["class"])
	assert.True(gi.Keywords["var"])
	assert.True(gi.Keywords["spawn"])
	assert.False(gi.Keywords["gpu"], "@gpu is an annotation, not a keyword")
	assert.NotEmpty(gi.Operators)
}

func Test_Parse_operatorsSortedLongestFirst(t *testing.T) {
	assert := assert.New(t)

	gi, err := Default()
	require.NoError(t, err)

	for i := 1; i < len(gi.Operators); i++ {
		prev, cur := gi.Operators[i-1], gi.Operators[i]
		if len(prev) == len(cur) {
			assert.Less(prev, cur, "ties break lexicographically")
		} else {
			assert.Greater(len(prev), len(cur), "operators must be longest-first")
		}
	}
}

func Test_Parse_operatorKindNames(t *testing.T) {
	testCases := []struct {
		op     string
		expect string
	}{
		{op: "+", expect: "PLUS"},
		{op: "==", expect: "EQ_EQ"},
		{op: "<<=", expect: "LT_LT_EQ"},
		{op: "->", expect: "ARROW"},
		{op: "=>", expect: "FAT_ARROW"},
		{op: "?.", expect: "QUESTION_DOT"},
		{op: "??", expect: "QUESTION_QUESTION"},
		{op: "{", expect: "LBRACE"},
	}

	gi, err := Default()
	require.NoError(t, err)

	for _, tc := range testCases {
		t.Run(tc.op, func(t *testing.T) {
			assert.Equal(t, tc.expect, gi.OpToKind[tc.op])
		})
	}
}

func Test_Parse_commentsAndNestingInsideSections(t *testing.T) {
	assert := assert.New(t)

	gi, err := Parse(`
@lexical {
    -- a line comment with a stray { brace
    (* a block comment with } inside *)
    @keywords {
        if else -- trailing comment
    }
    @operators {
        "+" "=="
    }
}
`)
	require.NoError(t, err)
	assert.True(gi.Keywords["if"])
	assert.True(gi.Keywords["else"])
	assert.False(gi.Keywords["comment"], "comment text must not leak into the keyword table")
	assert.Equal([]string{"==", "+"}, gi.Operators)
}

func Test_Parse_missingLexicalSection(t *testing.T) {
	_, err := Parse("@grammar { rule = thing ; }")
	assert.Error(t, err)
}

func Test_Load_rejectsUnknownKindName(t *testing.T) {
	// "::" derives COLON_COLON, which is not a token kind.
	_, err := Load(`@lexical { @keywords { if } @operators { "::" } }`)
	assert.Error(t, err)
}
