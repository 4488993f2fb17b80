package diag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schiffy91/btrc-sub001/internal/lexer"
)

func Test_Render_sourceErrorShowsCursor(t *testing.T) {
	assert := assert.New(t)

	err := &lexer.Error{
		Message:    "unterminated string literal",
		Line:       3,
		Col:        9,
		SourceLine: `var s = "abc`,
	}
	out := Render(err)
	assert.Contains(out, `var s = "abc`)
	assert.Contains(out, "^")
	assert.Contains(out, "at 3:9")
}

func Test_Report_groupsErrorsBeforeWarnings(t *testing.T) {
	assert := assert.New(t)

	out := Report("main.btrc",
		[]string{"division by zero at 4:11"},
		[]string{"'q = p' aliases a managed reference; consider 'keep' at 9:5"},
	)
	errIdx := strings.Index(out, "error:")
	warnIdx := strings.Index(out, "warning:")
	assert.GreaterOrEqual(errIdx, 0)
	assert.Greater(warnIdx, errIdx)
	assert.Contains(out, "main.btrc: error: division by zero at 4:11")
}

func Test_Report_wrapsLongMessages(t *testing.T) {
	assert := assert.New(t)

	long := strings.Repeat("very ", 30) + "long message at 1:1"
	out := Report("f.btrc", []string{long}, nil)
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		assert.LessOrEqual(len(line), 84, "wrapped lines stay near the console width")
	}
}

func Test_Summary_pluralization(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("0 errors, 0 warnings", Summary(0, 0))
	assert.Equal("1 error, 2 warnings", Summary(1, 2))
	assert.Equal("3 errors, 1 warning", Summary(3, 1))
}
