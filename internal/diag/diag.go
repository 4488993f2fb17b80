// Package diag renders compiler diagnostics for terminal display. The
// analyzer hands back plain "<message> at <line>:<col>" strings; lex and
// parse failures carry the offending source line. This package turns both
// into the console output the btrc driver prints, grouped by severity.
package diag

import (
	"strconv"
	"strings"

	"github.com/dekarrin/rosed"
)

const consoleOutputWidth = 80

// SourceError is implemented by lex and parse errors, which can render
// the offending source line with a cursor under the error column.
type SourceError interface {
	error
	FullMessage() string
}

// Render formats a single error for the console. Errors that know their
// source line print it with a cursor; anything else is word-wrapped.
func Render(err error) string {
	if se, ok := err.(SourceError); ok {
		return se.FullMessage()
	}
	return rosed.Edit(err.Error()).Wrap(consoleOutputWidth).String()
}

// Report renders the analyzer's diagnostic lists for one source file,
// errors first, each entry wrapped and hang-indented so a long message
// stays visually attached to its severity tag.
func Report(filename string, errors, warnings []string) string {
	var b strings.Builder
	for _, msg := range errors {
		b.WriteString(entry(filename, "error", msg))
	}
	for _, msg := range warnings {
		b.WriteString(entry(filename, "warning", msg))
	}
	return b.String()
}

func entry(filename, severity, msg string) string {
	line := filename + ": " + severity + ": " + msg
	if len(line) <= consoleOutputWidth {
		return line + "\n"
	}
	ed := rosed.
		Edit(line).
		WithOptions(rosed.Options{ParagraphSeparator: "\n"}).
		Wrap(consoleOutputWidth - 4)
	wrapped := ed.String()
	parts := strings.Split(wrapped, "\n")
	for i := 1; i < len(parts); i++ {
		parts[i] = "    " + parts[i]
	}
	return strings.Join(parts, "\n") + "\n"
}

// Summary is the one-line compile result ("2 errors, 1 warning") printed
// after the per-diagnostic lines.
func Summary(errorCount, warningCount int) string {
	return plural(errorCount, "error") + ", " + plural(warningCount, "warning")
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
