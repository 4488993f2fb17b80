package parser

import "fmt"

// Error is a parse-time failure: an unexpected token, a missing required
// token, or a malformed declaration. Same plain struct-with-FullMessage
// shape as lexer.Error.
type Error struct {
	Message    string
	Line, Col  int
	SourceLine string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %d:%d", e.Message, e.Line, e.Col)
}

func (e *Error) FullMessage() string {
	msg := e.Error()
	if e.SourceLine == "" {
		return msg
	}
	cursor := make([]byte, e.Col-1)
	for i := range cursor {
		cursor[i] = ' '
	}
	return e.SourceLine + "\n" + string(cursor) + "^\n" + msg
}
