// Package lexer turns btrc source text into a token stream: a cursor over
// the character stream, mode-free (single switch-on-rune dispatch),
// building one token.Token at a time and appending to a slice, with a
// sentinel EOF token always appended last.
package lexer

import (
	"fmt"
	"strings"

	"golang.org/x/text/width"

	"github.com/schiffy91/btrc-sub001/internal/grammar"
	"github.com/schiffy91/btrc-sub001/internal/token"
)

// Lexer converts UTF-8 source text into a stream of tokens.
type Lexer struct {
	src  []rune
	pos  int
	line int
	col  int

	grammar grammar.Info

	lineStart int // rune index where the current line began, for fullLine slicing
	atLineStart bool
}

// New constructs a Lexer over src, using gi as the grammar-derived
// operator table (keywords are classified through token.Keywords). gi
// must already have been validated via grammar.Load.
func New(src string, gi grammar.Info) *Lexer {
	return &Lexer{
		src:         []rune(src),
		pos:         0,
		line:        1,
		col:         1,
		grammar:     gi,
		lineStart:   0,
		atLineStart: true,
	}
}

// Lex tokenizes the whole source in one pass, returning the resulting
// tokens (always EOF-terminated) or the first lex error encountered.
func Lex(src string, gi grammar.Info) ([]token.Token, error) {
	l := New(src, gi)
	return l.LexAll()
}

// LexAll runs the lexer to completion.
func (l *Lexer) LexAll() ([]token.Token, error) {
	var toks []token.Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks, nil
		}
	}
}

func (l *Lexer) fullLine() string {
	i := l.lineStart
	for i < len(l.src) && l.src[i] != '\n' {
		i++
	}
	return string(l.src[l.lineStart:i])
}

func (l *Lexer) errf(format string, a ...any) error {
	return &Error{
		Message:    fmt.Sprintf(format, a...),
		Line:       l.line,
		Col:        l.col,
		SourceLine: l.fullLine(),
	}
}

func (l *Lexer) peek() rune {
	return l.peekAt(0)
}

func (l *Lexer) peekAt(offset int) rune {
	i := l.pos + offset
	if i >= len(l.src) {
		return 0
	}
	return l.src[i]
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.src)
}

// advance consumes and returns the current rune, updating line/col. Column
// accounting uses golang.org/x/text/width so East-Asian wide/fullwidth
// runes (legal in string/char/comment text) count as two
// columns, matching how such text renders in a terminal.
func (l *Lexer) advance() rune {
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
		l.lineStart = l.pos
		l.atLineStart = true
	} else {
		l.col += runeWidth(r)
		if r != ' ' && r != '\t' {
			l.atLineStart = false
		}
	}
	return r
}

func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

func (l *Lexer) match(r rune) bool {
	if l.peek() == r {
		l.advance()
		return true
	}
	return false
}

func (l *Lexer) next() (token.Token, error) {
	if err := l.skipTrivia(); err != nil {
		return token.Token{}, err
	}
	if l.atEnd() {
		return token.Token{Kind: token.EOF, Text: "", Line: l.line, Col: l.col}, nil
	}

	startLine, startCol := l.line, l.col
	r := l.peek()

	switch {
	case r == '#' && l.atLineStart:
		return l.lexPreprocessor(startLine, startCol)
	case r == '@':
		return l.lexAnnotation(startLine, startCol)
	case r == '"':
		return l.lexString(startLine, startCol)
	case r == '\'':
		return l.lexChar(startLine, startCol)
	case isDigit(r):
		return l.lexNumber(startLine, startCol)
	case isIdentStart(r):
		return l.lexIdentOrKeyword(startLine, startCol)
	default:
		return l.lexOperator(startLine, startCol)
	}
}

// skipTrivia consumes whitespace, "//" line comments, and "/* ... */" block
// comments. Unterminated block comments are a lex error.
func (l *Lexer) skipTrivia() error {
	for !l.atEnd() {
		r := l.peek()
		switch {
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			l.advance()
		case r == '/' && l.peekAt(1) == '/':
			for !l.atEnd() && l.peek() != '\n' {
				l.advance()
			}
		case r == '/' && l.peekAt(1) == '*':
			startLine, startCol := l.line, l.col
			l.advance()
			l.advance()
			for {
				if l.atEnd() {
					return &Error{
						Message: "unterminated block comment",
						Line:    startLine,
						Col:     startCol,
					}
				}
				if l.peek() == '*' && l.peekAt(1) == '/' {
					l.advance()
					l.advance()
					break
				}
				l.advance()
			}
		default:
			return nil
		}
	}
	return nil
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentCont(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}

// lexPreprocessor consumes a '#'-led passthrough line, honoring a
// trailing backslash-newline as a continuation.
func (l *Lexer) lexPreprocessor(line, col int) (token.Token, error) {
	var sb strings.Builder
	for !l.atEnd() {
		r := l.peek()
		if r == '\\' && l.peekAt(1) == '\n' {
			sb.WriteRune(l.advance())
			sb.WriteRune(l.advance())
			continue
		}
		if r == '\n' {
			break
		}
		sb.WriteRune(l.advance())
	}
	return token.Token{Kind: token.Preprocessor, Text: sb.String(), Line: line, Col: col}, nil
}

// lexAnnotation handles the single supported annotation, "@gpu".
func (l *Lexer) lexAnnotation(line, col int) (token.Token, error) {
	l.advance() // '@'
	var sb strings.Builder
	for !l.atEnd() && isIdentCont(l.peek()) {
		sb.WriteRune(l.advance())
	}
	name := sb.String()
	if name != "gpu" {
		return token.Token{}, l.errf("unknown annotation '@%s' (only @gpu is supported)", name)
	}
	return token.Token{Kind: token.AtGpu, Text: "@gpu", Line: line, Col: col}, nil
}

// lexIdentOrKeyword scans [A-Za-z_][A-Za-z0-9_]*, then classifies it as a
// keyword, a lone 'f' immediately followed by '"' (f-string trigger), or a
// plain identifier.
func (l *Lexer) lexIdentOrKeyword(line, col int) (token.Token, error) {
	if l.peek() == 'f' && l.peekAt(1) == '"' {
		l.advance() // 'f'
		return l.lexFString(line, col)
	}
	var sb strings.Builder
	for !l.atEnd() && isIdentCont(l.peek()) {
		sb.WriteRune(l.advance())
	}
	text := sb.String()
	if kind, ok := token.Keywords[text]; ok {
		return token.Token{Kind: kind, Text: text, Line: line, Col: col}, nil
	}
	return token.Token{Kind: token.Ident, Text: text, Line: line, Col: col}, nil
}

// lexOperator performs greedy longest-match against the grammar's operator
// list, which is already sorted longest-first. The lexer holds no
// hard-coded operator strings beyond that list.
func (l *Lexer) lexOperator(line, col int) (token.Token, error) {
	remaining := string(l.src[l.pos:])
	for _, op := range l.grammar.Operators {
		if strings.HasPrefix(remaining, op) {
			for range op {
				l.advance()
			}
			name := l.grammar.OpToKind[op]
			kind, ok := token.Lookup(name)
			if !ok {
				return token.Token{}, l.errf("internal error: operator %q has no matching token kind", op)
			}
			return token.Token{Kind: kind, Text: op, Line: line, Col: col}, nil
		}
	}
	r := l.advance()
	return token.Token{}, &Error{
		Message:    fmt.Sprintf("unexpected character %q", string(r)),
		Line:       line,
		Col:        col,
		SourceLine: l.fullLine(),
	}
}
