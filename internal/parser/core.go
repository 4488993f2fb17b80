// Package parser builds an *ast.Program from a token stream via
// recursive descent with bounded lookahead. It walks a flat token slice
// with an integer cursor rather than a channel or iterator, and reports
// the first error it hits rather than attempting multi-error recovery.
package parser

import (
	"fmt"

	"github.com/schiffy91/btrc-sub001/internal/ast"
	"github.com/schiffy91/btrc-sub001/internal/grammar"
	"github.com/schiffy91/btrc-sub001/internal/token"
)

// Parser holds the token cursor and backing source lines (for error
// messages). It also keeps the loaded grammar, needed to re-lex the
// embedded-expression substrings an f-string literal token carries.
type Parser struct {
	tokens  []token.Token
	pos     int
	lines   []string
	grammar grammar.Info
	splits  []splitRecord
}

// New constructs a Parser over toks, using src to recover source lines for
// diagnostics and gi to re-lex embedded f-string expressions.
func New(toks []token.Token, src string, gi grammar.Info) *Parser {
	return &Parser{tokens: toks, pos: 0, lines: splitLines(src), grammar: gi}
}

func splitLines(src string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			lines = append(lines, src[start:i])
			start = i + 1
		}
	}
	lines = append(lines, src[start:])
	return lines
}

func (p *Parser) lineText(line int) string {
	if line-1 >= 0 && line-1 < len(p.lines) {
		return p.lines[line-1]
	}
	return ""
}

func (p *Parser) cur() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) at(offset int) token.Token {
	i := p.pos + offset
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) check(k token.Kind) bool {
	return p.cur().Kind == k
}

func (p *Parser) match(k token.Kind) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if p.check(k) {
		return p.advance(), nil
	}
	return token.Token{}, p.errf("expected %s, got %s %q", k, p.cur().Kind, p.cur().Text)
}

func (p *Parser) errf(format string, a ...any) error {
	t := p.cur()
	return &Error{
		Message:    fmt.Sprintf(format, a...),
		Line:       t.Line,
		Col:        t.Col,
		SourceLine: p.lineText(t.Line),
	}
}

// mark/restore implement the bounded-lookahead backtracking the grammar
// needs to disambiguate e.g. a cast from a parenthesized expression, and a
// generic-method-call from a less-than comparison. restore also reverts
// any ">>"-style token splits performed past the mark, so a speculative
// parse of a generic argument list leaves the stream untouched.
type mark struct {
	pos    int
	splits int
}

type splitRecord struct {
	idx  int
	orig token.Token
}

func (p *Parser) save() mark {
	return mark{pos: p.pos, splits: len(p.splits)}
}

func (p *Parser) restore(m mark) {
	for i := len(p.splits) - 1; i >= m.splits; i-- {
		p.tokens[p.splits[i].idx] = p.splits[i].orig
	}
	p.splits = p.splits[:m.splits]
	p.pos = m.pos
}

// expectGT closes a generic argument list's '>' , splitting a
// multi-character operator (">>", ">=", ">>=") whose first character is
// the needed '>' into its remainder, so "List<List<int>>" parses without
// requiring a space before the final ">>".
func (p *Parser) expectGT() error {
	t := p.cur()
	switch t.Kind {
	case token.Gt:
		p.advance()
		return nil
	case token.GtGt:
		p.splitCurrent(token.Token{Kind: token.Gt, Text: ">", Line: t.Line, Col: t.Col + 1})
		return nil
	case token.GtGtEq:
		p.splitCurrent(token.Token{Kind: token.GtEq, Text: ">=", Line: t.Line, Col: t.Col + 1})
		return nil
	case token.GtEq:
		p.splitCurrent(token.Token{Kind: token.Eq, Text: "=", Line: t.Line, Col: t.Col + 1})
		return nil
	default:
		return p.errf("expected '>' to close generic argument list, got %s", t.Kind)
	}
}

// splitCurrent replaces the current multi-character '>' token with its
// remainder after consuming a leading '>', recording the original so a
// later restore can undo the split.
func (p *Parser) splitCurrent(rest token.Token) {
	p.splits = append(p.splits, splitRecord{idx: p.pos, orig: p.tokens[p.pos]})
	p.tokens[p.pos] = rest
}

func (p *Parser) pos2(t token.Token) ast.Position {
	return ast.Position{Line: t.Line, Col: t.Col}
}

// Parse consumes the entire token stream and returns the resulting
// *ast.Program.
func Parse(toks []token.Token, src string, gi grammar.Info) (*ast.Program, error) {
	p := New(toks, src, gi)
	return p.parseProgram()
}

func (p *Parser) parseProgram() (*ast.Program, error) {
	start := p.cur()
	prog := &ast.Program{Position: p.pos2(start)}
	for !p.check(token.EOF) {
		if p.check(token.Preprocessor) {
			t := p.advance()
			prog.Decls = append(prog.Decls, &ast.PreprocessorDirective{Position: p.pos2(t), Text: t.Text})
			continue
		}
		decl, err := p.parseTopLevelDecl()
		if err != nil {
			return nil, err
		}
		prog.Decls = append(prog.Decls, decl)
	}
	return prog, nil
}
