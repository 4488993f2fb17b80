// Package btrc ties the compiler frontend together: grammar loading,
// lexing, parsing, and semantic analysis, in that order. The cmd/btrc
// driver and any embedding tool (a language server, a code generator)
// consume the same Frontend type; nothing in this package is specific to
// batch compilation.
package btrc

import (
	"fmt"

	"github.com/schiffy91/btrc-sub001/internal/analyzer"
	"github.com/schiffy91/btrc-sub001/internal/ast"
	"github.com/schiffy91/btrc-sub001/internal/grammar"
	"github.com/schiffy91/btrc-sub001/internal/lexer"
	"github.com/schiffy91/btrc-sub001/internal/parser"
	"github.com/schiffy91/btrc-sub001/internal/token"
)

// Result is everything the frontend produces for one source file. Tokens
// and Program are the raw lexer/parser output; Analysis carries the
// symbol tables, the node-type map, and the diagnostic lists. Readers
// must treat all three as immutable.
type Result struct {
	Filename string
	Tokens   []token.Token
	Program  *ast.Program
	Analysis *analyzer.AnalyzedProgram
}

// Frontend is a compiler frontend bound to one loaded grammar. It holds
// no per-compile state, so a single Frontend may serve concurrent
// Compile calls.
type Frontend struct {
	grammar grammar.Info
}

// New creates a Frontend using the grammar compiled into the binary.
func New() (*Frontend, error) {
	gi, err := grammar.Default()
	if err != nil {
		return nil, fmt.Errorf("loading built-in grammar: %w", err)
	}
	return &Frontend{grammar: gi}, nil
}

// NewWithGrammar creates a Frontend from external grammar text, for
// experimenting with surface-syntax changes.
func NewWithGrammar(grammarText string) (*Frontend, error) {
	gi, err := grammar.Load(grammarText)
	if err != nil {
		return nil, fmt.Errorf("loading grammar: %w", err)
	}
	return &Frontend{grammar: gi}, nil
}

// Grammar exposes the loaded keyword/operator tables, for tools that need
// to tokenize without compiling.
func (f *Frontend) Grammar() grammar.Info {
	return f.grammar
}

// Compile runs the full frontend over source. A returned error is a lex
// or parse failure, which aborts the pipeline. Semantic problems never
// produce a Go error: they are collected in Result.Analysis.Errors and
// .Warnings, and the Result is still fully populated so tooling can keep
// answering queries about a broken program.
func (f *Frontend) Compile(source, filename string) (*Result, error) {
	toks, err := lexer.Lex(source, f.grammar)
	if err != nil {
		return nil, err
	}
	prog, err := parser.Parse(toks, source, f.grammar)
	if err != nil {
		return nil, err
	}
	return &Result{
		Filename: filename,
		Tokens:   toks,
		Program:  prog,
		Analysis: analyzer.Analyze(prog),
	}, nil
}
