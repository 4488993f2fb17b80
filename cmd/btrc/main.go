/*
Btrc runs the btrc compiler frontend over one or more source files.

For every file given on the command line it lexes, parses, and analyzes
the source, then prints any diagnostics grouped by severity. If any file
produces an error the exit status is non-zero and later compilation
stages must not run.

Usage:

	btrc [flags] file.btrc...

The flags are:

	-v, --version
		Give the current version of btrc and then exit.

	-c, --config FILE
		Read driver configuration from the given TOML file. Defaults to
		"btrc.toml" in the current working directory when present.

	-g, --grammar FILE
		Load the lexical grammar from FILE instead of the grammar
		compiled into the binary.

	-t, --tokens
		Print the token stream of each file instead of its diagnostics.
		The file is still compiled first; a lex or parse error is
		reported instead of the tokens.

	-a, --ast
		Print the pretty-printed source of each file instead of its
		diagnostics. The file is still compiled first, so the printed
		tree carries what the analyzer filled in (such as inferred var
		types).

	-i, --interactive
		Start a read-eval-print loop that compiles one snippet at a time
		and reports its diagnostics. Type ":quit" to leave.

	-W, --warnings-as-errors
		Treat warnings as errors for the exit status.

With no files and no -i flag, btrc reads a single compilation unit from
stdin.
*/
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"github.com/spf13/pflag"

	btrc "github.com/schiffy91/btrc-sub001"
	"github.com/schiffy91/btrc-sub001/internal/cache"
	"github.com/schiffy91/btrc-sub001/internal/config"
	"github.com/schiffy91/btrc-sub001/internal/diag"
	"github.com/schiffy91/btrc-sub001/internal/printer"
	"github.com/schiffy91/btrc-sub001/internal/version"
)

const (
	// ExitSuccess indicates every file compiled without errors.
	ExitSuccess = iota

	// ExitCompileError indicates at least one diagnostic error.
	ExitCompileError

	// ExitInitError indicates a problem setting up the frontend itself:
	// unreadable config, bad grammar file, unreadable source.
	ExitInitError
)

var (
	returnCode  int     = ExitSuccess
	flagVersion *bool   = pflag.BoolP("version", "v", false, "Gives the version info")
	configFile  *string = pflag.StringP("config", "c", config.DefaultFileName, "Driver configuration TOML file")
	grammarFile *string = pflag.StringP("grammar", "g", "", "Override the built-in lexical grammar")
	dumpTokens  *bool   = pflag.BoolP("tokens", "t", false, "Print the token stream instead of diagnostics")
	dumpAST     *bool   = pflag.BoolP("ast", "a", false, "Print the pretty-printed parse tree instead of diagnostics")
	interactive *bool   = pflag.BoolP("interactive", "i", false, "Start an interactive snippet loop")
	warnAsErr   *bool   = pflag.BoolP("warnings-as-errors", "W", false, "Treat warnings as errors")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	if *warnAsErr {
		cfg.WarningsAsErrors = true
	}
	if *grammarFile != "" {
		cfg.GrammarFile = *grammarFile
	}

	fe, err := newFrontend(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	if *interactive {
		returnCode = runInteractive(fe)
		return
	}

	var store *cache.Store
	if cfg.CacheDir != "" {
		store, err = cache.Open(cfg.CacheDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
		defer store.Close()
	}

	sessionID := uuid.NewString()
	files := pflag.Args()
	if len(files) == 0 {
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: reading stdin: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
		returnCode = compileOne(fe, store, sessionID, "<stdin>", string(src), cfg)
		return
	}

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
		if code := compileOne(fe, store, sessionID, path, string(data), cfg); code != ExitSuccess {
			returnCode = code
		}
	}
}

func newFrontend(cfg config.Config) (*btrc.Frontend, error) {
	if cfg.GrammarFile == "" {
		return btrc.New()
	}
	text, err := os.ReadFile(cfg.GrammarFile)
	if err != nil {
		return nil, fmt.Errorf("reading grammar file: %w", err)
	}
	return btrc.NewWithGrammar(string(text))
}

// compileOne runs the frontend over one file and prints its diagnostics.
// When a cache store is open and the file's content hash is already
// recorded, the cached diagnostics are printed without re-deriving them;
// the entry is refreshed otherwise.
func compileOne(fe *btrc.Frontend, store *cache.Store, sessionID, filename, source string, cfg config.Config) int {
	if store != nil && !*dumpTokens && !*dumpAST {
		hash := cache.Hash(source)
		if entry, ok, err := store.Get(hash); err == nil && ok {
			return report(filename, entry.Errors, entry.Warnings, cfg)
		}
	}

	result, err := fe.Compile(source, filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", filename, diag.Render(err))
		return ExitCompileError
	}

	if *dumpTokens {
		for _, tok := range result.Tokens {
			fmt.Println(tok.String())
		}
		return ExitSuccess
	}
	if *dumpAST {
		fmt.Print(printer.Program(result.Program))
		return ExitSuccess
	}

	if store != nil {
		if err := store.Put(cache.Hash(source), filename, sessionID, result.Analysis.Errors, result.Analysis.Warnings); err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: %s\n", err.Error())
		}
	}
	return report(filename, result.Analysis.Errors, result.Analysis.Warnings, cfg)
}

func report(filename string, errs, warns []string, cfg config.Config) int {
	out := diag.Report(filename, errs, warns)
	if out != "" {
		fmt.Print(out)
	}
	fmt.Printf("%s: %s\n", filename, diag.Summary(len(errs), len(warns)))
	if len(errs) > 0 {
		return ExitCompileError
	}
	if cfg.WarningsAsErrors && len(warns) > 0 {
		return ExitCompileError
	}
	return ExitSuccess
}

// runInteractive compiles one snippet per line, printing its diagnostics
// (errors or warnings), or the pretty-printed form with inferred types
// when there are none. Multi-line snippets can be pasted;
// readline hands them over line by line, so a trailing backslash
// continues the current snippet on the next line.
func runInteractive(fe *btrc.Frontend) int {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: "btrc> ",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: initializing readline: %s\n", err.Error())
		return ExitInitError
	}
	defer rl.Close()

	var pending strings.Builder
	for {
		line, err := rl.Readline()
		if err != nil {
			// io.EOF on ctrl-D, readline.ErrInterrupt on ctrl-C
			return ExitSuccess
		}
		if strings.TrimSpace(line) == ":quit" {
			return ExitSuccess
		}
		if strings.HasSuffix(line, "\\") {
			pending.WriteString(strings.TrimSuffix(line, "\\"))
			pending.WriteByte('\n')
			rl.SetPrompt("  ... ")
			continue
		}
		pending.WriteString(line)
		snippet := pending.String()
		pending.Reset()
		rl.SetPrompt("btrc> ")
		if strings.TrimSpace(snippet) == "" {
			continue
		}

		result, err := fe.Compile(snippet, "<repl>")
		if err != nil {
			fmt.Println(diag.Render(err))
			continue
		}
		if out := diag.Report("<repl>", result.Analysis.Errors, result.Analysis.Warnings); out != "" {
			fmt.Print(out)
			continue
		}
		fmt.Print(printer.Program(result.Program))
	}
}
