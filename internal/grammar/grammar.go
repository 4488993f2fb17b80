// Package grammar loads the EBNF grammar file that is the single source of
// truth for btrc's keyword and operator tables. The lexer takes its
// operator table from it (keywords are classified through
// token.Keywords), and Validate checks that every keyword and operator
// maps to an existing token kind.
package grammar

import (
	_ "embed"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/schiffy91/btrc-sub001/internal/token"
)

// Info is the structured information extracted from the EBNF grammar.
type Info struct {
	Keywords      map[string]bool
	Operators     []string // sorted longest-first
	KeywordToKind map[string]string
	OpToKind      map[string]string
}

// charNames maps a single operator/delimiter character to its token-kind
// name component. Multi-character operators join their components with an
// underscore unless overridden in specialOps.
var charNames = map[byte]string{
	'+': "PLUS", '-': "MINUS", '*': "STAR", '/': "SLASH", '%': "PERCENT",
	'=': "EQ", '<': "LT", '>': "GT", '!': "BANG", '&': "AMP",
	'|': "PIPE", '^': "CARET", '~': "TILDE", '?': "QUESTION",
	'.': "DOT", ',': "COMMA", ';': "SEMICOLON", ':': "COLON",
	'(': "LPAREN", ')': "RPAREN", '[': "LBRACKET", ']': "RBRACKET",
	'{': "LBRACE", '}': "RBRACE",
}

// specialOps overrides the character-join convention for irregular names.
var specialOps = map[string]string{
	"->": "ARROW",
	"=>": "FAT_ARROW",
}

// opToKindName derives a TokenType-style name from an operator string.
func opToKindName(op string) (string, error) {
	if name, ok := specialOps[op]; ok {
		return name, nil
	}
	if len(op) == 1 {
		name, ok := charNames[op[0]]
		if !ok {
			return "", fmt.Errorf("no character name for %q; add it to charNames", op)
		}
		return name, nil
	}
	parts := make([]string, 0, len(op))
	for i := 0; i < len(op); i++ {
		name, ok := charNames[op[i]]
		if !ok {
			return "", fmt.Errorf("no character name for %q in operator %q; add it to charNames", string(op[i]), op)
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, "_"), nil
}

func keywordToKindName(kw string) string {
	return strings.ToUpper(kw)
}

// extractBraceBlock returns the content between the { } that follow marker,
// handling nested braces while skipping "--" line comments, "(* *)" block
// comments, "/.../ " regex literals, and quoted strings.
func extractBraceBlock(text, marker string) (string, bool) {
	re := regexp.MustCompile(regexp.QuoteMeta(marker) + `\s*\{`)
	loc := re.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	braceStart := loc[1] - 1
	depth := 1
	i := braceStart + 1
	n := len(text)
	for i < n && depth > 0 {
		ch := text[i]
		switch {
		case ch == '-' && i+1 < n && text[i+1] == '-':
			for i < n && text[i] != '\n' {
				i++
			}
			continue
		case ch == '(' && i+1 < n && text[i+1] == '*':
			i += 2
			for i+1 < n && !(text[i] == '*' && text[i+1] == ')') {
				i++
			}
			i += 2
			continue
		case ch == '/':
			if i+1 < n && text[i+1] != '/' {
				i++
				for i < n && text[i] != '/' && text[i] != '\n' {
					if text[i] == '\\' {
						i++
					}
					i++
				}
				if i < n && text[i] == '/' {
					i++
				}
				continue
			}
		case ch == '"':
			i++
			for i < n && text[i] != '"' {
				if text[i] == '\\' {
					i++
				}
				i++
			}
			i++
			continue
		case ch == '{':
			depth++
		case ch == '}':
			depth--
		}
		i++
	}
	if depth != 0 {
		return "", false
	}
	return text[braceStart+1 : i-1], true
}

var wordPattern = regexp.MustCompile(`[a-zA-Z_]\w*`)
var lineCommentPattern = regexp.MustCompile(`--[^\n]*`)
var opCapturePattern = regexp.MustCompile(`--[^\n]*|"([^"]+)"`)

// Parse parses EBNF grammar text and extracts lexical information.
func Parse(text string) (Info, error) {
	var info Info
	info.Keywords = map[string]bool{}
	info.KeywordToKind = map[string]string{}
	info.OpToKind = map[string]string{}

	lexicalBody, ok := extractBraceBlock(text, "@lexical")
	if !ok {
		return Info{}, fmt.Errorf("no @lexical section found in grammar")
	}

	if kwBody, ok := extractBraceBlock(lexicalBody, "@keywords"); ok {
		stripped := lineCommentPattern.ReplaceAllString(kwBody, "")
		for _, kw := range wordPattern.FindAllString(stripped, -1) {
			info.Keywords[kw] = true
			info.KeywordToKind[kw] = keywordToKindName(kw)
		}
	}

	if opBody, ok := extractBraceBlock(lexicalBody, "@operators"); ok {
		var ops []string
		for _, m := range opCapturePattern.FindAllStringSubmatch(opBody, -1) {
			if m[1] != "" {
				ops = append(ops, m[1])
			}
		}
		sort.Slice(ops, func(i, j int) bool {
			if len(ops[i]) != len(ops[j]) {
				return len(ops[i]) > len(ops[j])
			}
			return ops[i] < ops[j]
		})
		info.Operators = ops
		for _, op := range ops {
			name, err := opToKindName(op)
			if err != nil {
				return Info{}, err
			}
			info.OpToKind[op] = name
		}
	}

	return info, nil
}

// Validate cross-checks every keyword- and operator-derived kind name
// against the closed token.Kind enumeration, failing fast. A mismatch is
// a build-time invariant violation, not a user-facing error.
func Validate(info Info) error {
	for kw, name := range info.KeywordToKind {
		if _, ok := token.Lookup(name); !ok {
			return fmt.Errorf("grammar keyword %q maps to token kind %q which does not exist; add it to the token package", kw, name)
		}
	}
	for op, name := range info.OpToKind {
		if _, ok := token.Lookup(name); !ok {
			return fmt.Errorf("grammar operator %q maps to token kind %q which does not exist; add it to the token package", op, name)
		}
	}
	return nil
}

//go:embed btrc.ebnf
var defaultGrammar string

// Default loads the grammar that is compiled into the binary. Passing an
// explicit grammar file to Load is only needed when experimenting with
// changes to the surface syntax.
func Default() (Info, error) {
	return Load(defaultGrammar)
}

// Load parses text and validates it in one step; this is what the lexer's
// constructor calls at startup.
func Load(text string) (Info, error) {
	info, err := Parse(text)
	if err != nil {
		return Info{}, err
	}
	if err := Validate(info); err != nil {
		return Info{}, err
	}
	return info, nil
}
