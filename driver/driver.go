// Package driver runs the compiler stages in order and renders the output
// of the last one requested.
package driver

import (
	"fmt"
	"io"
	"strings"

	"github.com/strager/yamcc/ast"
	"github.com/strager/yamcc/codegen"
	"github.com/strager/yamcc/lexer"
	"github.com/strager/yamcc/parser"
)

// Mode selects which stage's output Compile returns.
type Mode string

const (
	EmitAsm    Mode = "asm"
	EmitTokens Mode = "tokens"
	EmitAST    Mode = "ast"
)

// ParseMode returns the mode spelled s.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case EmitAsm, EmitTokens, EmitAST:
		return m, nil
	}
	return "", fmt.Errorf("unknown -emit mode %q (want asm, tokens, or ast)", s)
}

// Compile runs the pipeline up to the stage mode asks for and returns that
// stage's rendering. If trace is non-nil, a summary of each stage is
// written to it.
func Compile(src string, mode Mode, trace io.Writer) (string, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return "", err
	}
	if trace != nil {
		fmt.Fprintf(trace, "Lexed %d tokens\n", len(toks)-1)
	}
	if mode == EmitTokens {
		return FormatTokens(toks), nil
	}

	prog, err := parser.Parse(toks, &ast.Requirements{})
	if err != nil {
		return "", err
	}
	sexpr := ast.ProgramSExpr(prog)
	if trace != nil {
		fmt.Fprintf(trace, "AST: %s\n", sexpr)
	}
	if mode == EmitAST {
		return sexpr + "\n", nil
	}

	code, err := codegen.Generate(prog)
	if err != nil {
		return "", err
	}
	if trace != nil {
		fmt.Fprintf(trace, "Generated %d instructions\n", len(code))
	}
	return codegen.Format(code), nil
}

// FormatTokens prints one token per line, leaving out the EOF marker.
func FormatTokens(toks []lexer.Token) string {
	var b strings.Builder
	for _, tok := range toks {
		if tok.Kind == lexer.EOF {
			break
		}
		b.WriteString(tok.String())
		b.WriteByte('\n')
	}
	return b.String()
}
