package driver

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/strager/yamcc/lexer"
)

func TestParseMode(t *testing.T) {
	for _, s := range []string{"asm", "tokens", "ast"} {
		m, err := ParseMode(s)
		be.Err(t, err, nil)
		be.Equal(t, string(m), s)
	}

	_, err := ParseMode("wasm")
	be.Err(t, err, `unknown -emit mode "wasm"`)
}

func TestCompileStages(t *testing.T) {
	src := "{ return 1<2; }"

	toks, err := Compile(src, EmitTokens, nil)
	be.Err(t, err, nil)
	be.Equal(t, toks, "PUNCT \"{\"\nKEYWORD \"return\"\nNUM \"1\"\nPUNCT \"<\"\nNUM \"2\"\nPUNCT \";\"\nPUNCT \"}\"\n")

	tree, err := Compile(src, EmitAST, nil)
	be.Err(t, err, nil)
	be.Equal(t, tree, `(program (locals) (block (return (binary "<" (integer 1) (integer 2)))))`+"\n")

	asm, err := Compile(src, EmitAsm, nil)
	be.Err(t, err, nil)
	be.True(t, strings.HasPrefix(asm, "JMP %start\n%le\n"))
	be.True(t, strings.HasSuffix(asm, "CALL %le\nJMP %l.return\n%l.return\nSHOW\nHALT\n"))
}

func TestCompileStopsAtRequestedStage(t *testing.T) {
	// Lexes fine, does not parse.
	_, err := Compile("} {", EmitTokens, nil)
	be.Err(t, err, nil)
	_, err = Compile("} {", EmitAST, nil)
	be.Err(t, err, "parse error")

	// Parses fine, fails in code generation.
	_, err = Compile("{ 1 = 2; }", EmitAST, nil)
	be.Err(t, err, nil)
	_, err = Compile("{ 1 = 2; }", EmitAsm, nil)
	be.Err(t, err, "not an lvalue")
}

func TestCompileTrace(t *testing.T) {
	var trace strings.Builder
	_, err := Compile("{ return 7; }", EmitAsm, &trace)
	be.Err(t, err, nil)
	be.Equal(t, trace.String(), "Lexed 5 tokens\nAST: (program (locals) (block (return (integer 7))))\nGenerated 7 instructions\n")
}

func TestFormatTokensStopsAtEOF(t *testing.T) {
	toks := []lexer.Token{
		{Kind: lexer.Num, Lit: "1"},
		{Kind: lexer.EOF},
		{Kind: lexer.Num, Lit: "2"},
	}
	be.Equal(t, FormatTokens(toks), "NUM \"1\"\n")
}
