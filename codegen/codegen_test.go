package codegen

import (
	"errors"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/strager/yamcc/ast"
	"github.com/strager/yamcc/diag"
	"github.com/strager/yamcc/lexer"
	"github.com/strager/yamcc/parser"
)

func compile(src string) (string, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return "", err
	}
	prog, err := parser.Parse(toks, &ast.Requirements{})
	if err != nil {
		return "", err
	}
	code, err := Generate(prog)
	if err != nil {
		return "", err
	}
	return Format(code), nil
}

func mustCompile(t *testing.T, src string) string {
	t.Helper()
	asm, err := compile(src)
	be.Err(t, err, nil)
	return asm
}

func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}

func codegenError(t *testing.T, src string) *diag.Error {
	t.Helper()
	_, err := compile(src)
	var de *diag.Error
	be.True(t, errors.As(err, &de))
	be.Equal(t, de.Kind, diag.CodegenError)
	return de
}

func TestSingleLiteral(t *testing.T) {
	be.Equal(t, mustCompile(t, "{ return 42; }"), lines(
		"JMP %start",
		"%start",
		"LOAD 42",
		"JMP %l.return",
		"%l.return",
		"SHOW",
		"HALT",
	))
}

func TestArithmeticPrecedence(t *testing.T) {
	be.Equal(t, mustCompile(t, "{ return 1+2*3; }"), lines(
		"JMP %start",
		"%start",
		"LOAD 1",
		"LOAD 2",
		"LOAD 3",
		"MUL",
		"ADD",
		"JMP %l.return",
		"%l.return",
		"SHOW",
		"HALT",
	))
}

func TestNativeOperators(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{"{ return 5-3; }", []string{"LOAD 5", "LOAD 3", "SUB"}},
		{"{ return 6/2; }", []string{"LOAD 6", "LOAD 2", "DIV"}},
		{"{ return 1==1; }", []string{"LOAD 1", "LOAD 1", "EQU"}},
		{"{ return -(1+2); }", []string{"LOAD 1", "LOAD 2", "ADD", "NEG"}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			want := append([]string{"JMP %start", "%start"}, tt.want...)
			want = append(want, "JMP %l.return", "%l.return", "SHOW", "HALT")
			be.Equal(t, mustCompile(t, tt.src), lines(want...))
		})
	}
}

func TestGreaterThanMatchesSwappedLessThan(t *testing.T) {
	be.Equal(t, mustCompile(t, "{ return a>b; }"), mustCompile(t, "{ return b<a; }"))
	be.Equal(t, mustCompile(t, "{ return a>=b; }"), mustCompile(t, "{ return b<=a; }"))
}

func TestHelperEmittedOnce(t *testing.T) {
	asm := mustCompile(t, "{ a!=1; b!=2; return a!=b; }")
	be.Equal(t, strings.Count(asm, "\n%ne\n"), 1)
	be.Equal(t, strings.Count(asm, "CALL %ne\n"), 3)
	be.True(t, !strings.Contains(asm, "%le\n"))
	be.True(t, !strings.Contains(asm, "%leq\n"))
}

func TestHelperOrder(t *testing.T) {
	asm := mustCompile(t, "{ return (a!=b) + (a<=b) + (a<b); }")
	le := strings.Index(asm, "\n%le\n")
	leq := strings.Index(asm, "\n%leq\n")
	ne := strings.Index(asm, "\n%ne\n")
	start := strings.Index(asm, "\n%start\n")
	be.True(t, le > 0)
	be.True(t, le < leq)
	be.True(t, leq < ne)
	be.True(t, ne < start)

	// No label is defined twice.
	seen := map[string]bool{}
	for _, line := range strings.Split(strings.TrimSuffix(asm, "\n"), "\n") {
		if strings.HasPrefix(line, "%") {
			be.True(t, !seen[line])
			seen[line] = true
		}
	}
}

func TestWhileMatchesFor(t *testing.T) {
	be.Equal(t,
		mustCompile(t, "{ i=0; while (i<10) i=i+1; return i; }"),
		mustCompile(t, "{ i=0; for (; i<10;) i=i+1; return i; }"))
}

func TestForLoop(t *testing.T) {
	be.Equal(t, mustCompile(t, "{ for (i=0; i<3; i=i+1) x=x+i; return x; }"), lines(
		"JMP %start",
		"%le",
		"SUB",
		"JN %le.less",
		"POP R0",
		"LOAD 0",
		"JMP %le.end",
		"%le.less",
		"POP R0",
		"LOAD 1",
		"%le.end",
		"RET",
		"%start",
		"LOAD 0",
		"POP &i",
		"%l.begin.1",
		"LOAD &i",
		"LOAD 3",
		"CALL %le",
		"JZ %l.end.1",
		"LOAD &x",
		"LOAD &i",
		"ADD",
		"POP &x",
		"LOAD &i",
		"LOAD 1",
		"ADD",
		"POP &i",
		"JMP %l.begin.1",
		"%l.end.1",
		"LOAD &x",
		"JMP %l.return",
		"%l.return",
		"SHOW",
		"HALT",
	))
}

func TestEndlessLoop(t *testing.T) {
	be.Equal(t, mustCompile(t, "{ for (;;) ; }"), lines(
		"JMP %start",
		"%start",
		"%l.begin.1",
		"JMP %l.begin.1",
		"%l.end.1",
		"%l.return",
		"SHOW",
		"HALT",
	))
}

func TestIfElse(t *testing.T) {
	be.Equal(t, mustCompile(t, "{ if (1) return 2; else return 3; if (0) return 4; }"), lines(
		"JMP %start",
		"%start",
		"LOAD 1",
		"JZ %l.else.1",
		"LOAD 2",
		"JMP %l.return",
		"JMP %l.end.1",
		"%l.else.1",
		"LOAD 3",
		"JMP %l.return",
		"%l.end.1",
		"LOAD 0",
		"JZ %l.else.2",
		"LOAD 4",
		"JMP %l.return",
		"JMP %l.end.2",
		"%l.else.2",
		"%l.end.2",
		"%l.return",
		"SHOW",
		"HALT",
	))
}

func TestNestedLabelsAreUnique(t *testing.T) {
	asm := mustCompile(t, "{ while (1) { if (1) { while (1) ; } } return 0; }")
	be.True(t, strings.Contains(asm, "%l.begin.1\n"))
	be.True(t, strings.Contains(asm, "%l.else.2\n"))
	be.True(t, strings.Contains(asm, "%l.begin.3\n"))
	be.True(t, !strings.Contains(asm, ".4\n"))
}

func TestPointerStores(t *testing.T) {
	be.Equal(t, mustCompile(t, "{ x=3; y=&x; *y=5; *(y+1)=6; return *y; }"), lines(
		"JMP %start",
		"%start",
		"LOAD 3",
		"POP &x",
		"LOAD $x",
		"POP &y",
		"LOAD 5",
		"POP *y",
		"LOAD 6",
		"LOAD &y",
		"LOAD 1",
		"ADD",
		"POP &lval",
		"POP *lval",
		"LOAD &y",
		"DEREF",
		"JMP %l.return",
		"%l.return",
		"SHOW",
		"HALT",
	))
}

func TestAssignmentValue(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{"{ return (a=3); }", []string{"LOAD 3", "POP &a", "LOAD &a"}},
		{"{ y=&x; return *y=4; }", []string{"LOAD $x", "POP &y", "LOAD 4", "POP *y", "LOAD &y", "DEREF"}},
		{
			"{ y=&x; return *(y-1)=4; }",
			[]string{"LOAD $x", "POP &y", "LOAD 4", "LOAD &y", "LOAD 1", "SUB", "POP &lval", "POP *lval", "LOAD &lval", "DEREF"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			want := append([]string{"JMP %start", "%start"}, tt.want...)
			want = append(want, "JMP %l.return", "%l.return", "SHOW", "HALT")
			be.Equal(t, mustCompile(t, tt.src), lines(want...))
		})
	}
}

func TestExpressionStatementIsDiscarded(t *testing.T) {
	be.Equal(t, mustCompile(t, "{ 1+2; f(); return 0; }"), lines(
		"JMP %start",
		"%start",
		"LOAD 1",
		"LOAD 2",
		"ADD",
		"POP R0",
		"CALL %f",
		"POP R0",
		"LOAD 0",
		"JMP %l.return",
		"%l.return",
		"SHOW",
		"HALT",
	))
}

func TestDeclarationInitializers(t *testing.T) {
	be.Equal(t, mustCompile(t, "{ int x=3, *y=&x, z; return *y; }"), lines(
		"JMP %start",
		"%start",
		"LOAD 3",
		"POP &x",
		"LOAD $x",
		"POP &y",
		"LOAD &y",
		"DEREF",
		"JMP %l.return",
		"%l.return",
		"SHOW",
		"HALT",
	))
}

func TestFunctions(t *testing.T) {
	be.Equal(t, mustCompile(t, "int ret() { return 3; } int main() { return ret() + add(1, x); }"), lines(
		"JMP %start",
		"%ret",
		"LOAD 3",
		"JMP %l.return.ret",
		"%l.return.ret",
		"RET",
		"%main",
		"CALL %ret",
		"LOAD 1",
		"LOAD &x",
		"CALL %add",
		"ADD",
		"JMP %l.return.main",
		"%l.return.main",
		"RET",
		"%start",
		"CALL %main",
		"SHOW",
		"HALT",
	))
}

func TestLabelCounterSpansFunctions(t *testing.T) {
	asm := mustCompile(t, "int f() { if (1) return 1; return 0; } int main() { if (1) return f(); return 0; }")
	be.True(t, strings.Contains(asm, "%l.else.1\n"))
	be.True(t, strings.Contains(asm, "%l.else.2\n"))
}

func TestCodegenErrors(t *testing.T) {
	tests := []struct {
		src    string
		msg    string
		offset int
	}{
		{"{ 1 = 2; }", "not an lvalue", 2},
		{"{ return &1; }", "not an lvalue", 10},
		{"{ (a+b) = 2; }", "not an lvalue", 4},
		{"int f() { return 0; }", "no 'main' function", diag.NoPos},
		{"", "no 'main' function", diag.NoPos},
		{"int le() { return 7; } int main() { return le() + (1 < 2); }", "'le' is a reserved name", 4},
		{"int start() { return 1; } int main() { return start(); }", "'start' is a reserved name", 4},
		{"{ return le(); }", "'le' is a reserved name", 9},
		{"int main() { return ne(1); }", "'ne' is a reserved name", 20},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			de := codegenError(t, tt.src)
			be.True(t, strings.Contains(de.Msg, tt.msg))
			be.Equal(t, de.Offset, tt.offset)
		})
	}
}

func TestReservedNamesOnlyApplyToFunctions(t *testing.T) {
	asm := mustCompile(t, "int leq2() { return 1; } int main() { le = 2; start = le; return leq2() + start; }")
	be.True(t, strings.Contains(asm, "%leq2\n"))
	be.True(t, strings.Contains(asm, "POP &le\n"))
	be.True(t, strings.Contains(asm, "POP &start\n"))
}

func TestComparisonWithoutRequirement(t *testing.T) {
	fn := &ast.Function{ReturnType: ast.IntType, Body: &ast.Block{Stmts: []ast.Stmt{
		&ast.Return{X: &ast.Binary{Span: ast.Span{Offset: 7}, Op: ast.OpLt, L: &ast.Num{Value: 1}, R: &ast.Num{Value: 2}}},
	}}}
	prog := &ast.Program{Funcs: []*ast.Function{fn}, TopLevel: true, Req: &ast.Requirements{}}
	code, err := Generate(prog)
	be.True(t, code == nil)
	var de *diag.Error
	be.True(t, errors.As(err, &de))
	be.Equal(t, de.Kind, diag.CodegenError)
	be.Equal(t, de.Offset, 7)
}

func TestUnexpectedNode(t *testing.T) {
	fn := &ast.Function{ReturnType: ast.IntType, Body: &ast.Block{Stmts: []ast.Stmt{
		&ast.Return{},
	}}}
	prog := &ast.Program{Funcs: []*ast.Function{fn}, TopLevel: true}
	_, err := Generate(prog)
	var de *diag.Error
	be.True(t, errors.As(err, &de))
	be.Equal(t, de.Msg, "unexpected node kind <nil>")
	be.Equal(t, de.Offset, diag.NoPos)
}

func TestGenerateIsRepeatable(t *testing.T) {
	src := "{ if (a<b) return 1; while (a!=b) a=a+1; return a; }"
	be.Equal(t, mustCompile(t, src), mustCompile(t, src))
}
