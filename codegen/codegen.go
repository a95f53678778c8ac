// Package codegen lowers an ast.Program to assembly for the stack VM.
package codegen

import (
	"strconv"

	"github.com/strager/yamcc/ast"
	"github.com/strager/yamcc/diag"
)

// Generator holds the state of one code generation run.
type Generator struct {
	prog  *ast.Program
	req   *ast.Requirements
	fn    *ast.Function // function being emitted
	label int           // last label number handed out
	code  []Instr
}

// Generate emits the whole program. No code is returned on error.
func Generate(prog *ast.Program) ([]Instr, error) {
	if helpersErr != nil {
		return nil, helpersErr
	}
	g := &Generator{prog: prog, req: prog.Req}
	if g.req == nil {
		g.req = &ast.Requirements{}
	}
	if err := g.program(); err != nil {
		return nil, err
	}
	return g.code, nil
}

func (g *Generator) emit(op string, arg string) {
	g.code = append(g.code, Instr{Op: op, Arg: arg})
}

func (g *Generator) emitLabel(name string) {
	g.code = append(g.code, Instr{Label: name})
}

func (g *Generator) nextLabel() int {
	g.label++
	return g.label
}

func (g *Generator) program() error {
	g.emit("JMP", "%start")
	for _, h := range helpers {
		if g.req.Needs(h.op) {
			g.code = append(g.code, h.Code()...)
		}
	}

	if g.prog.TopLevel {
		g.fn = g.prog.Funcs[0]
		g.emitLabel("start")
		if err := g.stmt(g.fn.Body); err != nil {
			return err
		}
		g.emitLabel(g.returnLabel())
		g.emit("SHOW", "")
		g.emit("HALT", "")
		return nil
	}

	for _, fn := range g.prog.Funcs {
		if reservedLabel(fn.Name) {
			return diag.Errorf(diag.CodegenError, fn.Pos, "'%s' is a reserved name", fn.Name)
		}
	}
	if g.prog.Func("main") == nil {
		return diag.Errorf(diag.CodegenError, diag.NoPos, "no 'main' function")
	}
	for _, fn := range g.prog.Funcs {
		g.fn = fn
		g.emitLabel(fn.Name)
		if err := g.stmt(fn.Body); err != nil {
			return err
		}
		g.emitLabel(g.returnLabel())
		g.emit("RET", "")
	}
	g.emitLabel("start")
	g.emit("CALL", "%main")
	g.emit("SHOW", "")
	g.emit("HALT", "")
	return nil
}

// reservedLabel reports whether a function called name would share its
// label with the entry point or a helper routine.
func reservedLabel(name string) bool {
	if name == "start" {
		return true
	}
	return helperNamed(name) != nil
}

func (g *Generator) returnLabel() string {
	if g.prog.TopLevel {
		return "l.return"
	}
	return "l.return." + g.fn.Name
}

func (g *Generator) name(v *ast.Var) string {
	return g.fn.Locals[v.Index].Name
}

func (g *Generator) stmt(s ast.Stmt) error {
	switch s := s.(type) {
	case *ast.Block:
		for _, child := range s.Stmts {
			if err := g.stmt(child); err != nil {
				return err
			}
		}
		return nil

	case *ast.If:
		c := strconv.Itoa(g.nextLabel())
		if err := g.expr(s.Cond); err != nil {
			return err
		}
		g.emit("JZ", "%l.else."+c)
		if err := g.stmt(s.Then); err != nil {
			return err
		}
		g.emit("JMP", "%l.end."+c)
		g.emitLabel("l.else." + c)
		if s.Else != nil {
			if err := g.stmt(s.Else); err != nil {
				return err
			}
		}
		g.emitLabel("l.end." + c)
		return nil

	case *ast.For:
		c := strconv.Itoa(g.nextLabel())
		if s.Init != nil {
			if err := g.stmt(s.Init); err != nil {
				return err
			}
		}
		g.emitLabel("l.begin." + c)
		if s.Cond != nil {
			if err := g.expr(s.Cond); err != nil {
				return err
			}
			g.emit("JZ", "%l.end."+c)
		}
		if err := g.stmt(s.Body); err != nil {
			return err
		}
		if s.Inc != nil {
			if err := g.discard(s.Inc); err != nil {
				return err
			}
		}
		g.emit("JMP", "%l.begin."+c)
		g.emitLabel("l.end." + c)
		return nil

	case *ast.Return:
		if err := g.expr(s.X); err != nil {
			return err
		}
		g.emit("JMP", "%"+g.returnLabel())
		return nil

	case *ast.ExprStmt:
		return g.discard(s.X)

	default:
		return unexpected(s)
	}
}

// discard evaluates e for its side effects and leaves the stack as it was.
func (g *Generator) discard(e ast.Expr) error {
	if a, ok := e.(*ast.Assign); ok {
		return g.store(a)
	}
	if err := g.expr(e); err != nil {
		return err
	}
	g.emit("POP", "R0")
	return nil
}

// expr pushes the value of e.
func (g *Generator) expr(e ast.Expr) error {
	switch e := e.(type) {
	case *ast.Num:
		g.emit("LOAD", strconv.FormatInt(e.Value, 10))
		return nil

	case *ast.Var:
		g.emit("LOAD", "&"+g.name(e))
		return nil

	case *ast.Neg:
		if err := g.expr(e.X); err != nil {
			return err
		}
		g.emit("NEG", "")
		return nil

	case *ast.Deref:
		if err := g.expr(e.X); err != nil {
			return err
		}
		g.emit("DEREF", "")
		return nil

	case *ast.Addr:
		v, ok := e.X.(*ast.Var)
		if !ok {
			return diag.Errorf(diag.CodegenError, e.X.Pos(), "not an lvalue")
		}
		g.emit("LOAD", "$"+g.name(v))
		return nil

	case *ast.Assign:
		if err := g.store(e); err != nil {
			return err
		}
		// Reload the stored value as the result.
		switch l := e.L.(type) {
		case *ast.Var:
			g.emit("LOAD", "&"+g.name(l))
		case *ast.Deref:
			if v, ok := l.X.(*ast.Var); ok {
				g.emit("LOAD", "&"+g.name(v))
			} else {
				g.emit("LOAD", "&"+ast.ScratchLocal)
			}
			g.emit("DEREF", "")
		}
		return nil

	case *ast.Call:
		if reservedLabel(e.Name) {
			return diag.Errorf(diag.CodegenError, e.Pos(), "'%s' is a reserved name", e.Name)
		}
		for _, arg := range e.Args {
			if err := g.expr(arg); err != nil {
				return err
			}
		}
		g.emit("CALL", "%"+e.Name)
		return nil

	case *ast.Binary:
		if err := g.expr(e.L); err != nil {
			return err
		}
		if err := g.expr(e.R); err != nil {
			return err
		}
		return g.binaryOp(e)

	default:
		return unexpected(e)
	}
}

var nativeOps = map[ast.BinaryOp]string{
	ast.OpAdd: "ADD",
	ast.OpSub: "SUB",
	ast.OpMul: "MUL",
	ast.OpDiv: "DIV",
	ast.OpEq:  "EQU",
}

func (g *Generator) binaryOp(e *ast.Binary) error {
	if op, ok := nativeOps[e.Op]; ok {
		g.emit(op, "")
		return nil
	}
	h := helperFor(e.Op)
	if h == nil {
		return unexpected(e)
	}
	if !g.req.Needs(e.Op) {
		return diag.Errorf(diag.CodegenError, e.Pos(), "operator '%s' used but its helper routine was not requested", e.Op)
	}
	g.emit("CALL", "%"+h.Name)
	return nil
}

// store evaluates a.R and pops it into the location a.L names.
func (g *Generator) store(a *ast.Assign) error {
	if err := g.expr(a.R); err != nil {
		return err
	}
	switch l := a.L.(type) {
	case *ast.Var:
		g.emit("POP", "&"+g.name(l))
		return nil
	case *ast.Deref:
		if v, ok := l.X.(*ast.Var); ok {
			g.emit("POP", "*"+g.name(v))
			return nil
		}
		if err := g.expr(l.X); err != nil {
			return err
		}
		g.emit("POP", "&"+ast.ScratchLocal)
		g.emit("POP", "*"+ast.ScratchLocal)
		return nil
	default:
		return diag.Errorf(diag.CodegenError, a.L.Pos(), "not an lvalue")
	}
}

func unexpected(n ast.Node) error {
	offset := diag.NoPos
	if n != nil {
		offset = n.Pos()
	}
	return diag.Errorf(diag.CodegenError, offset, "unexpected node kind %T", n)
}
