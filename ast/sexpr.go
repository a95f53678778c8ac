package ast

import (
	"strconv"
	"strings"
)

// ProgramSExpr renders a whole program as an s-expression.
func ProgramSExpr(p *Program) string {
	if p.TopLevel && len(p.Funcs) == 1 {
		fn := p.Funcs[0]
		return "(program " + localsSExpr(fn) + " " + SExpr(fn, fn.Body) + ")"
	}

	result := "(program"
	for _, fn := range p.Funcs {
		result += " " + FuncSExpr(fn)
	}
	return result + ")"
}

// FuncSExpr renders a function definition as an s-expression.
func FuncSExpr(fn *Function) string {
	return "(func \"" + fn.Name + "\" " + TypeSExpr(fn.ReturnType) + " " + localsSExpr(fn) + " " + SExpr(fn, fn.Body) + ")"
}

func localsSExpr(fn *Function) string {
	var b strings.Builder
	b.WriteString("(locals")
	for _, sym := range fn.Locals {
		b.WriteString(" (local \"" + sym.Name + "\" " + TypeSExpr(sym.Type) + ")")
	}
	b.WriteString(")")
	return b.String()
}

// TypeSExpr renders int as int and pointers as (ptr base).
func TypeSExpr(t *Type) string {
	if t.IsPointer() {
		return "(ptr " + TypeSExpr(t.Base) + ")"
	}
	return "int"
}

// SExpr renders node, which belongs to fn, as an s-expression. Missing
// optional children render as nil.
func SExpr(fn *Function, node Node) string {
	switch n := node.(type) {
	case nil:
		return "nil"
	case *Num:
		return "(integer " + strconv.FormatInt(n.Value, 10) + ")"
	case *Var:
		return "(var \"" + fn.Locals[n.Index].Name + "\")"
	case *Neg:
		return "(neg " + SExpr(fn, n.X) + ")"
	case *Addr:
		return "(addr " + SExpr(fn, n.X) + ")"
	case *Deref:
		return "(deref " + SExpr(fn, n.X) + ")"
	case *Binary:
		return "(binary \"" + n.Op.String() + "\" " + SExpr(fn, n.L) + " " + SExpr(fn, n.R) + ")"
	case *Assign:
		return "(assign " + SExpr(fn, n.L) + " " + SExpr(fn, n.R) + ")"
	case *Call:
		result := "(call \"" + n.Name + "\""
		for _, arg := range n.Args {
			result += " " + SExpr(fn, arg)
		}
		return result + ")"
	case *Block:
		result := "(block"
		for _, stmt := range n.Stmts {
			result += " " + SExpr(fn, stmt)
		}
		return result + ")"
	case *If:
		result := "(if " + SExpr(fn, n.Cond) + " " + SExpr(fn, n.Then)
		if n.Else != nil {
			result += " " + SExpr(fn, n.Else)
		}
		return result + ")"
	case *For:
		return "(for " + SExpr(fn, n.Init) + " " + SExpr(fn, n.Cond) + " " +
			SExpr(fn, n.Inc) + " " + SExpr(fn, n.Body) + ")"
	case *Return:
		return "(return " + SExpr(fn, n.X) + ")"
	case *ExprStmt:
		return "(expr " + SExpr(fn, n.X) + ")"
	default:
		return ""
	}
}
