// Package ast declares the syntax tree produced by the parser and consumed
// by the code generator.
package ast

import "fmt"

// Node is any syntax tree node.
type Node interface {
	Pos() int // byte offset of the node's representative token
}

// Expr is an expression node. Evaluating one leaves a single value on the
// VM's operand stack.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node. Statements leave nothing on the stack.
type Stmt interface {
	Node
	stmtNode()
}

// Span records where a node came from in the source.
type Span struct {
	Offset int
}

func (s Span) Pos() int { return s.Offset }

// BinaryOp is the operator of a Binary expression. Greater-than forms are
// rewritten by the parser and have no operator of their own.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNe
	OpLt
	OpLe
)

var binaryOpNames = [...]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpEq:  "==",
	OpNe:  "!=",
	OpLt:  "<",
	OpLe:  "<=",
}

func (op BinaryOp) String() string {
	if int(op) >= 0 && int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return fmt.Sprintf("BinaryOp(%d)", int(op))
}

// LookupBinaryOp returns the operator spelled s.
func LookupBinaryOp(s string) (BinaryOp, bool) {
	for op, name := range binaryOpNames {
		if name == s {
			return BinaryOp(op), true
		}
	}
	return 0, false
}

// IsComparison reports whether op yields a truth value.
func (op BinaryOp) IsComparison() bool {
	switch op {
	case OpEq, OpNe, OpLt, OpLe:
		return true
	}
	return false
}

type (
	// Num is an integer literal.
	Num struct {
		Span
		Value int64
	}

	// Neg is unary minus.
	Neg struct {
		Span
		X Expr
	}

	// Addr is unary &.
	Addr struct {
		Span
		X Expr
	}

	// Deref is unary *.
	Deref struct {
		Span
		X Expr
	}

	// Binary is an arithmetic or comparison operation.
	Binary struct {
		Span
		Op   BinaryOp
		L, R Expr
	}

	// Assign stores R into the location designated by L. Whether L is
	// addressable is checked during code generation.
	Assign struct {
		Span
		L, R Expr
	}

	// Var references a local variable by its index in Function.Locals.
	Var struct {
		Span
		Index int
	}

	// Call is a function call. Args are evaluated left to right.
	Call struct {
		Span
		Name string
		Args []Expr
	}
)

func (*Num) exprNode()    {}
func (*Neg) exprNode()    {}
func (*Addr) exprNode()   {}
func (*Deref) exprNode()  {}
func (*Binary) exprNode() {}
func (*Assign) exprNode() {}
func (*Var) exprNode()    {}
func (*Call) exprNode()   {}

type (
	// Block is a brace-delimited statement list. An empty statement (";")
	// is an empty Block.
	Block struct {
		Span
		Stmts []Stmt
	}

	// If is a conditional. Else may be nil.
	If struct {
		Span
		Cond Expr
		Then Stmt
		Else Stmt
	}

	// For is a for or while loop. Init, Cond, and Inc may each be nil.
	For struct {
		Span
		Init Stmt
		Cond Expr
		Inc  Expr
		Body Stmt
	}

	// Return ends the enclosing function with the value of X.
	Return struct {
		Span
		X Expr
	}

	// ExprStmt evaluates X for its side effects.
	ExprStmt struct {
		Span
		X Expr
	}
)

func (*Block) stmtNode()    {}
func (*If) stmtNode()       {}
func (*For) stmtNode()      {}
func (*Return) stmtNode()   {}
func (*ExprStmt) stmtNode() {}
