package ast

// Symbol is a local variable.
type Symbol struct {
	Name string
	Type *Type
	Pos  int // where the name first appeared
}

// ScratchLocal is the VM cell that holds the address for a store through a
// computed pointer. Programs may not declare a local with this name.
const ScratchLocal = "lval"

// Function is a function definition. The top-level block of a program
// without function definitions is a Function with an empty Name.
type Function struct {
	Name       string
	ReturnType *Type
	Body       *Block
	Locals     []*Symbol // in declaration order
	Pos        int
}

// Lookup returns the index of the local named name.
func (fn *Function) Lookup(name string) (int, bool) {
	for i, sym := range fn.Locals {
		if sym.Name == name {
			return i, true
		}
	}
	return -1, false
}

// Declare appends a new local and returns its index. Callers check for an
// existing local with Lookup first.
func (fn *Function) Declare(name string, ty *Type, pos int) int {
	fn.Locals = append(fn.Locals, &Symbol{Name: name, Type: ty, Pos: pos})
	return len(fn.Locals) - 1
}

// Program is a whole compilation unit.
type Program struct {
	Funcs    []*Function
	TopLevel bool // the program was a single "{ ... }" block
	Req      *Requirements
}

// Func returns the function named name, or nil.
func (p *Program) Func(name string) *Function {
	for _, fn := range p.Funcs {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

// Requirements records which comparison helper routines the program uses.
// Flags are only ever set, never cleared.
type Requirements struct {
	LessThan  bool
	LessEqual bool
	NotEqual  bool
}

// Require marks the helper for op as needed. Operators the VM implements
// natively are ignored.
func (r *Requirements) Require(op BinaryOp) {
	switch op {
	case OpLt:
		r.LessThan = true
	case OpLe:
		r.LessEqual = true
	case OpNe:
		r.NotEqual = true
	}
}

// Needs reports whether the helper for op was required.
func (r *Requirements) Needs(op BinaryOp) bool {
	switch op {
	case OpLt:
		return r.LessThan
	case OpLe:
		return r.LessEqual
	case OpNe:
		return r.NotEqual
	}
	return false
}
