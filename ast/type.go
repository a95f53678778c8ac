package ast

// TypeKind is the shape of a Type.
type TypeKind int

const (
	TyInt TypeKind = iota
	TyPtr
)

// Type is int or a pointer to another Type.
type Type struct {
	Kind TypeKind
	Base *Type // if Kind is TyPtr, the pointee
}

// IntType is shared by every int-typed value.
var IntType = &Type{Kind: TyInt}

// PointerTo returns the type of a pointer to base.
func PointerTo(base *Type) *Type {
	return &Type{Kind: TyPtr, Base: base}
}

func (t *Type) IsPointer() bool {
	return t != nil && t.Kind == TyPtr
}

func (t *Type) String() string {
	if t.IsPointer() {
		return t.Base.String() + "*"
	}
	return "int"
}

// TypeOf computes the type of e, an expression inside fn.
func TypeOf(fn *Function, e Expr) *Type {
	switch e := e.(type) {
	case *Var:
		return fn.Locals[e.Index].Type
	case *Addr:
		return PointerTo(TypeOf(fn, e.X))
	case *Deref:
		if t := TypeOf(fn, e.X); t.IsPointer() {
			return t.Base
		}
		return IntType
	case *Assign:
		return TypeOf(fn, e.L)
	case *Binary:
		if e.Op != OpAdd && e.Op != OpSub {
			return IntType
		}
		l, r := TypeOf(fn, e.L), TypeOf(fn, e.R)
		switch {
		case l.IsPointer() && r.IsPointer():
			// pointer - pointer
			return IntType
		case l.IsPointer():
			return l
		case r.IsPointer() && e.Op == OpAdd:
			return r
		}
		return IntType
	default:
		return IntType
	}
}
