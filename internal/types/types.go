package types

import "fmt"

// Kind enumerates the shapes an inferred type can take.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindNamed is a nominal type, possibly with type arguments: List(Int).
	KindNamed
	// KindFn is a function type: fn(a, b) -> c.
	KindFn
	// KindTuple is an anonymous product: #(a, b).
	KindTuple
	// KindVar is an unbound type variable the checker could not resolve.
	KindVar
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindNamed:
		return "named"
	case KindFn:
		return "fn"
	case KindTuple:
		return "tuple"
	case KindVar:
		return "var"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a structural description of an inferred type as reported by the
// compiler. Only the fields relevant to Kind are set.
type Type struct {
	Kind   Kind
	Module string  // KindNamed: defining module, "" for builtins
	Name   string  // KindNamed
	Args   []*Type // KindNamed arguments, KindFn parameters, KindTuple elements
	Return *Type   // KindFn
	VarID  uint64  // KindVar
}

// Named builds a nominal type.
func Named(module, name string, args ...*Type) *Type {
	return &Type{Kind: KindNamed, Module: module, Name: name, Args: args}
}

// Fn builds a function type.
func Fn(params []*Type, ret *Type) *Type {
	return &Type{Kind: KindFn, Args: params, Return: ret}
}

// Tuple builds a tuple type.
func Tuple(elems ...*Type) *Type {
	return &Type{Kind: KindTuple, Args: elems}
}

// Var builds an unbound type variable.
func Var(id uint64) *Type {
	return &Type{Kind: KindVar, VarID: id}
}

// IsVariable reports whether t is an unresolved type variable. A nil type is
// treated as unresolved.
func (t *Type) IsVariable() bool {
	return t == nil || t.Kind == KindVar
}

func (t *Type) String() string {
	return NewPrinter().Print(t)
}
