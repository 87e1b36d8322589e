package srsym

import (
	"maps"
	"slices"

	"github.com/zephyrtronium/srsym/sym"
)

// Operator is a named construction of an expression from one or two operands.
type Operator struct {
	// Name is the operator token as it appears in equations.
	Name string
	// Arity is the number of operands, 1 or 2.
	Arity int

	fn sym.Func
}

// NewOperator creates an operator from a function. fn must be callable with
// arity arguments.
func NewOperator(name string, arity int, fn sym.Func) Operator {
	return Operator{Name: name, Arity: arity, fn: fn}
}

func unary(name string, f func(x *sym.Expr) *sym.Expr) Operator {
	return Operator{Name: name, Arity: 1, fn: sym.Monadic(f)}
}

func binary(name string, f func(x, y *sym.Expr) *sym.Expr) Operator {
	return Operator{Name: name, Arity: 2, fn: sym.Dyadic(f)}
}

// Call builds the operator's expression. It implements sym.Func.
func (op Operator) Call(args []*sym.Expr) (*sym.Expr, error) {
	return op.fn.Call(args)
}

// CanCall reports whether n is the operator's arity. It implements sym.Func.
func (op Operator) CanCall(n int) bool {
	return n == op.Arity
}

// placeholders are the operand symbols used by Definition.
var placeholders = []*sym.Expr{sym.Symbol("x"), sym.Symbol("y")}

// Definition returns the operator applied to the symbols x and, for binary
// operators, y.
func (op Operator) Definition() (*sym.Expr, error) {
	return op.fn.Call(placeholders[:op.Arity])
}

// Registry is an immutable set of operators keyed by token. A Registry is
// safe for concurrent use.
type Registry struct {
	ops   map[string]Operator
	names []string
}

// NewRegistry creates a registry holding ops. Duplicate names and arities
// other than 1 or 2 cause a panic.
func NewRegistry(ops ...Operator) *Registry {
	r := &Registry{ops: make(map[string]Operator, len(ops))}
	for _, op := range ops {
		if _, ok := r.ops[op.Name]; ok {
			panic("srsym: duplicate operator " + op.Name)
		}
		if op.Arity != 1 && op.Arity != 2 {
			panic("srsym: operator " + op.Name + " has invalid arity")
		}
		r.ops[op.Name] = op
	}
	r.names = slices.Sorted(maps.Keys(r.ops))
	return r
}

var builtinRegistry = NewRegistry(builtins...)

// Builtins returns the registry of operators available to every translation.
func Builtins() *Registry {
	return builtinRegistry
}

// Lookup returns the operator with the given token.
func (r *Registry) Lookup(name string) (Operator, bool) {
	op, ok := r.ops[name]
	return op, ok
}

// Names returns the sorted operator tokens.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// Len returns the number of operators.
func (r *Registry) Len() int {
	return len(r.ops)
}

// Funcs returns a new map of the registry's operators as parser functions.
func (r *Registry) Funcs() map[string]sym.Func {
	m := make(map[string]sym.Func, len(r.ops))
	for k, op := range r.ops {
		m[k] = op
	}
	return m
}

// With returns a new registry containing r's operators and ops. Operators in
// ops replace those in r with the same name.
func (r *Registry) With(ops ...Operator) *Registry {
	m := maps.Clone(r.ops)
	for _, op := range ops {
		m[op.Name] = op
	}
	return NewRegistry(slices.Collect(maps.Values(m))...)
}
