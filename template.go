package srsym

import (
	"slices"

	"github.com/zephyrtronium/srsym/sym"
)

// Template is an operator defined by an expression in terms of parameter
// symbols. Calling it substitutes its operands for the parameters.
type Template struct {
	params []string
	body   *sym.Expr
}

// NewTemplate creates an operator from a parameter list and a body written
// with builtin operator tokens, e.g. NewTemplate([]string{"x", "y"},
// "sqrt_abs(square(x) + square(y))").
//
// Parameters must be unique and must not be operator tokens. Bodies that fail
// to parse produce a *ConstructionError.
func NewTemplate(params []string, body string) (*Template, error) {
	syms := make(map[string]*sym.Expr, len(params))
	for _, p := range params {
		if _, ok := syms[p]; ok {
			return nil, &NamingConflictError{Name: p, Conflict: ConflictParameter}
		}
		if _, ok := builtinRegistry.Lookup(p); ok {
			return nil, &NamingConflictError{Name: p, Conflict: ConflictOperator}
		}
		syms[p] = sym.Symbol(p)
	}
	e, err := sym.ParseString(body, sym.Funcs(builtinRegistry.Funcs()), sym.Symbols(syms), sym.Evaluate(false))
	if err != nil {
		return nil, &ConstructionError{Equation: body, Err: err}
	}
	return &Template{params: slices.Clone(params), body: e}, nil
}

// Call substitutes args for the template's parameters. It implements
// sym.Func.
func (t *Template) Call(args []*sym.Expr) (*sym.Expr, error) {
	m := make(map[string]*sym.Expr, len(args))
	for i, p := range t.params {
		m[p] = args[i]
	}
	return sym.Subs(t.body, m), nil
}

// CanCall reports whether n is the number of parameters. It implements
// sym.Func.
func (t *Template) CanCall(n int) bool {
	return n == len(t.params)
}

// Params returns the template's parameter names.
func (t *Template) Params() []string {
	return slices.Clone(t.params)
}

// Body returns the template's expression in terms of its parameters.
func (t *Template) Body() *sym.Expr {
	return t.body
}
