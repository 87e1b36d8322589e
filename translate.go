package srsym

import (
	"errors"
	"log/slog"
	"math"
	"reflect"
	"strconv"

	"github.com/zephyrtronium/srsym/sym"
)

// Equation is the type of equations accepted by Translate. Numeric equations
// are formatted as decimal text before parsing.
type Equation interface {
	~string | ~int | ~int64 | ~float64
}

// Env is the set of names bound for a single translation.
type Env struct {
	// Symbols maps each feature name to its symbol.
	Symbols map[string]*sym.Expr
	// Funcs maps operator tokens to their constructions.
	Funcs map[string]sym.Func
}

// NewEnv creates the binding environment for a translation. Operators in
// extra replace those of the same name in ops. If ops is nil, the builtin
// registry is used.
//
// Feature names must be unique, and none may be an operator token in ops or
// extra. Violations produce a *NamingConflictError.
func NewEnv(features []string, ops *Registry, extra map[string]sym.Func) (*Env, error) {
	if ops == nil {
		ops = builtinRegistry
	}
	env := Env{
		Symbols: make(map[string]*sym.Expr, len(features)),
		Funcs:   ops.Funcs(),
	}
	for k, f := range extra {
		env.Funcs[k] = f
	}
	for _, name := range features {
		if _, ok := env.Symbols[name]; ok {
			return nil, &NamingConflictError{Name: name, Conflict: ConflictFeature}
		}
		if _, ok := env.Funcs[name]; ok {
			return nil, &NamingConflictError{Name: name, Conflict: ConflictOperator}
		}
		env.Symbols[name] = sym.Symbol(name)
	}
	return &env, nil
}

// Options returns parse options binding the environment's names.
func (env *Env) Options() []sym.ParseOption {
	return []sym.ParseOption{sym.Funcs(env.Funcs), sym.Symbols(env.Symbols)}
}

// Translator translates equations to expression trees. The zero value uses
// the builtin operators and discards logs. A Translator is safe for
// concurrent use as long as its fields are not modified.
type Translator struct {
	// Operators is the operator registry. If nil, Builtins is used.
	Operators *Registry
	// Logger receives diagnostics. If nil, logs are discarded.
	Logger *slog.Logger
	// Evaluate requests evaluated construction, in which numeric
	// subexpressions are folded.
	Evaluate bool

	// parse is the engine's parser. If nil, sym.ParseString is used.
	parse func(string, ...sym.ParseOption) (*sym.Expr, error)
}

// Translate translates an equation to an unevaluated expression tree in
// which each feature name is a symbol and operator tokens are built by the
// builtin registry, or by extra where it has the same token.
//
// Errors are *NamingConflictError for bad feature names or
// *ConstructionError for equations that do not parse.
func Translate[E Equation](equation E, features []string, extra map[string]sym.Func) (*sym.Expr, error) {
	var t Translator
	return t.Translate(equationText(equation), features, extra)
}

// Translate translates an equation to an expression tree.
func (t *Translator) Translate(equation string, features []string, extra map[string]sym.Func) (*sym.Expr, error) {
	env, err := NewEnv(features, t.Operators, extra)
	if err != nil {
		return nil, err
	}
	e, err := t.build(equation, env.Options())
	if err != nil {
		return nil, &ConstructionError{Equation: equation, Err: err}
	}
	return e, nil
}

// build parses src, requesting unevaluated construction unless t.Evaluate is
// set. If the parser does not support the request, build retries once with
// the parser's default construction.
func (t *Translator) build(src string, opts []sym.ParseOption) (*sym.Expr, error) {
	parse := t.parse
	if parse == nil {
		parse = sym.ParseString
	}
	if t.Evaluate {
		return parse(src, opts...)
	}
	e, err := parse(src, append(opts, sym.Evaluate(false))...)
	var unsupported *sym.UnsupportedOptionError
	if errors.As(err, &unsupported) {
		t.logger().Debug("unevaluated construction unavailable; retrying with evaluation",
			"equation", src,
			"option", unsupported.Option,
		)
		return parse(src, opts...)
	}
	return e, err
}

func (t *Translator) logger() *slog.Logger {
	if t.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return t.Logger
}

// equationText formats an equation as parser input.
func equationText[E Equation](equation E) string {
	v := reflect.ValueOf(equation)
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Float64:
		return floatText(v.Float())
	}
	panic("srsym: unreachable equation kind " + v.Kind().String())
}

func floatText(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "oo"
	case math.IsInf(f, -1):
		return "-oo"
	case math.IsNaN(f):
		return "nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	for _, c := range s {
		if c == '.' || c == 'e' {
			return s
		}
	}
	return s + ".0"
}
