package sym

import "maps"

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

// binding is a name bound in a parse environment. A binding with neither a
// value nor a function parses as a plain symbol.
type binding struct {
	val *Expr
	fn  Func
}

type (
	symsopt  map[string]*Expr
	funcsopt map[string]Func
	funcopt  struct {
		name string
		fn   Func
	}
	evalopt bool
)

// parsectx holds general data for parsing.
type parsectx struct {
	// env holds local bindings. They shadow the builtin namespace.
	env map[string]binding
	// evaluate is whether to fold the parsed tree.
	evaluate bool
}

// bind sets bindings on a copy of the environment so that options never
// modify maps shared with other parses.
func (p parsectx) bind(set func(env map[string]binding)) parsectx {
	env := maps.Clone(p.env)
	if env == nil {
		env = make(map[string]binding)
	}
	set(env)
	p.env = env
	return p
}

// Symbols binds names to expressions, usually symbols, for parsing. Each name
// in the input resolves to its bound expression. A later option binding the
// same name replaces it.
func Symbols(vals map[string]*Expr) ParseOption {
	return symsopt(vals)
}

func (o symsopt) parseOption(p parsectx) parsectx {
	return p.bind(func(env map[string]binding) {
		for k, v := range o {
			env[k] = binding{val: v}
		}
	})
}

// Funcs binds a group of names to functions for parsing. Calls to each name
// use the bound function instead of any builtin. Binding a name to nil makes
// it parse as a plain symbol.
func Funcs(fns map[string]Func) ParseOption {
	return funcsopt(fns)
}

func (o funcsopt) parseOption(p parsectx) parsectx {
	return p.bind(func(env map[string]binding) {
		for k, v := range o {
			env[k] = binding{fn: v}
		}
	})
}

// ParseFunc binds a single name to a function for parsing. To disable parsing
// a builtin function, pass nil for fn.
func ParseFunc(name string, fn Func) ParseOption {
	return &funcopt{name, fn}
}

func (o *funcopt) parseOption(p parsectx) parsectx {
	return p.bind(func(env map[string]binding) {
		env[o.name] = binding{fn: o.fn}
	})
}

// Evaluate sets whether the parser applies automatic simplification to the
// result, as by Fold. The default is true. With Evaluate(false), the result
// mirrors the explicit operator structure of the input: "1 + 1" remains a sum.
func Evaluate(evaluate bool) ParseOption {
	return evalopt(evaluate)
}

func (o evalopt) parseOption(p parsectx) parsectx {
	p.evaluate = bool(o)
	return p
}

// lookup resolves an identifier. local reports whether the name is bound in
// the parse environment rather than the builtin namespace.
func (p *parsectx) lookup(name string) (b binding, local bool) {
	if b, ok := p.env[name]; ok {
		return b, true
	}
	if fn, ok := globalfuncs[name]; ok {
		return binding{fn: fn}, false
	}
	if c, ok := constants[name]; ok {
		return binding{val: c}, false
	}
	return binding{}, false
}
