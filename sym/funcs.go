package sym

import "slices"

// Func builds an expression from the arguments of a call. Implementations
// must be safe for concurrent use and should not retain args.
type Func interface {
	// Call builds the expression for a call. args has a length for which
	// CanCall returned true.
	Call(args []*Expr) (*Expr, error)

	// CanCall returns whether the function can be called with n arguments.
	CanCall(n int) bool
}

type monadic struct {
	f func(x *Expr) *Expr
}

func (m monadic) Call(args []*Expr) (r *Expr, err error) {
	defer recoverError(&err)
	return m.f(args[0]), nil
}

func (m monadic) CanCall(n int) bool {
	return n == 1
}

// Monadic wraps a function of one expression into a Func. If f panics with an
// error, the error is returned from Call.
func Monadic(f func(x *Expr) *Expr) Func {
	return monadic{f}
}

type dyadic struct {
	f func(x, y *Expr) *Expr
}

func (d dyadic) Call(args []*Expr) (r *Expr, err error) {
	defer recoverError(&err)
	return d.f(args[0], args[1]), nil
}

func (d dyadic) CanCall(n int) bool {
	return n == 2
}

// Dyadic wraps a function of two expressions into a Func. If f panics with an
// error, the error is returned from Call.
func Dyadic(f func(x, y *Expr) *Expr) Func {
	return dyadic{f}
}

type variadic struct {
	min, max int
	f        func(args []*Expr) *Expr
}

func (v variadic) Call(args []*Expr) (r *Expr, err error) {
	defer recoverError(&err)
	return v.f(args), nil
}

func (v variadic) CanCall(n int) bool {
	return v.min <= n && (v.max < 0 || n <= v.max)
}

// Variadic wraps a function of between min and max expressions into a Func.
// A negative max means no upper limit.
func Variadic(min, max int, f func(args []*Expr) *Expr) Func {
	return variadic{min, max, f}
}

// recoverError converts a panic with an error value into a returned error.
// Other panics continue.
func recoverError(err *error) {
	r := recover()
	if r == nil {
		return
	}
	e, ok := r.(error)
	if !ok {
		panic(r)
	}
	*err = e
}

func callOf(name string) Func {
	return Monadic(func(x *Expr) *Expr { return Call(name, x) })
}

func callOf2(name string) Func {
	return Dyadic(func(x, y *Expr) *Expr { return Call(name, x, y) })
}

// globalfuncs is the builtin function namespace. Parse options may shadow any
// of these names.
var globalfuncs = map[string]Func{
	"sin":   callOf("sin"),
	"cos":   callOf("cos"),
	"tan":   callOf("tan"),
	"asin":  callOf("asin"),
	"acos":  callOf("acos"),
	"atan":  callOf("atan"),
	"atan2": callOf2("atan2"),
	"sinh":  callOf("sinh"),
	"cosh":  callOf("cosh"),
	"tanh":  callOf("tanh"),
	"asinh": callOf("asinh"),
	"acosh": callOf("acosh"),
	"atanh": callOf("atanh"),

	"exp": callOf("exp"),
	"log": Variadic(1, 2, func(args []*Expr) *Expr { return Call("log", args...) }),
	"ln":  callOf("log"),
	// log10 and log2 are the dedicated base-10 and base-2 logarithms, kept
	// distinct from log(x, 10) and log(x, 2).
	"log10": callOf("log10"),
	"log2":  callOf("log2"),
	"sqrt":  Monadic(Sqrt),
	"cbrt":  Monadic(Cbrt),

	"Abs":     callOf("Abs"),
	"sign":    callOf("sign"),
	"floor":   callOf("floor"),
	"ceiling": callOf("ceiling"),
	"Mod":     callOf2("Mod"),
	"Max":     Variadic(1, -1, func(args []*Expr) *Expr { return Call("Max", args...) }),
	"Min":     Variadic(1, -1, func(args []*Expr) *Expr { return Call("Min", args...) }),

	"gamma": callOf("gamma"),
	"erf":   callOf("erf"),
	"erfc":  callOf("erfc"),
}

// reserved holds names of the engine's namespace that are not functions or
// constants usable in expressions but still may not be rebound by callers.
var reserved = []string{
	"Add", "Mul", "Pow", "Symbol", "Integer", "Float", "Rational", "Number",
	"Piecewise", "And", "Or", "Not", "Lt", "Gt", "Le", "Ge", "Eq", "Ne",
	"True", "False", "S", "N", "I", "O", "Q", "zoo",
	"Function", "Lambda", "Matrix", "Sum", "Product", "Integral", "Derivative",
	"diff", "integrate", "simplify", "expand", "factor", "solve", "limit",
	"series", "subs", "symbols", "sympify", "lambdify", "evalf",
}

var namespace = func() map[string]bool {
	m := make(map[string]bool, len(globalfuncs)+len(constants)+len(reserved))
	for k := range globalfuncs {
		m[k] = true
	}
	for k := range constants {
		m[k] = true
	}
	for _, k := range reserved {
		m[k] = true
	}
	return m
}()

// IsReserved reports whether name is defined in the engine's top-level
// namespace, either as a builtin function, a constant, or a constructor.
func IsReserved(name string) bool {
	return namespace[name]
}

// Namespace returns the sorted names defined in the engine's top-level
// namespace.
func Namespace() []string {
	names := make([]string, 0, len(namespace))
	for k := range namespace {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// Builtin returns the builtin function with the given name.
func Builtin(name string) (Func, bool) {
	f, ok := globalfuncs[name]
	return f, ok
}
