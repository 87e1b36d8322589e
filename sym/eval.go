package sym

import (
	"io"
	"maps"
	"math"
	"math/big"
	"strings"

	"github.com/zephyrtronium/bigfloat"
)

// Context holds variable values and a working precision for numeric
// evaluation of expression trees. A Context must not be used by more than one
// goroutine at a time.
type Context struct {
	vars   map[string]*big.Float
	prec   uint
	result *big.Float
	err    error
	done   bool
}

// contextSettings collects ContextOptions before they are applied.
type contextSettings struct {
	prec uint
	vars map[string]*big.Float
}

// ContextOption configures a Context created by NewContext or Clone.
type ContextOption func(*contextSettings)

// SetVar binds name to val.
func SetVar(name string, val *big.Float) ContextOption {
	return func(s *contextSettings) { s.vars[name] = val }
}

// SetVars binds every name in vars.
func SetVars(vars map[string]*big.Float) ContextOption {
	return func(s *contextSettings) { maps.Copy(s.vars, vars) }
}

// Prec sets the working precision in bits. The last Prec option wins.
func Prec(prec uint) ContextOption {
	return func(s *contextSettings) { s.prec = prec }
}

// NewContext creates an evaluation context with 64 bits of precision unless
// an option says otherwise.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{prec: 64}
	return ctx.Clone(opts...)
}

// Eval computes the value of e. On failure, such as an unbound symbol or an
// argument outside a function's real domain, it returns nil and ctx.Err
// reports why.
func (ctx *Context) Eval(e *Expr) *big.Float {
	ctx.result, ctx.err = ctx.evalRecover(e)
	ctx.done = true
	return ctx.result
}

// evalRecover evaluates e, converting panics from math/big on operations
// without a real result into errors.
func (ctx *Context) evalRecover(e *Expr) (r *big.Float, err error) {
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		switch p := p.(type) {
		case big.ErrNaN:
			r, err = nil, &DomainError{Func: p.Error()}
		case *DomainError:
			r, err = nil, p
		default:
			panic(p)
		}
	}()
	return ctx.eval(e)
}

// Result is the value from the most recent Eval, nil if it failed. It panics
// if ctx has not evaluated anything yet.
func (ctx *Context) Result() *big.Float {
	if !ctx.done {
		panic("sym: Context.Result called before evaluating any expression")
	}
	return ctx.result
}

// Err is the error from the most recent Eval.
func (ctx *Context) Err() error {
	return ctx.err
}

// Set binds name to value, rounded to the context's precision, and returns
// ctx.
func (ctx *Context) Set(name string, value *big.Float) *Context {
	if ctx.vars == nil {
		ctx.vars = make(map[string]*big.Float)
	}
	ctx.vars[name] = ctx.newf().Set(value)
	return ctx
}

// Lookup returns a copy of the value bound to name, or nil.
func (ctx *Context) Lookup(name string) *big.Float {
	if v, ok := ctx.vars[name]; ok {
		return new(big.Float).Copy(v)
	}
	return nil
}

// Prec is the working precision in bits.
func (ctx *Context) Prec() uint {
	return ctx.prec
}

// Clone returns a copy of ctx with opts applied and no result. Bindings
// from opts replace those inherited from ctx, and every value is rounded to
// the new context's precision.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	s := contextSettings{prec: ctx.prec, vars: make(map[string]*big.Float)}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	n := &Context{prec: s.prec, vars: make(map[string]*big.Float, len(ctx.vars)+len(s.vars))}
	for name, v := range ctx.vars {
		if n.prec == ctx.prec {
			// Bound values are never mutated, so they can be shared.
			n.vars[name] = v
		} else {
			n.vars[name] = n.newf().Set(v)
		}
	}
	for name, v := range s.vars {
		n.vars[name] = n.newf().Set(v)
	}
	return n
}

func (ctx *Context) newf() *big.Float {
	return new(big.Float).SetPrec(ctx.prec)
}

// eval computes the value of a numeric node.
func (ctx *Context) eval(e *Expr) (*big.Float, error) {
	switch e.kind {
	case KindNum:
		return ctx.newf().SetRat(e.num), nil
	case KindSymbol:
		v := ctx.vars[e.name]
		if v == nil {
			return nil, &NameError{Name: e.name}
		}
		return ctx.newf().Set(v), nil
	case KindConst:
		return ctx.constant(e.name)
	case KindAdd, KindMul:
		r := ctx.newf()
		if e.kind == KindMul {
			r.SetInt64(1)
		}
		for _, a := range e.args {
			v, err := ctx.eval(a)
			if err != nil {
				return nil, err
			}
			if e.kind == KindAdd {
				r.Add(r, v)
			} else {
				r.Mul(r, v)
			}
		}
		return r, nil
	case KindPow:
		return ctx.pow(e.args[0], e.args[1])
	case KindCall:
		args := make([]*big.Float, len(e.args))
		for i, a := range e.args {
			v, err := ctx.eval(a)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return ctx.call(e.name, args)
	case KindPiecewise:
		for _, p := range e.args {
			ok, err := ctx.truth(p.args[1])
			if err != nil {
				return nil, err
			}
			if ok {
				return ctx.eval(p.args[0])
			}
		}
		return nil, &DomainError{Func: "Piecewise"}
	default:
		return nil, &TypeError{Kind: e.kind}
	}
}

// truth computes the value of a boolean node.
func (ctx *Context) truth(e *Expr) (bool, error) {
	switch e.kind {
	case KindTrue:
		return true, nil
	case KindFalse:
		return false, nil
	case KindLt, KindGt, KindLe, KindGe:
		x, err := ctx.eval(e.args[0])
		if err != nil {
			return false, err
		}
		y, err := ctx.eval(e.args[1])
		if err != nil {
			return false, err
		}
		c := x.Cmp(y)
		switch e.kind {
		case KindLt:
			return c < 0, nil
		case KindGt:
			return c > 0, nil
		case KindLe:
			return c <= 0, nil
		default:
			return c >= 0, nil
		}
	case KindAnd, KindOr:
		// Short-circuit on the absorbing value.
		stop := e.kind == KindOr
		for _, a := range e.args {
			v, err := ctx.truth(a)
			if err != nil {
				return false, err
			}
			if v == stop {
				return stop, nil
			}
		}
		return !stop, nil
	default:
		return false, &TypeError{Kind: e.kind, Bool: true}
	}
}

func (ctx *Context) constant(name string) (*big.Float, error) {
	switch name {
	case "pi":
		return bigfloat.Pi(ctx.newf()), nil
	case "E":
		return bigfloat.Exp(ctx.newf(), big.NewFloat(1)), nil
	case "oo":
		return ctx.newf().SetInf(false), nil
	case "nan":
		return nil, &DomainError{Func: "nan"}
	default:
		return nil, &NameError{Name: name}
	}
}

// pow computes base^exp over the reals.
func (ctx *Context) pow(base, exp *Expr) (*big.Float, error) {
	x, err := ctx.eval(base)
	if err != nil {
		return nil, err
	}
	if isHalf(exp) {
		if x.Signbit() && x.Sign() != 0 {
			return nil, &DomainError{X: x, Arg: 1, Func: "sqrt"}
		}
		return ctx.newf().Sqrt(x), nil
	}
	y, err := ctx.eval(exp)
	if err != nil {
		return nil, err
	}
	switch {
	case y.Sign() == 0:
		return ctx.newf().SetInt64(1), nil
	case x.Sign() == 0:
		if y.Sign() < 0 {
			return nil, &DomainError{X: x, Arg: 1, Func: "pow"}
		}
		return ctx.newf(), nil
	}
	if n, acc := y.Int64(); acc == big.Exact && y.IsInt() {
		return powInt(ctx.newf(), x, n), nil
	}
	if x.Sign() < 0 {
		return nil, &DomainError{X: x, Arg: 1, Func: "pow"}
	}
	if x.IsInf() || y.IsInf() {
		return ctx.float64Func("pow", math.Pow, x, y)
	}
	return bigfloat.Pow(ctx.newf(), x, y), nil
}

// powInt computes x^n by repeated squaring and sets z to the result.
func powInt(z, x *big.Float, n int64) *big.Float {
	neg := n < 0
	if neg {
		n = -n
	}
	r := new(big.Float).SetPrec(z.Prec()).SetInt64(1)
	b := new(big.Float).SetPrec(z.Prec()).Set(x)
	for n > 0 {
		if n&1 == 1 {
			r.Mul(r, b)
		}
		n >>= 1
		if n > 0 {
			b.Mul(b, b)
		}
	}
	if neg {
		r.Quo(new(big.Float).SetInt64(1), r)
	}
	return z.Set(r)
}

// float64Func evaluates f at double precision. A NaN result means an argument
// is outside the function's domain.
func (ctx *Context) float64Func(name string, f func(x, y float64) float64, x, y *big.Float) (*big.Float, error) {
	a, _ := x.Float64()
	b := 0.0
	if y != nil {
		b, _ = y.Float64()
	}
	r := f(a, b)
	if math.IsNaN(r) {
		return nil, &DomainError{X: x, Arg: 1, Func: name}
	}
	return ctx.newf().SetFloat64(r), nil
}

// monadic64 holds functions evaluated at double precision, for lack of
// arbitrary-precision implementations.
var monadic64 = map[string]func(float64) float64{
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"sinh":  math.Sinh,
	"cosh":  math.Cosh,
	"tanh":  math.Tanh,
	"asinh": math.Asinh,
	"acosh": math.Acosh,
	"atanh": math.Atanh,
	"erf":   math.Erf,
	"erfc":  math.Erfc,
	"gamma": math.Gamma,
}

// call evaluates a builtin function.
func (ctx *Context) call(name string, args []*big.Float) (*big.Float, error) {
	if f, ok := monadic64[name]; ok && len(args) == 1 {
		return ctx.float64Func(name, func(x, _ float64) float64 { return f(x) }, args[0], nil)
	}
	switch {
	case name == "atan2" && len(args) == 2:
		return ctx.float64Func(name, math.Atan2, args[0], args[1])
	case name == "exp" && len(args) == 1:
		return ctx.exp(args[0]), nil
	case name == "log" && len(args) == 1:
		return ctx.log(args[0])
	case name == "log" && len(args) == 2:
		return ctx.logBase(args[0], args[1])
	case name == "log10" && len(args) == 1:
		return ctx.logBase(args[0], ctx.newf().SetInt64(10))
	case name == "log2" && len(args) == 1:
		return ctx.logBase(args[0], ctx.newf().SetInt64(2))
	case name == "Abs" && len(args) == 1:
		return ctx.newf().Abs(args[0]), nil
	case name == "sign" && len(args) == 1:
		return ctx.newf().SetInt64(int64(args[0].Sign())), nil
	case name == "floor" && len(args) == 1:
		return ctx.floor(args[0]), nil
	case name == "ceiling" && len(args) == 1:
		r := ctx.newf().Neg(args[0])
		r = ctx.floor(r)
		return r.Neg(r), nil
	case name == "Mod" && len(args) == 2:
		return ctx.mod(args[0], args[1])
	case (name == "Max" || name == "Min") && len(args) > 0:
		best := args[0]
		for _, a := range args[1:] {
			c := a.Cmp(best)
			if name == "Max" && c > 0 || name == "Min" && c < 0 {
				best = a
			}
		}
		return best, nil
	}
	return nil, &NameError{Name: name, Func: true}
}

func (ctx *Context) exp(x *big.Float) *big.Float {
	if x.IsInf() {
		if x.Signbit() {
			return ctx.newf()
		}
		return ctx.newf().SetInf(false)
	}
	return bigfloat.Exp(ctx.newf(), x)
}

func (ctx *Context) log(x *big.Float) (*big.Float, error) {
	switch {
	case x.Sign() < 0:
		return nil, &DomainError{X: x, Arg: 1, Func: "log"}
	case x.Sign() == 0:
		return ctx.newf().SetInf(true), nil
	case x.IsInf():
		return ctx.newf().SetInf(false), nil
	}
	return bigfloat.Log(ctx.newf(), x), nil
}

// logBase computes log(x)/log(b).
func (ctx *Context) logBase(x, b *big.Float) (*big.Float, error) {
	if b.Sign() <= 0 || b.IsInf() || b.Cmp(big.NewFloat(1)) == 0 {
		return nil, &DomainError{X: b, Arg: 2, Func: "log"}
	}
	n, err := ctx.log(x)
	if err != nil {
		return nil, err
	}
	d, err := ctx.log(b)
	if err != nil {
		return nil, err
	}
	return n.Quo(n, d), nil
}

// floor rounds x toward negative infinity.
func (ctx *Context) floor(x *big.Float) *big.Float {
	if x.IsInf() || x.IsInt() {
		return ctx.newf().Set(x)
	}
	i, _ := x.Int(nil)
	if x.Sign() < 0 {
		// Int truncates toward zero.
		i.Sub(i, big.NewInt(1))
	}
	return ctx.newf().SetInt(i)
}

// mod computes x - y*floor(x/y), so the result has the sign of y.
func (ctx *Context) mod(x, y *big.Float) (*big.Float, error) {
	if y.Sign() == 0 {
		return nil, &DomainError{X: y, Arg: 2, Func: "Mod"}
	}
	if x.IsInf() {
		return nil, &DomainError{X: x, Arg: 1, Func: "Mod"}
	}
	if y.IsInf() {
		// x mod ±oo is x when the signs agree and ±oo otherwise.
		if x.Sign() == 0 || x.Signbit() == y.Signbit() {
			return ctx.newf().Set(x), nil
		}
		return ctx.newf().Set(y), nil
	}
	q := ctx.newf().Quo(x, y)
	q = ctx.floor(q)
	q.Mul(q, y)
	return q.Sub(x, q), nil
}

// Eval is a shortcut to parse an expression and return its result using the
// default functions.
func Eval(src io.RuneScanner, opts ...ContextOption) (*big.Float, error) {
	ctx := NewContext(opts...)
	a, err := Parse(src)
	if err != nil {
		return nil, err
	}
	ctx.Eval(a)
	return ctx.Result(), ctx.Err()
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, opts ...ContextOption) (*big.Float, error) {
	return Eval(strings.NewReader(src), opts...)
}
