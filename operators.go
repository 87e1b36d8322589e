package srsym

import (
	"github.com/zephyrtronium/srsym/sym"
)

// Construction functions for operator tokens. Each builds its result
// structurally from its operands and never simplifies.

func div(x, y *sym.Expr) *sym.Expr { return sym.Mul(x, sym.Pow(y, sym.Int(-1))) }
func inv(x *sym.Expr) *sym.Expr { return sym.Pow(x, sym.Int(-1)) }
func mult(x, y *sym.Expr) *sym.Expr { return sym.Mul(x, y) }
func plus(x, y *sym.Expr) *sym.Expr { return sym.Add(x, y) }
func sub(x, y *sym.Expr) *sym.Expr { return sym.Add(x, sym.Mul(sym.Int(-1), y)) }
func neg(x *sym.Expr) *sym.Expr { return sym.Mul(sym.Int(-1), x) }
func pow(x, y *sym.Expr) *sym.Expr { return sym.Pow(x, y) }

func powAbs(x, y *sym.Expr) *sym.Expr { return sym.Pow(abs(x), y) }
func square(x *sym.Expr) *sym.Expr { return sym.Pow(x, sym.Int(2)) }
func cube(x *sym.Expr) *sym.Expr { return sym.Pow(x, sym.Int(3)) }
func sqrt(x *sym.Expr) *sym.Expr { return sym.Sqrt(x) }
func sqrtAbs(x *sym.Expr) *sym.Expr { return sym.Sqrt(abs(x)) }

// cbrt is the real cube root, with the sign of x restored after taking the
// principal root of |x|.
func cbrt(x *sym.Expr) *sym.Expr {
	return sym.Mul(sign(x), sym.Cbrt(abs(x)))
}

func abs(x *sym.Expr) *sym.Expr { return sym.Call("Abs", x) }
func sign(x *sym.Expr) *sym.Expr { return sym.Call("sign", x) }
func floor(x *sym.Expr) *sym.Expr { return sym.Call("floor", x) }
func ceil(x *sym.Expr) *sym.Expr { return sym.Call("ceiling", x) }
func mod(x, y *sym.Expr) *sym.Expr { return sym.Call("Mod", x, y) }
func acoshAbs(x *sym.Expr) *sym.Expr { return sym.Call("acosh", sym.Add(abs(x), sym.Int(1))) }
func log1p(x *sym.Expr) *sym.Expr { return sym.Call("log", sym.Add(x, sym.Int(1))) }
func logAbs(x *sym.Expr) *sym.Expr { return sym.Call("log", abs(x)) }
func log10Abs(x *sym.Expr) *sym.Expr { return sym.Call("log", abs(x), sym.Int(10)) }
func log2Abs(x *sym.Expr) *sym.Expr { return sym.Call("log", abs(x), sym.Int(2)) }
func log1pAbs(x *sym.Expr) *sym.Expr { return sym.Call("log", sym.Add(abs(x), sym.Int(1))) }

// atanhClip wraps x periodically into [-1, 1) before applying atanh, so that
// it is defined everywhere except at the odd integers.
func atanhClip(x *sym.Expr) *sym.Expr {
	w := sym.Add(mod(sym.Add(x, sym.Int(1)), sym.Int(2)), sym.Int(-1))
	return sym.Call("atanh", w)
}

// round rounds half up as ceiling(x - 0.5).
func round(x *sym.Expr) *sym.Expr {
	return ceil(sym.Add(x, sym.Float(-0.5)))
}

// Branching operators. The first piece holds on a strict comparison and the
// last is unconditional, so ties select the last piece.

func otherwise(v *sym.Expr) *sym.Expr { return sym.Piece(v, sym.True()) }

// indicator is 1.0 where cond holds and 0.0 elsewhere.
func indicator(cond *sym.Expr) *sym.Expr {
	return sym.Piecewise(sym.Piece(sym.Float(1), cond), otherwise(sym.Float(0)))
}

func maxOf(x, y *sym.Expr) *sym.Expr {
	return sym.Piecewise(sym.Piece(y, sym.Lt(x, y)), otherwise(x))
}

func minOf(x, y *sym.Expr) *sym.Expr {
	return sym.Piecewise(sym.Piece(x, sym.Lt(x, y)), otherwise(y))
}

func greater(x, y *sym.Expr) *sym.Expr { return indicator(sym.Gt(x, y)) }
func less(x, y *sym.Expr) *sym.Expr { return indicator(sym.Lt(x, y)) }
func greaterEqual(x, y *sym.Expr) *sym.Expr { return indicator(sym.Ge(x, y)) }
func lessEqual(x, y *sym.Expr) *sym.Expr { return indicator(sym.Le(x, y)) }

func cond(x, y *sym.Expr) *sym.Expr {
	return sym.Piecewise(sym.Piece(y, sym.Gt(x, sym.Int(0))), otherwise(sym.Float(0)))
}

func logicalOr(x, y *sym.Expr) *sym.Expr {
	return indicator(sym.Or(sym.Gt(x, sym.Int(0)), sym.Gt(y, sym.Int(0))))
}

func logicalAnd(x, y *sym.Expr) *sym.Expr {
	return indicator(sym.And(sym.Gt(x, sym.Int(0)), sym.Gt(y, sym.Int(0))))
}

func relu(x *sym.Expr) *sym.Expr {
	return sym.Piecewise(sym.Piece(sym.Float(0), sym.Lt(x, sym.Int(0))), otherwise(x))
}

// call returns the construction of a call to the engine function of the same
// name.
func call(name string) func(x *sym.Expr) *sym.Expr {
	return func(x *sym.Expr) *sym.Expr { return sym.Call(name, x) }
}

// builtins is the operator catalogue. atanh and atanh_clip are distinct
// tokens with the same construction.
var builtins = []Operator{
	unary("sqrt", sqrt),
	unary("sqrt_abs", sqrtAbs),
	unary("cbrt", cbrt),
	unary("square", square),
	unary("cube", cube),
	unary("inv", inv),
	unary("neg", neg),
	binary("div", div),
	binary("mult", mult),
	binary("plus", plus),
	binary("sub", sub),
	binary("pow", pow),
	binary("pow_abs", powAbs),

	unary("cos", call("cos")),
	unary("sin", call("sin")),
	unary("tan", call("tan")),
	unary("cosh", call("cosh")),
	unary("sinh", call("sinh")),
	unary("tanh", call("tanh")),
	unary("exp", call("exp")),
	unary("acos", call("acos")),
	unary("asin", call("asin")),
	unary("atan", call("atan")),
	unary("asinh", call("asinh")),
	unary("acosh", call("acosh")),
	unary("acosh_abs", acoshAbs),
	unary("atanh", atanhClip),
	unary("atanh_clip", atanhClip),
	unary("erf", call("erf")),
	unary("erfc", call("erfc")),
	unary("gamma", call("gamma")),

	unary("abs", abs),
	unary("sign", sign),
	unary("floor", floor),
	unary("ceil", ceil),
	unary("round", round),
	binary("mod", mod),

	unary("log", call("log")),
	unary("log10", call("log10")),
	unary("log2", call("log2")),
	unary("log1p", log1p),
	unary("log_abs", logAbs),
	unary("log10_abs", log10Abs),
	unary("log2_abs", log2Abs),
	unary("log1p_abs", log1pAbs),

	binary("max", maxOf),
	binary("min", minOf),
	binary("greater", greater),
	binary("less", less),
	binary("greater_equal", greaterEqual),
	binary("less_equal", lessEqual),
	binary("cond", cond),
	binary("logical_or", logicalOr),
	binary("logical_and", logicalAnd),
	unary("relu", relu),
}
