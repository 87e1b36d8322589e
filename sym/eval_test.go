package sym_test

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/zephyrtronium/srsym/sym"
)

func close64(a, b float64) bool {
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return a == b
	}
	return math.Abs(a-b) <= 1e-12*math.Max(1, math.Abs(b))
}

func TestEval(t *testing.T) {
	type vv struct {
		n string
		v float64
	}
	type vc struct {
		vars []vv
		r    float64
	}
	cases := []struct {
		name string
		src  string
		r    []vc
	}{
		{"num", "1", []vc{{nil, 1}}},
		{"float", "2.5e-1", []vc{{nil, 0.25}}},
		{"ident", "x", []vc{
			{[]vv{{"x", 4}}, 4},
			{[]vv{{"x", 5}}, 5},
			{[]vv{{"x", 6}}, 6},
		}},
		{"plus", "+x", []vc{{[]vv{{"x", 4}}, 4}}},
		{"neg", "-x", []vc{
			{[]vv{{"x", 4}}, -4},
			{[]vv{{"x", -5}}, 5},
		}},
		{"add", "4+5+6", []vc{{nil, 4 + 5 + 6}}},
		{"sub", "4-5-6", []vc{{nil, 4 - 5 - 6}}},
		{"mul", "4*5*6", []vc{{nil, 4 * 5 * 6}}},
		{"div", "4/5/6", []vc{{nil, 4.0 / 5.0 / 6.0}}},
		{"divsym", "x/y", []vc{{[]vv{{"x", 1}, {"y", 4}}, 0.25}}},
		{"pow", "4^3^2", []vc{{nil, 262144}}},
		{"powsym", "x**y", []vc{
			{[]vv{{"x", 2}, {"y", 0.5}}, math.Sqrt2},
			{[]vv{{"x", -2}, {"y", 3}}, -8},
			{[]vv{{"x", -2}, {"y", -2}}, 0.25},
			{[]vv{{"x", 0}, {"y", 2}}, 0},
			{[]vv{{"x", 0}, {"y", 0}}, 1},
		}},
		{"sqrt", "sqrt(x)", []vc{
			{[]vv{{"x", 16}}, 4},
			{[]vv{{"x", 0}}, 0},
		}},
		{"pi", "pi", []vc{{nil, math.Pi}}},
		{"E", "E", []vc{{nil, math.E}}},
		{"oo", "oo", []vc{{nil, math.Inf(1)}}},
		{"exp", "exp(1)", []vc{{nil, math.E}}},
		{"log", "log(E)", []vc{{nil, 1}}},
		{"log0", "log(x)", []vc{{[]vv{{"x", 0}}, math.Inf(-1)}}},
		{"log-base", "log(8, 2)", []vc{{nil, 3}}},
		{"log10", "log10(1000)", []vc{{nil, 3}}},
		{"log2", "log2(x)", []vc{{[]vv{{"x", 8}}, 3}}},
		{"abs", "Abs(x)", []vc{{[]vv{{"x", -3}}, 3}}},
		{"sign", "sign(x)", []vc{
			{[]vv{{"x", -3}}, -1},
			{[]vv{{"x", 0}}, 0},
			{[]vv{{"x", 2}}, 1},
		}},
		{"floor", "floor(x)", []vc{
			{[]vv{{"x", -2.5}}, -3},
			{[]vv{{"x", 2.5}}, 2},
			{[]vv{{"x", 2}}, 2},
		}},
		{"ceiling", "ceiling(x)", []vc{
			{[]vv{{"x", -2.5}}, -2},
			{[]vv{{"x", 2.5}}, 3},
		}},
		{"mod", "Mod(x, y)", []vc{
			{[]vv{{"x", -7}, {"y", 3}}, 2},
			{[]vv{{"x", 7}, {"y", -3}}, -2},
			{[]vv{{"x", 6.5}, {"y", 2}}, 0.5},
		}},
		{"max", "Max(x, 5, 3)", []vc{
			{[]vv{{"x", 1}}, 5},
			{[]vv{{"x", 9}}, 9},
		}},
		{"trig", "sin(x)^2 + cos(x)^2", []vc{{[]vv{{"x", 0.7}}, 1}}},
		{"atanh", "atanh(x)", []vc{
			{[]vv{{"x", 0.5}}, math.Atanh(0.5)},
			{[]vv{{"x", 1}}, math.Inf(1)},
			{[]vv{{"x", -1}}, math.Inf(-1)},
		}},
		{"gamma", "gamma(x)", []vc{{[]vv{{"x", 5}}, 24}}},
		{"erf", "erf(x) + erfc(x)", []vc{{[]vv{{"x", 0.3}}, 1}}},
	}
	ctx := sym.NewContext(sym.Prec(64))
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := sym.ParseString(c.src)
			if err != nil {
				t.Fatal(c.src, "failed to parse:", err)
			}
			for _, v := range c.r {
				ctx := ctx.Clone()
				for _, x := range v.vars {
					ctx.Set(x.n, new(big.Float).SetFloat64(x.v))
				}
				r := ctx.Eval(a)
				if ctx.Err() != nil {
					t.Fatal("evaluation error:", ctx.Err())
				}
				if r == nil {
					t.Fatal("nil result")
				}
				if q := ctx.Result(); r.Cmp(q) != 0 {
					t.Errorf("different results: Eval returned %g, Result returned %g", r, q)
				}
				f, _ := r.Float64()
				if !close64(f, v.r) {
					t.Errorf("%s with %v: want %g, got %g", c.src, v.vars, v.r, f)
				}
			}
		})
	}
}

func TestEvalPiecewise(t *testing.T) {
	x, y := sym.Symbol("x"), sym.Symbol("y")
	max := sym.Piecewise(sym.Piece(y, sym.Lt(x, y)), sym.Piece(x, sym.True()))
	logical := sym.Piecewise(
		sym.Piece(sym.Float(1), sym.And(sym.Gt(x, sym.Int(0)), sym.Gt(y, sym.Int(0)))),
		sym.Piece(sym.Float(0), sym.True()),
	)
	cases := []struct {
		name string
		e    *sym.Expr
		x, y float64
		r    float64
	}{
		{"max-y", max, 2, 3, 3},
		{"max-x", max, 3, 2, 3},
		{"max-same", max, 2, 2, 2},
		{"and-both", logical, 1, 1, 1},
		{"and-one", logical, 1, -1, 0},
		{"and-none", logical, -1, -1, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx := sym.NewContext(sym.SetVars(map[string]*big.Float{
				"x": big.NewFloat(c.x),
				"y": big.NewFloat(c.y),
			}))
			r := ctx.Eval(c.e)
			if err := ctx.Err(); err != nil {
				t.Fatal(err)
			}
			if f, _ := r.Float64(); f != c.r {
				t.Errorf("want %g, got %g", c.r, f)
			}
		})
	}
}

func TestEvalUndefNames(t *testing.T) {
	cases := []struct {
		name string
		e    *sym.Expr
		vars []string
		want string
		fn   bool
	}{
		{"sym", sym.Symbol("x"), nil, "x", false},
		{"sum", sym.Add(sym.Symbol("x"), sym.Symbol("y")), []string{"x"}, "y", false},
		{"call", sym.Call("frob", sym.Int(1)), nil, "frob", true},
		{"callarg", sym.Call("sin", sym.Symbol("z")), []string{"x"}, "z", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx := sym.NewContext()
			for _, v := range c.vars {
				ctx.Set(v, big.NewFloat(1))
			}
			if r := ctx.Eval(c.e); r != nil {
				t.Errorf("non-nil result %v", r)
			}
			var err *sym.NameError
			if !errors.As(ctx.Err(), &err) {
				t.Fatalf("wrong error: want *NameError, got %T (%v)", ctx.Err(), ctx.Err())
			}
			if err.Name != c.want || err.Func != c.fn {
				t.Errorf("wrong name error: want %q (func %t), got %q (func %t)", c.want, c.fn, err.Name, err.Func)
			}
		})
	}
}

func TestEvalDomainError(t *testing.T) {
	cases := []struct {
		name string
		src  string
		x    float64
	}{
		{"log", "log(x)", -1},
		{"sqrt", "sqrt(x)", -1},
		{"acosh", "acosh(x)", 0.5},
		{"asin", "asin(x)", 2},
		{"atanh", "atanh(x)", 1.5},
		{"inv0", "1/x", 0},
		{"negpow", "x^0.5", -4},
		{"mod0", "Mod(1, x)", 0},
		{"logbase", "log(2, x)", 1},
		{"inf-inf", "x - oo", math.Inf(1)},
		{"zero-inf", "x*oo", 0},
		{"nan", "x + nan", 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := sym.ParseString(c.src)
			if err != nil {
				t.Fatal(c.src, "failed to parse:", err)
			}
			ctx := sym.NewContext(sym.SetVar("x", new(big.Float).SetFloat64(c.x)))
			if r := ctx.Eval(a); r != nil {
				t.Errorf("non-nil result %v", r)
			}
			var de *sym.DomainError
			if !errors.As(ctx.Err(), &de) {
				t.Fatalf("wrong error: want *DomainError, got %T (%v)", ctx.Err(), ctx.Err())
			}
			if !errors.As(ctx.Err(), new(big.ErrNaN)) {
				t.Errorf("%v does not unwrap to big.ErrNaN", ctx.Err())
			}
		})
	}
}

func TestEvalTypeError(t *testing.T) {
	x := sym.Symbol("x")
	cases := []struct {
		name string
		e    *sym.Expr
	}{
		{"bool", sym.Add(x, sym.True())},
		{"rel", sym.Mul(sym.Lt(x, sym.Int(1)), x)},
		{"cond", sym.Piecewise(sym.Piece(x, x))},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx := sym.NewContext(sym.SetVar("x", big.NewFloat(1)))
			ctx.Eval(c.e)
			var te *sym.TypeError
			if !errors.As(ctx.Err(), &te) {
				t.Errorf("wrong error: want *TypeError, got %T (%v)", ctx.Err(), ctx.Err())
			}
		})
	}
}

func TestContextVars(t *testing.T) {
	ctx := sym.NewContext(sym.SetVar("x", big.NewFloat(1)), sym.Prec(100))
	if ctx.Prec() != 100 {
		t.Errorf("wrong precision: want 100, got %d", ctx.Prec())
	}
	if v := ctx.Lookup("x"); v == nil || v.Cmp(big.NewFloat(1)) != 0 {
		t.Errorf("wrong x: want 1, got %v", v)
	}
	if v := ctx.Lookup("y"); v != nil {
		t.Errorf("unset y has value %v", v)
	}
	c := ctx.Clone(sym.SetVar("y", big.NewFloat(2)), sym.Prec(53))
	c.Set("x", big.NewFloat(3))
	if v := ctx.Lookup("x"); v.Cmp(big.NewFloat(1)) != 0 {
		t.Errorf("setting a clone's x changed the original to %v", v)
	}
	if v := ctx.Lookup("y"); v != nil {
		t.Errorf("clone option set original's y to %v", v)
	}
	if v := c.Lookup("y"); v == nil || v.Prec() != 53 {
		t.Errorf("clone's y has wrong value or precision: %v", v)
	}
}

func TestContextOptionOrder(t *testing.T) {
	ctx := sym.NewContext(nil, sym.Prec(10), sym.SetVars(map[string]*big.Float{"x": big.NewFloat(1), "y": big.NewFloat(1)}), sym.SetVar("x", big.NewFloat(2)), sym.Prec(20))
	if ctx.Prec() != 20 {
		t.Errorf("last precision should win: got %d", ctx.Prec())
	}
	if v := ctx.Lookup("x"); v == nil || v.Cmp(big.NewFloat(2)) != 0 || v.Prec() != 20 {
		t.Errorf("later binding should win at context precision: got %v", v)
	}
	if v := ctx.Lookup("y"); v == nil || v.Cmp(big.NewFloat(1)) != 0 {
		t.Errorf("wrong y: %v", v)
	}
}

func TestEvalString(t *testing.T) {
	r, err := sym.EvalString("x^2 + 1", sym.SetVar("x", big.NewFloat(3)))
	if err != nil {
		t.Fatal(err)
	}
	if f, _ := r.Float64(); f != 10 {
		t.Errorf("want 10, got %g", f)
	}
	if _, err := sym.EvalString("2 x"); err == nil {
		t.Error("no error from invalid input")
	}
}

func BenchmarkEval(b *testing.B) {
	a, err := sym.ParseString("log(Abs(x) + 1)*sin(y)^2 - Mod(x + 1, 2)", sym.Evaluate(false))
	if err != nil {
		b.Fatal(err)
	}
	ctx := sym.NewContext(sym.SetVars(map[string]*big.Float{
		"x": big.NewFloat(1.25),
		"y": big.NewFloat(-0.5),
	}))
	for i := 0; i < b.N; i++ {
		if ctx.Eval(a) == nil {
			b.Fatal(ctx.Err())
		}
	}
}

func Example() {
	e, err := sym.ParseString("x0 + sin(x1)", sym.Evaluate(false))
	if err != nil {
		panic(err)
	}
	fmt.Println(e)
	fmt.Println(e.Kind(), e.Len(), sym.FreeSymbols(e))
	r, err := sym.EvalString("2*x + 1", sym.SetVar("x", big.NewFloat(20)))
	if err != nil {
		panic(err)
	}
	fmt.Println(r)
	// Output:
	// x0 + sin(x1)
	// Add 2 [x0 x1]
	// 41
}
