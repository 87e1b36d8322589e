package sym

import (
	"math"
	"math/big"
	"slices"
)

// Fold applies automatic simplification to e, the way an engine evaluates
// expressions on construction. Nested sums and products are flattened,
// numeric operands are combined, trivial powers disappear, comparisons of
// numbers become truth values, and piecewise branches with constant
// conditions are resolved. Functions of inexact numbers are evaluated.
//
// Fold never fails; anything it cannot simplify is left as is.
func Fold(e *Expr) *Expr {
	switch e.kind {
	case KindNum, KindSymbol, KindConst, KindTrue, KindFalse:
		return e
	}
	args := make([]*Expr, len(e.args))
	for i, a := range e.args {
		args[i] = Fold(a)
	}
	switch e.kind {
	case KindAdd:
		return foldAdd(args)
	case KindMul:
		return foldMul(args)
	case KindPow:
		return foldPow(args[0], args[1])
	case KindCall:
		return foldCall(e.name, args)
	case KindLt, KindGt, KindLe, KindGe:
		return foldRel(e.kind, args[0], args[1])
	case KindAnd, KindOr:
		return foldLogic(e.kind, args)
	case KindPiecewise:
		return foldPiecewise(args)
	case KindPiece:
		return Piece(args[0], args[1])
	default:
		panic("sym: invalid node kind " + e.kind.String())
	}
}

// mkNum creates a number, rounding inexact values to double precision.
func mkNum(r *big.Rat, float bool) *Expr {
	if float {
		f, _ := r.Float64()
		return Float(f)
	}
	return number(r, false)
}

// flatten collects the operands of nested nodes of the given kind.
func flatten(kind Kind, args []*Expr) []*Expr {
	var r []*Expr
	for _, a := range args {
		if a.kind == kind {
			r = append(r, a.args...)
			continue
		}
		r = append(r, a)
	}
	return r
}

func foldAdd(args []*Expr) *Expr {
	sum := new(big.Rat)
	float, nums := false, 0
	var terms []*Expr
	for _, a := range flatten(KindAdd, args) {
		if a.kind == KindNum {
			sum.Add(sum, a.num)
			float = float || a.float
			nums++
			continue
		}
		terms = append(terms, a)
	}
	if nums > 0 && (sum.Sign() != 0 || len(terms) == 0) {
		terms = append(terms, mkNum(sum, float))
	}
	return Add(terms...)
}

func foldMul(args []*Expr) *Expr {
	prod := big.NewRat(1, 1)
	float, nums := false, 0
	var factors []*Expr
	for _, a := range flatten(KindMul, args) {
		if a.kind == KindNum {
			prod.Mul(prod, a.num)
			float = float || a.float
			nums++
			continue
		}
		factors = append(factors, a)
	}
	if prod.Sign() == 0 {
		return mkNum(prod, float)
	}
	if nums > 0 && (float || prod.Cmp(big.NewRat(1, 1)) != 0 || len(factors) == 0) {
		factors = slices.Insert(factors, 0, mkNum(prod, float))
	}
	return Mul(factors...)
}

// maxFoldExp bounds exact integer powers so that folding stays cheap.
const maxFoldExp = 1024

func foldPow(base, exp *Expr) *Expr {
	if exp.kind == KindNum && !exp.float {
		switch {
		case exp.num.Sign() == 0:
			return Int(1)
		case exp.num.Cmp(big.NewRat(1, 1)) == 0:
			return base
		}
	}
	if base.kind == KindNum && !base.float && base.num.Cmp(big.NewRat(1, 1)) == 0 {
		return base
	}
	if base.kind != KindNum || exp.kind != KindNum {
		return Pow(base, exp)
	}
	if base.float || exp.float {
		b, _ := base.num.Float64()
		x, _ := exp.num.Float64()
		r := math.Pow(b, x)
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return Pow(base, exp)
		}
		return Float(r)
	}
	if !exp.num.IsInt() {
		return Pow(base, exp)
	}
	n := exp.num.Num()
	if !n.IsInt64() || n.Int64() > maxFoldExp || n.Int64() < -maxFoldExp {
		return Pow(base, exp)
	}
	k := n.Int64()
	if base.num.Sign() == 0 && k < 0 {
		return Pow(base, exp)
	}
	r := ratPow(base.num, k)
	return number(r, false)
}

// ratPow computes x^n exactly. x must be nonzero if n is negative.
func ratPow(x *big.Rat, n int64) *big.Rat {
	neg := n < 0
	if neg {
		n = -n
	}
	e := big.NewInt(n)
	p := new(big.Int).Exp(x.Num(), e, nil)
	q := new(big.Int).Exp(x.Denom(), e, nil)
	if neg {
		p, q = q, p
	}
	return new(big.Rat).SetFrac(p, q)
}

// zeroAt holds the values of functions at exact zero.
var zeroAt = map[string]int64{
	"sin": 0, "tan": 0, "asin": 0, "atan": 0, "sinh": 0, "tanh": 0,
	"asinh": 0, "atanh": 0, "erf": 0,
	"cos": 1, "cosh": 1, "exp": 1, "erfc": 1,
}

func foldCall(name string, args []*Expr) *Expr {
	e := Call(name, args...)
	float := false
	for _, a := range args {
		if a.kind != KindNum {
			return e
		}
		float = float || a.float
	}
	switch name {
	case "Abs":
		return mkNum(new(big.Rat).Abs(args[0].num), args[0].float)
	case "sign":
		return Int(int64(args[0].num.Sign()))
	case "floor", "ceiling":
		q := new(big.Int)
		m := new(big.Int)
		q.DivMod(args[0].num.Num(), args[0].num.Denom(), m)
		if name == "ceiling" && m.Sign() != 0 {
			q.Add(q, big.NewInt(1))
		}
		return number(new(big.Rat).SetInt(q), false)
	case "Mod":
		x, y := args[0].num, args[1].num
		if y.Sign() == 0 {
			return e
		}
		return mkNum(ratMod(x, y), float)
	case "Max", "Min":
		best := args[0]
		for _, a := range args[1:] {
			c := a.num.Cmp(best.num)
			if name == "Max" && c > 0 || name == "Min" && c < 0 {
				best = a
			}
		}
		return best
	case "log":
		if len(args) == 1 && !float && args[0].num.Cmp(big.NewRat(1, 1)) == 0 {
			return Int(0)
		}
	}
	if len(args) == 1 && !float && args[0].num.Sign() == 0 {
		if v, ok := zeroAt[name]; ok {
			return Int(v)
		}
	}
	if !float {
		return e
	}
	ctx := NewContext(Prec(53))
	r := ctx.Eval(e)
	if r == nil || r.IsInf() {
		return e
	}
	f, _ := r.Float64()
	return Float(f)
}

// ratMod computes x mod y with the sign of y.
func ratMod(x, y *big.Rat) *big.Rat {
	q := new(big.Rat).Quo(x, y)
	fl := new(big.Int)
	m := new(big.Int)
	fl.DivMod(q.Num(), q.Denom(), m)
	r := new(big.Rat).SetInt(fl)
	r.Mul(r, y)
	return r.Sub(x, r)
}

func foldRel(kind Kind, x, y *Expr) *Expr {
	var c int
	switch {
	case x.kind == KindNum && y.kind == KindNum:
		c = x.num.Cmp(y.num)
	case Equal(x, y) && x.kind != KindConst:
		c = 0
	default:
		return &Expr{kind: kind, args: []*Expr{x, y}}
	}
	var r bool
	switch kind {
	case KindLt:
		r = c < 0
	case KindGt:
		r = c > 0
	case KindLe:
		r = c <= 0
	case KindGe:
		r = c >= 0
	}
	if r {
		return trueExpr
	}
	return falseExpr
}

func foldLogic(kind Kind, args []*Expr) *Expr {
	// For And, True is the identity and False absorbs. Or is the reverse.
	id, abs := KindTrue, KindFalse
	if kind == KindOr {
		id, abs = abs, id
	}
	var keep []*Expr
	for _, a := range flatten(kind, args) {
		switch a.kind {
		case id:
		case abs:
			return a
		default:
			keep = append(keep, a)
		}
	}
	switch len(keep) {
	case 0:
		if kind == KindAnd {
			return trueExpr
		}
		return falseExpr
	case 1:
		return keep[0]
	}
	return &Expr{kind: kind, args: keep}
}

func foldPiecewise(pieces []*Expr) *Expr {
	var keep []*Expr
	for _, p := range pieces {
		switch p.args[1].kind {
		case KindFalse:
			continue
		case KindTrue:
			if len(keep) == 0 {
				return p.args[0]
			}
			keep = append(keep, p)
			return Piecewise(keep...)
		}
		keep = append(keep, p)
	}
	if len(keep) == 0 {
		return NaN
	}
	return Piecewise(keep...)
}
