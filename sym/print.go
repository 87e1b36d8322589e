package sym

import (
	"encoding/json"
	"math/big"
	"strconv"
	"strings"
)

// Binding strength of printed forms. Higher binds tighter.
const (
	precOr = iota + 1
	precAnd
	precRel
	precAdd
	precMul
	precPow
	precAtom
)

// String formats e in the conventional infix syntax, e.g. "x0 + sin(x1)",
// "x**2", "Piecewise((y, x < y), (x, True))". The output mirrors the tree's
// structure, so an unevaluated sum nested on the right prints as "x + (y + z)".
func (e *Expr) String() string {
	var b strings.Builder
	e.fmt(&b)
	return b.String()
}

func (e *Expr) prec() int {
	switch e.kind {
	case KindNum:
		if e.num.Sign() < 0 {
			return precAdd
		}
		if !e.float && !e.num.IsInt() {
			return precMul
		}
		return precAtom
	case KindAdd:
		return precAdd
	case KindMul:
		if c := e.args[0]; c.kind == KindNum && c.num.Sign() < 0 {
			return precAdd
		}
		return precMul
	case KindPow:
		if isHalf(e.args[1]) {
			return precAtom
		}
		if x := e.args[1]; x.kind == KindNum && x.num.Sign() < 0 {
			return precMul
		}
		return precPow
	case KindLt, KindGt, KindLe, KindGe:
		return precRel
	case KindAnd:
		return precAnd
	case KindOr:
		return precOr
	default:
		return precAtom
	}
}

func (e *Expr) fmt(b *strings.Builder) {
	switch e.kind {
	case KindNum:
		b.WriteString(numText(e.num, e.float))
	case KindSymbol, KindConst:
		b.WriteString(e.name)
	case KindAdd:
		e.args[0].fmtParen(b, e.args[0].prec() < precAdd)
		for _, t := range e.args[1:] {
			if n, ok := negTerm(t); ok {
				b.WriteString(" - ")
				n.fmtParen(b, n.prec() <= precAdd)
				continue
			}
			b.WriteString(" + ")
			t.fmtParen(b, t.prec() <= precAdd)
		}
	case KindMul:
		fmtFactors(b, e.args)
	case KindPow:
		base, exp := e.args[0], e.args[1]
		switch {
		case isHalf(exp):
			b.WriteString("sqrt(")
			base.fmt(b)
			b.WriteByte(')')
		case exp.kind == KindNum && exp.num.Sign() < 0:
			fmtFactors(b, []*Expr{e})
		default:
			base.fmtParen(b, base.prec() <= precPow)
			b.WriteString("**")
			exp.fmtParen(b, exp.prec() < precPow)
		}
	case KindCall:
		b.WriteString(e.name)
		b.WriteByte('(')
		for i, a := range e.args {
			if i > 0 {
				b.WriteString(", ")
			}
			a.fmt(b)
		}
		b.WriteByte(')')
	case KindPiecewise:
		b.WriteString("Piecewise(")
		for i, p := range e.args {
			if i > 0 {
				b.WriteString(", ")
			}
			p.fmt(b)
		}
		b.WriteByte(')')
	case KindPiece:
		b.WriteByte('(')
		e.args[0].fmt(b)
		b.WriteString(", ")
		e.args[1].fmt(b)
		b.WriteByte(')')
	case KindLt, KindGt, KindLe, KindGe:
		e.args[0].fmtParen(b, e.args[0].prec() <= precRel)
		b.WriteString(relOps[e.kind])
		e.args[1].fmtParen(b, e.args[1].prec() <= precRel)
	case KindAnd, KindOr:
		sep := " & "
		if e.kind == KindOr {
			sep = " | "
		}
		for i, a := range e.args {
			if i > 0 {
				b.WriteString(sep)
			}
			a.fmtParen(b, a.prec() < precAtom)
		}
	case KindTrue:
		b.WriteString("True")
	case KindFalse:
		b.WriteString("False")
	default:
		panic("sym: invalid node kind " + e.kind.String() + " after writing " + b.String())
	}
}

var relOps = map[Kind]string{
	KindLt: " < ",
	KindGt: " > ",
	KindLe: " <= ",
	KindGe: " >= ",
}

func (e *Expr) fmtParen(b *strings.Builder, paren bool) {
	if !paren {
		e.fmt(b)
		return
	}
	b.WriteByte('(')
	e.fmt(b)
	b.WriteByte(')')
}

// fmtFactors writes a product, moving factors with negative numeric exponents
// into a denominator.
func fmtFactors(b *strings.Builder, factors []*Expr) {
	if c := factors[0]; len(factors) > 1 && c.kind == KindNum && !c.float && c.num.Cmp(big.NewRat(-1, 1)) == 0 {
		b.WriteByte('-')
		rest := Mul(factors[1:]...)
		rest.fmtParen(b, rest.prec() < precMul)
		return
	}
	var num, den []*Expr
	for _, f := range factors {
		if f.kind == KindPow {
			if x := f.args[1]; x.kind == KindNum && x.num.Sign() < 0 {
				if x.num.Cmp(big.NewRat(-1, 1)) == 0 && !x.float {
					den = append(den, f.args[0])
				} else {
					den = append(den, Pow(f.args[0], Neg(x)))
				}
				continue
			}
		}
		num = append(num, f)
	}
	if len(num) == 0 {
		b.WriteByte('1')
	}
	for i, f := range num {
		if i > 0 {
			b.WriteByte('*')
			f.fmtParen(b, f.prec() < precMul)
			continue
		}
		f.fmtParen(b, f.prec() < precMul && f.kind != KindNum && f.kind != KindMul)
	}
	switch len(den) {
	case 0:
	case 1:
		b.WriteByte('/')
		den[0].fmtParen(b, den[0].prec() <= precMul)
	default:
		b.WriteString("/(")
		for i, f := range den {
			if i > 0 {
				b.WriteByte('*')
			}
			f.fmtParen(b, f.prec() < precMul)
		}
		b.WriteByte(')')
	}
}

// negTerm returns -t if t prints naturally with a leading minus sign.
func negTerm(t *Expr) (*Expr, bool) {
	switch t.kind {
	case KindNum:
		if t.num.Sign() < 0 {
			return Neg(t), true
		}
	case KindMul:
		c := t.args[0]
		if c.kind != KindNum || c.num.Sign() >= 0 {
			return nil, false
		}
		if !c.float && c.num.Cmp(big.NewRat(-1, 1)) == 0 {
			return Mul(t.args[1:]...), true
		}
		args := append([]*Expr{Neg(c)}, t.args[1:]...)
		return Mul(args...), true
	}
	return nil, false
}

func isHalf(e *Expr) bool {
	return e.kind == KindNum && !e.float && e.num.Cmp(big.NewRat(1, 2)) == 0
}

// numText formats a number. Inexact numbers always carry a decimal point or
// exponent so they remain distinguishable from integers.
func numText(r *big.Rat, float bool) string {
	if !float {
		if r.IsInt() {
			return r.Num().String()
		}
		return r.RatString()
	}
	f, _ := r.Float64()
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	return s
}

type jsonExpr struct {
	Type  string  `json:"type"`
	Name  string  `json:"name,omitempty"`
	Value string  `json:"value,omitempty"`
	Float bool    `json:"float,omitempty"`
	Args  []*Expr `json:"args,omitempty"`
}

// MarshalJSON encodes e as a tree of objects with a "type" field naming the
// node kind.
func (e *Expr) MarshalJSON() ([]byte, error) {
	j := jsonExpr{
		Type: strings.ToLower(e.kind.String()),
		Name: e.name,
		Args: e.args,
	}
	if e.kind == KindNum {
		j.Value = numText(e.num, e.float)
		j.Float = e.float
	}
	return json.Marshal(j)
}
