package sym

import (
	"math"
	"math/big"
	"slices"
	"strconv"
)

// Kind identifies the type of an expression node.
type Kind int8

const (
	KindNone Kind = iota

	KindNum    // exact or float number; Rat holds the value
	KindSymbol // free variable; Name is the symbol name
	KindConst  // named constant such as pi or oo

	KindAdd  // sum of Args
	KindMul  // product of Args
	KindPow  // Args[0] raised to Args[1]
	KindCall // function Name applied to Args

	KindPiecewise // Args are KindPiece nodes, tried in order
	KindPiece     // Args[0] if Args[1] holds

	KindLt // Args[0] < Args[1]
	KindGt // Args[0] > Args[1]
	KindLe // Args[0] <= Args[1]
	KindGe // Args[0] >= Args[1]

	KindAnd
	KindOr
	KindTrue
	KindFalse
)

var kindNames = [...]string{
	KindNone:      "None",
	KindNum:       "Num",
	KindSymbol:    "Symbol",
	KindConst:     "Const",
	KindAdd:       "Add",
	KindMul:       "Mul",
	KindPow:       "Pow",
	KindCall:      "Call",
	KindPiecewise: "Piecewise",
	KindPiece:     "Piece",
	KindLt:        "Lt",
	KindGt:        "Gt",
	KindLe:        "Le",
	KindGe:        "Ge",
	KindAnd:       "And",
	KindOr:        "Or",
	KindTrue:      "True",
	KindFalse:     "False",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// IsRelational reports whether k is one of the comparison kinds.
func (k Kind) IsRelational() bool {
	return KindLt <= k && k <= KindGe
}

// IsBoolean reports whether nodes of kind k are truth values rather than
// numbers.
func (k Kind) IsBoolean() bool {
	return k.IsRelational() || k == KindAnd || k == KindOr || k == KindTrue || k == KindFalse
}

// Expr is a node in an expression tree. Exprs are immutable once constructed,
// so subtrees may be shared freely between trees and goroutines.
//
// Constructors in this package build exactly the structure they are asked for.
// Use Fold to apply automatic simplification.
type Expr struct {
	kind Kind
	// name is the symbol, constant, or function name.
	name string
	// num is the value of a KindNum node.
	num *big.Rat
	// float marks a number written or computed as inexact.
	float bool
	args  []*Expr
}

// Kind returns the node's kind.
func (e *Expr) Kind() Kind {
	return e.kind
}

// Name returns the name of a symbol, constant, or function call. It is empty
// for other kinds.
func (e *Expr) Name() string {
	return e.name
}

// Len returns the number of operands of e.
func (e *Expr) Len() int {
	return len(e.args)
}

// Arg returns the i'th operand of e.
func (e *Expr) Arg(i int) *Expr {
	return e.args[i]
}

// Args returns a copy of the operands of e.
func (e *Expr) Args() []*Expr {
	return slices.Clone(e.args)
}

// Rat returns a copy of the value of a number, or nil if e is not a number.
func (e *Expr) Rat() *big.Rat {
	if e.kind != KindNum {
		return nil
	}
	return new(big.Rat).Set(e.num)
}

// IsFloat reports whether e is an inexact number.
func (e *Expr) IsFloat() bool {
	return e.kind == KindNum && e.float
}

// Int creates an exact integer.
func Int(n int64) *Expr {
	return &Expr{kind: KindNum, num: new(big.Rat).SetInt64(n)}
}

// Rational creates the exact number p/q. Panics if q is zero.
func Rational(p, q int64) *Expr {
	if q == 0 {
		panic("sym: zero denominator")
	}
	return &Expr{kind: KindNum, num: big.NewRat(p, q)}
}

// Float creates an inexact number. Infinities become the constant oo or its
// negation; NaN becomes the constant nan.
func Float(f float64) *Expr {
	switch {
	case math.IsNaN(f):
		return NaN
	case math.IsInf(f, 1):
		return Infinity
	case math.IsInf(f, -1):
		return Neg(Infinity)
	}
	return &Expr{kind: KindNum, num: new(big.Rat).SetFloat64(f), float: true}
}

// Number creates a number from its decimal text. The number is inexact if the
// text has a decimal point or exponent.
func Number(text string) (*Expr, error) {
	s := text
	if len(s) > 0 && s[0] == '.' {
		s = "0" + s
	}
	if len(s) > 0 && s[len(s)-1] == '.' {
		s += "0"
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, &LexError{Text: text, Kind: "number"}
	}
	float := false
	for _, c := range text {
		if c == '.' || c == 'e' || c == 'E' {
			float = true
			break
		}
	}
	return &Expr{kind: KindNum, num: r, float: float}, nil
}

func number(r *big.Rat, float bool) *Expr {
	return &Expr{kind: KindNum, num: r, float: float}
}

// Symbol creates a free variable.
func Symbol(name string) *Expr {
	return &Expr{kind: KindSymbol, name: name}
}

// Named constants.
var (
	Pi       = &Expr{kind: KindConst, name: "pi"}
	E        = &Expr{kind: KindConst, name: "E"}
	Infinity = &Expr{kind: KindConst, name: "oo"}
	NaN      = &Expr{kind: KindConst, name: "nan"}
)

var constants = map[string]*Expr{
	"pi":  Pi,
	"E":   E,
	"oo":  Infinity,
	"nan": NaN,

	"True":  trueExpr,
	"False": falseExpr,
}

// Add creates the sum of its arguments. A single argument is returned as is,
// and an empty sum is the integer 0.
func Add(args ...*Expr) *Expr {
	switch len(args) {
	case 0:
		return Int(0)
	case 1:
		return args[0]
	}
	return &Expr{kind: KindAdd, args: slices.Clone(args)}
}

// Mul creates the product of its arguments. A single argument is returned as
// is, and an empty product is the integer 1.
func Mul(args ...*Expr) *Expr {
	switch len(args) {
	case 0:
		return Int(1)
	case 1:
		return args[0]
	}
	return &Expr{kind: KindMul, args: slices.Clone(args)}
}

// Pow creates base^exp.
func Pow(base, exp *Expr) *Expr {
	return &Expr{kind: KindPow, args: []*Expr{base, exp}}
}

// Neg creates -x. Numbers are negated directly; anything else becomes a
// product with -1.
func Neg(x *Expr) *Expr {
	if x.kind == KindNum {
		return number(new(big.Rat).Neg(x.num), x.float)
	}
	return Mul(Int(-1), x)
}

// Sub creates x - y as x + (-y).
func Sub(x, y *Expr) *Expr {
	return Add(x, Neg(y))
}

// Div creates x / y as x * y^-1.
func Div(x, y *Expr) *Expr {
	return Mul(x, Inv(y))
}

// Inv creates 1/x as x^-1.
func Inv(x *Expr) *Expr {
	return Pow(x, Int(-1))
}

// Sqrt creates x^(1/2).
func Sqrt(x *Expr) *Expr {
	return Pow(x, Rational(1, 2))
}

// Cbrt creates the principal cube root x^(1/3).
func Cbrt(x *Expr) *Expr {
	return Pow(x, Rational(1, 3))
}

// Call creates an application of the named function.
func Call(name string, args ...*Expr) *Expr {
	return &Expr{kind: KindCall, name: name, args: slices.Clone(args)}
}

// Piece creates one branch of a piecewise expression: value where cond holds.
func Piece(value, cond *Expr) *Expr {
	return &Expr{kind: KindPiece, args: []*Expr{value, cond}}
}

// Piecewise creates an expression whose value is that of the first piece
// whose condition holds. Each argument must be a Piece.
func Piecewise(pieces ...*Expr) *Expr {
	for _, p := range pieces {
		if p.kind != KindPiece {
			panic("sym: Piecewise argument is " + p.kind.String() + ", not Piece")
		}
	}
	return &Expr{kind: KindPiecewise, args: slices.Clone(pieces)}
}

// Lt creates x < y.
func Lt(x, y *Expr) *Expr { return &Expr{kind: KindLt, args: []*Expr{x, y}} }

// Gt creates x > y.
func Gt(x, y *Expr) *Expr { return &Expr{kind: KindGt, args: []*Expr{x, y}} }

// Le creates x <= y.
func Le(x, y *Expr) *Expr { return &Expr{kind: KindLe, args: []*Expr{x, y}} }

// Ge creates x >= y.
func Ge(x, y *Expr) *Expr { return &Expr{kind: KindGe, args: []*Expr{x, y}} }

// And creates the conjunction of its arguments.
func And(args ...*Expr) *Expr {
	return &Expr{kind: KindAnd, args: slices.Clone(args)}
}

// Or creates the disjunction of its arguments.
func Or(args ...*Expr) *Expr {
	return &Expr{kind: KindOr, args: slices.Clone(args)}
}

var (
	trueExpr  = &Expr{kind: KindTrue}
	falseExpr = &Expr{kind: KindFalse}
)

// True returns the boolean constant true.
func True() *Expr { return trueExpr }

// False returns the boolean constant false.
func False() *Expr { return falseExpr }

// Equal reports whether a and b are structurally identical.
func Equal(a, b *Expr) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.kind != b.kind || a.name != b.name || len(a.args) != len(b.args) {
		return false
	}
	if a.kind == KindNum && (a.float != b.float || a.num.Cmp(b.num) != 0) {
		return false
	}
	for i := range a.args {
		if !Equal(a.args[i], b.args[i]) {
			return false
		}
	}
	return true
}

// FreeSymbols returns the sorted names of the symbols appearing in e.
func FreeSymbols(e *Expr) []string {
	seen := make(map[string]bool)
	var walk func(*Expr)
	walk = func(e *Expr) {
		if e.kind == KindSymbol {
			seen[e.name] = true
			return
		}
		for _, a := range e.args {
			walk(a)
		}
	}
	walk(e)
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// Subs replaces symbols in e according to m. Subtrees without replacements
// are shared with e.
func Subs(e *Expr, m map[string]*Expr) *Expr {
	if len(m) == 0 {
		return e
	}
	switch e.kind {
	case KindSymbol:
		if r, ok := m[e.name]; ok {
			return r
		}
		return e
	case KindNum, KindConst, KindTrue, KindFalse:
		return e
	}
	var args []*Expr
	for i, a := range e.args {
		r := Subs(a, m)
		if r != a && args == nil {
			args = make([]*Expr, len(e.args))
			copy(args, e.args[:i])
		}
		if args != nil {
			args[i] = r
		}
	}
	if args == nil {
		return e
	}
	n := *e
	n.args = args
	return &n
}
