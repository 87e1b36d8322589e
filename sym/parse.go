package sym

import (
	"errors"
	"io"
	"slices"
	"strings"
)

// Expr = num | name | Call | Neg | Plus | Add | Sub | Mul | Div | Pow | '(' Expr ')'
// Call = funcname | funcname '(' [ Expr { ',' Expr } ] ')'
// Neg = '-' Expr
// Plus = '+' Expr
// Add = Expr '+' Expr
// Sub = Expr '-' Expr
// Mul = Expr '*' Expr | Expr '×' Expr
// Div = Expr '/' Expr | Expr '÷' Expr
// Pow = Expr '^' Expr | Expr '**' Expr

// Parse parses an expression tree. The given options are applied in order.
//
// Identifiers resolve first to bindings from the options, then to builtin
// functions, then to builtin constants. Any other identifier becomes a new
// symbol, unless it is followed by an argument list, in which case it is an
// error.
func Parse(src io.RuneScanner, opts ...ParseOption) (*Expr, error) {
	scan := newLexer(src)
	p := parsectx{evaluate: true}
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	n, err := parseterm(scan, &p, exprprec)
	if err != nil {
		return nil, err
	}
	switch tok := scan.reread(); tok.kind {
	case tokenEOF:
	case tokenClose:
		return nil, &BracketError{Col: tok.col}
	case tokenSep:
		return nil, &SeparatorError{Col: tok.col}
	default:
		panic("sym: parse ended on " + tok.String())
	}
	if p.evaluate {
		n = Fold(n)
	}
	return n, nil
}

// ParseString is a shortcut to parse an expression from a string.
func ParseString(src string, opts ...ParseOption) (*Expr, error) {
	return Parse(strings.NewReader(src), opts...)
}

// parseterm parses a single term. If there is no error, then parseterm unreads
// the last token it scans, including EOF. If the input is an empty
// subexpression, the result is nil with no error; callers must create an error
// in contexts where empty subexpressions are illegal.
func parseterm(scan *lexer, p *parsectx, until operator) (*Expr, error) {
	n, err := parselhs(scan, p, until)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenNum, tokenIdent, tokenOpen:
			// Juxtaposition is not multiplication.
			return nil, &TokenError{Col: tok.col, Token: tok.text}
		case tokenOp:
			prec := binop(tok.text)
			if prec.op == opNone {
				return nil, &OperatorError{Col: tok.col, Operator: tok.text, Unary: false}
			}
			if !prec.moreBinding(until) {
				scan.unread(tok)
				return n, nil
			}
			rhs, err := parseterm(scan, p, prec)
			if err != nil {
				return nil, err
			}
			if rhs == nil {
				end := scan.reread()
				return nil, &EmptyExpressionError{Col: end.col, End: end.text}
			}
			n = prec.binary(n, rhs)
		case tokenClose, tokenSep, tokenEOF:
			// End of expression.
			scan.unread(tok)
			return n, nil
		default:
			panic("sym: unknown token: " + tok.String())
		}
	}
}

// parselhs parses the first component of a term. I.e., operators are unary and
// any encountered token must be valid as the start of a subexpression.
func parselhs(scan *lexer, p *parsectx, until operator) (*Expr, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenNum:
		n, err := Number(tok.text)
		if err != nil {
			var le *LexError
			if errors.As(err, &le) {
				le.Col = tok.col
			}
			return nil, err
		}
		return n, nil
	case tokenIdent:
		return parseident(scan, p, tok)
	case tokenOp:
		prec := unop(tok.text)
		if prec.op == opNone {
			return nil, &OperatorError{Col: tok.col, Operator: tok.text, Unary: true}
		}
		if !prec.moreBinding(until) {
			// x^-y -> x^(-y)
			// Just use the new operator's precedence to simplify.
			prec.prec, prec.right = until.prec, until.right
		}
		rhs, err := parseterm(scan, p, prec)
		if err != nil {
			return nil, err
		}
		if rhs == nil {
			end := scan.reread()
			return nil, &EmptyExpressionError{Col: end.col, End: end.text}
		}
		return prec.unary(rhs), nil
	case tokenOpen:
		rhs, err := parseterm(scan, p, exprprec)
		if err != nil {
			var ee *EmptyExpressionError
			if errors.As(err, &ee) && ee.End == "" {
				return nil, &BracketError{Col: tok.col, Open: true}
			}
			return nil, err
		}
		end := scan.reread()
		switch end.kind {
		case tokenClose:
		case tokenSep:
			return nil, &SeparatorError{Col: end.col}
		default:
			return nil, &BracketError{Col: tok.col, Open: true}
		}
		if rhs == nil {
			return nil, &EmptyExpressionError{Col: end.col, End: end.text}
		}
		return rhs, nil
	case tokenClose, tokenSep:
		// Let the caller decide whether an empty subexpression is allowed,
		// e.g. f().
		scan.unread(tok)
		return nil, nil
	case tokenEOF:
		return nil, &EmptyExpressionError{Col: tok.col, End: ""}
	default:
		panic("sym: unknown token: " + tok.String())
	}
}

// parseident resolves an identifier, parsing a call if it is followed by an
// argument list.
func parseident(scan *lexer, p *parsectx, tok token) (*Expr, error) {
	name := tok.text
	b, local := p.lookup(name)
	next, err := scan.next()
	if err != nil {
		return nil, err
	}
	if next.kind != tokenOpen {
		scan.unread(next)
		switch {
		case b.fn != nil:
			// A bare function name is a call with no arguments.
			return call(b.fn, name, tok.col, nil)
		case b.val != nil:
			return b.val, nil
		default:
			return Symbol(name), nil
		}
	}
	if b.fn == nil {
		if b.val != nil || local {
			return nil, &CallError{Col: tok.col, Func: name, NotFunc: true}
		}
		return nil, &NameError{Col: tok.col, Name: name, Func: true}
	}
	args, err := parsearglist(scan, p, next)
	if err != nil {
		return nil, err
	}
	return call(b.fn, name, tok.col, args)
}

// call checks the arity of a call and builds it.
func call(fn Func, name string, pos int, args []*Expr) (*Expr, error) {
	if !fn.CanCall(len(args)) {
		return nil, &CallError{Col: pos, Func: name, Len: len(args)}
	}
	r, err := fn.Call(args)
	if err != nil {
		return nil, &FuncError{Col: pos, Func: name, Err: err}
	}
	if r == nil {
		return nil, &FuncError{Col: pos, Func: name, Err: errors.New("no expression built")}
	}
	return r, nil
}

// parsearglist parses the remainder of a parenthesized list of zero or more
// arguments after its open bracket.
func parsearglist(scan *lexer, p *parsectx, open token) ([]*Expr, error) {
	var args []*Expr
	for {
		rhs, err := parseterm(scan, p, exprprec)
		if err != nil {
			// As a special case, reporting an unclosed bracket is more helpful
			// than empty expression, if that's what we'd do here.
			var ee *EmptyExpressionError
			if errors.As(err, &ee) && ee.End == "" {
				err = &BracketError{Col: open.col, Open: true}
			}
			return nil, err
		}
		end := scan.reread()
		switch end.kind {
		case tokenClose:
			if rhs == nil {
				// f() is allowed, but f(a,) isn't.
				if len(args) != 0 {
					return nil, &EmptyExpressionError{Col: end.col, End: end.text}
				}
				return nil, nil
			}
			return append(args, rhs), nil
		case tokenSep:
			if rhs == nil {
				return nil, &EmptyExpressionError{Col: end.col, End: end.text}
			}
			args = append(args, rhs)
		case tokenEOF:
			return nil, &BracketError{Col: open.col, Open: true}
		default:
			panic("sym: parseterm ended on non-end token " + end.String())
		}
	}
}

type opKind int8

const (
	opNone opKind = iota
	opAdd
	opSub
	opMul
	opDiv
	opPow
	opNeg
	opPlus
)

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the operation to build when this operator is selected.
	op opKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binary builds the node for a binary operator. Chains of the same associative
// operator are collected into one node, so "a + b + c" is a single sum.
func (p operator) binary(l, r *Expr) *Expr {
	switch p.op {
	case opAdd:
		return flat(KindAdd, l, r)
	case opSub:
		return flat(KindAdd, l, Neg(r))
	case opMul:
		return flat(KindMul, l, r)
	case opDiv:
		return flat(KindMul, l, Inv(r))
	case opPow:
		return Pow(l, r)
	default:
		panic("sym: not a binary operator")
	}
}

func (p operator) unary(x *Expr) *Expr {
	switch p.op {
	case opNeg:
		return Neg(x)
	case opPlus:
		return x
	default:
		panic("sym: not a unary operator")
	}
}

func flat(kind Kind, l, r *Expr) *Expr {
	if l.kind == kind {
		return &Expr{kind: kind, args: append(slices.Clone(l.args), r)}
	}
	return &Expr{kind: kind, args: []*Expr{l, r}}
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of opNone.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{1, false, opAdd}
	case "-":
		return operator{1, false, opSub}
	case "*", "×":
		return operator{5, false, opMul}
	case "/", "÷":
		return operator{5, false, opDiv}
	case "^", "**":
		return operator{15, true, opPow}
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string. If there is no such unary
// operator, then the result has an op of opNone.
func unop(text string) operator {
	switch text {
	case "+":
		return operator{10, true, opPlus}
	case "-":
		return operator{10, true, opNeg}
	default:
		return operator{}
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, opNone}
