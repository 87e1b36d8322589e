package sym

import (
	"math/big"
	"strconv"
)

// OperatorError is an error indicating an operator token that is not
// understood by the parser. It implements InputError.
type OperatorError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the token that was not understood.
	Operator string
	// Unary is whether the parser expected a unary operator at the time.
	Unary bool
}

func (err *OperatorError) Error() string {
	s := "binary"
	if err.Unary {
		s = "unary"
	}
	return errpos(err.Col, "unknown "+s+" operator "+strconv.Quote(err.Operator))
}

func (err *OperatorError) Pos() int {
	return err.Col
}

// BracketError is an error indicating mismatched parentheses in the input. It
// implements InputError.
type BracketError struct {
	// Col is the position of the offending bracket or end of input.
	Col int
	// Open is true if an open bracket was never closed, false if a close
	// bracket has no open bracket.
	Open bool
}

func (err *BracketError) Error() string {
	if err.Open {
		return errpos(err.Col, "open bracket ( with no close bracket")
	}
	return errpos(err.Col, "close bracket ) with no open bracket")
}

func (err *BracketError) Pos() int {
	return err.Col
}

// SeparatorError is an error indicating a comma outside of an argument list.
// It implements InputError.
type SeparatorError struct {
	// Col is the position of the separator.
	Col int
}

func (err *SeparatorError) Error() string {
	return errpos(err.Col, `invalid occurrence of separator ","`)
}

func (err *SeparatorError) Pos() int {
	return err.Col
}

// TokenError is an error indicating a term where an operator or the end of
// the expression was expected, as in "2 x". It implements InputError.
type TokenError struct {
	// Col is the position of the token.
	Col int
	// Token is the unexpected token text.
	Token string
}

func (err *TokenError) Error() string {
	return errpos(err.Col, "unexpected "+strconv.Quote(err.Token)+" (missing operator?)")
}

func (err *TokenError) Pos() int {
	return err.Col
}

// CallError is an error indicating a function call with the wrong number of
// arguments, or an attempt to call something that is not a function. It
// implements InputError.
type CallError struct {
	// Col is the position of the function name.
	Col int
	// Func is the name that was called.
	Func string
	// Len is the number of arguments the call supplied.
	Len int
	// NotFunc indicates that Func names a value rather than a function.
	NotFunc bool
}

func (err *CallError) Error() string {
	if err.NotFunc {
		return errpos(err.Col, strconv.Quote(err.Func)+" is not a function")
	}
	return errpos(err.Col, "cannot call "+err.Func+" with "+strconv.Itoa(err.Len)+" arguments")
}

func (err *CallError) Pos() int {
	return err.Col
}

// EmptyExpressionError is an error indicating an empty subexpression.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		if err.Col <= 1 {
			return errpos(err.Col, "no expression")
		}
		return errpos(err.Col, "no expression at end")
	}
	return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

// NameError is an error from a call to a function name that is bound neither
// in the parse environment nor in the builtin namespace, or from evaluating a
// symbol with no value. It implements InputError; Col is zero for evaluation
// errors.
type NameError struct {
	// Col is the position of the name.
	Col int
	// Name is the name that was missing.
	Name string
	// Func is true if the name was used as a function.
	Func bool
}

func (err *NameError) Error() string {
	if err.Func {
		return errpos(err.Col, "undefined function: "+strconv.Quote(err.Name))
	}
	if err.Col == 0 {
		return "undefined variable: " + strconv.Quote(err.Name)
	}
	return errpos(err.Col, "undefined variable: "+strconv.Quote(err.Name))
}

func (err *NameError) Pos() int {
	return err.Col
}

// FuncError is an error returned by a Func while building a call. It
// implements InputError.
type FuncError struct {
	// Col is the position of the function name.
	Col int
	// Func is the name of the function.
	Func string
	// Err is the error the function returned.
	Err error
}

func (err *FuncError) Error() string {
	return errpos(err.Col, err.Func+": "+err.Err.Error())
}

func (err *FuncError) Pos() int {
	return err.Col
}

func (err *FuncError) Unwrap() error {
	return err.Err
}

// UnsupportedOptionError is returned by a parser that cannot honor a parse
// option, e.g. an engine build without unevaluated construction.
type UnsupportedOptionError struct {
	// Option names the option.
	Option string
}

func (err *UnsupportedOptionError) Error() string {
	return "unsupported parse option " + strconv.Quote(err.Option)
}

// DomainError is an error returned when a function is evaluated on arguments
// outside its real domain.
type DomainError struct {
	// X is the out-of-domain argument. It may be nil when the argument is not
	// representable, e.g. NaN.
	X *big.Float
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is a name identifying the function.
	Func string
}

func (err *DomainError) Error() string {
	r := "undefined value"
	if err.X != nil {
		r = err.X.String() + " outside domain"
	}
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}

// Unwrap returns big.ErrNaN, the panic value math/big uses for operations
// without a real result.
func (err *DomainError) Unwrap() error {
	return big.ErrNaN{}
}

// TypeError is an error evaluating a truth value where a number is required,
// or a number where a truth value is required.
type TypeError struct {
	// Kind is the kind of the offending node.
	Kind Kind
	// Bool is true if a truth value was required.
	Bool bool
}

func (err *TypeError) Error() string {
	if err.Bool {
		return err.Kind.String() + " is not a truth value"
	}
	return err.Kind.String() + " is not a number"
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*SeparatorError)(nil)
	_ InputError = (*TokenError)(nil)
	_ InputError = (*CallError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*NameError)(nil)
	_ InputError = (*FuncError)(nil)
	_ InputError = (*LexError)(nil)
)
