// Package sym implements a small computer algebra engine: immutable
// expression trees, a parser for conventional infix syntax, automatic
// numeric folding, and arbitrary-precision evaluation.
//
// Expressions are built either directly with constructors like Add and Call,
// which never simplify, or by parsing text. "x0 + sin(x1)" parses to a sum of
// the symbol x0 and a call of sin on x1. "-x^2" is the same as "-(x^2)", and
// "2^3^2" is "2^(3^2)". There is no implicit multiplication; "2 x" is an
// error.
//
// By default the parser folds numeric subexpressions, so "1 + 1" parses to
// the integer 2. Parse with Evaluate(false) to keep the tree exactly as
// written.
//
// Names used in calls resolve through parse options first, so callers can
// replace any builtin function with their own Func. Names that resolve to
// nothing become symbols.
//
// A Context evaluates trees to *big.Float values. Functions applied outside
// their real domain produce a *DomainError rather than NaN.
package sym
