// Package srsym translates equations found by symbolic regression into
// symbolic expression trees.
//
// Equations name their operators with tokens like "plus", "log_abs", or
// "greater_equal", and their variables with feature names like "x0". The
// package's operator registry maps each token to an expression built from the
// primitives of the sym engine. Several tokens build domain-safe variants of
// partial functions; "sqrt_abs(x)" is sqrt(|x|), and "atanh_clip(x)" wraps x
// into [-1, 1) before applying atanh. Comparisons build piecewise expressions
// whose final branch always holds.
//
// Translation keeps the explicit structure of the equation, so
// "plus(1, 1)" is a sum of two ones rather than the number 2:
//
//	e, err := srsym.Translate("x0 + sin(x1)", []string{"x0", "x1"}, nil)
//
// Callers can add or replace operators for a single translation with the
// extra argument, and can define operators from text with NewTemplate.
package srsym
