package sym_test

import (
	"math/big"
	"testing"

	"github.com/zephyrtronium/srsym/sym"
)

func FuzzEval(f *testing.F) {
	f.Add("x")
	f.Add("y")
	f.Add("1×2")
	f.Add("log(x) - oo")
	f.Fuzz(func(t *testing.T, s string) {
		sym.EvalString(s, sym.SetVar("x", new(big.Float)))
	})
}
