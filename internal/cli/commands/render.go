package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/list"

	"github.com/zephyrtronium/srsym/internal/config"
	"github.com/zephyrtronium/srsym/sym"
)

// translation is the JSON form of one translated equation.
type translation struct {
	Equation string    `json:"equation"`
	Text     string    `json:"text"`
	Tree     *sym.Expr `json:"tree"`
}

func renderResults(w io.Writer, format string, eqs []string, results []*sym.Expr) error {
	switch format {
	case config.OutputJSON:
		return renderJSON(w, eqs, results)
	case config.OutputTree:
		renderTrees(w, eqs, results)
		return nil
	default:
		for _, e := range results {
			_, _ = fmt.Fprintln(w, e)
		}
		return nil
	}
}

func renderJSON(w io.Writer, eqs []string, results []*sym.Expr) error {
	out := make([]translation, len(results))
	for i, e := range results {
		out[i] = translation{Equation: eqs[i], Text: e.String(), Tree: e}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func renderTrees(w io.Writer, eqs []string, results []*sym.Expr) {
	for i, e := range results {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintln(w, eqs[i])
		l := list.NewWriter()
		l.SetStyle(list.StyleConnectedLight)
		appendTree(l, e)
		_, _ = fmt.Fprintln(w, l.Render())
	}
}

// appendTree adds e and its operands to l, one level of indentation per
// level of the tree.
func appendTree(l list.Writer, e *sym.Expr) {
	l.AppendItem(nodeLabel(e))
	if e.Len() == 0 {
		return
	}
	l.Indent()
	for i := range e.Len() {
		appendTree(l, e.Arg(i))
	}
	l.UnIndent()
}

func nodeLabel(e *sym.Expr) string {
	switch e.Kind() {
	case sym.KindNum, sym.KindSymbol, sym.KindConst, sym.KindTrue, sym.KindFalse:
		return e.String()
	case sym.KindCall:
		return e.Name()
	default:
		return e.Kind().String()
	}
}
