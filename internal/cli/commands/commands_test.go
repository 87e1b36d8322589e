package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/srsym"
	"github.com/zephyrtronium/srsym/internal/config"
	"github.com/zephyrtronium/srsym/sym"
)

func TestNewTranslateCommand(t *testing.T) {
	cmd := NewTranslateCommand()

	assert.Equal(t, "translate [equation...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	// output, jobs, and operator are global flags on root
	for _, flag := range []string{"features", "evaluate", "in"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
	assert.Equal(t, "f", cmd.Flags().Lookup("features").Shorthand)
}

func TestNewOperatorsCommand(t *testing.T) {
	cmd := NewOperatorsCommand()

	assert.Equal(t, "operators", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.Contains(t, cmd.Aliases, "ops")
}

func TestNewCheckCommand(t *testing.T) {
	cmd := NewCheckCommand()

	assert.Equal(t, "check <name>...", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.Error(t, cmd.Args(cmd, nil), "check should require at least one name")
}

func TestNewVersionCommand(t *testing.T) {
	cmd := NewVersionCommand("1.2.3")
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "srsym v1.2.3\n", buf.String())
}

func TestReadEquations(t *testing.T) {
	in := "# hall of fame\nplus(x0, 1)\n\n   \n  mult(x0, x1)  \n#x0\n"
	eqs, err := readEquations(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"plus(x0, 1)", "mult(x0, x1)"}, eqs)

	eqs, err = readEquations(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, eqs)
}

func TestTranslateAll(t *testing.T) {
	eqs := []string{"plus(x0, 1)", "sin(x1)", "x0", "square(x1)", "neg(x0)"}
	want := []string{"x0 + 1", "sin(x1)", "x0", "x1**2", "-x0"}
	for _, jobs := range []int{1, 2, 8} {
		got, err := translateAll(context.Background(), &srsym.Translator{}, jobs, eqs, []string{"x0", "x1"}, nil)
		require.NoError(t, err)
		require.Len(t, got, len(eqs))
		for i, e := range got {
			assert.Equal(t, want[i], e.String(), "jobs=%d equation %q", jobs, eqs[i])
		}
	}
}

func TestTranslateAll_Error(t *testing.T) {
	eqs := []string{"x0", "nosuch(x0)", "x0 + 1"}
	got, err := translateAll(context.Background(), &srsym.Translator{}, 1, eqs, []string{"x0"}, nil)
	require.Error(t, err)
	assert.Nil(t, got)
	var ce *srsym.ConstructionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "nosuch(x0)", ce.Equation)
}

func TestTranslateAll_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := translateAll(ctx, &srsym.Translator{}, 1, []string{"x0"}, []string{"x0"}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderResults(t *testing.T) {
	e, err := srsym.Translate("plus(x0, sin(x1))", []string{"x0", "x1"}, nil)
	require.NoError(t, err)
	eqs := []string{"plus(x0, sin(x1))"}
	results := []*sym.Expr{e}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, renderResults(&buf, config.OutputText, eqs, results))
		assert.Equal(t, "x0 + sin(x1)\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, renderResults(&buf, config.OutputJSON, eqs, results))
		out := buf.String()
		assert.Contains(t, out, `"equation": "plus(x0, sin(x1))"`)
		assert.Contains(t, out, `"text": "x0 + sin(x1)"`)
		assert.Contains(t, out, `"type": "add"`)
		assert.Contains(t, out, `"name": "sin"`)
	})

	t.Run("tree", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, renderResults(&buf, config.OutputTree, eqs, results))
		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		require.Len(t, lines, 5)
		assert.Equal(t, "plus(x0, sin(x1))", lines[0])
		assert.Contains(t, lines[1], "Add")
		assert.Contains(t, lines[2], "x0")
		assert.Contains(t, lines[3], "sin")
		assert.Contains(t, lines[4], "x1")
	})
}

func TestAppendTree(t *testing.T) {
	e := sym.Piecewise(sym.Piece(sym.Symbol("x"), sym.Gt(sym.Symbol("x"), sym.Int(0))), sym.Piece(sym.Int(0), sym.True()))
	l := list.NewWriter()
	appendTree(l, e)
	out := l.Render()
	for _, want := range []string{"Piecewise", "Piece", "Gt", "True", "x", "0"} {
		assert.Contains(t, out, want)
	}
}

func TestNodeLabel(t *testing.T) {
	tests := []struct {
		e    *sym.Expr
		want string
	}{
		{sym.Symbol("x0"), "x0"},
		{sym.Int(3), "3"},
		{sym.Float(0.5), "0.5"},
		{sym.Pi, "pi"},
		{sym.True(), "True"},
		{sym.Call("sin", sym.Symbol("x")), "sin"},
		{sym.Add(sym.Symbol("x"), sym.Int(1)), "Add"},
		{sym.Pow(sym.Symbol("x"), sym.Int(2)), "Pow"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, nodeLabel(tt.e))
	}
}

func TestCollectOperators(t *testing.T) {
	cfg := &config.Config{Operators: map[string]config.OperatorConfig{
		"hypot": {Params: []string{"x", "y"}, Body: "sqrt_abs(square(x) + square(y))"},
		"sin":   {Params: []string{"x"}, Body: "cos(x)"},
	}}
	ops, err := collectOperators(cfg)
	require.NoError(t, err)
	assert.Len(t, ops, srsym.Builtins().Len()+1)

	byToken := make(map[string]operatorInfo)
	for _, op := range ops {
		_, dup := byToken[op.Token]
		require.False(t, dup, "token %q listed twice", op.Token)
		byToken[op.Token] = op
	}
	assert.Equal(t, operatorInfo{Token: "div", Arity: 2, Definition: "x/y", Source: "builtin"}, byToken["div"])
	assert.Equal(t, operatorInfo{Token: "hypot", Arity: 2, Definition: "(x, y) -> sqrt(Abs(x**2 + y**2))", Source: "config"}, byToken["hypot"])
	assert.Equal(t, "config", byToken["sin"].Source)

	var buf bytes.Buffer
	renderOperatorTable(&buf, ops)
	out := buf.String()
	for _, want := range []string{"TOKEN", "ARITY", "DEFINITION", "div", "x/y", "hypot", "config"} {
		assert.Contains(t, out, want)
	}
}

func TestCheckName(t *testing.T) {
	cfg := &config.Config{Operators: map[string]config.OperatorConfig{"hypot": {Body: "1"}}}
	assert.NoError(t, checkName(cfg, "x0"))

	var nc *srsym.NamingConflictError
	require.ErrorAs(t, checkName(cfg, "hypot"), &nc)
	assert.Equal(t, srsym.ConflictOperator, nc.Conflict)
	require.ErrorAs(t, checkName(cfg, "plus"), &nc)
	assert.Equal(t, srsym.ConflictOperator, nc.Conflict)
	require.ErrorAs(t, checkName(cfg, "pi"), &nc)
	assert.Equal(t, srsym.ConflictNamespace, nc.Conflict)
}
