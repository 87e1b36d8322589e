package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/srsym"
)

// run executes the root command in an empty working directory.
func run(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Chdir(t.TempDir())
	cmd := NewRootCmd()
	var out, errb bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errb)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errb.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCmd()
	assert.Equal(t, "srsym", cmd.Use)
	for _, flag := range []string{"config", "verbose", "output", "jobs", "operator"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
	names := make([]string, 0)
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"translate", "eval", "operators", "check", "version"})
}

func TestTranslate(t *testing.T) {
	out, _, err := run(t, "", "translate", "-f", "x0,x1", "plus(x0, sin(x1))", "mult(x0, 2)")
	require.NoError(t, err)
	assert.Equal(t, "x0 + sin(x1)\nx0*2\n", out)
}

func TestTranslate_Evaluate(t *testing.T) {
	out, _, err := run(t, "", "translate", "--evaluate", "plus(1, 1)")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)
}

func TestTranslate_Stdin(t *testing.T) {
	out, _, err := run(t, "# comment\nplus(x0, 1)\n\nx0\n", "translate", "-f", "x0", "--in", "-", "-j", "1")
	require.NoError(t, err)
	assert.Equal(t, "x0 + 1\nx0\n", out)
}

func TestTranslate_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eqs.txt")
	require.NoError(t, os.WriteFile(path, []byte("square(x0)\n"), 0600))
	out, _, err := run(t, "", "translate", "-f", "x0", "--in", path)
	require.NoError(t, err)
	assert.Equal(t, "x0**2\n", out)

	_, _, err = run(t, "", "translate", "--in", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestTranslate_Operator(t *testing.T) {
	out, _, err := run(t, "", "translate", "-f", "x0,x1",
		"--operator", "hypot(x,y)=sqrt_abs(square(x)+square(y))", "hypot(x0, x1)")
	require.NoError(t, err)
	assert.Equal(t, "sqrt(Abs(x0**2 + x1**2))\n", out)
}

func TestTranslate_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "custom.yaml")
	content := "features: [a, b]\noutput: json\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0600))

	out, _, err := run(t, "", "--config", cfgPath, "translate", "plus(a, b)")
	require.NoError(t, err)
	assert.Contains(t, out, `"text": "a + b"`)
}

func TestTranslate_Verbose(t *testing.T) {
	_, stderr, err := run(t, "", "-v", "translate", "x0")
	require.NoError(t, err)
	assert.Contains(t, stderr, "level=DEBUG")
	assert.Contains(t, stderr, "translating equations")
}

func TestTranslate_Errors(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		errSubstr string
	}{
		{"no equations", []string{"translate"}, "no equations given"},
		{"unknown operator", []string{"translate", "-f", "x0", "nosuch(x0)"}, `translating "nosuch(x0)"`},
		{"feature is token", []string{"translate", "-f", "plus", "x0"}, "operator token"},
		{"bad output", []string{"translate", "-o", "yaml", "x0"}, "unknown output format"},
		{"bad jobs", []string{"translate", "--jobs=0", "x0"}, "jobs must be at least 1"},
		{"bad operator", []string{"translate", "--operator", "f(x)", "x0"}, "missing '='"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestTranslate_ConstructionError(t *testing.T) {
	_, _, err := run(t, "", "translate", "plus(x0")
	var ce *srsym.ConstructionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "plus(x0", ce.Equation)
}

func TestEval(t *testing.T) {
	out, _, err := run(t, "", "eval", "-f", "x0,x1", "--given", "x0=2", "--given", "x1 = 1/2", "plus(x0, cube(x1))", "div(x0, 4)")
	require.NoError(t, err)
	assert.Equal(t, "2.125\n0.5\n", out)

	out, _, err = run(t, "", "eval", "--echo", "--given", "x0=3", "square(x0)")
	require.NoError(t, err)
	assert.Equal(t, "x0**2 : 9\n", out)
}

func TestEval_Errors(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		errSubstr string
	}{
		{"domain", []string{"eval", "--given", "x0=-1", "sqrt(x0)"}, `evaluating "sqrt(x0)"`},
		{"unbound", []string{"eval", "plus(x0, 1)"}, `evaluating "plus(x0, 1)"`},
		{"bad given", []string{"eval", "--given", "x0", "x0"}, "name=value"},
		{"bad value", []string{"eval", "--given", "x0=(", "x0"}, "setting x0"},
		{"bad equation", []string{"eval", "plus(x0"}, `translating "plus(x0"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestOperators(t *testing.T) {
	out, _, err := run(t, "", "operators", "--operator", "twice(u)=mult(2, u)")
	require.NoError(t, err)
	for _, want := range []string{"TOKEN", "sqrt_abs", "logical_or", "twice", "(u) -> 2*u"} {
		assert.Contains(t, out, want)
	}

	out, _, err = run(t, "", "operators", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"token": "div"`)
	assert.Contains(t, out, `"definition": "x/y"`)
}

func TestCheck(t *testing.T) {
	out, _, err := run(t, "", "check", "x0", "temperature")
	require.NoError(t, err)
	assert.Equal(t, "x0: ok\ntemperature: ok\n", out)

	out, _, err = run(t, "", "check", "x0", "plus", "pi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 3 names conflict")
	assert.Contains(t, out, "x0: ok")
	assert.Contains(t, out, `plus: name "plus" is an operator token`)
	assert.Contains(t, out, `pi: name "pi" is reserved`)
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "srsym v"+Version+"\n", out)
}

func TestPrintError(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = old })

	var buf bytes.Buffer
	PrintError(&buf, errors.New("boom"))
	assert.Equal(t, "error: boom\n", buf.String())
}
