package commands

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/srsym"
	"github.com/zephyrtronium/srsym/internal/config"
	"github.com/zephyrtronium/srsym/sym"
)

// NewEvalCommand creates the eval command.
func NewEvalCommand() *cobra.Command {
	var (
		given []string
		prec  uint
		verb  string
		echo  bool
	)

	cmd := &cobra.Command{
		Use:   "eval <equation>...",
		Short: "Translate equations and evaluate them numerically",
		Long: `Translate each equation, then evaluate the result with arbitrary
precision using the feature values given with --given.

Values may themselves be expressions, e.g. --given "x0=pi/4".`,
		Example: `  srsym eval -f x0,x1 --given x0=2 --given x1=0.5 "plus(x0, cube(x1))"
  srsym eval -p 256 --fmt %.50f "sqrt(2)"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			vars, err := parseGiven(given, prec)
			if err != nil {
				return err
			}
			extra, err := cfg.Templates()
			if err != nil {
				return err
			}
			tr := &srsym.Translator{Logger: config.GetLogger(cmd.Context()), Evaluate: cfg.Evaluate}
			out := cmd.OutOrStdout()
			for _, eq := range args {
				e, err := tr.Translate(eq, cfg.Features, extra)
				if err != nil {
					return err
				}
				ctx := sym.NewContext(sym.Prec(prec), sym.SetVars(vars))
				r := ctx.Eval(e)
				if r == nil {
					return fmt.Errorf("evaluating %q: %w", eq, ctx.Err())
				}
				if echo {
					_, _ = fmt.Fprintf(out, "%v : ", e)
				}
				_, _ = fmt.Fprintf(out, verb+"\n", r)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceP("features", "f", nil, "Feature names, comma separated")
	cmd.Flags().Bool("evaluate", false, "Evaluate numeric subexpressions during construction")
	cmd.Flags().StringArrayVar(&given, "given", nil, "name=value variable definition (any number of times)")
	cmd.Flags().UintVarP(&prec, "prec", "p", 64, "Precision of calculations in bits")
	cmd.Flags().StringVar(&verb, "fmt", "%g", "Result formatting verb")
	cmd.Flags().BoolVar(&echo, "echo", false, "Print translated expressions before results")

	return cmd
}

// parseGiven evaluates name=value definitions.
func parseGiven(given []string, prec uint) (map[string]*big.Float, error) {
	vars := make(map[string]*big.Float, len(given))
	for _, d := range given {
		name, val, ok := strings.Cut(d, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf(`variable definitions must be "name=value", not %q`, d)
		}
		r, err := sym.EvalString(strings.TrimSpace(val), sym.Prec(prec))
		if err != nil {
			return nil, fmt.Errorf("setting %s: %w", name, err)
		}
		vars[name] = r
	}
	return vars, nil
}
