package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zephyrtronium/srsym"
	"github.com/zephyrtronium/srsym/internal/config"
	"github.com/zephyrtronium/srsym/sym"
)

// NewTranslateCommand creates the translate command.
func NewTranslateCommand() *cobra.Command {
	var in string

	cmd := &cobra.Command{
		Use:   "translate [equation...]",
		Short: "Translate equations to expression trees",
		Long: `Translate equations written with operator tokens into symbolic
expression trees.

Equations come from the arguments, or one per line from --in. Blank lines
and lines starting with # are skipped. Results are printed in input order.`,
		Example: `  # Translate one equation
  srsym translate -f x0,x1 "plus(x0, sin(x1))"

  # Translate a hall of fame file as JSON
  srsym translate -f x0,x1,x2 --in equations.txt -o json

  # Read equations from stdin with an extra operator
  cat eqs.txt | srsym translate --in - --operator "hypot(x,y)=sqrt_abs(square(x)+square(y))"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			eqs := args
			if in != "" {
				read, err := readEquationsFrom(cmd, in)
				if err != nil {
					return err
				}
				eqs = append(eqs, read...)
			}
			if len(eqs) == 0 {
				return errors.New("no equations given")
			}
			return runTranslate(cmd, eqs)
		},
	}

	cmd.Flags().StringSliceP("features", "f", nil, "Feature names, comma separated")
	cmd.Flags().Bool("evaluate", false, "Evaluate numeric subexpressions during construction")
	cmd.Flags().StringVar(&in, "in", "", "Read equations from a file, one per line (- for stdin)")

	return cmd
}

func readEquationsFrom(cmd *cobra.Command, path string) ([]string, error) {
	if path == "-" {
		return readEquations(cmd.InOrStdin())
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open equations: %w", err)
	}
	defer func() { _ = f.Close() }()
	return readEquations(f)
}

// readEquations reads one equation per line.
func readEquations(r io.Reader) ([]string, error) {
	var eqs []string
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		eqs = append(eqs, line)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("failed to read equations: %w", err)
	}
	return eqs, nil
}

func runTranslate(cmd *cobra.Command, eqs []string) error {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())

	extra, err := cfg.Templates()
	if err != nil {
		return err
	}
	tr := &srsym.Translator{Logger: logger, Evaluate: cfg.Evaluate}
	logger.Debug("translating equations", "count", len(eqs), "jobs", cfg.Jobs, "evaluate", cfg.Evaluate)

	results, err := translateAll(cmd.Context(), tr, cfg.Jobs, eqs, cfg.Features, extra)
	if err != nil {
		return err
	}
	return renderResults(cmd.OutOrStdout(), cfg.Output, eqs, results)
}

// translateAll translates eqs with at most jobs running at once. Results are
// in the same order as eqs. The first failure cancels the rest.
func translateAll(ctx context.Context, tr *srsym.Translator, jobs int, eqs, features []string, extra map[string]sym.Func) ([]*sym.Expr, error) {
	results := make([]*sym.Expr, len(eqs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, eq := range eqs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			e, err := tr.Translate(eq, features, extra)
			if err != nil {
				return err
			}
			results[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
