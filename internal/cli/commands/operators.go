package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/srsym"
	"github.com/zephyrtronium/srsym/internal/config"
)

// operatorInfo describes one operator token for display.
type operatorInfo struct {
	Token      string `json:"token"`
	Arity      int    `json:"arity"`
	Definition string `json:"definition"`
	Source     string `json:"source"`
}

// NewOperatorsCommand creates the operators command.
func NewOperatorsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "operators",
		Aliases: []string{"ops"},
		Short:   "List operator tokens and their definitions",
		Long: `List every operator token that equations may use, along with its arity
and the expression it constructs for the operands x and y.

Operators declared in the config file or with --operator are listed after
the builtin tokens. A configured operator with the name of a builtin token
replaces it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.FromContext(cmd.Context())
			ops, err := collectOperators(cfg)
			if err != nil {
				return err
			}
			if cfg.Output == config.OutputJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(ops)
			}
			renderOperatorTable(cmd.OutOrStdout(), ops)
			return nil
		},
	}
}

func collectOperators(cfg *config.Config) ([]operatorInfo, error) {
	reg := srsym.Builtins()
	ops := make([]operatorInfo, 0, reg.Len()+len(cfg.Operators))
	for _, name := range reg.Names() {
		if _, ok := cfg.Operators[name]; ok {
			continue
		}
		op, _ := reg.Lookup(name)
		def, err := op.Definition()
		if err != nil {
			return nil, err
		}
		ops = append(ops, operatorInfo{Token: name, Arity: op.Arity, Definition: def.String(), Source: "builtin"})
	}
	for _, name := range cfg.OperatorNames() {
		oc := cfg.Operators[name]
		t, err := srsym.NewTemplate(oc.Params, oc.Body)
		if err != nil {
			return nil, fmt.Errorf("operator %q: %w", name, err)
		}
		def := t.Body().String()
		if len(oc.Params) > 0 {
			def = "(" + strings.Join(oc.Params, ", ") + ") -> " + def
		}
		ops = append(ops, operatorInfo{Token: name, Arity: len(oc.Params), Definition: def, Source: "config"})
	}
	return ops, nil
}

func renderOperatorTable(w io.Writer, ops []operatorInfo) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Token", "Arity", "Definition", "Source"})
	for _, op := range ops {
		t.AppendRow(table.Row{op.Token, op.Arity, op.Definition, op.Source})
	}
	t.Render()
}
