package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/srsym"
	"github.com/zephyrtronium/srsym/internal/config"
)

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <name>...",
		Short: "Check whether names are usable as feature names",
		Long: `Check whether each name can be used as a feature name. A name conflicts
if it is an operator token, including configured operators, or if the
algebra engine reserves it.`,
		Example: `  srsym check x0 temperature pi`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			out := cmd.OutOrStdout()
			bad := 0
			for _, name := range args {
				err := checkName(cfg, name)
				if err != nil {
					bad++
					_, _ = fmt.Fprintf(out, "%s: %v\n", name, err)
					continue
				}
				_, _ = fmt.Fprintf(out, "%s: ok\n", name)
			}
			if bad > 0 {
				return fmt.Errorf("%d of %d names conflict", bad, len(args))
			}
			return nil
		},
	}
}

func checkName(cfg *config.Config, name string) error {
	if _, ok := cfg.Operators[name]; ok {
		return &srsym.NamingConflictError{Name: name, Conflict: srsym.ConflictOperator}
	}
	return srsym.ValidateName(name)
}
