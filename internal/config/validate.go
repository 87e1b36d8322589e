package config

import (
	"fmt"
	"slices"

	"github.com/zephyrtronium/srsym"
	"github.com/zephyrtronium/srsym/sym"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Output {
	case OutputText, OutputJSON, OutputTree:
	default:
		return fmt.Errorf("unknown output format %q (want %s, %s, or %s)", c.Output, OutputText, OutputJSON, OutputTree)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	for _, f := range c.Features {
		if _, ok := c.Operators[f]; ok {
			return fmt.Errorf("feature %q: %w", f, &srsym.NamingConflictError{Name: f, Conflict: srsym.ConflictOperator})
		}
		if err := srsym.ValidateName(f); err != nil {
			return fmt.Errorf("feature %q: %w", f, err)
		}
	}
	for name := range c.Operators {
		if sym.IsReserved(name) {
			if _, ok := srsym.Builtins().Lookup(name); !ok {
				return fmt.Errorf("operator %q: %w", name, &srsym.NamingConflictError{Name: name, Conflict: srsym.ConflictNamespace})
			}
		}
	}
	return nil
}

// Templates builds the configured operators. Operators named like builtin
// operator tokens replace them.
func (c *Config) Templates() (map[string]sym.Func, error) {
	if len(c.Operators) == 0 {
		return nil, nil
	}
	m := make(map[string]sym.Func, len(c.Operators))
	for name, op := range c.Operators {
		t, err := srsym.NewTemplate(op.Params, op.Body)
		if err != nil {
			return nil, fmt.Errorf("operator %q: %w", name, err)
		}
		m[name] = t
	}
	return m, nil
}

// OperatorNames returns the sorted names of configured operators.
func (c *Config) OperatorNames() []string {
	names := make([]string, 0, len(c.Operators))
	for name := range c.Operators {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
