package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// flagKeys maps flag names to config keys. Flags not listed here, like
// --config and --in, are not configuration.
var flagKeys = map[string]string{
	"features": "features",
	"operator": "operators",
	"output":   "output",
	"evaluate": "evaluate",
	"jobs":     "jobs",
	"verbose":  "verbose",
}

// findConfigFile finds the config file to use.
// Priority: explicit path > srsym.yaml > srsym.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{DefaultFile, "srsym.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load loads configuration from defaults, the config file, environment
// variables, and flags, in increasing order of precedence. Only flags that
// were explicitly set override other sources. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"output":   DefaultOutput,
		"evaluate": false,
		"jobs":     DefaultJobs,
		"verbose":  false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment variables
	// Transform: SRSYM_JOBS -> jobs
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			if key == "operators" {
				// Operators given on the command line merge into those from
				// other sources.
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used
	cfg.Features = splitList(cfg.Features)

	if flags != nil {
		if err := cfg.addFlagOperators(flags); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// splitList splits comma-separated entries, as given by environment
// variables, and drops empty ones.
func splitList(list []string) []string {
	var r []string
	for _, s := range list {
		for _, f := range strings.Split(s, ",") {
			if f = strings.TrimSpace(f); f != "" {
				r = append(r, f)
			}
		}
	}
	return r
}

// addFlagOperators adds operators declared with --operator flags, each in the
// form name(params)=body, e.g. "hypot(x,y)=sqrt_abs(square(x)+square(y))".
func (c *Config) addFlagOperators(flags *pflag.FlagSet) error {
	f := flags.Lookup("operator")
	if f == nil || !f.Changed {
		return nil
	}
	decls, err := flags.GetStringArray("operator")
	if err != nil {
		return fmt.Errorf("failed to read operators: %w", err)
	}
	for _, decl := range decls {
		name, op, err := ParseOperator(decl)
		if err != nil {
			return err
		}
		if c.Operators == nil {
			c.Operators = make(map[string]OperatorConfig)
		}
		c.Operators[name] = op
	}
	return nil
}

// ParseOperator parses an operator declaration of the form
// name(params)=body.
func ParseOperator(decl string) (string, OperatorConfig, error) {
	head, body, ok := strings.Cut(decl, "=")
	if !ok {
		return "", OperatorConfig{}, fmt.Errorf("operator %q: missing '=' before body", decl)
	}
	head = strings.TrimSpace(head)
	name, params, ok := strings.Cut(head, "(")
	if !ok || !strings.HasSuffix(params, ")") {
		return "", OperatorConfig{}, fmt.Errorf("operator %q: want name(params)=body", decl)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", OperatorConfig{}, fmt.Errorf("operator %q: missing name", decl)
	}
	op := OperatorConfig{
		Params: splitList([]string{strings.TrimSuffix(params, ")")}),
		Body:   strings.TrimSpace(body),
	}
	return name, op, nil
}
