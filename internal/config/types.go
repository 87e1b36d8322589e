// Package config provides configuration management for the srsym CLI.
//
// Configuration is layered. Explicitly set flags take precedence over
// SRSYM_ environment variables, which take precedence over the YAML config
// file, which takes precedence over built-in defaults.
package config

// Default configuration values.
const (
	DefaultFile   = "srsym.yaml"
	DefaultOutput = OutputText
	DefaultJobs   = 4
	EnvPrefix     = "SRSYM_"
)

// Output formats for translated equations.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputTree = "tree"
)

// OperatorConfig declares an extra operator as an expression of its
// parameters written with builtin operator tokens.
type OperatorConfig struct {
	Params []string `koanf:"params"`
	Body   string   `koanf:"body"`
}

// Config holds all CLI configuration options.
type Config struct {
	Features  []string                  `koanf:"features"`
	Operators map[string]OperatorConfig `koanf:"operators"`
	Output    string                    `koanf:"output"`
	Evaluate  bool                      `koanf:"evaluate"`
	Jobs      int                       `koanf:"jobs"`
	Verbose   bool                      `koanf:"verbose"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}
