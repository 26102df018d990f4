// Package am ("am" as in "I am configured like this") loads depminer's
// configuration.
//
// Values come from, lowest precedence first: built-in defaults,
// /etc/depminer/am.toml, ~/.depminer/am.toml, the nearest am.toml found by
// walking up from the working directory, then DEPMINER_* environment
// variables. CLI flags override all of them.
package am

import "fmt"

// Config represents the depminer configuration
type Config struct {
	Discovery DiscoveryConfig `mapstructure:"discovery" toml:"discovery" json:"discovery" yaml:"discovery"`
	Input     InputConfig     `mapstructure:"input" toml:"input" json:"input" yaml:"input"`
	Database  DatabaseConfig  `mapstructure:"database" toml:"database" json:"database" yaml:"database"`
	Output    OutputConfig    `mapstructure:"output" toml:"output" json:"output" yaml:"output"`
}

// DiscoveryConfig configures the discovery algorithms
type DiscoveryConfig struct {
	// Threads is the worker count of sampler and validator (default: 1)
	Threads int `mapstructure:"threads" toml:"threads" json:"threads" yaml:"threads"`
	// NullEqualNull makes all nulls of a column one value (default: true)
	NullEqualNull bool `mapstructure:"null_equal_null" toml:"null_equal_null" json:"null_equal_null" yaml:"null_equal_null"`
	// MaxLHS caps the FD left-hand side and the UCC size, 0 = unlimited
	MaxLHS              int     `mapstructure:"max_lhs" toml:"max_lhs" json:"max_lhs" yaml:"max_lhs"`
	EfficiencyThreshold float64 `mapstructure:"efficiency_threshold" toml:"efficiency_threshold" json:"efficiency_threshold" yaml:"efficiency_threshold"`
	TrimSpace           bool    `mapstructure:"trim_space" toml:"trim_space" json:"trim_space" yaml:"trim_space"`
	NormalizeUnicode    bool    `mapstructure:"normalize_unicode" toml:"normalize_unicode" json:"normalize_unicode" yaml:"normalize_unicode"`
}

// InputConfig configures CSV ingestion
type InputConfig struct {
	Delimiter  string   `mapstructure:"delimiter" toml:"delimiter" json:"delimiter" yaml:"delimiter"`
	HasHeader  bool     `mapstructure:"has_header" toml:"has_header" json:"has_header" yaml:"has_header"`
	NullTokens []string `mapstructure:"null_tokens" toml:"null_tokens" json:"null_tokens" yaml:"null_tokens"`
}

// DatabaseConfig configures the SQLite run store
type DatabaseConfig struct {
	Path string `mapstructure:"path" toml:"path" json:"path" yaml:"path"`
}

// OutputConfig configures result rendering
type OutputConfig struct {
	Format string `mapstructure:"format" toml:"format" json:"format" yaml:"format"` // table, json or yaml
}

// Output formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Discovery: {Threads: %d, NullEqualNull: %t, MaxLHS: %d}, Database: %s, Output: %s}",
		c.Discovery.Threads, c.Discovery.NullEqualNull, c.Discovery.MaxLHS, c.Database.Path, c.Output.Format)
}
