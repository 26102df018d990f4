package am

import (
	"github.com/spf13/viper"

	"github.com/teranos/depminer/hy"
)

// DefaultDatabasePath is the run store used when database.path is empty.
const DefaultDatabasePath = "depminer.db"

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("discovery.threads", 1)
	v.SetDefault("discovery.null_equal_null", true)
	v.SetDefault("discovery.max_lhs", 0)
	v.SetDefault("discovery.efficiency_threshold", hy.DefaultEfficiencyThreshold)
	v.SetDefault("discovery.trim_space", false)
	v.SetDefault("discovery.normalize_unicode", false)

	v.SetDefault("input.delimiter", ",")
	v.SetDefault("input.has_header", true)
	v.SetDefault("input.null_tokens", []string{""})

	v.SetDefault("database.path", DefaultDatabasePath)

	v.SetDefault("output.format", FormatTable)
}

// Defaults returns the built-in configuration, matching SetDefaults.
func Defaults() *Config {
	return &Config{
		Discovery: DiscoveryConfig{
			Threads:             1,
			NullEqualNull:       true,
			EfficiencyThreshold: hy.DefaultEfficiencyThreshold,
		},
		Input: InputConfig{
			Delimiter:  ",",
			HasHeader:  true,
			NullTokens: []string{""},
		},
		Database: DatabaseConfig{Path: DefaultDatabasePath},
		Output:   OutputConfig{Format: FormatTable},
	}
}

// GetDatabasePath returns the configured database path
func (c *Config) GetDatabasePath() string {
	if c.Database.Path == "" {
		return DefaultDatabasePath
	}
	return c.Database.Path
}
