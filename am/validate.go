package am

import "github.com/teranos/depminer/errors"

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Discovery.Threads < 1 {
		return errors.NewConfigurationError("discovery.threads must be >= 1, got %d", c.Discovery.Threads)
	}
	// max_lhs: 0 = unlimited, negative = invalid
	if c.Discovery.MaxLHS < 0 {
		return errors.NewConfigurationError("discovery.max_lhs must be >= 0, got %d", c.Discovery.MaxLHS)
	}
	if c.Discovery.EfficiencyThreshold <= 0 || c.Discovery.EfficiencyThreshold > 1 {
		return errors.NewConfigurationError("discovery.efficiency_threshold must be in (0, 1], got %f", c.Discovery.EfficiencyThreshold)
	}

	if len([]rune(c.Input.Delimiter)) != 1 {
		return errors.NewConfigurationError("input.delimiter must be a single character, got %q", c.Input.Delimiter)
	}

	switch c.Output.Format {
	case FormatTable, FormatJSON, FormatYAML:
	default:
		return errors.WithHintf(
			errors.NewConfigurationError("output.format %q is not supported", c.Output.Format),
			"use one of %s, %s, %s", FormatTable, FormatJSON, FormatYAML)
	}

	return nil
}
