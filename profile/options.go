// Package profile runs dependency discovery over a source table and returns
// results named by column, ready for rendering and persistence.
package profile

import (
	"runtime"

	"github.com/teranos/depminer/am"
	"github.com/teranos/depminer/errors"
	"github.com/teranos/depminer/hy"
	"github.com/teranos/depminer/relation"
)

// Options configures a discovery run.
type Options struct {
	Threads       int  `json:"threads" yaml:"threads"`
	NullEqualNull bool `json:"null_equal_null" yaml:"null_equal_null"`
	// MaxLHS caps the FD left-hand side and the UCC size; 0 is unlimited.
	MaxLHS              int     `json:"max_lhs" yaml:"max_lhs"`
	EfficiencyThreshold float64 `json:"efficiency_threshold" yaml:"efficiency_threshold"`
	TrimSpace           bool    `json:"trim_space" yaml:"trim_space"`
	NormalizeUnicode    bool    `json:"normalize_unicode" yaml:"normalize_unicode"`
}

// DefaultOptions uses every CPU and treats nulls as equal.
func DefaultOptions() Options {
	return Options{
		Threads:             runtime.NumCPU(),
		NullEqualNull:       true,
		EfficiencyThreshold: hy.DefaultEfficiencyThreshold,
	}
}

// OptionsFromConfig maps the discovery section of the configuration.
func OptionsFromConfig(c am.DiscoveryConfig) Options {
	return Options{
		Threads:             c.Threads,
		NullEqualNull:       c.NullEqualNull,
		MaxLHS:              c.MaxLHS,
		EfficiencyThreshold: c.EfficiencyThreshold,
		TrimSpace:           c.TrimSpace,
		NormalizeUnicode:    c.NormalizeUnicode,
	}
}

// Validate rejects option values no run can use.
func (o Options) Validate() error {
	if o.Threads < 1 {
		return errors.WithHint(
			errors.NewConfigurationError("threads must be >= 1, got %d", o.Threads),
			"set discovery.threads or pass --threads")
	}
	if o.MaxLHS < 0 {
		return errors.NewConfigurationError("max_lhs must be >= 0, got %d", o.MaxLHS)
	}
	if o.EfficiencyThreshold < 0 || o.EfficiencyThreshold > 1 {
		return errors.NewConfigurationError("efficiency_threshold must be in [0, 1], got %v", o.EfficiencyThreshold)
	}
	return nil
}

func (o Options) relationOptions() relation.Options {
	return relation.Options{
		NullEqualNull:    o.NullEqualNull,
		TrimSpace:        o.TrimSpace,
		NormalizeUnicode: o.NormalizeUnicode,
	}
}
