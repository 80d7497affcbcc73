// Package config loads, persists, and watches the secondq configuration:
// engine resource limits, the derivation archive location, logging
// preferences, and the index-space table the CLI configures registries
// from. Sources cascade viper-style: defaults, then secondq.toml found by
// an upward search from the working directory, then SECONDQ_* environment
// overrides.
package config

import (
	"github.com/spf13/viper"

	"github.com/manybody/secondq/errors"
	"github.com/manybody/secondq/space"
)

// ConfigFileName is the project configuration file searched for upward
// from the working directory.
const ConfigFileName = "secondq.toml"

// Config is the root configuration.
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine" toml:"engine" json:"engine" yaml:"engine"`
	Archive ArchiveConfig `mapstructure:"archive" toml:"archive" json:"archive" yaml:"archive"`
	Log     LogConfig     `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
	Spaces  []SpaceConfig `mapstructure:"spaces" toml:"spaces" json:"spaces" yaml:"spaces"`
}

// EngineConfig holds the algebra engine's resource knobs.
type EngineConfig struct {
	MaxWickTerms           int `mapstructure:"max_wick_terms" toml:"max_wick_terms" json:"max_wick_terms" yaml:"max_wick_terms"`
	MaxCanonicalCandidates int `mapstructure:"max_canonical_candidates" toml:"max_canonical_candidates" json:"max_canonical_candidates" yaml:"max_canonical_candidates"`
	Workers                int `mapstructure:"workers" toml:"workers" json:"workers" yaml:"workers"` // parallel expansion workers (0 = GOMAXPROCS)
}

// ArchiveConfig locates the derivation archive database.
type ArchiveConfig struct {
	Path string `mapstructure:"path" toml:"path" json:"path" yaml:"path"`
}

// LogConfig holds logging preferences.
type LogConfig struct {
	Verbosity int  `mapstructure:"verbosity" toml:"verbosity" json:"verbosity" yaml:"verbosity"` // -v count: 0 warn, 1 info, 2+ debug
	JSON      bool `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
}

// SpaceConfig is one index-space declaration.
type SpaceConfig struct {
	Label      string   `mapstructure:"label" toml:"label" json:"label" yaml:"label"`
	Statistics string   `mapstructure:"statistics" toml:"statistics" json:"statistics" yaml:"statistics"` // fermion | boson
	Occupation string   `mapstructure:"occupation" toml:"occupation" json:"occupation" yaml:"occupation"` // occupied | unoccupied | general
	Stems      []string `mapstructure:"stems" toml:"stems" json:"stems" yaml:"stems"`
	Elementary []string `mapstructure:"elementary" toml:"elementary,omitempty" json:"elementary,omitempty" yaml:"elementary,omitempty"`
}

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("engine.max_wick_terms", 1<<20)
	v.SetDefault("engine.max_canonical_candidates", 1<<16)
	v.SetDefault("engine.workers", 0)

	v.SetDefault("archive.path", "secondq.db")

	v.SetDefault("log.verbosity", 0)
	v.SetDefault("log.json", false)
}

// BuildRegistry constructs and populates a space registry from the
// configured space table. Composite spaces may list earlier labels as
// elementary members, so declaration order matters.
func BuildRegistry(spaces []SpaceConfig) (*space.Registry, error) {
	reg := space.NewRegistry()
	for _, sc := range spaces {
		st, err := space.ParseStatistics(sc.Statistics)
		if err != nil {
			return nil, errors.Wrapf(err, "space %q", sc.Label)
		}
		occ, err := space.ParseOccupation(sc.Occupation)
		if err != nil {
			return nil, errors.Wrapf(err, "space %q", sc.Label)
		}
		if err := reg.AddSpace(sc.Label, st, occ, sc.Stems, sc.Elementary...); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
