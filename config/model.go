package config

import (
	"github.com/BurntSushi/toml"

	"github.com/manybody/secondq/errors"
	"github.com/manybody/secondq/logger"
)

// Derivation kinds a model file may request.
const (
	DeriveNormal       = "normal"       // vacuum-normal-order an expression
	DeriveCanonicalize = "canonicalize" // canonicalize an expression
	DeriveBCH          = "bch"          // BCH series of two named operators
)

// Model is a derivation model file: an index-space table, named operator
// definitions, and one derivation recipe. Model files are static documents
// decoded in one shot, unlike the cascading runtime configuration.
type Model struct {
	Name       string        `toml:"name"`
	Spaces     []SpaceConfig `toml:"spaces"`
	Operators  []OperatorDef `toml:"operators"`
	Derivation DerivationDef `toml:"derivation"`
}

// OperatorDef names a tensor operator built from space patterns.
type OperatorDef struct {
	Name          string   `toml:"name"`
	Patterns      []string `toml:"patterns"`
	Antisymmetric bool     `toml:"antisymmetric"`
}

// DerivationDef is the recipe: what to derive and from which inputs.
type DerivationDef struct {
	Kind          string `toml:"kind"`
	Expression    string `toml:"expression"` // normal/canonicalize input text
	Left          string `toml:"left"`       // bch: operator name for C
	Right         string `toml:"right"`      // bch: operator name for D
	Order         int    `toml:"order"`      // bch truncation order
	SameIndexOnly bool   `toml:"same_index_only"`
}

// LoadModel decodes and validates a model file.
func LoadModel(path string) (*Model, error) {
	var m Model
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, errors.Wrapf(err, "decode model file %s", path)
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrapf(err, "model file %s", path)
	}
	logger.Debugw("model file loaded",
		logger.FieldPath, path,
		"spaces", len(m.Spaces),
		"operators", len(m.Operators),
	)
	return &m, nil
}

// Validate checks structural consistency: at least one space, a known
// derivation kind, and operator references that resolve.
func (m *Model) Validate() error {
	if len(m.Spaces) == 0 {
		return errors.Configurationf("model declares no spaces")
	}
	names := make(map[string]bool, len(m.Operators))
	for _, op := range m.Operators {
		if op.Name == "" {
			return errors.Configurationf("operator definition missing name")
		}
		if names[op.Name] {
			return errors.Configurationf("operator %q defined twice", op.Name)
		}
		if len(op.Patterns) == 0 {
			return errors.Configurationf("operator %q has no patterns", op.Name)
		}
		names[op.Name] = true
	}

	d := m.Derivation
	switch d.Kind {
	case DeriveNormal, DeriveCanonicalize:
		if d.Expression == "" {
			return errors.Configurationf("%s derivation needs an expression", d.Kind)
		}
	case DeriveBCH:
		if !names[d.Left] {
			return errors.Configurationf("bch derivation references undefined operator %q", d.Left)
		}
		if !names[d.Right] {
			return errors.Configurationf("bch derivation references undefined operator %q", d.Right)
		}
		if d.Order < 0 {
			return errors.Configurationf("bch truncation order %d must be non-negative", d.Order)
		}
	default:
		return errors.Configurationf("unknown derivation kind %q (want %s, %s, or %s)",
			d.Kind, DeriveNormal, DeriveCanonicalize, DeriveBCH)
	}
	return nil
}
