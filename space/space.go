// Package space defines the index-space registry: named single-particle
// spaces with exchange statistics and an occupation class, and the indices
// bound to them. A Registry is built once, passed explicitly into the
// algebra engine, and frozen before any concurrent phase.
package space

import (
	"github.com/manybody/secondq/errors"
)

// Statistics is the exchange statistics of a space.
type Statistics int

const (
	Fermion Statistics = iota
	Boson
)

// ParseStatistics parses "fermion" or "boson".
func ParseStatistics(s string) (Statistics, error) {
	switch s {
	case "fermion":
		return Fermion, nil
	case "boson":
		return Boson, nil
	default:
		return 0, errors.Configurationf("unknown statistics %q (want fermion or boson)", s)
	}
}

func (s Statistics) String() string {
	switch s {
	case Fermion:
		return "fermion"
	case Boson:
		return "boson"
	default:
		return "unknown"
	}
}

// Occupation is the reference-state occupation class of a space.
type Occupation int

const (
	Occupied Occupation = iota
	Unoccupied
	General
)

// ParseOccupation parses "occupied", "unoccupied", or "general".
func ParseOccupation(s string) (Occupation, error) {
	switch s {
	case "occupied":
		return Occupied, nil
	case "unoccupied":
		return Unoccupied, nil
	case "general":
		return General, nil
	default:
		return 0, errors.Configurationf("unknown occupation class %q (want occupied, unoccupied, or general)", s)
	}
}

func (o Occupation) String() string {
	switch o {
	case Occupied:
		return "occupied"
	case Unoccupied:
		return "unoccupied"
	case General:
		return "general"
	default:
		return "unknown"
	}
}

// Space is a named category of single-particle states.
//
// A space with Elementary members is composite: it denotes the union of
// those member spaces (a general space over occupied and unoccupied, say),
// and its indices may contract against member-space indices.
type Space struct {
	Label      string
	Statistics Statistics
	Occupation Occupation
	Stems      []string
	Elementary []string
}

// IsComposite reports whether the space is a union of elementary spaces.
func (s Space) IsComposite() bool { return len(s.Elementary) > 0 }

// Contains reports whether label denotes this space or one of its members.
func (s Space) Contains(label string) bool {
	if s.Label == label {
		return true
	}
	for _, m := range s.Elementary {
		if m == label {
			return true
		}
	}
	return false
}

// clone returns a copy that shares no slices with the receiver.
func (s Space) clone() Space {
	out := s
	out.Stems = append([]string(nil), s.Stems...)
	out.Elementary = append([]string(nil), s.Elementary...)
	return out
}
