package algebra

import (
	"strings"

	"github.com/manybody/secondq/errors"
	"github.com/manybody/secondq/logger"
	"github.com/manybody/secondq/space"
)

// BuildOperatorExpr expands a named tensor operator over whitespace-
// separated space patterns, one term per pattern. In a pattern like
// "v+ v+ o o", a trailing + marks creation. Index assignment follows the
// many-body convention: creation tokens take fresh per-space ordinals in
// pattern order and fill the tensor's lower slots in that order, while
// annihilation tokens take fresh ordinals in reverse pattern order and fill
// the upper slots in assignment order. Operators render in pattern order
// and the ordinal counters restart at zero for each pattern.
//
// antisymmetrize declares the tensor name antisymmetric in the engine's
// symmetry table before building; a conflicting earlier declaration is a
// symmetry error.
func (e *Engine) BuildOperatorExpr(name string, patterns []string, antisymmetrize bool) (*Expression, error) {
	if name == "" {
		return nil, errors.Configurationf("operator expression needs a tensor name")
	}
	if antisymmetrize {
		if err := e.DeclareTensorSymmetry(name, Antisymmetric); err != nil {
			return nil, err
		}
	}
	expr := NewExpression()
	for _, pattern := range patterns {
		term, err := e.patternTerm(name, pattern)
		if err != nil {
			return nil, err
		}
		expr.AddTerm(term)
	}
	logger.Debugw("operator expression built",
		logger.FieldTensor, name,
		logger.FieldTermCount, expr.Size(),
	)
	return expr, nil
}

func (e *Engine) patternTerm(name, pattern string) (*Term, error) {
	tokens := strings.Fields(pattern)
	if len(tokens) == 0 {
		return nil, errors.Configurationf("operator pattern for %q is empty", name)
	}

	type slot struct {
		label    string
		creation bool
	}
	slots := make([]slot, 0, len(tokens))
	for _, tok := range tokens {
		label := strings.TrimSuffix(tok, "+")
		if len(label) != 1 || label[0] < 'a' || label[0] > 'z' {
			return nil, errors.Configurationf("malformed token %q in pattern %q", tok, pattern)
		}
		slots = append(slots, slot{label: label, creation: strings.HasSuffix(tok, "+")})
	}

	counters := make(map[string]int)
	fresh := func(label string) (space.Index, error) {
		n := counters[label]
		counters[label] = n + 1
		return e.registry.Index(label, n)
	}

	ops := make([]Operator, len(slots))
	var lower, upper []space.Index
	for i, s := range slots {
		if !s.creation {
			continue
		}
		ix, err := fresh(s.label)
		if err != nil {
			return nil, errors.Wrapf(err, "pattern %q", pattern)
		}
		ops[i] = NewOperator(Creation, ix)
		lower = append(lower, ix)
	}
	for i := len(slots) - 1; i >= 0; i-- {
		if slots[i].creation {
			continue
		}
		ix, err := fresh(slots[i].label)
		if err != nil {
			return nil, errors.Wrapf(err, "pattern %q", pattern)
		}
		ops[i] = NewOperator(Annihilation, ix)
		upper = append(upper, ix)
	}

	term := NewTerm()
	term.AddTensor(NewTensorLabel(name, upper, lower))
	term.AddOperators(ops...)
	if err := term.SetNormalOrdered(true); err != nil {
		return nil, errors.Configurationf("pattern %q does not describe a normal-ordered product", pattern)
	}
	return term, nil
}
