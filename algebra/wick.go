package algebra

import (
	"github.com/manybody/secondq/errors"
	"github.com/manybody/secondq/logger"
	"github.com/manybody/secondq/rational"
)

// wickBranch is one pending rewrite on the expansion queue.
type wickBranch struct {
	ops     []Operator
	tensors []TensorLabel
	coeff   rational.Rational
}

// NormalOrder expands t into a sum of normal-ordered terms via the
// generalized Wick theorem. A term already flagged normal-ordered passes
// through untouched. The expansion works an explicit queue: each step finds
// the leftmost inversion (an annihilation immediately left of a creation)
// and branches into the contracted and the transposed rewrite, so disorder
// strictly decreases and the queue drains. Exceeding the engine's
// MaxWickTerms cap fails with a resource-limit error and leaves t untouched.
func (e *Engine) NormalOrder(t *Term) (*Expression, error) {
	if err := e.validateTerm(t); err != nil {
		return nil, err
	}
	result := NewExpression()
	if t.IsNormalOrdered() {
		result.AddTerm(t.Clone())
		return result, nil
	}
	if t.Coefficient().IsZero() {
		return result, nil
	}

	queue := []wickBranch{{
		ops:     append([]Operator(nil), t.ops...),
		tensors: cloneTensors(t.tensors),
		coeff:   t.coeff,
	}}
	budget := e.limits.MaxWickTerms - 1

	push := func(b wickBranch) error {
		if budget <= 0 {
			return errors.ResourceLimitf("wick expansion of %q exceeded %d branches", t.Key(), e.limits.MaxWickTerms)
		}
		budget--
		queue = append(queue, b)
		return nil
	}

	for len(queue) > 0 {
		br := queue[0]
		queue = queue[1:]

		inv := leftmostInversion(br.ops)
		if inv < 0 {
			if e.excluded(br.ops) {
				continue
			}
			out := &Term{coeff: br.coeff, tensors: br.tensors, ops: br.ops, normalOrdered: true}
			result.AddTerm(out)
			continue
		}

		ann, cre := br.ops[inv], br.ops[inv+1]

		// Contracted branch: the adjacent pair replaced by its
		// contraction value. Identical indices contract to 1; distinct
		// indices of overlapping spaces leave a symbolic Kronecker
		// factor; disjoint spaces contract to nothing.
		if value, tl, ok := e.contraction(ann, cre); ok {
			rest := make([]Operator, 0, len(br.ops)-2)
			rest = append(rest, br.ops[:inv]...)
			rest = append(rest, br.ops[inv+2:]...)
			tensors := cloneTensors(br.tensors)
			if tl != nil {
				tensors = append(tensors, *tl)
			}
			if err := push(wickBranch{ops: rest, tensors: tensors, coeff: br.coeff.Mul(value)}); err != nil {
				return nil, err
			}
		}

		// Transposed branch: the pair swapped, a fermionic transposition
		// contributing the sign.
		swapped := append([]Operator(nil), br.ops...)
		swapped[inv], swapped[inv+1] = swapped[inv+1], swapped[inv]
		coeff := br.coeff
		if e.fermionic(ann) && e.fermionic(cre) {
			coeff = coeff.Neg()
		}
		if err := push(wickBranch{ops: swapped, tensors: cloneTensors(br.tensors), coeff: coeff}); err != nil {
			return nil, err
		}
	}

	logger.Debugw("wick expansion complete",
		logger.FieldTermCount, result.Size(),
		"operators", t.NumOperators(),
	)
	return result, nil
}

// contraction returns the scalar value and optional Kronecker factor for
// the adjacent pair (annihilation, creation), with ok=false when the pair
// contracts to zero.
func (e *Engine) contraction(ann, cre Operator) (rational.Rational, *TensorLabel, bool) {
	p, q := ann.Index, cre.Index
	if p.Equal(q) {
		return rational.One(), nil, true
	}
	if e.sameIndexOnly {
		return rational.Rational{}, nil, false
	}
	if !e.registry.Overlaps(p.Space, q.Space) {
		return rational.Rational{}, nil, false
	}
	tl := kronecker(p, q)
	return rational.One(), &tl, true
}

// leftmostInversion returns the position of the first annihilation operator
// immediately followed by a creation operator, or -1 when the sequence is
// normal-ordered.
func leftmostInversion(ops []Operator) int {
	for i := 0; i+1 < len(ops); i++ {
		if ops[i].IsAnnihilation() && ops[i+1].IsCreation() {
			return i
		}
	}
	return -1
}

// excluded applies the exclusion principle to a normal-ordered sequence:
// any duplicate (kind, index) pair of fermionic operators makes the term
// vanish. Two annihilations on one unoccupied index and two creations on
// one occupied index are the textbook cases; every fermionic duplicate dies
// the same way.
func (e *Engine) excluded(ops []Operator) bool {
	for i := 0; i < len(ops); i++ {
		if !e.fermionic(ops[i]) {
			continue
		}
		for j := i + 1; j < len(ops); j++ {
			if ops[j].Equal(ops[i]) {
				return true
			}
		}
	}
	return false
}

// VacuumNormalOrder expands every term of expr and merges the results into
// one expression. The input is not mutated; on error nothing partial is
// returned.
func (e *Engine) VacuumNormalOrder(expr *Expression) (*Expression, error) {
	result := NewExpression()
	for _, ent := range expr.Entries() {
		expanded, err := e.NormalOrder(ent.Term)
		if err != nil {
			return nil, err
		}
		result.AddScaled(expanded, ent.Coefficient)
	}
	return result, nil
}

// IsVacuumNormalOrdered reports whether every term of the expression is
// flagged normal-ordered.
func (e *Expression) IsVacuumNormalOrdered() bool {
	for _, key := range e.keys {
		if !e.terms[key].term.IsNormalOrdered() {
			return false
		}
	}
	return true
}
