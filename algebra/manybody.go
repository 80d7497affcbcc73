package algebra

import (
	"sort"

	"github.com/manybody/secondq/errors"
	"github.com/manybody/secondq/space"
)

// Equation is one many-body equation extracted from an expression: the
// symbolic left-hand tensor and the sum of tensor factors driving it.
type Equation struct {
	Lhs TensorLabel
	Rhs *Expression
}

// ManybodyEquations groups a normal-ordered expression's terms by operator
// content into equations label^{reversed annihilation indices}_{creation
// indices} = Σ coeff · tensors, returned in ascending left-hand-side order.
// A term without the normal-ordered flag is a configuration error.
func (e *Engine) ManybodyEquations(expr *Expression, label string) ([]Equation, error) {
	grouped := make(map[string]*Equation)
	for _, ent := range expr.Entries() {
		t := ent.Term
		if t.NumOperators() > 0 && !t.IsNormalOrdered() {
			return nil, errors.Configurationf("many-body extraction needs normal-ordered terms, %q is not", t.Key())
		}
		var upper, lower []space.Index
		for _, op := range t.Operators() {
			if op.IsCreation() {
				lower = append(lower, op.Index)
			}
		}
		ops := t.Operators()
		for i := len(ops) - 1; i >= 0; i-- {
			if ops[i].IsAnnihilation() {
				upper = append(upper, ops[i].Index)
			}
		}
		lhs := NewTensorLabel(label, upper, lower)

		rhs := NewTerm().SetCoefficient(t.Coefficient())
		for _, tl := range t.Tensors() {
			rhs.AddTensor(tl)
		}

		key := lhs.String()
		eq, ok := grouped[key]
		if !ok {
			eq = &Equation{Lhs: lhs, Rhs: NewExpression()}
			grouped[key] = eq
		}
		eq.Rhs.AddTermScaled(rhs, ent.Coefficient)
	}

	keys := make([]string, 0, len(grouped))
	for key := range grouped {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]Equation, 0, len(keys))
	for _, key := range keys {
		out = append(out, *grouped[key])
	}
	return out, nil
}
