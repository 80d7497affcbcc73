package algebra

import (
	"strings"

	"github.com/manybody/secondq/errors"
	"github.com/manybody/secondq/rational"
	"github.com/manybody/secondq/space"
)

// Term is a rational coefficient times zero or more tensor factors times an
// ordered product of operators. The normal-ordered flag marks an operator
// block whose creations all precede its annihilations; it renders with
// braces and is the only form the canonicalizer will reorder.
type Term struct {
	coeff         rational.Rational
	tensors       []TensorLabel
	ops           []Operator
	normalOrdered bool
}

// NewTerm returns an empty term with coefficient 1.
func NewTerm() *Term {
	return &Term{coeff: rational.One()}
}

// NewScalarTerm returns an operator-free term with the given coefficient.
func NewScalarTerm(c rational.Rational) *Term {
	return &Term{coeff: c}
}

// AddOperators appends operators to the product. Appending to a term already
// flagged normal-ordered clears the flag; callers re-verify with
// SetNormalOrdered once the product is complete.
func (t *Term) AddOperators(ops ...Operator) *Term {
	t.ops = append(t.ops, ops...)
	t.normalOrdered = false
	return t
}

// AddTensor appends a tensor factor.
func (t *Term) AddTensor(tl TensorLabel) *Term {
	t.tensors = append(t.tensors, tl.clone())
	return t
}

// SetCoefficient replaces the coefficient.
func (t *Term) SetCoefficient(c rational.Rational) *Term {
	t.coeff = c
	return t
}

// Scale multiplies the coefficient by c.
func (t *Term) Scale(c rational.Rational) *Term {
	t.coeff = t.coeff.Mul(c)
	return t
}

// Coefficient returns the term's coefficient.
func (t *Term) Coefficient() rational.Rational { return t.coeff }

// Operators returns a copy of the operator sequence.
func (t *Term) Operators() []Operator {
	return append([]Operator(nil), t.ops...)
}

// Tensors returns a copy of the tensor factors.
func (t *Term) Tensors() []TensorLabel {
	out := make([]TensorLabel, 0, len(t.tensors))
	for _, tl := range t.tensors {
		out = append(out, tl.clone())
	}
	return out
}

// NumOperators returns the operator count.
func (t *Term) NumOperators() int { return len(t.ops) }

// IsNormalOrdered reports the normal-ordered flag.
func (t *Term) IsNormalOrdered() bool { return t.normalOrdered }

// sequenceNormalOrdered reports whether every creation operator precedes
// every annihilation operator.
func (t *Term) sequenceNormalOrdered() bool {
	seenAnnihilation := false
	for _, op := range t.ops {
		if op.IsAnnihilation() {
			seenAnnihilation = true
		} else if seenAnnihilation {
			return false
		}
	}
	return true
}

// SetNormalOrdered sets or clears the flag. Setting it true on a sequence
// that is not actually normal-ordered is a configuration error; the flag is
// a verified statement about the product, not a request to reorder it.
func (t *Term) SetNormalOrdered(v bool) error {
	if v && !t.sequenceNormalOrdered() {
		return errors.Configurationf("operator product %q is not normal-ordered", t.renderOps(false))
	}
	t.normalOrdered = v
	return nil
}

// Clone returns a deep copy.
func (t *Term) Clone() *Term {
	return &Term{
		coeff:         t.coeff,
		tensors:       cloneTensors(t.tensors),
		ops:           append([]Operator(nil), t.ops...),
		normalOrdered: t.normalOrdered,
	}
}

func cloneTensors(ts []TensorLabel) []TensorLabel {
	if ts == nil {
		return nil
	}
	out := make([]TensorLabel, 0, len(ts))
	for _, tl := range ts {
		out = append(out, tl.clone())
	}
	return out
}

// Adjoint returns the Hermitian conjugate: operator order reversed, kinds
// flipped, tensor slot groups swapped, coefficient unchanged. The adjoint of
// a normal-ordered product is normal-ordered, so the flag survives.
func (t *Term) Adjoint() *Term {
	out := &Term{coeff: t.coeff, normalOrdered: t.normalOrdered}
	for _, tl := range t.tensors {
		out.tensors = append(out.tensors, tl.Adjoint())
	}
	for i := len(t.ops) - 1; i >= 0; i-- {
		out.ops = append(out.ops, t.ops[i].Adjoint())
	}
	return out
}

// indices returns every index occurrence in the term, operators first, then
// tensor upper and lower slots, in stored order.
func (t *Term) indices() []space.Index {
	var out []space.Index
	for _, op := range t.ops {
		out = append(out, op.Index)
	}
	for _, tl := range t.tensors {
		out = append(out, tl.Upper...)
		out = append(out, tl.Lower...)
	}
	return out
}

func (t *Term) renderOps(braced bool) string {
	var b strings.Builder
	if braced {
		b.WriteString(TokenBlockOpen)
		b.WriteString(" ")
	}
	for i, op := range t.ops {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(op.String())
	}
	if braced {
		b.WriteString(" ")
		b.WriteString(TokenBlockClose)
	}
	return b.String()
}

// Key renders the coefficient-free form of the term: tensor factors in
// stored order, then the operator block, braced iff the term is flagged
// normal-ordered. Expressions merge terms by this string.
func (t *Term) Key() string {
	var parts []string
	for _, tl := range t.tensors {
		parts = append(parts, tl.String())
	}
	if len(t.ops) > 0 {
		parts = append(parts, t.renderOps(t.normalOrdered))
	}
	return strings.Join(parts, " ")
}

// String renders the term with its coefficient. A coefficient of 1 is
// omitted and -1 contracts to a leading minus, except for the bare scalar
// term, which prints "1" or "-1".
func (t *Term) String() string {
	return renderWithCoefficient(t.coeff, t.Key())
}

func renderWithCoefficient(c rational.Rational, key string) string {
	if key == "" {
		return c.String()
	}
	if c.IsOne() {
		return key
	}
	if c.IsMinusOne() {
		return "-" + key
	}
	return c.String() + " " + key
}
