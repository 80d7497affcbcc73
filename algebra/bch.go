package algebra

import (
	"github.com/manybody/secondq/errors"
	"github.com/manybody/secondq/logger"
	"github.com/manybody/secondq/rational"
)

// MultiplyTerms concatenates two terms: coefficients multiplied, tensor
// lists and operator products joined in order. The result is unordered
// until the Wick engine works it over.
func MultiplyTerms(a, b *Term) *Term {
	out := &Term{coeff: a.coeff.Mul(b.coeff)}
	out.tensors = append(cloneTensors(a.tensors), cloneTensors(b.tensors)...)
	out.ops = append(append([]Operator(nil), a.ops...), b.ops...)
	return out
}

// Multiply computes the operator product a·b: every pairwise term product
// is pushed through the Wick engine and the normal-ordered results are
// canonicalized and merged.
func (e *Engine) Multiply(a, b *Expression) (*Expression, error) {
	product := NewExpression()
	for _, ea := range a.Entries() {
		for _, eb := range b.Entries() {
			expanded, err := e.NormalOrder(MultiplyTerms(ea.Term, eb.Term))
			if err != nil {
				return nil, err
			}
			product.AddScaled(expanded, ea.Coefficient.Mul(eb.Coefficient))
		}
	}
	return e.Canonicalize(product)
}

// Commutator computes [a, b] = a·b − b·a.
func (e *Engine) Commutator(a, b *Expression) (*Expression, error) {
	ab, err := e.Multiply(a, b)
	if err != nil {
		return nil, err
	}
	ba, err := e.Multiply(b, a)
	if err != nil {
		return nil, err
	}
	return ab.Subtract(ba), nil
}

// BCHSeries builds the truncated Baker-Campbell-Hausdorff expansion
//
//	C + [C,D] + (1/2!)[[C,D],D] + ... + (1/order!)[...,D]
//
// with order nestings. Order zero returns a copy of C; a negative order is
// a configuration error. Each commutator reuses the Wick engine, so the
// engine's resource caps bound the combinatorial growth.
func (e *Engine) BCHSeries(c, d *Expression, order int) (*Expression, error) {
	if order < 0 {
		return nil, errors.Configurationf("BCH truncation order %d must be non-negative", order)
	}
	result := c.Clone()
	nested := c
	for n := 1; n <= order; n++ {
		next, err := e.Commutator(nested, d)
		if err != nil {
			return nil, errors.Wrapf(err, "BCH commutator nesting %d", n)
		}
		nested = next
		fact, err := rational.Factorial(n)
		if err != nil {
			return nil, err
		}
		inv, err := fact.Inverse()
		if err != nil {
			return nil, err
		}
		result.AddScaled(nested, inv)
		logger.Debugw("BCH nesting expanded",
			logger.FieldOrder, n,
			logger.FieldTermCount, nested.Size(),
		)
		if nested.IsZero() {
			break
		}
	}
	return result, nil
}
