package algebra

import (
	"math"
	"sort"
	"strings"

	"github.com/manybody/secondq/rational"
)

// Expression is a coefficient-merged collection of terms, keyed by the
// coefficient-free rendering of each term. Keys are held in ascending order,
// which is also the print and iteration order. Zero coefficients are pruned
// on every mutation, so a term and its negation cancel to nothing.
type Expression struct {
	terms map[string]*exprEntry
	keys  []string
}

type exprEntry struct {
	term  *Term
	coeff rational.Rational
}

// Entry is one (term, coefficient) pair of an Expression. The term carries
// coefficient 1; the pair's coefficient is reported separately.
type Entry struct {
	Term        *Term
	Coefficient rational.Rational
}

// NewExpression returns the zero expression.
func NewExpression() *Expression {
	return &Expression{terms: make(map[string]*exprEntry)}
}

// Size returns the number of distinct term keys.
func (e *Expression) Size() int { return len(e.keys) }

// IsZero reports whether the expression has no terms.
func (e *Expression) IsZero() bool { return len(e.keys) == 0 }

// AddTerm merges t into the expression, its coefficient included.
func (e *Expression) AddTerm(t *Term) *Expression {
	return e.AddTermScaled(t, rational.One())
}

// AddTermScaled merges scale × t into the expression.
func (e *Expression) AddTermScaled(t *Term, scale rational.Rational) *Expression {
	c := t.Coefficient().Mul(scale)
	if c.IsZero() {
		return e
	}
	key := t.Key()
	if ent, ok := e.terms[key]; ok {
		ent.coeff = ent.coeff.Add(c)
		if ent.coeff.IsZero() {
			e.remove(key)
		}
		return e
	}
	rep := t.Clone()
	rep.SetCoefficient(rational.One())
	e.terms[key] = &exprEntry{term: rep, coeff: c}
	e.insertKey(key)
	return e
}

// Add merges every term of other into e.
func (e *Expression) Add(other *Expression) *Expression {
	return e.AddScaled(other, rational.One())
}

// AddScaled merges scale × other into e.
func (e *Expression) AddScaled(other *Expression, scale rational.Rational) *Expression {
	if other == e {
		other = other.Clone()
	}
	for _, key := range other.keys {
		ent := other.terms[key]
		e.AddTermScaled(ent.term, ent.coeff.Mul(scale))
	}
	return e
}

// Subtract removes other from e term by term.
func (e *Expression) Subtract(other *Expression) *Expression {
	return e.AddScaled(other, rational.MinusOne())
}

// SubtractTerm merges -1 × t into the expression.
func (e *Expression) SubtractTerm(t *Term) *Expression {
	return e.AddTermScaled(t, rational.MinusOne())
}

// ScalarMultiply multiplies every coefficient by c. Multiplying by zero
// empties the expression.
func (e *Expression) ScalarMultiply(c rational.Rational) *Expression {
	if c.IsZero() {
		e.terms = make(map[string]*exprEntry)
		e.keys = nil
		return e
	}
	for _, ent := range e.terms {
		ent.coeff = ent.coeff.Mul(c)
	}
	return e
}

// Entries returns the (term, coefficient) pairs in ascending key order. The
// returned terms are copies; mutating them does not touch the expression.
func (e *Expression) Entries() []Entry {
	out := make([]Entry, 0, len(e.keys))
	for _, key := range e.keys {
		ent := e.terms[key]
		out = append(out, Entry{Term: ent.term.Clone(), Coefficient: ent.coeff})
	}
	return out
}

// Coefficient returns the coefficient of the term with the same key as t,
// or zero when absent.
func (e *Expression) Coefficient(t *Term) rational.Rational {
	if ent, ok := e.terms[t.Key()]; ok {
		return ent.coeff
	}
	return rational.Zero()
}

// Dot returns the inner product under the orthonormal-basis assumption:
// identical term keys contribute coeff_e × coeff_other, distinct keys
// contribute nothing. Dot does not mutate either operand.
func (e *Expression) Dot(other *Expression) rational.Rational {
	sum := rational.Zero()
	for key, ent := range e.terms {
		if oent, ok := other.terms[key]; ok {
			sum = sum.Add(ent.coeff.Mul(oent.coeff))
		}
	}
	return sum
}

// Norm returns sqrt(Dot(e, e)).
func (e *Expression) Norm() float64 {
	return math.Sqrt(e.Dot(e).Float64())
}

// Clone returns a deep copy.
func (e *Expression) Clone() *Expression {
	out := NewExpression()
	for _, key := range e.keys {
		ent := e.terms[key]
		out.terms[key] = &exprEntry{term: ent.term.Clone(), coeff: ent.coeff}
	}
	out.keys = append([]string(nil), e.keys...)
	return out
}

// Adjoint returns the Hermitian conjugate of the expression.
func (e *Expression) Adjoint() *Expression {
	out := NewExpression()
	for _, key := range e.keys {
		ent := e.terms[key]
		out.AddTermScaled(ent.term.Adjoint(), ent.coeff)
	}
	return out
}

// Equal reports whether both expressions hold the same keys with the same
// coefficients.
func (e *Expression) Equal(other *Expression) bool {
	if len(e.keys) != len(other.keys) {
		return false
	}
	for key, ent := range e.terms {
		oent, ok := other.terms[key]
		if !ok || !ent.coeff.Equal(oent.coeff) {
			return false
		}
	}
	return true
}

// String renders the canonical text form: one term line per key in
// ascending order, every line after the first carrying an explicit sign.
// The zero expression renders as the empty string.
func (e *Expression) String() string {
	var b strings.Builder
	for i, key := range e.keys {
		line := renderWithCoefficient(e.terms[key].coeff, key)
		if i > 0 {
			b.WriteString("\n")
			if !strings.HasPrefix(line, "-") {
				b.WriteString("+")
			}
		}
		b.WriteString(line)
	}
	return b.String()
}

func (e *Expression) insertKey(key string) {
	i := sort.SearchStrings(e.keys, key)
	e.keys = append(e.keys, "")
	copy(e.keys[i+1:], e.keys[i:])
	e.keys[i] = key
}

func (e *Expression) remove(key string) {
	delete(e.terms, key)
	i := sort.SearchStrings(e.keys, key)
	if i < len(e.keys) && e.keys[i] == key {
		e.keys = append(e.keys[:i], e.keys[i+1:]...)
	}
}
