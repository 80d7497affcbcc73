// Package rational implements the exact fraction arithmetic used for every
// coefficient in the algebra. Values are immutable: every operation returns
// a new Rational and never mutates its operands.
package rational

import (
	"math/big"

	"github.com/manybody/secondq/errors"
)

// Rational is an exact fraction. The zero value is 0. Fractions are always
// stored reduced with a positive denominator (big.Rat normalization).
type Rational struct {
	r *big.Rat
}

// New returns num/den. A zero denominator is an arithmetic error.
func New(num, den int64) (Rational, error) {
	if den == 0 {
		return Rational{}, errors.Arithmeticf("rational %d/%d has zero denominator", num, den)
	}
	return Rational{big.NewRat(num, den)}, nil
}

// FromInt returns n/1.
func FromInt(n int64) Rational {
	return Rational{big.NewRat(n, 1)}
}

// Zero returns 0.
func Zero() Rational { return Rational{} }

// One returns 1.
func One() Rational { return FromInt(1) }

// MinusOne returns -1.
func MinusOne() Rational { return FromInt(-1) }

// rat returns the underlying value, treating the zero Rational as 0.
// Callers must not mutate the result.
func (q Rational) rat() *big.Rat {
	if q.r == nil {
		return new(big.Rat)
	}
	return q.r
}

// Add returns q + p.
func (q Rational) Add(p Rational) Rational {
	return Rational{new(big.Rat).Add(q.rat(), p.rat())}
}

// Sub returns q - p.
func (q Rational) Sub(p Rational) Rational {
	return Rational{new(big.Rat).Sub(q.rat(), p.rat())}
}

// Mul returns q * p.
func (q Rational) Mul(p Rational) Rational {
	return Rational{new(big.Rat).Mul(q.rat(), p.rat())}
}

// Neg returns -q.
func (q Rational) Neg() Rational {
	return Rational{new(big.Rat).Neg(q.rat())}
}

// Abs returns |q|.
func (q Rational) Abs() Rational {
	return Rational{new(big.Rat).Abs(q.rat())}
}

// Inverse returns 1/q. Inverting zero is an arithmetic error.
func (q Rational) Inverse() (Rational, error) {
	if q.IsZero() {
		return Rational{}, errors.Arithmeticf("cannot invert zero")
	}
	return Rational{new(big.Rat).Inv(q.rat())}, nil
}

// Sign returns -1, 0, or +1.
func (q Rational) Sign() int { return q.rat().Sign() }

// IsZero reports whether q == 0.
func (q Rational) IsZero() bool { return q.rat().Sign() == 0 }

// IsOne reports whether q == 1.
func (q Rational) IsOne() bool {
	return q.r != nil && q.r.Num().IsInt64() && q.r.Num().Int64() == 1 && q.r.IsInt()
}

// IsMinusOne reports whether q == -1.
func (q Rational) IsMinusOne() bool {
	return q.r != nil && q.r.Num().IsInt64() && q.r.Num().Int64() == -1 && q.r.IsInt()
}

// IsNegative reports whether q < 0.
func (q Rational) IsNegative() bool { return q.rat().Sign() < 0 }

// IsInt reports whether q is an integer.
func (q Rational) IsInt() bool { return q.rat().IsInt() }

// Equal reports exact equality.
func (q Rational) Equal(p Rational) bool {
	return q.rat().Cmp(p.rat()) == 0
}

// Cmp compares q and p, returning -1, 0, or +1.
func (q Rational) Cmp(p Rational) int {
	return q.rat().Cmp(p.rat())
}

// Num returns a copy of the (reduced) numerator.
func (q Rational) Num() *big.Int {
	return new(big.Int).Set(q.rat().Num())
}

// Denom returns a copy of the (reduced, positive) denominator.
func (q Rational) Denom() *big.Int {
	return new(big.Int).Set(q.rat().Denom())
}

// String renders the reduced fraction: "3/2", "-3/2", or "2" for integers.
func (q Rational) String() string {
	return q.rat().RatString()
}

// Float64 returns the nearest float64 value.
func (q Rational) Float64() float64 {
	f, _ := q.rat().Float64()
	return f
}

// Factorial returns n! as a Rational. Negative n is an arithmetic error.
func Factorial(n int) (Rational, error) {
	if n < 0 {
		return Rational{}, errors.Arithmeticf("factorial of negative %d", n)
	}
	f := new(big.Int).MulRange(1, int64(n))
	return Rational{new(big.Rat).SetInt(f)}, nil
}
