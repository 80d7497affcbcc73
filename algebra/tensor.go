package algebra

import (
	"strings"

	"github.com/manybody/secondq/space"
)

// Symmetry describes the permutation behavior of a tensor's slot groups.
type Symmetry int

const (
	// Nonsymmetric tensors grant no slot freedom to the canonicalizer.
	Nonsymmetric Symmetry = iota
	// Symmetric tensors keep their value under slot permutations.
	Symmetric
	// Antisymmetric tensors flip sign on each slot transposition.
	Antisymmetric
)

func (s Symmetry) String() string {
	switch s {
	case Nonsymmetric:
		return "nonsymmetric"
	case Symmetric:
		return "symmetric"
	case Antisymmetric:
		return "antisymmetric"
	default:
		return "unknown"
	}
}

// TensorLabel is a symbolic reference to a named coefficient array with
// ordered upper and lower index slots. It is never evaluated; it exists only
// to be rendered, permuted under declared symmetry, and reindexed.
type TensorLabel struct {
	Name  string
	Upper []space.Index
	Lower []space.Index
}

// NewTensorLabel builds a tensor factor. The slices are copied.
func NewTensorLabel(name string, upper, lower []space.Index) TensorLabel {
	return TensorLabel{
		Name:  name,
		Upper: append([]space.Index(nil), upper...),
		Lower: append([]space.Index(nil), lower...),
	}
}

// clone returns a copy sharing no slices with the receiver.
func (t TensorLabel) clone() TensorLabel {
	return NewTensorLabel(t.Name, t.Upper, t.Lower)
}

// Adjoint returns the tensor with upper and lower slot groups swapped.
func (t TensorLabel) Adjoint() TensorLabel {
	return NewTensorLabel(t.Name, t.Lower, t.Upper)
}

// String renders the grammar form, always showing both slot groups:
// "T^{o0,o1}_{v0,v1}", "f^{o0}_{}".
func (t TensorLabel) String() string {
	var b strings.Builder
	b.WriteString(t.Name)
	b.WriteString(TokenUpperOpen)
	writeIndexList(&b, t.Upper)
	b.WriteString(TokenSlotClose)
	b.WriteString(TokenLowerOpen)
	writeIndexList(&b, t.Lower)
	b.WriteString(TokenSlotClose)
	return b.String()
}

func writeIndexList(b *strings.Builder, ixs []space.Index) {
	for i, ix := range ixs {
		if i > 0 {
			b.WriteString(TokenSlotSep)
		}
		b.WriteString(ix.String())
	}
}

// kronecker mints the symbolic contraction factor delta^{p}_{q}.
func kronecker(p, q space.Index) TensorLabel {
	return TensorLabel{
		Name:  KroneckerName,
		Upper: []space.Index{p},
		Lower: []space.Index{q},
	}
}
