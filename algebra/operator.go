package algebra

import (
	"github.com/manybody/secondq/space"
)

// OperatorKind distinguishes creation from annihilation operators.
type OperatorKind int

const (
	Creation OperatorKind = iota
	Annihilation
)

func (k OperatorKind) String() string {
	if g, ok := kindToGlyph[k]; ok {
		return g
	}
	return "?"
}

// Adjoint returns the conjugate kind.
func (k OperatorKind) Adjoint() OperatorKind {
	if k == Creation {
		return Annihilation
	}
	return Creation
}

// Operator is a single creation or annihilation token bound to an index.
// It is an immutable value; two operators are equal iff kind and index match.
type Operator struct {
	Kind  OperatorKind
	Index space.Index
}

// NewOperator builds an operator of the given kind on ix.
func NewOperator(kind OperatorKind, ix space.Index) Operator {
	return Operator{Kind: kind, Index: ix}
}

// IsCreation reports whether op creates a particle.
func (op Operator) IsCreation() bool { return op.Kind == Creation }

// IsAnnihilation reports whether op removes a particle.
func (op Operator) IsAnnihilation() bool { return op.Kind == Annihilation }

// Adjoint returns the conjugate operator on the same index.
func (op Operator) Adjoint() Operator {
	return Operator{Kind: op.Kind.Adjoint(), Index: op.Index}
}

// Equal reports whether op and other are the same token.
func (op Operator) Equal(other Operator) bool {
	return op.Kind == other.Kind && op.Index.Equal(other.Index)
}

// String renders the grammar form: "a+(v0)" or "a-(o0)".
func (op Operator) String() string {
	return op.Kind.String() + "(" + op.Index.String() + ")"
}

// less orders operators by (space label, ordinal), ignoring kind. It is the
// comparison the canonicalizer sorts same-kind blocks with.
func (op Operator) less(other Operator) bool {
	return op.Index.Less(other.Index)
}
