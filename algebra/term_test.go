package algebra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manybody/secondq/errors"
	"github.com/manybody/secondq/rational"
	"github.com/manybody/secondq/space"
)

// testRegistry builds the three-space setup most scenarios run against:
// occupied o, general a (over o and v), unoccupied v, all fermionic.
func testRegistry(t *testing.T) *space.Registry {
	t.Helper()
	reg := space.NewRegistry()
	require.NoError(t, reg.AddSpace("o", space.Fermion, space.Occupied, []string{"i", "j"}))
	require.NoError(t, reg.AddSpace("v", space.Fermion, space.Unoccupied, []string{"a", "b", "c"}))
	require.NoError(t, reg.AddSpace("a", space.Fermion, space.General, []string{"u", "v"}, "o", "v"))
	return reg
}

func testEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	return NewEngine(testRegistry(t), opts...)
}

func TestOperatorString(t *testing.T) {
	eng := testEngine(t)

	cre, err := eng.Creation("v_0")
	require.NoError(t, err)
	assert.Equal(t, "a+(v0)", cre.String())

	ann, err := eng.Annihilation("o0")
	require.NoError(t, err)
	assert.Equal(t, "a-(o0)", ann.String())

	assert.True(t, cre.IsCreation())
	assert.True(t, ann.IsAnnihilation())
	assert.Equal(t, "a-(v0)", cre.Adjoint().String())
}

func TestBuildOperatorUnknownSpace(t *testing.T) {
	eng := testEngine(t)
	_, err := eng.Creation("x_0")
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
}

func TestTensorLabelString(t *testing.T) {
	eng := testEngine(t)
	o0, _ := eng.Index("o", 0)
	o1, _ := eng.Index("o", 1)
	v0, _ := eng.Index("v", 0)
	v1, _ := eng.Index("v", 1)

	tl := NewTensorLabel("T", []space.Index{o0, o1}, []space.Index{v0, v1})
	assert.Equal(t, "T^{o0,o1}_{v0,v1}", tl.String())

	empty := NewTensorLabel("f", []space.Index{o0}, nil)
	assert.Equal(t, "f^{o0}_{}", empty.String())

	assert.Equal(t, "T^{v0,v1}_{o0,o1}", tl.Adjoint().String())
}

func TestTermRendering(t *testing.T) {
	eng := testEngine(t)
	cre, _ := eng.Creation("v0")
	ann, _ := eng.Annihilation("o0")

	term := NewTerm().AddOperators(cre, ann)
	assert.Equal(t, "a+(v0) a-(o0)", term.String(), "unbraced product stays unbraced")

	require.NoError(t, term.SetNormalOrdered(true))
	assert.Equal(t, "{ a+(v0) a-(o0) }", term.String())

	term.SetCoefficient(rational.MinusOne())
	assert.Equal(t, "-{ a+(v0) a-(o0) }", term.String())

	half, err := rational.New(1, 2)
	require.NoError(t, err)
	term.SetCoefficient(half)
	assert.Equal(t, "1/2 { a+(v0) a-(o0) }", term.String())
}

func TestScalarTermRendering(t *testing.T) {
	assert.Equal(t, "1", NewTerm().String())
	assert.Equal(t, "-1", NewScalarTerm(rational.MinusOne()).String())
	three := rational.FromInt(3)
	assert.Equal(t, "3", NewScalarTerm(three).String())
}

func TestSetNormalOrderedVerifies(t *testing.T) {
	eng := testEngine(t)
	cre, _ := eng.Creation("v0")
	ann, _ := eng.Annihilation("o0")

	term := NewTerm().AddOperators(ann, cre)
	err := term.SetNormalOrdered(true)
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
	assert.False(t, term.IsNormalOrdered())
}

func TestTermAdjoint(t *testing.T) {
	eng := testEngine(t)
	v0, _ := eng.Index("v", 0)
	o0, _ := eng.Index("o", 0)
	cre, _ := eng.Creation("v0")
	ann, _ := eng.Annihilation("o0")

	term := NewTerm().
		AddTensor(NewTensorLabel("t", []space.Index{v0}, []space.Index{o0})).
		AddOperators(cre, ann)
	require.NoError(t, term.SetNormalOrdered(true))

	adj := term.Adjoint()
	assert.Equal(t, "t^{o0}_{v0} { a+(o0) a-(v0) }", adj.String())
	assert.True(t, adj.IsNormalOrdered(), "adjoint of a braced block stays braced")

	// Adjoint is an involution.
	assert.Equal(t, term.String(), adj.Adjoint().String())
}

func TestAppendingClearsNormalOrderedFlag(t *testing.T) {
	eng := testEngine(t)
	cre, _ := eng.Creation("v0")

	term := NewTerm().AddOperators(cre)
	require.NoError(t, term.SetNormalOrdered(true))
	ann, _ := eng.Annihilation("o0")
	term.AddOperators(ann)
	assert.False(t, term.IsNormalOrdered())
}
