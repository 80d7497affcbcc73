package space

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manybody/secondq/errors"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	require.NoError(t, r.AddSpace("o", Fermion, Occupied, []string{"i", "j", "k"}))
	require.NoError(t, r.AddSpace("v", Fermion, Unoccupied, []string{"a", "b", "c"}))
	require.NoError(t, r.AddSpace("g", Fermion, General, []string{"p", "q"}, "o", "v"))
	return r
}

func TestAddSpaceValidation(t *testing.T) {
	tests := []struct {
		name string
		add  func(r *Registry) error
	}{
		{"duplicate label", func(r *Registry) error {
			return r.AddSpace("o", Fermion, Occupied, []string{"i"})
		}},
		{"empty stems", func(r *Registry) error {
			return r.AddSpace("w", Fermion, Unoccupied, nil)
		}},
		{"multi-letter label", func(r *Registry) error {
			return r.AddSpace("ab", Fermion, Occupied, []string{"i"})
		}},
		{"uppercase label", func(r *Registry) error {
			return r.AddSpace("O", Fermion, Occupied, []string{"i"})
		}},
		{"unknown elementary member", func(r *Registry) error {
			return r.AddSpace("h", Fermion, General, []string{"p"}, "z")
		}},
		{"composite elementary member", func(r *Registry) error {
			return r.AddSpace("h", Fermion, General, []string{"p"}, "g")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry(t)
			err := tt.add(r)
			require.Error(t, err)
			assert.True(t, errors.IsConfigurationError(err))
		})
	}
}

func TestSpacesDeclarationOrder(t *testing.T) {
	r := newTestRegistry(t)
	labels := make([]string, 0, 3)
	for _, s := range r.Spaces() {
		labels = append(labels, s.Label)
	}
	assert.Equal(t, []string{"o", "v", "g"}, labels)
	assert.Equal(t, 3, r.NumSpaces())
}

func TestFreshIndexMonotonic(t *testing.T) {
	r := newTestRegistry(t)
	for want := 0; want < 4; want++ {
		ix, err := r.FreshIndex("o")
		require.NoError(t, err)
		assert.Equal(t, want, ix.Ordinal)
		assert.Equal(t, "o", ix.Space)
	}
	// other spaces count independently
	ix, err := r.FreshIndex("v")
	require.NoError(t, err)
	assert.Equal(t, 0, ix.Ordinal)

	_, err = r.FreshIndex("z")
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
}

func TestIndexAdvancesCounter(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.Index("o", 5)
	require.NoError(t, err)
	fresh, err := r.FreshIndex("o")
	require.NoError(t, err)
	assert.Equal(t, 6, fresh.Ordinal)

	_, err = r.Index("o", -1)
	require.Error(t, err)
	_, err = r.Index("z", 0)
	require.Error(t, err)
}

func TestResetInvalidatesIndices(t *testing.T) {
	r := newTestRegistry(t)
	ix, err := r.FreshIndex("o")
	require.NoError(t, err)
	require.NoError(t, r.Validate(ix))

	epoch := r.Epoch()
	require.NoError(t, r.Reset())
	assert.Equal(t, epoch+1, r.Epoch())
	assert.Equal(t, 0, r.NumSpaces())

	require.NoError(t, r.AddSpace("o", Fermion, Occupied, []string{"i"}))
	err = r.Validate(ix)
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))

	// counters restart with the epoch
	fresh, err := r.FreshIndex("o")
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.Ordinal)
}

func TestFreezeDiscipline(t *testing.T) {
	r := newTestRegistry(t)
	r.Freeze()
	assert.True(t, r.Frozen())

	err := r.AddSpace("w", Boson, General, []string{"x"})
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))

	err = r.Reset()
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))

	// reads and index minting stay available
	_, ok := r.Space("o")
	assert.True(t, ok)
	_, err = r.FreshIndex("o")
	assert.NoError(t, err)

	r.Thaw()
	assert.False(t, r.Frozen())
	assert.NoError(t, r.AddSpace("w", Boson, General, []string{"x"}))
}

func TestOverlaps(t *testing.T) {
	r := newTestRegistry(t)
	tests := []struct {
		a, b string
		want bool
	}{
		{"o", "o", true},
		{"o", "v", false},
		{"g", "o", true},
		{"o", "g", true},
		{"g", "v", true},
		{"g", "g", true},
		{"o", "z", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.Overlaps(tt.a, tt.b), "Overlaps(%q, %q)", tt.a, tt.b)
	}
}

func TestCompositeLookup(t *testing.T) {
	r := newTestRegistry(t)
	g, ok := r.Space("g")
	require.True(t, ok)
	assert.True(t, g.IsComposite())
	assert.True(t, g.Contains("o"))
	assert.True(t, g.Contains("v"))
	assert.False(t, g.Contains("z"))

	o, ok := r.Space("o")
	require.True(t, ok)
	assert.False(t, o.IsComposite())
	assert.Equal(t, Occupied, o.Occupation)
	assert.Equal(t, Fermion, o.Statistics)
}

func TestSpaceCopiesAreIsolated(t *testing.T) {
	r := newTestRegistry(t)
	s, ok := r.Space("o")
	require.True(t, ok)
	s.Stems[0] = "mutated"

	again, _ := r.Space("o")
	assert.Equal(t, "i", again.Stems[0])
}
