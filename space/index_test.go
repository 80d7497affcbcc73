package space

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSpec(t *testing.T) {
	tests := []struct {
		spec    string
		label   string
		ordinal int
		wantErr bool
	}{
		{"o_0", "o", 0, false},
		{"o0", "o", 0, false},
		{"v_12", "v", 12, false},
		{"v12", "v", 12, false},
		{"a_1", "a", 1, false},
		{"", "", 0, true},
		{"o", "", 0, true},
		{"o_", "", 0, true},
		{"0o", "", 0, true},
		{"O_1", "", 0, true},
		{"o_x", "", 0, true},
		{"o_-1", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			label, ordinal, err := ParseSpec(tt.spec)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.label, label)
			assert.Equal(t, tt.ordinal, ordinal)
		})
	}
}

func TestIndexString(t *testing.T) {
	ix := Index{Space: "o", Ordinal: 3}
	assert.Equal(t, "o3", ix.String())
}

func TestIndexEqualIgnoresEpoch(t *testing.T) {
	a := Index{Space: "o", Ordinal: 1, Epoch: 1}
	b := Index{Space: "o", Ordinal: 1, Epoch: 2}
	c := Index{Space: "o", Ordinal: 2, Epoch: 1}
	d := Index{Space: "v", Ordinal: 1, Epoch: 1}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
}

func TestIndexLess(t *testing.T) {
	tests := []struct {
		a, b Index
		want bool
	}{
		{Index{Space: "o", Ordinal: 0}, Index{Space: "v", Ordinal: 0}, true},
		{Index{Space: "v", Ordinal: 0}, Index{Space: "o", Ordinal: 0}, false},
		{Index{Space: "o", Ordinal: 0}, Index{Space: "o", Ordinal: 1}, true},
		{Index{Space: "o", Ordinal: 1}, Index{Space: "o", Ordinal: 1}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.a.Less(tt.b), "%s < %s", tt.a, tt.b)
	}
}
