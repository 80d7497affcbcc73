package algebra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manybody/secondq/errors"
	"github.com/manybody/secondq/space"
)

func TestReindex(t *testing.T) {
	eng := testEngine(t)
	expr, err := eng.BuildExpression("t^{o0}_{v0} {a+(v0) a-(o0)}")
	require.NoError(t, err)

	o0, err := eng.Index("o", 0)
	require.NoError(t, err)
	o3, err := eng.Index("o", 3)
	require.NoError(t, err)

	out, err := eng.Reindex(expr, map[space.Index]space.Index{o0: o3})
	require.NoError(t, err)
	assert.Equal(t, "t^{o3}_{v0} { a+(v0) a-(o3) }", out.String())
	assert.Equal(t, "t^{o0}_{v0} { a+(v0) a-(o0) }", expr.String(), "input untouched")
}

func TestReindexRejectsUnknownTarget(t *testing.T) {
	eng := testEngine(t)
	expr, err := eng.BuildExpression("{a+(v0)}")
	require.NoError(t, err)

	v0, err := eng.Index("v", 0)
	require.NoError(t, err)
	bogus := space.Index{Space: "x", Ordinal: 0}
	_, err = eng.Reindex(expr, map[space.Index]space.Index{v0: bogus})
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
}

func TestLatexRendering(t *testing.T) {
	eng := testEngine(t)
	expr, err := eng.BuildExpression("1/2 t^{o0}_{v0} {a+(v0) a-(o0)}\n-{a+(o1)}")
	require.NoError(t, err)

	latex := eng.Latex(expr, " \\\\\n")
	assert.Contains(t, latex, `\frac{1}{2}`)
	assert.Contains(t, latex, `t^{i}_{a}`)
	assert.Contains(t, latex, `\hat{a}^\dagger_{a}`)
	assert.Contains(t, latex, `\hat{a}_{i}`)
	assert.Contains(t, latex, `-\{ \hat{a}^\dagger_{j} \}`)
}

func TestLatexStemWrapping(t *testing.T) {
	eng := testEngine(t)
	// The o space has two stems; ordinal 2 wraps back to the first with a
	// numeric subscript.
	expr, err := eng.BuildExpression("{a+(o2)}")
	require.NoError(t, err)
	assert.Contains(t, eng.Latex(expr, " "), `\hat{a}^\dagger_{i_{1}}`)
}

func TestEngineOptionDefaults(t *testing.T) {
	eng := testEngine(t)
	assert.Equal(t, DefaultLimits, eng.Limits())

	custom := testEngine(t, WithLimits(Limits{MaxWickTerms: 10, MaxCanonicalCandidates: 5}))
	assert.Equal(t, 10, custom.Limits().MaxWickTerms)
	assert.Equal(t, 5, custom.Limits().MaxCanonicalCandidates)
}
