package algebra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manybody/secondq/errors"
)

func TestBuildExpressionRoundTrips(t *testing.T) {
	eng := testEngine(t)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty string is zero", "", ""},
		{"identity", "1", "1"},
		{"minus one", "-1", "-1"},
		{"unbraced stays unbraced", "-t^{a_1}_{o_0} a+(a_1) a-(o_0)", "-t^{a1}_{o0} a+(a1) a-(o0)"},
		{"braced keeps braces", "-t^{a_1}_{o_0} {a+(a_1) a-(o_0)}", "-t^{a1}_{o0} { a+(a1) a-(o0) }"},
		{"empty lower slot group", "f^{o0}_{}", "f^{o0}_{}"},
		{"condensed index form", "{a+(v0) a-(o0)}", "{ a+(v0) a-(o0) }"},
		{"coefficient and block", "1/2 {a+(a_0)}", "1/2 { a+(a0) }"},
		{"multi-line with signs", "1/2 {a+(a0)}\n+{a+(v0) a-(o0)}", "1/2 { a+(a0) }\n+{ a+(v0) a-(o0) }"},
		{"negative line", "{a+(a0)}\n-3 f^{o0}_{}", "-3 f^{o0}_{}\n+{ a+(a0) }"},
		{"duplicate lines merge", "{a+(a0)}\n+{a+(a0)}", "2 { a+(a0) }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := eng.BuildExpression(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, expr.String())
		})
	}
}

// TestPrintParseIdentity re-parses printed output and expects the exact
// same canonical text back.
func TestPrintParseIdentity(t *testing.T) {
	eng := testEngine(t)
	inputs := []string{
		"1/2 { a+(a0) }\n+{ a+(v0) a-(o0) }",
		"-t^{a1}_{o0} a+(a1) a-(o0)",
		"f^{o0}_{}",
		"-1",
	}
	for _, in := range inputs {
		expr, err := eng.BuildExpression(in)
		require.NoError(t, err)
		again, err := eng.BuildExpression(expr.String())
		require.NoError(t, err)
		assert.Equal(t, expr.String(), again.String())
		assert.True(t, expr.Equal(again))
	}
}

func TestBuildExpressionErrors(t *testing.T) {
	eng := testEngine(t)

	tests := []struct {
		name  string
		input string
		kind  ErrorKind
	}{
		{"unknown space", "a+(x_0)", ErrorKindIndex},
		{"malformed index", "a+(o_)", ErrorKindIndex},
		{"unterminated block", "{a+(o0)", ErrorKindSyntax},
		{"unterminated operator", "a+(o0", ErrorKindSyntax},
		{"empty block", "{}", ErrorKindSyntax},
		{"tensor missing slots", "t a+(o0)", ErrorKindSyntax},
		{"tensor after operators", "a+(o0) t^{o0}_{}", ErrorKindSyntax},
		{"garbage after block", "{a+(o0)} a-(o0)", ErrorKindSyntax},
		{"missing denominator", "1/ {a+(o0)}", ErrorKindSyntax},
		{"braced but not normal-ordered", "{a-(o_0) a+(v_0)}", ErrorKindOrder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eng.BuildExpression(tt.input)
			require.Error(t, err)
			assert.True(t, errors.IsParseError(err), "want parse error, got %v", err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.kind, perr.Kind)
		})
	}
}

func TestParseErrorFormatting(t *testing.T) {
	eng := testEngine(t)
	_, err := eng.BuildExpression("a+(x_0)")
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	plain := perr.FormatError(ErrorContextPlain)
	assert.Contains(t, plain, "x_0")
	assert.Contains(t, plain, "line 1")
	assert.Contains(t, plain, "Suggestions")

	// Terminal form carries the same content plus color codes.
	assert.Contains(t, perr.FormatError(ErrorContextTerminal), "x_0")
}

func TestParseFailureLeavesNothingBehind(t *testing.T) {
	eng := testEngine(t)
	_, err := eng.BuildExpression("{a+(v0)}\n+a+(x_9)")
	require.Error(t, err)
	// A second, valid parse is unaffected by the failed one.
	expr, err := eng.BuildExpression("{a+(v0)}")
	require.NoError(t, err)
	assert.Equal(t, "{ a+(v0) }", expr.String())
}
