package expression

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCalc(t *testing.T, opts ...Option) *Calculator {
	t.Helper()
	c, err := New(opts...)
	require.NoError(t, err)
	return c
}

func TestNormalizeRewrites(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "1+2", want: "1+2"},
		{in: "1 + 2 * 3", want: "1+2*3"},
		{in: "2(3+4)", want: "2*(3+4)"},
		{in: "(1+2)(3+4)", want: "(1+2)*(3+4)"},
		{in: "(2)3", want: "(2)*3"},
		{in: "-5+3", want: "0-5+3"},
		{in: "+3", want: "0+3"},
		{in: ".5+1", want: "0.5+1"},
		{in: ",5+1", want: "0.5+1"},
		{in: "1,25*4", want: "1.25*4"},
		{in: "1+.5", want: "1+0.5"},
		{in: "(.5)", want: "(0.5)"},
		{in: "(-5)", want: "(0-5)"},
		{in: "2(-3)", want: "2*(0-3)"},
		{in: "((1))", want: "((1))"},
		{in: "3*(+2)", want: "3*(0+2)"},
	}

	c := newCalc(t)
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := c.Normalize(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeCommaSeparator(t *testing.T) {
	c := newCalc(t, Separator(','))

	tests := map[string]string{
		"1.5+2,5": "1,5+2,5",
		".5":      "0,5",
		"(,5)":    "(0,5)",
	}
	for in, want := range tests {
		got, err := c.Normalize(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestNormalizeRejects(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{in: "", want: ErrEmptyExpression},
		{in: "   ", want: ErrEmptyExpression},
		{in: "(1+2", want: ErrUnbalancedParentheses},
		{in: "1+2)", want: ErrUnbalancedParentheses},
		{in: "*2", want: ErrInvalidStartSymbol},
		{in: " 1+2", want: ErrInvalidStartSymbol},
		{in: "a+1", want: ErrInvalidStartSymbol},
		{in: "1+a", want: ErrInvalidSymbol},
		{in: "1\t+2", want: ErrInvalidSymbol},
		{in: "2^3", want: ErrInvalidSymbol},
		{in: "1++2", want: ErrInvalidAdjacency},
		{in: "1+-2", want: ErrInvalidAdjacency},
		{in: "1*/2", want: ErrInvalidAdjacency},
		{in: "(1+)", want: ErrInvalidAdjacency},
		{in: "(*2)", want: ErrInvalidAdjacency},
		{in: "()", want: ErrInvalidAdjacency},
		{in: "2.(3)", want: ErrInvalidAdjacency},
		{in: "(1).5", want: ErrInvalidAdjacency},
		{in: "(2),5", want: ErrInvalidAdjacency},
		{in: "1..2", want: ErrInvalidAdjacency},
		{in: "1.,2", want: ErrInvalidAdjacency},
		{in: "1)+(2", want: ErrUnmatchedClosingParenthesis},
		{in: "1+", want: ErrMissingOperand},
		{in: "-", want: ErrMissingOperand},
		{in: "(1)*", want: ErrMissingOperand},
	}

	c := newCalc(t)
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := c.Normalize(tc.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			assert.Empty(t, got)
		})
	}
}

func TestUnmatchedClosingParenthesisIsAdjacencyError(t *testing.T) {
	_, err := newCalc(t).Normalize("1)+(2")
	assert.ErrorIs(t, err, ErrInvalidAdjacency)
	assert.Equal(t, "UnmatchedClosingParenthesis", ErrorKind(err))
}

func TestNormalizeReportsPosition(t *testing.T) {
	_, err := newCalc(t).Normalize("1 + +2")
	require.Error(t, err)

	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 2, se.Pos)
	assert.Equal(t, "+ and +", se.Symbols)
	assert.Equal(t, "invalid symbol sequence: + and +", err.Error())
}

func TestNormalizeMaxLength(t *testing.T) {
	c := newCalc(t, MaxLength(5))

	_, err := c.Normalize("1+2+3+4")
	assert.ErrorIs(t, err, ErrExpressionTooLong)

	got, err := c.Normalize("1+2+3")
	require.NoError(t, err)
	assert.Equal(t, "1+2+3", got)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"1+2", "2(3+4)", "(1+2)(3+4)", "-5+3", ".5+1", ",5+1", "(-5)",
		"2(-3)", "(.5)", "1 + 2 * 3", "((1)(2))", "3*(+2)", "1.2.3",
	}

	for _, sep := range []rune{'.', ','} {
		c := newCalc(t, Separator(sep))
		for _, in := range inputs {
			once, err := c.Normalize(in)
			require.NoError(t, err, in)

			twice, err := c.Normalize(once)
			require.NoError(t, err, once)
			assert.Equal(t, once, twice, "separator %q input %q", sep, in)
		}
	}
}

func TestNormalizeKeepsParenthesesBalanced(t *testing.T) {
	inputs := []string{"2(3)(4)", "(1+2)(3+4)5", "((-1))", "(.5)(.5)", "-(2)(-3)"}

	c := newCalc(t)
	for _, in := range inputs {
		got, err := c.Normalize(in)
		require.NoError(t, err, in)
		assert.Equal(t, strings.Count(got, "("), strings.Count(got, ")"), got)
	}
}
