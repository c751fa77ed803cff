package expression

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateRPN(t *testing.T) {
	tests := []struct {
		rpn  []Token
		want float64
	}{
		{rpn: []Token{NumberToken("7")}, want: 7},
		{rpn: []Token{NumberToken("2"), NumberToken("3"), OperatorToken(Sub)}, want: -1},
		{rpn: []Token{NumberToken("9"), NumberToken("3"), OperatorToken(Div)}, want: 3},
		{rpn: []Token{NumberToken("0"), NumberToken("5"), OperatorToken(Div)}, want: 0},
		{rpn: ToRPN(Tokenize("2*(3+4)")), want: 14},
	}

	c := newCalc(t)
	for _, tc := range tests {
		t.Run(FormatTokens(tc.rpn), func(t *testing.T) {
			got, err := c.EvaluateRPN(tc.rpn)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluateRPNOperandOrder(t *testing.T) {
	c := newCalc(t)

	got, err := c.EvaluateRPN([]Token{NumberToken("1"), NumberToken("4"), OperatorToken(Div)})
	require.NoError(t, err)
	assert.Equal(t, 0.25, got)
}

func TestEvaluateRPNDivisionByZero(t *testing.T) {
	c := newCalc(t)

	for _, rpn := range [][]Token{
		{NumberToken("5"), NumberToken("0"), OperatorToken(Div)},
		{NumberToken("5"), NumberToken("0.0"), OperatorToken(Div)},
		ToRPN(Tokenize("5/(1-1)")),
	} {
		_, err := c.EvaluateRPN(rpn)
		require.ErrorIs(t, err, ErrDivisionByZero, FormatTokens(rpn))

		var ee *EvalError
		require.ErrorAs(t, err, &ee)
		assert.Equal(t, Div, ee.Token.Op)
	}
}

func TestEvaluateRPNCommaOperands(t *testing.T) {
	c := newCalc(t, Separator(','))

	got, err := c.EvaluateRPN([]Token{NumberToken("1,5"), NumberToken("0,5"), OperatorToken(Add)})
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)
}

func TestEvaluateRPNFailures(t *testing.T) {
	huge := "1" + strings.Repeat("0", 200)

	tests := []struct {
		name string
		rpn  []Token
		want error
	}{
		{name: "empty", rpn: nil, want: ErrMalformedExpression},
		{name: "underflow", rpn: []Token{NumberToken("4"), OperatorToken(Mul)}, want: ErrMalformedExpression},
		{name: "residue", rpn: []Token{NumberToken("1"), NumberToken("2")}, want: ErrMalformedExpression},
		{name: "two separators", rpn: []Token{NumberToken("1.2.3")}, want: ErrInvalidNumber},
		{name: "out of range", rpn: []Token{NumberToken("1" + strings.Repeat("0", 400))}, want: ErrInvalidNumber},
		{name: "overflow", rpn: []Token{NumberToken(huge), NumberToken(huge), OperatorToken(Mul)}, want: ErrNonFiniteResult},
	}

	c := newCalc(t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.EvaluateRPN(tc.rpn)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
