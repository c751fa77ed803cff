package main

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	color.NoColor = true
	t.Setenv("CALC_DECIMAL_SEPARATOR", ".")

	var stdout, stderr bytes.Buffer
	err := runCLI(args, &stdout, &stderr)

	return stdout.String(), stderr.String(), err
}

func TestCalcPrintsResults(t *testing.T) {
	stdout, stderr, err := execute(t, "2(3+4)", "-5+3", ".5+1")
	require.NoError(t, err)

	assert.Equal(t, "14\n-2\n1.5\n", stdout)
	assert.Empty(t, stderr)
}

func TestCalcReportsFailures(t *testing.T) {
	stdout, stderr, err := execute(t, "1+2", "5/0")
	require.ErrorIs(t, err, errNotPerformed)

	assert.Equal(t, "3\nNot performed.\n", stdout)
	assert.Contains(t, stderr, "5/0: cannot divide by zero")
	assert.Contains(t, stderr, "DivisionByZero")
}

func TestCalcSeparatorFlag(t *testing.T) {
	stdout, _, err := execute(t, "--separator", ",", "7/2")
	require.NoError(t, err)
	assert.Equal(t, "3,5\n", stdout)

	_, _, err = execute(t, "--separator", ";", "7/2")
	assert.Error(t, err)
}

func TestCalcExplain(t *testing.T) {
	stdout, _, err := execute(t, "--explain", "2(3+4)")
	require.NoError(t, err)

	assert.Equal(t, "canonical: 2*(3+4)\nrpn:       2 3 4 + *\n14\n", stdout)
}

func TestCalcMaxLength(t *testing.T) {
	stdout, stderr, err := execute(t, "--max-length", "3", "1+2+3")
	require.ErrorIs(t, err, errNotPerformed)

	assert.Equal(t, "Not performed.\n", stdout)
	assert.Contains(t, stderr, "ExpressionTooLong")
}

func TestCalcRequiresArgument(t *testing.T) {
	_, _, err := execute(t)
	assert.Error(t, err)
}

func TestCalcSignedExpressions(t *testing.T) {
	stdout, _, err := execute(t, "-e", "-5+3")
	require.NoError(t, err)
	assert.Equal(t, "canonical: 0-5+3\nrpn:       0 5 - 3 +\n-2\n", stdout)

	stdout, _, err = execute(t, "-5+3", "--separator", ",", "-.5", "-(2+3)")
	require.NoError(t, err)
	assert.Equal(t, "-2\n-0,5\n-5\n", stdout)
}

func TestCalcFlagValuesAreNotExpressions(t *testing.T) {
	_, _, err := execute(t, "--max-length", "-1", "1+1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errNotPerformed)

	_, _, err = execute(t, "-x", "1+1")
	assert.ErrorContains(t, err, "unknown shorthand flag")
}

func TestExpressionArgs(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{in: nil, want: []string{"--"}},
		{in: []string{"1+2"}, want: []string{"--", "1+2"}},
		{in: []string{"-5+3", "-e"}, want: []string{"-e", "--", "-5+3"}},
		{in: []string{"-s", ",", "-.5"}, want: []string{"-s", ",", "--", "-.5"}},
		{in: []string{"-es", ",", "-(1)"}, want: []string{"-es", ",", "--", "-(1)"}},
		{in: []string{"--separator=,", "2"}, want: []string{"--separator=,", "--", "2"}},
		{in: []string{"1", "--", "-e"}, want: []string{"--", "1", "-e"}},
	}

	for _, tc := range tests {
		cmd := newRootCmd(nil, nil)
		assert.Equal(t, tc.want, expressionArgs(cmd, tc.in), "%q", tc.in)
	}
}
