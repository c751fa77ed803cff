package expression

import (
	"errors"
	"fmt"
)

// Validation failures raised by the normalizer.
var (
	ErrEmptyExpression       = errors.New("empty expression")
	ErrExpressionTooLong     = errors.New("expression too long")
	ErrUnbalancedParentheses = errors.New("not all parentheses are closed")
	ErrInvalidStartSymbol    = errors.New("invalid start symbol")
	ErrInvalidSymbol         = errors.New("invalid symbol")
	ErrInvalidAdjacency      = errors.New("invalid symbol sequence")
	ErrMissingOperand        = errors.New("missing operand")

	// ErrUnmatchedClosingParenthesis is a special case of ErrInvalidAdjacency:
	// a ')' appears before the '(' it would close.
	ErrUnmatchedClosingParenthesis = fmt.Errorf("%w: wrong ordering of parentheses", ErrInvalidAdjacency)
)

// Evaluation failures raised by the RPN evaluator.
var (
	ErrDivisionByZero      = errors.New("cannot divide by zero")
	ErrInvalidNumber       = errors.New("invalid number")
	ErrMalformedExpression = errors.New("malformed expression")
	ErrNonFiniteResult     = errors.New("result is not a finite number")
)

// SyntaxError describes where normalization rejected an expression.
// Pos is the zero-based offset in the space-stripped input.
type SyntaxError struct {
	Err     error
	Pos     int
	Symbols string
}

func (e *SyntaxError) Error() string {
	if e.Symbols == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err, e.Symbols)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

func syntaxError(err error, pos int, symbols ...byte) *SyntaxError {
	se := &SyntaxError{Err: err, Pos: pos}
	switch len(symbols) {
	case 0:
	case 1:
		se.Symbols = string(symbols)
	default:
		se.Symbols = fmt.Sprintf("%c and %c", symbols[0], symbols[1])
	}
	return se
}

// EvalError describes the token at which RPN evaluation stopped.
type EvalError struct {
	Err   error
	Token Token
}

func (e *EvalError) Error() string {
	if e.Token.Text == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %q", e.Err, e.Token.Text)
}

func (e *EvalError) Unwrap() error { return e.Err }

// kinds lists the taxonomy most specific first so that wrapped sentinels
// resolve to their own name rather than the sentinel they wrap.
var kinds = []struct {
	err  error
	name string
}{
	{ErrUnmatchedClosingParenthesis, "UnmatchedClosingParenthesis"},
	{ErrEmptyExpression, "EmptyExpression"},
	{ErrExpressionTooLong, "ExpressionTooLong"},
	{ErrUnbalancedParentheses, "UnbalancedParentheses"},
	{ErrInvalidStartSymbol, "InvalidStartSymbol"},
	{ErrInvalidSymbol, "InvalidSymbol"},
	{ErrInvalidAdjacency, "InvalidAdjacency"},
	{ErrMissingOperand, "MissingOperand"},
	{ErrDivisionByZero, "DivisionByZero"},
	{ErrInvalidNumber, "InvalidNumber"},
	{ErrMalformedExpression, "MalformedExpression"},
	{ErrNonFiniteResult, "NonFiniteResult"},
}

// ErrorKind returns the taxonomy name of err, or "Unknown" when err did not
// originate in this package. A nil error has no kind.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "Unknown"
}

// ErrorPosition reports the input offset carried by a SyntaxError.
func ErrorPosition(err error) (int, bool) {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se.Pos, true
	}
	return 0, false
}
