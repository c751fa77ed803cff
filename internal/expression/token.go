package expression

import "strings"

// TokenKind distinguishes operands from operators.
type TokenKind uint8

const (
	Operand TokenKind = iota
	Operator
)

func (k TokenKind) String() string {
	switch k {
	case Operand:
		return "operand"
	case Operator:
		return "operator"
	default:
		return "unknown"
	}
}

// Op is the closed set of operator symbols understood by the pipeline.
type Op uint8

const (
	OpNone Op = iota
	OpenParen
	CloseParen
	Add
	Sub
	Mul
	Div
)

// Symbol returns the single-character spelling of o.
func (o Op) Symbol() string {
	switch o {
	case OpenParen:
		return "("
	case CloseParen:
		return ")"
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	default:
		return ""
	}
}

func (o Op) String() string { return o.Symbol() }

// precedence ranks: '(' lowest, then ')', then additive, then multiplicative.
func (o Op) precedence() int {
	switch o {
	case OpenParen:
		return 0
	case CloseParen:
		return 1
	case Add, Sub:
		return 2
	case Mul, Div:
		return 3
	default:
		return -1
	}
}

func opFor(c byte) (Op, bool) {
	switch c {
	case '(':
		return OpenParen, true
	case ')':
		return CloseParen, true
	case '+':
		return Add, true
	case '-':
		return Sub, true
	case '*':
		return Mul, true
	case '/':
		return Div, true
	default:
		return OpNone, false
	}
}

// Token is one element of a tokenized expression. Text holds the numeral
// for operands and the operator symbol for operators.
type Token struct {
	Kind TokenKind
	Text string
	Op   Op
}

// NumberToken returns an operand token for the numeral s.
func NumberToken(s string) Token {
	return Token{Kind: Operand, Text: s}
}

// OperatorToken returns an operator token for o.
func OperatorToken(o Op) Token {
	return Token{Kind: Operator, Text: o.Symbol(), Op: o}
}

func (t Token) String() string { return t.Text }

// FormatTokens renders tokens separated by single spaces, e.g. "2 3 4 + *".
func FormatTokens(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}
