package expression

import (
	"strings"
)

// Symbol classes used while normalizing. Both separator spellings appear in
// the classes because the checks run before and after separator substitution.
const (
	digits                  = "0123456789"
	validSymbols            = digits + "+-*/()" + ".,"
	startSymbols            = digits + "(+-" + ".,"
	leadingZeroSymbols      = "+-" + ".,"
	symbolsBeforeSeparator  = digits + ".,"
	symbolsBeforeOpenParen  = digits + ")"
	signsAfterOpenParen     = "+-"
	forbiddenAfterOpenParen = "/)*"
	symbolsAfterCloseParen  = digits + "("
	forbiddenBeforeClose    = "+-*/" + ".,"
	consecutiveForbidden    = "+-*/" + ".,"
	binaryOperators         = "+-*/"
)

func in(c byte, class string) bool {
	return c != 0 && strings.IndexByte(class, c) >= 0
}

// Normalize validates raw and rewrites it into canonical form: spaces
// removed, a single decimal separator, explicit leading zeros before signs
// and bare separators, and explicit '*' for implicit multiplication.
//
// Applying Normalize to its own output returns the output unchanged.
func (c *Calculator) Normalize(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", syntaxError(ErrEmptyExpression, 0)
	}
	if c.maxLength > 0 && len(raw) > c.maxLength {
		return "", syntaxError(ErrExpressionTooLong, c.maxLength)
	}
	if strings.Count(raw, "(") != strings.Count(raw, ")") {
		return "", syntaxError(ErrUnbalancedParentheses, 0)
	}
	if !in(raw[0], startSymbols) {
		return "", syntaxError(ErrInvalidStartSymbol, 0, raw[0])
	}

	s := strings.ReplaceAll(raw, " ", "")
	s = c.unifySeparator(s)

	return c.rewrite(s)
}

func (c *Calculator) unifySeparator(s string) string {
	if c.separator == ',' {
		return strings.ReplaceAll(s, ".", ",")
	}
	return strings.ReplaceAll(s, ",", ".")
}

// rewrite performs the symbol-by-symbol pass. It never edits the input in
// place: prev is always the last byte written to out, so insertions cannot
// shift the read position.
func (c *Calculator) rewrite(s string) (string, error) {
	sep := c.separator

	var out strings.Builder
	out.Grow(len(s) * 2)

	if in(s[0], leadingZeroSymbols) {
		out.WriteByte('0')
	}

	var prev byte
	if out.Len() > 0 {
		prev = '0'
	}
	emit := func(b byte) {
		out.WriteByte(b)
		prev = b
	}

	depth := 0
	for i := 0; i < len(s); i++ {
		cur := s[i]
		var next byte
		if i+1 < len(s) {
			next = s[i+1]
		}

		if !in(cur, validSymbols) {
			return "", syntaxError(ErrInvalidSymbol, i, cur)
		}

		if cur == sep && !in(prev, symbolsBeforeSeparator) {
			emit('0')
		}

		switch cur {
		case '(':
			if out.Len() > 0 {
				if prev == sep {
					return "", syntaxError(ErrInvalidAdjacency, i, prev, cur)
				}
				if in(prev, symbolsBeforeOpenParen) {
					emit('*')
				}
			}
			if in(next, forbiddenAfterOpenParen) {
				return "", syntaxError(ErrInvalidAdjacency, i+1, cur, next)
			}
			emit(cur)
			depth++
			if in(next, signsAfterOpenParen) {
				emit('0')
			}

		case ')':
			depth--
			if depth < 0 {
				return "", syntaxError(ErrUnmatchedClosingParenthesis, i, cur)
			}
			if in(prev, forbiddenBeforeClose) {
				return "", syntaxError(ErrInvalidAdjacency, i, prev, cur)
			}
			if next == sep {
				return "", syntaxError(ErrInvalidAdjacency, i+1, cur, next)
			}
			emit(cur)
			if in(next, symbolsAfterCloseParen) {
				emit('*')
			}

		default:
			if in(prev, consecutiveForbidden) && in(cur, consecutiveForbidden) {
				return "", syntaxError(ErrInvalidAdjacency, i, prev, cur)
			}
			emit(cur)
		}
	}

	if in(prev, binaryOperators) {
		return "", syntaxError(ErrMissingOperand, len(s)-1, prev)
	}

	return out.String(), nil
}
