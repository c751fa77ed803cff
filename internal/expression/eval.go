package expression

import (
	"math"
	"strconv"
	"strings"
)

// apply computes left o right for the four arithmetic operators.
func (o Op) apply(left, right float64) (float64, error) {
	switch o {
	case Add:
		return left + right, nil
	case Sub:
		return left - right, nil
	case Mul:
		return left * right, nil
	case Div:
		if right == 0 {
			return 0, ErrDivisionByZero
		}
		return left / right, nil
	default:
		return 0, ErrMalformedExpression
	}
}

// EvaluateRPN reduces a postfix token sequence to a single value.
func (c *Calculator) EvaluateRPN(rpn []Token) (float64, error) {
	stack := make([]float64, 0, len(rpn)/2+1)

	for _, t := range rpn {
		if t.Kind == Operand {
			v, err := c.parseOperand(t.Text)
			if err != nil {
				return 0, &EvalError{Err: ErrInvalidNumber, Token: t}
			}
			stack = append(stack, v)
			continue
		}

		if len(stack) < 2 {
			return 0, &EvalError{Err: ErrMalformedExpression, Token: t}
		}
		right := stack[len(stack)-1]
		left := stack[len(stack)-2]
		stack = stack[:len(stack)-2]

		v, err := t.Op.apply(left, right)
		if err != nil {
			return 0, &EvalError{Err: err, Token: t}
		}
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, &EvalError{Err: ErrNonFiniteResult, Token: t}
		}
		stack = append(stack, v)
	}

	if len(stack) != 1 {
		return 0, &EvalError{Err: ErrMalformedExpression}
	}
	return stack[0], nil
}

func (c *Calculator) parseOperand(s string) (float64, error) {
	if c.separator != '.' {
		s = strings.ReplaceAll(s, string(c.separator), ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return v, nil
}
