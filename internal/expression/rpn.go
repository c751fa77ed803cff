package expression

// ToRPN converts infix tokens to postfix order with the shunting-yard
// algorithm. Operators of equal rank associate to the left.
func ToRPN(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	stack := make([]Token, 0, len(tokens)/2+1)

	pop := func() Token {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return top
	}

	for _, t := range tokens {
		if t.Kind == Operand {
			out = append(out, t)
			continue
		}

		switch t.Op {
		case OpenParen:
			stack = append(stack, t)

		case CloseParen:
			// Everything above the matching '(' goes to the output; the '('
			// is the only rank below ')' and is dropped.
			for len(stack) > 0 {
				top := pop()
				if top.Op.precedence() < t.Op.precedence() {
					break
				}
				out = append(out, top)
			}

		default:
			for len(stack) > 0 && stack[len(stack)-1].Op.precedence() >= t.Op.precedence() {
				out = append(out, pop())
			}
			stack = append(stack, t)
		}
	}

	for len(stack) > 0 {
		out = append(out, pop())
	}

	return out
}
