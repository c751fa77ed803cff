package expression

// Tokenize splits a canonical expression into operand and operator tokens.
// Consecutive digits and separators form one operand. Signs are always
// operators here; the normalizer has already made every operand explicit.
// The input is not validated.
func Tokenize(canonical string) []Token {
	tokens := make([]Token, 0, len(canonical))

	start := -1
	flush := func(end int) {
		if start >= 0 {
			tokens = append(tokens, NumberToken(canonical[start:end]))
			start = -1
		}
	}

	for i := 0; i < len(canonical); i++ {
		op, ok := opFor(canonical[i])
		if !ok {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
		tokens = append(tokens, OperatorToken(op))
	}
	flush(len(canonical))

	return tokens
}
