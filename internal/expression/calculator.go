// Package expression evaluates arithmetic expressions written in infix
// notation.
//
// An expression passes through four stages: Normalize validates the raw text
// and rewrites it into canonical form, Tokenize splits it into operands and
// operators, ToRPN reorders the tokens into Reverse Polish Notation, and
// EvaluateRPN reduces them to a number on a value stack.
//
//	calc, err := expression.New(expression.Separator(','))
//	if err != nil {
//		panic(err)
//	}
//	fmt.Println(calc.Calculate("2(3+4,5)")) // 15
//
// A Calculator holds only immutable settings and may be shared between
// goroutines.
package expression

import (
	"fmt"
	"strconv"
	"strings"
)

// NotPerformed is returned by Calculate when an expression cannot be evaluated.
const NotPerformed = "Not performed."

// DefaultSeparator is the decimal separator used when none is configured.
const DefaultSeparator = '.'

// DefaultMaxLength bounds the raw expression size accepted by New's defaults.
const DefaultMaxLength = 1024

// Option configures a Calculator.
type Option func(*Calculator) error

// Separator selects the decimal separator used for canonical expressions and
// rendered results. Only '.' and ',' are supported. Input may use either.
func Separator(r rune) Option {
	return func(c *Calculator) error {
		if r != '.' && r != ',' {
			return fmt.Errorf("unsupported decimal separator %q", r)
		}
		c.separator = byte(r)
		return nil
	}
}

// MaxLength limits the length in bytes of raw expressions. Zero disables the limit.
func MaxLength(n int) Option {
	return func(c *Calculator) error {
		if n < 0 {
			return fmt.Errorf("cannot use %d as maximum expression length", n)
		}
		c.maxLength = n
		return nil
	}
}

// Calculator runs the evaluation pipeline.
type Calculator struct {
	separator byte
	maxLength int
}

// New returns a Calculator configured by opts.
func New(opts ...Option) (*Calculator, error) {
	c := &Calculator{
		separator: DefaultSeparator,
		maxLength: DefaultMaxLength,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Separator reports the configured decimal separator.
func (c *Calculator) Separator() rune { return rune(c.separator) }

// Stage identifies one step of the pipeline.
type Stage string

const (
	StageNormalize Stage = "normalize"
	StageTokenize  Stage = "tokenize"
	StageToRPN     Stage = "to_rpn"
	StageEvaluate  Stage = "evaluate"
)

// StageFunc wraps the execution of a single stage. It must call run exactly
// once and return its error.
type StageFunc func(stage Stage, run func() error) error

// Result holds every intermediate form of a successfully evaluated expression.
type Result struct {
	Expression string
	Canonical  string
	Tokens     []Token
	RPN        []Token
	Value      float64
	Text       string
}

// Evaluate runs all four stages on expr.
func (c *Calculator) Evaluate(expr string) (*Result, error) {
	return c.EvaluateWith(expr, nil)
}

// EvaluateWith runs all four stages on expr, passing each through wrap.
// A nil wrap runs the stages directly. The first failing stage ends the
// evaluation and no partial result is returned.
func (c *Calculator) EvaluateWith(expr string, wrap StageFunc) (*Result, error) {
	if wrap == nil {
		wrap = func(_ Stage, run func() error) error { return run() }
	}

	res := &Result{Expression: expr}

	err := wrap(StageNormalize, func() error {
		canonical, err := c.Normalize(expr)
		res.Canonical = canonical
		return err
	})
	if err != nil {
		return nil, err
	}

	err = wrap(StageTokenize, func() error {
		res.Tokens = Tokenize(res.Canonical)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = wrap(StageToRPN, func() error {
		res.RPN = ToRPN(res.Tokens)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = wrap(StageEvaluate, func() error {
		v, err := c.EvaluateRPN(res.RPN)
		res.Value = v
		return err
	})
	if err != nil {
		return nil, err
	}

	res.Text = c.Format(res.Value)
	return res, nil
}

// Calculate evaluates expr and renders the result, or returns NotPerformed
// if any stage fails.
func (c *Calculator) Calculate(expr string) string {
	res, err := c.Evaluate(expr)
	if err != nil {
		return NotPerformed
	}
	return res.Text
}

// Format renders v as the shortest decimal that round-trips, using the
// configured separator.
func (c *Calculator) Format(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if s == "-0" {
		s = "0"
	}
	if c.separator != '.' {
		s = strings.Replace(s, ".", string(c.separator), 1)
	}
	return s
}
