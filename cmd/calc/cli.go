package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/expression"
)

// errNotPerformed reports that at least one expression failed. The details
// have already been printed.
var errNotPerformed = errors.New("one or more expressions were not performed")

type options struct {
	separator string
	explain   bool
	maxLength int
}

// runCLI executes the root command with args, which exclude the program name.
func runCLI(args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(expressionArgs(cmd, args))
	return cmd.Execute()
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "calc [flags] EXPRESSION...",
		Short: "Evaluate arithmetic expressions",
		Long: `Calc evaluates arithmetic expressions with + - * /, parentheses,
unary signs, implicit multiplication such as 2(3+4), and decimals written
with either '.' or ','.

Expressions may start with a sign, as in calc -5+3, and flags may appear
anywhere on the command line.

The decimal separator used for output follows CALC_DECIMAL_SEPARATOR or
the process locale unless --separator is given.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args, stdout, stderr)
		},
	}

	cmd.Flags().StringVarP(&opts.separator, "separator", "s", "", `decimal separator for output, "." or ","`)
	cmd.Flags().BoolVarP(&opts.explain, "explain", "e", false, "print the canonical form and RPN before each result")
	cmd.Flags().IntVar(&opts.maxLength, "max-length", -1, "maximum expression length in bytes, 0 for no limit")

	return cmd
}

func run(cmd *cobra.Command, opts options, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if opts.separator != "" {
		if cfg.DecimalSeparator, err = config.ParseSeparator(opts.separator); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("max-length") {
		cfg.MaxExpressionLength = opts.maxLength
	}

	calc, err := expression.New(cfg.CalculatorOptions()...)
	if err != nil {
		return err
	}

	failed := false
	warn := color.New(color.FgYellow)
	dim := color.New(color.Faint)

	for _, arg := range args {
		res, err := calc.Evaluate(arg)
		if err != nil {
			failed = true
			fmt.Fprintln(stdout, expression.NotPerformed)
			warn.Fprintf(stderr, "%s: %s (%s)\n", arg, err, expression.ErrorKind(err))
			continue
		}

		if opts.explain {
			dim.Fprintf(stdout, "canonical: %s\n", res.Canonical)
			dim.Fprintf(stdout, "rpn:       %s\n", expression.FormatTokens(res.RPN))
		}
		fmt.Fprintln(stdout, res.Text)
	}

	if failed {
		return errNotPerformed
	}
	return nil
}

// expressionArgs moves flags ahead of a "--" terminator and every expression
// after it, so that signed expressions such as "-5+3" are not parsed as
// shorthand flags. Unknown flags stay in front and are still reported.
func expressionArgs(cmd *cobra.Command, args []string) []string {
	var flags, exprs []string

scan:
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--":
			exprs = append(exprs, args[i+1:]...)
			break scan
		case a == "-" || !strings.HasPrefix(a, "-") || isSignedExpression(a):
			exprs = append(exprs, a)
		default:
			flags = append(flags, a)
			if takesValue(cmd, a) && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		}
	}

	out := make([]string, 0, len(flags)+len(exprs)+1)
	out = append(out, flags...)
	out = append(out, "--")
	return append(out, exprs...)
}

func isSignedExpression(a string) bool {
	return len(a) > 1 && a[0] == '-' && strings.IndexByte("0123456789.,(", a[1]) >= 0
}

// takesValue reports whether flag argument a consumes the argument after it.
func takesValue(cmd *cobra.Command, a string) bool {
	if strings.Contains(a, "=") {
		return false
	}

	fs := cmd.Flags()
	if name, ok := strings.CutPrefix(a, "--"); ok {
		f := fs.Lookup(name)
		return f != nil && f.NoOptDefVal == ""
	}

	short := a[1:]
	for j := 0; j < len(short); j++ {
		f := fs.ShorthandLookup(short[j : j+1])
		if f == nil {
			return false
		}
		if f.NoOptDefVal == "" {
			return j == len(short)-1
		}
	}
	return false
}
