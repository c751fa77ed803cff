// Command calc evaluates arithmetic expressions given as arguments.
//
//	% calc '2(3+4)' '-5+3' '5/0'
//	14
//	-2
//	Not performed.
//
// Each argument is evaluated independently. Failures print "Not performed."
// on stdout and the reason on stderr, and make calc exit with status 1.
package main

import (
	"os"

	"github.com/fatih/color"
)

func main() {
	if err := runCLI(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
