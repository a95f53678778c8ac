package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/strager/yamcc/diag"
	"github.com/strager/yamcc/driver"
)

func showUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintf(w, `yamcc - compile a small C subset to stack machine assembly

Usage:
    yamcc [-v] [-emit asm|tokens|ast] <program>

The program is given as an argument, not read from a file.

Examples:
    yamcc '{ return 1+2*3; }'
    yamcc -emit ast 'int main() { x=3; y=&x; return *y; }'

Flags:
`)
	fs.PrintDefaults()
}

// run is the whole command line tool. It returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("yamcc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "Show verbose compilation details")
	emit := fs.String("emit", string(driver.EmitAsm), "What to print: asm, tokens, or ast")
	fs.Usage = func() { showUsage(stderr, fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "Error: expected exactly one program argument\n")
		fs.Usage()
		return 1
	}
	mode, err := driver.ParseMode(*emit)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	src := fs.Arg(0)
	var trace io.Writer
	if *verbose {
		trace = stderr
		fmt.Fprintf(trace, "Compiling %q...\n", src)
	}

	out, err := driver.Compile(src, mode, trace)
	if err != nil {
		diag.Render(stderr, src, err, colorEnabled(stderr))
		return 1
	}
	if _, err := io.WriteString(stdout, out); err != nil {
		fmt.Fprintf(stderr, "Error writing output: %v\n", err)
		return 1
	}
	return 0
}

func colorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && diag.ColorEnabled(f)
}
