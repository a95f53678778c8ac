package diag

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

const (
	colorRed   = "\x1b[31m"
	colorReset = "\x1b[0m"
)

// ColorEnabled reports whether diagnostics written to f should be colored.
// See https://no-color.org/ for NO_COLOR.
func ColorEnabled(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Render writes err to w. A located *Error is shown under a copy of the
// source line it points into:
//
//	{ return 1 @ 2; }
//	           ^ lex error: invalid token
//
// Multi-line sources get a "line N: <kind>" header instead of the kind
// prefix on the caret line.
func Render(w io.Writer, src string, err error, color bool) {
	var de *Error
	if !errors.As(err, &de) {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	if de.Offset < 0 || de.Offset > len(src) {
		fmt.Fprintf(w, "%s\n", de.Error())
		return
	}

	lineNo, col := Position(src, de.Offset)
	line := sourceLine(src, de.Offset)
	msg := de.Error()
	if strings.Contains(src, "\n") {
		fmt.Fprintf(w, "line %d: %s\n", lineNo, de.Kind)
		msg = de.Msg
	}
	fmt.Fprintf(w, "%s\n", line)

	caret := indent(line, col) + "^ " + msg
	if color {
		caret = colorRed + caret + colorReset
	}
	fmt.Fprintf(w, "%s\n", caret)
}

// sourceLine returns the line containing offset, without its newline.
func sourceLine(src string, offset int) string {
	start := strings.LastIndexByte(src[:offset], '\n') + 1
	end := strings.IndexByte(src[offset:], '\n')
	if end < 0 {
		return src[start:]
	}
	return src[start : offset+end]
}

// indent builds the padding that puts a caret under column col of line.
// Tabs are kept so the caret lines up however the terminal expands them.
func indent(line string, col int) string {
	if col > len(line) {
		col = len(line)
	}
	var b strings.Builder
	for i := 0; i < col; i++ {
		if line[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
