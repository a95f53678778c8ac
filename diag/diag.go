// Package diag provides location-aware compiler errors and renders them
// against the source text.
package diag

import "fmt"

// Kind classifies a compiler error by the stage that raised it.
type Kind int

const (
	LexError Kind = iota + 1
	ParseError
	CodegenError
)

func (k Kind) String() string {
	switch k {
	case LexError:
		return "lex error"
	case ParseError:
		return "parse error"
	case CodegenError:
		return "codegen error"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// NoPos marks an error that has no source location.
const NoPos = -1

// Error is a fatal compiler error. Offset is a byte offset into the source,
// or NoPos.
type Error struct {
	Kind   Kind
	Offset int
	Msg    string
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Msg
}

// Errorf builds an Error of the given kind at offset.
func Errorf(kind Kind, offset int, format string, args ...any) *Error {
	return &Error{Kind: kind, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

// Position converts a byte offset into a 1-based line and a 0-based column.
func Position(src string, offset int) (line, col int) {
	if offset > len(src) {
		offset = len(src)
	}
	line = 1
	start := 0
	for i := 0; i < offset; i++ {
		if src[i] == '\n' {
			line++
			start = i + 1
		}
	}
	return line, offset - start
}
