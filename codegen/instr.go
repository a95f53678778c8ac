package codegen

import "strings"

// Instr is one line of VM assembly: either a label definition or an opcode
// with an optional operand.
type Instr struct {
	Label string // if non-empty, this line defines %Label
	Op    string
	Arg   string
}

func (in Instr) String() string {
	if in.Label != "" {
		return "%" + in.Label
	}
	if in.Arg == "" {
		return in.Op
	}
	return in.Op + " " + in.Arg
}

// ParseInstr is the inverse of Instr.String.
func ParseInstr(line string) Instr {
	if label, ok := strings.CutPrefix(line, "%"); ok {
		return Instr{Label: label}
	}
	op, arg, _ := strings.Cut(line, " ")
	return Instr{Op: op, Arg: arg}
}

// Format renders instructions one per line.
func Format(code []Instr) string {
	var b strings.Builder
	for _, in := range code {
		b.WriteString(in.String())
		b.WriteByte('\n')
	}
	return b.String()
}
