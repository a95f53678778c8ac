package codegen

import (
	_ "embed"
	"fmt"

	"github.com/strager/yamcc/ast"
	"gopkg.in/yaml.v3"
)

//go:embed helpers.yaml
var helpersYAML []byte

// Helper is a routine emitted once per program for a comparison operator
// the VM cannot do natively.
type Helper struct {
	Name string   `yaml:"name"`
	Op   string   `yaml:"op"`
	Body []string `yaml:"body"`

	op   ast.BinaryOp
	code []Instr
}

// Code returns the routine including its entry label.
func (h *Helper) Code() []Instr {
	return append([]Instr{{Label: h.Name}}, h.code...)
}

var helpers, helpersErr = ParseHelpers(helpersYAML)

// ParseHelpers reads a helper table. Helpers are emitted in table order.
func ParseHelpers(data []byte) ([]*Helper, error) {
	var table []*Helper
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing helper table: %w", err)
	}

	seen := make(map[ast.BinaryOp]string)
	for i, h := range table {
		if h.Name == "" {
			return nil, fmt.Errorf("helper table: entry %d: name is required", i)
		}
		op, ok := ast.LookupBinaryOp(h.Op)
		if !ok || !op.IsComparison() {
			return nil, fmt.Errorf("helper table: %s: %q is not a comparison operator", h.Name, h.Op)
		}
		if other, dup := seen[op]; dup {
			return nil, fmt.Errorf("helper table: %s: operator %q already handled by %s", h.Name, h.Op, other)
		}
		seen[op] = h.Name
		if len(h.Body) == 0 {
			return nil, fmt.Errorf("helper table: %s: empty body", h.Name)
		}

		h.op = op
		for _, line := range h.Body {
			h.code = append(h.code, ParseInstr(line))
		}
	}
	return table, nil
}

// helperFor returns the helper implementing op, or nil if op is native.
func helperFor(op ast.BinaryOp) *Helper {
	for _, h := range helpers {
		if h.op == op {
			return h
		}
	}
	return nil
}

// helperNamed returns the helper whose entry label is name, or nil.
func helperNamed(name string) *Helper {
	for _, h := range helpers {
		if h.Name == name {
			return h
		}
	}
	return nil
}
