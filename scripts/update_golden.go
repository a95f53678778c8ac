// Command update_golden rewrites the asm and tokens fences of the markdown
// test corpus with what the compiler currently produces.
//
//	go run ./scripts [test/*_test.md]
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/strager/yamcc/driver"
	"github.com/yuin/goldmark"
	mdast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// edit replaces source[start:stop] with text.
type edit struct {
	start, stop int
	text        string
}

// updateSource returns source with every asm and tokens fence refreshed
// from the closest preceding c-program fence.
func updateSource(source []byte) ([]byte, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var input string
	haveInput := false
	var edits []edit
	err := mdast.Walk(doc, func(node mdast.Node, entering bool) (mdast.WalkStatus, error) {
		if !entering {
			return mdast.WalkContinue, nil
		}
		if h, ok := node.(*mdast.Heading); ok && h.Level > 0 {
			haveInput = false
			return mdast.WalkContinue, nil
		}
		fcb, ok := node.(*mdast.FencedCodeBlock)
		if !ok {
			return mdast.WalkContinue, nil
		}

		lines := fcb.Lines()
		var content bytes.Buffer
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			content.Write(line.Value(source))
		}

		switch lang := string(fcb.Language(source)); lang {
		case "c-program":
			input = strings.TrimRight(content.String(), "\n")
			haveInput = true
		case "asm", "tokens":
			if !haveInput {
				return mdast.WalkStop, fmt.Errorf("%s fence without a c-program fence before it", lang)
			}
			out, err := driver.Compile(input, driver.Mode(lang), nil)
			if err != nil {
				return mdast.WalkStop, fmt.Errorf("compiling %q: %w", input, err)
			}
			start, stop, err := fenceBody(fcb, source)
			if err != nil {
				return mdast.WalkStop, err
			}
			edits = append(edits, edit{start: start, stop: stop, text: out})
		}
		return mdast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(edits, func(i, j int) bool { return edits[i].start > edits[j].start })
	result := bytes.Clone(source)
	for _, e := range edits {
		result = append(result[:e.start:e.start], append([]byte(e.text), result[e.stop:]...)...)
	}
	return result, nil
}

// fenceBody returns the byte range of the lines between a fence's opening
// and closing lines. An empty fence yields an empty range just after the
// opening line.
func fenceBody(fcb *mdast.FencedCodeBlock, source []byte) (start, stop int, err error) {
	lines := fcb.Lines()
	if lines.Len() > 0 {
		return lines.At(0).Start, lines.At(lines.Len() - 1).Stop, nil
	}
	if fcb.Info == nil {
		return 0, 0, fmt.Errorf("fence without an info string")
	}
	end := fcb.Info.Segment.Stop
	nl := bytes.IndexByte(source[end:], '\n')
	if nl < 0 {
		return 0, 0, fmt.Errorf("%s fence is not closed", fcb.Language(source))
	}
	pos := end + nl + 1
	closing := bytes.TrimLeft(source[pos:], " ")
	if !bytes.HasPrefix(closing, []byte("```")) && !bytes.HasPrefix(closing, []byte("~~~")) {
		return 0, 0, fmt.Errorf("%s fence is not closed", fcb.Language(source))
	}
	return pos, pos, nil
}

func updateFile(filename string) (bool, error) {
	source, err := os.ReadFile(filename)
	if err != nil {
		return false, err
	}
	updated, err := updateSource(source)
	if err != nil {
		return false, fmt.Errorf("%s: %w", filename, err)
	}
	if bytes.Equal(source, updated) {
		return false, nil
	}
	return true, os.WriteFile(filename, updated, 0644)
}

func main() {
	pattern := "test/*_test.md"
	if len(os.Args) > 1 {
		pattern = os.Args[1]
	}
	files, err := filepath.Glob(pattern)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, filename := range files {
		changed, err := updateFile(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if changed {
			fmt.Fprintf(os.Stderr, "Updated %s\n", filename)
		}
	}
}
