package sexy

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// InputType represents the type of input code fence in a test
type InputType string

const (
	InputTypeProgram InputType = "c-program"
)

// AssertionType represents the type of assertion code fence in a test
type AssertionType string

const (
	AssertionTypeAST          AssertionType = "ast"
	AssertionTypeAsm          AssertionType = "asm"
	AssertionTypeTokens       AssertionType = "tokens"
	AssertionTypeCompileError AssertionType = "compile-error"
)

// Assertion represents a single assertion in a test
type Assertion struct {
	Type       AssertionType
	Content    string // raw fence content without the trailing newline
	ParsedSexy *Node  // for ast assertions, the parsed pattern
	Line       int    // line of the fence in the markdown file
}

// TestCase represents a complete test case extracted from Markdown
type TestCase struct {
	Name       string // the heading text after "Test: "
	Input      string
	InputType  InputType
	Assertions []Assertion
}

// ExtractTestCases parses a Markdown document and extracts every test case.
//
// A test case starts at a heading "Test: name" and holds exactly one input
// fence followed by one or more assertion fences.
func ExtractTestCases(markdownContent string) ([]TestCase, error) {
	source := []byte(markdownContent)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var testCases []TestCase
	var current *TestCase

	flush := func() error {
		if current == nil {
			return nil
		}
		if err := validateTestCase(current); err != nil {
			return err
		}
		testCases = append(testCases, *current)
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading := extractTextFromNode(n, source)
			name, ok := strings.CutPrefix(heading, "Test: ")
			if !ok {
				return ast.WalkContinue, nil
			}
			if err := flush(); err != nil {
				return ast.WalkStop, err
			}
			current = &TestCase{Name: name}

		case *ast.FencedCodeBlock:
			language := string(n.Language(source))
			lineNum := getLineNumber(n, source)
			if language == "" {
				// Untagged fences are prose.
				return ast.WalkContinue, nil
			}
			if !isInputFence(language) && !isAssertionFence(language) {
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language '%s'", lineNum, language)
			}
			if current == nil {
				return ast.WalkStop, fmt.Errorf("line %d: %s fence found outside of test case", lineNum, language)
			}

			content := strings.TrimRight(extractCodeBlockContent(n, source), "\n")
			if isInputFence(language) {
				if current.InputType != "" {
					return ast.WalkStop, fmt.Errorf("line %d: multiple input fences found in test '%s'", lineNum, current.Name)
				}
				current.Input = content
				current.InputType = InputType(language)
				return ast.WalkContinue, nil
			}

			if current.InputType == "" {
				return ast.WalkStop, fmt.Errorf("line %d: assertion before input in test '%s'", lineNum, current.Name)
			}
			assertion := Assertion{Type: AssertionType(language), Content: content, Line: lineNum}
			if assertion.Type == AssertionTypeAST {
				parsed, err := Parse(content)
				if err != nil {
					return ast.WalkStop, fmt.Errorf("line %d: failed to parse assertion in test '%s': %w", lineNum, current.Name, err)
				}
				assertion.ParsedSexy = parsed
			}
			current.Assertions = append(current.Assertions, assertion)
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking markdown AST: %w", err)
	}

	if err := flush(); err != nil {
		return nil, err
	}
	return testCases, nil
}

// extractTextFromNode extracts plain text content from a markdown node
func extractTextFromNode(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func extractCodeBlockContent(codeBlock *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := codeBlock.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}

func isInputFence(language string) bool {
	return language == string(InputTypeProgram)
}

func isAssertionFence(language string) bool {
	switch AssertionType(language) {
	case AssertionTypeAST, AssertionTypeAsm, AssertionTypeTokens, AssertionTypeCompileError:
		return true
	}
	return false
}

func validateTestCase(tc *TestCase) error {
	if tc.InputType == "" {
		return fmt.Errorf("test '%s' has no input fence", tc.Name)
	}
	if len(tc.Assertions) == 0 {
		return fmt.Errorf("test '%s' has no assertion fences", tc.Name)
	}
	return nil
}

// getLineNumber returns the 1-based line of the fence's first content line.
func getLineNumber(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	start := node.Lines().At(0).Start
	if start > len(source) {
		start = len(source)
	}
	return bytes.Count(source[:start], []byte("\n")) + 1
}
