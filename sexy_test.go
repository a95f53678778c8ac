package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/strager/yamcc/diag"
	"github.com/strager/yamcc/driver"
	"github.com/strager/yamcc/sexy"
)

func TestSexyAllTests(t *testing.T) {
	testFiles, err := filepath.Glob("test/*_test.md")
	be.Err(t, err, nil)
	be.True(t, len(testFiles) > 0)

	for _, testFile := range testFiles {
		testName := strings.TrimSuffix(filepath.Base(testFile), ".md")

		t.Run(testName, func(t *testing.T) {
			content, err := os.ReadFile(testFile)
			be.Err(t, err, nil)

			testCases, err := sexy.ExtractTestCases(string(content))
			be.Err(t, err, nil)

			for _, tc := range testCases {
				t.Run(tc.Name, func(t *testing.T) {
					for _, assertion := range tc.Assertions {
						checkAssertion(t, tc.Input, assertion)
					}
				})
			}
		})
	}
}

func checkAssertion(t *testing.T, input string, assertion sexy.Assertion) {
	t.Helper()
	switch assertion.Type {
	case sexy.AssertionTypeAST:
		got, err := driver.Compile(input, driver.EmitAST, nil)
		be.Err(t, err, nil)
		gotSexy, err := sexy.Parse(got)
		be.Err(t, err, nil)
		if err := sexy.Match(assertion.ParsedSexy, gotSexy); err != nil {
			t.Errorf("line %d: %v", assertion.Line, err)
		}

	case sexy.AssertionTypeAsm:
		got, err := driver.Compile(input, driver.EmitAsm, nil)
		be.Err(t, err, nil)
		be.Equal(t, strings.TrimRight(got, "\n"), assertion.Content)

	case sexy.AssertionTypeTokens:
		got, err := driver.Compile(input, driver.EmitTokens, nil)
		be.Err(t, err, nil)
		be.Equal(t, strings.TrimRight(got, "\n"), assertion.Content)

	case sexy.AssertionTypeCompileError:
		_, err := driver.Compile(input, driver.EmitAsm, nil)
		var de *diag.Error
		if !errors.As(err, &de) {
			t.Fatalf("line %d: expected a compile error, got %v", assertion.Line, err)
		}
		// The fence holds "<kind>: <message>".
		be.Equal(t, de.Error(), assertion.Content)

	default:
		t.Fatalf("unknown assertion type %s", assertion.Type)
	}
}
