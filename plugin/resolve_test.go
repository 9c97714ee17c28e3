package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSource(t *testing.T) {
	tests := []struct {
		name      string
		tracked   []string
		tracePath string
		fileName  string
		expected  string
		resolved  bool
	}{
		{
			name:      "PackageAlignedWithDirectories",
			tracked:   []string{"src/com/foo/Bar.java"},
			tracePath: "com.foo.Bar.baz",
			fileName:  "Bar.java",
			expected:  "src/com/foo/Bar.java",
			resolved:  true,
		},
		{
			name:      "UntrackedFileName",
			tracked:   []string{"src/com/foo/Bar.java"},
			tracePath: "com.foo.Other.baz",
			fileName:  "Other.java",
			resolved:  false,
		},
		{
			name:      "NoPackagePrefix",
			tracked:   []string{"src/Bar.java"},
			tracePath: "Bar.baz",
			fileName:  "Bar.java",
			resolved:  false,
		},
		{
			name:      "PackageDeeperThanDirectories",
			tracked:   []string{"Bar.java"},
			tracePath: "com.foo.Bar.baz",
			fileName:  "Bar.java",
			resolved:  false,
		},
		{
			name:      "PackageMismatch",
			tracked:   []string{"src/org/qux/Bar.java"},
			tracePath: "com.foo.Bar.baz",
			fileName:  "Bar.java",
			resolved:  false,
		},
		{
			name: "AmbiguousCandidatesPicksPackageMatch",
			tracked: []string{
				"src/com/other/Bar.java",
				"src/com/foo/Bar.java",
			},
			tracePath: "com.foo.Bar.baz",
			fileName:  "Bar.java",
			expected:  "src/com/foo/Bar.java",
			resolved:  true,
		},
		{
			name: "FirstTrackedCandidateWins",
			tracked: []string{
				"modules/a/src/com/foo/Bar.java",
				"modules/b/src/com/foo/Bar.java",
			},
			tracePath: "com.foo.Bar.baz",
			fileName:  "Bar.java",
			expected:  "modules/a/src/com/foo/Bar.java",
			resolved:  true,
		},
		{
			name:      "RightmostAlignmentOnly",
			tracked:   []string{"com/foo/src/Bar.java"},
			tracePath: "com.foo.Bar.baz",
			fileName:  "Bar.java",
			resolved:  false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			parser := newTestParser(tc.tracked...)
			file, ok := parser.resolveSource(tc.tracePath, tc.fileName)
			assert.Equal(t, tc.resolved, ok)
			assert.Equal(t, tc.expected, file)
		})
	}
}

func TestCaseErrorScansFrames(t *testing.T) {
	parser := newTestParser("src/com/foo/Bar.java")

	tests := []struct {
		name     string
		failure  *Failure
		expected *TestCaseError
	}{
		{
			name: "FirstResolvableFrameWins",
			failure: &Failure{
				Message: "boom",
				StackTrace: "at com.foo.Missing.run(Missing.java:3)\n" +
					"at com.foo.Bar.baz(Bar.java:42)\n" +
					"at com.foo.Bar.qux(Bar.java:99)",
			},
			expected: &TestCaseError{
				File: "src/com/foo/Bar.java",
				Line: 42,
				Details: "at com.foo.Missing.run(Missing.java:3)\n" +
					"at com.foo.Bar.baz(Bar.java:42)\n" +
					"at com.foo.Bar.qux(Bar.java:99)",
				Message: "boom",
			},
		},
		{
			name: "CarriageReturnLineEndings",
			failure: &Failure{
				Message:    "boom",
				StackTrace: "at com.foo.Bar.baz(Bar.java:13)\r\nat com.foo.Bar.qux(Bar.java:14)\r\n",
			},
			expected: &TestCaseError{
				File:    "src/com/foo/Bar.java",
				Line:    13,
				Details: "at com.foo.Bar.baz(Bar.java:13)\r\nat com.foo.Bar.qux(Bar.java:14)\r\n",
				Message: "boom",
			},
		},
		{
			name: "NoResolvableFrameKeepsDetail",
			failure: &Failure{
				Message:    "boom",
				StackTrace: "at com.foo.Missing.run(Missing.java:3)",
			},
			expected: &TestCaseError{
				Details: "at com.foo.Missing.run(Missing.java:3)",
				Message: "boom",
			},
		},
		{
			name: "IndentedFrames",
			failure: &Failure{
				Message:    "boom",
				StackTrace: "java.lang.AssertionError: boom\n    at com.foo.Bar.baz(Bar.java:21)",
			},
			expected: &TestCaseError{
				File:    "src/com/foo/Bar.java",
				Line:    21,
				Details: "java.lang.AssertionError: boom\n    at com.foo.Bar.baz(Bar.java:21)",
				Message: "boom",
			},
		},
		{
			name:     "NilFailure",
			failure:  nil,
			expected: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, parser.caseError(tc.failure))
		})
	}
}

func TestNewParserIndexesByBaseName(t *testing.T) {
	parser := NewParser([]string{
		"src/com/foo/Bar.java",
		"src/com/other/Bar.java",
		"Baz.java",
	}, Options{ParseErrors: true})

	require.Equal(t, []string{"src/com/foo/Bar.java", "src/com/other/Bar.java"}, parser.tracked["Bar.java"])
	require.Equal(t, []string{"Baz.java"}, parser.tracked["Baz.java"])
}
