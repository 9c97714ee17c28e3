package plugin

import (
	"encoding/xml"
	"math"
	"strconv"
	"strings"
)

// Options configures a Parser.
type Options struct {
	// ParseErrors enables failure-detail extraction and stack-trace
	// source resolution for failed test cases.
	ParseErrors bool
}

// Parser converts NUnit XML reports into normalized TestRunResult trees.
// The tracked-file index is built once at construction and never mutated
// afterwards, so a single Parser is safe for concurrent Parse calls.
type Parser struct {
	tracked     map[string][]string
	parseErrors bool
}

// NewParser builds a Parser over the given tracked source files. Paths must
// be forward-slash separated; files sharing a base name keep the caller's
// order, so the caller controls resolution priority.
func NewParser(trackedFiles []string, opts Options) *Parser {
	tracked := make(map[string][]string, len(trackedFiles))
	for _, file := range trackedFiles {
		base := file
		if i := strings.LastIndex(file, "/"); i >= 0 {
			base = file[i+1:]
		}
		tracked[base] = append(tracked[base], file)
	}
	return &Parser{tracked: tracked, parseErrors: opts.ParseErrors}
}

// Parse deserializes one report and returns its normalized form. The label
// identifies the report origin (typically its file path) and is carried
// into both the result and any ParseError.
func (p *Parser) Parse(label, content string) (*TestRunResult, error) {
	var run TestRun
	if err := xml.Unmarshal([]byte(content), &run); err != nil {
		return nil, &ParseError{Label: label, Err: err}
	}

	result := &TestRunResult{Label: label}
	if run.Time != "" {
		if seconds, err := strconv.ParseFloat(run.Time, 64); err == nil {
			ms := seconds * 1000
			result.DurationMS = &ms
		}
	}
	p.collectSuites(run.Suites, &result.Suites, 0)
	return result, nil
}

// collectSuites walks suites in document order, appending each suite to the
// flat accumulator before any descent. A suite with direct test cases is a
// leaf: its nested suites, if structurally present, are not visited.
func (p *Parser) collectSuites(suites []TestSuite, acc *[]TestSuiteResult, depth int) {
	for _, suite := range suites {
		groups := p.buildGroups(suite.Cases)
		*acc = append(*acc, TestSuiteResult{
			Name:       strings.TrimSpace(suite.Name),
			Groups:     groups,
			DurationMS: parseSeconds(suite.Duration) * 1000,
			Depth:      depth,
		})
		if len(groups) == 0 {
			p.collectSuites(suite.Suites, acc, depth+1)
		}
	}
}

// buildGroups groups cases by classname, preserving first-seen order of
// distinct classnames and document order within each group.
func (p *Parser) buildGroups(cases []TestCase) []TestGroupResult {
	var groups []TestGroupResult
	index := make(map[string]int)
	for _, c := range cases {
		i, ok := index[c.ClassName]
		if !ok {
			i = len(groups)
			index[c.ClassName] = i
			groups = append(groups, TestGroupResult{ClassName: c.ClassName})
		}
		groups[i].Cases = append(groups[i].Cases, TestCaseResult{
			Name:       strings.TrimSpace(c.Name),
			Outcome:    classifyOutcome(c),
			DurationMS: parseSeconds(c.Duration) * 1000,
			Error:      p.caseError(c.Failure),
		})
	}
	return groups
}

// classifyOutcome maps a case to its outcome. A failure element always wins
// over the result attribute; the "Skipped" comparison is case-sensitive.
func classifyOutcome(c TestCase) Outcome {
	switch {
	case c.Failure != nil:
		return OutcomeFailed
	case c.Result == "Skipped":
		return OutcomeSkipped
	default:
		return OutcomeSuccess
	}
}

// parseSeconds parses a duration attribute. Unparseable values become NaN
// so downstream consumers can treat them as unknown.
func parseSeconds(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
