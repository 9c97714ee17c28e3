package plugin

import "fmt"

// Outcome is the normalized execution result of a single test case.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// TestRunResult is the normalized form of one parsed report.
type TestRunResult struct {
	Label      string            `json:"label"`
	Suites     []TestSuiteResult `json:"suites"`
	DurationMS *float64          `json:"duration_ms,omitempty"`
}

// TestSuiteResult is one suite, flattened in pre-order. Depth encodes the
// nesting level (0 = top level); the suite list itself is flat.
type TestSuiteResult struct {
	Name       string            `json:"name"`
	Groups     []TestGroupResult `json:"groups"`
	DurationMS float64           `json:"duration_ms"`
	Depth      int               `json:"depth"`
}

// TestGroupResult collects the cases of one suite sharing a classname,
// in first-seen order.
type TestGroupResult struct {
	ClassName string           `json:"classname"`
	Cases     []TestCaseResult `json:"cases"`
}

// TestCaseResult is one normalized test case.
type TestCaseResult struct {
	Name       string         `json:"name"`
	Outcome    Outcome        `json:"outcome"`
	DurationMS float64        `json:"duration_ms"`
	Error      *TestCaseError `json:"error,omitempty"`
}

// TestCaseError is the failure detail of one case. File and Line are only
// set when a stack-trace frame resolved against the tracked files; an
// empty File with Line 0 means the frame could not be resolved.
type TestCaseError struct {
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Details string `json:"details"`
	Message string `json:"message,omitempty"`
}

// ParseError is returned when a report cannot be deserialized. It is the
// only fatal error kind of the parser.
type ParseError struct {
	Label string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid report %s: %v", e.Label, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
