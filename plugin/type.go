package plugin

import "encoding/xml"

// TestRun represents the root of an NUnit XML report.
type TestRun struct {
	XMLName xml.Name    `xml:"test-run"`
	Time    string      `xml:"time,attr"`
	Suites  []TestSuite `xml:"test-suite"`
}

// TestSuite represents an NUnit suite. A suite either directly contains
// test cases or acts as a pure container of nested suites.
type TestSuite struct {
	Name     string      `xml:"name,attr"`
	Duration string      `xml:"duration,attr"`
	Suites   []TestSuite `xml:"test-suite"`
	Cases    []TestCase  `xml:"test-case"`
}

// TestCase represents a single executed test.
type TestCase struct {
	ClassName string   `xml:"classname,attr"`
	Name      string   `xml:"name,attr"`
	Duration  string   `xml:"duration,attr"`
	Result    string   `xml:"result,attr"`
	Failure   *Failure `xml:"failure"`
}

// Failure carries either a structured message/stack-trace pair or, for
// reports that emit bare text failures, the element's character data.
type Failure struct {
	Message    string `xml:"message"`
	StackTrace string `xml:"stack-trace"`
	Raw        string `xml:",chardata"`
}

// Summary holds aggregate counts across one or more parsed reports.
type Summary struct {
	Total      int
	Failures   int
	Skipped    int
	DurationMS float64
}
