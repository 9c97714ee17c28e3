package plugin

import (
	"regexp"
	"strconv"
	"strings"
)

// stackFramePattern matches frames of the form
// "at com.foo.Bar.baz(Bar.java:42)".
var stackFramePattern = regexp.MustCompile(`at (.+?)\((.+?):(\d+)\)`)

// caseError extracts the failure detail of a case and attempts to resolve
// a source location from its stack trace. Returns nil when error parsing
// is disabled or the case has no failure.
func (p *Parser) caseError(f *Failure) *TestCaseError {
	if !p.parseErrors || f == nil {
		return nil
	}

	details := f.StackTrace
	message := f.Message
	if f.Message == "" && f.StackTrace == "" {
		// Bare text failure: the element body is the whole detail.
		details = strings.TrimSpace(f.Raw)
	}

	result := &TestCaseError{Details: details, Message: message}
	for _, line := range splitLines(details) {
		m := stackFramePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if file, ok := p.resolveSource(m[1], m[2]); ok {
			result.File = file
			result.Line, _ = strconv.Atoi(m[3])
			break
		}
	}
	return result
}

func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// resolveSource maps a dotted trace path and bare file name to a tracked
// file. It assumes the directory layout mirrors the namespace layout,
// rightmost-aligned, with lowercase package segments and capitalized class
// names: the first segment whose leading byte compares <= 'Z' starts the
// class/method suffix, and everything before it is the package prefix.
func (p *Parser) resolveSource(tracePath, fileName string) (string, bool) {
	candidates := p.tracked[fileName]
	if len(candidates) == 0 {
		return "", false
	}

	segments := strings.Split(tracePath, ".")
	prefix := segments
	for i, seg := range segments {
		if seg != "" && seg[0] <= 'Z' {
			prefix = segments[:i]
			break
		}
	}
	if len(prefix) == 0 {
		return "", false
	}

	for _, candidate := range candidates {
		dirs := strings.Split(candidate, "/")
		dirs = dirs[:len(dirs)-1]
		if len(prefix) > len(dirs) {
			continue
		}
		if matchesSuffix(dirs, prefix) {
			return candidate, true
		}
	}
	return "", false
}

// matchesSuffix reports whether the last len(prefix) components of dirs
// equal prefix, component for component.
func matchesSuffix(dirs, prefix []string) bool {
	offset := len(dirs) - len(prefix)
	for i, seg := range prefix {
		if dirs[offset+i] != seg {
			return false
		}
	}
	return true
}
