package plugin

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Args represents the plugin's configurable arguments.
type Args struct {
	ReportFilenamePattern string `envconfig:"PLUGIN_REPORT_FILENAME_PATTERN"`
	SourceFilenamePattern string `envconfig:"PLUGIN_SOURCE_FILENAME_PATTERN"`
	ParseErrors           bool   `envconfig:"PLUGIN_PARSE_ERRORS"`
	OutputPath            string `envconfig:"PLUGIN_OUTPUT_PATH"`
	FailedFails           int    `envconfig:"PLUGIN_FAILED_FAILS"`
	FailedSkips           int    `envconfig:"PLUGIN_FAILED_SKIPS"`
	ThresholdMode         int    `envconfig:"PLUGIN_THRESHOLD_MODE"`
	FailIfNoResults       bool   `envconfig:"PLUGIN_FAIL_IF_NO_RESULTS"`
	Level                 string `envconfig:"PLUGIN_LOG_LEVEL"`
}

// ValidateInputs ensures the user inputs meet the plugin requirements.
func ValidateInputs(args Args) error {
	if args.ReportFilenamePattern == "" {
		return errors.New("missing required parameter: ReportFilenamePattern. Please specify the pattern to locate the NUnit report files")
	}
	if args.FailedFails < 0 || args.FailedSkips < 0 {
		return errors.New("threshold values must be non-negative. Check the configured values for failed and skipped tests")
	}
	if args.ThresholdMode != 1 && args.ThresholdMode != 2 {
		return errors.New("invalid ThresholdMode value. It must be 1 (absolute) or 2 (percentage). Check the configuration")
	}
	return nil
}

// Exec parses the NUnit XML reports, logs their normalized results, writes
// the optional JSON artifact and enforces the configured thresholds.
func Exec(ctx context.Context, args Args) error {
	reports, err := locateFiles(args.ReportFilenamePattern)
	if err != nil {
		logrus.WithError(err).Error("Error locating report files")
		return errors.Wrap(err, "failed to locate report files")
	}

	if len(reports) == 0 {
		if args.FailIfNoResults {
			return errors.New("no NUnit XML report files found. Check the report file pattern")
		}
		logrus.Warn("No NUnit XML report files found, continuing execution as FailIfNoResults is false")
		return nil
	}

	tracked, err := locateSources(args.SourceFilenamePattern)
	if err != nil {
		logrus.WithError(err).Error("Error locating source files")
		return errors.Wrap(err, "failed to locate source files")
	}

	parser := NewParser(tracked, Options{ParseErrors: args.ParseErrors})

	var results []*TestRunResult
	var aggregated Summary

	for _, file := range reports {
		result, err := processFile(parser, file)
		if err != nil {
			logrus.WithField("File", file).WithError(err).Error("Error processing file")
			return errors.Wrap(err, "failed to process file")
		}
		results = append(results, result)
		aggregated.Add(summarize(result))
	}

	// Log aggregated results
	logrus.Infof("\n===============================================")
	logrus.Infof("\nTotal Tests Results: %d | Failures: %d | Skips: %d | Duration: %.2f ms", aggregated.Total, aggregated.Failures, aggregated.Skipped, aggregated.DurationMS)
	logrus.Infof("\n===============================================")

	if args.OutputPath != "" {
		if err := writeResults(args.OutputPath, results); err != nil {
			logrus.WithField("Path", args.OutputPath).WithError(err).Error("Error writing results")
			return errors.Wrap(err, "failed to write results")
		}
	}

	if err := validateThresholds(aggregated, args); err != nil {
		logrus.WithFields(logrus.Fields{
			"Total Tests": aggregated.Total,
			"Failures":    aggregated.Failures,
			"Skipped":     aggregated.Skipped,
			"DurationMS":  aggregated.DurationMS,
		}).Error(err.Error())
		return err
	}

	return nil
}

// locateFiles identifies files matching the given pattern.
func locateFiles(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to search for files with pattern %q", pattern)
	}
	return matches, nil
}

// locateSources globs the tracked source files and normalizes them to
// forward-slash paths for the resolver. An empty pattern means no tracked
// files: error details still get extracted, resolution always fails.
func locateSources(pattern string) ([]string, error) {
	if pattern == "" {
		return nil, nil
	}
	matches, err := locateFiles(pattern)
	if err != nil {
		return nil, err
	}
	for i, m := range matches {
		matches[i] = filepath.ToSlash(m)
	}
	return matches, nil
}

// processFile reads one NUnit XML report and returns its normalized form.
func processFile(parser *Parser, filename string) (*TestRunResult, error) {
	logrus.Infof("Processing file: %s", filename)

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read file")
	}

	result, err := parser.Parse(filepath.ToSlash(filename), string(data))
	if err != nil {
		return nil, err
	}

	logTestRunDetails(result)
	return result, nil
}

// logTestRunDetails logs the normalized suites, groups and cases of one
// parsed report.
func logTestRunDetails(result *TestRunResult) {
	for _, suite := range result.Suites {
		summary := summarizeSuite(suite)

		logrus.Infof("\n===============================================")
		logrus.Infof("\nSuite: %s (depth %d)", suite.Name, suite.Depth)
		logrus.Infof("\nTotal Tests: %d | Failures: %d | Skips: %d | Duration: %.2f ms", summary.Total, summary.Failures, summary.Skipped, summary.DurationMS)
		logrus.Infof("\n---------------------------------------------------------------------------")

		for _, group := range suite.Groups {
			logrus.Infof("\nGroup: %s", group.ClassName)
			for _, c := range group.Cases {
				logrus.Infof("\n- Test: %s | Outcome: %s | Duration: %.2f ms", c.Name, c.Outcome, c.DurationMS)
				if c.Error == nil {
					continue
				}
				if c.Error.File != "" {
					logrus.Infof("\n    Source: %s:%d", c.Error.File, c.Error.Line)
				}
				if c.Error.Message != "" {
					logrus.Infof("\n    Message: %s", c.Error.Message)
				}
			}
		}
	}
}

// Add aggregates another summary into this one.
func (s *Summary) Add(other Summary) {
	s.Total += other.Total
	s.Failures += other.Failures
	s.Skipped += other.Skipped
	s.DurationMS += other.DurationMS
}

// summarize counts the cases of one parsed report by outcome. Durations
// that failed to parse are NaN and are left out of the sum.
func summarize(result *TestRunResult) Summary {
	var total Summary
	for _, suite := range result.Suites {
		total.Add(summarizeSuite(suite))
	}
	return total
}

func summarizeSuite(suite TestSuiteResult) Summary {
	var s Summary
	for _, group := range suite.Groups {
		for _, c := range group.Cases {
			s.Total++
			switch c.Outcome {
			case OutcomeFailed:
				s.Failures++
			case OutcomeSkipped:
				s.Skipped++
			}
			if !math.IsNaN(c.DurationMS) {
				s.DurationMS += c.DurationMS
			}
		}
	}
	return s
}

// writeResults writes the normalized results as a JSON artifact.
func writeResults(path string, results []*TestRunResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// validateThresholds validates test report thresholds based on aggregate
// results.
func validateThresholds(summary Summary, args Args) error {
	switch args.ThresholdMode {
	case 1: // Absolute thresholds
		if args.FailedFails > 0 && summary.Failures > args.FailedFails {
			return errors.Errorf("number of failed tests (%d) exceeded the failure threshold (%d)", summary.Failures, args.FailedFails)
		}
		if args.FailedSkips > 0 && summary.Skipped > args.FailedSkips {
			return errors.Errorf("number of skipped tests (%d) exceeded the skip threshold (%d)", summary.Skipped, args.FailedSkips)
		}
	case 2: // Percentage thresholds
		if summary.Total == 0 {
			return nil
		}
		failureRate := float64(summary.Failures) / float64(summary.Total) * 100
		skipRate := float64(summary.Skipped) / float64(summary.Total) * 100
		if args.FailedFails > 0 && failureRate > float64(args.FailedFails) {
			return errors.Errorf("failure rate (%.2f%%) exceeded the threshold (%.2f%%)", failureRate, float64(args.FailedFails))
		}
		if args.FailedSkips > 0 && skipRate > float64(args.FailedSkips) {
			return errors.Errorf("skip rate (%.2f%%) exceeded the threshold (%.2f%%)", skipRate, float64(args.FailedSkips))
		}
	default:
		return errors.Errorf("invalid ThresholdMode: %d, expected 1 (absolute) or 2 (percentage)", args.ThresholdMode)
	}
	return nil
}
