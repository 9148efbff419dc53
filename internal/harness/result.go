// Package harness runs catalog test cases against an engine: it checks
// dependencies, resolves environments, executes the case, and judges
// the engine's result against the expected-result assertion tree.
package harness

import (
	"fmt"
	"time"
)

// Status is the outcome class of one test case.
type Status int

const (
	// StatusPass means the assertion tree accepted the result.
	StatusPass Status = iota
	// StatusFail means the engine produced a result the assertions reject.
	StatusFail
	// StatusError means the harness could not judge the case: engine
	// fault, unresolvable environment, or broken assertion input.
	StatusError
	// StatusNotApplicable means a dependency the engine does not satisfy
	// excluded the case, or the operation is unsupported.
	StatusNotApplicable
	// StatusSkipped means the case was deliberately left out of the run.
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusFail:
		return "fail"
	case StatusError:
		return "error"
	case StatusNotApplicable:
		return "not_applicable"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "pass":
		return StatusPass, nil
	case "fail":
		return StatusFail, nil
	case "error":
		return StatusError, nil
	case "not_applicable":
		return StatusNotApplicable, nil
	case "skipped":
		return StatusSkipped, nil
	default:
		return 0, fmt.Errorf("unknown status %q", s)
	}
}

// Outcome pairs a status with the reason behind it. Reason is empty for
// passes.
type Outcome struct {
	Status Status
	Reason string
}

func Pass() Outcome { return Outcome{Status: StatusPass} }

func Failf(format string, args ...any) Outcome {
	return Outcome{Status: StatusFail, Reason: fmt.Sprintf(format, args...)}
}

func Errorf(format string, args ...any) Outcome {
	return Outcome{Status: StatusError, Reason: fmt.Sprintf(format, args...)}
}

func NotApplicable(reason string) Outcome {
	return Outcome{Status: StatusNotApplicable, Reason: reason}
}

func Skipped(reason string) Outcome {
	return Outcome{Status: StatusSkipped, Reason: reason}
}

func (o Outcome) Passed() bool { return o.Status == StatusPass }
func (o Outcome) Failed() bool { return o.Status == StatusFail }

// TestResult is the full record of one executed test case.
type TestResult struct {
	TestID      string
	TestSet     string
	TestSuite   string
	Description string
	Outcome     Outcome
	Expected    string
	Actual      string
	Duration    time.Duration
}
