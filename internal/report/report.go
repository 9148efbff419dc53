// Package report turns test results into compliance reports and
// renders them as summary text, JSON, CSV, or markdown.
package report

import (
	"fmt"
	"time"

	"github.com/xmlconform/xmlconform/internal/harness"
)

// Summary is the aggregate outcome of one run. PassRate is the
// percentage of passed cases among applicable ones, where applicable
// excludes not-applicable and skipped cases.
type Summary struct {
	Total         int     `json:"total"`
	Passed        int     `json:"passed"`
	Failed        int     `json:"failed"`
	Errors        int     `json:"errors"`
	NotApplicable int     `json:"notApplicable"`
	Skipped       int     `json:"skipped"`
	PassRate      float64 `json:"passRate"`
}

// Summarize tallies results into a summary.
func Summarize(results []harness.TestResult) Summary {
	var s Summary
	s.Total = len(results)
	for _, r := range results {
		switch r.Outcome.Status {
		case harness.StatusPass:
			s.Passed++
		case harness.StatusFail:
			s.Failed++
		case harness.StatusError:
			s.Errors++
		case harness.StatusNotApplicable:
			s.NotApplicable++
		case harness.StatusSkipped:
			s.Skipped++
		}
	}
	applicable := s.Total - s.NotApplicable - s.Skipped
	if applicable > 0 {
		s.PassRate = float64(s.Passed) / float64(applicable) * 100
	}
	return s
}

// Row is one test result in a report.
type Row struct {
	TestID      string  `json:"testId"`
	TestSet     string  `json:"testSet"`
	TestSuite   string  `json:"testSuite"`
	Description string  `json:"description,omitempty"`
	Outcome     string  `json:"outcome"`
	Message     string  `json:"message,omitempty"`
	Expected    string  `json:"expected,omitempty"`
	Actual      string  `json:"actual,omitempty"`
	DurationMS  float64 `json:"durationMs"`
}

// Report is a full compliance report for one engine and suite.
type Report struct {
	Engine    string    `json:"engine"`
	Suite     string    `json:"suite"`
	Timestamp time.Time `json:"timestamp"`
	Summary   Summary   `json:"summary"`
	Results   []Row     `json:"results"`
}

// New builds a report from raw results.
func New(engineName, suite string, results []harness.TestResult) *Report {
	rep := &Report{
		Engine:    engineName,
		Suite:     suite,
		Timestamp: time.Now().UTC(),
		Summary:   Summarize(results),
		Results:   make([]Row, 0, len(results)),
	}
	for _, r := range results {
		rep.Results = append(rep.Results, Row{
			TestID:      r.TestID,
			TestSet:     r.TestSet,
			TestSuite:   r.TestSuite,
			Description: r.Description,
			Outcome:     r.Outcome.Status.String(),
			Message:     r.Outcome.Reason,
			Expected:    r.Expected,
			Actual:      r.Actual,
			DurationMS:  float64(r.Duration.Microseconds()) / 1000,
		})
	}
	return rep
}

// EngineSummary is one engine's line in a comparison.
type EngineSummary struct {
	Name     string  `json:"name"`
	Passed   int     `json:"passed"`
	Total    int     `json:"total"`
	PassRate float64 `json:"passRate"`
}

// Comparison sets several engines' results on one suite side by side.
type Comparison struct {
	Timestamp time.Time       `json:"timestamp"`
	Suite     string          `json:"suite"`
	Engines   []EngineSummary `json:"engines"`
}

// Compare builds a comparison from per-engine reports, preserving
// their order.
func Compare(reports []*Report) *Comparison {
	cmp := &Comparison{Timestamp: time.Now().UTC()}
	for _, rep := range reports {
		if cmp.Suite == "" {
			cmp.Suite = rep.Suite
		}
		cmp.Engines = append(cmp.Engines, EngineSummary{
			Name:     rep.Engine,
			Passed:   rep.Summary.Passed,
			Total:    rep.Summary.Total,
			PassRate: rep.Summary.PassRate,
		})
	}
	return cmp
}

func (c *Comparison) String() string {
	out := fmt.Sprintf("Comparison for suite %s\n", c.Suite)
	for _, e := range c.Engines {
		out += fmt.Sprintf("  %-12s %d/%d (%.1f%%)\n", e.Name, e.Passed, e.Total, e.PassRate)
	}
	return out
}
