package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
)

// Format selects a report rendering.
type Format string

const (
	FormatSummary  Format = "summary"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatSummary, FormatJSON, FormatCSV, FormatMarkdown:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q (available: summary, json, csv, markdown)", s)
	}
}

// Render writes the report in the requested format.
func (r *Report) Render(w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		return r.renderJSON(w)
	case FormatCSV:
		return r.renderCSV(w)
	case FormatMarkdown:
		return r.renderMarkdown(w)
	default:
		return r.renderSummary(w)
	}
}

func (r *Report) renderJSON(w io.Writer) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

const maxSummaryFailures = 10

func (r *Report) renderSummary(w io.Writer) error {
	s := r.Summary
	fmt.Fprintf(w, "Engine: %s\n", r.Engine)
	fmt.Fprintf(w, "Suite:  %s\n", r.Suite)
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Total:          %d\n", s.Total)
	fmt.Fprintf(w, "Passed:         %d\n", s.Passed)
	fmt.Fprintf(w, "Failed:         %d\n", s.Failed)
	fmt.Fprintf(w, "Errors:         %d\n", s.Errors)
	fmt.Fprintf(w, "Not applicable: %d\n", s.NotApplicable)
	fmt.Fprintf(w, "Skipped:        %d\n", s.Skipped)
	fmt.Fprintf(w, "Pass rate:      %.1f%%\n", s.PassRate)

	shown := 0
	for _, row := range r.Results {
		if row.Outcome != "fail" && row.Outcome != "error" {
			continue
		}
		if shown == 0 {
			fmt.Fprintf(w, "\nFailures:\n")
		}
		if shown == maxSummaryFailures {
			fmt.Fprintf(w, "  ...\n")
			break
		}
		fmt.Fprintf(w, "  [%s] %s/%s: %s\n", row.Outcome, row.TestSet, row.TestID, row.Message)
		shown++
	}
	return nil
}

// csvHeader matches the columns downstream tooling expects.
const csvHeader = "test_suite,test_set,test_id,description,outcome,message,duration_ms"

func (r *Report) renderCSV(w io.Writer) error {
	if _, err := fmt.Fprintln(w, csvHeader); err != nil {
		return err
	}
	for _, row := range r.Results {
		fields := []string{
			row.TestSuite,
			row.TestSet,
			row.TestID,
			row.Description,
			row.Outcome,
			row.Message,
			fmt.Sprintf("%.3f", row.DurationMS),
		}
		for i, f := range fields {
			fields[i] = csvQuote(f)
		}
		if _, err := fmt.Fprintln(w, strings.Join(fields, ",")); err != nil {
			return err
		}
	}
	return nil
}

// csvQuote wraps a field in quotes when it needs them, doubling any
// embedded quotes.
func csvQuote(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

const (
	maxMarkdownFailures = 100
	maxMarkdownMessage  = 50
)

func (r *Report) renderMarkdown(w io.Writer) error {
	s := r.Summary
	fmt.Fprintf(w, "# Compliance Report: %s\n\n", r.Engine)
	fmt.Fprintf(w, "Suite: %s\n\n", r.Suite)
	fmt.Fprintf(w, "Generated: %s\n\n", r.Timestamp.Format("2006-01-02 15:04:05 UTC"))

	fmt.Fprintf(w, "## Summary\n\n")
	fmt.Fprintf(w, "| Metric | Value |\n")
	fmt.Fprintf(w, "|--------|-------|\n")
	fmt.Fprintf(w, "| Total | %d |\n", s.Total)
	fmt.Fprintf(w, "| Passed | %d |\n", s.Passed)
	fmt.Fprintf(w, "| Failed | %d |\n", s.Failed)
	fmt.Fprintf(w, "| Errors | %d |\n", s.Errors)
	fmt.Fprintf(w, "| Not applicable | %d |\n", s.NotApplicable)
	fmt.Fprintf(w, "| Skipped | %d |\n", s.Skipped)
	fmt.Fprintf(w, "| Pass rate | %.1f%% |\n", s.PassRate)

	var failed []Row
	for _, row := range r.Results {
		if row.Outcome == "fail" || row.Outcome == "error" {
			failed = append(failed, row)
		}
	}
	if len(failed) == 0 {
		return nil
	}

	fmt.Fprintf(w, "\n## Failed Tests\n\n")
	fmt.Fprintf(w, "| Test Set | Test | Outcome | Message |\n")
	fmt.Fprintf(w, "|----------|------|---------|--------|\n")
	for i, row := range failed {
		if i == maxMarkdownFailures {
			break
		}
		fmt.Fprintf(w, "| %s | %s | %s | %s |\n",
			markdownEscape(row.TestSet),
			markdownEscape(row.TestID),
			row.Outcome,
			markdownEscape(truncate(row.Message, maxMarkdownMessage)))
	}
	if extra := len(failed) - maxMarkdownFailures; extra > 0 {
		fmt.Fprintf(w, "\n... and %d more failed tests\n", extra)
	}
	return nil
}

// truncate cuts on a rune boundary so multi-byte text never renders
// as a broken sequence.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func markdownEscape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
