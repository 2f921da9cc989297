package status

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FileFormatter defines how file results and pass summaries are worded
type FileFormatter interface {
	// FormatResult returns the console lines for one file result
	FormatResult(r FileResult) []string

	// FormatSummary returns a one-line summary of a pass
	FormatSummary(r *Report) string
}

// DefaultFileFormatter provides the wording used on the console
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatResult renders "Processed: <name>", "File not found: <path>" and
// "Could not find <anchor> in <name>" lines.
func (f *DefaultFileFormatter) FormatResult(r FileResult) []string {
	name := displayName(r)

	var lines []string
	switch r.Outcome {
	case OutcomeMissingFile:
		return []string{fmt.Sprintf("File not found: %s", r.Path)}
	case OutcomeUpdated:
		lines = append(lines, fmt.Sprintf("Processed: %s", name))
	case OutcomeUnchanged:
		lines = append(lines, fmt.Sprintf("Processed: %s (unchanged)", name))
	}

	for _, s := range r.Skips {
		lines = append(lines, formatSkip(name, r.Path, s))
	}
	if len(lines) == 0 && r.Outcome == OutcomeFailed {
		lines = append(lines, fmt.Sprintf("Failed: %s: %s", name, errorText(r.Err)))
	}
	return lines
}

// FormatSummary formats counts for a pass
func (f *DefaultFileFormatter) FormatSummary(r *Report) string {
	parts := []string{
		fmt.Sprintf("%d updated", r.Count(OutcomeUpdated)),
		fmt.Sprintf("%d unchanged", r.Count(OutcomeUnchanged)),
		fmt.Sprintf("%d skipped", r.Count(OutcomeSkipped)),
		fmt.Sprintf("%d missing", r.Count(OutcomeMissingFile)),
		fmt.Sprintf("%d failed", r.Count(OutcomeFailed)),
	}
	summary := fmt.Sprintf("%s: %s", r.Pass, strings.Join(parts, ", "))
	if r.Cancelled {
		summary += " (cancelled)"
	}
	return summary
}

func formatSkip(name, path string, s Skip) string {
	switch s.Reason {
	case ReasonAnchorNotFound:
		return fmt.Sprintf("Could not find %s in %s", s.Anchor, name)
	case ReasonAmbiguousAnchor:
		return fmt.Sprintf("Ambiguous %s in %s: %s", s.Anchor, name, errorText(s.Err))
	case ReasonUnsupportedTarget:
		return fmt.Sprintf("No generated content for %s", name)
	case ReasonOverlappingEdit:
		return fmt.Sprintf("Skipped overlapping %s edit in %s", s.Rule, name)
	case ReasonReadFailure:
		return fmt.Sprintf("Could not read %s: %s", path, errorText(s.Err))
	case ReasonWriteFailure:
		return fmt.Sprintf("Could not write %s: %s", path, errorText(s.Err))
	default:
		return fmt.Sprintf("Skipped %s in %s", s.Rule, name)
	}
}

func displayName(r FileResult) string {
	if r.Name != "" {
		return r.Name
	}
	return filepath.Base(r.Path)
}

func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
