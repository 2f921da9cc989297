package status

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// 🧪 TestDefaultFileFormatter tests the console wording of file results
func TestDefaultFileFormatter(t *testing.T) {
	tests := []struct {
		name   string
		result FileResult
		want   []string
	}{
		{
			name:   "updated",
			result: FileResult{Path: "/r/server/ServerListScreen.kt", Name: "ServerListScreen", Outcome: OutcomeUpdated},
			want:   []string{"Processed: ServerListScreen"},
		},
		{
			name:   "unchanged_uses_base_name",
			result: FileResult{Path: "/r/server/Foo.kt", Outcome: OutcomeUnchanged},
			want:   []string{"Processed: Foo.kt (unchanged)"},
		},
		{
			name:   "missing_file",
			result: FileResult{Path: "/r/server/Gone.kt", Name: "Gone", Outcome: OutcomeMissingFile},
			want:   []string{"File not found: /r/server/Gone.kt"},
		},
		{
			name: "anchor_not_found",
			result: FileResult{
				Path:    "/r/terminal/TerminalScreen.kt",
				Name:    "TerminalScreen",
				Outcome: OutcomeSkipped,
				Skips:   []Skip{{Reason: ReasonAnchorNotFound, Anchor: "@Composable fun \\w+Screen"}},
			},
			want: []string{"Could not find @Composable fun \\w+Screen in TerminalScreen"},
		},
		{
			name: "updated_with_partial_skip",
			result: FileResult{
				Name:    "A",
				Outcome: OutcomeUpdated,
				Skips:   []Skip{{Reason: ReasonAnchorNotFound, Anchor: "last import"}},
			},
			want: []string{"Processed: A", "Could not find last import in A"},
		},
		{
			name: "unsupported_target",
			result: FileResult{
				Name:    "Nope",
				Outcome: OutcomeSkipped,
				Skips:   []Skip{{Reason: ReasonUnsupportedTarget}},
			},
			want: []string{"No generated content for Nope"},
		},
		{
			name: "write_failure",
			result: FileResult{
				Path:    "/r/A.kt",
				Outcome: OutcomeFailed,
				Skips:   []Skip{{Reason: ReasonWriteFailure, Err: fmt.Errorf("permission denied")}},
			},
			want: []string{"Could not write /r/A.kt: permission denied"},
		},
	}

	f := NewDefaultFileFormatter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.FormatResult(tt.result))
		})
	}
}

func TestDefaultFileFormatter_Summary(t *testing.T) {
	report := NewReport("add-viewmodel-factories")
	report.Add(FileResult{Outcome: OutcomeUpdated})
	report.Add(FileResult{Outcome: OutcomeUpdated})
	report.Add(FileResult{Outcome: OutcomeMissingFile})

	got := NewDefaultFileFormatter().FormatSummary(report)
	assert.Equal(t, "add-viewmodel-factories: 2 updated, 0 unchanged, 0 skipped, 1 missing, 0 failed", got)

	report.Cancelled = true
	assert.Contains(t, NewDefaultFileFormatter().FormatSummary(report), "(cancelled)")
}

func TestDefaultFileFormatter_FailedWithoutSkip(t *testing.T) {
	got := NewDefaultFileFormatter().FormatResult(FileResult{Name: "A", Outcome: OutcomeFailed})
	assert.Equal(t, []string{"Failed: A: unknown error"}, got)
}
