// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package text applies offset-based edits to file content.
package text

import (
	"sort"
	"strings"
)

// ✂️ Edit replaces content[Start:End] with Text. Start == End is an insertion,
// an empty Text is a deletion.
type Edit struct {
	Start int
	End   int
	Text  string

	// Rule names the transformation that produced the edit
	Rule string
}

func (e Edit) overlaps(o Edit) bool {
	return e.Start < o.End && o.Start < e.End
}

// 📊 Result contains the outcome of applying edits
type Result struct {
	// WasModified indicates the content changed
	WasModified bool

	// EditCount is the number of edits applied
	EditCount int

	// Dropped holds edits that were out of range or overlapped an edit
	// earlier in the list
	Dropped []Edit

	// OriginalContent is the content before edits
	OriginalContent string

	// ModifiedContent is the content after edits and normalization
	ModifiedContent string
}

// 🔧 Apply applies edits to content in one pass.
//
// Edits are accepted in list order; an edit that overlaps one already
// accepted is dropped, so earlier rules win. Accepted edits are applied from
// the highest offset down, which keeps every offset valid against the
// original content. Insertions at the same offset keep list order.
//
// Blank-line runs are normalized only when something was applied, so
// content without matches comes back byte-for-byte identical.
func Apply(content string, edits []Edit) *Result {
	result := &Result{
		OriginalContent: content,
		ModifiedContent: content,
	}

	type indexed struct {
		Edit
		index int
	}

	accepted := make([]indexed, 0, len(edits))
outer:
	for i, e := range edits {
		if e.Start < 0 || e.End < e.Start || e.End > len(content) {
			result.Dropped = append(result.Dropped, e)
			continue
		}
		if content[e.Start:e.End] == e.Text {
			continue
		}
		for _, a := range accepted {
			if a.overlaps(e) {
				result.Dropped = append(result.Dropped, e)
				continue outer
			}
		}
		accepted = append(accepted, indexed{Edit: e, index: i})
	}

	if len(accepted) == 0 {
		return result
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		a, b := accepted[i], accepted[j]
		if a.Start != b.Start {
			return a.Start > b.Start
		}
		if a.End != b.End {
			return a.End > b.End
		}
		return a.index > b.index
	})

	out := content
	for _, e := range accepted {
		out = out[:e.Start] + e.Text + out[e.End:]
	}
	out = NormalizeBlankLines(out)

	result.EditCount = len(accepted)
	result.ModifiedContent = out
	result.WasModified = out != content
	return result
}

// 🧹 NormalizeBlankLines collapses every run of two or more blank lines into
// exactly one. A blank line is a whitespace-only line ending in "\n".
func NormalizeBlankLines(content string) string {
	var b strings.Builder
	b.Grow(len(content))

	run := 0
	for _, line := range strings.SplitAfter(content, "\n") {
		if strings.HasSuffix(line, "\n") && strings.TrimSpace(line) == "" {
			run++
			if run > 1 {
				continue
			}
		} else {
			run = 0
		}
		b.WriteString(line)
	}
	return b.String()
}
